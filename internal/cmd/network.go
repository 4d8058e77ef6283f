// Copyright 2025 Erst Users
// SPDX-License-Identifier: Apache-2.0

package cmd

import (
	"fmt"
	"text/tabwriter"

	"github.com/Tico4Chain-Coders/Trustless-Backend/internal/visualizer"
	"github.com/spf13/cobra"
)

var networkCmd = &cobra.Command{
	Use:   "network",
	Short: "Inspect the configured network",
}

var networkCheckCmd = &cobra.Command{
	Use:   "check",
	Short: "Verify the RPC node serves the configured network and version",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		info, err := current.client.CheckNetwork(cmd.Context(), current.cfg.MinRPCVersion)
		if err != nil {
			return err
		}

		w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
		_, _ = fmt.Fprintf(w, "%s\tnetwork %s\n", visualizer.Success(), current.cfg.Network.Name)
		_, _ = fmt.Fprintf(w, "RPC:\t%s\n", current.cfg.Network.SorobanRPCURL)
		_, _ = fmt.Fprintf(w, "Version:\t%s\n", info.Version)
		_, _ = fmt.Fprintf(w, "Protocol:\t%d\n", info.ProtocolVersion)
		if info.CaptiveCoreVersion != "" {
			_, _ = fmt.Fprintf(w, "Core:\t%s\n", info.CaptiveCoreVersion)
		}
		return w.Flush()
	},
}

func init() {
	networkCmd.AddCommand(networkCheckCmd)
	rootCmd.AddCommand(networkCmd)
}
