// Copyright 2025 Erst Users
// SPDX-License-Identifier: Apache-2.0

package cmd

import (
	"context"
	"fmt"

	"github.com/Tico4Chain-Coders/Trustless-Backend/internal/escrow"
	"github.com/spf13/cobra"
)

var (
	escrowContract string
	escrowSigner   string
	escrowInit     escrow.InitParams
)

var escrowCmd = &cobra.Command{
	Use:   "escrow",
	Short: "Create, move and inspect escrows",
}

var escrowGetCmd = &cobra.Command{
	Use:   "get <engagement-id>",
	Short: "Read an escrow through the service wallet",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		e, err := current.escrow.Get(cmd.Context(), escrowContract, args[0])
		if err != nil {
			return err
		}
		return printJSON(cmd.OutOrStdout(), e)
	},
}

var escrowInitCmd = &cobra.Command{
	Use:   "init",
	Short: "Build an unsigned envelope that initializes an escrow",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		p := escrowInit
		p.Contract = escrowContract
		xdr, err := current.escrow.Initialize(cmd.Context(), p)
		if err != nil {
			return err
		}
		_, err = fmt.Fprintln(cmd.OutOrStdout(), xdr)
		return err
	},
}

var escrowDeployCmd = &cobra.Command{
	Use:   "deploy",
	Short: "Deploy and initialize a new escrow contract",
	Long: `Deploys a fresh escrow contract from the configured wasm hash through the
deployer contract and initializes it in the same call. The service wallet
signs and pays.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		dep, err := current.escrow.Deploy(cmd.Context(), escrowInit)
		if err != nil {
			return err
		}
		return printJSON(cmd.OutOrStdout(), dep)
	},
}

// custodyCommand builds a subcommand that prints an unsigned envelope for
// one of the single-escrow calls.
func custodyCommand(use, short string, build func(*escrow.Service, context.Context, escrow.Call) (string, error)) *cobra.Command {
	return &cobra.Command{
		Use:   use + " <engagement-id>",
		Short: short,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			xdr, err := build(current.escrow, cmd.Context(), escrow.Call{
				Contract:     escrowContract,
				EngagementID: args[0],
				Signer:       escrowSigner,
			})
			if err != nil {
				return err
			}
			_, err = fmt.Fprintln(cmd.OutOrStdout(), xdr)
			return err
		},
	}
}

func init() {
	escrowCmd.PersistentFlags().StringVar(&escrowContract, "contract", "", "escrow contract id (defaults to escrow.contract_id)")

	for _, c := range []*cobra.Command{escrowInitCmd, escrowDeployCmd} {
		c.Flags().StringVar(&escrowInit.EngagementID, "engagement-id", "", "engagement id")
		c.Flags().StringVar(&escrowInit.Description, "description", "", "free-form description")
		c.Flags().StringVar(&escrowInit.ServiceProvider, "service-provider", "", "service provider address")
		c.Flags().StringVar(&escrowInit.Amount, "amount", "", "escrow amount as a decimal")
		c.Flags().StringVar(&escrowInit.Signer, "signer", "", "signer address")
		_ = c.MarkFlagRequired("engagement-id")
		_ = c.MarkFlagRequired("service-provider")
		_ = c.MarkFlagRequired("amount")
		_ = c.MarkFlagRequired("signer")
	}

	custody := []*cobra.Command{
		custodyCommand("fund", "Build an unsigned envelope funding an escrow", (*escrow.Service).Fund),
		custodyCommand("complete", "Build an unsigned envelope completing an escrow", (*escrow.Service).Complete),
		custodyCommand("refund", "Build an unsigned envelope refunding the remaining funds", (*escrow.Service).Refund),
		custodyCommand("cancel", "Build an unsigned envelope cancelling an escrow", (*escrow.Service).Cancel),
	}
	for _, c := range custody {
		c.Flags().StringVar(&escrowSigner, "signer", "", "signer address")
		_ = c.MarkFlagRequired("signer")
		escrowCmd.AddCommand(c)
	}

	escrowCmd.AddCommand(escrowGetCmd, escrowInitCmd, escrowDeployCmd)
	rootCmd.AddCommand(escrowCmd)
}
