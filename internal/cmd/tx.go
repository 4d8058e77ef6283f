// Copyright 2025 Erst Users
// SPDX-License-Identifier: Apache-2.0

package cmd

import (
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"
)

var statusWait bool

var txCmd = &cobra.Command{
	Use:   "tx",
	Short: "Submit and inspect transactions",
}

var txSubmitCmd = &cobra.Command{
	Use:   "submit <signed-xdr|->",
	Short: "Submit a signed envelope and wait for the ledger to include it",
	Long: `Submits a base64 TransactionEnvelope signed by its source account. Pass "-"
to read the envelope from stdin. The command returns once the transaction
succeeds, fails on chain or polling gives up.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		envelope := args[0]
		if envelope == "-" {
			b, err := io.ReadAll(cmd.InOrStdin())
			if err != nil {
				return fmt.Errorf("read envelope: %w", err)
			}
			envelope = string(b)
		}
		res, err := current.escrow.SubmitSigned(cmd.Context(), strings.TrimSpace(envelope))
		if err != nil {
			return err
		}
		printFinality(cmd.OutOrStdout(), res)
		return nil
	},
}

var txStatusCmd = &cobra.Command{
	Use:   "status <hash>",
	Short: "Show what the ledger knows about a transaction",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if statusWait {
			res, err := current.pipeline.Await(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			printFinality(cmd.OutOrStdout(), res)
			return nil
		}
		res, err := current.pipeline.Status(cmd.Context(), args[0])
		if err != nil {
			return err
		}
		printFinality(cmd.OutOrStdout(), res)
		return nil
	},
}

func init() {
	txStatusCmd.Flags().BoolVar(&statusWait, "wait", false, "poll until the transaction is final")

	txCmd.AddCommand(txSubmitCmd, txStatusCmd)
	rootCmd.AddCommand(txCmd)
}
