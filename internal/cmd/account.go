// Copyright 2025 Erst Users
// SPDX-License-Identifier: Apache-2.0

package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

var trustlineSecret string

var balanceCmd = &cobra.Command{
	Use:   "balance <address>",
	Short: "Show the token balance of an address",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		bal, err := current.escrow.Balance(cmd.Context(), args[0])
		if err != nil {
			return err
		}
		_, err = fmt.Fprintln(cmd.OutOrStdout(), bal.String())
		return err
	},
}

var allowanceCmd = &cobra.Command{
	Use:   "allowance <from> <spender>",
	Short: "Show how much spender may move on behalf of from",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		allowed, err := current.escrow.Allowance(cmd.Context(), args[0], args[1])
		if err != nil {
			return err
		}
		_, err = fmt.Fprintln(cmd.OutOrStdout(), allowed.String())
		return err
	},
}

var approveCmd = &cobra.Command{
	Use:   "approve <from> <spender> <amount>",
	Short: "Approve spender to move amount on behalf of from",
	Args:  cobra.ExactArgs(3),
	RunE: func(cmd *cobra.Command, args []string) error {
		res, err := current.escrow.Approve(cmd.Context(), args[0], args[1], args[2])
		if err != nil {
			return err
		}
		printFinality(cmd.OutOrStdout(), res)
		return nil
	},
}

var trustlineCmd = &cobra.Command{
	Use:   "trustline",
	Short: "Add a trustline to the configured asset",
	Long: `Adds a trustline for escrow.trust_asset_code issued by
escrow.trust_asset_issuer to the account of the signing key. The key is
taken from --secret, or the service wallet when omitted.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		kp, err := signer(trustlineSecret)
		if err != nil {
			return err
		}
		res, err := current.escrow.EstablishTrustline(cmd.Context(), kp)
		if err != nil {
			return err
		}
		printFinality(cmd.OutOrStdout(), res)
		return nil
	},
}

func init() {
	trustlineCmd.Flags().StringVar(&trustlineSecret, "secret", "", "secret seed of the account receiving the trustline")

	rootCmd.AddCommand(balanceCmd, allowanceCmd, approveCmd, trustlineCmd)
}
