// Copyright 2025 Erst Users
// SPDX-License-Identifier: Apache-2.0

package cmd

import (
	"fmt"

	"github.com/Tico4Chain-Coders/Trustless-Backend/internal/escrow"
	"github.com/spf13/cobra"
)

var (
	userSecret string
	userReg    escrow.Registration
)

var userCmd = &cobra.Command{
	Use:   "user",
	Short: "Register and look up users on the escrow contract",
}

var userRegisterCmd = &cobra.Command{
	Use:   "register <address>",
	Short: "Register a user profile",
	Long: `Stores the name and email of a user address on the escrow contract. The
transaction is signed by --secret, or the service wallet when omitted.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		kp, err := signer(userSecret)
		if err != nil {
			return err
		}
		reg := userReg
		reg.Address = args[0]
		res, err := current.escrow.Register(cmd.Context(), kp, reg)
		if err != nil {
			return err
		}
		printFinality(cmd.OutOrStdout(), res)
		return nil
	},
}

var userLoginCmd = &cobra.Command{
	Use:   "login <address>",
	Short: "Print the registered name of a user",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		kp, err := signer(userSecret)
		if err != nil {
			return err
		}
		name, err := current.escrow.Login(cmd.Context(), kp, args[0])
		if err != nil {
			return err
		}
		_, err = fmt.Fprintln(cmd.OutOrStdout(), name)
		return err
	},
}

func init() {
	userCmd.PersistentFlags().StringVar(&userSecret, "secret", "", "secret seed signing the call")
	userRegisterCmd.Flags().StringVar(&userReg.Name, "name", "", "user name")
	userRegisterCmd.Flags().StringVar(&userReg.Email, "email", "", "user email")
	_ = userRegisterCmd.MarkFlagRequired("name")

	userCmd.AddCommand(userRegisterCmd, userLoginCmd)
	rootCmd.AddCommand(userCmd)
}
