// Copyright 2025 Erst Users
// SPDX-License-Identifier: Apache-2.0

package escrow

import (
	"context"

	"github.com/Tico4Chain-Coders/Trustless-Backend/internal/logger"
	"github.com/Tico4Chain-Coders/Trustless-Backend/internal/scval"
	"github.com/Tico4Chain-Coders/Trustless-Backend/internal/txn"
	"github.com/stellar/go/keypair"
)

// Registration is a user profile stored by the escrow contract.
type Registration struct {
	Address string
	Name    string
	Email   string
}

// Register records a user profile on the escrow contract, signed by kp.
func (s *Service) Register(ctx context.Context, kp *keypair.Full, r Registration) (*txn.FinalityResult, error) {
	if !scval.ValidAddress(r.Address) {
		return nil, &txn.AssemblyError{Reason: "invalid user address"}
	}
	if r.Name == "" {
		return nil, &txn.AssemblyError{Reason: "user name is required"}
	}
	res, err := s.exec.Execute(ctx, kp, txn.Invocation{
		Contract: s.settings.ContractID,
		Function: "register",
		Args: []scval.Value{
			scval.Address(r.Address),
			scval.String(r.Name),
			scval.String(r.Email),
		},
	})
	if err != nil {
		return nil, err
	}
	logger.Logger.Info("User registered", "address", r.Address, "hash", res.Hash)
	return res, nil
}

// Login checks that address is registered and returns the user name the
// contract stored for it.
func (s *Service) Login(ctx context.Context, kp *keypair.Full, address string) (string, error) {
	if !scval.ValidAddress(address) {
		return "", &txn.AssemblyError{Reason: "invalid user address"}
	}
	res, err := s.exec.Execute(ctx, kp, txn.Invocation{
		Contract: s.settings.ContractID,
		Function: "login",
		Args:     []scval.Value{scval.Address(address)},
	})
	if err != nil {
		return "", err
	}
	ret, err := res.ReturnValue()
	if err != nil {
		return "", err
	}
	return DecodeUserName(ret)
}

// DecodeUserName maps the login return value, the registered name.
func DecodeUserName(ret scval.Value) (string, error) {
	return scval.Text(ret, "returnValue")
}
