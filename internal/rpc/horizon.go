// Copyright 2025 Erst Users
// SPDX-License-Identifier: Apache-2.0

package rpc

import (
	"context"
	"errors"
	"fmt"

	"github.com/Tico4Chain-Coders/Trustless-Backend/internal/logger"
	"github.com/stellar/go/clients/horizonclient"
	"github.com/stellar/go/txnbuild"
)

// Account source names accepted by Client.Accounts.
const (
	AccountSourceRPC     = "rpc"
	AccountSourceHorizon = "horizon"
)

// AccountLoader loads an account's current sequence number. *Client and
// HorizonAccounts implement it.
type AccountLoader interface {
	GetAccount(ctx context.Context, address string) (txnbuild.SimpleAccount, error)
}

// Accounts returns the account loader named by source. An empty source
// means AccountSourceRPC.
func (c *Client) Accounts(source string) (AccountLoader, error) {
	switch source {
	case "", AccountSourceRPC:
		return c, nil
	case AccountSourceHorizon:
		if c.Horizon == nil {
			return nil, errors.New("horizon account source requires a horizon url")
		}
		return HorizonAccounts{Horizon: c.Horizon}, nil
	default:
		return nil, fmt.Errorf("unknown account source %q (use %q or %q)", source, AccountSourceRPC, AccountSourceHorizon)
	}
}

// HorizonAccounts loads account sequence numbers from Horizon instead of
// the Soroban RPC ledger-entry endpoint.
type HorizonAccounts struct {
	Horizon horizonclient.ClientInterface
}

// GetAccount fetches the account and its current sequence number.
func (h HorizonAccounts) GetAccount(_ context.Context, address string) (txnbuild.SimpleAccount, error) {
	logger.Logger.Debug("Loading account from horizon", "account", address)

	acc, err := h.Horizon.AccountDetail(horizonclient.AccountRequest{AccountID: address})
	if err != nil {
		if hErr := horizonclient.GetError(err); hErr != nil && hErr.Problem.Status == 404 {
			return txnbuild.SimpleAccount{}, fmt.Errorf("%s: %w", address, ErrAccountNotFound)
		}
		return txnbuild.SimpleAccount{}, fmt.Errorf("failed to load account: %w", err)
	}
	seq, err := acc.GetSequenceNumber()
	if err != nil {
		return txnbuild.SimpleAccount{}, fmt.Errorf("account %s sequence: %w", address, err)
	}
	return txnbuild.SimpleAccount{AccountID: address, Sequence: seq}, nil
}
