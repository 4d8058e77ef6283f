// Copyright 2025 Erst Users
// SPDX-License-Identifier: Apache-2.0

package rpc

import (
	"context"
	"fmt"

	"github.com/Tico4Chain-Coders/Trustless-Backend/internal/logger"
	"github.com/hashicorp/go-version"
	"github.com/stellar/go/txnbuild"
	"github.com/stellar/go/xdr"
)

// SimulateTransaction dry-runs a base64 transaction envelope.
func (c *Client) SimulateTransaction(ctx context.Context, envelopeXDR string) (*SimulateTransactionResponse, error) {
	var resp SimulateTransactionResponse
	if err := c.call(ctx, "simulateTransaction", transactionParams{Transaction: envelopeXDR}, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// SendTransaction submits a signed base64 transaction envelope.
func (c *Client) SendTransaction(ctx context.Context, envelopeXDR string) (*SendTransactionResponse, error) {
	var resp SendTransactionResponse
	if err := c.call(ctx, "sendTransaction", transactionParams{Transaction: envelopeXDR}, &resp); err != nil {
		return nil, err
	}
	logger.Logger.Debug("Transaction sent", "hash", resp.Hash, "status", resp.Status)
	return &resp, nil
}

// GetTransaction fetches the transaction status and full XDR data
func (c *Client) GetTransaction(ctx context.Context, hash string) (*TransactionResponse, error) {
	logger.Logger.Debug("Fetching transaction details", "hash", hash)

	var resp TransactionResponse
	if err := c.call(ctx, "getTransaction", hashParams{Hash: hash}, &resp); err != nil {
		logger.Logger.Error("Failed to fetch transaction", "hash", hash, "error", err)
		return nil, fmt.Errorf("failed to fetch transaction: %w", err)
	}
	return &resp, nil
}

// GetLedgerEntries reads raw ledger entries by base64 LedgerKey.
func (c *Client) GetLedgerEntries(ctx context.Context, keys ...string) (*LedgerEntriesResponse, error) {
	var resp LedgerEntriesResponse
	if err := c.call(ctx, "getLedgerEntries", ledgerEntriesParams{Keys: keys}, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// GetAccount loads the current sequence number of an account from the ledger.
func (c *Client) GetAccount(ctx context.Context, address string) (txnbuild.SimpleAccount, error) {
	var aid xdr.AccountId
	if err := aid.SetAddress(address); err != nil {
		return txnbuild.SimpleAccount{}, fmt.Errorf("invalid account %q: %w", address, err)
	}
	key := xdr.LedgerKey{
		Type:    xdr.LedgerEntryTypeAccount,
		Account: &xdr.LedgerKeyAccount{AccountId: aid},
	}
	keyXDR, err := xdr.MarshalBase64(key)
	if err != nil {
		return txnbuild.SimpleAccount{}, fmt.Errorf("marshal ledger key: %w", err)
	}

	resp, err := c.GetLedgerEntries(ctx, keyXDR)
	if err != nil {
		return txnbuild.SimpleAccount{}, err
	}
	if len(resp.Entries) == 0 {
		return txnbuild.SimpleAccount{}, fmt.Errorf("%s: %w", address, ErrAccountNotFound)
	}

	var data xdr.LedgerEntryData
	if err := xdr.SafeUnmarshalBase64(resp.Entries[0].XDR, &data); err != nil {
		return txnbuild.SimpleAccount{}, fmt.Errorf("decode account entry: %w", err)
	}
	account, ok := data.GetAccount()
	if !ok {
		return txnbuild.SimpleAccount{}, fmt.Errorf("ledger entry for %s is %s, not an account", address, data.Type)
	}
	return txnbuild.SimpleAccount{AccountID: address, Sequence: int64(account.SeqNum)}, nil
}

// GetNetwork returns the node's network passphrase and protocol version.
func (c *Client) GetNetwork(ctx context.Context) (*NetworkResponse, error) {
	var resp NetworkResponse
	if err := c.call(ctx, "getNetwork", nil, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// GetVersionInfo returns the node's software version.
func (c *Client) GetVersionInfo(ctx context.Context) (*VersionInfoResponse, error) {
	var resp VersionInfoResponse
	if err := c.call(ctx, "getVersionInfo", nil, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// CheckNetwork verifies the node serves the configured network and, when
// minVersion is set, runs at least that RPC version.
func (c *Client) CheckNetwork(ctx context.Context, minVersion string) (*VersionInfoResponse, error) {
	network, err := c.GetNetwork(ctx)
	if err != nil {
		return nil, err
	}
	if network.Passphrase != c.Config.NetworkPassphrase {
		return nil, fmt.Errorf("node serves %q, configured for %q", network.Passphrase, c.Config.NetworkPassphrase)
	}

	info, err := c.GetVersionInfo(ctx)
	if err != nil {
		return nil, err
	}
	if minVersion == "" {
		return info, nil
	}
	if err := checkVersion(info.Version, minVersion); err != nil {
		return info, err
	}
	return info, nil
}

func checkVersion(actual, minimum string) error {
	want, err := version.NewVersion(minimum)
	if err != nil {
		return fmt.Errorf("invalid minimum rpc version %q: %w", minimum, err)
	}
	got, err := version.NewVersion(actual)
	if err != nil {
		return fmt.Errorf("node reported unparseable version %q: %w", actual, err)
	}
	if got.Core().LessThan(want.Core()) {
		return fmt.Errorf("rpc version %s is older than required %s", got, want)
	}
	return nil
}
