// Copyright 2025 Erst Users
// SPDX-License-Identifier: Apache-2.0

package txn

import (
	"context"

	"github.com/Tico4Chain-Coders/Trustless-Backend/internal/rpc"
	"github.com/stellar/go/txnbuild"
)

// Node is the remote RPC surface the pipeline drives. *rpc.Client
// implements it.
type Node interface {
	SimulateTransaction(ctx context.Context, envelopeXDR string) (*rpc.SimulateTransactionResponse, error)
	SendTransaction(ctx context.Context, envelopeXDR string) (*rpc.SendTransactionResponse, error)
	GetTransaction(ctx context.Context, hash string) (*rpc.TransactionResponse, error)
}

// AccountSource loads an account's current sequence number.
type AccountSource interface {
	GetAccount(ctx context.Context, address string) (txnbuild.SimpleAccount, error)
}
