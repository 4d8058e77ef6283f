// Copyright 2025 Erst Users
// SPDX-License-Identifier: Apache-2.0

package txn

import (
	"context"
	"fmt"

	"github.com/Tico4Chain-Coders/Trustless-Backend/internal/contracterr"
	"github.com/Tico4Chain-Coders/Trustless-Backend/internal/logger"
	"github.com/Tico4Chain-Coders/Trustless-Backend/internal/rpc"
	"github.com/stellar/go/txnbuild"
	"github.com/stellar/go/xdr"
)

// Preparer simulates envelopes and merges the node's resource estimate
// into them.
type Preparer struct {
	node  Node
	retry RetryPolicy
}

func NewPreparer(node Node, retry RetryPolicy) *Preparer {
	return &Preparer{node: node, retry: retry}
}

// Prepare simulates env and, on success, sets its Soroban resource data,
// authorization entries and fee (base fee plus the minimum resource fee).
// Envelopes without a contract invocation have nothing to simulate and are
// left untouched. Prepare must run before Sign.
func (p *Preparer) Prepare(ctx context.Context, env *Envelope) error {
	if env.submitted {
		return ErrEnvelopeSubmitted
	}
	if env.Signatures() > 0 {
		return ErrEnvelopeSigned
	}
	if !env.hasInvocation() {
		logger.Logger.Debug("Skipping simulation for envelope without contract invocation", "source", env.source)
		env.prepared = true
		return nil
	}

	b64, err := env.Base64()
	if err != nil {
		return &AssemblyError{Reason: "encode envelope", Err: err}
	}

	var resp *rpc.SimulateTransactionResponse
	err = p.retry.do(ctx, "simulate", func() error {
		r, err := p.node.SimulateTransaction(ctx, b64)
		if err != nil {
			return err
		}
		resp = r
		return nil
	})
	if err != nil {
		return &PreparationError{Err: err}
	}
	if resp.Error != "" {
		tr := contracterr.Translate(resp.Error)
		logger.Logger.Warn("Simulation rejected invocation", "code", tr.Code, "message", tr.Message)
		return &PreparationError{Diagnostic: resp.Error, Translation: tr}
	}
	if resp.RestorePreamble != nil {
		return &PreparationError{Diagnostic: "archived ledger entries must be restored before this invocation"}
	}

	var data xdr.SorobanTransactionData
	if err := xdr.SafeUnmarshalBase64(resp.TransactionData, &data); err != nil {
		return &PreparationError{Err: fmt.Errorf("decode transaction data: %w", err)}
	}
	if int64(data.ResourceFee) < resp.MinResourceFee {
		data.ResourceFee = xdr.Int64(resp.MinResourceFee)
	}
	var auth []xdr.SorobanAuthorizationEntry
	if len(resp.Results) > 0 {
		for i, raw := range resp.Results[0].Auth {
			var entry xdr.SorobanAuthorizationEntry
			if err := xdr.SafeUnmarshalBase64(raw, &entry); err != nil {
				return &PreparationError{Err: fmt.Errorf("decode auth entry %d: %w", i, err)}
			}
			auth = append(auth, entry)
		}
	}

	for _, op := range env.built {
		invoke, ok := op.(*txnbuild.InvokeHostFunction)
		if !ok {
			continue
		}
		if len(invoke.Auth) == 0 {
			invoke.Auth = auth
		}
		invoke.Ext = xdr.TransactionExt{V: 1, SorobanData: &data}
	}
	env.resourceFee = int64(data.ResourceFee)
	if err := env.build(); err != nil {
		return err
	}
	env.prepared = true

	logger.Logger.Debug("Envelope prepared",
		"resource_fee", env.resourceFee,
		"fee", env.Fee(),
		"auth_entries", len(auth),
	)
	return nil
}
