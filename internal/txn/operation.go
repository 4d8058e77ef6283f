// Copyright 2025 Erst Users
// SPDX-License-Identifier: Apache-2.0

package txn

import (
	"fmt"

	"github.com/Tico4Chain-Coders/Trustless-Backend/internal/scval"
	"github.com/stellar/go/txnbuild"
	"github.com/stellar/go/xdr"
)

// Operation is one entry of an envelope: a contract invocation or a native
// ledger operation. Values are immutable once constructed.
type Operation interface {
	// Name identifies the operation in logs and spans.
	Name() string
	build() (txnbuild.Operation, error)
}

// Invocation calls Function on the contract at Contract (a C... strkey).
type Invocation struct {
	Contract string
	Function string
	Args     []scval.Value
}

func (i Invocation) Name() string { return i.Function }

func (i Invocation) build() (txnbuild.Operation, error) {
	if i.Function == "" || len(i.Function) > 32 {
		return nil, fmt.Errorf("function name %q must be 1-32 characters", i.Function)
	}
	addr, err := scval.EncodeAddress(i.Contract)
	if err != nil {
		return nil, fmt.Errorf("contract address: %w", err)
	}
	args, err := scval.ToXDRSlice(i.Args)
	if err != nil {
		return nil, fmt.Errorf("arguments of %s: %w", i.Function, err)
	}
	return &txnbuild.InvokeHostFunction{
		HostFunction: xdr.HostFunction{
			Type: xdr.HostFunctionTypeHostFunctionTypeInvokeContract,
			InvokeContract: &xdr.InvokeContractArgs{
				ContractAddress: addr,
				FunctionName:    xdr.ScSymbol(i.Function),
				Args:            args,
			},
		},
	}, nil
}

// ChangeTrust establishes or updates a trustline to a credit asset. An
// empty Limit means the maximum limit.
type ChangeTrust struct {
	Code   string
	Issuer string
	Limit  string
}

func (c ChangeTrust) Name() string { return "change_trust" }

func (c ChangeTrust) build() (txnbuild.Operation, error) {
	line, err := txnbuild.CreditAsset{Code: c.Code, Issuer: c.Issuer}.ToChangeTrustAsset()
	if err != nil {
		return nil, fmt.Errorf("trust asset %s: %w", c.Code, err)
	}
	return &txnbuild.ChangeTrust{Line: line, Limit: c.Limit}, nil
}

func isInvocation(op txnbuild.Operation) bool {
	_, ok := op.(*txnbuild.InvokeHostFunction)
	return ok
}
