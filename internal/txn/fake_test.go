// Copyright 2025 Erst Users
// SPDX-License-Identifier: Apache-2.0

package txn

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/Tico4Chain-Coders/Trustless-Backend/internal/rpc"
	"github.com/Tico4Chain-Coders/Trustless-Backend/internal/scval"
	"github.com/stellar/go/keypair"
	"github.com/stellar/go/txnbuild"
	"github.com/stellar/go/xdr"
	"github.com/stretchr/testify/require"
)

const (
	testPassphrase = "Test SDF Network ; September 2015"
	testContract   = "CA3D5KRYM6CB7OWQ6TWYRR3Z4T7GNZLKERYNZGGA5SOAOPIFY6YQGAXE"
)

var fastRetry = RetryPolicy{MaxAttempts: 3, InitialInterval: time.Millisecond, MaxInterval: time.Millisecond}

type sendReply struct {
	resp *rpc.SendTransactionResponse
	err  error
}

// fakeNode replays scripted replies. The last transaction reply repeats
// once the script is exhausted.
type fakeNode struct {
	mu sync.Mutex

	simulate func(envelope string) (*rpc.SimulateTransactionResponse, error)
	sends    []sendReply
	txs      []*rpc.TransactionResponse

	simulated []string
	sent      []string
	queries   int
}

func (f *fakeNode) SimulateTransaction(_ context.Context, envelope string) (*rpc.SimulateTransactionResponse, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.simulated = append(f.simulated, envelope)
	if f.simulate == nil {
		return &rpc.SimulateTransactionResponse{TransactionData: emptySorobanData()}, nil
	}
	return f.simulate(envelope)
}

func (f *fakeNode) SendTransaction(_ context.Context, envelope string) (*rpc.SendTransactionResponse, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.sent = append(f.sent, envelope)
	if len(f.sends) == 0 {
		return &rpc.SendTransactionResponse{Status: rpc.SendStatusPending}, nil
	}
	r := f.sends[0]
	if len(f.sends) > 1 {
		f.sends = f.sends[1:]
	}
	return r.resp, r.err
}

func (f *fakeNode) GetTransaction(_ context.Context, hash string) (*rpc.TransactionResponse, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.queries++
	if len(f.txs) == 0 {
		return &rpc.TransactionResponse{Status: rpc.TxStatusNotFound}, nil
	}
	r := *f.txs[0]
	if len(f.txs) > 1 {
		f.txs = f.txs[1:]
	}
	r.TxHash = hash
	return &r, nil
}

type fakeAccounts struct {
	sequence int64
	err      error
}

func (a fakeAccounts) GetAccount(_ context.Context, address string) (txnbuild.SimpleAccount, error) {
	if a.err != nil {
		return txnbuild.SimpleAccount{}, a.err
	}
	return txnbuild.SimpleAccount{AccountID: address, Sequence: a.sequence}, nil
}

func emptySorobanData() string {
	return sorobanData(0)
}

// sorobanData returns simulated transaction data charging resourceFee.
func sorobanData(resourceFee int64) string {
	raw, err := xdr.MarshalBase64(xdr.SorobanTransactionData{ResourceFee: xdr.Int64(resourceFee)})
	if err != nil {
		panic(err)
	}
	return raw
}

func newKey(t *testing.T) *keypair.Full {
	t.Helper()
	kp, err := keypair.Random()
	require.NoError(t, err)
	return kp
}

func invocation(args ...scval.Value) Invocation {
	return Invocation{Contract: testContract, Function: "fund_escrow", Args: args}
}

func successMeta(t *testing.T, data scval.Value) string {
	t.Helper()
	sc, err := scval.ToXDR(data)
	require.NoError(t, err)
	topic := xdr.ScSymbol("escrow")
	meta := xdr.TransactionMeta{
		V: 3,
		V3: &xdr.TransactionMetaV3{
			SorobanMeta: &xdr.SorobanTransactionMeta{
				Events: []xdr.ContractEvent{{
					Type: xdr.ContractEventTypeContract,
					Body: xdr.ContractEventBody{V0: &xdr.ContractEventV0{
						Topics: []xdr.ScVal{{Type: xdr.ScValTypeScvSymbol, Sym: &topic}},
						Data:   sc,
					}},
				}},
				ReturnValue: xdr.ScVal{Type: xdr.ScValTypeScvVoid},
			},
		},
	}
	raw, err := xdr.MarshalBase64(meta)
	require.NoError(t, err)
	return raw
}

func contractErrorEvent(t *testing.T, code uint32) string {
	t.Helper()
	c := xdr.Uint32(code)
	topic := xdr.ScSymbol("error")
	raw, err := xdr.MarshalBase64(xdr.DiagnosticEvent{
		Event: xdr.ContractEvent{
			Type: xdr.ContractEventTypeDiagnostic,
			Body: xdr.ContractEventBody{V0: &xdr.ContractEventV0{
				Topics: []xdr.ScVal{
					{Type: xdr.ScValTypeScvSymbol, Sym: &topic},
					{Type: xdr.ScValTypeScvError, Error: &xdr.ScError{Type: xdr.ScErrorTypeSceContract, ContractCode: &c}},
				},
				Data: xdr.ScVal{Type: xdr.ScValTypeScvVoid},
			}},
		},
	})
	require.NoError(t, err)
	return raw
}

func resultXDR(t *testing.T, code xdr.TransactionResultCode) string {
	t.Helper()
	res := xdr.TransactionResult{
		FeeCharged: 100,
		Result:     xdr.TransactionResultResult{Code: code},
	}
	if code == xdr.TransactionResultCodeTxFailed || code == xdr.TransactionResultCodeTxSuccess {
		res.Result.Results = &[]xdr.OperationResult{}
	}
	raw, err := xdr.MarshalBase64(res)
	require.NoError(t, err)
	return raw
}
