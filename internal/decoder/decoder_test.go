// Copyright 2025 Erst Users
// SPDX-License-Identifier: Apache-2.0

package decoder

import (
	"encoding/base64"
	"testing"

	"github.com/Tico4Chain-Coders/Trustless-Backend/internal/scval"

	"github.com/stellar/go/xdr"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func createEvent(t *testing.T, fnName string, isCall bool, isReturn bool) string {
	topics := []xdr.ScVal{}
	fnSym := xdr.ScSymbol(fnName)

	if isCall {
		callSym := xdr.ScSymbol("fn_call")
		topics = append(topics, xdr.ScVal{Type: xdr.ScValTypeScvSymbol, Sym: &callSym})
		topics = append(topics, xdr.ScVal{Type: xdr.ScValTypeScvSymbol, Sym: &fnSym})
	} else if isReturn {
		retSym := xdr.ScSymbol("fn_return")
		topics = append(topics, xdr.ScVal{Type: xdr.ScValTypeScvSymbol, Sym: &retSym})
		topics = append(topics, xdr.ScVal{Type: xdr.ScValTypeScvSymbol, Sym: &fnSym})
	} else {
		logSym := xdr.ScSymbol("log")
		topics = append(topics, xdr.ScVal{Type: xdr.ScValTypeScvSymbol, Sym: &logSym})
		topics = append(topics, xdr.ScVal{Type: xdr.ScValTypeScvSymbol, Sym: &fnSym})
	}

	diag := xdr.DiagnosticEvent{
		InSuccessfulContractCall: true,
		Event: xdr.ContractEvent{
			Type: xdr.ContractEventTypeDiagnostic,
			Body: xdr.ContractEventBody{
				V: 0,
				V0: &xdr.ContractEventV0{
					Topics: topics,
					Data:   xdr.ScVal{Type: xdr.ScValTypeScvVoid},
				},
			},
		},
	}

	bytes, err := diag.MarshalBinary()
	require.NoError(t, err)
	return base64.StdEncoding.EncodeToString(bytes)
}

func TestDecodeEvents(t *testing.T) {
	// A calls B, B returns, A returns
	events := []string{
		createEvent(t, "A", true, false),
		createEvent(t, "log_in_A", false, false),
		createEvent(t, "B", true, false),
		createEvent(t, "log_in_B", false, false),
		createEvent(t, "B", false, true),
		createEvent(t, "A", false, true),
	}

	root, err := DecodeEvents(events)
	require.NoError(t, err)

	assert.Equal(t, "TOP_LEVEL", root.Function)
	require.Len(t, root.SubCalls, 1)

	nodeA := root.SubCalls[0]
	assert.Equal(t, "A", nodeA.Function)
	// Expecting 3 events: fn_call A, log_in_A, fn_return A
	require.Len(t, nodeA.Events, 3)

	assert.Equal(t, "A", nodeA.Events[0].Topics[1])
	assert.Equal(t, "log_in_A", nodeA.Events[1].Topics[1])
	assert.Equal(t, "A", nodeA.Events[2].Topics[1])

	require.Len(t, nodeA.SubCalls, 1)
	nodeB := nodeA.SubCalls[0]
	assert.Equal(t, "B", nodeB.Function)
	// Expecting 3 events: fn_call B, log_in_B, fn_return B
	assert.Len(t, nodeB.Events, 3)
}

func TestUnbalanced(t *testing.T) {
	// A calls B, B crashes (no return), A returns
	events := []string{
		createEvent(t, "A", true, false),
		createEvent(t, "B", true, false),
		createEvent(t, "A", false, true),
	}

	root, err := DecodeEvents(events)
	require.NoError(t, err)

	nodeA := root.SubCalls[0]
	assert.Equal(t, "A", nodeA.Function)

	require.Len(t, nodeA.SubCalls, 1)
	nodeB := nodeA.SubCalls[0]
	assert.Equal(t, "B", nodeB.Function)
	// B has call event, but no return event
	assert.Len(t, nodeB.Events, 1)

	// A should have call + return (no log)
	assert.Len(t, nodeA.Events, 2)
}

func TestDecodeEventsRealCallShape(t *testing.T) {
	// Host fn_call topics carry the contract id before the function name.
	callSym := xdr.ScSymbol("fn_call")
	fnSym := xdr.ScSymbol("fund_escrow")
	id := []byte{0xab, 0x12}
	raw, err := xdr.MarshalBase64(xdr.DiagnosticEvent{
		Event: xdr.ContractEvent{
			Type: xdr.ContractEventTypeDiagnostic,
			Body: xdr.ContractEventBody{V0: &xdr.ContractEventV0{
				Topics: []xdr.ScVal{
					{Type: xdr.ScValTypeScvSymbol, Sym: &callSym},
					{Type: xdr.ScValTypeScvBytes, Bytes: (*xdr.ScBytes)(&id)},
					{Type: xdr.ScValTypeScvSymbol, Sym: &fnSym},
				},
				Data: xdr.ScVal{Type: xdr.ScValTypeScvVoid},
			}},
		},
	})
	require.NoError(t, err)

	root, err := DecodeEvents([]string{raw})
	require.NoError(t, err)
	require.Len(t, root.SubCalls, 1)
	assert.Equal(t, "fund_escrow", root.SubCalls[0].Function)
	assert.Equal(t, "ab12", root.SubCalls[0].Events[0].Topics[1])
}

func TestDecodeEventsRejectsGarbage(t *testing.T) {
	_, err := DecodeEvents([]string{"not-base64"})
	assert.Error(t, err)
}

func contractEvent(t *testing.T, data scval.Value) xdr.ContractEvent {
	t.Helper()
	sc, err := scval.ToXDR(data)
	require.NoError(t, err)
	sym := xdr.ScSymbol("escrow")
	return xdr.ContractEvent{
		Type: xdr.ContractEventTypeContract,
		Body: xdr.ContractEventBody{V0: &xdr.ContractEventV0{
			Topics: []xdr.ScVal{{Type: xdr.ScValTypeScvSymbol, Sym: &sym}},
			Data:   sc,
		}},
	}
}

func metaV3(t *testing.T, ret xdr.ScVal, events ...xdr.ContractEvent) string {
	t.Helper()
	meta := xdr.TransactionMeta{
		V: 3,
		V3: &xdr.TransactionMetaV3{
			SorobanMeta: &xdr.SorobanTransactionMeta{
				Events:      events,
				ReturnValue: ret,
			},
		},
	}
	raw, err := xdr.MarshalBase64(meta)
	require.NoError(t, err)
	return raw
}

func TestLastEventData(t *testing.T) {
	void := xdr.ScVal{Type: xdr.ScValTypeScvVoid}
	raw := metaV3(t, void,
		contractEvent(t, scval.Symbol("first")),
		contractEvent(t, scval.Map{
			{Key: scval.Symbol("engagement_id"), Val: scval.Bytes{0xab, 0x12}},
			{Key: scval.Symbol("amount"), Val: scval.U128{Lo: 5_000_000}},
		}),
	)
	meta, err := DecodeMeta(raw)
	require.NoError(t, err)

	v, err := LastEventData(meta)
	require.NoError(t, err)
	m, ok := v.(scval.Map)
	require.True(t, ok)
	amount, ok := m.Get("amount")
	require.True(t, ok)
	assert.Equal(t, scval.U128{Lo: 5_000_000}, amount)
}

func TestLastEventDataNoEvents(t *testing.T) {
	meta, err := DecodeMeta(metaV3(t, xdr.ScVal{Type: xdr.ScValTypeScvVoid}))
	require.NoError(t, err)

	_, err = LastEventData(meta)
	var de *scval.DecodeError
	require.ErrorAs(t, err, &de)
	assert.Equal(t, "0 events", de.Actual)
	assert.Equal(t, "meta.v3.sorobanMeta.events", de.Path)
}

func TestLastEventDataUnsupportedPayload(t *testing.T) {
	ev := contractEvent(t, scval.Void{})
	ev.Body.V0.Data = xdr.ScVal{Type: xdr.ScValTypeScvLedgerKeyNonce, NonceKey: &xdr.ScNonceKey{}}
	meta, err := DecodeMeta(metaV3(t, xdr.ScVal{Type: xdr.ScValTypeScvVoid}, ev))
	require.NoError(t, err)

	_, err = LastEventData(meta)
	var de *scval.DecodeError
	require.ErrorAs(t, err, &de)
	assert.Equal(t, "meta.v3.sorobanMeta.events[0].body.v0.data", de.Path)
}

func TestReturnValue(t *testing.T) {
	ret, err := scval.ToXDR(scval.Vec{scval.Address("CA3D5KRYM6CB7OWQ6TWYRR3Z4T7GNZLKERYNZGGA5SOAOPIFY6YQGAXE"), scval.Bytes{0x01}})
	require.NoError(t, err)
	meta, err := DecodeMeta(metaV3(t, ret))
	require.NoError(t, err)

	v, err := ReturnValue(meta)
	require.NoError(t, err)
	vec, ok := v.(scval.Vec)
	require.True(t, ok)
	assert.Len(t, vec, 2)
}

func TestDecodeMetaRejectsEmpty(t *testing.T) {
	_, err := DecodeMeta("")
	var de *scval.DecodeError
	assert.ErrorAs(t, err, &de)
}

func TestUnsupportedMetaVersion(t *testing.T) {
	_, _, err := ContractEvents(xdr.TransactionMeta{V: 1, V1: &xdr.TransactionMetaV1{}})
	var de *scval.DecodeError
	require.ErrorAs(t, err, &de)
	assert.Equal(t, "v1", de.Actual)
}

func TestFailureText(t *testing.T) {
	code := xdr.Uint32(5)
	errSym := xdr.ScSymbol("error")
	raw, err := xdr.MarshalBase64(xdr.DiagnosticEvent{
		Event: xdr.ContractEvent{
			Type: xdr.ContractEventTypeDiagnostic,
			Body: xdr.ContractEventBody{V0: &xdr.ContractEventV0{
				Topics: []xdr.ScVal{
					{Type: xdr.ScValTypeScvSymbol, Sym: &errSym},
					{Type: xdr.ScValTypeScvError, Error: &xdr.ScError{Type: xdr.ScErrorTypeSceContract, ContractCode: &code}},
				},
				Data: xdr.ScVal{Type: xdr.ScValTypeScvVoid},
			}},
		},
	})
	require.NoError(t, err)

	text := FailureText("", []string{raw, raw, "garbage"}, "")
	assert.Equal(t, "HostError: Error(Contract, #5)", text)
}

func TestResultCode(t *testing.T) {
	res := xdr.TransactionResult{
		FeeCharged: 100,
		Result: xdr.TransactionResultResult{
			Code: xdr.TransactionResultCodeTxBadSeq,
		},
	}
	raw, err := xdr.MarshalBase64(res)
	require.NoError(t, err)
	assert.Equal(t, "txBadSeq", ResultCode(raw))
	assert.Equal(t, "", ResultCode("garbage"))
}
