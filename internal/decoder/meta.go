// Copyright 2025 Erst Users
// SPDX-License-Identifier: Apache-2.0

// Package decoder turns transaction metadata and results returned by the
// ledger into typed values.
package decoder

import (
	"fmt"
	"strconv"

	"github.com/Tico4Chain-Coders/Trustless-Backend/internal/scval"
	"github.com/stellar/go/xdr"
)

// DecodeMeta parses a base64 TransactionMeta.
func DecodeMeta(b64 string) (xdr.TransactionMeta, error) {
	var meta xdr.TransactionMeta
	if b64 == "" {
		return meta, &scval.DecodeError{Expected: "transaction meta", Actual: "empty", Path: "meta"}
	}
	if err := xdr.SafeUnmarshalBase64(b64, &meta); err != nil {
		return meta, fmt.Errorf("decode transaction meta: %w", err)
	}
	return meta, nil
}

// ContractEvents returns the contract events emitted by a Soroban
// transaction, in emission order, together with the path they live at.
func ContractEvents(meta xdr.TransactionMeta) ([]xdr.ContractEvent, string, error) {
	switch meta.V {
	case 3:
		v3 := meta.MustV3()
		if v3.SorobanMeta == nil {
			return nil, "", &scval.DecodeError{Expected: "soroban meta", Actual: "absent", Path: "meta.v3.sorobanMeta"}
		}
		return v3.SorobanMeta.Events, "meta.v3.sorobanMeta.events", nil
	case 4:
		v4 := meta.MustV4()
		var events []xdr.ContractEvent
		for _, op := range v4.Operations {
			events = append(events, op.Events...)
		}
		return events, "meta.v4.operations.events", nil
	default:
		return nil, "", &scval.DecodeError{
			Expected: "transaction meta v3 or v4",
			Actual:   "v" + strconv.Itoa(int(meta.V)),
			Path:     "meta",
		}
	}
}

// LastEventData decodes the data payload of the last contract event.
//
// The escrow contract emits the event describing the call's result after
// every other event, so "last" is a property of that contract's emission
// order and not a general rule for Soroban transactions.
func LastEventData(meta xdr.TransactionMeta) (scval.Value, error) {
	events, path, err := ContractEvents(meta)
	if err != nil {
		return nil, err
	}
	if len(events) == 0 {
		return nil, &scval.DecodeError{Expected: "at least one contract event", Actual: "0 events", Path: path}
	}
	last := len(events) - 1
	return EventData(events[last], scval.Index(path, last))
}

// EventData decodes the data payload of one contract event.
func EventData(ev xdr.ContractEvent, path string) (scval.Value, error) {
	if ev.Body.V != 0 || ev.Body.V0 == nil {
		return nil, &scval.DecodeError{
			Expected: "event body v0",
			Actual:   "v" + strconv.Itoa(int(ev.Body.V)),
			Path:     scval.Field(path, "body"),
		}
	}
	return scval.DecodeAt(ev.Body.V0.Data, scval.Field(path, "body.v0.data"))
}

// ReturnValue decodes the value returned by the invoked contract function.
func ReturnValue(meta xdr.TransactionMeta) (scval.Value, error) {
	switch meta.V {
	case 3:
		v3 := meta.MustV3()
		if v3.SorobanMeta == nil {
			return nil, &scval.DecodeError{Expected: "soroban meta", Actual: "absent", Path: "meta.v3.sorobanMeta"}
		}
		return scval.DecodeAt(v3.SorobanMeta.ReturnValue, "meta.v3.sorobanMeta.returnValue")
	case 4:
		v4 := meta.MustV4()
		if v4.SorobanMeta == nil || v4.SorobanMeta.ReturnValue == nil {
			return nil, &scval.DecodeError{Expected: "return value", Actual: "absent", Path: "meta.v4.sorobanMeta.returnValue"}
		}
		return scval.DecodeAt(*v4.SorobanMeta.ReturnValue, "meta.v4.sorobanMeta.returnValue")
	default:
		return nil, &scval.DecodeError{
			Expected: "transaction meta v3 or v4",
			Actual:   "v" + strconv.Itoa(int(meta.V)),
			Path:     "meta",
		}
	}
}

// DiagnosticEvents returns the diagnostic events recorded in meta, if any.
func DiagnosticEvents(meta xdr.TransactionMeta) []xdr.DiagnosticEvent {
	switch meta.V {
	case 3:
		if sm := meta.MustV3().SorobanMeta; sm != nil {
			return sm.DiagnosticEvents
		}
	case 4:
		return meta.MustV4().DiagnosticEvents
	}
	return nil
}
