// Copyright 2025 Erst Users
// SPDX-License-Identifier: Apache-2.0

package decoder

import (
	"strings"

	"github.com/Tico4Chain-Coders/Trustless-Backend/internal/contracterr"
	"github.com/stellar/go/xdr"
)

// FailureText assembles a diagnostic message for a transaction that was
// rejected or failed on-chain. The result code comes first, followed by
// every contract error found in the diagnostic events, each formatted as
// "Error(Contract, #N)" so contracterr.Translate can pick it up.
func FailureText(resultXDR string, diagnostics []string, metaXDR string) string {
	var parts []string
	if code := ResultCode(resultXDR); code != "" {
		parts = append(parts, code)
	}

	var events []xdr.DiagnosticEvent
	for _, raw := range diagnostics {
		var d xdr.DiagnosticEvent
		if err := xdr.SafeUnmarshalBase64(raw, &d); err == nil {
			events = append(events, d)
		}
	}
	if metaXDR != "" {
		if meta, err := DecodeMeta(metaXDR); err == nil {
			events = append(events, DiagnosticEvents(meta)...)
		}
	}

	seen := map[uint32]bool{}
	for _, d := range events {
		for _, code := range eventContractErrors(d.Event) {
			if seen[code] {
				continue
			}
			seen[code] = true
			parts = append(parts, "HostError: "+contracterr.Format(code))
		}
	}
	return strings.Join(parts, "; ")
}

// ResultCode returns the transaction result code and, when present, the
// first operation's result code, e.g. "txFailed: invokeHostFunctionTrapped".
// It returns "" when resultXDR is empty or unparseable.
func ResultCode(resultXDR string) string {
	if resultXDR == "" {
		return ""
	}
	var res xdr.TransactionResult
	if err := xdr.SafeUnmarshalBase64(resultXDR, &res); err != nil {
		return ""
	}
	code := lowerFirst(strings.TrimPrefix(res.Result.Code.String(), "TransactionResultCode"))
	ops, ok := res.Result.GetResults()
	if !ok || len(ops) == 0 || ops[0].Tr == nil {
		return code
	}
	if r, ok := ops[0].Tr.GetInvokeHostFunctionResult(); ok {
		return code + ": " + lowerFirst(strings.TrimPrefix(r.Code.String(), "InvokeHostFunctionResultCode"))
	}
	if r, ok := ops[0].Tr.GetChangeTrustResult(); ok {
		return code + ": " + lowerFirst(strings.TrimPrefix(r.Code.String(), "ChangeTrustResultCode"))
	}
	return code
}

func eventContractErrors(ev xdr.ContractEvent) []uint32 {
	if ev.Body.V != 0 || ev.Body.V0 == nil {
		return nil
	}
	var codes []uint32
	for _, t := range ev.Body.V0.Topics {
		codes = collectContractErrors(t, codes)
	}
	return collectContractErrors(ev.Body.V0.Data, codes)
}

func collectContractErrors(sc xdr.ScVal, acc []uint32) []uint32 {
	switch sc.Type {
	case xdr.ScValTypeScvError:
		if sc.Error != nil && sc.Error.Type == xdr.ScErrorTypeSceContract && sc.Error.ContractCode != nil {
			acc = append(acc, uint32(*sc.Error.ContractCode))
		}
	case xdr.ScValTypeScvVec:
		if sc.Vec != nil && *sc.Vec != nil {
			for _, item := range **sc.Vec {
				acc = collectContractErrors(item, acc)
			}
		}
	}
	return acc
}

func lowerFirst(s string) string {
	if s == "" {
		return s
	}
	return strings.ToLower(s[:1]) + s[1:]
}
