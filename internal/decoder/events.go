// Copyright 2025 Erst Users
// SPDX-License-Identifier: Apache-2.0

package decoder

import (
	"fmt"
	"strings"

	"github.com/Tico4Chain-Coders/Trustless-Backend/internal/contracterr"
	"github.com/Tico4Chain-Coders/Trustless-Backend/internal/scval"
	"github.com/stellar/go/strkey"
	"github.com/stellar/go/xdr"
)

const (
	topicCall   = "fn_call"
	topicReturn = "fn_return"
	rootName    = "TOP_LEVEL"
)

// DecodedEvent is a diagnostic or contract event rendered for display.
type DecodedEvent struct {
	Type       string
	ContractID string
	Topics     []string
	Data       string
	InSuccess  bool
}

// CallNode groups the events emitted while one contract function was on
// the call stack.
type CallNode struct {
	Function string
	Events   []DecodedEvent
	SubCalls []*CallNode
}

// DecodeEvents builds a call tree from base64 DiagnosticEvent XDR.
// A call whose return never arrives is closed when an enclosing function
// returns.
func DecodeEvents(events []string) (*CallNode, error) {
	root := &CallNode{Function: rootName}
	stack := []*CallNode{root}

	for i, raw := range events {
		var diag xdr.DiagnosticEvent
		if err := xdr.SafeUnmarshalBase64(raw, &diag); err != nil {
			return nil, fmt.Errorf("diagnostic event %d: %w", i, err)
		}
		ev := RenderEvent(diag.Event)
		ev.InSuccess = diag.InSuccessfulContractCall

		switch marker(ev) {
		case topicCall:
			node := &CallNode{Function: ev.Topics[len(ev.Topics)-1], Events: []DecodedEvent{ev}}
			top := stack[len(stack)-1]
			top.SubCalls = append(top.SubCalls, node)
			stack = append(stack, node)
		case topicReturn:
			name := ev.Topics[len(ev.Topics)-1]
			j := len(stack) - 1
			for j > 0 && stack[j].Function != name {
				j--
			}
			if j == 0 {
				top := stack[len(stack)-1]
				top.Events = append(top.Events, ev)
				continue
			}
			stack[j].Events = append(stack[j].Events, ev)
			stack = stack[:j]
		default:
			top := stack[len(stack)-1]
			top.Events = append(top.Events, ev)
		}
	}
	return root, nil
}

func marker(ev DecodedEvent) string {
	if len(ev.Topics) < 2 {
		return ""
	}
	switch ev.Topics[0] {
	case topicCall, topicReturn:
		return ev.Topics[0]
	}
	return ""
}

// RenderEvent formats a contract event's topics and data. It never fails;
// values the codec cannot represent are shown by type name.
func RenderEvent(ev xdr.ContractEvent) DecodedEvent {
	out := DecodedEvent{Type: strings.TrimPrefix(ev.Type.String(), "ContractEventType")}
	if ev.ContractId != nil {
		if id, err := strkey.Encode(strkey.VersionByteContract, ev.ContractId[:]); err == nil {
			out.ContractID = id
		}
	}
	if ev.Body.V != 0 || ev.Body.V0 == nil {
		return out
	}
	for _, topic := range ev.Body.V0.Topics {
		out.Topics = append(out.Topics, Render(topic))
	}
	out.Data = Render(ev.Body.V0.Data)
	return out
}

// Render formats a single ScVal for display.
func Render(sc xdr.ScVal) string {
	if sc.Type == xdr.ScValTypeScvError && sc.Error != nil {
		return renderError(*sc.Error)
	}
	if sc.Type == xdr.ScValTypeScvVec && sc.Vec != nil && *sc.Vec != nil {
		parts := make([]string, 0, len(**sc.Vec))
		for _, item := range **sc.Vec {
			parts = append(parts, Render(item))
		}
		return "[" + strings.Join(parts, ", ") + "]"
	}
	v, err := scval.FromXDR(sc)
	if err != nil {
		return strings.TrimPrefix(sc.Type.String(), "ScValTypeScv")
	}
	return scval.Format(v)
}

func renderError(e xdr.ScError) string {
	if e.Type == xdr.ScErrorTypeSceContract && e.ContractCode != nil {
		return contracterr.Format(uint32(*e.ContractCode))
	}
	kind := strings.TrimPrefix(e.Type.String(), "ScErrorTypeSce")
	if e.Code != nil {
		return fmt.Sprintf("Error(%s, %s)", kind, strings.TrimPrefix(e.Code.String(), "ScErrorCodeScec"))
	}
	return fmt.Sprintf("Error(%s)", kind)
}
