// Copyright 2025 Erst Users
// SPDX-License-Identifier: Apache-2.0

package visualizer

import (
	"bytes"
	"testing"

	"github.com/Tico4Chain-Coders/Trustless-Backend/internal/decoder"
	"github.com/fatih/color"
	"github.com/stretchr/testify/assert"
)

func TestPrintCallTree(t *testing.T) {
	color.NoColor = true

	root := &decoder.CallNode{
		Function: "TOP_LEVEL",
		SubCalls: []*decoder.CallNode{{
			Function: "fund_escrow",
			Events: []decoder.DecodedEvent{
				{Type: "Diagnostic", Topics: []string{"fn_call", "fund_escrow"}, Data: "void", InSuccess: true},
				{Type: "Contract", Topics: []string{"escrow"}, Data: "{amount: 5}", InSuccess: true},
			},
		}},
	}

	var buf bytes.Buffer
	PrintCallTree(&buf, root)

	want := "TOP_LEVEL\n" +
		"└─ fund_escrow\n" +
		"   ├─ diagnostic [fn_call, fund_escrow]\n" +
		"   └─ contract [escrow] → {amount: 5}\n"
	assert.Equal(t, want, buf.String())
}

func TestColorizeUnknown(t *testing.T) {
	color.NoColor = true
	assert.Equal(t, "x", Colorize("x", "chartreuse"))
	assert.Equal(t, "x", Colorize("x", "red"))
	assert.False(t, ColorEnabled())
}
