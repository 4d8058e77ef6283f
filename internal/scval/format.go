// Copyright 2025 Erst Users
// SPDX-License-Identifier: Apache-2.0

package scval

import (
	"encoding/hex"
	"strconv"
	"strings"
)

// Format renders v for humans: symbols and strings bare, bytes as hex,
// vectors as [a, b] and maps as {k: v}.
func Format(v Value) string {
	var b strings.Builder
	format(&b, v)
	return b.String()
}

func format(b *strings.Builder, v Value) {
	switch t := v.(type) {
	case Void:
		b.WriteString("void")
	case Bool:
		b.WriteString(strconv.FormatBool(bool(t)))
	case U32:
		b.WriteString(strconv.FormatUint(uint64(t), 10))
	case I32:
		b.WriteString(strconv.FormatInt(int64(t), 10))
	case U64:
		b.WriteString(strconv.FormatUint(uint64(t), 10))
	case I64:
		b.WriteString(strconv.FormatInt(int64(t), 10))
	case U128:
		b.WriteString(t.Big().String())
	case I128:
		b.WriteString(t.Big().String())
	case Bytes:
		b.WriteString(hex.EncodeToString(t))
	case String:
		b.WriteString(string(t))
	case Symbol:
		b.WriteString(string(t))
	case Address:
		b.WriteString(string(t))
	case Vec:
		b.WriteByte('[')
		for i, item := range t {
			if i > 0 {
				b.WriteString(", ")
			}
			format(b, item)
		}
		b.WriteByte(']')
	case Map:
		b.WriteByte('{')
		for i, e := range t {
			if i > 0 {
				b.WriteString(", ")
			}
			format(b, e.Key)
			b.WriteString(": ")
			format(b, e.Val)
		}
		b.WriteByte('}')
	default:
		b.WriteString(describe(v))
	}
}
