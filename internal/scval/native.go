// Copyright 2025 Erst Users
// SPDX-License-Identifier: Apache-2.0

package scval

import (
	"fmt"
	"math/big"

	"github.com/Tico4Chain-Coders/Trustless-Backend/internal/amount"
)

// NativeEntry is one pair of a decoded map, in wire order.
type NativeEntry struct {
	Key any
	Val any
}

// FromNative converts a host value into a Value. Text becomes String; use
// Symbol explicitly for function and field names. Integers wider than 64 bits
// use the 128-bit variants.
func FromNative(x any) (Value, error) {
	switch t := x.(type) {
	case nil:
		return Void{}, nil
	case Value:
		return t, nil
	case bool:
		return Bool(t), nil
	case uint32:
		return U32(t), nil
	case int32:
		return I32(t), nil
	case uint64:
		return U64(t), nil
	case int64:
		return I64(t), nil
	case int:
		return I64(t), nil
	case *big.Int:
		return FromBig(t)
	case string:
		return String(t), nil
	case []byte:
		return append(Bytes{}, t...), nil
	case []any:
		out := make(Vec, 0, len(t))
		for i, item := range t {
			v, err := FromNative(item)
			if err != nil {
				return nil, fmt.Errorf("[%d]: %w", i, err)
			}
			out = append(out, v)
		}
		return out, nil
	case []NativeEntry:
		out := make(Map, 0, len(t))
		for i, e := range t {
			k, err := FromNative(e.Key)
			if err != nil {
				return nil, fmt.Errorf("[%d].key: %w", i, err)
			}
			v, err := FromNative(e.Val)
			if err != nil {
				return nil, fmt.Errorf("[%d].val: %w", i, err)
			}
			out = append(out, MapEntry{Key: k, Val: v})
		}
		return out, nil
	default:
		return nil, fmt.Errorf("unsupported native type %T", x)
	}
}

// FromBig picks the narrowest of U64, I64, U128 and I128 able to hold n.
func FromBig(n *big.Int) (Value, error) {
	if n.Sign() >= 0 {
		if n.IsUint64() {
			return U64(n.Uint64()), nil
		}
		return U128FromBig(n)
	}
	if n.IsInt64() {
		return I64(n.Int64()), nil
	}
	return I128FromBig(n)
}

// U128FromBig splits a non-negative integer below 2^128.
func U128FromBig(n *big.Int) (U128, error) {
	hi, lo, err := amount.SplitU128(n)
	if err != nil {
		return U128{}, err
	}
	return U128{Hi: hi, Lo: lo}, nil
}

// I128FromBig splits an integer in [-2^127, 2^127).
func I128FromBig(n *big.Int) (I128, error) {
	hi, lo, err := amount.SplitI128(n)
	if err != nil {
		return I128{}, err
	}
	return I128{Hi: hi, Lo: lo}, nil
}

// ToNative converts v into plain host values: 128-bit integers become
// *big.Int, addresses and symbols become string, vectors become []any and
// maps become []NativeEntry preserving wire order.
func ToNative(v Value) any {
	switch t := v.(type) {
	case Void:
		return nil
	case Bool:
		return bool(t)
	case U32:
		return uint32(t)
	case I32:
		return int32(t)
	case U64:
		return uint64(t)
	case I64:
		return int64(t)
	case U128:
		return t.Big()
	case I128:
		return t.Big()
	case Bytes:
		return []byte(t)
	case String:
		return string(t)
	case Symbol:
		return string(t)
	case Address:
		return string(t)
	case Vec:
		out := make([]any, 0, len(t))
		for _, item := range t {
			out = append(out, ToNative(item))
		}
		return out
	case Map:
		out := make([]NativeEntry, 0, len(t))
		for _, e := range t {
			out = append(out, NativeEntry{Key: ToNative(e.Key), Val: ToNative(e.Val)})
		}
		return out
	default:
		return nil
	}
}
