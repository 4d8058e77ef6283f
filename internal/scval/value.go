// Copyright 2025 Erst Users
// SPDX-License-Identifier: Apache-2.0

// Package scval is a closed, typed model of the Soroban contract value union.
// Every supported variant is a distinct Go type implementing Value; decoding
// any other wire variant fails with a DecodeError instead of being coerced.
package scval

import (
	"math/big"

	"github.com/Tico4Chain-Coders/Trustless-Backend/internal/amount"
)

// Kind identifies a Value variant.
type Kind uint8

const (
	KindVoid Kind = iota
	KindBool
	KindU32
	KindI32
	KindU64
	KindI64
	KindU128
	KindI128
	KindBytes
	KindString
	KindSymbol
	KindAddress
	KindVec
	KindMap
)

var kindNames = [...]string{
	KindVoid:    "void",
	KindBool:    "bool",
	KindU32:     "u32",
	KindI32:     "i32",
	KindU64:     "u64",
	KindI64:     "i64",
	KindU128:    "u128",
	KindI128:    "i128",
	KindBytes:   "bytes",
	KindString:  "string",
	KindSymbol:  "symbol",
	KindAddress: "address",
	KindVec:     "vec",
	KindMap:     "map",
}

func (k Kind) String() string {
	if int(k) < len(kindNames) {
		return kindNames[k]
	}
	return "unknown"
}

// Value is implemented only by the variant types of this package.
type Value interface {
	Kind() Kind
	isValue()
}

type (
	Void    struct{}
	Bool    bool
	U32     uint32
	I32     int32
	U64     uint64
	I64     int64
	Bytes   []byte
	String  string
	Symbol  string
	Address string // strkey form, G... for accounts and C... for contracts
	Vec     []Value
	Map     []MapEntry
)

// U128 is an unsigned 128-bit integer split into 64-bit halves.
type U128 struct {
	Hi uint64
	Lo uint64
}

// I128 is a two's-complement signed 128-bit integer split into 64-bit halves.
type I128 struct {
	Hi int64
	Lo uint64
}

// MapEntry is one key/value pair of a Map. Order is the wire order.
type MapEntry struct {
	Key Value
	Val Value
}

func (Void) Kind() Kind    { return KindVoid }
func (Bool) Kind() Kind    { return KindBool }
func (U32) Kind() Kind     { return KindU32 }
func (I32) Kind() Kind     { return KindI32 }
func (U64) Kind() Kind     { return KindU64 }
func (I64) Kind() Kind     { return KindI64 }
func (U128) Kind() Kind    { return KindU128 }
func (I128) Kind() Kind    { return KindI128 }
func (Bytes) Kind() Kind   { return KindBytes }
func (String) Kind() Kind  { return KindString }
func (Symbol) Kind() Kind  { return KindSymbol }
func (Address) Kind() Kind { return KindAddress }
func (Vec) Kind() Kind     { return KindVec }
func (Map) Kind() Kind     { return KindMap }

func (Void) isValue()    {}
func (Bool) isValue()    {}
func (U32) isValue()     {}
func (I32) isValue()     {}
func (U64) isValue()     {}
func (I64) isValue()     {}
func (U128) isValue()    {}
func (I128) isValue()    {}
func (Bytes) isValue()   {}
func (String) isValue()  {}
func (Symbol) isValue()  {}
func (Address) isValue() {}
func (Vec) isValue()     {}
func (Map) isValue()     {}

// Big returns the value as an arbitrary precision integer.
func (u U128) Big() *big.Int {
	return amount.JoinU128(u.Hi, u.Lo)
}

// Big returns the value as an arbitrary precision integer.
func (i I128) Big() *big.Int {
	return amount.JoinI128(i.Hi, i.Lo)
}

// Get returns the value stored under a String or Symbol key equal to key.
// When the wire payload repeats a key the first occurrence wins.
func (m Map) Get(key string) (Value, bool) {
	for _, e := range m {
		switch k := e.Key.(type) {
		case Symbol:
			if string(k) == key {
				return e.Val, true
			}
		case String:
			if string(k) == key {
				return e.Val, true
			}
		}
	}
	return nil, false
}
