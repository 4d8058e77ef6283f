// Copyright 2025 Erst Users
// SPDX-License-Identifier: Apache-2.0

package scval

import (
	"fmt"

	"github.com/stellar/go/strkey"
	"github.com/stellar/go/xdr"
)

const maxSymbolLen = 32

// ToXDR encodes v into its wire representation.
func ToXDR(v Value) (xdr.ScVal, error) {
	switch t := v.(type) {
	case Void:
		return xdr.ScVal{Type: xdr.ScValTypeScvVoid}, nil
	case Bool:
		b := bool(t)
		return xdr.ScVal{Type: xdr.ScValTypeScvBool, B: &b}, nil
	case U32:
		u := xdr.Uint32(t)
		return xdr.ScVal{Type: xdr.ScValTypeScvU32, U32: &u}, nil
	case I32:
		i := xdr.Int32(t)
		return xdr.ScVal{Type: xdr.ScValTypeScvI32, I32: &i}, nil
	case U64:
		u := xdr.Uint64(t)
		return xdr.ScVal{Type: xdr.ScValTypeScvU64, U64: &u}, nil
	case I64:
		i := xdr.Int64(t)
		return xdr.ScVal{Type: xdr.ScValTypeScvI64, I64: &i}, nil
	case U128:
		parts := xdr.UInt128Parts{Hi: xdr.Uint64(t.Hi), Lo: xdr.Uint64(t.Lo)}
		return xdr.ScVal{Type: xdr.ScValTypeScvU128, U128: &parts}, nil
	case I128:
		parts := xdr.Int128Parts{Hi: xdr.Int64(t.Hi), Lo: xdr.Uint64(t.Lo)}
		return xdr.ScVal{Type: xdr.ScValTypeScvI128, I128: &parts}, nil
	case Bytes:
		b := xdr.ScBytes(append([]byte(nil), t...))
		return xdr.ScVal{Type: xdr.ScValTypeScvBytes, Bytes: &b}, nil
	case String:
		s := xdr.ScString(t)
		return xdr.ScVal{Type: xdr.ScValTypeScvString, Str: &s}, nil
	case Symbol:
		if len(t) > maxSymbolLen {
			return xdr.ScVal{}, fmt.Errorf("symbol %q exceeds %d characters", string(t), maxSymbolLen)
		}
		s := xdr.ScSymbol(t)
		return xdr.ScVal{Type: xdr.ScValTypeScvSymbol, Sym: &s}, nil
	case Address:
		addr, err := EncodeAddress(string(t))
		if err != nil {
			return xdr.ScVal{}, err
		}
		return xdr.ScVal{Type: xdr.ScValTypeScvAddress, Address: &addr}, nil
	case Vec:
		items := make(xdr.ScVec, 0, len(t))
		for i, item := range t {
			sc, err := ToXDR(item)
			if err != nil {
				return xdr.ScVal{}, fmt.Errorf("vec[%d]: %w", i, err)
			}
			items = append(items, sc)
		}
		vec := &items
		return xdr.ScVal{Type: xdr.ScValTypeScvVec, Vec: &vec}, nil
	case Map:
		entries := make(xdr.ScMap, 0, len(t))
		for i, e := range t {
			key, err := ToXDR(e.Key)
			if err != nil {
				return xdr.ScVal{}, fmt.Errorf("map[%d].key: %w", i, err)
			}
			val, err := ToXDR(e.Val)
			if err != nil {
				return xdr.ScVal{}, fmt.Errorf("map[%d].val: %w", i, err)
			}
			entries = append(entries, xdr.ScMapEntry{Key: key, Val: val})
		}
		m := &entries
		return xdr.ScVal{Type: xdr.ScValTypeScvMap, Map: &m}, nil
	case nil:
		return xdr.ScVal{}, fmt.Errorf("cannot encode nil value")
	default:
		return xdr.ScVal{}, fmt.Errorf("unsupported value type %T", v)
	}
}

// ToXDRSlice encodes a list of arguments.
func ToXDRSlice(values []Value) ([]xdr.ScVal, error) {
	out := make([]xdr.ScVal, 0, len(values))
	for i, v := range values {
		sc, err := ToXDR(v)
		if err != nil {
			return nil, fmt.Errorf("arg %d: %w", i, err)
		}
		out = append(out, sc)
	}
	return out, nil
}

// FromXDR decodes a wire value rooted at "value".
func FromXDR(sc xdr.ScVal) (Value, error) {
	return DecodeAt(sc, "value")
}

// DecodeAt decodes sc, reporting failures relative to path.
func DecodeAt(sc xdr.ScVal, path string) (Value, error) {
	malformed := func() error {
		return &DecodeError{Expected: sc.Type.String() + " payload", Actual: "absent", Path: path}
	}

	switch sc.Type {
	case xdr.ScValTypeScvVoid:
		return Void{}, nil
	case xdr.ScValTypeScvBool:
		if sc.B == nil {
			return nil, malformed()
		}
		return Bool(*sc.B), nil
	case xdr.ScValTypeScvU32:
		if sc.U32 == nil {
			return nil, malformed()
		}
		return U32(*sc.U32), nil
	case xdr.ScValTypeScvI32:
		if sc.I32 == nil {
			return nil, malformed()
		}
		return I32(*sc.I32), nil
	case xdr.ScValTypeScvU64:
		if sc.U64 == nil {
			return nil, malformed()
		}
		return U64(*sc.U64), nil
	case xdr.ScValTypeScvI64:
		if sc.I64 == nil {
			return nil, malformed()
		}
		return I64(*sc.I64), nil
	case xdr.ScValTypeScvU128:
		if sc.U128 == nil {
			return nil, malformed()
		}
		return U128{Hi: uint64(sc.U128.Hi), Lo: uint64(sc.U128.Lo)}, nil
	case xdr.ScValTypeScvI128:
		if sc.I128 == nil {
			return nil, malformed()
		}
		return I128{Hi: int64(sc.I128.Hi), Lo: uint64(sc.I128.Lo)}, nil
	case xdr.ScValTypeScvBytes:
		if sc.Bytes == nil {
			return nil, malformed()
		}
		return append(Bytes{}, (*sc.Bytes)...), nil
	case xdr.ScValTypeScvString:
		if sc.Str == nil {
			return nil, malformed()
		}
		return String(*sc.Str), nil
	case xdr.ScValTypeScvSymbol:
		if sc.Sym == nil {
			return nil, malformed()
		}
		return Symbol(*sc.Sym), nil
	case xdr.ScValTypeScvAddress:
		if sc.Address == nil {
			return nil, malformed()
		}
		addr, err := DecodeAddress(*sc.Address, path)
		if err != nil {
			return nil, err
		}
		return Address(addr), nil
	case xdr.ScValTypeScvVec:
		if sc.Vec == nil || *sc.Vec == nil {
			return nil, malformed()
		}
		items := **sc.Vec
		out := make(Vec, 0, len(items))
		for i, item := range items {
			v, err := DecodeAt(item, Index(path, i))
			if err != nil {
				return nil, err
			}
			out = append(out, v)
		}
		return out, nil
	case xdr.ScValTypeScvMap:
		if sc.Map == nil || *sc.Map == nil {
			return nil, malformed()
		}
		entries := **sc.Map
		out := make(Map, 0, len(entries))
		for i, e := range entries {
			key, err := DecodeAt(e.Key, Index(path, i)+".key")
			if err != nil {
				return nil, err
			}
			val, err := DecodeAt(e.Val, entryPath(path, i, key))
			if err != nil {
				return nil, err
			}
			out = append(out, MapEntry{Key: key, Val: val})
		}
		return out, nil
	default:
		return nil, &DecodeError{Expected: "supported value", Actual: sc.Type.String(), Path: path}
	}
}

func entryPath(path string, i int, key Value) string {
	if name, err := Text(key, ""); err == nil {
		return Field(path, name)
	}
	return Index(path, i) + ".val"
}

// EncodeAddress converts a G... account or C... contract strkey into an ScAddress.
func EncodeAddress(s string) (xdr.ScAddress, error) {
	switch {
	case strkey.IsValidEd25519PublicKey(s):
		var aid xdr.AccountId
		if err := aid.SetAddress(s); err != nil {
			return xdr.ScAddress{}, fmt.Errorf("account address %q: %w", s, err)
		}
		return xdr.ScAddress{Type: xdr.ScAddressTypeScAddressTypeAccount, AccountId: &aid}, nil
	default:
		raw, err := strkey.Decode(strkey.VersionByteContract, s)
		if err != nil {
			return xdr.ScAddress{}, fmt.Errorf("invalid address %q: %w", s, err)
		}
		var cid xdr.ContractId
		copy(cid[:], raw)
		return xdr.ScAddress{Type: xdr.ScAddressTypeScAddressTypeContract, ContractId: &cid}, nil
	}
}

// DecodeAddress renders an ScAddress in strkey form. Only account and
// contract addresses are supported.
func DecodeAddress(addr xdr.ScAddress, path string) (string, error) {
	switch addr.Type {
	case xdr.ScAddressTypeScAddressTypeAccount:
		if addr.AccountId == nil {
			return "", &DecodeError{Expected: "account id", Actual: "absent", Path: path}
		}
		s, err := addr.AccountId.GetAddress()
		if err != nil {
			return "", &DecodeError{Expected: "account id", Actual: err.Error(), Path: path}
		}
		return s, nil
	case xdr.ScAddressTypeScAddressTypeContract:
		if addr.ContractId == nil {
			return "", &DecodeError{Expected: "contract id", Actual: "absent", Path: path}
		}
		s, err := strkey.Encode(strkey.VersionByteContract, addr.ContractId[:])
		if err != nil {
			return "", &DecodeError{Expected: "contract id", Actual: err.Error(), Path: path}
		}
		return s, nil
	default:
		return "", &DecodeError{Expected: "account|contract address", Actual: addr.Type.String(), Path: path}
	}
}

// ValidAddress reports whether s is an account or contract strkey.
func ValidAddress(s string) bool {
	_, err := EncodeAddress(s)
	return err == nil
}
