// Copyright 2025 Erst Users
// SPDX-License-Identifier: Apache-2.0

// Package amount converts between human decimal amounts, smallest-unit
// integers and the 128-bit hi/lo split used on the wire.
package amount

import (
	"errors"
	"fmt"
	"math/big"
)

var (
	ErrNegative = errors.New("amount must not be negative")
	ErrOverflow = errors.New("amount does not fit in 128 bits")
)

var (
	mask64  = new(big.Int).SetUint64(^uint64(0))
	two128  = new(big.Int).Lsh(big.NewInt(1), 128)
	maxI128 = new(big.Int).Sub(new(big.Int).Lsh(big.NewInt(1), 127), big.NewInt(1))
	minI128 = new(big.Int).Neg(new(big.Int).Lsh(big.NewInt(1), 127))
	maxU128 = new(big.Int).Sub(two128, big.NewInt(1))
)

// SplitU128 returns hi = n >> 64 and lo = n & (2^64-1).
func SplitU128(n *big.Int) (hi, lo uint64, err error) {
	if n.Sign() < 0 {
		return 0, 0, ErrNegative
	}
	if n.Cmp(maxU128) > 0 {
		return 0, 0, ErrOverflow
	}
	hi = new(big.Int).Rsh(n, 64).Uint64()
	lo = new(big.Int).And(n, mask64).Uint64()
	return hi, lo, nil
}

// JoinU128 is the inverse of SplitU128.
func JoinU128(hi, lo uint64) *big.Int {
	n := new(big.Int).SetUint64(hi)
	n.Lsh(n, 64)
	return n.Or(n, new(big.Int).SetUint64(lo))
}

// SplitI128 splits the two's-complement form of n. hi carries the sign.
func SplitI128(n *big.Int) (hi int64, lo uint64, err error) {
	if n.Cmp(minI128) < 0 || n.Cmp(maxI128) > 0 {
		return 0, 0, ErrOverflow
	}
	m := new(big.Int).Set(n)
	if m.Sign() < 0 {
		m.Add(m, two128)
	}
	hi = int64(new(big.Int).Rsh(m, 64).Uint64())
	lo = new(big.Int).And(m, mask64).Uint64()
	return hi, lo, nil
}

// JoinI128 is the inverse of SplitI128: hi * 2^64 + lo.
func JoinI128(hi int64, lo uint64) *big.Int {
	n := big.NewInt(hi)
	n.Lsh(n, 64)
	return n.Add(n, new(big.Int).SetUint64(lo))
}

func checkedSplitU128(n *big.Int) (uint64, uint64, error) {
	hi, lo, err := SplitU128(n)
	if err != nil {
		return 0, 0, fmt.Errorf("%s: %w", n.String(), err)
	}
	return hi, lo, nil
}
