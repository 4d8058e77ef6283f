// Copyright 2025 Erst Users
// SPDX-License-Identifier: Apache-2.0

package amount

import (
	"fmt"
	"math/big"
	"regexp"
	"strings"
)

// DefaultDecimals is the precision of Stellar classic assets and of the
// Soroban USDC token the escrow contract settles in.
const DefaultDecimals = 7

const maxDecimals = 38

var decimalPattern = regexp.MustCompile(`^[+-]?(\d+(\.\d*)?|\.\d+)$`)

// Scale converts between decimal strings and smallest-unit integers for a
// token with a fixed number of decimal places.
type Scale struct {
	decimals int
	factor   *big.Int
}

// NewScale returns the scale for a token with the given decimals.
func NewScale(decimals int) (Scale, error) {
	if decimals < 0 || decimals > maxDecimals {
		return Scale{}, fmt.Errorf("decimals %d out of range [0,%d]", decimals, maxDecimals)
	}
	factor := new(big.Int).Exp(big.NewInt(10), big.NewInt(int64(decimals)), nil)
	return Scale{decimals: decimals, factor: factor}, nil
}

// MustScale is NewScale for constant inputs.
func MustScale(decimals int) Scale {
	s, err := NewScale(decimals)
	if err != nil {
		panic(err)
	}
	return s
}

// Decimals returns the number of decimal places.
func (s Scale) Decimals() int { return s.decimals }

// Factor returns 10^decimals.
func (s Scale) Factor() *big.Int { return new(big.Int).Set(s.factor) }

// ToMicro parses a decimal string and scales it to smallest units, rounding
// half away from zero.
func (s Scale) ToMicro(dec string) (*big.Int, error) {
	r, err := parseDecimal(dec)
	if err != nil {
		return nil, err
	}
	return s.scale(r), nil
}

// ToU128 scales dec and splits it for the u128 wire variant. Any negative
// input is rejected, including one that rounds to zero.
func (s Scale) ToU128(dec string) (hi, lo uint64, err error) {
	r, err := parseDecimal(dec)
	if err != nil {
		return 0, 0, err
	}
	if r.Sign() < 0 {
		return 0, 0, fmt.Errorf("%q: %w", dec, ErrNegative)
	}
	return checkedSplitU128(s.scale(r))
}

func parseDecimal(dec string) (*big.Rat, error) {
	dec = strings.TrimSpace(dec)
	if !decimalPattern.MatchString(dec) {
		return nil, fmt.Errorf("invalid decimal amount %q", dec)
	}
	r, ok := new(big.Rat).SetString(dec)
	if !ok {
		return nil, fmt.Errorf("invalid decimal amount %q", dec)
	}
	return r, nil
}

func (s Scale) scale(r *big.Rat) *big.Int {
	return roundHalfAway(new(big.Rat).Mul(r, new(big.Rat).SetInt(s.factor)))
}

// ToI128 scales dec and splits it for the i128 wire variant.
func (s Scale) ToI128(dec string) (hi int64, lo uint64, err error) {
	n, err := s.ToMicro(dec)
	if err != nil {
		return 0, 0, err
	}
	hi, lo, err = SplitI128(n)
	if err != nil {
		return 0, 0, fmt.Errorf("%q: %w", dec, err)
	}
	return hi, lo, nil
}

// FromMicro converts smallest units back to a decimal.
func (s Scale) FromMicro(n *big.Int) Decimal {
	r := new(big.Rat).SetFrac(new(big.Int).Set(n), s.factor)
	return Decimal{r: r, places: s.decimals}
}

// FromU128 joins hi/lo and converts to a decimal.
func (s Scale) FromU128(hi, lo uint64) Decimal {
	return s.FromMicro(JoinU128(hi, lo))
}

// FromI128 joins hi/lo and converts to a decimal.
func (s Scale) FromI128(hi int64, lo uint64) Decimal {
	return s.FromMicro(JoinI128(hi, lo))
}

func roundHalfAway(r *big.Rat) *big.Int {
	num := new(big.Int).Set(r.Num())
	den := r.Denom()
	q, rem := new(big.Int).QuoRem(num, den, new(big.Int))
	rem.Abs(rem).Lsh(rem, 1)
	if rem.Cmp(den) >= 0 {
		if num.Sign() < 0 {
			q.Sub(q, big.NewInt(1))
		} else {
			q.Add(q, big.NewInt(1))
		}
	}
	return q
}
