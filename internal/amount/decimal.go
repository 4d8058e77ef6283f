// Copyright 2025 Erst Users
// SPDX-License-Identifier: Apache-2.0

package amount

import (
	"math/big"
	"strings"
)

// Decimal is an exact human-facing amount. The zero value is 0.
type Decimal struct {
	r      *big.Rat
	places int
}

func (d Decimal) rat() *big.Rat {
	if d.r == nil {
		return new(big.Rat)
	}
	return d.r
}

// String renders the amount without trailing zeros, e.g. "5" or "12.5".
func (d Decimal) String() string {
	s := d.rat().FloatString(d.places)
	if strings.Contains(s, ".") {
		s = strings.TrimRight(s, "0")
		s = strings.TrimSuffix(s, ".")
	}
	return s
}

// Float64 returns the nearest float64, for display only.
func (d Decimal) Float64() float64 {
	f, _ := d.rat().Float64()
	return f
}

// Rat returns a copy of the exact value.
func (d Decimal) Rat() *big.Rat {
	return new(big.Rat).Set(d.rat())
}

// MarshalJSON encodes the amount as a JSON number.
func (d Decimal) MarshalJSON() ([]byte, error) {
	return []byte(d.String()), nil
}
