// Copyright 2025 Erst Users
// SPDX-License-Identifier: Apache-2.0

package amount

import (
	"math/big"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSplitJoinU128(t *testing.T) {
	n, ok := new(big.Int).SetString("340282366920938463463374607431768211455", 10) // 2^128-1
	require.True(t, ok)

	hi, lo, err := SplitU128(n)
	require.NoError(t, err)
	assert.Equal(t, ^uint64(0), hi)
	assert.Equal(t, ^uint64(0), lo)
	assert.Equal(t, 0, JoinU128(hi, lo).Cmp(n))

	hi, lo, err = SplitU128(big.NewInt(5_000_000))
	require.NoError(t, err)
	assert.Equal(t, uint64(0), hi)
	assert.Equal(t, uint64(5_000_000), lo)

	_, _, err = SplitU128(big.NewInt(-1))
	assert.ErrorIs(t, err, ErrNegative)

	_, _, err = SplitU128(new(big.Int).Add(n, big.NewInt(1)))
	assert.ErrorIs(t, err, ErrOverflow)
}

func TestSplitJoinI128(t *testing.T) {
	cases := []string{
		"0",
		"-1",
		"18446744073709551616",  // 2^64
		"-18446744073709551616", // -2^64
		"170141183460469231731687303715884105727",  // 2^127-1
		"-170141183460469231731687303715884105728", // -2^127
	}
	for _, c := range cases {
		t.Run(c, func(t *testing.T) {
			n, _ := new(big.Int).SetString(c, 10)
			hi, lo, err := SplitI128(n)
			require.NoError(t, err)
			assert.Equal(t, c, JoinI128(hi, lo).String())
		})
	}

	hi, lo, err := SplitI128(big.NewInt(-1))
	require.NoError(t, err)
	assert.Equal(t, int64(-1), hi)
	assert.Equal(t, ^uint64(0), lo)

	tooBig, _ := new(big.Int).SetString("170141183460469231731687303715884105728", 10)
	_, _, err = SplitI128(tooBig)
	assert.ErrorIs(t, err, ErrOverflow)
}

func TestScaleToU128Rounding(t *testing.T) {
	s := MustScale(6)

	tests := []struct {
		in   string
		want uint64
	}{
		{"5", 5_000_000},
		{"5.0", 5_000_000},
		{"0.0000005", 1},
		{"0.0000004", 0},
		{"1.2345675", 1_234_568},
		{".5", 500_000},
		{" 12.25 ", 12_250_000},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			hi, lo, err := s.ToU128(tt.in)
			require.NoError(t, err)
			assert.Equal(t, uint64(0), hi)
			assert.Equal(t, tt.want, lo)
		})
	}
}

func TestScaleRejectsBadInput(t *testing.T) {
	s := MustScale(7)

	for _, in := range []string{"-1", "-0.00000001", "-0.0000000001"} {
		_, _, err := s.ToU128(in)
		assert.ErrorIs(t, err, ErrNegative, in)
	}
	_, _, err := MustScale(6).ToU128("-0.0000001")
	assert.ErrorIs(t, err, ErrNegative)

	hi, lo, err := s.ToU128("-0")
	require.NoError(t, err)
	assert.Zero(t, hi)
	assert.Zero(t, lo)

	for _, in := range []string{"", "abc", "1e5", "1/3", "1.2.3", "NaN"} {
		_, _, err := s.ToU128(in)
		assert.Error(t, err, in)
	}

	_, err = NewScale(-1)
	assert.Error(t, err)
}

func TestScaleRoundTrip(t *testing.T) {
	s := MustScale(7)
	for _, in := range []string{"0", "1", "100.5", "0.0000001", "123456789.1234567"} {
		hi, lo, err := s.ToU128(in)
		require.NoError(t, err)
		assert.Equal(t, in, s.FromU128(hi, lo).String())
	}

	// Precision beyond the scale is rounded to the nearest unit.
	hi, lo, err := s.ToU128("2.00000006")
	require.NoError(t, err)
	assert.Equal(t, "2.0000001", s.FromU128(hi, lo).String())
}

func TestScaleSigned(t *testing.T) {
	s := MustScale(6)
	hi, lo, err := s.ToI128("-2.5")
	require.NoError(t, err)
	assert.Equal(t, int64(-1), hi)
	assert.Equal(t, "-2.5", s.FromI128(hi, lo).String())
}

func TestDecimal(t *testing.T) {
	d := MustScale(6).FromU128(0, 5_000_000)
	assert.Equal(t, "5", d.String())
	assert.Equal(t, 5.0, d.Float64())

	raw, err := d.MarshalJSON()
	require.NoError(t, err)
	assert.Equal(t, "5", string(raw))

	var zero Decimal
	assert.Equal(t, "0", zero.String())
}
