package interpreter

import (
	"math"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/wasmkit/wasmkit/internal/wasmruntime"
)

func TestCallEngine_stack_pushPop(t *testing.T) {
	ce := &callEngine{}
	ce.push(1)
	ce.push(2)
	require.Equal(t, uint64(2), ce.peek())
	require.Equal(t, uint64(2), ce.pop())
	require.Equal(t, uint64(1), ce.pop())
}

func TestCallEngine_v128_pushPop(t *testing.T) {
	ce := &callEngine{}
	ce.pushV128(0x1, 0x2)
	lo, hi := ce.popV128()
	require.Equal(t, uint64(0x1), lo)
	require.Equal(t, uint64(0x2), hi)
}

func TestDivS32_overflow(t *testing.T) {
	require.PanicsWithValue(t, wasmruntime.ErrRuntimeIntegerOverflow, func() { divS32(math.MinInt32, -1) })
}

func TestDivS32_divideByZero(t *testing.T) {
	require.PanicsWithValue(t, wasmruntime.ErrRuntimeIntegerDivideByZero, func() { divS32(1, 0) })
}

func TestSatTruncToI32S(t *testing.T) {
	tests := []struct {
		in   float64
		want int32
	}{
		{0, 0},
		{1.9, 1},
		{-1.9, -1},
		{math.NaN(), 0},
		{math.Inf(1), math.MaxInt32},
		{math.Inf(-1), math.MinInt32},
		{1e20, math.MaxInt32},
		{-1e20, math.MinInt32},
	}
	for _, tc := range tests {
		require.Equal(t, tc.want, satTruncToI32S(tc.in))
	}
}

func TestSatTruncToI32U(t *testing.T) {
	tests := []struct {
		in   float64
		want uint32
	}{
		{0, 0},
		{1.9, 1},
		{-1, 0},
		{math.NaN(), 0},
		{math.Inf(1), math.MaxUint32},
		{1e20, math.MaxUint32},
	}
	for _, tc := range tests {
		require.Equal(t, tc.want, satTruncToI32U(tc.in))
	}
}

func TestSatTruncToI64S(t *testing.T) {
	require.Equal(t, int64(math.MaxInt64), satTruncToI64S(math.Inf(1)))
	require.Equal(t, int64(math.MinInt64), satTruncToI64S(math.Inf(-1)))
	require.Equal(t, int64(0), satTruncToI64S(math.NaN()))
}

func TestSatTruncToI64U(t *testing.T) {
	require.Equal(t, uint64(math.MaxUint64), satTruncToI64U(math.Inf(1)))
	require.Equal(t, uint64(0), satTruncToI64U(math.Inf(-1)))
	require.Equal(t, uint64(0), satTruncToI64U(math.NaN()))
}
