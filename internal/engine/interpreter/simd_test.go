package interpreter

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/wasmkit/wasmkit/internal/wasm"
)

func TestV128Bytes_roundTrip(t *testing.T) {
	lo, hi := uint64(0x0102030405060708), uint64(0x090a0b0c0d0e0f10)
	b := bytesOfV128(lo, hi)
	gotLo, gotHi := v128OfBytes(b)
	require.Equal(t, lo, gotLo)
	require.Equal(t, hi, gotHi)
}

func TestLanesI32_roundTrip(t *testing.T) {
	l := [4]int32{1, -2, 3, -4}
	lo, hi := v128OfI32(l)
	require.Equal(t, l, lanesI32(lo, hi))
}

func TestLanesI64_direct(t *testing.T) {
	l := [2]int64{-1, 42}
	lo, hi := v128OfI64(l)
	require.Equal(t, uint64(l[0]), lo)
	require.Equal(t, uint64(l[1]), hi)
	require.Equal(t, l, lanesI64(lo, hi))
}

func TestExecVec_i32x4Add(t *testing.T) {
	ce := &callEngine{}
	alo, ahi := v128OfI32([4]int32{1, 2, 3, 4})
	blo, bhi := v128OfI32([4]int32{10, 20, 30, 40})
	ce.pushV128(alo, ahi)
	ce.pushV128(blo, bhi)
	ce.execVec(nil, &wasm.Instr{Sub: uint32(wasm.OpcodeVecI32x4Add)})
	lo, hi := ce.popV128()
	require.Equal(t, [4]int32{11, 22, 33, 44}, lanesI32(lo, hi))
}

func TestExecVec_i8x16AllTrue(t *testing.T) {
	ce := &callEngine{}
	lo, hi := v128OfBytes([16]byte{1, 1, 1, 1, 1, 1, 1, 1, 1, 1, 1, 1, 1, 1, 1, 1})
	ce.pushV128(lo, hi)
	ce.execVec(nil, &wasm.Instr{Sub: uint32(wasm.OpcodeVecI8x16AllTrue)})
	require.Equal(t, uint64(1), ce.pop())

	ce.pushV128(v128OfBytes([16]byte{}))
	ce.execVec(nil, &wasm.Instr{Sub: uint32(wasm.OpcodeVecI8x16AllTrue)})
	require.Equal(t, uint64(0), ce.pop())
}

func TestNarrow16To8_saturates(t *testing.T) {
	ce := &callEngine{}
	alo, ahi := v128OfI16([8]int16{200, -200, 0, 0, 0, 0, 0, 0})
	blo, bhi := v128OfI16([8]int16{0, 0, 0, 0, 0, 0, 0, 0})
	ce.pushV128(alo, ahi)
	ce.pushV128(blo, bhi)
	ce.narrow16To8(true)
	lo, hi := ce.popV128()
	b := bytesOfV128(lo, hi)
	require.Equal(t, byte(127), b[0])
	require.Equal(t, byte(0x80), b[1])
}

func TestShuffle(t *testing.T) {
	ce := &callEngine{}
	alo, ahi := v128OfBytes([16]byte{0, 1, 2, 3, 4, 5, 6, 7, 8, 9, 10, 11, 12, 13, 14, 15})
	blo, bhi := v128OfBytes([16]byte{16, 17, 18, 19, 20, 21, 22, 23, 24, 25, 26, 27, 28, 29, 30, 31})
	ce.pushV128(alo, ahi)
	ce.pushV128(blo, bhi)
	instr := &wasm.Instr{Sub: uint32(wasm.OpcodeVecI8x16Shuffle)}
	for i := range instr.Lanes16 {
		instr.Lanes16[i] = byte(i * 2 % 32)
	}
	ce.execVec(nil, instr)
	lo, hi := ce.popV128()
	out := bytesOfV128(lo, hi)
	for i := range out {
		require.Equal(t, byte((i*2)%32), out[i])
	}
}
