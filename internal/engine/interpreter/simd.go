package interpreter

import (
	"encoding/binary"
	"math"
	"math/bits"

	"github.com/wasmkit/wasmkit/internal/moremath"
	"github.com/wasmkit/wasmkit/internal/wasm"
)

// v128 values travel the operand stack as two uint64 words, low half pushed
// first so the high half ends on top (matching the teacher interpreter's
// own V128Const/V128Add stack convention). Lane-wise SIMD ops convert to a
// [16]byte view to slice out individual lanes, mirroring the byte-buffer
// style validator_simd.go itself uses for v128.const and i8x16.shuffle.

func bytesOfV128(lo, hi uint64) (b [16]byte) {
	binary.LittleEndian.PutUint64(b[0:8], lo)
	binary.LittleEndian.PutUint64(b[8:16], hi)
	return
}

func v128OfBytes(b [16]byte) (lo, hi uint64) {
	return binary.LittleEndian.Uint64(b[0:8]), binary.LittleEndian.Uint64(b[8:16])
}

func lanesI8(lo, hi uint64) (out [16]int8) {
	b := bytesOfV128(lo, hi)
	for i, v := range b {
		out[i] = int8(v)
	}
	return
}
func v128OfI8(l [16]int8) (lo, hi uint64) {
	var b [16]byte
	for i, v := range l {
		b[i] = byte(v)
	}
	return v128OfBytes(b)
}

func lanesU16(lo, hi uint64) (out [8]uint16) {
	b := bytesOfV128(lo, hi)
	for i := 0; i < 8; i++ {
		out[i] = binary.LittleEndian.Uint16(b[i*2:])
	}
	return
}
func v128OfU16(l [8]uint16) (lo, hi uint64) {
	var b [16]byte
	for i, v := range l {
		binary.LittleEndian.PutUint16(b[i*2:], v)
	}
	return v128OfBytes(b)
}
func lanesI16(lo, hi uint64) (out [8]int16) {
	u := lanesU16(lo, hi)
	for i, v := range u {
		out[i] = int16(v)
	}
	return
}
func v128OfI16(l [8]int16) (lo, hi uint64) {
	var u [8]uint16
	for i, v := range l {
		u[i] = uint16(v)
	}
	return v128OfU16(u)
}

func lanesU32(lo, hi uint64) (out [4]uint32) {
	b := bytesOfV128(lo, hi)
	for i := 0; i < 4; i++ {
		out[i] = binary.LittleEndian.Uint32(b[i*4:])
	}
	return
}
func v128OfU32(l [4]uint32) (lo, hi uint64) {
	var b [16]byte
	for i, v := range l {
		binary.LittleEndian.PutUint32(b[i*4:], v)
	}
	return v128OfBytes(b)
}
func lanesI32(lo, hi uint64) (out [4]int32) {
	u := lanesU32(lo, hi)
	for i, v := range u {
		out[i] = int32(v)
	}
	return
}
func v128OfI32(l [4]int32) (lo, hi uint64) {
	var u [4]uint32
	for i, v := range l {
		u[i] = uint32(v)
	}
	return v128OfU32(u)
}
func lanesF32(lo, hi uint64) (out [4]float32) {
	u := lanesU32(lo, hi)
	for i, v := range u {
		out[i] = math.Float32frombits(v)
	}
	return
}
func v128OfF32(l [4]float32) (lo, hi uint64) {
	var u [4]uint32
	for i, v := range l {
		u[i] = math.Float32bits(v)
	}
	return v128OfU32(u)
}

// i64x2/f64x2 lanes map directly onto lo/hi: no byte shuffling needed.
func lanesI64(lo, hi uint64) [2]int64   { return [2]int64{int64(lo), int64(hi)} }
func v128OfI64(l [2]int64) (uint64, uint64) { return uint64(l[0]), uint64(l[1]) }
func lanesF64(lo, hi uint64) [2]float64 {
	return [2]float64{math.Float64frombits(lo), math.Float64frombits(hi)}
}
func v128OfF64(l [2]float64) (uint64, uint64) {
	return math.Float64bits(l[0]), math.Float64bits(l[1])
}

// execVec dispatches every sub-opcode under the 0xFD (SIMD) prefix
// (spec.md §4.1 family 10), gated on CoreFeatureSIMD at validation time.
func (ce *callEngine) execVec(f *callFrame, instr *wasm.Instr) {
	switch wasm.Opcode(instr.Sub) {
	case wasm.OpcodeVecV128Const:
		ce.pushV128(instr.V128[0], instr.V128[1])

	case wasm.OpcodeVecV128Load:
		mem := ce.mem(f)
		ea := uint64(ce.popU32()) + uint64(instr.MemArg.Offset)
		ce.pushV128(loadU64(mem, ea), loadU64(mem, ea+8))
	case wasm.OpcodeVecV128Store:
		mem := ce.mem(f)
		lo, hi := ce.popV128()
		ea := uint64(ce.popU32()) + uint64(instr.MemArg.Offset)
		storeU64(mem, ea, lo)
		storeU64(mem, ea+8, hi)

	case wasm.OpcodeVecV128Load8x8S, wasm.OpcodeVecV128Load8x8U,
		wasm.OpcodeVecV128Load16x4S, wasm.OpcodeVecV128Load16x4U,
		wasm.OpcodeVecV128Load32x2S, wasm.OpcodeVecV128Load32x2U:
		ce.execVecLoadWiden(f, instr)
	case wasm.OpcodeVecV128Load8Splat, wasm.OpcodeVecV128Load16Splat,
		wasm.OpcodeVecV128Load32Splat, wasm.OpcodeVecV128Load64Splat:
		ce.execVecLoadSplat(f, instr)
	case wasm.OpcodeVecV128Load32Zero, wasm.OpcodeVecV128Load64Zero:
		ce.execVecLoadZero(f, instr)
	case wasm.OpcodeVecV128Load8Lane, wasm.OpcodeVecV128Load16Lane,
		wasm.OpcodeVecV128Load32Lane, wasm.OpcodeVecV128Load64Lane:
		ce.execVecLoadLane(f, instr)
	case wasm.OpcodeVecV128Store8Lane, wasm.OpcodeVecV128Store16Lane,
		wasm.OpcodeVecV128Store32Lane, wasm.OpcodeVecV128Store64Lane:
		ce.execVecStoreLane(f, instr)

	case wasm.OpcodeVecI8x16Shuffle:
		bLo, bHi := ce.popV128()
		aLo, aHi := ce.popV128()
		a := bytesOfV128(aLo, aHi)
		b := bytesOfV128(bLo, bHi)
		var concat [32]byte
		copy(concat[0:16], a[:])
		copy(concat[16:32], b[:])
		var out [16]byte
		for i, ix := range instr.Lanes16 {
			out[i] = concat[ix]
		}
		lo, hi := v128OfBytes(out)
		ce.pushV128(lo, hi)

	case wasm.OpcodeVecI8x16Swizzle:
		bLo, bHi := ce.popV128()
		aLo, aHi := ce.popV128()
		idx := lanesI8(bLo, bHi)
		src := bytesOfV128(aLo, aHi)
		var out [16]byte
		for i, ix := range idx {
			if ix >= 0 && int(ix) < 16 {
				out[i] = src[ix]
			}
		}
		lo, hi := v128OfBytes(out)
		ce.pushV128(lo, hi)

	case wasm.OpcodeVecI8x16Splat:
		v := byte(ce.popU32())
		var b [16]byte
		for i := range b {
			b[i] = v
		}
		lo, hi := v128OfBytes(b)
		ce.pushV128(lo, hi)
	case wasm.OpcodeVecI16x8Splat:
		v := uint16(ce.popU32())
		var l [8]uint16
		for i := range l {
			l[i] = v
		}
		lo, hi := v128OfU16(l)
		ce.pushV128(lo, hi)
	case wasm.OpcodeVecI32x4Splat:
		v := ce.popU32()
		lo, hi := v128OfU32([4]uint32{v, v, v, v})
		ce.pushV128(lo, hi)
	case wasm.OpcodeVecI64x2Splat:
		v := ce.pop()
		ce.pushV128(v, v)
	case wasm.OpcodeVecF32x4Splat:
		v := ce.popF32()
		lo, hi := v128OfF32([4]float32{v, v, v, v})
		ce.pushV128(lo, hi)
	case wasm.OpcodeVecF64x2Splat:
		v := ce.popF64()
		lo, hi := v128OfF64([2]float64{v, v})
		ce.pushV128(lo, hi)

	case wasm.OpcodeVecI8x16ExtractLaneS:
		lo, hi := ce.popV128()
		ce.pushI32(int32(lanesI8(lo, hi)[instr.Lane]))
	case wasm.OpcodeVecI8x16ExtractLaneU:
		lo, hi := ce.popV128()
		ce.pushU32(uint32(bytesOfV128(lo, hi)[instr.Lane]))
	case wasm.OpcodeVecI8x16ReplaceLane:
		v := byte(ce.popU32())
		lo, hi := ce.popV128()
		b := bytesOfV128(lo, hi)
		b[instr.Lane] = v
		nlo, nhi := v128OfBytes(b)
		ce.pushV128(nlo, nhi)
	case wasm.OpcodeVecI16x8ExtractLaneS:
		lo, hi := ce.popV128()
		ce.pushI32(int32(lanesI16(lo, hi)[instr.Lane]))
	case wasm.OpcodeVecI16x8ExtractLaneU:
		lo, hi := ce.popV128()
		ce.pushU32(uint32(lanesU16(lo, hi)[instr.Lane]))
	case wasm.OpcodeVecI16x8ReplaceLane:
		v := uint16(ce.popU32())
		lo, hi := ce.popV128()
		l := lanesU16(lo, hi)
		l[instr.Lane] = v
		nlo, nhi := v128OfU16(l)
		ce.pushV128(nlo, nhi)
	case wasm.OpcodeVecI32x4ExtractLane:
		lo, hi := ce.popV128()
		ce.pushU32(lanesU32(lo, hi)[instr.Lane])
	case wasm.OpcodeVecI32x4ReplaceLane:
		v := ce.popU32()
		lo, hi := ce.popV128()
		l := lanesU32(lo, hi)
		l[instr.Lane] = v
		nlo, nhi := v128OfU32(l)
		ce.pushV128(nlo, nhi)
	case wasm.OpcodeVecI64x2ExtractLane:
		lo, hi := ce.popV128()
		if instr.Lane == 0 {
			ce.push(lo)
		} else {
			ce.push(hi)
		}
	case wasm.OpcodeVecI64x2ReplaceLane:
		v := ce.pop()
		lo, hi := ce.popV128()
		if instr.Lane == 0 {
			lo = v
		} else {
			hi = v
		}
		ce.pushV128(lo, hi)
	case wasm.OpcodeVecF32x4ExtractLane:
		lo, hi := ce.popV128()
		ce.pushF32(lanesF32(lo, hi)[instr.Lane])
	case wasm.OpcodeVecF32x4ReplaceLane:
		v := ce.popF32()
		lo, hi := ce.popV128()
		l := lanesF32(lo, hi)
		l[instr.Lane] = v
		nlo, nhi := v128OfF32(l)
		ce.pushV128(nlo, nhi)
	case wasm.OpcodeVecF64x2ExtractLane:
		lo, hi := ce.popV128()
		ce.pushF64(lanesF64(lo, hi)[instr.Lane])
	case wasm.OpcodeVecF64x2ReplaceLane:
		v := ce.popF64()
		lo, hi := ce.popV128()
		l := lanesF64(lo, hi)
		l[instr.Lane] = v
		nlo, nhi := v128OfF64(l)
		ce.pushV128(nlo, nhi)

	case wasm.OpcodeVecV128Not:
		lo, hi := ce.popV128()
		ce.pushV128(^lo, ^hi)
	case wasm.OpcodeVecV128And:
		blo, bhi := ce.popV128()
		alo, ahi := ce.popV128()
		ce.pushV128(alo&blo, ahi&bhi)
	case wasm.OpcodeVecV128AndNot:
		blo, bhi := ce.popV128()
		alo, ahi := ce.popV128()
		ce.pushV128(alo&^blo, ahi&^bhi)
	case wasm.OpcodeVecV128Or:
		blo, bhi := ce.popV128()
		alo, ahi := ce.popV128()
		ce.pushV128(alo|blo, ahi|bhi)
	case wasm.OpcodeVecV128Xor:
		blo, bhi := ce.popV128()
		alo, ahi := ce.popV128()
		ce.pushV128(alo^blo, ahi^bhi)
	case wasm.OpcodeVecV128Bitselect:
		clo, chi := ce.popV128()
		blo, bhi := ce.popV128()
		alo, ahi := ce.popV128()
		ce.pushV128((alo&clo)|(blo&^clo), (ahi&chi)|(bhi&^chi))
	case wasm.OpcodeVecV128AnyTrue:
		lo, hi := ce.popV128()
		ce.pushBool(lo != 0 || hi != 0)

	case wasm.OpcodeVecI8x16Abs:
		ce.unopI8(func(v int8) int8 {
			if v < 0 {
				return -v
			}
			return v
		})
	case wasm.OpcodeVecI8x16Neg:
		ce.unopI8(func(v int8) int8 { return -v })
	case wasm.OpcodeVecI8x16Popcnt:
		lo, hi := ce.popV128()
		b := bytesOfV128(lo, hi)
		for i, v := range b {
			b[i] = byte(bits.OnesCount8(v))
		}
		nlo, nhi := v128OfBytes(b)
		ce.pushV128(nlo, nhi)
	case wasm.OpcodeVecI8x16AllTrue:
		ce.allTrueI8()
	case wasm.OpcodeVecI8x16Bitmask:
		ce.bitmaskI8()
	case wasm.OpcodeVecI8x16NarrowI16x8S:
		ce.narrow16To8(true)
	case wasm.OpcodeVecI8x16NarrowI16x8U:
		ce.narrow16To8(false)
	case wasm.OpcodeVecI8x16Shl:
		ce.shiftI8(func(v int8, n uint32) int8 { return int8(uint8(v) << (n & 7)) })
	case wasm.OpcodeVecI8x16ShrS:
		ce.shiftI8(func(v int8, n uint32) int8 { return v >> (n & 7) })
	case wasm.OpcodeVecI8x16ShrU:
		ce.shiftI8(func(v int8, n uint32) int8 { return int8(uint8(v) >> (n & 7)) })
	case wasm.OpcodeVecI8x16Add:
		ce.binopI8(func(a, b int8) int8 { return a + b })
	case wasm.OpcodeVecI8x16AddSatS:
		ce.binopI8(satAddI8)
	case wasm.OpcodeVecI8x16AddSatU:
		ce.binopU8(satAddU8)
	case wasm.OpcodeVecI8x16Sub:
		ce.binopI8(func(a, b int8) int8 { return a - b })
	case wasm.OpcodeVecI8x16SubSatS:
		ce.binopI8(satSubI8)
	case wasm.OpcodeVecI8x16SubSatU:
		ce.binopU8(satSubU8)
	case wasm.OpcodeVecI8x16MinS:
		ce.binopI8(func(a, b int8) int8 {
			if a < b {
				return a
			}
			return b
		})
	case wasm.OpcodeVecI8x16MinU:
		ce.binopU8(func(a, b uint8) uint8 {
			if a < b {
				return a
			}
			return b
		})
	case wasm.OpcodeVecI8x16MaxS:
		ce.binopI8(func(a, b int8) int8 {
			if a > b {
				return a
			}
			return b
		})
	case wasm.OpcodeVecI8x16MaxU:
		ce.binopU8(func(a, b uint8) uint8 {
			if a > b {
				return a
			}
			return b
		})
	case wasm.OpcodeVecI8x16AvgrU:
		ce.binopU8(func(a, b uint8) uint8 { return uint8((uint16(a) + uint16(b) + 1) / 2) })

	case wasm.OpcodeVecI16x8ExtaddPairwiseI8x16S:
		ce.extaddPairwiseI8(true)
	case wasm.OpcodeVecI16x8ExtaddPairwiseI8x16U:
		ce.extaddPairwiseI8(false)
	case wasm.OpcodeVecI32x4ExtaddPairwiseI16x8S:
		ce.extaddPairwiseI16(true)
	case wasm.OpcodeVecI32x4ExtaddPairwiseI16x8U:
		ce.extaddPairwiseI16(false)

	case wasm.OpcodeVecI16x8Abs:
		ce.unopI16(func(v int16) int16 {
			if v < 0 {
				return -v
			}
			return v
		})
	case wasm.OpcodeVecI16x8Neg:
		ce.unopI16(func(v int16) int16 { return -v })
	case wasm.OpcodeVecI16x8Q15mulrSatS:
		ce.binopI16(func(a, b int16) int16 {
			v := (int32(a)*int32(b) + (1 << 14)) >> 15
			if v > math.MaxInt16 {
				return math.MaxInt16
			}
			if v < math.MinInt16 {
				return math.MinInt16
			}
			return int16(v)
		})
	case wasm.OpcodeVecI16x8AllTrue:
		ce.allTrueI16()
	case wasm.OpcodeVecI16x8Bitmask:
		ce.bitmaskI16()
	case wasm.OpcodeVecI16x8NarrowI32x4S:
		ce.narrow32To16(true)
	case wasm.OpcodeVecI16x8NarrowI32x4U:
		ce.narrow32To16(false)
	case wasm.OpcodeVecI16x8ExtendLowI8x16S:
		ce.extendI8(true, true)
	case wasm.OpcodeVecI16x8ExtendHighI8x16S:
		ce.extendI8(false, true)
	case wasm.OpcodeVecI16x8ExtendLowI8x16U:
		ce.extendI8(true, false)
	case wasm.OpcodeVecI16x8ExtendHighI8x16U:
		ce.extendI8(false, false)
	case wasm.OpcodeVecI16x8Shl:
		ce.shiftI16(func(v int16, n uint32) int16 { return int16(uint16(v) << (n & 15)) })
	case wasm.OpcodeVecI16x8ShrS:
		ce.shiftI16(func(v int16, n uint32) int16 { return v >> (n & 15) })
	case wasm.OpcodeVecI16x8ShrU:
		ce.shiftI16(func(v int16, n uint32) int16 { return int16(uint16(v) >> (n & 15)) })
	case wasm.OpcodeVecI16x8Add:
		ce.binopI16(func(a, b int16) int16 { return a + b })
	case wasm.OpcodeVecI16x8AddSatS:
		ce.binopI16(satAddI16)
	case wasm.OpcodeVecI16x8AddSatU:
		ce.binopU16(satAddU16)
	case wasm.OpcodeVecI16x8Sub:
		ce.binopI16(func(a, b int16) int16 { return a - b })
	case wasm.OpcodeVecI16x8SubSatS:
		ce.binopI16(satSubI16)
	case wasm.OpcodeVecI16x8SubSatU:
		ce.binopU16(satSubU16)
	case wasm.OpcodeVecI16x8Mul:
		ce.binopI16(func(a, b int16) int16 { return a * b })
	case wasm.OpcodeVecI16x8MinS:
		ce.binopI16(func(a, b int16) int16 {
			if a < b {
				return a
			}
			return b
		})
	case wasm.OpcodeVecI16x8MinU:
		ce.binopU16(func(a, b uint16) uint16 {
			if a < b {
				return a
			}
			return b
		})
	case wasm.OpcodeVecI16x8MaxS:
		ce.binopI16(func(a, b int16) int16 {
			if a > b {
				return a
			}
			return b
		})
	case wasm.OpcodeVecI16x8MaxU:
		ce.binopU16(func(a, b uint16) uint16 {
			if a > b {
				return a
			}
			return b
		})
	case wasm.OpcodeVecI16x8AvgrU:
		ce.binopU16(func(a, b uint16) uint16 { return uint16((uint32(a) + uint32(b) + 1) / 2) })
	case wasm.OpcodeVecI16x8ExtmulLowI8x16S:
		ce.extmulI8(true, true)
	case wasm.OpcodeVecI16x8ExtmulHighI8x16S:
		ce.extmulI8(false, true)
	case wasm.OpcodeVecI16x8ExtmulLowI8x16U:
		ce.extmulI8(true, false)
	case wasm.OpcodeVecI16x8ExtmulHighI8x16U:
		ce.extmulI8(false, false)

	case wasm.OpcodeVecI32x4Abs:
		ce.unopI32(func(v int32) int32 {
			if v < 0 {
				return -v
			}
			return v
		})
	case wasm.OpcodeVecI32x4Neg:
		ce.unopI32(func(v int32) int32 { return -v })
	case wasm.OpcodeVecI32x4AllTrue:
		ce.allTrueI32()
	case wasm.OpcodeVecI32x4Bitmask:
		ce.bitmaskI32()
	case wasm.OpcodeVecI32x4ExtendLowI16x8S:
		ce.extendI16(true, true)
	case wasm.OpcodeVecI32x4ExtendHighI16x8S:
		ce.extendI16(false, true)
	case wasm.OpcodeVecI32x4ExtendLowI16x8U:
		ce.extendI16(true, false)
	case wasm.OpcodeVecI32x4ExtendHighI16x8U:
		ce.extendI16(false, false)
	case wasm.OpcodeVecI32x4Shl:
		ce.shiftI32(func(v int32, n uint32) int32 { return int32(uint32(v) << (n & 31)) })
	case wasm.OpcodeVecI32x4ShrS:
		ce.shiftI32(func(v int32, n uint32) int32 { return v >> (n & 31) })
	case wasm.OpcodeVecI32x4ShrU:
		ce.shiftI32(func(v int32, n uint32) int32 { return int32(uint32(v) >> (n & 31)) })
	case wasm.OpcodeVecI32x4Add:
		ce.binopI32(func(a, b int32) int32 { return a + b })
	case wasm.OpcodeVecI32x4Sub:
		ce.binopI32(func(a, b int32) int32 { return a - b })
	case wasm.OpcodeVecI32x4Mul:
		ce.binopI32(func(a, b int32) int32 { return a * b })
	case wasm.OpcodeVecI32x4MinS:
		ce.binopI32(func(a, b int32) int32 {
			if a < b {
				return a
			}
			return b
		})
	case wasm.OpcodeVecI32x4MinU:
		ce.binopU32(func(a, b uint32) uint32 {
			if a < b {
				return a
			}
			return b
		})
	case wasm.OpcodeVecI32x4MaxS:
		ce.binopI32(func(a, b int32) int32 {
			if a > b {
				return a
			}
			return b
		})
	case wasm.OpcodeVecI32x4MaxU:
		ce.binopU32(func(a, b uint32) uint32 {
			if a > b {
				return a
			}
			return b
		})
	case wasm.OpcodeVecI32x4DotI16x8S:
		ce.dotI16()
	case wasm.OpcodeVecI32x4ExtmulLowI16x8S:
		ce.extmulI16(true, true)
	case wasm.OpcodeVecI32x4ExtmulHighI16x8S:
		ce.extmulI16(false, true)
	case wasm.OpcodeVecI32x4ExtmulLowI16x8U:
		ce.extmulI16(true, false)
	case wasm.OpcodeVecI32x4ExtmulHighI16x8U:
		ce.extmulI16(false, false)

	case wasm.OpcodeVecI64x2Abs:
		ce.unopI64(func(v int64) int64 {
			if v < 0 {
				return -v
			}
			return v
		})
	case wasm.OpcodeVecI64x2Neg:
		ce.unopI64(func(v int64) int64 { return -v })
	case wasm.OpcodeVecI64x2AllTrue:
		ce.allTrueI64()
	case wasm.OpcodeVecI64x2Bitmask:
		ce.bitmaskI64()
	case wasm.OpcodeVecI64x2ExtendLowI32x4S:
		ce.extendI32(true, true)
	case wasm.OpcodeVecI64x2ExtendHighI32x4S:
		ce.extendI32(false, true)
	case wasm.OpcodeVecI64x2ExtendLowI32x4U:
		ce.extendI32(true, false)
	case wasm.OpcodeVecI64x2ExtendHighI32x4U:
		ce.extendI32(false, false)
	case wasm.OpcodeVecI64x2Shl:
		ce.shiftI64(func(v int64, n uint32) int64 { return int64(uint64(v) << (uint64(n) & 63)) })
	case wasm.OpcodeVecI64x2ShrS:
		ce.shiftI64(func(v int64, n uint32) int64 { return v >> (uint64(n) & 63) })
	case wasm.OpcodeVecI64x2ShrU:
		ce.shiftI64(func(v int64, n uint32) int64 { return int64(uint64(v) >> (uint64(n) & 63)) })
	case wasm.OpcodeVecI64x2Add:
		ce.binopI64(func(a, b int64) int64 { return a + b })
	case wasm.OpcodeVecI64x2Sub:
		ce.binopI64(func(a, b int64) int64 { return a - b })
	case wasm.OpcodeVecI64x2Mul:
		ce.binopI64(func(a, b int64) int64 { return a * b })
	case wasm.OpcodeVecI64x2Eq:
		ce.relopI64(func(a, b int64) bool { return a == b })
	case wasm.OpcodeVecI64x2Ne:
		ce.relopI64(func(a, b int64) bool { return a != b })
	case wasm.OpcodeVecI64x2LtS:
		ce.relopI64(func(a, b int64) bool { return a < b })
	case wasm.OpcodeVecI64x2GtS:
		ce.relopI64(func(a, b int64) bool { return a > b })
	case wasm.OpcodeVecI64x2LeS:
		ce.relopI64(func(a, b int64) bool { return a <= b })
	case wasm.OpcodeVecI64x2GeS:
		ce.relopI64(func(a, b int64) bool { return a >= b })
	case wasm.OpcodeVecI64x2ExtmulLowI32x4S:
		ce.extmulI32(true, true)
	case wasm.OpcodeVecI64x2ExtmulHighI32x4S:
		ce.extmulI32(false, true)
	case wasm.OpcodeVecI64x2ExtmulLowI32x4U:
		ce.extmulI32(true, false)
	case wasm.OpcodeVecI64x2ExtmulHighI32x4U:
		ce.extmulI32(false, false)

	case wasm.OpcodeVecI8x16Eq:
		ce.relopI8(func(a, b int8) bool { return a == b })
	case wasm.OpcodeVecI8x16Ne:
		ce.relopI8(func(a, b int8) bool { return a != b })
	case wasm.OpcodeVecI8x16LtS:
		ce.relopI8(func(a, b int8) bool { return a < b })
	case wasm.OpcodeVecI8x16LtU:
		ce.relopU8(func(a, b uint8) bool { return a < b })
	case wasm.OpcodeVecI8x16GtS:
		ce.relopI8(func(a, b int8) bool { return a > b })
	case wasm.OpcodeVecI8x16GtU:
		ce.relopU8(func(a, b uint8) bool { return a > b })
	case wasm.OpcodeVecI8x16LeS:
		ce.relopI8(func(a, b int8) bool { return a <= b })
	case wasm.OpcodeVecI8x16LeU:
		ce.relopU8(func(a, b uint8) bool { return a <= b })
	case wasm.OpcodeVecI8x16GeS:
		ce.relopI8(func(a, b int8) bool { return a >= b })
	case wasm.OpcodeVecI8x16GeU:
		ce.relopU8(func(a, b uint8) bool { return a >= b })

	case wasm.OpcodeVecI16x8Eq:
		ce.relopI16(func(a, b int16) bool { return a == b })
	case wasm.OpcodeVecI16x8Ne:
		ce.relopI16(func(a, b int16) bool { return a != b })
	case wasm.OpcodeVecI16x8LtS:
		ce.relopI16(func(a, b int16) bool { return a < b })
	case wasm.OpcodeVecI16x8LtU:
		ce.relopU16(func(a, b uint16) bool { return a < b })
	case wasm.OpcodeVecI16x8GtS:
		ce.relopI16(func(a, b int16) bool { return a > b })
	case wasm.OpcodeVecI16x8GtU:
		ce.relopU16(func(a, b uint16) bool { return a > b })
	case wasm.OpcodeVecI16x8LeS:
		ce.relopI16(func(a, b int16) bool { return a <= b })
	case wasm.OpcodeVecI16x8LeU:
		ce.relopU16(func(a, b uint16) bool { return a <= b })
	case wasm.OpcodeVecI16x8GeS:
		ce.relopI16(func(a, b int16) bool { return a >= b })
	case wasm.OpcodeVecI16x8GeU:
		ce.relopU16(func(a, b uint16) bool { return a >= b })

	case wasm.OpcodeVecI32x4Eq:
		ce.relopI32(func(a, b int32) bool { return a == b })
	case wasm.OpcodeVecI32x4Ne:
		ce.relopI32(func(a, b int32) bool { return a != b })
	case wasm.OpcodeVecI32x4LtS:
		ce.relopI32(func(a, b int32) bool { return a < b })
	case wasm.OpcodeVecI32x4LtU:
		ce.relopU32(func(a, b uint32) bool { return a < b })
	case wasm.OpcodeVecI32x4GtS:
		ce.relopI32(func(a, b int32) bool { return a > b })
	case wasm.OpcodeVecI32x4GtU:
		ce.relopU32(func(a, b uint32) bool { return a > b })
	case wasm.OpcodeVecI32x4LeS:
		ce.relopI32(func(a, b int32) bool { return a <= b })
	case wasm.OpcodeVecI32x4LeU:
		ce.relopU32(func(a, b uint32) bool { return a <= b })
	case wasm.OpcodeVecI32x4GeS:
		ce.relopI32(func(a, b int32) bool { return a >= b })
	case wasm.OpcodeVecI32x4GeU:
		ce.relopU32(func(a, b uint32) bool { return a >= b })

	case wasm.OpcodeVecF32x4Eq:
		ce.relopF32(func(a, b float32) bool { return a == b })
	case wasm.OpcodeVecF32x4Ne:
		ce.relopF32(func(a, b float32) bool { return a != b })
	case wasm.OpcodeVecF32x4Lt:
		ce.relopF32(func(a, b float32) bool { return a < b })
	case wasm.OpcodeVecF32x4Gt:
		ce.relopF32(func(a, b float32) bool { return a > b })
	case wasm.OpcodeVecF32x4Le:
		ce.relopF32(func(a, b float32) bool { return a <= b })
	case wasm.OpcodeVecF32x4Ge:
		ce.relopF32(func(a, b float32) bool { return a >= b })
	case wasm.OpcodeVecF64x2Eq:
		ce.relopF64(func(a, b float64) bool { return a == b })
	case wasm.OpcodeVecF64x2Ne:
		ce.relopF64(func(a, b float64) bool { return a != b })
	case wasm.OpcodeVecF64x2Lt:
		ce.relopF64(func(a, b float64) bool { return a < b })
	case wasm.OpcodeVecF64x2Gt:
		ce.relopF64(func(a, b float64) bool { return a > b })
	case wasm.OpcodeVecF64x2Le:
		ce.relopF64(func(a, b float64) bool { return a <= b })
	case wasm.OpcodeVecF64x2Ge:
		ce.relopF64(func(a, b float64) bool { return a >= b })

	case wasm.OpcodeVecF32x4Ceil:
		ce.unopF32(func(v float32) float32 { return float32(math.Ceil(float64(v))) })
	case wasm.OpcodeVecF32x4Floor:
		ce.unopF32(func(v float32) float32 { return float32(math.Floor(float64(v))) })
	case wasm.OpcodeVecF32x4Trunc:
		ce.unopF32(func(v float32) float32 { return float32(math.Trunc(float64(v))) })
	case wasm.OpcodeVecF32x4Nearest:
		ce.unopF32(moremath.WasmCompatNearestF32)
	case wasm.OpcodeVecF32x4Abs:
		ce.unopF32(func(v float32) float32 { return float32(math.Abs(float64(v))) })
	case wasm.OpcodeVecF32x4Neg:
		ce.unopF32(func(v float32) float32 { return -v })
	case wasm.OpcodeVecF32x4Sqrt:
		ce.unopF32(func(v float32) float32 { return float32(math.Sqrt(float64(v))) })
	case wasm.OpcodeVecF32x4Add:
		ce.binopF32(func(a, b float32) float32 { return a + b })
	case wasm.OpcodeVecF32x4Sub:
		ce.binopF32(func(a, b float32) float32 { return a - b })
	case wasm.OpcodeVecF32x4Mul:
		ce.binopF32(func(a, b float32) float32 { return a * b })
	case wasm.OpcodeVecF32x4Div:
		ce.binopF32(func(a, b float32) float32 { return a / b })
	case wasm.OpcodeVecF32x4Min:
		ce.binopF32(func(a, b float32) float32 { return float32(moremath.WasmCompatMin(float64(a), float64(b))) })
	case wasm.OpcodeVecF32x4Max:
		ce.binopF32(func(a, b float32) float32 { return float32(moremath.WasmCompatMax(float64(a), float64(b))) })
	case wasm.OpcodeVecF32x4Pmin:
		ce.binopF32(func(a, b float32) float32 {
			if b < a {
				return b
			}
			return a
		})
	case wasm.OpcodeVecF32x4Pmax:
		ce.binopF32(func(a, b float32) float32 {
			if a < b {
				return b
			}
			return a
		})

	case wasm.OpcodeVecF64x2Ceil:
		ce.unopF64(math.Ceil)
	case wasm.OpcodeVecF64x2Floor:
		ce.unopF64(math.Floor)
	case wasm.OpcodeVecF64x2Trunc:
		ce.unopF64(math.Trunc)
	case wasm.OpcodeVecF64x2Nearest:
		ce.unopF64(moremath.WasmCompatNearestF64)
	case wasm.OpcodeVecF64x2Abs:
		ce.unopF64(math.Abs)
	case wasm.OpcodeVecF64x2Neg:
		ce.unopF64(func(v float64) float64 { return -v })
	case wasm.OpcodeVecF64x2Sqrt:
		ce.unopF64(math.Sqrt)
	case wasm.OpcodeVecF64x2Add:
		ce.binopF64(func(a, b float64) float64 { return a + b })
	case wasm.OpcodeVecF64x2Sub:
		ce.binopF64(func(a, b float64) float64 { return a - b })
	case wasm.OpcodeVecF64x2Mul:
		ce.binopF64(func(a, b float64) float64 { return a * b })
	case wasm.OpcodeVecF64x2Div:
		ce.binopF64(func(a, b float64) float64 { return a / b })
	case wasm.OpcodeVecF64x2Min:
		ce.binopF64(moremath.WasmCompatMin)
	case wasm.OpcodeVecF64x2Max:
		ce.binopF64(moremath.WasmCompatMax)
	case wasm.OpcodeVecF64x2Pmin:
		ce.binopF64(func(a, b float64) float64 {
			if b < a {
				return b
			}
			return a
		})
	case wasm.OpcodeVecF64x2Pmax:
		ce.binopF64(func(a, b float64) float64 {
			if a < b {
				return b
			}
			return a
		})

	case wasm.OpcodeVecI32x4TruncSatF32x4S:
		ce.cvtF32ToI32(func(v float64) int32 { return satTruncToI32S(v) })
	case wasm.OpcodeVecI32x4TruncSatF32x4U:
		ce.cvtF32ToI32U(func(v float64) uint32 { return satTruncToI32U(v) })
	case wasm.OpcodeVecF32x4ConvertI32x4S:
		ce.cvtI32ToF32(func(v int32) float32 { return float32(v) })
	case wasm.OpcodeVecF32x4ConvertI32x4U:
		ce.cvtU32ToF32(func(v uint32) float32 { return float32(v) })
	case wasm.OpcodeVecI32x4TruncSatF64x2SZero:
		ce.cvtF64ToI32Zero(func(v float64) int32 { return satTruncToI32S(v) })
	case wasm.OpcodeVecI32x4TruncSatF64x2UZero:
		ce.cvtF64ToI32ZeroU(func(v float64) uint32 { return satTruncToI32U(v) })
	case wasm.OpcodeVecF64x2ConvertLowI32x4S:
		lo, hi := ce.popV128()
		l := lanesI32(lo, hi)
		nlo, nhi := v128OfF64([2]float64{float64(l[0]), float64(l[1])})
		ce.pushV128(nlo, nhi)
	case wasm.OpcodeVecF64x2ConvertLowI32x4U:
		lo, hi := ce.popV128()
		l := lanesU32(lo, hi)
		nlo, nhi := v128OfF64([2]float64{float64(l[0]), float64(l[1])})
		ce.pushV128(nlo, nhi)
	case wasm.OpcodeVecF32x4DemoteF64x2Zero:
		lo, hi := ce.popV128()
		l := lanesF64(lo, hi)
		nlo, nhi := v128OfF32([4]float32{float32(l[0]), float32(l[1]), 0, 0})
		ce.pushV128(nlo, nhi)
	case wasm.OpcodeVecF64x2PromoteLowF32x4:
		lo, hi := ce.popV128()
		l := lanesF32(lo, hi)
		nlo, nhi := v128OfF64([2]float64{float64(l[0]), float64(l[1])})
		ce.pushV128(nlo, nhi)
	}
}
