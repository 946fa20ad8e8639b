package interpreter

import (
	"math"

	"github.com/wasmkit/wasmkit/internal/wasm"
)

// Per-shape unop/binop/relop helpers factor out the pop-apply-push pattern
// shared by the bulk of the SIMD opcode table, matching the teacher's own
// small-helper style for its scalar numeric dispatch in numeric.go.

func (ce *callEngine) unopI8(f func(int8) int8) {
	lo, hi := ce.popV128()
	l := lanesI8(lo, hi)
	for i, v := range l {
		l[i] = f(v)
	}
	nlo, nhi := v128OfI8(l)
	ce.pushV128(nlo, nhi)
}

func (ce *callEngine) binopI8(f func(a, b int8) int8) {
	blo, bhi := ce.popV128()
	alo, ahi := ce.popV128()
	a, b := lanesI8(alo, ahi), lanesI8(blo, bhi)
	var out [16]int8
	for i := range out {
		out[i] = f(a[i], b[i])
	}
	lo, hi := v128OfI8(out)
	ce.pushV128(lo, hi)
}

func (ce *callEngine) binopU8(f func(a, b uint8) uint8) {
	blo, bhi := ce.popV128()
	alo, ahi := ce.popV128()
	a, b := bytesOfV128(alo, ahi), bytesOfV128(blo, bhi)
	var out [16]byte
	for i := range out {
		out[i] = f(a[i], b[i])
	}
	lo, hi := v128OfBytes(out)
	ce.pushV128(lo, hi)
}

func (ce *callEngine) relopI8(f func(a, b int8) bool) {
	blo, bhi := ce.popV128()
	alo, ahi := ce.popV128()
	a, b := lanesI8(alo, ahi), lanesI8(blo, bhi)
	var out [16]int8
	for i := range out {
		if f(a[i], b[i]) {
			out[i] = -1
		}
	}
	lo, hi := v128OfI8(out)
	ce.pushV128(lo, hi)
}

func (ce *callEngine) relopU8(f func(a, b uint8) bool) {
	ce.relopI8(func(a, b int8) bool { return f(uint8(a), uint8(b)) })
}

func (ce *callEngine) shiftI8(f func(v int8, n uint32) int8) {
	n := ce.popU32()
	lo, hi := ce.popV128()
	l := lanesI8(lo, hi)
	for i, v := range l {
		l[i] = f(v, n)
	}
	nlo, nhi := v128OfI8(l)
	ce.pushV128(nlo, nhi)
}

func (ce *callEngine) allTrueI8() {
	lo, hi := ce.popV128()
	all := true
	for _, v := range bytesOfV128(lo, hi) {
		if v == 0 {
			all = false
			break
		}
	}
	ce.pushBool(all)
}

func (ce *callEngine) bitmaskI8() {
	lo, hi := ce.popV128()
	l := lanesI8(lo, hi)
	var mask uint32
	for i, v := range l {
		if v < 0 {
			mask |= 1 << uint(i)
		}
	}
	ce.pushU32(mask)
}

func (ce *callEngine) narrow16To8(signed bool) {
	blo, bhi := ce.popV128()
	alo, ahi := ce.popV128()
	a, b := lanesI16(alo, ahi), lanesI16(blo, bhi)
	var out [16]byte
	conv := func(v int16) byte {
		if signed {
			if v < math.MinInt8 {
				return byte(int8(math.MinInt8))
			}
			if v > math.MaxInt8 {
				return byte(int8(math.MaxInt8))
			}
			return byte(int8(v))
		}
		if v < 0 {
			return 0
		}
		if v > math.MaxUint8 {
			return math.MaxUint8
		}
		return byte(v)
	}
	for i, v := range a {
		out[i] = conv(v)
	}
	for i, v := range b {
		out[8+i] = conv(v)
	}
	lo, hi := v128OfBytes(out)
	ce.pushV128(lo, hi)
}

func (ce *callEngine) extaddPairwiseI8(signed bool) {
	lo, hi := ce.popV128()
	var out [8]uint16
	if signed {
		l := lanesI8(lo, hi)
		for i := 0; i < 8; i++ {
			out[i] = uint16(int16(l[2*i]) + int16(l[2*i+1]))
		}
	} else {
		b := bytesOfV128(lo, hi)
		for i := 0; i < 8; i++ {
			out[i] = uint16(b[2*i]) + uint16(b[2*i+1])
		}
	}
	nlo, nhi := v128OfU16(out)
	ce.pushV128(nlo, nhi)
}

func (ce *callEngine) extendI8(low, signed bool) {
	lo, hi := ce.popV128()
	var out [8]int16
	if signed {
		l := lanesI8(lo, hi)
		for i := 0; i < 8; i++ {
			src := i
			if !low {
				src += 8
			}
			out[i] = int16(l[src])
		}
	} else {
		b := bytesOfV128(lo, hi)
		for i := 0; i < 8; i++ {
			src := i
			if !low {
				src += 8
			}
			out[i] = int16(uint16(b[src]))
		}
	}
	nlo, nhi := v128OfI16(out)
	ce.pushV128(nlo, nhi)
}

func (ce *callEngine) extmulI8(low, signed bool) {
	blo, bhi := ce.popV128()
	alo, ahi := ce.popV128()
	var out [8]uint16
	if signed {
		a, b := lanesI8(alo, ahi), lanesI8(blo, bhi)
		for i := 0; i < 8; i++ {
			src := i
			if !low {
				src += 8
			}
			out[i] = uint16(int16(a[src]) * int16(b[src]))
		}
	} else {
		a, b := bytesOfV128(alo, ahi), bytesOfV128(blo, bhi)
		for i := 0; i < 8; i++ {
			src := i
			if !low {
				src += 8
			}
			out[i] = uint16(a[src]) * uint16(b[src])
		}
	}
	lo, hi := v128OfU16(out)
	ce.pushV128(lo, hi)
}

func (ce *callEngine) unopI16(f func(int16) int16) {
	lo, hi := ce.popV128()
	l := lanesI16(lo, hi)
	for i, v := range l {
		l[i] = f(v)
	}
	nlo, nhi := v128OfI16(l)
	ce.pushV128(nlo, nhi)
}

func (ce *callEngine) binopI16(f func(a, b int16) int16) {
	blo, bhi := ce.popV128()
	alo, ahi := ce.popV128()
	a, b := lanesI16(alo, ahi), lanesI16(blo, bhi)
	var out [8]int16
	for i := range out {
		out[i] = f(a[i], b[i])
	}
	lo, hi := v128OfI16(out)
	ce.pushV128(lo, hi)
}

func (ce *callEngine) binopU16(f func(a, b uint16) uint16) {
	blo, bhi := ce.popV128()
	alo, ahi := ce.popV128()
	a, b := lanesU16(alo, ahi), lanesU16(blo, bhi)
	var out [8]uint16
	for i := range out {
		out[i] = f(a[i], b[i])
	}
	lo, hi := v128OfU16(out)
	ce.pushV128(lo, hi)
}

func (ce *callEngine) relopI16(f func(a, b int16) bool) {
	blo, bhi := ce.popV128()
	alo, ahi := ce.popV128()
	a, b := lanesI16(alo, ahi), lanesI16(blo, bhi)
	var out [8]int16
	for i := range out {
		if f(a[i], b[i]) {
			out[i] = -1
		}
	}
	lo, hi := v128OfI16(out)
	ce.pushV128(lo, hi)
}

func (ce *callEngine) relopU16(f func(a, b uint16) bool) {
	ce.relopI16(func(a, b int16) bool { return f(uint16(a), uint16(b)) })
}

func (ce *callEngine) shiftI16(f func(v int16, n uint32) int16) {
	n := ce.popU32()
	lo, hi := ce.popV128()
	l := lanesI16(lo, hi)
	for i, v := range l {
		l[i] = f(v, n)
	}
	nlo, nhi := v128OfI16(l)
	ce.pushV128(nlo, nhi)
}

func (ce *callEngine) allTrueI16() {
	lo, hi := ce.popV128()
	all := true
	for _, v := range lanesU16(lo, hi) {
		if v == 0 {
			all = false
			break
		}
	}
	ce.pushBool(all)
}

func (ce *callEngine) bitmaskI16() {
	lo, hi := ce.popV128()
	l := lanesI16(lo, hi)
	var mask uint32
	for i, v := range l {
		if v < 0 {
			mask |= 1 << uint(i)
		}
	}
	ce.pushU32(mask)
}

func (ce *callEngine) narrow32To16(signed bool) {
	blo, bhi := ce.popV128()
	alo, ahi := ce.popV128()
	a, b := lanesI32(alo, ahi), lanesI32(blo, bhi)
	var out [8]uint16
	conv := func(v int32) uint16 {
		if signed {
			if v < math.MinInt16 {
				return uint16(int16(math.MinInt16))
			}
			if v > math.MaxInt16 {
				return uint16(int16(math.MaxInt16))
			}
			return uint16(int16(v))
		}
		if v < 0 {
			return 0
		}
		if v > math.MaxUint16 {
			return math.MaxUint16
		}
		return uint16(v)
	}
	for i, v := range a {
		out[i] = conv(v)
	}
	for i, v := range b {
		out[4+i] = conv(v)
	}
	lo, hi := v128OfU16(out)
	ce.pushV128(lo, hi)
}

func (ce *callEngine) extaddPairwiseI16(signed bool) {
	lo, hi := ce.popV128()
	var out [4]uint32
	if signed {
		l := lanesI16(lo, hi)
		for i := 0; i < 4; i++ {
			out[i] = uint32(int32(l[2*i]) + int32(l[2*i+1]))
		}
	} else {
		l := lanesU16(lo, hi)
		for i := 0; i < 4; i++ {
			out[i] = uint32(l[2*i]) + uint32(l[2*i+1])
		}
	}
	nlo, nhi := v128OfU32(out)
	ce.pushV128(nlo, nhi)
}

func (ce *callEngine) extendI16(low, signed bool) {
	lo, hi := ce.popV128()
	var out [4]int32
	if signed {
		l := lanesI16(lo, hi)
		for i := 0; i < 4; i++ {
			src := i
			if !low {
				src += 4
			}
			out[i] = int32(l[src])
		}
	} else {
		l := lanesU16(lo, hi)
		for i := 0; i < 4; i++ {
			src := i
			if !low {
				src += 4
			}
			out[i] = int32(uint32(l[src]))
		}
	}
	nlo, nhi := v128OfI32(out)
	ce.pushV128(nlo, nhi)
}

func (ce *callEngine) extmulI16(low, signed bool) {
	blo, bhi := ce.popV128()
	alo, ahi := ce.popV128()
	var out [4]uint32
	if signed {
		a, b := lanesI16(alo, ahi), lanesI16(blo, bhi)
		for i := 0; i < 4; i++ {
			src := i
			if !low {
				src += 4
			}
			out[i] = uint32(int32(a[src]) * int32(b[src]))
		}
	} else {
		a, b := lanesU16(alo, ahi), lanesU16(blo, bhi)
		for i := 0; i < 4; i++ {
			src := i
			if !low {
				src += 4
			}
			out[i] = uint32(a[src]) * uint32(b[src])
		}
	}
	lo, hi := v128OfU32(out)
	ce.pushV128(lo, hi)
}

func (ce *callEngine) dotI16() {
	blo, bhi := ce.popV128()
	alo, ahi := ce.popV128()
	a, b := lanesI16(alo, ahi), lanesI16(blo, bhi)
	var out [4]int32
	for i := range out {
		out[i] = int32(a[2*i])*int32(b[2*i]) + int32(a[2*i+1])*int32(b[2*i+1])
	}
	lo, hi := v128OfI32(out)
	ce.pushV128(lo, hi)
}

func (ce *callEngine) unopI32(f func(int32) int32) {
	lo, hi := ce.popV128()
	l := lanesI32(lo, hi)
	for i, v := range l {
		l[i] = f(v)
	}
	nlo, nhi := v128OfI32(l)
	ce.pushV128(nlo, nhi)
}

func (ce *callEngine) binopI32(f func(a, b int32) int32) {
	blo, bhi := ce.popV128()
	alo, ahi := ce.popV128()
	a, b := lanesI32(alo, ahi), lanesI32(blo, bhi)
	var out [4]int32
	for i := range out {
		out[i] = f(a[i], b[i])
	}
	lo, hi := v128OfI32(out)
	ce.pushV128(lo, hi)
}

func (ce *callEngine) binopU32(f func(a, b uint32) uint32) {
	blo, bhi := ce.popV128()
	alo, ahi := ce.popV128()
	a, b := lanesU32(alo, ahi), lanesU32(blo, bhi)
	var out [4]uint32
	for i := range out {
		out[i] = f(a[i], b[i])
	}
	lo, hi := v128OfU32(out)
	ce.pushV128(lo, hi)
}

func (ce *callEngine) relopI32(f func(a, b int32) bool) {
	blo, bhi := ce.popV128()
	alo, ahi := ce.popV128()
	a, b := lanesI32(alo, ahi), lanesI32(blo, bhi)
	var out [4]int32
	for i := range out {
		if f(a[i], b[i]) {
			out[i] = -1
		}
	}
	lo, hi := v128OfI32(out)
	ce.pushV128(lo, hi)
}

func (ce *callEngine) relopU32(f func(a, b uint32) bool) {
	ce.relopI32(func(a, b int32) bool { return f(uint32(a), uint32(b)) })
}

func (ce *callEngine) shiftI32(f func(v int32, n uint32) int32) {
	n := ce.popU32()
	lo, hi := ce.popV128()
	l := lanesI32(lo, hi)
	for i, v := range l {
		l[i] = f(v, n)
	}
	nlo, nhi := v128OfI32(l)
	ce.pushV128(nlo, nhi)
}

func (ce *callEngine) allTrueI32() {
	lo, hi := ce.popV128()
	all := true
	for _, v := range lanesU32(lo, hi) {
		if v == 0 {
			all = false
			break
		}
	}
	ce.pushBool(all)
}

func (ce *callEngine) bitmaskI32() {
	lo, hi := ce.popV128()
	l := lanesI32(lo, hi)
	var mask uint32
	for i, v := range l {
		if v < 0 {
			mask |= 1 << uint(i)
		}
	}
	ce.pushU32(mask)
}

func (ce *callEngine) extendI32(low, signed bool) {
	lo, hi := ce.popV128()
	var out [2]int64
	if signed {
		l := lanesI32(lo, hi)
		for i := 0; i < 2; i++ {
			src := i
			if !low {
				src += 2
			}
			out[i] = int64(l[src])
		}
	} else {
		l := lanesU32(lo, hi)
		for i := 0; i < 2; i++ {
			src := i
			if !low {
				src += 2
			}
			out[i] = int64(uint64(l[src]))
		}
	}
	nlo, nhi := v128OfI64(out)
	ce.pushV128(nlo, nhi)
}

func (ce *callEngine) extmulI32(low, signed bool) {
	blo, bhi := ce.popV128()
	alo, ahi := ce.popV128()
	var out [2]int64
	if signed {
		a, b := lanesI32(alo, ahi), lanesI32(blo, bhi)
		for i := 0; i < 2; i++ {
			src := i
			if !low {
				src += 2
			}
			out[i] = int64(a[src]) * int64(b[src])
		}
	} else {
		a, b := lanesU32(alo, ahi), lanesU32(blo, bhi)
		for i := 0; i < 2; i++ {
			src := i
			if !low {
				src += 2
			}
			out[i] = int64(uint64(a[src]) * uint64(b[src]))
		}
	}
	lo, hi := v128OfI64(out)
	ce.pushV128(lo, hi)
}

func (ce *callEngine) unopI64(f func(int64) int64) {
	lo, hi := ce.popV128()
	l := lanesI64(lo, hi)
	for i, v := range l {
		l[i] = f(v)
	}
	nlo, nhi := v128OfI64(l)
	ce.pushV128(nlo, nhi)
}

func (ce *callEngine) binopI64(f func(a, b int64) int64) {
	blo, bhi := ce.popV128()
	alo, ahi := ce.popV128()
	a, b := lanesI64(alo, ahi), lanesI64(blo, bhi)
	var out [2]int64
	for i := range out {
		out[i] = f(a[i], b[i])
	}
	lo, hi := v128OfI64(out)
	ce.pushV128(lo, hi)
}

func (ce *callEngine) relopI64(f func(a, b int64) bool) {
	blo, bhi := ce.popV128()
	alo, ahi := ce.popV128()
	a, b := lanesI64(alo, ahi), lanesI64(blo, bhi)
	var out [2]int64
	for i := range out {
		if f(a[i], b[i]) {
			out[i] = -1
		}
	}
	lo, hi := v128OfI64(out)
	ce.pushV128(lo, hi)
}

func (ce *callEngine) shiftI64(f func(v int64, n uint32) int64) {
	n := ce.popU32()
	lo, hi := ce.popV128()
	l := lanesI64(lo, hi)
	for i, v := range l {
		l[i] = f(v, n)
	}
	nlo, nhi := v128OfI64(l)
	ce.pushV128(nlo, nhi)
}

func (ce *callEngine) allTrueI64() {
	lo, hi := ce.popV128()
	ce.pushBool(lo != 0 && hi != 0)
}

func (ce *callEngine) bitmaskI64() {
	lo, hi := ce.popV128()
	var mask uint32
	if int64(lo) < 0 {
		mask |= 1
	}
	if int64(hi) < 0 {
		mask |= 2
	}
	ce.pushU32(mask)
}

func (ce *callEngine) unopF32(f func(float32) float32) {
	lo, hi := ce.popV128()
	l := lanesF32(lo, hi)
	for i, v := range l {
		l[i] = f(v)
	}
	nlo, nhi := v128OfF32(l)
	ce.pushV128(nlo, nhi)
}

func (ce *callEngine) binopF32(f func(a, b float32) float32) {
	blo, bhi := ce.popV128()
	alo, ahi := ce.popV128()
	a, b := lanesF32(alo, ahi), lanesF32(blo, bhi)
	var out [4]float32
	for i := range out {
		out[i] = f(a[i], b[i])
	}
	lo, hi := v128OfF32(out)
	ce.pushV128(lo, hi)
}

func (ce *callEngine) relopF32(f func(a, b float32) bool) {
	blo, bhi := ce.popV128()
	alo, ahi := ce.popV128()
	a, b := lanesF32(alo, ahi), lanesF32(blo, bhi)
	var out [4]int32
	for i := range out {
		if f(a[i], b[i]) {
			out[i] = -1
		}
	}
	lo, hi := v128OfI32(out)
	ce.pushV128(lo, hi)
}

func (ce *callEngine) unopF64(f func(float64) float64) {
	lo, hi := ce.popV128()
	l := lanesF64(lo, hi)
	for i, v := range l {
		l[i] = f(v)
	}
	nlo, nhi := v128OfF64(l)
	ce.pushV128(nlo, nhi)
}

func (ce *callEngine) binopF64(f func(a, b float64) float64) {
	blo, bhi := ce.popV128()
	alo, ahi := ce.popV128()
	a, b := lanesF64(alo, ahi), lanesF64(blo, bhi)
	var out [2]float64
	for i := range out {
		out[i] = f(a[i], b[i])
	}
	lo, hi := v128OfF64(out)
	ce.pushV128(lo, hi)
}

func (ce *callEngine) relopF64(f func(a, b float64) bool) {
	blo, bhi := ce.popV128()
	alo, ahi := ce.popV128()
	a, b := lanesF64(alo, ahi), lanesF64(blo, bhi)
	var out [2]int64
	for i := range out {
		if f(a[i], b[i]) {
			out[i] = -1
		}
	}
	lo, hi := v128OfI64(out)
	ce.pushV128(lo, hi)
}

func (ce *callEngine) cvtF32ToI32(f func(float64) int32) {
	lo, hi := ce.popV128()
	l := lanesF32(lo, hi)
	var out [4]int32
	for i, v := range l {
		out[i] = f(float64(v))
	}
	nlo, nhi := v128OfI32(out)
	ce.pushV128(nlo, nhi)
}

func (ce *callEngine) cvtF32ToI32U(f func(float64) uint32) {
	lo, hi := ce.popV128()
	l := lanesF32(lo, hi)
	var out [4]uint32
	for i, v := range l {
		out[i] = f(float64(v))
	}
	nlo, nhi := v128OfU32(out)
	ce.pushV128(nlo, nhi)
}

func (ce *callEngine) cvtI32ToF32(f func(int32) float32) {
	lo, hi := ce.popV128()
	l := lanesI32(lo, hi)
	var out [4]float32
	for i, v := range l {
		out[i] = f(v)
	}
	nlo, nhi := v128OfF32(out)
	ce.pushV128(nlo, nhi)
}

func (ce *callEngine) cvtU32ToF32(f func(uint32) float32) {
	lo, hi := ce.popV128()
	l := lanesU32(lo, hi)
	var out [4]float32
	for i, v := range l {
		out[i] = f(v)
	}
	nlo, nhi := v128OfF32(out)
	ce.pushV128(nlo, nhi)
}

func (ce *callEngine) cvtF64ToI32Zero(f func(float64) int32) {
	lo, hi := ce.popV128()
	l := lanesF64(lo, hi)
	out := [4]int32{f(l[0]), f(l[1]), 0, 0}
	nlo, nhi := v128OfI32(out)
	ce.pushV128(nlo, nhi)
}

func (ce *callEngine) cvtF64ToI32ZeroU(f func(float64) uint32) {
	lo, hi := ce.popV128()
	l := lanesF64(lo, hi)
	out := [4]uint32{f(l[0]), f(l[1]), 0, 0}
	nlo, nhi := v128OfU32(out)
	ce.pushV128(nlo, nhi)
}

func satAddI8(a, b int8) int8 {
	r := int16(a) + int16(b)
	if r > math.MaxInt8 {
		return math.MaxInt8
	}
	if r < math.MinInt8 {
		return math.MinInt8
	}
	return int8(r)
}
func satSubI8(a, b int8) int8 {
	r := int16(a) - int16(b)
	if r > math.MaxInt8 {
		return math.MaxInt8
	}
	if r < math.MinInt8 {
		return math.MinInt8
	}
	return int8(r)
}
func satAddU8(a, b uint8) uint8 {
	r := uint16(a) + uint16(b)
	if r > math.MaxUint8 {
		return math.MaxUint8
	}
	return uint8(r)
}
func satSubU8(a, b uint8) uint8 {
	if b > a {
		return 0
	}
	return a - b
}
func satAddI16(a, b int16) int16 {
	r := int32(a) + int32(b)
	if r > math.MaxInt16 {
		return math.MaxInt16
	}
	if r < math.MinInt16 {
		return math.MinInt16
	}
	return int16(r)
}
func satSubI16(a, b int16) int16 {
	r := int32(a) - int32(b)
	if r > math.MaxInt16 {
		return math.MaxInt16
	}
	if r < math.MinInt16 {
		return math.MinInt16
	}
	return int16(r)
}
func satAddU16(a, b uint16) uint16 {
	r := uint32(a) + uint32(b)
	if r > math.MaxUint16 {
		return math.MaxUint16
	}
	return uint16(r)
}
func satSubU16(a, b uint16) uint16 {
	if b > a {
		return 0
	}
	return a - b
}

// execVecLoadWiden covers the six 8x8/16x4/32x2 widening loads: eight bytes
// are read from memory as eight, four or two half-width lanes and each lane
// is sign/zero-extended to double width (spec.md's v128.load extension
// family).
func (ce *callEngine) execVecLoadWiden(f *callFrame, instr *wasm.Instr) {
	mem := ce.mem(f)
	ea := uint64(ce.popU32()) + uint64(instr.MemArg.Offset)
	checkBounds(mem, ea, 8)
	switch wasm.Opcode(instr.Sub) {
	case wasm.OpcodeVecV128Load8x8S:
		var out [8]int16
		for i := 0; i < 8; i++ {
			out[i] = int16(int8(mem.Data[ea+uint64(i)]))
		}
		lo, hi := v128OfI16(out)
		ce.pushV128(lo, hi)
	case wasm.OpcodeVecV128Load8x8U:
		var out [8]uint16
		for i := 0; i < 8; i++ {
			out[i] = uint16(mem.Data[ea+uint64(i)])
		}
		lo, hi := v128OfU16(out)
		ce.pushV128(lo, hi)
	case wasm.OpcodeVecV128Load16x4S:
		var out [4]int32
		for i := 0; i < 4; i++ {
			out[i] = int32(int16(loadU16(mem, ea+uint64(i*2))))
		}
		lo, hi := v128OfI32(out)
		ce.pushV128(lo, hi)
	case wasm.OpcodeVecV128Load16x4U:
		var out [4]uint32
		for i := 0; i < 4; i++ {
			out[i] = uint32(loadU16(mem, ea+uint64(i*2)))
		}
		lo, hi := v128OfU32(out)
		ce.pushV128(lo, hi)
	case wasm.OpcodeVecV128Load32x2S:
		var out [2]int64
		for i := 0; i < 2; i++ {
			out[i] = int64(int32(loadU32(mem, ea+uint64(i*4))))
		}
		lo, hi := v128OfI64(out)
		ce.pushV128(lo, hi)
	case wasm.OpcodeVecV128Load32x2U:
		var out [2]int64
		for i := 0; i < 2; i++ {
			out[i] = int64(uint64(loadU32(mem, ea+uint64(i*4))))
		}
		lo, hi := v128OfI64(out)
		ce.pushV128(lo, hi)
	}
}

func (ce *callEngine) execVecLoadSplat(f *callFrame, instr *wasm.Instr) {
	mem := ce.mem(f)
	ea := uint64(ce.popU32()) + uint64(instr.MemArg.Offset)
	switch wasm.Opcode(instr.Sub) {
	case wasm.OpcodeVecV128Load8Splat:
		v := loadByte(mem, ea)
		var b [16]byte
		for i := range b {
			b[i] = v
		}
		lo, hi := v128OfBytes(b)
		ce.pushV128(lo, hi)
	case wasm.OpcodeVecV128Load16Splat:
		v := loadU16(mem, ea)
		lo, hi := v128OfU16([8]uint16{v, v, v, v, v, v, v, v})
		ce.pushV128(lo, hi)
	case wasm.OpcodeVecV128Load32Splat:
		v := loadU32(mem, ea)
		lo, hi := v128OfU32([4]uint32{v, v, v, v})
		ce.pushV128(lo, hi)
	case wasm.OpcodeVecV128Load64Splat:
		v := loadU64(mem, ea)
		ce.pushV128(v, v)
	}
}

func (ce *callEngine) execVecLoadZero(f *callFrame, instr *wasm.Instr) {
	mem := ce.mem(f)
	ea := uint64(ce.popU32()) + uint64(instr.MemArg.Offset)
	switch wasm.Opcode(instr.Sub) {
	case wasm.OpcodeVecV128Load32Zero:
		ce.pushV128(uint64(loadU32(mem, ea)), 0)
	case wasm.OpcodeVecV128Load64Zero:
		ce.pushV128(loadU64(mem, ea), 0)
	}
}

func (ce *callEngine) execVecLoadLane(f *callFrame, instr *wasm.Instr) {
	mem := ce.mem(f)
	lo, hi := ce.popV128()
	ea := uint64(ce.popU32()) + uint64(instr.MemArg.Offset)
	switch wasm.Opcode(instr.Sub) {
	case wasm.OpcodeVecV128Load8Lane:
		b := bytesOfV128(lo, hi)
		b[instr.Lane] = loadByte(mem, ea)
		lo, hi = v128OfBytes(b)
	case wasm.OpcodeVecV128Load16Lane:
		l := lanesU16(lo, hi)
		l[instr.Lane] = loadU16(mem, ea)
		lo, hi = v128OfU16(l)
	case wasm.OpcodeVecV128Load32Lane:
		l := lanesU32(lo, hi)
		l[instr.Lane] = loadU32(mem, ea)
		lo, hi = v128OfU32(l)
	case wasm.OpcodeVecV128Load64Lane:
		if instr.Lane == 0 {
			lo = loadU64(mem, ea)
		} else {
			hi = loadU64(mem, ea)
		}
	}
	ce.pushV128(lo, hi)
}

func (ce *callEngine) execVecStoreLane(f *callFrame, instr *wasm.Instr) {
	mem := ce.mem(f)
	lo, hi := ce.popV128()
	ea := uint64(ce.popU32()) + uint64(instr.MemArg.Offset)
	switch wasm.Opcode(instr.Sub) {
	case wasm.OpcodeVecV128Store8Lane:
		storeByte(mem, ea, bytesOfV128(lo, hi)[instr.Lane])
	case wasm.OpcodeVecV128Store16Lane:
		storeU16(mem, ea, lanesU16(lo, hi)[instr.Lane])
	case wasm.OpcodeVecV128Store32Lane:
		storeU32(mem, ea, lanesU32(lo, hi)[instr.Lane])
	case wasm.OpcodeVecV128Store64Lane:
		if instr.Lane == 0 {
			storeU64(mem, ea, lo)
		} else {
			storeU64(mem, ea, hi)
		}
	}
}
