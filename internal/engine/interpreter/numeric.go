package interpreter

import (
	"fmt"
	"math"
	"math/bits"

	"github.com/wasmkit/wasmkit/internal/moremath"
	"github.com/wasmkit/wasmkit/internal/wasm"
	"github.com/wasmkit/wasmkit/internal/wasmruntime"
)

// execNumeric dispatches every single-byte numeric instruction: testop,
// relop, unop, binop and cvtop, matching validator_step.go's
// numericSignature opcode ranges field-for-field (none of these carry
// Instr operands beyond Op itself).
func (ce *callEngine) execNumeric(instr *wasm.Instr) {
	switch instr.Op {
	// i32 testop/relop
	case wasm.OpcodeI32Eqz:
		ce.pushBool(ce.popU32() == 0)
	case wasm.OpcodeI32Eq:
		b, a := ce.popU32(), ce.popU32()
		ce.pushBool(a == b)
	case wasm.OpcodeI32Ne:
		b, a := ce.popU32(), ce.popU32()
		ce.pushBool(a != b)
	case wasm.OpcodeI32LtS:
		b, a := ce.popI32(), ce.popI32()
		ce.pushBool(a < b)
	case wasm.OpcodeI32LtU:
		b, a := ce.popU32(), ce.popU32()
		ce.pushBool(a < b)
	case wasm.OpcodeI32GtS:
		b, a := ce.popI32(), ce.popI32()
		ce.pushBool(a > b)
	case wasm.OpcodeI32GtU:
		b, a := ce.popU32(), ce.popU32()
		ce.pushBool(a > b)
	case wasm.OpcodeI32LeS:
		b, a := ce.popI32(), ce.popI32()
		ce.pushBool(a <= b)
	case wasm.OpcodeI32LeU:
		b, a := ce.popU32(), ce.popU32()
		ce.pushBool(a <= b)
	case wasm.OpcodeI32GeS:
		b, a := ce.popI32(), ce.popI32()
		ce.pushBool(a >= b)
	case wasm.OpcodeI32GeU:
		b, a := ce.popU32(), ce.popU32()
		ce.pushBool(a >= b)

	// i64 testop/relop
	case wasm.OpcodeI64Eqz:
		ce.pushBool(ce.pop() == 0)
	case wasm.OpcodeI64Eq:
		b, a := ce.pop(), ce.pop()
		ce.pushBool(a == b)
	case wasm.OpcodeI64Ne:
		b, a := ce.pop(), ce.pop()
		ce.pushBool(a != b)
	case wasm.OpcodeI64LtS:
		b, a := int64(ce.pop()), int64(ce.pop())
		ce.pushBool(a < b)
	case wasm.OpcodeI64LtU:
		b, a := ce.pop(), ce.pop()
		ce.pushBool(a < b)
	case wasm.OpcodeI64GtS:
		b, a := int64(ce.pop()), int64(ce.pop())
		ce.pushBool(a > b)
	case wasm.OpcodeI64GtU:
		b, a := ce.pop(), ce.pop()
		ce.pushBool(a > b)
	case wasm.OpcodeI64LeS:
		b, a := int64(ce.pop()), int64(ce.pop())
		ce.pushBool(a <= b)
	case wasm.OpcodeI64LeU:
		b, a := ce.pop(), ce.pop()
		ce.pushBool(a <= b)
	case wasm.OpcodeI64GeS:
		b, a := int64(ce.pop()), int64(ce.pop())
		ce.pushBool(a >= b)
	case wasm.OpcodeI64GeU:
		b, a := ce.pop(), ce.pop()
		ce.pushBool(a >= b)

	// f32/f64 relop
	case wasm.OpcodeF32Eq:
		b, a := ce.popF32(), ce.popF32()
		ce.pushBool(a == b)
	case wasm.OpcodeF32Ne:
		b, a := ce.popF32(), ce.popF32()
		ce.pushBool(a != b)
	case wasm.OpcodeF32Lt:
		b, a := ce.popF32(), ce.popF32()
		ce.pushBool(a < b)
	case wasm.OpcodeF32Gt:
		b, a := ce.popF32(), ce.popF32()
		ce.pushBool(a > b)
	case wasm.OpcodeF32Le:
		b, a := ce.popF32(), ce.popF32()
		ce.pushBool(a <= b)
	case wasm.OpcodeF32Ge:
		b, a := ce.popF32(), ce.popF32()
		ce.pushBool(a >= b)
	case wasm.OpcodeF64Eq:
		b, a := ce.popF64(), ce.popF64()
		ce.pushBool(a == b)
	case wasm.OpcodeF64Ne:
		b, a := ce.popF64(), ce.popF64()
		ce.pushBool(a != b)
	case wasm.OpcodeF64Lt:
		b, a := ce.popF64(), ce.popF64()
		ce.pushBool(a < b)
	case wasm.OpcodeF64Gt:
		b, a := ce.popF64(), ce.popF64()
		ce.pushBool(a > b)
	case wasm.OpcodeF64Le:
		b, a := ce.popF64(), ce.popF64()
		ce.pushBool(a <= b)
	case wasm.OpcodeF64Ge:
		b, a := ce.popF64(), ce.popF64()
		ce.pushBool(a >= b)

	// i32 unop/binop
	case wasm.OpcodeI32Clz:
		ce.pushU32(uint32(bits.LeadingZeros32(ce.popU32())))
	case wasm.OpcodeI32Ctz:
		ce.pushU32(uint32(bits.TrailingZeros32(ce.popU32())))
	case wasm.OpcodeI32Popcnt:
		ce.pushU32(uint32(bits.OnesCount32(ce.popU32())))
	case wasm.OpcodeI32Add:
		b, a := ce.popU32(), ce.popU32()
		ce.pushU32(a + b)
	case wasm.OpcodeI32Sub:
		b, a := ce.popU32(), ce.popU32()
		ce.pushU32(a - b)
	case wasm.OpcodeI32Mul:
		b, a := ce.popU32(), ce.popU32()
		ce.pushU32(a * b)
	case wasm.OpcodeI32DivS:
		b, a := ce.popI32(), ce.popI32()
		ce.pushI32(divS32(a, b))
	case wasm.OpcodeI32DivU:
		b, a := ce.popU32(), ce.popU32()
		if b == 0 {
			panic(wasmruntime.ErrRuntimeIntegerDivideByZero)
		}
		ce.pushU32(a / b)
	case wasm.OpcodeI32RemS:
		b, a := ce.popI32(), ce.popI32()
		if b == 0 {
			panic(wasmruntime.ErrRuntimeIntegerDivideByZero)
		}
		if b == -1 {
			ce.pushI32(0)
		} else {
			ce.pushI32(a % b)
		}
	case wasm.OpcodeI32RemU:
		b, a := ce.popU32(), ce.popU32()
		if b == 0 {
			panic(wasmruntime.ErrRuntimeIntegerDivideByZero)
		}
		ce.pushU32(a % b)
	case wasm.OpcodeI32And:
		b, a := ce.popU32(), ce.popU32()
		ce.pushU32(a & b)
	case wasm.OpcodeI32Or:
		b, a := ce.popU32(), ce.popU32()
		ce.pushU32(a | b)
	case wasm.OpcodeI32Xor:
		b, a := ce.popU32(), ce.popU32()
		ce.pushU32(a ^ b)
	case wasm.OpcodeI32Shl:
		b, a := ce.popU32(), ce.popU32()
		ce.pushU32(a << (b & 31))
	case wasm.OpcodeI32ShrS:
		b, a := ce.popU32(), ce.popI32()
		ce.pushI32(a >> (b & 31))
	case wasm.OpcodeI32ShrU:
		b, a := ce.popU32(), ce.popU32()
		ce.pushU32(a >> (b & 31))
	case wasm.OpcodeI32Rotl:
		b, a := ce.popU32(), ce.popU32()
		ce.pushU32(bits.RotateLeft32(a, int(b&31)))
	case wasm.OpcodeI32Rotr:
		b, a := ce.popU32(), ce.popU32()
		ce.pushU32(bits.RotateLeft32(a, -int(b&31)))

	// i64 unop/binop
	case wasm.OpcodeI64Clz:
		ce.push(uint64(bits.LeadingZeros64(ce.pop())))
	case wasm.OpcodeI64Ctz:
		ce.push(uint64(bits.TrailingZeros64(ce.pop())))
	case wasm.OpcodeI64Popcnt:
		ce.push(uint64(bits.OnesCount64(ce.pop())))
	case wasm.OpcodeI64Add:
		b, a := ce.pop(), ce.pop()
		ce.push(a + b)
	case wasm.OpcodeI64Sub:
		b, a := ce.pop(), ce.pop()
		ce.push(a - b)
	case wasm.OpcodeI64Mul:
		b, a := ce.pop(), ce.pop()
		ce.push(a * b)
	case wasm.OpcodeI64DivS:
		b, a := int64(ce.pop()), int64(ce.pop())
		ce.push(uint64(divS64(a, b)))
	case wasm.OpcodeI64DivU:
		b, a := ce.pop(), ce.pop()
		if b == 0 {
			panic(wasmruntime.ErrRuntimeIntegerDivideByZero)
		}
		ce.push(a / b)
	case wasm.OpcodeI64RemS:
		b, a := int64(ce.pop()), int64(ce.pop())
		if b == 0 {
			panic(wasmruntime.ErrRuntimeIntegerDivideByZero)
		}
		if b == -1 {
			ce.push(0)
		} else {
			ce.push(uint64(a % b))
		}
	case wasm.OpcodeI64RemU:
		b, a := ce.pop(), ce.pop()
		if b == 0 {
			panic(wasmruntime.ErrRuntimeIntegerDivideByZero)
		}
		ce.push(a % b)
	case wasm.OpcodeI64And:
		b, a := ce.pop(), ce.pop()
		ce.push(a & b)
	case wasm.OpcodeI64Or:
		b, a := ce.pop(), ce.pop()
		ce.push(a | b)
	case wasm.OpcodeI64Xor:
		b, a := ce.pop(), ce.pop()
		ce.push(a ^ b)
	case wasm.OpcodeI64Shl:
		b, a := ce.pop(), ce.pop()
		ce.push(a << (b & 63))
	case wasm.OpcodeI64ShrS:
		b, a := ce.pop(), int64(ce.pop())
		ce.push(uint64(a >> (b & 63)))
	case wasm.OpcodeI64ShrU:
		b, a := ce.pop(), ce.pop()
		ce.push(a >> (b & 63))
	case wasm.OpcodeI64Rotl:
		b, a := ce.pop(), ce.pop()
		ce.push(bits.RotateLeft64(a, int(b&63)))
	case wasm.OpcodeI64Rotr:
		b, a := ce.pop(), ce.pop()
		ce.push(bits.RotateLeft64(a, -int(b&63)))

	// f32 unop/binop
	case wasm.OpcodeF32Abs:
		ce.pushF32(float32(math.Abs(float64(ce.popF32()))))
	case wasm.OpcodeF32Neg:
		ce.pushF32(-ce.popF32())
	case wasm.OpcodeF32Ceil:
		ce.pushF32(float32(math.Ceil(float64(ce.popF32()))))
	case wasm.OpcodeF32Floor:
		ce.pushF32(float32(math.Floor(float64(ce.popF32()))))
	case wasm.OpcodeF32Trunc:
		ce.pushF32(float32(math.Trunc(float64(ce.popF32()))))
	case wasm.OpcodeF32Nearest:
		ce.pushF32(moremath.WasmCompatNearestF32(ce.popF32()))
	case wasm.OpcodeF32Sqrt:
		ce.pushF32(float32(math.Sqrt(float64(ce.popF32()))))
	case wasm.OpcodeF32Add:
		b, a := ce.popF32(), ce.popF32()
		ce.pushF32(a + b)
	case wasm.OpcodeF32Sub:
		b, a := ce.popF32(), ce.popF32()
		ce.pushF32(a - b)
	case wasm.OpcodeF32Mul:
		b, a := ce.popF32(), ce.popF32()
		ce.pushF32(a * b)
	case wasm.OpcodeF32Div:
		b, a := ce.popF32(), ce.popF32()
		ce.pushF32(a / b)
	case wasm.OpcodeF32Min:
		b, a := ce.popF32(), ce.popF32()
		ce.pushF32(float32(moremath.WasmCompatMin(float64(a), float64(b))))
	case wasm.OpcodeF32Max:
		b, a := ce.popF32(), ce.popF32()
		ce.pushF32(float32(moremath.WasmCompatMax(float64(a), float64(b))))
	case wasm.OpcodeF32Copysign:
		b, a := ce.popF32(), ce.popF32()
		ce.pushF32(float32(math.Copysign(float64(a), float64(b))))

	// f64 unop/binop
	case wasm.OpcodeF64Abs:
		ce.pushF64(math.Abs(ce.popF64()))
	case wasm.OpcodeF64Neg:
		ce.pushF64(-ce.popF64())
	case wasm.OpcodeF64Ceil:
		ce.pushF64(math.Ceil(ce.popF64()))
	case wasm.OpcodeF64Floor:
		ce.pushF64(math.Floor(ce.popF64()))
	case wasm.OpcodeF64Trunc:
		ce.pushF64(math.Trunc(ce.popF64()))
	case wasm.OpcodeF64Nearest:
		ce.pushF64(moremath.WasmCompatNearestF64(ce.popF64()))
	case wasm.OpcodeF64Sqrt:
		ce.pushF64(math.Sqrt(ce.popF64()))
	case wasm.OpcodeF64Add:
		b, a := ce.popF64(), ce.popF64()
		ce.pushF64(a + b)
	case wasm.OpcodeF64Sub:
		b, a := ce.popF64(), ce.popF64()
		ce.pushF64(a - b)
	case wasm.OpcodeF64Mul:
		b, a := ce.popF64(), ce.popF64()
		ce.pushF64(a * b)
	case wasm.OpcodeF64Div:
		b, a := ce.popF64(), ce.popF64()
		ce.pushF64(a / b)
	case wasm.OpcodeF64Min:
		b, a := ce.popF64(), ce.popF64()
		ce.pushF64(moremath.WasmCompatMin(a, b))
	case wasm.OpcodeF64Max:
		b, a := ce.popF64(), ce.popF64()
		ce.pushF64(moremath.WasmCompatMax(a, b))
	case wasm.OpcodeF64Copysign:
		b, a := ce.popF64(), ce.popF64()
		ce.pushF64(math.Copysign(a, b))

	// cvtop
	case wasm.OpcodeI32WrapI64:
		ce.pushU32(uint32(ce.pop()))
	case wasm.OpcodeI32TruncF32S:
		ce.pushI32(truncToI32S(float64(ce.popF32())))
	case wasm.OpcodeI32TruncF32U:
		ce.pushU32(truncToI32U(float64(ce.popF32())))
	case wasm.OpcodeI32TruncF64S:
		ce.pushI32(truncToI32S(ce.popF64()))
	case wasm.OpcodeI32TruncF64U:
		ce.pushU32(truncToI32U(ce.popF64()))
	case wasm.OpcodeI64ExtendI32S:
		ce.push(uint64(int64(ce.popI32())))
	case wasm.OpcodeI64ExtendI32U:
		ce.push(uint64(ce.popU32()))
	case wasm.OpcodeI64TruncF32S:
		ce.push(uint64(truncToI64S(float64(ce.popF32()))))
	case wasm.OpcodeI64TruncF32U:
		ce.push(truncToI64U(float64(ce.popF32())))
	case wasm.OpcodeI64TruncF64S:
		ce.push(uint64(truncToI64S(ce.popF64())))
	case wasm.OpcodeI64TruncF64U:
		ce.push(truncToI64U(ce.popF64()))
	case wasm.OpcodeF32ConvertI32S:
		ce.pushF32(float32(ce.popI32()))
	case wasm.OpcodeF32ConvertI32U:
		ce.pushF32(float32(ce.popU32()))
	case wasm.OpcodeF32ConvertI64S:
		ce.pushF32(float32(int64(ce.pop())))
	case wasm.OpcodeF32ConvertI64U:
		ce.pushF32(float32(ce.pop()))
	case wasm.OpcodeF32DemoteF64:
		ce.pushF32(float32(ce.popF64()))
	case wasm.OpcodeF64ConvertI32S:
		ce.pushF64(float64(ce.popI32()))
	case wasm.OpcodeF64ConvertI32U:
		ce.pushF64(float64(ce.popU32()))
	case wasm.OpcodeF64ConvertI64S:
		ce.pushF64(float64(int64(ce.pop())))
	case wasm.OpcodeF64ConvertI64U:
		ce.pushF64(float64(ce.pop()))
	case wasm.OpcodeF64PromoteF32:
		ce.pushF64(float64(ce.popF32()))
	case wasm.OpcodeI32ReinterpretF32, wasm.OpcodeI64ReinterpretF64, wasm.OpcodeF32ReinterpretI32, wasm.OpcodeF64ReinterpretI64:
		// raw bit pattern already matches between the numeric and float
		// encodings used on the stack; reinterpret is a no-op.

	case wasm.OpcodeI32Extend8S:
		ce.pushI32(int32(int8(ce.popU32())))
	case wasm.OpcodeI32Extend16S:
		ce.pushI32(int32(int16(ce.popU32())))
	case wasm.OpcodeI64Extend8S:
		ce.push(uint64(int64(int8(ce.pop()))))
	case wasm.OpcodeI64Extend16S:
		ce.push(uint64(int64(int16(ce.pop()))))
	case wasm.OpcodeI64Extend32S:
		ce.push(uint64(int64(int32(ce.pop()))))

	default:
		panic(fmt.Errorf("interpreter: unimplemented opcode 0x%x", instr.Op))
	}
}

func divS32(a, b int32) int32 {
	if b == 0 {
		panic(wasmruntime.ErrRuntimeIntegerDivideByZero)
	}
	if a == math.MinInt32 && b == -1 {
		panic(wasmruntime.ErrRuntimeIntegerOverflow)
	}
	return a / b
}

func divS64(a, b int64) int64 {
	if b == 0 {
		panic(wasmruntime.ErrRuntimeIntegerDivideByZero)
	}
	if a == math.MinInt64 && b == -1 {
		panic(wasmruntime.ErrRuntimeIntegerOverflow)
	}
	return a / b
}

func truncToI32S(f float64) int32 {
	if math.IsNaN(f) {
		panic(wasmruntime.ErrRuntimeInvalidConversionToInteger)
	}
	if f < -2147483649 || f >= 2147483648 {
		panic(wasmruntime.ErrRuntimeIntegerOverflow)
	}
	return int32(f)
}

func truncToI32U(f float64) uint32 {
	if math.IsNaN(f) {
		panic(wasmruntime.ErrRuntimeInvalidConversionToInteger)
	}
	if f <= -1 || f >= 4294967296 {
		panic(wasmruntime.ErrRuntimeIntegerOverflow)
	}
	return uint32(f)
}

func truncToI64S(f float64) int64 {
	if math.IsNaN(f) {
		panic(wasmruntime.ErrRuntimeInvalidConversionToInteger)
	}
	if f < -9223372036854775808 || f >= 9223372036854775808 {
		panic(wasmruntime.ErrRuntimeIntegerOverflow)
	}
	return int64(f)
}

func truncToI64U(f float64) uint64 {
	if math.IsNaN(f) {
		panic(wasmruntime.ErrRuntimeInvalidConversionToInteger)
	}
	if f <= -1 || f >= 18446744073709551615 {
		panic(wasmruntime.ErrRuntimeIntegerOverflow)
	}
	return uint64(f)
}

// saturating (non-trapping) truncation helpers for the 0xFC sat-trunc ops:
// NaN saturates to 0, out-of-range saturates to the nearest representable
// bound instead of trapping (spec.md §4.1 family 5).
func satTruncToI32S(f float64) int32 {
	switch {
	case math.IsNaN(f):
		return 0
	case f <= -2147483649:
		return math.MinInt32
	case f >= 2147483648:
		return math.MaxInt32
	default:
		return int32(f)
	}
}

func satTruncToI32U(f float64) uint32 {
	switch {
	case math.IsNaN(f) || f <= -1:
		return 0
	case f >= 4294967296:
		return math.MaxUint32
	default:
		return uint32(f)
	}
}

func satTruncToI64S(f float64) int64 {
	switch {
	case math.IsNaN(f):
		return 0
	case f <= -9223372036854775808:
		return math.MinInt64
	case f >= 9223372036854775808:
		return math.MaxInt64
	default:
		return int64(f)
	}
}

func satTruncToI64U(f float64) uint64 {
	switch {
	case math.IsNaN(f) || f <= -1:
		return 0
	case f >= 18446744073709551615:
		return math.MaxUint64
	default:
		return uint64(f)
	}
}

func (ce *callEngine) pushBool(b bool) {
	if b {
		ce.push(1)
	} else {
		ce.push(0)
	}
}

func (ce *callEngine) pushU32(v uint32) { ce.push(uint64(v)) }
func (ce *callEngine) pushI32(v int32)  { ce.push(uint64(uint32(v))) }
func (ce *callEngine) pushF32(v float32) { ce.push(uint64(math.Float32bits(v))) }
func (ce *callEngine) pushF64(v float64) { ce.push(math.Float64bits(v)) }

func (ce *callEngine) popF32() float32 { return math.Float32frombits(uint32(ce.pop())) }
func (ce *callEngine) popF64() float64 { return math.Float64frombits(ce.pop()) }
