// Package api includes constants and types used by both end-users and
// internal implementations. It mirrors spec.md §3 "Value types" and the
// host embedding API of spec.md §6.
package api

import (
	"fmt"
	"math"
)

// ExternType classifies imports and exports with their respective types.
//
// See https://www.w3.org/TR/2019/REC-wasm-core-1-20191205/#external-types%E2%91%A0
type ExternType = byte

const (
	ExternTypeFunc   ExternType = 0x00
	ExternTypeTable  ExternType = 0x01
	ExternTypeMemory ExternType = 0x02
	ExternTypeGlobal ExternType = 0x03
)

const (
	ExternTypeFuncName   = "func"
	ExternTypeTableName  = "table"
	ExternTypeMemoryName = "memory"
	ExternTypeGlobalName = "global"
)

// ExternTypeName returns the text-format field name of the given ExternType.
func ExternTypeName(et ExternType) string {
	switch et {
	case ExternTypeFunc:
		return ExternTypeFuncName
	case ExternTypeTable:
		return ExternTypeTableName
	case ExternTypeMemory:
		return ExternTypeMemoryName
	case ExternTypeGlobal:
		return ExternTypeGlobalName
	}
	return fmt.Sprintf("%#x", et)
}

// ValueType describes one of the value types of spec.md §3. Numeric types
// are carried on the engine's value stack as raw uint64 bit patterns (see
// EncodeI32 and friends); v128 and reference types need the extra width and
// null-tracking that Value below provides at the host boundary.
type ValueType = byte

const (
	ValueTypeI32 ValueType = 0x7f
	ValueTypeI64 ValueType = 0x7e
	ValueTypeF32 ValueType = 0x7d
	ValueTypeF64 ValueType = 0x7c

	// ValueTypeV128 is the 128-bit vector type added by the SIMD proposal
	// (spec.md §4.1 family 10). It is modelled as an opaque 128-bit bag
	// interpreted per-instruction as 16xi8, 8xi16, 4xi32, 2xi64, 4xf32 or
	// 2xf64 lanes (spec.md §3).
	ValueTypeV128 ValueType = 0x7b

	// ValueTypeFuncref and ValueTypeExternref are the two reference types
	// added by the reference-types proposal (spec.md §3 "Addresses").
	ValueTypeFuncref   ValueType = 0x70
	ValueTypeExternref ValueType = 0x6f
)

// ValueTypeName returns the WebAssembly text-format name of t, or "unknown".
func ValueTypeName(t ValueType) string {
	switch t {
	case ValueTypeI32:
		return "i32"
	case ValueTypeI64:
		return "i64"
	case ValueTypeF32:
		return "f32"
	case ValueTypeF64:
		return "f64"
	case ValueTypeV128:
		return "v128"
	case ValueTypeFuncref:
		return "funcref"
	case ValueTypeExternref:
		return "externref"
	}
	return "unknown"
}

// Value is a single WebAssembly value at the host boundary: the argument and
// result type used by spec.md §4.1's public contract
// (`run_export(store, module_inst, name, args)`).
//
// Numeric values (i32/i64/f32/f64) live in Lo, encoded per EncodeI32 etc.
// v128 values use both Lo (lanes 0) and Hi (lanes 1). Reference values
// (funcref/externref) use Lo as an opaque store address and set IsNull when
// the reference is the null-of-kind value (spec.md §3 "Addresses").
type Value struct {
	Type   ValueType
	Lo, Hi uint64
	IsNull bool
}

// I32 constructs an i32 Value.
func I32(v int32) Value { return Value{Type: ValueTypeI32, Lo: EncodeI32(v)} }

// I64 constructs an i64 Value.
func I64(v int64) Value { return Value{Type: ValueTypeI64, Lo: EncodeI64(v)} }

// F32 constructs an f32 Value.
func F32(v float32) Value { return Value{Type: ValueTypeF32, Lo: EncodeF32(v)} }

// F64 constructs an f64 Value.
func F64(v float64) Value { return Value{Type: ValueTypeF64, Lo: EncodeF64(v)} }

// V128 constructs a v128 Value from its low and high 64-bit lanes.
func V128(lo, hi uint64) Value { return Value{Type: ValueTypeV128, Lo: lo, Hi: hi} }

// NullFuncref is the null funcref Value.
func NullFuncref() Value { return Value{Type: ValueTypeFuncref, IsNull: true} }

// NullExternref is the null externref Value.
func NullExternref() Value { return Value{Type: ValueTypeExternref, IsNull: true} }

// I32 decodes this Value as an i32. Panics if Type is not ValueTypeI32.
func (v Value) I32() int32 {
	if v.Type != ValueTypeI32 {
		panic(fmt.Sprintf("value is %s, not i32", ValueTypeName(v.Type)))
	}
	return int32(uint32(v.Lo))
}

// I64 decodes this Value as an i64.
func (v Value) I64() int64 {
	if v.Type != ValueTypeI64 {
		panic(fmt.Sprintf("value is %s, not i64", ValueTypeName(v.Type)))
	}
	return int64(v.Lo)
}

// F32 decodes this Value as an f32.
func (v Value) F32() float32 {
	if v.Type != ValueTypeF32 {
		panic(fmt.Sprintf("value is %s, not f32", ValueTypeName(v.Type)))
	}
	return DecodeF32(v.Lo)
}

// F64 decodes this Value as an f64.
func (v Value) F64() float64 {
	if v.Type != ValueTypeF64 {
		panic(fmt.Sprintf("value is %s, not f64", ValueTypeName(v.Type)))
	}
	return DecodeF64(v.Lo)
}

// EncodeExternref encodes the input as a ValueTypeExternref.
func EncodeExternref(input uintptr) uint64 { return uint64(input) }

// DecodeExternref decodes the input as a ValueTypeExternref.
func DecodeExternref(input uint64) uintptr { return uintptr(input) }

// EncodeI32 encodes the input as the engine's raw ValueTypeI32 bit pattern.
func EncodeI32(input int32) uint64 { return uint64(uint32(input)) }

// EncodeI64 encodes the input as the engine's raw ValueTypeI64 bit pattern.
func EncodeI64(input int64) uint64 { return uint64(input) }

// EncodeF32 encodes the input as the engine's raw ValueTypeF32 bit pattern.
func EncodeF32(input float32) uint64 { return uint64(math.Float32bits(input)) }

// DecodeF32 decodes the engine's raw ValueTypeF32 bit pattern.
func DecodeF32(input uint64) float32 { return math.Float32frombits(uint32(input)) }

// EncodeF64 encodes the input as the engine's raw ValueTypeF64 bit pattern.
func EncodeF64(input float64) uint64 { return math.Float64bits(input) }

// DecodeF64 decodes the engine's raw ValueTypeF64 bit pattern.
func DecodeF64(input uint64) float64 { return math.Float64frombits(input) }
