package wasm

// Instr is one instruction of a validated function body, flattened into a
// single per-function slice rather than a deeply nested owned tree (spec.md
// §9 "Instruction representation"). block/loop/if carry indices into this
// same slice for their continuation, making `br` a simple PC assignment
// instead of a tree walk.
//
// Not every field is meaningful for every Op; which fields apply is
// documented per opcode family in internal/engine/interpreter.
type Instr struct {
	Op  Opcode
	Sub uint32 // sub-opcode, valid when Op is OpcodeMiscPrefix or OpcodeVecPrefix

	// Index is a local/global/func/table/elem/data/type index, depending on
	// Op.
	Index Index
	// Index2 is a second index, e.g. the type index in call_indirect (Index
	// holds the table index) or the destination in table.copy/memory.copy
	// (Index holds the source).
	Index2 Index

	// MemArg carries the alignment exponent and offset of a memory
	// instruction (spec.md §3 invariant 3).
	MemArg MemArg

	// I32/I64/F32/F64/V128 carry the literal operand of a `t.const`.
	I32  int32
	I64  int64
	F32  float32
	F64  float64
	V128 [2]uint64

	// RefType carries the reftype operand of `ref.null` / `select t*`.
	RefType ValueType

	// Lane carries the lane_idx immediate for SIMD lane ops.
	Lane uint8
	// Lanes16 carries the 16 lane indices for i8x16.shuffle.
	Lanes16 [16]byte

	// BlockType carries the block signature for block/loop/if.
	BlockType BlockType
	// Else is the index (within the same function's Instr slice) of the
	// matching `else` instruction itself (its arm starts at Else+1), or -1
	// if this `if` has none.
	// Meaningful only when Op == OpcodeIf.
	Else int32
	// End is the index of this block/loop/if's own virtual "continuation":
	// for block/if, the instruction following the matching `end`; for
	// loop, the loop instruction itself (branches to a loop re-enter at its
	// start per spec.md §4.1 family 6).
	End int32

	// Targets holds the label indices for `br_table`: Targets[:len-1] are
	// the indexed targets and Targets[len-1] is the default.
	Targets []Index
}

// MemArg is the alignment/offset immediate pair of a memory instruction.
type MemArg struct {
	Align  uint32 // log2 of the claimed alignment, spec.md §3 invariant 3
	Offset uint32
}
