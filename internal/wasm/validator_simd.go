package wasm

import "io"

// stepMisc validates one instruction under the 0xFC (bulk-memory / non-
// trapping conversions) prefix (spec.md §4.1 families 5 and 9).
func (fv *funcValidator) stepMisc() error {
	sub, err := fv.readU32()
	if err != nil {
		return err
	}
	i32, i64, f32, f64 := ValueTypeI32, ValueTypeI64, ValueTypeF32, ValueTypeF64

	switch Opcode(sub) {
	case OpcodeMiscI32TruncSatF32S, OpcodeMiscI32TruncSatF32U:
		return fv.emitMisc(sub, []ValueType{f32}, []ValueType{i32})
	case OpcodeMiscI32TruncSatF64S, OpcodeMiscI32TruncSatF64U:
		return fv.emitMisc(sub, []ValueType{f64}, []ValueType{i32})
	case OpcodeMiscI64TruncSatF32S, OpcodeMiscI64TruncSatF32U:
		return fv.emitMisc(sub, []ValueType{f32}, []ValueType{i64})
	case OpcodeMiscI64TruncSatF64S, OpcodeMiscI64TruncSatF64U:
		return fv.emitMisc(sub, []ValueType{f64}, []ValueType{i64})
	}

	if !fv.enabled.IsEnabled(CoreFeatureBulkMemoryOperations) {
		return fv.fail("bulk-memory instruction used without the feature enabled")
	}

	switch Opcode(sub) {
	case OpcodeMiscMemoryInit:
		dataIdx, err := fv.readU32()
		if err != nil {
			return err
		}
		if _, err := fv.readU32(); err != nil { // memidx, reserved in wasm 1.0
			return err
		}
		if fv.module.DataCountSection == nil {
			return fv.fail("memory.init requires a data count section")
		}
		if int(dataIdx) >= len(fv.module.DataSection) {
			return fv.fail("memory.init: unknown data segment %d", dataIdx)
		}
		return fv.popAndEmitMisc(sub, []ValueType{i32, i32, i32}, nil, Instr{Index: dataIdx})

	case OpcodeMiscDataDrop:
		dataIdx, err := fv.readU32()
		if err != nil {
			return err
		}
		if fv.module.DataCountSection == nil {
			return fv.fail("data.drop requires a data count section")
		}
		if int(dataIdx) >= len(fv.module.DataSection) {
			return fv.fail("data.drop: unknown data segment %d", dataIdx)
		}
		return fv.popAndEmitMisc(sub, nil, nil, Instr{Index: dataIdx})

	case OpcodeMiscMemoryCopy:
		if _, err := fv.readU32(); err != nil {
			return err
		}
		if _, err := fv.readU32(); err != nil {
			return err
		}
		if err := fv.requireMemory(); err != nil {
			return err
		}
		return fv.popAndEmitMisc(sub, []ValueType{i32, i32, i32}, nil, Instr{})

	case OpcodeMiscMemoryFill:
		if _, err := fv.readU32(); err != nil {
			return err
		}
		if err := fv.requireMemory(); err != nil {
			return err
		}
		return fv.popAndEmitMisc(sub, []ValueType{i32, i32, i32}, nil, Instr{})

	case OpcodeMiscTableInit:
		elemIdx, err := fv.readU32()
		if err != nil {
			return err
		}
		tableIdx, err := fv.readU32()
		if err != nil {
			return err
		}
		if int(tableIdx) >= len(fv.tables) {
			return fv.fail("table.init: unknown table %d", tableIdx)
		}
		if int(elemIdx) >= len(fv.module.ElementSection) {
			return fv.fail("table.init: unknown element segment %d", elemIdx)
		}
		return fv.popAndEmitMisc(sub, []ValueType{i32, i32, i32}, nil, Instr{Index: tableIdx, Index2: elemIdx})

	case OpcodeMiscElemDrop:
		elemIdx, err := fv.readU32()
		if err != nil {
			return err
		}
		if int(elemIdx) >= len(fv.module.ElementSection) {
			return fv.fail("elem.drop: unknown element segment %d", elemIdx)
		}
		return fv.popAndEmitMisc(sub, nil, nil, Instr{Index: elemIdx})

	case OpcodeMiscTableCopy:
		dstIdx, err := fv.readU32()
		if err != nil {
			return err
		}
		srcIdx, err := fv.readU32()
		if err != nil {
			return err
		}
		if int(dstIdx) >= len(fv.tables) || int(srcIdx) >= len(fv.tables) {
			return fv.fail("table.copy: unknown table")
		}
		return fv.popAndEmitMisc(sub, []ValueType{i32, i32, i32}, nil, Instr{Index: dstIdx, Index2: srcIdx})

	case OpcodeMiscTableGrow:
		tableIdx, err := fv.readU32()
		if err != nil {
			return err
		}
		if int(tableIdx) >= len(fv.tables) {
			return fv.fail("table.grow: unknown table %d", tableIdx)
		}
		rt := fv.tables[tableIdx].ElemType
		if err := fv.popExpect(i32); err != nil {
			return err
		}
		if err := fv.popExpect(rt); err != nil {
			return err
		}
		fv.pushOperand(i32)
		fv.emit(Instr{Op: OpcodeMiscPrefix, Sub: sub, Index: tableIdx})
		return nil

	case OpcodeMiscTableSize:
		tableIdx, err := fv.readU32()
		if err != nil {
			return err
		}
		if int(tableIdx) >= len(fv.tables) {
			return fv.fail("table.size: unknown table %d", tableIdx)
		}
		fv.pushOperand(i32)
		fv.emit(Instr{Op: OpcodeMiscPrefix, Sub: sub, Index: tableIdx})
		return nil

	case OpcodeMiscTableFill:
		tableIdx, err := fv.readU32()
		if err != nil {
			return err
		}
		if int(tableIdx) >= len(fv.tables) {
			return fv.fail("table.fill: unknown table %d", tableIdx)
		}
		rt := fv.tables[tableIdx].ElemType
		if err := fv.popExpect(i32); err != nil {
			return err
		}
		if err := fv.popExpect(rt); err != nil {
			return err
		}
		if err := fv.popExpect(i32); err != nil {
			return err
		}
		fv.emit(Instr{Op: OpcodeMiscPrefix, Sub: sub, Index: tableIdx})
		return nil
	}
	return fv.fail("unknown misc opcode %d", sub)
}

func (fv *funcValidator) emitMisc(sub uint32, pops, pushes []ValueType) error {
	return fv.popAndEmitMisc(sub, pops, pushes, Instr{})
}

func (fv *funcValidator) popAndEmitMisc(sub uint32, pops, pushes []ValueType, instr Instr) error {
	for _, t := range reverse(pops) {
		if err := fv.popExpect(t); err != nil {
			return err
		}
	}
	for _, t := range pushes {
		fv.pushOperand(t)
	}
	instr.Op = OpcodeMiscPrefix
	instr.Sub = sub
	fv.emit(instr)
	return nil
}

// stepVec validates one instruction under the 0xFD (SIMD) prefix (spec.md
// §4.1 family 10).
func (fv *funcValidator) stepVec() error {
	if !fv.enabled.IsEnabled(CoreFeatureSIMD) {
		return fv.fail("SIMD instruction used without the feature enabled")
	}
	sub, err := fv.readU32()
	if err != nil {
		return err
	}
	v128, i32, i64, f32, f64 := ValueTypeV128, ValueTypeI32, ValueTypeI64, ValueTypeF32, ValueTypeF64

	switch Opcode(sub) {
	case OpcodeVecV128Const:
		var buf [16]byte
		if _, err := io.ReadFull(fv.r, buf[:]); err != nil {
			return fv.fail("truncated v128.const")
		}
		lo := leU64(buf[0:8])
		hi := leU64(buf[8:16])
		fv.pushOperand(v128)
		fv.emit(Instr{Op: OpcodeVecPrefix, Sub: sub, V128: [2]uint64{lo, hi}})
		return nil

	case OpcodeVecI8x16Shuffle:
		var lanes [16]byte
		if _, err := io.ReadFull(fv.r, lanes[:]); err != nil {
			return fv.fail("truncated i8x16.shuffle")
		}
		for _, l := range lanes {
			if l >= 32 {
				return fv.fail("i8x16.shuffle: lane index out of range")
			}
		}
		if err := fv.popExpect(v128); err != nil {
			return err
		}
		if err := fv.popExpect(v128); err != nil {
			return err
		}
		fv.pushOperand(v128)
		fv.emit(Instr{Op: OpcodeVecPrefix, Sub: sub, Lanes16: lanes})
		return nil

	case OpcodeVecI8x16ExtractLaneS, OpcodeVecI8x16ExtractLaneU,
		OpcodeVecI16x8ExtractLaneS, OpcodeVecI16x8ExtractLaneU,
		OpcodeVecI32x4ExtractLane, OpcodeVecI64x2ExtractLane,
		OpcodeVecF32x4ExtractLane, OpcodeVecF64x2ExtractLane:
		lane, max, result, err := fv.readLane(sub, lanesFor(Opcode(sub)))
		if err != nil {
			return err
		}
		_ = max
		if err := fv.popExpect(v128); err != nil {
			return err
		}
		fv.pushOperand(result)
		fv.emit(Instr{Op: OpcodeVecPrefix, Sub: sub, Lane: lane})
		return nil

	case OpcodeVecI8x16ReplaceLane, OpcodeVecI16x8ReplaceLane, OpcodeVecI32x4ReplaceLane,
		OpcodeVecI64x2ReplaceLane, OpcodeVecF32x4ReplaceLane, OpcodeVecF64x2ReplaceLane:
		lane, _, operand, err := fv.readLane(sub, lanesFor(Opcode(sub)))
		if err != nil {
			return err
		}
		if err := fv.popExpect(operand); err != nil {
			return err
		}
		if err := fv.popExpect(v128); err != nil {
			return err
		}
		fv.pushOperand(v128)
		fv.emit(Instr{Op: OpcodeVecPrefix, Sub: sub, Lane: lane})
		return nil

	case OpcodeVecI8x16Splat, OpcodeVecI16x8Splat, OpcodeVecI32x4Splat:
		return fv.vecPopPush(sub, []ValueType{i32}, v128)
	case OpcodeVecI64x2Splat:
		return fv.vecPopPush(sub, []ValueType{i64}, v128)
	case OpcodeVecF32x4Splat:
		return fv.vecPopPush(sub, []ValueType{f32}, v128)
	case OpcodeVecF64x2Splat:
		return fv.vecPopPush(sub, []ValueType{f64}, v128)

	case OpcodeVecV128Load, OpcodeVecV128Load8x8S, OpcodeVecV128Load8x8U,
		OpcodeVecV128Load16x4S, OpcodeVecV128Load16x4U, OpcodeVecV128Load32x2S, OpcodeVecV128Load32x2U,
		OpcodeVecV128Load8Splat, OpcodeVecV128Load16Splat, OpcodeVecV128Load32Splat, OpcodeVecV128Load64Splat,
		OpcodeVecV128Load32Zero, OpcodeVecV128Load64Zero:
		if err := fv.requireMemory(); err != nil {
			return err
		}
		ma, err := fv.readMemArg()
		if err != nil {
			return err
		}
		if err := fv.checkAlign(ma, vecLoadMaxAlign(Opcode(sub))); err != nil {
			return err
		}
		if err := fv.popExpect(i32); err != nil {
			return err
		}
		fv.pushOperand(v128)
		fv.emit(Instr{Op: OpcodeVecPrefix, Sub: sub, MemArg: ma})
		return nil

	case OpcodeVecV128Store:
		if err := fv.requireMemory(); err != nil {
			return err
		}
		ma, err := fv.readMemArg()
		if err != nil {
			return err
		}
		if err := fv.checkAlign(ma, 4); err != nil {
			return err
		}
		if err := fv.popExpect(v128); err != nil {
			return err
		}
		if err := fv.popExpect(i32); err != nil {
			return err
		}
		fv.emit(Instr{Op: OpcodeVecPrefix, Sub: sub, MemArg: ma})
		return nil

	case OpcodeVecV128Load8Lane, OpcodeVecV128Load16Lane, OpcodeVecV128Load32Lane, OpcodeVecV128Load64Lane:
		if err := fv.requireMemory(); err != nil {
			return err
		}
		ma, err := fv.readMemArg()
		if err != nil {
			return err
		}
		if err := fv.checkAlign(ma, vecLaneMaxAlign(Opcode(sub))); err != nil {
			return err
		}
		laneByte, err := fv.readByte()
		if err != nil {
			return err
		}
		if err := fv.popExpect(v128); err != nil {
			return err
		}
		if err := fv.popExpect(i32); err != nil {
			return err
		}
		fv.pushOperand(v128)
		fv.emit(Instr{Op: OpcodeVecPrefix, Sub: sub, MemArg: ma, Lane: laneByte})
		return nil

	case OpcodeVecV128Store8Lane, OpcodeVecV128Store16Lane, OpcodeVecV128Store32Lane, OpcodeVecV128Store64Lane:
		if err := fv.requireMemory(); err != nil {
			return err
		}
		ma, err := fv.readMemArg()
		if err != nil {
			return err
		}
		if err := fv.checkAlign(ma, vecLaneMaxAlign(Opcode(sub))); err != nil {
			return err
		}
		laneByte, err := fv.readByte()
		if err != nil {
			return err
		}
		if err := fv.popExpect(v128); err != nil {
			return err
		}
		if err := fv.popExpect(i32); err != nil {
			return err
		}
		fv.emit(Instr{Op: OpcodeVecPrefix, Sub: sub, MemArg: ma, Lane: laneByte})
		return nil

	case OpcodeVecI8x16Shl, OpcodeVecI8x16ShrS, OpcodeVecI8x16ShrU,
		OpcodeVecI16x8Shl, OpcodeVecI16x8ShrS, OpcodeVecI16x8ShrU,
		OpcodeVecI32x4Shl, OpcodeVecI32x4ShrS, OpcodeVecI32x4ShrU,
		OpcodeVecI64x2Shl, OpcodeVecI64x2ShrS, OpcodeVecI64x2ShrU:
		if err := fv.popExpect(i32); err != nil {
			return err
		}
		if err := fv.popExpect(v128); err != nil {
			return err
		}
		fv.pushOperand(v128)
		fv.emit(Instr{Op: OpcodeVecPrefix, Sub: sub})
		return nil

	case OpcodeVecV128Bitselect:
		if err := fv.popExpect(v128); err != nil {
			return err
		}
		if err := fv.popExpect(v128); err != nil {
			return err
		}
		if err := fv.popExpect(v128); err != nil {
			return err
		}
		fv.pushOperand(v128)
		fv.emit(Instr{Op: OpcodeVecPrefix, Sub: sub})
		return nil

	case OpcodeVecI8x16Swizzle,
		OpcodeVecI8x16Eq, OpcodeVecI8x16Ne, OpcodeVecI8x16LtS, OpcodeVecI8x16LtU, OpcodeVecI8x16GtS, OpcodeVecI8x16GtU,
		OpcodeVecI8x16LeS, OpcodeVecI8x16LeU, OpcodeVecI8x16GeS, OpcodeVecI8x16GeU,
		OpcodeVecI16x8Eq, OpcodeVecI16x8Ne, OpcodeVecI16x8LtS, OpcodeVecI16x8LtU, OpcodeVecI16x8GtS, OpcodeVecI16x8GtU,
		OpcodeVecI16x8LeS, OpcodeVecI16x8LeU, OpcodeVecI16x8GeS, OpcodeVecI16x8GeU,
		OpcodeVecI32x4Eq, OpcodeVecI32x4Ne, OpcodeVecI32x4LtS, OpcodeVecI32x4LtU, OpcodeVecI32x4GtS, OpcodeVecI32x4GtU,
		OpcodeVecI32x4LeS, OpcodeVecI32x4LeU, OpcodeVecI32x4GeS, OpcodeVecI32x4GeU,
		OpcodeVecI64x2Eq, OpcodeVecI64x2Ne, OpcodeVecI64x2LtS, OpcodeVecI64x2GtS, OpcodeVecI64x2LeS, OpcodeVecI64x2GeS,
		OpcodeVecF32x4Eq, OpcodeVecF32x4Ne, OpcodeVecF32x4Lt, OpcodeVecF32x4Gt, OpcodeVecF32x4Le, OpcodeVecF32x4Ge,
		OpcodeVecF64x2Eq, OpcodeVecF64x2Ne, OpcodeVecF64x2Lt, OpcodeVecF64x2Gt, OpcodeVecF64x2Le, OpcodeVecF64x2Ge,
		OpcodeVecV128And, OpcodeVecV128AndNot, OpcodeVecV128Or, OpcodeVecV128Xor,
		OpcodeVecI8x16Add, OpcodeVecI8x16AddSatS, OpcodeVecI8x16AddSatU, OpcodeVecI8x16Sub, OpcodeVecI8x16SubSatS, OpcodeVecI8x16SubSatU,
		OpcodeVecI8x16MinS, OpcodeVecI8x16MinU, OpcodeVecI8x16MaxS, OpcodeVecI8x16MaxU, OpcodeVecI8x16AvgrU,
		OpcodeVecI8x16NarrowI16x8S, OpcodeVecI8x16NarrowI16x8U,
		OpcodeVecI16x8Add, OpcodeVecI16x8AddSatS, OpcodeVecI16x8AddSatU, OpcodeVecI16x8Sub, OpcodeVecI16x8SubSatS, OpcodeVecI16x8SubSatU,
		OpcodeVecI16x8Mul, OpcodeVecI16x8MinS, OpcodeVecI16x8MinU, OpcodeVecI16x8MaxS, OpcodeVecI16x8MaxU, OpcodeVecI16x8AvgrU,
		OpcodeVecI16x8NarrowI32x4S, OpcodeVecI16x8NarrowI32x4U, OpcodeVecI16x8Q15mulrSatS,
		OpcodeVecI16x8ExtmulLowI8x16S, OpcodeVecI16x8ExtmulHighI8x16S, OpcodeVecI16x8ExtmulLowI8x16U, OpcodeVecI16x8ExtmulHighI8x16U,
		OpcodeVecI32x4Add, OpcodeVecI32x4Sub, OpcodeVecI32x4Mul, OpcodeVecI32x4MinS, OpcodeVecI32x4MinU,
		OpcodeVecI32x4MaxS, OpcodeVecI32x4MaxU, OpcodeVecI32x4DotI16x8S,
		OpcodeVecI32x4ExtmulLowI16x8S, OpcodeVecI32x4ExtmulHighI16x8S, OpcodeVecI32x4ExtmulLowI16x8U, OpcodeVecI32x4ExtmulHighI16x8U,
		OpcodeVecI64x2Add, OpcodeVecI64x2Sub, OpcodeVecI64x2Mul,
		OpcodeVecI64x2ExtmulLowI32x4S, OpcodeVecI64x2ExtmulHighI32x4S, OpcodeVecI64x2ExtmulLowI32x4U, OpcodeVecI64x2ExtmulHighI32x4U,
		OpcodeVecF32x4Add, OpcodeVecF32x4Sub, OpcodeVecF32x4Mul, OpcodeVecF32x4Div, OpcodeVecF32x4Min, OpcodeVecF32x4Max, OpcodeVecF32x4Pmin, OpcodeVecF32x4Pmax,
		OpcodeVecF64x2Add, OpcodeVecF64x2Sub, OpcodeVecF64x2Mul, OpcodeVecF64x2Div, OpcodeVecF64x2Min, OpcodeVecF64x2Max, OpcodeVecF64x2Pmin, OpcodeVecF64x2Pmax:
		if err := fv.popExpect(v128); err != nil {
			return err
		}
		if err := fv.popExpect(v128); err != nil {
			return err
		}
		fv.pushOperand(v128)
		fv.emit(Instr{Op: OpcodeVecPrefix, Sub: sub})
		return nil

	case OpcodeVecV128Not,
		OpcodeVecI8x16Abs, OpcodeVecI8x16Neg, OpcodeVecI8x16Popcnt,
		OpcodeVecI16x8Abs, OpcodeVecI16x8Neg,
		OpcodeVecI16x8ExtaddPairwiseI8x16S, OpcodeVecI16x8ExtaddPairwiseI8x16U,
		OpcodeVecI16x8ExtendLowI8x16S, OpcodeVecI16x8ExtendHighI8x16S, OpcodeVecI16x8ExtendLowI8x16U, OpcodeVecI16x8ExtendHighI8x16U,
		OpcodeVecI32x4Abs, OpcodeVecI32x4Neg,
		OpcodeVecI32x4ExtaddPairwiseI16x8S, OpcodeVecI32x4ExtaddPairwiseI16x8U,
		OpcodeVecI32x4ExtendLowI16x8S, OpcodeVecI32x4ExtendHighI16x8S, OpcodeVecI32x4ExtendLowI16x8U, OpcodeVecI32x4ExtendHighI16x8U,
		OpcodeVecI64x2Abs, OpcodeVecI64x2Neg,
		OpcodeVecI64x2ExtendLowI32x4S, OpcodeVecI64x2ExtendHighI32x4S, OpcodeVecI64x2ExtendLowI32x4U, OpcodeVecI64x2ExtendHighI32x4U,
		OpcodeVecF32x4Ceil, OpcodeVecF32x4Floor, OpcodeVecF32x4Trunc, OpcodeVecF32x4Nearest,
		OpcodeVecF32x4Abs, OpcodeVecF32x4Neg, OpcodeVecF32x4Sqrt,
		OpcodeVecF64x2Ceil, OpcodeVecF64x2Floor, OpcodeVecF64x2Trunc, OpcodeVecF64x2Nearest,
		OpcodeVecF64x2Abs, OpcodeVecF64x2Neg, OpcodeVecF64x2Sqrt,
		OpcodeVecF32x4DemoteF64x2Zero, OpcodeVecF64x2PromoteLowF32x4,
		OpcodeVecI32x4TruncSatF32x4S, OpcodeVecI32x4TruncSatF32x4U,
		OpcodeVecF32x4ConvertI32x4S, OpcodeVecF32x4ConvertI32x4U,
		OpcodeVecI32x4TruncSatF64x2SZero, OpcodeVecI32x4TruncSatF64x2UZero,
		OpcodeVecF64x2ConvertLowI32x4S, OpcodeVecF64x2ConvertLowI32x4U:
		if err := fv.popExpect(v128); err != nil {
			return err
		}
		fv.pushOperand(v128)
		fv.emit(Instr{Op: OpcodeVecPrefix, Sub: sub})
		return nil

	case OpcodeVecV128AnyTrue,
		OpcodeVecI8x16AllTrue, OpcodeVecI8x16Bitmask,
		OpcodeVecI16x8AllTrue, OpcodeVecI16x8Bitmask,
		OpcodeVecI32x4AllTrue, OpcodeVecI32x4Bitmask,
		OpcodeVecI64x2AllTrue, OpcodeVecI64x2Bitmask:
		if err := fv.popExpect(v128); err != nil {
			return err
		}
		fv.pushOperand(i32)
		fv.emit(Instr{Op: OpcodeVecPrefix, Sub: sub})
		return nil
	}
	return fv.fail("unknown SIMD opcode %d", sub)
}

func (fv *funcValidator) vecPopPush(sub uint32, pops []ValueType, push ValueType) error {
	for _, t := range reverse(pops) {
		if err := fv.popExpect(t); err != nil {
			return err
		}
	}
	fv.pushOperand(push)
	fv.emit(Instr{Op: OpcodeVecPrefix, Sub: sub})
	return nil
}

// readLane reads a one-byte lane index immediate, validating it against max
// lanes for the given sub-opcode's shape, and returns the element ValueType
// used for extract/replace (i32 lanes for i8/i16, matching how Wasm widens
// sub-32-bit lanes onto the stack).
func (fv *funcValidator) readLane(sub uint32, max uint8) (uint8, uint8, ValueType, error) {
	b, err := fv.readByte()
	if err != nil {
		return 0, 0, 0, err
	}
	if b >= max {
		return 0, 0, 0, fv.fail("lane index %d out of range (max %d)", b, max)
	}
	return b, max, laneElemType(Opcode(sub)), nil
}

func lanesFor(op Opcode) uint8 {
	switch op {
	case OpcodeVecI8x16ExtractLaneS, OpcodeVecI8x16ExtractLaneU, OpcodeVecI8x16ReplaceLane:
		return 16
	case OpcodeVecI16x8ExtractLaneS, OpcodeVecI16x8ExtractLaneU, OpcodeVecI16x8ReplaceLane:
		return 8
	case OpcodeVecI32x4ExtractLane, OpcodeVecI32x4ReplaceLane, OpcodeVecF32x4ExtractLane, OpcodeVecF32x4ReplaceLane:
		return 4
	case OpcodeVecI64x2ExtractLane, OpcodeVecI64x2ReplaceLane, OpcodeVecF64x2ExtractLane, OpcodeVecF64x2ReplaceLane:
		return 2
	}
	return 0
}

func laneElemType(op Opcode) ValueType {
	switch op {
	case OpcodeVecI8x16ExtractLaneS, OpcodeVecI8x16ExtractLaneU, OpcodeVecI8x16ReplaceLane,
		OpcodeVecI16x8ExtractLaneS, OpcodeVecI16x8ExtractLaneU, OpcodeVecI16x8ReplaceLane,
		OpcodeVecI32x4ExtractLane, OpcodeVecI32x4ReplaceLane:
		return ValueTypeI32
	case OpcodeVecI64x2ExtractLane, OpcodeVecI64x2ReplaceLane:
		return ValueTypeI64
	case OpcodeVecF32x4ExtractLane, OpcodeVecF32x4ReplaceLane:
		return ValueTypeF32
	case OpcodeVecF64x2ExtractLane, OpcodeVecF64x2ReplaceLane:
		return ValueTypeF64
	}
	return 0
}

// vecLoadMaxAlign returns the maximum legal alignment exponent for a SIMD
// load opcode (spec.md §3 invariant 3, extended to v128 widths).
func vecLoadMaxAlign(op Opcode) uint32 {
	switch op {
	case OpcodeVecV128Load:
		return 4
	case OpcodeVecV128Load8x8S, OpcodeVecV128Load8x8U,
		OpcodeVecV128Load16x4S, OpcodeVecV128Load16x4U,
		OpcodeVecV128Load32x2S, OpcodeVecV128Load32x2U:
		return 3
	case OpcodeVecV128Load8Splat:
		return 0
	case OpcodeVecV128Load16Splat:
		return 1
	case OpcodeVecV128Load32Splat, OpcodeVecV128Load32Zero:
		return 2
	case OpcodeVecV128Load64Splat, OpcodeVecV128Load64Zero:
		return 3
	}
	return 4
}

func vecLaneMaxAlign(op Opcode) uint32 {
	switch op {
	case OpcodeVecV128Load8Lane, OpcodeVecV128Store8Lane:
		return 0
	case OpcodeVecV128Load16Lane, OpcodeVecV128Store16Lane:
		return 1
	case OpcodeVecV128Load32Lane, OpcodeVecV128Store32Lane:
		return 2
	case OpcodeVecV128Load64Lane, OpcodeVecV128Store64Lane:
		return 3
	}
	return 4
}

func leU64(b []byte) uint64 {
	var v uint64
	for i := 7; i >= 0; i-- {
		v = v<<8 | uint64(b[i])
	}
	return v
}
