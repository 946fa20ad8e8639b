package wasm

// step validates one instruction starting at opByte (already consumed from
// fv.r) and appends its flattened form to fv.instrs, implementing spec.md
// §4.2's per-opcode typing rules (the ten families of spec.md §4.1).
func (fv *funcValidator) step(opByte Opcode, idx int) error {
	switch opByte {
	case OpcodeUnreachable:
		fv.emit(Instr{Op: opByte})
		fv.markUnreachable()
		return nil

	case OpcodeNop:
		fv.emit(Instr{Op: opByte})
		return nil

	case OpcodeBlock, OpcodeLoop, OpcodeIf:
		return fv.stepBlockLike(opByte, idx)

	case OpcodeElse:
		return fv.stepElse(idx)

	case OpcodeEnd:
		return fv.stepEnd(idx)

	case OpcodeBr:
		l, err := fv.readU32()
		if err != nil {
			return err
		}
		frame, err := fv.label(l)
		if err != nil {
			return err
		}
		for _, t := range reverse(frame.labelTypes()) {
			if err := fv.popExpect(t); err != nil {
				return err
			}
		}
		fv.emit(Instr{Op: opByte, Index: l})
		fv.markUnreachable()
		return nil

	case OpcodeBrIf:
		l, err := fv.readU32()
		if err != nil {
			return err
		}
		frame, err := fv.label(l)
		if err != nil {
			return err
		}
		if err := fv.popExpect(ValueTypeI32); err != nil {
			return err
		}
		types := frame.labelTypes()
		for _, t := range reverse(types) {
			if err := fv.popExpect(t); err != nil {
				return err
			}
		}
		for _, t := range types {
			fv.pushOperand(t)
		}
		fv.emit(Instr{Op: opByte, Index: l})
		return nil

	case OpcodeBrTable:
		return fv.stepBrTable(idx)

	case OpcodeReturn:
		outer := fv.ctrls[0]
		for _, t := range reverse(outer.endTypes) {
			if err := fv.popExpect(t); err != nil {
				return err
			}
		}
		fv.emit(Instr{Op: opByte})
		fv.markUnreachable()
		return nil

	case OpcodeCall:
		return fv.stepCall(idx)

	case OpcodeCallIndirect:
		return fv.stepCallIndirect(idx)

	case OpcodeDrop:
		if _, err := fv.popOperand(); err != nil {
			return err
		}
		fv.emit(Instr{Op: opByte})
		return nil

	case OpcodeSelect:
		return fv.stepSelect(false)

	case OpcodeSelectT:
		return fv.stepSelect(true)

	case OpcodeLocalGet, OpcodeLocalSet, OpcodeLocalTee:
		return fv.stepLocal(opByte)

	case OpcodeGlobalGet, OpcodeGlobalSet:
		return fv.stepGlobal(opByte)

	case OpcodeTableGet, OpcodeTableSet:
		return fv.stepTable(opByte)

	case OpcodeI32Const:
		v, err := fv.readI32()
		if err != nil {
			return err
		}
		fv.pushOperand(ValueTypeI32)
		fv.emit(Instr{Op: opByte, I32: v})
		return nil

	case OpcodeI64Const:
		v, err := fv.readI64()
		if err != nil {
			return err
		}
		fv.pushOperand(ValueTypeI64)
		fv.emit(Instr{Op: opByte, I64: v})
		return nil

	case OpcodeF32Const:
		v, err := fv.readF32()
		if err != nil {
			return err
		}
		fv.pushOperand(ValueTypeF32)
		fv.emit(Instr{Op: opByte, F32: v})
		return nil

	case OpcodeF64Const:
		v, err := fv.readF64()
		if err != nil {
			return err
		}
		fv.pushOperand(ValueTypeF64)
		fv.emit(Instr{Op: opByte, F64: v})
		return nil

	case OpcodeRefNull:
		rt, err := fv.readU32()
		if err != nil {
			return err
		}
		t := ValueType(rt)
		if !IsRefType(t) {
			return fv.fail("ref.null: not a reference type %#x", rt)
		}
		fv.pushOperand(t)
		fv.emit(Instr{Op: opByte, RefType: t})
		return nil

	case OpcodeRefIsNull:
		v, err := fv.popOperand()
		if err != nil {
			return err
		}
		if !v.unknown && !IsRefType(v.t) {
			return fv.fail("ref.is_null: expected a reference type, got %s", ValueTypeName(v.t))
		}
		fv.pushOperand(ValueTypeI32)
		fv.emit(Instr{Op: opByte})
		return nil

	case OpcodeRefFunc:
		idx32, err := fv.readU32()
		if err != nil {
			return err
		}
		if fv.module.TypeOfFunction(idx32) == nil {
			return fv.fail("ref.func: unknown function %d", idx32)
		}
		fv.pushOperand(ValueTypeFuncref)
		fv.emit(Instr{Op: opByte, Index: idx32})
		return nil

	case OpcodeMiscPrefix:
		return fv.stepMisc()

	case OpcodeVecPrefix:
		return fv.stepVec()
	}

	if isLoadOpcode(opByte) || isStoreOpcode(opByte) {
		return fv.stepMemAccess(opByte)
	}
	if opByte == OpcodeMemorySize || opByte == OpcodeMemoryGrow {
		return fv.stepMemSizeGrow(opByte)
	}
	if pops, pushes, ok := numericSignature(opByte); ok {
		for _, t := range reverse(pops) {
			if err := fv.popExpect(t); err != nil {
				return err
			}
		}
		for _, t := range pushes {
			fv.pushOperand(t)
		}
		fv.emit(Instr{Op: opByte})
		return nil
	}
	return fv.fail("unknown opcode %#x", opByte)
}

func (fv *funcValidator) stepBlockLike(op Opcode, idx int) error {
	bt, err := fv.readBlockType()
	if err != nil {
		return err
	}
	params := bt.Params(fv.types)
	results := bt.Results(fv.types)
	for _, t := range reverse(params) {
		if err := fv.popExpect(t); err != nil {
			return err
		}
	}
	instrIdx := fv.emit(Instr{Op: op, BlockType: bt, Else: -1})
	if op == OpcodeIf {
		if err := fv.popExpect(ValueTypeI32); err != nil {
			return err
		}
	}
	fv.pushCtrl(op, params, results, instrIdx)
	for _, t := range params {
		fv.pushOperand(t)
	}
	_ = idx
	return nil
}

func (fv *funcValidator) stepElse(idx int) error {
	top := fv.top()
	if top.opcode != OpcodeIf {
		return fv.fail("else without matching if")
	}
	top.elseSeen = true
	closed, err := fv.popCtrl()
	if err != nil {
		return err
	}
	fv.instrs[closed.instrIndex].Else = int32(idx)
	fv.pushCtrl(OpcodeElse, closed.startTypes, closed.endTypes, closed.instrIndex)
	for _, t := range closed.startTypes {
		fv.pushOperand(t)
	}
	fv.emit(Instr{Op: OpcodeElse})
	return nil
}

func (fv *funcValidator) stepEnd(idx int) error {
	closed, err := fv.popCtrl()
	if err != nil {
		return err
	}
	if closed.opcode == OpcodeIf && !closed.elseSeen && !sameTypes(closed.startTypes, closed.endTypes) {
		return fv.fail("if without else must have matching param and result types")
	}
	endIdx := fv.emit(Instr{Op: OpcodeEnd})
	if closed.instrIndex >= 0 {
		if closed.opcode == OpcodeLoop {
			fv.instrs[closed.instrIndex].End = int32(closed.instrIndex)
		} else {
			fv.instrs[closed.instrIndex].End = int32(endIdx + 1)
		}
	}
	if len(fv.ctrls) > 0 {
		for _, t := range closed.endTypes {
			fv.pushOperand(t)
		}
	}
	return nil
}

func (fv *funcValidator) stepBrTable(idx int) error {
	count, err := fv.readU32()
	if err != nil {
		return err
	}
	targets := make([]Index, 0, count+1)
	for i := uint32(0); i < count; i++ {
		l, err := fv.readU32()
		if err != nil {
			return err
		}
		targets = append(targets, l)
	}
	def, err := fv.readU32()
	if err != nil {
		return err
	}
	targets = append(targets, def)

	if err := fv.popExpect(ValueTypeI32); err != nil {
		return err
	}
	defFrame, err := fv.label(def)
	if err != nil {
		return err
	}
	arity := len(defFrame.labelTypes())
	for _, l := range targets[:len(targets)-1] {
		frame, err := fv.label(l)
		if err != nil {
			return err
		}
		if len(frame.labelTypes()) != arity {
			return fv.fail("br_table: inconsistent arity across targets")
		}
	}
	for _, t := range reverse(defFrame.labelTypes()) {
		if err := fv.popExpect(t); err != nil {
			return err
		}
	}
	fv.emit(Instr{Op: OpcodeBrTable, Targets: targets})
	fv.markUnreachable()
	return nil
}

func (fv *funcValidator) stepCall(idx int) error {
	fnIdx, err := fv.readU32()
	if err != nil {
		return err
	}
	ft := fv.module.TypeOfFunction(fnIdx)
	if ft == nil {
		return fv.fail("call: unknown function %d", fnIdx)
	}
	for _, t := range reverse(ft.Params) {
		if err := fv.popExpect(t); err != nil {
			return err
		}
	}
	for _, t := range ft.Results {
		fv.pushOperand(t)
	}
	fv.emit(Instr{Op: OpcodeCall, Index: fnIdx})
	return nil
}

func (fv *funcValidator) stepCallIndirect(idx int) error {
	typeIdx, err := fv.readU32()
	if err != nil {
		return err
	}
	tableIdx, err := fv.readU32()
	if err != nil {
		return err
	}
	if int(tableIdx) >= len(fv.tables) {
		return fv.fail("call_indirect: unknown table %d", tableIdx)
	}
	if fv.tables[tableIdx].ElemType != ValueTypeFuncref {
		return fv.fail("call_indirect: table %d is not funcref", tableIdx)
	}
	if int(typeIdx) >= len(fv.types) {
		return fv.fail("call_indirect: unknown type %d", typeIdx)
	}
	ft := fv.types[typeIdx]
	if err := fv.popExpect(ValueTypeI32); err != nil {
		return err
	}
	for _, t := range reverse(ft.Params) {
		if err := fv.popExpect(t); err != nil {
			return err
		}
	}
	for _, t := range ft.Results {
		fv.pushOperand(t)
	}
	fv.emit(Instr{Op: OpcodeCallIndirect, Index: tableIdx, Index2: typeIdx})
	return nil
}

func (fv *funcValidator) stepSelect(typed bool) error {
	var rt ValueType
	if typed {
		n, err := fv.readU32()
		if err != nil {
			return err
		}
		if n != 1 {
			return fv.fail("select: only one result type is supported")
		}
		tb, err := fv.readByte()
		if err != nil {
			return err
		}
		rt = ValueType(tb)
		if err := fv.popExpect(ValueTypeI32); err != nil {
			return err
		}
		if err := fv.popExpect(rt); err != nil {
			return err
		}
		if err := fv.popExpect(rt); err != nil {
			return err
		}
		fv.pushOperand(rt)
		fv.emit(Instr{Op: OpcodeSelectT, RefType: rt})
		return nil
	}
	if err := fv.popExpect(ValueTypeI32); err != nil {
		return err
	}
	v1, err := fv.popOperand()
	if err != nil {
		return err
	}
	v2, err := fv.popOperand()
	if err != nil {
		return err
	}
	var result ValueType
	switch {
	case v1.unknown && v2.unknown:
		result = valueTypeUnknown
	case v1.unknown:
		result = v2.t
	default:
		result = v1.t
		if !v2.unknown && v2.t != v1.t {
			return fv.fail("select: mismatched operand types")
		}
	}
	if result != valueTypeUnknown && (isRef(result)) {
		return fv.fail("select without an explicit type cannot apply to reference types")
	}
	if result == valueTypeUnknown {
		fv.pushUnknown()
	} else {
		fv.pushOperand(result)
	}
	fv.emit(Instr{Op: OpcodeSelect})
	return nil
}

func (fv *funcValidator) stepLocal(op Opcode) error {
	idx32, err := fv.readU32()
	if err != nil {
		return err
	}
	if int(idx32) >= len(fv.locals) {
		return fv.fail("unknown local %d", idx32)
	}
	t := fv.locals[idx32]
	switch op {
	case OpcodeLocalGet:
		fv.pushOperand(t)
	case OpcodeLocalSet:
		if err := fv.popExpect(t); err != nil {
			return err
		}
	case OpcodeLocalTee:
		if err := fv.popExpect(t); err != nil {
			return err
		}
		fv.pushOperand(t)
	}
	fv.emit(Instr{Op: op, Index: idx32})
	return nil
}

func (fv *funcValidator) stepGlobal(op Opcode) error {
	idx32, err := fv.readU32()
	if err != nil {
		return err
	}
	if int(idx32) >= len(fv.globals) {
		return fv.fail("unknown global %d", idx32)
	}
	g := fv.globals[idx32]
	switch op {
	case OpcodeGlobalGet:
		fv.pushOperand(g.ValType)
	case OpcodeGlobalSet:
		if !g.Mutable {
			return fv.fail("global.set: global %d is immutable", idx32)
		}
		if err := fv.popExpect(g.ValType); err != nil {
			return err
		}
	}
	fv.emit(Instr{Op: op, Index: idx32})
	return nil
}

func (fv *funcValidator) stepTable(op Opcode) error {
	idx32, err := fv.readU32()
	if err != nil {
		return err
	}
	if int(idx32) >= len(fv.tables) {
		return fv.fail("unknown table %d", idx32)
	}
	t := fv.tables[idx32].ElemType
	switch op {
	case OpcodeTableGet:
		if err := fv.popExpect(ValueTypeI32); err != nil {
			return err
		}
		fv.pushOperand(t)
	case OpcodeTableSet:
		if err := fv.popExpect(t); err != nil {
			return err
		}
		if err := fv.popExpect(ValueTypeI32); err != nil {
			return err
		}
	}
	fv.emit(Instr{Op: op, Index: idx32})
	return nil
}

func (fv *funcValidator) requireMemory() error {
	if len(fv.mems) == 0 {
		return fv.fail("memory access without a memory")
	}
	return nil
}

func (fv *funcValidator) stepMemAccess(op Opcode) error {
	if err := fv.requireMemory(); err != nil {
		return err
	}
	ma, err := fv.readMemArg()
	if err != nil {
		return err
	}
	if isLoadOpcode(op) {
		rt, maxAlign := loadSignature(op)
		if err := fv.checkAlign(ma, maxAlign); err != nil {
			return err
		}
		if err := fv.popExpect(ValueTypeI32); err != nil {
			return err
		}
		fv.pushOperand(rt)
	} else {
		vt, maxAlign := storeSignature(op)
		if err := fv.checkAlign(ma, maxAlign); err != nil {
			return err
		}
		if err := fv.popExpect(vt); err != nil {
			return err
		}
		if err := fv.popExpect(ValueTypeI32); err != nil {
			return err
		}
	}
	fv.emit(Instr{Op: op, MemArg: ma})
	return nil
}

func (fv *funcValidator) stepMemSizeGrow(op Opcode) error {
	if err := fv.requireMemory(); err != nil {
		return err
	}
	reserved, err := fv.readByte()
	if err != nil {
		return err
	}
	if reserved != 0 {
		return fv.fail("memory.size/grow: reserved byte must be zero")
	}
	if op == OpcodeMemorySize {
		fv.pushOperand(ValueTypeI32)
	} else {
		if err := fv.popExpect(ValueTypeI32); err != nil {
			return err
		}
		fv.pushOperand(ValueTypeI32)
	}
	fv.emit(Instr{Op: op})
	return nil
}

func sameTypes(a, b []ValueType) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

func isLoadOpcode(op Opcode) bool {
	switch op {
	case OpcodeI32Load, OpcodeI64Load, OpcodeF32Load, OpcodeF64Load,
		OpcodeI32Load8S, OpcodeI32Load8U, OpcodeI32Load16S, OpcodeI32Load16U,
		OpcodeI64Load8S, OpcodeI64Load8U, OpcodeI64Load16S, OpcodeI64Load16U,
		OpcodeI64Load32S, OpcodeI64Load32U:
		return true
	}
	return false
}

func isStoreOpcode(op Opcode) bool {
	switch op {
	case OpcodeI32Store, OpcodeI64Store, OpcodeF32Store, OpcodeF64Store,
		OpcodeI32Store8, OpcodeI32Store16, OpcodeI64Store8, OpcodeI64Store16, OpcodeI64Store32:
		return true
	}
	return false
}

// loadSignature returns the pushed result type and the maximum legal
// alignment exponent (spec.md §3 invariant 3) for a load opcode.
func loadSignature(op Opcode) (ValueType, uint32) {
	switch op {
	case OpcodeI32Load:
		return ValueTypeI32, 2
	case OpcodeI64Load:
		return ValueTypeI64, 3
	case OpcodeF32Load:
		return ValueTypeF32, 2
	case OpcodeF64Load:
		return ValueTypeF64, 3
	case OpcodeI32Load8S, OpcodeI32Load8U:
		return ValueTypeI32, 0
	case OpcodeI32Load16S, OpcodeI32Load16U:
		return ValueTypeI32, 1
	case OpcodeI64Load8S, OpcodeI64Load8U:
		return ValueTypeI64, 0
	case OpcodeI64Load16S, OpcodeI64Load16U:
		return ValueTypeI64, 1
	case OpcodeI64Load32S, OpcodeI64Load32U:
		return ValueTypeI64, 2
	}
	return 0, 0
}

func storeSignature(op Opcode) (ValueType, uint32) {
	switch op {
	case OpcodeI32Store:
		return ValueTypeI32, 2
	case OpcodeI64Store:
		return ValueTypeI64, 3
	case OpcodeF32Store:
		return ValueTypeF32, 2
	case OpcodeF64Store:
		return ValueTypeF64, 3
	case OpcodeI32Store8:
		return ValueTypeI32, 0
	case OpcodeI32Store16:
		return ValueTypeI32, 1
	case OpcodeI64Store8:
		return ValueTypeI64, 0
	case OpcodeI64Store16:
		return ValueTypeI64, 1
	case OpcodeI64Store32:
		return ValueTypeI64, 2
	}
	return 0, 0
}

// numericSignature covers the uniform numeric opcode families (testop,
// relop, unop, binop, cvtop; spec.md §4.1 family 3) by contiguous opcode
// range, since their typing rule is fixed within each range.
func numericSignature(op Opcode) (pops, pushes []ValueType, ok bool) {
	i32, i64, f32, f64 := ValueTypeI32, ValueTypeI64, ValueTypeF32, ValueTypeF64
	switch {
	case op == OpcodeI32Eqz:
		return []ValueType{i32}, []ValueType{i32}, true
	case op >= OpcodeI32Eq && op <= OpcodeI32GeU:
		return []ValueType{i32, i32}, []ValueType{i32}, true
	case op == OpcodeI64Eqz:
		return []ValueType{i64}, []ValueType{i32}, true
	case op >= OpcodeI64Eq && op <= OpcodeI64GeU:
		return []ValueType{i64, i64}, []ValueType{i32}, true
	case op >= OpcodeF32Eq && op <= OpcodeF32Ge:
		return []ValueType{f32, f32}, []ValueType{i32}, true
	case op >= OpcodeF64Eq && op <= OpcodeF64Ge:
		return []ValueType{f64, f64}, []ValueType{i32}, true
	case op >= OpcodeI32Clz && op <= OpcodeI32Popcnt:
		return []ValueType{i32}, []ValueType{i32}, true
	case op >= OpcodeI32Add && op <= OpcodeI32Rotr:
		return []ValueType{i32, i32}, []ValueType{i32}, true
	case op >= OpcodeI64Clz && op <= OpcodeI64Popcnt:
		return []ValueType{i64}, []ValueType{i64}, true
	case op >= OpcodeI64Add && op <= OpcodeI64Rotr:
		return []ValueType{i64, i64}, []ValueType{i64}, true
	case op >= OpcodeF32Abs && op <= OpcodeF32Sqrt:
		return []ValueType{f32}, []ValueType{f32}, true
	case op >= OpcodeF32Add && op <= OpcodeF32Copysign:
		return []ValueType{f32, f32}, []ValueType{f32}, true
	case op >= OpcodeF64Abs && op <= OpcodeF64Sqrt:
		return []ValueType{f64}, []ValueType{f64}, true
	case op >= OpcodeF64Add && op <= OpcodeF64Copysign:
		return []ValueType{f64, f64}, []ValueType{f64}, true
	case op == OpcodeI32WrapI64:
		return []ValueType{i64}, []ValueType{i32}, true
	case op >= OpcodeI32TruncF32S && op <= OpcodeI32TruncF32U:
		return []ValueType{f32}, []ValueType{i32}, true
	case op >= OpcodeI32TruncF64S && op <= OpcodeI32TruncF64U:
		return []ValueType{f64}, []ValueType{i32}, true
	case op >= OpcodeI64ExtendI32S && op <= OpcodeI64ExtendI32U:
		return []ValueType{i32}, []ValueType{i64}, true
	case op >= OpcodeI64TruncF32S && op <= OpcodeI64TruncF32U:
		return []ValueType{f32}, []ValueType{i64}, true
	case op >= OpcodeI64TruncF64S && op <= OpcodeI64TruncF64U:
		return []ValueType{f64}, []ValueType{i64}, true
	case op >= OpcodeF32ConvertI32S && op <= OpcodeF32ConvertI32U:
		return []ValueType{i32}, []ValueType{f32}, true
	case op >= OpcodeF32ConvertI64S && op <= OpcodeF32ConvertI64U:
		return []ValueType{i64}, []ValueType{f32}, true
	case op == OpcodeF32DemoteF64:
		return []ValueType{f64}, []ValueType{f32}, true
	case op >= OpcodeF64ConvertI32S && op <= OpcodeF64ConvertI32U:
		return []ValueType{i32}, []ValueType{f64}, true
	case op >= OpcodeF64ConvertI64S && op <= OpcodeF64ConvertI64U:
		return []ValueType{i64}, []ValueType{f64}, true
	case op == OpcodeF64PromoteF32:
		return []ValueType{f32}, []ValueType{f64}, true
	case op == OpcodeI32ReinterpretF32:
		return []ValueType{f32}, []ValueType{i32}, true
	case op == OpcodeI64ReinterpretF64:
		return []ValueType{f64}, []ValueType{i64}, true
	case op == OpcodeF32ReinterpretI32:
		return []ValueType{i32}, []ValueType{f32}, true
	case op == OpcodeF64ReinterpretI64:
		return []ValueType{i64}, []ValueType{f64}, true
	case op >= OpcodeI32Extend8S && op <= OpcodeI32Extend16S:
		return []ValueType{i32}, []ValueType{i32}, true
	case op >= OpcodeI64Extend8S && op <= OpcodeI64Extend32S:
		return []ValueType{i64}, []ValueType{i64}, true
	}
	return nil, nil, false
}
