package wasm

import (
	"bytes"
	"fmt"
	"io"

	"github.com/wasmkit/wasmkit/api"
	"github.com/wasmkit/wasmkit/internal/leb128"
)

// ValidationError reports a validator failure (spec.md §4.2 "Errors"). The
// first error aborts validation with its context, per spec.md's fail-fast
// rule.
type ValidationError struct {
	FuncIndex Index
	Offset    int
	Reason    string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation failed: function[%d] offset %d: %s", e.FuncIndex, e.Offset, e.Reason)
}

func valErr(funcIdx Index, offset int, format string, args ...interface{}) *ValidationError {
	return &ValidationError{FuncIndex: funcIdx, Offset: offset, Reason: fmt.Sprintf(format, args...)}
}

// Validate checks m against WebAssembly's type system (spec.md §4.2),
// establishing the five invariants listed in spec.md §3 so the engine can
// skip all dynamic typing. On success, each Code's validated instruction
// stream is cached on the Code for internal/engine/interpreter to execute.
func (m *Module) Validate(enabled CoreFeatures) error {
	for _, tt := range m.AllTableTypes() {
		if tt.Limit.Max != nil && *tt.Limit.Max > 0xFFFFFFFF {
			return fmt.Errorf("validation failed: table.max exceeds 2^32-1")
		}
	}
	for _, mt := range m.AllMemoryTypes() {
		if mt.Max != nil && *mt.Max > 65536 {
			return fmt.Errorf("validation failed: memory.max exceeds 65536 pages")
		}
		if mt.Min > 65536 {
			return fmt.Errorf("validation failed: memory.min exceeds 65536 pages")
		}
	}

	globalTypes := m.AllGlobalTypes()
	importedGlobalCount := m.importCount(ExternTypeGlobal)
	for i, g := range m.GlobalSection {
		if err := m.validateConstExpr(g.Init, globalTypes[:importedGlobalCount], g.Type.ValType); err != nil {
			return fmt.Errorf("validation failed: global[%d] init: %w", i, err)
		}
	}

	for i, es := range m.ElementSection {
		if es.Mode == ElementModeActive {
			if int(es.TableIndex) >= len(m.AllTableTypes()) {
				return fmt.Errorf("validation failed: element[%d]: unknown table %d", i, es.TableIndex)
			}
			if err := m.validateConstExpr(es.OffsetExpr, globalTypes[:importedGlobalCount], ValueTypeI32); err != nil {
				return fmt.Errorf("validation failed: element[%d] offset: %w", i, err)
			}
		}
		for _, init := range es.Init {
			if err := m.validateConstExpr(init, globalTypes[:importedGlobalCount], es.Type); err != nil {
				return fmt.Errorf("validation failed: element[%d] init: %w", i, err)
			}
		}
	}

	for i, ds := range m.DataSection {
		if ds.Mode == DataModeActive {
			if int(ds.MemoryIndex) >= len(m.AllMemoryTypes()) {
				return fmt.Errorf("validation failed: data[%d]: unknown memory %d", i, ds.MemoryIndex)
			}
			if err := m.validateConstExpr(ds.OffsetExpression, globalTypes[:importedGlobalCount], ValueTypeI32); err != nil {
				return fmt.Errorf("validation failed: data[%d] offset: %w", i, err)
			}
		}
	}

	if m.StartSection != nil {
		ft := m.TypeOfFunction(*m.StartSection)
		if ft == nil {
			return fmt.Errorf("validation failed: unknown start function %d", *m.StartSection)
		}
		if len(ft.Params) != 0 || len(ft.Results) != 0 {
			return fmt.Errorf("validation failed: start function must be [] -> []")
		}
	}

	importFuncCount := m.ImportFuncCount()
	tableTypes := m.AllTableTypes()
	for i, code := range m.CodeSection {
		funcIdx := importFuncCount + Index(i)
		ft := m.TypeOfFunction(funcIdx)
		instrs, err := validateFunction(funcIdx, ft, code, m, globalTypes, tableTypes, enabled)
		if err != nil {
			return err
		}
		code.parsed = instrs
	}
	return nil
}

// validateConstExpr checks a constant expression per spec.md §3 invariant 5:
// only t.const, ref.null, ref.func, and global.get of an imported immutable
// global are allowed.
func (m *Module) validateConstExpr(expr *ConstantExpression, importedGlobals []*GlobalType, want ValueType) error {
	switch expr.Opcode {
	case OpcodeI32Const:
		return requireType(ValueTypeI32, want)
	case OpcodeI64Const:
		return requireType(ValueTypeI64, want)
	case OpcodeF32Const:
		return requireType(ValueTypeF32, want)
	case OpcodeF64Const:
		return requireType(ValueTypeF64, want)
	case OpcodeRefNull:
		rt, _, err := leb128.DecodeUint32(bytes.NewReader(expr.Data))
		if err != nil {
			return err
		}
		return requireType(ValueType(rt), want)
	case OpcodeRefFunc:
		if want != ValueTypeFuncref {
			return fmt.Errorf("ref.func in constant expression must have type funcref")
		}
		idx, _, err := leb128.DecodeUint32(bytes.NewReader(expr.Data))
		if err != nil {
			return err
		}
		if m.TypeOfFunction(idx) == nil {
			return fmt.Errorf("ref.func: unknown function %d", idx)
		}
		return nil
	case OpcodeGlobalGet:
		idx, _, err := leb128.DecodeUint32(bytes.NewReader(expr.Data))
		if err != nil {
			return err
		}
		if int(idx) >= len(importedGlobals) {
			return fmt.Errorf("global.get in constant expression: global %d must be an imported immutable global", idx)
		}
		g := importedGlobals[idx]
		if g.Mutable {
			return fmt.Errorf("global.get in constant expression: global %d is mutable", idx)
		}
		return requireType(g.ValType, want)
	default:
		return fmt.Errorf("non-constant instruction %#x in constant expression", expr.Opcode)
	}
}

func requireType(got, want ValueType) error {
	if got != want {
		return fmt.Errorf("type mismatch: expected %s, got %s", ValueTypeName(want), ValueTypeName(got))
	}
	return nil
}

// operand is an entry of the validator's operand-type stack. `unknown` is
// the sentinel used for code made unreachable by `unreachable` (spec.md
// §4.2 Algorithm).
type operand struct {
	t       ValueType
	unknown bool
}

// ctrlFrame is an entry of the validator's control-frame stack (spec.md
// §4.2 "Algorithm").
type ctrlFrame struct {
	opcode      Opcode
	startTypes  []ValueType
	endTypes    []ValueType
	height      int // operand-stack height at frame entry
	unreachable bool

	// instrIndex is the index, in the function's flattened Instr slice, of
	// this frame's opening block/loop/if instruction.
	instrIndex int
	elseSeen   bool
}

// labelTypes returns the types a branch to this frame must carry: the end
// types for block/if, the start (parameter) types for loop (spec.md §4.1
// family 6, "for loop, branches target the label's start").
func (f *ctrlFrame) labelTypes() []ValueType {
	if f.opcode == OpcodeLoop {
		return f.startTypes
	}
	return f.endTypes
}

type funcValidator struct {
	funcIdx     Index
	module      *Module
	types       []*FunctionType
	funcTypeIdx []Index // FunctionSection, used to resolve func index -> type
	globals     []*GlobalType
	tables      []*TableType
	mems        []*MemoryType
	locals      []ValueType
	enabled     CoreFeatures

	r    *bytes.Reader
	body []byte

	operands []operand
	ctrls    []ctrlFrame
	instrs   []Instr
}

// validateFunction implements spec.md §4.2's per-function algorithm over
// code.Body, producing the flattened, jump-annotated instruction stream the
// engine executes.
func validateFunction(funcIdx Index, ft *FunctionType, code *Code, m *Module, globals []*GlobalType, tables []*TableType, enabled CoreFeatures) ([]Instr, error) {
	if ft == nil {
		return nil, valErr(funcIdx, 0, "unknown type for function")
	}
	locals := append(append([]ValueType{}, ft.Params...), code.LocalTypes...)

	fv := &funcValidator{
		funcIdx: funcIdx,
		module:  m,
		types:   m.TypeSection,
		globals: globals,
		tables:  tables,
		mems:    m.AllMemoryTypes(),
		locals:  locals,
		enabled: enabled,
		r:       bytes.NewReader(code.Body),
		body:    code.Body,
	}
	// Implicit outer "function" control frame whose label is the return.
	fv.ctrls = append(fv.ctrls, ctrlFrame{opcode: 0, endTypes: ft.Results, height: 0, instrIndex: -1})

	if err := fv.run(); err != nil {
		return nil, err
	}
	return fv.instrs, nil
}

func (fv *funcValidator) fail(format string, args ...interface{}) error {
	off := len(fv.body) - fv.r.Len()
	return valErr(fv.funcIdx, off, format, args...)
}

func (fv *funcValidator) pushOperand(t ValueType) { fv.operands = append(fv.operands, operand{t: t}) }

func (fv *funcValidator) pushUnknown() { fv.operands = append(fv.operands, operand{unknown: true}) }

func (fv *funcValidator) top() *ctrlFrame { return &fv.ctrls[len(fv.ctrls)-1] }

func (fv *funcValidator) popOperand() (operand, error) {
	top := fv.top()
	if len(fv.operands) == top.height {
		if top.unreachable {
			return operand{unknown: true}, nil
		}
		return operand{}, fv.fail("insufficient operands")
	}
	v := fv.operands[len(fv.operands)-1]
	fv.operands = fv.operands[:len(fv.operands)-1]
	return v, nil
}

func (fv *funcValidator) popExpect(want ValueType) error {
	v, err := fv.popOperand()
	if err != nil {
		return err
	}
	if !v.unknown && v.t != want {
		return fv.fail("type mismatch: expected %s, got %s", ValueTypeName(want), ValueTypeName(v.t))
	}
	return nil
}

func (fv *funcValidator) popAny() (ValueType, error) {
	v, err := fv.popOperand()
	if err != nil {
		return 0, err
	}
	if v.unknown {
		return valueTypeUnknown, nil
	}
	return v.t, nil
}

// pushCtrl opens a new control frame for block/loop/if.
func (fv *funcValidator) pushCtrl(op Opcode, start, end []ValueType, instrIdx int) {
	fv.ctrls = append(fv.ctrls, ctrlFrame{
		opcode: op, startTypes: start, endTypes: end, height: len(fv.operands), instrIndex: instrIdx,
	})
}

// popCtrl closes the innermost control frame, asserting the operand stack
// matches its end types exactly (spec.md §4.2 "`end` pops the innermost
// control frame").
func (fv *funcValidator) popCtrl() (ctrlFrame, error) {
	top := fv.top()
	for _, t := range reverse(top.endTypes) {
		if err := fv.popExpect(t); err != nil {
			return ctrlFrame{}, err
		}
	}
	if len(fv.operands) != top.height {
		return ctrlFrame{}, fv.fail("operand stack height mismatch at end of block")
	}
	f := *top
	fv.ctrls = fv.ctrls[:len(fv.ctrls)-1]
	return f, nil
}

func reverse(ts []ValueType) []ValueType {
	out := make([]ValueType, len(ts))
	for i, t := range ts {
		out[len(ts)-1-i] = t
	}
	return out
}

// markUnreachable truncates the operand stack to the current frame's height
// and sets its unreachable flag (spec.md §4.2, `unreachable` handling).
func (fv *funcValidator) markUnreachable() {
	top := fv.top()
	fv.operands = fv.operands[:top.height]
	top.unreachable = true
}

func (fv *funcValidator) label(l Index) (*ctrlFrame, error) {
	if int(l) >= len(fv.ctrls) {
		return nil, fv.fail("unknown label %d", l)
	}
	return &fv.ctrls[len(fv.ctrls)-1-int(l)], nil
}

func (fv *funcValidator) readByte() (byte, error) {
	b, err := fv.r.ReadByte()
	if err != nil {
		return 0, fv.fail("truncated instruction")
	}
	return b, nil
}

func (fv *funcValidator) readU32() (uint32, error) {
	v, _, err := leb128.DecodeUint32(fv.r)
	if err != nil {
		return 0, fv.fail("malformed LEB128 u32: %v", err)
	}
	return v, nil
}

func (fv *funcValidator) readI32() (int32, error) {
	v, _, err := leb128.DecodeInt32(fv.r)
	if err != nil {
		return 0, fv.fail("malformed LEB128 i32: %v", err)
	}
	return v, nil
}

func (fv *funcValidator) readI64() (int64, error) {
	v, _, err := leb128.DecodeInt64(fv.r)
	if err != nil {
		return 0, fv.fail("malformed LEB128 i64: %v", err)
	}
	return v, nil
}

func (fv *funcValidator) readF32() (float32, error) {
	var buf [4]byte
	if _, err := io.ReadFull(fv.r, buf[:]); err != nil {
		return 0, fv.fail("truncated f32 const")
	}
	bits := uint32(buf[0]) | uint32(buf[1])<<8 | uint32(buf[2])<<16 | uint32(buf[3])<<24
	return api.DecodeF32(uint64(bits)), nil
}

func (fv *funcValidator) readF64() (float64, error) {
	var buf [8]byte
	if _, err := io.ReadFull(fv.r, buf[:]); err != nil {
		return 0, fv.fail("truncated f64 const")
	}
	var bits uint64
	for i := 7; i >= 0; i-- {
		bits = bits<<8 | uint64(buf[i])
	}
	return api.DecodeF64(bits), nil
}

func (fv *funcValidator) readBlockType() (BlockType, error) {
	v, n, err := leb128.DecodeInt33AsInt64(fv.r)
	if err != nil {
		return BlockType{}, fv.fail("malformed blocktype: %v", err)
	}
	if n == 1 && v == -0x40 {
		return BlockType{Empty: true}, nil
	}
	if v < 0 {
		return BlockType{HasValueType: true, ValueType: ValueType(v & 0x7f)}, nil
	}
	return BlockType{HasTypeIndex: true, TypeIndex: Index(v)}, nil
}

func (fv *funcValidator) readMemArg() (MemArg, error) {
	align, err := fv.readU32()
	if err != nil {
		return MemArg{}, err
	}
	off, err := fv.readU32()
	if err != nil {
		return MemArg{}, err
	}
	return MemArg{Align: align, Offset: off}, nil
}

func (fv *funcValidator) checkAlign(ma MemArg, maxAlign uint32) error {
	if ma.Align > maxAlign {
		return fv.fail("alignment must not be larger than natural")
	}
	return nil
}

func (fv *funcValidator) emit(instr Instr) int {
	fv.instrs = append(fv.instrs, instr)
	return len(fv.instrs) - 1
}

// run is the main validation loop: spec.md §4.2 "For each instruction: pop
// its declared inputs ..., push its outputs."
func (fv *funcValidator) run() error {
	for {
		if fv.r.Len() == 0 {
			return fv.fail("function body missing end")
		}
		opByte, _ := fv.readByte()
		idx := len(fv.instrs)
		if err := fv.step(opByte, idx); err != nil {
			return err
		}
		if opByte == OpcodeEnd && len(fv.ctrls) == 0 {
			if fv.r.Len() != 0 {
				return fv.fail("trailing bytes after function end")
			}
			return nil
		}
	}
}

func isNum(t ValueType) bool { return IsNumType(t) }
func isRef(t ValueType) bool { return IsRefType(t) }
