// Package interpreter is the tree-walking execution engine: it runs the
// flattened wasm.Instr stream a validated wasm.Code carries, against a
// wasm.Store, implementing every reduction rule family of spec.md §4.1.
//
// There is no separate compile step and no bytecode lowering pass: the
// validator already produced the engine's executable form (jump targets
// resolved to slice indices), so Engine.Call walks it directly.
package interpreter

import (
	"context"
	"math"

	"github.com/wasmkit/wasmkit/internal/wasm"
	"github.com/wasmkit/wasmkit/internal/wasmruntime"
)

// nullRef is the sentinel encoding of a null reference (funcref/externref)
// on the raw uint64 operand stack and in locals. Store addresses are small
// slice indices and host-supplied externref payloads are never expected to
// collide with all-ones; GlobalInstance and table Reference cells use an
// explicit IsNull bool instead, since they are not shared with numeric
// encodings the way stack slots are.
const nullRef = ^uint64(0)

// defaultCallStackCeiling bounds recursion depth (spec.md §4.1 "call stack
// overflow is a trap, not a host-visible stack exhaustion").
const defaultCallStackCeiling = 2048

// Engine is the interpreter's wasm.Engine implementation. It holds no
// per-module compiled state; callStackCeiling is its only configuration.
type Engine struct {
	callStackCeiling int
}

// NewEngine returns an Engine ready to Call into any Store it is given.
func NewEngine() *Engine {
	return &Engine{callStackCeiling: defaultCallStackCeiling}
}

var _ wasm.Engine = (*Engine)(nil)

// Call is the interpreter's sole public entry point (spec.md §4.1
// "run_export"/"invoke"): host embedding calls through here, and so does
// wasm.Instantiate when running a module's start function.
func (e *Engine) Call(ctx context.Context, store *wasm.Store, funcAddr wasm.FuncAddr, args []uint64) (results []uint64, err error) {
	defer wasmruntime.RecoverOntoError(&err)
	ce := &callEngine{engine: e, store: store}
	results = ce.call(ctx, funcAddr, args)
	return
}

// callEngine is one invocation's execution state: a single shared operand
// stack and a stack of call frames, mirroring the teacher interpreter's
// callEngine{stack, frames} shape. Recursive wasm-level calls push another
// frame and recurse into Go's own call stack; they never re-enter run() for
// an already-active frame.
type callEngine struct {
	engine *Engine
	store  *wasm.Store

	stack  []uint64
	frames []*callFrame
}

// callFrame is the per-invocation state of one local function activation:
// its decoded instruction stream, program counter, locals, and the stack of
// active block/loop/if labels.
type callFrame struct {
	fn     *wasm.FunctionInstance
	instrs []wasm.Instr
	pc     int
	locals []uint64
	base   int // ce.stack height when this frame's operand area begins
	labels []label
}

func (f *callFrame) popLabel() label {
	l := f.labels[len(f.labels)-1]
	f.labels = f.labels[:len(f.labels)-1]
	return l
}

// label is one active block/loop/if scope (spec.md §4.1 family 6). Unlike
// the validator's static control frame, this carries only what a branch at
// runtime needs: where to truncate the operand stack back to, how many
// values survive the truncation, and where to jump.
type label struct {
	baseHeight int
	arity      int
	target     int32
	isLoop     bool
}

// call invokes the function at addr, dispatching to a host callable or a
// local activation as appropriate. It is the function every wasm-level
// `call`/`call_indirect` recurses through, as well as Engine.Call's own
// entry point.
func (ce *callEngine) call(ctx context.Context, addr wasm.FuncAddr, args []uint64) []uint64 {
	fn := ce.store.Functions[addr]
	if fn.IsHost() {
		res, err := fn.GoFunc(ctx, args)
		if err != nil {
			panic(err)
		}
		return res
	}
	return ce.callLocal(ctx, fn, args)
}

func (ce *callEngine) callLocal(ctx context.Context, fn *wasm.FunctionInstance, args []uint64) []uint64 {
	if len(ce.frames) >= ce.engine.callStackCeiling {
		panic(wasmruntime.ErrRuntimeCallStackOverflow)
	}
	locals := make([]uint64, len(fn.Type.Params)+len(fn.Code.LocalTypes))
	copy(locals, args)
	for i, t := range fn.Code.LocalTypes {
		if wasm.IsRefType(t) {
			locals[len(fn.Type.Params)+i] = nullRef
		}
	}
	f := &callFrame{fn: fn, instrs: fn.Code.Instrs(), locals: locals, base: len(ce.stack)}
	ce.frames = append(ce.frames, f)
	defer func() { ce.frames = ce.frames[:len(ce.frames)-1] }()
	return ce.run(ctx, f, len(fn.Type.Results))
}

// invoke pops a callee's arguments off the shared operand stack, calls it,
// and pushes its results back — the shape every `call`/`call_indirect` site
// needs.
func (ce *callEngine) invoke(ctx context.Context, addr wasm.FuncAddr) {
	fn := ce.store.Functions[addr]
	n := len(fn.Type.Params)
	args := append([]uint64(nil), ce.stack[len(ce.stack)-n:]...)
	ce.stack = ce.stack[:len(ce.stack)-n]
	res := ce.call(ctx, addr, args)
	ce.stack = append(ce.stack, res...)
}

// run executes f from its current pc until the function's implicit
// terminal `end` or an explicit `return`, yielding resultArity values off
// the operand stack.
func (ce *callEngine) run(ctx context.Context, f *callFrame, resultArity int) []uint64 {
	for {
		instr := &f.instrs[f.pc]
		switch instr.Op {
		case wasm.OpcodeUnreachable:
			panic(wasmruntime.ErrRuntimeUnreachable)
		case wasm.OpcodeNop:
			f.pc++

		case wasm.OpcodeBlock, wasm.OpcodeLoop:
			ce.enterBlock(f, instr)
			f.pc++
		case wasm.OpcodeIf:
			ce.enterIf(f, instr)
		case wasm.OpcodeElse:
			l := f.popLabel()
			f.pc = int(l.target)
		case wasm.OpcodeEnd:
			if len(f.labels) == 0 {
				return ce.popResults(f, resultArity)
			}
			f.popLabel()
			f.pc++

		case wasm.OpcodeBr:
			ce.branch(f, instr.Index)
		case wasm.OpcodeBrIf:
			if ce.popI32() != 0 {
				ce.branch(f, instr.Index)
			} else {
				f.pc++
			}
		case wasm.OpcodeBrTable:
			idx := ce.popU32()
			target := instr.Targets[len(instr.Targets)-1]
			if int(idx) < len(instr.Targets)-1 {
				target = instr.Targets[idx]
			}
			ce.branch(f, target)
		case wasm.OpcodeReturn:
			return ce.popResults(f, resultArity)

		case wasm.OpcodeCall:
			addr := f.fn.Module.FunctionAddrs[instr.Index]
			ce.invoke(ctx, addr)
			f.pc++
		case wasm.OpcodeCallIndirect:
			ce.callIndirect(ctx, f, instr)
			f.pc++

		case wasm.OpcodeDrop:
			ce.pop()
			f.pc++
		case wasm.OpcodeSelect, wasm.OpcodeSelectT:
			cond := ce.popI32()
			b := ce.pop()
			a := ce.pop()
			if cond != 0 {
				ce.push(a)
			} else {
				ce.push(b)
			}
			f.pc++

		case wasm.OpcodeLocalGet:
			ce.push(f.locals[instr.Index])
			f.pc++
		case wasm.OpcodeLocalSet:
			f.locals[instr.Index] = ce.pop()
			f.pc++
		case wasm.OpcodeLocalTee:
			f.locals[instr.Index] = ce.peek()
			f.pc++
		case wasm.OpcodeGlobalGet:
			ce.execGlobalGet(f, instr.Index)
			f.pc++
		case wasm.OpcodeGlobalSet:
			ce.execGlobalSet(f, instr.Index)
			f.pc++

		case wasm.OpcodeTableGet:
			ce.execTableGet(f, instr.Index)
			f.pc++
		case wasm.OpcodeTableSet:
			ce.execTableSet(f, instr.Index)
			f.pc++

		case wasm.OpcodeRefNull:
			ce.push(nullRef)
			f.pc++
		case wasm.OpcodeRefIsNull:
			if ce.pop() == nullRef {
				ce.push(1)
			} else {
				ce.push(0)
			}
			f.pc++
		case wasm.OpcodeRefFunc:
			ce.push(uint64(f.fn.Module.FunctionAddrs[instr.Index]))
			f.pc++

		case wasm.OpcodeI32Const:
			ce.push(uint64(uint32(instr.I32)))
			f.pc++
		case wasm.OpcodeI64Const:
			ce.push(uint64(instr.I64))
			f.pc++
		case wasm.OpcodeF32Const:
			ce.push(uint64(math.Float32bits(instr.F32)))
			f.pc++
		case wasm.OpcodeF64Const:
			ce.push(math.Float64bits(instr.F64))
			f.pc++

		case wasm.OpcodeMiscPrefix:
			ce.execMisc(f, instr)
			f.pc++
		case wasm.OpcodeVecPrefix:
			ce.execVec(f, instr)
			f.pc++

		default:
			ce.execMemOrNumeric(f, instr)
			f.pc++
		}
	}
}

func (ce *callEngine) execMemOrNumeric(f *callFrame, instr *wasm.Instr) {
	switch instr.Op {
	case wasm.OpcodeI32Load, wasm.OpcodeI64Load, wasm.OpcodeF32Load, wasm.OpcodeF64Load,
		wasm.OpcodeI32Load8S, wasm.OpcodeI32Load8U, wasm.OpcodeI32Load16S, wasm.OpcodeI32Load16U,
		wasm.OpcodeI64Load8S, wasm.OpcodeI64Load8U, wasm.OpcodeI64Load16S, wasm.OpcodeI64Load16U,
		wasm.OpcodeI64Load32S, wasm.OpcodeI64Load32U:
		ce.execLoad(f, instr)
		return
	case wasm.OpcodeI32Store, wasm.OpcodeI64Store, wasm.OpcodeF32Store, wasm.OpcodeF64Store,
		wasm.OpcodeI32Store8, wasm.OpcodeI32Store16, wasm.OpcodeI64Store8, wasm.OpcodeI64Store16, wasm.OpcodeI64Store32:
		ce.execStore(f, instr)
		return
	case wasm.OpcodeMemorySize:
		ce.push(uint64(ce.mem(f).Size()))
		return
	case wasm.OpcodeMemoryGrow:
		delta := ce.popU32()
		old, ok := ce.mem(f).Grow(delta)
		if !ok {
			ce.push(uint64(uint32(0xffffffff)))
		} else {
			ce.push(uint64(old))
		}
		return
	}
	ce.execNumeric(instr)
}

// enterBlock pushes a label for a `block` or `loop`. Its params are already
// sitting on the operand stack (the validator required them there before
// emitting the instruction), so baseHeight is computed by subtracting them
// back out.
func (ce *callEngine) enterBlock(f *callFrame, instr *wasm.Instr) {
	types := f.fn.Module.Types
	params := instr.BlockType.Params(types)
	base := len(ce.stack) - len(params)
	if instr.Op == wasm.OpcodeLoop {
		f.labels = append(f.labels, label{baseHeight: base, arity: len(params), target: instr.End, isLoop: true})
		return
	}
	results := instr.BlockType.Results(types)
	f.labels = append(f.labels, label{baseHeight: base, arity: len(results), target: instr.End})
}

func (ce *callEngine) enterIf(f *callFrame, instr *wasm.Instr) {
	cond := ce.popI32()
	types := f.fn.Module.Types
	params := instr.BlockType.Params(types)
	results := instr.BlockType.Results(types)
	base := len(ce.stack) - len(params)

	if cond != 0 {
		f.labels = append(f.labels, label{baseHeight: base, arity: len(results), target: instr.End})
		f.pc++
		return
	}
	if instr.Else >= 0 {
		f.labels = append(f.labels, label{baseHeight: base, arity: len(results), target: instr.End})
		f.pc = int(instr.Else) + 1
		return
	}
	f.pc = int(instr.End)
}

// branch carries a label's arity worth of values across the truncation a
// branch to it causes (spec.md §4.1 family 6), then jumps. Branching to a
// loop label lands back on the loop instruction itself, which re-enters the
// normal enterBlock path and pushes a fresh label — the small-step re-entry
// semantics loops require.
func (ce *callEngine) branch(f *callFrame, l wasm.Index) {
	idx := len(f.labels) - 1 - int(l)
	lbl := f.labels[idx]
	vals := append([]uint64(nil), ce.stack[len(ce.stack)-lbl.arity:]...)
	ce.stack = ce.stack[:lbl.baseHeight]
	ce.stack = append(ce.stack, vals...)
	f.labels = f.labels[:idx]
	f.pc = int(lbl.target)
}

func (ce *callEngine) popResults(f *callFrame, arity int) []uint64 {
	res := append([]uint64(nil), ce.stack[len(ce.stack)-arity:]...)
	ce.stack = ce.stack[:f.base]
	return res
}

func (ce *callEngine) callIndirect(ctx context.Context, f *callFrame, instr *wasm.Instr) {
	tableIdx, typeIdx := instr.Index, instr.Index2
	elemIdx := ce.popU32()
	table := ce.store.Tables[f.fn.Module.TableAddrs[tableIdx]]
	if elemIdx >= table.Size() {
		panic(wasmruntime.ErrRuntimeInvalidTableAccess)
	}
	ref := table.References[elemIdx]
	if ref.IsNull {
		panic(wasmruntime.ErrRuntimeInvalidTableAccess)
	}
	addr := wasm.FuncAddr(ref.Value)
	fn := ce.store.Functions[addr]
	want := f.fn.Module.Types[typeIdx]
	if !fn.Type.EqualsSignature(want.Params, want.Results) {
		panic(wasmruntime.ErrRuntimeIndirectCallTypeMismatch)
	}
	ce.invoke(ctx, addr)
}

func (ce *callEngine) execGlobalGet(f *callFrame, idx wasm.Index) {
	g := ce.store.Globals[f.fn.Module.GlobalAddrs[idx]]
	switch {
	case g.Type.ValType == wasm.ValueTypeV128:
		ce.pushV128(g.Lo, g.Hi)
	case wasm.IsRefType(g.Type.ValType):
		if g.IsNull {
			ce.push(nullRef)
		} else {
			ce.push(g.Lo)
		}
	default:
		ce.push(g.Lo)
	}
}

func (ce *callEngine) execGlobalSet(f *callFrame, idx wasm.Index) {
	g := ce.store.Globals[f.fn.Module.GlobalAddrs[idx]]
	switch {
	case g.Type.ValType == wasm.ValueTypeV128:
		lo, hi := ce.popV128()
		g.Lo, g.Hi = lo, hi
	case wasm.IsRefType(g.Type.ValType):
		v := ce.pop()
		g.IsNull = v == nullRef
		g.Lo = v
	default:
		g.Lo = ce.pop()
	}
}

func (ce *callEngine) execTableGet(f *callFrame, idx wasm.Index) {
	table := ce.store.Tables[f.fn.Module.TableAddrs[idx]]
	i := ce.popU32()
	if i >= table.Size() {
		panic(wasmruntime.ErrRuntimeInvalidTableAccess)
	}
	ce.push(refToStack(table.References[i]))
}

func (ce *callEngine) execTableSet(f *callFrame, idx wasm.Index) {
	table := ce.store.Tables[f.fn.Module.TableAddrs[idx]]
	v := ce.pop()
	i := ce.popU32()
	if i >= table.Size() {
		panic(wasmruntime.ErrRuntimeInvalidTableAccess)
	}
	table.References[i] = refFromStack(v)
}

func refFromStack(v uint64) wasm.Reference {
	if v == nullRef {
		return wasm.NullReference
	}
	return wasm.Reference{Value: v}
}

func refToStack(r wasm.Reference) uint64 {
	if r.IsNull {
		return nullRef
	}
	return r.Value
}

func (ce *callEngine) mem(f *callFrame) *wasm.MemoryInstance {
	return ce.store.Memories[f.fn.Module.MemoryAddrs[0]]
}

func (ce *callEngine) push(v uint64) { ce.stack = append(ce.stack, v) }

func (ce *callEngine) pop() uint64 {
	v := ce.stack[len(ce.stack)-1]
	ce.stack = ce.stack[:len(ce.stack)-1]
	return v
}

func (ce *callEngine) peek() uint64 { return ce.stack[len(ce.stack)-1] }

func (ce *callEngine) popI32() int32  { return int32(uint32(ce.pop())) }
func (ce *callEngine) popU32() uint32 { return uint32(ce.pop()) }

func (ce *callEngine) popV128() (lo, hi uint64) {
	hi = ce.pop()
	lo = ce.pop()
	return
}

func (ce *callEngine) pushV128(lo, hi uint64) {
	ce.push(lo)
	ce.push(hi)
}
