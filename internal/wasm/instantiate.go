package wasm

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/wasmkit/wasmkit/internal/leb128"
	"github.com/wasmkit/wasmkit/internal/wasmruntime"
)

// InstantiationError reports a failure during Instantiate that is neither a
// SyntaxError nor a ValidationError nor a Trap (spec.md §4.4 "Errors":
// ImportNotFound, ImportKindMismatch, ImportTypeMismatch, SegmentOutOfBounds,
// LimitsExceeded). StartTrap is reported as a *wasmruntime.Trap instead,
// since it is indistinguishable from any other trap once the engine is
// running (spec.md §7).
type InstantiationError struct {
	Kind   string
	Reason string
}

func (e *InstantiationError) Error() string { return fmt.Sprintf("%s: %s", e.Kind, e.Reason) }

func instErr(kind, format string, args ...interface{}) *InstantiationError {
	return &InstantiationError{Kind: kind, Reason: fmt.Sprintf(format, args...)}
}

// ImportResolver resolves one (module, name) import to a previously
// instantiated item's ExternVal, against whatever bookkeeping the host
// embeds (spec.md §1 "module-registry bookkeeping... treated as black
// boxes"; spec.md §6 "ModuleRegistry").
type ImportResolver interface {
	ResolveImport(moduleName, name string) (ExternVal, bool)
}

// Instantiate materialises module into store, resolving its imports via
// resolver and running its element/data initializers and start function
// (spec.md §4.4 "Algorithm"). name labels the resulting ModuleInstance for
// diagnostics and registry bookkeeping; it has no semantic effect here.
//
// module must already be validated (Module.Validate) — Instantiate assumes
// every Code.Instrs() is populated and performs no type checking of its own
// beyond the runtime subtype checks import resolution requires.
func Instantiate(ctx context.Context, store *Store, module *Module, name string, resolver ImportResolver, engine Engine) (*ModuleInstance, error) {
	mi := &ModuleInstance{
		ID:      uuid.NewString(),
		Name:    name,
		Module:  module,
		Types:   module.TypeSection,
		Exports: map[string]ExternVal{},
	}

	// Step 1+2: resolve imports and install their addresses first, so the
	// combined index space is imports-then-locals exactly as the static
	// Module's own index spaces are (spec.md §3 "ModuleInst").
	for _, imp := range module.ImportSection {
		ev, found := resolver.ResolveImport(imp.Module, imp.Name)
		if !found {
			return nil, instErr("ImportNotFound", "%s.%s", imp.Module, imp.Name)
		}
		if ev.Type != imp.Type {
			return nil, instErr("ImportKindMismatch", "%s.%s: want %s, got %s",
				imp.Module, imp.Name, externTypeName(imp.Type), externTypeName(ev.Type))
		}
		switch imp.Type {
		case ExternTypeFunc:
			got := store.Functions[ev.Addr].Type
			want := module.TypeSection[imp.DescFunc]
			if !got.EqualsSignature(want.Params, want.Results) {
				return nil, instErr("ImportTypeMismatch", "%s.%s: function signature mismatch", imp.Module, imp.Name)
			}
			mi.FunctionAddrs = append(mi.FunctionAddrs, ev.Addr)
		case ExternTypeTable:
			got := store.Tables[ev.Addr]
			want := imp.DescTable
			if got.Type != want.ElemType {
				return nil, instErr("ImportTypeMismatch", "%s.%s: table elem type mismatch", imp.Module, imp.Name)
			}
			if !limitsFitWithin(got.Limit, want.Limit) {
				return nil, instErr("ImportTypeMismatch", "%s.%s: table limits do not fit", imp.Module, imp.Name)
			}
			mi.TableAddrs = append(mi.TableAddrs, ev.Addr)
		case ExternTypeMemory:
			got := store.Memories[ev.Addr]
			want := imp.DescMem
			if !limitsFitWithin(&LimitsType{Min: got.Size(), Max: got.Max}, &LimitsType{Min: want.Min, Max: want.Max}) {
				return nil, instErr("ImportTypeMismatch", "%s.%s: memory limits do not fit", imp.Module, imp.Name)
			}
			mi.MemoryAddrs = append(mi.MemoryAddrs, ev.Addr)
		case ExternTypeGlobal:
			got := store.Globals[ev.Addr]
			want := imp.DescGlobal
			if got.Type.ValType != want.ValType || got.Type.Mutable != want.Mutable {
				return nil, instErr("ImportTypeMismatch", "%s.%s: global type/mutability mismatch", imp.Module, imp.Name)
			}
			mi.GlobalAddrs = append(mi.GlobalAddrs, ev.Addr)
		}
	}

	// Step 3+4: allocate local functions. Each FuncInst can be built now
	// since it only needs a back-reference to mi (itself), not any other
	// kind's addresses.
	importFuncCount := Index(len(mi.FunctionAddrs))
	for i, code := range module.CodeSection {
		funcIdx := importFuncCount + Index(i)
		ft := module.TypeOfFunction(funcIdx)
		fn := &FunctionInstance{Type: ft, Module: mi, Code: code, FuncIdx: funcIdx}
		store.Functions = append(store.Functions, fn)
		mi.FunctionAddrs = append(mi.FunctionAddrs, FuncAddr(len(store.Functions)-1))
	}

	// Local tables, cells initialised to null-of-reftype up to limits.min.
	for _, t := range module.TableSection {
		refs := make([]Reference, t.Limit.Min)
		for i := range refs {
			refs[i] = NullReference
		}
		store.Tables = append(store.Tables, &TableInstance{Type: t.ElemType, Limit: t.Limit, References: refs})
		mi.TableAddrs = append(mi.TableAddrs, TableAddr(len(store.Tables)-1))
	}

	// Local memories, sized limits.min * 64KiB.
	for _, t := range module.MemorySection {
		if t.Min > 0x10000 || (t.Max != nil && *t.Max > 0x10000) {
			return nil, instErr("LimitsExceeded", "memory limits exceed 2^16 pages")
		}
		store.Memories = append(store.Memories, &MemoryInstance{Max: t.Max, Data: make([]byte, uint64(t.Min)*MemoryPageSize)})
		mi.MemoryAddrs = append(mi.MemoryAddrs, MemAddr(len(store.Memories)-1))
	}

	// Local globals: init expressions may reference imported (and only
	// imported) globals and the module's own functions (spec.md §3
	// invariant 5), both of which mi already has addresses for.
	for _, g := range module.GlobalSection {
		lo, hi, err := evalConstExpr(store, mi, g.Init)
		if err != nil {
			return nil, err
		}
		store.Globals = append(store.Globals, &GlobalInstance{
			Type: g.Type, Lo: lo, Hi: hi, IsNull: constExprIsNullRef(store, mi, g.Init),
		})
		mi.GlobalAddrs = append(mi.GlobalAddrs, GlobalAddr(len(store.Globals)-1))
	}

	// Step 5: element segments.
	for _, seg := range module.ElementSection {
		refs := make([]Reference, len(seg.Init))
		for i, init := range seg.Init {
			lo, _, err := evalConstExpr(store, mi, init)
			if err != nil {
				return nil, err
			}
			if init.Opcode == OpcodeRefNull {
				refs[i] = NullReference
			} else {
				refs[i] = Reference{Value: lo}
			}
		}
		ei := &ElementInstance{Type: seg.Type, References: refs}
		store.Elements = append(store.Elements, ei)
		elemAddr := ElemAddr(len(store.Elements) - 1)
		mi.ElemAddrs = append(mi.ElemAddrs, elemAddr)

		switch seg.Mode {
		case ElementModeActive:
			offLo, _, err := evalConstExpr(store, mi, seg.OffsetExpr)
			if err != nil {
				return nil, err
			}
			tableAddr := mi.TableAddrs[seg.TableIndex]
			table := store.Tables[tableAddr]
			offset := uint64(int32(offLo))
			if offset+uint64(len(refs)) > uint64(len(table.References)) {
				return nil, instErr("SegmentOutOfBounds", "element segment at offset %d, len %d exceeds table size %d", offset, len(refs), len(table.References))
			}
			copy(table.References[offset:], refs)
			ei.Drop()
		case ElementModeDeclarative:
			ei.Drop()
		case ElementModePassive:
			// remains available for table.init.
		}
	}

	// Step 6: data segments.
	for _, seg := range module.DataSection {
		di := &DataInstance{Data: append([]byte{}, seg.Init...)}
		store.Datas = append(store.Datas, di)
		mi.DataAddrs = append(mi.DataAddrs, DataAddr(len(store.Datas)-1))

		if seg.Mode == DataModeActive {
			offLo, _, err := evalConstExpr(store, mi, seg.OffsetExpression)
			if err != nil {
				return nil, err
			}
			memAddr := mi.MemoryAddrs[seg.MemoryIndex]
			mem := store.Memories[memAddr]
			offset := uint64(uint32(int32(offLo)))
			if offset+uint64(len(seg.Init)) > uint64(len(mem.Data)) {
				return nil, instErr("SegmentOutOfBounds", "data segment at offset %d, len %d exceeds memory size %d", offset, len(seg.Init), len(mem.Data))
			}
			copy(mem.Data[offset:], seg.Init)
		}
	}

	// Step 7: exports.
	for _, e := range module.ExportSection {
		var addr Index
		switch e.Type {
		case ExternTypeFunc:
			addr = mi.FunctionAddrs[e.Index]
		case ExternTypeTable:
			addr = mi.TableAddrs[e.Index]
		case ExternTypeMemory:
			addr = mi.MemoryAddrs[e.Index]
		case ExternTypeGlobal:
			addr = mi.GlobalAddrs[e.Index]
		}
		mi.Exports[e.Name] = ExternVal{Type: e.Type, Addr: addr}
	}

	// Step 8: start function.
	if module.StartSection != nil {
		startAddr := mi.FunctionAddrs[*module.StartSection]
		if _, err := engine.Call(ctx, store, startAddr, nil); err != nil {
			return nil, err // a *wasmruntime.Trap, per spec.md's StartTrap
		}
	}

	return mi, nil
}

// limitsFitWithin reports whether got is a valid instantiation of an import
// declared with limits want: got.Min must be at least want.Min, and if want
// declares a Max, got must also declare one no larger (spec.md §4.4 step 1).
func limitsFitWithin(got, want *LimitsType) bool {
	if got.Min < want.Min {
		return false
	}
	if want.Max == nil {
		return true
	}
	return got.Max != nil && *got.Max <= *want.Max
}

func externTypeName(t ExternType) string {
	switch t {
	case ExternTypeFunc:
		return "func"
	case ExternTypeTable:
		return "table"
	case ExternTypeMemory:
		return "memory"
	case ExternTypeGlobal:
		return "global"
	}
	return "unknown"
}

// evalConstExpr evaluates a constant initializer expression against the
// partially-built mi (spec.md §4.4 step 3: "global.get against imported
// globals and ref.func against the module's own function indices"). Only
// the five forms spec.md §3 invariant 5 allows ever reach here, since
// Module.Validate already rejected anything else.
func evalConstExpr(store *Store, mi *ModuleInstance, ce *ConstantExpression) (lo, hi uint64, err error) {
	switch ce.Opcode {
	case OpcodeI32Const:
		v, _, err := leb128.LoadInt32(ce.Data)
		return uint64(uint32(v)), 0, err
	case OpcodeI64Const:
		v, _, err := leb128.LoadInt64(ce.Data)
		return uint64(v), 0, err
	case OpcodeF32Const:
		return uint64(le32(ce.Data)), 0, nil
	case OpcodeF64Const:
		return le64(ce.Data), 0, nil
	case OpcodeRefNull:
		return 0, 0, nil
	case OpcodeRefFunc:
		idx, _, err := leb128.LoadUint32(ce.Data)
		if err != nil {
			return 0, 0, err
		}
		return uint64(mi.FunctionAddrs[idx]), 0, nil
	case OpcodeGlobalGet:
		idx, _, err := leb128.LoadUint32(ce.Data)
		if err != nil {
			return 0, 0, err
		}
		g := store.Globals[mi.GlobalAddrs[idx]]
		return g.Lo, g.Hi, nil
	}
	return 0, 0, wasmruntime.NewTrap(fmt.Errorf("unreachable: invalid constant expression opcode %#x", ce.Opcode))
}

// constExprIsNullRef reports whether a reference-typed constant expression
// evaluates to null, including the chained case of `global.get` on an
// imported global that is itself null.
func constExprIsNullRef(store *Store, mi *ModuleInstance, ce *ConstantExpression) bool {
	switch ce.Opcode {
	case OpcodeRefNull:
		return true
	case OpcodeGlobalGet:
		idx, _, err := leb128.LoadUint32(ce.Data)
		if err != nil {
			return false
		}
		return store.Globals[mi.GlobalAddrs[idx]].IsNull
	}
	return false
}

func le32(b []byte) uint32 {
	return uint32(b[0]) | uint32(b[1])<<8 | uint32(b[2])<<16 | uint32(b[3])<<24
}

func le64(b []byte) uint64 {
	var v uint64
	for i := 0; i < 8; i++ {
		v |= uint64(b[i]) << (8 * i)
	}
	return v
}
