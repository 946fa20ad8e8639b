package binary

import (
	"github.com/wasmkit/wasmkit/internal/leb128"
	"github.com/wasmkit/wasmkit/internal/wasm"
)

func decodeTypeSection(d *reader) ([]*wasm.FunctionType, error) {
	count, err := d.u32()
	if err != nil {
		return nil, err
	}
	out := make([]*wasm.FunctionType, count)
	for i := range out {
		tag, err := d.byte()
		if err != nil {
			return nil, err
		}
		if tag != 0x60 {
			return nil, d.fail("invalid functype tag %#x", tag)
		}
		params, err := decodeValueTypeVec(d)
		if err != nil {
			return nil, err
		}
		results, err := decodeValueTypeVec(d)
		if err != nil {
			return nil, err
		}
		out[i] = &wasm.FunctionType{Params: params, Results: results}
	}
	return out, nil
}

func decodeValueTypeVec(d *reader) ([]wasm.ValueType, error) {
	n, err := d.u32()
	if err != nil {
		return nil, err
	}
	if n == 0 {
		return nil, nil
	}
	out := make([]wasm.ValueType, n)
	for i := range out {
		if out[i], err = d.valueType(); err != nil {
			return nil, err
		}
	}
	return out, nil
}

func decodeIndexVec(d *reader) ([]wasm.Index, error) {
	n, err := d.u32()
	if err != nil {
		return nil, err
	}
	out := make([]wasm.Index, n)
	for i := range out {
		if out[i], err = d.u32(); err != nil {
			return nil, err
		}
	}
	return out, nil
}

func decodeTableType(d *reader) (*wasm.TableType, error) {
	et, err := d.valueType()
	if err != nil {
		return nil, err
	}
	if !wasm.IsRefType(et) {
		return nil, d.fail("table element type must be a reference type, got %s", wasm.ValueTypeName(et))
	}
	min, max, err := d.limits()
	if err != nil {
		return nil, err
	}
	return &wasm.TableType{ElemType: et, Limit: &wasm.LimitsType{Min: min, Max: max}}, nil
}

func decodeMemoryType(d *reader) (*wasm.MemoryType, error) {
	min, max, err := d.limits()
	if err != nil {
		return nil, err
	}
	return &wasm.MemoryType{Min: min, Max: max}, nil
}

func decodeGlobalType(d *reader) (*wasm.GlobalType, error) {
	vt, err := d.valueType()
	if err != nil {
		return nil, err
	}
	mb, err := d.byte()
	if err != nil {
		return nil, err
	}
	if mb != 0x00 && mb != 0x01 {
		return nil, d.fail("invalid mutability tag %#x", mb)
	}
	return &wasm.GlobalType{ValType: vt, Mutable: mb == 0x01}, nil
}

func decodeImportSection(d *reader) ([]*wasm.Import, error) {
	n, err := d.u32()
	if err != nil {
		return nil, err
	}
	out := make([]*wasm.Import, n)
	for i := range out {
		mod, err := d.name()
		if err != nil {
			return nil, err
		}
		name, err := d.name()
		if err != nil {
			return nil, err
		}
		kind, err := d.byte()
		if err != nil {
			return nil, err
		}
		imp := &wasm.Import{Module: mod, Name: name}
		switch kind {
		case wasm.ExternTypeFunc:
			imp.Type = wasm.ExternTypeFunc
			if imp.DescFunc, err = d.u32(); err != nil {
				return nil, err
			}
		case wasm.ExternTypeTable:
			imp.Type = wasm.ExternTypeTable
			if imp.DescTable, err = decodeTableType(d); err != nil {
				return nil, err
			}
		case wasm.ExternTypeMemory:
			imp.Type = wasm.ExternTypeMemory
			if imp.DescMem, err = decodeMemoryType(d); err != nil {
				return nil, err
			}
		case wasm.ExternTypeGlobal:
			imp.Type = wasm.ExternTypeGlobal
			if imp.DescGlobal, err = decodeGlobalType(d); err != nil {
				return nil, err
			}
		default:
			return nil, d.fail("invalid import kind %#x", kind)
		}
		out[i] = imp
	}
	return out, nil
}

func decodeTableSection(d *reader) ([]*wasm.TableType, error) {
	n, err := d.u32()
	if err != nil {
		return nil, err
	}
	out := make([]*wasm.TableType, n)
	for i := range out {
		if out[i], err = decodeTableType(d); err != nil {
			return nil, err
		}
	}
	return out, nil
}

func decodeMemorySection(d *reader) ([]*wasm.MemoryType, error) {
	n, err := d.u32()
	if err != nil {
		return nil, err
	}
	out := make([]*wasm.MemoryType, n)
	for i := range out {
		if out[i], err = decodeMemoryType(d); err != nil {
			return nil, err
		}
	}
	return out, nil
}

func decodeGlobalSection(d *reader) ([]*wasm.Global, error) {
	n, err := d.u32()
	if err != nil {
		return nil, err
	}
	out := make([]*wasm.Global, n)
	for i := range out {
		gt, err := decodeGlobalType(d)
		if err != nil {
			return nil, err
		}
		init, err := d.constExpr()
		if err != nil {
			return nil, err
		}
		out[i] = &wasm.Global{Type: gt, Init: init}
	}
	return out, nil
}

func decodeExportSection(d *reader) (map[string]*wasm.Export, error) {
	n, err := d.u32()
	if err != nil {
		return nil, err
	}
	out := make(map[string]*wasm.Export, n)
	for i := uint32(0); i < n; i++ {
		name, err := d.name()
		if err != nil {
			return nil, err
		}
		kind, err := d.byte()
		if err != nil {
			return nil, err
		}
		idx, err := d.u32()
		if err != nil {
			return nil, err
		}
		switch kind {
		case wasm.ExternTypeFunc, wasm.ExternTypeTable, wasm.ExternTypeMemory, wasm.ExternTypeGlobal:
		default:
			return nil, d.fail("invalid export kind %#x", kind)
		}
		if _, dup := out[name]; dup {
			return nil, d.fail("duplicate export name %q", name)
		}
		out[name] = &wasm.Export{Type: kind, Name: name, Index: idx}
	}
	return out, nil
}

// constExpr reads a constant expression (spec.md §3 invariant 5): a single
// instruction followed by `end`. The Data field re-encodes the immediate as
// LEB128 so Module.Validate can decode it uniformly regardless of source
// encoding width.
func (d *reader) constExpr() (*wasm.ConstantExpression, error) {
	op, err := d.byte()
	if err != nil {
		return nil, err
	}
	var data []byte
	switch op {
	case wasm.OpcodeI32Const:
		v, err := d.i32()
		if err != nil {
			return nil, err
		}
		data = leb128.EncodeInt32(v)
	case wasm.OpcodeI64Const:
		v, err := d.i64()
		if err != nil {
			return nil, err
		}
		data = leb128.EncodeInt64(v)
	case wasm.OpcodeF32Const:
		b, err := d.bytesN(4)
		if err != nil {
			return nil, err
		}
		data = b
	case wasm.OpcodeF64Const:
		b, err := d.bytesN(8)
		if err != nil {
			return nil, err
		}
		data = b
	case wasm.OpcodeRefNull:
		rt, err := d.valueType()
		if err != nil {
			return nil, err
		}
		data = leb128.EncodeUint32(uint32(rt))
	case wasm.OpcodeRefFunc, wasm.OpcodeGlobalGet:
		idx, err := d.u32()
		if err != nil {
			return nil, err
		}
		data = leb128.EncodeUint32(idx)
	default:
		return nil, d.fail("invalid constant expression opcode %#x", op)
	}
	end, err := d.byte()
	if err != nil {
		return nil, err
	}
	if end != wasm.OpcodeEnd {
		return nil, d.fail("constant expression missing end")
	}
	return &wasm.ConstantExpression{Opcode: op, Data: data}, nil
}

func decodeElementSection(d *reader) ([]*wasm.ElementSegment, error) {
	n, err := d.u32()
	if err != nil {
		return nil, err
	}
	out := make([]*wasm.ElementSegment, n)
	for i := range out {
		flag, err := d.u32()
		if err != nil {
			return nil, err
		}
		seg := &wasm.ElementSegment{Type: wasm.ValueTypeFuncref}
		switch flag {
		case 0:
			seg.Mode = wasm.ElementModeActive
			if seg.OffsetExpr, err = d.constExpr(); err != nil {
				return nil, err
			}
			if seg.Init, err = decodeFuncIdxInits(d); err != nil {
				return nil, err
			}
		case 1:
			seg.Mode = wasm.ElementModePassive
			if err := d.elemKind(); err != nil {
				return nil, err
			}
			if seg.Init, err = decodeFuncIdxInits(d); err != nil {
				return nil, err
			}
		case 2:
			seg.Mode = wasm.ElementModeActive
			if seg.TableIndex, err = d.u32(); err != nil {
				return nil, err
			}
			if seg.OffsetExpr, err = d.constExpr(); err != nil {
				return nil, err
			}
			if err := d.elemKind(); err != nil {
				return nil, err
			}
			if seg.Init, err = decodeFuncIdxInits(d); err != nil {
				return nil, err
			}
		case 3:
			seg.Mode = wasm.ElementModeDeclarative
			if err := d.elemKind(); err != nil {
				return nil, err
			}
			if seg.Init, err = decodeFuncIdxInits(d); err != nil {
				return nil, err
			}
		case 4:
			seg.Mode = wasm.ElementModeActive
			if seg.OffsetExpr, err = d.constExpr(); err != nil {
				return nil, err
			}
			if seg.Init, err = decodeExprInits(d); err != nil {
				return nil, err
			}
		case 5:
			seg.Mode = wasm.ElementModePassive
			if seg.Type, err = d.valueType(); err != nil {
				return nil, err
			}
			if seg.Init, err = decodeExprInits(d); err != nil {
				return nil, err
			}
		case 6:
			seg.Mode = wasm.ElementModeActive
			if seg.TableIndex, err = d.u32(); err != nil {
				return nil, err
			}
			if seg.OffsetExpr, err = d.constExpr(); err != nil {
				return nil, err
			}
			if seg.Type, err = d.valueType(); err != nil {
				return nil, err
			}
			if seg.Init, err = decodeExprInits(d); err != nil {
				return nil, err
			}
		case 7:
			seg.Mode = wasm.ElementModeDeclarative
			if seg.Type, err = d.valueType(); err != nil {
				return nil, err
			}
			if seg.Init, err = decodeExprInits(d); err != nil {
				return nil, err
			}
		default:
			return nil, d.fail("invalid element segment flag %d", flag)
		}
		out[i] = seg
	}
	return out, nil
}

func (d *reader) elemKind() error {
	b, err := d.byte()
	if err != nil {
		return err
	}
	if b != 0x00 {
		return d.fail("invalid elemkind %#x", b)
	}
	return nil
}

func decodeFuncIdxInits(d *reader) ([]*wasm.ConstantExpression, error) {
	n, err := d.u32()
	if err != nil {
		return nil, err
	}
	out := make([]*wasm.ConstantExpression, n)
	for i := range out {
		idx, err := d.u32()
		if err != nil {
			return nil, err
		}
		out[i] = &wasm.ConstantExpression{Opcode: wasm.OpcodeRefFunc, Data: leb128.EncodeUint32(idx)}
	}
	return out, nil
}

func decodeExprInits(d *reader) ([]*wasm.ConstantExpression, error) {
	n, err := d.u32()
	if err != nil {
		return nil, err
	}
	out := make([]*wasm.ConstantExpression, n)
	for i := range out {
		if out[i], err = d.constExpr(); err != nil {
			return nil, err
		}
	}
	return out, nil
}

func decodeCodeSection(d *reader) ([]*wasm.Code, error) {
	n, err := d.u32()
	if err != nil {
		return nil, err
	}
	out := make([]*wasm.Code, n)
	for i := range out {
		size, err := d.u32()
		if err != nil {
			return nil, err
		}
		body, err := d.bytesN(size)
		if err != nil {
			return nil, err
		}
		cd := newReader(body)
		localGroups, err := cd.u32()
		if err != nil {
			return nil, err
		}
		var locals []wasm.ValueType
		for g := uint32(0); g < localGroups; g++ {
			cnt, err := cd.u32()
			if err != nil {
				return nil, err
			}
			t, err := cd.valueType()
			if err != nil {
				return nil, err
			}
			for k := uint32(0); k < cnt; k++ {
				locals = append(locals, t)
			}
		}
		out[i] = &wasm.Code{LocalTypes: locals, Body: body[cd.offset():]}
	}
	return out, nil
}

func decodeDataSection(d *reader) ([]*wasm.DataSegment, error) {
	n, err := d.u32()
	if err != nil {
		return nil, err
	}
	out := make([]*wasm.DataSegment, n)
	for i := range out {
		flag, err := d.u32()
		if err != nil {
			return nil, err
		}
		seg := &wasm.DataSegment{}
		switch flag {
		case 0:
			seg.Mode = wasm.DataModeActive
			if seg.OffsetExpression, err = d.constExpr(); err != nil {
				return nil, err
			}
		case 1:
			seg.Mode = wasm.DataModePassive
		case 2:
			seg.Mode = wasm.DataModeActive
			if seg.MemoryIndex, err = d.u32(); err != nil {
				return nil, err
			}
			if seg.OffsetExpression, err = d.constExpr(); err != nil {
				return nil, err
			}
		default:
			return nil, d.fail("invalid data segment flag %d", flag)
		}
		sz, err := d.u32()
		if err != nil {
			return nil, err
		}
		if seg.Init, err = d.bytesN(sz); err != nil {
			return nil, err
		}
		out[i] = seg
	}
	return out, nil
}

func decodeCustomSection(d *reader, m *wasm.Module) error {
	name, err := d.name()
	if err != nil {
		return err
	}
	if name != "name" {
		return nil // other custom sections carry no semantics spec.md tracks
	}
	ns := &wasm.NameSection{}
	for d.r.Len() > 0 {
		subID, err := d.byte()
		if err != nil {
			return err
		}
		size, err := d.u32()
		if err != nil {
			return err
		}
		sub, err := d.bytesN(size)
		if err != nil {
			return err
		}
		sd := newReader(sub)
		switch subID {
		case 0:
			if ns.ModuleName, err = sd.name(); err != nil {
				return err
			}
		case 1:
			n, err := sd.u32()
			if err != nil {
				return err
			}
			for i := uint32(0); i < n; i++ {
				idx, err := sd.u32()
				if err != nil {
					return err
				}
				name, err := sd.name()
				if err != nil {
					return err
				}
				if ns.FunctionNames == nil {
					ns.FunctionNames = map[wasm.Index]string{}
				}
				ns.FunctionNames[idx] = name
			}
		case 2:
			n, err := sd.u32()
			if err != nil {
				return err
			}
			for i := uint32(0); i < n; i++ {
				fnIdx, err := sd.u32()
				if err != nil {
					return err
				}
				cnt, err := sd.u32()
				if err != nil {
					return err
				}
				locals := make(map[wasm.Index]string, cnt)
				for j := uint32(0); j < cnt; j++ {
					localIdx, err := sd.u32()
					if err != nil {
						return err
					}
					name, err := sd.name()
					if err != nil {
						return err
					}
					locals[localIdx] = name
				}
				if ns.LocalNames == nil {
					ns.LocalNames = map[wasm.Index]map[wasm.Index]string{}
				}
				ns.LocalNames[fnIdx] = locals
			}
		}
	}
	m.NameSection = ns
	return nil
}
