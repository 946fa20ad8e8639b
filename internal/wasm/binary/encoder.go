package binary

import (
	"bytes"

	"github.com/wasmkit/wasmkit/internal/leb128"
	"github.com/wasmkit/wasmkit/internal/wasm"
)

// writer accumulates an encoded byte stream (the mirror image of reader).
type writer struct{ buf bytes.Buffer }

func (w *writer) byte(b byte)         { w.buf.WriteByte(b) }
func (w *writer) bytes(b []byte)      { w.buf.Write(b) }
func (w *writer) u32(v uint32)        { w.buf.Write(leb128.EncodeUint32(v)) }
func (w *writer) i32(v int32)         { w.buf.Write(leb128.EncodeInt32(v)) }
func (w *writer) i64(v int64)         { w.buf.Write(leb128.EncodeInt64(v)) }
func (w *writer) valueType(t wasm.ValueType) { w.byte(t) }

func (w *writer) name(s string) {
	w.u32(uint32(len(s)))
	w.buf.WriteString(s)
}

func (w *writer) limits(min uint32, max *uint32) {
	if max == nil {
		w.byte(0x00)
		w.u32(min)
		return
	}
	w.byte(0x01)
	w.u32(min)
	w.u32(*max)
}

func (w *writer) tableType(t *wasm.TableType) {
	w.valueType(t.ElemType)
	w.limits(t.Limit.Min, t.Limit.Max)
}

func (w *writer) memoryType(t *wasm.MemoryType) { w.limits(t.Min, t.Max) }

func (w *writer) globalType(t *wasm.GlobalType) {
	w.valueType(t.ValType)
	if t.Mutable {
		w.byte(0x01)
	} else {
		w.byte(0x00)
	}
}

// constExpr writes a constant expression. e.Data already holds the
// instruction's immediate in its natural encoding (LEB128 for int consts and
// indices, raw little-endian bytes for float consts; see reader.constExpr),
// so every case just re-emits it.
func (w *writer) constExpr(e *wasm.ConstantExpression) {
	w.byte(e.Opcode)
	w.bytes(e.Data)
	w.byte(wasm.OpcodeEnd)
}

// section writes one id-framed, length-prefixed section if contentFn wrote
// anything, matching spec.md §4.3 "empty sections are omitted".
func (w *writer) section(id byte, contentFn func(*writer)) {
	var inner writer
	contentFn(&inner)
	if inner.buf.Len() == 0 {
		return
	}
	w.byte(id)
	w.u32(uint32(inner.buf.Len()))
	w.bytes(inner.buf.Bytes())
}

// EncodeModule serializes m back into the WebAssembly binary format
// (spec.md §4.4 invariant 1: decode(encode(m)) is semantically equivalent to
// m).
func EncodeModule(m *wasm.Module) []byte {
	var w writer
	w.bytes(magic[:])
	w.bytes(version[:])

	w.section(sectionIDType, func(w *writer) {
		if len(m.TypeSection) == 0 {
			return
		}
		w.u32(uint32(len(m.TypeSection)))
		for _, ft := range m.TypeSection {
			w.byte(0x60)
			w.u32(uint32(len(ft.Params)))
			for _, p := range ft.Params {
				w.valueType(p)
			}
			w.u32(uint32(len(ft.Results)))
			for _, r := range ft.Results {
				w.valueType(r)
			}
		}
	})

	w.section(sectionIDImport, func(w *writer) {
		if len(m.ImportSection) == 0 {
			return
		}
		w.u32(uint32(len(m.ImportSection)))
		for _, imp := range m.ImportSection {
			w.name(imp.Module)
			w.name(imp.Name)
			w.byte(imp.Type)
			switch imp.Type {
			case wasm.ExternTypeFunc:
				w.u32(imp.DescFunc)
			case wasm.ExternTypeTable:
				w.tableType(imp.DescTable)
			case wasm.ExternTypeMemory:
				w.memoryType(imp.DescMem)
			case wasm.ExternTypeGlobal:
				w.globalType(imp.DescGlobal)
			}
		}
	})

	w.section(sectionIDFunction, func(w *writer) {
		if len(m.FunctionSection) == 0 {
			return
		}
		w.u32(uint32(len(m.FunctionSection)))
		for _, idx := range m.FunctionSection {
			w.u32(idx)
		}
	})

	w.section(sectionIDTable, func(w *writer) {
		if len(m.TableSection) == 0 {
			return
		}
		w.u32(uint32(len(m.TableSection)))
		for _, t := range m.TableSection {
			w.tableType(t)
		}
	})

	w.section(sectionIDMemory, func(w *writer) {
		if len(m.MemorySection) == 0 {
			return
		}
		w.u32(uint32(len(m.MemorySection)))
		for _, t := range m.MemorySection {
			w.memoryType(t)
		}
	})

	w.section(sectionIDGlobal, func(w *writer) {
		if len(m.GlobalSection) == 0 {
			return
		}
		w.u32(uint32(len(m.GlobalSection)))
		for _, g := range m.GlobalSection {
			w.globalType(g.Type)
			w.constExpr(g.Init)
		}
	})

	w.section(sectionIDExport, func(w *writer) {
		if len(m.ExportSection) == 0 {
			return
		}
		w.u32(uint32(len(m.ExportSection)))
		for _, e := range sortedExports(m.ExportSection) {
			w.name(e.Name)
			w.byte(e.Type)
			w.u32(e.Index)
		}
	})

	w.section(sectionIDStart, func(w *writer) {
		if m.StartSection == nil {
			return
		}
		w.u32(*m.StartSection)
	})

	w.section(sectionIDElement, func(w *writer) {
		if len(m.ElementSection) == 0 {
			return
		}
		w.u32(uint32(len(m.ElementSection)))
		for _, seg := range m.ElementSection {
			encodeElement(w, seg)
		}
	})

	w.section(sectionIDDataCount, func(w *writer) {
		if m.DataCountSection == nil {
			return
		}
		w.u32(*m.DataCountSection)
	})

	w.section(sectionIDCode, func(w *writer) {
		if len(m.CodeSection) == 0 {
			return
		}
		w.u32(uint32(len(m.CodeSection)))
		for _, c := range m.CodeSection {
			var body writer
			encodeLocals(&body, c.LocalTypes)
			body.bytes(c.Body)
			w.u32(uint32(body.buf.Len()))
			w.bytes(body.buf.Bytes())
		}
	})

	w.section(sectionIDData, func(w *writer) {
		if len(m.DataSection) == 0 {
			return
		}
		w.u32(uint32(len(m.DataSection)))
		for _, d := range m.DataSection {
			switch d.Mode {
			case wasm.DataModeActive:
				if d.MemoryIndex == 0 {
					w.u32(0)
					w.constExpr(d.OffsetExpression)
				} else {
					w.u32(2)
					w.u32(d.MemoryIndex)
					w.constExpr(d.OffsetExpression)
				}
			case wasm.DataModePassive:
				w.u32(1)
			}
			w.u32(uint32(len(d.Init)))
			w.bytes(d.Init)
		}
	})

	if m.NameSection != nil {
		w.section(sectionIDCustom, func(w *writer) {
			w.name("name")
			encodeNameSection(w, m.NameSection)
		})
	}

	return w.buf.Bytes()
}

func encodeLocals(w *writer, locals []wasm.ValueType) {
	type run struct {
		t wasm.ValueType
		n uint32
	}
	var runs []run
	for _, t := range locals {
		if len(runs) > 0 && runs[len(runs)-1].t == t {
			runs[len(runs)-1].n++
			continue
		}
		runs = append(runs, run{t: t, n: 1})
	}
	w.u32(uint32(len(runs)))
	for _, r := range runs {
		w.u32(r.n)
		w.valueType(r.t)
	}
}

func encodeElement(w *writer, seg *wasm.ElementSegment) {
	switch {
	case seg.Mode == wasm.ElementModeActive && seg.TableIndex == 0:
		w.u32(4)
		w.constExpr(seg.OffsetExpr)
	case seg.Mode == wasm.ElementModeActive:
		w.u32(6)
		w.u32(seg.TableIndex)
		w.constExpr(seg.OffsetExpr)
		w.valueType(seg.Type)
	case seg.Mode == wasm.ElementModePassive:
		w.u32(5)
		w.valueType(seg.Type)
	default: // declarative
		w.u32(7)
		w.valueType(seg.Type)
	}
	w.u32(uint32(len(seg.Init)))
	for _, e := range seg.Init {
		w.constExpr(e)
	}
}

func encodeNameSection(w *writer, ns *wasm.NameSection) {
	if ns.ModuleName != "" {
		var sub writer
		sub.name(ns.ModuleName)
		w.byte(0)
		w.u32(uint32(sub.buf.Len()))
		w.bytes(sub.buf.Bytes())
	}
	if len(ns.FunctionNames) > 0 {
		var sub writer
		sub.u32(uint32(len(ns.FunctionNames)))
		for _, idx := range sortedIndexKeys(ns.FunctionNames) {
			sub.u32(idx)
			sub.name(ns.FunctionNames[idx])
		}
		w.byte(1)
		w.u32(uint32(sub.buf.Len()))
		w.bytes(sub.buf.Bytes())
	}
}

func sortedIndexKeys(m map[wasm.Index]string) []wasm.Index {
	out := make([]wasm.Index, 0, len(m))
	for k := range m {
		out = append(out, k)
	}
	for i := 1; i < len(out); i++ {
		for j := i; j > 0 && out[j-1] > out[j]; j-- {
			out[j-1], out[j] = out[j], out[j-1]
		}
	}
	return out
}

func sortedExports(m map[string]*wasm.Export) []*wasm.Export {
	out := make([]*wasm.Export, 0, len(m))
	for _, e := range m {
		out = append(out, e)
	}
	for i := 1; i < len(out); i++ {
		for j := i; j > 0 && out[j-1].Name > out[j].Name; j-- {
			out[j-1], out[j] = out[j], out[j-1]
		}
	}
	return out
}
