package interpreter

import (
	"encoding/binary"

	"github.com/wasmkit/wasmkit/internal/wasm"
	"github.com/wasmkit/wasmkit/internal/wasmruntime"
)

func (ce *callEngine) execLoad(f *callFrame, instr *wasm.Instr) {
	mem := ce.mem(f)
	ea := uint64(ce.popU32()) + uint64(instr.MemArg.Offset)
	switch instr.Op {
	case wasm.OpcodeI32Load, wasm.OpcodeF32Load:
		ce.push(uint64(loadU32(mem, ea)))
	case wasm.OpcodeI64Load, wasm.OpcodeF64Load:
		ce.push(loadU64(mem, ea))
	case wasm.OpcodeI32Load8S:
		ce.push(uint64(uint32(int32(int8(loadByte(mem, ea))))))
	case wasm.OpcodeI32Load8U:
		ce.push(uint64(loadByte(mem, ea)))
	case wasm.OpcodeI32Load16S:
		ce.push(uint64(uint32(int32(int16(loadU16(mem, ea))))))
	case wasm.OpcodeI32Load16U:
		ce.push(uint64(loadU16(mem, ea)))
	case wasm.OpcodeI64Load8S:
		ce.push(uint64(int64(int8(loadByte(mem, ea)))))
	case wasm.OpcodeI64Load8U:
		ce.push(uint64(loadByte(mem, ea)))
	case wasm.OpcodeI64Load16S:
		ce.push(uint64(int64(int16(loadU16(mem, ea)))))
	case wasm.OpcodeI64Load16U:
		ce.push(uint64(loadU16(mem, ea)))
	case wasm.OpcodeI64Load32S:
		ce.push(uint64(int64(int32(loadU32(mem, ea)))))
	case wasm.OpcodeI64Load32U:
		ce.push(uint64(loadU32(mem, ea)))
	}
}

func (ce *callEngine) execStore(f *callFrame, instr *wasm.Instr) {
	mem := ce.mem(f)
	switch instr.Op {
	case wasm.OpcodeI32Store, wasm.OpcodeF32Store:
		v := uint32(ce.pop())
		ea := uint64(ce.popU32()) + uint64(instr.MemArg.Offset)
		storeU32(mem, ea, v)
	case wasm.OpcodeI64Store, wasm.OpcodeF64Store:
		v := ce.pop()
		ea := uint64(ce.popU32()) + uint64(instr.MemArg.Offset)
		storeU64(mem, ea, v)
	case wasm.OpcodeI32Store8, wasm.OpcodeI64Store8:
		v := byte(ce.pop())
		ea := uint64(ce.popU32()) + uint64(instr.MemArg.Offset)
		storeByte(mem, ea, v)
	case wasm.OpcodeI32Store16, wasm.OpcodeI64Store16:
		v := uint16(ce.pop())
		ea := uint64(ce.popU32()) + uint64(instr.MemArg.Offset)
		storeU16(mem, ea, v)
	case wasm.OpcodeI64Store32:
		v := uint32(ce.pop())
		ea := uint64(ce.popU32()) + uint64(instr.MemArg.Offset)
		storeU32(mem, ea, v)
	}
}

func checkBounds(mem *wasm.MemoryInstance, ea, n uint64) {
	if ea+n > uint64(len(mem.Data)) {
		panic(wasmruntime.ErrRuntimeOutOfBoundsMemoryAccess)
	}
}

func loadByte(mem *wasm.MemoryInstance, ea uint64) byte {
	checkBounds(mem, ea, 1)
	return mem.Data[ea]
}
func loadU16(mem *wasm.MemoryInstance, ea uint64) uint16 {
	checkBounds(mem, ea, 2)
	return binary.LittleEndian.Uint16(mem.Data[ea:])
}
func loadU32(mem *wasm.MemoryInstance, ea uint64) uint32 {
	checkBounds(mem, ea, 4)
	return binary.LittleEndian.Uint32(mem.Data[ea:])
}
func loadU64(mem *wasm.MemoryInstance, ea uint64) uint64 {
	checkBounds(mem, ea, 8)
	return binary.LittleEndian.Uint64(mem.Data[ea:])
}

func storeByte(mem *wasm.MemoryInstance, ea uint64, v byte) {
	checkBounds(mem, ea, 1)
	mem.Data[ea] = v
}
func storeU16(mem *wasm.MemoryInstance, ea uint64, v uint16) {
	checkBounds(mem, ea, 2)
	binary.LittleEndian.PutUint16(mem.Data[ea:], v)
}
func storeU32(mem *wasm.MemoryInstance, ea uint64, v uint32) {
	checkBounds(mem, ea, 4)
	binary.LittleEndian.PutUint32(mem.Data[ea:], v)
}
func storeU64(mem *wasm.MemoryInstance, ea uint64, v uint64) {
	checkBounds(mem, ea, 8)
	binary.LittleEndian.PutUint64(mem.Data[ea:], v)
}

// execMisc dispatches every sub-opcode under the 0xFC prefix: the eight
// saturating truncation conversions (always available) and the
// bulk-memory/table operations gated on CoreFeatureBulkMemoryOperations at
// validation time (spec.md §4.1 families 5 and 9).
func (ce *callEngine) execMisc(f *callFrame, instr *wasm.Instr) {
	switch wasm.Opcode(instr.Sub) {
	case wasm.OpcodeMiscI32TruncSatF32S:
		ce.pushI32(satTruncToI32S(float64(ce.popF32())))
	case wasm.OpcodeMiscI32TruncSatF32U:
		ce.pushU32(satTruncToI32U(float64(ce.popF32())))
	case wasm.OpcodeMiscI32TruncSatF64S:
		ce.pushI32(satTruncToI32S(ce.popF64()))
	case wasm.OpcodeMiscI32TruncSatF64U:
		ce.pushU32(satTruncToI32U(ce.popF64()))
	case wasm.OpcodeMiscI64TruncSatF32S:
		ce.push(uint64(satTruncToI64S(float64(ce.popF32()))))
	case wasm.OpcodeMiscI64TruncSatF32U:
		ce.push(satTruncToI64U(float64(ce.popF32())))
	case wasm.OpcodeMiscI64TruncSatF64S:
		ce.push(uint64(satTruncToI64S(ce.popF64())))
	case wasm.OpcodeMiscI64TruncSatF64U:
		ce.push(satTruncToI64U(ce.popF64()))

	case wasm.OpcodeMiscMemoryInit:
		ce.execMemoryInit(f, instr)
	case wasm.OpcodeMiscDataDrop:
		ce.store.Datas[f.fn.Module.DataAddrs[instr.Index]].Drop()
	case wasm.OpcodeMiscMemoryCopy:
		ce.execMemoryCopy(f)
	case wasm.OpcodeMiscMemoryFill:
		ce.execMemoryFill(f)
	case wasm.OpcodeMiscTableInit:
		ce.execTableInit(f, instr)
	case wasm.OpcodeMiscElemDrop:
		ce.store.Elements[f.fn.Module.ElemAddrs[instr.Index]].Drop()
	case wasm.OpcodeMiscTableCopy:
		ce.execTableCopy(f, instr)
	case wasm.OpcodeMiscTableGrow:
		ce.execTableGrow(f, instr)
	case wasm.OpcodeMiscTableSize:
		table := ce.store.Tables[f.fn.Module.TableAddrs[instr.Index]]
		ce.pushU32(table.Size())
	case wasm.OpcodeMiscTableFill:
		ce.execTableFill(f, instr)
	}
}

func (ce *callEngine) execMemoryInit(f *callFrame, instr *wasm.Instr) {
	data := ce.store.Datas[f.fn.Module.DataAddrs[instr.Index]]
	n := ce.popU32()
	src := ce.popU32()
	dst := ce.popU32()
	if data.Dropped {
		if n != 0 {
			panic(wasmruntime.ErrRuntimeDataSegmentDropped)
		}
		return
	}
	mem := ce.mem(f)
	if uint64(src)+uint64(n) > uint64(len(data.Data)) || uint64(dst)+uint64(n) > uint64(len(mem.Data)) {
		panic(wasmruntime.ErrRuntimeOutOfBoundsMemoryAccess)
	}
	copy(mem.Data[dst:dst+n], data.Data[src:src+n])
}

func (ce *callEngine) execMemoryCopy(f *callFrame) {
	mem := ce.mem(f)
	n := ce.popU32()
	src := ce.popU32()
	dst := ce.popU32()
	if uint64(src)+uint64(n) > uint64(len(mem.Data)) || uint64(dst)+uint64(n) > uint64(len(mem.Data)) {
		panic(wasmruntime.ErrRuntimeOutOfBoundsMemoryAccess)
	}
	copy(mem.Data[dst:dst+n], mem.Data[src:src+n])
}

func (ce *callEngine) execMemoryFill(f *callFrame) {
	mem := ce.mem(f)
	n := ce.popU32()
	val := byte(ce.popU32())
	dst := ce.popU32()
	if uint64(dst)+uint64(n) > uint64(len(mem.Data)) {
		panic(wasmruntime.ErrRuntimeOutOfBoundsMemoryAccess)
	}
	for i := uint32(0); i < n; i++ {
		mem.Data[dst+i] = val
	}
}

func (ce *callEngine) execTableInit(f *callFrame, instr *wasm.Instr) {
	table := ce.store.Tables[f.fn.Module.TableAddrs[instr.Index]]
	elem := ce.store.Elements[f.fn.Module.ElemAddrs[instr.Index2]]
	n := ce.popU32()
	src := ce.popU32()
	dst := ce.popU32()
	if elem.Dropped {
		if n != 0 {
			panic(wasmruntime.ErrRuntimeElementSegmentDropped)
		}
		return
	}
	if uint64(src)+uint64(n) > uint64(len(elem.References)) || uint64(dst)+uint64(n) > uint64(table.Size()) {
		panic(wasmruntime.ErrRuntimeInvalidTableAccess)
	}
	copy(table.References[dst:dst+n], elem.References[src:src+n])
}

func (ce *callEngine) execTableCopy(f *callFrame, instr *wasm.Instr) {
	dstTable := ce.store.Tables[f.fn.Module.TableAddrs[instr.Index]]
	srcTable := ce.store.Tables[f.fn.Module.TableAddrs[instr.Index2]]
	n := ce.popU32()
	src := ce.popU32()
	dst := ce.popU32()
	if uint64(src)+uint64(n) > uint64(srcTable.Size()) || uint64(dst)+uint64(n) > uint64(dstTable.Size()) {
		panic(wasmruntime.ErrRuntimeInvalidTableAccess)
	}
	copy(dstTable.References[dst:dst+n], srcTable.References[src:src+n])
}

func (ce *callEngine) execTableGrow(f *callFrame, instr *wasm.Instr) {
	table := ce.store.Tables[f.fn.Module.TableAddrs[instr.Index]]
	n := ce.popU32()
	initV := ce.pop()
	old, ok := table.Grow(n, refFromStack(initV))
	if !ok {
		ce.pushI32(-1)
	} else {
		ce.pushU32(old)
	}
}

func (ce *callEngine) execTableFill(f *callFrame, instr *wasm.Instr) {
	table := ce.store.Tables[f.fn.Module.TableAddrs[instr.Index]]
	n := ce.popU32()
	val := ce.pop()
	dst := ce.popU32()
	if uint64(dst)+uint64(n) > uint64(table.Size()) {
		panic(wasmruntime.ErrRuntimeInvalidTableAccess)
	}
	ref := refFromStack(val)
	for i := uint32(0); i < n; i++ {
		table.References[dst+i] = ref
	}
}
