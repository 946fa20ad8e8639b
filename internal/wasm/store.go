package wasm

import "context"

// FuncAddr, TableAddr, MemAddr, GlobalAddr, ElemAddr and DataAddr are opaque
// indices into a Store's per-kind arrays (spec.md §3 "Addresses"). They are
// stable for the lifetime of the Store and never reused after drop.
type (
	FuncAddr   = Index
	TableAddr  = Index
	MemAddr    = Index
	GlobalAddr = Index
	ElemAddr   = Index
	DataAddr   = Index
)

// GoFunc is a host-provided callable exposed to a module as an imported
// function (spec.md §9 "Host functions"). The engine pops its arguments into
// args (in declared parameter order) and expects results in declared result
// order.
type GoFunc func(ctx context.Context, args []uint64) ([]uint64, error)

// FunctionInstance is one entry of Store.Functions: either a local function,
// which owns a back-reference to the ModuleInstance it was defined in plus
// its validated Code, or a host function, which owns an opaque Go callable
// (spec.md §3 "Store (runtime)").
//
// The Module/Code ↔ ModuleInstance cycle this creates is resolved the way
// spec.md §9 prescribes: the Store owns every instance by value (indexed by
// address) and a FunctionInstance's Module field is a plain pointer whose
// lifetime is bounded by the Store, not a reference-counted handle.
type FunctionInstance struct {
	Type *FunctionType

	// Module is non-nil for local functions: the ModuleInstance that defines
	// this function, used to resolve local.get/call/memory.* etc. against
	// the right set of store addresses.
	Module *ModuleInstance
	// Code is this function's validated body. Non-nil iff Module is non-nil.
	Code *Code
	// FuncIdx is this function's index within Module's combined function
	// index space, used for stack traces and ref.func identity.
	FuncIdx Index

	// GoFunc is non-nil for host functions; Module and Code are nil.
	GoFunc GoFunc
	// HostName labels a host function for diagnostics (e.g. "wasi_snapshot_preview1.fd_write").
	HostName string
}

// IsHost reports whether this FunctionInstance wraps a host Go callable
// rather than a local Wasm function body.
func (f *FunctionInstance) IsHost() bool { return f.GoFunc != nil }

// Reference is one table cell: either null-of-kind, or an address into the
// Store whose meaning depends on the owning TableInstance's Type (a FuncAddr
// for funcref tables, an opaque host-supplied value for externref tables).
type Reference struct {
	IsNull bool
	Value  uint64
}

// NullReference is the null reference, valid for any reftype.
var NullReference = Reference{IsNull: true}

// TableInstance is a runtime table: a reftype, its size limits, and a vector
// of references that grows only up to Limit.Max (spec.md §3 "Store (runtime)").
type TableInstance struct {
	Type  ValueType
	Limit *LimitsType

	References []Reference
}

// Size returns the table's current element count.
func (t *TableInstance) Size() uint32 { return uint32(len(t.References)) }

// Grow attempts to grow the table by delta elements, each initialised to
// init. Returns the previous size, or false if growth would exceed
// Limit.Max or overflow the table's native size (spec.md §4.1 family 9,
// "table.grow").
func (t *TableInstance) Grow(delta uint32, init Reference) (oldSize uint32, ok bool) {
	oldSize = t.Size()
	newSize := uint64(oldSize) + uint64(delta)
	if t.Limit.Max != nil && newSize > uint64(*t.Limit.Max) {
		return oldSize, false
	}
	if newSize > 0xffff_ffff {
		return oldSize, false
	}
	grown := make([]Reference, newSize)
	copy(grown, t.References)
	for i := oldSize; i < uint32(newSize); i++ {
		grown[i] = init
	}
	t.References = grown
	return oldSize, true
}

// MemoryPageSize is the fixed page size of linear memory (spec.md §3
// "MemInst", "64 KiB pages").
const MemoryPageSize = 65536

// MemoryInstance is a runtime linear memory: its size limits, in pages, and
// a byte vector whose length is always a multiple of MemoryPageSize.
type MemoryInstance struct {
	Max *uint32 // pages, nil if unbounded

	Data []byte
}

// Size returns the memory's current size in pages.
func (m *MemoryInstance) Size() uint32 { return uint32(len(m.Data) / MemoryPageSize) }

// Grow attempts to grow the memory by delta pages. Returns the previous
// size in pages, or false if growth would exceed Max or the 2^16 page cap
// mandated by the MVP (spec.md §4.1 family 9, "memory.grow").
func (m *MemoryInstance) Grow(delta uint32) (oldPages uint32, ok bool) {
	oldPages = m.Size()
	newPages := uint64(oldPages) + uint64(delta)
	if newPages > 0x10000 {
		return oldPages, false
	}
	if m.Max != nil && newPages > uint64(*m.Max) {
		return oldPages, false
	}
	grown := make([]byte, newPages*MemoryPageSize)
	copy(grown, m.Data)
	m.Data = grown
	return oldPages, true
}

// GlobalInstance is a runtime global: its declared type and current value.
// Lo holds every numeric and reference encoding; Hi additionally holds the
// upper 64 bits of a v128 global (SIMD proposal permits v128 globals).
// IsNull is meaningful only when Type.ValType is a reftype.
type GlobalInstance struct {
	Type   *GlobalType
	Lo, Hi uint64
	IsNull bool
}

// ElementInstance is a runtime element segment: its reftype and vector of
// references. Dropping it (elem.drop, or automatic drop of an active/
// declarative segment right after instantiation) empties References but
// leaves the address valid — every subsequent read traps (spec.md §3
// "Lifetimes").
type ElementInstance struct {
	Type       ValueType
	References []Reference
	Dropped    bool
}

// Drop empties this element instance. The address remains valid.
func (e *ElementInstance) Drop() {
	e.References = nil
	e.Dropped = true
}

// DataInstance is a runtime data segment: its bytes. Dropping it (data.drop)
// empties Data. Instantiation never drops data instances, active ones
// included; it drops only active and declarative element instances.
type DataInstance struct {
	Data    []byte
	Dropped bool
}

// Drop empties this data instance. The address remains valid.
func (d *DataInstance) Drop() {
	d.Data = nil
	d.Dropped = true
}

// Store holds every instance allocated across however many ModuleInstances
// share it, keyed by address (spec.md §3 "Store (runtime)", §5 "Shared
// resources"). The Store outlives every ModuleInstance it allocates for;
// multiple ModuleInstances may reference the same Store entries (imports).
type Store struct {
	Functions []*FunctionInstance
	Tables    []*TableInstance
	Memories  []*MemoryInstance
	Globals   []*GlobalInstance
	Elements  []*ElementInstance
	Datas     []*DataInstance
}

// NewStore returns an empty Store (spec.md §6 "Store::new()").
func NewStore() *Store { return &Store{} }

// RegisterHostFunc allocates fn as a new host FunctionInstance and returns
// its address (spec.md §6 "Store::register_host_func").
func (s *Store) RegisterHostFunc(t *FunctionType, name string, fn GoFunc) FuncAddr {
	s.Functions = append(s.Functions, &FunctionInstance{Type: t, GoFunc: fn, HostName: name})
	return FuncAddr(len(s.Functions) - 1)
}

// ExternVal is one entry of a ModuleInstance's export table: a kind tag plus
// the address it resolves to in the owning Store (spec.md §3 "ModuleInst").
type ExternVal struct {
	Type ExternType
	Addr Index
}

// ModuleInstance is the runtime materialisation of one module instantiation
// (spec.md §3 "ModuleInst (per instantiation)"): copies of the module's
// declared func types, per-kind vectors of Store addresses (imports first,
// then locally-defined items, matching the module's index spaces), and the
// export table.
type ModuleInstance struct {
	// ID is a per-instantiation opaque identity, distinct from Module.ID
	// (which identifies the decoded+validated static Module and may be
	// shared by many instantiations).
	ID string
	// Name is the name this instance was registered under, or "" if it was
	// instantiated anonymously.
	Name string

	Module *Module
	Types  []*FunctionType

	FunctionAddrs []FuncAddr
	TableAddrs    []TableAddr
	MemoryAddrs   []MemAddr
	GlobalAddrs   []GlobalAddr
	ElemAddrs     []ElemAddr
	DataAddrs     []DataAddr

	Exports map[string]ExternVal
}

// ExportedFunction looks up a function export by name, returning its Store
// address. ok is false if name is absent or not a function export.
func (mi *ModuleInstance) ExportedFunction(name string) (FuncAddr, bool) {
	ev, found := mi.Exports[name]
	if !found || ev.Type != ExternTypeFunc {
		return 0, false
	}
	return ev.Addr, true
}

// Engine is the subset of the execution engine the Store & Instantiator
// depends on, kept as an interface so internal/wasm never imports
// internal/engine/interpreter (spec.md §2 "Dataflow": the Store uses the
// engine only to run a module's start function during instantiation).
type Engine interface {
	// Call invokes the function at funcAddr with args already encoded as
	// raw uint64 stack words (api.EncodeI32 etc.), returning results the
	// same way, or a *wasmruntime.Trap.
	Call(ctx context.Context, store *Store, funcAddr FuncAddr, args []uint64) ([]uint64, error)
}
