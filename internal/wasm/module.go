// Package wasm implements the static module representation (spec.md §3,
// "Module (static)"), the validator (spec.md §4.2) and the runtime Store /
// ModuleInstance model (spec.md §4.4) that the engine in
// internal/engine/interpreter executes against.
package wasm

import "github.com/wasmkit/wasmkit/api"

// ValueType aliases api.ValueType so callers that only touch the static
// module model don't need to import api directly.
type ValueType = api.ValueType

const (
	ValueTypeI32       = api.ValueTypeI32
	ValueTypeI64       = api.ValueTypeI64
	ValueTypeF32       = api.ValueTypeF32
	ValueTypeF64       = api.ValueTypeF64
	ValueTypeV128      ValueType = 0x7b
	ValueTypeFuncref   ValueType = 0x70
	ValueTypeExternref           = api.ValueTypeExternref

	// valueTypeUnknown is used internally by the validator (spec.md §4.2) to
	// represent the operand-stack sentinel for code after `unreachable`.
	valueTypeUnknown ValueType = 0x00
)

// IsRefType reports whether t is one of the two reference types (spec.md §3
// "Value types").
func IsRefType(t ValueType) bool {
	return t == ValueTypeFuncref || t == ValueTypeExternref
}

// IsNumType reports whether t is one of the four numeric types.
func IsNumType(t ValueType) bool {
	switch t {
	case ValueTypeI32, ValueTypeI64, ValueTypeF32, ValueTypeF64:
		return true
	}
	return false
}

// Index is a 0-based position into one of a module's index spaces
// (functions, tables, memories, globals, types, elements, datas, locals,
// labels).
type Index = uint32

// ExternType classifies an import or export (spec.md §3 "Module (static)").
type ExternType = api.ExternType

const (
	ExternTypeFunc   = api.ExternTypeFunc
	ExternTypeTable  = api.ExternTypeTable
	ExternTypeMemory = api.ExternTypeMemory
	ExternTypeGlobal = api.ExternTypeGlobal
)

// CoreFeatures aliases api.CoreFeatures so the validator can gate
// proposal-specific opcodes without importing api in every caller.
type CoreFeatures = api.CoreFeatures

const (
	CoreFeatureBulkMemoryOperations = api.CoreFeatureBulkMemoryOperations
	CoreFeatureReferenceTypes       = api.CoreFeatureReferenceTypes
	CoreFeatureSIMD                 = api.CoreFeatureSIMD
	CoreFeaturesV2                  = api.CoreFeaturesV2
)

// FunctionType is a func type: a vector of parameter types and a vector of
// result types.
type FunctionType struct {
	Params  []ValueType
	Results []ValueType
}

// key returns a string uniquely identifying this signature, used by the
// validator and call_indirect to compare types for equality (spec.md §4.1
// family 6, "call_indirect").
func (t *FunctionType) key() string {
	b := make([]byte, 0, len(t.Params)+len(t.Results)+1)
	b = append(b, t.Params...)
	b = append(b, 0xff)
	b = append(b, t.Results...)
	return string(b)
}

// EqualsSignature reports whether t and other declare the same parameter and
// result types.
func (t *FunctionType) EqualsSignature(params, results []ValueType) bool {
	if len(t.Params) != len(params) || len(t.Results) != len(results) {
		return false
	}
	for i, p := range params {
		if t.Params[i] != p {
			return false
		}
	}
	for i, r := range results {
		if t.Results[i] != r {
			return false
		}
	}
	return true
}

// LimitsType is the `limits` production: a minimum and an optional maximum,
// used by both TableType and MemoryType (spec.md §4.3 "limits").
type LimitsType struct {
	Min uint32
	Max *uint32
}

// TableType declares a table's element (reference) type and size limits.
type TableType struct {
	ElemType ValueType // always a ref type: Funcref or Externref
	Limit    *LimitsType
}

// MemoryType declares a memory's size limits, in 64KiB pages (spec.md §3).
type MemoryType struct {
	Min uint32
	Max *uint32
}

// GlobalType declares a global's value type and mutability.
type GlobalType struct {
	ValType ValueType
	Mutable bool
}

// ConstantExpression is a single-instruction initializer expression used by
// globals, element-segment offsets/init, and data-segment offsets (spec.md
// §3 invariant 5: only t.const, ref.null, ref.func, global.get of an
// imported immutable global).
type ConstantExpression struct {
	Opcode Opcode
	Data   []byte
}

// Import describes one entry of the import section: a (module, name) pair
// and the kind+type of the item the host/ModuleRegistry must resolve
// (spec.md §4.4 step 1).
type Import struct {
	Type       ExternType
	Module     string
	Name       string
	DescFunc   Index
	DescTable  *TableType
	DescMem    *MemoryType
	DescGlobal *GlobalType
}

// Global is a module-defined (i.e. non-imported) global: its type plus
// constant initializer expression.
type Global struct {
	Type *GlobalType
	Init *ConstantExpression
}

// Export maps a name to an item in one of the module's index spaces.
type Export struct {
	Type  ExternType
	Name  string
	Index Index
}

// Code is one function body: a run of declared locals plus the expression
// tree making up the function (spec.md §4.3 "Each function body").
type Code struct {
	// LocalTypes is the flattened list of declared local value types (run-
	// length encoded in the binary, expanded here), in declaration order.
	// Parameters are not included; they occupy locals [0, len(Params)).
	LocalTypes []ValueType
	Body       []byte

	// parsed is the flattened, jump-annotated instruction stream produced by
	// Module.Validate. Nil until validation runs.
	parsed []Instr
}

// Instrs returns the validated, flattened instruction stream for this
// function body. Callers must validate the owning Module first.
func (c *Code) Instrs() []Instr { return c.parsed }

// ElementMode classifies an element segment as active, passive, or
// declarative (spec.md §3 "Module (static)").
type ElementMode byte

const (
	ElementModeActive ElementMode = iota
	ElementModePassive
	ElementModeDeclarative
)

// ElementSegment is one entry of the element section.
type ElementSegment struct {
	Type       ValueType // Funcref or Externref
	Mode       ElementMode
	TableIndex Index        // meaningful only when Mode == ElementModeActive
	OffsetExpr *ConstantExpression // meaningful only when Mode == ElementModeActive
	// Init holds one constant expression per element, each either a
	// `ref.func`/`ref.null` pair (general form) or, in the common
	// func-index shorthand, synthesized as ref.func expressions by the
	// decoder.
	Init []*ConstantExpression
}

// DataMode classifies a data segment as active or passive.
type DataMode byte

const (
	DataModeActive DataMode = iota
	DataModePassive
)

// DataSegment is one entry of the data section.
type DataSegment struct {
	Mode             DataMode
	MemoryIndex      Index
	OffsetExpression *ConstantExpression
	Init             []byte
}

// NameSection decodes the optional custom "name" section (spec.md §4
// design note: supplemented feature for richer trap diagnostics). Absence
// is not an error; the decoder leaves this nil.
type NameSection struct {
	ModuleName    string
	FunctionNames map[Index]string
	LocalNames    map[Index]map[Index]string
}

// Module is the decoded, statically-typed in-memory form of a binary Wasm
// module (spec.md §3 "Module (static)"). Instances of Module are shared
// read-only across ModuleInstances created by the Store & Instantiator.
type Module struct {
	TypeSection     []*FunctionType
	ImportSection   []*Import
	FunctionSection []Index // func type indices, one per module-defined function
	TableSection    []*TableType
	MemorySection   []*MemoryType
	GlobalSection   []*Global
	ExportSection   map[string]*Export
	StartSection    *Index
	ElementSection  []*ElementSegment
	CodeSection     []*Code
	DataSection     []*DataSegment
	DataCountSection *uint32

	NameSection *NameSection

	// ID identifies this decoded+validated module for engine compilation
	// caching; it has no bearing on instance identity (see
	// ModuleInstance.ID, which is assigned per instantiation).
	ID string
}

// ImportFuncCount returns the number of imported functions, i.e. the offset
// at which module-defined function indices begin.
func (m *Module) ImportFuncCount() (n Index) {
	for _, i := range m.ImportSection {
		if i.Type == ExternTypeFunc {
			n++
		}
	}
	return
}

func (m *Module) importCount(t ExternType) (n Index) {
	for _, i := range m.ImportSection {
		if i.Type == t {
			n++
		}
	}
	return
}

// TypeOfFunction returns the FunctionType of the funcIdx-th function in the
// module's combined (imports-first) function index space.
func (m *Module) TypeOfFunction(funcIdx Index) *FunctionType {
	importFuncCount := m.ImportFuncCount()
	if funcIdx < importFuncCount {
		var cur Index
		for _, imp := range m.ImportSection {
			if imp.Type != ExternTypeFunc {
				continue
			}
			if cur == funcIdx {
				return m.TypeSection[imp.DescFunc]
			}
			cur++
		}
		return nil
	}
	codeIdx := funcIdx - importFuncCount
	if int(codeIdx) >= len(m.FunctionSection) {
		return nil
	}
	return m.TypeSection[m.FunctionSection[codeIdx]]
}

// AllTableTypes returns the table types in index-space order, imports first.
func (m *Module) AllTableTypes() []*TableType {
	all := make([]*TableType, 0, m.importCount(ExternTypeTable)+Index(len(m.TableSection)))
	for _, imp := range m.ImportSection {
		if imp.Type == ExternTypeTable {
			all = append(all, imp.DescTable)
		}
	}
	return append(all, m.TableSection...)
}

// AllMemoryTypes returns the memory types in index-space order, imports
// first. Wasm 1.0 allows at most one memory total.
func (m *Module) AllMemoryTypes() []*MemoryType {
	all := make([]*MemoryType, 0, 1)
	for _, imp := range m.ImportSection {
		if imp.Type == ExternTypeMemory {
			all = append(all, imp.DescMem)
		}
	}
	return append(all, m.MemorySection...)
}

// AllGlobalTypes returns the global types in index-space order, imports
// first.
func (m *Module) AllGlobalTypes() []*GlobalType {
	all := make([]*GlobalType, 0, m.importCount(ExternTypeGlobal)+Index(len(m.GlobalSection)))
	for _, imp := range m.ImportSection {
		if imp.Type == ExternTypeGlobal {
			all = append(all, imp.DescGlobal)
		}
	}
	for _, g := range m.GlobalSection {
		all = append(all, g.Type)
	}
	return all
}
