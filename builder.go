package wasmkit

import (
	"github.com/wasmkit/wasmkit/internal/wasm"
)

// HostFunctionBuilder defines one host function so a WebAssembly module can
// import and call it (spec.md §9 "Host functions").
//
// Grounded on the teacher's HostFunctionBuilder, simplified to this
// module's GoFunc convention ([]uint64 args/results already encoded per
// api.EncodeI32 etc.) instead of the teacher's reflect-based WithFunc: this
// module has no ABI-mapping layer to hide numeric<->Go type conversion
// behind.
type HostFunctionBuilder interface {
	// WithFunc sets fn as this function's implementation, typed by params
	// and results (spec.md §3 "Value types").
	WithFunc(fn wasm.GoFunc, params, results []wasm.ValueType) HostFunctionBuilder

	// Export registers this function under exportName on the owning
	// HostModuleBuilder and returns it for chaining.
	Export(exportName string) HostModuleBuilder
}

// HostModuleBuilder defines a set of host functions (in Go) that together
// form one importable module name, e.g. "env" (spec.md §9 "Host functions").
//
// Grounded on the teacher's HostModuleBuilder/hostModuleBuilder, rewired to
// register directly against the Runtime's ModuleRegistry
// (Registry.RegisterHostFunc) rather than compiling a synthetic
// wasm.Module: a host module never has Wasm bytecode to decode or
// validate, only addresses to allocate in the Store.
type HostModuleBuilder interface {
	// NewFunctionBuilder begins the definition of one host function.
	NewFunctionBuilder() HostFunctionBuilder

	// Instantiate allocates every function defined so far in the Runtime's
	// Store and makes them resolvable as imports from moduleName.
	Instantiate() *HostModule
}

// HostModule is the result of HostModuleBuilder.Instantiate: a handle onto
// the exported names registered under one host module name.
type HostModule struct {
	r           *Runtime
	moduleName  string
	exportNames []string
}

// Name returns the module name host functions were registered under.
func (h *HostModule) Name() string { return h.moduleName }

// ExportNames returns the export names registered on this host module, in
// declaration order.
func (h *HostModule) ExportNames() []string { return h.exportNames }

type hostModuleBuilder struct {
	r          *Runtime
	moduleName string
	funcs      []*hostFuncDef
}

type hostFuncDef struct {
	exportName string
	t          *wasm.FunctionType
	fn         wasm.GoFunc
}

// NewHostModuleBuilder begins the definition of a host module named
// moduleName (spec.md §6 "Host embedding API").
func (r *Runtime) NewHostModuleBuilder(moduleName string) HostModuleBuilder {
	return &hostModuleBuilder{r: r, moduleName: moduleName}
}

func (b *hostModuleBuilder) NewFunctionBuilder() HostFunctionBuilder {
	return &hostFunctionBuilder{b: b}
}

func (b *hostModuleBuilder) Instantiate() *HostModule {
	names := make([]string, 0, len(b.funcs))
	for _, def := range b.funcs {
		b.r.RegisterHostFunc(b.moduleName, def.exportName, def.t, def.fn)
		names = append(names, def.exportName)
	}
	return &HostModule{r: b.r, moduleName: b.moduleName, exportNames: names}
}

type hostFunctionBuilder struct {
	b       *hostModuleBuilder
	fn      wasm.GoFunc
	params  []wasm.ValueType
	results []wasm.ValueType
}

func (h *hostFunctionBuilder) WithFunc(fn wasm.GoFunc, params, results []wasm.ValueType) HostFunctionBuilder {
	h.fn = fn
	h.params = params
	h.results = results
	return h
}

func (h *hostFunctionBuilder) Export(exportName string) HostModuleBuilder {
	h.b.funcs = append(h.b.funcs, &hostFuncDef{
		exportName: exportName,
		t:          &wasm.FunctionType{Params: h.params, Results: h.results},
		fn:         h.fn,
	})
	return h.b
}
