// Package wasmkit is the host embedding API of spec.md §6: decode, validate,
// instantiate and invoke WebAssembly modules from Go, plus register Go
// functions a module can import.
//
// Grounded on the teacher's top-level wazero package (runtime.go/config.go/
// builder.go), simplified around this module's ModuleRegistry-centric
// import resolution instead of the teacher's cache/listener/reflection
// machinery.
package wasmkit

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/wasmkit/wasmkit/internal/engine/interpreter"
	"github.com/wasmkit/wasmkit/internal/moduleregistry"
	"github.com/wasmkit/wasmkit/internal/wasm"
	"github.com/wasmkit/wasmkit/internal/wasm/binary"
)

// Runtime is the top-level object embedders use to load, link and run
// WebAssembly modules. It owns a single Store (spec.md §5 "Shared
// resources": every instance Runtime creates shares one address space) and
// a ModuleRegistry for name-based import resolution.
type Runtime struct {
	config   *RuntimeConfig
	store    *wasm.Store
	engine   wasm.Engine
	registry *moduleregistry.Registry
}

// NewRuntime returns a Runtime configured by config, or NewRuntimeConfig's
// defaults if config is nil.
func NewRuntime(config *RuntimeConfig) *Runtime {
	if config == nil {
		config = NewRuntimeConfig()
	}
	return &Runtime{
		config:   config,
		store:    wasm.NewStore(),
		engine:   interpreter.NewEngine(),
		registry: moduleregistry.New(),
	}
}

// CompiledModule is a decoded and validated WebAssembly module, ready to be
// instantiated any number of times (spec.md §3 "Module (static)" is shared
// read-only across instantiations).
type CompiledModule struct {
	module *wasm.Module
}

// CompileModule decodes and validates source (spec.md §4.2 "decode(bytes)
// -> Module | SyntaxError", then "validate(module) -> Module |
// ValidationError"), returning a CompiledModule ready for InstantiateModule.
func (r *Runtime) CompileModule(_ context.Context, source []byte) (*CompiledModule, error) {
	module, err := binary.DecodeModule(source)
	if err != nil {
		return nil, err
	}
	if err := module.Validate(r.config.enabledFeatures); err != nil {
		return nil, err
	}
	module.ID = uuid.NewString()
	return &CompiledModule{module: module}, nil
}

// Register makes compiled available for other modules to import from,
// under name, without instantiating it (spec.md §6
// "ModuleRegistry::register(name, Module)").
func (r *Runtime) Register(name string, compiled *CompiledModule) {
	r.registry.Register(name, compiled.module)
}

// Module is the runtime materialisation of one instantiated CompiledModule
// (spec.md §3 "ModuleInst (per instantiation)").
type Module struct {
	r  *Runtime
	mi *wasm.ModuleInstance
}

// Name returns the name this instance was instantiated under.
func (m *Module) Name() string { return m.mi.Name }

// ExportedFunction returns a callable handle to a function export, or false
// if name is absent or not a function export.
func (m *Module) ExportedFunction(name string) (*Function, bool) {
	addr, ok := m.mi.ExportedFunction(name)
	if !ok {
		return nil, false
	}
	return &Function{r: m.r, addr: addr}, true
}

// InstantiateModule instantiates compiled, resolving its imports against
// every module previously registered or instantiated on this Runtime
// (spec.md §4.4 "Instantiate"). config.WithName, if set, overrides the
// name the instance is registered and exported under.
func (r *Runtime) InstantiateModule(ctx context.Context, compiled *CompiledModule, config *ModuleConfig) (*Module, error) {
	if config == nil {
		config = NewModuleConfig()
	}
	name := config.name
	if name == "" {
		name = compiled.module.ID
	}

	r.registry.Register(name, compiled.module)
	mi, err := r.registry.Instantiate(r.withConfigContext(ctx), r.store, name, name, r.engine)
	if err != nil {
		return nil, err
	}
	return &Module{r: r, mi: mi}, nil
}

func (r *Runtime) withConfigContext(ctx context.Context) context.Context {
	if ctx == nil {
		return r.config.ctx
	}
	return ctx
}

// Function is a callable handle to one function address in the Runtime's
// Store, returned by Module.ExportedFunction or HostModuleBuilder.
type Function struct {
	r    *Runtime
	addr wasm.FuncAddr
}

// Call invokes the function with args encoded as raw stack words
// (api.EncodeI32 and friends), returning its results the same way, or the
// *wasmruntime.Trap that stopped it (spec.md §4.1 "run_export").
func (f *Function) Call(ctx context.Context, args ...uint64) ([]uint64, error) {
	return f.r.engine.Call(f.r.withConfigContext(ctx), f.r.store, f.addr, args)
}

// Type returns the function's declared parameter and result types, so a
// caller that only has a name (e.g. the CLI adapter) can encode arguments
// correctly before calling Call.
func (f *Function) Type() *wasm.FunctionType {
	return f.r.store.Functions[f.addr].Type
}

// RegisterHostFunc exposes fn directly as the import (moduleName,
// exportName), without a backing host module (spec.md §6
// "Store::register_host_func"). Prefer NewHostModuleBuilder when exporting
// more than a handful of functions from one logical module.
func (r *Runtime) RegisterHostFunc(moduleName, exportName string, t *wasm.FunctionType, fn wasm.GoFunc) {
	addr := r.store.RegisterHostFunc(t, fmt.Sprintf("%s.%s", moduleName, exportName), fn)
	r.registry.RegisterHostFunc(moduleName, exportName, addr)
}
