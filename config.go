package wasmkit

import (
	"context"

	"github.com/wasmkit/wasmkit/internal/wasm"
)

// RuntimeConfig controls engine-wide behavior, with the default
// implementation as NewRuntimeConfig: every proposal this module
// implements (bulk-memory, reference-types, SIMD) enabled, matching
// spec.md §1's scope.
//
// Grounded on the teacher's config.go RuntimeConfig, trimmed to the knobs
// this module actually exercises: there is no JIT/interpreter choice
// (spec.md §1 excludes ahead-of-time compilation), so NewRuntime always
// uses the interpreter engine.
type RuntimeConfig struct {
	enabledFeatures wasm.CoreFeatures
	ctx             context.Context
}

// NewRuntimeConfig returns the default RuntimeConfig: background context,
// every supported proposal enabled.
func NewRuntimeConfig() *RuntimeConfig {
	return &RuntimeConfig{
		enabledFeatures: wasm.CoreFeaturesV2,
		ctx:             context.Background(),
	}
}

// clone copies every field, so With* methods never mutate a config another
// caller still holds a reference to.
func (c *RuntimeConfig) clone() *RuntimeConfig {
	ret := *c
	return &ret
}

// WithContext sets the default context used to invoke a module's start
// function during instantiation. Defaults to context.Background if nil.
func (c *RuntimeConfig) WithContext(ctx context.Context) *RuntimeConfig {
	if ctx == nil {
		ctx = context.Background()
	}
	ret := c.clone()
	ret.ctx = ctx
	return ret
}

// WithCoreFeatureBulkMemoryOperations toggles the bulk-memory proposal
// (table.init/copy/fill, memory.init/copy/fill, elem.drop/data.drop).
// Enabled by default.
func (c *RuntimeConfig) WithCoreFeatureBulkMemoryOperations(enabled bool) *RuntimeConfig {
	ret := c.clone()
	ret.enabledFeatures = ret.enabledFeatures.SetEnabled(wasm.CoreFeatureBulkMemoryOperations, enabled)
	return ret
}

// WithCoreFeatureReferenceTypes toggles the reference-types proposal
// (funcref/externref, ref.null/ref.is_null/ref.func, table.get/set/grow/
// size). Enabled by default.
func (c *RuntimeConfig) WithCoreFeatureReferenceTypes(enabled bool) *RuntimeConfig {
	ret := c.clone()
	ret.enabledFeatures = ret.enabledFeatures.SetEnabled(wasm.CoreFeatureReferenceTypes, enabled)
	return ret
}

// WithCoreFeatureSIMD toggles the v128 value type and vector instructions.
// Enabled by default.
func (c *RuntimeConfig) WithCoreFeatureSIMD(enabled bool) *RuntimeConfig {
	ret := c.clone()
	ret.enabledFeatures = ret.enabledFeatures.SetEnabled(wasm.CoreFeatureSIMD, enabled)
	return ret
}

// ModuleConfig configures one instantiation of a CompiledModule (spec.md §4.4
// "Instantiate(module, imports) -> ModuleInst | InstantiationError | Trap").
//
// Grounded on the teacher's ModuleConfig, trimmed to the name override this
// module's ModuleRegistry-based embedding API needs: there is no WASI
// surface here (spec.md §1 Non-goals), so stdin/stdout/args/env/FS
// configuration has nothing to attach to.
type ModuleConfig struct {
	name string
}

// NewModuleConfig returns the default ModuleConfig: the instance takes
// whatever name it is registered under.
func NewModuleConfig() *ModuleConfig {
	return &ModuleConfig{}
}

// WithName overrides the name this instance is registered and exported
// under. Defaults to the name passed to Runtime.InstantiateModule.
func (c *ModuleConfig) WithName(name string) *ModuleConfig {
	ret := *c
	ret.name = name
	return &ret
}
