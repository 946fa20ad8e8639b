package wasmkit_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	wasmkit "github.com/wasmkit/wasmkit"
	"github.com/wasmkit/wasmkit/internal/wasm"
	"github.com/wasmkit/wasmkit/internal/wasm/binary"
)

// answerModule encodes a module exporting one zero-arg function "answer"
// that returns the i32 constant 42.
func answerModule() []byte {
	m := &wasm.Module{
		TypeSection:     []*wasm.FunctionType{{Results: []wasm.ValueType{wasm.ValueTypeI32}}},
		FunctionSection: []wasm.Index{0},
		CodeSection:     []*wasm.Code{{Body: []byte{wasm.OpcodeI32Const, 42, wasm.OpcodeEnd}}},
		ExportSection: map[string]*wasm.Export{
			"answer": {Name: "answer", Type: wasm.ExternTypeFunc, Index: 0},
		},
	}
	return binary.EncodeModule(m)
}

func TestRuntime_CompileAndInstantiate(t *testing.T) {
	r := wasmkit.NewRuntime(nil)
	compiled, err := r.CompileModule(context.Background(), answerModule())
	require.NoError(t, err)

	mod, err := r.InstantiateModule(context.Background(), compiled, wasmkit.NewModuleConfig().WithName("math"))
	require.NoError(t, err)
	require.Equal(t, "math", mod.Name())

	fn, ok := mod.ExportedFunction("answer")
	require.True(t, ok)

	results, err := fn.Call(context.Background())
	require.NoError(t, err)
	require.Equal(t, []uint64{42}, results)
}

func TestRuntime_CompileModule_invalidBinary(t *testing.T) {
	r := wasmkit.NewRuntime(nil)
	_, err := r.CompileModule(context.Background(), []byte("not wasm"))
	require.Error(t, err)
}

func TestRuntime_ExportedFunction_missing(t *testing.T) {
	r := wasmkit.NewRuntime(nil)
	compiled, err := r.CompileModule(context.Background(), answerModule())
	require.NoError(t, err)

	mod, err := r.InstantiateModule(context.Background(), compiled, nil)
	require.NoError(t, err)

	_, ok := mod.ExportedFunction("nope")
	require.False(t, ok)
}
