package wasmkit_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	wasmkit "github.com/wasmkit/wasmkit"
	"github.com/wasmkit/wasmkit/internal/wasm"
)

func TestHostModuleBuilder_registersCallableFunc(t *testing.T) {
	r := wasmkit.NewRuntime(nil)

	double := func(ctx context.Context, args []uint64) ([]uint64, error) {
		return []uint64{args[0] * 2}, nil
	}

	host := r.NewHostModuleBuilder("env").
		NewFunctionBuilder().
		WithFunc(double, []wasm.ValueType{wasm.ValueTypeI32}, []wasm.ValueType{wasm.ValueTypeI32}).
		Export("double").
		Instantiate()

	require.Equal(t, "env", host.Name())
	require.Equal(t, []string{"double"}, host.ExportNames())
}

func TestHostModuleBuilder_multipleFunctions(t *testing.T) {
	r := wasmkit.NewRuntime(nil)

	noop := func(ctx context.Context, args []uint64) ([]uint64, error) { return nil, nil }

	b := r.NewHostModuleBuilder("env")
	b.NewFunctionBuilder().WithFunc(noop, nil, nil).Export("a")
	b.NewFunctionBuilder().WithFunc(noop, nil, nil).Export("b")
	host := b.Instantiate()

	require.Equal(t, []string{"a", "b"}, host.ExportNames())
}
