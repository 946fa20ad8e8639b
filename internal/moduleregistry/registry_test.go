package moduleregistry

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/wasmkit/wasmkit/internal/wasm"
)

type noopEngine struct{}

func (noopEngine) Call(ctx context.Context, store *wasm.Store, addr wasm.FuncAddr, args []uint64) ([]uint64, error) {
	return nil, nil
}

func TestRegistry_ResolveImport_hostFuncTakesPriority(t *testing.T) {
	r := New()
	store := wasm.NewStore()
	addr := store.RegisterHostFunc(&wasm.FunctionType{}, "log", func(ctx context.Context, args []uint64) ([]uint64, error) {
		return nil, nil
	})
	r.RegisterHostFunc("env", "log", addr)

	ev, ok := r.ResolveImport("env", "log")
	require.True(t, ok)
	require.Equal(t, wasm.ExternTypeFunc, ev.Type)
	require.Equal(t, addr, ev.Addr)

	_, ok = r.ResolveImport("env", "missing")
	require.False(t, ok)
}

func TestRegistry_Instantiate_unknownModule(t *testing.T) {
	r := New()
	store := wasm.NewStore()
	_, err := r.Instantiate(context.Background(), store, "nope", "instance", noopEngine{})
	require.Error(t, err)
}

func TestRegistry_Instantiate_registersUnderInstanceName(t *testing.T) {
	r := New()
	store := wasm.NewStore()
	module := &wasm.Module{}
	r.Register("mymod", module)

	mi, err := r.Instantiate(context.Background(), store, "mymod", "instance1", noopEngine{})
	require.NoError(t, err)
	require.NotNil(t, mi)

	got, ok := r.Lookup("instance1")
	require.True(t, ok)
	require.Same(t, mi, got)

	r.Unregister("instance1")
	_, ok = r.Lookup("instance1")
	require.False(t, ok)
}

func TestRegistry_ResolveImport_fallsBackToInstantiatedModule(t *testing.T) {
	r := New()
	store := wasm.NewStore()
	module := &wasm.Module{}
	r.Register("mymod", module)
	mi, err := r.Instantiate(context.Background(), store, "mymod", "mymod", noopEngine{})
	require.NoError(t, err)
	mi.Exports = map[string]wasm.ExternVal{"thing": {Type: wasm.ExternTypeGlobal, Addr: 3}}

	ev, ok := r.ResolveImport("mymod", "thing")
	require.True(t, ok)
	require.Equal(t, wasm.ExternTypeGlobal, ev.Type)
	require.Equal(t, wasm.Index(3), ev.Addr)
}
