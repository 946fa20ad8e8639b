package interpreter

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/wasmkit/wasmkit/internal/wasm"
	"github.com/wasmkit/wasmkit/internal/wasmruntime"
)

func TestLoadStoreU32_roundTrip(t *testing.T) {
	mem := &wasm.MemoryInstance{Data: make([]byte, 16)}
	storeU32(mem, 4, 0xdeadbeef)
	require.Equal(t, uint32(0xdeadbeef), loadU32(mem, 4))
}

func TestLoadStoreU64_roundTrip(t *testing.T) {
	mem := &wasm.MemoryInstance{Data: make([]byte, 16)}
	storeU64(mem, 0, 0x0102030405060708)
	require.Equal(t, uint64(0x0102030405060708), loadU64(mem, 0))
}

func TestCheckBounds_outOfRange(t *testing.T) {
	mem := &wasm.MemoryInstance{Data: make([]byte, 8)}
	require.PanicsWithValue(t, wasmruntime.ErrRuntimeOutOfBoundsMemoryAccess, func() {
		loadByte(mem, 8)
	})
	require.PanicsWithValue(t, wasmruntime.ErrRuntimeOutOfBoundsMemoryAccess, func() {
		storeU64(mem, 1, 0)
	})
}

func TestCheckBounds_inRange(t *testing.T) {
	mem := &wasm.MemoryInstance{Data: make([]byte, 8)}
	require.NotPanics(t, func() { storeByte(mem, 7, 0xff) })
	require.Equal(t, byte(0xff), loadByte(mem, 7))
}
