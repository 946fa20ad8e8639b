package main

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/wasmkit/wasmkit/internal/wasm"
	"github.com/wasmkit/wasmkit/internal/wasm/binary"
)

// writeAddOne writes a module exporting "add_one", an i32->i32 function
// that returns its argument plus one, and returns its path.
func writeAddOne(t *testing.T) string {
	m := &wasm.Module{
		TypeSection: []*wasm.FunctionType{{
			Params:  []wasm.ValueType{wasm.ValueTypeI32},
			Results: []wasm.ValueType{wasm.ValueTypeI32},
		}},
		FunctionSection: []wasm.Index{0},
		CodeSection: []*wasm.Code{{Body: []byte{
			wasm.OpcodeLocalGet, 0,
			wasm.OpcodeI32Const, 1,
			wasm.OpcodeI32Add,
			wasm.OpcodeEnd,
		}}},
		ExportSection: map[string]*wasm.Export{
			"add_one": {Name: "add_one", Type: wasm.ExternTypeFunc, Index: 0},
		},
	}
	path := filepath.Join(t.TempDir(), "add_one.wasm")
	require.NoError(t, os.WriteFile(path, binary.EncodeModule(m), 0o644))
	return path
}

func TestRun_callsExportedFunction(t *testing.T) {
	path := writeAddOne(t)
	require.Equal(t, 0, run([]string{"run", path, "add_one", "41"}))
}

func TestRun_wrongArgCount(t *testing.T) {
	path := writeAddOne(t)
	require.Equal(t, 2, run([]string{"run", path, "add_one"}))
}

func TestRun_missingExport(t *testing.T) {
	path := writeAddOne(t)
	require.Equal(t, 2, run([]string{"run", path, "nope", "1"}))
}

func TestRun_invalidBinary(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.wasm")
	require.NoError(t, os.WriteFile(path, []byte("not wasm"), 0o644))
	require.Equal(t, 2, run([]string{"validate", path}))
}

func TestRun_validate_ok(t *testing.T) {
	path := writeAddOne(t)
	require.Equal(t, 0, run([]string{"validate", path}))
}

func TestRun_version(t *testing.T) {
	require.Equal(t, 0, run([]string{"version"}))
}
