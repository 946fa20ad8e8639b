package binary

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/wasmkit/wasmkit/internal/wasm"
)

// TestDecodeModule_RoundTrip relies on EncodeModule, specifically that
// encoding a Module and decoding it back produces an equivalent Module: the
// same pattern the teacher's own binary package tests use to avoid hand
// authoring raw byte fixtures.
func TestDecodeModule_RoundTrip(t *testing.T) {
	i32, f32 := wasm.ValueTypeI32, wasm.ValueTypeF32
	zero := uint32(0)

	tests := []struct {
		name  string
		input *wasm.Module
	}{
		{name: "empty", input: &wasm.Module{ExportSection: map[string]*wasm.Export{}}},
		{
			name: "type section",
			input: &wasm.Module{
				TypeSection: []*wasm.FunctionType{
					{},
					{Params: []wasm.ValueType{i32, i32}, Results: []wasm.ValueType{i32}},
				},
				ExportSection: map[string]*wasm.Export{},
			},
		},
		{
			name: "import and function section",
			input: &wasm.Module{
				TypeSection: []*wasm.FunctionType{
					{Params: []wasm.ValueType{i32, i32}, Results: []wasm.ValueType{i32}},
					{Params: []wasm.ValueType{f32, f32}, Results: []wasm.ValueType{f32}},
				},
				ImportSection: []*wasm.Import{
					{Module: "Math", Name: "Add", Type: wasm.ExternTypeFunc, DescFunc: 0},
				},
				FunctionSection: []wasm.Index{1},
				CodeSection: []*wasm.Code{
					{Body: []byte{wasm.OpcodeLocalGet, 0, wasm.OpcodeLocalGet, 1, wasm.OpcodeF32Add, wasm.OpcodeEnd}},
				},
				ExportSection: map[string]*wasm.Export{
					"add": {Type: wasm.ExternTypeFunc, Name: "add", Index: 1},
				},
			},
		},
		{
			name: "memory and global section",
			input: &wasm.Module{
				MemorySection: []*wasm.MemoryType{{Min: 1, Max: &zero}},
				GlobalSection: []*wasm.Global{
					{Type: &wasm.GlobalType{ValType: i32, Mutable: true}, Init: &wasm.ConstantExpression{Opcode: wasm.OpcodeI32Const, Data: []byte{0x2a}}},
				},
				ExportSection: map[string]*wasm.Export{
					"mem": {Type: wasm.ExternTypeMemory, Name: "mem", Index: 0},
				},
			},
		},
		{
			name: "name section",
			input: &wasm.Module{
				ExportSection: map[string]*wasm.Export{},
				NameSection: &wasm.NameSection{
					ModuleName:    "simple",
					FunctionNames: map[wasm.Index]string{0: "main"},
				},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			encoded := EncodeModule(tt.input)
			decoded, err := DecodeModule(encoded)
			require.NoError(t, err)
			require.Equal(t, tt.input, decoded)
		})
	}
}

func TestDecodeModule_MagicAndVersion(t *testing.T) {
	_, err := DecodeModule([]byte{0x00, 0x61, 0x73, 0x00, 0x01, 0x00, 0x00, 0x00})
	require.Error(t, err)

	_, err = DecodeModule([]byte{0x00, 0x61, 0x73, 0x6d, 0x02, 0x00, 0x00, 0x00})
	require.Error(t, err)
}

func TestDecodeModule_SectionOutOfOrder(t *testing.T) {
	m := &wasm.Module{
		TypeSection:   []*wasm.FunctionType{{}},
		ExportSection: map[string]*wasm.Export{},
	}
	encoded := EncodeModule(m)

	// First decode an unmodified copy of the encoded module as a sanity
	// check, then decode hand-written bytes whose import section (id 2) is
	// followed by a type section (id 1), which breaks section-id order.
	corrupt := append([]byte{}, encoded...)
	_, err := DecodeModule(corrupt)
	require.NoError(t, err) // sanity: valid input still decodes

	bad := []byte{0x00, 0x61, 0x73, 0x6d, 0x01, 0x00, 0x00, 0x00,
		sectionIDImport, 0x01, 0x00, // empty import section (count 0)
		sectionIDType, 0x01, 0x00, // type section placed after import: out of order
	}
	_, err = DecodeModule(bad)
	require.Error(t, err)
}

func TestDecodeModule_DataCountMismatch(t *testing.T) {
	n := uint32(2)
	m := &wasm.Module{
		ExportSection:    map[string]*wasm.Export{},
		DataCountSection: &n,
		DataSection: []*wasm.DataSegment{
			{Mode: wasm.DataModePassive, Init: []byte{1}},
		},
	}
	_, err := DecodeModule(EncodeModule(m))
	require.Error(t, err)
}
