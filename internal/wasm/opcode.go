package wasm

// Opcode is a single byte WebAssembly instruction opcode (spec.md §4.3
// "Opcode table"). Multi-byte encodings (bulk-memory/sat-trunc under 0xFC,
// SIMD under 0xFD) are represented by the Opcode of the prefix byte plus a
// separate OpcodeVec/OpcodeMisc sub-opcode carried alongside it in the
// validated instruction stream (see Instr.Sub, filled in by the validator).
type Opcode = byte

const (
	OpcodeUnreachable Opcode = 0x00
	OpcodeNop          Opcode = 0x01
	OpcodeBlock        Opcode = 0x02
	OpcodeLoop         Opcode = 0x03
	OpcodeIf           Opcode = 0x04
	OpcodeElse         Opcode = 0x05
	OpcodeEnd          Opcode = 0x0b
	OpcodeBr           Opcode = 0x0c
	OpcodeBrIf         Opcode = 0x0d
	OpcodeBrTable      Opcode = 0x0e
	OpcodeReturn       Opcode = 0x0f
	OpcodeCall         Opcode = 0x10
	OpcodeCallIndirect Opcode = 0x11

	OpcodeDrop   Opcode = 0x1a
	OpcodeSelect Opcode = 0x1b
	// OpcodeSelectT is `select t*` from the reference-types proposal: an
	// explicit result-type-annotated select.
	OpcodeSelectT Opcode = 0x1c

	OpcodeLocalGet  Opcode = 0x20
	OpcodeLocalSet  Opcode = 0x21
	OpcodeLocalTee  Opcode = 0x22
	OpcodeGlobalGet Opcode = 0x23
	OpcodeGlobalSet Opcode = 0x24

	OpcodeTableGet  Opcode = 0x25
	OpcodeTableSet  Opcode = 0x26

	OpcodeI32Load    Opcode = 0x28
	OpcodeI64Load    Opcode = 0x29
	OpcodeF32Load    Opcode = 0x2a
	OpcodeF64Load    Opcode = 0x2b
	OpcodeI32Load8S  Opcode = 0x2c
	OpcodeI32Load8U  Opcode = 0x2d
	OpcodeI32Load16S Opcode = 0x2e
	OpcodeI32Load16U Opcode = 0x2f
	OpcodeI64Load8S  Opcode = 0x30
	OpcodeI64Load8U  Opcode = 0x31
	OpcodeI64Load16S Opcode = 0x32
	OpcodeI64Load16U Opcode = 0x33
	OpcodeI64Load32S Opcode = 0x34
	OpcodeI64Load32U Opcode = 0x35
	OpcodeI32Store   Opcode = 0x36
	OpcodeI64Store   Opcode = 0x37
	OpcodeF32Store   Opcode = 0x38
	OpcodeF64Store   Opcode = 0x39
	OpcodeI32Store8  Opcode = 0x3a
	OpcodeI32Store16 Opcode = 0x3b
	OpcodeI64Store8  Opcode = 0x3c
	OpcodeI64Store16 Opcode = 0x3d
	OpcodeI64Store32 Opcode = 0x3e
	OpcodeMemorySize Opcode = 0x3f
	OpcodeMemoryGrow Opcode = 0x40

	OpcodeI32Const Opcode = 0x41
	OpcodeI64Const Opcode = 0x42
	OpcodeF32Const Opcode = 0x43
	OpcodeF64Const Opcode = 0x44

	OpcodeI32Eqz Opcode = 0x45
	OpcodeI32Eq  Opcode = 0x46
	OpcodeI32Ne  Opcode = 0x47
	OpcodeI32LtS Opcode = 0x48
	OpcodeI32LtU Opcode = 0x49
	OpcodeI32GtS Opcode = 0x4a
	OpcodeI32GtU Opcode = 0x4b
	OpcodeI32LeS Opcode = 0x4c
	OpcodeI32LeU Opcode = 0x4d
	OpcodeI32GeS Opcode = 0x4e
	OpcodeI32GeU Opcode = 0x4f

	OpcodeI64Eqz Opcode = 0x50
	OpcodeI64Eq  Opcode = 0x51
	OpcodeI64Ne  Opcode = 0x52
	OpcodeI64LtS Opcode = 0x53
	OpcodeI64LtU Opcode = 0x54
	OpcodeI64GtS Opcode = 0x55
	OpcodeI64GtU Opcode = 0x56
	OpcodeI64LeS Opcode = 0x57
	OpcodeI64LeU Opcode = 0x58
	OpcodeI64GeS Opcode = 0x59
	OpcodeI64GeU Opcode = 0x5a

	OpcodeF32Eq Opcode = 0x5b
	OpcodeF32Ne Opcode = 0x5c
	OpcodeF32Lt Opcode = 0x5d
	OpcodeF32Gt Opcode = 0x5e
	OpcodeF32Le Opcode = 0x5f
	OpcodeF32Ge Opcode = 0x60

	OpcodeF64Eq Opcode = 0x61
	OpcodeF64Ne Opcode = 0x62
	OpcodeF64Lt Opcode = 0x63
	OpcodeF64Gt Opcode = 0x64
	OpcodeF64Le Opcode = 0x65
	OpcodeF64Ge Opcode = 0x66

	OpcodeI32Clz    Opcode = 0x67
	OpcodeI32Ctz    Opcode = 0x68
	OpcodeI32Popcnt Opcode = 0x69
	OpcodeI32Add    Opcode = 0x6a
	OpcodeI32Sub    Opcode = 0x6b
	OpcodeI32Mul    Opcode = 0x6c
	OpcodeI32DivS   Opcode = 0x6d
	OpcodeI32DivU   Opcode = 0x6e
	OpcodeI32RemS   Opcode = 0x6f
	OpcodeI32RemU   Opcode = 0x70
	OpcodeI32And    Opcode = 0x71
	OpcodeI32Or     Opcode = 0x72
	OpcodeI32Xor    Opcode = 0x73
	OpcodeI32Shl    Opcode = 0x74
	OpcodeI32ShrS   Opcode = 0x75
	OpcodeI32ShrU   Opcode = 0x76
	OpcodeI32Rotl   Opcode = 0x77
	OpcodeI32Rotr   Opcode = 0x78

	OpcodeI64Clz    Opcode = 0x79
	OpcodeI64Ctz    Opcode = 0x7a
	OpcodeI64Popcnt Opcode = 0x7b
	OpcodeI64Add    Opcode = 0x7c
	OpcodeI64Sub    Opcode = 0x7d
	OpcodeI64Mul    Opcode = 0x7e
	OpcodeI64DivS   Opcode = 0x7f
	OpcodeI64DivU   Opcode = 0x80
	OpcodeI64RemS   Opcode = 0x81
	OpcodeI64RemU   Opcode = 0x82
	OpcodeI64And    Opcode = 0x83
	OpcodeI64Or     Opcode = 0x84
	OpcodeI64Xor    Opcode = 0x85
	OpcodeI64Shl    Opcode = 0x86
	OpcodeI64ShrS   Opcode = 0x87
	OpcodeI64ShrU   Opcode = 0x88
	OpcodeI64Rotl   Opcode = 0x89
	OpcodeI64Rotr   Opcode = 0x8a

	OpcodeF32Abs      Opcode = 0x8b
	OpcodeF32Neg      Opcode = 0x8c
	OpcodeF32Ceil     Opcode = 0x8d
	OpcodeF32Floor    Opcode = 0x8e
	OpcodeF32Trunc    Opcode = 0x8f
	OpcodeF32Nearest  Opcode = 0x90
	OpcodeF32Sqrt     Opcode = 0x91
	OpcodeF32Add      Opcode = 0x92
	OpcodeF32Sub      Opcode = 0x93
	OpcodeF32Mul      Opcode = 0x94
	OpcodeF32Div      Opcode = 0x95
	OpcodeF32Min      Opcode = 0x96
	OpcodeF32Max      Opcode = 0x97
	OpcodeF32Copysign Opcode = 0x98

	OpcodeF64Abs      Opcode = 0x99
	OpcodeF64Neg      Opcode = 0x9a
	OpcodeF64Ceil     Opcode = 0x9b
	OpcodeF64Floor    Opcode = 0x9c
	OpcodeF64Trunc    Opcode = 0x9d
	OpcodeF64Nearest  Opcode = 0x9e
	OpcodeF64Sqrt     Opcode = 0x9f
	OpcodeF64Add      Opcode = 0xa0
	OpcodeF64Sub      Opcode = 0xa1
	OpcodeF64Mul      Opcode = 0xa2
	OpcodeF64Div      Opcode = 0xa3
	OpcodeF64Min      Opcode = 0xa4
	OpcodeF64Max      Opcode = 0xa5
	OpcodeF64Copysign Opcode = 0xa6

	OpcodeI32WrapI64     Opcode = 0xa7
	OpcodeI32TruncF32S   Opcode = 0xa8
	OpcodeI32TruncF32U   Opcode = 0xa9
	OpcodeI32TruncF64S   Opcode = 0xaa
	OpcodeI32TruncF64U   Opcode = 0xab
	OpcodeI64ExtendI32S  Opcode = 0xac
	OpcodeI64ExtendI32U  Opcode = 0xad
	OpcodeI64TruncF32S   Opcode = 0xae
	OpcodeI64TruncF32U   Opcode = 0xaf
	OpcodeI64TruncF64S   Opcode = 0xb0
	OpcodeI64TruncF64U   Opcode = 0xb1
	OpcodeF32ConvertI32S Opcode = 0xb2
	OpcodeF32ConvertI32U Opcode = 0xb3
	OpcodeF32ConvertI64S Opcode = 0xb4
	OpcodeF32ConvertI64U Opcode = 0xb5
	OpcodeF32DemoteF64   Opcode = 0xb6
	OpcodeF64ConvertI32S Opcode = 0xb7
	OpcodeF64ConvertI32U Opcode = 0xb8
	OpcodeF64ConvertI64S Opcode = 0xb9
	OpcodeF64ConvertI64U Opcode = 0xba
	OpcodeF64PromoteF32  Opcode = 0xbb
	OpcodeI32ReinterpretF32 Opcode = 0xbc
	OpcodeI64ReinterpretF64 Opcode = 0xbd
	OpcodeF32ReinterpretI32 Opcode = 0xbe
	OpcodeF64ReinterpretI64 Opcode = 0xbf

	OpcodeI32Extend8S  Opcode = 0xc0
	OpcodeI32Extend16S Opcode = 0xc1
	OpcodeI64Extend8S  Opcode = 0xc2
	OpcodeI64Extend16S Opcode = 0xc3
	OpcodeI64Extend32S Opcode = 0xc4

	OpcodeRefNull   Opcode = 0xd0
	OpcodeRefIsNull Opcode = 0xd1
	OpcodeRefFunc   Opcode = 0xd2

	// OpcodeMiscPrefix introduces the bulk-memory/sat-trunc sub-opcode
	// space (spec.md §4.3 "prefix 0xFC").
	OpcodeMiscPrefix Opcode = 0xfc
	// OpcodeVecPrefix introduces the SIMD sub-opcode space (spec.md §4.3
	// "prefix 0xFD").
	OpcodeVecPrefix Opcode = 0xfd
)

// Sub-opcodes under the 0xFC (misc) prefix: saturating truncation and
// bulk-memory operations (spec.md §4.1 families 5 and 9).
const (
	OpcodeMiscI32TruncSatF32S Opcode = 0
	OpcodeMiscI32TruncSatF32U Opcode = 1
	OpcodeMiscI32TruncSatF64S Opcode = 2
	OpcodeMiscI32TruncSatF64U Opcode = 3
	OpcodeMiscI64TruncSatF32S Opcode = 4
	OpcodeMiscI64TruncSatF32U Opcode = 5
	OpcodeMiscI64TruncSatF64S Opcode = 6
	OpcodeMiscI64TruncSatF64U Opcode = 7

	OpcodeMiscMemoryInit Opcode = 8
	OpcodeMiscDataDrop   Opcode = 9
	OpcodeMiscMemoryCopy Opcode = 10
	OpcodeMiscMemoryFill Opcode = 11
	OpcodeMiscTableInit  Opcode = 12
	OpcodeMiscElemDrop   Opcode = 13
	OpcodeMiscTableCopy  Opcode = 14
	OpcodeMiscTableGrow  Opcode = 15
	OpcodeMiscTableSize  Opcode = 16
	OpcodeMiscTableFill  Opcode = 17
)

// Sub-opcodes under the 0xFD (vector/SIMD) prefix (spec.md §4.1 family 10).
// These are u32 LEB128-encoded in the binary; the set below covers the
// subset of the SIMD proposal this module implements.
const (
	OpcodeVecV128Load         Opcode = 0
	OpcodeVecV128Load8x8S     Opcode = 1
	OpcodeVecV128Load8x8U     Opcode = 2
	OpcodeVecV128Load16x4S    Opcode = 3
	OpcodeVecV128Load16x4U    Opcode = 4
	OpcodeVecV128Load32x2S    Opcode = 5
	OpcodeVecV128Load32x2U    Opcode = 6
	OpcodeVecV128Load8Splat   Opcode = 7
	OpcodeVecV128Load16Splat  Opcode = 8
	OpcodeVecV128Load32Splat  Opcode = 9
	OpcodeVecV128Load64Splat  Opcode = 10
	OpcodeVecV128Store        Opcode = 11
	OpcodeVecV128Const        Opcode = 12
	OpcodeVecI8x16Shuffle     Opcode = 13
	OpcodeVecI8x16Swizzle     Opcode = 14
	OpcodeVecI8x16Splat       Opcode = 15
	OpcodeVecI16x8Splat       Opcode = 16
	OpcodeVecI32x4Splat       Opcode = 17
	OpcodeVecI64x2Splat       Opcode = 18
	OpcodeVecF32x4Splat       Opcode = 19
	OpcodeVecF64x2Splat       Opcode = 20

	OpcodeVecI8x16ExtractLaneS Opcode = 21
	OpcodeVecI8x16ExtractLaneU Opcode = 22
	OpcodeVecI8x16ReplaceLane  Opcode = 23
	OpcodeVecI16x8ExtractLaneS Opcode = 24
	OpcodeVecI16x8ExtractLaneU Opcode = 25
	OpcodeVecI16x8ReplaceLane  Opcode = 26
	OpcodeVecI32x4ExtractLane  Opcode = 27
	OpcodeVecI32x4ReplaceLane  Opcode = 28
	OpcodeVecI64x2ExtractLane  Opcode = 29
	OpcodeVecI64x2ReplaceLane  Opcode = 30
	OpcodeVecF32x4ExtractLane  Opcode = 31
	OpcodeVecF32x4ReplaceLane  Opcode = 32
	OpcodeVecF64x2ExtractLane  Opcode = 33
	OpcodeVecF64x2ReplaceLane  Opcode = 34

	OpcodeVecI8x16Eq  Opcode = 35
	OpcodeVecI8x16Ne  Opcode = 36
	OpcodeVecI8x16LtS Opcode = 37
	OpcodeVecI8x16LtU Opcode = 38
	OpcodeVecI8x16GtS Opcode = 39
	OpcodeVecI8x16GtU Opcode = 40
	OpcodeVecI8x16LeS Opcode = 41
	OpcodeVecI8x16LeU Opcode = 42
	OpcodeVecI8x16GeS Opcode = 43
	OpcodeVecI8x16GeU Opcode = 44

	OpcodeVecI16x8Eq  Opcode = 45
	OpcodeVecI16x8Ne  Opcode = 46
	OpcodeVecI16x8LtS Opcode = 47
	OpcodeVecI16x8LtU Opcode = 48
	OpcodeVecI16x8GtS Opcode = 49
	OpcodeVecI16x8GtU Opcode = 50
	OpcodeVecI16x8LeS Opcode = 51
	OpcodeVecI16x8LeU Opcode = 52
	OpcodeVecI16x8GeS Opcode = 53
	OpcodeVecI16x8GeU Opcode = 54

	OpcodeVecI32x4Eq  Opcode = 55
	OpcodeVecI32x4Ne  Opcode = 56
	OpcodeVecI32x4LtS Opcode = 57
	OpcodeVecI32x4LtU Opcode = 58
	OpcodeVecI32x4GtS Opcode = 59
	OpcodeVecI32x4GtU Opcode = 60
	OpcodeVecI32x4LeS Opcode = 61
	OpcodeVecI32x4LeU Opcode = 62
	OpcodeVecI32x4GeS Opcode = 63
	OpcodeVecI32x4GeU Opcode = 64

	OpcodeVecF32x4Eq Opcode = 65
	OpcodeVecF32x4Ne Opcode = 66
	OpcodeVecF32x4Lt Opcode = 67
	OpcodeVecF32x4Gt Opcode = 68
	OpcodeVecF32x4Le Opcode = 69
	OpcodeVecF32x4Ge Opcode = 70

	OpcodeVecF64x2Eq Opcode = 71
	OpcodeVecF64x2Ne Opcode = 72
	OpcodeVecF64x2Lt Opcode = 73
	OpcodeVecF64x2Gt Opcode = 74
	OpcodeVecF64x2Le Opcode = 75
	OpcodeVecF64x2Ge Opcode = 76

	OpcodeVecV128Not       Opcode = 77
	OpcodeVecV128And       Opcode = 78
	OpcodeVecV128AndNot    Opcode = 79
	OpcodeVecV128Or        Opcode = 80
	OpcodeVecV128Xor       Opcode = 81
	OpcodeVecV128Bitselect Opcode = 82
	OpcodeVecV128AnyTrue   Opcode = 83

	OpcodeVecV128Load8Lane  Opcode = 84
	OpcodeVecV128Load16Lane Opcode = 85
	OpcodeVecV128Load32Lane Opcode = 86
	OpcodeVecV128Load64Lane Opcode = 87
	OpcodeVecV128Store8Lane  Opcode = 88
	OpcodeVecV128Store16Lane Opcode = 89
	OpcodeVecV128Store32Lane Opcode = 90
	OpcodeVecV128Store64Lane Opcode = 91
	OpcodeVecV128Load32Zero  Opcode = 92
	OpcodeVecV128Load64Zero  Opcode = 93

	OpcodeVecF32x4DemoteF64x2Zero  Opcode = 94
	OpcodeVecF64x2PromoteLowF32x4  Opcode = 95

	OpcodeVecI8x16Abs    Opcode = 96
	OpcodeVecI8x16Neg    Opcode = 97
	OpcodeVecI8x16Popcnt Opcode = 98
	OpcodeVecI8x16AllTrue Opcode = 99
	OpcodeVecI8x16Bitmask Opcode = 100
	OpcodeVecI8x16NarrowI16x8S Opcode = 101
	OpcodeVecI8x16NarrowI16x8U Opcode = 102
	OpcodeVecI8x16Shl  Opcode = 107
	OpcodeVecI8x16ShrS Opcode = 108
	OpcodeVecI8x16ShrU Opcode = 109
	OpcodeVecI8x16Add  Opcode = 110
	OpcodeVecI8x16AddSatS Opcode = 111
	OpcodeVecI8x16AddSatU Opcode = 112
	OpcodeVecI8x16Sub  Opcode = 113
	OpcodeVecI8x16SubSatS Opcode = 114
	OpcodeVecI8x16SubSatU Opcode = 115
	OpcodeVecI8x16MinS Opcode = 118
	OpcodeVecI8x16MinU Opcode = 119
	OpcodeVecI8x16MaxS Opcode = 120
	OpcodeVecI8x16MaxU Opcode = 121
	OpcodeVecI8x16AvgrU Opcode = 123

	OpcodeVecI16x8ExtaddPairwiseI8x16S Opcode = 124
	OpcodeVecI16x8ExtaddPairwiseI8x16U Opcode = 125
	OpcodeVecI32x4ExtaddPairwiseI16x8S Opcode = 126
	OpcodeVecI32x4ExtaddPairwiseI16x8U Opcode = 127

	OpcodeVecI16x8Abs    Opcode = 128
	OpcodeVecI16x8Neg    Opcode = 129
	OpcodeVecI16x8Q15mulrSatS Opcode = 130
	OpcodeVecI16x8AllTrue Opcode = 131
	OpcodeVecI16x8Bitmask Opcode = 132
	OpcodeVecI16x8NarrowI32x4S Opcode = 133
	OpcodeVecI16x8NarrowI32x4U Opcode = 134
	OpcodeVecI16x8ExtendLowI8x16S  Opcode = 135
	OpcodeVecI16x8ExtendHighI8x16S Opcode = 136
	OpcodeVecI16x8ExtendLowI8x16U  Opcode = 137
	OpcodeVecI16x8ExtendHighI8x16U Opcode = 138
	OpcodeVecI16x8Shl  Opcode = 139
	OpcodeVecI16x8ShrS Opcode = 140
	OpcodeVecI16x8ShrU Opcode = 141
	OpcodeVecI16x8Add  Opcode = 142
	OpcodeVecI16x8AddSatS Opcode = 143
	OpcodeVecI16x8AddSatU Opcode = 144
	OpcodeVecI16x8Sub  Opcode = 145
	OpcodeVecI16x8SubSatS Opcode = 146
	OpcodeVecI16x8SubSatU Opcode = 147
	OpcodeVecI16x8Mul  Opcode = 149
	OpcodeVecI16x8MinS Opcode = 150
	OpcodeVecI16x8MinU Opcode = 151
	OpcodeVecI16x8MaxS Opcode = 152
	OpcodeVecI16x8MaxU Opcode = 153
	OpcodeVecI16x8AvgrU Opcode = 155
	OpcodeVecI16x8ExtmulLowI8x16S  Opcode = 156
	OpcodeVecI16x8ExtmulHighI8x16S Opcode = 157
	OpcodeVecI16x8ExtmulLowI8x16U  Opcode = 158
	OpcodeVecI16x8ExtmulHighI8x16U Opcode = 159

	OpcodeVecI32x4Abs    Opcode = 160
	OpcodeVecI32x4Neg    Opcode = 161
	OpcodeVecI32x4AllTrue Opcode = 163
	OpcodeVecI32x4Bitmask Opcode = 164
	OpcodeVecI32x4ExtendLowI16x8S  Opcode = 167
	OpcodeVecI32x4ExtendHighI16x8S Opcode = 168
	OpcodeVecI32x4ExtendLowI16x8U  Opcode = 169
	OpcodeVecI32x4ExtendHighI16x8U Opcode = 170
	OpcodeVecI32x4Shl  Opcode = 171
	OpcodeVecI32x4ShrS Opcode = 172
	OpcodeVecI32x4ShrU Opcode = 173
	OpcodeVecI32x4Add  Opcode = 174
	OpcodeVecI32x4Sub  Opcode = 177
	OpcodeVecI32x4Mul  Opcode = 181
	OpcodeVecI32x4MinS Opcode = 182
	OpcodeVecI32x4MinU Opcode = 183
	OpcodeVecI32x4MaxS Opcode = 184
	OpcodeVecI32x4MaxU Opcode = 185
	OpcodeVecI32x4DotI16x8S Opcode = 186
	OpcodeVecI32x4ExtmulLowI16x8S  Opcode = 188
	OpcodeVecI32x4ExtmulHighI16x8S Opcode = 189
	OpcodeVecI32x4ExtmulLowI16x8U  Opcode = 190
	OpcodeVecI32x4ExtmulHighI16x8U Opcode = 191

	OpcodeVecI64x2Abs    Opcode = 192
	OpcodeVecI64x2Neg    Opcode = 193
	OpcodeVecI64x2AllTrue Opcode = 195
	OpcodeVecI64x2Bitmask Opcode = 196
	OpcodeVecI64x2ExtendLowI32x4S  Opcode = 199
	OpcodeVecI64x2ExtendHighI32x4S Opcode = 200
	OpcodeVecI64x2ExtendLowI32x4U  Opcode = 201
	OpcodeVecI64x2ExtendHighI32x4U Opcode = 202
	OpcodeVecI64x2Shl  Opcode = 203
	OpcodeVecI64x2ShrS Opcode = 204
	OpcodeVecI64x2ShrU Opcode = 205
	OpcodeVecI64x2Add  Opcode = 206
	OpcodeVecI64x2Sub  Opcode = 209
	OpcodeVecI64x2Mul  Opcode = 213
	OpcodeVecI64x2Eq   Opcode = 214
	OpcodeVecI64x2Ne   Opcode = 215
	OpcodeVecI64x2LtS  Opcode = 216
	OpcodeVecI64x2GtS  Opcode = 217
	OpcodeVecI64x2LeS  Opcode = 218
	OpcodeVecI64x2GeS  Opcode = 219
	OpcodeVecI64x2ExtmulLowI32x4S  Opcode = 220
	OpcodeVecI64x2ExtmulHighI32x4S Opcode = 221
	OpcodeVecI64x2ExtmulLowI32x4U  Opcode = 222
	OpcodeVecI64x2ExtmulHighI32x4U Opcode = 223

	OpcodeVecF32x4Ceil    Opcode = 103
	OpcodeVecF32x4Floor   Opcode = 104
	OpcodeVecF32x4Trunc   Opcode = 105
	OpcodeVecF32x4Nearest Opcode = 106
	OpcodeVecF64x2Ceil    Opcode = 116
	OpcodeVecF64x2Floor   Opcode = 117
	OpcodeVecF64x2Trunc   Opcode = 122
	OpcodeVecF64x2Nearest Opcode = 148

	OpcodeVecF32x4Abs     Opcode = 224
	OpcodeVecF32x4Neg     Opcode = 225
	OpcodeVecF32x4Sqrt    Opcode = 227
	OpcodeVecF32x4Add     Opcode = 228
	OpcodeVecF32x4Sub     Opcode = 229
	OpcodeVecF32x4Mul     Opcode = 230
	OpcodeVecF32x4Div     Opcode = 231
	OpcodeVecF32x4Min     Opcode = 232
	OpcodeVecF32x4Max     Opcode = 233
	OpcodeVecF32x4Pmin    Opcode = 234
	OpcodeVecF32x4Pmax    Opcode = 235

	OpcodeVecF64x2Abs     Opcode = 236
	OpcodeVecF64x2Neg     Opcode = 237
	OpcodeVecF64x2Sqrt    Opcode = 239
	OpcodeVecF64x2Add     Opcode = 240
	OpcodeVecF64x2Sub     Opcode = 241
	OpcodeVecF64x2Mul     Opcode = 242
	OpcodeVecF64x2Div     Opcode = 243
	OpcodeVecF64x2Min     Opcode = 244
	OpcodeVecF64x2Max     Opcode = 245
	OpcodeVecF64x2Pmin    Opcode = 246
	OpcodeVecF64x2Pmax    Opcode = 247

	OpcodeVecI32x4TruncSatF32x4S Opcode = 248
	OpcodeVecI32x4TruncSatF32x4U Opcode = 249
	OpcodeVecF32x4ConvertI32x4S  Opcode = 250
	OpcodeVecF32x4ConvertI32x4U  Opcode = 251
	OpcodeVecI32x4TruncSatF64x2SZero Opcode = 252
	OpcodeVecI32x4TruncSatF64x2UZero Opcode = 253
	OpcodeVecF64x2ConvertLowI32x4S    Opcode = 254
	OpcodeVecF64x2ConvertLowI32x4U    Opcode = 255
)

// BlockType is the parsed form of a block/loop/if immediate (spec.md §4.3
// "blocktype"): either the empty type, a single inline value type, or an
// index into the module's type section.
type BlockType struct {
	// Empty is true for the `0x40` (no params, no results) encoding.
	Empty bool
	// ValueType is set when the blocktype is a single inline result type.
	ValueType ValueType
	HasValueType bool
	// TypeIndex is set when the blocktype is a signed-33-bit non-negative
	// index into TypeSection.
	TypeIndex Index
	HasTypeIndex bool
}

// Params returns the parameter types a block of this type expects on the
// operand stack on entry (spec.md §4.2, used for `loop`'s branch arity).
func (bt *BlockType) Params(types []*FunctionType) []ValueType {
	if bt.HasTypeIndex {
		return types[bt.TypeIndex].Params
	}
	return nil
}

// Results returns the result types a block of this type leaves on the
// operand stack (spec.md §4.2, used for `block`/`if`'s branch arity).
func (bt *BlockType) Results(types []*FunctionType) []ValueType {
	switch {
	case bt.HasTypeIndex:
		return types[bt.TypeIndex].Results
	case bt.HasValueType:
		return []ValueType{bt.ValueType}
	default:
		return nil
	}
}
