package binary

import (
	"bytes"
	"encoding/binary"
	"io"

	"github.com/wasmkit/wasmkit/api"
	"github.com/wasmkit/wasmkit/internal/leb128"
	"github.com/wasmkit/wasmkit/internal/wasm"
)

var (
	magic   = [4]byte{0x00, 0x61, 0x73, 0x6d}
	version = [4]byte{0x01, 0x00, 0x00, 0x00}
)

// Section ids (spec.md §4.3 "section").
const (
	sectionIDCustom = iota
	sectionIDType
	sectionIDImport
	sectionIDFunction
	sectionIDTable
	sectionIDMemory
	sectionIDGlobal
	sectionIDExport
	sectionIDStart
	sectionIDElement
	sectionIDCode
	sectionIDData
	sectionIDDataCount
)

// reader wraps a *bytes.Reader with offset tracking for SyntaxError
// reporting (spec.md §7).
type reader struct {
	r     *bytes.Reader
	total int
}

func newReader(b []byte) *reader { return &reader{r: bytes.NewReader(b), total: len(b)} }

func (d *reader) offset() int { return d.total - d.r.Len() }

func (d *reader) fail(format string, args ...interface{}) error {
	return synErr(d.offset(), format, args...)
}

func (d *reader) byte() (byte, error) {
	b, err := d.r.ReadByte()
	if err != nil {
		return 0, d.fail("unexpected EOF")
	}
	return b, nil
}

func (d *reader) bytesN(n uint32) ([]byte, error) {
	buf := make([]byte, n)
	if _, err := io.ReadFull(d.r, buf); err != nil {
		return nil, d.fail("unexpected EOF reading %d bytes", n)
	}
	return buf, nil
}

func (d *reader) u32() (uint32, error) {
	v, _, err := leb128.DecodeUint32(d.r)
	if err != nil {
		return 0, d.fail("malformed u32: %v", err)
	}
	return v, nil
}

func (d *reader) i32() (int32, error) {
	v, _, err := leb128.DecodeInt32(d.r)
	if err != nil {
		return 0, d.fail("malformed i32: %v", err)
	}
	return v, nil
}

func (d *reader) i64() (int64, error) {
	v, _, err := leb128.DecodeInt64(d.r)
	if err != nil {
		return 0, d.fail("malformed i64: %v", err)
	}
	return v, nil
}

func (d *reader) f32() (float32, error) {
	var buf [4]byte
	if _, err := io.ReadFull(d.r, buf[:]); err != nil {
		return 0, d.fail("unexpected EOF reading f32")
	}
	return api.DecodeF32(uint64(binary.LittleEndian.Uint32(buf[:]))), nil
}

func (d *reader) f64() (float64, error) {
	var buf [8]byte
	if _, err := io.ReadFull(d.r, buf[:]); err != nil {
		return 0, d.fail("unexpected EOF reading f64")
	}
	return api.DecodeF64(binary.LittleEndian.Uint64(buf[:])), nil
}

func (d *reader) name() (string, error) {
	n, err := d.u32()
	if err != nil {
		return "", err
	}
	b, err := d.bytesN(n)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

func (d *reader) valueType() (wasm.ValueType, error) {
	b, err := d.byte()
	if err != nil {
		return 0, err
	}
	switch wasm.ValueType(b) {
	case wasm.ValueTypeI32, wasm.ValueTypeI64, wasm.ValueTypeF32, wasm.ValueTypeF64,
		wasm.ValueTypeV128, wasm.ValueTypeFuncref, wasm.ValueTypeExternref:
		return wasm.ValueType(b), nil
	}
	return 0, d.fail("invalid value type %#x", b)
}

func (d *reader) limits() (min uint32, max *uint32, err error) {
	tag, err := d.byte()
	if err != nil {
		return 0, nil, err
	}
	switch tag {
	case 0x00:
		min, err = d.u32()
		return min, nil, err
	case 0x01:
		min, err = d.u32()
		if err != nil {
			return 0, nil, err
		}
		m, err := d.u32()
		if err != nil {
			return 0, nil, err
		}
		return min, &m, nil
	}
	return 0, nil, d.fail("invalid limits tag %#x", tag)
}

// DecodeModule parses b into a statically-typed, unvalidated Module (spec.md
// §4.3). Validation is a separate step (Module.Validate).
func DecodeModule(b []byte) (*wasm.Module, error) {
	d := newReader(b)

	var gotMagic [4]byte
	if _, err := io.ReadFull(d.r, gotMagic[:]); err != nil || gotMagic != magic {
		return nil, d.fail("missing magic number")
	}
	var gotVersion [4]byte
	if _, err := io.ReadFull(d.r, gotVersion[:]); err != nil || gotVersion != version {
		return nil, d.fail("unsupported version")
	}

	m := &wasm.Module{ExportSection: map[string]*wasm.Export{}}
	lastNonCustom := -1
	for d.r.Len() > 0 {
		id, err := d.byte()
		if err != nil {
			return nil, err
		}
		size, err := d.u32()
		if err != nil {
			return nil, err
		}
		body, err := d.bytesN(size)
		if err != nil {
			return nil, err
		}
		sd := newReader(body)

		if id != sectionIDCustom {
			if int(id) <= lastNonCustom {
				return nil, synErr(d.offset(), "section %d out of order", id)
			}
			lastNonCustom = int(id)
		}

		switch id {
		case sectionIDCustom:
			if err := decodeCustomSection(sd, m); err != nil {
				return nil, err
			}
		case sectionIDType:
			if m.TypeSection, err = decodeTypeSection(sd); err != nil {
				return nil, err
			}
		case sectionIDImport:
			if m.ImportSection, err = decodeImportSection(sd); err != nil {
				return nil, err
			}
		case sectionIDFunction:
			if m.FunctionSection, err = decodeIndexVec(sd); err != nil {
				return nil, err
			}
		case sectionIDTable:
			if m.TableSection, err = decodeTableSection(sd); err != nil {
				return nil, err
			}
		case sectionIDMemory:
			if m.MemorySection, err = decodeMemorySection(sd); err != nil {
				return nil, err
			}
		case sectionIDGlobal:
			if m.GlobalSection, err = decodeGlobalSection(sd); err != nil {
				return nil, err
			}
		case sectionIDExport:
			if m.ExportSection, err = decodeExportSection(sd); err != nil {
				return nil, err
			}
		case sectionIDStart:
			idx, err := sd.u32()
			if err != nil {
				return nil, err
			}
			m.StartSection = &idx
		case sectionIDElement:
			if m.ElementSection, err = decodeElementSection(sd); err != nil {
				return nil, err
			}
		case sectionIDCode:
			if m.CodeSection, err = decodeCodeSection(sd); err != nil {
				return nil, err
			}
		case sectionIDData:
			if m.DataSection, err = decodeDataSection(sd); err != nil {
				return nil, err
			}
		case sectionIDDataCount:
			n, err := sd.u32()
			if err != nil {
				return nil, err
			}
			m.DataCountSection = &n
		default:
			return nil, synErr(d.offset(), "unknown section id %d", id)
		}
		if sd.r.Len() != 0 {
			return nil, synErr(d.offset(), "section %d has trailing bytes", id)
		}
	}

	if m.DataCountSection != nil && int(*m.DataCountSection) != len(m.DataSection) {
		return nil, synErr(d.offset(), "data count section (%d) does not match data section length (%d)", *m.DataCountSection, len(m.DataSection))
	}
	return m, nil
}
