// Package leb128 implements the variable-length integer encoding used
// throughout the WebAssembly binary format (spec.md §4.3): unsigned LEB128
// for u32/u64, signed LEB128 for i32/i64, and a signed-33-bit variant for
// block-type immediates.
package leb128

import (
	"bytes"
	"errors"
	"io"
)

var (
	errOverflow32    = errors.New("leb128: invalid 32-bit integer")
	errOverflow33    = errors.New("leb128: invalid 33-bit integer")
	errOverflow64    = errors.New("leb128: invalid 64-bit integer")
	errUnterminated  = errors.New("leb128: unterminated")
)

// DecodeUint32 reads an unsigned LEB128-encoded u32 from r, returning the
// value, the number of bytes consumed, and any decode error.
func DecodeUint32(r io.Reader) (uint32, uint64, error) {
	v, n, err := decodeUnsigned(r, 32)
	return uint32(v), n, err
}

// DecodeUint64 reads an unsigned LEB128-encoded u64 from r.
func DecodeUint64(r io.Reader) (uint64, uint64, error) {
	return decodeUnsigned(r, 64)
}

// DecodeInt32 reads a signed LEB128-encoded i32 from r.
func DecodeInt32(r io.Reader) (int32, uint64, error) {
	v, n, err := decodeSigned(r, 32)
	if err != nil {
		return 0, n, err
	}
	return int32(v), n, nil
}

// DecodeInt64 reads a signed LEB128-encoded i64 from r.
func DecodeInt64(r io.Reader) (int64, uint64, error) {
	return decodeSigned(r, 64)
}

// DecodeInt33AsInt64 reads a signed 33-bit LEB128 value (used for blocktype
// immediates, which index a type or encode an inline result type) sign
// extended into an int64.
func DecodeInt33AsInt64(r io.Reader) (int64, uint64, error) {
	return decodeSigned(r, 33)
}

func decodeUnsigned(r io.Reader, size int) (uint64, uint64, error) {
	var result uint64
	var shift uint
	var n uint64
	buf := make([]byte, 1)
	for {
		if _, err := io.ReadFull(r, buf); err != nil {
			if n == 0 {
				return 0, n, err
			}
			return 0, n, errUnterminated
		}
		n++
		if size < 64 && n > uint64((size+6)/7) {
			return 0, n, errOverflow32
		}
		b := buf[0]
		if shift+7 >= 64 && (b&0x80) != 0 {
			return 0, n, errOverflow64
		}
		result |= uint64(b&0x7f) << shift
		if b&0x80 == 0 {
			if size < 64 {
				if (result >> uint(size)) != 0 {
					return 0, n, errOverflow32
				}
			}
			return result, n, nil
		}
		shift += 7
	}
}

func decodeSigned(r io.Reader, size int) (int64, uint64, error) {
	var result int64
	var shift uint
	var n uint64
	var b byte
	buf := make([]byte, 1)
	for {
		if _, err := io.ReadFull(r, buf); err != nil {
			if n == 0 {
				return 0, n, err
			}
			return 0, n, errUnterminated
		}
		n++
		b = buf[0]
		result |= int64(b&0x7f) << shift
		shift += 7
		if b&0x80 == 0 {
			break
		}
		if shift >= 64 {
			return 0, n, errOverflow64
		}
	}
	// sign extend
	if shift < 64 && (b&0x40) != 0 {
		result |= -1 << shift
	}
	switch {
	case size == 32:
		if result > 0x7fffffff || result < -0x80000000 {
			return 0, n, errOverflow32
		}
	case size == 33:
		if result > 0xffffffff || result < -0x100000000 {
			return 0, n, errOverflow33
		}
	}
	return result, n, nil
}

// EncodeUint32 encodes v as unsigned LEB128.
func EncodeUint32(v uint32) []byte { return EncodeUint64(uint64(v)) }

// EncodeUint64 encodes v as unsigned LEB128.
func EncodeUint64(v uint64) []byte {
	out := bytes.NewBuffer(nil)
	for {
		b := byte(v & 0x7f)
		v >>= 7
		if v != 0 {
			b |= 0x80
		}
		out.WriteByte(b)
		if v == 0 {
			break
		}
	}
	return out.Bytes()
}

// EncodeInt32 encodes v as signed LEB128.
func EncodeInt32(v int32) []byte { return EncodeInt64(int64(v)) }

// EncodeInt64 encodes v as signed LEB128.
func EncodeInt64(v int64) []byte {
	out := bytes.NewBuffer(nil)
	for {
		b := byte(v & 0x7f)
		v >>= 7
		signBitSet := b&0x40 != 0
		if (v == 0 && !signBitSet) || (v == -1 && signBitSet) {
			out.WriteByte(b)
			break
		}
		out.WriteByte(b | 0x80)
	}
	return out.Bytes()
}

// LoadUint32 decodes an unsigned LEB128 u32 from the front of buf, returning
// the value and the number of bytes consumed.
func LoadUint32(buf []byte) (uint32, uint64, error) {
	v, n, err := DecodeUint32(bytes.NewReader(buf))
	return v, n, err
}

// LoadUint64 decodes an unsigned LEB128 u64 from the front of buf.
func LoadUint64(buf []byte) (uint64, uint64, error) {
	return DecodeUint64(bytes.NewReader(buf))
}

// LoadInt32 decodes a signed LEB128 i32 from the front of buf.
func LoadInt32(buf []byte) (int32, uint64, error) {
	return DecodeInt32(bytes.NewReader(buf))
}

// LoadInt64 decodes a signed LEB128 i64 from the front of buf.
func LoadInt64(buf []byte) (int64, uint64, error) {
	return DecodeInt64(bytes.NewReader(buf))
}
