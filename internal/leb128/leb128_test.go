package leb128

import (
	"bytes"
	"math"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestEncodeDecodeInt32(t *testing.T) {
	for _, c := range []struct {
		input    int32
		expected []byte
	}{
		{input: -624485, expected: []byte{0x9b, 0xf1, 0x59}},
		{input: -4, expected: []byte{0x7c}},
		{input: -1, expected: []byte{0x7f}},
		{input: 0, expected: []byte{0x00}},
		{input: 1, expected: []byte{0x01}},
		{input: 624485, expected: []byte{0xe5, 0x8e, 0x26}},
		{input: math.MaxInt32, expected: []byte{0xff, 0xff, 0xff, 0xff, 0x7}},
	} {
		require.Equal(t, c.expected, EncodeInt32(c.input))
		decoded, n, err := LoadInt32(c.expected)
		require.NoError(t, err)
		require.Equal(t, c.input, decoded)
		require.Equal(t, uint64(len(c.expected)), n)
	}
}

func TestEncodeDecodeInt64(t *testing.T) {
	for _, v := range []int64{0, 1, -1, -4, 624485, -624485, math.MaxInt64, math.MinInt64} {
		enc := EncodeInt64(v)
		decoded, n, err := LoadInt64(enc)
		require.NoError(t, err)
		require.Equal(t, v, decoded)
		require.Equal(t, uint64(len(enc)), n)
	}
}

func TestEncodeDecodeUint32(t *testing.T) {
	for _, v := range []uint32{0, 1, 127, 128, 624485, math.MaxUint32} {
		enc := EncodeUint32(v)
		decoded, n, err := LoadUint32(enc)
		require.NoError(t, err)
		require.Equal(t, v, decoded)
		require.Equal(t, uint64(len(enc)), n)
	}
}

func TestDecodeInt33AsInt64(t *testing.T) {
	for _, c := range []struct {
		bytes []byte
		exp   int64
	}{
		{bytes: []byte{0x00}, exp: 0},
		{bytes: []byte{0x7f}, exp: -1},
		{bytes: []byte{0x81, 0x01}, exp: 129},
		{bytes: []byte{0xff, 0x7e}, exp: -129},
	} {
		actual, n, err := DecodeInt33AsInt64(bytes.NewReader(c.bytes))
		require.NoError(t, err)
		require.Equal(t, c.exp, actual)
		require.Equal(t, uint64(len(c.bytes)), n)
	}
}

// TestOverlongUint32Rejected ensures an overlong encoding of a value that would otherwise
// fit in fewer bytes is rejected, per spec.md §4.3 boundary cases.
func TestOverlongUint32Rejected(t *testing.T) {
	// 6 bytes encoding a value whose top bits don't fit in 32 bits.
	overlong := []byte{0x80, 0x80, 0x80, 0x80, 0x80, 0x01}
	_, _, err := LoadUint32(overlong)
	require.Error(t, err)
}

func TestTruncatedRejected(t *testing.T) {
	_, _, err := LoadUint32([]byte{0x80, 0x80})
	require.Error(t, err)
}
