package wire

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEncodedLen(t *testing.T) {
	tests := []struct {
		name    string
		v       uint32
		want    int
		wantErr bool
	}{
		{"zero", 0, 1, false},
		{"one byte boundary", 0x7F, 1, false},
		{"two byte start", 0x80, 2, false},
		{"two byte boundary", 0x3FFF, 2, false},
		{"three byte start", 0x4000, 3, false},
		{"three byte boundary", 0x1FFFFF, 3, false},
		{"four byte start", 0x200000, 4, false},
		{"max uvar", MaxUvar, 4, false},
		{"exceeds max", MaxUvar + 1, 0, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := EncodedLen(tt.v)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestEncodeDecodeRoundTrip(t *testing.T) {
	values := []uint32{0, 1, 127, 128, 16383, 16384, 2097151, 2097152, MaxUvar}
	for _, v := range values {
		enc, n, err := Encode(v)
		require.NoError(t, err)
		decoded, dn, err := DecodeUvar(enc[:n])
		require.NoError(t, err)
		assert.Equal(t, v, decoded)
		assert.Equal(t, n, dn)

		wantLen, err := EncodedLen(v)
		require.NoError(t, err)
		assert.Equal(t, wantLen, n)
	}
}

func TestEncodeRejectsOverflow(t *testing.T) {
	_, _, err := Encode(MaxUvar + 1)
	require.Error(t, err)
	assert.True(t, Is(err, ErrInvalidUvar))
}

func TestDecodeUvarIncompleteBuffer(t *testing.T) {
	tests := [][]byte{
		{},
		{0x80},
		{0xFF, 0xFF},
		{0xFF, 0xFF, 0xFF},
	}
	for _, buf := range tests {
		_, _, err := DecodeUvar(buf)
		require.Error(t, err)
		assert.True(t, Is(err, ErrIncompleteBuffer))
	}
}

func TestDecodeUvarFifthByteRequired(t *testing.T) {
	_, _, err := DecodeUvar([]byte{0xFF, 0xFF, 0xFF, 0xFF})
	require.Error(t, err)
	assert.True(t, Is(err, ErrInvalidUvar))
}

// TestDecodeUvarNonCanonical exercises spec scenario 7: 0x80 0x00 encodes the
// value 0 in two bytes where Encode would only ever emit one, and must be
// rejected rather than silently accepted.
func TestDecodeUvarNonCanonical(t *testing.T) {
	tests := []struct {
		name string
		buf  []byte
	}{
		{"two-byte zero", []byte{0x80, 0x00}},
		{"three-byte zero", []byte{0x80, 0x80, 0x00}},
		{"four-byte zero", []byte{0x80, 0x80, 0x80, 0x00}},
		{"padded one-byte value", []byte{0xFF, 0x00}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, _, err := DecodeUvar(tt.buf)
			require.Error(t, err)
			assert.True(t, Is(err, ErrInvalidUvar))
		})
	}
}

func TestDecodeUvarConsumesNoMoreThanFourBytes(t *testing.T) {
	buf := []byte{0x7F, 0xAA, 0xBB, 0xCC}
	v, n, err := DecodeUvar(buf)
	require.NoError(t, err)
	assert.Equal(t, uint32(0x7F), v)
	assert.Equal(t, 1, n)
}
