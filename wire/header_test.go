package wire

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseHeaderIncompleteBuffer(t *testing.T) {
	_, _, err := ParseHeader(nil)
	require.Error(t, err)
	assert.True(t, Is(err, ErrIncompleteBuffer))

	_, _, err = ParseHeader([]byte{byte(PINGREQ) << 4, 0x80})
	require.Error(t, err)
	assert.True(t, Is(err, ErrIncompleteBuffer))
}

func TestParseHeaderRejectsReservedType(t *testing.T) {
	_, _, err := ParseHeader([]byte{0x00, 0x00})
	require.Error(t, err)
	assert.True(t, Is(err, ErrInvalidMessageType))
}

func TestParseHeaderRejectsBadFixedFlags(t *testing.T) {
	buf := []byte{byte(CONNECT)<<4 | 0x01, 0x00}
	_, _, err := ParseHeader(buf)
	require.Error(t, err)
	assert.True(t, Is(err, ErrInvalidFlags))
}

func TestParseHeaderPublishFlags(t *testing.T) {
	buf := []byte{byte(PUBLISH)<<4 | buildPUBLISHFlags(true, QoS1, true), 0x00}
	h, n, err := ParseHeader(buf)
	require.NoError(t, err)
	assert.Equal(t, 2, n)
	assert.True(t, h.DUP())
	assert.Equal(t, QoS1, h.QoS())
	assert.True(t, h.Retain())
}

func TestParseHeaderRejectsInvalidPublishQoS(t *testing.T) {
	buf := []byte{byte(PUBLISH)<<4 | 0x06, 0x00}
	_, _, err := ParseHeader(buf)
	require.Error(t, err)
	assert.True(t, Is(err, ErrInvalidQoS))
}

func TestParseHeaderPingreqRoundTrip(t *testing.T) {
	out := make([]byte, 2)
	e := NewEncoder(out)
	require.NoError(t, PutHeader(e, Header{Type: PINGREQ, RemainingLength: 0}))

	h, n, err := ParseHeader(out)
	require.NoError(t, err)
	assert.Equal(t, PINGREQ, h.Type)
	assert.Equal(t, uint32(0), h.RemainingLength)
	assert.Equal(t, 2, n)
}

func TestParseHeaderLargeRemainingLength(t *testing.T) {
	out := make([]byte, 5)
	e := NewEncoder(out)
	require.NoError(t, PutHeader(e, Header{Type: PUBLISH, Flags: buildPUBLISHFlags(false, QoS0, false), RemainingLength: 200000}))

	h, n, err := ParseHeader(out[:e.Off()])
	require.NoError(t, err)
	assert.Equal(t, uint32(200000), h.RemainingLength)
	assert.Equal(t, e.Off(), n)
}

func TestWithPublishFlagsRoundTrip(t *testing.T) {
	h := WithPublishFlags(Header{Type: PUBLISH}, true, QoS2, false)
	assert.True(t, h.DUP())
	assert.Equal(t, QoS2, h.QoS())
	assert.False(t, h.Retain())
}

func TestPacketTypeString(t *testing.T) {
	assert.Equal(t, "CONNECT", CONNECT.String())
	assert.Equal(t, "AUTH", AUTH.String())
	assert.Equal(t, "UNKNOWN", PacketType(99).String())
}

func TestQoSValidity(t *testing.T) {
	assert.True(t, QoS0.IsValid())
	assert.True(t, QoS2.IsValid())
	assert.False(t, QoS(3).IsValid())
}
