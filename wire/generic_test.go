package wire

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConnectVersion(t *testing.T) {
	out := make([]byte, 16)
	e := NewEncoder(out)
	require.NoError(t, e.PutUTF8String("MQTT"))
	require.NoError(t, e.PutU8(byte(Version5)))

	d := NewDecoder(out[:e.Off()])
	v, err := ConnectVersion(d)
	require.NoError(t, err)
	assert.Equal(t, Version5, v)
}

func TestConnectVersionRejectsBadProtocolName(t *testing.T) {
	out := make([]byte, 16)
	e := NewEncoder(out)
	require.NoError(t, e.PutUTF8String("MQIS"))
	require.NoError(t, e.PutU8(byte(Version311)))

	d := NewDecoder(out[:e.Off()])
	_, err := ConnectVersion(d)
	require.Error(t, err)
	assert.True(t, Is(err, ErrInvalidProtocolName))
}

func TestConnectVersionRejectsUnsupportedLevel(t *testing.T) {
	out := make([]byte, 16)
	e := NewEncoder(out)
	require.NoError(t, e.PutUTF8String("MQTT"))
	require.NoError(t, e.PutU8(3))

	d := NewDecoder(out[:e.Off()])
	_, err := ConnectVersion(d)
	require.Error(t, err)
	assert.True(t, Is(err, ErrInvalidProtocolVersion))
}

func TestDecodeConnectFlagsReservedBit(t *testing.T) {
	_, err := DecodeConnectFlags(0x01)
	require.Error(t, err)
	assert.True(t, Is(err, ErrInvalidConnectFlags))
}

func TestDecodeConnectFlagsWillFlagMismatch(t *testing.T) {
	// will flag clear but will-qos bits set
	_, err := DecodeConnectFlags(0x10)
	require.Error(t, err)
	assert.True(t, Is(err, ErrWillFlagMismatch))
}

func TestDecodeConnectFlagsPasswordWithoutUsername(t *testing.T) {
	_, err := DecodeConnectFlags(0x40)
	require.Error(t, err)
	assert.True(t, Is(err, ErrPasswordWithoutUsername))
}

func TestDecodeConnectFlagsRoundTrip(t *testing.T) {
	want := ConnectFlags{
		UsernameFlag: true,
		PasswordFlag: true,
		WillRetain:   true,
		WillQoS:      QoS1,
		WillFlag:     true,
		CleanStart:   true,
	}
	got, err := DecodeConnectFlags(want.Byte())
	require.NoError(t, err)
	assert.Equal(t, want, got)
}

func TestNumbered(t *testing.T) {
	out := make([]byte, 2)
	e := NewEncoder(out)
	require.NoError(t, PutNumbered(e, 42))

	d := NewDecoder(out)
	id, err := Numbered(d)
	require.NoError(t, err)
	assert.Equal(t, uint16(42), id)
}

func TestNumberedRejectsTrailingBytes(t *testing.T) {
	d := NewDecoder([]byte{0x00, 0x01, 0xFF})
	_, err := Numbered(d)
	require.Error(t, err)
	assert.True(t, Is(err, ErrPacketLengthMismatch))
}
