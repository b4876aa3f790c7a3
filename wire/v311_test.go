package wire

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func encodeConnect311(t *testing.T, c *Connect) []byte {
	t.Helper()
	remainingLen, total, err := ValidateConnect311(c)
	require.NoError(t, err)
	out := make([]byte, total)
	require.NoError(t, PopulateConnect311(c, remainingLen, out))
	return out
}

func TestConnect311RoundTrip(t *testing.T) {
	c := &Connect{
		Version:   Version311,
		Flags:     ConnectFlags{UsernameFlag: true, PasswordFlag: true, CleanStart: true},
		KeepAlive: 60,
		ClientID:  "client-1",
		Username:  "user",
		Password:  []byte("pass"),
	}
	out := encodeConnect311(t, c)

	h, n, err := ParseHeader(out)
	require.NoError(t, err)
	assert.Equal(t, CONNECT, h.Type)

	dec := NewDecoder(out[n : n+int(h.RemainingLength)])
	got, err := DecodeConnect311(dec, false)
	require.NoError(t, err)
	assert.Equal(t, c.ClientID, got.ClientID)
	assert.Equal(t, c.Username, got.Username)
	assert.Equal(t, c.Password, got.Password)
	assert.Equal(t, c.KeepAlive, got.KeepAlive)
}

func TestConnect311WithWill(t *testing.T) {
	c := &Connect{
		Version:     Version311,
		Flags:       ConnectFlags{WillFlag: true, WillQoS: QoS1, WillRetain: true},
		KeepAlive:   30,
		ClientID:    "will-client",
		WillTopic:   "lwt/offline",
		WillPayload: []byte("bye"),
	}
	out := encodeConnect311(t, c)
	h, n, err := ParseHeader(out)
	require.NoError(t, err)
	dec := NewDecoder(out[n : n+int(h.RemainingLength)])
	got, err := DecodeConnect311(dec, false)
	require.NoError(t, err)
	assert.Equal(t, "lwt/offline", got.WillTopic)
	assert.Equal(t, []byte("bye"), got.WillPayload)
}

func TestConnect311StrictClientIDRejectsLongID(t *testing.T) {
	c := &Connect{Version: Version311, ClientID: "this-client-id-is-definitely-too-long"}
	out := encodeConnect311(t, c)
	h, n, err := ParseHeader(out)
	require.NoError(t, err)
	dec := NewDecoder(out[n : n+int(h.RemainingLength)])
	_, err = DecodeConnect311(dec, true)
	require.Error(t, err)
	assert.True(t, Is(err, ErrInvalidClientID))
}

func TestConnack311SessionPresentRequiresSuccess(t *testing.T) {
	dec := NewDecoder([]byte{0x01, byte(ReturnRefusedNotAuthorized)})
	_, err := DecodeConnack311(dec)
	require.Error(t, err)
	assert.True(t, Is(err, ErrInvalidConnack))
}

func TestConnack311RoundTrip(t *testing.T) {
	c := &Connack{SessionPresent: true, Code: byte(ReturnAccepted)}
	remainingLen, total, err := ValidateConnack311(c)
	require.NoError(t, err)
	out := make([]byte, total)
	require.NoError(t, PopulateConnack311(c, remainingLen, out))
	h, n, err := ParseHeader(out)
	require.NoError(t, err)
	dec := NewDecoder(out[n : n+int(h.RemainingLength)])
	got, err := DecodeConnack311(dec)
	require.NoError(t, err)
	assert.True(t, got.SessionPresent)
	assert.Equal(t, byte(ReturnAccepted), got.Code)
}

func TestPublish311QoS0NoPacketID(t *testing.T) {
	p := &Publish{Topic: "a/b", Payload: []byte("hi")}
	remainingLen, total, err := ValidatePublish311(p, QoS0)
	require.NoError(t, err)
	out := make([]byte, total)
	require.NoError(t, PopulatePublish311(p, false, QoS0, false, remainingLen, out))

	h, n, err := ParseHeader(out)
	require.NoError(t, err)
	assert.Equal(t, QoS0, h.QoS())
	dec := NewDecoder(out[n : n+int(h.RemainingLength)])
	got, err := DecodePublish311(dec, h)
	require.NoError(t, err)
	assert.Equal(t, "a/b", got.Topic)
	assert.Equal(t, []byte("hi"), got.Payload)
	assert.Equal(t, uint16(0), got.PacketID)
}

func TestPublish311QoS1HasPacketID(t *testing.T) {
	p := &Publish{Topic: "a/b", PacketID: 7, Payload: []byte("hi")}
	remainingLen, total, err := ValidatePublish311(p, QoS1)
	require.NoError(t, err)
	out := make([]byte, total)
	require.NoError(t, PopulatePublish311(p, true, QoS1, true, remainingLen, out))

	h, n, err := ParseHeader(out)
	require.NoError(t, err)
	assert.True(t, h.DUP())
	assert.True(t, h.Retain())
	dec := NewDecoder(out[n : n+int(h.RemainingLength)])
	got, err := DecodePublish311(dec, h)
	require.NoError(t, err)
	assert.Equal(t, uint16(7), got.PacketID)
}

func TestPublish311RejectsWildcardTopic(t *testing.T) {
	out := make([]byte, 32)
	enc := NewEncoder(out)
	require.NoError(t, enc.PutUTF8String("a/+/b"))
	dec := NewDecoder(out[:enc.Off()])
	_, err := DecodePublish311(dec, Header{Type: PUBLISH})
	require.Error(t, err)
	assert.True(t, Is(err, ErrInvalidWildcard))
}

func TestPutNumbered311PubrelFlags(t *testing.T) {
	out := make([]byte, 4)
	require.NoError(t, PutNumbered311(PUBREL, 0x02, 99, out))
	h, n, err := ParseHeader(out)
	require.NoError(t, err)
	assert.Equal(t, byte(0x02), h.Flags)
	dec := NewDecoder(out[n : n+int(h.RemainingLength)])
	id, err := DecodeNumbered311(dec)
	require.NoError(t, err)
	assert.Equal(t, uint16(99), id)
}

func TestSubscribe311RoundTrip(t *testing.T) {
	subs := []Subscription{{Filter: "a/b", QoS: QoS1}, {Filter: "c/#", QoS: QoS2}}
	remainingLen, total, err := ValidateSubscribe311(subs)
	require.NoError(t, err)
	out := make([]byte, total)
	require.NoError(t, PopulateSubscribe311(5, subs, remainingLen, out))

	h, n, err := ParseHeader(out)
	require.NoError(t, err)
	dec := NewDecoder(out[n : n+int(h.RemainingLength)])
	id, got, err := DecodeSubscribe311(dec)
	require.NoError(t, err)
	assert.Equal(t, uint16(5), id)
	assert.Equal(t, subs, got)
}

func TestSubscribe311RejectsEmptyList(t *testing.T) {
	dec := NewDecoder([]byte{0x00, 0x01})
	_, _, err := DecodeSubscribe311(dec)
	require.Error(t, err)
	assert.True(t, Is(err, ErrEmptySubscriptionList))
}

func TestSubscribe311RejectsReservedQoSBits(t *testing.T) {
	out := make([]byte, 32)
	enc := NewEncoder(out)
	require.NoError(t, enc.PutPacketID(1))
	require.NoError(t, enc.PutUTF8String("a"))
	require.NoError(t, enc.PutU8(0x03))
	dec := NewDecoder(out[:enc.Off()])
	_, _, err := DecodeSubscribe311(dec)
	require.Error(t, err)
	assert.True(t, Is(err, ErrInvalidQoS))
}

func TestSuback311RejectsInvalidCode(t *testing.T) {
	dec := NewDecoder([]byte{0x00, 0x01, 0x03})
	_, _, err := DecodeSuback311(dec)
	require.Error(t, err)
	assert.True(t, Is(err, ErrInvalidSubackCode))
}

func TestSuback311RoundTrip(t *testing.T) {
	out := make([]byte, 8)
	require.NoError(t, PopulateSuback311(3, []byte{0x00, 0x01, 0x80}, out))
	h, n, err := ParseHeader(out)
	require.NoError(t, err)
	dec := NewDecoder(out[n : n+int(h.RemainingLength)])
	id, codes, err := DecodeSuback311(dec)
	require.NoError(t, err)
	assert.Equal(t, uint16(3), id)
	assert.Equal(t, []byte{0x00, 0x01, 0x80}, codes)
}

func TestUnsubscribe311RoundTrip(t *testing.T) {
	filters := []string{"a/b", "c/+/d"}
	remainingLen, total, err := ValidateUnsubscribe311(filters)
	require.NoError(t, err)
	out := make([]byte, total)
	require.NoError(t, PopulateUnsubscribe311(9, filters, remainingLen, out))

	h, n, err := ParseHeader(out)
	require.NoError(t, err)
	dec := NewDecoder(out[n : n+int(h.RemainingLength)])
	id, got, err := DecodeUnsubscribe311(dec)
	require.NoError(t, err)
	assert.Equal(t, uint16(9), id)
	assert.Equal(t, filters, got)
}

func TestUnsubscribe311RejectsEmptyList(t *testing.T) {
	dec := NewDecoder([]byte{0x00, 0x01})
	_, _, err := DecodeUnsubscribe311(dec)
	require.Error(t, err)
	assert.True(t, Is(err, ErrEmptyUnsubscribeList))
}

func TestZeroLength311RoundTrip(t *testing.T) {
	out := make([]byte, 2)
	require.NoError(t, PutZeroLength311(PINGREQ, out))
	h, n, err := ParseHeader(out)
	require.NoError(t, err)
	dec := NewDecoder(out[n : n+int(h.RemainingLength)])
	require.NoError(t, DecodeZeroLength311(dec))
}
