package wire

// Version identifies which CONNECT variable header shape a packet follows.
type Version byte

const (
	Version311 Version = 4
	Version5   Version = 5
)

func (v Version) String() string {
	switch v {
	case Version311:
		return "3.1.1"
	case Version5:
		return "5.0"
	default:
		return "unknown"
	}
}

// protocolName is the literal 4-byte ASCII string every CONNECT packet's
// variable header opens with, regardless of protocol level.
const protocolName = "MQTT"

// ConnectVersion reads CONNECT's protocol-name string and version byte off
// dec, shared by the v3.1.1 and v5 CONNECT decoders before their paths
// diverge. It does not finalize dec — callers still have flags, keep-alive,
// and payload fields to read.
func ConnectVersion(dec *Decoder) (Version, error) {
	name, err := dec.SplitByteString()
	if err != nil {
		return 0, err
	}
	if string(name) != protocolName {
		return 0, wrap(ErrInvalidProtocolName, "protocol name is not \"MQTT\"")
	}
	level, err := dec.SplitU8()
	if err != nil {
		return 0, err
	}
	switch Version(level) {
	case Version311, Version5:
		return Version(level), nil
	default:
		return 0, newErrf(KindInvalidProtocolVersion, ReasonUnsupportedProtocolVersion, "mqttwire: unsupported protocol level %d", level)
	}
}

// ConnectFlags is the decoded CONNECT flags byte, version-agnostic: v3.1.1
// and v5 share this exact bit layout.
type ConnectFlags struct {
	UsernameFlag bool
	PasswordFlag bool
	WillRetain   bool
	WillQoS      QoS
	WillFlag     bool
	CleanStart   bool
}

// DecodeConnectFlags decodes and validates a CONNECT flags byte per spec
// §4.7: the reserved bit 0 must be zero, a clear will-flag forces will-QoS
// and will-retain to zero, and a set password-flag requires username-flag.
func DecodeConnectFlags(b byte) (ConnectFlags, error) {
	if b&0x01 != 0 {
		return ConnectFlags{}, wrap(ErrInvalidConnectFlags, "reserved bit 0 set")
	}
	f := ConnectFlags{
		CleanStart:   b&0x02 != 0,
		WillFlag:     b&0x04 != 0,
		WillQoS:      QoS((b & 0x18) >> 3),
		WillRetain:   b&0x20 != 0,
		PasswordFlag: b&0x40 != 0,
		UsernameFlag: b&0x80 != 0,
	}
	if !f.WillQoS.IsValid() {
		return ConnectFlags{}, wrap(ErrInvalidQoS, "will QoS bits == 0b11")
	}
	if !f.WillFlag && (f.WillQoS != QoS0 || f.WillRetain) {
		return ConnectFlags{}, ErrWillFlagMismatch
	}
	if f.PasswordFlag && !f.UsernameFlag {
		return ConnectFlags{}, ErrPasswordWithoutUsername
	}
	return f, nil
}

// Byte packs f back into a CONNECT flags byte, for encoders.
func (f ConnectFlags) Byte() byte {
	var b byte
	if f.CleanStart {
		b |= 0x02
	}
	if f.WillFlag {
		b |= 0x04
	}
	b |= byte(f.WillQoS) << 3
	if f.WillRetain {
		b |= 0x20
	}
	if f.PasswordFlag {
		b |= 0x40
	}
	if f.UsernameFlag {
		b |= 0x80
	}
	return b
}

// Numbered decodes a packet body consisting of nothing but a non-zero packet
// identifier: the v3.1.1 shape of PUBACK, PUBREC, PUBREL, PUBCOMP, and
// UNSUBACK.
func Numbered(dec *Decoder) (uint16, error) {
	id, err := dec.SplitPacketID()
	if err != nil {
		return 0, err
	}
	if err := dec.Finalize(); err != nil {
		return 0, err
	}
	return id, nil
}

// PutNumbered writes a packet-id-only body to enc.
func PutNumbered(enc *Encoder, id uint16) error {
	return enc.PutPacketID(id)
}
