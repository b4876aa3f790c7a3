package wire

import "github.com/axonmq/mqttwire/topic"

// Packet structs and codecs for MQTT protocol level 4 (v3.1.1). Grounded on
// the teacher's encoding/encoder_311.go for the encode side (ConnectPacket311
// and its siblings); the teacher never decoded v3.1.1, so the Decode*
// functions here are written fresh, in the same idiom the teacher uses for
// its v5 decoders in packets_mqtt5.go, with the property section removed.

// ReturnCode is the narrow CONNACK outcome code v3.1.1 uses in place of v5's
// ReasonCode.
type ReturnCode byte

const (
	ReturnAccepted                    ReturnCode = 0x00
	ReturnRefusedUnacceptableProtocol ReturnCode = 0x01
	ReturnRefusedIdentifierRejected   ReturnCode = 0x02
	ReturnRefusedServerUnavailable    ReturnCode = 0x03
	ReturnRefusedBadUsernamePassword  ReturnCode = 0x04
	ReturnRefusedNotAuthorized        ReturnCode = 0x05
)

func (rc ReturnCode) String() string {
	switch rc {
	case ReturnAccepted:
		return "Accepted"
	case ReturnRefusedUnacceptableProtocol:
		return "RefusedUnacceptableProtocol"
	case ReturnRefusedIdentifierRejected:
		return "RefusedIdentifierRejected"
	case ReturnRefusedServerUnavailable:
		return "RefusedServerUnavailable"
	case ReturnRefusedBadUsernamePassword:
		return "RefusedBadUsernamePassword"
	case ReturnRefusedNotAuthorized:
		return "RefusedNotAuthorized"
	default:
		return "Unknown"
	}
}

func (rc ReturnCode) valid() bool { return rc <= ReturnRefusedNotAuthorized }

const maxStrictClientIDLen = 23

// validateClientID applies spec §4.7's strict mode: length <= 23 and every
// byte in [0-9A-Za-z]. Lax mode accepts any UTF-8 string already validated
// by SplitUTF8String.
func validateClientID(id string, strict bool) error {
	if !strict {
		return nil
	}
	if len(id) > maxStrictClientIDLen {
		return wrap(ErrInvalidClientID, "client id exceeds 23 bytes in strict mode")
	}
	for i := 0; i < len(id); i++ {
		c := id[i]
		switch {
		case c >= '0' && c <= '9':
		case c >= 'A' && c <= 'Z':
		case c >= 'a' && c <= 'z':
		default:
			return wrap(ErrInvalidClientID, "client id contains non-alphanumeric byte in strict mode")
		}
	}
	return nil
}

// Connect is a CONNECT packet's payload fields, version-agnostic. Version
// and Properties (v5 only) distinguish the two wire shapes.
type Connect struct {
	Version      Version
	Flags        ConnectFlags
	KeepAlive    uint16
	Properties   *Properties // nil for v3.1.1
	ClientID     string
	WillProps    *Properties // nil unless WillFlag and v5
	WillTopic    string
	WillPayload  []byte
	Username     string
	Password     []byte
}

// DecodeConnect311 decodes a v3.1.1 CONNECT body.
func DecodeConnect311(dec *Decoder, strict bool) (*Connect, error) {
	version, err := ConnectVersion(dec)
	if err != nil {
		return nil, err
	}
	if version != Version311 {
		return nil, wrap(ErrUnexpectedVersion, "not a v3.1.1 CONNECT")
	}
	flagsByte, err := dec.SplitU8()
	if err != nil {
		return nil, err
	}
	flags, err := DecodeConnectFlags(flagsByte)
	if err != nil {
		return nil, err
	}
	keepAlive, err := dec.SplitU16()
	if err != nil {
		return nil, err
	}
	clientID, err := dec.SplitUTF8String()
	if err != nil {
		return nil, err
	}
	if err := validateClientID(clientID, strict); err != nil {
		return nil, err
	}

	c := &Connect{Version: version, Flags: flags, KeepAlive: keepAlive, ClientID: clientID}

	if flags.WillFlag {
		c.WillTopic, err = dec.SplitUTF8String()
		if err != nil {
			return nil, err
		}
		c.WillPayload, err = dec.SplitByteString()
		if err != nil {
			return nil, err
		}
	}
	if flags.UsernameFlag {
		c.Username, err = dec.SplitUTF8String()
		if err != nil {
			return nil, err
		}
	}
	if flags.PasswordFlag {
		c.Password, err = dec.SplitByteString()
		if err != nil {
			return nil, err
		}
	}
	return c, dec.Finalize()
}

// ValidateConnect311 computes the remaining-length and total packet size for
// c, without writing anything. Callers size their output buffer from
// totalBytes before calling PopulateConnect311.
func ValidateConnect311(c *Connect) (remainingLen uint32, totalBytes int, err error) {
	n := 2 + len(protocolName) + 1 + 1 + 2 // protocol name + version + flags + keep-alive
	n += 2 + len(c.ClientID)
	if c.Flags.WillFlag {
		n += 2 + len(c.WillTopic)
		n += 2 + len(c.WillPayload)
	}
	if c.Flags.UsernameFlag {
		n += 2 + len(c.Username)
	}
	if c.Flags.PasswordFlag {
		n += 2 + len(c.Password)
	}
	if uint64(n) > uint64(MaxUvar) {
		return 0, 0, ErrPacketTooLarge
	}
	hdrLen, err := EncodedLen(uint32(n))
	if err != nil {
		return 0, 0, err
	}
	total := 1 + hdrLen + n
	if uint64(total) > maxAddressableSize {
		return 0, 0, ErrPacketTooLarge
	}
	return uint32(n), total, nil
}

// PopulateConnect311 writes c to out, which must be exactly totalBytes long
// as returned by ValidateConnect311.
func PopulateConnect311(c *Connect, remainingLen uint32, out []byte) error {
	enc := NewEncoder(out)
	if err := PutHeader(enc, Header{Type: CONNECT, RemainingLength: remainingLen}); err != nil {
		return err
	}
	if err := enc.PutUTF8String(protocolName); err != nil {
		return err
	}
	if err := enc.PutU8(byte(Version311)); err != nil {
		return err
	}
	if err := enc.PutU8(c.Flags.Byte()); err != nil {
		return err
	}
	if err := enc.PutU16(c.KeepAlive); err != nil {
		return err
	}
	if err := enc.PutUTF8String(c.ClientID); err != nil {
		return err
	}
	if c.Flags.WillFlag {
		if err := enc.PutUTF8String(c.WillTopic); err != nil {
			return err
		}
		if err := enc.PutByteString(c.WillPayload); err != nil {
			return err
		}
	}
	if c.Flags.UsernameFlag {
		if err := enc.PutUTF8String(c.Username); err != nil {
			return err
		}
	}
	if c.Flags.PasswordFlag {
		if err := enc.PutByteString(c.Password); err != nil {
			return err
		}
	}
	return nil
}

// Connack is a CONNACK packet, version-agnostic; for v3.1.1, Code holds a
// ReturnCode, for v5 a ReasonCode (both stored as the raw byte).
type Connack struct {
	SessionPresent bool
	Code           byte
	Properties     *Properties // nil for v3.1.1
}

// DecodeConnack311 decodes a v3.1.1 CONNACK body.
func DecodeConnack311(dec *Decoder) (*Connack, error) {
	ackFlags, err := dec.SplitU8()
	if err != nil {
		return nil, err
	}
	if ackFlags&0xFE != 0 {
		return nil, wrap(ErrInvalidConnack, "reserved bits set in CONNACK flags")
	}
	sessionPresent := ackFlags&0x01 != 0

	code, err := dec.SplitU8()
	if err != nil {
		return nil, err
	}
	if !ReturnCode(code).valid() {
		return nil, wrap(ErrInvalidReturnCode, "return code out of range")
	}
	if sessionPresent && code != byte(ReturnAccepted) {
		return nil, ErrInvalidConnack
	}
	return &Connack{SessionPresent: sessionPresent, Code: code}, dec.Finalize()
}

// ValidateConnack311 sizes a v3.1.1 CONNACK, whose body is always exactly 2
// bytes (ack flags + return code).
func ValidateConnack311(c *Connack) (remainingLen uint32, totalBytes int, err error) {
	const n = 2
	return n, 1 + 1 + n, nil
}

// PopulateConnack311 writes c to out, which must be exactly totalBytes long
// as returned by ValidateConnack311.
func PopulateConnack311(c *Connack, remainingLen uint32, out []byte) error {
	enc := NewEncoder(out)
	if err := PutHeader(enc, Header{Type: CONNACK, RemainingLength: remainingLen}); err != nil {
		return err
	}
	var ackFlags byte
	if c.SessionPresent {
		ackFlags = 0x01
	}
	if err := enc.PutU8(ackFlags); err != nil {
		return err
	}
	return enc.PutU8(c.Code)
}

// Publish is a PUBLISH packet's variable header and payload, shared between
// v3.1.1 and v5 (v5 additionally carries Properties).
type Publish struct {
	Topic      string
	PacketID   uint16 // 0 iff QoS0
	Properties *Properties
	Payload    []byte
}

// DecodePublish311 decodes a v3.1.1 PUBLISH body given the fixed header
// (which already carries DUP/QoS/Retain).
func DecodePublish311(dec *Decoder, h Header) (*Publish, error) {
	topicName, err := dec.SplitUTF8String()
	if err != nil {
		return nil, err
	}
	if err := topic.ValidateTopic(topicName); err != nil {
		return nil, wrapTopicErr(err)
	}
	p := &Publish{Topic: topicName}
	if h.QoS() != QoS0 {
		p.PacketID, err = dec.SplitPacketID()
		if err != nil {
			return nil, err
		}
	}
	p.Payload = dec.SplitOffRest().Bytes()
	return p, nil
}

func ValidatePublish311(p *Publish, qos QoS) (remainingLen uint32, totalBytes int, err error) {
	n := 2 + len(p.Topic)
	if qos != QoS0 {
		n += 2
	}
	n += len(p.Payload)
	if uint64(n) > uint64(MaxUvar) {
		return 0, 0, ErrPacketTooLarge
	}
	hdrLen, err := EncodedLen(uint32(n))
	if err != nil {
		return 0, 0, err
	}
	total := 1 + hdrLen + n
	if uint64(total) > maxAddressableSize {
		return 0, 0, ErrPacketTooLarge
	}
	return uint32(n), total, nil
}

func PopulatePublish311(p *Publish, dup bool, qos QoS, retain bool, remainingLen uint32, out []byte) error {
	enc := NewEncoder(out)
	h := WithPublishFlags(Header{Type: PUBLISH, RemainingLength: remainingLen}, dup, qos, retain)
	if err := PutHeader(enc, h); err != nil {
		return err
	}
	if err := enc.PutUTF8String(p.Topic); err != nil {
		return err
	}
	if qos != QoS0 {
		if err := enc.PutPacketID(p.PacketID); err != nil {
			return err
		}
	}
	if len(p.Payload) > 0 {
		if err := enc.room(len(p.Payload)); err != nil {
			return err
		}
		copy(enc.buf[enc.off:], p.Payload)
		enc.off += len(p.Payload)
	}
	return nil
}

// DecodeNumbered311 decodes the packet-id-only body shared by v3.1.1 PUBACK,
// PUBREC, PUBREL, PUBCOMP, and UNSUBACK.
func DecodeNumbered311(dec *Decoder) (uint16, error) { return Numbered(dec) }

// PutNumbered311 encodes the packet-id-only shared body; the caller supplies
// t and flags (PUBREL requires flags 0x02) via Header.
func PutNumbered311(t PacketType, flags byte, id uint16, out []byte) error {
	enc := NewEncoder(out)
	if err := PutHeader(enc, Header{Type: t, Flags: flags, RemainingLength: 2}); err != nil {
		return err
	}
	return enc.PutPacketID(id)
}

// Subscription is one (topic-filter, requested QoS) pair within a v3.1.1
// SUBSCRIBE, or the v5 equivalent carrying a full SubscriptionOptions byte.
type Subscription struct {
	Filter  string
	QoS     QoS
	Options SubscriptionOptions // v5 only
}

// DecodeSubscribe311 decodes a v3.1.1 SUBSCRIBE body: a packet id followed
// by a non-empty sequence of (filter, QoS byte) pairs.
func DecodeSubscribe311(dec *Decoder) (uint16, []Subscription, error) {
	id, err := dec.SplitPacketID()
	if err != nil {
		return 0, nil, err
	}
	var subs []Subscription
	for dec.Len() > 0 {
		filter, err := dec.SplitUTF8String()
		if err != nil {
			return 0, nil, err
		}
		if err := topic.ValidateTopicFilter(filter); err != nil {
			return 0, nil, wrapTopicErr(err)
		}
		qosByte, err := dec.SplitU8()
		if err != nil {
			return 0, nil, err
		}
		if qosByte&0xFC != 0 {
			return 0, nil, wrap(ErrInvalidQoS, "reserved bits set in SUBSCRIBE QoS byte")
		}
		if !QoS(qosByte).IsValid() {
			return 0, nil, wrap(ErrInvalidQoS, "SUBSCRIBE QoS bits == 0b11")
		}
		subs = append(subs, Subscription{Filter: filter, QoS: QoS(qosByte)})
	}
	if len(subs) == 0 {
		return 0, nil, ErrEmptySubscriptionList
	}
	return id, subs, nil
}

func ValidateSubscribe311(subs []Subscription) (remainingLen uint32, totalBytes int, err error) {
	n := 2
	for _, s := range subs {
		n += 2 + len(s.Filter) + 1
	}
	if uint64(n) > uint64(MaxUvar) {
		return 0, 0, ErrPacketTooLarge
	}
	hdrLen, err := EncodedLen(uint32(n))
	if err != nil {
		return 0, 0, err
	}
	total := 1 + hdrLen + n
	if uint64(total) > maxAddressableSize {
		return 0, 0, ErrPacketTooLarge
	}
	return uint32(n), total, nil
}

func PopulateSubscribe311(id uint16, subs []Subscription, remainingLen uint32, out []byte) error {
	enc := NewEncoder(out)
	if err := PutHeader(enc, Header{Type: SUBSCRIBE, Flags: 0x02, RemainingLength: remainingLen}); err != nil {
		return err
	}
	if err := enc.PutPacketID(id); err != nil {
		return err
	}
	for _, s := range subs {
		if err := enc.PutUTF8String(s.Filter); err != nil {
			return err
		}
		if err := enc.PutU8(byte(s.QoS)); err != nil {
			return err
		}
	}
	return nil
}

// DecodeSuback311 decodes a v3.1.1 SUBACK body: a packet id followed by one
// return code per preceding subscription, each in {0x00, 0x01, 0x02, 0x80}.
func DecodeSuback311(dec *Decoder) (uint16, []byte, error) {
	id, err := dec.SplitPacketID()
	if err != nil {
		return 0, nil, err
	}
	codes := dec.SplitOffRest().Bytes()
	if len(codes) == 0 {
		return 0, nil, ErrEmptySubscriptionList
	}
	for _, c := range codes {
		switch c {
		case 0x00, 0x01, 0x02, 0x80:
		default:
			return 0, nil, wrap(ErrInvalidSubackCode, "SUBACK return code not in {0,1,2,0x80}")
		}
	}
	return id, codes, nil
}

func PopulateSuback311(id uint16, codes []byte, out []byte) error {
	enc := NewEncoder(out)
	n := 2 + len(codes)
	if err := PutHeader(enc, Header{Type: SUBACK, RemainingLength: uint32(n)}); err != nil {
		return err
	}
	if err := enc.PutPacketID(id); err != nil {
		return err
	}
	for _, c := range codes {
		if err := enc.PutU8(c); err != nil {
			return err
		}
	}
	return nil
}

// DecodeUnsubscribe311 decodes a v3.1.1 UNSUBSCRIBE body: a packet id
// followed by a non-empty sequence of topic filters.
func DecodeUnsubscribe311(dec *Decoder) (uint16, []string, error) {
	id, err := dec.SplitPacketID()
	if err != nil {
		return 0, nil, err
	}
	var filters []string
	for dec.Len() > 0 {
		f, err := dec.SplitUTF8String()
		if err != nil {
			return 0, nil, err
		}
		if err := topic.ValidateTopicFilter(f); err != nil {
			return 0, nil, wrapTopicErr(err)
		}
		filters = append(filters, f)
	}
	if len(filters) == 0 {
		return 0, nil, ErrEmptyUnsubscribeList
	}
	return id, filters, nil
}

func PopulateUnsubscribe311(id uint16, filters []string, remainingLen uint32, out []byte) error {
	enc := NewEncoder(out)
	if err := PutHeader(enc, Header{Type: UNSUBSCRIBE, Flags: 0x02, RemainingLength: remainingLen}); err != nil {
		return err
	}
	if err := enc.PutPacketID(id); err != nil {
		return err
	}
	for _, f := range filters {
		if err := enc.PutUTF8String(f); err != nil {
			return err
		}
	}
	return nil
}

func ValidateUnsubscribe311(filters []string) (remainingLen uint32, totalBytes int, err error) {
	n := 2
	for _, f := range filters {
		n += 2 + len(f)
	}
	if uint64(n) > uint64(MaxUvar) {
		return 0, 0, ErrPacketTooLarge
	}
	hdrLen, err := EncodedLen(uint32(n))
	if err != nil {
		return 0, 0, err
	}
	total := 1 + hdrLen + n
	if uint64(total) > maxAddressableSize {
		return 0, 0, ErrPacketTooLarge
	}
	return uint32(n), total, nil
}

// DecodeZeroLength311 decodes the empty body shared by PINGREQ, PINGRESP,
// and v3.1.1 DISCONNECT.
func DecodeZeroLength311(dec *Decoder) error { return dec.Finalize() }

// PutZeroLength311 encodes a zero-length-body packet of type t.
func PutZeroLength311(t PacketType, out []byte) error {
	enc := NewEncoder(out)
	return PutHeader(enc, Header{Type: t, RemainingLength: 0})
}
