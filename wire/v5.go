package wire

import "github.com/axonmq/mqttwire/topic"

// Packet structs and codecs for MQTT protocol level 5 (v5.0). Grounded on
// the teacher's encoding/packets_mqtt5.go (decode side) and encoding/encoder.go
// (encode side), generalized onto the Decoder/Encoder cursor pair and the
// per-packet-type property allow-lists from properties.go.

// DecodeConnect5 decodes a v5 CONNECT body.
func DecodeConnect5(dec *Decoder, strict bool) (*Connect, error) {
	version, err := ConnectVersion(dec)
	if err != nil {
		return nil, err
	}
	if version != Version5 {
		return nil, wrap(ErrUnexpectedVersion, "not a v5 CONNECT")
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
	props, err := DecodeProperties(dec, allowedProperties[CONNECT])
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

	c := &Connect{Version: version, Flags: flags, KeepAlive: keepAlive, Properties: props, ClientID: clientID}

	if flags.WillFlag {
		c.WillProps, err = DecodeProperties(dec, willProperties)
		if err != nil {
			return nil, err
		}
		c.WillTopic, err = dec.SplitUTF8String()
		if err != nil {
			return nil, err
		}
		if err := topic.ValidateTopic(c.WillTopic); err != nil {
			return nil, wrapTopicErr(err)
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

// ValidateConnect5 sizes a v5 CONNECT for encoding.
func ValidateConnect5(c *Connect) (remainingLen uint32, totalBytes int, err error) {
	n := 2 + len(protocolName) + 1 + 1 + 2
	props := c.Properties
	if props == nil {
		props = &Properties{}
	}
	propsLen, err := PropertiesEncodedLen(props)
	if err != nil {
		return 0, 0, err
	}
	propsPrefixLen, err := EncodedLen(uint32(propsLen))
	if err != nil {
		return 0, 0, err
	}
	n += propsPrefixLen + propsLen
	n += 2 + len(c.ClientID)

	if c.Flags.WillFlag {
		willProps := c.WillProps
		if willProps == nil {
			willProps = &Properties{}
		}
		wpLen, err := PropertiesEncodedLen(willProps)
		if err != nil {
			return 0, 0, err
		}
		wpPrefixLen, err := EncodedLen(uint32(wpLen))
		if err != nil {
			return 0, 0, err
		}
		n += wpPrefixLen + wpLen
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

// PopulateConnect5 writes c to out.
func PopulateConnect5(c *Connect, remainingLen uint32, out []byte) error {
	enc := NewEncoder(out)
	if err := PutHeader(enc, Header{Type: CONNECT, RemainingLength: remainingLen}); err != nil {
		return err
	}
	if err := enc.PutUTF8String(protocolName); err != nil {
		return err
	}
	if err := enc.PutU8(byte(Version5)); err != nil {
		return err
	}
	if err := enc.PutU8(c.Flags.Byte()); err != nil {
		return err
	}
	if err := enc.PutU16(c.KeepAlive); err != nil {
		return err
	}
	props := c.Properties
	if props == nil {
		props = &Properties{}
	}
	if err := PutProperties(enc, props); err != nil {
		return err
	}
	if err := enc.PutUTF8String(c.ClientID); err != nil {
		return err
	}
	if c.Flags.WillFlag {
		willProps := c.WillProps
		if willProps == nil {
			willProps = &Properties{}
		}
		if err := PutProperties(enc, willProps); err != nil {
			return err
		}
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

// DecodeConnack5 decodes a v5 CONNACK body.
func DecodeConnack5(dec *Decoder) (*Connack, error) {
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
	if sessionPresent && code != byte(ReasonSuccess) {
		return nil, ErrInvalidConnack
	}
	props, err := DecodeProperties(dec, allowedProperties[CONNACK])
	if err != nil {
		return nil, err
	}
	return &Connack{SessionPresent: sessionPresent, Code: code, Properties: props}, dec.Finalize()
}

// ValidateConnack5 sizes a v5 CONNACK.
func ValidateConnack5(c *Connack) (remainingLen uint32, totalBytes int, err error) {
	props := c.Properties
	if props == nil {
		props = &Properties{}
	}
	propsLen, err := PropertiesEncodedLen(props)
	if err != nil {
		return 0, 0, err
	}
	prefixLen, err := EncodedLen(uint32(propsLen))
	if err != nil {
		return 0, 0, err
	}
	n := 2 + prefixLen + propsLen
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

// PopulateConnack5 writes c to out.
func PopulateConnack5(c *Connack, remainingLen uint32, out []byte) error {
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
	if err := enc.PutU8(c.Code); err != nil {
		return err
	}
	props := c.Properties
	if props == nil {
		props = &Properties{}
	}
	return PutProperties(enc, props)
}

// DecodePublish5 decodes a v5 PUBLISH body.
func DecodePublish5(dec *Decoder, h Header) (*Publish, error) {
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
	p.Properties, err = DecodeProperties(dec, allowedProperties[PUBLISH])
	if err != nil {
		return nil, err
	}
	p.Payload = dec.SplitOffRest().Bytes()
	return p, nil
}

// ValidatePublish5 sizes a v5 PUBLISH.
func ValidatePublish5(p *Publish, qos QoS) (remainingLen uint32, totalBytes int, err error) {
	n := 2 + len(p.Topic)
	if qos != QoS0 {
		n += 2
	}
	props := p.Properties
	if props == nil {
		props = &Properties{}
	}
	propsLen, err := PropertiesEncodedLen(props)
	if err != nil {
		return 0, 0, err
	}
	prefixLen, err := EncodedLen(uint32(propsLen))
	if err != nil {
		return 0, 0, err
	}
	n += prefixLen + propsLen + len(p.Payload)
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

// PopulatePublish5 writes p to out.
func PopulatePublish5(p *Publish, dup bool, qos QoS, retain bool, remainingLen uint32, out []byte) error {
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
	props := p.Properties
	if props == nil {
		props = &Properties{}
	}
	if err := PutProperties(enc, props); err != nil {
		return err
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

// Ack is the shared v5 shape of PUBACK, PUBREC, PUBREL, and PUBCOMP: a
// packet id, an optional reason code (defaulting to Success when the body
// is short), and optional properties.
type Ack struct {
	PacketID   uint16
	ReasonCode ReasonCode
	Properties *Properties
}

// DecodeAck5 decodes the shared PUBACK/PUBREC/PUBREL/PUBCOMP body shape for
// packet type pt.
func DecodeAck5(dec *Decoder, pt PacketType) (*Ack, error) {
	id, err := dec.SplitPacketID()
	if err != nil {
		return nil, err
	}
	a := &Ack{PacketID: id, ReasonCode: ReasonSuccess}
	if dec.Len() == 0 {
		return a, nil
	}
	rc, err := dec.SplitU8()
	if err != nil {
		return nil, err
	}
	a.ReasonCode = ReasonCode(rc)
	if dec.Len() == 0 {
		return a, dec.Finalize()
	}
	a.Properties, err = DecodeProperties(dec, allowedProperties[pt])
	if err != nil {
		return nil, err
	}
	return a, dec.Finalize()
}

// ValidateAck5 sizes a PUBACK/PUBREC/PUBREL/PUBCOMP body. The reason code
// and property section are both omittable when the reason is Success and
// there are no properties, matching the v5 spec's shortened forms.
func ValidateAck5(a *Ack) (remainingLen uint32, totalBytes int, err error) {
	hasProps := a.Properties != nil && len(a.Properties.List) > 0
	n := 2
	switch {
	case hasProps:
		n++
		propsLen, perr := PropertiesEncodedLen(a.Properties)
		if perr != nil {
			return 0, 0, perr
		}
		prefixLen, perr := EncodedLen(uint32(propsLen))
		if perr != nil {
			return 0, 0, perr
		}
		n += prefixLen + propsLen
	case a.ReasonCode != ReasonSuccess:
		n++
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

// PopulateAck5 writes a to out as packet type pt with fixed header flags
// (PUBREL requires 0x02).
func PopulateAck5(pt PacketType, flags byte, a *Ack, remainingLen uint32, out []byte) error {
	enc := NewEncoder(out)
	if err := PutHeader(enc, Header{Type: pt, Flags: flags, RemainingLength: remainingLen}); err != nil {
		return err
	}
	if err := enc.PutPacketID(a.PacketID); err != nil {
		return err
	}
	if remainingLen == 2 {
		return nil
	}
	if err := enc.PutU8(byte(a.ReasonCode)); err != nil {
		return err
	}
	if remainingLen == 3 {
		return nil
	}
	props := a.Properties
	if props == nil {
		props = &Properties{}
	}
	return PutProperties(enc, props)
}

// SubscriptionOptions is a v5 SUBSCRIBE subscription's full options byte:
// QoS plus no-local, retain-as-published, and retain-handling.
type SubscriptionOptions struct {
	QoS               QoS
	NoLocal           bool
	RetainAsPublished bool
	RetainHandling    byte
}

// DecodeSubscriptionOptions decodes and validates a v5 subscription options
// byte: reserved bits 6-7 must be zero, and retain-handling (bits 4-5) must
// be 0, 1, or 2.
func DecodeSubscriptionOptions(b byte) (SubscriptionOptions, error) {
	if b&0xC0 != 0 {
		return SubscriptionOptions{}, wrap(ErrInvalidSubscriptionOptions, "reserved bits set")
	}
	o := SubscriptionOptions{
		QoS:               QoS(b & 0x03),
		NoLocal:           b&0x04 != 0,
		RetainAsPublished: b&0x08 != 0,
		RetainHandling:    (b & 0x30) >> 4,
	}
	if !o.QoS.IsValid() {
		return SubscriptionOptions{}, wrap(ErrInvalidQoS, "subscription QoS bits == 0b11")
	}
	if o.RetainHandling > 2 {
		return SubscriptionOptions{}, wrap(ErrInvalidSubscriptionOptions, "retain handling > 2")
	}
	return o, nil
}

// Byte packs o back into a subscription options byte.
func (o SubscriptionOptions) Byte() byte {
	b := byte(o.QoS)
	if o.NoLocal {
		b |= 0x04
	}
	if o.RetainAsPublished {
		b |= 0x08
	}
	b |= (o.RetainHandling & 0x03) << 4
	return b
}

// DecodeSubscribe5 decodes a v5 SUBSCRIBE body.
func DecodeSubscribe5(dec *Decoder) (uint16, *Properties, []Subscription, error) {
	id, err := dec.SplitPacketID()
	if err != nil {
		return 0, nil, nil, err
	}
	props, err := DecodeProperties(dec, allowedProperties[SUBSCRIBE])
	if err != nil {
		return 0, nil, nil, err
	}
	var subs []Subscription
	for dec.Len() > 0 {
		filter, err := dec.SplitUTF8String()
		if err != nil {
			return 0, nil, nil, err
		}
		if err := topic.ValidateTopicFilter(filter); err != nil {
			return 0, nil, nil, wrapTopicErr(err)
		}
		optByte, err := dec.SplitU8()
		if err != nil {
			return 0, nil, nil, err
		}
		opts, err := DecodeSubscriptionOptions(optByte)
		if err != nil {
			return 0, nil, nil, err
		}
		subs = append(subs, Subscription{Filter: filter, QoS: opts.QoS, Options: opts})
	}
	if len(subs) == 0 {
		return 0, nil, nil, ErrEmptySubscriptionList
	}
	return id, props, subs, nil
}

// ValidateSubscribe5 sizes a v5 SUBSCRIBE.
func ValidateSubscribe5(props *Properties, subs []Subscription) (remainingLen uint32, totalBytes int, err error) {
	if props == nil {
		props = &Properties{}
	}
	propsLen, err := PropertiesEncodedLen(props)
	if err != nil {
		return 0, 0, err
	}
	prefixLen, err := EncodedLen(uint32(propsLen))
	if err != nil {
		return 0, 0, err
	}
	n := 2 + prefixLen + propsLen
	for _, s := range subs {
		n += 2 + len(s.Filter) + 1
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

// PopulateSubscribe5 writes a v5 SUBSCRIBE to out.
func PopulateSubscribe5(id uint16, props *Properties, subs []Subscription, remainingLen uint32, out []byte) error {
	enc := NewEncoder(out)
	if err := PutHeader(enc, Header{Type: SUBSCRIBE, Flags: 0x02, RemainingLength: remainingLen}); err != nil {
		return err
	}
	if err := enc.PutPacketID(id); err != nil {
		return err
	}
	if props == nil {
		props = &Properties{}
	}
	if err := PutProperties(enc, props); err != nil {
		return err
	}
	for _, s := range subs {
		if err := enc.PutUTF8String(s.Filter); err != nil {
			return err
		}
		if err := enc.PutU8(s.Options.Byte()); err != nil {
			return err
		}
	}
	return nil
}

func isValidSubackReason(b byte) bool {
	switch ReasonCode(b) {
	case ReasonGrantedQoS0, ReasonGrantedQoS1, ReasonGrantedQoS2,
		ReasonUnspecifiedError, ReasonImplementationSpecificError, ReasonNotAuthorized,
		ReasonTopicFilterInvalid, ReasonPacketIdentifierInUse, ReasonQuotaExceeded,
		ReasonSharedSubscriptionsNotSupported, ReasonSubscriptionIdentifiersNotSupported,
		ReasonWildcardSubscriptionsNotSupported:
		return true
	default:
		return false
	}
}

// DecodeSuback5 decodes a v5 SUBACK body.
func DecodeSuback5(dec *Decoder) (uint16, *Properties, []byte, error) {
	id, err := dec.SplitPacketID()
	if err != nil {
		return 0, nil, nil, err
	}
	props, err := DecodeProperties(dec, allowedProperties[SUBACK])
	if err != nil {
		return 0, nil, nil, err
	}
	codes := dec.SplitOffRest().Bytes()
	if len(codes) == 0 {
		return 0, nil, nil, ErrEmptySubscriptionList
	}
	for _, c := range codes {
		if !isValidSubackReason(c) {
			return 0, nil, nil, wrap(ErrInvalidSubackCode, "reason code not valid for SUBACK")
		}
	}
	return id, props, codes, nil
}

// PopulateSuback5 writes a v5 SUBACK to out.
func PopulateSuback5(id uint16, props *Properties, codes []byte, out []byte) error {
	enc := NewEncoder(out)
	if props == nil {
		props = &Properties{}
	}
	propsLen, err := PropertiesEncodedLen(props)
	if err != nil {
		return err
	}
	prefixLen, err := EncodedLen(uint32(propsLen))
	if err != nil {
		return err
	}
	n := uint32(2 + prefixLen + propsLen + len(codes))
	if err := PutHeader(enc, Header{Type: SUBACK, RemainingLength: n}); err != nil {
		return err
	}
	if err := enc.PutPacketID(id); err != nil {
		return err
	}
	if err := PutProperties(enc, props); err != nil {
		return err
	}
	for _, c := range codes {
		if err := enc.PutU8(c); err != nil {
			return err
		}
	}
	return nil
}

// DecodeUnsubscribe5 decodes a v5 UNSUBSCRIBE body.
func DecodeUnsubscribe5(dec *Decoder) (uint16, *Properties, []string, error) {
	id, err := dec.SplitPacketID()
	if err != nil {
		return 0, nil, nil, err
	}
	props, err := DecodeProperties(dec, allowedProperties[UNSUBSCRIBE])
	if err != nil {
		return 0, nil, nil, err
	}
	var filters []string
	for dec.Len() > 0 {
		f, err := dec.SplitUTF8String()
		if err != nil {
			return 0, nil, nil, err
		}
		if err := topic.ValidateTopicFilter(f); err != nil {
			return 0, nil, nil, wrapTopicErr(err)
		}
		filters = append(filters, f)
	}
	if len(filters) == 0 {
		return 0, nil, nil, ErrEmptyUnsubscribeList
	}
	return id, props, filters, nil
}

// PopulateUnsubscribe5 writes a v5 UNSUBSCRIBE to out.
func PopulateUnsubscribe5(id uint16, props *Properties, filters []string, remainingLen uint32, out []byte) error {
	enc := NewEncoder(out)
	if err := PutHeader(enc, Header{Type: UNSUBSCRIBE, Flags: 0x02, RemainingLength: remainingLen}); err != nil {
		return err
	}
	if err := enc.PutPacketID(id); err != nil {
		return err
	}
	if props == nil {
		props = &Properties{}
	}
	if err := PutProperties(enc, props); err != nil {
		return err
	}
	for _, f := range filters {
		if err := enc.PutUTF8String(f); err != nil {
			return err
		}
	}
	return nil
}

// ValidateUnsubscribe5 sizes a v5 UNSUBSCRIBE.
func ValidateUnsubscribe5(props *Properties, filters []string) (remainingLen uint32, totalBytes int, err error) {
	if props == nil {
		props = &Properties{}
	}
	propsLen, err := PropertiesEncodedLen(props)
	if err != nil {
		return 0, 0, err
	}
	prefixLen, err := EncodedLen(uint32(propsLen))
	if err != nil {
		return 0, 0, err
	}
	n := 2 + prefixLen + propsLen
	for _, f := range filters {
		n += 2 + len(f)
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

// DecodeUnsuback5 decodes a v5 UNSUBACK body.
func DecodeUnsuback5(dec *Decoder) (uint16, *Properties, []byte, error) {
	id, err := dec.SplitPacketID()
	if err != nil {
		return 0, nil, nil, err
	}
	props, err := DecodeProperties(dec, allowedProperties[UNSUBACK])
	if err != nil {
		return 0, nil, nil, err
	}
	codes := dec.SplitOffRest().Bytes()
	if len(codes) == 0 {
		return 0, nil, nil, ErrEmptyUnsubscribeList
	}
	return id, props, codes, nil
}

// PopulateUnsuback5 writes a v5 UNSUBACK to out.
func PopulateUnsuback5(id uint16, props *Properties, codes []byte, out []byte) error {
	enc := NewEncoder(out)
	if props == nil {
		props = &Properties{}
	}
	propsLen, err := PropertiesEncodedLen(props)
	if err != nil {
		return err
	}
	prefixLen, err := EncodedLen(uint32(propsLen))
	if err != nil {
		return err
	}
	n := uint32(2 + prefixLen + propsLen + len(codes))
	if err := PutHeader(enc, Header{Type: UNSUBACK, RemainingLength: n}); err != nil {
		return err
	}
	if err := enc.PutPacketID(id); err != nil {
		return err
	}
	if err := PutProperties(enc, props); err != nil {
		return err
	}
	for _, c := range codes {
		if err := enc.PutU8(c); err != nil {
			return err
		}
	}
	return nil
}

// ReasonAndProps is the shared v5 shape of DISCONNECT and AUTH: no packet
// id, just an optional reason code and properties.
type ReasonAndProps struct {
	ReasonCode ReasonCode
	Properties *Properties
}

// DecodeReasonAndProps5 decodes the shared DISCONNECT/AUTH body shape for
// packet type pt.
func DecodeReasonAndProps5(dec *Decoder, pt PacketType) (*ReasonAndProps, error) {
	if dec.Len() == 0 {
		return &ReasonAndProps{ReasonCode: ReasonSuccess}, nil
	}
	rc, err := dec.SplitU8()
	if err != nil {
		return nil, err
	}
	r := &ReasonAndProps{ReasonCode: ReasonCode(rc)}
	if dec.Len() == 0 {
		return r, dec.Finalize()
	}
	r.Properties, err = DecodeProperties(dec, allowedProperties[pt])
	if err != nil {
		return nil, err
	}
	return r, dec.Finalize()
}

// ValidateReasonAndProps5 sizes a DISCONNECT/AUTH body.
func ValidateReasonAndProps5(r *ReasonAndProps) (remainingLen uint32, totalBytes int, err error) {
	hasProps := r.Properties != nil && len(r.Properties.List) > 0
	n := 0
	switch {
	case hasProps:
		n++
		propsLen, perr := PropertiesEncodedLen(r.Properties)
		if perr != nil {
			return 0, 0, perr
		}
		prefixLen, perr := EncodedLen(uint32(propsLen))
		if perr != nil {
			return 0, 0, perr
		}
		n += prefixLen + propsLen
	case r.ReasonCode != ReasonSuccess:
		n++
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

// PopulateReasonAndProps5 writes r to out as packet type pt.
func PopulateReasonAndProps5(pt PacketType, r *ReasonAndProps, remainingLen uint32, out []byte) error {
	enc := NewEncoder(out)
	if err := PutHeader(enc, Header{Type: pt, RemainingLength: remainingLen}); err != nil {
		return err
	}
	if remainingLen == 0 {
		return nil
	}
	if err := enc.PutU8(byte(r.ReasonCode)); err != nil {
		return err
	}
	if remainingLen == 1 {
		return nil
	}
	props := r.Properties
	if props == nil {
		props = &Properties{}
	}
	return PutProperties(enc, props)
}
