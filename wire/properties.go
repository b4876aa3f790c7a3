package wire

import "golang.org/x/exp/slices"

// PropertyID identifies an MQTT v5 property. Grounded on the teacher's
// encoding/properties.go registry; the id values are fixed by the MQTT v5
// spec.
type PropertyID byte

const (
	PropPayloadFormatIndicator           PropertyID = 0x01
	PropMessageExpiryInterval            PropertyID = 0x02
	PropContentType                      PropertyID = 0x03
	PropResponseTopic                    PropertyID = 0x08
	PropCorrelationData                  PropertyID = 0x09
	PropSubscriptionIdentifier           PropertyID = 0x0B
	PropSessionExpiryInterval            PropertyID = 0x11
	PropAssignedClientIdentifier         PropertyID = 0x12
	PropServerKeepAlive                  PropertyID = 0x13
	PropAuthenticationMethod             PropertyID = 0x15
	PropAuthenticationData               PropertyID = 0x16
	PropRequestProblemInformation        PropertyID = 0x17
	PropWillDelayInterval                PropertyID = 0x18
	PropRequestResponseInformation       PropertyID = 0x19
	PropResponseInformation              PropertyID = 0x1A
	PropServerReference                  PropertyID = 0x1C
	PropReasonString                     PropertyID = 0x1F
	PropReceiveMaximum                   PropertyID = 0x21
	PropTopicAliasMaximum                PropertyID = 0x22
	PropTopicAlias                       PropertyID = 0x23
	PropMaximumQoS                       PropertyID = 0x24
	PropRetainAvailable                  PropertyID = 0x25
	PropUserProperty                     PropertyID = 0x26
	PropMaximumPacketSize                PropertyID = 0x27
	PropWildcardSubscriptionAvailable    PropertyID = 0x28
	PropSubscriptionIdentifierAvailable  PropertyID = 0x29
	PropSharedSubscriptionAvailable      PropertyID = 0x2A
)

func (id PropertyID) String() string {
	switch id {
	case PropPayloadFormatIndicator:
		return "PayloadFormatIndicator"
	case PropMessageExpiryInterval:
		return "MessageExpiryInterval"
	case PropContentType:
		return "ContentType"
	case PropResponseTopic:
		return "ResponseTopic"
	case PropCorrelationData:
		return "CorrelationData"
	case PropSubscriptionIdentifier:
		return "SubscriptionIdentifier"
	case PropSessionExpiryInterval:
		return "SessionExpiryInterval"
	case PropAssignedClientIdentifier:
		return "AssignedClientIdentifier"
	case PropServerKeepAlive:
		return "ServerKeepAlive"
	case PropAuthenticationMethod:
		return "AuthenticationMethod"
	case PropAuthenticationData:
		return "AuthenticationData"
	case PropRequestProblemInformation:
		return "RequestProblemInformation"
	case PropWillDelayInterval:
		return "WillDelayInterval"
	case PropRequestResponseInformation:
		return "RequestResponseInformation"
	case PropResponseInformation:
		return "ResponseInformation"
	case PropServerReference:
		return "ServerReference"
	case PropReasonString:
		return "ReasonString"
	case PropReceiveMaximum:
		return "ReceiveMaximum"
	case PropTopicAliasMaximum:
		return "TopicAliasMaximum"
	case PropTopicAlias:
		return "TopicAlias"
	case PropMaximumQoS:
		return "MaximumQoS"
	case PropRetainAvailable:
		return "RetainAvailable"
	case PropUserProperty:
		return "UserProperty"
	case PropMaximumPacketSize:
		return "MaximumPacketSize"
	case PropWildcardSubscriptionAvailable:
		return "WildcardSubscriptionAvailable"
	case PropSubscriptionIdentifierAvailable:
		return "SubscriptionIdentifierAvailable"
	case PropSharedSubscriptionAvailable:
		return "SharedSubscriptionAvailable"
	default:
		return "Unknown"
	}
}

// PropertyType is the wire payload shape a PropertyID decodes to.
type PropertyType byte

const (
	PropertyTypeByte PropertyType = iota + 1
	PropertyTypeTwoByteInt
	PropertyTypeFourByteInt
	PropertyTypeVarInt
	PropertyTypeUTF8String
	PropertyTypeUTF8Pair
	PropertyTypeBinaryData
)

// UTF8Pair is a v5 user-property (key, value), both UTF-8 strings.
type UTF8Pair struct {
	Key   string
	Value string
}

// Property is one decoded id/value pair. Value holds byte, uint16, uint32,
// string, []byte, or UTF8Pair depending on the id's PropertyType.
type Property struct {
	ID    PropertyID
	Value interface{}
}

// Properties is a decoded property section.
type Properties struct {
	List []Property
}

// GetProperty returns the first value stored under id, grounded on the
// teacher's Properties.GetProperty.
func (p *Properties) GetProperty(id PropertyID) (interface{}, bool) {
	for _, prop := range p.List {
		if prop.ID == id {
			return prop.Value, true
		}
	}
	return nil, false
}

// GetProperties returns every value stored under id, for repeatable
// properties such as user_property and subscription_identifier.
func (p *Properties) GetProperties(id PropertyID) []interface{} {
	var out []interface{}
	for _, prop := range p.List {
		if prop.ID == id {
			out = append(out, prop.Value)
		}
	}
	return out
}

type propertySpec struct {
	Type     PropertyType
	Multiple bool
}

var propertySpecs = map[PropertyID]propertySpec{
	PropPayloadFormatIndicator:          {PropertyTypeByte, false},
	PropMessageExpiryInterval:           {PropertyTypeFourByteInt, false},
	PropContentType:                     {PropertyTypeUTF8String, false},
	PropResponseTopic:                   {PropertyTypeUTF8String, false},
	PropCorrelationData:                 {PropertyTypeBinaryData, false},
	PropSubscriptionIdentifier:          {PropertyTypeVarInt, true},
	PropSessionExpiryInterval:           {PropertyTypeFourByteInt, false},
	PropAssignedClientIdentifier:        {PropertyTypeUTF8String, false},
	PropServerKeepAlive:                 {PropertyTypeTwoByteInt, false},
	PropAuthenticationMethod:            {PropertyTypeUTF8String, false},
	PropAuthenticationData:              {PropertyTypeBinaryData, false},
	PropRequestProblemInformation:       {PropertyTypeByte, false},
	PropWillDelayInterval:               {PropertyTypeFourByteInt, false},
	PropRequestResponseInformation:      {PropertyTypeByte, false},
	PropResponseInformation:             {PropertyTypeUTF8String, false},
	PropServerReference:                 {PropertyTypeUTF8String, false},
	PropReasonString:                    {PropertyTypeUTF8String, false},
	PropReceiveMaximum:                  {PropertyTypeTwoByteInt, false},
	PropTopicAliasMaximum:               {PropertyTypeTwoByteInt, false},
	PropTopicAlias:                      {PropertyTypeTwoByteInt, false},
	PropMaximumQoS:                      {PropertyTypeByte, false},
	PropRetainAvailable:                 {PropertyTypeByte, false},
	PropUserProperty:                    {PropertyTypeUTF8Pair, true},
	PropMaximumPacketSize:               {PropertyTypeFourByteInt, false},
	PropWildcardSubscriptionAvailable:   {PropertyTypeByte, false},
	PropSubscriptionIdentifierAvailable: {PropertyTypeByte, false},
	PropSharedSubscriptionAvailable:     {PropertyTypeByte, false},
}

// allowedProperties gives the per-packet-type allowed subset the teacher's
// global registry does not enforce. Packet types absent from this map carry
// no property section at all (PINGREQ/PINGRESP, and every v3.1.1 packet).
var allowedProperties = map[PacketType][]PropertyID{
	CONNECT: {
		PropSessionExpiryInterval, PropAuthenticationMethod, PropAuthenticationData,
		PropRequestProblemInformation, PropRequestResponseInformation, PropReceiveMaximum,
		PropTopicAliasMaximum, PropUserProperty, PropMaximumPacketSize,
	},
	CONNACK: {
		PropSessionExpiryInterval, PropAssignedClientIdentifier, PropServerKeepAlive,
		PropAuthenticationMethod, PropAuthenticationData, PropResponseInformation,
		PropServerReference, PropReasonString, PropReceiveMaximum, PropTopicAliasMaximum,
		PropMaximumQoS, PropRetainAvailable, PropUserProperty, PropMaximumPacketSize,
		PropWildcardSubscriptionAvailable, PropSubscriptionIdentifierAvailable,
		PropSharedSubscriptionAvailable,
	},
	PUBLISH: {
		PropPayloadFormatIndicator, PropMessageExpiryInterval, PropContentType,
		PropResponseTopic, PropCorrelationData, PropSubscriptionIdentifier,
		PropTopicAlias, PropUserProperty,
	},
	PUBACK:    {PropReasonString, PropUserProperty},
	PUBREC:    {PropReasonString, PropUserProperty},
	PUBREL:    {PropReasonString, PropUserProperty},
	PUBCOMP:   {PropReasonString, PropUserProperty},
	SUBSCRIBE: {PropSubscriptionIdentifier, PropUserProperty},
	SUBACK:    {PropReasonString, PropUserProperty},
	UNSUBSCRIBE: {PropUserProperty},
	UNSUBACK:    {PropReasonString, PropUserProperty},
	DISCONNECT: {
		PropSessionExpiryInterval, PropServerReference, PropReasonString, PropUserProperty,
	},
	AUTH: {
		PropAuthenticationMethod, PropAuthenticationData, PropReasonString, PropUserProperty,
	},
}

// willProperties is the allowed subset of the separate property section
// carried by a CONNECT packet's will payload, distinct from the main
// CONNECT property section above.
var willProperties = []PropertyID{
	PropPayloadFormatIndicator, PropMessageExpiryInterval, PropContentType,
	PropResponseTopic, PropCorrelationData, PropWillDelayInterval, PropUserProperty,
}

// maxPropertyID bounds the uniqueness bitset below; every PropertyID
// constant is <= 0x2A.
const maxPropertyID = 0x2A

// DecodeProperties reads a v5 property section: a uvar length prefix
// followed by that many bytes of id/payload pairs. allowed restricts which
// ids are legal for the enclosing packet type (or the will-properties
// subset, via willProperties) — anything else fails with ErrInvalidProperty.
// A second occurrence of a non-repeatable id fails with
// ErrInvalidDuplicateProperty. Grounded on the teacher's
// encoding/properties.go ParseProperties, generalized onto Decoder/Encoder
// and given the per-packet-type allow-list the teacher's global registry
// lacked.
func DecodeProperties(dec *Decoder, allowed []PropertyID) (*Properties, error) {
	length, err := dec.SplitUvar()
	if err != nil {
		return nil, err
	}
	sub, err := dec.SplitOff(int(length))
	if err != nil {
		return nil, err
	}

	props := &Properties{}
	var seen [maxPropertyID + 1]bool

	for sub.Len() > 0 {
		rawID, err := sub.SplitUvar()
		if err != nil {
			return nil, err
		}
		if rawID > maxPropertyID {
			return nil, newErrf(KindInvalidProperty, ReasonMalformedPacket, "mqttwire: property id %#x not allowed here", rawID)
		}
		id := PropertyID(rawID)

		spec, known := propertySpecs[id]
		if !known || !slices.Contains(allowed, id) {
			return nil, newErrf(KindInvalidProperty, ReasonMalformedPacket, "mqttwire: property %s not allowed here", id)
		}
		if !spec.Multiple {
			if id <= maxPropertyID && seen[id] {
				return nil, wrap(ErrInvalidDuplicateProperty, id.String())
			}
			seen[id] = true
		}

		value, err := readPropertyValue(sub, id, spec.Type)
		if err != nil {
			return nil, err
		}
		props.List = append(props.List, Property{ID: id, Value: value})
	}

	return props, nil
}

func readPropertyValue(dec *Decoder, id PropertyID, t PropertyType) (interface{}, error) {
	switch t {
	case PropertyTypeByte:
		v, err := dec.SplitU8()
		if err != nil {
			return nil, err
		}
		if id == PropPayloadFormatIndicator && v > 1 {
			return nil, wrap(ErrInvalidPropertyPayload, "payload format indicator not 0 or 1")
		}
		return v, nil
	case PropertyTypeTwoByteInt:
		return dec.SplitU16()
	case PropertyTypeFourByteInt:
		return dec.SplitU32()
	case PropertyTypeVarInt:
		v, err := dec.SplitUvar()
		if err != nil {
			return nil, err
		}
		if id == PropSubscriptionIdentifier && v == 0 {
			return nil, wrap(ErrInvalidPropertyPayload, "subscription identifier is 0")
		}
		return v, nil
	case PropertyTypeUTF8String:
		return dec.SplitUTF8String()
	case PropertyTypeUTF8Pair:
		k, err := dec.SplitUTF8String()
		if err != nil {
			return nil, err
		}
		v, err := dec.SplitUTF8String()
		if err != nil {
			return nil, err
		}
		return UTF8Pair{Key: k, Value: v}, nil
	case PropertyTypeBinaryData:
		b, err := dec.SplitByteString()
		if err != nil {
			return nil, err
		}
		return b, nil
	default:
		return nil, wrap(ErrInvalidPropertyPayload, "unknown property type")
	}
}

// PropertiesEncodedLen reports the byte length of props once encoded, not
// including the length-prefix uvar itself — encoders need this both to size
// the prefix and to size the enclosing packet's remaining length.
func PropertiesEncodedLen(props *Properties) (int, error) {
	total := 0
	for _, p := range props.List {
		n, err := EncodedLen(uint32(p.ID))
		if err != nil {
			return 0, err
		}
		total += n
		pn, err := propertyValueLen(p)
		if err != nil {
			return 0, err
		}
		total += pn
	}
	return total, nil
}

func propertyValueLen(p Property) (int, error) {
	switch v := p.Value.(type) {
	case byte:
		return 1, nil
	case uint16:
		return 2, nil
	case uint32:
		if spec, ok := propertySpecs[p.ID]; ok && spec.Type == PropertyTypeVarInt {
			return EncodedLen(v)
		}
		return 4, nil
	case string:
		return 2 + len(v), nil
	case []byte:
		return 2 + len(v), nil
	case UTF8Pair:
		return 2 + len(v.Key) + 2 + len(v.Value), nil
	default:
		return 0, wrap(ErrInvalidPropertyPayload, "unrecognized property value type")
	}
}

// PutProperties writes props to enc as a length-prefixed property section.
func PutProperties(enc *Encoder, props *Properties) error {
	n, err := PropertiesEncodedLen(props)
	if err != nil {
		return err
	}
	if err := enc.PutUvar(uint32(n)); err != nil {
		return err
	}
	for _, p := range props.List {
		if err := enc.PutUvar(uint32(p.ID)); err != nil {
			return err
		}
		if err := putPropertyValue(enc, p); err != nil {
			return err
		}
	}
	return nil
}

func putPropertyValue(enc *Encoder, p Property) error {
	switch v := p.Value.(type) {
	case byte:
		return enc.PutU8(v)
	case uint16:
		return enc.PutU16(v)
	case uint32:
		if spec, ok := propertySpecs[p.ID]; ok && spec.Type == PropertyTypeVarInt {
			return enc.PutUvar(v)
		}
		return enc.PutU32(v)
	case string:
		return enc.PutUTF8String(v)
	case []byte:
		return enc.PutByteString(v)
	case UTF8Pair:
		if err := enc.PutUTF8String(v.Key); err != nil {
			return err
		}
		return enc.PutUTF8String(v.Value)
	default:
		return wrap(ErrInvalidPropertyPayload, "unrecognized property value type")
	}
}
