// Package wire implements the MQTT control-packet wire format for protocol
// levels 4 (v3.1.1) and 5 (v5.0): variable-length integers, UTF-8 strings,
// fixed headers, the streaming packet splitter, and per-message-type
// decoders and encoders. It performs no transport I/O and holds no session
// state; callers own buffers, sockets, and connection lifecycles.
package wire

import (
	"github.com/cockroachdb/errors"
)

// ErrorKind is the closed set of error conditions the codec can report.
// Every error this package returns satisfies errors.Is against the sentinel
// of its ErrorKind. (*Error).Is compares kinds only, so an error also
// matches every other sentinel of the same kind, including the cross-field
// sentinels at the end of the var block below.
type ErrorKind uint8

const (
	KindIncompleteBuffer ErrorKind = iota
	KindPacketLengthMismatch
	KindPacketTooLarge
	KindInvalidMessageType
	KindInvalidFlags
	KindInvalidQoS
	KindInvalidUvar
	KindInvalidBool
	KindInvalidUTF8
	KindInternalNull
	KindInvalidStringLength
	KindInvalidEmptyFilter
	KindInvalidWildcard
	KindInvalidWildcardPosition
	KindInvalidProtocolName
	KindInvalidProtocolVersion
	KindInvalidPacketID
	KindInvalidClientID
	KindInvalidConnectFlags
	KindInvalidConnack
	KindInvalidReturnCode
	KindInvalidSubackCode
	KindInvalidSubscriptionOptions
	KindInvalidProperty
	KindInvalidDuplicateProperty
	KindInvalidPropertyPayload
	KindUnexpectedVersion
	KindUnexpectedMsgType
	KindUnexpectedLength
)

func (k ErrorKind) String() string {
	switch k {
	case KindIncompleteBuffer:
		return "incomplete-buffer"
	case KindPacketLengthMismatch:
		return "packet-length-mismatch"
	case KindPacketTooLarge:
		return "packet-too-large"
	case KindInvalidMessageType:
		return "invalid-message-type"
	case KindInvalidFlags:
		return "invalid-flags"
	case KindInvalidQoS:
		return "invalid-qos"
	case KindInvalidUvar:
		return "invalid-uvar"
	case KindInvalidBool:
		return "invalid-bool"
	case KindInvalidUTF8:
		return "invalid-utf8"
	case KindInternalNull:
		return "internal-null"
	case KindInvalidStringLength:
		return "invalid-string-length"
	case KindInvalidEmptyFilter:
		return "invalid-empty-filter"
	case KindInvalidWildcard:
		return "invalid-wildcard"
	case KindInvalidWildcardPosition:
		return "invalid-wildcard-position"
	case KindInvalidProtocolName:
		return "invalid-protocol-name"
	case KindInvalidProtocolVersion:
		return "invalid-protocol-version"
	case KindInvalidPacketID:
		return "invalid-packet-id"
	case KindInvalidClientID:
		return "invalid-client-id"
	case KindInvalidConnectFlags:
		return "invalid-connect-flags"
	case KindInvalidConnack:
		return "invalid-connack"
	case KindInvalidReturnCode:
		return "invalid-return-code"
	case KindInvalidSubackCode:
		return "invalid-suback-code"
	case KindInvalidSubscriptionOptions:
		return "invalid-subscription-options"
	case KindInvalidProperty:
		return "invalid-property"
	case KindInvalidDuplicateProperty:
		return "invalid-duplicate-property"
	case KindInvalidPropertyPayload:
		return "invalid-property-payload"
	case KindUnexpectedVersion:
		return "unexpected-version"
	case KindUnexpectedMsgType:
		return "unexpected-msg-type"
	case KindUnexpectedLength:
		return "unexpected-length"
	default:
		return "unknown"
	}
}

// Error is the concrete error type returned by every decode/encode
// operation in this package. It carries the closed-set Kind alongside an
// MQTT v5 reason code suitable for a CONNACK/DISCONNECT, and wraps a cause
// built with cockroachdb/errors so a stack trace survives propagation out of
// the caller's own error-handling layer.
type Error struct {
	Kind       ErrorKind
	ReasonCode ReasonCode
	cause      error
}

func (e *Error) Error() string {
	return e.cause.Error()
}

func (e *Error) Unwrap() error {
	return e.cause
}

func newErr(kind ErrorKind, rc ReasonCode, msg string) *Error {
	return &Error{Kind: kind, ReasonCode: rc, cause: errors.New(msg)}
}

func newErrf(kind ErrorKind, rc ReasonCode, format string, args ...interface{}) *Error {
	return &Error{Kind: kind, ReasonCode: rc, cause: errors.Newf(format, args...)}
}

// Sentinel errors, one per ErrorKind, matching spec §7's taxonomy. Callers
// compare with errors.Is; all wrapped instances returned by this package
// unwrap to one of these.
var (
	ErrIncompleteBuffer        = newErr(KindIncompleteBuffer, ReasonSuccess, "mqttwire: incomplete buffer, await more bytes")
	ErrPacketLengthMismatch    = newErr(KindPacketLengthMismatch, ReasonMalformedPacket, "mqttwire: packet length mismatch")
	ErrPacketTooLarge          = newErr(KindPacketTooLarge, ReasonPacketTooLarge, "mqttwire: packet too large for address space")
	ErrInvalidMessageType      = newErr(KindInvalidMessageType, ReasonMalformedPacket, "mqttwire: invalid message type")
	ErrInvalidFlags            = newErr(KindInvalidFlags, ReasonMalformedPacket, "mqttwire: invalid fixed header flags")
	ErrInvalidQoS              = newErr(KindInvalidQoS, ReasonMalformedPacket, "mqttwire: invalid QoS bits")
	ErrInvalidUvar             = newErr(KindInvalidUvar, ReasonMalformedPacket, "mqttwire: invalid variable byte integer")
	ErrInvalidBool             = newErr(KindInvalidBool, ReasonMalformedPacket, "mqttwire: boolean byte not 0 or 1")
	ErrInvalidUTF8             = newErr(KindInvalidUTF8, ReasonMalformedPacket, "mqttwire: invalid UTF-8 string")
	ErrInternalNull            = newErr(KindInternalNull, ReasonMalformedPacket, "mqttwire: UTF-8 string contains U+0000")
	ErrInvalidStringLength     = newErr(KindInvalidStringLength, ReasonMalformedPacket, "mqttwire: string length exceeds 65535")
	ErrInvalidEmptyFilter      = newErr(KindInvalidEmptyFilter, ReasonTopicFilterInvalid, "mqttwire: empty topic filter")
	ErrInvalidWildcard         = newErr(KindInvalidWildcard, ReasonTopicNameInvalid, "mqttwire: topic name contains wildcard")
	ErrInvalidWildcardPosition = newErr(KindInvalidWildcardPosition, ReasonTopicFilterInvalid, "mqttwire: wildcard in invalid position")
	ErrInvalidProtocolName     = newErr(KindInvalidProtocolName, ReasonMalformedPacket, "mqttwire: invalid CONNECT protocol name")
	ErrInvalidProtocolVersion  = newErr(KindInvalidProtocolVersion, ReasonUnsupportedProtocolVersion, "mqttwire: unsupported protocol version")
	ErrInvalidPacketID         = newErr(KindInvalidPacketID, ReasonMalformedPacket, "mqttwire: packet id zero where non-zero required")
	ErrInvalidClientID         = newErr(KindInvalidClientID, ReasonClientIdentifierNotValid, "mqttwire: client id rejected by strict validation")
	ErrInvalidConnectFlags     = newErr(KindInvalidConnectFlags, ReasonMalformedPacket, "mqttwire: invalid CONNECT flags")
	ErrInvalidConnack          = newErr(KindInvalidConnack, ReasonMalformedPacket, "mqttwire: session-present set with non-zero return code")
	ErrInvalidReturnCode       = newErr(KindInvalidReturnCode, ReasonMalformedPacket, "mqttwire: invalid CONNACK return code")
	ErrInvalidSubackCode          = newErr(KindInvalidSubackCode, ReasonMalformedPacket, "mqttwire: invalid SUBACK return code")
	ErrInvalidSubscriptionOptions = newErr(KindInvalidSubscriptionOptions, ReasonMalformedPacket, "mqttwire: invalid subscription options byte")
	ErrInvalidProperty            = newErr(KindInvalidProperty, ReasonMalformedPacket, "mqttwire: property not allowed for this packet type")
	ErrInvalidDuplicateProperty   = newErr(KindInvalidDuplicateProperty, ReasonProtocolError, "mqttwire: unique property appears more than once")
	ErrInvalidPropertyPayload     = newErr(KindInvalidPropertyPayload, ReasonMalformedPacket, "mqttwire: malformed property payload")
	ErrUnexpectedVersion          = newErr(KindUnexpectedVersion, ReasonProtocolError, "mqttwire: unexpected protocol version")
	ErrUnexpectedMsgType          = newErr(KindUnexpectedMsgType, ReasonProtocolError, "mqttwire: unexpected message type")
	ErrUnexpectedLength           = newErr(KindUnexpectedLength, ReasonProtocolError, "mqttwire: unexpected length")

	// Cross-field semantic sentinels layered on top of the kinds above, kept
	// distinct because they name a specific rule rather than a generic shape
	// violation; all resolve to one of the ErrorKinds above via errors.Is.
	ErrEmptySubscriptionList    = newErr(KindPacketLengthMismatch, ReasonProtocolError, "mqttwire: SUBSCRIBE must carry at least one filter")
	ErrEmptyUnsubscribeList     = newErr(KindPacketLengthMismatch, ReasonProtocolError, "mqttwire: UNSUBSCRIBE must carry at least one filter")
	ErrWillFlagMismatch         = newErr(KindInvalidConnectFlags, ReasonMalformedPacket, "mqttwire: will QoS/retain set without will flag")
	ErrPasswordWithoutUsername  = newErr(KindInvalidConnectFlags, ReasonMalformedPacket, "mqttwire: password flag set without username flag")
)

// Is is errors.Is, re-exported so callers need not import cockroachdb/errors
// themselves just to compare against this package's sentinels.
func Is(err, target error) bool {
	return errors.Is(err, target)
}

// Kind reports the ErrorKind of err, walking its Unwrap chain. It returns
// false if err does not originate from this package.
func Kind(err error) (ErrorKind, bool) {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind, true
	}
	return 0, false
}

// ReasonCodeFor extracts the MQTT v5 reason code associated with err, or
// ReasonUnspecifiedError if err did not originate from this package.
func ReasonCodeFor(err error) ReasonCode {
	var e *Error
	if errors.As(err, &e) {
		return e.ReasonCode
	}
	return ReasonUnspecifiedError
}

// wrap attaches additional context to one of the sentinels above while
// preserving errors.Is/As against it.
func wrap(sentinel *Error, context string) error {
	return &Error{Kind: sentinel.Kind, ReasonCode: sentinel.ReasonCode, cause: errors.Wrap(sentinel.cause, context)}
}

func (e *Error) Is(target error) bool {
	te, ok := target.(*Error)
	if !ok {
		return false
	}
	return e.Kind == te.Kind
}
