package wire

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestReasonCodeStringKnownValues(t *testing.T) {
	tests := []struct {
		rc   ReasonCode
		want string
	}{
		{ReasonSuccess, "Success"},
		{ReasonGrantedQoS1, "GrantedQoS1"},
		{ReasonGrantedQoS2, "GrantedQoS2"},
		{ReasonUnspecifiedError, "UnspecifiedError"},
		{ReasonMalformedPacket, "MalformedPacket"},
		{ReasonProtocolError, "ProtocolError"},
		{ReasonClientIdentifierNotValid, "ClientIdentifierNotValid"},
		{ReasonTopicFilterInvalid, "TopicFilterInvalid"},
		{ReasonTopicNameInvalid, "TopicNameInvalid"},
		{ReasonPacketIdentifierInUse, "PacketIdentifierInUse"},
		{ReasonPacketTooLarge, "PacketTooLarge"},
		{ReasonWildcardSubscriptionsNotSupported, "WildcardSubscriptionsNotSupported"},
	}
	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.rc.String())
		})
	}
}

func TestReasonCodeStringUnknown(t *testing.T) {
	assert.Equal(t, "Unknown", ReasonCode(0xFF).String())
}

func TestReturnCodeStringKnownValues(t *testing.T) {
	tests := []struct {
		rc   ReturnCode
		want string
	}{
		{ReturnAccepted, "Accepted"},
		{ReturnRefusedUnacceptableProtocol, "RefusedUnacceptableProtocol"},
		{ReturnRefusedIdentifierRejected, "RefusedIdentifierRejected"},
		{ReturnRefusedServerUnavailable, "RefusedServerUnavailable"},
		{ReturnRefusedBadUsernamePassword, "RefusedBadUsernamePassword"},
		{ReturnRefusedNotAuthorized, "RefusedNotAuthorized"},
	}
	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.rc.String())
		})
	}
}

func TestReturnCodeStringUnknown(t *testing.T) {
	assert.Equal(t, "Unknown", ReturnCode(0x06).String())
}

func TestReturnCodeValid(t *testing.T) {
	assert.True(t, ReturnAccepted.valid())
	assert.True(t, ReturnRefusedNotAuthorized.valid())
	assert.False(t, ReturnCode(0x06).valid())
}
