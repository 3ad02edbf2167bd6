package wire

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/opd-ai/routingnode/address"
)

func nameWithByte(b byte) address.NodeName {
	var n address.NodeName
	n[0] = b
	return n
}

func TestMarshalUnmarshalRoundTrip(t *testing.T) {
	body, err := EncodeBody(GetData{TypeID: 42, Name: nameWithByte(7)})
	require.NoError(t, err)

	msg := RoutingMessage{
		Type: TypeGetData,
		Header: MessageHeader{
			MessageID:   1234,
			Destination: DestinationAddress{Dest: nameWithByte(7)},
			Source:      SourceAddress{FromNode: nameWithByte(1)},
			Authority:   AuthorityClient,
		},
		Body:      body,
		Signature: []byte("sig"),
	}

	raw, err := Marshal(msg)
	require.NoError(t, err)

	decoded, err := Unmarshal(raw)
	require.NoError(t, err)

	assert.Equal(t, msg.Type, decoded.Type)
	assert.Equal(t, msg.Header.MessageID, decoded.Header.MessageID)
	assert.True(t, decoded.Header.Destination.Dest.Equal(nameWithByte(7)))

	var decodedBody GetData
	require.NoError(t, DecodeBody(decoded.Body, &decodedBody))
	assert.Equal(t, int32(42), decodedBody.TypeID)
}

func TestHeaderFromPrefersReplyTo(t *testing.T) {
	replyTo := nameWithByte(99)
	h := MessageHeader{Source: SourceAddress{FromNode: nameWithByte(1), ReplyTo: &replyTo}}

	assert.True(t, h.From().Equal(replyTo))
}

func TestHeaderFromFallsBackToFromNode(t *testing.T) {
	h := MessageHeader{Source: SourceAddress{FromNode: nameWithByte(1)}}
	assert.True(t, h.From().Equal(nameWithByte(1)))
}

func TestCreateReplySwapsSourceAndDestination(t *testing.T) {
	original := nameWithByte(1)
	replyTo := nameWithByte(5)
	h := MessageHeader{
		MessageID:   1,
		Source:      SourceAddress{FromNode: original, ReplyTo: &replyTo},
		Destination: DestinationAddress{Dest: nameWithByte(9)},
	}

	self := nameWithByte(9)
	reply := h.CreateReply(self, AuthorityNaeManager)

	assert.True(t, reply.Destination.Dest.Equal(replyTo))
	assert.True(t, reply.Source.FromNode.Equal(self))
	assert.Equal(t, AuthorityNaeManager, reply.Authority)
}

func TestCreateSendOnPreservesReplyTo(t *testing.T) {
	replyTo := nameWithByte(5)
	h := MessageHeader{
		Source: SourceAddress{FromNode: nameWithByte(1), ReplyTo: &replyTo},
	}

	self := nameWithByte(2)
	target := nameWithByte(3)
	sendOn := h.CreateSendOn(self, AuthorityClientManager, target)

	assert.True(t, sendOn.Destination.Dest.Equal(target))
	assert.True(t, sendOn.Source.FromNode.Equal(self))
	require.NotNil(t, sendOn.Source.ReplyTo)
	assert.True(t, sendOn.Source.ReplyTo.Equal(replyTo))
}

func TestComputeFingerprintStableAcrossRelay(t *testing.T) {
	replyTo := nameWithByte(5)
	original := MessageHeader{
		MessageID:   7,
		Source:      SourceAddress{FromNode: nameWithByte(1), ReplyTo: &replyTo},
		Destination: DestinationAddress{Dest: nameWithByte(9)},
	}

	relayed := original.CreateSendOn(nameWithByte(2), AuthorityClientManager, nameWithByte(9))
	relayed.Destination = original.Destination

	fpOriginal := ComputeFingerprint(original, TypeGetData)
	fpRelayed := ComputeFingerprint(relayed, TypeGetData)

	assert.Equal(t, fpOriginal, fpRelayed, "fingerprint is keyed on From(), stable across CreateSendOn relays")
}

func TestComputeFingerprintDiffersByType(t *testing.T) {
	h := MessageHeader{Source: SourceAddress{FromNode: nameWithByte(1)}}
	assert.NotEqual(t, ComputeFingerprint(h, TypeGetData), ComputeFingerprint(h, TypePutData))
}

func TestMessageTypeStringKnownAndUnknown(t *testing.T) {
	assert.Equal(t, "GetData", TypeGetData.String())
	assert.Equal(t, "Unknown", MessageType(9999).String())
}

func TestAuthorityStringKnownAndUnknown(t *testing.T) {
	assert.Equal(t, "NaeManager", AuthorityNaeManager.String())
	assert.Equal(t, "Unknown", Authority(9999).String())
}
