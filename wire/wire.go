// Package wire defines the on-the-wire RoutingMessage envelope: headers,
// authority tags, and the type-dependent bodies exchanged between routing
// nodes. Bodies are CBOR-encoded, following the serialization convention the
// rest of the retrieval pack converges on for self-describing binary
// objects (github.com/fxamacker/cbor/v2).
package wire

import (
	"crypto/sha512"
	"fmt"

	"github.com/fxamacker/cbor/v2"

	"github.com/opd-ai/routingnode/address"
)

// Authority is the role a node plays with respect to a message's target
// element, as computed by the routing node's authority resolver.
type Authority int

const (
	AuthorityUnknown Authority = iota
	AuthorityClient
	AuthorityClientManager
	AuthorityNaeManager
	AuthorityNodeManager
	AuthorityManagedNode
)

func (a Authority) String() string {
	switch a {
	case AuthorityClient:
		return "Client"
	case AuthorityClientManager:
		return "ClientManager"
	case AuthorityNaeManager:
		return "NaeManager"
	case AuthorityNodeManager:
		return "NodeManager"
	case AuthorityManagedNode:
		return "ManagedNode"
	default:
		return "Unknown"
	}
}

// SourceAddress identifies where a message originated and, optionally, the
// group it was sent on behalf of and the client it should ultimately be
// replied to.
type SourceAddress struct {
	FromNode  address.NodeName
	FromGroup *address.NodeName
	ReplyTo   *address.NodeName
}

// IsFromGroup reports whether the source carries a group address.
func (s SourceAddress) IsFromGroup() bool {
	return s.FromGroup != nil
}

// DestinationAddress names the element a message is addressed to, with an
// optional client to relay the eventual response to.
type DestinationAddress struct {
	Dest    address.NodeName
	ReplyTo *address.NodeName
}

// MessageHeader carries routing metadata common to every RoutingMessage.
type MessageHeader struct {
	MessageID   uint32
	Destination DestinationAddress
	Source      SourceAddress
	Authority   Authority
}

// From returns the node name processing should treat as the message's
// logical origin: the source's reply_to when set, else from_node.
func (h MessageHeader) From() address.NodeName {
	if h.Source.ReplyTo != nil {
		return *h.Source.ReplyTo
	}
	return h.Source.FromNode
}

// FromAuthority returns the authority the header was stamped with.
func (h MessageHeader) FromAuthority() Authority {
	return h.Authority
}

// SendTo returns the address a reply to this header should be routed
// toward: the destination as given, carrying along any reply_to for
// relay-to-client resolution downstream.
func (h MessageHeader) SendTo() DestinationAddress {
	return h.Destination
}

// CreateReply builds the header for a direct reply to this message: source
// and destination swap, and the replying node's own authority is adopted.
func (h MessageHeader) CreateReply(self address.NodeName, ourAuthority Authority) MessageHeader {
	return MessageHeader{
		MessageID: h.MessageID,
		Destination: DestinationAddress{
			Dest:    h.From(),
			ReplyTo: h.Source.ReplyTo,
		},
		Source: SourceAddress{
			FromNode: self,
		},
		Authority: ourAuthority,
	}
}

// CreateSendOn builds the header used when forwarding a message onward to a
// new target on behalf of the original sender: the source is rewritten to
// (self, our authority, original reply_to), preserving who the eventual
// response must reach.
func (h MessageHeader) CreateSendOn(self address.NodeName, ourAuthority Authority, target address.NodeName) MessageHeader {
	return MessageHeader{
		MessageID: h.MessageID,
		Destination: DestinationAddress{
			Dest: target,
		},
		Source: SourceAddress{
			FromNode: self,
			ReplyTo:  h.Source.ReplyTo,
		},
		Authority: ourAuthority,
	}
}

// MessageType tags the kind of body a RoutingMessage carries.
type MessageType int

const (
	TypeGetData MessageType = iota
	TypeGetDataResponse
	TypePutData
	TypePutDataResponse
	TypePost
	TypePostResponse
	TypeConnectRequest
	TypeConnectResponse
	TypeFindGroup
	TypeFindGroupResponse
	TypeGetGroupKey
	TypeGetGroupKeyResponse
	TypeGetKey
	TypeGetKeyResponse
	TypeBootstrapIdRequest
	TypeBootstrapIdResponse
	TypePutPublicPmid
	TypeUnauthorisedPut
)

func (t MessageType) String() string {
	switch t {
	case TypeGetData:
		return "GetData"
	case TypeGetDataResponse:
		return "GetDataResponse"
	case TypePutData:
		return "PutData"
	case TypePutDataResponse:
		return "PutDataResponse"
	case TypePost:
		return "Post"
	case TypePostResponse:
		return "PostResponse"
	case TypeConnectRequest:
		return "ConnectRequest"
	case TypeConnectResponse:
		return "ConnectResponse"
	case TypeFindGroup:
		return "FindGroup"
	case TypeFindGroupResponse:
		return "FindGroupResponse"
	case TypeGetGroupKey:
		return "GetGroupKey"
	case TypeGetGroupKeyResponse:
		return "GetGroupKeyResponse"
	case TypeGetKey:
		return "GetKey"
	case TypeGetKeyResponse:
		return "GetKeyResponse"
	case TypeBootstrapIdRequest:
		return "BootstrapIdRequest"
	case TypeBootstrapIdResponse:
		return "BootstrapIdResponse"
	case TypePutPublicPmid:
		return "PutPublicPmid"
	case TypeUnauthorisedPut:
		return "UnauthorisedPut"
	default:
		return "Unknown"
	}
}

// GetKeyTypeID is the fixed type-id GetKey requests are dispatched under,
// per the reference handler table.
const GetKeyTypeID = 106

// RoutingMessage is the envelope every frame on the wire carries: one
// message type, its header, a CBOR-encoded body, and a signature over the
// body bytes made with the sender's Pmid.
type RoutingMessage struct {
	Type      MessageType
	Header    MessageHeader
	Body      []byte
	Signature []byte
}

// Marshal encodes a RoutingMessage to CBOR for transmission.
func Marshal(m RoutingMessage) ([]byte, error) {
	data, err := cbor.Marshal(m)
	if err != nil {
		return nil, fmt.Errorf("marshal routing message: %w", err)
	}
	return data, nil
}

// Unmarshal decodes a RoutingMessage previously produced by Marshal.
func Unmarshal(data []byte) (RoutingMessage, error) {
	var m RoutingMessage
	if err := cbor.Unmarshal(data, &m); err != nil {
		return RoutingMessage{}, fmt.Errorf("unmarshal routing message: %w", err)
	}
	return m, nil
}

// EncodeBody CBOR-encodes a typed body payload for embedding into a
// RoutingMessage's Body field.
func EncodeBody(v interface{}) ([]byte, error) {
	data, err := cbor.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("encode body: %w", err)
	}
	return data, nil
}

// DecodeBody CBOR-decodes a RoutingMessage's Body field into v.
func DecodeBody(data []byte, v interface{}) error {
	if err := cbor.Unmarshal(data, v); err != nil {
		return fmt.Errorf("decode body: %w", err)
	}
	return nil
}

// Fingerprint identifies a single logical message across hops: source
// identity, destination, message id, and type tag. It is keyed on From(),
// not the raw FromNode, so when the source carries a reply_to a header
// whose from_node was rewritten by CreateSendOn keeps the same fingerprint
// as long as its destination is unchanged. Without a reply_to, From() is
// the from_node itself and such a rewrite yields a different fingerprint.
type Fingerprint [sha512.Size256]byte

// ComputeFingerprint derives the duplicate-suppression key for a header and
// message type.
func ComputeFingerprint(h MessageHeader, t MessageType) Fingerprint {
	buf := make([]byte, 0, address.Size*2+8)
	from := h.From()
	buf = append(buf, from[:]...)
	buf = append(buf, h.Destination.Dest[:]...)
	buf = append(buf,
		byte(h.MessageID>>24), byte(h.MessageID>>16), byte(h.MessageID>>8), byte(h.MessageID),
		byte(t>>24), byte(t>>16), byte(t>>8), byte(t),
	)
	return sha512.Sum512_256(buf)
}
