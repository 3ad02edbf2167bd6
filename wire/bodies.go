package wire

import (
	"github.com/opd-ai/routingnode/address"
)

// GetData requests opaque content identified by (TypeID, Name) from the
// close group managing Name.
type GetData struct {
	TypeID int32
	Name   address.NodeName
}

// GetDataResponse carries the result of a GetData, or an error payload when
// Error is non-empty.
type GetDataResponse struct {
	TypeID int32
	Name   address.NodeName
	Data   []byte
	Error  string
}

// PutData asserts ownership of Data at Name; To is the destination address
// the put is being routed toward (may differ from Name for relay cases).
type PutData struct {
	Name address.NodeName
	To   address.NodeName
	Data []byte
}

// PutDataResponse reports the outcome of a PutData.
type PutDataResponse struct {
	Name  address.NodeName
	Error string
}

// Post carries an application-defined opaque payload addressed by Name;
// the response type is currently inert per the reference handler table.
type Post struct {
	Name address.NodeName
	Data []byte
}

// PostResponse is accepted but not acted upon by the dispatcher.
type PostResponse struct {
	Name  address.NodeName
	Data  []byte
	Error string
}

// ConnectRequest proposes a connection, advertising both the local and
// externally-reachable endpoint candidates for the requester.
type ConnectRequest struct {
	RequesterName     address.NodeName
	LocalEndpoints    []string
	ExternalEndpoints []string
}

// ConnectResponse mirrors ConnectRequest in the reverse direction.
type ConnectResponse struct {
	ResponderName     address.NodeName
	LocalEndpoints    []string
	ExternalEndpoints []string
}

// FindGroup asks the recipient to advertise the public identities of its
// close group around Target.
type FindGroup struct {
	Target address.NodeName
}

// PublicIdentityView is the wire-level rendering of an identity's public
// half: a name and its raw Ed25519 public key bytes.
type PublicIdentityView struct {
	Name      address.NodeName
	PublicKey []byte
}

// FindGroupResponse carries the responder's close group plus itself.
type FindGroupResponse struct {
	Target address.NodeName
	Group  []PublicIdentityView
}

// GetGroupKey requests the signing keys of the close group owning Target.
type GetGroupKey struct {
	Target address.NodeName
}

// GetGroupKeyResponse carries (name, public_sign_key) pairs for a close
// group plus the responder.
type GetGroupKeyResponse struct {
	Target address.NodeName
	Group  []PublicIdentityView
}

// GetKey requests a node's signing public key; dispatched under the fixed
// GetKeyTypeID.
type GetKey struct {
	Name address.NodeName
}

// GetKeyResponse carries the requested PublicIdentityView.
type GetKeyResponse struct {
	Key PublicIdentityView
}

// BootstrapIdRequest is the first frame exchanged during the bootstrap
// handshake: a bare announcement of the sender's node name.
type BootstrapIdRequest struct {
	Name address.NodeName
}

// BootstrapIdResponse answers a BootstrapIdRequest with the responder's
// name.
type BootstrapIdResponse struct {
	Name address.NodeName
}

// PutPublicPmid advertises a node's PublicIdentity for insertion into the
// identity cache of the nodes that manage its name.
type PutPublicPmid struct {
	Identity PublicIdentityView
}

// UnauthorisedPut is a PutData variant that bypasses close-group
// authorization; dispatched before Sentinel verification.
type UnauthorisedPut struct {
	Name address.NodeName
	To   address.NodeName
	Data []byte
}
