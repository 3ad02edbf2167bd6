// Package routing implements the Kademlia-style routing table that orders
// peers by XOR distance to the local node and exposes close-group,
// target-selection, and membership queries to the rest of the routing node.
package routing

import (
	"net"

	"github.com/opd-ai/routingnode/address"
	"github.com/opd-ai/routingnode/identity"
)

// NodeInfo is everything the routing table knows about a peer: its public
// identity, the endpoints it has been seen at, and the endpoint it is
// currently connected on, if any.
type NodeInfo struct {
	Identity           identity.PublicIdentity
	CandidateEndpoints []net.Addr
	ConnectedEndpoint  net.Addr
}

// Name returns the peer's node name.
func (n *NodeInfo) Name() address.NodeName {
	return n.Identity.Name
}

// IsConnected reports whether the peer currently has a live endpoint.
func (n *NodeInfo) IsConnected() bool {
	return n.ConnectedEndpoint != nil
}
