package node

import (
	"net"

	"github.com/opd-ai/routingnode/address"
)

// sendSwarmOrParallel queries the routing table for the connected peers
// closest to target and sends the serialized message to each. Peers
// without a connected endpoint are already excluded by
// routing.Table.FindClosestConnected. Send failures are logged, not
// retried, matching the best-effort forwarding contract.
func (n *RoutingNode) sendSwarmOrParallel(target address.NodeName, data []byte) {
	peers := n.table.FindClosestConnected(target, n.opts.ForwardFanout)
	for _, p := range peers {
		if err := n.conn.Send(p.ConnectedEndpoint, data); err != nil {
			n.log.WithError(err).WithField("peer", p.Name().String()).Debug("swarm-or-parallel send failed")
		}
	}
}

// sendToEndpoint is a direct send via the connection manager, bypassing
// routing-table lookup.
func (n *RoutingNode) sendToEndpoint(endpoint net.Addr, data []byte) {
	if err := n.conn.Send(endpoint, data); err != nil {
		n.log.WithError(err).Debug("direct send failed")
	}
}

// sendToBootstrap sends data over the bootstrap endpoint, if one is set.
func (n *RoutingNode) sendToBootstrap(data []byte) {
	endpoint, ok := n.bootstrap.Endpoint()
	if !ok {
		return
	}
	if err := n.conn.Send(endpoint, data); err != nil {
		n.log.WithError(err).Debug("bootstrap send failed")
	}
}
