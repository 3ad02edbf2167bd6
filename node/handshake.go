package node

import (
	"fmt"
	"net"

	"github.com/opd-ai/routingnode/identity"
	"github.com/opd-ai/routingnode/routing"
	"github.com/opd-ai/routingnode/wire"
)

// Bootstrap dials the given seed endpoints via the connection manager and
// sends a BootstrapIdRequest to whichever one accepts the connection. It
// blocks only as long as the connection manager's own Bootstrap call does;
// the resulting identity exchange completes asynchronously through
// handleBootstrapFrame as frames arrive on subsequent Run ticks.
func (n *RoutingNode) Bootstrap(seedEndpoints []string) error {
	endpoint, err := n.conn.Bootstrap(seedEndpoints)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrFailedToBootstrap, err)
	}

	if err := n.bootstrap.setDialling(endpoint); err != nil {
		return err
	}

	body, err := wire.EncodeBody(wire.BootstrapIdRequest{Name: n.Self()})
	if err != nil {
		return fmt.Errorf("%w: encode BootstrapIdRequest: %v", ErrFailedToBootstrap, err)
	}
	msg := wire.RoutingMessage{
		Type: wire.TypeBootstrapIdRequest,
		Header: wire.MessageHeader{
			MessageID: n.NextMessageID(),
			Source:    wire.SourceAddress{FromNode: n.Self()},
			Destination: wire.DestinationAddress{
				Dest: n.Self(),
			},
		},
		Body:      body,
		Signature: n.pmid.Sign(body),
	}
	raw, err := wire.Marshal(msg)
	if err != nil {
		return fmt.Errorf("%w: marshal BootstrapIdRequest: %v", ErrFailedToBootstrap, err)
	}
	n.sendToEndpoint(endpoint, raw)
	return nil
}

// SetEndpoints records this node's own dial candidates, advertised in
// ConnectRequest/ConnectResponse bodies during group discovery.
func (n *RoutingNode) SetEndpoints(local, external []string) {
	n.localEndpoints = local
	n.externalEndpoints = external
}

// handleBootstrapFrame processes a frame from an endpoint not yet present
// in the registry: either an incoming BootstrapIdRequest from a node using
// us as its bootstrap peer, or a BootstrapIdResponse from the endpoint we
// ourselves dialled via Bootstrap.
func (n *RoutingNode) handleBootstrapFrame(endpoint net.Addr, data []byte) error {
	msg, err := wire.Unmarshal(data)
	if err != nil {
		return err
	}

	switch msg.Type {
	case wire.TypeBootstrapIdRequest:
		return n.handleBootstrapIdRequest(endpoint, msg)
	case wire.TypeBootstrapIdResponse:
		return n.handleBootstrapIdResponse(endpoint, msg)
	default:
		return fmt.Errorf("%w: unexpected frame from unregistered endpoint", ErrUnknownMessageType)
	}
}

func (n *RoutingNode) handleBootstrapIdRequest(endpoint net.Addr, msg wire.RoutingMessage) error {
	var req wire.BootstrapIdRequest
	if err := wire.DecodeBody(msg.Body, &req); err != nil {
		return err
	}

	n.registry.Add(endpoint, req.Name)
	n.table.AddNode(&routing.NodeInfo{
		Identity:           identity.PublicIdentity{Name: req.Name},
		CandidateEndpoints: []net.Addr{endpoint},
	})
	n.table.MarkConnected(req.Name, endpoint)

	body, err := wire.EncodeBody(wire.BootstrapIdResponse{Name: n.Self()})
	if err != nil {
		return err
	}
	resp := wire.RoutingMessage{
		Type: wire.TypeBootstrapIdResponse,
		Header: wire.MessageHeader{
			MessageID:   msg.Header.MessageID,
			Source:      wire.SourceAddress{FromNode: n.Self()},
			Destination: wire.DestinationAddress{Dest: req.Name},
		},
		Body:      body,
		Signature: n.pmid.Sign(body),
	}
	raw, err := wire.Marshal(resp)
	if err != nil {
		return err
	}
	n.sendToEndpoint(endpoint, raw)
	n.fireChurn()
	return nil
}

func (n *RoutingNode) handleBootstrapIdResponse(endpoint net.Addr, msg wire.RoutingMessage) error {
	bootstrapEndpoint, ok := n.bootstrap.Endpoint()
	if !ok || bootstrapEndpoint.String() != endpoint.String() {
		return fmt.Errorf("%w: BootstrapIdResponse from unexpected endpoint", ErrOther)
	}

	var resp wire.BootstrapIdResponse
	if err := wire.DecodeBody(msg.Body, &resp); err != nil {
		return err
	}

	if !n.bootstrap.setIdentityExchanged(resp.Name) {
		return nil
	}

	n.registry.Add(endpoint, resp.Name)
	n.table.AddNode(&routing.NodeInfo{
		Identity:           identity.PublicIdentity{Name: resp.Name},
		CandidateEndpoints: []net.Addr{endpoint},
	})
	n.table.MarkConnected(resp.Name, endpoint)

	body, err := wire.EncodeBody(wire.FindGroup{Target: n.Self()})
	if err != nil {
		return err
	}
	findGroup := wire.RoutingMessage{
		Type: wire.TypeFindGroup,
		Header: wire.MessageHeader{
			MessageID:   n.NextMessageID(),
			Source:      wire.SourceAddress{FromNode: n.Self()},
			Destination: wire.DestinationAddress{Dest: n.Self()},
		},
		Body:      body,
		Signature: n.pmid.Sign(body),
	}
	raw, err := wire.Marshal(findGroup)
	if err != nil {
		return err
	}
	n.sendToEndpoint(endpoint, raw)
	n.bootstrap.advanceToInGroup()
	n.fireChurn()
	return nil
}
