package node

import (
	"net"

	"github.com/opd-ai/routingnode/appiface"
	"github.com/opd-ai/routingnode/wire"
)

// dispatch runs the seven-step message-dispatcher algorithm for a single
// inbound RoutingMessage from a known peer. Steps 4 and 7 both fire for
// the same message because the node is simultaneously a forwarder and, if
// it falls within the destination's close group, a manager.
func (n *RoutingNode) dispatch(fromEndpoint net.Addr, msg wire.RoutingMessage) error {
	// 1. Filter check.
	fp := wire.ComputeFingerprint(msg.Header, msg.Type)
	if n.filter.CheckAndInsert(fp) {
		n.log.WithField("type", msg.Type.String()).Debug("duplicate message suppressed")
		return ErrFilterCheckFailed
	}

	n.cachePutStep(msg)

	if handled := n.cacheGetShortCircuit(msg); handled {
		return nil
	}

	// 4. Opportunistic forwarding: send unchanged toward the destination
	// regardless of whether we will also handle it below.
	raw, err := wire.Marshal(msg)
	if err != nil {
		n.log.WithError(err).Debug("re-marshal for forwarding failed")
	} else {
		n.sendSwarmOrParallel(msg.Header.Destination.Dest, raw)
	}

	// 5. Relay-to-client.
	if msg.Header.Destination.Dest.Equal(n.Self()) && msg.Header.Destination.ReplyTo != nil {
		n.relayToClient(msg, raw)
	}

	// 6. Close-group gate.
	if !n.table.IsWithinCloseGroup(msg.Header.Destination.Dest, n.table.GroupSize()) {
		return nil
	}

	// 7. Type dispatch.
	return n.handleByType(fromEndpoint, msg)
}

// cachePutStep implements dispatcher step 2: GetDataResponse carrying
// non-empty payload is opportunistically offered to the identity/data
// cache via the application's handle_cache_put, its result ignored.
func (n *RoutingNode) cachePutStep(msg wire.RoutingMessage) {
	if msg.Type != wire.TypeGetDataResponse {
		return
	}
	var resp wire.GetDataResponse
	if err := wire.DecodeBody(msg.Body, &resp); err != nil || len(resp.Data) == 0 {
		return
	}
	_, _ = n.app.HandleCachePut(msg.Header.FromAuthority(), msg.Header.From(), resp.Data)
}

// cacheGetShortCircuit implements dispatcher step 3: a GetData is offered
// to handle_cache_get first; a Reply short-circuits the rest of dispatch
// by building and forwarding a GetDataResponse directly.
func (n *RoutingNode) cacheGetShortCircuit(msg wire.RoutingMessage) bool {
	if msg.Type != wire.TypeGetData {
		return false
	}
	var req wire.GetData
	if err := wire.DecodeBody(msg.Body, &req); err != nil {
		return false
	}

	action, ierr := n.app.HandleCacheGet(req.TypeID, req.Name, msg.Header.FromAuthority(), msg.Header.From())
	if ierr != nil || action.Kind != appiface.ActionReply {
		return false
	}

	ourAuthority := resolveAuthority(n.Self(), msg.Header, req.Name, n.table)
	replyHeader := msg.Header.CreateReply(n.Self(), ourAuthority)
	body, err := wire.EncodeBody(wire.GetDataResponse{TypeID: req.TypeID, Name: req.Name, Data: action.Data})
	if err != nil {
		n.log.WithError(err).Debug("encode cache-hit GetDataResponse failed")
		return true
	}
	n.sendMessage(replyHeader, wire.TypeGetDataResponse, body)
	return true
}

// relayToClient implements dispatcher step 5: if the message is addressed
// to self and carries a reply_to client name, deliver it directly to that
// client's registered endpoint; otherwise fall back to an arbitrary
// registered endpoint (best-effort, implementation-defined per the
// documented Open Question).
func (n *RoutingNode) relayToClient(msg wire.RoutingMessage, raw []byte) {
	if raw == nil {
		var err error
		raw, err = wire.Marshal(msg)
		if err != nil {
			return
		}
	}

	replyTo := *msg.Header.Destination.ReplyTo
	if endpoint, ok := n.registry.EndpointFor(replyTo); ok {
		n.sendToEndpoint(endpoint, raw)
		return
	}

	if endpoint, ok := n.registry.AnyEndpoint(); ok {
		n.log.Debug("relay-to-client fallback: reply_to not registered, using arbitrary endpoint")
		n.sendToEndpoint(endpoint, raw)
	}
}

// sendMessage signs and marshals a body under the given header/type and
// forwards it via swarm-or-parallel toward the header's own
// send_to().Dest — the shared tail end of the Reply/SendOn handler
// pattern in §4.7.
func (n *RoutingNode) sendMessage(header wire.MessageHeader, t wire.MessageType, body []byte) {
	msg := wire.RoutingMessage{
		Type:      t,
		Header:    header,
		Body:      body,
		Signature: n.pmid.Sign(body),
	}
	raw, err := wire.Marshal(msg)
	if err != nil {
		n.log.WithError(err).Debug("marshal outbound message failed")
		return
	}
	n.sendSwarmOrParallel(header.SendTo().Dest, raw)
}
