package node

import (
	"github.com/opd-ai/routingnode/address"
	"github.com/opd-ai/routingnode/wire"
)

// Get issues a GetData for (typeID, name), routed via swarm-or-parallel
// toward name's close group. Failures are not surfaced; the caller learns
// of a result only through a later HandleGetResponse callback.
func (n *RoutingNode) Get(typeID int32, name address.NodeName) {
	body, err := wire.EncodeBody(wire.GetData{TypeID: typeID, Name: name})
	if err != nil {
		n.log.WithError(err).Debug("encode outbound GetData failed")
		return
	}
	n.sendOutbound(name, wire.TypeGetData, body)
}

// Put asserts content at destination. isClient selects the authority this
// header is stamped with: Client for application-originated puts versus
// ClientManager for puts issued on the node's own behalf (e.g. republishing
// during churn).
func (n *RoutingNode) Put(destination address.NodeName, content []byte, isClient bool) {
	body, err := wire.EncodeBody(wire.PutData{Name: destination, To: destination, Data: content})
	if err != nil {
		n.log.WithError(err).Debug("encode outbound PutData failed")
		return
	}
	n.sendOutboundAs(destination, wire.TypePutData, body, isClient)
}

// UnauthorisedPut asserts content at destination bypassing the normal
// close-group authorization path.
func (n *RoutingNode) UnauthorisedPut(destination address.NodeName, content []byte) {
	body, err := wire.EncodeBody(wire.UnauthorisedPut{Name: destination, To: destination, Data: content})
	if err != nil {
		n.log.WithError(err).Debug("encode outbound UnauthorisedPut failed")
		return
	}
	n.sendOutbound(destination, wire.TypeUnauthorisedPut, body)
}

// Refresh re-asserts content at name on the node's own behalf, equivalent
// to Put(name, content, false).
func (n *RoutingNode) Refresh(name address.NodeName, content []byte) {
	n.Put(name, content, false)
}

func (n *RoutingNode) sendOutbound(target address.NodeName, t wire.MessageType, body []byte) {
	n.sendOutboundAs(target, t, body, true)
}

func (n *RoutingNode) sendOutboundAs(target address.NodeName, t wire.MessageType, body []byte, isClient bool) {
	authority := wire.AuthorityClient
	if !isClient {
		authority = wire.AuthorityClientManager
	}
	header := wire.MessageHeader{
		MessageID:   n.NextMessageID(),
		Destination: wire.DestinationAddress{Dest: target},
		Source:      wire.SourceAddress{FromNode: n.Self()},
		Authority:   authority,
	}
	n.sendMessage(header, t, body)
}
