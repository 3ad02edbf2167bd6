package node

import (
	"errors"
	"fmt"
	"net"

	"github.com/opd-ai/routingnode/address"
	"github.com/opd-ai/routingnode/appiface"
	"github.com/opd-ai/routingnode/identity"
	"github.com/opd-ai/routingnode/routing"
	"github.com/opd-ai/routingnode/wire"
)

// handleByType is dispatcher step 7: decode the body, compute
// our_authority, call the matching application-interface method, and
// interpret its returned Action.
func (n *RoutingNode) handleByType(fromEndpoint net.Addr, msg wire.RoutingMessage) error {
	switch msg.Type {
	case wire.TypeGetData:
		return n.handleGetData(msg)
	case wire.TypePutData:
		return n.handlePutLike(msg, false)
	case wire.TypeUnauthorisedPut:
		return n.handlePutLike(msg, true)
	case wire.TypePost:
		return n.handlePost(msg)
	case wire.TypePostResponse:
		return n.handlePostResponse(msg)
	case wire.TypeGetKey:
		return n.handleGetKey(msg)
	case wire.TypeGetGroupKey:
		return n.handleGetGroupKey(msg)
	case wire.TypeFindGroup:
		return n.handleFindGroup(msg)
	case wire.TypeFindGroupResponse:
		return n.handleFindGroupResponse(msg)
	case wire.TypeConnectRequest:
		return n.handleConnectRequest(fromEndpoint, msg)
	case wire.TypeConnectResponse:
		return n.handleConnectResponse(msg)
	case wire.TypePutPublicPmid:
		return n.handlePutPublicPmid(msg)
	case wire.TypeGetDataResponse:
		return n.handleGetDataResponse(msg)
	case wire.TypePutDataResponse:
		return n.handlePutDataResponse(msg)
	case wire.TypeBootstrapIdRequest, wire.TypeBootstrapIdResponse:
		// Already handled on the bootstrap-frame path before the peer was
		// registered; nothing to do here.
		return nil
	default:
		return fmt.Errorf("%w: %d", ErrUnknownMessageType, msg.Type)
	}
}

// applyInterfaceResult interprets an (Action, InterfaceError) pair
// returned from an application callback, building and forwarding the
// appropriate response type. respType is the message type to use for a
// Reply; sendOnType is used for a SendOn fan-out.
func (n *RoutingNode) applyInterfaceResult(msg wire.RoutingMessage, element address.NodeName, action appiface.Action, ierr *appiface.InterfaceError, respType, sendOnType wire.MessageType, encodeReply func([]byte) ([]byte, error)) error {
	ourAuthority := resolveAuthority(n.Self(), msg.Header, element, n.table)

	if ierr != nil {
		if ierr.Kind == appiface.ErrorAbort {
			return nil
		}
		body, err := encodeReply(ierr.Payload)
		if err != nil {
			n.log.WithError(err).Debug("encode error response failed")
			return nil
		}
		replyHeader := msg.Header.CreateReply(n.Self(), ourAuthority)
		n.sendMessage(replyHeader, respType, body)
		return nil
	}

	switch action.Kind {
	case appiface.ActionReply:
		body, err := encodeReply(action.Data)
		if err != nil {
			n.log.WithError(err).Debug("encode reply failed")
			return nil
		}
		replyHeader := msg.Header.CreateReply(n.Self(), ourAuthority)
		n.sendMessage(replyHeader, respType, body)
	case appiface.ActionSendOn:
		for _, target := range action.Targets {
			sendHeader := msg.Header.CreateSendOn(n.Self(), ourAuthority, target)
			n.sendMessage(sendHeader, sendOnType, msg.Body)
		}
	}
	return nil
}

func (n *RoutingNode) handleGetData(msg wire.RoutingMessage) error {
	var req wire.GetData
	if err := wire.DecodeBody(msg.Body, &req); err != nil {
		return nil
	}
	ourAuthority := resolveAuthority(n.Self(), msg.Header, req.Name, n.table)
	action, ierr := n.app.HandleGet(req.TypeID, req.Name, ourAuthority, msg.Header.FromAuthority(), msg.Header.From())

	return n.applyInterfaceResult(msg, req.Name, action, ierr, wire.TypeGetDataResponse, wire.TypeGetData, func(payload []byte) ([]byte, error) {
		if ierr != nil {
			return wire.EncodeBody(wire.GetDataResponse{TypeID: req.TypeID, Name: req.Name, Error: string(payload)})
		}
		return wire.EncodeBody(wire.GetDataResponse{TypeID: req.TypeID, Name: req.Name, Data: payload})
	})
}

func (n *RoutingNode) handlePutLike(msg wire.RoutingMessage, unauthorised bool) error {
	var name, to address.NodeName
	var data []byte
	if unauthorised {
		var req wire.UnauthorisedPut
		if err := wire.DecodeBody(msg.Body, &req); err != nil {
			return nil
		}
		name, to, data = req.Name, req.To, req.Data
	} else {
		var req wire.PutData
		if err := wire.DecodeBody(msg.Body, &req); err != nil {
			return nil
		}
		name, to, data = req.Name, req.To, req.Data
	}

	ourAuthority := resolveAuthority(n.Self(), msg.Header, to, n.table)
	action, ierr := n.app.HandlePut(ourAuthority, msg.Header.FromAuthority(), msg.Header.From(), to, data)

	respType := wire.TypePutDataResponse
	return n.applyInterfaceResult(msg, to, action, ierr, respType, wire.TypePutData, func(payload []byte) ([]byte, error) {
		if ierr != nil {
			return wire.EncodeBody(wire.PutDataResponse{Name: name, Error: string(payload)})
		}
		return wire.EncodeBody(wire.PutDataResponse{Name: name})
	})
}

func (n *RoutingNode) handlePost(msg wire.RoutingMessage) error {
	var req wire.Post
	if err := wire.DecodeBody(msg.Body, &req); err != nil {
		return nil
	}
	ourAuthority := resolveAuthority(n.Self(), msg.Header, req.Name, n.table)
	action, ierr := n.app.HandlePost(ourAuthority, msg.Header.FromAuthority(), msg.Header.From(), req.Name, req.Data)

	return n.applyInterfaceResult(msg, req.Name, action, ierr, wire.TypePostResponse, wire.TypePost, func(payload []byte) ([]byte, error) {
		if ierr != nil {
			return wire.EncodeBody(wire.PostResponse{Name: req.Name, Error: string(payload)})
		}
		return wire.EncodeBody(wire.PostResponse{Name: req.Name, Data: payload})
	})
}

func (n *RoutingNode) handlePostResponse(msg wire.RoutingMessage) error {
	var resp wire.PostResponse
	if err := wire.DecodeBody(msg.Body, &resp); err != nil {
		return nil
	}
	n.app.HandlePostResponse(msg.Header.FromAuthority(), msg.Header.From(), resp)
	return nil
}

func (n *RoutingNode) handleGetKey(msg wire.RoutingMessage) error {
	var req wire.GetKey
	if err := wire.DecodeBody(msg.Body, &req); err != nil {
		return nil
	}
	ourAuthority := resolveAuthority(n.Self(), msg.Header, req.Name, n.table)
	action, ierr := n.app.HandleGetKey(wire.GetKeyTypeID, req.Name, ourAuthority, msg.Header.FromAuthority(), msg.Header.From())

	return n.applyInterfaceResult(msg, req.Name, action, ierr, wire.TypeGetKeyResponse, wire.TypeGetKey, func(payload []byte) ([]byte, error) {
		return wire.EncodeBody(wire.GetKeyResponse{Key: wire.PublicIdentityView{Name: req.Name, PublicKey: payload}})
	})
}

func (n *RoutingNode) groupViewsPlusSelf(target address.NodeName) []wire.PublicIdentityView {
	names := n.table.CloseGroup(target, n.table.GroupSize())
	views := make([]wire.PublicIdentityView, 0, len(names)+1)
	views = append(views, wire.PublicIdentityView{Name: n.Self(), PublicKey: n.pmid.Public().PublicKey})
	for _, name := range names {
		if name.Equal(n.Self()) {
			continue
		}
		if info, ok := n.table.Get(name); ok {
			views = append(views, wire.PublicIdentityView{Name: name, PublicKey: info.Identity.PublicKey})
		}
	}
	return views
}

func (n *RoutingNode) handleGetGroupKey(msg wire.RoutingMessage) error {
	var req wire.GetGroupKey
	if err := wire.DecodeBody(msg.Body, &req); err != nil {
		return nil
	}
	ourAuthority := resolveAuthority(n.Self(), msg.Header, req.Target, n.table)
	replyHeader := msg.Header.CreateReply(n.Self(), ourAuthority)
	body, err := wire.EncodeBody(wire.GetGroupKeyResponse{Target: req.Target, Group: n.groupViewsPlusSelf(req.Target)})
	if err != nil {
		return nil
	}
	n.sendMessage(replyHeader, wire.TypeGetGroupKeyResponse, body)
	return nil
}

func (n *RoutingNode) handleFindGroup(msg wire.RoutingMessage) error {
	var req wire.FindGroup
	if err := wire.DecodeBody(msg.Body, &req); err != nil {
		return nil
	}
	ourAuthority := resolveAuthority(n.Self(), msg.Header, req.Target, n.table)
	replyHeader := msg.Header.CreateReply(n.Self(), ourAuthority)
	body, err := wire.EncodeBody(wire.FindGroupResponse{Target: req.Target, Group: n.groupViewsPlusSelf(req.Target)})
	if err != nil {
		return nil
	}
	n.sendMessage(replyHeader, wire.TypeFindGroupResponse, body)

	if msg.Header.Source.ReplyTo != nil {
		if endpoint, ok := n.registry.EndpointFor(*msg.Header.Source.ReplyTo); ok {
			respMsg := wire.RoutingMessage{Type: wire.TypeFindGroupResponse, Header: replyHeader, Body: body, Signature: n.pmid.Sign(body)}
			if raw, err := wire.Marshal(respMsg); err == nil {
				n.sendToEndpoint(endpoint, raw)
			}
		}
	}
	return nil
}

func (n *RoutingNode) handleFindGroupResponse(msg wire.RoutingMessage) error {
	var resp wire.FindGroupResponse
	if err := wire.DecodeBody(msg.Body, &resp); err != nil {
		return nil
	}
	for _, peer := range resp.Group {
		if peer.Name.Equal(n.Self()) {
			continue
		}
		if !n.table.CheckNode(peer.Name) {
			continue
		}
		n.sendConnectRequest(peer.Name)
	}
	return nil
}

// sendConnectRequest builds and routes a ConnectRequest toward target,
// advertising whatever local/external endpoints this node currently
// knows about.
func (n *RoutingNode) sendConnectRequest(target address.NodeName) {
	body, err := wire.EncodeBody(wire.ConnectRequest{
		RequesterName:     n.Self(),
		LocalEndpoints:    n.localEndpoints,
		ExternalEndpoints: n.externalEndpoints,
	})
	if err != nil {
		return
	}
	header := wire.MessageHeader{
		MessageID:   n.NextMessageID(),
		Destination: wire.DestinationAddress{Dest: target},
		Source:      wire.SourceAddress{FromNode: n.Self()},
		Authority:   wire.AuthorityClient,
	}
	n.sendMessage(header, wire.TypeConnectRequest, body)
}

// admitPeer parses advertised endpoint strings and attempts to add the
// peer to the routing table, returning the advertised endpoint strings
// (local first, then external) for dialling. A peer already in the table
// is reported as ErrAlreadyConnected.
func (n *RoutingNode) admitPeer(name address.NodeName, local, external []string) ([]string, error) {
	endpoints := make([]net.Addr, 0, len(local)+len(external))
	all := append(append([]string{}, local...), external...)
	for _, e := range all {
		if addr, err := net.ResolveTCPAddr("tcp", e); err == nil {
			endpoints = append(endpoints, addr)
		}
	}

	info := &routing.NodeInfo{
		Identity:           identity.PublicIdentity{Name: name},
		CandidateEndpoints: endpoints,
	}
	if err := n.table.AddNode(info); err != nil {
		if errors.Is(err, routing.ErrAlreadyConnected) {
			return nil, ErrAlreadyConnected
		}
		return nil, err
	}
	return all, nil
}

func (n *RoutingNode) handleConnectRequest(fromEndpoint net.Addr, msg wire.RoutingMessage) error {
	var req wire.ConnectRequest
	if err := wire.DecodeBody(msg.Body, &req); err != nil {
		return nil
	}

	dialTargets, err := n.admitPeer(req.RequesterName, req.LocalEndpoints, req.ExternalEndpoints)
	if err != nil {
		n.log.WithError(err).WithField("peer", req.RequesterName.String()).Debug("connect request rejected")
		return err
	}

	_ = n.conn.Connect(dialTargets)
	n.fireChurn()

	body, err := wire.EncodeBody(wire.ConnectResponse{
		ResponderName:     n.Self(),
		LocalEndpoints:    n.localEndpoints,
		ExternalEndpoints: n.externalEndpoints,
	})
	if err != nil {
		return nil
	}
	ourAuthority := resolveAuthority(n.Self(), msg.Header, req.RequesterName, n.table)
	replyHeader := msg.Header.CreateReply(n.Self(), ourAuthority)
	n.sendMessage(replyHeader, wire.TypeConnectResponse, body)
	n.sendToBootstrap(mustMarshalOrNil(wire.RoutingMessage{Type: wire.TypeConnectResponse, Header: replyHeader, Body: body, Signature: n.pmid.Sign(body)}))

	if msg.Header.Source.ReplyTo != nil {
		if endpoint, ok := n.registry.EndpointFor(*msg.Header.Source.ReplyTo); ok {
			if raw, err := wire.Marshal(wire.RoutingMessage{Type: wire.TypeConnectResponse, Header: replyHeader, Body: body, Signature: n.pmid.Sign(body)}); err == nil {
				n.sendToEndpoint(endpoint, raw)
			}
		}
	}
	return nil
}

func (n *RoutingNode) handleConnectResponse(msg wire.RoutingMessage) error {
	var resp wire.ConnectResponse
	if err := wire.DecodeBody(msg.Body, &resp); err != nil {
		return nil
	}
	dialTargets, err := n.admitPeer(resp.ResponderName, resp.LocalEndpoints, resp.ExternalEndpoints)
	if err != nil {
		n.log.WithError(err).WithField("peer", resp.ResponderName.String()).Debug("connect response rejected")
		return err
	}
	_ = n.conn.Connect(dialTargets)
	n.fireChurn()
	return nil
}

func (n *RoutingNode) handlePutPublicPmid(msg wire.RoutingMessage) error {
	var req wire.PutPublicPmid
	if err := wire.DecodeBody(msg.Body, &req); err != nil {
		return nil
	}
	ourAuthority := resolveAuthority(n.Self(), msg.Header, req.Identity.Name, n.table)
	if ourAuthority != wire.AuthorityNaeManager {
		return ErrBadAuthority
	}
	n.cache.Put(identity.PublicIdentity{Name: req.Identity.Name, PublicKey: req.Identity.PublicKey})
	return nil
}

func (n *RoutingNode) handleGetDataResponse(msg wire.RoutingMessage) error {
	var resp wire.GetDataResponse
	if err := wire.DecodeBody(msg.Body, &resp); err != nil {
		return nil
	}
	action := n.app.HandleGetResponse(msg.Header.From(), resp)
	n.executeRoutingNodeAction(action)
	return nil
}

func (n *RoutingNode) handlePutDataResponse(msg wire.RoutingMessage) error {
	var resp wire.PutDataResponse
	if err := wire.DecodeBody(msg.Body, &resp); err != nil {
		return nil
	}
	n.app.HandlePutResponse(msg.Header.FromAuthority(), msg.Header.From(), resp)
	return nil
}

func mustMarshalOrNil(msg wire.RoutingMessage) []byte {
	raw, err := wire.Marshal(msg)
	if err != nil {
		return nil
	}
	return raw
}
