// Package appiface defines the small-interface boundary between the
// routing node and the embedding application, grounded on the teacher's
// packet-delivery interface split between a delivery surface and its
// transport collaborator. Every callback is synchronous and returns a
// descriptor the node interprets — callbacks must never reach back into
// the node.
package appiface

import (
	"github.com/opd-ai/routingnode/address"
	"github.com/opd-ai/routingnode/wire"
)

// ActionKind tags the variant an Action carries.
type ActionKind int

const (
	ActionReply ActionKind = iota
	ActionSendOn
)

// Action is what an application callback returns to tell the dispatcher
// what to do with a handled message.
type Action struct {
	Kind    ActionKind
	Data    []byte             // for ActionReply
	Targets []address.NodeName // for ActionSendOn
}

// Reply builds a Reply action carrying data.
func Reply(data []byte) Action {
	return Action{Kind: ActionReply, Data: data}
}

// SendOn builds a SendOn action fanning out to targets.
func SendOn(targets []address.NodeName) Action {
	return Action{Kind: ActionSendOn, Targets: targets}
}

// InterfaceErrorKind tags the variant an InterfaceError carries.
type InterfaceErrorKind int

const (
	// ErrorAbort drops the message silently.
	ErrorAbort InterfaceErrorKind = iota
	// ErrorResponse carries an error payload to be sent back like a Reply.
	ErrorResponse
)

// InterfaceError is the error half of an application callback's result.
type InterfaceError struct {
	Kind    InterfaceErrorKind
	Payload []byte // for ErrorResponse
}

func (e *InterfaceError) Error() string {
	if e.Kind == ErrorAbort {
		return "appiface: aborted"
	}
	return "appiface: response error"
}

// Abort is the sentinel InterfaceError for "drop silently".
func Abort() *InterfaceError {
	return &InterfaceError{Kind: ErrorAbort}
}

// Response builds an InterfaceError carrying an error payload.
func Response(payload []byte) *InterfaceError {
	return &InterfaceError{Kind: ErrorResponse, Payload: payload}
}

// RoutingNodeActionKind tags the variant a RoutingNodeAction carries.
type RoutingNodeActionKind int

const (
	RoutingNodePut RoutingNodeActionKind = iota
	RoutingNodeGet
	RoutingNodeRefresh
	RoutingNodePost
	RoutingNodeNone
)

// RoutingNodeAction is a follow-up action the application asks the node to
// perform on its behalf, most commonly in response to churn.
type RoutingNodeAction struct {
	Kind        RoutingNodeActionKind
	Destination address.NodeName // Put, Refresh
	Content     []byte           // Put, Refresh
	IsClient    bool             // Put
	TypeID      int32            // Get
	Name        address.NodeName // Get
}

// Application is the set of callbacks the routing node invokes while
// dispatching inbound messages. Implementations must be synchronous and
// must not call back into the node.
type Application interface {
	HandleGet(typeID int32, name address.NodeName, ourAuthority, fromAuthority wire.Authority, from address.NodeName) (Action, *InterfaceError)
	HandleGetKey(typeID int32, name address.NodeName, ourAuthority, fromAuthority wire.Authority, from address.NodeName) (Action, *InterfaceError)
	HandlePut(ourAuthority, fromAuthority wire.Authority, from, to address.NodeName, data []byte) (Action, *InterfaceError)
	HandlePost(ourAuthority, fromAuthority wire.Authority, from, name address.NodeName, data []byte) (Action, *InterfaceError)

	HandleGetResponse(from address.NodeName, result wire.GetDataResponse) RoutingNodeAction
	HandlePutResponse(fromAuthority wire.Authority, from address.NodeName, result wire.PutDataResponse)
	HandlePostResponse(fromAuthority wire.Authority, from address.NodeName, result wire.PostResponse)

	HandleChurn(closeGroup []address.NodeName) []RoutingNodeAction

	HandleCacheGet(typeID int32, name address.NodeName, fromAuthority wire.Authority, from address.NodeName) (Action, *InterfaceError)
	HandleCachePut(fromAuthority wire.Authority, from address.NodeName, data []byte) (Action, *InterfaceError)
}
