package node

import (
	"github.com/opd-ai/routingnode/appiface"
)

// fireChurn invokes the application's churn callback with the current
// close group and executes each returned follow-up action as if the
// application had called the corresponding outbound method itself. It is
// wired at both routing-table mutation points named in the component
// design: after a successful add from ConnectRequest/ConnectResponse, and
// after a drop from LostConnection.
func (n *RoutingNode) fireChurn() {
	group := n.table.CloseGroup(n.Self(), n.table.GroupSize())
	actions := n.app.HandleChurn(group)

	for _, a := range actions {
		n.executeRoutingNodeAction(a)
	}
}

func (n *RoutingNode) executeRoutingNodeAction(a appiface.RoutingNodeAction) {
	switch a.Kind {
	case appiface.RoutingNodePut:
		n.Put(a.Destination, a.Content, a.IsClient)
	case appiface.RoutingNodeGet:
		n.Get(a.TypeID, a.Name)
	case appiface.RoutingNodeRefresh:
		n.Refresh(a.Destination, a.Content)
	case appiface.RoutingNodePost:
		// Post is reserved; not implemented in this revision.
	case appiface.RoutingNodeNone:
		// no-op
	}
}
