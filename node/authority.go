package node

import (
	"github.com/opd-ai/routingnode/address"
	"github.com/opd-ai/routingnode/routing"
	"github.com/opd-ai/routingnode/wire"
)

// resolveAuthority is the pure function mapping (message header, target
// element, local routing table) to an Authority. The four non-Unknown
// conditions are evaluated in order and are mutually exclusive; the first
// match wins. "within close-group range" is the table's own
// IsWithinCloseGroup predicate, which treats a table with fewer than G
// entries as accepting any address.
func resolveAuthority(self address.NodeName, h wire.MessageHeader, element address.NodeName, table *routing.Table) wire.Authority {
	g := table.GroupSize()

	if !h.Source.IsFromGroup() && table.IsWithinCloseGroup(h.Source.FromNode, g) && !h.Destination.Dest.Equal(element) {
		return wire.AuthorityClientManager
	}

	if table.IsWithinCloseGroup(element, g) && h.Destination.Dest.Equal(element) {
		return wire.AuthorityNaeManager
	}

	if h.Source.IsFromGroup() && table.IsWithinCloseGroup(h.Destination.Dest, g) && !h.Destination.Dest.Equal(self) {
		return wire.AuthorityNodeManager
	}

	if h.Source.FromGroup != nil && table.IsWithinCloseGroup(*h.Source.FromGroup, g) && h.Destination.Dest.Equal(self) {
		return wire.AuthorityManagedNode
	}

	return wire.AuthorityUnknown
}
