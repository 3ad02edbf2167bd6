// Package routing implements the routing table at the core of the overlay:
// a flat map of peers ordered on demand by XOR distance to the local node
// name, parameterized by close-group size G.
//
// # Close groups
//
//	table := routing.NewTable(selfName, 32)
//	table.AddNode(&routing.NodeInfo{Identity: peerIdentity})
//	group := table.CloseGroup(target, table.GroupSize())
//
// CloseGroup and IsWithinCloseGroup both treat "fewer than G entries known"
// as "everything is in range", matching the reference table's admission
// behavior for a cold-started node.
//
// # Forwarding support
//
// FindClosestConnected restricts candidates to peers with a live endpoint,
// which is what the forwarding policy needs to pick swarm-or-parallel
// targets without re-filtering on every call.
package routing
