package routing

import (
	"errors"
	"net"
	"sort"
	"sync"

	"github.com/sirupsen/logrus"

	"github.com/opd-ai/routingnode/address"
)

// ErrAlreadyConnected is returned by AddNode when the table already holds
// an entry for the peer's name.
var ErrAlreadyConnected = errors.New("routing: peer already in table")

// Table is a Kademlia-style routing table ordered by XOR distance to a
// local node name, parameterized by close-group size G. Unlike the
// teacher's fixed 256-bucket layout, membership is a flat map keyed by
// node name; group size and distance ordering are computed on demand,
// which keeps target-selection and close-group enumeration correct for
// the 512-bit address space without needing bucket-index bookkeeping the
// rest of this module doesn't use.
type Table struct {
	mu       sync.RWMutex
	self     address.NodeName
	groupSize int
	nodes    map[address.NodeName]*NodeInfo
	log      *logrus.Entry
}

// NewTable creates a routing table for the local node name self, holding
// close groups of up to groupSize members.
func NewTable(self address.NodeName, groupSize int) *Table {
	return &Table{
		self:      self,
		groupSize: groupSize,
		nodes:     make(map[address.NodeName]*NodeInfo),
		log:       logrus.WithFields(logrus.Fields{"component": "routing"}),
	}
}

// AddNode inserts a peer into the table. It rejects the self name and
// returns ErrAlreadyConnected if the name is already present.
func (t *Table) AddNode(info *NodeInfo) error {
	name := info.Name()
	if name.Equal(t.self) {
		return errors.New("routing: cannot add self")
	}

	t.mu.Lock()
	defer t.mu.Unlock()

	if _, exists := t.nodes[name]; exists {
		return ErrAlreadyConnected
	}

	t.nodes[name] = info
	t.log.WithField("peer", name.String()).Debug("added node to routing table")
	return nil
}

// DropNode removes a peer from the table, reporting whether it was
// present.
func (t *Table) DropNode(name address.NodeName) bool {
	t.mu.Lock()
	defer t.mu.Unlock()

	if _, exists := t.nodes[name]; !exists {
		return false
	}
	delete(t.nodes, name)
	t.log.WithField("peer", name.String()).Debug("dropped node from routing table")
	return true
}

// MarkConnected records the live endpoint for a known peer. It is a no-op
// if the peer is not in the table.
func (t *Table) MarkConnected(name address.NodeName, endpoint net.Addr) {
	t.mu.Lock()
	defer t.mu.Unlock()

	n, ok := t.nodes[name]
	if !ok {
		return
	}
	n.ConnectedEndpoint = endpoint
}

// Get returns the NodeInfo for name, if present.
func (t *Table) Get(name address.NodeName) (*NodeInfo, bool) {
	t.mu.RLock()
	defer t.mu.RUnlock()
	n, ok := t.nodes[name]
	return n, ok
}

// Contains reports whether name is present in the table.
func (t *Table) Contains(name address.NodeName) bool {
	t.mu.RLock()
	defer t.mu.RUnlock()
	_, ok := t.nodes[name]
	return ok
}

// Count returns the number of peers currently held.
func (t *Table) Count() int {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return len(t.nodes)
}

// All returns a snapshot of every NodeInfo in the table.
func (t *Table) All() []*NodeInfo {
	t.mu.RLock()
	defer t.mu.RUnlock()

	out := make([]*NodeInfo, 0, len(t.nodes))
	for _, n := range t.nodes {
		out = append(out, n)
	}
	return out
}

// sortByDistance orders infos by ascending XOR distance to pivot.
func sortByDistance(infos []*NodeInfo, pivot address.NodeName) {
	sort.Slice(infos, func(i, j int) bool {
		return address.CloserTo(infos[i].Name(), infos[j].Name(), pivot)
	})
}

// CloseGroup returns up to g node names from the table closest to target.
// The local name is never included, since the table never holds it. When
// the table holds fewer than g entries, every known node is returned.
func (t *Table) CloseGroup(target address.NodeName, g int) []address.NodeName {
	t.mu.RLock()
	infos := make([]*NodeInfo, 0, len(t.nodes))
	for _, n := range t.nodes {
		infos = append(infos, n)
	}
	t.mu.RUnlock()

	sortByDistance(infos, target)
	if len(infos) > g {
		infos = infos[:g]
	}

	names := make([]address.NodeName, len(infos))
	for i, n := range infos {
		names[i] = n.Name()
	}
	return names
}

// IsWithinCloseGroup reports whether name lies within the local node's own
// close group of size g — i.e. whether name is at least as close to self as
// the furthest current close-group member, or the table simply doesn't yet
// hold g members (in which case every address is considered in range).
func (t *Table) IsWithinCloseGroup(name address.NodeName, g int) bool {
	t.mu.RLock()
	infos := make([]*NodeInfo, 0, len(t.nodes))
	for _, n := range t.nodes {
		infos = append(infos, n)
	}
	t.mu.RUnlock()

	if len(infos) < g {
		return true
	}

	sortByDistance(infos, t.self)
	furthest := infos[g-1].Name()
	return name.Equal(t.self) || address.CloserTo(name, furthest, t.self) || name.Equal(furthest)
}

// FindClosestConnected returns up to limit connected peers closest to
// target, for use by the swarm-or-parallel forwarding policy. Peers
// without a live ConnectedEndpoint are excluded.
func (t *Table) FindClosestConnected(target address.NodeName, limit int) []*NodeInfo {
	t.mu.RLock()
	infos := make([]*NodeInfo, 0, len(t.nodes))
	for _, n := range t.nodes {
		if n.IsConnected() {
			infos = append(infos, n)
		}
	}
	t.mu.RUnlock()

	sortByDistance(infos, target)
	if len(infos) > limit {
		infos = infos[:limit]
	}
	return infos
}

// CheckNode reports whether the table would want to admit a peer with the
// given name — used by the FindGroupResponse handler to decide which
// advertised peers are worth a ConnectRequest. A node is wanted if it is
// not already present and either the table has room or the candidate is
// closer to self than the table's current furthest member.
func (t *Table) CheckNode(name address.NodeName) bool {
	if name.Equal(t.self) {
		return false
	}

	t.mu.RLock()
	defer t.mu.RUnlock()

	if _, exists := t.nodes[name]; exists {
		return false
	}
	if len(t.nodes) < t.groupSize {
		return true
	}

	var furthest address.NodeName
	first := true
	for n := range t.nodes {
		if first || address.CloserTo(furthest, n, t.self) {
			furthest = n
			first = false
		}
	}
	return address.CloserTo(name, furthest, t.self)
}

// Self returns the local node name this table is rooted at.
func (t *Table) Self() address.NodeName {
	return t.self
}

// GroupSize returns the configured close-group size G.
func (t *Table) GroupSize() int {
	return t.groupSize
}
