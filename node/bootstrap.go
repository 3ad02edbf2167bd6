package node

import (
	"net"
	"sync"

	"github.com/opd-ai/routingnode/address"
)

// BootstrapPhase is a state in the bootstrap/identity-exchange state
// machine that splices a new node into the overlay.
type BootstrapPhase int

const (
	Detached BootstrapPhase = iota
	Dialling
	IdentityExchanged
	InGroup
)

func (p BootstrapPhase) String() string {
	switch p {
	case Detached:
		return "Detached"
	case Dialling:
		return "Dialling"
	case IdentityExchanged:
		return "IdentityExchanged"
	case InGroup:
		return "InGroup"
	default:
		return "Unknown"
	}
}

// BootstrapState tracks the initial peer used to enter the overlay.
type BootstrapState struct {
	mu       sync.Mutex
	phase    BootstrapPhase
	endpoint net.Addr
	nodeID   *address.NodeName
}

func newBootstrapState() *BootstrapState {
	return &BootstrapState{
		phase: Detached,
	}
}

// Phase returns the current bootstrap phase.
func (b *BootstrapState) Phase() BootstrapPhase {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.phase
}

// Endpoint returns the bootstrap endpoint, if one has been established.
func (b *BootstrapState) Endpoint() (net.Addr, bool) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.endpoint, b.endpoint != nil
}

// NodeID returns the bootstrap peer's node name, if identity exchange has
// completed.
func (b *BootstrapState) NodeID() (address.NodeName, bool) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.nodeID == nil {
		return address.NodeName{}, false
	}
	return *b.nodeID, true
}

// setDialling transitions into Dialling. It is accepted only from
// Detached: once an endpoint has been recorded, every later call is
// rejected with ErrBootstrapInProgress, and no transition leads back to
// Detached.
func (b *BootstrapState) setDialling(endpoint net.Addr) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.phase != Detached {
		return ErrBootstrapInProgress
	}
	b.endpoint = endpoint
	b.phase = Dialling
	return nil
}

// setIdentityExchanged records the bootstrap peer's node name the first
// time it becomes known; a second call (second BootstrapIdResponse from
// the same endpoint) is idempotent, matching the reference handshake's
// "ignore duplicate" rule.
func (b *BootstrapState) setIdentityExchanged(name address.NodeName) bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.nodeID != nil {
		return false
	}
	n := name
	b.nodeID = &n
	b.phase = IdentityExchanged
	return true
}

func (b *BootstrapState) advanceToInGroup() {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.phase == IdentityExchanged {
		b.phase = InGroup
	}
}
