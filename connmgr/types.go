// Package connmgr implements the connection manager: the external
// collaborator that accepts/dials TCP endpoints and hands the routing node
// a single FIFO event channel of {NewMessage, NewConnection,
// LostConnection}, restructured from the teacher transport's per-type
// handler registration into the event-queue shape the dispatch loop
// expects (§4.1).
package connmgr

import "net"

// EventKind tags the variant an Event carries.
type EventKind int

const (
	// EventNewMessage carries a raw frame received from endpoint.
	EventNewMessage EventKind = iota
	// EventNewConnection announces a newly live endpoint, inbound or
	// outbound.
	EventNewConnection
	// EventLostConnection announces that endpoint is no longer reachable.
	EventLostConnection
)

// Event is a single item from the connection manager's event queue.
type Event struct {
	Kind     EventKind
	Endpoint net.Addr
	Data     []byte // populated only for EventNewMessage
}

// ConnectionManager is the transport-facing interface the routing node
// consumes. Implementations own all network I/O and communicate with the
// node only through the Events channel — the node never reaches into
// connection-manager state directly.
type ConnectionManager interface {
	// StartListening binds a listener on addr.
	StartListening(addr string) (net.Addr, error)

	// Bootstrap dials the first reachable endpoint among seeds and returns
	// it, or an error if none could be reached.
	Bootstrap(seeds []string) (net.Addr, error)

	// Connect dials every endpoint in the list, best-effort.
	Connect(endpoints []string) error

	// Send transmits a single frame to endpoint.
	Send(endpoint net.Addr, data []byte) error

	// Events returns the FIFO event channel. Events are delivered in the
	// order the underlying transport observed them.
	Events() <-chan Event

	// Close shuts down all listeners and connections.
	Close() error
}
