// Package node implements the routing node itself: the event-driven
// dispatch loop, the bootstrap state machine, the authority resolver, the
// forwarding policy, and the per-message-type handlers that together
// route GET/PUT/POST messages through the overlay.
package node

import (
	"crypto/rand"
	"encoding/binary"
	"fmt"
	"net"

	"github.com/sirupsen/logrus"

	"github.com/opd-ai/routingnode/address"
	"github.com/opd-ai/routingnode/appiface"
	"github.com/opd-ai/routingnode/cache"
	"github.com/opd-ai/routingnode/connmgr"
	"github.com/opd-ai/routingnode/filter"
	"github.com/opd-ai/routingnode/identity"
	"github.com/opd-ai/routingnode/registry"
	"github.com/opd-ai/routingnode/routing"
	"github.com/opd-ai/routingnode/wire"
)

// RoutingNode is the message-processing engine: it owns the local
// identity, routing table, filter, caches, and connection registry for its
// entire lifetime, and is mutated only from Run ticks invoked by the
// embedding application. Per the concurrency model, this is a
// single-writer structure; if embedded in a multithreaded host, the host
// must serialize access with a mutex.
type RoutingNode struct {
	pmid     *identity.Pmid
	table    *routing.Table
	filter   *filter.Filter
	cache    *cache.IdentityCache
	registry *registry.Registry
	conn      connmgr.ConnectionManager
	app       appiface.Application
	opts      Options
	bootstrap *BootstrapState

	localEndpoints    []string
	externalEndpoints []string

	nextMessageID uint32

	log *logrus.Entry
}

// New constructs a RoutingNode. The connection manager and application
// interface are external collaborators the node delegates to but never
// reaches into directly.
func New(pmid *identity.Pmid, conn connmgr.ConnectionManager, app appiface.Application, opts Options) *RoutingNode {
	seed := seedMessageID()

	return &RoutingNode{
		pmid:      pmid,
		table:     routing.NewTable(pmid.Name(), opts.GroupSize),
		filter:    filter.New(opts.FilterTTL, nil),
		cache:     cache.New(opts.CacheTTL, nil),
		registry:  registry.New(),
		conn:      conn,
		app:       app,
		opts:      opts,
		bootstrap: newBootstrapState(),

		nextMessageID: seed,

		log: logrus.WithFields(logrus.Fields{
			"component": "node",
			"self":      pmid.Name().String()[:16] + "...",
		}),
	}
}

// seedMessageID draws a random starting value for the MessageId counter.
func seedMessageID() uint32 {
	var buf [4]byte
	if _, err := rand.Read(buf[:]); err != nil {
		return 1
	}
	return binary.BigEndian.Uint32(buf[:])
}

// NextMessageID returns the next outbound MessageId, incrementing the
// counter modulo 2^32. Two sequential calls always yield v and v+1 (mod
// 2^32).
func (n *RoutingNode) NextMessageID() uint32 {
	id := n.nextMessageID
	n.nextMessageID++
	return id
}

// Self returns the local node name.
func (n *RoutingNode) Self() address.NodeName {
	return n.pmid.Name()
}

// Table exposes the routing table for read access by tests and the
// embedding application's churn decisions.
func (n *RoutingNode) Table() *routing.Table {
	return n.table
}

// Run drains at most one event from the connection manager's event queue
// non-blockingly. It returns immediately if no event is pending — there
// are no internal sleeps, timers, or awaits. The host embeds this call in
// its own scheduler loop.
func (n *RoutingNode) Run() error {
	select {
	case ev, ok := <-n.conn.Events():
		if !ok {
			return nil
		}
		return n.handleEvent(ev)
	default:
		return nil
	}
}

func (n *RoutingNode) handleEvent(ev connmgr.Event) error {
	switch ev.Kind {
	case connmgr.EventNewMessage:
		return n.handleNewMessage(ev.Endpoint, ev.Data)
	case connmgr.EventNewConnection:
		return n.handleNewConnection(ev.Endpoint)
	case connmgr.EventLostConnection:
		return n.handleLostConnection(ev.Endpoint)
	default:
		return fmt.Errorf("%w: unrecognized event kind", ErrOther)
	}
}

// handleNewMessage routes an inbound frame: known peers are treated as
// RoutingMessages and dispatched; everything else is a bootstrap-phase
// frame. Decode failures on known peers are logged and dropped without
// disconnecting the peer; decode failures during bootstrap are silently
// discarded.
func (n *RoutingNode) handleNewMessage(endpoint net.Addr, data []byte) error {
	if _, known := n.registry.NameFor(endpoint); known {
		msg, err := wire.Unmarshal(data)
		if err != nil {
			n.log.WithError(err).WithField("endpoint", endpoint.String()).Debug("decode failure from known peer, dropping")
			return nil
		}
		return n.dispatch(endpoint, msg)
	}

	if err := n.handleBootstrapFrame(endpoint, data); err != nil {
		n.log.WithError(err).Debug("bootstrap frame discarded")
	}
	return nil
}

// handleNewConnection informs the routing table that an endpoint is now
// live, if its identity is already known; endpoints seen for the first
// time during bootstrap have no routing-table entry yet and are simply
// acknowledged.
func (n *RoutingNode) handleNewConnection(endpoint net.Addr) error {
	if name, known := n.registry.NameFor(endpoint); known {
		n.table.MarkConnected(name, endpoint)
	}
	return nil
}

// handleLostConnection removes both directions of the registry, drops the
// peer from the routing table, and fires a churn notification with the
// updated close group.
func (n *RoutingNode) handleLostConnection(endpoint net.Addr) error {
	name, ok := n.registry.RemoveByEndpoint(endpoint)
	if !ok {
		return nil
	}

	n.table.DropNode(name)
	n.log.WithField("peer", name.String()).Info("lost connection, dropped from routing table")
	n.fireChurn()
	return nil
}
