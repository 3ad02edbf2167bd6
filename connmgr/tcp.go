package connmgr

import (
	"errors"
	"net"
	"sync"

	"github.com/sirupsen/logrus"
)

// eventQueueSize bounds the Events channel; the node takes at most one
// event from it per Run() tick, and once it is full further events are
// dropped with a warning.
const eventQueueSize = 1024

// TCPConnectionManager is the reference ConnectionManager implementation,
// adapted from the teacher's TCP transport: it keeps a map of live
// connections and a background read loop per connection, but instead of
// dispatching to per-packet-type handlers it emits everything onto a
// single ordered Event channel.
type TCPConnectionManager struct {
	mu       sync.RWMutex
	listener net.Listener
	conns    map[string]net.Conn
	events   chan Event
	log      *logrus.Entry
	closed   bool
}

// NewTCPConnectionManager creates a connection manager with no listener
// bound yet; call StartListening to accept inbound connections.
func NewTCPConnectionManager() *TCPConnectionManager {
	return &TCPConnectionManager{
		conns:  make(map[string]net.Conn),
		events: make(chan Event, eventQueueSize),
		log:    logrus.WithFields(logrus.Fields{"component": "connmgr"}),
	}
}

// StartListening binds a TCP listener on addr and begins accepting
// connections in the background.
func (t *TCPConnectionManager) StartListening(addr string) (net.Addr, error) {
	l, err := net.Listen("tcp", addr)
	if err != nil {
		return nil, err
	}

	t.mu.Lock()
	t.listener = l
	t.mu.Unlock()

	go t.acceptLoop(l)
	return l.Addr(), nil
}

func (t *TCPConnectionManager) acceptLoop(l net.Listener) {
	for {
		conn, err := l.Accept()
		if err != nil {
			return
		}
		t.adopt(conn)
	}
}

// Bootstrap dials each seed in order and returns the first one that
// succeeds.
func (t *TCPConnectionManager) Bootstrap(seeds []string) (net.Addr, error) {
	for _, seed := range seeds {
		conn, err := net.Dial("tcp", seed)
		if err != nil {
			t.log.WithError(err).WithField("seed", seed).Debug("bootstrap dial failed")
			continue
		}
		t.adopt(conn)
		return conn.RemoteAddr(), nil
	}
	return nil, errors.New("connmgr: no bootstrap seed reachable")
}

// Connect dials every endpoint, best-effort; dial failures are logged and
// otherwise ignored.
func (t *TCPConnectionManager) Connect(endpoints []string) error {
	for _, e := range endpoints {
		conn, err := net.Dial("tcp", e)
		if err != nil {
			t.log.WithError(err).WithField("endpoint", e).Debug("connect dial failed")
			continue
		}
		t.adopt(conn)
	}
	return nil
}

// adopt registers a new connection, emits NewConnection, and starts its
// read loop.
func (t *TCPConnectionManager) adopt(conn net.Conn) {
	addr := conn.RemoteAddr()

	t.mu.Lock()
	t.conns[addr.String()] = conn
	t.mu.Unlock()

	t.emit(Event{Kind: EventNewConnection, Endpoint: addr})
	go t.readLoop(conn)
}

func (t *TCPConnectionManager) readLoop(conn net.Conn) {
	addr := conn.RemoteAddr()
	defer t.drop(addr, conn)

	for {
		data, err := readFrame(conn)
		if err != nil {
			return
		}
		t.emit(Event{Kind: EventNewMessage, Endpoint: addr, Data: data})
	}
}

func (t *TCPConnectionManager) drop(addr net.Addr, conn net.Conn) {
	conn.Close()

	t.mu.Lock()
	delete(t.conns, addr.String())
	t.mu.Unlock()

	t.emit(Event{Kind: EventLostConnection, Endpoint: addr})
}

// Send transmits a single length-prefixed frame to endpoint over its
// existing connection.
func (t *TCPConnectionManager) Send(endpoint net.Addr, data []byte) error {
	t.mu.RLock()
	conn, ok := t.conns[endpoint.String()]
	t.mu.RUnlock()

	if !ok {
		return errors.New("connmgr: no connection to endpoint")
	}
	return writeFrame(conn, data)
}

// Events returns the manager's FIFO event channel.
func (t *TCPConnectionManager) Events() <-chan Event {
	return t.events
}

func (t *TCPConnectionManager) emit(e Event) {
	t.mu.RLock()
	defer t.mu.RUnlock()
	if t.closed {
		return
	}
	select {
	case t.events <- e:
	default:
		t.log.Warn("event queue full, dropping event")
	}
}

// Close shuts down the listener and every live connection.
func (t *TCPConnectionManager) Close() error {
	t.mu.Lock()
	if t.closed {
		t.mu.Unlock()
		return nil
	}
	t.closed = true
	if t.listener != nil {
		t.listener.Close()
	}
	for _, c := range t.conns {
		c.Close()
	}
	t.conns = make(map[string]net.Conn)
	t.mu.Unlock()

	close(t.events)
	return nil
}
