package node

import (
	"net"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/opd-ai/routingnode/connmgr"
	"github.com/opd-ai/routingnode/identity"
)

// fakeConn is a minimal connmgr.ConnectionManager double: Send just
// records what was sent, and Events exposes a channel the test can push
// synthetic events onto directly.
type fakeConn struct {
	events chan connmgr.Event
	sent   []sentFrame
}

type sentFrame struct {
	endpoint net.Addr
	data     []byte
}

func newFakeConn() *fakeConn {
	return &fakeConn{events: make(chan connmgr.Event, 16)}
}

func (f *fakeConn) StartListening(addr string) (net.Addr, error) {
	return net.ResolveTCPAddr("tcp", "127.0.0.1:0")
}

func (f *fakeConn) Bootstrap(seeds []string) (net.Addr, error) {
	return net.ResolveTCPAddr("tcp", seeds[0])
}

func (f *fakeConn) Connect(endpoints []string) error { return nil }

func (f *fakeConn) Send(endpoint net.Addr, data []byte) error {
	f.sent = append(f.sent, sentFrame{endpoint: endpoint, data: data})
	return nil
}

func (f *fakeConn) Events() <-chan connmgr.Event { return f.events }

func (f *fakeConn) Close() error { return nil }

func newTestNode(t *testing.T) (*RoutingNode, *fakeConn) {
	t.Helper()
	pmid, err := identity.GeneratePmid()
	require.NoError(t, err)
	conn := newFakeConn()
	app := &recordingApp{}
	n := New(pmid, conn, app, NewOptions())
	return n, conn
}

func TestNextMessageIDIsMonotonicModulo2_32(t *testing.T) {
	n, _ := newTestNode(t)

	first := n.NextMessageID()
	second := n.NextMessageID()
	assert.Equal(t, first+1, second)
}

func TestSelfReturnsPmidName(t *testing.T) {
	pmid, err := identity.GeneratePmid()
	require.NoError(t, err)
	conn := newFakeConn()
	n := New(pmid, conn, &recordingApp{}, NewOptions())

	assert.True(t, n.Self().Equal(pmid.Name()))
}

func TestRunIsNonBlockingWithNoEvents(t *testing.T) {
	n, _ := newTestNode(t)
	assert.NoError(t, n.Run())
}
