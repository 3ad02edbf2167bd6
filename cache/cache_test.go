package cache

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/opd-ai/routingnode/address"
	"github.com/opd-ai/routingnode/identity"
)

type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func newFakeClock() *fakeClock {
	return &fakeClock{now: time.Unix(0, 0)}
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) Since(t time.Time) time.Duration {
	return c.Now().Sub(t)
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

func identityWithByte(b byte) identity.PublicIdentity {
	var name address.NodeName
	name[0] = b
	return identity.PublicIdentity{Name: name, PublicKey: []byte{b}}
}

func TestPutThenGet(t *testing.T) {
	c := New(time.Minute, nil)
	id := identityWithByte(1)
	c.Put(id)

	got, ok := c.Get(id.Name)
	assert.True(t, ok)
	assert.Equal(t, id.PublicKey, got.PublicKey)
}

func TestGetMissingReturnsFalse(t *testing.T) {
	c := New(time.Minute, nil)
	var name address.NodeName
	_, ok := c.Get(name)
	assert.False(t, ok)
}

func TestEntryExpiresAfterTTL(t *testing.T) {
	clock := newFakeClock()
	c := New(time.Minute, clock)
	id := identityWithByte(3)
	c.Put(id)

	clock.Advance(2 * time.Minute)
	_, ok := c.Get(id.Name)
	assert.False(t, ok, "expired entries must not be returned")
}

func TestPutOverwritesPriorEntry(t *testing.T) {
	c := New(time.Minute, nil)
	var name address.NodeName
	name[0] = 9

	c.Put(identity.PublicIdentity{Name: name, PublicKey: []byte{1}})
	c.Put(identity.PublicIdentity{Name: name, PublicKey: []byte{2}})

	got, ok := c.Get(name)
	assert.True(t, ok)
	assert.Equal(t, []byte{2}, []byte(got.PublicKey))
	assert.Equal(t, 1, c.Len())
}
