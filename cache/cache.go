// Package cache implements the opportunistic identity cache: a
// time-bounded mapping from node name to published PublicIdentity, filled
// by PutPublicPmid and read back through Get; the routing node itself only
// inserts into it. Built on the same LRU-plus-lazy-TTL
// pattern as package filter.
package cache

import (
	"sync"
	"time"

	lru "github.com/hashicorp/golang-lru/v2"
	"github.com/sirupsen/logrus"

	"github.com/opd-ai/routingnode/address"
	"github.com/opd-ai/routingnode/identity"
	"github.com/opd-ai/routingnode/timeutil"
)

// DefaultTTL is the reference expiry duration for cached identities.
const DefaultTTL = 10 * time.Minute

const defaultCapacity = 50_000

type entry struct {
	identity identity.PublicIdentity
	expiry   time.Time
}

// IdentityCache is a TTL-bounded name -> PublicIdentity map.
type IdentityCache struct {
	mu    sync.Mutex
	cache *lru.Cache[address.NodeName, entry]
	ttl   time.Duration
	clock timeutil.Provider
	log   *logrus.Entry
}

// New creates an IdentityCache with the given TTL. A nil clock uses
// timeutil.Default.
func New(ttl time.Duration, clock timeutil.Provider) *IdentityCache {
	if clock == nil {
		clock = timeutil.Default
	}
	c, _ := lru.New[address.NodeName, entry](defaultCapacity)
	return &IdentityCache{
		cache: c,
		ttl:   ttl,
		clock: clock,
		log:   logrus.WithFields(logrus.Fields{"component": "cache"}),
	}
}

// Put inserts or refreshes an identity under its own name.
func (c *IdentityCache) Put(id identity.PublicIdentity) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.cache.Add(id.Name, entry{
		identity: id,
		expiry:   c.clock.Now().Add(c.ttl),
	})
}

// Get returns the cached identity for name, if present and unexpired.
func (c *IdentityCache) Get(name address.NodeName) (identity.PublicIdentity, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	e, ok := c.cache.Get(name)
	if !ok {
		return identity.PublicIdentity{}, false
	}
	if !c.clock.Now().Before(e.expiry) {
		c.cache.Remove(name)
		c.log.WithField("name", name.String()).Debug("identity cache entry expired")
		return identity.PublicIdentity{}, false
	}
	return e.identity, true
}

// Len returns the number of entries currently tracked.
func (c *IdentityCache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.cache.Len()
}
