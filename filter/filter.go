// Package filter implements the time-bounded duplicate-suppression set
// every inbound RoutingMessage is checked against before dispatch. It is
// bounded by time, not count: entries expire lazily against a
// timeutil.Provider rather than on a background sweep, the same
// evaluated-on-access discipline the teacher's DHT and crypto packages use
// for their own TimeProvider-driven expiry.
package filter

import (
	"sync"
	"time"

	lru "github.com/hashicorp/golang-lru/v2"
	"github.com/sirupsen/logrus"

	"github.com/opd-ai/routingnode/timeutil"
	"github.com/opd-ai/routingnode/wire"
)

// DefaultTTL is the reference expiry duration for the message filter.
const DefaultTTL = 20 * time.Minute

// defaultCapacity bounds the backing LRU so a burst of distinct messages
// can't grow the filter without limit while still relying on time, not
// count, as the primary eviction signal; entries are checked for
// expiry on every access regardless of whether the LRU has evicted them.
const defaultCapacity = 100_000

// Filter is a duplicate-suppression set keyed on wire.Fingerprint.
type Filter struct {
	mu    sync.Mutex
	cache *lru.Cache[wire.Fingerprint, time.Time]
	ttl   time.Duration
	clock timeutil.Provider
	log   *logrus.Entry
}

// New creates a Filter with the given TTL. A nil clock uses
// timeutil.Default.
func New(ttl time.Duration, clock timeutil.Provider) *Filter {
	if clock == nil {
		clock = timeutil.Default
	}
	c, _ := lru.New[wire.Fingerprint, time.Time](defaultCapacity)
	return &Filter{
		cache: c,
		ttl:   ttl,
		clock: clock,
		log:   logrus.WithFields(logrus.Fields{"component": "filter"}),
	}
}

// CheckAndInsert reports whether fp was already present and unexpired. If
// it was not, fp is inserted with a fresh expiry and false is returned
// ("not a duplicate, safe to process"). If it was, true is returned and
// the entry's expiry is left untouched.
func (f *Filter) CheckAndInsert(fp wire.Fingerprint) bool {
	f.mu.Lock()
	defer f.mu.Unlock()

	now := f.clock.Now()
	if expiry, ok := f.cache.Get(fp); ok {
		if now.Before(expiry) {
			return true
		}
		// Lazily expired: fall through and treat as new.
		f.log.Debug("filter entry lazily expired")
	}

	f.cache.Add(fp, now.Add(f.ttl))
	return false
}

// Len returns the number of entries currently tracked, including any that
// are logically expired but not yet evicted by access.
func (f *Filter) Len() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.cache.Len()
}
