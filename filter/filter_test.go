package filter

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/opd-ai/routingnode/wire"
)

// fakeClock is a manually-advanced timeutil.Provider for deterministic
// expiry tests.
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

func fingerprintOf(b byte) wire.Fingerprint {
	var fp wire.Fingerprint
	fp[0] = b
	return fp
}

func TestCheckAndInsertDetectsDuplicate(t *testing.T) {
	f := New(time.Minute, nil)
	fp := fingerprintOf(1)

	assert.False(t, f.CheckAndInsert(fp), "first sighting is not a duplicate")
	assert.True(t, f.CheckAndInsert(fp), "second sighting within TTL is a duplicate")
}

func TestCheckAndInsertExpiresAfterTTL(t *testing.T) {
	clock := newFakeClock()
	f := New(time.Minute, clock)
	fp := fingerprintOf(2)

	assert.False(t, f.CheckAndInsert(fp))
	clock.Advance(2 * time.Minute)
	assert.False(t, f.CheckAndInsert(fp), "entry lazily expired after TTL elapses")
}

func TestDistinctFingerprintsDoNotCollide(t *testing.T) {
	f := New(time.Minute, nil)
	assert.False(t, f.CheckAndInsert(fingerprintOf(1)))
	assert.False(t, f.CheckAndInsert(fingerprintOf(2)))
	assert.Equal(t, 2, f.Len())
}
