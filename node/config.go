package node

import "time"

// Options configures a RoutingNode, following the teacher's Options /
// NewOptions constructor-with-defaults convention.
type Options struct {
	// GroupSize is the close-group size G the routing table is
	// parameterized by.
	GroupSize int

	// FilterTTL is the duplicate-suppression window for the message
	// filter.
	FilterTTL time.Duration

	// CacheTTL is the expiry window for cached identities.
	CacheTTL time.Duration

	// MaxBootstrapAttempts is carried with the other defaults but is not
	// read by the node: Bootstrap makes a single connection-manager
	// Bootstrap call and does not retry.
	MaxBootstrapAttempts int

	// BootstrapBackoff is likewise not read by the node; no backoff is
	// applied between bootstrap attempts.
	BootstrapBackoff time.Duration

	// ForwardFanout bounds how many connected peers a swarm-or-parallel
	// send fans out to.
	ForwardFanout int
}

// NewOptions returns an Options populated with the reference defaults
// from the component design: group size 32, 20-minute filter TTL,
// 10-minute identity cache TTL.
func NewOptions() Options {
	return Options{
		GroupSize:             32,
		FilterTTL:             20 * time.Minute,
		CacheTTL:              10 * time.Minute,
		MaxBootstrapAttempts:  5,
		BootstrapBackoff:      500 * time.Millisecond,
		ForwardFanout:         16,
	}
}
