package node

import "errors"

// Sentinel errors surfaced by the dispatch loop and bootstrap state
// machine. None of these tear down the node or drop the offending peer;
// per the error taxonomy, they are logged and the loop continues.
var (
	// ErrFailedToBootstrap is the only fatal condition in Bootstrap: the
	// connection manager could not establish any seed connection.
	ErrFailedToBootstrap = errors.New("node: failed to bootstrap")

	// ErrFilterCheckFailed is benign: it suppresses duplicate processing
	// of a message already seen within the filter's TTL.
	ErrFilterCheckFailed = errors.New("node: filter check failed (duplicate message)")

	// ErrUnknownMessageType is returned for a type tag the dispatcher has
	// no handler for.
	ErrUnknownMessageType = errors.New("node: unknown message type")

	// ErrAlreadyConnected mirrors routing.ErrAlreadyConnected at the node
	// boundary, returned when a ConnectRequest/Response targets a peer
	// already present in the routing table.
	ErrAlreadyConnected = errors.New("node: peer already connected")

	// ErrBadAuthority is returned when a PutPublicPmid arrives at a node
	// whose own authority for the advertised name is not NaeManager.
	ErrBadAuthority = errors.New("node: bad authority for operation")

	// ErrOther is the catch-all for unexpected relay lookups and other
	// conditions that don't warrant their own sentinel.
	ErrOther = errors.New("node: unexpected condition")

	// ErrBootstrapInProgress is returned when Bootstrap is called after a
	// prior call has already dialled a seed and recorded its endpoint,
	// whatever phase that attempt has since reached (InGroup included).
	// Only a call whose seed dial failed leaves the state machine free for
	// another attempt.
	ErrBootstrapInProgress = errors.New("node: bootstrap already in progress")
)
