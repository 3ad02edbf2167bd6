// Package connmgr provides the TCP-based ConnectionManager the routing
// node consumes as its external transport collaborator.
//
// # Architecture
//
// ConnectionManager is a small interface: start listening, bootstrap to a
// seed, connect to known endpoints, send a frame, and drain one ordered
// event channel. TCPConnectionManager is the reference implementation,
// adapted from the teacher's TCP transport but restructured around a
// single Events() channel instead of per-packet-type handler
// registration, matching the node's non-blocking try_recv-per-tick model.
//
//	cm := connmgr.NewTCPConnectionManager()
//	addr, err := cm.StartListening(":0")
//	for ev := range cm.Events() {
//	    switch ev.Kind {
//	    case connmgr.EventNewMessage:
//	        // ev.Endpoint, ev.Data
//	    }
//	}
//
// # Framing
//
// Frames are length-prefixed (4-byte big-endian length, then payload),
// the same stream-framing convention the teacher's TCP transport uses to
// preserve packet boundaries over a byte stream.
//
// # Thread Safety
//
// TCPConnectionManager uses sync.RWMutex to protect its connection map;
// each connection's read loop runs in its own goroutine and communicates
// with callers only through the Events channel.
package connmgr
