// Package registry implements the connection registry: a bijection between
// live transport endpoints and peer node names. Every LostConnection event
// must remove both directions atomically so the invariant — for every
// (endpoint -> name) there is exactly one (name -> endpoint) — never
// drifts.
package registry

import (
	"net"
	"sync"

	"github.com/sirupsen/logrus"

	"github.com/opd-ai/routingnode/address"
)

// endpointKey is the comparable form of net.Addr used as a map key.
type endpointKey string

func keyOf(e net.Addr) endpointKey {
	return endpointKey(e.Network() + "|" + e.String())
}

// Registry is a bijective endpoint<->name map.
type Registry struct {
	mu          sync.RWMutex
	byEndpoint  map[endpointKey]address.NodeName
	byName      map[address.NodeName]net.Addr
	log         *logrus.Entry
}

// New creates an empty Registry.
func New() *Registry {
	return &Registry{
		byEndpoint: make(map[endpointKey]address.NodeName),
		byName:     make(map[address.NodeName]net.Addr),
		log:        logrus.WithFields(logrus.Fields{"component": "registry"}),
	}
}

// Add registers endpoint <-> name in both directions, overwriting any
// prior mapping for either side.
func (r *Registry) Add(endpoint net.Addr, name address.NodeName) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if old, ok := r.byName[name]; ok {
		delete(r.byEndpoint, keyOf(old))
	}
	if oldName, ok := r.byEndpoint[keyOf(endpoint)]; ok {
		delete(r.byName, oldName)
	}
	r.byEndpoint[keyOf(endpoint)] = name
	r.byName[name] = endpoint

	r.log.WithFields(logrus.Fields{
		"endpoint": endpoint.String(),
		"name":     name.String(),
	}).Debug("registered connection")
}

// RemoveByEndpoint drops both directions of the mapping rooted at
// endpoint, returning the name it was bound to, if any.
func (r *Registry) RemoveByEndpoint(endpoint net.Addr) (address.NodeName, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	key := keyOf(endpoint)
	name, ok := r.byEndpoint[key]
	if !ok {
		return address.NodeName{}, false
	}
	delete(r.byEndpoint, key)
	delete(r.byName, name)
	return name, true
}

// EndpointFor returns the endpoint currently bound to name.
func (r *Registry) EndpointFor(name address.NodeName) (net.Addr, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	e, ok := r.byName[name]
	return e, ok
}

// NameFor returns the name currently bound to endpoint.
func (r *Registry) NameFor(endpoint net.Addr) (address.NodeName, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	n, ok := r.byEndpoint[keyOf(endpoint)]
	return n, ok
}

// Contains reports whether endpoint is currently registered.
func (r *Registry) Contains(endpoint net.Addr) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	_, ok := r.byEndpoint[keyOf(endpoint)]
	return ok
}

// AnyEndpoint returns an arbitrary registered endpoint, for the
// relay-to-client fallback when reply_to is absent from the registry.
// Iteration order over a Go map is unspecified, so repeated calls may
// return different endpoints; callers that need "best-effort, first one
// available" get exactly that.
func (r *Registry) AnyEndpoint() (net.Addr, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, e := range r.byName {
		return e, true
	}
	return nil, false
}

// Len returns the number of registered connections.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.byName)
}
