// Package demoapp is a minimal in-memory Application implementation used
// by cmd/routingnode to exercise the routing node end to end: GET/PUT
// requests are served from a plain map, and every other callback takes the
// conservative default action (the response and churn callbacks also log).
package demoapp

import (
	"sync"

	"github.com/sirupsen/logrus"

	"github.com/opd-ai/routingnode/address"
	"github.com/opd-ai/routingnode/appiface"
	"github.com/opd-ai/routingnode/wire"
)

// Store is a trivial thread-safe content store keyed by node name.
type Store struct {
	mu   sync.RWMutex
	log  *logrus.Entry
	data map[address.NodeName][]byte
}

// New creates an empty Store.
func New() *Store {
	return &Store{
		log:  logrus.WithFields(logrus.Fields{"component": "demoapp"}),
		data: make(map[address.NodeName][]byte),
	}
}

var _ appiface.Application = (*Store)(nil)

func (s *Store) HandleGet(typeID int32, name address.NodeName, ourAuthority, fromAuthority wire.Authority, from address.NodeName) (appiface.Action, *appiface.InterfaceError) {
	s.mu.RLock()
	data, ok := s.data[name]
	s.mu.RUnlock()
	if !ok {
		return appiface.Action{}, appiface.Response([]byte("not found"))
	}
	return appiface.Reply(data), nil
}

func (s *Store) HandleGetKey(typeID int32, name address.NodeName, ourAuthority, fromAuthority wire.Authority, from address.NodeName) (appiface.Action, *appiface.InterfaceError) {
	return appiface.Action{}, appiface.Abort()
}

func (s *Store) HandlePut(ourAuthority, fromAuthority wire.Authority, from, to address.NodeName, data []byte) (appiface.Action, *appiface.InterfaceError) {
	s.mu.Lock()
	s.data[to] = data
	s.mu.Unlock()
	s.log.WithField("name", to.String()).Debug("stored put")
	return appiface.Reply(nil), nil
}

func (s *Store) HandlePost(ourAuthority, fromAuthority wire.Authority, from, name address.NodeName, data []byte) (appiface.Action, *appiface.InterfaceError) {
	return appiface.Action{}, appiface.Abort()
}

func (s *Store) HandleGetResponse(from address.NodeName, result wire.GetDataResponse) appiface.RoutingNodeAction {
	s.log.WithFields(logrus.Fields{"name": result.Name.String(), "error": result.Error}).Debug("get response")
	return appiface.RoutingNodeAction{Kind: appiface.RoutingNodeNone}
}

func (s *Store) HandlePutResponse(fromAuthority wire.Authority, from address.NodeName, result wire.PutDataResponse) {
	s.log.WithField("name", result.Name.String()).Debug("put response")
}

func (s *Store) HandlePostResponse(fromAuthority wire.Authority, from address.NodeName, result wire.PostResponse) {
}

func (s *Store) HandleChurn(closeGroup []address.NodeName) []appiface.RoutingNodeAction {
	s.log.WithField("group_size", len(closeGroup)).Debug("churn")
	return nil
}

func (s *Store) HandleCacheGet(typeID int32, name address.NodeName, fromAuthority wire.Authority, from address.NodeName) (appiface.Action, *appiface.InterfaceError) {
	return appiface.Action{}, appiface.Abort()
}

func (s *Store) HandleCachePut(fromAuthority wire.Authority, from address.NodeName, data []byte) (appiface.Action, *appiface.InterfaceError) {
	return appiface.Action{}, appiface.Abort()
}
