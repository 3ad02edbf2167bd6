package node

import (
	"github.com/sirupsen/logrus"

	"github.com/opd-ai/routingnode/address"
	"github.com/opd-ai/routingnode/appiface"
	"github.com/opd-ai/routingnode/cache"
	"github.com/opd-ai/routingnode/filter"
	"github.com/opd-ai/routingnode/identity"
	"github.com/opd-ai/routingnode/registry"
	"github.com/opd-ai/routingnode/routing"
	"github.com/opd-ai/routingnode/wire"
)

// buildNode assembles a RoutingNode directly so tests can root the routing
// table at a controlled NodeName and drive routing-table membership
// deterministically. The node's identity is still a freshly generated
// Pmid, so Self() returns that random name, not self.
func buildNode(self address.NodeName, groupSize int, conn *fakeConn, app appiface.Application) *RoutingNode {
	pmid, err := identity.GeneratePmid()
	if err != nil {
		panic(err)
	}
	opts := NewOptions()
	opts.GroupSize = groupSize

	return &RoutingNode{
		pmid:      pmid,
		table:     routing.NewTable(self, groupSize),
		filter:    filter.New(opts.FilterTTL, nil),
		cache:     cache.New(opts.CacheTTL, nil),
		registry:  registry.New(),
		conn:      conn,
		app:       app,
		opts:      opts,
		bootstrap: newBootstrapState(),
		log:       logrus.WithField("component", "node-test"),
	}
}

// recordingApp is a test double for appiface.Application: HandleGet,
// HandlePut, HandleCacheGet, HandleCachePut and HandleChurn are
// overridable via a function field; every callback defaults to
// Abort()/None/nil so a test only needs to wire up the hook it cares about.
type recordingApp struct {
	onGet       func(typeID int32, name address.NodeName, ourAuthority, fromAuthority wire.Authority, from address.NodeName) (appiface.Action, *appiface.InterfaceError)
	onPut       func(ourAuthority, fromAuthority wire.Authority, from, to address.NodeName, data []byte) (appiface.Action, *appiface.InterfaceError)
	onCacheGet  func(typeID int32, name address.NodeName, fromAuthority wire.Authority, from address.NodeName) (appiface.Action, *appiface.InterfaceError)
	onCachePut  func(fromAuthority wire.Authority, from address.NodeName, data []byte) (appiface.Action, *appiface.InterfaceError)
	onChurn     func(closeGroup []address.NodeName) []appiface.RoutingNodeAction
	churnCalls  int
	cachePuts   [][]byte
}

func (a *recordingApp) HandleGet(typeID int32, name address.NodeName, ourAuthority, fromAuthority wire.Authority, from address.NodeName) (appiface.Action, *appiface.InterfaceError) {
	if a.onGet != nil {
		return a.onGet(typeID, name, ourAuthority, fromAuthority, from)
	}
	return appiface.Action{}, appiface.Abort()
}

func (a *recordingApp) HandleGetKey(typeID int32, name address.NodeName, ourAuthority, fromAuthority wire.Authority, from address.NodeName) (appiface.Action, *appiface.InterfaceError) {
	return appiface.Action{}, appiface.Abort()
}

func (a *recordingApp) HandlePut(ourAuthority, fromAuthority wire.Authority, from, to address.NodeName, data []byte) (appiface.Action, *appiface.InterfaceError) {
	if a.onPut != nil {
		return a.onPut(ourAuthority, fromAuthority, from, to, data)
	}
	return appiface.Action{}, appiface.Abort()
}

func (a *recordingApp) HandlePost(ourAuthority, fromAuthority wire.Authority, from, name address.NodeName, data []byte) (appiface.Action, *appiface.InterfaceError) {
	return appiface.Action{}, appiface.Abort()
}

func (a *recordingApp) HandleGetResponse(from address.NodeName, result wire.GetDataResponse) appiface.RoutingNodeAction {
	return appiface.RoutingNodeAction{Kind: appiface.RoutingNodeNone}
}

func (a *recordingApp) HandlePutResponse(fromAuthority wire.Authority, from address.NodeName, result wire.PutDataResponse) {
}

func (a *recordingApp) HandlePostResponse(fromAuthority wire.Authority, from address.NodeName, result wire.PostResponse) {
}

func (a *recordingApp) HandleChurn(closeGroup []address.NodeName) []appiface.RoutingNodeAction {
	a.churnCalls++
	if a.onChurn != nil {
		return a.onChurn(closeGroup)
	}
	return nil
}

func (a *recordingApp) HandleCacheGet(typeID int32, name address.NodeName, fromAuthority wire.Authority, from address.NodeName) (appiface.Action, *appiface.InterfaceError) {
	if a.onCacheGet != nil {
		return a.onCacheGet(typeID, name, fromAuthority, from)
	}
	return appiface.Action{}, appiface.Abort()
}

func (a *recordingApp) HandleCachePut(fromAuthority wire.Authority, from address.NodeName, data []byte) (appiface.Action, *appiface.InterfaceError) {
	a.cachePuts = append(a.cachePuts, data)
	if a.onCachePut != nil {
		return a.onCachePut(fromAuthority, from, data)
	}
	return appiface.Action{}, appiface.Abort()
}

var _ appiface.Application = (*recordingApp)(nil)
