/*
Package router is the process wide routing table of the cloud agent. It binds a
DID to the handler of the identity which owns it, and delivers raw envelope
bytes to that handler. All identities register themselves here, and the
transport and the forward messages use it to find the recipient.
*/
package router

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/findy-network/findy-cloud-agent/agent/e2"
	"github.com/golang/glog"
)

// Handler is the envelope entry point of an identity.
type Handler interface {
	HandleEnvelope(ctx context.Context, data []byte) ([]byte, error)
}

// HandlerFunc is a function Handler.
type HandlerFunc func(ctx context.Context, data []byte) ([]byte, error)

func (f HandlerFunc) HandleEnvelope(ctx context.Context, data []byte) ([]byte, error) {
	return f(ctx, data)
}

// Routes is what the identities need from the router.
type Routes interface {
	AddRoute(did string, h Handler) error
	RouteMessage(ctx context.Context, did string, data []byte) ([]byte, error)
	RemoveRoute(did string)
	Route(did string) (h Handler, ok bool)
}

// Router is the DID to handler table. At most one handler per DID.
type Router struct {
	l      sync.RWMutex
	routes map[string]Handler
}

// New returns an empty router.
func New() *Router {
	return &Router{routes: make(map[string]Handler)}
}

// AddRoute binds the DID to the handler. A bound DID cannot be rebound.
func (r *Router) AddRoute(did string, h Handler) error {
	r.l.Lock()
	defer r.l.Unlock()

	if _, exists := r.routes[did]; exists {
		return e2.Wrap(e2.StateConflict, fmt.Errorf("route conflict: %s", did),
			"add route")
	}
	r.routes[did] = h
	glog.V(1).Infoln("route added:", did)
	return nil
}

// RouteMessage delivers the data unchanged to the handler of the DID and
// returns the handler's result as is.
func (r *Router) RouteMessage(ctx context.Context, did string, data []byte) ([]byte, error) {
	h, ok := r.Route(did)
	if !ok {
		glog.V(3).Infoln("no route:", did)
		return nil, e2.Wrap(e2.NotFound, fmt.Errorf("unknown route: %s", did),
			"route message")
	}
	glog.V(3).Infof("routing %d bytes to %s", len(data), did)
	return h.HandleEnvelope(ctx, data)
}

// RemoveRoute unbinds the DID. It's a no-op for an unbound DID.
func (r *Router) RemoveRoute(did string) {
	r.l.Lock()
	defer r.l.Unlock()

	if _, exists := r.routes[did]; exists {
		delete(r.routes, did)
		glog.V(1).Infoln("route removed:", did)
	}
}

func (r *Router) Route(did string) (h Handler, ok bool) {
	r.l.RLock()
	defer r.l.RUnlock()

	h, ok = r.routes[did]
	return h, ok
}

func (r *Router) Count() int {
	r.l.RLock()
	defer r.l.RUnlock()

	return len(r.routes)
}

// DIDs returns the bound DIDs in sorted order.
func (r *Router) DIDs() []string {
	r.l.RLock()
	defer r.l.RUnlock()

	dids := make([]string, 0, len(r.routes))
	for did := range r.routes {
		dids = append(dids, did)
	}
	sort.Strings(dids)
	return dids
}
