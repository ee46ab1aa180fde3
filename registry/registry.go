// Package registry tracks the globals the remote peer advertises and routes
// announcements to interested components.
//
// Components register for the interfaces they care about before the
// connection's initial roundtrip; announcements arriving afterwards are
// delivered to the same handlers, so hotplugged globals (outputs, seats)
// work without re-registration.
package registry

import (
	"sync"

	"go.uber.org/zap"
)

// Global is one capability advertised by the remote peer.
type Global struct {
	// Name is the peer-assigned numeric identity of the global.
	Name uint32
	// Interface names the protocol interface the global implements.
	Interface string
	// Version is the highest interface version the peer supports.
	Version uint32
}

// Handler receives announcements for the interfaces it registered for.
// Both methods are called from the connection's event-delivery context.
type Handler interface {
	NewGlobal(g Global)
	RemoveGlobal(name uint32)
}

// Registry is the table of live globals plus the handler routing table.
type Registry struct {
	mu       sync.Mutex
	globals  map[uint32]Global
	handlers map[string][]Handler
}

// New creates an empty registry.
func New() *Registry {
	return &Registry{
		globals:  make(map[uint32]Global),
		handlers: make(map[string][]Handler),
	}
}

// Register subscribes a handler to announcements for one interface.
// A global already announced for that interface is replayed immediately.
func (r *Registry) Register(iface string, h Handler) {
	r.mu.Lock()
	r.handlers[iface] = append(r.handlers[iface], h)
	var replay []Global
	for _, g := range r.globals {
		if g.Interface == iface {
			replay = append(replay, g)
		}
	}
	r.mu.Unlock()

	for _, g := range replay {
		h.NewGlobal(g)
	}
}

// Announce records a new global and notifies the handlers registered for its
// interface.
func (r *Registry) Announce(g Global) {
	r.mu.Lock()
	r.globals[g.Name] = g
	hs := append([]Handler(nil), r.handlers[g.Interface]...)
	r.mu.Unlock()

	zap.L().Debug("global announced",
		zap.Uint32("name", g.Name), zap.String("interface", g.Interface), zap.Uint32("version", g.Version))
	for _, h := range hs {
		h.NewGlobal(g)
	}
}

// Remove drops a global and notifies the handlers registered for its
// interface. Unknown names are ignored; the peer may remove globals the
// client never tracked.
func (r *Registry) Remove(name uint32) {
	r.mu.Lock()
	g, ok := r.globals[name]
	if ok {
		delete(r.globals, name)
	}
	var hs []Handler
	if ok {
		hs = append(hs, r.handlers[g.Interface]...)
	}
	r.mu.Unlock()

	if !ok {
		return
	}
	zap.L().Debug("global removed",
		zap.Uint32("name", name), zap.String("interface", g.Interface))
	for _, h := range hs {
		h.RemoveGlobal(name)
	}
}

// Globals returns a snapshot of the live globals.
func (r *Registry) Globals() []Global {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]Global, 0, len(r.globals))
	for _, g := range r.globals {
		out = append(out, g)
	}
	return out
}

// Lookup returns the announced global implementing iface, if any. When the
// peer advertises several, the one with the lowest name wins so lookups are
// deterministic.
func (r *Registry) Lookup(iface string) (Global, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var best Global
	found := false
	for _, g := range r.globals {
		if g.Interface != iface {
			continue
		}
		if !found || g.Name < best.Name {
			best = g
			found = true
		}
	}
	return best, found
}
