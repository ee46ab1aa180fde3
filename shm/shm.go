// Package shm tracks the shared-memory capability advertised by the remote
// peer and constructs buffer pools bound to it.
package shm

import (
	"sync"

	"go.uber.org/zap"

	"github.com/i509VCB/client-toolkit/registry"
	"github.com/i509VCB/client-toolkit/shm/pool"
	"github.com/i509VCB/client-toolkit/wire"
)

// InterfaceName is the protocol interface this state binds to.
const InterfaceName = "wl_shm"

// State tracks whether the shared-memory global is present and which pixel
// formats the remote peer accepts. Format announcements arrive on the
// connection's event-delivery context, so the format table is guarded.
type State struct {
	conn wire.Conn

	mu      sync.Mutex
	bound   bool
	formats []wire.Format
}

// New creates shared-memory state over a connection.
func New(conn wire.Conn) *State {
	return &State{conn: conn}
}

// NewGlobal implements registry.Handler, marking the capability available.
func (s *State) NewGlobal(g registry.Global) {
	if g.Interface != InterfaceName {
		return
	}
	s.mu.Lock()
	s.bound = true
	s.mu.Unlock()
}

// RemoveGlobal implements registry.Handler.
func (s *State) RemoveGlobal(uint32) {
	s.mu.Lock()
	s.bound = false
	s.formats = nil
	s.mu.Unlock()
}

// Bound reports whether the remote peer advertised the shared-memory
// capability.
func (s *State) Bound() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.bound
}

// HandleFormat records a pixel format announced by the remote peer.
// Called from the connection's event-delivery context.
func (s *State) HandleFormat(f wire.Format) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, have := range s.formats {
		if have == f {
			return
		}
	}
	s.formats = append(s.formats, f)
	zap.L().Debug("shm format announced", zap.Uint32("format", uint32(f)))
}

// Formats returns the announced pixel formats.
func (s *State) Formats() []wire.Format {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]wire.Format, len(s.formats))
	copy(out, s.formats)
	return out
}

// Supports reports whether the remote peer accepts the given format.
// ARGB8888 and XRGB8888 are mandatory and always supported.
func (s *State) Supports(f wire.Format) bool {
	if f == wire.FormatArgb8888 || f == wire.FormatXrgb8888 {
		return true
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, have := range s.formats {
		if have == f {
			return true
		}
	}
	return false
}

// NewRawPool creates a raw shared-memory pool of the given size.
func (s *State) NewRawPool(size int) (*pool.RawPool, error) {
	return pool.NewRawPool(s.conn, size)
}

// NewMultiPool creates an empty keyed buffer pool bound to the state's
// connection.
func NewMultiPool[K comparable](s *State) (*pool.MultiPool[K], error) {
	return pool.NewMultiPool[K](s.conn)
}
