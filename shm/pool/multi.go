package pool

import (
	"fmt"
	"sync/atomic"

	"go.uber.org/zap"

	"github.com/i509VCB/client-toolkit/internal/format"
	"github.com/i509VCB/client-toolkit/wire"
)

// MultiPool packs many keyed pixel buffers into one growable shared-memory
// region. Only one buffer exists per key at any instant.
//
// The key type only needs equality; a (surface, index) pair is typical for
// double buffering.
type MultiPool[K comparable] struct {
	conn   wire.Conn
	raw    *RawPool
	allocs []*allocation[K]
}

// allocation is one keyed reservation inside the pool. The table in
// MultiPool.allocs holds allocations in offset order, and their
// [offset, offset+capacity) ranges never overlap between calls.
type allocation[K comparable] struct {
	key K

	// offset is the byte position inside the pool, always a multiple of 4.
	offset int

	// capacity is the reserved range. It may exceed used to absorb small
	// shape fluctuations without relocating anything.
	capacity int

	// used is the byte size of the most recently requested shape.
	used int

	// free is flipped back to true by the release notification bound to the
	// current buffer object. Replaced with a fresh cell whenever that object
	// is invalidated, so a stale release can never touch a successor.
	free *atomic.Bool

	// buffer is the live remote object viewing (offset, used, fmt), or Null.
	buffer wire.ObjectID

	fmt wire.Format
}

// invalidate destroys the allocation's remote buffer object, if any, and
// detaches its release flag.
func (a *allocation[K]) invalidate(conn wire.Conn) {
	if a.buffer == wire.Null {
		return
	}
	if err := conn.DestroyBuffer(a.buffer); err != nil {
		zap.L().Warn("destroy buffer failed", zap.Uint32("buffer", uint32(a.buffer)), zap.Error(err))
	}
	a.buffer = wire.Null

	fresh := new(atomic.Bool)
	fresh.Store(a.free.Load())
	a.free = fresh
}

// NewMultiPool creates an empty pool. The backing region starts at zero
// bytes and grows on demand.
func NewMultiPool[K comparable](conn wire.Conn) (*MultiPool[K], error) {
	raw, err := NewRawPool(conn, 0)
	if err != nil {
		return nil, err
	}
	return &MultiPool[K]{conn: conn, raw: raw}, nil
}

// Resize grows the backing region to at least size bytes. Requests grow the
// region automatically; an explicit Resize just pre-commits space.
func (p *MultiPool[K]) Resize(size int) error {
	return p.raw.Resize(size)
}

// Request returns a writable buffer for key, creating or reusing the
// allocation as needed.
//
// The returned offset locates the buffer inside the pool, the returned
// ObjectID is the remote buffer object to submit for presentation, and the
// byte slice is the buffer's contents, valid until the next call that grows
// the pool. The allocation is busy from this call until the remote peer
// releases the buffer object.
//
// Errors: ErrInvalidShape for geometry outside the signed 32-bit range,
// ErrInUse when the keyed allocation (or one that would have to move to make
// room) is still held by the peer, ErrOutOfMemory when growth fails. An
// ErrInUse return leaves the table untouched.
func (p *MultiPool[K]) Request(key K, width, height, bytesPerPixel int32, f wire.Format) (int, wire.ObjectID, []byte, error) {
	if width <= 0 || height <= 0 || bytesPerPixel <= 0 {
		return 0, wire.Null, nil, ErrInvalidShape
	}
	stride, ok := format.MulI32(width, bytesPerPixel)
	if !ok || width > stride {
		return 0, wire.Null, nil, ErrInvalidShape
	}
	size32, ok := format.MulI32(stride, height)
	if !ok {
		return 0, wire.Null, nil, ErrInvalidShape
	}
	size := int(size32)

	match := -1
	for i, a := range p.allocs {
		if a.key == key {
			match = i
			break
		}
	}

	// Plan before mutating. The one way a call can fail halfway through is a
	// busy allocation that would have to shift to make room; detect that here
	// so ErrInUse never leaves the table half-moved.
	var target, plannedEnd int
	if match >= 0 {
		a := p.allocs[match]
		if !a.free.Load() {
			return 0, wire.Null, nil, ErrInUse
		}
		newCap := a.capacity
		if c := format.Align4(size + size/20); c > newCap {
			newCap = c
		}
		frontier := 0
		for i, b := range p.allocs {
			c := b.capacity
			if i == match {
				c = newCap
			}
			off := b.offset
			if i != match && frontier > off {
				// Shifting a busy allocation would let a local write race a
				// remote read; refuse the whole request instead.
				if !b.free.Load() {
					return 0, wire.Null, nil, ErrInUse
				}
				off = frontier
			}
			frontier = off + c
		}
		target = a.offset
		plannedEnd = frontier
	} else {
		if n := len(p.allocs); n > 0 {
			last := p.allocs[n-1]
			target = format.Align4(last.offset + last.capacity + last.capacity/20)
		}
		plannedEnd = target + format.Align4(size)
	}

	// Commit the region before touching the table so a growth failure leaves
	// every invariant intact. Growth covers both the returned buffer (with 5%
	// headroom) and the end of the table after any forward shifts.
	if need := max(target+size, plannedEnd); need > p.raw.Len() {
		grow := max(target+size+size/20, plannedEnd)
		if err := p.raw.Resize(grow); err != nil {
			zap.L().Error("pool growth failed", zap.Int("size", grow), zap.Error(err))
			return 0, wire.Null, nil, fmt.Errorf("%w: %d bytes", ErrOutOfMemory, grow)
		}
	}

	if match >= 0 {
		a := p.allocs[match]
		// A changed shape or format invalidates the bound buffer object.
		if size != a.used || f != a.fmt {
			a.invalidate(p.conn)
		}
		if c := format.Align4(size + size/20); c > a.capacity {
			a.capacity = c
		}
		a.used = size
		a.fmt = f

		// Push any following allocation forward out of the grown range.
		// The plan pass proved everything that moves here is free.
		frontier := 0
		for _, b := range p.allocs {
			if frontier > b.offset {
				b.invalidate(p.conn)
				b.offset = frontier
			}
			frontier = b.offset + b.capacity
		}
	} else {
		free := new(atomic.Bool)
		free.Store(true)
		// Capacity stays 4-byte aligned so offsets derived from it during
		// shifts and compaction stay aligned too.
		p.allocs = append(p.allocs, &allocation[K]{
			key:      key,
			offset:   target,
			capacity: format.Align4(size),
			used:     size,
			free:     free,
			buffer:   wire.Null,
			fmt:      f,
		})
		match = len(p.allocs) - 1
	}

	a := p.allocs[match]
	if a.buffer == wire.Null {
		// Bind the release notification to this allocation's current flag.
		// invalidate swaps the flag out, so a release for a destroyed object
		// lands on a detached cell.
		released := a.free
		id, err := p.conn.CreateBuffer(p.raw.Pool(), int32(a.offset), width, height, stride, f, func() {
			released.Store(true)
		})
		if err != nil {
			return 0, wire.Null, nil, fmt.Errorf("pool: create buffer object: %w", err)
		}
		a.buffer = id
	}

	a.free.Store(false)
	return a.offset, a.buffer, p.raw.Bytes()[a.offset : a.offset+a.used], nil
}

// Acquire returns the writable contents of an existing, free allocation
// without changing its shape, claiming it until the next release.
//
// Writing to the slice does not by itself present anything; the buffer
// object from the earlier Request must still be submitted through the
// surface interface.
func (p *MultiPool[K]) Acquire(key K) ([]byte, error) {
	for _, a := range p.allocs {
		if a.key == key {
			if !a.free.CompareAndSwap(true, false) {
				return nil, ErrInUse
			}
			return p.raw.Bytes()[a.offset : a.offset+a.used], nil
		}
	}
	return nil, ErrInvalidKey
}

// Remove destroys the allocation for key and compacts the tail of the table:
// free allocations after the gap slide back to close it, stopping at the
// first busy allocation since its memory must not move under the peer.
func (p *MultiPool[K]) Remove(key K) error {
	for i, a := range p.allocs {
		if a.key != key {
			continue
		}
		a.invalidate(p.conn)
		p.allocs = append(p.allocs[:i], p.allocs[i+1:]...)

		next := a.offset
		for _, b := range p.allocs[i:] {
			if !b.free.Load() {
				break
			}
			if b.offset != next {
				b.invalidate(p.conn)
				b.offset = next
			}
			next = b.offset + b.capacity
		}
		return nil
	}
	return ErrInvalidKey
}

// Close destroys every live buffer object and the pool itself.
func (p *MultiPool[K]) Close() error {
	for _, a := range p.allocs {
		a.invalidate(p.conn)
	}
	p.allocs = nil
	return p.raw.Close()
}
