package pool

import (
	"fmt"
	"math"
	"os"

	"github.com/i509VCB/client-toolkit/wire"
)

// RawPool owns a contiguous region of memory shared with the remote peer and
// the remote object identifying it. The region only ever grows.
//
// RawPool hands out nothing but the whole mapped region; callers wanting
// per-buffer management should use MultiPool instead.
type RawPool struct {
	conn wire.Conn
	f    *os.File // nil when backed by a plain heap slice
	data []byte
	pool wire.ObjectID
	size int
}

// NewRawPool creates a shared-memory region of the given size and registers
// it with the remote peer.
func NewRawPool(conn wire.Conn, size int) (*RawPool, error) {
	if size < 0 || size > math.MaxInt32 {
		return nil, ErrInvalidShape
	}
	f, data, err := createBacking(size)
	if err != nil {
		return nil, fmt.Errorf("pool: create backing: %w", err)
	}
	fd := -1
	if f != nil {
		fd = int(f.Fd())
	}
	id, err := conn.CreatePool(fd, int32(size))
	if err != nil {
		_ = closeBacking(f, data)
		return nil, fmt.Errorf("pool: create pool object: %w", err)
	}
	return &RawPool{conn: conn, f: f, data: data, pool: id, size: size}, nil
}

// Resize grows the region to size bytes and notifies the remote peer.
// Sizes at or below the current size are a no-op; the region never shrinks.
//
// Growth remaps the region: byte views previously returned by Bytes become
// invalid, offsets into the region stay valid.
func (r *RawPool) Resize(size int) error {
	if size <= r.size {
		return nil
	}
	if size > math.MaxInt32 {
		return ErrInvalidShape
	}
	// Order matters: the file must hold the bytes before the remote peer
	// learns the new size, and local state only moves once everything
	// succeeded, so a failed grow leaves the committed size untouched.
	if err := truncateBacking(r.f, size); err != nil {
		return fmt.Errorf("pool: grow backing to %d: %w", size, err)
	}
	if err := r.conn.ResizePool(r.pool, int32(size)); err != nil {
		return fmt.Errorf("pool: resize pool object: %w", err)
	}
	data, err := remapBacking(r.f, r.data, size)
	if err != nil {
		return fmt.Errorf("pool: remap backing to %d: %w", size, err)
	}
	r.data = data
	r.size = size
	return nil
}

// Bytes returns the whole mapped region. The slice is valid until the next
// Resize.
func (r *RawPool) Bytes() []byte { return r.data }

// Len returns the committed size of the region in bytes.
func (r *RawPool) Len() int { return r.size }

// Pool returns the remote identity of the pool, used when creating buffer
// objects backed by it.
func (r *RawPool) Pool() wire.ObjectID { return r.pool }

// Fd returns the file descriptor backing the region, or -1 when the region
// is a plain heap slice.
func (r *RawPool) Fd() int {
	if r.f == nil {
		return -1
	}
	return int(r.f.Fd())
}

// Close destroys the remote pool object and releases the backing memory.
func (r *RawPool) Close() error {
	var first error
	if r.pool != wire.Null {
		if err := r.conn.DestroyPool(r.pool); err != nil {
			first = err
		}
		r.pool = wire.Null
	}
	if err := closeBacking(r.f, r.data); err != nil && first == nil {
		first = err
	}
	r.f = nil
	r.data = nil
	return first
}
