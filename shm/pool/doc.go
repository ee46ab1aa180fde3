// Package pool manages shared-memory buffer pools for a display-server
// connection.
//
// # Overview
//
// A pool is a single growable region of memory shared with the remote peer.
// Two layers are provided:
//
//   - RawPool: owns the mapped bytes and the remote pool object. Grow-only.
//   - MultiPool: a keyed allocator on top of a RawPool that packs many
//     rectangular pixel buffers into the one region and arbitrates reuse
//     against the remote peer's asynchronous reads.
//
// # MultiPool
//
// Each buffer is identified by a caller-supplied key. Requesting a key that
// already has an allocation reuses it in place when possible; requesting a
// new key appends an allocation after the last one. Allocations are kept in
// offset order and never overlap.
//
// An allocation is busy from the moment a Request or Acquire hands out its
// byte view until the remote peer delivers the release notification for its
// buffer object. A busy allocation cannot be handed out again, resized, or
// moved: a local write racing a remote read of memory the peer still
// considers valid is the one failure mode this package exists to prevent.
// Callers wanting to draw while a previous frame is still held should cycle
// through a small set of keys (double or triple buffering) rather than wait.
//
// # Usage Example
//
//	p, err := pool.NewMultiPool[string](conn)
//	if err != nil {
//	    return err
//	}
//
//	for _, key := range []string{"front", "back"} {
//	    offset, buffer, data, err := p.Request(key, 256, 256, 4, wire.FormatArgb8888)
//	    if errors.Is(err, pool.ErrInUse) {
//	        continue // peer still reads this one, try the other key
//	    }
//	    if err != nil {
//	        return err
//	    }
//	    draw(data)
//	    surface.Attach(buffer, offset)
//	    surface.Commit()
//	    break
//	}
//
// # View Validity
//
// Byte views returned by Request and Acquire alias the mapped region. A
// later call that grows the pool remaps the region, so a view is only valid
// until the next Request or Resize. Offsets stay valid across growth.
//
// # Thread Safety
//
// MultiPool and RawPool are not safe for concurrent use; a single logical
// owner issues one call at a time. The only state crossing a concurrency
// boundary is each allocation's busy flag, which the connection's
// event-delivery context flips back to free. That flag is atomic, and the
// peer contract guarantees all remote reads finished before the release
// notification is sent, so observing free means the memory is safe to
// overwrite.
package pool
