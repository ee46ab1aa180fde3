// Package testutil provides an in-process wire.Conn that records every
// protocol request and lets tests play the remote peer.
package testutil

import (
	"errors"
	"sync"

	"github.com/i509VCB/client-toolkit/event"
	"github.com/i509VCB/client-toolkit/wire"
)

// BufferRecord is one buffer object created through the fake connection.
type BufferRecord struct {
	Pool      wire.ObjectID
	Offset    int32
	Width     int32
	Height    int32
	Stride    int32
	Format    wire.Format
	Destroyed bool

	onRelease func()
}

// Conn is a fake display-server connection. Zero value not usable; call
// NewConn.
type Conn struct {
	mu     sync.Mutex
	nextID wire.ObjectID

	pools   map[wire.ObjectID]int32
	buffers map[wire.ObjectID]*BufferRecord

	// Queue, when set, carries release notifications instead of invoking
	// them inline, modelling delivery on the connection's read context.
	Queue *event.Queue

	// Error injection. When set, the corresponding request fails.
	CreatePoolErr   error
	ResizePoolErr   error
	CreateBufferErr error
}

// NewConn creates an empty fake connection.
func NewConn() *Conn {
	return &Conn{
		pools:   make(map[wire.ObjectID]int32),
		buffers: make(map[wire.ObjectID]*BufferRecord),
	}
}

func (c *Conn) CreatePool(fd int, size int32) (wire.ObjectID, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.CreatePoolErr != nil {
		return wire.Null, c.CreatePoolErr
	}
	c.nextID++
	c.pools[c.nextID] = size
	return c.nextID, nil
}

func (c *Conn) ResizePool(pool wire.ObjectID, size int32) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.ResizePoolErr != nil {
		return c.ResizePoolErr
	}
	old, ok := c.pools[pool]
	if !ok {
		return errors.New("testutil: resize of unknown pool")
	}
	if size < old {
		return errors.New("testutil: pool shrank")
	}
	c.pools[pool] = size
	return nil
}

func (c *Conn) DestroyPool(pool wire.ObjectID) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if _, ok := c.pools[pool]; !ok {
		return errors.New("testutil: destroy of unknown pool")
	}
	delete(c.pools, pool)
	return nil
}

func (c *Conn) CreateBuffer(pool wire.ObjectID, offset, width, height, stride int32, format wire.Format, onRelease func()) (wire.ObjectID, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.CreateBufferErr != nil {
		return wire.Null, c.CreateBufferErr
	}
	size, ok := c.pools[pool]
	if !ok {
		return wire.Null, errors.New("testutil: buffer on unknown pool")
	}
	if offset < 0 || stride < width || int64(offset)+int64(stride)*int64(height) > int64(size) {
		return wire.Null, errors.New("testutil: buffer outside pool")
	}
	if offset%4 != 0 {
		return wire.Null, errors.New("testutil: misaligned buffer offset")
	}
	c.nextID++
	c.buffers[c.nextID] = &BufferRecord{
		Pool: pool, Offset: offset, Width: width, Height: height,
		Stride: stride, Format: format, onRelease: onRelease,
	}
	return c.nextID, nil
}

func (c *Conn) DestroyBuffer(buffer wire.ObjectID) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	b, ok := c.buffers[buffer]
	if !ok || b.Destroyed {
		return errors.New("testutil: destroy of unknown buffer")
	}
	b.Destroyed = true
	return nil
}

// Release plays the remote peer finishing with a buffer: the release
// callback bound at creation fires, through the queue when one is attached.
// Releasing a destroyed buffer is ignored, as a real peer never releases an
// object it acknowledged destroying.
func (c *Conn) Release(buffer wire.ObjectID) {
	c.mu.Lock()
	b, ok := c.buffers[buffer]
	queue := c.Queue
	c.mu.Unlock()
	if !ok || b.Destroyed || b.onRelease == nil {
		return
	}
	if queue != nil {
		queue.Post(b.onRelease)
		return
	}
	b.onRelease()
}

// ForceRelease fires the release callback even for a destroyed buffer,
// modelling a notification already in flight when the destroy request was
// sent.
func (c *Conn) ForceRelease(buffer wire.ObjectID) {
	c.mu.Lock()
	b, ok := c.buffers[buffer]
	c.mu.Unlock()
	if ok && b.onRelease != nil {
		b.onRelease()
	}
}

// Buffer returns the record for a created buffer object.
func (c *Conn) Buffer(id wire.ObjectID) (BufferRecord, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	b, ok := c.buffers[id]
	if !ok {
		return BufferRecord{}, false
	}
	return *b, true
}

// LiveBuffers returns how many buffer objects exist and are not destroyed.
func (c *Conn) LiveBuffers() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	n := 0
	for _, b := range c.buffers {
		if !b.Destroyed {
			n++
		}
	}
	return n
}

// PoolSize returns the size last communicated for a pool object.
func (c *Conn) PoolSize(id wire.ObjectID) (int32, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	size, ok := c.pools[id]
	return size, ok
}

var _ wire.Conn = (*Conn)(nil)
