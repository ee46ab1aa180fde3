// Package wire defines the protocol-facing primitives the toolkit builds on:
// object identities, pixel formats, and the connection surface used to create
// and destroy remote objects.
//
// The toolkit never frames bytes itself. Everything that crosses the socket
// goes through a Conn, so higher layers stay testable against an in-process
// implementation.
package wire

// ObjectID identifies an object known to the remote peer. The null ID (0)
// never refers to a live object.
type ObjectID uint32

// Null is the reserved "no object" identity.
const Null ObjectID = 0

// Format is a pixel format tag understood by the remote peer. ARGB8888 and
// XRGB8888 use the reserved values 0 and 1; every other format is a fourcc
// code.
type Format uint32

const (
	FormatArgb8888 Format = 0
	FormatXrgb8888 Format = 1
	FormatC8       Format = 0x20203843 // 'C8  '
	FormatRgb565   Format = 0x36314752 // 'RG16'
	FormatXbgr8888 Format = 0x34324258 // 'XB24'
	FormatAbgr8888 Format = 0x34324241 // 'AB24'
)

// Conn is the subset of a display-server connection the shared-memory
// toolkit consumes. Implementations translate these calls into protocol
// requests; the release callback passed to CreateBuffer is invoked exactly
// once per submitted buffer, from the connection's event-delivery context,
// when the remote peer no longer reads the buffer's contents.
type Conn interface {
	// CreatePool registers fd as a shared-memory pool of the given size and
	// returns the pool's identity.
	CreatePool(fd int, size int32) (ObjectID, error)

	// ResizePool tells the remote peer the pool backing grew to size.
	// Pools only ever grow.
	ResizePool(pool ObjectID, size int32) error

	// DestroyPool releases the remote pool object. Buffers created from the
	// pool keep their backing memory alive on the remote side.
	DestroyPool(pool ObjectID) error

	// CreateBuffer creates a remote buffer object viewing
	// pool[offset : offset+stride*height] with the given geometry.
	CreateBuffer(pool ObjectID, offset, width, height, stride int32, format Format, onRelease func()) (ObjectID, error)

	// DestroyBuffer releases a remote buffer object. No release callback
	// fires for a destroyed buffer.
	DestroyBuffer(buffer ObjectID) error
}
