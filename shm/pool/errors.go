package pool

import "errors"

var (
	// ErrInUse indicates the target allocation is still held by the remote
	// peer. Recoverable: retry with a different key or after a release.
	ErrInUse = errors.New("pool: buffer in use by the remote peer")

	// ErrInvalidKey indicates no allocation exists for the given key.
	ErrInvalidKey = errors.New("pool: no buffer for key")

	// ErrInvalidShape indicates buffer geometry that overflows or exceeds
	// the protocol's signed 32-bit range.
	ErrInvalidShape = errors.New("pool: buffer geometry out of range")

	// ErrOutOfMemory indicates growing the shared region failed.
	ErrOutOfMemory = errors.New("pool: failed to grow shared memory region")
)
