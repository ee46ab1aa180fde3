//go:build !unix

package pool

import "os"

// Non-unix fallback: the pool is a plain heap slice. Nothing is actually
// shared with another process, which is enough for tests and fakes.

func createBacking(size int) (*os.File, []byte, error) {
	return nil, make([]byte, size), nil
}

func truncateBacking(_ *os.File, _ int) error { return nil }

func remapBacking(_ *os.File, old []byte, size int) ([]byte, error) {
	data := make([]byte, size)
	copy(data, old)
	return data, nil
}

func closeBacking(_ *os.File, _ []byte) error { return nil }
