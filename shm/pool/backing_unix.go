//go:build unix

package pool

import (
	"os"

	"golang.org/x/sys/unix"
)

// mapBacking sizes the file and maps it shared and writable. A zero size
// returns no mapping; mmap rejects empty regions.
func mapBacking(f *os.File, size int) ([]byte, error) {
	if err := f.Truncate(int64(size)); err != nil {
		return nil, err
	}
	if size == 0 {
		return nil, nil
	}
	return unix.Mmap(int(f.Fd()), 0, size, unix.PROT_READ|unix.PROT_WRITE, unix.MAP_SHARED)
}

func truncateBacking(f *os.File, size int) error {
	return f.Truncate(int64(size))
}

func remapBacking(f *os.File, old []byte, size int) ([]byte, error) {
	if old != nil {
		if err := unix.Munmap(old); err != nil {
			return nil, err
		}
	}
	return unix.Mmap(int(f.Fd()), 0, size, unix.PROT_READ|unix.PROT_WRITE, unix.MAP_SHARED)
}

func closeBacking(f *os.File, data []byte) error {
	var first error
	if data != nil {
		if err := unix.Munmap(data); err != nil {
			first = err
		}
	}
	if f != nil {
		if err := f.Close(); err != nil && first == nil {
			first = err
		}
	}
	return first
}
