//go:build unix && !linux

package pool

import "os"

// createBacking backs the pool with an unlinked temporary file. XDG_RUNTIME_DIR
// is preferred since it is tmpfs-backed on most systems.
func createBacking(size int) (*os.File, []byte, error) {
	dir := os.Getenv("XDG_RUNTIME_DIR")
	f, err := os.CreateTemp(dir, "client-toolkit-pool-*")
	if err != nil {
		return nil, nil, err
	}
	if err := os.Remove(f.Name()); err != nil {
		f.Close()
		return nil, nil, err
	}
	data, err := mapBacking(f, size)
	if err != nil {
		f.Close()
		return nil, nil, err
	}
	return f, data, nil
}
