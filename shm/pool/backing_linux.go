//go:build linux

package pool

import (
	"os"

	"golang.org/x/sys/unix"
)

// createBacking backs the pool with an anonymous memfd. The descriptor is
// sealed against shrinking so the remote peer can trust the committed size.
func createBacking(size int) (*os.File, []byte, error) {
	fd, err := unix.MemfdCreate("client-toolkit-pool", unix.MFD_CLOEXEC|unix.MFD_ALLOW_SEALING)
	if err != nil {
		return nil, nil, os.NewSyscallError("memfd_create", err)
	}
	f := os.NewFile(uintptr(fd), "client-toolkit-pool")
	data, err := mapBacking(f, size)
	if err != nil {
		f.Close()
		return nil, nil, err
	}
	// Sealing is best-effort; some sandboxed filesystems reject it.
	_, _ = unix.FcntlInt(f.Fd(), unix.F_ADD_SEALS, unix.F_SEAL_SHRINK)
	return f, data, nil
}
