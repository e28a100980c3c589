//go:build linux || freebsd

package fsync

import (
	"golang.org/x/sys/unix"
)

// fdatasync performs file descriptor sync.
//
// On Linux/FreeBSD, fdatasync() provides sufficient guarantees.
// The full parameter is ignored.
func fdatasync(fd uintptr, _ bool) error {
	return unix.Fdatasync(int(fd))
}
