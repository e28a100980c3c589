//go:build darwin

package fsync

import (
	"golang.org/x/sys/unix"
)

// fdatasync performs file descriptor sync.
//
// On macOS, if full is true, use F_FULLFSYNC so data reaches the physical
// disk, not just the drive cache. Otherwise, use regular fsync.
func fdatasync(fd uintptr, full bool) error {
	if full {
		_, err := unix.FcntlInt(fd, unix.F_FULLFSYNC, 0)
		return err
	}
	// macOS doesn't have fdatasync
	return unix.Fsync(int(fd))
}
