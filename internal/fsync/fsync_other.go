//go:build !linux && !freebsd && !darwin && !windows

package fsync

import "syscall"

// fdatasync falls back to fsync on platforms without a dedicated call.
func fdatasync(fd uintptr, _ bool) error {
	return syscall.Fsync(int(fd))
}
