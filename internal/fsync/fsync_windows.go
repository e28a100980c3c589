//go:build windows

package fsync

import (
	"golang.org/x/sys/windows"
)

// fdatasync flushes the handle with FlushFileBuffers, which covers both data
// and metadata. The full parameter is ignored.
func fdatasync(fd uintptr, _ bool) error {
	return windows.FlushFileBuffers(windows.Handle(fd))
}
