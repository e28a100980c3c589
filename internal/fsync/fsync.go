// Package fsync flushes written file data to stable storage.
//
// The patcher writes a handful of bytes in place and then re-reads the file
// to verify them, so the flush is what makes the verified bytes durable.
package fsync

import (
	"fmt"
	"os"
)

// Mode controls durability guarantees for a flush.
type Mode int

const (
	// Auto flushes file data with fdatasync (FlushFileBuffers on Windows).
	// Recommended default.
	Auto Mode = iota

	// Full additionally asks the drive to flush its cache where the platform
	// supports it (F_FULLFSYNC on macOS). Same as Auto elsewhere.
	Full

	// None skips the flush and leaves durability to the OS.
	None
)

// String returns the mode name.
func (m Mode) String() string {
	switch m {
	case Auto:
		return "auto"
	case Full:
		return "full"
	case None:
		return "none"
	default:
		return fmt.Sprintf("Mode(%d)", int(m))
	}
}

// ParseMode parses the names produced by Mode.String.
func ParseMode(s string) (Mode, error) {
	switch s {
	case "", "auto":
		return Auto, nil
	case "full":
		return Full, nil
	case "none":
		return None, nil
	}
	return Auto, fmt.Errorf("fsync: unknown mode %q", s)
}

// FD flushes the file behind descriptor fd.
func FD(fd uintptr, mode Mode) error {
	if mode == None {
		return nil
	}
	if err := fdatasync(fd, mode == Full); err != nil {
		return fmt.Errorf("fsync: %w", err)
	}
	return nil
}

// File flushes f.
func File(f *os.File, mode Mode) error {
	return FD(f.Fd(), mode)
}
