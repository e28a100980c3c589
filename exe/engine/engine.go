package engine

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"math"

	"github.com/joshuapare/bl2patch/exe/registry"
)

// Direction selects which side of each change is written.
type Direction int

const (
	// Forward writes the patch bytes.
	Forward Direction = iota

	// Reverse writes the original bytes back.
	Reverse
)

// String returns "apply" or "revert".
func (d Direction) String() string {
	switch d {
	case Forward:
		return "apply"
	case Reverse:
		return "revert"
	default:
		return fmt.Sprintf("Direction(%d)", int(d))
	}
}

// Inverse returns the opposite direction.
func (d Direction) Inverse() Direction {
	if d == Forward {
		return Reverse
	}
	return Forward
}

// MarshalText implements encoding.TextMarshaler.
func (d Direction) MarshalText() ([]byte, error) {
	return []byte(d.String()), nil
}

// target returns the bytes written for c in direction d.
func target(c registry.Change, d Direction) []byte {
	if d == Reverse {
		return c.Original
	}
	return c.Patch
}

// source returns the bytes expected at c's offset before writing in direction d.
func source(c registry.Change, d Direction) []byte {
	if d == Reverse {
		return c.Patch
	}
	return c.Original
}

// Apply writes changes to w in order.
func Apply(w io.WriteSeeker, changes []registry.Change, dir Direction) error {
	for i, c := range changes {
		if err := writeChange(w, c, dir); err != nil {
			return &WriteError{
				Direction: dir,
				Index:     i,
				Total:     len(changes),
				Offset:    c.Offset,
				Cause:     err,
			}
		}
	}
	return nil
}

// writeChange performs one seek+write unit.
func writeChange(w io.WriteSeeker, c registry.Change, dir Direction) error {
	if c.Offset > math.MaxInt64 {
		return fmt.Errorf("offset 0x%X out of range", c.Offset)
	}
	if _, err := w.Seek(int64(c.Offset), io.SeekStart); err != nil {
		return fmt.Errorf("seek: %w", err)
	}

	b := target(c, dir)
	n, err := w.Write(b)
	if err != nil {
		return fmt.Errorf("write: %w", err)
	}
	if n != len(b) {
		return fmt.Errorf("write: %w (%d of %d bytes)", io.ErrShortWrite, n, len(b))
	}
	return nil
}

// Check verifies that every change's offset currently holds the bytes that
// dir would overwrite. It never writes.
func Check(r io.ReaderAt, changes []registry.Change, dir Direction) error {
	for i, c := range changes {
		want := source(c, dir)
		if c.Offset > math.MaxInt64 {
			return &ReadError{Index: i, Offset: c.Offset, Cause: fmt.Errorf("offset out of range")}
		}

		got := make([]byte, len(want))
		n, err := r.ReadAt(got, int64(c.Offset))
		if err != nil && !(errors.Is(err, io.EOF) && n == len(got)) {
			if errors.Is(err, io.EOF) {
				return &MismatchError{Direction: dir, Index: i, Offset: c.Offset, Want: want, Got: got[:n]}
			}
			return &ReadError{Index: i, Offset: c.Offset, Cause: err}
		}

		if !bytes.Equal(got, want) {
			return &MismatchError{Direction: dir, Index: i, Offset: c.Offset, Want: want, Got: got}
		}
	}
	return nil
}
