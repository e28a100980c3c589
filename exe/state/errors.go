package state

import (
	"errors"
	"fmt"

	"github.com/joshuapare/bl2patch/exe/digest"
	"github.com/joshuapare/bl2patch/exe/engine"
)

var (
	// ErrUnknownVersion indicates the file matched no registered version.
	ErrUnknownVersion = errors.New("state: unknown executable version")

	// ErrCorrupted indicates the file may have been left in a state that is
	// neither a known pristine nor a known patched build.
	ErrCorrupted = errors.New("state: file may be corrupted")

	// ErrPreflight indicates the bytes at the change offsets were not the
	// expected ones. Nothing was written.
	ErrPreflight = errors.New("state: pre-flight check failed")
)

// UnknownVersionError reports a digest that matched no registry entry.
type UnknownVersionError struct {
	Digest digest.Digest
}

// Error implements the error interface.
func (e *UnknownVersionError) Error() string {
	return fmt.Sprintf("unknown executable version: SHA1: %s", e.Digest)
}

// Is matches ErrUnknownVersion.
func (e *UnknownVersionError) Is(target error) bool {
	return target == ErrUnknownVersion
}

// ReadError reports an I/O failure while fingerprinting. Nothing was written.
type ReadError struct {
	Op    string // "seek" or "fingerprint"
	Cause error
}

// Error implements the error interface.
func (e *ReadError) Error() string {
	return fmt.Sprintf("I/O error during %s: %v", e.Op, e.Cause)
}

// Unwrap returns the underlying error.
func (e *ReadError) Unwrap() error {
	return e.Cause
}

// WriteError reports an I/O failure while writing changes. Some changes may
// already be on disk.
type WriteError struct {
	Version   string
	Direction engine.Direction
	Applied   int // Changes written before the failure
	Total     int
	Cause     error
}

// Error implements the error interface.
func (e *WriteError) Error() string {
	return fmt.Sprintf("I/O error during %s of %q after %d/%d changes, file may be corrupted: %v",
		e.Direction, e.Version, e.Applied, e.Total, e.Cause)
}

// Unwrap returns the underlying error.
func (e *WriteError) Unwrap() error {
	return e.Cause
}

// Is matches ErrCorrupted.
func (e *WriteError) Is(target error) bool {
	return target == ErrCorrupted
}

// VerifyError reports a classification that did not match expectations.
//
// Phase "pre" means the bytes at the change offsets were wrong before any
// write. Phase "post" means every write succeeded but the resulting file did
// not fingerprint to the expected state.
type VerifyError struct {
	Phase    string
	Expected State
	Got      State
	Cause    error
}

// Error implements the error interface.
func (e *VerifyError) Error() string {
	if e.Phase == PhasePre {
		return fmt.Sprintf("pre-flight check failed for %s: %v", e.Expected, e.Cause)
	}
	msg := fmt.Sprintf("patch did not verify: expected %s, got %s", e.Expected, e.Got)
	if e.Cause != nil {
		msg += ": " + e.Cause.Error()
	}
	return msg
}

// Unwrap returns the underlying error, if any.
func (e *VerifyError) Unwrap() error {
	return e.Cause
}

// Is matches ErrCorrupted for post-write failures and ErrPreflight for
// pre-flight ones.
func (e *VerifyError) Is(target error) bool {
	switch target {
	case ErrCorrupted:
		return e.Phase == PhasePost
	case ErrPreflight:
		return e.Phase == PhasePre
	}
	return false
}

// Verification phases.
const (
	PhasePre  = "pre"
	PhasePost = "post"
)
