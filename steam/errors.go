package steam

import (
	"errors"
	"fmt"
)

var (
	// ErrIndexNotFound indicates no Steam root held a libraryfolders.vdf.
	ErrIndexNotFound = errors.New("steam: library index not found")

	// ErrManifestNotFound indicates no library root held the app manifest.
	ErrManifestNotFound = errors.New("steam: app manifest not found under any library root")

	// ErrMalformed indicates an index or manifest lacked the expected keys or
	// could not be parsed.
	ErrMalformed = errors.New("steam: malformed index or manifest")
)

// ResolveError reports why an install path could not be resolved.
type ResolveError struct {
	AppID int
	Path  string // File or directory involved, if any
	Err   error  // One of the sentinels above
	Cause error  // Underlying parse or I/O error, if any
}

// Error implements the error interface.
func (e *ResolveError) Error() string {
	msg := fmt.Sprintf("resolve app %d: %v", e.AppID, e.Err)
	if e.Path != "" {
		msg += fmt.Sprintf(" (%s)", e.Path)
	}
	if e.Cause != nil {
		msg += ": " + e.Cause.Error()
	}
	return msg
}

// Unwrap returns both the sentinel and the cause.
func (e *ResolveError) Unwrap() []error {
	if e.Cause == nil {
		return []error{e.Err}
	}
	return []error{e.Err, e.Cause}
}
