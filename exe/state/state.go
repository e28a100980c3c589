// Package state classifies an executable against the registry and drives the
// patch engine in the matching direction.
//
// A file is in one of four states:
//
//   - Unrecognized: the digest matched nothing; never written to
//   - Unpatched(v): pristine build v; toggling applies v's changes
//   - Patched(v): build v with changes applied; toggling reverts them
//   - Corrupted: a write or post-write verification failed
//
// Corrupted cannot be detected by fingerprinting alone. It is only reported
// after a failed attempt.
package state

import (
	"fmt"
	"io"

	"github.com/joshuapare/bl2patch/exe/digest"
	"github.com/joshuapare/bl2patch/exe/engine"
	"github.com/joshuapare/bl2patch/exe/registry"
)

// Kind enumerates file states.
type Kind int

const (
	// Unrecognized means the digest matched no version.
	Unrecognized Kind = iota

	// Unpatched means the file is a pristine registered build.
	Unpatched

	// Patched means the file is a registered build with all changes applied.
	Patched

	// Corrupted means a patch attempt left the file in an unknown state.
	Corrupted
)

// String returns the lowercase kind name.
func (k Kind) String() string {
	switch k {
	case Unrecognized:
		return "unrecognized"
	case Unpatched:
		return "unpatched"
	case Patched:
		return "patched"
	case Corrupted:
		return "corrupted"
	default:
		return fmt.Sprintf("Kind(%d)", int(k))
	}
}

// MarshalText implements encoding.TextMarshaler.
func (k Kind) MarshalText() ([]byte, error) {
	return []byte(k.String()), nil
}

// State is the classification of one file at one point in time.
type State struct {
	Kind    Kind
	Version *registry.Version
	Digest  digest.Digest
}

// String formats the state as e.g. `patched("win32 ...")`.
func (s State) String() string {
	if s.Version == nil {
		return s.Kind.String()
	}
	return fmt.Sprintf("%s(%q)", s.Kind, s.Version.Name)
}

// Known reports whether the state identifies a registered version.
func (s State) Known() bool {
	return (s.Kind == Unpatched || s.Kind == Patched) && s.Version != nil
}

// Direction returns the engine direction that moves s to the opposite known
// state. ok is false for unknown states.
func (s State) Direction() (engine.Direction, bool) {
	switch {
	case !s.Known():
		return 0, false
	case s.Kind == Unpatched:
		return engine.Forward, true
	default:
		return engine.Reverse, true
	}
}

// Toggled returns the state expected after running Direction on s.
func (s State) Toggled() State {
	out := State{Version: s.Version}
	switch s.Kind {
	case Unpatched:
		out.Kind = Patched
		out.Digest = s.Version.Patched
	case Patched:
		out.Kind = Unpatched
		out.Digest = s.Version.Unpatched
	default:
		out.Kind = s.Kind
		out.Digest = s.Digest
	}
	return out
}

// Classify rewinds rs, fingerprints it and looks the digest up in reg.
// An unmatched digest yields an Unrecognized state and a nil error; only I/O
// failures are returned as errors.
func Classify(rs io.ReadSeeker, reg *registry.Registry) (State, error) {
	if _, err := rs.Seek(0, io.SeekStart); err != nil {
		return State{}, &ReadError{Op: "seek", Cause: err}
	}

	d, err := digest.Of(rs)
	if err != nil {
		return State{}, &ReadError{Op: "fingerprint", Cause: err}
	}

	m, ok := reg.MatchAny(d)
	if !ok {
		return State{Kind: Unrecognized, Digest: d}, nil
	}

	kind := Unpatched
	if m.Patched {
		kind = Patched
	}
	return State{Kind: kind, Version: m.Version, Digest: d}, nil
}
