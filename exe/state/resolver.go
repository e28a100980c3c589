package state

import (
	"errors"
	"fmt"
	"io"
	"log/slog"

	"github.com/joshuapare/bl2patch/exe/engine"
	"github.com/joshuapare/bl2patch/exe/registry"
	"github.com/joshuapare/bl2patch/internal/fsync"
	"github.com/joshuapare/bl2patch/internal/logger"
)

// File is the open, writable executable. *os.File satisfies it.
type File interface {
	io.ReadWriteSeeker
	io.ReaderAt
}

// Options configures a Resolver.
//
// Use DefaultOptions() for the settings the CLI runs with.
type Options struct {
	// Preflight compares the bytes at every change offset with the expected
	// pre-write bytes before writing anything.
	// Default: true
	Preflight bool

	// Sync flushes the file to stable storage after writing, when the handle
	// exposes a file descriptor.
	// Default: true
	Sync bool

	// SyncMode selects how hard Sync flushes.
	// Default: fsync.Auto
	SyncMode fsync.Mode

	// BeforeWrite runs after classification and pre-flight, immediately before
	// the first byte is written. An error aborts the operation with the file
	// untouched. The CLI uses it to take a backup.
	BeforeWrite func(before State, dir engine.Direction) error

	// Logger receives progress records. Default: logger.L
	Logger *slog.Logger
}

// DefaultOptions returns the recommended options.
func DefaultOptions() Options {
	return Options{
		Preflight: true,
		Sync:      true,
		SyncMode:  fsync.Auto,
	}
}

// Result describes one resolver run.
type Result struct {
	Before    State            `json:"before"`
	After     State            `json:"after"`
	Direction engine.Direction `json:"direction"`
	Changed   bool             `json:"changed"`
	Changes   int              `json:"changes"`
}

// Resolver classifies files against a registry and patches them.
//
// A Resolver is not safe for concurrent use on the same file; the file is
// assumed to be exclusively owned for the duration of a call.
type Resolver struct {
	reg  *registry.Registry
	opts Options
	log  *slog.Logger
}

// NewResolver returns a resolver over reg.
func NewResolver(reg *registry.Registry, opts Options) *Resolver {
	log := opts.Logger
	if log == nil {
		log = logger.L
	}
	return &Resolver{reg: reg, opts: opts, log: log}
}

// Registry returns the registry the resolver matches against.
func (r *Resolver) Registry() *registry.Registry {
	return r.reg
}

// Status classifies f without writing.
func (r *Resolver) Status(f io.ReadSeeker) (State, error) {
	st, err := Classify(f, r.reg)
	if err != nil {
		return st, err
	}
	r.log.Debug("classified executable", "state", st.Kind, "sha1", st.Digest)
	return st, nil
}

// Toggle applies the changes if f is unpatched and reverts them if it is
// patched. Running Toggle twice returns the file to its original content.
func (r *Resolver) Toggle(f File) (Result, error) {
	return r.run(f, nil)
}

// Apply brings f to the patched state. An already patched file is left alone.
func (r *Resolver) Apply(f File) (Result, error) {
	want := Patched
	return r.run(f, &want)
}

// Revert brings f to the unpatched state. An already pristine file is left
// alone.
func (r *Resolver) Revert(f File) (Result, error) {
	want := Unpatched
	return r.run(f, &want)
}

func (r *Resolver) run(f File, want *Kind) (Result, error) {
	before, err := r.Status(f)
	if err != nil {
		return Result{}, err
	}
	res := Result{Before: before, After: before}

	if !before.Known() {
		r.log.Warn("unknown executable version", "sha1", before.Digest)
		return res, &UnknownVersionError{Digest: before.Digest}
	}
	if want != nil && before.Kind == *want {
		r.log.Info("nothing to do", "state", before.Kind, "version", before.Version.Name)
		return res, nil
	}

	dir, _ := before.Direction()
	res.Direction = dir
	v := before.Version
	expected := before.Toggled()

	if r.opts.Preflight {
		if err := engine.Check(f, v.Changes, dir); err != nil {
			var mismatch *engine.MismatchError
			if errors.As(err, &mismatch) {
				return res, &VerifyError{Phase: PhasePre, Expected: before, Got: before, Cause: err}
			}
			return res, &ReadError{Op: "pre-flight", Cause: err}
		}
	}

	if r.opts.BeforeWrite != nil {
		if err := r.opts.BeforeWrite(before, dir); err != nil {
			return res, fmt.Errorf("state: before write: %w", err)
		}
	}

	r.log.Info("writing changes", "direction", dir, "version", v.Name, "changes", len(v.Changes))
	if err := engine.Apply(f, v.Changes, dir); err != nil {
		applied := 0
		var werr *engine.WriteError
		if errors.As(err, &werr) {
			applied = werr.Index
		}
		res.After = State{Kind: Corrupted, Version: v}
		res.Changed = applied > 0
		r.log.Error("write failed", "direction", dir, "applied", applied, "total", len(v.Changes), "error", err)
		return res, &WriteError{Version: v.Name, Direction: dir, Applied: applied, Total: len(v.Changes), Cause: err}
	}
	res.Changed = true
	res.Changes = len(v.Changes)

	if r.opts.Sync {
		if err := r.flush(f); err != nil {
			res.After = State{Kind: Corrupted, Version: v}
			return res, &WriteError{
				Version:   v.Name,
				Direction: dir,
				Applied:   len(v.Changes),
				Total:     len(v.Changes),
				Cause:     fmt.Errorf("flush: %w", err),
			}
		}
	}

	after, err := r.Status(f)
	if err != nil {
		res.After = State{Kind: Corrupted, Version: v}
		return res, &VerifyError{Phase: PhasePost, Expected: expected, Got: res.After, Cause: err}
	}
	if after.Kind != expected.Kind || after.Version != expected.Version {
		res.After = State{Kind: Corrupted, Version: v, Digest: after.Digest}
		r.log.Error("post-write verification failed", "expected", expected, "got", after, "sha1", after.Digest)
		return res, &VerifyError{Phase: PhasePost, Expected: expected, Got: after}
	}

	res.After = after
	r.log.Info("verified", "state", after.Kind, "sha1", after.Digest)
	return res, nil
}

// flush pushes written bytes to stable storage when f is backed by a file
// descriptor. Other handles are left to the caller.
func (r *Resolver) flush(f File) error {
	if fd, ok := f.(interface{ Fd() uintptr }); ok {
		return fsync.FD(fd.Fd(), r.opts.SyncMode)
	}
	if s, ok := f.(interface{ Sync() error }); ok {
		return s.Sync()
	}
	return nil
}
