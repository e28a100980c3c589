// Package backup keeps timestamped copies of a file so an in-place patch can
// be undone.
//
// Backup naming: <name><suffix>.<timestamp>
// Example: Borderlands2.exe.bak.20190624-153000.000
package backup

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"go.uber.org/multierr"

	"github.com/joshuapare/bl2patch/internal/fsync"
	"github.com/joshuapare/bl2patch/internal/logger"
)

var (
	// ErrNoBackup indicates no backup exists for a path.
	ErrNoBackup = errors.New("backup: no backup found")

	// ErrExists indicates no free backup name was found.
	ErrExists = errors.New("backup: backup already exists")
)

const maxNameAttempts = 1000

// Options configures backup naming, location and retention.
type Options struct {
	// Dir holds the backups. Empty means alongside the original.
	Dir string

	// Keep is the number of backups retained per file after Create.
	// Zero or negative keeps all of them.
	// Default: 5
	Keep int

	// Suffix is appended to the file name before the timestamp.
	// Default: ".bak"
	Suffix string

	// TimeFormat is the timestamp layout. It must sort chronologically as a
	// string.
	// Default: "20060102-150405.000"
	TimeFormat string

	// SyncMode controls the flush of each written copy.
	// Default: fsync.Auto
	SyncMode fsync.Mode

	// Now returns the current time. Default: time.Now
	Now func() time.Time
}

// DefaultOptions returns options that keep five backups next to the original.
func DefaultOptions() Options {
	return Options{
		Keep:       5,
		Suffix:     ".bak",
		TimeFormat: "20060102-150405.000",
		SyncMode:   fsync.Auto,
		Now:        time.Now,
	}
}

// Info describes one backup.
type Info struct {
	Path      string    `json:"path"`
	CreatedAt time.Time `json:"created_at"`
	Size      int64     `json:"size"`
}

// Manager creates, lists, restores and rotates backups.
type Manager struct {
	opts Options
}

// New returns a manager. Empty fields in opts take their defaults.
func New(opts Options) *Manager {
	def := DefaultOptions()
	if opts.Suffix == "" {
		opts.Suffix = def.Suffix
	}
	if opts.TimeFormat == "" {
		opts.TimeFormat = def.TimeFormat
	}
	if opts.Now == nil {
		opts.Now = def.Now
	}
	return &Manager{opts: opts}
}

// Options returns the effective options.
func (m *Manager) Options() Options { return m.opts }

// dirFor returns the directory holding backups of path.
func (m *Manager) dirFor(path string) string {
	if m.opts.Dir != "" {
		return m.opts.Dir
	}
	return filepath.Dir(path)
}

// prefixFor returns the name shared by every backup of path, up to the
// timestamp.
func (m *Manager) prefixFor(path string) string {
	return filepath.Base(path) + m.opts.Suffix + "."
}

// Create copies path to a new timestamped backup and rotates old ones.
// The copy is written to a temp file, flushed, and renamed into place, so a
// backup that exists is always complete.
func (m *Manager) Create(path string) (string, error) {
	src, err := os.Open(path)
	if err != nil {
		return "", fmt.Errorf("backup: open source: %w", err)
	}
	defer src.Close()

	stat, err := src.Stat()
	if err != nil {
		return "", fmt.Errorf("backup: stat source: %w", err)
	}

	dir := m.dirFor(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("backup: create directory: %w", err)
	}

	backupPath, err := m.freeName(dir, path)
	if err != nil {
		return "", err
	}

	if err := m.copyAtomic(backupPath, src, stat.Mode().Perm()); err != nil {
		return "", fmt.Errorf("backup: write %s: %w", backupPath, err)
	}

	if err := verifySize(backupPath, stat.Size()); err != nil {
		_ = os.Remove(backupPath)
		return "", fmt.Errorf("backup: verify %s: %w", backupPath, err)
	}

	logger.Info("backup created", "source", path, "backup", backupPath, "size", stat.Size())

	if m.opts.Keep > 0 {
		if removed, err := m.Rotate(path, m.opts.Keep); err != nil {
			logger.Warn("backup rotation failed", "source", path, "removed", removed, "error", err)
		}
	}

	return backupPath, nil
}

// freeName returns an unused backup path for the current time. Names taken
// within the same timestamp tick move forward one millisecond at a time so
// that name order stays creation order.
func (m *Manager) freeName(dir, path string) (string, error) {
	now := m.opts.Now()
	for range maxNameAttempts {
		p := filepath.Join(dir, m.prefixFor(path)+now.Format(m.opts.TimeFormat))
		if _, err := os.Lstat(p); errors.Is(err, os.ErrNotExist) {
			return p, nil
		}
		now = now.Add(time.Millisecond)
	}
	return "", fmt.Errorf("%w: %s%s at %s", ErrExists, m.prefixFor(path), m.opts.TimeFormat, dir)
}

// List returns the backups of path, newest first. A missing backup
// directory yields an empty list.
func (m *Manager) List(path string) ([]Info, error) {
	dir := m.dirFor(path)
	entries, err := os.ReadDir(dir)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("backup: read directory: %w", err)
	}

	prefix := m.prefixFor(path)
	var backups []Info
	for _, entry := range entries {
		name := entry.Name()
		if entry.IsDir() || !strings.HasPrefix(name, prefix) {
			continue
		}
		created, err := time.ParseInLocation(m.opts.TimeFormat, strings.TrimPrefix(name, prefix), time.Local)
		if err != nil {
			continue // not ours
		}
		info, err := entry.Info()
		if err != nil {
			continue // removed since ReadDir
		}
		backups = append(backups, Info{
			Path:      filepath.Join(dir, name),
			CreatedAt: created,
			Size:      info.Size(),
		})
	}

	sort.Slice(backups, func(i, j int) bool {
		return backups[i].CreatedAt.After(backups[j].CreatedAt)
	})
	return backups, nil
}

// Latest returns the newest backup of path, or ErrNoBackup.
func (m *Manager) Latest(path string) (Info, error) {
	backups, err := m.List(path)
	if err != nil {
		return Info{}, err
	}
	if len(backups) == 0 {
		return Info{}, fmt.Errorf("%w for %s", ErrNoBackup, path)
	}
	return backups[0], nil
}

// Restore atomically replaces path with the contents of backupPath. The
// original's permissions are kept when it still exists.
func (m *Manager) Restore(path, backupPath string) error {
	src, err := os.Open(backupPath)
	if err != nil {
		return fmt.Errorf("backup: open backup: %w", err)
	}
	defer src.Close()

	perm := os.FileMode(0o644)
	if stat, err := os.Stat(path); err == nil {
		perm = stat.Mode().Perm()
	}

	if err := m.copyAtomic(path, src, perm); err != nil {
		return fmt.Errorf("backup: restore %s: %w", path, err)
	}

	logger.Info("backup restored", "target", path, "backup", backupPath)
	return nil
}

// Rotate removes all but the newest keep backups of path and returns how
// many were removed.
func (m *Manager) Rotate(path string, keep int) (int, error) {
	backups, err := m.List(path)
	if err != nil {
		return 0, err
	}
	if keep < 0 {
		keep = 0
	}

	var (
		removed int
		errs    error
	)
	for i := keep; i < len(backups); i++ {
		if err := os.Remove(backups[i].Path); err != nil {
			errs = multierr.Append(errs, err)
			continue
		}
		removed++
	}
	return removed, errs
}

// copyAtomic writes r to dst via a temp file in dst's directory.
func (m *Manager) copyAtomic(dst string, r io.Reader, perm os.FileMode) (err error) {
	tmp, err := os.CreateTemp(filepath.Dir(dst), ".bl2patch-tmp-*")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	tmpPath := tmp.Name()

	// Clean up temp file on error
	defer func() {
		if tmp != nil {
			err = multierr.Append(err, tmp.Close())
		}
		if err != nil {
			_ = os.Remove(tmpPath)
		}
	}()

	if _, err = io.Copy(tmp, r); err != nil {
		return fmt.Errorf("write temp file: %w", err)
	}
	if err = tmp.Chmod(perm); err != nil {
		return fmt.Errorf("chmod temp file: %w", err)
	}
	if err = fsync.File(tmp, m.opts.SyncMode); err != nil {
		return fmt.Errorf("sync temp file: %w", err)
	}

	closeErr := tmp.Close()
	tmp = nil
	if closeErr != nil {
		return fmt.Errorf("close temp file: %w", closeErr)
	}

	if err = os.Rename(tmpPath, dst); err != nil {
		return fmt.Errorf("rename temp file: %w", err)
	}
	return nil
}

// verifySize checks that the backup exists and has the expected size.
func verifySize(path string, want int64) error {
	stat, err := os.Stat(path)
	if err != nil {
		return err
	}
	if stat.Size() != want {
		return fmt.Errorf("size mismatch: got %d, want %d", stat.Size(), want)
	}
	return nil
}
