package main

import (
	"fmt"
	"os"
	"path/filepath"

	"go.uber.org/multierr"

	"github.com/joshuapare/bl2patch/exe/engine"
	"github.com/joshuapare/bl2patch/exe/state"
	"github.com/joshuapare/bl2patch/internal/backup"
	"github.com/joshuapare/bl2patch/steam"
)

// targetPath returns the executable to operate on: --exe when given,
// otherwise <install dir>/<executable> for the configured app.
func targetPath() (string, error) {
	if exePath != "" {
		return exePath, nil
	}

	printVerbose("Resolving Steam app %d\n", cfg.AppID)
	dir, err := steam.NewResolver(cfg.SteamRoots...).InstallDir(cfg.AppID)
	if err != nil {
		return "", err
	}
	printVerbose("Install directory: %s\n", dir)
	return filepath.Join(dir, filepath.FromSlash(cfg.Executable)), nil
}

// withExe opens path read-write without creating it and runs fn. A close
// error is reported alongside fn's.
func withExe(path string, fn func(f *os.File) error) (err error) {
	f, err := os.OpenFile(path, os.O_RDWR, 0)
	if err != nil {
		return fmt.Errorf("open executable: %w", err)
	}
	defer func() {
		err = multierr.Append(err, f.Close())
	}()
	return fn(f)
}

// withExeReadOnly is withExe for commands that never write.
func withExeReadOnly(path string, fn func(f *os.File) error) (err error) {
	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("open executable: %w", err)
	}
	defer func() {
		err = multierr.Append(err, f.Close())
	}()
	return fn(f)
}

func newBackupManager() *backup.Manager {
	opts := backup.DefaultOptions()
	opts.Dir = cfg.Backup.Dir
	opts.Keep = cfg.Backup.Keep
	opts.SyncMode = cfg.SyncMode()
	return backup.New(opts)
}

// newResolver returns a state resolver that backs up path before writing
// when backups are enabled.
func newResolver(path string) *state.Resolver {
	opts := state.DefaultOptions()
	opts.SyncMode = cfg.SyncMode()

	if cfg.Backup.Enabled {
		mgr := newBackupManager()
		opts.BeforeWrite = func(before state.State, dir engine.Direction) error {
			p, err := mgr.Create(path)
			if err != nil {
				return err
			}
			lastBackup = p
			printVerbose("Backup: %s\n", p)
			return nil
		}
	}

	return state.NewResolver(newRegistry(), opts)
}

// stateView is the JSON form of a state.State.
type stateView struct {
	State   string `json:"state"`
	Version string `json:"version,omitempty"`
	SHA1    string `json:"sha1,omitempty"`
}

func viewOf(s state.State) stateView {
	v := stateView{State: s.Kind.String()}
	if s.Version != nil {
		v.Version = s.Version.Name
	}
	if !s.Digest.IsZero() {
		v.SHA1 = s.Digest.String()
	}
	return v
}
