package main

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/joshuapare/bl2patch/exe/registry"
	"github.com/joshuapare/bl2patch/internal/config"
	"github.com/joshuapare/bl2patch/internal/fsync"
	"github.com/joshuapare/bl2patch/internal/testutil"
)

// fixture is a synthetic executable with a one-version registry built for it.
type fixture struct {
	pristine []byte
	patched  []byte
	version  registry.Version
}

// newFixture builds a fixture and makes it the registry the commands use.
func newFixture(t *testing.T) fixture {
	t.Helper()

	data := testutil.Pristine(4096, 7)
	v := testutil.VersionFor(t, "synthetic", data,
		registry.Change{Offset: 0x100, Patch: []byte{^data[0x100]}},
		registry.Change{Offset: 0x200, Patch: []byte{^data[0x200], ^data[0x201]}},
	)

	orig := newRegistry
	newRegistry = func() *registry.Registry { return registry.MustNew(v) }
	t.Cleanup(func() { newRegistry = orig })

	return fixture{
		pristine: data,
		patched:  testutil.Patched(data, v.Changes, true),
		version:  v,
	}
}

// resetFlags restores every global to its default and points backups at a
// temp directory.
func resetFlags(t *testing.T) {
	t.Helper()

	verbose = false
	quiet = false
	jsonOut = false
	noColor = true
	exePath = ""
	steamRoots = nil
	configPath = filepath.Join(t.TempDir(), "missing.yaml")
	noBackup = false
	restoreFrom = ""
	restoreList = false
	lastBackup = ""

	cfg = config.Default()
	cfg.Sync = fsync.None.String()
	cfg.Backup.Dir = filepath.Join(t.TempDir(), "backups")
}

// captureOutput captures stdout while running a function
func captureOutput(t *testing.T, fn func() error) (string, error) {
	t.Helper()
	return capture(t, &os.Stdout, fn)
}

// captureStderr captures stderr while running a function
func captureStderr(t *testing.T, fn func() error) (string, error) {
	t.Helper()
	return capture(t, &os.Stderr, fn)
}

func capture(t *testing.T, target **os.File, fn func() error) (string, error) {
	t.Helper()

	// Save original stream
	orig := *target

	// Create a pipe to capture output
	r, w, err := os.Pipe()
	if err != nil {
		t.Fatalf("failed to create pipe: %v", err)
	}

	// Redirect stream to pipe
	*target = w

	// Drain concurrently so large output cannot block the writer
	done := make(chan struct{})
	var buf bytes.Buffer
	go func() {
		_, _ = buf.ReadFrom(r)
		close(done)
	}()

	// Run function
	fnErr := fn()

	// Close write end and restore stream
	w.Close()
	*target = orig
	<-done
	r.Close()

	return buf.String(), fnErr
}

// decodeJSON unmarshals command output into v
func decodeJSON(t *testing.T, output string, v interface{}) {
	t.Helper()
	if err := json.Unmarshal([]byte(output), v); err != nil {
		t.Fatalf("invalid JSON output: %v\nOutput: %s", err, output)
	}
}
