package testutil

import (
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/joshuapare/bl2patch/exe/digest"
	"github.com/joshuapare/bl2patch/exe/registry"
)

// Pristine returns size bytes of deterministic content. Different seeds give
// different content.
func Pristine(size int, seed byte) []byte {
	data := make([]byte, size)
	state := uint32(seed)*2654435761 + 1
	for i := range data {
		state = state*1103515245 + 12345
		data[i] = byte(state >> 16)
	}
	return data
}

// Patched returns a copy of data with changes written in the given direction.
func Patched(data []byte, changes []registry.Change, forward bool) []byte {
	out := append([]byte(nil), data...)
	for _, c := range changes {
		src := c.Patch
		if !forward {
			src = c.Original
		}
		copy(out[c.Offset:], src)
	}
	return out
}

// VersionFor builds a registry version for data. Each change's Original bytes
// are taken from data at its offset, so callers only supply offsets and patch
// bytes.
func VersionFor(t testing.TB, name string, data []byte, changes ...registry.Change) registry.Version {
	t.Helper()

	filled := make([]registry.Change, len(changes))
	for i, c := range changes {
		end := int(c.Offset) + len(c.Patch)
		if end > len(data) {
			t.Fatalf("change %d at 0x%X runs past %d bytes", i, c.Offset, len(data))
		}
		if c.Original == nil {
			c.Original = append([]byte(nil), data[c.Offset:end]...)
		}
		filled[i] = c
	}

	v := registry.Version{
		Name:      name,
		Unpatched: digest.Bytes(data),
		Patched:   digest.Bytes(Patched(data, filled, true)),
		Changes:   filled,
	}
	if err := registry.Validate(v); err != nil {
		t.Fatalf("invalid test version: %v", err)
	}
	return v
}

// WriteExe writes data to a file named name in a fresh temp directory and
// returns its path.
func WriteExe(t testing.TB, name string, data []byte) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), name)
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("Failed to create exe dir: %v", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		t.Fatalf("Failed to write exe: %v", err)
	}
	return path
}

// OpenRW opens path read-write and closes it when the test ends.
func OpenRW(t testing.TB, path string) *os.File {
	t.Helper()

	f, err := os.OpenFile(path, os.O_RDWR, 0)
	if err != nil {
		t.Fatalf("Failed to open exe: %v", err)
	}
	t.Cleanup(func() { f.Close() })
	return f
}

// SetupExe writes data to a temp file and opens it read-write.
//
// Example:
//
//	f := testutil.SetupExe(t, testutil.Pristine(100, 1))
//	st, err := state.Classify(f, reg)
func SetupExe(t testing.TB, data []byte) *os.File {
	t.Helper()
	return OpenRW(t, WriteExe(t, "Borderlands2.exe", data))
}

// ReadAll rereads the whole file behind f from the start.
func ReadAll(t testing.TB, f *os.File) []byte {
	t.Helper()

	if _, err := f.Seek(0, io.SeekStart); err != nil {
		t.Fatalf("Failed to seek: %v", err)
	}
	data, err := io.ReadAll(f)
	if err != nil {
		t.Fatalf("Failed to read exe: %v", err)
	}
	return data
}
