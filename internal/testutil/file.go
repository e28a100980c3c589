package testutil

import (
	"errors"
	"os"
)

// ErrInjected is returned by FaultyFile once its budget is spent.
var ErrInjected = errors.New("testutil: injected I/O failure")

// FaultyFile wraps an *os.File and fails writes after a number of successful
// ones. Reads and seeks pass through.
type FaultyFile struct {
	*os.File

	// WritesOK is how many Write calls succeed before failures start.
	WritesOK int

	// ShortWrite makes the failing write report one byte fewer instead of an
	// error.
	ShortWrite bool

	// FailReads makes every Read fail.
	FailReads bool

	Writes int
}

// Write implements io.Writer.
func (f *FaultyFile) Write(p []byte) (int, error) {
	if f.Writes >= f.WritesOK {
		if f.ShortWrite && len(p) > 0 {
			n, err := f.File.Write(p[:len(p)-1])
			f.Writes++
			return n, err
		}
		return 0, ErrInjected
	}
	f.Writes++
	return f.File.Write(p)
}

// Read implements io.Reader.
func (f *FaultyFile) Read(p []byte) (int, error) {
	if f.FailReads {
		return 0, ErrInjected
	}
	return f.File.Read(p)
}

// ReadAt implements io.ReaderAt.
func (f *FaultyFile) ReadAt(p []byte, off int64) (int, error) {
	if f.FailReads {
		return 0, ErrInjected
	}
	return f.File.ReadAt(p, off)
}
