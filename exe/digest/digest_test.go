package digest

import (
	"bytes"
	"errors"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

// countingReader records the largest single read it served.
type countingReader struct {
	r       io.Reader
	maxRead int
}

func (c *countingReader) Read(p []byte) (int, error) {
	if len(p) > c.maxRead {
		c.maxRead = len(p)
	}
	return c.r.Read(p)
}

type failingReader struct{}

func (failingReader) Read([]byte) (int, error) {
	return 0, errors.New("disk on fire")
}

func TestOf_KnownVectors(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{name: "empty", input: "", want: "da39a3ee5e6b4b0d3255bfef95601890afd80709"},
		{name: "abc", input: "abc", want: "a9993e364706816aba3e25717850c26c9cd0d89d"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d, err := Of(strings.NewReader(tt.input))
			require.NoError(t, err)
			require.Equal(t, tt.want, d.String())
			require.Equal(t, Bytes([]byte(tt.input)), d)
		})
	}
}

func TestOf_Deterministic(t *testing.T) {
	data := bytes.Repeat([]byte{0x4d, 0x5a, 0x90, 0x00}, 50000)

	first, err := Of(bytes.NewReader(data))
	require.NoError(t, err)
	second, err := Of(bytes.NewReader(data))
	require.NoError(t, err)
	require.Equal(t, first, second)
}

func TestOf_SingleByteDifference(t *testing.T) {
	data := bytes.Repeat([]byte("borderlands"), 1000)
	changed := append([]byte(nil), data...)
	changed[len(changed)/2] ^= 0x01

	require.NotEqual(t, Bytes(data), Bytes(changed))
}

func TestOf_BoundedReads(t *testing.T) {
	data := make([]byte, 5*ChunkSize+123)
	for i := range data {
		data[i] = byte(i * 7)
	}

	cr := &countingReader{r: bytes.NewReader(data)}
	d, err := Of(cr)
	require.NoError(t, err)
	require.Equal(t, Bytes(data), d)
	require.LessOrEqual(t, cr.maxRead, ChunkSize)
}

func TestOf_LeavesReaderAtEOF(t *testing.T) {
	path := filepath.Join(t.TempDir(), "game.exe")
	require.NoError(t, os.WriteFile(path, []byte("some bytes"), 0o644))

	f, err := os.Open(path)
	require.NoError(t, err)
	defer f.Close()

	first, err := Of(f)
	require.NoError(t, err)

	// Nothing left to read until the caller rewinds.
	again, err := Of(f)
	require.NoError(t, err)
	require.Equal(t, Bytes(nil), again)

	_, err = f.Seek(0, io.SeekStart)
	require.NoError(t, err)
	rewound, err := Of(f)
	require.NoError(t, err)
	require.Equal(t, first, rewound)
}

func TestOf_ReadError(t *testing.T) {
	_, err := Of(failingReader{})
	require.Error(t, err)
	require.Contains(t, err.Error(), "disk on fire")
}

func TestParse(t *testing.T) {
	d, err := Parse("bc1d695c6fdb3dea491b367f73bbb045c316b32e")
	require.NoError(t, err)
	require.Equal(t, "bc1d695c6fdb3dea491b367f73bbb045c316b32e", d.String())
	require.False(t, d.IsZero())

	_, err = Parse("bc1d")
	require.ErrorIs(t, err, ErrInvalidDigest)

	_, err = Parse(strings.Repeat("zz", Size))
	require.ErrorIs(t, err, ErrInvalidDigest)

	require.Panics(t, func() { MustParse("nope") })
	require.True(t, Digest{}.IsZero())
}

func TestMarshalText(t *testing.T) {
	d := Bytes([]byte("abc"))
	text, err := d.MarshalText()
	require.NoError(t, err)
	require.Equal(t, d.String(), string(text))
}
