package digest

import (
	"crypto/sha1" //nolint:gosec // identity key for known builds, not a security boundary
	"encoding/hex"
	"errors"
	"fmt"
	"io"
)

// Size is the width of a Digest in bytes.
const Size = sha1.Size

// ChunkSize is the read buffer size used while fingerprinting.
const ChunkSize = 0x10000

// ErrInvalidDigest indicates a hex string did not decode to a Digest.
var ErrInvalidDigest = errors.New("digest: invalid digest")

// Digest is a content fingerprint.
type Digest [Size]byte

// Of fingerprints r from its current position to EOF.
func Of(r io.Reader) (Digest, error) {
	h := sha1.New() //nolint:gosec
	buf := make([]byte, ChunkSize)

	// Hide any WriterTo on r so every read goes through buf.
	if _, err := io.CopyBuffer(h, struct{ io.Reader }{r}, buf); err != nil {
		return Digest{}, fmt.Errorf("digest: read: %w", err)
	}

	var d Digest
	h.Sum(d[:0])
	return d, nil
}

// Bytes fingerprints an in-memory buffer.
func Bytes(b []byte) Digest {
	return Digest(sha1.Sum(b)) //nolint:gosec
}

// Parse decodes a 40-character hex string.
func Parse(s string) (Digest, error) {
	var d Digest
	if len(s) != hex.EncodedLen(Size) {
		return d, fmt.Errorf("%w: %q has length %d, want %d", ErrInvalidDigest, s, len(s), hex.EncodedLen(Size))
	}
	if _, err := hex.Decode(d[:], []byte(s)); err != nil {
		return Digest{}, fmt.Errorf("%w: %q: %v", ErrInvalidDigest, s, err)
	}
	return d, nil
}

// MustParse is like Parse but panics on error. It is meant for
// compiled-in tables.
func MustParse(s string) Digest {
	d, err := Parse(s)
	if err != nil {
		panic(err)
	}
	return d
}

// String returns the lowercase hex encoding.
func (d Digest) String() string {
	return hex.EncodeToString(d[:])
}

// IsZero reports whether d is the zero value.
func (d Digest) IsZero() bool {
	return d == Digest{}
}

// MarshalText implements encoding.TextMarshaler so digests print as hex in
// JSON output.
func (d Digest) MarshalText() ([]byte, error) {
	return []byte(d.String()), nil
}
