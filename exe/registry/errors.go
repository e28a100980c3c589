package registry

import "errors"

var (
	// ErrNoChanges indicates a version with an empty change list.
	ErrNoChanges = errors.New("registry: version has no changes")

	// ErrEmptyChange indicates a change that writes zero bytes.
	ErrEmptyChange = errors.New("registry: change is empty")

	// ErrLengthMismatch indicates a change whose original and patch bytes differ in length.
	ErrLengthMismatch = errors.New("registry: original and patch lengths differ")

	// ErrOverlap indicates two changes of one version cover the same bytes.
	ErrOverlap = errors.New("registry: changes overlap")

	// ErrOffsetOverflow indicates a change whose end offset does not fit in a
	// signed 64-bit file offset.
	ErrOffsetOverflow = errors.New("registry: change offset overflows")

	// ErrSameDigest indicates a version whose patched and unpatched digests are equal.
	ErrSameDigest = errors.New("registry: patched digest equals unpatched digest")

	// ErrDuplicateDigest indicates a digest claimed by more than one version.
	ErrDuplicateDigest = errors.New("registry: digest registered twice")
)
