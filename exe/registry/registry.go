// Package registry holds the catalog of executable builds the patcher knows
// how to modify.
//
// Each Version is identified by two digests, one for the pristine file and one
// for the file with every Change applied. A Registry is validated once when it
// is built and is read-only afterwards.
package registry

import (
	"fmt"
	"math"
	"sort"

	"github.com/joshuapare/bl2patch/exe/digest"
)

// Change is one fixed-offset byte substitution.
type Change struct {
	Offset   uint64 // Absolute file offset
	Original []byte // Bytes present before patching
	Patch    []byte // Bytes written when patching
	Note     string // What the change does
}

// Len returns the number of bytes the change covers.
func (c Change) Len() int {
	return len(c.Patch)
}

// End returns the offset one past the last byte the change covers.
func (c Change) End() uint64 {
	return c.Offset + uint64(len(c.Patch))
}

// Version is a known build of the target executable.
type Version struct {
	Name      string
	Unpatched digest.Digest
	Patched   digest.Digest
	Changes   []Change
}

// Match is the result of looking a digest up in the registry.
type Match struct {
	Version *Version
	Patched bool // digest equals Version.Patched
}

// Registry is an immutable catalog of versions.
type Registry struct {
	versions []Version
}

// New validates versions and returns a registry holding a private copy of them.
func New(versions ...Version) (*Registry, error) {
	seen := make(map[digest.Digest]string, len(versions)*2)
	out := make([]Version, 0, len(versions))

	for _, v := range versions {
		if err := Validate(v); err != nil {
			return nil, err
		}
		for _, d := range []digest.Digest{v.Unpatched, v.Patched} {
			if other, ok := seen[d]; ok {
				return nil, fmt.Errorf("%w: %s used by %q and %q", ErrDuplicateDigest, d, other, v.Name)
			}
			seen[d] = v.Name
		}
		out = append(out, cloneVersion(v))
	}

	return &Registry{versions: out}, nil
}

// MustNew is like New but panics on an invalid table.
func MustNew(versions ...Version) *Registry {
	r, err := New(versions...)
	if err != nil {
		panic(err)
	}
	return r
}

// Validate checks the structural invariants of a single version.
func Validate(v Version) error {
	if v.Unpatched == v.Patched {
		return fmt.Errorf("%w: version %q", ErrSameDigest, v.Name)
	}
	if len(v.Changes) == 0 {
		return fmt.Errorf("%w: version %q", ErrNoChanges, v.Name)
	}

	for i, c := range v.Changes {
		if len(c.Original) != len(c.Patch) {
			return fmt.Errorf("%w: version %q change %d at 0x%X: %d vs %d bytes",
				ErrLengthMismatch, v.Name, i, c.Offset, len(c.Original), len(c.Patch))
		}
		if len(c.Patch) == 0 {
			return fmt.Errorf("%w: version %q change %d at 0x%X", ErrEmptyChange, v.Name, i, c.Offset)
		}
		if c.Offset > math.MaxInt64-uint64(len(c.Patch)) {
			return fmt.Errorf("%w: version %q change %d at 0x%X", ErrOffsetOverflow, v.Name, i, c.Offset)
		}
	}

	if a, b, ok := Overlapping(v.Changes); ok {
		return fmt.Errorf("%w: version %q changes %d [0x%X,0x%X) and %d [0x%X,0x%X)",
			ErrOverlap, v.Name,
			a, v.Changes[a].Offset, v.Changes[a].End(),
			b, v.Changes[b].Offset, v.Changes[b].End())
	}
	return nil
}

// Overlapping reports the indexes of the first pair of changes whose byte
// ranges intersect.
func Overlapping(changes []Change) (int, int, bool) {
	order := make([]int, len(changes))
	for i := range order {
		order[i] = i
	}
	sort.Slice(order, func(x, y int) bool {
		return changes[order[x]].Offset < changes[order[y]].Offset
	})

	for k := 1; k < len(order); k++ {
		prev, cur := order[k-1], order[k]
		if changes[cur].Offset < changes[prev].End() {
			if prev > cur {
				prev, cur = cur, prev
			}
			return prev, cur, true
		}
	}
	return 0, 0, false
}

// MatchUnpatched returns the version whose pristine digest equals d.
func (r *Registry) MatchUnpatched(d digest.Digest) (*Version, bool) {
	for i := range r.versions {
		if r.versions[i].Unpatched == d {
			return &r.versions[i], true
		}
	}
	return nil, false
}

// MatchAny returns the version that d identifies in either state.
func (r *Registry) MatchAny(d digest.Digest) (Match, bool) {
	for i := range r.versions {
		v := &r.versions[i]
		switch d {
		case v.Unpatched:
			return Match{Version: v, Patched: false}, true
		case v.Patched:
			return Match{Version: v, Patched: true}, true
		}
	}
	return Match{}, false
}

// Versions returns a copy of the catalog.
func (r *Registry) Versions() []Version {
	out := make([]Version, len(r.versions))
	for i, v := range r.versions {
		out[i] = cloneVersion(v)
	}
	return out
}

// Len returns the number of registered versions.
func (r *Registry) Len() int {
	return len(r.versions)
}

func cloneVersion(v Version) Version {
	changes := make([]Change, len(v.Changes))
	for i, c := range v.Changes {
		changes[i] = Change{
			Offset:   c.Offset,
			Original: append([]byte(nil), c.Original...),
			Patch:    append([]byte(nil), c.Patch...),
			Note:     c.Note,
		}
	}
	v.Changes = changes
	return v
}
