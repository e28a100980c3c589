package registry

import (
	"math"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/joshuapare/bl2patch/exe/digest"
)

func testVersion(name string, changes ...Change) Version {
	return Version{
		Name:      name,
		Unpatched: digest.Bytes([]byte(name + "-unpatched")),
		Patched:   digest.Bytes([]byte(name + "-patched")),
		Changes:   changes,
	}
}

func TestDefault_Valid(t *testing.T) {
	r := Default()
	require.Equal(t, 1, r.Len())

	for _, v := range r.Versions() {
		require.NoError(t, Validate(v), "built-in version %q", v.Name)
	}
}

// Every registered version must have disjoint change ranges.
func TestDefault_ChangesDisjoint(t *testing.T) {
	for _, v := range Default().Versions() {
		for i := range v.Changes {
			for j := i + 1; j < len(v.Changes); j++ {
				a, b := v.Changes[i], v.Changes[j]
				disjoint := a.End() <= b.Offset || b.End() <= a.Offset
				require.True(t, disjoint, "version %q: change %d and %d overlap", v.Name, i, j)
			}
		}
	}
}

func TestDefault_Match(t *testing.T) {
	r := Default()
	unpatched := digest.MustParse("bc1d695c6fdb3dea491b367f73bbb045c316b32e")
	patched := digest.MustParse("fc8afce04782532b0fe7a70a80ee1070da858e32")

	v, ok := r.MatchUnpatched(unpatched)
	require.True(t, ok)
	require.Len(t, v.Changes, 3)

	_, ok = r.MatchUnpatched(patched)
	require.False(t, ok)

	m, ok := r.MatchAny(patched)
	require.True(t, ok)
	require.True(t, m.Patched)
	require.Same(t, v, m.Version)

	m, ok = r.MatchAny(unpatched)
	require.True(t, ok)
	require.False(t, m.Patched)

	_, ok = r.MatchAny(digest.Bytes([]byte("something else")))
	require.False(t, ok)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		version Version
		wantErr error
	}{
		{
			name:    "valid",
			version: testVersion("ok", Change{Offset: 10, Original: []byte{1, 2}, Patch: []byte{3, 4}}),
		},
		{
			name:    "no changes",
			version: testVersion("none"),
			wantErr: ErrNoChanges,
		},
		{
			name:    "length mismatch",
			version: testVersion("len", Change{Offset: 0, Original: []byte{1}, Patch: []byte{1, 2}}),
			wantErr: ErrLengthMismatch,
		},
		{
			name:    "empty change",
			version: testVersion("empty", Change{Offset: 4}),
			wantErr: ErrEmptyChange,
		},
		{
			name: "overlap",
			version: testVersion("overlap",
				Change{Offset: 10, Original: []byte{0, 0, 0}, Patch: []byte{1, 1, 1}},
				Change{Offset: 12, Original: []byte{0}, Patch: []byte{1}},
			),
			wantErr: ErrOverlap,
		},
		{
			name: "adjacent is fine",
			version: testVersion("adjacent",
				Change{Offset: 12, Original: []byte{0}, Patch: []byte{1}},
				Change{Offset: 10, Original: []byte{0, 0}, Patch: []byte{1, 1}},
			),
		},
		{
			name:    "offset overflow",
			version: testVersion("overflow", Change{Offset: ^uint64(0), Original: []byte{0}, Patch: []byte{1}}),
			wantErr: ErrOffsetOverflow,
		},
		{
			name:    "offset past max file offset",
			version: testVersion("past", Change{Offset: math.MaxInt64 + 1, Original: []byte{0}, Patch: []byte{1}}),
			wantErr: ErrOffsetOverflow,
		},
		{
			name:    "end past max file offset",
			version: testVersion("end", Change{Offset: math.MaxInt64 - 1, Original: []byte{0, 0}, Patch: []byte{1, 1}}),
			wantErr: ErrOffsetOverflow,
		},
		{
			name:    "end at max file offset",
			version: testVersion("edge", Change{Offset: math.MaxInt64 - 2, Original: []byte{0, 0}, Patch: []byte{1, 1}}),
		},
		{
			name: "same digest",
			version: Version{
				Name:    "same",
				Changes: []Change{{Offset: 0, Original: []byte{0}, Patch: []byte{1}}},
			},
			wantErr: ErrSameDigest,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := Validate(tt.version)
			if tt.wantErr == nil {
				require.NoError(t, err)
				return
			}
			require.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestOverlapping_ReportsOriginalIndexes(t *testing.T) {
	changes := []Change{
		{Offset: 100, Original: []byte{0}, Patch: []byte{1}},
		{Offset: 0, Original: []byte{0, 0, 0, 0}, Patch: []byte{1, 1, 1, 1}},
		{Offset: 2, Original: []byte{0}, Patch: []byte{1}},
	}

	a, b, ok := Overlapping(changes)
	require.True(t, ok)
	require.Equal(t, 1, a)
	require.Equal(t, 2, b)
}

func TestNew_DuplicateDigest(t *testing.T) {
	c := Change{Offset: 0, Original: []byte{0}, Patch: []byte{1}}
	a := testVersion("a", c)
	b := testVersion("b", c)
	b.Patched = a.Unpatched

	_, err := New(a, b)
	require.ErrorIs(t, err, ErrDuplicateDigest)

	require.Panics(t, func() { MustNew(a, b) })
}

func TestNew_CopiesInput(t *testing.T) {
	v := testVersion("copy", Change{Offset: 5, Original: []byte{0xaa}, Patch: []byte{0xbb}})
	r, err := New(v)
	require.NoError(t, err)

	v.Changes[0].Patch[0] = 0xcc
	v.Changes[0].Offset = 99

	got, ok := r.MatchUnpatched(v.Unpatched)
	require.True(t, ok)
	require.Equal(t, uint64(5), got.Changes[0].Offset)
	require.Equal(t, []byte{0xbb}, got.Changes[0].Patch)

	listed := r.Versions()
	listed[0].Changes[0].Patch[0] = 0xdd
	require.Equal(t, []byte{0xbb}, got.Changes[0].Patch)
}
