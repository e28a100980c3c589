package registry

import "github.com/joshuapare/bl2patch/exe/digest"

// builtin lists every release the patcher supports. Adding a release means
// adding an entry here with both digests and its change list.
var builtin = []Version{
	{
		Name:      "win32 cl:ffs 2019-06-24",
		Unpatched: digest.MustParse("bc1d695c6fdb3dea491b367f73bbb045c316b32e"),
		Patched:   digest.MustParse("fc8afce04782532b0fe7a70a80ee1070da858e32"),
		Changes: []Change{
			{Offset: 0x012f_8b90, Original: []byte{0x73}, Patch: []byte{0x00}, Note: `remove the "say" prefix on console entries`},
			{Offset: 0x0169_9cb2, Original: []byte{0xb8}, Patch: []byte{0xb7}, Note: "enable dev commands"},
			{Offset: 0x0042_d740, Original: []byte{0xc0}, Patch: []byte{0xff}, Note: "enable 'set'"},
		},
	},
}

// Default returns a registry of the built-in releases.
func Default() *Registry {
	return MustNew(builtin...)
}
