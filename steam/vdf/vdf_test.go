package vdf

import (
	"bytes"
	"encoding/binary"
	"testing"
	"unicode/utf16"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const appManifest = `"AppState"
{
	"appid"		"49520"
	"Universe"		"1"
	"name"		"Borderlands 2"
	"StateFlags"		"4"
	"installdir"		"Borderlands 2"
	"UserConfig"
	{
		"language"		"english"
	}
}
`

const libraryFoldersNew = `"libraryfolders"
{
	"0"
	{
		"path"		"/home/player/.local/share/Steam"
		"label"		""
		"contentid"		"123"
		"apps"
		{
			"228980"		"283104841"
		}
	}
	"1"
	{
		"path"		"/mnt/games/SteamLibrary"
		"label"		""
		"apps"
		{
			"49520"		"21474836480"
		}
	}
}
`

const libraryFoldersOld = `"LibraryFolders"
{
	"TimeNextStatsReport"		"1561000000"
	"ContentStatsID"		"-4242"
	"1"		"D:\\SteamLibrary"
}
`

func TestParse_AppManifest(t *testing.T) {
	root, err := ParseString(appManifest)
	require.NoError(t, err)

	dir, ok := root.Lookup("AppState", "installdir")
	require.True(t, ok)
	assert.Equal(t, "Borderlands 2", dir)

	// Case-insensitive keys
	dir, ok = root.Lookup("appstate", "InstallDir")
	require.True(t, ok)
	assert.Equal(t, "Borderlands 2", dir)

	lang, ok := root.Lookup("AppState", "UserConfig", "language")
	require.True(t, ok)
	assert.Equal(t, "english", lang)

	_, ok = root.Lookup("AppState", "UserConfig")
	assert.False(t, ok, "sections have no leaf value")

	_, ok = root.Lookup("AppState", "missing")
	assert.False(t, ok)

	app := root.Child("AppState")
	require.NotNil(t, app)
	assert.True(t, app.IsSection())
	assert.Len(t, app.Children, 6)
}

func TestParse_LibraryFolders(t *testing.T) {
	root, err := ParseString(libraryFoldersNew)
	require.NoError(t, err)

	lf := root.Child("libraryfolders")
	require.NotNil(t, lf)
	require.Len(t, lf.Children, 2)

	path, ok := lf.Lookup("1", "path")
	require.True(t, ok)
	assert.Equal(t, "/mnt/games/SteamLibrary", path)

	root, err = ParseString(libraryFoldersOld)
	require.NoError(t, err)
	path, ok = root.Lookup("libraryfolders", "1")
	require.True(t, ok)
	assert.Equal(t, `D:\SteamLibrary`, path)
}

func TestParse_Tokens(t *testing.T) {
	tests := []struct {
		name  string
		input string
		path  []string
		want  string
	}{
		{
			name:  "single line",
			input: `"a" { "b" "c" }`,
			path:  []string{"a", "b"},
			want:  "c",
		},
		{
			name:  "escaped quote",
			input: `"k" "say \"hi\""`,
			path:  []string{"k"},
			want:  `say "hi"`,
		},
		{
			name:  "trailing backslash before quote",
			input: `"k" "C:\\"`,
			path:  []string{"k"},
			want:  `C:\`,
		},
		{
			name:  "comments and blank lines",
			input: "// header\n\n\"k\"   \"v\" // trailing\n",
			path:  []string{"k"},
			want:  "v",
		},
		{
			name:  "conditional ignored",
			input: `"k" "v" [$WIN32]`,
			path:  []string{"k"},
			want:  "v",
		},
		{
			name:  "bare words",
			input: "k v\n",
			path:  []string{"k"},
			want:  "v",
		},
		{
			name:  "crlf",
			input: "\"a\"\r\n{\r\n\t\"b\"\t\t\"c\"\r\n}\r\n",
			path:  []string{"a", "b"},
			want:  "c",
		},
		{
			name:  "utf8 bom",
			input: "\xef\xbb\xbf\"k\" \"v\"",
			path:  []string{"k"},
			want:  "v",
		},
		{
			name:  "empty value",
			input: `"label" ""`,
			path:  []string{"label"},
			want:  "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			root, err := ParseString(tt.input)
			require.NoError(t, err)
			got, ok := root.Lookup(tt.path...)
			require.True(t, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestParse_UTF16(t *testing.T) {
	words := utf16.Encode([]rune(`"k" "Bördérlands"`))
	var buf bytes.Buffer
	buf.Write([]byte{0xff, 0xfe})
	for _, w := range words {
		_ = binary.Write(&buf, binary.LittleEndian, w)
	}

	root, err := Parse(&buf)
	require.NoError(t, err)
	got, ok := root.Lookup("k")
	require.True(t, ok)
	assert.Equal(t, "Bördérlands", got)
}

func TestParse_Errors(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		wantLine int
		wantMsg  string
	}{
		{name: "unterminated string", input: "\"k\" \"v", wantLine: 1, wantMsg: "unterminated string"},
		{name: "unclosed section", input: "\"a\"\n{\n\"b\" \"c\"\n", wantLine: 3, wantMsg: "not closed"},
		{name: "stray close", input: "\"k\" \"v\"\n}", wantLine: 2, wantMsg: "unexpected"},
		{name: "section without key", input: "{\n}", wantLine: 1, wantMsg: "section without a key"},
		{name: "dangling key", input: "\"a\"\n{\n\"b\"\n}", wantLine: 4, wantMsg: "has no value"},
		{name: "dangling key at eof", input: "\"a\"", wantLine: 1, wantMsg: "has no value"},
		{name: "unterminated conditional", input: `"k" "v" [$WIN32`, wantLine: 1, wantMsg: "conditional"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseString(tt.input)
			require.ErrorIs(t, err, ErrSyntax)

			var serr *SyntaxError
			require.ErrorAs(t, err, &serr)
			assert.Equal(t, tt.wantLine, serr.Line)
			assert.Contains(t, serr.Msg, tt.wantMsg)
		})
	}
}

func TestParse_DepthLimit(t *testing.T) {
	var b bytes.Buffer
	for i := 0; i < MaxDepth+1; i++ {
		b.WriteString("\"k\" {\n")
	}
	_, err := Parse(&b)
	require.ErrorIs(t, err, ErrSyntax)
}
