package testutil

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

// SteamLibrary lays out a Steam root whose library index points at a second
// library holding the game, with data as its executable. It returns the Steam
// root and the executable path.
//
// Layout:
//
//	<tmp>/Steam/steamapps/libraryfolders.vdf
//	<tmp>/Library/steamapps/appmanifest_49520.acf
//	<tmp>/Library/steamapps/common/Borderlands 2/Binaries/Win32/Borderlands2.exe
func SteamLibrary(t testing.TB, data []byte) (steamRoot, exe string) {
	t.Helper()

	base := t.TempDir()
	steamRoot = filepath.Join(base, "Steam")
	library := filepath.Join(base, "Library")

	index := fmt.Sprintf("\"libraryfolders\"\n{\n\t\"0\"\n\t{\n\t\t\"path\"\t\t\"%s\"\n\t}\n}\n",
		strings.ReplaceAll(library, `\`, `\\`))
	manifest := fmt.Sprintf("\"AppState\"\n{\n\t\"appid\"\t\t\"%d\"\n\t\"installdir\"\t\t\"Borderlands 2\"\n}\n", AppID)
	exe = filepath.Join(library, "steamapps", "common", "Borderlands 2", filepath.FromSlash(ExeRelPath))

	files := []struct {
		path    string
		content []byte
	}{
		{filepath.Join(steamRoot, "steamapps", "libraryfolders.vdf"), []byte(index)},
		{filepath.Join(library, "steamapps", fmt.Sprintf("appmanifest_%d.acf", AppID)), []byte(manifest)},
		{exe, data},
	}
	for _, file := range files {
		path, content := file.path, file.content
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			t.Fatalf("Failed to create %s: %v", filepath.Dir(path), err)
		}
		if err := os.WriteFile(path, content, 0o644); err != nil {
			t.Fatalf("Failed to write %s: %v", path, err)
		}
	}
	return steamRoot, exe
}
