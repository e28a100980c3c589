// Package steam locates installed Steam applications on disk.
//
// Resolution works in two steps:
//
//  1. Library roots: every known Steam installation is a library root, and
//     its steamapps/libraryfolders.vdf lists any additional ones.
//  2. Manifest: the first root holding steamapps/appmanifest_<appid>.acf
//     wins; its AppState/installdir names the directory under
//     steamapps/common.
//
// Example:
//
//	dir, err := steam.ResolveInstallPath(49520)
//	if errors.Is(err, steam.ErrManifestNotFound) {
//	    // not installed
//	}
package steam

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strconv"
	"strings"

	"github.com/joshuapare/bl2patch/steam/vdf"
)

const (
	// LibraryIndexFile lists additional library roots.
	LibraryIndexFile = "libraryfolders.vdf"

	// CommonDir holds application install directories under steamapps.
	CommonDir = "common"
)

// appsDirs are the spellings Steam has used for the per-root apps directory.
var appsDirs = []string{"steamapps", "SteamApps"}

// Resolver finds application install directories.
type Resolver struct {
	// SteamRoots are the Steam installations to start from.
	// Default: DefaultSteamRoots()
	SteamRoots []string
}

// NewResolver returns a resolver over roots, or DefaultSteamRoots() when
// roots is empty.
func NewResolver(roots ...string) *Resolver {
	if len(roots) == 0 {
		roots = DefaultSteamRoots()
	}
	return &Resolver{SteamRoots: roots}
}

// ResolveInstallPath resolves appID using the default Steam roots.
func ResolveInstallPath(appID int) (string, error) {
	return NewResolver().InstallDir(appID)
}

// DefaultSteamRoots returns the usual Steam installation directories for the
// current platform.
func DefaultSteamRoots() []string {
	home, _ := os.UserHomeDir()

	switch runtime.GOOS {
	case "windows":
		roots := []string{}
		for _, env := range []string{"ProgramFiles(x86)", "ProgramFiles"} {
			if dir := os.Getenv(env); dir != "" {
				roots = append(roots, filepath.Join(dir, "Steam"))
			}
		}
		return append(roots, `C:\Program Files (x86)\Steam`)
	case "darwin":
		return []string{filepath.Join(home, "Library", "Application Support", "Steam")}
	default:
		return []string{
			filepath.Join(home, ".steam", "steam"),
			filepath.Join(home, ".local", "share", "Steam"),
			filepath.Join(home, ".var", "app", "com.valvesoftware.Steam", ".local", "share", "Steam"),
		}
	}
}

// ManifestName returns the manifest file name for appID.
func ManifestName(appID int) string {
	return "appmanifest_" + strconv.Itoa(appID) + ".acf"
}

// LibraryRoots returns every library root reachable from the Steam roots,
// in discovery order and without duplicates. Each Steam root that exists is
// itself a library root.
//
// The roots found so far are returned even when err is non-nil: err reports
// that no index was found (ErrIndexNotFound) or that one could not be read
// (ErrMalformed).
func (r *Resolver) LibraryRoots() ([]string, error) {
	var (
		roots      []string
		seen       = map[string]bool{}
		foundIndex bool
		indexErr   error
	)
	add := func(p string) {
		key := filepath.Clean(p)
		if resolved, err := filepath.EvalSymlinks(key); err == nil {
			key = resolved
		}
		if !seen[key] {
			seen[key] = true
			roots = append(roots, p)
		}
	}

	for _, steamRoot := range r.SteamRoots {
		if !isDir(steamRoot) {
			continue
		}
		add(steamRoot)

		indexPath, ok := findInApps(steamRoot, LibraryIndexFile)
		if !ok {
			continue
		}
		foundIndex = true

		listed, err := readLibraryIndex(indexPath)
		if err != nil {
			if indexErr == nil {
				indexErr = err
			}
			continue
		}
		for _, p := range listed {
			add(p)
		}
	}

	if indexErr != nil {
		return roots, indexErr
	}
	if !foundIndex {
		return roots, &ResolveError{Err: ErrIndexNotFound, Path: strings.Join(r.SteamRoots, string(os.PathListSeparator))}
	}
	return roots, nil
}

// InstallDir returns <root>/steamapps/common/<installdir> for the first
// library root whose manifest for appID can be read. Roots without the
// manifest, or with an unreadable one, are skipped; the first malformed
// manifest is only reported if no later root resolves.
func (r *Resolver) InstallDir(appID int) (string, error) {
	roots, libErr := r.LibraryRoots()

	var malformed *ResolveError
	for _, root := range roots {
		manifestPath, ok := findInApps(root, ManifestName(appID))
		if !ok {
			continue
		}

		installDir, err := readInstallDir(manifestPath)
		if err != nil {
			if malformed == nil {
				malformed = &ResolveError{AppID: appID, Path: manifestPath, Err: ErrMalformed, Cause: err}
			}
			continue
		}

		return filepath.Join(filepath.Dir(manifestPath), CommonDir, installDir), nil
	}

	if malformed != nil {
		return "", malformed
	}
	var rerr *ResolveError
	if errors.As(libErr, &rerr) {
		rerr.AppID = appID
		return "", rerr
	}
	return "", &ResolveError{AppID: appID, Err: ErrManifestNotFound, Path: strings.Join(roots, string(os.PathListSeparator))}
}

// readLibraryIndex returns the library paths listed in a libraryfolders.vdf.
// Both layouts are accepted: numbered keys holding a path string, and numbered
// sections holding a "path" key.
func readLibraryIndex(path string) ([]string, error) {
	root, err := parseFile(path)
	if err != nil {
		return nil, &ResolveError{Path: path, Err: ErrMalformed, Cause: err}
	}

	folders := root.Child("libraryfolders")
	if folders == nil || !folders.IsSection() {
		return nil, &ResolveError{Path: path, Err: ErrMalformed, Cause: errors.New(`missing "libraryfolders" section`)}
	}

	var paths []string
	for _, entry := range folders.Children {
		if _, err := strconv.Atoi(entry.Key); err != nil {
			continue // TimeNextStatsReport, ContentStatsID, ...
		}
		if !entry.IsSection() {
			if entry.Value != "" {
				paths = append(paths, entry.Value)
			}
			continue
		}
		if p, ok := entry.Lookup("path"); ok && p != "" {
			paths = append(paths, p)
		}
	}
	return paths, nil
}

// readInstallDir extracts AppState/installdir from a manifest.
func readInstallDir(path string) (string, error) {
	root, err := parseFile(path)
	if err != nil {
		return "", err
	}
	dir, ok := root.Lookup("AppState", "installdir")
	if !ok || dir == "" {
		return "", errors.New(`missing "AppState"/"installdir"`)
	}
	if filepath.IsAbs(dir) || dir != filepath.Base(filepath.Clean(dir)) {
		return "", fmt.Errorf("installdir %q is not a plain directory name", dir)
	}
	return dir, nil
}

func parseFile(path string) (*vdf.Node, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return vdf.Parse(f)
}

// findInApps looks for name under root's apps directory, trying each known
// spelling.
func findInApps(root, name string) (string, bool) {
	for _, apps := range appsDirs {
		p := filepath.Join(root, apps, name)
		if info, err := os.Stat(p); err == nil && info.Mode().IsRegular() {
			return p, true
		}
	}
	return "", false
}

func isDir(p string) bool {
	info, err := os.Stat(p)
	return err == nil && info.IsDir()
}
