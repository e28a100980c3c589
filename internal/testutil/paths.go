package testutil

// Relative locations used when laying out fake Steam libraries in tests.
const (
	// ExeRelPath is where the executable sits under the install directory.
	ExeRelPath = "Binaries/Win32/Borderlands2.exe"

	// AppID is the Steam application id used by fixtures.
	AppID = 49520
)
