package finder

import apperrors "qlaunch/internal/infrastructure/errors"

// fallbackWindowsRoots are used when the drive list cannot be read
var fallbackWindowsRoots = []string{`C:\`, `D:\`, `E:\`}

// RootsFor returns the search roots for goos. Unknown platforms get an
// UNSUPPORTED error.
func RootsFor(goos string) ([]string, error) {
	switch goos {
	case "darwin", "linux":
		return []string{"/"}, nil
	case "windows":
		if drives := logicalDrives(); len(drives) > 0 {
			return drives, nil
		}
		return append([]string(nil), fallbackWindowsRoots...), nil
	default:
		return nil, apperrors.HandleUnsupported("SearchFiles", "unsupported platform: "+goos)
	}
}
