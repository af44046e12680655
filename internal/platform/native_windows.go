//go:build windows

package platform

import (
	"golang.org/x/sys/windows"

	apperrors "qlaunch/internal/infrastructure/errors"
)

var (
	user32              = windows.NewLazySystemDLL("user32.dll")
	procLockWorkStation = user32.NewProc("LockWorkStation")
)

// lockWorkStation locks the interactive session
func lockWorkStation() error {
	if err := procLockWorkStation.Find(); err != nil {
		return apperrors.New("Lock", err, apperrors.ErrCodeUnsupported)
	}
	ret, _, callErr := procLockWorkStation.Call()
	if ret == 0 {
		return apperrors.New("Lock", callErr, apperrors.ErrCodeCommandFailed)
	}
	return nil
}
