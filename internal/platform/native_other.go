//go:build !windows

package platform

import apperrors "qlaunch/internal/infrastructure/errors"

func lockWorkStation() error {
	return apperrors.HandleUnsupported("Lock", "LockWorkStation is only available on windows")
}
