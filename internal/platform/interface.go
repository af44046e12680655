package platform

import (
	"context"

	apperrors "qlaunch/internal/infrastructure/errors"
	"qlaunch/internal/infrastructure/logging"
	"qlaunch/internal/types"
)

// PlatformOps is the OS automation surface used by the app shell. Each
// supported OS has one implementation selected at startup.
type PlatformOps interface {
	// ListApps returns the installed applications
	ListApps(ctx context.Context) ([]types.AppInfo, error)
	// LaunchApp starts an application by name and returns "Launched <name>"
	LaunchApp(ctx context.Context, name string) (string, error)
	// OpenURL opens a URL in the default handler
	OpenURL(ctx context.Context, url string) error

	// SetVolume sets the output volume, 0..100
	SetVolume(ctx context.Context, level int) error
	// ChangeVolume adjusts the output volume by delta, clamped to 0..100
	ChangeVolume(ctx context.Context, delta int) error
	Mute(ctx context.Context) error

	// SetBrightness sets the display brightness, 0..100
	SetBrightness(ctx context.Context, level int) error
	// ChangeBrightness adjusts the display brightness by delta, clamped to 0..100
	ChangeBrightness(ctx context.Context, delta int) error

	MediaPlayPause(ctx context.Context) error
	MediaNext(ctx context.Context) error
	MediaPrevious(ctx context.Context) error

	Restart(ctx context.Context) error
	Shutdown(ctx context.Context) error
	Lock(ctx context.Context) error
	EmptyTrash(ctx context.Context) error
}

// NewPlatformOps returns the implementation for goos. A nil runner uses
// ExecRunner and a nil logger discards output.
func NewPlatformOps(goos string, runner Runner, logger logging.Logger) (PlatformOps, error) {
	if runner == nil {
		runner = ExecRunner{}
	}
	if logger == nil {
		logger = logging.NopLogger{}
	}
	b := base{runner: runner, logger: logger}

	switch goos {
	case "darwin":
		return newDarwinOps(b), nil
	case "windows":
		return newWindowsOps(b), nil
	case "linux":
		return newLinuxOps(b), nil
	default:
		return nil, apperrors.HandleUnsupported("NewPlatformOps", "unsupported platform: "+goos)
	}
}
