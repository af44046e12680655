package platform

import (
	"context"
	"fmt"
	"math"
	"strconv"
	"strings"

	"qlaunch/internal/types"
)

const (
	defaultDarwinVolume     = 50
	defaultDarwinBrightness = 0.5
)

// darwinOps drives macOS through open, osascript and the brightness CLI
type darwinOps struct {
	base
	appDirs []string
}

func newDarwinOps(b base) *darwinOps {
	return &darwinOps{
		base:    b,
		appDirs: []string{"/Applications", "/System/Applications"},
	}
}

func (d *darwinOps) osascript(ctx context.Context, op, script string) ([]byte, error) {
	return d.run(ctx, op, "osascript", "-e", script)
}

func (d *darwinOps) ListApps(ctx context.Context) ([]types.AppInfo, error) {
	return scanAppDirs(d.appDirs, ".app"), nil
}

func (d *darwinOps) LaunchApp(ctx context.Context, name string) (string, error) {
	if err := d.exec(ctx, "LaunchApp", "open", "-a", name); err != nil {
		return "", err
	}
	return launched(name), nil
}

func (d *darwinOps) OpenURL(ctx context.Context, url string) error {
	return d.exec(ctx, "OpenURL", "open", url)
}

func (d *darwinOps) SetVolume(ctx context.Context, level int) error {
	if err := checkLevel("SetVolume", "volume", level); err != nil {
		return err
	}
	_, err := d.osascript(ctx, "SetVolume", fmt.Sprintf("set volume output volume %d", level))
	return err
}

// ChangeVolume reads the current volume first. An unreadable value counts as 50.
func (d *darwinOps) ChangeVolume(ctx context.Context, delta int) error {
	current := defaultDarwinVolume
	out, err := d.osascript(ctx, "ChangeVolume", "output volume of (get volume settings)")
	if err == nil {
		if v, perr := strconv.Atoi(strings.TrimSpace(string(out))); perr == nil {
			current = v
		}
	}
	return d.SetVolume(ctx, clamp(current+delta, 0, 100))
}

func (d *darwinOps) Mute(ctx context.Context) error {
	_, err := d.osascript(ctx, "Mute", "set volume output volume 0")
	return err
}

func (d *darwinOps) SetBrightness(ctx context.Context, level int) error {
	if err := checkLevel("SetBrightness", "brightness", level); err != nil {
		return err
	}
	value := strconv.FormatFloat(float64(level)/100, 'f', -1, 64)
	return d.exec(ctx, "SetBrightness", "brightness", value)
}

// ChangeBrightness reads the level from `brightness -l`; 0.5 is assumed when
// no display line parses.
func (d *darwinOps) ChangeBrightness(ctx context.Context, delta int) error {
	current := defaultDarwinBrightness
	if out, err := d.run(ctx, "ChangeBrightness", "brightness", "-l"); err == nil {
		if v, ok := parseDarwinBrightness(string(out)); ok {
			current = v
		}
	}
	next := math.Max(0, math.Min(1, current+float64(delta)/100))
	return d.SetBrightness(ctx, int(math.Round(next*100)))
}

// parseDarwinBrightness finds the first "display N: brightness 0.75" line
func parseDarwinBrightness(out string) (float64, bool) {
	for _, line := range strings.Split(out, "\n") {
		if !strings.Contains(line, "brightness") {
			continue
		}
		fields := strings.Fields(line)
		if len(fields) == 0 {
			continue
		}
		if v, err := strconv.ParseFloat(fields[len(fields)-1], 64); err == nil {
			return v, true
		}
	}
	return 0, false
}

func (d *darwinOps) MediaPlayPause(ctx context.Context) error {
	_, err := d.osascript(ctx, "MediaPlayPause", `tell application "Music" to playpause`)
	return err
}

func (d *darwinOps) MediaNext(ctx context.Context) error {
	_, err := d.osascript(ctx, "MediaNext", `tell application "Music" to next track`)
	return err
}

func (d *darwinOps) MediaPrevious(ctx context.Context) error {
	_, err := d.osascript(ctx, "MediaPrevious", `tell application "Music" to previous track`)
	return err
}

func (d *darwinOps) Restart(ctx context.Context) error {
	_, err := d.osascript(ctx, "Restart", `tell application "System Events" to restart`)
	return err
}

func (d *darwinOps) Shutdown(ctx context.Context) error {
	_, err := d.osascript(ctx, "Shutdown", `tell application "System Events" to shut down`)
	return err
}

func (d *darwinOps) Lock(ctx context.Context) error {
	return d.exec(ctx, "Lock", "pmset", "displaysleepnow")
}

func (d *darwinOps) EmptyTrash(ctx context.Context) error {
	_, err := d.osascript(ctx, "EmptyTrash", `tell application "Finder" to empty trash`)
	return err
}
