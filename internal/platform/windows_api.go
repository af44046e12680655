package platform

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"qlaunch/internal/types"
)

// nircmd volume values run from 0 to 65535
const nircmdVolumeMax = 65535

const (
	psSetBrightness = "(Get-WmiObject -Namespace root/WMI -Class WmiMonitorBrightnessMethods).WmiSetBrightness(1,%d)"
	psGetBrightness = "(Get-WmiObject -Namespace root/WMI -Class WmiMonitorBrightness).CurrentBrightness"
)

// windowsOps drives Windows through cmd, nircmd.exe, powershell and user32
type windowsOps struct {
	base
	appDirs []string
	lock    func() error
}

func newWindowsOps(b base) *windowsOps {
	dirs := []string{`C:\ProgramData\Microsoft\Windows\Start Menu\Programs`}
	if appData := os.Getenv("APPDATA"); appData != "" {
		dirs = append(dirs, filepath.Join(appData, "Microsoft", "Windows", "Start Menu", "Programs"))
	}
	return &windowsOps{base: b, appDirs: dirs, lock: lockWorkStation}
}

func (w *windowsOps) powershell(ctx context.Context, op, script string) ([]byte, error) {
	return w.run(ctx, op, "powershell", "-NoProfile", "-Command", script)
}

func (w *windowsOps) nircmd(ctx context.Context, op string, args ...string) error {
	return w.exec(ctx, op, "nircmd.exe", args...)
}

func (w *windowsOps) ListApps(ctx context.Context) ([]types.AppInfo, error) {
	return scanAppDirs(w.appDirs, ".lnk"), nil
}

func (w *windowsOps) LaunchApp(ctx context.Context, name string) (string, error) {
	if err := w.exec(ctx, "LaunchApp", "cmd", "/C", "start", "", name); err != nil {
		return "", err
	}
	return launched(name), nil
}

func (w *windowsOps) OpenURL(ctx context.Context, url string) error {
	return w.exec(ctx, "OpenURL", "cmd", "/C", "start", "", url)
}

func (w *windowsOps) SetVolume(ctx context.Context, level int) error {
	if err := checkLevel("SetVolume", "volume", level); err != nil {
		return err
	}
	return w.nircmd(ctx, "SetVolume", "setsysvolume", strconv.Itoa(level*nircmdVolumeMax/100))
}

// ChangeVolume lets nircmd apply a signed relative change; nircmd clamps it
func (w *windowsOps) ChangeVolume(ctx context.Context, delta int) error {
	delta = clamp(delta, -100, 100)
	return w.nircmd(ctx, "ChangeVolume", "changesysvolume", strconv.Itoa(delta*nircmdVolumeMax/100))
}

func (w *windowsOps) Mute(ctx context.Context) error {
	return w.nircmd(ctx, "Mute", "setsysvolume", "0")
}

func (w *windowsOps) SetBrightness(ctx context.Context, level int) error {
	if err := checkLevel("SetBrightness", "brightness", level); err != nil {
		return err
	}
	_, err := w.powershell(ctx, "SetBrightness", fmt.Sprintf(psSetBrightness, level))
	return err
}

// ChangeBrightness reads CurrentBrightness from WMI; 50 is assumed when it
// cannot be read.
func (w *windowsOps) ChangeBrightness(ctx context.Context, delta int) error {
	current := 50
	if out, err := w.powershell(ctx, "ChangeBrightness", psGetBrightness); err == nil {
		// one line per monitor, the first wins
		if line := strings.TrimSpace(strings.SplitN(string(out), "\n", 2)[0]); line != "" {
			if v, perr := strconv.Atoi(line); perr == nil {
				current = v
			}
		}
	}
	return w.SetBrightness(ctx, clamp(current+delta, 0, 100))
}

func (w *windowsOps) MediaPlayPause(ctx context.Context) error {
	return w.nircmd(ctx, "MediaPlayPause", "sendkeypress", "media_play_pause")
}

func (w *windowsOps) MediaNext(ctx context.Context) error {
	return w.nircmd(ctx, "MediaNext", "sendkeypress", "media_next")
}

func (w *windowsOps) MediaPrevious(ctx context.Context) error {
	return w.nircmd(ctx, "MediaPrevious", "sendkeypress", "media_prev")
}

func (w *windowsOps) Restart(ctx context.Context) error {
	return w.exec(ctx, "Restart", "shutdown", "/r", "/t", "0")
}

func (w *windowsOps) Shutdown(ctx context.Context) error {
	return w.exec(ctx, "Shutdown", "shutdown", "/s", "/t", "0")
}

func (w *windowsOps) Lock(ctx context.Context) error {
	if err := w.lock(); err != nil {
		w.logger.Error("LockWorkStation failed", "error", err)
		return err
	}
	return nil
}

func (w *windowsOps) EmptyTrash(ctx context.Context) error {
	_, err := w.powershell(ctx, "EmptyTrash", "Clear-RecycleBin -Force")
	return err
}
