package platform

import (
	"bufio"
	"context"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strconv"
	"strings"

	"qlaunch/internal/types"
)

const defaultSink = "@DEFAULT_SINK@"

var pactlPercent = regexp.MustCompile(`(\d+)%`)

// linuxOps drives freedesktop systems through gtk-launch, pactl,
// brightnessctl, playerctl, systemd and gio
type linuxOps struct {
	base
	appDirs []string
}

func newLinuxOps(b base) *linuxOps {
	var dirs []string
	if home, err := os.UserHomeDir(); err == nil {
		dirs = append(dirs, filepath.Join(home, ".local", "share", "applications"))
	}
	dirs = append(dirs, "/usr/share/applications")
	return &linuxOps{base: b, appDirs: dirs}
}

// ListApps reads .desktop entries. Earlier directories shadow later ones
// with the same desktop id; NoDisplay and Hidden entries are left out.
func (l *linuxOps) ListApps(ctx context.Context) ([]types.AppInfo, error) {
	var apps []types.AppInfo
	seen := make(map[string]bool)

	for _, dir := range l.appDirs {
		entries, err := os.ReadDir(dir)
		if err != nil {
			continue
		}
		for _, entry := range entries {
			id := entry.Name()
			if entry.IsDir() || filepath.Ext(id) != ".desktop" || seen[id] {
				continue
			}
			seen[id] = true

			path := filepath.Join(dir, id)
			name, visible := readDesktopEntry(path)
			if !visible {
				continue
			}
			if name == "" {
				name = strings.TrimSuffix(id, ".desktop")
			}
			apps = append(apps, types.AppInfo{Name: name, Path: path})
		}
	}

	sort.SliceStable(apps, func(i, j int) bool { return apps[i].Name < apps[j].Name })
	return apps, nil
}

// readDesktopEntry returns the Name key of the [Desktop Entry] group and
// whether the entry should be shown
func readDesktopEntry(path string) (string, bool) {
	f, err := os.Open(path)
	if err != nil {
		return "", false
	}
	defer f.Close()

	var name string
	inEntry := false
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if strings.HasPrefix(line, "[") {
			inEntry = line == "[Desktop Entry]"
			continue
		}
		if !inEntry {
			continue
		}
		key, value, ok := strings.Cut(line, "=")
		if !ok {
			continue
		}
		switch strings.TrimSpace(key) {
		case "Name":
			if name == "" {
				name = strings.TrimSpace(value)
			}
		case "NoDisplay", "Hidden":
			if strings.EqualFold(strings.TrimSpace(value), "true") {
				return name, false
			}
		}
	}
	return name, true
}

// LaunchApp resolves name against the installed entries and starts the
// matching desktop id; an unknown name is handed to gtk-launch as is.
func (l *linuxOps) LaunchApp(ctx context.Context, name string) (string, error) {
	id := name
	if apps, err := l.ListApps(ctx); err == nil {
		for _, app := range apps {
			if app.Name == name {
				id = strings.TrimSuffix(filepath.Base(app.Path), ".desktop")
				break
			}
		}
	}
	if err := l.exec(ctx, "LaunchApp", "gtk-launch", id); err != nil {
		return "", err
	}
	return launched(name), nil
}

func (l *linuxOps) OpenURL(ctx context.Context, url string) error {
	return l.exec(ctx, "OpenURL", "xdg-open", url)
}

func (l *linuxOps) SetVolume(ctx context.Context, level int) error {
	if err := checkLevel("SetVolume", "volume", level); err != nil {
		return err
	}
	return l.exec(ctx, "SetVolume", "pactl", "set-sink-volume", defaultSink, strconv.Itoa(level)+"%")
}

// ChangeVolume reads the default sink volume so the result stays within
// 0..100; pactl itself would allow boosting past 100%.
func (l *linuxOps) ChangeVolume(ctx context.Context, delta int) error {
	current := 50
	if out, err := l.run(ctx, "ChangeVolume", "pactl", "get-sink-volume", defaultSink); err == nil {
		if m := pactlPercent.FindStringSubmatch(string(out)); m != nil {
			if v, perr := strconv.Atoi(m[1]); perr == nil {
				current = v
			}
		}
	}
	return l.SetVolume(ctx, clamp(current+delta, 0, 100))
}

func (l *linuxOps) Mute(ctx context.Context) error {
	return l.exec(ctx, "Mute", "pactl", "set-sink-mute", defaultSink, "1")
}

func (l *linuxOps) SetBrightness(ctx context.Context, level int) error {
	if err := checkLevel("SetBrightness", "brightness", level); err != nil {
		return err
	}
	return l.exec(ctx, "SetBrightness", "brightnessctl", "set", strconv.Itoa(level)+"%")
}

// ChangeBrightness uses brightnessctl's relative syntax, which clamps on its own
func (l *linuxOps) ChangeBrightness(ctx context.Context, delta int) error {
	delta = clamp(delta, -100, 100)
	arg := strconv.Itoa(delta) + "%+"
	if delta < 0 {
		arg = strconv.Itoa(-delta) + "%-"
	}
	return l.exec(ctx, "ChangeBrightness", "brightnessctl", "set", arg)
}

func (l *linuxOps) MediaPlayPause(ctx context.Context) error {
	return l.exec(ctx, "MediaPlayPause", "playerctl", "play-pause")
}

func (l *linuxOps) MediaNext(ctx context.Context) error {
	return l.exec(ctx, "MediaNext", "playerctl", "next")
}

func (l *linuxOps) MediaPrevious(ctx context.Context) error {
	return l.exec(ctx, "MediaPrevious", "playerctl", "previous")
}

func (l *linuxOps) Restart(ctx context.Context) error {
	return l.exec(ctx, "Restart", "systemctl", "reboot")
}

func (l *linuxOps) Shutdown(ctx context.Context) error {
	return l.exec(ctx, "Shutdown", "systemctl", "poweroff")
}

func (l *linuxOps) Lock(ctx context.Context) error {
	return l.exec(ctx, "Lock", "loginctl", "lock-session")
}

func (l *linuxOps) EmptyTrash(ctx context.Context) error {
	return l.exec(ctx, "EmptyTrash", "gio", "trash", "--empty")
}
