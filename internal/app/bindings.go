package app

import (
	"errors"
	"net/url"
	"sort"
	"strings"

	"qlaunch/internal/calc"
	apperrors "qlaunch/internal/infrastructure/errors"
	"qlaunch/internal/snippets"
	"qlaunch/internal/types"
)

const (
	timeLayout      = "02 Jan 2006 15:04"
	webSearchURL    = "https://www.google.com/search?q="
	windowScreenPct = 80
)

// SearchFiles returns up to eight paths whose file names best match query
func (a *App) SearchFiles(query string) ([]string, error) {
	paths, err := a.finder.Search(a.context(), query)
	if err != nil {
		return nil, present(err)
	}
	if paths == nil {
		paths = []string{}
	}
	return paths, nil
}

// ListApps returns the installed applications, most launched first and
// then by name
func (a *App) ListApps() ([]types.AppInfo, error) {
	ctx := a.context()
	apps, err := a.platform.ListApps(ctx)
	if err != nil {
		return nil, present(err)
	}

	var counts map[string]int64
	if store := a.launchStore(); store != nil {
		if counts, err = store.GetLaunchCounts(ctx); err != nil {
			a.logger.Warn("Failed to load launch counts", "error", err)
		}
	}

	a.mu.Lock()
	for i := range apps {
		apps[i].LaunchCount = counts[apps[i].Name]
		a.appPaths[apps[i].Name] = apps[i].Path
	}
	a.mu.Unlock()

	sort.SliceStable(apps, func(i, j int) bool {
		if apps[i].LaunchCount != apps[j].LaunchCount {
			return apps[i].LaunchCount > apps[j].LaunchCount
		}
		li, lj := strings.ToLower(apps[i].Name), strings.ToLower(apps[j].Name)
		if li != lj {
			return li < lj
		}
		return apps[i].Name < apps[j].Name
	})
	return apps, nil
}

// LaunchApp starts the named application and counts the launch
func (a *App) LaunchApp(name string) (string, error) {
	ctx := a.context()
	msg, err := a.platform.LaunchApp(ctx, name)
	if err != nil {
		return "", present(err)
	}

	if store := a.launchStore(); store != nil {
		a.mu.RLock()
		path := a.appPaths[name]
		a.mu.RUnlock()
		if err := store.RecordLaunch(ctx, name, path); err != nil {
			a.logger.Warn("Failed to record launch", "app_name", name, "error", err)
		}
	}
	return msg, nil
}

// SetVolume sets the output volume, 0 to 100
func (a *App) SetVolume(level int) error {
	return present(a.platform.SetVolume(a.context(), level))
}

// IncreaseVolume raises the volume by delta points
func (a *App) IncreaseVolume(delta int) error {
	return present(a.platform.ChangeVolume(a.context(), delta))
}

// DecreaseVolume lowers the volume by delta points
func (a *App) DecreaseVolume(delta int) error {
	return present(a.platform.ChangeVolume(a.context(), -delta))
}

// MuteVolume silences the output
func (a *App) MuteVolume() error {
	return present(a.platform.Mute(a.context()))
}

// SetBrightness sets the display brightness, 0 to 100
func (a *App) SetBrightness(level int) error {
	return present(a.platform.SetBrightness(a.context(), level))
}

// IncreaseBrightness raises the brightness by delta points
func (a *App) IncreaseBrightness(delta int) error {
	return present(a.platform.ChangeBrightness(a.context(), delta))
}

// DecreaseBrightness lowers the brightness by delta points
func (a *App) DecreaseBrightness(delta int) error {
	return present(a.platform.ChangeBrightness(a.context(), -delta))
}

// MediaPlay toggles playback; players expose a single play/pause action
func (a *App) MediaPlay() error {
	return present(a.platform.MediaPlayPause(a.context()))
}

// MediaPause toggles playback, same as MediaPlay
func (a *App) MediaPause() error {
	return present(a.platform.MediaPlayPause(a.context()))
}

// MediaSkip skips to the next track
func (a *App) MediaSkip() error {
	return present(a.platform.MediaNext(a.context()))
}

// MediaPrevious returns to the previous track
func (a *App) MediaPrevious() error {
	return present(a.platform.MediaPrevious(a.context()))
}

// PowerRestart reboots the machine
func (a *App) PowerRestart() error {
	return present(a.platform.Restart(a.context()))
}

// PowerShutdown powers the machine off
func (a *App) PowerShutdown() error {
	return present(a.platform.Shutdown(a.context()))
}

// LockScreen locks the session
func (a *App) LockScreen() error {
	return present(a.platform.Lock(a.context()))
}

// EmptyTrash empties the trash or recycle bin
func (a *App) EmptyTrash() error {
	return present(a.platform.EmptyTrash(a.context()))
}

// CalculateExpression evaluates an arithmetic expression
func (a *App) CalculateExpression(expression string) (float64, error) {
	v, err := calc.Evaluate(expression)
	if err != nil {
		return 0, present(err)
	}
	return v, nil
}

// SearchWeb opens query in the browser: as is when it looks like a URL,
// otherwise as a Google search
func (a *App) SearchWeb(query string) error {
	query = strings.TrimSpace(query)
	if query == "" {
		return present(apperrors.HandleValidationError("SearchWeb", "query", query, "search query is empty"))
	}
	target := query
	if !strings.HasPrefix(query, "http") {
		target = webSearchURL + url.QueryEscape(query)
	}
	return present(a.platform.OpenURL(a.context(), target))
}

// OpenLink opens link in the default browser
func (a *App) OpenLink(link string) error {
	link = strings.TrimSpace(link)
	if link == "" {
		return present(apperrors.HandleValidationError("OpenLink", "url", link, "link is empty"))
	}
	return present(a.platform.OpenURL(a.context(), link))
}

// TranslateSentence translates query; an empty source language is detected
func (a *App) TranslateSentence(query, langFrom, langTo string) (string, error) {
	out, err := a.translator.Translate(a.context(), query, langFrom, langTo)
	if err != nil {
		return "", present(err)
	}
	return out, nil
}

// RecordClipboard adds the current clipboard text to the history
func (a *App) RecordClipboard() error {
	_, err := a.watcher.RecordNow()
	return present(err)
}

// GetClipboardHistory returns the history, oldest first
func (a *App) GetClipboardHistory() []string {
	return a.history.Items()
}

// ClearClipboardHistory drops every recorded clipboard item
func (a *App) ClearClipboardHistory() {
	a.history.Clear()
}

// GetSnippets returns the text snippets from the configured directory
func (a *App) GetSnippets() ([]types.Snippet, error) {
	out, err := snippets.Load(a.settings.SnippetsDir)
	if err != nil {
		return nil, present(err)
	}
	return out, nil
}

// GetCurrentTime returns the local time as "02 Jan 2006 15:04"
func (a *App) GetCurrentTime() string {
	return a.now().Format(timeLayout)
}

// MinimizeWindow minimises the launcher window
func (a *App) MinimizeWindow() {
	a.window.Minimise(a.context())
}

// MaximizeWindow maximises the launcher window
func (a *App) MaximizeWindow() {
	a.window.Maximise(a.context())
}

// ResizeWindow80 sizes the window to 80% of the primary screen and centers it
func (a *App) ResizeWindow80() error {
	ctx := a.context()
	screens, err := a.window.Screens(ctx)
	if err != nil {
		return present(apperrors.Wrap("ResizeWindow80", err))
	}
	for _, s := range screens {
		if !s.Primary {
			continue
		}
		a.window.SetSize(ctx, s.Width*windowScreenPct/100, s.Height*windowScreenPct/100)
		a.window.Center(ctx)
		return nil
	}
	return present(apperrors.New("ResizeWindow80", errors.New("no primary screen found"), apperrors.ErrCodeNotFound))
}

// CloseWindow quits the launcher
func (a *App) CloseWindow() {
	a.window.Close(a.context())
}
