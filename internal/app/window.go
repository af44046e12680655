package app

import (
	"context"

	wailsruntime "github.com/wailsapp/wails/v2/pkg/runtime"
)

// Screen is the size of one display in logical pixels
type Screen struct {
	Width, Height int
	Primary       bool
}

// Window is the subset of the Wails window runtime the launcher uses
type Window interface {
	Minimise(ctx context.Context)
	Maximise(ctx context.Context)
	SetSize(ctx context.Context, width, height int)
	Center(ctx context.Context)
	Screens(ctx context.Context) ([]Screen, error)
	Close(ctx context.Context)
}

// wailsWindow forwards to the Wails runtime. ctx must be the context Wails
// passed to Startup.
type wailsWindow struct{}

func (wailsWindow) Minimise(ctx context.Context) { wailsruntime.WindowMinimise(ctx) }
func (wailsWindow) Maximise(ctx context.Context) { wailsruntime.WindowMaximise(ctx) }
func (wailsWindow) Center(ctx context.Context)   { wailsruntime.WindowCenter(ctx) }
func (wailsWindow) Close(ctx context.Context)    { wailsruntime.Quit(ctx) }

func (wailsWindow) SetSize(ctx context.Context, width, height int) {
	wailsruntime.WindowSetSize(ctx, width, height)
}

func (wailsWindow) Screens(ctx context.Context) ([]Screen, error) {
	screens, err := wailsruntime.ScreenGetAll(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]Screen, 0, len(screens))
	for _, s := range screens {
		out = append(out, Screen{Width: s.Width, Height: s.Height, Primary: s.IsPrimary})
	}
	return out, nil
}
