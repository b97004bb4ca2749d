// Package popup opens the provider's authorization page in a separate
// window and tracks whether that window is still open.
package popup

import (
	"context"
	"fmt"
	"log/slog"
	"os/exec"
	"runtime"
	"sync"
)

// Default popup size.
const (
	DefaultWidth  = 500
	DefaultHeight = 600
)

// Geometry positions a popup on screen.
type Geometry struct {
	Width, Height int
	Left, Top     int
}

// Centered returns a width×height popup centred on a screen of the given
// size. Popups larger than the screen are pinned to the top-left corner.
func Centered(screenWidth, screenHeight, width, height int) Geometry {
	return Geometry{
		Width:  width,
		Height: height,
		Left:   max((screenWidth-width)/2, 0),
		Top:    max((screenHeight-height)/2, 0),
	}
}

// Features renders g as a window.open feature string.
func (g Geometry) Features() string {
	return fmt.Sprintf("width=%d,height=%d,left=%d,top=%d,toolbar=no,menubar=no", g.Width, g.Height, g.Left, g.Top)
}

// Window is a handle to an open popup.
type Window interface {
	Closed() bool
	Close()
}

// Opener opens url in a new popup window.
type Opener interface {
	Open(ctx context.Context, url string, g Geometry) (Window, error)
}

// Launcher hands a URL to whatever displays it.
type Launcher func(ctx context.Context, url string) error

// Browser opens popups in the system web browser.
//
// A browser tab gives no close notification back to the process, so a
// BrowserWindow only reports Closed once someone calls Close: the callback
// route after it has posted its result, or the waiting flow when it gives up.
type Browser struct {
	launch Launcher
	logger *slog.Logger
}

// NewBrowser returns an Opener that launches url with launch, or with the
// platform's default URL handler when launch is nil.
func NewBrowser(launch Launcher, logger *slog.Logger) *Browser {
	if launch == nil {
		launch = SystemLauncher
	}
	return &Browser{launch: launch, logger: logger}
}

func (b *Browser) Open(ctx context.Context, url string, g Geometry) (Window, error) {
	b.logger.Info("opening sign-in window",
		slog.String("features", g.Features()),
	)
	if err := b.launch(ctx, url); err != nil {
		return nil, fmt.Errorf("popup: launching browser: %w", err)
	}
	return &BrowserWindow{}, nil
}

// BrowserWindow is the Window for a system browser tab.
type BrowserWindow struct {
	mu     sync.Mutex
	closed bool
}

func (w *BrowserWindow) Closed() bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.closed
}

func (w *BrowserWindow) Close() {
	w.mu.Lock()
	w.closed = true
	w.mu.Unlock()
}

// SystemLauncher opens url with the OS default handler.
func SystemLauncher(ctx context.Context, url string) error {
	var cmd *exec.Cmd
	switch runtime.GOOS {
	case "darwin":
		cmd = exec.CommandContext(ctx, "open", url)
	case "windows":
		cmd = exec.CommandContext(ctx, "rundll32", "url.dll,FileProtocolHandler", url)
	default:
		cmd = exec.CommandContext(ctx, "xdg-open", url)
	}
	return cmd.Start()
}
