package x11

import (
	"fmt"
	"strings"
	"sync"

	"github.com/BurntSushi/xgb/xproto"
	"github.com/BurntSushi/xgbutil/ewmh"
	"github.com/BurntSushi/xgbutil/xwindow"

	"github.com/mlindgren/vitrine/internal/display"
)

// ManagedWindow drives the renderer's top-level X11 window, located in the
// EWMH client list by title substring. The renderer process owns the window;
// we only manage its geometry, fullscreen state and title.
//
// Resolution is lazy and cached: the renderer may start after the daemon,
// and may restart at any time. A failed operation invalidates the cache so
// the next call searches again.
type ManagedWindow struct {
	conn  *Connection
	title string

	mu sync.Mutex
	id xproto.Window
}

// NewManagedWindow creates a handle for the window whose title contains the
// given substring.
func NewManagedWindow(conn *Connection, title string) *ManagedWindow {
	return &ManagedWindow{conn: conn, title: title}
}

// Screen implements display.Window.
func (w *ManagedWindow) Screen() (display.Rect, error) {
	return w.conn.Screen()
}

// resolve returns the cached window id, searching the client list when the
// cache is empty.
func (w *ManagedWindow) resolve() (xproto.Window, error) {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.id != 0 {
		return w.id, nil
	}

	clients, err := ewmh.ClientListGet(w.conn.XUtil)
	if err != nil {
		return 0, fmt.Errorf("failed to get client list: %w", err)
	}
	for _, win := range clients {
		name, err := ewmh.WmNameGet(w.conn.XUtil, win)
		if err != nil {
			continue
		}
		if w.title != "" && strings.Contains(name, w.title) {
			w.id = win
			return win, nil
		}
	}
	return 0, fmt.Errorf("no window found with title containing %q", w.title)
}

func (w *ManagedWindow) invalidate() {
	w.mu.Lock()
	w.id = 0
	w.mu.Unlock()
}

// MoveResize implements display.Window. Values are passed through to the
// window manager unvalidated.
func (w *ManagedWindow) MoveResize(x, y, width, height int) error {
	id, err := w.resolve()
	if err != nil {
		return err
	}

	// Use EWMH MoveResize for better WM compatibility
	if err := ewmh.MoveresizeWindow(w.conn.XUtil, id, x, y, width, height); err != nil {
		// Fallback to direct window manipulation
		win := xwindow.New(w.conn.XUtil, id)
		win.MoveResize(x, y, width, height)
	}
	return nil
}

// SetFullscreen implements display.Window.
func (w *ManagedWindow) SetFullscreen(on bool) error {
	id, err := w.resolve()
	if err != nil {
		return err
	}

	action := 0 // _NET_WM_STATE_REMOVE
	if on {
		action = 1 // _NET_WM_STATE_ADD
	}
	if err := ewmh.WmStateReq(w.conn.XUtil, id, action, "_NET_WM_STATE_FULLSCREEN"); err != nil {
		w.invalidate()
		return fmt.Errorf("fullscreen request failed: %w", err)
	}
	return nil
}

// SetTitle implements display.Window.
//
// The title is also the resolution key, so the match substring is kept as a
// prefix to avoid losing the window on the next lookup.
func (w *ManagedWindow) SetTitle(title string) error {
	id, err := w.resolve()
	if err != nil {
		return err
	}

	name := title
	if w.title != "" && !strings.Contains(name, w.title) {
		name = w.title + " - " + title
	}
	if err := ewmh.WmNameSet(w.conn.XUtil, id, name); err != nil {
		w.invalidate()
		return fmt.Errorf("title update failed: %w", err)
	}
	return nil
}
