package display

import (
	"log/slog"
	"sync"

	"github.com/mlindgren/vitrine/internal/scale"
)

// State is the window state machine. All mutations must happen on the single
// UI goroutine (the router loop); Snapshot may be called from anywhere.
type State struct {
	win     Window
	surface Surface
	logger  *slog.Logger

	mu     sync.RWMutex
	geom   Geometry
	layout Layout
}

// NewState creates a state machine driving the given window and surface.
func NewState(win Window, surface Surface, logger *slog.Logger) *State {
	if logger == nil {
		logger = slog.Default()
	}
	return &State{
		win:     win,
		surface: surface,
		logger:  logger.With("component", "display"),
	}
}

// Snapshot returns the current geometry and layout for status reporting.
func (s *State) Snapshot() (Geometry, Layout) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.geom, s.layout
}

// ApplySize transitions the window according to the requested geometry.
//
// An all-zero request, or one matching the screen bounds exactly, enters
// fullscreen at the screen bounds. Anything else leaves fullscreen; zero
// sizes are substituted with the screen dimensions, and the literal values
// are handed to the toolkit. Negative sizes are passed through unvalidated.
func (s *State) ApplySize(posX, posY, sizeX, sizeY int) error {
	screen, err := s.win.Screen()
	if err != nil {
		return err
	}

	if sizeX == 0 {
		sizeX = screen.Width
	}
	if sizeY == 0 {
		sizeY = screen.Height
	}

	var geom Geometry
	if posX == 0 && posY == 0 && sizeX == screen.Width && sizeY == screen.Height {
		geom = Geometry{
			Rect:       Rect{X: 0, Y: 0, Width: screen.Width, Height: screen.Height},
			Fullscreen: true,
		}
		if err := s.win.MoveResize(0, 0, screen.Width, screen.Height); err != nil {
			return err
		}
		if err := s.win.SetFullscreen(true); err != nil {
			return err
		}
		s.logger.Info("size: full screen")
	} else {
		geom = Geometry{
			Rect: Rect{X: posX, Y: posY, Width: sizeX, Height: sizeY},
		}
		if err := s.win.SetFullscreen(false); err != nil {
			return err
		}
		if err := s.win.MoveResize(posX, posY, sizeX, sizeY); err != nil {
			return err
		}
		s.logger.Info("size: windowed",
			"width", sizeX, "height", sizeY, "x", posX, "y", posY)
	}

	s.mu.Lock()
	s.geom = geom
	s.mu.Unlock()

	return s.Rescale()
}

// ApplyLayout updates the logical layout canvas and rescales the surface
// without touching the window geometry.
func (s *State) ApplyLayout(width, height int) error {
	s.mu.Lock()
	s.layout = Layout{Width: width, Height: height}
	s.mu.Unlock()
	return s.Rescale()
}

// ApplyTitle updates the window title. Independent of geometry and scale.
func (s *State) ApplyTitle(title string) error {
	return s.win.SetTitle(title)
}

// Rescale re-derives the viewport and zoom from the current geometry and
// layout and pushes them to the surface. Skipped while any dimension is
// still zero (window not yet sized).
func (s *State) Rescale() error {
	s.mu.RLock()
	geom := s.geom
	layout := s.layout
	s.mu.RUnlock()

	layoutW, layoutH := layout.Effective()
	r, ok := scale.Compute(geom.Width, geom.Height, layoutW, layoutH)
	if !ok {
		return nil
	}

	if err := s.surface.SetViewport(r.X, r.Y, r.W, r.H); err != nil {
		return err
	}
	if err := s.surface.SetZoom(r.Zoom); err != nil {
		return err
	}
	s.logger.Info("scale",
		"window_w", geom.Width, "window_h", geom.Height,
		"layout_w", layoutW, "layout_h", layoutH,
		"viewport_w", r.W, "viewport_h", r.H,
		"viewport_x", r.X, "viewport_y", r.Y,
		"zoom", r.Zoom)
	return nil
}
