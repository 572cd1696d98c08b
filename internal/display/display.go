// Package display owns the physical window state and the placement of the
// content surface within it.
package display

// Rect represents a window or screen position and size.
type Rect struct {
	X      int
	Y      int
	Width  int
	Height int
}

// Geometry is the window's physical geometry plus its fullscreen state.
// When Fullscreen is true the rect always equals the screen bounds.
type Geometry struct {
	Rect
	Fullscreen bool
}

// Layout is the logical canvas size of the currently shown content. A zero
// width or height means "unset"; Effective substitutes the default canvas.
type Layout struct {
	Width  int
	Height int
}

// DefaultLayoutWidth and DefaultLayoutHeight are the canvas dimensions
// assumed until the content reports its own.
const (
	DefaultLayoutWidth  = 1920
	DefaultLayoutHeight = 1080
)

// Effective returns the layout size to scale against, substituting the
// default canvas for unset dimensions.
func (l Layout) Effective() (w, h int) {
	w, h = l.Width, l.Height
	if w == 0 {
		w = DefaultLayoutWidth
	}
	if h == 0 {
		h = DefaultLayoutHeight
	}
	return w, h
}

// Window is the slice of the windowing toolkit the state machine drives.
// Implementations live elsewhere (internal/x11); tests use fakes.
type Window interface {
	// Screen returns the bounds of the screen the window is on.
	Screen() (Rect, error)
	// MoveResize applies a literal position and size. Values are passed
	// through unvalidated; the toolkit decides what to do with nonsense.
	MoveResize(x, y, width, height int) error
	// SetFullscreen toggles the fullscreen window state.
	SetFullscreen(on bool) error
	// SetTitle sets the window title.
	SetTitle(title string) error
}

// Surface is the embedded content renderer placed inside the window.
type Surface interface {
	// Navigate points the surface at a URL.
	Navigate(url string) error
	// SetViewport positions and sizes the surface within the window.
	SetViewport(x, y, width, height int) error
	// SetZoom applies a uniform content scale factor.
	SetZoom(zoom float64) error
	// RunScript injects a script into the content context, fire-and-forget.
	RunScript(source string) error
	// RequestScreenshot asks the surface for a PNG capture; the result
	// arrives asynchronously as a content event.
	RequestScreenshot() error
}
