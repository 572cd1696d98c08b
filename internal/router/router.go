// Package router serializes host-controller commands and renderer events
// onto a single UI goroutine.
//
// The run loop exclusively owns the window state machine and the content
// surface: nothing else may touch them. Submission never blocks; effects are
// observed asynchronously through callback events or state snapshots.
package router

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"sync/atomic"

	"github.com/mlindgren/vitrine/internal/callback"
	"github.com/mlindgren/vitrine/internal/display"
)

// ErrClosed is returned by Submit once the router has shut down.
var ErrClosed = errors.New("router: closed")

// Command is a host-controller command applied on the UI goroutine.
type Command interface{ isCommand() }

// Navigate loads baseURI+Path into the content surface.
type Navigate struct{ Path string }

// Screenshot requests an asynchronous PNG capture, delivered later as a
// screenshot callback event.
type Screenshot struct{}

// SetTitle updates the window title.
type SetTitle struct{ Text string }

// SetSize applies window geometry; see display.State.ApplySize for the
// fullscreen and zero-substitution rules.
type SetSize struct{ X, Y, Width, Height int }

// SetScale updates the logical layout canvas.
type SetScale struct{ Width, Height int }

// RunScript injects a script into the content context, fire-and-forget.
type RunScript struct{ Source string }

// SetSettings applies title, geometry and layout together, the consolidated
// form used when player settings change.
type SetSettings struct {
	Title        string
	X, Y         int
	Width        int
	Height       int
	LayoutWidth  int
	LayoutHeight int
}

func (Navigate) isCommand()    {}
func (Screenshot) isCommand()  {}
func (SetTitle) isCommand()    {}
func (SetSize) isCommand()     {}
func (SetScale) isCommand()    {}
func (RunScript) isCommand()   {}
func (SetSettings) isCommand() {}

// Renderer events, queued alongside commands so ordering is global.
type (
	evConnected    struct{}
	evDisconnected struct{}
	evLayoutInit   struct{ id, width, height int }
	evLayoutNext   struct{}
	evLayoutPrev   struct{}
	evLayoutJump   struct{ target int }
	evScreenshot   struct{ png []byte }
)

// Router owns the single-threaded task queue.
type Router struct {
	state   *display.State
	surface display.Surface
	channel *callback.Channel
	baseURI string
	logger  *slog.Logger

	mu     sync.Mutex
	queue  []any
	wake   chan struct{}
	closed bool

	// Owned by the run loop.
	pending []Command

	connected atomic.Bool
}

// New creates a router. baseURI is prepended to every navigation path.
func New(state *display.State, surface display.Surface, channel *callback.Channel, baseURI string, logger *slog.Logger) *Router {
	if logger == nil {
		logger = slog.Default()
	}
	return &Router{
		state:   state,
		surface: surface,
		channel: channel,
		baseURI: baseURI,
		logger:  logger.With("component", "router"),
		wake:    make(chan struct{}, 1),
	}
}

// Connected reports whether the renderer's two-way channel is live.
func (r *Router) Connected() bool {
	return r.connected.Load()
}

// Status returns the current window geometry, layout and renderer liveness
// for status reporting. Safe to call from any goroutine.
func (r *Router) Status() (display.Geometry, display.Layout, bool) {
	geom, layout := r.state.Snapshot()
	return geom, layout, r.connected.Load()
}

// Submit queues a command for the UI goroutine. It never blocks; it fails
// only once the router has shut down.
func (r *Router) Submit(cmd Command) error {
	return r.enqueue(cmd)
}

// HandleConnected marks the renderer channel live. Buffered surface-bound
// commands are flushed, in order, after the connected event is forwarded.
func (r *Router) HandleConnected() error {
	return r.enqueue(evConnected{})
}

// HandleDisconnected marks the renderer channel dead. Surface-bound commands
// submitted afterwards are buffered again until the next connect.
func (r *Router) HandleDisconnected() error {
	return r.enqueue(evDisconnected{})
}

// HandleLayoutInit reports a layout that finished initializing. The layout
// canvas is applied to the scale state before the event is forwarded.
func (r *Router) HandleLayoutInit(id, width, height int) error {
	return r.enqueue(evLayoutInit{id: id, width: width, height: height})
}

// HandleLayoutNext forwards a layout-advance request from the content.
func (r *Router) HandleLayoutNext() error {
	return r.enqueue(evLayoutNext{})
}

// HandleLayoutPrev forwards a layout-retreat request from the content.
func (r *Router) HandleLayoutPrev() error {
	return r.enqueue(evLayoutPrev{})
}

// HandleLayoutJump forwards a jump request to a specific layout.
func (r *Router) HandleLayoutJump(target int) error {
	return r.enqueue(evLayoutJump{target: target})
}

// HandleScreenshot forwards a completed PNG capture. The router takes
// ownership of the buffer.
func (r *Router) HandleScreenshot(png []byte) error {
	return r.enqueue(evScreenshot{png: png})
}

func (r *Router) enqueue(t any) error {
	r.mu.Lock()
	if r.closed {
		r.mu.Unlock()
		return ErrClosed
	}
	r.queue = append(r.queue, t)
	r.mu.Unlock()

	select {
	case r.wake <- struct{}{}:
	default:
	}
	return nil
}

func (r *Router) pop() (any, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if len(r.queue) == 0 {
		return nil, false
	}
	t := r.queue[0]
	r.queue = r.queue[1:]
	return t, true
}

// Run drains the queue until the context is canceled. The calling goroutine
// becomes the UI execution context; Run must be called exactly once.
func (r *Router) Run(ctx context.Context) {
	defer func() {
		r.mu.Lock()
		r.closed = true
		r.mu.Unlock()
	}()

	for {
		select {
		case <-ctx.Done():
			return
		case <-r.wake:
			for {
				t, ok := r.pop()
				if !ok {
					break
				}
				r.apply(t)
			}
		}
	}
}

func (r *Router) apply(t any) {
	switch v := t.(type) {
	case evConnected:
		r.connected.Store(true)
		r.logger.Info("renderer connected")
		// A fresh renderer starts with no viewport; push the current one.
		if err := r.state.Rescale(); err != nil {
			r.logger.Warn("rescale on connect failed", "error", err)
		}
		r.channel.Emit(callback.Event{Kind: callback.KindConnected})
		pending := r.pending
		r.pending = nil
		for _, cmd := range pending {
			r.applyCommand(cmd)
		}

	case evDisconnected:
		r.connected.Store(false)
		r.logger.Info("renderer gone, holding surface commands")

	case evLayoutInit:
		r.logger.Info("layout initialized", "id", v.id,
			"width", v.width, "height", v.height)
		if err := r.state.ApplyLayout(v.width, v.height); err != nil {
			r.logger.Warn("apply layout failed", "error", err)
		}
		r.channel.Emit(callback.Event{
			Kind: callback.KindLayoutInit,
			Args: [3]int{v.id, v.width, v.height},
		})

	case evLayoutNext:
		r.channel.Emit(callback.Event{Kind: callback.KindLayoutNext})

	case evLayoutPrev:
		r.channel.Emit(callback.Event{Kind: callback.KindLayoutPrev})

	case evLayoutJump:
		r.channel.Emit(callback.Event{
			Kind: callback.KindLayoutJump,
			Args: [3]int{v.target, 0, 0},
		})

	case evScreenshot:
		r.channel.Emit(callback.Event{Kind: callback.KindScreenshot, PNG: v.png})

	case Command:
		if !r.connected.Load() && surfaceBound(v) {
			// The renderer would drop these on the floor; hold them
			// until it announces itself.
			r.pending = append(r.pending, v)
			r.logger.Debug("command buffered until renderer connects")
			return
		}
		r.applyCommand(v)
	}
}

// surfaceBound reports whether a command needs a live renderer connection.
// Window-bound commands apply immediately: the window exists before the
// renderer connects.
func surfaceBound(cmd Command) bool {
	switch cmd.(type) {
	case Navigate, Screenshot, RunScript:
		return true
	default:
		return false
	}
}

func (r *Router) applyCommand(cmd Command) {
	var err error
	switch v := cmd.(type) {
	case Navigate:
		err = r.surface.Navigate(r.baseURI + v.Path)
	case Screenshot:
		err = r.surface.RequestScreenshot()
	case RunScript:
		err = r.surface.RunScript(v.Source)
	case SetTitle:
		err = r.state.ApplyTitle(v.Text)
	case SetSize:
		err = r.state.ApplySize(v.X, v.Y, v.Width, v.Height)
	case SetScale:
		err = r.state.ApplyLayout(v.Width, v.Height)
	case SetSettings:
		if v.Title != "" {
			if terr := r.state.ApplyTitle(v.Title); terr != nil {
				r.logger.Warn("apply title failed", "error", terr)
			}
		}
		if serr := r.state.ApplySize(v.X, v.Y, v.Width, v.Height); serr != nil {
			r.logger.Warn("apply size failed", "error", serr)
		}
		err = r.state.ApplyLayout(v.LayoutWidth, v.LayoutHeight)
	}
	if err != nil {
		// Commands degrade to no-ops; the window must keep running even
		// after a bad request.
		r.logger.Warn("command failed", "error", err)
	}
}
