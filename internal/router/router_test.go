package router

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/mlindgren/vitrine/internal/callback"
	"github.com/mlindgren/vitrine/internal/display"
)

type fakeWindow struct {
	mu         sync.Mutex
	screen     display.Rect
	rect       display.Rect
	fullscreen bool
	titles     []string
}

func (w *fakeWindow) Screen() (display.Rect, error) {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.screen, nil
}

func (w *fakeWindow) MoveResize(x, y, width, height int) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.rect = display.Rect{X: x, Y: y, Width: width, Height: height}
	return nil
}

func (w *fakeWindow) SetFullscreen(on bool) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.fullscreen = on
	return nil
}

func (w *fakeWindow) SetTitle(title string) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.titles = append(w.titles, title)
	return nil
}

func (w *fakeWindow) titleCount() int {
	w.mu.Lock()
	defer w.mu.Unlock()
	return len(w.titles)
}

type fakeSurface struct {
	mu       sync.Mutex
	urls     []string
	scripts  []string
	shots    int
	viewport display.Rect
	zoom     float64
}

func (s *fakeSurface) Navigate(url string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.urls = append(s.urls, url)
	return nil
}

func (s *fakeSurface) SetViewport(x, y, width, height int) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.viewport = display.Rect{X: x, Y: y, Width: width, Height: height}
	return nil
}

func (s *fakeSurface) SetZoom(zoom float64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.zoom = zoom
	return nil
}

func (s *fakeSurface) RunScript(source string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.scripts = append(s.scripts, source)
	return nil
}

func (s *fakeSurface) RequestScreenshot() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.shots++
	return nil
}

func (s *fakeSurface) urlList() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]string, len(s.urls))
	copy(out, s.urls)
	return out
}

func (s *fakeSurface) shotCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.shots
}

type collector struct {
	mu     sync.Mutex
	events []callback.Event
}

func (c *collector) sink(ev callback.Event) {
	c.mu.Lock()
	c.events = append(c.events, ev)
	c.mu.Unlock()
}

func (c *collector) kinds() []callback.Kind {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]callback.Kind, len(c.events))
	for i, ev := range c.events {
		out[i] = ev.Kind
	}
	return out
}

func waitFor(t *testing.T, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if cond() {
			return
		}
		time.Sleep(time.Millisecond)
	}
	t.Fatalf("condition not reached before deadline")
}

type harness struct {
	router  *Router
	win     *fakeWindow
	surface *fakeSurface
	col     *collector
	cancel  context.CancelFunc
}

func newHarness(t *testing.T) *harness {
	t.Helper()
	win := &fakeWindow{screen: display.Rect{Width: 2560, Height: 1440}}
	surface := &fakeSurface{}
	col := &collector{}

	ch := callback.NewChannel(16)
	if err := ch.Register(col.sink); err != nil {
		t.Fatalf("register sink: %v", err)
	}
	if err := ch.Start(); err != nil {
		t.Fatalf("start channel: %v", err)
	}

	state := display.NewState(win, surface, nil)
	r := New(state, surface, ch, "http://127.0.0.1:9696/", nil)

	ctx, cancel := context.WithCancel(context.Background())
	go r.Run(ctx)

	t.Cleanup(func() {
		cancel()
		ch.Close()
	})
	return &harness{router: r, win: win, surface: surface, col: col, cancel: cancel}
}

func TestEventOrderingPreserved(t *testing.T) {
	h := newHarness(t)

	if err := h.router.HandleConnected(); err != nil {
		t.Fatalf("connected: %v", err)
	}
	if err := h.router.HandleLayoutInit(3, 1280, 720); err != nil {
		t.Fatalf("layout init: %v", err)
	}
	if err := h.router.HandleLayoutNext(); err != nil {
		t.Fatalf("layout next: %v", err)
	}
	if err := h.router.HandleLayoutNext(); err != nil {
		t.Fatalf("layout next: %v", err)
	}

	waitFor(t, func() bool { return len(h.col.kinds()) == 4 })
	got := h.col.kinds()
	want := []callback.Kind{
		callback.KindConnected,
		callback.KindLayoutInit,
		callback.KindLayoutNext,
		callback.KindLayoutNext,
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("event %d: expected %v, got %v (all: %v)", i, want[i], got[i], got)
		}
	}
}

func TestSurfaceCommandsBufferedUntilConnected(t *testing.T) {
	h := newHarness(t)

	if err := h.router.Submit(Navigate{Path: "0.xlf.html"}); err != nil {
		t.Fatalf("navigate: %v", err)
	}
	if err := h.router.Submit(SetTitle{Text: "Display"}); err != nil {
		t.Fatalf("set title: %v", err)
	}

	// The title is window-bound and applies without a renderer.
	waitFor(t, func() bool { return h.win.titleCount() == 1 })
	if urls := h.surface.urlList(); len(urls) != 0 {
		t.Fatalf("navigation must be held back, got %v", urls)
	}

	if err := h.router.HandleConnected(); err != nil {
		t.Fatalf("connected: %v", err)
	}
	waitFor(t, func() bool { return len(h.surface.urlList()) == 1 })
	if got := h.surface.urlList()[0]; got != "http://127.0.0.1:9696/0.xlf.html" {
		t.Fatalf("unexpected url %q", got)
	}
}

func TestBufferedCommandsFlushInOrder(t *testing.T) {
	h := newHarness(t)

	for _, p := range []string{"1.xlf.html", "2.xlf.html", "3.xlf.html"} {
		if err := h.router.Submit(Navigate{Path: p}); err != nil {
			t.Fatalf("navigate: %v", err)
		}
	}
	if err := h.router.HandleConnected(); err != nil {
		t.Fatalf("connected: %v", err)
	}

	waitFor(t, func() bool { return len(h.surface.urlList()) == 3 })
	urls := h.surface.urlList()
	for i, p := range []string{"1.xlf.html", "2.xlf.html", "3.xlf.html"} {
		if urls[i] != "http://127.0.0.1:9696/"+p {
			t.Fatalf("url %d: got %q", i, urls[i])
		}
	}
}

func TestDisconnectResumesBuffering(t *testing.T) {
	h := newHarness(t)

	if err := h.router.HandleConnected(); err != nil {
		t.Fatalf("connected: %v", err)
	}
	if err := h.router.Submit(Navigate{Path: "1.xlf.html"}); err != nil {
		t.Fatalf("navigate: %v", err)
	}
	waitFor(t, func() bool { return len(h.surface.urlList()) == 1 })

	if err := h.router.HandleDisconnected(); err != nil {
		t.Fatalf("disconnected: %v", err)
	}
	waitFor(t, func() bool { return !h.router.Connected() })

	// With the renderer gone, surface commands must be held, not lost.
	if err := h.router.Submit(Navigate{Path: "2.xlf.html"}); err != nil {
		t.Fatalf("navigate: %v", err)
	}
	if err := h.router.Submit(RunScript{Source: "tick()"}); err != nil {
		t.Fatalf("run script: %v", err)
	}
	waitFor(t, func() bool {
		_, _, connected := h.router.Status()
		return !connected
	})
	if urls := h.surface.urlList(); len(urls) != 1 {
		t.Fatalf("navigation during the gap must be held back, got %v", urls)
	}

	if err := h.router.HandleConnected(); err != nil {
		t.Fatalf("reconnected: %v", err)
	}
	waitFor(t, func() bool { return len(h.surface.urlList()) == 2 })
	if got := h.surface.urlList()[1]; got != "http://127.0.0.1:9696/2.xlf.html" {
		t.Fatalf("unexpected url %q", got)
	}
	waitFor(t, func() bool {
		h.surface.mu.Lock()
		defer h.surface.mu.Unlock()
		return len(h.surface.scripts) == 1
	})
}

func TestScreenshotRoundTrip(t *testing.T) {
	h := newHarness(t)

	if err := h.router.HandleConnected(); err != nil {
		t.Fatalf("connected: %v", err)
	}
	if err := h.router.Submit(Screenshot{}); err != nil {
		t.Fatalf("screenshot: %v", err)
	}
	waitFor(t, func() bool { return h.surface.shotCount() == 1 })

	if err := h.router.HandleScreenshot([]byte{0x89, 'P', 'N', 'G'}); err != nil {
		t.Fatalf("screenshot data: %v", err)
	}
	waitFor(t, func() bool {
		kinds := h.col.kinds()
		return len(kinds) > 0 && kinds[len(kinds)-1] == callback.KindScreenshot
	})
}

func TestLayoutInitAppliesScale(t *testing.T) {
	h := newHarness(t)

	if err := h.router.Submit(SetSize{Width: 1920, Height: 1080}); err != nil {
		t.Fatalf("set size: %v", err)
	}
	if err := h.router.HandleLayoutInit(5, 800, 600); err != nil {
		t.Fatalf("layout init: %v", err)
	}

	// 1920x1080 window, 800x600 layout: scale by height, zoom 1.8.
	waitFor(t, func() bool {
		h.surface.mu.Lock()
		defer h.surface.mu.Unlock()
		return h.surface.zoom == 1.8 && h.surface.viewport.X == 240
	})
}

func TestSubmitAfterShutdown(t *testing.T) {
	h := newHarness(t)
	h.cancel()

	waitFor(t, func() bool {
		return h.router.Submit(SetTitle{Text: "x"}) == ErrClosed
	})
}

func TestSetSettingsAppliesAll(t *testing.T) {
	h := newHarness(t)

	err := h.router.Submit(SetSettings{
		Title: "Lobby Screen", X: 0, Y: 0, Width: 0, Height: 0,
		LayoutWidth: 1280, LayoutHeight: 720,
	})
	if err != nil {
		t.Fatalf("set settings: %v", err)
	}

	waitFor(t, func() bool { return h.win.titleCount() == 1 })
	waitFor(t, func() bool {
		_, layout := h.router.state.Snapshot()
		return layout.Width == 1280 && layout.Height == 720
	})
	geom, _ := h.router.state.Snapshot()
	if !geom.Fullscreen {
		t.Fatalf("expected all-zero geometry to enter fullscreen")
	}
}
