package content

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"
)

// defaultWriteTimeout bounds each outbound write so a stalled renderer peer
// cannot block the caller indefinitely.
const defaultWriteTimeout = 5 * time.Second

// Events is the router-facing half of the bridge: everything the renderer
// reports flows through here, in the order it was received.
type Events interface {
	HandleConnected() error
	HandleDisconnected() error
	HandleLayoutInit(id, width, height int) error
	HandleLayoutNext() error
	HandleLayoutPrev() error
	HandleLayoutJump(target int) error
	HandleScreenshot(png []byte) error
}

// Bridge is the websocket endpoint the renderer page connects to. It
// implements display.Surface by writing JSON ops down the socket and turns
// inbound messages into router events.
//
// At most one renderer is live at a time; a newcomer replaces the old
// connection. Surface calls without a live connection are silent no-ops
// (the router holds back the commands that must not be lost).
type Bridge struct {
	logger       *slog.Logger
	upgrader     websocket.Upgrader
	writeTimeout time.Duration

	mu     sync.Mutex
	events Events
	conn   *websocket.Conn
}

// NewBridge creates a bridge. Bind must be called before serving.
func NewBridge(logger *slog.Logger) *Bridge {
	if logger == nil {
		logger = slog.Default()
	}
	return &Bridge{
		logger:       logger.With("component", "bridge"),
		writeTimeout: defaultWriteTimeout,
		upgrader: websocket.Upgrader{
			// The server binds to loopback only; origin checks would just
			// get in the way of file:// kiosk setups.
			CheckOrigin: func(*http.Request) bool { return true },
		},
	}
}

// Bind installs the event receiver. Called once during wiring, before the
// HTTP server starts accepting connections.
func (b *Bridge) Bind(events Events) {
	b.mu.Lock()
	b.events = events
	b.mu.Unlock()
}

// inboundEvent is a renderer-to-host message.
type inboundEvent struct {
	Event  string `json:"event"`
	ID     int    `json:"id"`
	Width  int    `json:"width"`
	Height int    `json:"height"`
	Target int    `json:"target"`
}

// ServeHTTP upgrades the request and runs the read loop until the renderer
// goes away.
func (b *Bridge) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	conn, err := b.upgrader.Upgrade(w, r, nil)
	if err != nil {
		b.logger.Warn("bridge upgrade failed", "error", err)
		return
	}

	b.mu.Lock()
	events := b.events
	old := b.conn
	b.conn = conn
	b.mu.Unlock()

	if old != nil {
		b.logger.Info("renderer replaced, closing previous connection")
		old.Close()
	}
	if events == nil {
		b.logger.Warn("bridge not bound, dropping renderer")
		conn.Close()
		return
	}

	if err := events.HandleConnected(); err != nil {
		conn.Close()
		return
	}

	b.readLoop(conn, events)

	b.mu.Lock()
	current := b.conn == conn
	if current {
		b.conn = nil
	}
	b.mu.Unlock()
	conn.Close()

	// A replaced connection exits here too; only the current one counts as
	// the renderer going away.
	if current {
		b.logger.Info("renderer disconnected")
		if err := events.HandleDisconnected(); err != nil {
			b.logger.Warn("disconnect event dropped", "error", err)
		}
	}
}

func (b *Bridge) readLoop(conn *websocket.Conn, events Events) {
	for {
		kind, data, err := conn.ReadMessage()
		if err != nil {
			return
		}
		switch kind {
		case websocket.BinaryMessage:
			// Binary frames carry PNG screenshot data.
			if err := events.HandleScreenshot(data); err != nil {
				return
			}
		case websocket.TextMessage:
			var ev inboundEvent
			if err := json.Unmarshal(data, &ev); err != nil {
				b.logger.Warn("malformed renderer event", "error", err)
				continue
			}
			if err := b.dispatch(events, ev); err != nil {
				return
			}
		}
	}
}

func (b *Bridge) dispatch(events Events, ev inboundEvent) error {
	switch ev.Event {
	case "layoutInit":
		return events.HandleLayoutInit(ev.ID, ev.Width, ev.Height)
	case "layoutNext":
		return events.HandleLayoutNext()
	case "layoutPrev":
		return events.HandleLayoutPrev()
	case "layoutJump":
		return events.HandleLayoutJump(ev.Target)
	default:
		b.logger.Warn("unknown renderer event", "event", ev.Event)
		return nil
	}
}

// send writes a JSON op to the current renderer connection. Without one it
// is a silent no-op.
func (b *Bridge) send(v any) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.conn == nil {
		return nil
	}
	b.conn.SetWriteDeadline(time.Now().Add(b.writeTimeout))
	if err := b.conn.WriteJSON(v); err != nil {
		b.logger.Warn("bridge write failed", "error", err)
		// Closing wakes the read loop, which owns the disconnect path.
		b.conn.Close()
	}
	return nil
}

// Navigate implements display.Surface.
func (b *Bridge) Navigate(url string) error {
	return b.send(struct {
		Op  string `json:"op"`
		URL string `json:"url"`
	}{Op: "navigate", URL: url})
}

// SetViewport implements display.Surface.
func (b *Bridge) SetViewport(x, y, width, height int) error {
	return b.send(struct {
		Op     string `json:"op"`
		X      int    `json:"x"`
		Y      int    `json:"y"`
		Width  int    `json:"width"`
		Height int    `json:"height"`
	}{Op: "viewport", X: x, Y: y, Width: width, Height: height})
}

// SetZoom implements display.Surface.
func (b *Bridge) SetZoom(zoom float64) error {
	return b.send(struct {
		Op     string  `json:"op"`
		Factor float64 `json:"factor"`
	}{Op: "zoom", Factor: zoom})
}

// RunScript implements display.Surface.
func (b *Bridge) RunScript(source string) error {
	return b.send(struct {
		Op     string `json:"op"`
		Source string `json:"source"`
	}{Op: "script", Source: source})
}

// RequestScreenshot implements display.Surface.
func (b *Bridge) RequestScreenshot() error {
	return b.send(struct {
		Op string `json:"op"`
	}{Op: "screenshot"})
}
