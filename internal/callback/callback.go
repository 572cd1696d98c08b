// Package callback delivers tagged events from the display core to the
// single registered sink of the controlling process.
//
// Events flow through a bounded channel drained by one dispatch goroutine,
// so the sink is invoked synchronously, in emission order, and never
// reentrantly. Binary payloads are copied before Emit returns; the sink owns
// the copy it receives.
package callback

import (
	"errors"
	"sync"
)

// Kind tags an Event variant.
type Kind int

const (
	// KindLayoutInit reports that a layout finished initializing.
	// Args: layout id, canvas width, canvas height.
	KindLayoutInit Kind = iota + 1
	// KindLayoutNext asks the controller to advance to the next layout.
	KindLayoutNext
	// KindLayoutPrev asks the controller to go back one layout.
	KindLayoutPrev
	// KindLayoutJump asks the controller to jump to a specific layout.
	// Args: target layout id.
	KindLayoutJump
	// KindScreenshot carries a PNG capture of the content surface.
	KindScreenshot
	// KindConnected reports that the renderer's two-way channel is live.
	KindConnected
)

func (k Kind) String() string {
	switch k {
	case KindLayoutInit:
		return "layout-init"
	case KindLayoutNext:
		return "layout-next"
	case KindLayoutPrev:
		return "layout-prev"
	case KindLayoutJump:
		return "layout-jump"
	case KindScreenshot:
		return "screenshot"
	case KindConnected:
		return "connected"
	default:
		return "unknown"
	}
}

// Event is a tagged callback event: an opcode plus up to three integer
// arguments, or a PNG payload for screenshots.
type Event struct {
	Kind Kind
	Args [3]int
	PNG  []byte
}

// Sink receives events one at a time, in emission order.
type Sink func(Event)

// ErrSinkRegistered is returned when a second sink registration is attempted.
var ErrSinkRegistered = errors.New("callback: sink already registered")

// ErrNoSink is returned when the channel is started without a sink.
var ErrNoSink = errors.New("callback: no sink registered")

// Channel is the single outbound dispatch primitive. Register once, Start
// once; Emit from a single producer.
type Channel struct {
	events chan Event
	stop   chan struct{}
	done   chan struct{}

	mu      sync.Mutex
	sink    Sink
	started bool
	closed  bool
}

// NewChannel creates a channel with the given event buffer size.
func NewChannel(buffer int) *Channel {
	if buffer <= 0 {
		buffer = 16
	}
	return &Channel{
		events: make(chan Event, buffer),
		stop:   make(chan struct{}),
		done:   make(chan struct{}),
	}
}

// Register installs the sink. At most one sink may be registered for the
// channel's lifetime; further calls fail with ErrSinkRegistered.
func (c *Channel) Register(sink Sink) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.sink != nil {
		return ErrSinkRegistered
	}
	c.sink = sink
	return nil
}

// Start launches the dispatch goroutine. It returns ErrNoSink if no sink has
// been registered yet.
func (c *Channel) Start() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.sink == nil {
		return ErrNoSink
	}
	if c.started {
		return nil
	}
	c.started = true
	sink := c.sink
	go c.dispatch(sink)
	return nil
}

func (c *Channel) dispatch(sink Sink) {
	defer close(c.done)
	for {
		select {
		case <-c.stop:
			// Deliver what was emitted before the close, then stop.
			for {
				select {
				case ev := <-c.events:
					sink(ev)
				default:
					return
				}
			}
		case ev := <-c.events:
			sink(ev)
		}
	}
}

// Emit queues an event for dispatch. Screenshot payloads are copied before
// Emit returns so the producer may reuse its buffer. Emitting after Close is
// a silent drop: the sink must never be invoked once the window is torn down.
func (c *Channel) Emit(ev Event) {
	if ev.PNG != nil {
		buf := make([]byte, len(ev.PNG))
		copy(buf, ev.PNG)
		ev.PNG = buf
	}
	select {
	case <-c.stop:
		return
	default:
	}
	select {
	case <-c.stop:
	case c.events <- ev:
	}
}

// Close stops dispatch after delivering already-queued events and waits for
// the dispatch goroutine to finish. Safe to call more than once.
func (c *Channel) Close() {
	c.mu.Lock()
	if c.closed {
		started := c.started
		c.mu.Unlock()
		if started {
			<-c.done
		}
		return
	}
	c.closed = true
	started := c.started
	c.mu.Unlock()

	close(c.stop)
	if started {
		<-c.done
	}
}
