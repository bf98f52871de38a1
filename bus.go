package sprig

import (
	"time"
)

// Listener priorities used by the Runtime. Lower values fire first; listeners
// registered at the same priority fire in registration order.
const (
	PriorityControllers = -30 // input is read before logic runs
	PriorityProcess     = -20
	PriorityPhysics     = -10

	// PriorityDefault is where gameplay listeners land when they have no
	// ordering requirement.
	PriorityDefault = 0

	// PriorityAnimation runs the AnimationManager after every gameplay
	// listener has read and written the values sequences are about to update.
	PriorityAnimation = 1000

	// PriorityDraw runs free-standing draw listeners after the Render system.
	PriorityDraw = 1000
)

// --- Channel ---

type listener[A any] struct {
	id       uint32
	priority int
	fn       func(A) error
}

// Channel is a named broadcast point with priority-ordered listeners.
//
// The listener slice is copy-on-write: On and Off build a new slice and never
// touch the one a running Fire is iterating, so registrations made during a
// Fire take effect on the next Fire.
type Channel[A any] struct {
	name      string
	listeners []listener[A]
	nextID    uint32
}

// NewChannel creates an empty channel. The name is used in error messages.
func NewChannel[A any](name string) *Channel[A] {
	return &Channel[A]{name: name}
}

// Name returns the channel name.
func (c *Channel[A]) Name() string {
	return c.name
}

// On registers fn at the given priority and returns a handle that removes
// exactly this registration. The same function may be registered any number
// of times, each registration is independent.
func (c *Channel[A]) On(fn func(A) error, priority int) Handle {
	if fn == nil {
		panic("sprig: cannot register nil listener")
	}
	c.nextID++
	id := c.nextID

	// Insert after every entry with priority <= p so ties keep registration order.
	at := len(c.listeners)
	for i, l := range c.listeners {
		if l.priority > priority {
			at = i
			break
		}
	}
	next := make([]listener[A], 0, len(c.listeners)+1)
	next = append(next, c.listeners[:at]...)
	next = append(next, listener[A]{id: id, priority: priority, fn: fn})
	next = append(next, c.listeners[at:]...)
	c.listeners = next

	return Handle{id: id, off: c.remove}
}

// Off removes the registration behind h. Removing twice is a no-op.
func (c *Channel[A]) Off(h Handle) {
	c.remove(h.id)
}

func (c *Channel[A]) remove(id uint32) {
	for i := range c.listeners {
		if c.listeners[i].id == id {
			next := make([]listener[A], 0, len(c.listeners)-1)
			next = append(next, c.listeners[:i]...)
			next = append(next, c.listeners[i+1:]...)
			c.listeners = next
			return
		}
	}
}

// Len returns the number of registered listeners.
func (c *Channel[A]) Len() int {
	return len(c.listeners)
}

// Fire invokes every listener registered at call time in ascending priority
// order. The first listener error aborts the pass and is returned; the
// remaining listeners do not run.
func (c *Channel[A]) Fire(arg A) error {
	for _, l := range c.listeners {
		if err := l.fn(arg); err != nil {
			return err
		}
	}
	return nil
}

// Handle removes a channel registration.
type Handle struct {
	id  uint32
	off func(uint32)
}

// Remove unregisters the listener so it no longer fires. Safe to call on the
// zero Handle and more than once.
func (h Handle) Remove() {
	if h.off == nil {
		return
	}
	h.off(h.id)
}

// --- Bus ---

// Bus groups the process-wide channels the frame loop fires.
type Bus struct {
	// Process fires once per frame with the elapsed time, before rendering.
	Process *Channel[time.Duration]
	// Render fires once per frame with the current render target.
	Render *Channel[RenderTarget]
}

// NewBus creates a bus with empty channels.
func NewBus() *Bus {
	return &Bus{
		Process: NewChannel[time.Duration]("process"),
		Render:  NewChannel[RenderTarget]("render"),
	}
}
