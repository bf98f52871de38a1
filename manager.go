package sprig

import "time"

// Ticker is anything the AnimationManager can advance: an Animation, a
// TweenGroup, or a user type.
type Ticker interface {
	Tick(dt time.Duration)
}

// AnimationManager ticks every registered sequence once per frame. It is
// owned by a Runtime and attached to the process channel at
// PriorityAnimation, after gameplay listeners.
type AnimationManager struct {
	tickers []Ticker // copy-on-write, like Channel listeners
}

// NewAnimationManager creates an empty manager.
func NewAnimationManager() *AnimationManager {
	return &AnimationManager{}
}

// Add registers t. Adding the same ticker twice is a no-op.
func (m *AnimationManager) Add(t Ticker) {
	for _, x := range m.tickers {
		if x == t {
			return
		}
	}
	next := make([]Ticker, 0, len(m.tickers)+1)
	next = append(next, m.tickers...)
	m.tickers = append(next, t)
}

// Remove unregisters t.
func (m *AnimationManager) Remove(t Ticker) {
	for i, x := range m.tickers {
		if x == t {
			next := make([]Ticker, 0, len(m.tickers)-1)
			next = append(next, m.tickers[:i]...)
			m.tickers = append(next, m.tickers[i+1:]...)
			return
		}
	}
}

// Len returns the number of registered tickers.
func (m *AnimationManager) Len() int {
	return len(m.tickers)
}

// Tick advances every ticker registered when the call began, in
// registration order.
func (m *AnimationManager) Tick(dt time.Duration) {
	for _, t := range m.tickers {
		t.Tick(dt)
	}
}

// Attach registers the manager on ch at PriorityAnimation.
func (m *AnimationManager) Attach(ch *Channel[time.Duration]) Handle {
	return ch.On(func(dt time.Duration) error {
		m.Tick(dt)
		return nil
	}, PriorityAnimation)
}
