package sprig

import (
	"testing"
	"time"
)

type tickCounter struct {
	total  time.Duration
	onTick func()
}

func (c *tickCounter) Tick(dt time.Duration) {
	c.total += dt
	if c.onTick != nil {
		c.onTick()
	}
}

func TestManagerAddIsIdempotent(t *testing.T) {
	m := NewAnimationManager()
	c := &tickCounter{}
	m.Add(c)
	m.Add(c)
	m.Tick(10 * time.Millisecond)

	if m.Len() != 1 {
		t.Errorf("Len = %d, want 1", m.Len())
	}
	if c.total != 10*time.Millisecond {
		t.Errorf("ticked %v, want 10ms", c.total)
	}
}

func TestManagerRemove(t *testing.T) {
	m := NewAnimationManager()
	c := &tickCounter{}
	m.Add(c)
	m.Remove(c)
	m.Remove(c) // no-op
	m.Tick(10 * time.Millisecond)
	if c.total != 0 || m.Len() != 0 {
		t.Error("removed ticker was ticked")
	}
}

func TestManagerRemoveDuringTick(t *testing.T) {
	m := NewAnimationManager()
	b := &tickCounter{}
	a := &tickCounter{onTick: func() { m.Remove(b) }}
	m.Add(a)
	m.Add(b)

	m.Tick(time.Millisecond)
	if b.total != time.Millisecond {
		t.Error("ticker removed mid-tick should still finish the current tick")
	}
	m.Tick(time.Millisecond)
	if b.total != time.Millisecond {
		t.Error("removed ticker ticked again")
	}
}

func TestManagerTicksAnimations(t *testing.T) {
	m := NewAnimationManager()
	calls := 0
	a := NewAnimation(waits(&calls, 50*time.Millisecond))
	m.Add(a)
	a.Run(struct{}{})

	m.Tick(50 * time.Millisecond)
	if a.State() != AnimationFinished {
		t.Errorf("state = %s, want finished", a.State())
	}
}

func TestManagerAttachRunsAfterDefaultListeners(t *testing.T) {
	ch := NewChannel[time.Duration]("process")
	m := NewAnimationManager()
	var order []string
	m.Add(&tickCounter{onTick: func() { order = append(order, "anim") }})

	h := m.Attach(ch)
	ch.On(func(time.Duration) error { order = append(order, "gameplay"); return nil }, PriorityDefault)
	_ = ch.Fire(time.Millisecond)

	if len(order) != 2 || order[0] != "gameplay" || order[1] != "anim" {
		t.Errorf("order = %v, want [gameplay anim]", order)
	}

	h.Remove()
	order = nil
	_ = ch.Fire(time.Millisecond)
	if len(order) != 1 {
		t.Errorf("order = %v after detaching", order)
	}
}
