package sprig

import (
	"math"
	"testing"
	"time"

	"github.com/tanema/gween/ease"
)

func near(a, b float64) bool { return math.Abs(a-b) < 1e-3 }

func TestTweenFloat(t *testing.T) {
	v := 0.0
	g := TweenFloat(&v, 100, time.Second, ease.Linear)
	done := 0
	g.OnDone = func() { done++ }

	g.Tick(500 * time.Millisecond)
	if !near(v, 50) {
		t.Errorf("v = %v at half time, want 50", v)
	}
	if g.Done {
		t.Error("done too early")
	}

	g.Tick(600 * time.Millisecond)
	g.Tick(100 * time.Millisecond)
	if !g.Done || !near(v, 100) {
		t.Errorf("done = %v v = %v, want done at 100", g.Done, v)
	}
	if done != 1 {
		t.Errorf("OnDone ran %d times, want 1", done)
	}
}

func TestTweenVec(t *testing.T) {
	v := Vec2{0, 10}
	g := TweenVec(&v, Vec2{20, 0}, time.Second, ease.Linear)
	g.Tick(250 * time.Millisecond)
	if !near(v.X, 5) || !near(v.Y, 7.5) {
		t.Errorf("v = %v, want (5, 7.5)", v)
	}
}

func TestTweenRect(t *testing.T) {
	r := Rect{}
	g := TweenRect(&r, Rect{X: 10, Y: 20, Width: 30, Height: 40}, time.Second, ease.Linear)
	g.Tick(time.Second)
	if !g.Done || !near(r.Width, 30) || !near(r.Height, 40) {
		t.Errorf("r = %+v done = %v", r, g.Done)
	}
}

func TestTweenStepWaitsSumToDuration(t *testing.T) {
	var got []float64
	set := func(_ struct{}, v float64) { got = append(got, v) }
	a := NewAnimation(TweenStep(0, 100, 100*time.Millisecond, 16*time.Millisecond, ease.Linear, set, nil))
	a.Run(struct{}{})

	if len(got) != 1 || got[0] != 0 {
		t.Fatalf("first value = %v, want [0]", got)
	}

	a.Tick(50 * time.Millisecond)
	if last := got[len(got)-1]; !near(last, 48) {
		t.Errorf("value after 48ms of waits = %v, want 48", last)
	}

	a.Tick(52 * time.Millisecond)
	if a.State() != AnimationFinished {
		t.Fatalf("state = %s, want finished", a.State())
	}
	if got[len(got)-1] != 100 {
		t.Errorf("final value = %v, want exactly 100", got[len(got)-1])
	}
	if a.Elapsed() != 100*time.Millisecond {
		t.Errorf("Elapsed = %v, want 100ms", a.Elapsed())
	}
}

func TestTweenStepContinues(t *testing.T) {
	var v float64
	set := func(p *float64, x float64) { *p = x }
	after := Step[*float64](func(p *float64) (Yield[*float64], error) {
		*p = -1
		return Done[*float64](), nil
	})
	a := NewAnimation(TweenStep(0, 1, 0, 0, ease.Linear, set, after))
	a.Run(&v)
	if v != -1 || a.State() != AnimationFinished {
		t.Errorf("v = %v state = %s, want the next step to run", v, a.State())
	}
}
