package sprig

import (
	"time"

	"github.com/tanema/gween"
	"github.com/tanema/gween/ease"
)

// TweenGroup animates up to 4 float64 fields simultaneously. Create one via
// the convenience constructors (TweenFloat, TweenVec) and register it with an
// AnimationManager, or call Tick yourself. Once every tween has finished,
// Done is set and OnDone (if any) runs once.
type TweenGroup struct {
	tweens [4]*gween.Tween
	count  int
	fields [4]*float64
	Done   bool

	// OnDone runs once when the group finishes.
	OnDone func()
}

// Tick advances all tweens by dt and writes the values to the target fields.
func (g *TweenGroup) Tick(dt time.Duration) {
	if g.Done {
		return
	}

	sec := float32(dt.Seconds())
	allDone := true
	for i := 0; i < g.count; i++ {
		val, finished := g.tweens[i].Update(sec)
		*g.fields[i] = float64(val)
		if !finished {
			allDone = false
		}
	}
	g.Done = allDone

	if g.Done && g.OnDone != nil {
		g.OnDone()
	}
}

// TweenFloat creates a TweenGroup that animates *f to the target value over
// the duration using the easing function.
func TweenFloat(f *float64, to float64, d time.Duration, fn ease.TweenFunc) *TweenGroup {
	g := &TweenGroup{count: 1}
	g.tweens[0] = gween.New(float32(*f), float32(to), float32(d.Seconds()), fn)
	g.fields[0] = f
	return g
}

// TweenVec creates a TweenGroup that animates both components of *v to the
// target vector over the duration using the easing function.
func TweenVec(v *Vec2, to Vec2, d time.Duration, fn ease.TweenFunc) *TweenGroup {
	g := &TweenGroup{count: 2}
	g.tweens[0] = gween.New(float32(v.X), float32(to.X), float32(d.Seconds()), fn)
	g.tweens[1] = gween.New(float32(v.Y), float32(to.Y), float32(d.Seconds()), fn)
	g.fields[0] = &v.X
	g.fields[1] = &v.Y
	return g
}

// TweenRect creates a TweenGroup that animates all four fields of *r.
func TweenRect(r *Rect, to Rect, d time.Duration, fn ease.TweenFunc) *TweenGroup {
	g := &TweenGroup{count: 4}
	sec := float32(d.Seconds())
	g.tweens[0] = gween.New(float32(r.X), float32(to.X), sec, fn)
	g.tweens[1] = gween.New(float32(r.Y), float32(to.Y), sec, fn)
	g.tweens[2] = gween.New(float32(r.Width), float32(to.Width), sec, fn)
	g.tweens[3] = gween.New(float32(r.Height), float32(to.Height), sec, fn)
	g.fields[0] = &r.X
	g.fields[1] = &r.Y
	g.fields[2] = &r.Width
	g.fields[3] = &r.Height
	return g
}

// TweenStep returns a step that eases a value from from to to over d,
// calling set at the start and after every frame-long wait, then continues
// with next (nil finishes the sequence). The waits it yields sum to exactly d.
// A frame <= 0 updates once, at the end.
func TweenStep[A any](from, to float64, d, frame time.Duration, fn ease.TweenFunc, set func(A, float64), next Step[A]) Step[A] {
	if frame <= 0 || frame > d {
		frame = d
	}
	return func(args A) (Yield[A], error) {
		tw := gween.New(float32(from), float32(to), float32(d.Seconds()), fn)
		set(args, from)
		if d <= 0 {
			set(args, to)
			return Yield[A]{Next: next}, nil
		}

		var at time.Duration
		var loop Step[A]
		loop = func(args A) (Yield[A], error) {
			at += min(frame, d-at)
			if at >= d {
				set(args, to)
				return Yield[A]{Next: next}, nil
			}
			v, _ := tw.Set(float32(at.Seconds()))
			set(args, float64(v))
			return Then(min(frame, d-at), loop), nil
		}
		return Then(frame, loop), nil
	}
}
