package sprig

import (
	"fmt"
	"time"
)

// AnimationState is the state of a step sequence.
type AnimationState uint8

const (
	AnimationIdle     AnimationState = iota // not started, or reset
	AnimationRunning                        // executing steps inside Run or Tick
	AnimationWaiting                        // suspended at a wait point
	AnimationFinished                       // the last step completed
	AnimationFailed                         // a step returned an error
)

func (s AnimationState) String() string {
	switch s {
	case AnimationIdle:
		return "idle"
	case AnimationRunning:
		return "running"
	case AnimationWaiting:
		return "waiting"
	case AnimationFinished:
		return "finished"
	case AnimationFailed:
		return "failed"
	default:
		return fmt.Sprintf("AnimationState(%d)", uint8(s))
	}
}

// --- Steps ---

// Step is one segment of sequence logic. It runs synchronously, may mutate
// the values it was given, and returns how long to wait and which step runs
// after the wait. A step can return itself to loop.
type Step[A any] func(args A) (Yield[A], error)

// Yield is a step's result: wait Wait, then continue with Next. A nil Next
// finishes the sequence once the wait has elapsed.
type Yield[A any] struct {
	Wait time.Duration
	Next Step[A]
}

// Then waits for d and continues with next.
func Then[A any](d time.Duration, next Step[A]) Yield[A] {
	return Yield[A]{Wait: d, Next: next}
}

// Done finishes the sequence without waiting.
func Done[A any]() Yield[A] {
	return Yield[A]{}
}

// Segment is an action followed by a wait, for sequences with a fixed shape.
type Segment[A any] struct {
	Do   func(A) error // may be nil for a pure wait
	Wait time.Duration
}

// Seq builds a step that runs segments in order.
func Seq[A any](segments ...Segment[A]) Step[A] {
	if len(segments) == 0 {
		return func(A) (Yield[A], error) { return Done[A](), nil }
	}
	var at func(i int) Step[A]
	at = func(i int) Step[A] {
		return func(args A) (Yield[A], error) {
			seg := segments[i]
			if seg.Do != nil {
				if err := seg.Do(args); err != nil {
					return Yield[A]{}, err
				}
			}
			var next Step[A]
			if i+1 < len(segments) {
				next = at(i + 1)
			}
			return Then(seg.Wait, next), nil
		}
	}
	return at(0)
}

// --- Animation ---

// Animation is a resumable step sequence bound to a reusable step
// definition. Run binds arguments and starts it; Tick feeds it elapsed time.
// All methods must be called from the frame loop goroutine.
type Animation[A any] struct {
	def   Step[A]
	state AnimationState
	args  A

	next    Step[A]       // step to run once the outstanding wait elapses
	wait    time.Duration // outstanding wait
	budget  time.Duration // time received but not yet consumed by a wait
	elapsed time.Duration // sum of the waits consumed so far
	calls   int

	done *Completion
	gen  uint64 // bumped by Run and Reset so an in-flight resume can tell it was superseded
}

// NewAnimation creates an idle sequence for def.
func NewAnimation[A any](def Step[A]) *Animation[A] {
	if def == nil {
		panic("sprig: animation needs a step")
	}
	return &Animation[A]{def: def}
}

// State returns the current state.
func (a *Animation[A]) State() AnimationState {
	return a.state
}

// Args returns the arguments bound by the last Run.
func (a *Animation[A]) Args() A {
	return a.args
}

// Budget returns the time received through Tick that no wait has consumed.
func (a *Animation[A]) Budget() time.Duration {
	return a.budget
}

// Elapsed returns the simulated time consumed by waits since the last Run.
func (a *Animation[A]) Elapsed() time.Duration {
	return a.elapsed
}

// Remaining returns the outstanding wait while Waiting, else zero.
func (a *Animation[A]) Remaining() time.Duration {
	if a.state != AnimationWaiting {
		return 0
	}
	return a.wait - a.budget
}

// Run binds args and executes steps until the first wait or the end. The
// returned Completion settles once, when the sequence finishes, fails or is
// reset. If the sequence is already in flight the returned Completion is
// already rejected with ErrAlreadyRunning and the running sequence is left
// alone.
func (a *Animation[A]) Run(args A) *Completion {
	if a.state == AnimationRunning || a.state == AnimationWaiting {
		c := &Completion{}
		c.settle(ErrAlreadyRunning)
		return c
	}
	a.gen++
	a.args = args
	a.next = a.def
	a.wait = 0
	a.budget = 0
	a.elapsed = 0
	a.calls = 0
	a.done = &Completion{}

	done := a.done
	a.resume()
	return done
}

// Tick adds dt to the time budget and resumes the sequence as many times as
// the budget allows, so a large dt can cross several wait points. Does
// nothing unless the sequence is waiting.
func (a *Animation[A]) Tick(dt time.Duration) {
	if a.state != AnimationWaiting {
		return
	}
	a.budget += dt
	for a.state == AnimationWaiting && a.budget >= a.wait {
		a.budget -= a.wait
		a.elapsed += a.wait
		a.wait = 0
		a.resume()
	}
}

// Reset discards in-flight progress and the time budget and returns the
// sequence to Idle. A pending Completion is rejected with ErrReset. Calling
// Reset repeatedly is the same as calling it once.
func (a *Animation[A]) Reset() *Animation[A] {
	a.gen++
	pending := a.done

	var zero A
	a.state = AnimationIdle
	a.args = zero
	a.next = nil
	a.wait = 0
	a.budget = 0
	a.elapsed = 0
	a.calls = 0
	a.done = nil

	if pending != nil {
		pending.settle(ErrReset)
	}
	return a
}

// resume runs steps until one asks for a positive wait or the sequence ends.
func (a *Animation[A]) resume() {
	gen := a.gen
	for {
		if a.next == nil {
			a.settle(AnimationFinished, nil)
			return
		}
		step := a.next
		a.state = AnimationRunning
		y, err := step(a.args)
		if a.gen != gen {
			// Reset or Run was called from inside the step.
			return
		}
		a.calls++
		if err != nil {
			a.settle(AnimationFailed, &StepError{Step: a.calls - 1, Err: err})
			return
		}
		a.next = y.Next
		if y.Wait > 0 {
			a.wait = y.Wait
			a.state = AnimationWaiting
			return
		}
	}
}

func (a *Animation[A]) settle(state AnimationState, err error) {
	a.state = state
	a.next = nil
	a.wait = 0
	done := a.done
	a.done = nil
	if done != nil {
		done.settle(err)
	}
}
