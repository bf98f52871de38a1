package sprig

import (
	"errors"
	"fmt"
)

var (
	// ErrAlreadyRunning rejects Animation.Run while the sequence is in flight.
	ErrAlreadyRunning = errors.New("sprig: animation already running")
	// ErrReset settles the pending completion of a sequence that was reset
	// before it finished.
	ErrReset = errors.New("sprig: animation reset")
)

// HookError reports a failure raised by a node hook, either during the
// lifecycle (prepare, init) or during a System pass (process, render,
// control, physics).
type HookError struct {
	Path string // node path at the time of failure
	Hook string
	Err  error
}

func (e *HookError) Error() string {
	return fmt.Sprintf("sprig: %s hook of %q: %v", e.Hook, e.Path, e.Err)
}

func (e *HookError) Unwrap() error {
	return e.Err
}

// StepError reports a failure returned by a step of a sequence. It is
// delivered through the sequence's Completion rather than through Tick.
type StepError struct {
	Step int // zero-based index of the failing step invocation
	Err  error
}

func (e *StepError) Error() string {
	return fmt.Sprintf("sprig: step %d failed: %v", e.Step, e.Err)
}

func (e *StepError) Unwrap() error {
	return e.Err
}
