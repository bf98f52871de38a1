package sprig

import (
	"encoding/json"
	"fmt"
)

// replayAction is one entry of a replay script as written in JSON.
//
//	{"steps": [
//		{"action": "click", "x": 10, "y": 20},
//		{"action": "wait", "frames": 30},
//		{"action": "drag", "fromX": 0, "fromY": 0, "toX": 90, "toY": 0, "frames": 6}
//	]}
type replayAction struct {
	Action string  `json:"action"`
	X      float64 `json:"x,omitempty"`
	Y      float64 `json:"y,omitempty"`
	FromX  float64 `json:"fromX,omitempty"`
	FromY  float64 `json:"fromY,omitempty"`
	ToX    float64 `json:"toX,omitempty"`
	ToY    float64 `json:"toY,omitempty"`
	Frames int     `json:"frames,omitempty"`
}

// replayOp is a compiled action: either input to queue or frames to idle.
type replayOp struct {
	inject func(*InjectedInput)
	idle   int
}

func compileAction(a replayAction) (replayOp, error) {
	switch a.Action {
	case "press":
		return replayOp{inject: func(in *InjectedInput) { in.InjectPress(a.X, a.Y) }}, nil
	case "move":
		return replayOp{inject: func(in *InjectedInput) { in.InjectMove(a.X, a.Y) }}, nil
	case "release":
		return replayOp{inject: func(in *InjectedInput) { in.InjectRelease(a.X, a.Y) }}, nil
	case "click":
		return replayOp{inject: func(in *InjectedInput) { in.InjectClick(a.X, a.Y) }}, nil
	case "drag":
		return replayOp{inject: func(in *InjectedInput) {
			in.InjectDrag(a.FromX, a.FromY, a.ToX, a.ToY, a.Frames)
		}}, nil
	case "wait":
		if a.Frames < 0 {
			return replayOp{}, fmt.Errorf("negative wait %d", a.Frames)
		}
		return replayOp{idle: a.Frames}, nil
	}
	return replayOp{}, fmt.Errorf("unknown action %q", a.Action)
}

// Replay plays a scripted sequence of pointer input into an InjectedInput,
// one action per frame, for deterministic runs of a Runtime. Attach it with
// Runtime.SetReplay.
type Replay struct {
	in   *InjectedInput
	ops  []replayOp
	next int
	idle int
	done bool
}

// LoadReplay parses a JSON replay script that feeds in.
func LoadReplay(jsonData []byte, in *InjectedInput) (*Replay, error) {
	var script struct {
		Steps []replayAction `json:"steps"`
	}
	if err := json.Unmarshal(jsonData, &script); err != nil {
		return nil, fmt.Errorf("parse replay script: %w", err)
	}
	if len(script.Steps) == 0 {
		return nil, fmt.Errorf("parse replay script: no steps")
	}
	ops := make([]replayOp, len(script.Steps))
	for i, a := range script.Steps {
		op, err := compileAction(a)
		if err != nil {
			return nil, fmt.Errorf("parse replay script: step %d: %w", i, err)
		}
		ops[i] = op
	}
	return &Replay{in: in, ops: ops}, nil
}

// Input returns the source the replay feeds.
func (r *Replay) Input() *InjectedInput {
	return r.in
}

// Done reports whether every action has run and its input has been consumed.
func (r *Replay) Done() bool {
	return r.done
}

// step runs at the start of Runtime.Frame, before input is polled. Queued
// input drains before the next action runs, and a wait of n frames includes
// the frame it starts on.
func (r *Replay) step() {
	switch {
	case r.done, r.in.Pending() > 0:
		return
	case r.idle > 0:
		r.idle--
		return
	case r.next == len(r.ops):
		r.done = true
		return
	}

	op := r.ops[r.next]
	r.next++
	if op.inject != nil {
		op.inject(r.in)
	} else if op.idle > 0 {
		r.idle = op.idle - 1
	}
}
