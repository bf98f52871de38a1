package sprig

// syntheticPointerEvent represents a single injected pointer event in screen
// coordinates, the same space EbitenInput reports.
type syntheticPointerEvent struct {
	pointer int
	pos     Vec2
	pressed bool
}

// InjectedInput is an InputSource fed by queued synthetic events instead of
// devices. Each Poll consumes at most one queued event, so a scripted
// interaction plays out over consecutive frames. Pointers that receive no
// event keep their state.
type InjectedInput struct {
	pointerTracker
	queue []syntheticPointerEvent
}

// NewInjectedInput creates an empty injected source.
func NewInjectedInput() *InjectedInput {
	return &InjectedInput{}
}

// Pending returns the number of queued events.
func (in *InjectedInput) Pending() int {
	return len(in.queue)
}

// InjectPress queues a press of pointer 0 at the given screen coordinates.
func (in *InjectedInput) InjectPress(x, y float64) {
	in.queue = append(in.queue, syntheticPointerEvent{pos: Vec2{x, y}, pressed: true})
}

// InjectMove queues a move of pointer 0 with the button held down. Use this
// between InjectPress and InjectRelease to simulate a drag.
func (in *InjectedInput) InjectMove(x, y float64) {
	in.queue = append(in.queue, syntheticPointerEvent{pos: Vec2{x, y}, pressed: true})
}

// InjectRelease queues a release of pointer 0 at the given screen coordinates.
func (in *InjectedInput) InjectRelease(x, y float64) {
	in.queue = append(in.queue, syntheticPointerEvent{pos: Vec2{x, y}})
}

// InjectClick is a convenience that queues a press followed by a release
// at the same coordinates. Consumes two frames.
func (in *InjectedInput) InjectClick(x, y float64) {
	in.InjectPress(x, y)
	in.InjectRelease(x, y)
}

// InjectDrag queues a full drag sequence: press at (fromX, fromY),
// linearly interpolated moves over frames-2 intermediate frames, and
// release at (toX, toY). The total sequence consumes `frames` frames.
// Minimum frames is 2 (press + release).
func (in *InjectedInput) InjectDrag(fromX, fromY, toX, toY float64, frames int) {
	if frames < 2 {
		frames = 2
	}
	in.InjectPress(fromX, fromY)
	steps := frames - 2
	for i := 1; i <= steps; i++ {
		t := float64(i) / float64(steps+1)
		x := fromX + (toX-fromX)*t
		y := fromY + (toY-fromY)*t
		in.InjectMove(x, y)
	}
	in.InjectRelease(toX, toY)
}

// Poll pops one queued event and advances every pointer by one frame.
func (in *InjectedInput) Poll() {
	sampled := -1
	if len(in.queue) > 0 {
		evt := in.queue[0]
		copy(in.queue, in.queue[1:])
		in.queue = in.queue[:len(in.queue)-1]
		in.sample(evt.pointer, evt.pos, evt.pressed)
		sampled = evt.pointer
	}
	for i := 0; i < maxPointers; i++ {
		if i != sampled {
			in.hold(i)
		}
	}
	in.rebuild()
}
