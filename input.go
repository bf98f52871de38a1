package sprig

import (
	"github.com/hajimehoshi/ebiten/v2"
)

// --- Constants ---

const maxPointers = 10 // pointer 0 = mouse, 1-9 = touch

// --- Touch ---

// Touch is one active pointer as seen by Controller hooks, in device
// (screen) coordinates.
type Touch struct {
	ID          int // 0 = mouse, 1-9 = touch slots
	Pos         Vec2
	Start       Vec2 // position when the pointer went down
	Delta       Vec2 // movement since the previous frame
	JustPressed bool // went down this frame
	Frames      int  // frames held, 0 on the press frame
}

// InputSource is polled by Controller hooks. The core never pushes input
// into nodes.
type InputSource interface {
	// FindTouch returns the first active touch accepted by match, in pointer
	// order. A nil match accepts any active touch.
	FindTouch(match func(Touch) bool) (Touch, bool)
	// Touches returns the active touches. The slice is valid until the next
	// poll and MUST NOT be mutated.
	Touches() []Touch
}

// Poller is implemented by input sources that sample devices once per frame.
// Runtime.Frame calls Poll before firing the process channel.
type Poller interface {
	Poll()
}

// --- Pointer tracking ---

// pointerTracker turns per-frame (pointer, position, pressed) samples into
// Touch state. Shared by the device-backed and injected sources.
type pointerTracker struct {
	touches [maxPointers]Touch
	down    [maxPointers]bool
	active  []Touch
}

// sample runs the per-pointer state machine for one frame.
func (t *pointerTracker) sample(id int, pos Vec2, pressed bool) {
	tc := &t.touches[id]
	switch {
	case pressed && !t.down[id]:
		// Just pressed.
		t.down[id] = true
		*tc = Touch{ID: id, Pos: pos, Start: pos, JustPressed: true}
	case pressed && t.down[id]:
		// Held, possibly moved.
		tc.Delta = pos.Sub(tc.Pos)
		tc.Pos = pos
		tc.JustPressed = false
		tc.Frames++
	case !pressed && t.down[id]:
		// Just released.
		t.down[id] = false
		*tc = Touch{ID: id, Pos: pos}
	}
}

// hold advances a pointer that received no sample this frame but is still down.
func (t *pointerTracker) hold(id int) {
	if t.down[id] {
		t.sample(id, t.touches[id].Pos, true)
	}
}

func (t *pointerTracker) rebuild() {
	t.active = t.active[:0]
	for i := 0; i < maxPointers; i++ {
		if t.down[i] {
			t.active = append(t.active, t.touches[i])
		}
	}
}

func (t *pointerTracker) FindTouch(match func(Touch) bool) (Touch, bool) {
	for _, tc := range t.active {
		if match == nil || match(tc) {
			return tc, true
		}
	}
	return Touch{}, false
}

func (t *pointerTracker) Touches() []Touch {
	return t.active
}

// --- Ebiten input ---

// EbitenInput samples the mouse (left button, pointer 0) and touch screens
// through ebiten once per frame.
type EbitenInput struct {
	pointerTracker

	touchMap     [maxPointers]ebiten.TouchID
	touchUsed    [maxPointers]bool
	prevTouchIDs []ebiten.TouchID
}

// NewEbitenInput creates an input source backed by ebiten's device state.
func NewEbitenInput() *EbitenInput {
	return &EbitenInput{}
}

// Poll samples the devices. Must be called from ebiten's Update.
func (in *EbitenInput) Poll() {
	mx, my := ebiten.CursorPosition()
	in.sample(0, Vec2{float64(mx), float64(my)}, ebiten.IsMouseButtonPressed(ebiten.MouseButtonLeft))
	in.pollTouches()
	in.rebuild()
}

// pollTouches handles touch input (pointers 1-9).
func (in *EbitenInput) pollTouches() {
	touchIDs := ebiten.AppendTouchIDs(in.prevTouchIDs[:0])
	in.prevTouchIDs = touchIDs

	var activeSlots [maxPointers]bool
	for _, tid := range touchIDs {
		slot := in.touchSlot(tid)
		if slot < 0 {
			continue
		}
		activeSlots[slot] = true

		tx, ty := ebiten.TouchPosition(tid)
		in.sample(slot, Vec2{float64(tx), float64(ty)}, true)
	}

	// Release any touch slots that are no longer active.
	for i := 1; i < maxPointers; i++ {
		if in.touchUsed[i] && !activeSlots[i] {
			in.sample(i, in.touches[i].Pos, false)
			in.touchUsed[i] = false
			in.touchMap[i] = 0
		}
	}
}

// touchSlot maps an ebiten.TouchID to a pointer slot (1-9).
// Returns the existing slot or allocates a new one. Returns -1 if full.
func (in *EbitenInput) touchSlot(tid ebiten.TouchID) int {
	for i := 1; i < maxPointers; i++ {
		if in.touchUsed[i] && in.touchMap[i] == tid {
			return i
		}
	}
	for i := 1; i < maxPointers; i++ {
		if !in.touchUsed[i] {
			in.touchUsed[i] = true
			in.touchMap[i] = tid
			return i
		}
	}
	return -1
}
