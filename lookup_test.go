package sprig

import (
	"errors"
	"testing"
)

type shipBehavior struct{ speed float64 }
type cameraBehavior struct{}

func lookupTree() *Node {
	root := ready("root", nil)
	ui := ready("ui", nil)
	root.AddChild(ui)
	ui.AddChild(ready("camera", &cameraBehavior{}))
	root.AddChild(ready("ship", &shipBehavior{speed: 2}))
	return root
}

func TestFind(t *testing.T) {
	root := lookupTree()
	n, err := Find(root, "ui/camera")
	if err != nil {
		t.Fatal(err)
	}
	if n.Name != "camera" {
		t.Errorf("Name = %q", n.Name)
	}

	if _, err := Find(root, "ui/missing"); !errors.Is(err, ErrNotFound) {
		t.Errorf("err = %v, want ErrNotFound", err)
	}
}

func TestGet(t *testing.T) {
	root := lookupTree()
	s, err := Get[*shipBehavior](root, "ship")
	if err != nil {
		t.Fatal(err)
	}
	if s.speed != 2 {
		t.Errorf("speed = %v, want 2", s.speed)
	}

	if _, err := Get[*shipBehavior](root, "ui/camera"); !errors.Is(err, ErrWrongType) {
		t.Errorf("err = %v, want ErrWrongType", err)
	}
	if _, err := Get[*shipBehavior](root, "nope"); !errors.Is(err, ErrNotFound) {
		t.Errorf("err = %v, want ErrNotFound", err)
	}
}

func TestGetInterface(t *testing.T) {
	root := ready("root", nil)
	root.AddChild(ready("p", &countingProcessor{}))
	if _, err := Get[Processor](root, "p"); err != nil {
		t.Errorf("Get[Processor]: %v", err)
	}
}

func TestMustGetPanics(t *testing.T) {
	root := lookupTree()
	assertPanics(t, func() { MustGet[*cameraBehavior](root, "ship") })
}
