package sprig

import (
	"slices"
	"time"
)

// --- Capabilities ---

// Processor is implemented by behaviors that run per-frame logic.
type Processor interface {
	Process(dt time.Duration) error
}

// Renderer is implemented by behaviors that draw into the render target.
type Renderer interface {
	Render(target RenderTarget) error
}

// Controller is implemented by behaviors that poll input each frame.
type Controller interface {
	Control(dt time.Duration, in InputSource) error
}

// --- pass ---

// pass is the traversal shared by every System. It holds one root and a
// reusable buffer for the per-frame visit order.
type pass[A any] struct {
	hook string
	root *Node
	// call invokes the node's hook if its behavior has the capability.
	// has reports the capability without invoking anything.
	has  func(b any) bool
	call func(n *Node, arg A) error

	order []*Node
	depth int // passes in progress; nested ones get their own buffer
}

// AddRoot sets the subtree this System traverses, replacing any previous
// root. The tree itself is not modified.
func (p *pass[A]) AddRoot(n *Node) {
	p.root = n
}

// Root returns the current root, or nil.
func (p *pass[A]) Root() *Node {
	return p.root
}

// collect appends the active, ready nodes with the capability in pre-order.
// Inactive nodes prune their whole subtree.
func (p *pass[A]) collect(dst []*Node, n *Node) []*Node {
	if !n.Active || n.disposed || n.state != LifecycleReady {
		return dst
	}
	if n.Behavior != nil && p.has(n.Behavior) {
		dst = append(dst, n)
	}
	for _, c := range n.children {
		dst = p.collect(dst, c)
	}
	return dst
}

// visitOrder builds the snapshot for this frame into dst: tree-declaration
// order, then a stable sort by Priority so equal priorities keep
// declaration order.
func (p *pass[A]) visitOrder(dst []*Node) []*Node {
	if p.root != nil {
		dst = p.collect(dst, p.root)
	}
	slices.SortStableFunc(dst, func(a, b *Node) int {
		switch {
		case a.Priority < b.Priority:
			return -1
		case a.Priority > b.Priority:
			return 1
		}
		return 0
	})
	return dst
}

// update visits the snapshot. Hooks may change the tree; the snapshot is not
// recomputed, so nodes added this pass run next frame and nodes detached
// this pass still run now. Nodes disposed earlier in the pass are skipped.
// The first error stops the pass. A hook may run the same System again; the
// nested pass takes its own snapshot and leaves the outer one intact.
func (p *pass[A]) update(arg A) error {
	var order []*Node
	if p.depth == 0 {
		clear(p.order)
		p.order = p.visitOrder(p.order[:0])
		order = p.order
	} else {
		order = p.visitOrder(nil)
	}
	p.depth++
	defer func() { p.depth-- }()

	for _, n := range order {
		if n.disposed {
			continue
		}
		if err := p.call(n, arg); err != nil {
			return &HookError{Path: n.Path(), Hook: p.hook, Err: err}
		}
	}
	return nil
}

// --- Process ---

// ProcessSystem calls Process on every Processor node once per frame.
type ProcessSystem struct {
	pass[time.Duration]
}

// NewProcessSystem creates a ProcessSystem with no root.
func NewProcessSystem() *ProcessSystem {
	s := &ProcessSystem{}
	s.hook = "process"
	s.has = func(b any) bool { _, ok := b.(Processor); return ok }
	s.call = func(n *Node, dt time.Duration) error { return n.Behavior.(Processor).Process(dt) }
	return s
}

// Update runs one pass with the frame's elapsed time.
func (s *ProcessSystem) Update(dt time.Duration) error {
	return s.update(dt)
}

// --- Render ---

// RenderSystem calls Render on every Renderer node once per frame.
type RenderSystem struct {
	pass[RenderTarget]
}

// NewRenderSystem creates a RenderSystem with no root.
func NewRenderSystem() *RenderSystem {
	s := &RenderSystem{}
	s.hook = "render"
	s.has = func(b any) bool { _, ok := b.(Renderer); return ok }
	s.call = func(n *Node, t RenderTarget) error { return n.Behavior.(Renderer).Render(t) }
	return s
}

// Update runs one pass against target.
func (s *RenderSystem) Update(target RenderTarget) error {
	return s.update(target)
}

// --- Controllers ---

// ControllersSystem calls Control on every Controller node once per frame,
// handing each the same InputSource. Input is polled by the nodes, never
// pushed.
type ControllersSystem struct {
	pass[time.Duration]
	input InputSource
}

// NewControllersSystem creates a ControllersSystem reading from in.
func NewControllersSystem(in InputSource) *ControllersSystem {
	s := &ControllersSystem{input: in}
	s.hook = "control"
	s.has = func(b any) bool { _, ok := b.(Controller); return ok }
	s.call = func(n *Node, dt time.Duration) error { return n.Behavior.(Controller).Control(dt, s.input) }
	return s
}

// Input returns the source handed to Control hooks.
func (s *ControllersSystem) Input() InputSource {
	return s.input
}

// SetInput replaces the input source.
func (s *ControllersSystem) SetInput(in InputSource) {
	s.input = in
}

// Update runs one pass with the frame's elapsed time.
func (s *ControllersSystem) Update(dt time.Duration) error {
	return s.update(dt)
}
