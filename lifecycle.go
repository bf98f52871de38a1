package sprig

import (
	"context"
	"errors"
	"fmt"
	"reflect"
	"sync"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// --- Lifecycle hooks ---

// Preparer is implemented by behaviors whose kind (concrete Go type) needs
// shared resources before any instance can exist, such as an image atlas.
// Prepare runs at most once per kind per Runtime, on whichever instance is
// built first.
type Preparer interface {
	Prepare(ctx context.Context, res Resources) error
}

// Decl declares a default child of a Composite behavior.
type Decl struct {
	Name     string
	Behavior any
}

// Composite is implemented by behaviors that come with default children.
// The declared children are built and attached before the parent's Init runs.
type Composite interface {
	Tree() []Decl
}

// Initializer is implemented by behaviors with per-instance setup. Init runs
// after the declared children are attached and before the node is ready.
type Initializer interface {
	Init(ctx context.Context, n *Node) error
}

// Readier is implemented by behaviors that need to observe the node's final
// shape, e.g. to move a declared child somewhere else once everything exists.
// Ready runs once, synchronously, after every Init in the built subtree, so
// a declared child already sees its parent. Children are ready before their
// parents.
type Readier interface {
	Ready(n *Node)
}

// --- Kind table ---

type kindEntry struct {
	done chan struct{}
	err  error
}

// kindTable remembers which behavior kinds were prepared. It is the only
// state touched from more than one goroutine, while Build prepares kinds in
// parallel.
type kindTable struct {
	mu      sync.Mutex
	entries map[reflect.Type]*kindEntry
}

// prepareKind runs b's Prepare once for its concrete type. Concurrent callers
// for the same kind wait for the first; a failure is remembered and returned
// to every later caller. A Prepare that stops because its context ended is
// not remembered: the entry is dropped and waiters try again themselves.
func (rt *Runtime) prepareKind(ctx context.Context, b any) error {
	p, ok := b.(Preparer)
	if !ok {
		return nil
	}
	kind := reflect.TypeOf(b)

	for {
		if err := ctx.Err(); err != nil {
			return err
		}
		rt.kinds.mu.Lock()
		if rt.kinds.entries == nil {
			rt.kinds.entries = make(map[reflect.Type]*kindEntry)
		}
		e, found := rt.kinds.entries[kind]
		if !found {
			e = &kindEntry{done: make(chan struct{})}
			rt.kinds.entries[kind] = e
		}
		rt.kinds.mu.Unlock()

		if !found {
			return rt.runPrepare(ctx, kind, p, e)
		}
		select {
		case <-e.done:
			if !isContextErr(e.err) {
				return e.err
			}
		case <-ctx.Done():
			return ctx.Err()
		}
	}
}

func (rt *Runtime) runPrepare(ctx context.Context, kind reflect.Type, p Preparer, e *kindEntry) error {
	e.err = p.Prepare(ctx, rt.Resources)
	if isContextErr(e.err) {
		rt.kinds.mu.Lock()
		if rt.kinds.entries[kind] == e {
			delete(rt.kinds.entries, kind)
		}
		rt.kinds.mu.Unlock()
	}
	close(e.done)

	switch {
	case isContextErr(e.err):
		rt.log.Debug("prepare kind interrupted", zap.Stringer("kind", kind), zap.Error(e.err))
	case e.err != nil:
		rt.log.Error("prepare kind failed", zap.Stringer("kind", kind), zap.Error(e.err))
	default:
		rt.log.Debug("prepared kind", zap.Stringer("kind", kind))
	}
	return e.err
}

func isContextErr(err error) bool {
	return errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded)
}

// --- Build ---

// plan is a pending node with its declared children, resolved once so
// Tree is called a single time per instance.
type plan struct {
	node     *Node
	children []*plan
}

func newPlan(name string, behavior any) *plan {
	p := &plan{node: NewNode(name, behavior)}
	if c, ok := behavior.(Composite); ok {
		for _, d := range c.Tree() {
			p.children = append(p.children, newPlan(d.Name, d.Behavior))
		}
	}
	return p
}

// Build creates a node for behavior and runs its whole lifecycle: prepare
// every kind in the declared subtree, build and attach declared children
// with Init running children first, then Ready bottom-up over the attached
// subtree. The returned node is ready to be attached under a live
// root. On failure nothing is returned and every partially built node is
// disposed.
func (rt *Runtime) Build(ctx context.Context, name string, behavior any) (*Node, error) {
	p := newPlan(name, behavior)
	if err := rt.run(ctx, p); err != nil {
		return nil, err
	}
	return p.node, nil
}

// Instantiate runs the lifecycle for a node created with NewNode. Children
// declared by a Composite behavior are built as in Build. Panics if the node
// is not pending.
func (rt *Runtime) Instantiate(ctx context.Context, n *Node) error {
	if n.state != LifecyclePending {
		panic(fmt.Sprintf("sprig: node %q already instantiated (state %s)", n.Name, n.state))
	}
	p := &plan{node: n}
	if c, ok := n.Behavior.(Composite); ok {
		for _, d := range c.Tree() {
			p.children = append(p.children, newPlan(d.Name, d.Behavior))
		}
	}
	return rt.run(ctx, p)
}

func (rt *Runtime) run(ctx context.Context, p *plan) error {
	if err := rt.prepareAll(ctx, p); err != nil {
		markFailed(p)
		return err
	}
	if err := rt.instantiate(ctx, p); err != nil {
		return err
	}
	rt.ready(p)
	return nil
}

// prepareAll prepares every distinct kind in the plan in parallel.
func (rt *Runtime) prepareAll(ctx context.Context, root *plan) error {
	seen := make(map[reflect.Type]bool)
	var kinds []*plan
	var walk func(p *plan)
	walk = func(p *plan) {
		if _, ok := p.node.Behavior.(Preparer); ok {
			t := reflect.TypeOf(p.node.Behavior)
			if !seen[t] {
				seen[t] = true
				kinds = append(kinds, p)
			}
		}
		for _, c := range p.children {
			walk(c)
		}
	}
	walk(root)

	g, gctx := errgroup.WithContext(ctx)
	for _, k := range kinds {
		g.Go(func() error {
			if err := rt.prepareKind(gctx, k.node.Behavior); err != nil {
				return &HookError{Path: k.node.Name, Hook: "prepare", Err: err}
			}
			return nil
		})
	}
	return g.Wait()
}

// instantiate builds children first, attaches them, then runs Init. A node
// whose Init succeeded is ready for attaching, but its Ready hook waits for
// the ready pass over the finished subtree.
func (rt *Runtime) instantiate(ctx context.Context, p *plan) error {
	n := p.node
	fail := func(err error) error {
		n.state = LifecycleFailed
		for _, c := range p.children {
			if c.node.state == LifecyclePending {
				markFailed(c)
			}
		}
		n.dispose()
		rt.log.Error("instantiate failed", zap.String("node", n.Name), zap.Error(err))
		return err
	}

	for _, c := range p.children {
		if err := ctx.Err(); err != nil {
			return fail(err)
		}
		if err := rt.instantiate(ctx, c); err != nil {
			return fail(err)
		}
		n.AddChild(c.node)
	}

	if init, ok := n.Behavior.(Initializer); ok {
		if err := init.Init(ctx, n); err != nil {
			return fail(&HookError{Path: n.Path(), Hook: "init", Err: err})
		}
	}
	n.state = LifecycleReady
	return nil
}

// ready fires Ready hooks bottom-up over a fully attached subtree. It walks
// the plan rather than the live children, so a Ready hook that moves a
// declared child does not change which nodes get their hook.
func (rt *Runtime) ready(p *plan) {
	for _, c := range p.children {
		rt.ready(c)
	}
	n := p.node
	if r, ok := n.Behavior.(Readier); ok {
		r.Ready(n)
	}
	rt.log.Debug("node ready", zap.String("node", n.Path()), zap.Uint32("id", n.ID))
}

func markFailed(p *plan) {
	p.node.state = LifecycleFailed
	for _, c := range p.children {
		markFailed(c)
	}
}
