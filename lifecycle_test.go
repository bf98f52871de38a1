package sprig

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"
)

// hookLogger records lifecycle events into a shared log.
type hookLogger struct {
	name     string
	log      *[]string
	children []Decl
	initErr  error

	childrenAtInit int
}

func (p *hookLogger) Tree() []Decl { return p.children }

func (p *hookLogger) Init(_ context.Context, n *Node) error {
	*p.log = append(*p.log, "init "+p.name)
	p.childrenAtInit = n.NumChildren()
	return p.initErr
}

func (p *hookLogger) Ready(*Node) { *p.log = append(*p.log, "ready "+p.name) }

func (p *hookLogger) Dispose() { *p.log = append(*p.log, "dispose "+p.name) }

// atlasUser counts Prepare calls for its kind.
type atlasUser struct {
	prepared *atomic.Int32
	res      *Resources
	err      error
}

func (a *atlasUser) Prepare(_ context.Context, res Resources) error {
	a.prepared.Add(1)
	if a.res != nil {
		*a.res = res
	}
	return a.err
}

// otherKind is a second preparable kind.
type otherKind struct{ prepared *atomic.Int32 }

func (o *otherKind) Prepare(context.Context, Resources) error {
	o.prepared.Add(1)
	return nil
}

func TestBuildOrder(t *testing.T) {
	rt := newTestRuntime(t)
	var log []string
	root := &hookLogger{name: "root", log: &log, children: []Decl{
		{Name: "a", Behavior: &hookLogger{name: "a", log: &log}},
		{Name: "b", Behavior: &hookLogger{name: "b", log: &log}},
	}}

	n, err := rt.Build(t.Context(), "root", root)
	if err != nil {
		t.Fatal(err)
	}
	want := []string{"init a", "init b", "init root", "ready a", "ready b", "ready root"}
	if !equalStrings(log, want) {
		t.Errorf("log = %v, want %v", log, want)
	}
	if root.childrenAtInit != 2 {
		t.Errorf("children at Init = %d, want 2", root.childrenAtInit)
	}
	if !n.IsReady() || !n.ChildByName("a").IsReady() {
		t.Error("built nodes should be ready")
	}
	if n.ChildAt(0).Name != "a" || n.ChildAt(1).Name != "b" {
		t.Error("declared children out of order")
	}
}

func TestBuildNilBehavior(t *testing.T) {
	rt := newTestRuntime(t)
	n, err := rt.Build(t.Context(), "group", nil)
	if err != nil || !n.IsReady() {
		t.Errorf("Build(nil) = %v, %v", n, err)
	}
}

func TestPrepareOncePerKind(t *testing.T) {
	rt := newTestRuntime(t)
	var count, other atomic.Int32
	var got Resources
	root := &hookLogger{name: "root", log: new([]string), children: []Decl{
		{Name: "a", Behavior: &atlasUser{prepared: &count, res: &got}},
		{Name: "b", Behavior: &atlasUser{prepared: &count, res: &got}},
		{Name: "c", Behavior: &otherKind{prepared: &other}},
	}}
	if _, err := rt.Build(t.Context(), "root", root); err != nil {
		t.Fatal(err)
	}
	if _, err := rt.Build(t.Context(), "late", &atlasUser{prepared: &count}); err != nil {
		t.Fatal(err)
	}

	if count.Load() != 1 {
		t.Errorf("atlasUser prepared %d times, want 1", count.Load())
	}
	if other.Load() != 1 {
		t.Errorf("otherKind prepared %d times, want 1", other.Load())
	}
	if got != rt.Resources {
		t.Error("Prepare should receive the runtime resources")
	}
}

func TestPrepareIsPerRuntime(t *testing.T) {
	var count atomic.Int32
	for range 2 {
		rt := newTestRuntime(t)
		if _, err := rt.Build(t.Context(), "n", &atlasUser{prepared: &count}); err != nil {
			t.Fatal(err)
		}
	}
	if count.Load() != 2 {
		t.Errorf("prepared %d times across two runtimes, want 2", count.Load())
	}
}

func TestPrepareFailureIsRemembered(t *testing.T) {
	rt := newTestRuntime(t)
	boom := errors.New("missing atlas")
	var count atomic.Int32

	n, err := rt.Build(t.Context(), "n", &atlasUser{prepared: &count, err: boom})
	if n != nil || !errors.Is(err, boom) {
		t.Fatalf("Build = %v, %v", n, err)
	}
	var he *HookError
	if !errors.As(err, &he) || he.Hook != "prepare" {
		t.Errorf("err = %v, want prepare HookError", err)
	}

	_, err = rt.Build(t.Context(), "again", &atlasUser{prepared: &count})
	if !errors.Is(err, boom) {
		t.Errorf("second Build err = %v, want remembered failure", err)
	}
	if count.Load() != 1 {
		t.Errorf("Prepare ran %d times, want 1", count.Load())
	}
}

func TestInitFailureDisposesPartialTree(t *testing.T) {
	rt := newTestRuntime(t)
	boom := errors.New("boom")
	var log []string
	a := &hookLogger{name: "a", log: &log}
	b := &hookLogger{name: "b", log: &log, initErr: boom}
	c := &hookLogger{name: "c", log: &log}
	root := &hookLogger{name: "root", log: &log, children: []Decl{
		{Name: "a", Behavior: a},
		{Name: "b", Behavior: b},
		{Name: "c", Behavior: c},
	}}

	n, err := rt.Build(t.Context(), "root", root)
	if n != nil {
		t.Error("failed Build should return no node")
	}
	if !errors.Is(err, boom) {
		t.Fatalf("err = %v, want boom", err)
	}
	var he *HookError
	if !errors.As(err, &he) || he.Hook != "init" || he.Path != "b" {
		t.Errorf("HookError = %+v", he)
	}
	// a finished Init, so it is disposed; b and c never did. No Ready hook
	// runs for a subtree that failed to build.
	want := []string{"init a", "init b", "dispose a"}
	if !equalStrings(log, want) {
		t.Errorf("log = %v, want %v", log, want)
	}
}

func TestInstantiate(t *testing.T) {
	rt := newTestRuntime(t)
	var log []string
	n := NewNode("n", &hookLogger{name: "n", log: &log})
	if err := rt.Instantiate(t.Context(), n); err != nil {
		t.Fatal(err)
	}
	if !n.IsReady() {
		t.Error("node should be ready")
	}
	assertPanics(t, func() { _ = rt.Instantiate(t.Context(), n) })
}

func TestInstantiateFailureMarksFailed(t *testing.T) {
	rt := newTestRuntime(t)
	n := NewNode("n", &hookLogger{name: "n", log: new([]string), initErr: errors.New("no")})
	if err := rt.Instantiate(t.Context(), n); err == nil {
		t.Fatal("expected error")
	}
	if n.State() != LifecycleFailed {
		t.Errorf("state = %s, want failed", n.State())
	}
	assertPanics(t, func() { ready("p", nil).AddChild(n) })
}

func TestBuildCanceled(t *testing.T) {
	rt := newTestRuntime(t)
	ctx, cancel := context.WithCancel(t.Context())
	cancel()
	root := &hookLogger{name: "root", log: new([]string), children: []Decl{
		{Name: "a", Behavior: &hookLogger{name: "a", log: new([]string)}},
	}}
	if _, err := rt.Build(ctx, "root", root); !errors.Is(err, context.Canceled) {
		t.Errorf("err = %v, want context.Canceled", err)
	}
}

// reparenter moves its "widget" child under "holder" once ready.
type reparenter struct{}

func (reparenter) Tree() []Decl {
	return []Decl{{Name: "holder"}, {Name: "widget"}}
}

func (reparenter) Ready(n *Node) {
	n.ChildByName("holder").AddChild(n.RemoveChildNamed("widget", true))
}

func TestReadyCanReparentChildren(t *testing.T) {
	rt := newTestRuntime(t)
	n, err := rt.Build(t.Context(), "scene", reparenter{})
	if err != nil {
		t.Fatal(err)
	}
	w, err := Find(n, "holder/widget")
	if err != nil {
		t.Fatal(err)
	}
	if w.Path() != "scene/holder/widget" {
		t.Errorf("Path = %q", w.Path())
	}
}

// parentWatcher records the parent its node has when Ready fires.
type parentWatcher struct{ parent **Node }

func (w parentWatcher) Ready(n *Node) { *w.parent = n.Parent }

type watchedScene struct{ kid parentWatcher }

func (s watchedScene) Tree() []Decl { return []Decl{{Name: "kid", Behavior: s.kid}} }

func TestDeclaredChildReadySeesParent(t *testing.T) {
	rt := newTestRuntime(t)
	var seen *Node
	n, err := rt.Build(t.Context(), "scene", watchedScene{kid: parentWatcher{parent: &seen}})
	if err != nil {
		t.Fatal(err)
	}
	if seen != n {
		t.Errorf("child Ready saw parent %v, want %q", seen, n.Name)
	}
}

// brokenKind always fails to prepare, after waiting for after when set.
type brokenKind struct{ after chan struct{} }

func (k brokenKind) Prepare(context.Context, Resources) error {
	if k.after != nil {
		<-k.after
	}
	return errors.New("bad atlas")
}

// patientKind blocks in Prepare until its context ends when started is set.
type patientKind struct {
	started  chan struct{}
	prepared *atomic.Int32
}

func (k patientKind) Prepare(ctx context.Context, _ Resources) error {
	k.prepared.Add(1)
	if k.started == nil {
		return nil
	}
	close(k.started)
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-time.After(5 * time.Second):
		return errors.New("sibling failure did not cancel prepare")
	}
}

type pairScene struct {
	broken  brokenKind
	patient patientKind
}

func (s pairScene) Tree() []Decl {
	return []Decl{
		{Name: "broken", Behavior: s.broken},
		{Name: "patient", Behavior: s.patient},
	}
}

func TestInterruptedPrepareIsRetried(t *testing.T) {
	rt := newTestRuntime(t)
	var count atomic.Int32

	started := make(chan struct{})
	scene := pairScene{
		broken:  brokenKind{after: started},
		patient: patientKind{started: started, prepared: &count},
	}
	_, err := rt.Build(t.Context(), "scene", scene)
	var he *HookError
	if !errors.As(err, &he) || he.Path != "broken" {
		t.Fatalf("err = %v, want prepare failure of broken", err)
	}

	if _, err := rt.Build(t.Context(), "solo", patientKind{prepared: &count}); err != nil {
		t.Fatalf("kind interrupted by a sibling failure should prepare again: %v", err)
	}
	if count.Load() != 2 {
		t.Errorf("Prepare ran %d times, want 2", count.Load())
	}

	ctx, cancel := context.WithCancel(t.Context())
	cancel()
	if _, err := rt.Build(ctx, "late", brokenKind{}); !errors.Is(err, context.Canceled) {
		t.Errorf("canceled Build err = %v, want context.Canceled", err)
	}
	if _, err := rt.Build(t.Context(), "again", brokenKind{}); err == nil || errors.Is(err, context.Canceled) {
		t.Errorf("err = %v, want the remembered prepare failure", err)
	}
}
