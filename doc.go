// Package sprig is a frame-driven scene runtime for [Ebitengine].
//
// Sprig maintains a tree of [Node] values, drives that tree once per frame
// through independent Systems (controllers, process, physics, render), and
// lets gameplay code express multi-step timed behaviors as resumable step
// sequences.
//
// # Quick start
//
// Everything hangs off a [Runtime]. [Run] opens a window and drives it:
//
//	rt := sprig.New(sprig.Options{Config: cfg, Logger: log})
//	if _, err := rt.Start(ctx, "root", &Level{}); err != nil {
//		log.Fatal("start", zap.Error(err))
//	}
//	if err := sprig.Run(rt); err != nil {
//		log.Fatal("run", zap.Error(err))
//	}
//
// For full control, implement [ebiten.Game] yourself and call
// [Runtime.Frame] and [Runtime.Draw] directly, or use [NewGame].
//
// # Behaviors and capabilities
//
// A node's behavior is any Go value. What the Systems do with it depends on
// the interfaces it implements: [Processor], [Renderer], [Controller] and
// [Body] opt into the matching System. [Preparer], [Composite],
// [Initializer], [Readier] and [Disposer] hook into the lifecycle.
//
// Nodes are built with [Runtime.Build]: every behavior kind in the subtree
// is prepared once, declared children are built and attached, then Init and
// Ready run, children before parents. Only ready nodes may be attached under
// a live tree.
//
// # Ordering
//
// Each System visits the active, ready nodes under its root in ascending
// [Node.Priority]; equal priorities keep tree order. An inactive node hides
// its whole subtree. Channel listeners also fire in ascending priority, so
// the Runtime runs controllers, process and physics before gameplay
// listeners at [PriorityDefault], and animations after them.
//
// # Step sequences
//
// An [Animation] runs a chain of [Step] functions, each returning how long
// to wait before the next. Waits are paid from the time fed to Tick, so no
// simulated time is lost when a frame overshoots a wait:
//
//	blink := sprig.NewAnimation(func(n *sprig.Node) (sprig.Yield[*sprig.Node], error) {
//		n.Active = !n.Active
//		return sprig.Then(250*time.Millisecond, nil), nil
//	})
//	rt.Animations.Add(blink)
//	blink.Run(node)
//
// Tweens from [gween] plug in as steps through [TweenStep] or run standalone
// as a [TweenGroup].
//
// [Ebitengine]: https://ebitengine.org
// [gween]: https://github.com/tanema/gween
package sprig
