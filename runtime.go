package sprig

import (
	"context"
	"fmt"
	"os"
	"time"

	"go.uber.org/zap"
)

// Options configures a Runtime. Zero fields get defaults.
type Options struct {
	Config    *Config         // DefaultConfig() if nil
	Logger    *zap.Logger     // zap.NewNop() if nil
	Input     InputSource     // an empty InjectedInput if nil
	Resources Resources       // files under the working directory if nil
	Audio     AudioController // optional
}

// Runtime is the context every component of a running game shares: the
// channels, the four Systems, the animation registry and the collaborators
// nodes use. Create one at startup and pass it where it is needed; there is
// no package-level state.
type Runtime struct {
	Bus         *Bus
	Process     *ProcessSystem
	Render      *RenderSystem
	Controllers *ControllersSystem
	Physics     *PhysicsSystem
	Animations  *AnimationManager

	Resources Resources
	Audio     AudioController

	cfg     *Config
	log     *zap.Logger
	debug   bool
	kinds   kindTable
	root    *Node
	handles []Handle
	replay  *Replay
	frame   uint64
	stats   debugStats
}

// New creates a Runtime and wires the Systems and the AnimationManager to
// the bus: controllers, process and physics on the process channel (in that
// order, before gameplay listeners at PriorityDefault), animations at
// PriorityAnimation, and the render system on the render channel. A config
// that fails validation is copied with the bad fields reset to defaults.
func New(opts Options) *Runtime {
	cfg := opts.Config
	if cfg == nil {
		cfg = DefaultConfig()
	}
	log := opts.Logger
	if log == nil {
		log = zap.NewNop()
	}
	in := opts.Input
	if in == nil {
		in = NewInjectedInput()
	}
	res := opts.Resources
	if res == nil {
		res = NewFSResources(os.DirFS("."))
	}
	if err := cfg.validate(); err != nil {
		log.Warn("invalid config, using defaults for bad fields", zap.Error(err))
		cfg = cfg.withDefaults()
	}

	rt := &Runtime{
		Bus:         NewBus(),
		Process:     NewProcessSystem(),
		Render:      NewRenderSystem(),
		Controllers: NewControllersSystem(in),
		Physics:     NewPhysicsSystem(),
		Animations:  NewAnimationManager(),
		Resources:   res,
		Audio:       opts.Audio,
		cfg:         cfg,
		log:         log,
		debug:       cfg.Debug,
	}
	rt.Physics.Gravity = cfg.Gravity()

	rt.handles = append(rt.handles,
		rt.Bus.Process.On(timed(rt, &rt.stats.controllers, rt.Controllers.Update), PriorityControllers),
		rt.Bus.Process.On(timed(rt, &rt.stats.process, rt.Process.Update), PriorityProcess),
		rt.Bus.Process.On(timed(rt, &rt.stats.physics, rt.Physics.Update), PriorityPhysics),
		rt.Bus.Process.On(timed(rt, &rt.stats.animation, func(dt time.Duration) error {
			rt.Animations.Tick(dt)
			return nil
		}), PriorityAnimation),
		rt.Bus.Render.On(timed(rt, &rt.stats.render, rt.Render.Update), PriorityDefault),
	)
	return rt
}

// Config returns the runtime configuration.
func (rt *Runtime) Config() *Config {
	return rt.cfg
}

// Logger returns the runtime logger.
func (rt *Runtime) Logger() *zap.Logger {
	return rt.log
}

// Input returns the source handed to Controller hooks.
func (rt *Runtime) Input() InputSource {
	return rt.Controllers.Input()
}

// SetDebugMode enables or disables per-frame timing logs and tree-shape
// warnings.
func (rt *Runtime) SetDebugMode(enabled bool) {
	rt.debug = enabled
}

// SetReplay attaches a replay. Its steps are applied at the start of every
// Frame, before input is polled. The replay's input becomes the Controllers
// input.
func (rt *Runtime) SetReplay(r *Replay) {
	rt.replay = r
	if r != nil {
		rt.Controllers.SetInput(r.Input())
	}
}

// Start builds the root node from behavior and makes it the root of every
// System. On a lifecycle failure nothing is attached and the error is
// returned.
func (rt *Runtime) Start(ctx context.Context, name string, behavior any) (*Node, error) {
	root, err := rt.Build(ctx, name, behavior)
	if err != nil {
		return nil, fmt.Errorf("start %s: %w", name, err)
	}
	rt.SetRoot(root)
	rt.log.Info("runtime started", zap.String("root", name))
	return root, nil
}

// SetRoot points every System at n. Panics if n is not ready.
func (rt *Runtime) SetRoot(n *Node) {
	if n == nil || n.state != LifecycleReady {
		panic("sprig: root must be an instantiated node")
	}
	rt.root = n
	rt.Process.AddRoot(n)
	rt.Render.AddRoot(n)
	rt.Controllers.AddRoot(n)
	rt.Physics.AddRoot(n)
}

// Root returns the current root, or nil before Start.
func (rt *Runtime) Root() *Node {
	return rt.root
}

// OnProcess registers a gameplay listener on the process channel.
func (rt *Runtime) OnProcess(fn func(dt time.Duration) error, priority int) Handle {
	return rt.Bus.Process.On(fn, priority)
}

// OnRender registers a draw listener on the render channel.
func (rt *Runtime) OnRender(fn func(RenderTarget) error, priority int) Handle {
	return rt.Bus.Render.On(fn, priority)
}

// Frame advances the game by dt: applies the replay, polls input, then fires
// the process channel. A listener error aborts the rest of the frame's logic
// and is returned.
func (rt *Runtime) Frame(dt time.Duration) error {
	rt.frame++
	if rt.replay != nil {
		rt.replay.step()
	}
	if p, ok := rt.Controllers.Input().(Poller); ok {
		p.Poll()
	}
	if rt.debug && rt.root != nil {
		debugCheckTree(rt.log, rt.root)
	}

	if err := rt.Bus.Process.Fire(dt); err != nil {
		rt.log.Error("frame failed", zap.Uint64("frame", rt.frame), zap.Error(err))
		return err
	}
	return nil
}

// Draw fires the render channel with target.
func (rt *Runtime) Draw(target RenderTarget) error {
	if err := rt.Bus.Render.Fire(target); err != nil {
		rt.log.Error("draw failed", zap.Uint64("frame", rt.frame), zap.Error(err))
		return err
	}
	if rt.debug {
		rt.debugLog()
	}
	return nil
}

// FrameCount returns the number of frames run so far.
func (rt *Runtime) FrameCount() uint64 {
	return rt.frame
}

// Close unregisters the runtime's own listeners and disposes the root.
func (rt *Runtime) Close() {
	for _, h := range rt.handles {
		h.Remove()
	}
	rt.handles = nil
	if rt.root != nil {
		rt.root.Dispose()
		rt.root = nil
	}
	_ = rt.log.Sync()
}
