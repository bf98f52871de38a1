package sprig

import (
	"time"

	"go.uber.org/zap"
)

// debugStats holds the last frame's per-listener timings.
// Only populated when the Runtime is in debug mode.
type debugStats struct {
	controllers time.Duration
	process     time.Duration
	physics     time.Duration
	animation   time.Duration
	render      time.Duration
}

// timed wraps a runtime listener so its duration lands in *slot when debug
// mode is on.
func timed[A any](rt *Runtime, slot *time.Duration, fn func(A) error) func(A) error {
	return func(arg A) error {
		if !rt.debug {
			return fn(arg)
		}
		t0 := time.Now()
		err := fn(arg)
		*slot = time.Since(t0)
		return err
	}
}

// debugLog writes the last frame's timings.
func (rt *Runtime) debugLog() {
	s := rt.stats
	rt.log.Debug("frame",
		zap.Uint64("frame", rt.frame),
		zap.Duration("controllers", s.controllers),
		zap.Duration("process", s.process),
		zap.Duration("physics", s.physics),
		zap.Duration("animation", s.animation),
		zap.Duration("render", s.render),
		zap.Duration("total", s.controllers+s.process+s.physics+s.animation+s.render),
	)
}

const (
	debugMaxTreeDepth  = 32
	debugMaxChildCount = 1000
)

// debugCheckTree warns when the tree is deeper than debugMaxTreeDepth or a
// node has more than debugMaxChildCount children.
func debugCheckTree(log *zap.Logger, root *Node) {
	var walk func(n *Node, depth int)
	walk = func(n *Node, depth int) {
		if depth == debugMaxTreeDepth+1 {
			log.Warn("tree depth exceeds threshold",
				zap.String("node", n.Path()), zap.Int("threshold", debugMaxTreeDepth))
		}
		if len(n.children) > debugMaxChildCount {
			log.Warn("node has too many children",
				zap.String("node", n.Path()), zap.Int("children", len(n.children)),
				zap.Int("threshold", debugMaxChildCount))
		}
		for _, c := range n.children {
			walk(c, depth+1)
		}
	}
	walk(root, 1)
}
