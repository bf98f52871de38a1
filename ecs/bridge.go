package ecs

import (
	"time"

	"github.com/phanxgames/sprig"

	"github.com/yohamta/donburi"
	"github.com/yohamta/donburi/features/events"
	"github.com/yohamta/donburi/filter"
)

// FrameEvent is published into the world once per Runtime frame.
type FrameEvent struct {
	Frame uint64
	DT    time.Duration
}

// FrameEventType is the Donburi event type for frame ticks. Subscribe to it
// in ECS systems that should advance with the scene tree.
var FrameEventType = events.NewEventType[FrameEvent]()

// NodeData links an entity to a scene node.
type NodeData struct {
	Node *sprig.Node
}

// NodeRef is the component holding a NodeData.
var NodeRef = donburi.NewComponentType[NodeData]()

// Bridge mirrors scene nodes as entities in a Donburi world and forwards
// frame ticks as FrameEvents.
type Bridge struct {
	world   donburi.World
	query   *donburi.Query
	tracked map[*sprig.Node]donburi.Entity
	stale   []*sprig.Node
}

// NewBridge creates a bridge publishing into world.
func NewBridge(world donburi.World) *Bridge {
	return &Bridge{
		world:   world,
		query:   donburi.NewQuery(filter.Contains(NodeRef)),
		tracked: make(map[*sprig.Node]donburi.Entity),
	}
}

// World returns the bridged world.
func (b *Bridge) World() donburi.World {
	return b.world
}

// Attach registers the bridge on rt's process channel at PriorityDefault,
// after the Systems have run. Each frame it drops entities whose node was
// disposed, publishes a FrameEvent and processes queued events.
func (b *Bridge) Attach(rt *sprig.Runtime) sprig.Handle {
	return rt.OnProcess(func(dt time.Duration) error {
		b.Sync()
		FrameEventType.Publish(b.world, FrameEvent{Frame: rt.FrameCount(), DT: dt})
		FrameEventType.ProcessEvents(b.world)
		return nil
	}, sprig.PriorityDefault)
}

// Track creates an entity for n, or returns the existing one.
func (b *Bridge) Track(n *sprig.Node) donburi.Entity {
	if e, ok := b.tracked[n]; ok {
		return e
	}
	e := b.world.Create(NodeRef)
	NodeRef.SetValue(b.world.Entry(e), NodeData{Node: n})
	b.tracked[n] = e
	return e
}

// Untrack removes n's entity. Untracking an unknown node is a no-op.
func (b *Bridge) Untrack(n *sprig.Node) {
	e, ok := b.tracked[n]
	if !ok {
		return
	}
	delete(b.tracked, n)
	if b.world.Valid(e) {
		b.world.Remove(e)
	}
}

// Entity returns the entity tracking n.
func (b *Bridge) Entity(n *sprig.Node) (donburi.Entity, bool) {
	e, ok := b.tracked[n]
	return e, ok
}

// Len returns the number of tracked nodes.
func (b *Bridge) Len() int {
	return len(b.tracked)
}

// Sync removes the entities of disposed nodes.
func (b *Bridge) Sync() {
	b.stale = b.stale[:0]
	b.query.Each(b.world, func(entry *donburi.Entry) {
		if n := NodeRef.Get(entry).Node; n == nil || n.IsDisposed() {
			b.stale = append(b.stale, n)
		}
	})
	for _, n := range b.stale {
		b.Untrack(n)
	}
}
