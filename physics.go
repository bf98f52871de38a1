package sprig

import (
	"math"
	"time"
)

// PhysicsBody is the integration state of a physics participant.
type PhysicsBody struct {
	Position        Vec2
	Velocity        Vec2
	Rotation        float64 // radians
	AngularVelocity float64 // radians per second

	// InvMass scales accumulated forces; 0 makes the body ignore forces
	// (gravity still applies unless GravityScale is 0).
	InvMass float64
	// GravityScale multiplies the System's gravity for this body.
	GravityScale float64
	// Damping removes this fraction of velocity per second, in [0, 1].
	Damping float64

	force Vec2
}

// NewPhysicsBody returns a body with unit mass and gravity.
func NewPhysicsBody() *PhysicsBody {
	return &PhysicsBody{InvMass: 1, GravityScale: 1}
}

// ApplyForce accumulates a force for the current step. Forces are cleared
// after each integration.
func (b *PhysicsBody) ApplyForce(f Vec2) {
	b.force = b.force.Add(f)
}

// Force returns the force accumulated so far this step.
func (b *PhysicsBody) Force() Vec2 {
	return b.force
}

// Body is the physics capability: the behavior exposes the body the
// PhysicsSystem integrates.
type Body interface {
	Body() *PhysicsBody
}

// PhysicsHook is implemented by physics participants that add forces or
// adjust velocity each step. It runs after gravity is applied and before
// the position is resolved.
type PhysicsHook interface {
	PhysicsProcess(dt time.Duration, b *PhysicsBody) error
}

// PhysicsSystem integrates every Body node once per frame. There is no
// collision handling; that is left to gameplay code.
type PhysicsSystem struct {
	pass[time.Duration]

	// Gravity is applied uniformly to every body, in units per second squared.
	Gravity Vec2
}

// NewPhysicsSystem creates a PhysicsSystem with zero gravity and no root.
func NewPhysicsSystem() *PhysicsSystem {
	s := &PhysicsSystem{}
	s.hook = "physics"
	s.has = func(b any) bool { _, ok := b.(Body); return ok }
	s.call = s.step
	return s
}

// Update runs one integration pass with the frame's elapsed time.
func (s *PhysicsSystem) Update(dt time.Duration) error {
	return s.update(dt)
}

// step integrates one body: field, then per-node forces and velocity, then
// position.
func (s *PhysicsSystem) step(n *Node, dt time.Duration) error {
	b := n.Behavior.(Body).Body()
	if b == nil {
		return nil
	}
	sec := dt.Seconds()

	b.Velocity = b.Velocity.Add(s.Gravity.Scale(b.GravityScale * sec))

	if h, ok := n.Behavior.(PhysicsHook); ok {
		if err := h.PhysicsProcess(dt, b); err != nil {
			b.force = Vec2{}
			return err
		}
	}

	b.Velocity = b.Velocity.Add(b.force.Scale(b.InvMass * sec))
	if b.Damping > 0 {
		b.Velocity = b.Velocity.Scale(math.Pow(1-math.Min(b.Damping, 1), sec))
	}
	b.force = Vec2{}

	b.Position = b.Position.Add(b.Velocity.Scale(sec))
	b.Rotation += b.AngularVelocity * sec
	return nil
}
