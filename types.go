package sprig

import "math"

// Vec2 is a 2D vector used for positions, velocities, forces and sizes
// throughout the API.
type Vec2 struct {
	X, Y float64
}

// Add returns v + o.
func (v Vec2) Add(o Vec2) Vec2 { return Vec2{v.X + o.X, v.Y + o.Y} }

// Sub returns v - o.
func (v Vec2) Sub(o Vec2) Vec2 { return Vec2{v.X - o.X, v.Y - o.Y} }

// Scale returns v multiplied by s.
func (v Vec2) Scale(s float64) Vec2 { return Vec2{v.X * s, v.Y * s} }

// Len returns the Euclidean length of v.
func (v Vec2) Len() float64 { return math.Hypot(v.X, v.Y) }

// Distance returns the distance between v and o.
func (v Vec2) Distance(o Vec2) float64 { return v.Sub(o).Len() }

// MoveTime moves v towards target by 1/div of the remaining gap. Repeated
// every frame it gives an exponential ease-out. A div <= 1 snaps to target.
func (v Vec2) MoveTime(target Vec2, div float64) Vec2 {
	if div <= 1 {
		return target
	}
	return v.Add(target.Sub(v).Scale(1 / div))
}

// MoveAngle returns v moved by length along angle (radians, clockwise from +X).
func (v Vec2) MoveAngle(length, angle float64) Vec2 {
	return Vec2{v.X + length*math.Cos(angle), v.Y + length*math.Sin(angle)}
}

// Rect is an axis-aligned rectangle. The coordinate system has its origin at
// the top-left, with Y increasing downward.
type Rect struct {
	X, Y, Width, Height float64
}

// Contains reports whether the point (x, y) lies inside the rectangle.
// Points on the edge are considered inside.
func (r Rect) Contains(x, y float64) bool {
	return x >= r.X && x <= r.X+r.Width &&
		y >= r.Y && y <= r.Y+r.Height
}

// Size returns the rectangle's width and height as a vector.
func (r Rect) Size() Vec2 {
	return Vec2{r.Width, r.Height}
}
