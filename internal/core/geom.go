// Package core provides the small value types shared by the hexfall engine and
// its platforms: vector math, the colored screen buffer, runtime settings and
// input actions. It has no external dependencies (especially no Bubble Tea) so
// the engine stays pure and testable.
package core

import "math"

// Vec2 is a point or direction in board space. X grows to the right, Y grows
// upwards, one unit equals the width of a hex piece.
type Vec2 struct {
	X, Y float64
}

// V is shorthand for constructing a Vec2.
func V(x, y float64) Vec2 {
	return Vec2{X: x, Y: y}
}

// Add returns v + o.
func (v Vec2) Add(o Vec2) Vec2 {
	return Vec2{X: v.X + o.X, Y: v.Y + o.Y}
}

// Sub returns v - o.
func (v Vec2) Sub(o Vec2) Vec2 {
	return Vec2{X: v.X - o.X, Y: v.Y - o.Y}
}

// Scale multiplies both components by f.
func (v Vec2) Scale(f float64) Vec2 {
	return Vec2{X: v.X * f, Y: v.Y * f}
}

// LenSq returns the squared length, which is all distance comparisons need.
func (v Vec2) LenSq() float64 {
	return v.X*v.X + v.Y*v.Y
}

// Len returns the euclidean length.
func (v Vec2) Len() float64 {
	return math.Sqrt(v.LenSq())
}

// Rotate turns v counterclockwise around the origin by deg degrees.
func (v Vec2) Rotate(deg float64) Vec2 {
	rad := deg * math.Pi / 180
	sin, cos := math.Sincos(rad)
	return Vec2{X: v.X*cos - v.Y*sin, Y: v.X*sin + v.Y*cos}
}

// RotateAround turns v around pivot by deg degrees (counterclockwise positive).
func (v Vec2) RotateAround(pivot Vec2, deg float64) Vec2 {
	return v.Sub(pivot).Rotate(deg).Add(pivot)
}

// Lerp interpolates from a to b; t is clamped to [0, 1].
func Lerp(a, b Vec2, t float64) Vec2 {
	t = ClampF(t, 0, 1)
	return Vec2{X: a.X + (b.X-a.X)*t, Y: a.Y + (b.Y-a.Y)*t}
}

// MoveTowards steps from current to target by at most maxDelta.
func MoveTowards(current, target Vec2, maxDelta float64) Vec2 {
	d := target.Sub(current)
	dist := d.Len()
	if dist <= maxDelta || dist == 0 {
		return target
	}
	return current.Add(d.Scale(maxDelta / dist))
}

// SignedAngle returns the angle in degrees needed to turn from onto to.
// Counterclockwise turns are positive, clockwise turns negative.
func SignedAngle(from, to Vec2) float64 {
	cross := from.X*to.Y - from.Y*to.X
	dot := from.X*to.X + from.Y*to.Y
	return math.Atan2(cross, dot) * 180 / math.Pi
}

// Rect is an integer axis-aligned box in screen cells.
type Rect struct {
	X, Y int // Top-left corner
	W, H int
}

// NewRect creates a new rectangle with the given position and dimensions.
func NewRect(x, y, w, h int) Rect {
	return Rect{X: x, Y: y, W: w, H: h}
}

// Right returns the exclusive right edge.
func (r Rect) Right() int {
	return r.X + r.W
}

// Bottom returns the exclusive bottom edge.
func (r Rect) Bottom() int {
	return r.Y + r.H
}

// Contains reports whether the cell (x, y) lies inside the rectangle.
func (r Rect) Contains(x, y int) bool {
	return x >= r.X && x < r.Right() && y >= r.Y && y < r.Bottom()
}

// Clamp restricts a value to be within [min, max].
func Clamp(val, min, max int) int {
	if val < min {
		return min
	}
	if val > max {
		return max
	}
	return val
}

// ClampF restricts a float64 value to be within [min, max].
func ClampF(val, min, max float64) float64 {
	if val < min {
		return min
	}
	if val > max {
		return max
	}
	return val
}

// Abs returns the absolute value of an integer.
func Abs(x int) int {
	if x < 0 {
		return -x
	}
	return x
}
