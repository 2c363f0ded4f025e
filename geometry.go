package ink

import "math"

// Point is a position in stroke space.
//
// Stroke space is an arbitrary per-stroke coordinate system chosen by the
// host; the pipeline never assumes a particular scale or orientation beyond
// what a StrokeInput's unit length declares.
type Point struct {
	X, Y float32
}

// Pt is a convenience function to create a Point.
func Pt(x, y float32) Point {
	return Point{X: x, Y: y}
}

// Add returns the point translated by v.
func (p Point) Add(v Vec2) Point {
	return Point{X: p.X + v.X, Y: p.Y + v.Y}
}

// Sub returns the vector from q to p.
func (p Point) Sub(q Point) Vec2 {
	return Vec2{X: p.X - q.X, Y: p.Y - q.Y}
}

// Distance returns the distance between two points.
func (p Point) Distance(q Point) float32 {
	return p.Sub(q).Length()
}

// Lerp performs linear interpolation between two points.
// t=0 returns p, t=1 returns q; values outside [0,1] extrapolate linearly.
func (p Point) Lerp(q Point, t float32) Point {
	return Point{
		X: p.X + (q.X-p.X)*t,
		Y: p.Y + (q.Y-p.Y)*t,
	}
}

// Vec2 is a 2D vector in stroke space, used for velocities, accelerations
// and offsets.
type Vec2 struct {
	X, Y float32
}

// V2 is a convenience function to create a Vec2.
func V2(x, y float32) Vec2 {
	return Vec2{X: x, Y: y}
}

// Add returns the sum of two vectors.
func (v Vec2) Add(w Vec2) Vec2 {
	return Vec2{X: v.X + w.X, Y: v.Y + w.Y}
}

// Sub returns the difference of two vectors.
func (v Vec2) Sub(w Vec2) Vec2 {
	return Vec2{X: v.X - w.X, Y: v.Y - w.Y}
}

// Mul returns the vector scaled by s.
func (v Vec2) Mul(s float32) Vec2 {
	return Vec2{X: v.X * s, Y: v.Y * s}
}

// Div returns the vector divided by s.
func (v Vec2) Div(s float32) Vec2 {
	return Vec2{X: v.X / s, Y: v.Y / s}
}

// Dot returns the dot product of two vectors.
func (v Vec2) Dot(w Vec2) float32 {
	return v.X*w.X + v.Y*w.Y
}

// Cross returns the 2D cross product (scalar z-component).
func (v Vec2) Cross(w Vec2) float32 {
	return v.X*w.Y - v.Y*w.X
}

// Length returns the length of the vector.
func (v Vec2) Length() float32 {
	return float32(math.Hypot(float64(v.X), float64(v.Y)))
}

// LengthSquared returns the squared length of the vector.
func (v Vec2) LengthSquared() float32 {
	return v.X*v.X + v.Y*v.Y
}

// Normalize returns a unit vector in the same direction, or the zero vector
// when v is too short to carry a direction.
func (v Vec2) Normalize() Vec2 {
	length := v.Length()
	if length < 1e-10 {
		return Vec2{}
	}
	return Vec2{X: v.X / length, Y: v.Y / length}
}

// Orthogonal returns the vector rotated 90 degrees counter-clockwise.
func (v Vec2) Orthogonal() Vec2 {
	return Vec2{X: -v.Y, Y: v.X}
}

// Rotate returns the vector rotated by angle radians around the origin.
func (v Vec2) Rotate(angle float32) Vec2 {
	sin, cos := math.Sincos(float64(angle))
	return Vec2{
		X: v.X*float32(cos) - v.Y*float32(sin),
		Y: v.X*float32(sin) + v.Y*float32(cos),
	}
}

// Atan2 returns the angle of the vector in radians in (-π, π].
func (v Vec2) Atan2() float32 {
	return float32(math.Atan2(float64(v.Y), float64(v.X)))
}

// IsZero reports whether both components are exactly zero.
func (v Vec2) IsZero() bool {
	return v.X == 0 && v.Y == 0
}

// Rect is an axis-aligned rectangle in stroke space; Min holds the smaller
// coordinates on both axes.
type Rect struct {
	Min, Max Point
}

// NewRect creates a rectangle from two corner points, normalized so that
// Min <= Max on both axes.
func NewRect(p1, p2 Point) Rect {
	return Rect{
		Min: Point{X: min32(p1.X, p2.X), Y: min32(p1.Y, p2.Y)},
		Max: Point{X: max32(p1.X, p2.X), Y: max32(p1.Y, p2.Y)},
	}
}

// Width returns the width of the rectangle.
func (r Rect) Width() float32 {
	return r.Max.X - r.Min.X
}

// Height returns the height of the rectangle.
func (r Rect) Height() float32 {
	return r.Max.Y - r.Min.Y
}

// Union returns the smallest rectangle containing both r and other.
func (r Rect) Union(other Rect) Rect {
	return Rect{
		Min: Point{X: min32(r.Min.X, other.Min.X), Y: min32(r.Min.Y, other.Min.Y)},
		Max: Point{X: max32(r.Max.X, other.Max.X), Y: max32(r.Max.Y, other.Max.Y)},
	}
}

// Contains reports whether the point lies inside or on the rectangle.
func (r Rect) Contains(p Point) bool {
	return p.X >= r.Min.X && p.X <= r.Max.X && p.Y >= r.Min.Y && p.Y <= r.Max.Y
}

func min32(a, b float32) float32 {
	if a < b {
		return a
	}
	return b
}

func abs32(x float32) float32 {
	if x < 0 {
		return -x
	}
	return x
}

func max32(a, b float32) float32 {
	if a > b {
		return a
	}
	return b
}
