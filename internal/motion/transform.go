package motion

import "math"

// Transform is the animated card offset in pixels and rotation in degrees.
type Transform struct {
	X, Y float64
	Rot  float64
}

// Vec is a 2D direction or displacement.
type Vec struct {
	X, Y float64
}

// Len returns the euclidean length of v.
func (v Vec) Len() float64 {
	return math.Hypot(v.X, v.Y)
}

// Unit returns v scaled to length one. A zero or non-finite vector
// normalizes to the right.
func (v Vec) Unit() Vec {
	l := v.Len()
	if l == 0 || math.IsNaN(l) || math.IsInf(l, 0) {
		return Vec{X: 1}
	}
	return Vec{X: v.X / l, Y: v.Y / l}
}

// DefaultViewportSize is used for either dimension when it is unknown.
const DefaultViewportSize = 1000

// Viewport is the visible area the card lives in, in pixels.
type Viewport struct {
	Width, Height float64
}

// Resolved returns the viewport with unknown dimensions replaced by
// DefaultViewportSize.
func (v Viewport) Resolved() Viewport {
	if !(v.Width > 0) || math.IsInf(v.Width, 0) {
		v.Width = DefaultViewportSize
	}
	if !(v.Height > 0) || math.IsInf(v.Height, 0) {
		v.Height = DefaultViewportSize
	}
	return v
}

// Diagonal returns the diagonal of the resolved viewport.
func (v Viewport) Diagonal() float64 {
	r := v.Resolved()
	return math.Hypot(r.Width, r.Height)
}

func lerp(a, b, t float64) float64 {
	return a + (b-a)*t
}

func clamp(v, lo, hi float64) float64 {
	return math.Max(lo, math.Min(v, hi))
}
