package pattern

import "math"

// Rect is an axis-aligned rectangle, used for panel bounding boxes.
type Rect struct {
	X0, Y0, X1, Y1 float64
}

// NewRectFromPoints returns the smallest rectangle that contains both
// points.
func NewRectFromPoints(p0, p1 Point) Rect {
	return Rect{
		X0: min(p0.X, p1.X),
		Y0: min(p0.Y, p1.Y),
		X1: max(p0.X, p1.X),
		Y1: max(p0.Y, p1.Y),
	}
}

func (r Rect) Width() float64  { return r.X1 - r.X0 }
func (r Rect) Height() float64 { return r.Y1 - r.Y0 }

// Center returns the center point of the rectangle.
func (r Rect) Center() Point {
	return Pt(0.5*(r.X0+r.X1), 0.5*(r.Y0+r.Y1))
}

// Union returns the smallest rectangle enclosing both rectangles.
func (r Rect) Union(o Rect) Rect {
	return Rect{
		X0: min(r.X0, o.X0),
		Y0: min(r.Y0, o.Y0),
		X1: max(r.X1, o.X1),
		Y1: max(r.Y1, o.Y1),
	}
}

// UnionPoint returns the smallest rectangle enclosing the rectangle and
// the point.
func (r Rect) UnionPoint(pt Point) Rect {
	return Rect{
		X0: math.Min(r.X0, pt.X),
		Y0: math.Min(r.Y0, pt.Y),
		X1: math.Max(r.X1, pt.X),
		Y1: math.Max(r.Y1, pt.Y),
	}
}
