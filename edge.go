package pattern

import (
	"fmt"
	"math"
)

// DefaultAccuracy is a default value for methods that take an accuracy
// argument, suitable for pattern work in centimeters.
const DefaultAccuracy = 1e-6

type EdgeKind int

const (
	// LineKind is a straight edge between two points.
	LineKind EdgeKind = iota + 1
	// CurveKind is a quadratic Bézier edge with a single control point.
	CurveKind
)

// Edge is one segment of a panel boundary: either a straight line or a
// quadratic Bézier. A panel's edges form a closed loop, so every edge's
// Start coincides with the previous edge's End.
type Edge struct {
	Kind    EdgeKind
	Start   Point
	End     Point
	Control Point
}

// LineEdge returns a straight edge from start to end.
func LineEdge(start, end Point) Edge {
	return Edge{Kind: LineKind, Start: start, End: end}
}

// CurveEdge returns a quadratic Bézier edge from start to end with the
// given control point.
func CurveEdge(start, end, control Point) Edge {
	return Edge{Kind: CurveKind, Start: start, End: end, Control: control}
}

func (e Edge) String() string {
	switch e.Kind {
	case LineKind:
		return fmt.Sprintf("Line(%v %v)", e.Start, e.End)
	case CurveKind:
		return fmt.Sprintf("Curve(%v %v ctrl %v)", e.Start, e.End, e.Control)
	default:
		return fmt.Sprintf("Edge(kind %d)", e.Kind)
	}
}

// Eval evaluates the edge at parameter t ∈ [0, 1].
func (e Edge) Eval(t float64) Point {
	switch e.Kind {
	case CurveKind:
		mt := 1.0 - t
		a := Vec2(e.Start).Mul(mt * mt)
		b := Vec2(e.Control).Mul(mt * 2.0)
		c := Vec2(e.End).Mul(t)
		return Point(a.Add(b.Add(c).Mul(t)))
	default:
		return e.Start.Lerp(e.End, t)
	}
}

// Midpoint returns the point at t = 0.5.
func (e Edge) Midpoint() Point {
	return e.Eval(0.5)
}

// ChordLength returns the distance between the edge's endpoints.
func (e Edge) ChordLength() float64 {
	return e.Start.Distance(e.End)
}

// Arclen returns the length of the edge.
//
// For lines this is exact. For curves the computation is based on the
// analytical formula for quadratic Béziers; since that formula suffers
// from numerical instability when the curve is very close to a straight
// line, that case is detected and handled with Legendre-Gauss quadrature.
func (e Edge) Arclen(accuracy float64) float64 {
	if e.Kind != CurveKind {
		return e.ChordLength()
	}
	d2 := Vec2(e.Start).Sub(Vec2(e.Control).Mul(2)).Add(Vec2(e.End))
	a := d2.Hypot2()
	d1 := e.Control.Sub(e.Start)
	c := d1.Hypot2()
	if a < 5e-4*c {
		// Nearly straight Bézier; use Legendre-Gauss quadrature with the
		// formula from Behdad in https://github.com/Pomax/BezierInfo-2/issues/77
		v0 := Vec2(e.Start).Mul(-0.492943519233745).
			Add(Vec2(e.Control).Mul(0.430331482911935)).
			Add(Vec2(e.End).Mul(0.0626120363218102)).
			Hypot()
		v1 := e.End.Sub(e.Start).Mul(0.4444444444444444).Hypot()
		v2 := Vec2(e.Start).Mul(-0.0626120363218102).
			Sub(Vec2(e.Control).Mul(0.430331482911935)).
			Add(Vec2(e.End).Mul(0.492943519233745)).
			Hypot()
		return v0 + v1 + v2
	}
	b := 2.0 * d2.Dot(d1)

	sabc := math.Sqrt(a + b + c)
	a2 := math.Pow(a, -0.5)
	a32 := a2 * a2 * a2
	c2 := 2.0 * math.Sqrt(c)
	baC2 := b*a2 + c2

	v0 := 0.25*a2*a2*b*(2.0*sabc-c2) + sabc
	if baC2 < 1e-13 {
		// Béziers with a sharp kink.
		return v0
	}
	return v0 + 0.25*a32*(4.0*c*a-b*b)*math.Log(((2.0*a+b)*a2+2.0*sabc)/baC2)
}

// chordDeviationSamples is the number of interior samples used to estimate
// an edge's maximum deviation from its chord.
const chordDeviationSamples = 16

// ChordDeviation returns the maximum perpendicular deviation of the edge
// from the straight line connecting its endpoints, estimated by sampling.
// It is zero for lines and for degenerate curves whose endpoints coincide.
func (e Edge) ChordDeviation() float64 {
	if e.Kind != CurveKind {
		return 0
	}
	chord := e.End.Sub(e.Start)
	ch := chord.Hypot()
	if ch == 0 {
		// Closed chord; fall back to the control point's distance.
		return e.Control.Distance(e.Start)
	}
	var dev float64
	for i := 1; i < chordDeviationSamples; i++ {
		t := float64(i) / chordDeviationSamples
		d := math.Abs(chord.Cross(e.Eval(t).Sub(e.Start))) / ch
		dev = max(dev, d)
	}
	return dev
}

// Reverse returns the edge traversed in the opposite direction.
func (e Edge) Reverse() Edge {
	e.Start, e.End = e.End, e.Start
	return e
}

// Transform applies an affine transform to every coordinate of the edge.
// The control point is transformed exactly like an endpoint.
func (e Edge) Transform(aff Affine) Edge {
	e.Start = e.Start.Transform(aff)
	e.End = e.End.Transform(aff)
	if e.Kind == CurveKind {
		e.Control = e.Control.Transform(aff)
	}
	return e
}

// IsFinite reports whether every coordinate of the edge is finite and not
// NaN.
func (e Edge) IsFinite() bool {
	if !e.Start.IsFinite() || !e.End.IsFinite() {
		return false
	}
	return e.Kind != CurveKind || e.Control.IsFinite()
}

// BoundingBox returns the smallest axis-aligned rectangle enclosing the
// edge. For curves the interior extrema are included, so the box is tight.
func (e Edge) BoundingBox() Rect {
	bbox := NewRectFromPoints(e.Start, e.End)
	if e.Kind != CurveKind {
		return bbox
	}
	// The extrema of a quadratic are the roots of its derivative, a line.
	d0 := e.Control.Sub(e.Start)
	d1 := e.End.Sub(e.Control)
	dd := d1.Sub(d0)
	if dd.X != 0 {
		if t := -d0.X / dd.X; t > 0 && t < 1 {
			bbox = bbox.UnionPoint(e.Eval(t))
		}
	}
	if dd.Y != 0 {
		if t := -d0.Y / dd.Y; t > 0 && t < 1 {
			bbox = bbox.UnionPoint(e.Eval(t))
		}
	}
	return bbox
}

// Polyline samples the edge into n segments, returning n+1 points
// including both endpoints. n must be at least 1.
func (e Edge) Polyline(n int) []Point {
	if n < 1 {
		n = 1
	}
	pts := make([]Point, 0, n+1)
	pts = append(pts, e.Start)
	for i := 1; i < n; i++ {
		pts = append(pts, e.Eval(float64(i)/float64(n)))
	}
	return append(pts, e.End)
}
