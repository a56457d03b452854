package pattern

// CubicBez is a cubic Bézier segment. Cubics are not representable in the
// pattern exchange format; they occur only as import-time input and are
// approximated into quadratic Curve and Line edges.
type CubicBez struct {
	P0 Point
	P1 Point
	P2 Point
	P3 Point
}

func (c CubicBez) Eval(t float64) Point {
	mt := 1.0 - t
	a := Vec2(c.P0).Mul(mt * mt * mt)
	b := Vec2(c.P1).Mul(mt * mt * 3.0)
	cc := Vec2(c.P2).Mul(mt * 3.0)
	d := Vec2(c.P3)
	return Point(a.Add(b.Add(cc.Add(d.Mul(t)).Mul(t)).Mul(t)))
}

// Subdivide subdivides the cubic into halves, using de Casteljau.
func (c CubicBez) Subdivide() (CubicBez, CubicBez) {
	pm := c.Eval(0.5)
	return CubicBez{
			c.P0,
			c.P0.Midpoint(c.P1),
			Point(Vec2(c.P0).Add(Vec2(c.P1).Mul(2.0)).Add(Vec2(c.P2)).Mul(0.25)),
			pm,
		},
		CubicBez{
			pm,
			Point(Vec2(c.P1).Add(Vec2(c.P2).Mul(2.0)).Add(Vec2(c.P3)).Mul(0.25)),
			c.P2.Midpoint(c.P3),
			c.P3,
		}
}

func (c CubicBez) IsFinite() bool {
	return c.P0.IsFinite() && c.P1.IsFinite() && c.P2.IsFinite() && c.P3.IsFinite()
}

// isCollinear reports whether all four control points lie on one line,
// within a tolerance scaled by the chord length.
func (c CubicBez) isCollinear(epsilon float64) bool {
	chord := c.P3.Sub(c.P0)
	scale := max(chord.Hypot(), c.P1.Distance(c.P0), c.P2.Distance(c.P0))
	if scale == 0 {
		return true
	}
	d1 := chord.Cross(c.P1.Sub(c.P0)) / scale
	d2 := chord.Cross(c.P2.Sub(c.P0)) / scale
	return abs(d1) <= epsilon && abs(d2) <= epsilon
}

// approxQuad returns the single quadratic whose endpoints match the
// cubic's and whose control point is the average of the cubic's raised
// control points. This is the standard midpoint approximation; see
// https://web.archive.org/web/20210108052742/http://caffeineowl.com/graphics/2d/vectorial/cubic2quad01.html
func (c CubicBez) approxQuad() Edge {
	p1x2 := Vec2(c.P1).Mul(3).Sub(Vec2(c.P0))
	p2x2 := Vec2(c.P2).Mul(3).Sub(Vec2(c.P3))
	return CurveEdge(c.P0, c.P3, Point(p1x2.Add(p2x2).Mul(1.0/4.0)))
}

// approxQuadSamples is the number of interior samples used to measure the
// deviation between a cubic and its candidate quadratic.
const approxQuadSamples = 16

// quadDeviation returns the maximum sampled distance between the cubic
// and the quadratic edge q, comparing points at equal parameter values.
func (c CubicBez) quadDeviation(q Edge) float64 {
	var dev float64
	for i := 1; i < approxQuadSamples; i++ {
		t := float64(i) / approxQuadSamples
		dev = max(dev, c.Eval(t).Distance(q.Eval(t)))
	}
	return dev
}

// maxApproxDepth bounds the subdivision recursion of ApproxQuads. At the
// ceiling the best available single-quadratic fit is accepted, which
// guarantees termination on degenerate input.
const maxApproxDepth = 16

// collinearEpsilon is the relative deviation below which a cubic is
// treated as a straight line.
const collinearEpsilon = 1e-9

// ApproxQuads approximates the cubic with a sequence of Line and
// quadratic Curve edges whose union deviates from the cubic by at most
// tolerance (sampled). The cubic's start and end points are preserved
// exactly. Collinear cubics degrade to a single Line.
//
// The subdivision is expressed as an explicit worklist rather than
// recursion, with a depth ceiling per subdivided piece.
func (c CubicBez) ApproxQuads(tolerance float64) []Edge {
	type workItem struct {
		c     CubicBez
		depth int
	}
	var out []Edge
	stack := []workItem{{c, 0}}
	for len(stack) > 0 {
		item := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		if item.c.isCollinear(collinearEpsilon) {
			if item.c.P0 != item.c.P3 {
				out = append(out, LineEdge(item.c.P0, item.c.P3))
			}
			continue
		}
		q := item.c.approxQuad()
		if item.depth >= maxApproxDepth || item.c.quadDeviation(q) <= tolerance {
			out = append(out, q)
			continue
		}
		left, right := item.c.Subdivide()
		// Push the right half first so the left is processed next,
		// keeping the output in parameter order.
		stack = append(stack,
			workItem{right, item.depth + 1},
			workItem{left, item.depth + 1},
		)
	}
	return out
}

func abs(f float64) float64 {
	if f < 0 {
		return -f
	}
	return f
}
