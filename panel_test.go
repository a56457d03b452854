package pattern

import (
	"errors"
	"math"
	"testing"
)

func rectangleEdges(w, h float64) []Edge {
	return []Edge{
		LineEdge(Pt(0, 0), Pt(w, 0)),
		LineEdge(Pt(w, 0), Pt(w, h)),
		LineEdge(Pt(w, h), Pt(0, h)),
		LineEdge(Pt(0, h), Pt(0, 0)),
	}
}

func mustPanel(t *testing.T, name string, edges []Edge) *Panel {
	t.Helper()
	p, err := NewPanel(name, edges)
	if err != nil {
		t.Fatal(err)
	}
	return p
}

func assertClosed(t *testing.T, p *Panel, epsilon float64) {
	t.Helper()
	edges := p.Edges()
	for i, e := range edges {
		next := edges[(i+1)%len(edges)]
		if e.End.Distance(next.Start) > epsilon {
			t.Errorf("edge %d ends at %s, edge %d starts at %s", i, e.End, (i+1)%len(edges), next.Start)
		}
	}
}

func TestNewPanelValidation(t *testing.T) {
	var gerr *GeometryError

	_, err := NewPanel("p", rectangleEdges(4, 2)[:2])
	if !errors.As(err, &gerr) {
		t.Errorf("got %v, want a GeometryError for too few edges", err)
	}

	open := rectangleEdges(4, 2)
	open[3] = LineEdge(Pt(0, 2), Pt(0.5, 0))
	_, err = NewPanel("p", open)
	if !errors.As(err, &gerr) {
		t.Errorf("got %v, want a GeometryError for an open loop", err)
	}

	bad := rectangleEdges(4, 2)
	bad[1] = LineEdge(Pt(4, 0), Pt(4, math.NaN()))
	bad[2] = LineEdge(Pt(4, math.NaN()), Pt(0, 2))
	_, err = NewPanel("p", bad)
	if !errors.As(err, &gerr) {
		t.Errorf("got %v, want a GeometryError for non-finite coordinates", err)
	}
}

func TestPanelBounds(t *testing.T) {
	p := mustPanel(t, "p", rectangleEdges(4, 2))
	diff(t, Rect{0, 0, 4, 2}, p.BoundingBox())
	diff(t, Pt(2, 1), p.Center())
	diff(t, 4.0, p.Width())
	diff(t, 2.0, p.Height())
}

func TestNormalizeEdgeOrderIdempotent(t *testing.T) {
	// Start the loop on the top edge; normalization must rotate the
	// bottom edge to the front without reversing anything.
	edges := rectangleEdges(4, 2)
	rotated := append(edges[2:], edges[:2]...)
	p := mustPanel(t, "p", rotated)

	if err := p.NormalizeEdgeOrder(nil); err != nil {
		t.Fatal(err)
	}
	diff(t, rectangleEdges(4, 2), p.Edges())

	once := p.Edges()
	if err := p.NormalizeEdgeOrder(nil); err != nil {
		t.Fatal(err)
	}
	diff(t, once, p.Edges())
}

func TestNormalizeEdgeOrderTieBreak(t *testing.T) {
	// Two edges share the bottommost midpoint y; the rightmost wins.
	edges := []Edge{
		LineEdge(Pt(0, 0), Pt(2, 0)),
		LineEdge(Pt(2, 0), Pt(4, 0)),
		LineEdge(Pt(4, 0), Pt(2, 3)),
		LineEdge(Pt(2, 3), Pt(0, 0)),
	}
	p := mustPanel(t, "p", edges)
	if err := p.NormalizeEdgeOrder(nil); err != nil {
		t.Fatal(err)
	}
	diff(t, LineEdge(Pt(2, 0), Pt(4, 0)), p.EdgeAt(0))
}

func TestRotationClosure(t *testing.T) {
	const epsilon = 1e-9
	for _, theta := range []float64{30, 90, 180, 359} {
		p := mustPanel(t, "p", []Edge{
			LineEdge(Pt(0, 0), Pt(4, 0)),
			CurveEdge(Pt(4, 0), Pt(4, 2), Pt(5, 1)),
			LineEdge(Pt(4, 2), Pt(0, 2)),
			LineEdge(Pt(0, 2), Pt(0, 0)),
		})
		want := p.Edges()
		p.Rotate(theta)
		p.Rotate(-theta)
		got := p.Edges()
		for i := range want {
			assertNear(t, got[i].Start, want[i].Start, epsilon)
			assertNear(t, got[i].End, want[i].End, epsilon)
			assertNear(t, got[i].Control, want[i].Control, epsilon)
		}
		assertClosed(t, p, epsilon)
	}
}

func TestPanelScaleFlip(t *testing.T) {
	p := mustPanel(t, "p", rectangleEdges(4, 2))
	p.Scale(1, -1)
	diff(t, Rect{0, -2, 4, 0}, p.BoundingBox())
	assertClosed(t, p, 1e-12)
}

func TestStraightenCurves(t *testing.T) {
	edges := []Edge{
		LineEdge(Pt(0, 0), Pt(4, 0)),
		// Deviation 0.05 from its chord.
		CurveEdge(Pt(4, 0), Pt(4, 2), Pt(3.9, 1)),
		LineEdge(Pt(4, 2), Pt(0, 2)),
		LineEdge(Pt(0, 2), Pt(0, 0)),
	}
	p := mustPanel(t, "p", edges)

	p.StraightenCurves(0.01)
	diff(t, CurveKind, p.EdgeAt(1).Kind)

	p.StraightenCurves(0.1)
	diff(t, LineEdge(Pt(4, 0), Pt(4, 2)), p.EdgeAt(1))
	assertClosed(t, p, 1e-12)
}

func TestUnsplitLines(t *testing.T) {
	// The bottom edge is split in two collinear halves.
	edges := []Edge{
		LineEdge(Pt(0, 0), Pt(2, 0)),
		LineEdge(Pt(2, 0), Pt(4, 0)),
		LineEdge(Pt(4, 0), Pt(4, 2)),
		LineEdge(Pt(4, 2), Pt(0, 2)),
		LineEdge(Pt(0, 2), Pt(0, 0)),
	}
	p := mustPanel(t, "p", edges)
	if err := p.UnsplitLines(1); err != nil {
		t.Fatal(err)
	}
	diff(t, rectangleEdges(4, 2), p.Edges())
	assertClosed(t, p, 1e-12)
}

func TestUnsplitLinesAcrossSeam(t *testing.T) {
	// The bottom edge is split across the loop seam: its second half
	// leads the sequence.
	edges := []Edge{
		LineEdge(Pt(2, 0), Pt(4, 0)),
		LineEdge(Pt(4, 0), Pt(4, 2)),
		LineEdge(Pt(4, 2), Pt(0, 2)),
		LineEdge(Pt(0, 2), Pt(0, 0)),
		LineEdge(Pt(0, 0), Pt(2, 0)),
	}
	p := mustPanel(t, "p", edges)
	if err := p.UnsplitLines(1); err != nil {
		t.Fatal(err)
	}
	if p.EdgeCount() != 4 {
		t.Fatalf("got %d edges, want 4", p.EdgeCount())
	}
	assertClosed(t, p, 1e-12)
}

func TestUnsplitLinesKeepsAngles(t *testing.T) {
	p := mustPanel(t, "p", rectangleEdges(4, 2))
	if err := p.UnsplitLines(1); err != nil {
		t.Fatal(err)
	}
	diff(t, 4, p.EdgeCount())
}

func TestUnfold(t *testing.T) {
	const epsilon = 1e-9
	// Half of a 4x2 rectangle, the left edge being the symmetry axis.
	p := mustPanel(t, "half", []Edge{
		LineEdge(Pt(0, 0), Pt(2, 0)),
		LineEdge(Pt(2, 0), Pt(2, 2)),
		LineEdge(Pt(2, 2), Pt(0, 2)),
		LineEdge(Pt(0, 2), Pt(0, 0)),
	})
	if err := p.Unfold(3); err != nil {
		t.Fatal(err)
	}
	if p.EdgeCount() != 6 {
		t.Fatalf("got %d edges, want 6", p.EdgeCount())
	}
	assertClosed(t, p, epsilon)

	bbox := p.BoundingBox()
	assertNear(t, Pt(bbox.X0, bbox.Y0), Pt(-2, -1), epsilon)
	assertNear(t, Pt(bbox.X1, bbox.Y1), Pt(2, 1), epsilon)
	assertNear(t, p.Center(), Pt(0, 0), epsilon)
}

func TestUnfoldBadIndex(t *testing.T) {
	p := mustPanel(t, "p", rectangleEdges(4, 2))
	var gerr *GeometryError
	if err := p.Unfold(7); !errors.As(err, &gerr) {
		t.Errorf("got %v, want a GeometryError", err)
	}
	diff(t, rectangleEdges(4, 2), p.Edges())
}

func TestFinalizeFreezesOrder(t *testing.T) {
	p := mustPanel(t, "p", rectangleEdges(4, 2))
	p.Finalize()

	var gerr *GeometryError
	if err := p.NormalizeEdgeOrder(nil); !errors.As(err, &gerr) {
		t.Errorf("NormalizeEdgeOrder: got %v, want a GeometryError", err)
	}
	if err := p.UnsplitLines(1); !errors.As(err, &gerr) {
		t.Errorf("UnsplitLines: got %v, want a GeometryError", err)
	}
	if err := p.Unfold(0); !errors.As(err, &gerr) {
		t.Errorf("Unfold: got %v, want a GeometryError", err)
	}
	diff(t, rectangleEdges(4, 2), p.Edges())
}

func TestAlignTranslation(t *testing.T) {
	p := mustPanel(t, "p", rectangleEdges(4, 2))

	p.AlignTranslation(Pt(1, 1), Vec3{5, 3, 2}, Body)
	diff(t, Vec3{4, 2, 2}, p.Translation)

	// The same target expressed in renderer axes.
	p.AlignTranslation(Pt(1, 1), Vec3{5, -2, 3}, Renderer)
	diff(t, Vec3{4, 2, 2}, p.Translation)
}
