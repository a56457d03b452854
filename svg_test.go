package pattern

import (
	"errors"
	"strings"
	"testing"
)

func TestPanelFromSVGPathRectangle(t *testing.T) {
	p, err := PanelFromSVGPath("p", "M 0,0 L 4,0 L 4,2 L 0,2 Z", SVGImportOptions{})
	if err != nil {
		t.Fatal(err)
	}
	diff(t, rectangleEdges(4, 2), p.Edges())
}

func TestPanelFromSVGPathImplicitRepeat(t *testing.T) {
	// Repeated moveto coordinates continue as lineto.
	p, err := PanelFromSVGPath("p", "M 0,0 4,0 4,2 0,2 Z", SVGImportOptions{})
	if err != nil {
		t.Fatal(err)
	}
	diff(t, rectangleEdges(4, 2), p.Edges())
}

func TestPanelFromSVGPathShorthands(t *testing.T) {
	p, err := PanelFromSVGPath("p", "M 0,0 H 4 V 2 H 0 Z", SVGImportOptions{})
	if err != nil {
		t.Fatal(err)
	}
	diff(t, rectangleEdges(4, 2), p.Edges())

	rel, err := PanelFromSVGPath("p", "m 1,1 h 3 v 2 h -3 z", SVGImportOptions{})
	if err != nil {
		t.Fatal(err)
	}
	diff(t, []Edge{
		LineEdge(Pt(1, 1), Pt(4, 1)),
		LineEdge(Pt(4, 1), Pt(4, 3)),
		LineEdge(Pt(4, 3), Pt(1, 3)),
		LineEdge(Pt(1, 3), Pt(1, 1)),
	}, rel.Edges())
}

func TestPanelFromSVGPathQuadratic(t *testing.T) {
	p, err := PanelFromSVGPath("p", "M 0,0 L 4,0 Q 4.6,1 4,2 L 0,2 Z", SVGImportOptions{})
	if err != nil {
		t.Fatal(err)
	}
	diff(t, CurveEdge(Pt(4, 0), Pt(4, 2), Pt(4.6, 1)), p.EdgeAt(1))
	assertClosed(t, p, 1e-12)
}

func TestPanelFromSVGPathCubic(t *testing.T) {
	const d = "M 0,0 L 10,0 C 13,7 13,13 10,20 L 0,20 Z"

	var perr *ParseError
	if _, err := PanelFromSVGPath("p", d, SVGImportOptions{}); !errors.As(err, &perr) {
		t.Fatalf("got %v, want a ParseError without cubic approximation", err)
	}

	p, err := PanelFromSVGPath("p", d, SVGImportOptions{CubicToQuad: true, Tolerance: 1})
	if err != nil {
		t.Fatal(err)
	}
	assertClosed(t, p, 1e-12)
	for _, e := range p.Edges() {
		if e.Kind != LineKind && e.Kind != CurveKind {
			t.Fatalf("unexpected edge kind %v", e.Kind)
		}
	}
}

func TestPanelFromSVGPathErrors(t *testing.T) {
	var perr *ParseError
	cases := map[string]string{
		"no moveto":        "L 1,1 L 2,2 Z",
		"unsupported":      "M 0,0 A 1 1 0 0 0 2,2 Z",
		"not closed":       "M 0,0 L 4,0 L 4,2",
		"garbage":          "M 0,0 L x,0 Z",
		"second subpath":   "M 0,0 L 4,0 L 4,2 Z M 9,9 L 10,9 L 10,10 Z",
		"too few segments": "M 0,0 L 4,0 Z",
	}
	for name, d := range cases {
		if _, err := PanelFromSVGPath("p", d, SVGImportOptions{}); !errors.As(err, &perr) {
			t.Errorf("%s: got %v, want a ParseError", name, err)
		}
	}
}

func TestPanelFromSVGPathYDown(t *testing.T) {
	p, err := PanelFromSVGPath("p", "M 0,0 L 4,0 L 4,2 L 0,2 Z", SVGImportOptions{YDown: true})
	if err != nil {
		t.Fatal(err)
	}
	assertNear(t, p.Center(), Pt(0, 0), 1e-12)
	// The vertex order flips from clockwise-in-screen-space to
	// counterclockwise in cartesian space.
	diff(t, LineEdge(Pt(-2, 1), Pt(2, 1)), p.EdgeAt(0))
}

func TestPanelSVGPathRoundTrip(t *testing.T) {
	p := mustPanel(t, "p", []Edge{
		LineEdge(Pt(0, 0), Pt(4, 0)),
		CurveEdge(Pt(4, 0), Pt(4, 2), Pt(4.6, 1)),
		LineEdge(Pt(4, 2), Pt(0, 2)),
		LineEdge(Pt(0, 2), Pt(0, 0)),
	})
	d := p.SVGPath(SVGOptions{})
	got, err := PanelFromSVGPath("p", d, SVGImportOptions{})
	if err != nil {
		t.Fatalf("%v (d=%q)", err, d)
	}
	diff(t, p.Edges(), got.Edges())
}

func TestPatternSVG(t *testing.T) {
	pat := twoPanelPattern(t)
	doc := pat.SVG(SVGOptions{})
	if !strings.Contains(doc, `id="front"`) || !strings.Contains(doc, `id="back"`) {
		t.Fatalf("document lacks panel ids:\n%s", doc)
	}

	got, err := PatternFromSVG([]byte(doc), SVGImportOptions{})
	if err != nil {
		t.Fatal(err)
	}
	diff(t, []string{"front", "back"}, got.PanelOrder())
	front, _ := got.Panel("front")
	diff(t, 4, front.EdgeCount())

	back, _ := got.Panel("back")
	// Side by side layout: the second panel sits to the right of the
	// first with the default gap.
	diff(t, Rect{14, 0, 18, 2}, back.BoundingBox())
}

func TestPatternFromSVGNoPaths(t *testing.T) {
	var perr *ParseError
	if _, err := PatternFromSVG([]byte(`<svg xmlns="http://www.w3.org/2000/svg"></svg>`), SVGImportOptions{}); !errors.As(err, &perr) {
		t.Errorf("got %v, want a ParseError", err)
	}
}
