package pattern

import (
	"fmt"
	"math"
)

// closureEpsilon is the maximum gap tolerated between consecutive edge
// endpoints of a panel loop.
const closureEpsilon = 1e-9

// PanelAnchor designates a panel-local reference point and the named body
// landmark it should be placed at by Pattern.AlignPanels.
type PanelAnchor struct {
	Landmark string
	Local    Point
}

// Panel is a named, closed loop of at least three edges, together with
// its 3D placement. Coordinates are panel-local centimeters. Translation
// and Rotation position the panel in the body convention; Rotation is
// Euler angles in degrees, applied X then Y then Z.
//
// The edge sequence is ordered and the order is meaningful: stitches
// reference edges by index. Operations that reorder or merge edges are
// refused once the panel has been finalized.
type Panel struct {
	Name        string
	Translation Vec3
	Rotation    Vec3
	Anchor      *PanelAnchor

	edges     []Edge
	finalized bool
}

// NewPanel returns a panel over a copy of edges. It fails with a
// GeometryError if there are fewer than three edges, if any coordinate is
// not finite, or if the edges do not form a closed loop in order.
func NewPanel(name string, edges []Edge) (*Panel, error) {
	if len(edges) < 3 {
		return nil, &GeometryError{Op: "NewPanel", Detail: fmt.Sprintf("panel %q has %d edges, need at least 3", name, len(edges))}
	}
	for i, e := range edges {
		if !e.IsFinite() {
			return nil, &GeometryError{Op: "NewPanel", Detail: fmt.Sprintf("panel %q edge %d has a non-finite coordinate", name, i)}
		}
	}
	for i, e := range edges {
		next := edges[(i+1)%len(edges)]
		if e.End.Distance(next.Start) > closureEpsilon {
			return nil, &GeometryError{Op: "NewPanel", Detail: fmt.Sprintf("panel %q is not closed: edge %d ends at %v, edge %d starts at %v", name, i, e.End, (i+1)%len(edges), next.Start)}
		}
	}
	return &Panel{Name: name, edges: append([]Edge(nil), edges...)}, nil
}

// Edges returns a copy of the panel's edge sequence.
func (p *Panel) Edges() []Edge {
	return append([]Edge(nil), p.edges...)
}

func (p *Panel) EdgeCount() int { return len(p.edges) }

func (p *Panel) EdgeAt(i int) Edge { return p.edges[i] }

// Finalize freezes the edge sequence. Edge indices taken after this
// point remain valid: operations that would reorder or merge edges fail
// with a GeometryError. Finalization is not reversible.
func (p *Panel) Finalize() { p.finalized = true }

func (p *Panel) Finalized() bool { return p.finalized }

func (p *Panel) checkMutable(op string) error {
	if p.finalized {
		return &GeometryError{Op: op, Detail: fmt.Sprintf("panel %q is finalized, edge order is frozen", p.Name)}
	}
	return nil
}

// BoundingBox returns the axis-aligned bounding box of the panel's
// outline, including curve extrema.
func (p *Panel) BoundingBox() Rect {
	bbox := p.edges[0].BoundingBox()
	for _, e := range p.edges[1:] {
		bbox = bbox.Union(e.BoundingBox())
	}
	return bbox
}

// Center returns the midpoint of the panel's bounding box.
func (p *Panel) Center() Point { return p.BoundingBox().Center() }

func (p *Panel) Width() float64 { return p.BoundingBox().Width() }

func (p *Panel) Height() float64 { return p.BoundingBox().Height() }

// StraightenCurves replaces each curve edge whose maximum deviation from
// its chord is below threshold with a line between the same endpoints.
// Edge count and order are unchanged, so this is permitted on finalized
// panels.
func (p *Panel) StraightenCurves(threshold float64) {
	for i, e := range p.edges {
		if e.Kind == CurveKind && e.ChordDeviation() < threshold {
			p.edges[i] = LineEdge(e.Start, e.End)
		}
	}
}

// UnsplitLines merges runs of consecutive line edges whose directions
// differ by less than angleTolerance degrees, including across the loop
// seam. The loop stays closed and keeps at least three edges.
func (p *Panel) UnsplitLines(angleTolerance float64) error {
	if err := p.checkMutable("UnsplitLines"); err != nil {
		return err
	}
	tol := angleTolerance * math.Pi / 180
	edges := append([]Edge(nil), p.edges...)
	for merged := true; merged && len(edges) > 3; {
		merged = false
		for i := 0; i < len(edges); i++ {
			j := (i + 1) % len(edges)
			a, b := edges[i], edges[j]
			if a.Kind != LineKind || b.Kind != LineKind {
				continue
			}
			if math.Abs(angleBetween(a.End.Sub(a.Start), b.End.Sub(b.Start))) >= tol {
				continue
			}
			edges[i] = LineEdge(a.Start, b.End)
			edges = append(edges[:j], edges[j+1:]...)
			merged = true
			break
		}
	}
	p.edges = edges
	return nil
}

// angleBetween returns the signed angle from a to b, in (-π, π].
func angleBetween(a, b Vec2) float64 {
	d := b.Angle() - a.Angle()
	if d > math.Pi {
		d -= 2 * math.Pi
	} else if d <= -math.Pi {
		d += 2 * math.Pi
	}
	return d
}

// EdgeOrderPolicy chooses, given a panel's edge sequence, the index of
// the edge that NormalizeEdgeOrder rotates to the front.
type EdgeOrderPolicy func(edges []Edge) int

// BottomRightEdgeOrder picks the edge with the bottommost midpoint,
// ties broken by the rightmost. It is the default policy.
func BottomRightEdgeOrder(edges []Edge) int {
	best := 0
	bm := edges[0].Midpoint()
	for i, e := range edges[1:] {
		m := e.Midpoint()
		if m.Y < bm.Y || (m.Y == bm.Y && m.X > bm.X) {
			best, bm = i+1, m
		}
	}
	return best
}

// NormalizeEdgeOrder cyclically rotates the edge sequence so the edge
// chosen by policy becomes index 0. It never reverses edges, and it is
// idempotent for any deterministic policy. A nil policy selects
// BottomRightEdgeOrder.
func (p *Panel) NormalizeEdgeOrder(policy EdgeOrderPolicy) error {
	if err := p.checkMutable("NormalizeEdgeOrder"); err != nil {
		return err
	}
	if policy == nil {
		policy = BottomRightEdgeOrder
	}
	k := policy(p.edges)
	if k < 0 || k >= len(p.edges) {
		return &GeometryError{Op: "NormalizeEdgeOrder", Detail: fmt.Sprintf("policy chose edge %d of %d", k, len(p.edges))}
	}
	p.rotateEdges(k)
	return nil
}

func (p *Panel) rotateEdges(k int) {
	if k == 0 {
		return
	}
	rotated := make([]Edge, 0, len(p.edges))
	rotated = append(rotated, p.edges[k:]...)
	rotated = append(rotated, p.edges[:k]...)
	p.edges = rotated
}

// Transform applies an affine map to every edge. Control points are
// transformed exactly like endpoints.
func (p *Panel) Transform(aff Affine) {
	for i, e := range p.edges {
		p.edges[i] = e.Transform(aff)
	}
}

// Rotate rotates the panel by angle degrees counterclockwise about the
// origin. Use RotateAround to rotate in place, e.g. about the panel's
// center.
func (p *Panel) Rotate(degrees float64) {
	p.Transform(Rotate(degrees * math.Pi / 180))
}

// RotateAround rotates the panel by angle degrees counterclockwise about
// an arbitrary pivot.
func (p *Panel) RotateAround(degrees float64, pivot Point) {
	p.Transform(RotateAbout(degrees*math.Pi/180, pivot))
}

// Scale scales the panel about the origin. Negative factors flip.
func (p *Panel) Scale(sx, sy float64) {
	p.Transform(Scale(sx, sy))
}

// TranslateBy moves every edge by v.
func (p *Panel) TranslateBy(v Vec2) {
	p.Transform(Translate(v))
}

// Unfold mirrors the panel across the line through the edge at
// edgeIndex, producing the symmetric whole from a half-panel. The
// symmetry edge itself is removed, the mirrored edges are reversed and
// appended so the loop stays closed, and the result is recentered on the
// origin and normalized with the default edge order.
func (p *Panel) Unfold(edgeIndex int) error {
	if err := p.checkMutable("Unfold"); err != nil {
		return err
	}
	if edgeIndex < 0 || edgeIndex >= len(p.edges) {
		return &GeometryError{Op: "Unfold", Detail: fmt.Sprintf("edge index %d out of range [0,%d)", edgeIndex, len(p.edges))}
	}
	sym := p.edges[edgeIndex]
	axis := sym.End.Sub(sym.Start)
	if axis.Hypot() == 0 {
		return &GeometryError{Op: "Unfold", Detail: fmt.Sprintf("edge %d is degenerate, no symmetry axis", edgeIndex)}
	}

	edges := make([]Edge, 0, 2*(len(p.edges)-1))
	edges = append(edges, p.edges[edgeIndex+1:]...)
	edges = append(edges, p.edges[:edgeIndex]...)

	mirror := Reflect(sym.Start, axis)
	for i := len(edges) - 1; i >= 0; i-- {
		edges = append(edges, edges[i].Transform(mirror).Reverse())
	}

	p.edges = edges
	center := p.Center()
	p.TranslateBy(Vec(-center.X, -center.Y))
	return p.NormalizeEdgeOrder(nil)
}

// AlignTranslation sets the panel's Translation so that the panel-local
// point local, interpreted on the body convention's x-y reference plane,
// lands at target. When target is expressed in the renderer convention
// it is remapped to the body convention first.
func (p *Panel) AlignTranslation(local Point, target Vec3, convention Convention) {
	if convention == Renderer {
		target = target.ToBody()
	}
	p.Translation = Vec3{target.X - local.X, target.Y - local.Y, target.Z}
}
