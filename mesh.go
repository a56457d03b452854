package pattern

import (
	"fmt"
	"math"
	"time"

	"github.com/ByteArena/poly2tri-go"
	"github.com/paulmach/orb"
	"github.com/paulmach/orb/planar"
)

// MeshTopology is a triangulated planar mesh of one panel, in panel-local
// coordinates. Triangles index into Vertices. EdgeVertices records, per
// source edge, the boundary vertex indices discretized from it, ordered
// along the edge and sharing endpoints with the neighboring edges; stitch
// joining consumes this mapping.
type MeshTopology struct {
	Vertices     []Point
	Triangles    [][3]int
	EdgeVertices [][]int
}

// Triangulator produces a constrained triangulation of a closed polygon
// boundary. Triangles index into the boundary slice. Implementations are
// allowed to fail or panic on adversarial input; the retry pipeline
// contains both.
type Triangulator interface {
	Triangulate(boundary []Point) ([][3]int, error)
}

// Poly2Tri is the default Triangulator, backed by the poly2tri sweep
// line implementation.
type Poly2Tri struct{}

func (Poly2Tri) Triangulate(boundary []Point) (tris [][3]int, err error) {
	defer func() {
		if r := recover(); r != nil {
			tris, err = nil, fmt.Errorf("poly2tri: %v", r)
		}
	}()
	contour := make([]*poly2tri.Point, len(boundary))
	index := make(map[*poly2tri.Point]int, len(boundary))
	for i, pt := range boundary {
		p := poly2tri.NewPoint(pt.X, pt.Y)
		contour[i] = p
		index[p] = i
	}
	swctx := poly2tri.NewSweepContext(contour, false)
	swctx.Triangulate()
	for _, tr := range swctx.GetTriangles() {
		var t [3]int
		for k := 0; k < 3; k++ {
			i, ok := index[tr.Points[k]]
			if !ok {
				return nil, fmt.Errorf("poly2tri: triangle vertex (%g, %g) is not a boundary point",
					tr.Points[k].X, tr.Points[k].Y)
			}
			t[k] = i
		}
		tris = append(tris, t)
	}
	return tris, nil
}

// Defaults for MeshConfig's zero values.
const (
	DefaultMaxAttempts    = 5
	DefaultStartTolerance = 1e-3

	// toleranceGrowth is the factor by which the merge tolerance grows
	// between attempts.
	toleranceGrowth = 4
)

// MeshConfig configures TriangulatePanel. The zero value selects
// defaults for every field.
type MeshConfig struct {
	// MaxSegmentLength bounds the length of discretized boundary
	// segments. 0 derives it from the panel's shortest edge.
	MaxSegmentLength float64
	// MaxAttempts bounds the retry loop. 0 means DefaultMaxAttempts.
	MaxAttempts int
	// StartTolerance is the first attempt's point merge tolerance.
	// Each following attempt increases it. 0 means
	// DefaultStartTolerance.
	StartTolerance float64
	// AttemptTimeout bounds the wall-clock time of a single
	// triangulation attempt. 0 means no timeout.
	AttemptTimeout time.Duration
	// Triangulator overrides the triangulation backend. nil means
	// Poly2Tri.
	Triangulator Triangulator
}

// attemptError is a single attempt's failure, carrying its best-effort
// classification for the terminal TriangulationError.
type attemptError struct {
	class FailureClass
	msg   string
}

func (e *attemptError) Error() string { return e.msg }

// discretizeBoundary samples the panel outline into a closed polygon.
// Lines contribute their endpoints, curves a polyline with segments no
// longer than maxSeg. Consecutive points closer than tol are merged.
func discretizeBoundary(p *Panel, maxSeg, tol float64) ([]Point, [][]int, error) {
	var boundary []Point
	push := func(pt Point) int {
		if len(boundary) > 0 && pt.Distance(boundary[len(boundary)-1]) <= tol {
			return len(boundary) - 1
		}
		boundary = append(boundary, pt)
		return len(boundary) - 1
	}

	edgeVerts := make([][]int, p.EdgeCount())
	for i, e := range p.edges {
		n := 1
		if e.Kind == CurveKind {
			n = int(math.Ceil(e.Arclen(DefaultAccuracy) / maxSeg))
			if n < 1 {
				n = 1
			}
		}
		// The chain's last point is the next edge's first; skip it.
		for _, pt := range e.Polyline(n)[:n] {
			idx := push(pt)
			if k := len(edgeVerts[i]); k == 0 || edgeVerts[i][k-1] != idx {
				edgeVerts[i] = append(edgeVerts[i], idx)
			}
		}
	}
	// The loop's last point may close onto the first.
	if len(boundary) > 1 && boundary[len(boundary)-1].Distance(boundary[0]) <= tol {
		dropped := len(boundary) - 1
		boundary = boundary[:dropped]
		for i, verts := range edgeVerts {
			for j, idx := range verts {
				if idx == dropped {
					edgeVerts[i][j] = 0
				}
			}
		}
	}
	if len(boundary) < 3 {
		return nil, nil, &attemptError{FailureNearZeroEdge, fmt.Sprintf("boundary collapsed to %d points at tolerance %g", len(boundary), tol)}
	}
	// Close each edge's vertex run onto the next edge's first vertex.
	for i := range edgeVerts {
		next := edgeVerts[(i+1)%len(edgeVerts)]
		if len(next) > 0 {
			edgeVerts[i] = append(edgeVerts[i], next[0])
		}
	}
	return boundary, edgeVerts, nil
}

func boundaryRing(boundary []Point) orb.Ring {
	ring := make(orb.Ring, len(boundary)+1)
	for i, pt := range boundary {
		ring[i] = orb.Point{pt.X, pt.Y}
	}
	ring[len(boundary)] = ring[0]
	return ring
}

func triangleArea(a, b, c Point) float64 {
	return 0.5 * b.Sub(a).Cross(c.Sub(a))
}

// validateMesh checks a triangulation against its boundary: a non-empty
// triangle set, no near-zero-area triangles, triangle areas summing to
// the ring area (a self-crossing boundary breaks this), every boundary
// segment present as a triangle edge, and every triangle centroid inside
// the ring.
func validateMesh(boundary []Point, tris [][3]int) error {
	if len(tris) == 0 {
		return &attemptError{FailureUnknown, "empty triangulation"}
	}

	ring := boundaryRing(boundary)
	ringArea := math.Abs(planar.Area(ring))
	if ringArea == 0 {
		return &attemptError{FailureNearZeroEdge, "boundary encloses no area"}
	}

	segs := make(map[[2]int]bool, 3*len(tris))
	var sum float64
	for _, t := range tris {
		for k := 0; k < 3; k++ {
			a, b := t[k], t[(k+1)%3]
			if a > b {
				a, b = b, a
			}
			segs[[2]int{a, b}] = true
		}
		area := math.Abs(triangleArea(boundary[t[0]], boundary[t[1]], boundary[t[2]]))
		if area < 1e-12*ringArea {
			return &attemptError{FailureDegenerateAngle, fmt.Sprintf("triangle (%d,%d,%d) has near-zero area", t[0], t[1], t[2])}
		}
		sum += area

		centroid := Pt(
			(boundary[t[0]].X+boundary[t[1]].X+boundary[t[2]].X)/3,
			(boundary[t[0]].Y+boundary[t[1]].Y+boundary[t[2]].Y)/3,
		)
		if !planar.RingContains(ring, orb.Point{centroid.X, centroid.Y}) {
			return &attemptError{FailureCrossingEdges, fmt.Sprintf("triangle (%d,%d,%d) centroid lies outside the boundary", t[0], t[1], t[2])}
		}
	}
	if math.Abs(sum-ringArea) > 1e-6*ringArea {
		return &attemptError{FailureCrossingEdges, fmt.Sprintf("triangle area %g does not match boundary area %g", sum, ringArea)}
	}
	for i := range boundary {
		a, b := i, (i+1)%len(boundary)
		if a > b {
			a, b = b, a
		}
		if !segs[[2]int{a, b}] {
			return &attemptError{FailureDegenerateAngle, fmt.Sprintf("boundary segment (%d,%d) missing from triangulation", a, b)}
		}
	}
	return nil
}

// runTriangulator runs one triangulation attempt, containing panics and
// enforcing the per-attempt timeout. On timeout the attempt's goroutine
// is abandoned.
func runTriangulator(tri Triangulator, boundary []Point, timeout time.Duration) ([][3]int, error) {
	type result struct {
		tris [][3]int
		err  error
	}
	run := func() (res result) {
		defer func() {
			if r := recover(); r != nil {
				res = result{nil, &attemptError{FailureUnknown, fmt.Sprintf("triangulator panicked: %v", r)}}
			}
		}()
		tris, err := tri.Triangulate(boundary)
		return result{tris, err}
	}
	if timeout <= 0 {
		r := run()
		return r.tris, r.err
	}
	ch := make(chan result, 1)
	go func() { ch <- run() }()
	timer := time.NewTimer(timeout)
	defer timer.Stop()
	select {
	case r := <-ch:
		return r.tris, r.err
	case <-timer.C:
		return nil, &attemptError{FailureTimeout, fmt.Sprintf("attempt exceeded %v", timeout)}
	}
}

// shortestEdgeLength returns the arclength of the panel's shortest edge.
func shortestEdgeLength(p *Panel) float64 {
	shortest := math.Inf(1)
	for _, e := range p.edges {
		shortest = min(shortest, e.Arclen(DefaultAccuracy))
	}
	return shortest
}

func classify(err error) FailureClass {
	if ae, ok := err.(*attemptError); ok {
		return ae.class
	}
	return FailureUnknown
}

// TriangulatePanel discretizes the panel outline and produces a
// simulation-ready triangulated mesh. The triangulation backend is known
// to fail, panic or hang on adversarial boundaries, so each attempt is
// contained and validated, and failures escalate the point merge
// tolerance and retry, up to the configured attempt limit. Exhausting
// the limit surfaces a TriangulationError with a diagnostic
// classification; no partial mesh is ever returned.
func TriangulatePanel(p *Panel, cfg MeshConfig) (*MeshTopology, error) {
	tri := cfg.Triangulator
	if tri == nil {
		tri = Poly2Tri{}
	}
	attempts := cfg.MaxAttempts
	if attempts <= 0 {
		attempts = DefaultMaxAttempts
	}
	tolerance := cfg.StartTolerance
	if tolerance <= 0 {
		tolerance = DefaultStartTolerance
	}
	maxSeg := cfg.MaxSegmentLength
	if maxSeg <= 0 {
		maxSeg = shortestEdgeLength(p) / 6
	}
	if maxSeg <= 0 || math.IsInf(maxSeg, 0) {
		return nil, &GeometryError{Op: "TriangulatePanel", Detail: fmt.Sprintf("panel %q has no usable segment length", p.Name)}
	}

	var lastErr error
	lastTolerance := tolerance
	for attempt := 0; attempt < attempts; attempt++ {
		lastTolerance = tolerance
		mesh, err := triangulateOnce(p, tri, maxSeg, tolerance, cfg.AttemptTimeout)
		if err == nil {
			return mesh, nil
		}
		lastErr = err
		tolerance *= toleranceGrowth
	}
	return nil, &TriangulationError{
		Panel:         p.Name,
		Attempts:      attempts,
		LastTolerance: lastTolerance,
		Class:         classify(lastErr),
		Err:           lastErr,
	}
}

func triangulateOnce(p *Panel, tri Triangulator, maxSeg, tolerance float64, timeout time.Duration) (*MeshTopology, error) {
	boundary, edgeVerts, err := discretizeBoundary(p, maxSeg, tolerance)
	if err != nil {
		return nil, err
	}
	tris, err := runTriangulator(tri, boundary, timeout)
	if err != nil {
		return nil, err
	}
	if err := validateMesh(boundary, tris); err != nil {
		return nil, err
	}
	return &MeshTopology{Vertices: boundary, Triangles: tris, EdgeVertices: edgeVerts}, nil
}
