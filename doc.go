// Package pattern turns 2D garment cutting patterns into validated,
// simulation-ready geometry, and back into interchange formats.
//
// A [Pattern] is an ordered collection of named [Panel] values, each a
// closed loop of straight and quadratic Bézier [Edge] segments, plus the
// [Stitch] topology declaring how panel edges are sewn together in 3D.
// All 2D coordinates are panel-local centimeters.
//
// # Features
//
// We provide the following notable features:
//
//   - Approximating cubic Béziers with lines and quadratics (see [CubicBez.ApproxQuads])
//   - Panel simplification (see [Panel.StraightenCurves] and [Panel.UnsplitLines])
//   - Canonical edge ordering (see [Panel.NormalizeEdgeOrder])
//   - Half-panel unfolding (see [Panel.Unfold])
//   - Stitch topology validation (see [Pattern.AddStitch])
//   - Retry-driven constrained triangulation (see [TriangulatePanel])
//   - 3D placement and axis-convention mapping (see [PlaceMesh] and [Pattern.AlignPanels])
//   - A frozen JSON exchange format (see [PatternFromJSON]) and an SVG
//     path subset (see [PatternFromSVG])
//
// # Edges and panels
//
// [Edge] is a tagged value: a straight line or a quadratic Bézier, always
// directed from Start to End. Panels require at least three edges forming
// a closed loop. Edge order is meaningful: stitches reference edges by
// index, so [Panel.Finalize] freezes a panel's edge sequence and
// reordering operations fail afterwards. Quadratics are the only curves
// the exchange format can represent; cubic input from SVG is approximated
// on import.
//
// # Meshing
//
// [TriangulatePanel] discretizes a panel outline and hands it to a
// constrained Delaunay triangulation. The backend is treated as
// adversarial: attempts are sandboxed, validated, and retried with an
// escalating point merge tolerance before a [TriangulationError] is
// surfaced.
//
// # Concurrency
//
// The engine is synchronous. Distinct Pattern values share no state and
// may be processed concurrently; mutation of one Pattern must be
// serialized by the caller.
package pattern
