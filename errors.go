package pattern

import "fmt"

// GeometryError reports invalid geometric input, such as an open panel
// contour or a non-finite coordinate.
type GeometryError struct {
	Op     string
	Detail string
}

func (e *GeometryError) Error() string {
	if e.Op == "" {
		return "geometry: " + e.Detail
	}
	return fmt.Sprintf("geometry: %s: %s", e.Op, e.Detail)
}

// ParseError reports malformed interchange input, with enough location
// information to find the offending element.
type ParseError struct {
	Format string // "json" or "svg"
	Where  string // element or field location, e.g. a path id or panel name
	Detail string
}

func (e *ParseError) Error() string {
	if e.Where == "" {
		return fmt.Sprintf("parse %s: %s", e.Format, e.Detail)
	}
	return fmt.Sprintf("parse %s: %s: %s", e.Format, e.Where, e.Detail)
}

// TopologyError reports an invalid stitch definition.
type TopologyError struct {
	Detail string
}

func (e *TopologyError) Error() string {
	return "stitch topology: " + e.Detail
}

// FailureClass categorizes why a triangulation attempt sequence failed.
type FailureClass int

const (
	FailureUnknown FailureClass = iota
	// FailureNearZeroEdge indicates boundary points closer together
	// than the merge tolerance could not be reconciled.
	FailureNearZeroEdge
	// FailureCrossingEdges indicates a self-intersecting contour.
	FailureCrossingEdges
	// FailureDegenerateAngle indicates a contour angle too sharp for
	// the sweep to resolve.
	FailureDegenerateAngle
	// FailureTimeout indicates an attempt exceeded its time budget.
	FailureTimeout
)

func (c FailureClass) String() string {
	switch c {
	case FailureNearZeroEdge:
		return "near-zero edge"
	case FailureCrossingEdges:
		return "crossing edges"
	case FailureDegenerateAngle:
		return "degenerate angle"
	case FailureTimeout:
		return "timeout"
	default:
		return "unknown"
	}
}

// TriangulationError reports that every triangulation attempt failed. It
// records how many attempts ran, the tolerance of the last one, and a
// best-effort classification of the final failure.
type TriangulationError struct {
	Panel         string
	Attempts      int
	LastTolerance float64
	Class         FailureClass
	Err           error
}

func (e *TriangulationError) Error() string {
	return fmt.Sprintf("triangulate %s: %d attempts failed, last tolerance %g: %s",
		e.Panel, e.Attempts, e.LastTolerance, e.Class)
}

func (e *TriangulationError) Unwrap() error { return e.Err }
