package pattern

import (
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
)

// SVGOptions specifies optional settings for the SVG writers.
type SVGOptions struct {
	// The maximum precision with which to format coordinates. A value of 0
	// chooses the highest precision necessary to unambiguously represent
	// any given coordinate.
	MaxPrecision int
	// Gap is the horizontal spacing between panels in Pattern.SVG. A
	// value of 0 chooses a default.
	Gap float64
}

const defaultSVGGap = 10

func svgFormat(n float64, maxPrec int) string {
	if maxPrec <= 0 {
		return strconv.FormatFloat(n, 'f', -1, 64)
	}
	s := strconv.FormatFloat(n, 'f', maxPrec, 64)
	s = strings.TrimRight(s, "0")
	return strings.TrimRight(s, ".")
}

// SVGPath renders the panel's outline as an SVG path "d" string of
// absolute M, L, Q and Z commands.
func (p *Panel) SVGPath(opts SVGOptions) string {
	format := func(n float64) string { return svgFormat(n, opts.MaxPrecision) }
	sb := &strings.Builder{}
	fmt.Fprintf(sb, "M%s,%s", format(p.edges[0].Start.X), format(p.edges[0].Start.Y))
	for _, e := range p.edges {
		switch e.Kind {
		case LineKind:
			fmt.Fprintf(sb, " L%s,%s", format(e.End.X), format(e.End.Y))
		case CurveKind:
			fmt.Fprintf(sb, " Q%s,%s %s,%s",
				format(e.Control.X), format(e.Control.Y),
				format(e.End.X), format(e.End.Y))
		}
	}
	sb.WriteString(" Z")
	return sb.String()
}

// SVG renders the pattern as a complete SVG document, panels laid out
// side by side in panel order. Coordinates are emitted as stored; the
// document's viewBox covers the laid-out panels.
func (p *Pattern) SVG(opts SVGOptions) string {
	gap := opts.Gap
	if gap == 0 {
		gap = defaultSVGGap
	}

	var paths []string
	var bounds Rect
	x := 0.0
	for i, panel := range p.panels {
		bbox := panel.BoundingBox()
		laid := &Panel{Name: panel.Name, edges: panel.Edges()}
		laid.TranslateBy(Vec(x-bbox.X0, -bbox.Y0))
		x += bbox.Width() + gap
		lb := laid.BoundingBox()
		if i == 0 {
			bounds = lb
		} else {
			bounds = bounds.Union(lb)
		}
		paths = append(paths, fmt.Sprintf("  <path id=%q fill=\"none\" stroke=\"black\" d=%q/>",
			panel.Name, laid.SVGPath(opts)))
	}

	sb := &strings.Builder{}
	fmt.Fprintf(sb, "<svg xmlns=\"http://www.w3.org/2000/svg\" viewBox=\"%s %s %s %s\">\n",
		svgFormat(bounds.X0, opts.MaxPrecision), svgFormat(bounds.Y0, opts.MaxPrecision),
		svgFormat(bounds.Width(), opts.MaxPrecision), svgFormat(bounds.Height(), opts.MaxPrecision))
	for _, path := range paths {
		sb.WriteString(path)
		sb.WriteByte('\n')
	}
	sb.WriteString("</svg>\n")
	return sb.String()
}

// SVGImportOptions specifies optional settings for the SVG importers.
type SVGImportOptions struct {
	// CubicToQuad enables approximating cubic path commands with
	// quadratic curves. Without it, cubic input is a ParseError.
	CubicToQuad bool
	// Tolerance is the maximum approximation deviation, in the input's
	// units. A value of 0 chooses DefaultCubicTolerance.
	Tolerance float64
	// YDown treats the input as screen space: the shape is flipped
	// vertically into cartesian space and recentered on the origin.
	YDown bool
}

// DefaultCubicTolerance is the cubic approximation tolerance used by the
// SVG importers when none is configured.
const DefaultCubicTolerance = 0.1

// pathParser scans an SVG path "d" attribute.
type pathParser struct {
	d     string
	pos   int
	where string
}

func (p *pathParser) skipSep() {
	for p.pos < len(p.d) {
		switch p.d[p.pos] {
		case ' ', '\t', '\n', '\r', ',':
			p.pos++
		default:
			return
		}
	}
}

func (p *pathParser) errf(format string, args ...any) error {
	return &ParseError{Format: "svg", Where: p.where, Detail: fmt.Sprintf(format, args...) + fmt.Sprintf(" at offset %d", p.pos)}
}

// startsNumber reports whether a number can start at the current
// position. Used to detect implicit command repetition.
func (p *pathParser) startsNumber() bool {
	if p.pos >= len(p.d) {
		return false
	}
	c := p.d[p.pos]
	return c == '+' || c == '-' || c == '.' || (c >= '0' && c <= '9')
}

func (p *pathParser) number() (float64, error) {
	p.skipSep()
	start := p.pos
	if p.pos < len(p.d) && (p.d[p.pos] == '+' || p.d[p.pos] == '-') {
		p.pos++
	}
	for p.pos < len(p.d) && p.d[p.pos] >= '0' && p.d[p.pos] <= '9' {
		p.pos++
	}
	if p.pos < len(p.d) && p.d[p.pos] == '.' {
		p.pos++
		for p.pos < len(p.d) && p.d[p.pos] >= '0' && p.d[p.pos] <= '9' {
			p.pos++
		}
	}
	if p.pos < len(p.d) && (p.d[p.pos] == 'e' || p.d[p.pos] == 'E') {
		p.pos++
		if p.pos < len(p.d) && (p.d[p.pos] == '+' || p.d[p.pos] == '-') {
			p.pos++
		}
		for p.pos < len(p.d) && p.d[p.pos] >= '0' && p.d[p.pos] <= '9' {
			p.pos++
		}
	}
	if p.pos == start {
		return 0, p.errf("expected number")
	}
	n, err := strconv.ParseFloat(p.d[start:p.pos], 64)
	if err != nil {
		return 0, p.errf("malformed number %q", p.d[start:p.pos])
	}
	return n, nil
}

func (p *pathParser) point() (Point, error) {
	x, err := p.number()
	if err != nil {
		return Point{}, err
	}
	y, err := p.number()
	if err != nil {
		return Point{}, err
	}
	return Pt(x, y), nil
}

// parse scans the path into a closed edge loop. Supported commands are
// M/m, L/l, H/h, V/v, Q/q, C/c and Z/z, absolute and relative, with
// implicit command repetition. A repeated moveto continues as lineto,
// per the SVG specification.
func (p *pathParser) parse(opts SVGImportOptions) ([]Edge, error) {
	tolerance := opts.Tolerance
	if tolerance == 0 {
		tolerance = DefaultCubicTolerance
	}

	var (
		edges   []Edge
		cur     Point
		start   Point
		cmd     byte
		started bool
		closed  bool
	)
	emit := func(e Edge) {
		// Zero-length segments are dropped rather than rejected;
		// authoring tools emit them freely.
		if e.Kind == LineKind && e.Start == e.End {
			return
		}
		edges = append(edges, e)
	}
	for {
		p.skipSep()
		if p.pos >= len(p.d) {
			break
		}
		c := p.d[p.pos]
		if c >= 'A' && c <= 'Z' || c >= 'a' && c <= 'z' {
			cmd = c
			p.pos++
		} else if cmd == 0 {
			return nil, p.errf("path must start with a command")
		} else if !p.startsNumber() {
			return nil, p.errf("unexpected character %q", c)
		} else {
			// Implicit repetition of the previous command.
			if cmd == 'M' {
				cmd = 'L'
			} else if cmd == 'm' {
				cmd = 'l'
			}
		}
		if closed && cmd != 'z' && cmd != 'Z' {
			return nil, p.errf("command after close; multiple subpaths are not supported")
		}
		if !started && cmd != 'M' && cmd != 'm' {
			return nil, p.errf("path must start with a moveto")
		}

		rel := cmd >= 'a' && cmd <= 'z'
		abs := func(pt Point) Point {
			if rel {
				return cur.Translate(Vec(pt.X, pt.Y))
			}
			return pt
		}
		switch cmd {
		case 'M', 'm':
			if started {
				return nil, p.errf("multiple subpaths are not supported")
			}
			pt, err := p.point()
			if err != nil {
				return nil, err
			}
			cur = abs(pt)
			start = cur
			started = true
		case 'L', 'l':
			pt, err := p.point()
			if err != nil {
				return nil, err
			}
			end := abs(pt)
			emit(LineEdge(cur, end))
			cur = end
		case 'H', 'h':
			x, err := p.number()
			if err != nil {
				return nil, err
			}
			end := Pt(x, cur.Y)
			if rel {
				end = Pt(cur.X+x, cur.Y)
			}
			emit(LineEdge(cur, end))
			cur = end
		case 'V', 'v':
			y, err := p.number()
			if err != nil {
				return nil, err
			}
			end := Pt(cur.X, y)
			if rel {
				end = Pt(cur.X, cur.Y+y)
			}
			emit(LineEdge(cur, end))
			cur = end
		case 'Q', 'q':
			ctrl, err := p.point()
			if err != nil {
				return nil, err
			}
			pt, err := p.point()
			if err != nil {
				return nil, err
			}
			end := abs(pt)
			emit(CurveEdge(cur, end, abs(ctrl)))
			cur = end
		case 'C', 'c':
			c1, err := p.point()
			if err != nil {
				return nil, err
			}
			c2, err := p.point()
			if err != nil {
				return nil, err
			}
			pt, err := p.point()
			if err != nil {
				return nil, err
			}
			if !opts.CubicToQuad {
				return nil, p.errf("cubic command without cubic approximation enabled")
			}
			end := abs(pt)
			for _, e := range (CubicBez{cur, abs(c1), abs(c2), end}).ApproxQuads(tolerance) {
				emit(e)
			}
			cur = end
		case 'Z', 'z':
			if cur.Distance(start) > closureEpsilon {
				emit(LineEdge(cur, start))
			}
			cur = start
			closed = true
		default:
			return nil, p.errf("unsupported command %q", cmd)
		}
	}
	if !closed && started && cur.Distance(start) > closureEpsilon {
		return nil, p.errf("path is not closed")
	}
	return edges, nil
}

// PanelFromSVGPath builds a panel from an SVG path "d" attribute.
func PanelFromSVGPath(name, d string, opts SVGImportOptions) (*Panel, error) {
	parser := &pathParser{d: d, where: name}
	edges, err := parser.parse(opts)
	if err != nil {
		return nil, err
	}
	if len(edges) < 3 {
		return nil, &ParseError{Format: "svg", Where: name, Detail: fmt.Sprintf("%d edges, need at least 3", len(edges))}
	}
	panel, err := NewPanel(name, edges)
	if err != nil {
		return nil, &ParseError{Format: "svg", Where: name, Detail: err.Error()}
	}
	if opts.YDown {
		panel.Scale(1, -1)
		center := panel.Center()
		panel.TranslateBy(Vec(-center.X, -center.Y))
	}
	return panel, nil
}

// PatternFromSVG parses an SVG document, turning every <path> element
// into a panel. A path's id attribute names its panel; paths without an
// id are numbered.
func PatternFromSVG(data []byte, opts SVGImportOptions) (*Pattern, error) {
	type svgPath struct {
		ID string `xml:"id,attr"`
		D  string `xml:"d,attr"`
	}
	dec := xml.NewDecoder(strings.NewReader(string(data)))
	out := NewPattern()
	n := 0
	for {
		tok, err := dec.Token()
		if err != nil {
			if errors.Is(err, io.EOF) {
				break
			}
			return nil, &ParseError{Format: "svg", Detail: err.Error()}
		}
		se, ok := tok.(xml.StartElement)
		if !ok || se.Name.Local != "path" {
			continue
		}
		var path svgPath
		if err := dec.DecodeElement(&path, &se); err != nil {
			return nil, &ParseError{Format: "svg", Detail: err.Error()}
		}
		name := path.ID
		if name == "" {
			name = fmt.Sprintf("panel%d", n)
		}
		panel, err := PanelFromSVGPath(name, path.D, opts)
		if err != nil {
			return nil, err
		}
		if err := out.AddPanel(panel); err != nil {
			return nil, &ParseError{Format: "svg", Where: name, Detail: "duplicate path id"}
		}
		n++
	}
	if out.PanelCount() == 0 {
		return nil, &ParseError{Format: "svg", Detail: "no path elements found"}
	}
	return out, nil
}
