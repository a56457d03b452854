package pattern

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// The JSON exchange format is frozen by an external garment-pattern
// specification: a top-level object with "panels" mapping panel name to
// its edge loop and 3D placement, and "stitches" listing endpoint pairs.
//
// Edge records chain: each record carries only its end point, the start
// point being the previous record's end (the first edge starts at the
// last edge's end, closing the loop). A curve's control point is stored
// chord-relative: control = start + c[0]*chord + c[1]*perp(chord).
// Only quadratic curves are representable; cubics must be approximated
// before export.

type jsonEdge struct {
	Type     string      `json:"type"`
	Endpoint [2]float64  `json:"endpoint"`
	Control  *[2]float64 `json:"control,omitempty"`
}

type jsonPanel struct {
	Edges       []jsonEdge `json:"edges"`
	Translation [3]float64 `json:"translation"`
	Rotation    [3]float64 `json:"rotation"`
}

type jsonStitchEndpoint struct {
	Panel string `json:"panel"`
	Edge  int    `json:"edge"`
}

// controlToRelative expresses a curve's control point in its chord
// frame: fraction along the chord and signed perpendicular fraction.
func controlToRelative(start, end, control Point) ([2]float64, bool) {
	chord := end.Sub(start)
	d := chord.Hypot2()
	if d == 0 {
		return [2]float64{}, false
	}
	cv := control.Sub(start)
	return [2]float64{chord.Dot(cv) / d, chord.Cross(cv) / d}, true
}

func controlToAbsolute(start, end Point, rel [2]float64) Point {
	chord := end.Sub(start)
	perp := Vec(-chord.Y, chord.X)
	return start.Translate(chord.Mul(rel[0]).Add(perp.Mul(rel[1])))
}

func panelToJSON(p *Panel) (jsonPanel, error) {
	jp := jsonPanel{
		Edges:       make([]jsonEdge, 0, p.EdgeCount()),
		Translation: [3]float64{p.Translation.X, p.Translation.Y, p.Translation.Z},
		Rotation:    [3]float64{p.Rotation.X, p.Rotation.Y, p.Rotation.Z},
	}
	for i, e := range p.edges {
		rec := jsonEdge{Endpoint: [2]float64{e.End.X, e.End.Y}}
		switch e.Kind {
		case LineKind:
			rec.Type = "line"
		case CurveKind:
			rec.Type = "curve"
			rel, ok := controlToRelative(e.Start, e.End, e.Control)
			if !ok {
				return jsonPanel{}, &GeometryError{Op: "MarshalJSON", Detail: fmt.Sprintf("panel %q edge %d has a zero-length chord", p.Name, i)}
			}
			rec.Control = &rel
		}
		jp.Edges = append(jp.Edges, rec)
	}
	return jp, nil
}

func panelFromJSON(name string, jp jsonPanel) (*Panel, error) {
	n := len(jp.Edges)
	if n < 3 {
		return nil, &ParseError{Format: "json", Where: name, Detail: fmt.Sprintf("%d edges, need at least 3", n)}
	}
	edges := make([]Edge, 0, n)
	for i, rec := range jp.Edges {
		prev := jp.Edges[(i+n-1)%n]
		start := Pt(prev.Endpoint[0], prev.Endpoint[1])
		end := Pt(rec.Endpoint[0], rec.Endpoint[1])
		switch rec.Type {
		case "line":
			edges = append(edges, LineEdge(start, end))
		case "curve":
			if rec.Control == nil {
				return nil, &ParseError{Format: "json", Where: name, Detail: fmt.Sprintf("edge %d: curve without control", i)}
			}
			edges = append(edges, CurveEdge(start, end, controlToAbsolute(start, end, *rec.Control)))
		default:
			return nil, &ParseError{Format: "json", Where: name, Detail: fmt.Sprintf("edge %d: unknown type %q", i, rec.Type)}
		}
	}
	panel, err := NewPanel(name, edges)
	if err != nil {
		return nil, &ParseError{Format: "json", Where: name, Detail: err.Error()}
	}
	panel.Translation = Vec3{jp.Translation[0], jp.Translation[1], jp.Translation[2]}
	panel.Rotation = Vec3{jp.Rotation[0], jp.Rotation[1], jp.Rotation[2]}
	return panel, nil
}

// MarshalJSON emits the exchange format with panels in insertion order.
func (p *Pattern) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteString(`{"panels":{`)
	for i, panel := range p.panels {
		if i > 0 {
			buf.WriteByte(',')
		}
		name, err := json.Marshal(panel.Name)
		if err != nil {
			return nil, err
		}
		buf.Write(name)
		buf.WriteByte(':')
		jp, err := panelToJSON(panel)
		if err != nil {
			return nil, err
		}
		body, err := json.Marshal(jp)
		if err != nil {
			return nil, err
		}
		buf.Write(body)
	}
	buf.WriteString(`},"stitches":`)
	stitches := make([][2]jsonStitchEndpoint, len(p.stitches))
	for i, s := range p.stitches {
		stitches[i] = [2]jsonStitchEndpoint{
			{Panel: s[0].Panel, Edge: s[0].Edge},
			{Panel: s[1].Panel, Edge: s[1].Edge},
		}
	}
	body, err := json.Marshal(stitches)
	if err != nil {
		return nil, err
	}
	buf.Write(body)
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// UnmarshalJSON parses the exchange format, preserving the order panels
// appear in. On any error the pattern is left unchanged.
func (p *Pattern) UnmarshalJSON(data []byte) error {
	parsed, err := PatternFromJSON(data)
	if err != nil {
		return err
	}
	*p = *parsed
	return nil
}

// PatternFromJSON parses a pattern from the exchange format. The order
// in which panels appear in the "panels" object becomes the pattern's
// panel order.
func PatternFromJSON(data []byte) (*Pattern, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()

	expect := func(want json.Delim) error {
		tok, err := dec.Token()
		if err != nil {
			return &ParseError{Format: "json", Detail: err.Error()}
		}
		if d, ok := tok.(json.Delim); !ok || d != want {
			return &ParseError{Format: "json", Detail: fmt.Sprintf("expected %q, got %v", want, tok)}
		}
		return nil
	}

	if err := expect('{'); err != nil {
		return nil, err
	}
	out := NewPattern()
	var stitches [][2]jsonStitchEndpoint
	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return nil, &ParseError{Format: "json", Detail: err.Error()}
		}
		key, _ := tok.(string)
		switch key {
		case "panels":
			if err := expect('{'); err != nil {
				return nil, err
			}
			for dec.More() {
				tok, err := dec.Token()
				if err != nil {
					return nil, &ParseError{Format: "json", Detail: err.Error()}
				}
				name, _ := tok.(string)
				var jp jsonPanel
				if err := dec.Decode(&jp); err != nil {
					return nil, &ParseError{Format: "json", Where: name, Detail: err.Error()}
				}
				panel, err := panelFromJSON(name, jp)
				if err != nil {
					return nil, err
				}
				if err := out.AddPanel(panel); err != nil {
					return nil, &ParseError{Format: "json", Where: name, Detail: "duplicate panel name"}
				}
			}
			if err := expect('}'); err != nil {
				return nil, err
			}
		case "stitches":
			if err := dec.Decode(&stitches); err != nil {
				return nil, &ParseError{Format: "json", Where: "stitches", Detail: err.Error()}
			}
		default:
			// Skip unknown top-level fields.
			var skip json.RawMessage
			if err := dec.Decode(&skip); err != nil {
				return nil, &ParseError{Format: "json", Detail: err.Error()}
			}
		}
	}
	if err := expect('}'); err != nil {
		return nil, err
	}

	for i, s := range stitches {
		a := StitchEndpoint{Panel: s[0].Panel, Edge: s[0].Edge}
		b := StitchEndpoint{Panel: s[1].Panel, Edge: s[1].Edge}
		if err := out.AddStitch(a, b); err != nil {
			return nil, &ParseError{Format: "json", Where: fmt.Sprintf("stitches[%d]", i), Detail: err.Error()}
		}
	}
	return out, nil
}
