package pattern

import "fmt"

// StitchEndpoint references one edge of one panel by name and index.
type StitchEndpoint struct {
	Panel string
	Edge  int
}

// Stitch is a directionless pair of stitch endpoints, consumed by
// simulation to join two panel edges in 3D.
type Stitch [2]StitchEndpoint

// Pattern owns an ordered collection of named panels and the stitches
// between their edges. Panels have no identity outside their pattern.
// Exports (JSON, SVG, meshes) are fresh projections; a Pattern has no
// persistence of its own.
type Pattern struct {
	panels   []*Panel
	index    map[string]int
	stitches []Stitch
}

func NewPattern() *Pattern {
	return &Pattern{index: map[string]int{}}
}

// AddPanel appends a panel to the pattern. Panel names are unique within
// a pattern.
func (p *Pattern) AddPanel(panel *Panel) error {
	if _, ok := p.index[panel.Name]; ok {
		return &GeometryError{Op: "AddPanel", Detail: fmt.Sprintf("duplicate panel name %q", panel.Name)}
	}
	p.index[panel.Name] = len(p.panels)
	p.panels = append(p.panels, panel)
	return nil
}

// Panel returns the panel with the given name.
func (p *Pattern) Panel(name string) (*Panel, bool) {
	i, ok := p.index[name]
	if !ok {
		return nil, false
	}
	return p.panels[i], true
}

func (p *Pattern) PanelAt(i int) *Panel { return p.panels[i] }

func (p *Pattern) PanelCount() int { return len(p.panels) }

// Panels returns the panels in insertion order. The slice is a copy, the
// panels are not.
func (p *Pattern) Panels() []*Panel {
	return append([]*Panel(nil), p.panels...)
}

// PanelOrder returns the panel names in insertion order.
func (p *Pattern) PanelOrder() []string {
	names := make([]string, len(p.panels))
	for i, panel := range p.panels {
		names[i] = panel.Name
	}
	return names
}

// RemovePanels deletes the named panels and every stitch that references
// any of them. Unknown names are ignored.
func (p *Pattern) RemovePanels(names ...string) {
	doomed := make(map[string]bool, len(names))
	for _, name := range names {
		doomed[name] = true
	}
	kept := p.panels[:0]
	for _, panel := range p.panels {
		if !doomed[panel.Name] {
			kept = append(kept, panel)
		}
	}
	p.panels = kept
	p.index = make(map[string]int, len(p.panels))
	for i, panel := range p.panels {
		p.index[panel.Name] = i
	}

	stitches := p.stitches[:0]
	for _, s := range p.stitches {
		if !doomed[s[0].Panel] && !doomed[s[1].Panel] {
			stitches = append(stitches, s)
		}
	}
	p.stitches = stitches
}

func (p *Pattern) validateEndpoint(ep StitchEndpoint) error {
	panel, ok := p.Panel(ep.Panel)
	if !ok {
		return &TopologyError{Detail: fmt.Sprintf("panel %q does not exist", ep.Panel)}
	}
	if ep.Edge < 0 || ep.Edge >= panel.EdgeCount() {
		return &TopologyError{Detail: fmt.Sprintf("panel %q edge %d out of range [0,%d)", ep.Panel, ep.Edge, panel.EdgeCount())}
	}
	return nil
}

// AddStitch validates and appends a stitch between two panel edges. Both
// panels must exist, both edge indices must be in range, the two
// endpoints must differ, and neither (panel, edge) pair may already be
// stitched. On failure the stitch list is unchanged and a TopologyError
// identifies the violated constraint.
//
// Adding a stitch finalizes both panels, freezing their edge order so
// the recorded indices stay valid. No geometric compatibility between
// the two edges is enforced; use EdgeLength to check if needed.
func (p *Pattern) AddStitch(a, b StitchEndpoint) error {
	if err := p.validateEndpoint(a); err != nil {
		return err
	}
	if err := p.validateEndpoint(b); err != nil {
		return err
	}
	if a == b {
		return &TopologyError{Detail: fmt.Sprintf("cannot stitch %q edge %d to itself", a.Panel, a.Edge)}
	}
	for _, s := range p.stitches {
		for _, ep := range s {
			if ep == a || ep == b {
				return &TopologyError{Detail: fmt.Sprintf("panel %q edge %d is already stitched", ep.Panel, ep.Edge)}
			}
		}
	}

	pa, _ := p.Panel(a.Panel)
	pb, _ := p.Panel(b.Panel)
	pa.Finalize()
	pb.Finalize()
	p.stitches = append(p.stitches, Stitch{a, b})
	return nil
}

// Stitches returns a copy of the stitch list in insertion order.
func (p *Pattern) Stitches() []Stitch {
	return append([]Stitch(nil), p.stitches...)
}

// EdgeLength returns the arclength of the edge referenced by ep, letting
// callers compare the two sides of a stitch.
func (p *Pattern) EdgeLength(ep StitchEndpoint) (float64, error) {
	if err := p.validateEndpoint(ep); err != nil {
		return 0, err
	}
	panel, _ := p.Panel(ep.Panel)
	return panel.EdgeAt(ep.Edge).Arclen(DefaultAccuracy), nil
}

// NormalizeEdgeOrder normalizes every panel's edge order with the given
// policy. It fails on the first finalized panel encountered.
func (p *Pattern) NormalizeEdgeOrder(policy EdgeOrderPolicy) error {
	for _, panel := range p.panels {
		if err := panel.NormalizeEdgeOrder(policy); err != nil {
			return err
		}
	}
	return nil
}
