package pattern

import (
	"testing"

	"github.com/google/go-cmp/cmp/cmpopts"
)

func TestConventionMapping(t *testing.T) {
	v := Vec3{1, 2, 3}
	diff(t, Vec3{1, -3, 2}, v.ToRenderer())
	diff(t, v, v.ToRenderer().ToBody())
	diff(t, v, v.ToBody().ToRenderer())
}

func TestRotateEuler(t *testing.T) {
	approx := cmpopts.EquateApprox(0, 1e-12)
	diff(t, Vec3{0, 1, 0}, RotateEuler(Vec3{1, 0, 0}, Vec3{0, 0, 90}), approx)
	diff(t, Vec3{0, 0, 1}, RotateEuler(Vec3{0, 1, 0}, Vec3{90, 0, 0}), approx)
	diff(t, Vec3{1, 0, 0}, RotateEuler(Vec3{0, 0, 1}, Vec3{0, 90, 0}), approx)
	// x then y then z on a unit x vector: x leaves it alone, y sends it
	// to -z, z leaves -z alone.
	diff(t, Vec3{0, 0, -1}, RotateEuler(Vec3{1, 0, 0}, Vec3{90, 90, 90}), approx)
}

func TestPlaceMeshTranslationOnly(t *testing.T) {
	p := mustPanel(t, "p", rectangleEdges(4, 2))
	p.Translation = Vec3{1, 2, 3}
	mesh := &MeshTopology{Vertices: []Point{Pt(0, 0), Pt(4, 0), Pt(4, 2), Pt(0, 2)}}

	got := PlaceMesh(p, mesh)
	approx := cmpopts.EquateApprox(0, 1e-12)
	// A local point (x, y) faces the viewer at (x, 0, y); the body
	// translation (1, 2, 3) is (1, -3, 2) in renderer axes.
	diff(t, []Vec3{
		{1, -3, 2},
		{5, -3, 2},
		{5, -3, 4},
		{1, -3, 4},
	}, got, approx)
}

func TestPlaceMeshRotated(t *testing.T) {
	p := mustPanel(t, "p", rectangleEdges(4, 2))
	// Body-convention y spin: the panel turns around the vertical axis,
	// which is z in renderer axes.
	p.Rotation = Vec3{0, 90, 0}
	mesh := &MeshTopology{Vertices: []Point{Pt(1, 0)}}

	got := PlaceMesh(p, mesh)
	approx := cmpopts.EquateApprox(0, 1e-12)
	diff(t, []Vec3{{0, 1, 0}}, got, approx)
}

func TestAlignPanels(t *testing.T) {
	pat := twoPanelPattern(t)
	front, _ := pat.Panel("front")
	front.Anchor = &PanelAnchor{Landmark: "neck", Local: Pt(2, 2)}

	pat.AlignPanels(LandmarkSet{"neck": Vec3{0, -3, 150}})

	// Renderer (0, -3, 150) is body (0, 150, 3).
	diff(t, Vec3{-2, 148, 3}, front.Translation)

	back, _ := pat.Panel("back")
	diff(t, Vec3{}, back.Translation)
}

func TestAlignPanelsMissingLandmark(t *testing.T) {
	pat := twoPanelPattern(t)
	front, _ := pat.Panel("front")
	front.Anchor = &PanelAnchor{Landmark: "hip", Local: Pt(0, 0)}
	front.Translation = Vec3{9, 9, 9}

	pat.AlignPanels(LandmarkSet{"neck": Vec3{0, 0, 0}})
	diff(t, Vec3{9, 9, 9}, front.Translation)
}
