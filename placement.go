package pattern

import "math"

// Vec3 is a 3D vector. Which axis convention its components are in
// depends on context; see Convention.
type Vec3 struct {
	X float64
	Y float64
	Z float64
}

func (v Vec3) Add(o Vec3) Vec3 {
	return Vec3{v.X + o.X, v.Y + o.Y, v.Z + o.Z}
}

func (v Vec3) IsFinite() bool {
	return !math.IsInf(v.X, 0) && !math.IsNaN(v.X) &&
		!math.IsInf(v.Y, 0) && !math.IsNaN(v.Y) &&
		!math.IsInf(v.Z, 0) && !math.IsNaN(v.Z)
}

// Convention identifies one of the two 3D axis conventions exchanged
// with the external body/simulation collaborator. Panel placement is
// stored in the body convention; landmark sets and placed meshes use the
// renderer convention.
type Convention int

const (
	// Body is x right, y up, z forward.
	Body Convention = iota
	// Renderer is x right, y backward, z up.
	Renderer
)

// ToRenderer remaps a body-convention vector into the renderer
// convention. The mapping is the signed axis permutation
// (x, y, z) -> (x, -z, y).
func (v Vec3) ToRenderer() Vec3 {
	return Vec3{v.X, -v.Z, v.Y}
}

// ToBody is the inverse of ToRenderer.
func (v Vec3) ToBody() Vec3 {
	return Vec3{v.X, v.Z, -v.Y}
}

// RotateEuler rotates v by Euler angles in degrees, applied about the
// x axis, then y, then z.
func RotateEuler(v Vec3, degrees Vec3) Vec3 {
	sx, cx := math.Sincos(degrees.X * math.Pi / 180)
	sy, cy := math.Sincos(degrees.Y * math.Pi / 180)
	sz, cz := math.Sincos(degrees.Z * math.Pi / 180)

	// x axis
	v = Vec3{v.X, cx*v.Y - sx*v.Z, sx*v.Y + cx*v.Z}
	// y axis
	v = Vec3{cy*v.X + sy*v.Z, v.Y, -sy*v.X + cy*v.Z}
	// z axis
	return Vec3{cz*v.X - sz*v.Y, sz*v.X + cz*v.Y, v.Z}
}

// PlaceMesh applies a panel's Euler rotation and translation to the 2D
// vertices of its mesh and returns the placed vertices in the renderer
// convention. A panel-local point (x, y) starts out facing the viewer,
// at (x, 0, y) in renderer axes.
func PlaceMesh(p *Panel, mesh *MeshTopology) []Vec3 {
	// The stored rotation is body-convention Euler angles; in renderer
	// axes the y and z rotations trade places.
	rot := Vec3{p.Rotation.X, p.Rotation.Z, p.Rotation.Y}
	tr := p.Translation.ToRenderer()

	placed := make([]Vec3, len(mesh.Vertices))
	for i, v := range mesh.Vertices {
		placed[i] = RotateEuler(Vec3{v.X, 0, v.Y}, rot).Add(tr)
	}
	return placed
}

// LandmarkSet maps body landmark names to their 3D positions in the
// renderer convention. It is the surface exposed by the external body
// collaborator.
type LandmarkSet map[string]Vec3

// AlignPanels computes, for every panel with a configured Anchor whose
// landmark is present in landmarks, the translation that places the
// anchor's local point at the landmark. Panels without an anchor, or
// whose landmark is missing, are left unmodified.
func (p *Pattern) AlignPanels(landmarks LandmarkSet) {
	for _, panel := range p.panels {
		if panel.Anchor == nil {
			continue
		}
		target, ok := landmarks[panel.Anchor.Landmark]
		if !ok {
			continue
		}
		panel.AlignTranslation(panel.Anchor.Local, target, Renderer)
	}
}
