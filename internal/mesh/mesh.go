package mesh

import (
	"errors"
	"fmt"

	"github.com/chewxy/math32"
	"github.com/go-gl/mathgl/mgl32"
	"github.com/jinzhu/copier"
)

var (
	// ErrEmpty is returned when an operation needs at least one face.
	ErrEmpty = errors.New("mesh: empty")
	// ErrInvalid is returned for out-of-range indices, non-finite coordinates,
	// or a face color table that does not match the face count.
	ErrInvalid = errors.New("mesh: invalid")
)

// Color is an RGBA color, one per face.
type Color [4]uint8

// DefaultColor is the grey assigned to faces of freshly built primitives.
var DefaultColor = Color{128, 128, 128, 255}

// Mesh is an indexed triangle mesh. Faces index into Vertices; FaceColors has one
// entry per face. This is the shape the renderer and the exporters consume.
type Mesh struct {
	Vertices   []mgl32.Vec3
	Faces      [][3]uint32
	FaceColors []Color
}

// VertexCount returns the number of vertices.
func (m *Mesh) VertexCount() int {
	return len(m.Vertices)
}

// FaceCount returns the number of triangles.
func (m *Mesh) FaceCount() int {
	return len(m.Faces)
}

// IsEmpty returns true if the mesh has no triangles.
func (m *Mesh) IsEmpty() bool {
	return m == nil || len(m.Faces) == 0
}

// Clone returns a deep copy. Cached primitives are always handed out as clones so
// per-component transforms never reach the cached original.
func (m *Mesh) Clone() *Mesh {
	out := &Mesh{}
	if err := copier.CopyWithOption(out, m, copier.Option{DeepCopy: true}); err != nil {
		// copier only fails on mismatched kinds; fall back to a manual copy.
		out = &Mesh{
			Vertices:   append([]mgl32.Vec3(nil), m.Vertices...),
			Faces:      append([][3]uint32(nil), m.Faces...),
			FaceColors: append([]Color(nil), m.FaceColors...),
		}
	}
	return out
}

// Validate checks that every face references an existing vertex, every coordinate
// is finite, and there is exactly one color per face.
func (m *Mesh) Validate() error {
	if m == nil {
		return fmt.Errorf("%w: nil mesh", ErrInvalid)
	}
	for i, v := range m.Vertices {
		if !finite(v) {
			return fmt.Errorf("%w: vertex %d is not finite", ErrInvalid, i)
		}
	}
	n := uint32(len(m.Vertices))
	for i, f := range m.Faces {
		if f[0] >= n || f[1] >= n || f[2] >= n {
			return fmt.Errorf("%w: face %d references vertex out of range", ErrInvalid, i)
		}
	}
	if len(m.FaceColors) != len(m.Faces) {
		return fmt.Errorf("%w: %d face colors for %d faces", ErrInvalid, len(m.FaceColors), len(m.Faces))
	}
	return nil
}

// Bounds returns the axis-aligned bounding box. An empty mesh returns zero vectors.
func (m *Mesh) Bounds() (lo, hi mgl32.Vec3) {
	if len(m.Vertices) == 0 {
		return lo, hi
	}
	lo, hi = m.Vertices[0], m.Vertices[0]
	for _, v := range m.Vertices[1:] {
		for a := 0; a < 3; a++ {
			lo[a] = math32.Min(lo[a], v[a])
			hi[a] = math32.Max(hi[a], v[a])
		}
	}
	return lo, hi
}

// FaceNormal returns the unit normal of face i, or zero for a degenerate triangle.
func (m *Mesh) FaceNormal(i int) mgl32.Vec3 {
	f := m.Faces[i]
	a, b, c := m.Vertices[f[0]], m.Vertices[f[1]], m.Vertices[f[2]]
	n := b.Sub(a).Cross(c.Sub(a))
	if l := n.Len(); l > 0 {
		return n.Mul(1 / l)
	}
	return mgl32.Vec3{}
}

// Translate moves every vertex by offset.
func (m *Mesh) Translate(offset mgl32.Vec3) error {
	if !finite(offset) {
		return fmt.Errorf("%w: translation %v", ErrInvalid, offset)
	}
	for i := range m.Vertices {
		m.Vertices[i] = m.Vertices[i].Add(offset)
	}
	return nil
}

// Rotate applies Euler angles in radians, X then Y then Z, about the origin.
func (m *Mesh) Rotate(euler mgl32.Vec3) error {
	if !finite(euler) {
		return fmt.Errorf("%w: rotation %v", ErrInvalid, euler)
	}
	q := mgl32.AnglesToQuat(euler[0], euler[1], euler[2], mgl32.XYZ)
	for i := range m.Vertices {
		m.Vertices[i] = q.Rotate(m.Vertices[i])
	}
	return nil
}

// Scale multiplies each vertex per axis about the origin.
func (m *Mesh) Scale(s mgl32.Vec3) error {
	if !finite(s) {
		return fmt.Errorf("%w: scale %v", ErrInvalid, s)
	}
	for i, v := range m.Vertices {
		m.Vertices[i] = mgl32.Vec3{v[0] * s[0], v[1] * s[1], v[2] * s[2]}
	}
	return nil
}

// SetColor paints every face with c.
func (m *Mesh) SetColor(c Color) {
	if len(m.FaceColors) != len(m.Faces) {
		m.FaceColors = make([]Color, len(m.Faces))
	}
	for i := range m.FaceColors {
		m.FaceColors[i] = c
	}
}

// Concatenate merges meshes in order into a new mesh. Face indices of each input are
// shifted past the vertices of the inputs before it, so face and color order follow
// argument order.
func Concatenate(meshes ...*Mesh) (*Mesh, error) {
	var nv, nf int
	for i, m := range meshes {
		if err := m.Validate(); err != nil {
			return nil, fmt.Errorf("concatenate part %d: %w", i, err)
		}
		nv += len(m.Vertices)
		nf += len(m.Faces)
	}
	if nf == 0 {
		return nil, ErrEmpty
	}
	if uint64(nv) > uint64(^uint32(0)) {
		return nil, fmt.Errorf("%w: %d vertices exceed index range", ErrInvalid, nv)
	}
	out := &Mesh{
		Vertices:   make([]mgl32.Vec3, 0, nv),
		Faces:      make([][3]uint32, 0, nf),
		FaceColors: make([]Color, 0, nf),
	}
	for _, m := range meshes {
		base := uint32(len(out.Vertices))
		out.Vertices = append(out.Vertices, m.Vertices...)
		for _, f := range m.Faces {
			out.Faces = append(out.Faces, [3]uint32{f[0] + base, f[1] + base, f[2] + base})
		}
		out.FaceColors = append(out.FaceColors, m.FaceColors...)
	}
	return out, nil
}

func finite(v mgl32.Vec3) bool {
	for _, c := range v {
		if math32.IsNaN(c) || math32.IsInf(c, 0) {
			return false
		}
	}
	return true
}
