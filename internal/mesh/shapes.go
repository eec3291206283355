package mesh

import (
	"fmt"

	"github.com/chewxy/math32"
	"github.com/go-gl/mathgl/mgl32"
)

// MaxSubdivisions caps icosphere refinement; each level multiplies faces by 4.
const MaxSubdivisions = 5

// MinSections is the fewest radial sections a cylinder or cone can have.
const MinSections = 3

// newMesh wraps vertices and faces with the default face color.
func newMesh(verts []mgl32.Vec3, faces [][3]uint32) *Mesh {
	m := &Mesh{Vertices: verts, Faces: faces}
	m.SetColor(DefaultColor)
	return m
}

// Box returns an axis-aligned cuboid centered at the origin with the given full
// extents: 8 vertices, 12 triangles, outward winding.
func Box(extents mgl32.Vec3) (*Mesh, error) {
	if err := positive("box extents", extents[0], extents[1], extents[2]); err != nil {
		return nil, err
	}
	h := extents.Mul(0.5)
	verts := make([]mgl32.Vec3, 8)
	// Bit 0 selects +x, bit 1 +y, bit 2 +z.
	for i := range verts {
		v := mgl32.Vec3{-h[0], -h[1], -h[2]}
		if i&1 != 0 {
			v[0] = h[0]
		}
		if i&2 != 0 {
			v[1] = h[1]
		}
		if i&4 != 0 {
			v[2] = h[2]
		}
		verts[i] = v
	}
	faces := [][3]uint32{
		{0, 2, 3}, {0, 3, 1}, // -z
		{4, 5, 7}, {4, 7, 6}, // +z
		{0, 1, 5}, {0, 5, 4}, // -y
		{2, 6, 7}, {2, 7, 3}, // +y
		{0, 4, 6}, {0, 6, 2}, // -x
		{1, 3, 7}, {1, 7, 5}, // +x
	}
	return newMesh(verts, faces), nil
}

// Cylinder returns a capped cylinder along Z centered at the origin.
// It has 2*sections+2 vertices and 4*sections triangles.
func Cylinder(radius, height float32, sections int) (*Mesh, error) {
	if err := positive("cylinder", radius, height); err != nil {
		return nil, err
	}
	if sections < MinSections {
		return nil, fmt.Errorf("%w: cylinder needs at least %d sections, got %d", ErrInvalid, MinSections, sections)
	}
	n := uint32(sections)
	hz := height / 2
	verts := make([]mgl32.Vec3, 0, 2*sections+2)
	verts = appendRing(verts, radius, -hz, sections)
	verts = appendRing(verts, radius, hz, sections)
	bottom, top := 2*n, 2*n+1
	verts = append(verts, mgl32.Vec3{0, 0, -hz}, mgl32.Vec3{0, 0, hz})

	faces := make([][3]uint32, 0, 4*sections)
	for i := uint32(0); i < n; i++ {
		j := (i + 1) % n
		faces = append(faces,
			[3]uint32{i, j, n + j},
			[3]uint32{i, n + j, n + i},
			[3]uint32{bottom, j, i},
			[3]uint32{top, n + i, n + j},
		)
	}
	return newMesh(verts, faces), nil
}

// Cone returns a cone along Z centered at the origin, apex at +Z, base capped.
// It has sections+2 vertices and 2*sections triangles.
func Cone(radius, height float32, sections int) (*Mesh, error) {
	if err := positive("cone", radius, height); err != nil {
		return nil, err
	}
	if sections < MinSections {
		return nil, fmt.Errorf("%w: cone needs at least %d sections, got %d", ErrInvalid, MinSections, sections)
	}
	n := uint32(sections)
	hz := height / 2
	verts := make([]mgl32.Vec3, 0, sections+2)
	verts = appendRing(verts, radius, -hz, sections)
	apex, base := n, n+1
	verts = append(verts, mgl32.Vec3{0, 0, hz}, mgl32.Vec3{0, 0, -hz})

	faces := make([][3]uint32, 0, 2*sections)
	for i := uint32(0); i < n; i++ {
		j := (i + 1) % n
		faces = append(faces,
			[3]uint32{i, j, apex},
			[3]uint32{base, j, i},
		)
	}
	return newMesh(verts, faces), nil
}

// Sphere returns an icosphere of the given radius. Subdivision 0 is the bare
// icosahedron (12 vertices, 20 faces); each level splits every face in four.
func Sphere(radius float32, subdivisions int) (*Mesh, error) {
	if err := positive("sphere", radius); err != nil {
		return nil, err
	}
	if subdivisions < 0 || subdivisions > MaxSubdivisions {
		return nil, fmt.Errorf("%w: sphere subdivisions %d outside [0,%d]", ErrInvalid, subdivisions, MaxSubdivisions)
	}
	t := (1 + math32.Sqrt(5)) / 2
	verts := []mgl32.Vec3{
		{-1, t, 0}, {1, t, 0}, {-1, -t, 0}, {1, -t, 0},
		{0, -1, t}, {0, 1, t}, {0, -1, -t}, {0, 1, -t},
		{t, 0, -1}, {t, 0, 1}, {-t, 0, -1}, {-t, 0, 1},
	}
	for i := range verts {
		verts[i] = verts[i].Normalize()
	}
	faces := [][3]uint32{
		{0, 11, 5}, {0, 5, 1}, {0, 1, 7}, {0, 7, 10}, {0, 10, 11},
		{1, 5, 9}, {5, 11, 4}, {11, 10, 2}, {10, 7, 6}, {7, 1, 8},
		{3, 9, 4}, {3, 4, 2}, {3, 2, 6}, {3, 6, 8}, {3, 8, 9},
		{4, 9, 5}, {2, 4, 11}, {6, 2, 10}, {8, 6, 7}, {9, 8, 1},
	}
	for s := 0; s < subdivisions; s++ {
		verts, faces = subdivide(verts, faces)
	}
	for i := range verts {
		verts[i] = verts[i].Mul(radius)
	}
	return newMesh(verts, faces), nil
}

// subdivide splits each triangle into four, pushing new midpoints onto the unit sphere.
// Shared edges reuse the same midpoint vertex.
func subdivide(verts []mgl32.Vec3, faces [][3]uint32) ([]mgl32.Vec3, [][3]uint32) {
	mid := make(map[[2]uint32]uint32, len(faces)*3/2)
	midpoint := func(a, b uint32) uint32 {
		key := [2]uint32{a, b}
		if b < a {
			key = [2]uint32{b, a}
		}
		if idx, ok := mid[key]; ok {
			return idx
		}
		idx := uint32(len(verts))
		verts = append(verts, verts[a].Add(verts[b]).Normalize())
		mid[key] = idx
		return idx
	}
	out := make([][3]uint32, 0, len(faces)*4)
	for _, f := range faces {
		ab := midpoint(f[0], f[1])
		bc := midpoint(f[1], f[2])
		ca := midpoint(f[2], f[0])
		out = append(out,
			[3]uint32{f[0], ab, ca},
			[3]uint32{f[1], bc, ab},
			[3]uint32{f[2], ca, bc},
			[3]uint32{ab, bc, ca},
		)
	}
	return verts, out
}

// appendRing appends a circle of n points in the XY plane at height z.
func appendRing(verts []mgl32.Vec3, radius, z float32, n int) []mgl32.Vec3 {
	step := 2 * math32.Pi / float32(n)
	for i := 0; i < n; i++ {
		a := step * float32(i)
		verts = append(verts, mgl32.Vec3{radius * math32.Cos(a), radius * math32.Sin(a), z})
	}
	return verts
}

// positive reports an error unless every value is finite and > 0.
func positive(what string, vals ...float32) error {
	for _, v := range vals {
		if math32.IsNaN(v) || math32.IsInf(v, 0) || v <= 0 {
			return fmt.Errorf("%w: %s dimension %v", ErrInvalid, what, v)
		}
	}
	return nil
}
