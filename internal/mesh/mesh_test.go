package mesh

import (
	"math"
	"testing"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPrimitiveCounts(t *testing.T) {
	box, err := Box(mgl32.Vec3{1, 2, 3})
	require.NoError(t, err)
	assert.Equal(t, 8, box.VertexCount())
	assert.Equal(t, 12, box.FaceCount())

	cyl, err := Cylinder(0.5, 2, 8)
	require.NoError(t, err)
	assert.Equal(t, 18, cyl.VertexCount())
	assert.Equal(t, 32, cyl.FaceCount())

	cone, err := Cone(0.5, 1, 6)
	require.NoError(t, err)
	assert.Equal(t, 8, cone.VertexCount())
	assert.Equal(t, 12, cone.FaceCount())

	for s, want := range map[int][2]int{0: {12, 20}, 1: {42, 80}, 2: {162, 320}} {
		sp, err := Sphere(1, s)
		require.NoError(t, err)
		assert.Equal(t, want[0], sp.VertexCount(), "subdivisions %d", s)
		assert.Equal(t, want[1], sp.FaceCount(), "subdivisions %d", s)
	}
}

func TestPrimitivesValidate(t *testing.T) {
	box, _ := Box(mgl32.Vec3{1, 1, 1})
	cyl, _ := Cylinder(1, 1, 8)
	cone, _ := Cone(1, 1, 8)
	sp, _ := Sphere(1, 1)
	for _, m := range []*Mesh{box, cyl, cone, sp} {
		require.NoError(t, m.Validate())
		for _, c := range m.FaceColors {
			assert.Equal(t, DefaultColor, c)
		}
	}
}

func TestBoxBoundsAndWinding(t *testing.T) {
	box, err := Box(mgl32.Vec3{2, 4, 6})
	require.NoError(t, err)
	lo, hi := box.Bounds()
	assert.Equal(t, mgl32.Vec3{-1, -2, -3}, lo)
	assert.Equal(t, mgl32.Vec3{1, 2, 3}, hi)

	// Every face normal points away from the center.
	for i, f := range box.Faces {
		n := box.FaceNormal(i)
		c := box.Vertices[f[0]].Add(box.Vertices[f[1]]).Add(box.Vertices[f[2]]).Mul(1.0 / 3)
		assert.Greater(t, n.Dot(c), float32(0), "face %d", i)
	}
}

func TestSphereRadius(t *testing.T) {
	sp, err := Sphere(2.5, 2)
	require.NoError(t, err)
	for _, v := range sp.Vertices {
		assert.InDelta(t, 2.5, v.Len(), 1e-4)
	}
}

func TestInvalidParameters(t *testing.T) {
	_, err := Box(mgl32.Vec3{1, 0, 1})
	assert.ErrorIs(t, err, ErrInvalid)
	_, err = Cylinder(1, 1, 2)
	assert.ErrorIs(t, err, ErrInvalid)
	_, err = Cone(float32(math.NaN()), 1, 8)
	assert.ErrorIs(t, err, ErrInvalid)
	_, err = Sphere(1, MaxSubdivisions+1)
	assert.ErrorIs(t, err, ErrInvalid)
	_, err = Sphere(-1, 1)
	assert.ErrorIs(t, err, ErrInvalid)
}

func TestCloneDoesNotAlias(t *testing.T) {
	orig, err := Box(mgl32.Vec3{1, 1, 1})
	require.NoError(t, err)
	cp := orig.Clone()
	require.NoError(t, cp.Translate(mgl32.Vec3{10, 0, 0}))
	cp.SetColor(Color{255, 0, 0, 255})
	cp.Faces[0] = [3]uint32{7, 7, 7}

	lo, _ := orig.Bounds()
	assert.Equal(t, float32(-0.5), lo[0])
	assert.Equal(t, DefaultColor, orig.FaceColors[0])
	assert.Equal(t, [3]uint32{0, 2, 3}, orig.Faces[0])
}

func TestTransforms(t *testing.T) {
	m := &Mesh{Vertices: []mgl32.Vec3{{1, 0, 0}}}
	require.NoError(t, m.Rotate(mgl32.Vec3{0, 0, math.Pi / 2}))
	assert.InDelta(t, 0, m.Vertices[0][0], 1e-6)
	assert.InDelta(t, 1, m.Vertices[0][1], 1e-6)

	require.NoError(t, m.Translate(mgl32.Vec3{1, 1, 1}))
	assert.InDelta(t, 1, m.Vertices[0][0], 1e-6)
	assert.InDelta(t, 2, m.Vertices[0][1], 1e-6)

	require.NoError(t, m.Scale(mgl32.Vec3{2, 3, 4}))
	assert.InDelta(t, 2, m.Vertices[0][0], 1e-6)
	assert.InDelta(t, 4, m.Vertices[0][2], 1e-6)

	nan := float32(math.NaN())
	assert.ErrorIs(t, m.Rotate(mgl32.Vec3{nan, 0, 0}), ErrInvalid)
	assert.ErrorIs(t, m.Translate(mgl32.Vec3{0, nan, 0}), ErrInvalid)
}

func TestConcatenate(t *testing.T) {
	a, _ := Box(mgl32.Vec3{1, 1, 1})
	b, _ := Cone(1, 1, 4)
	b.SetColor(Color{1, 2, 3, 255})

	out, err := Concatenate(a, b)
	require.NoError(t, err)
	require.NoError(t, out.Validate())
	assert.Equal(t, a.VertexCount()+b.VertexCount(), out.VertexCount())
	assert.Equal(t, a.FaceCount()+b.FaceCount(), out.FaceCount())
	// Second part's faces are shifted past the first part's vertices.
	assert.Equal(t, [3]uint32{8, 9, 12}, out.Faces[12])
	assert.Equal(t, Color{1, 2, 3, 255}, out.FaceColors[12])
	assert.Equal(t, DefaultColor, out.FaceColors[0])
}

func TestConcatenateErrors(t *testing.T) {
	_, err := Concatenate()
	assert.ErrorIs(t, err, ErrEmpty)

	_, err = Concatenate(&Mesh{})
	assert.ErrorIs(t, err, ErrEmpty)

	bad := &Mesh{Vertices: []mgl32.Vec3{{0, 0, 0}}, Faces: [][3]uint32{{0, 1, 2}}, FaceColors: []Color{DefaultColor}}
	_, err = Concatenate(bad)
	assert.ErrorIs(t, err, ErrInvalid)

	_, err = Concatenate(nil)
	assert.ErrorIs(t, err, ErrInvalid)
}
