package export

import (
	"bytes"
	"fmt"
	"io/fs"
	"strings"
	"testing"

	"github.com/hack-pad/hackpadfs"
	"github.com/hack-pad/hackpadfs/mem"
	"github.com/hschendel/stl"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/qmuntal/gltf"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"spaceship-designer/internal/generator"
	"spaceship-designer/internal/mesh"
	"spaceship-designer/internal/metrics"
	"spaceship-designer/internal/primitives"
	"spaceship-designer/internal/ship"
)

func fighter(t *testing.T) *generator.ShipResult {
	t.Helper()
	g := generator.New(primitives.NewFactory(0, nil), generator.WithSeed(1))
	res := g.GenerateByClass(ship.ClassFighter, true)
	require.False(t, res.Placeholder)
	return res
}

func memExporter(t *testing.T, opts ...Option) (*Exporter, *mem.FS) {
	t.Helper()
	fsys, err := mem.NewFS()
	require.NoError(t, err)
	return New(fsys, opts...), fsys
}

func TestParseFormat(t *testing.T) {
	assert.Equal(t, OBJ, ParseFormat("OBJ"))
	assert.Equal(t, GLB, ParseFormat(".glb"))
	assert.Equal(t, PLY, ParseFormat(" ply "))
	assert.Equal(t, STL, ParseFormat("stl"))
	assert.Equal(t, STL, ParseFormat("fbx"))
	assert.Equal(t, STL, ParseFormat(""))

	f, ok := FormatFromPath("out/ship.Ply")
	assert.True(t, ok)
	assert.Equal(t, PLY, f)
	f, ok = FormatFromPath("out/ship.3mf")
	assert.False(t, ok)
	assert.Equal(t, STL, f)
	assert.Equal(t, ".glb", GLB.Ext())
}

func TestSTLRoundTripKeepsFaceCount(t *testing.T) {
	res := fighter(t)
	e, _ := memExporter(t)
	require.True(t, e.Export(res, "ships/fighter.stl", STL))

	solid, err := e.ReadSTL("ships/fighter.stl")
	require.NoError(t, err)
	assert.Len(t, solid.Triangles, res.Faces)
	assert.False(t, solid.IsAscii)
	assert.Equal(t, stlColor(ship.Palette[ship.Hull]), solid.Triangles[0].Attributes)
	assert.Equal(t, stl.Vec3(res.Mesh.Vertices[res.Mesh.Faces[0][0]]), solid.Triangles[0].Vertices[0])
}

func TestSTLColorPacking(t *testing.T) {
	assert.Equal(t, uint16(0xFFFF), stlColor(mesh.Color{255, 255, 255, 255}))
	assert.Equal(t, uint16(0x8000), stlColor(mesh.Color{0, 0, 0, 255}))
	assert.Equal(t, uint16(0x8000|31<<10), stlColor(mesh.Color{255, 0, 0, 255}))
}

func TestOBJWritesMaterials(t *testing.T) {
	res := fighter(t)
	e, fsys := memExporter(t)
	require.True(t, e.Export(res, "out/ship.obj", OBJ))

	obj, err := fs.ReadFile(fsys, "out/ship.obj")
	require.NoError(t, err)
	mtl, err := fs.ReadFile(fsys, "out/ship.mtl")
	require.NoError(t, err)

	lines := strings.Split(strings.TrimSpace(string(obj)), "\n")
	var verts, faces, usemtl int
	for _, l := range lines {
		switch {
		case strings.HasPrefix(l, "v "):
			verts++
		case strings.HasPrefix(l, "f "):
			faces++
		case strings.HasPrefix(l, "usemtl "):
			usemtl++
		}
	}
	assert.Equal(t, res.Vertices, verts)
	assert.Equal(t, res.Faces, faces)
	// hull, engine, weapons (one color), bridge: four runs, four materials.
	assert.Equal(t, 4, usemtl)
	assert.Contains(t, string(obj), "mtllib ship.mtl")
	assert.Equal(t, 4, strings.Count(string(mtl), "newmtl "))
}

func TestPLYHeader(t *testing.T) {
	res := fighter(t)
	var buf bytes.Buffer
	require.NoError(t, Encode(&buf, res.Mesh, PLY))
	out := buf.String()
	assert.True(t, strings.HasPrefix(out, "ply\nformat ascii 1.0\n"))
	assert.Contains(t, out, "element vertex 62\n")
	assert.Contains(t, out, "element face 104\n")

	body := strings.SplitN(out, "end_header\n", 2)[1]
	rows := strings.Split(strings.TrimSpace(body), "\n")
	assert.Len(t, rows, res.Vertices+res.Faces)
	c := ship.Palette[ship.Hull]
	assert.True(t, strings.HasSuffix(rows[res.Vertices],
		fmt.Sprintf(" %d %d %d %d", c[0], c[1], c[2], c[3])))
}

func TestGLBDecodes(t *testing.T) {
	res := fighter(t)
	var buf bytes.Buffer
	require.NoError(t, Encode(&buf, res.Mesh, GLB))
	assert.Equal(t, "glTF", buf.String()[:4])

	var doc gltf.Document
	require.NoError(t, gltf.NewDecoder(bytes.NewReader(buf.Bytes())).Decode(&doc))
	require.Len(t, doc.Meshes, 1)
	prim := doc.Meshes[0].Primitives[0]
	require.NotNil(t, prim.Indices)
	assert.Equal(t, 3*res.Faces, int(doc.Accessors[*prim.Indices].Count))
	assert.Contains(t, prim.Attributes, gltf.POSITION)
	assert.Contains(t, prim.Attributes, gltf.COLOR_0)
}

func TestEncodeRejectsEmptyMesh(t *testing.T) {
	var buf bytes.Buffer
	for _, f := range Formats() {
		assert.ErrorIs(t, Encode(&buf, &mesh.Mesh{}, f), mesh.ErrEmpty, f.String())
	}
}

func TestExportFailuresReturnFalse(t *testing.T) {
	core, logs := observer.New(zapcore.WarnLevel)
	reg := prometheus.NewRegistry()
	m := metrics.New(reg)
	e, fsys := memExporter(t, WithLogger(zap.New(core)), WithMetrics(m))
	res := fighter(t)

	require.NoError(t, hackpadfs.WriteFullFile(fsys, "blocked", []byte("x"), 0o644))
	assert.False(t, e.Export(res, "blocked/ship.stl", STL))
	assert.False(t, e.Export(nil, "ship.stl", STL))
	assert.False(t, e.Export(&generator.ShipResult{Mesh: &mesh.Mesh{}}, "empty.glb", GLB))
	assert.False(t, e.Export(res, "../escape.stl", STL))

	broken := &generator.ShipResult{Mesh: res.Mesh.Clone()}
	broken.Mesh.Faces[0][0] = 9999
	assert.False(t, e.Export(broken, "broken.obj", OBJ))
	_, err := fs.Stat(fsys, "broken.mtl")
	assert.Error(t, err, "no companion file for a rejected mesh")

	assert.Equal(t, 5, logs.FilterMessage("export failed").Len())
	assert.True(t, e.Export(res, "ok.ply", PLY))
	assert.Equal(t, 1.0, exportCount(t, reg, "ply", "ok"))
	assert.Equal(t, 3.0, exportCount(t, reg, "stl", "error"))
	assert.Equal(t, 1.0, exportCount(t, reg, "obj", "error"))
}

func exportCount(t *testing.T, reg *prometheus.Registry, format, result string) float64 {
	t.Helper()
	families, err := reg.Gather()
	require.NoError(t, err)
	for _, mf := range families {
		if mf.GetName() != "shipyard_exports_total" {
			continue
		}
		for _, metric := range mf.GetMetric() {
			labels := map[string]string{}
			for _, lp := range metric.GetLabel() {
				labels[lp.GetName()] = lp.GetValue()
			}
			if labels["format"] == format && labels["result"] == result {
				return metric.GetCounter().GetValue()
			}
		}
	}
	return 0
}

func TestExportEveryFormat(t *testing.T) {
	res := fighter(t)
	e, fsys := memExporter(t)
	for _, f := range Formats() {
		name := "all/ship" + f.Ext()
		require.True(t, e.Export(res, name, f), f.String())
		info, err := fs.Stat(fsys, name)
		require.NoError(t, err)
		assert.Positive(t, info.Size())
	}
}
