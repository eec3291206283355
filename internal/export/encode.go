// Package export writes generated ship meshes as STL, OBJ, GLB or PLY.
package export

import (
	"bufio"
	"fmt"
	"io"
	"strconv"

	"github.com/hschendel/stl"
	"github.com/qmuntal/gltf"
	"github.com/qmuntal/gltf/modeler"

	"spaceship-designer/internal/mesh"
)

// Encode writes m to w in format f. OBJ output carries usemtl lines but no mtllib
// reference; Exporter writes the companion .mtl when saving to a file.
func Encode(w io.Writer, m *mesh.Mesh, f Format) error {
	if m.IsEmpty() {
		return mesh.ErrEmpty
	}
	if err := m.Validate(); err != nil {
		return err
	}
	switch f {
	case OBJ:
		return writeOBJ(w, m, "")
	case GLB:
		return writeGLB(w, m)
	case PLY:
		return writePLY(w, m)
	default:
		return writeSTL(w, m)
	}
}

// stlColor packs a face color into the attribute word as 15-bit RGB with the
// "color valid" bit set, the VisCAM/SolidView convention.
func stlColor(c mesh.Color) uint16 {
	return 0x8000 | uint16(c[0]>>3)<<10 | uint16(c[1]>>3)<<5 | uint16(c[2]>>3)
}

func toSTL(m *mesh.Mesh) *stl.Solid {
	solid := &stl.Solid{
		Name:      "ship",
		Triangles: make([]stl.Triangle, len(m.Faces)),
	}
	for i, f := range m.Faces {
		t := &solid.Triangles[i]
		t.Normal = stl.Vec3(m.FaceNormal(i))
		for k := 0; k < 3; k++ {
			t.Vertices[k] = stl.Vec3(m.Vertices[f[k]])
		}
		t.Attributes = stlColor(m.FaceColors[i])
	}
	return solid
}

func writeSTL(w io.Writer, m *mesh.Mesh) error {
	if err := toSTL(m).WriteAll(w); err != nil {
		return fmt.Errorf("write stl: %w", err)
	}
	return nil
}

// writeGLB emits one mesh with one triangle primitive. Vertices are unwelded so every
// face keeps its own flat color in COLOR_0.
func writeGLB(w io.Writer, m *mesh.Mesh) error {
	positions := make([][3]float32, 0, 3*len(m.Faces))
	colors := make([][4]uint8, 0, 3*len(m.Faces))
	indices := make([]uint32, 0, 3*len(m.Faces))
	for i, f := range m.Faces {
		for k := 0; k < 3; k++ {
			indices = append(indices, uint32(len(positions)))
			positions = append(positions, m.Vertices[f[k]])
			colors = append(colors, m.FaceColors[i])
		}
	}

	doc := gltf.NewDocument()
	doc.Asset.Generator = "spaceship-designer"
	prim := &gltf.Primitive{
		Indices: gltf.Index(modeler.WriteIndices(doc, indices)),
		Attributes: gltf.PrimitiveAttributes{
			gltf.POSITION: modeler.WritePosition(doc, positions),
			gltf.COLOR_0:  modeler.WriteColor(doc, colors),
		},
	}
	doc.Meshes = append(doc.Meshes, &gltf.Mesh{Name: "ship", Primitives: []*gltf.Primitive{prim}})
	doc.Nodes = append(doc.Nodes, &gltf.Node{Name: "ship", Mesh: gltf.Index(0)})
	doc.Scenes[0].Nodes = append(doc.Scenes[0].Nodes, 0)

	enc := gltf.NewEncoder(w)
	enc.AsBinary = true
	if err := enc.Encode(doc); err != nil {
		return fmt.Errorf("write glb: %w", err)
	}
	return nil
}

func ftoa(v float32) string {
	return strconv.FormatFloat(float64(v), 'g', -1, 32)
}

// materials returns the distinct face colors in order of first use.
func materials(m *mesh.Mesh) []mesh.Color {
	seen := make(map[mesh.Color]bool)
	var out []mesh.Color
	for _, c := range m.FaceColors {
		if !seen[c] {
			seen[c] = true
			out = append(out, c)
		}
	}
	return out
}

func materialName(i int) string {
	return "mat" + strconv.Itoa(i)
}

// writeOBJ writes vertices and 1-based faces, switching material whenever the face
// color changes. mtlName, when set, is referenced with mtllib.
func writeOBJ(w io.Writer, m *mesh.Mesh, mtlName string) error {
	bw := bufio.NewWriter(w)
	mats := materials(m)
	index := make(map[mesh.Color]int, len(mats))
	for i, c := range mats {
		index[c] = i
	}

	fmt.Fprintln(bw, "# spaceship-designer")
	if mtlName != "" {
		fmt.Fprintf(bw, "mtllib %s\n", mtlName)
	}
	fmt.Fprintln(bw, "o ship")
	for _, v := range m.Vertices {
		fmt.Fprintf(bw, "v %s %s %s\n", ftoa(v[0]), ftoa(v[1]), ftoa(v[2]))
	}
	current := -1
	for i, f := range m.Faces {
		if mi := index[m.FaceColors[i]]; mi != current {
			current = mi
			fmt.Fprintf(bw, "usemtl %s\n", materialName(mi))
		}
		fmt.Fprintf(bw, "f %d %d %d\n", f[0]+1, f[1]+1, f[2]+1)
	}
	if err := bw.Flush(); err != nil {
		return fmt.Errorf("write obj: %w", err)
	}
	return nil
}

func writeMTL(w io.Writer, m *mesh.Mesh) error {
	bw := bufio.NewWriter(w)
	for i, c := range materials(m) {
		fmt.Fprintf(bw, "newmtl %s\n", materialName(i))
		fmt.Fprintf(bw, "Kd %s %s %s\n", unit(c[0]), unit(c[1]), unit(c[2]))
		fmt.Fprintf(bw, "d %s\n\n", unit(c[3]))
	}
	if err := bw.Flush(); err != nil {
		return fmt.Errorf("write mtl: %w", err)
	}
	return nil
}

func unit(b uint8) string {
	return strconv.FormatFloat(float64(b)/255, 'f', 4, 64)
}

// writePLY writes ASCII PLY with per-face RGBA.
func writePLY(w io.Writer, m *mesh.Mesh) error {
	bw := bufio.NewWriter(w)
	fmt.Fprintln(bw, "ply")
	fmt.Fprintln(bw, "format ascii 1.0")
	fmt.Fprintln(bw, "comment spaceship-designer")
	fmt.Fprintf(bw, "element vertex %d\n", len(m.Vertices))
	fmt.Fprintln(bw, "property float x")
	fmt.Fprintln(bw, "property float y")
	fmt.Fprintln(bw, "property float z")
	fmt.Fprintf(bw, "element face %d\n", len(m.Faces))
	fmt.Fprintln(bw, "property list uchar int vertex_indices")
	fmt.Fprintln(bw, "property uchar red")
	fmt.Fprintln(bw, "property uchar green")
	fmt.Fprintln(bw, "property uchar blue")
	fmt.Fprintln(bw, "property uchar alpha")
	fmt.Fprintln(bw, "end_header")
	for _, v := range m.Vertices {
		fmt.Fprintf(bw, "%s %s %s\n", ftoa(v[0]), ftoa(v[1]), ftoa(v[2]))
	}
	for i, f := range m.Faces {
		c := m.FaceColors[i]
		fmt.Fprintf(bw, "3 %d %d %d %d %d %d %d\n", f[0], f[1], f[2], c[0], c[1], c[2], c[3])
	}
	if err := bw.Flush(); err != nil {
		return fmt.Errorf("write ply: %w", err)
	}
	return nil
}
