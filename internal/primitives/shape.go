package primitives

import (
	"fmt"
	"math"
	"sort"
	"strconv"
	"strings"

	"github.com/go-gl/mathgl/mgl32"
)

// Shape is a canonical solid the factory knows how to build.
type Shape int

const (
	ShapeUnknown Shape = iota
	ShapeBox
	ShapeCylinder
	ShapeCone
	ShapeSphere
)

// DefaultSections is the radial resolution used when a cylinder or cone request leaves
// Sections at zero. Low tessellation keeps generated ships cheap to draw.
const DefaultSections = 8

var shapeNames = map[Shape]string{
	ShapeBox:      "box",
	ShapeCylinder: "cylinder",
	ShapeCone:     "cone",
	ShapeSphere:   "sphere",
}

func (s Shape) String() string {
	if name, ok := shapeNames[s]; ok {
		return name
	}
	return "unknown(" + strconv.Itoa(int(s)) + ")"
}

// ParseShape maps a shape name ("box", "cylinder", "cone", "sphere") to a Shape.
// Unrecognized names return ShapeUnknown, which the factory builds as a unit box.
func ParseShape(name string) Shape {
	name = strings.ToLower(strings.TrimSpace(name))
	for s, n := range shapeNames {
		if n == name {
			return s
		}
	}
	return ShapeUnknown
}

// Params describes one primitive. Only the fields the shape uses take part in its key:
// Extents for boxes; Radius, Height, Sections for cylinders and cones; Radius and
// Subdivisions for spheres. Zero Sections means DefaultSections. Subdivisions is taken
// as given, so zero requests the bare icosahedron.
type Params struct {
	Extents      mgl32.Vec3
	Radius       float32
	Height       float32
	Sections     int
	Subdivisions int
}

// quantum is the grid float parameters snap to before keying, so values that differ only
// by float noise share one cache entry.
const quantum = 1e-4

// snap rounds v to the quantum grid. NaN and infinities pass through.
func snap(v float32) float32 {
	if math.IsNaN(float64(v)) || math.IsInf(float64(v), 0) {
		return v
	}
	q := math.Round(float64(v) / quantum)
	if q == 0 {
		return 0
	}
	return float32(q * quantum)
}

func quantize(v float32) string {
	if math.IsNaN(float64(v)) || math.IsInf(float64(v), 0) {
		return strconv.FormatFloat(float64(v), 'f', -1, 32)
	}
	return strconv.FormatFloat(float64(v), 'f', 4, 64)
}

// normalized snaps the float fields and fills defaults. The factory builds from the
// normalized params, so everything sharing a key also shares its geometry.
func (p Params) normalized(s Shape) Params {
	p.Extents = mgl32.Vec3{snap(p.Extents[0]), snap(p.Extents[1]), snap(p.Extents[2])}
	p.Radius = snap(p.Radius)
	p.Height = snap(p.Height)
	if (s == ShapeCylinder || s == ShapeCone) && p.Sections == 0 {
		p.Sections = DefaultSections
	}
	return p
}

// fields returns the parameters relevant to s as name/value pairs.
func (p Params) fields(s Shape) map[string]string {
	switch s {
	case ShapeBox:
		return map[string]string{
			"extents": quantize(p.Extents[0]) + "," + quantize(p.Extents[1]) + "," + quantize(p.Extents[2]),
		}
	case ShapeCylinder, ShapeCone:
		return map[string]string{
			"radius":   quantize(p.Radius),
			"height":   quantize(p.Height),
			"sections": strconv.Itoa(p.Sections),
		}
	case ShapeSphere:
		return map[string]string{
			"radius":       quantize(p.Radius),
			"subdivisions": strconv.Itoa(p.Subdivisions),
		}
	default:
		return nil
	}
}

// Key returns the cache key for shape s with parameters p: the shape name followed by
// its relevant parameters sorted by name. Equal keys always build identical geometry.
func Key(s Shape, p Params) string {
	p = p.normalized(s)
	f := p.fields(s)
	names := make([]string, 0, len(f))
	for name := range f {
		names = append(names, name)
	}
	sort.Strings(names)
	var b strings.Builder
	b.WriteString(s.String())
	for _, name := range names {
		fmt.Fprintf(&b, "|%s=%s", name, f[name])
	}
	return b.String()
}
