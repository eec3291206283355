package ship

import (
	"errors"
	"fmt"
	"math/rand/v2"
	"sort"
	"strings"

	"github.com/go-gl/mathgl/mgl32"
)

// ErrUnknownClass is returned by ForClass for names outside Classes().
var ErrUnknownClass = errors.New("unknown ship class")

// Ship class names.
const (
	ClassFighter = "fighter"
	ClassCruiser = "cruiser"
	ClassCapital = "capital"
	ClassCustom  = "custom"
)

// Template is an ordered list of component placements. Order decides face and
// color order in the generated mesh.
type Template struct {
	Class      string
	Components []ComponentConfig
}

// Clone returns a copy whose component slice can be changed freely.
func (t Template) Clone() Template {
	return Template{Class: t.Class, Components: append([]ComponentConfig(nil), t.Components...)}
}

// EnabledCount returns how many components will produce geometry.
func (t Template) EnabledCount() int {
	n := 0
	for _, c := range t.Components {
		if c.Enabled {
			n++
		}
	}
	return n
}

// Count returns how many components of type ct the template holds, enabled or not.
func (t Template) Count(ct ComponentType) int {
	n := 0
	for _, c := range t.Components {
		if c.Type == ct {
			n++
		}
	}
	return n
}

func v(x, y, z float32) mgl32.Vec3 { return mgl32.Vec3{x, y, z} }

// classTemplates are the read-only built-in architectures. ForClass hands out clones.
var classTemplates = map[string]Template{
	// Few, small parts.
	ClassFighter: {Class: ClassFighter, Components: []ComponentConfig{
		NewComponent(Hull, v(0, 0, 0)).WithScale(v(1.0, 0.5, 3.0)),
		NewComponent(Engine, v(0, 0, -1.8)),
		NewComponent(Weapon, v(0.7, 0, 0.5)),
		NewComponent(Weapon, v(-0.7, 0, 0.5)),
		NewComponent(Bridge, v(0, 0.4, 0.6)).WithScale(v(0.5, 0.3, 0.6)),
	}},
	// Balanced.
	ClassCruiser: {Class: ClassCruiser, Components: []ComponentConfig{
		NewComponent(Hull, v(0, 0, 0)).WithScale(v(2.0, 1.0, 5.0)),
		NewComponent(Engine, v(0, 0, -3.0)).WithScale(v(1.5, 1.5, 1.2)),
		NewComponent(Weapon, v(1.2, 0.2, 1.0)).WithRotation(v(0, 0.1, 0)),
		NewComponent(Weapon, v(-1.2, 0.2, 1.0)).WithRotation(v(0, -0.1, 0)),
		NewComponent(Cargo, v(0, -0.6, -0.5)).WithScale(v(1.5, 0.6, 2.0)),
		NewComponent(Bridge, v(0, 0.7, 1.5)).WithScale(v(0.8, 0.5, 1.0)),
		NewComponent(Sensor, v(0, 1.1, 2.0)),
	}},
	// Larger scales throughout.
	ClassCapital: {Class: ClassCapital, Components: []ComponentConfig{
		NewComponent(Hull, v(0, 0, 0)).WithScale(v(4.0, 2.0, 10.0)),
		NewComponent(Engine, v(0, 0, -5.8)).WithScale(v(3.0, 3.0, 1.5)),
		NewComponent(Weapon, v(2.2, 0.5, 2.0)).WithScale(v(1.5, 1.5, 1.5)),
		NewComponent(Weapon, v(-2.2, 0.5, 2.0)).WithScale(v(1.5, 1.5, 1.5)),
		NewComponent(Weapon, v(0, 1.3, 3.0)).WithScale(v(1.5, 1.5, 1.5)),
		NewComponent(Cargo, v(0, -1.3, -1.0)).WithScale(v(3.0, 1.0, 4.0)),
		NewComponent(Bridge, v(0, 1.4, -2.0)).WithScale(v(1.5, 0.8, 2.0)),
		NewComponent(Sensor, v(0, 2.2, -2.0)).WithScale(v(1.5, 1.5, 1.5)),
	}},
}

// Classes returns the built-in class names, sorted.
func Classes() []string {
	names := make([]string, 0, len(classTemplates))
	for name := range classTemplates {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// ForClass returns a copy of the built-in template for a class name (case-insensitive).
func ForClass(name string) (Template, error) {
	t, ok := classTemplates[strings.ToLower(strings.TrimSpace(name))]
	if !ok {
		return Template{}, fmt.Errorf("%w: %q", ErrUnknownClass, name)
	}
	return t.Clone(), nil
}

// Custom template limits. The hull is always present, so at most one of each other type.
var customTypes = []ComponentType{Engine, Weapon, Bridge, Sensor, Cargo}

const (
	MinCustomComponents = 3
	MaxCustomComponents = 6 // len(customTypes) + 1
)

// Bounds for randomized custom placement.
var (
	customPosMin   = v(-2, -1, -3)
	customPosMax   = v(2, 1, 3)
	customScaleMin = float32(0.5)
	customScaleMax = float32(1.5)
	customHull     = v(1.5, 0.8, 3.0)
)

// ClampCustomCount clamps n to [MinCustomComponents, MaxCustomComponents].
func ClampCustomCount(n int) int {
	return max(MinCustomComponents, min(n, MaxCustomComponents))
}

// Custom builds a randomized template of n components (clamped). The hull always comes
// first; the rest cycle through engine, weapon, bridge, sensor, cargo with random
// position within fixed bounds and random per-axis scale in [0.5, 1.5].
func Custom(n int, rng *rand.Rand) Template {
	n = ClampCustomCount(n)
	t := Template{Class: ClassCustom, Components: make([]ComponentConfig, 0, n)}
	t.Components = append(t.Components, NewComponent(Hull, v(0, 0, 0)).WithScale(customHull))
	for i := 1; i < n; i++ {
		ct := customTypes[(i-1)%len(customTypes)]
		var pos, scale mgl32.Vec3
		for a := 0; a < 3; a++ {
			pos[a] = customPosMin[a] + rng.Float32()*(customPosMax[a]-customPosMin[a])
			scale[a] = customScaleMin + rng.Float32()*(customScaleMax-customScaleMin)
		}
		t.Components = append(t.Components, NewComponent(ct, pos).WithScale(scale))
	}
	return t
}

// Jitter chances and range.
const (
	JitterChance = 0.9
	JitterMin    = float32(0.8)
	JitterMax    = float32(1.2)
)

// Jitter returns a copy of t in which each component, with probability JitterChance, has
// its scale multiplied per axis by an independent factor in [JitterMin, JitterMax].
// Other components keep their declared scale. Repeated ships of one class look different
// but stay recognizable.
func Jitter(t Template, rng *rand.Rand) Template {
	out := t.Clone()
	for i := range out.Components {
		if rng.Float64() >= JitterChance {
			continue
		}
		for a := 0; a < 3; a++ {
			out.Components[i].Scale[a] *= JitterMin + rng.Float32()*(JitterMax-JitterMin)
		}
	}
	return out
}
