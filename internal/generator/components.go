package generator

import (
	"fmt"

	"github.com/chewxy/math32"
	"github.com/go-gl/mathgl/mgl32"

	"spaceship-designer/internal/mesh"
	"spaceship-designer/internal/primitives"
	"spaceship-designer/internal/ship"
)

// Base dimensions of the round components before the component's scale is applied.
const (
	engineRadius   = 0.3
	engineLength   = 1.0
	engineSections = 8

	weaponRadius   = 0.1
	weaponLength   = 1.5
	weaponSections = 6

	sensorRadius       = 0.25
	sensorSubdivisions = 1
)

// primitiveFor maps a component to the factory request that builds it. Boxy parts take
// their extents straight from scale; cylinders run along Z with radius from scale X and
// length from scale Z; sensors are spheres sized by the largest scale axis.
func primitiveFor(c ship.ComponentConfig) (primitives.Shape, primitives.Params) {
	s := c.Scale
	switch c.Type {
	case ship.Hull, ship.Cargo, ship.Bridge:
		return primitives.ShapeBox, primitives.Params{Extents: s}
	case ship.Engine:
		return primitives.ShapeCylinder, primitives.Params{
			Radius:   engineRadius * s[0],
			Height:   engineLength * s[2],
			Sections: engineSections,
		}
	case ship.Weapon:
		return primitives.ShapeCylinder, primitives.Params{
			Radius:   weaponRadius * s[0],
			Height:   weaponLength * s[2],
			Sections: weaponSections,
		}
	case ship.Sensor:
		return primitives.ShapeSphere, primitives.Params{
			Radius:       sensorRadius * math32.Max(s[0], math32.Max(s[1], s[2])),
			Subdivisions: sensorSubdivisions,
		}
	default:
		// Unknown types still get a factory request; the factory answers with a unit box.
		return primitives.ShapeUnknown, primitives.Params{}
	}
}

// buildComponent requests the component's primitive and places it: rotation first (when
// any angle is set), then translation (when off origin), then the material color.
// An error means the component must be skipped.
func (g *Generator) buildComponent(c ship.ComponentConfig) (*mesh.Mesh, error) {
	shape, params := primitiveFor(c)
	m := g.factory.Create(shape, params)
	if m.IsEmpty() {
		return nil, fmt.Errorf("%s: empty %s primitive", c.Type, shape)
	}
	if c.Rotation != (mgl32.Vec3{}) {
		if err := m.Rotate(c.Rotation); err != nil {
			return nil, fmt.Errorf("%s: rotate: %w", c.Type, err)
		}
	}
	if c.Position != (mgl32.Vec3{}) {
		if err := m.Translate(c.Position); err != nil {
			return nil, fmt.Errorf("%s: translate: %w", c.Type, err)
		}
	}
	m.SetColor(ship.ColorFor(c.Type, c.MaterialID))
	if err := m.Validate(); err != nil {
		return nil, fmt.Errorf("%s: %w", c.Type, err)
	}
	return m, nil
}
