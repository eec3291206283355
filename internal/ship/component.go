package ship

import (
	"fmt"
	"strings"

	"github.com/go-gl/mathgl/mgl32"
	"gopkg.in/yaml.v3"

	"spaceship-designer/internal/mesh"
)

// ComponentType is the role a component plays in a ship.
type ComponentType int

const (
	Hull ComponentType = iota
	Engine
	Weapon
	Sensor
	Cargo
	Bridge
)

// invalidType marks a decoded component whose type field was missing.
const invalidType ComponentType = -1

var typeNames = [...]string{
	Hull:   "hull",
	Engine: "engine",
	Weapon: "weapon",
	Sensor: "sensor",
	Cargo:  "cargo",
	Bridge: "bridge",
}

// ComponentTypes lists every type in declaration order.
func ComponentTypes() []ComponentType {
	return []ComponentType{Hull, Engine, Weapon, Sensor, Cargo, Bridge}
}

func (t ComponentType) String() string {
	if t >= 0 && int(t) < len(typeNames) {
		return typeNames[t]
	}
	return fmt.Sprintf("ComponentType(%d)", int(t))
}

// Valid reports whether t is one of the declared types.
func (t ComponentType) Valid() bool {
	return t >= Hull && t <= Bridge
}

// ParseComponentType maps a name such as "engine" to its type.
func ParseComponentType(name string) (ComponentType, error) {
	name = strings.ToLower(strings.TrimSpace(name))
	for i, n := range typeNames {
		if n == name {
			return ComponentType(i), nil
		}
	}
	return invalidType, fmt.Errorf("unknown component type %q", name)
}

// MarshalYAML writes the type by name.
func (t ComponentType) MarshalYAML() (interface{}, error) {
	if !t.Valid() {
		return nil, fmt.Errorf("cannot encode %s", t)
	}
	return t.String(), nil
}

// UnmarshalYAML reads the type by name.
func (t *ComponentType) UnmarshalYAML(value *yaml.Node) error {
	var name string
	if err := value.Decode(&name); err != nil {
		return err
	}
	parsed, err := ParseComponentType(name)
	if err != nil {
		return err
	}
	*t = parsed
	return nil
}

// ComponentConfig places one component in a ship. Position is the offset from the ship
// origin, Scale the per-axis size, Rotation Euler angles in radians. Disabled components
// contribute no geometry. MaterialID selects a Palette color.
type ComponentConfig struct {
	Type       ComponentType `yaml:"type"`
	Position   mgl32.Vec3    `yaml:"position,flow"`
	Scale      mgl32.Vec3    `yaml:"scale,flow"`
	Rotation   mgl32.Vec3    `yaml:"rotation,flow"`
	Enabled    bool          `yaml:"enabled"`
	MaterialID int           `yaml:"material_id"`
}

// NewComponent returns an enabled component of type t at position with unit scale,
// no rotation, and the type's own palette slot.
func NewComponent(t ComponentType, position mgl32.Vec3) ComponentConfig {
	return ComponentConfig{
		Type:       t,
		Position:   position,
		Scale:      mgl32.Vec3{1, 1, 1},
		Enabled:    true,
		MaterialID: int(t),
	}
}

// WithScale returns c with the given scale.
func (c ComponentConfig) WithScale(s mgl32.Vec3) ComponentConfig {
	c.Scale = s
	return c
}

// WithRotation returns c with the given Euler rotation.
func (c ComponentConfig) WithRotation(r mgl32.Vec3) ComponentConfig {
	c.Rotation = r
	return c
}

// UnmarshalYAML applies defaults (unit scale, enabled) for omitted fields and
// rejects components without a type.
func (c *ComponentConfig) UnmarshalYAML(value *yaml.Node) error {
	type plain ComponentConfig
	p := plain{
		Type:       invalidType,
		Scale:      mgl32.Vec3{1, 1, 1},
		Enabled:    true,
		MaterialID: -1,
	}
	if err := value.Decode(&p); err != nil {
		return err
	}
	if p.Type == invalidType {
		return fmt.Errorf("line %d: component without type", value.Line)
	}
	if p.MaterialID < 0 {
		p.MaterialID = int(p.Type)
	}
	*c = ComponentConfig(p)
	return nil
}

// Palette is the fixed set of material colors, indexed by MaterialID.
// The first six slots line up with the component types.
var Palette = []mesh.Color{
	Hull:   {112, 128, 144, 255}, // slate grey
	Engine: {255, 140, 0, 255},   // orange
	Weapon: {200, 30, 30, 255},   // red
	Sensor: {0, 200, 220, 255},   // cyan
	Cargo:  {150, 110, 60, 255},  // brown
	Bridge: {230, 230, 240, 255}, // white
	6:      {40, 60, 160, 255},   // navy
	7:      {60, 160, 60, 255},   // green
}

// ColorFor returns Palette[materialID], or the type's own slot when the id is out of range.
func ColorFor(t ComponentType, materialID int) mesh.Color {
	if materialID >= 0 && materialID < len(Palette) {
		return Palette[materialID]
	}
	if t.Valid() {
		return Palette[t]
	}
	return mesh.DefaultColor
}
