package ship

import (
	"math/rand/v2"
	"testing"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"
)

func TestClassCardinality(t *testing.T) {
	want := map[string]int{ClassFighter: 5, ClassCruiser: 7, ClassCapital: 8}
	assert.Equal(t, []string{ClassCapital, ClassCruiser, ClassFighter}, Classes())
	for class, n := range want {
		tpl, err := ForClass(class)
		require.NoError(t, err)
		assert.Len(t, tpl.Components, n, class)
		assert.Equal(t, n, tpl.EnabledCount(), class)
		assert.Equal(t, Hull, tpl.Components[0].Type, class)
		assert.Equal(t, 1, tpl.Count(Hull), class)
		assert.Equal(t, 1, tpl.Count(Bridge), class)
	}
	fighter, _ := ForClass(ClassFighter)
	assert.Equal(t, 2, fighter.Count(Weapon))
	capital, _ := ForClass("Capital")
	assert.Equal(t, 3, capital.Count(Weapon))
}

func TestForClassReturnsCopies(t *testing.T) {
	a, err := ForClass(ClassFighter)
	require.NoError(t, err)
	a.Components[0].Enabled = false
	a.Components[0].Scale = mgl32.Vec3{9, 9, 9}

	b, err := ForClass(ClassFighter)
	require.NoError(t, err)
	assert.True(t, b.Components[0].Enabled)
	assert.Equal(t, mgl32.Vec3{1, 0.5, 3}, b.Components[0].Scale)
}

func TestForClassUnknown(t *testing.T) {
	_, err := ForClass("dreadnought")
	assert.ErrorIs(t, err, ErrUnknownClass)
}

func TestCustomTemplate(t *testing.T) {
	rng := rand.New(rand.NewPCG(1, 2))
	for n := MinCustomComponents; n <= MaxCustomComponents; n++ {
		tpl := Custom(n, rng)
		require.Len(t, tpl.Components, n)
		assert.Equal(t, Hull, tpl.Components[0].Type)
		assert.Equal(t, 1, tpl.Count(Hull))
		assert.Equal(t, ClassCustom, tpl.Class)
		for i, c := range tpl.Components[1:] {
			assert.Equal(t, customTypes[i%len(customTypes)], c.Type)
			for a := 0; a < 3; a++ {
				assert.GreaterOrEqual(t, c.Position[a], customPosMin[a])
				assert.LessOrEqual(t, c.Position[a], customPosMax[a])
				assert.GreaterOrEqual(t, c.Scale[a], customScaleMin)
				assert.LessOrEqual(t, c.Scale[a], customScaleMax)
			}
		}
	}
	assert.Len(t, Custom(1, rng).Components, MinCustomComponents)
	assert.Len(t, Custom(50, rng).Components, MaxCustomComponents)
}

func TestProperty_JitterBounds(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		class := rapid.SampledFrom(Classes()).Draw(rt, "class")
		seed := rapid.Uint64().Draw(rt, "seed")
		orig, err := ForClass(class)
		require.NoError(rt, err)

		got := Jitter(orig, rand.New(rand.NewPCG(seed, seed^0x9e3779b9)))
		require.Len(rt, got.Components, len(orig.Components))
		for i, c := range got.Components {
			o := orig.Components[i]
			require.Equal(rt, o.Type, c.Type)
			require.Equal(rt, o.Position, c.Position)
			for a := 0; a < 3; a++ {
				lo := float64(o.Scale[a]) * 0.8
				hi := float64(o.Scale[a]) * 1.2
				s := float64(c.Scale[a])
				require.GreaterOrEqual(rt, s, lo-1e-6, "component %d axis %d", i, a)
				require.LessOrEqual(rt, s, hi+1e-6, "component %d axis %d", i, a)
			}
		}
	})
}

func TestJitterLeavesInputUntouched(t *testing.T) {
	orig, _ := ForClass(ClassCapital)
	before := orig.Clone()
	_ = Jitter(orig, rand.New(rand.NewPCG(7, 7)))
	assert.Equal(t, before, orig)
}

func TestJitterSometimesKeepsScale(t *testing.T) {
	orig, _ := ForClass(ClassCapital)
	rng := rand.New(rand.NewPCG(3, 4))
	kept, changed := 0, 0
	for i := 0; i < 200; i++ {
		got := Jitter(orig, rng)
		for j, c := range got.Components {
			if c.Scale == orig.Components[j].Scale {
				kept++
			} else {
				changed++
			}
		}
	}
	// 1600 samples at 10% / 90%.
	assert.InDelta(t, 160, kept, 60)
	assert.InDelta(t, 1440, changed, 60)
}

func TestParseComponentType(t *testing.T) {
	for _, ct := range ComponentTypes() {
		got, err := ParseComponentType(ct.String())
		require.NoError(t, err)
		assert.Equal(t, ct, got)
	}
	_, err := ParseComponentType("shield")
	assert.Error(t, err)
	assert.Equal(t, "ComponentType(9)", ComponentType(9).String())
}

func TestColorFor(t *testing.T) {
	assert.Equal(t, Palette[Engine], ColorFor(Engine, int(Engine)))
	assert.Equal(t, Palette[7], ColorFor(Hull, 7))
	assert.Equal(t, Palette[Weapon], ColorFor(Weapon, 99))
	assert.Equal(t, Palette[Sensor], ColorFor(Sensor, -3))
}

func TestConfigRoundTrip(t *testing.T) {
	tpl, _ := ForClass(ClassCruiser)
	tpl.Components[3].Enabled = false
	md := Metadata{Vertices: 120, Faces: 200, GenerationTime: 0.0125, Components: 6}

	data, err := MarshalConfig(tpl, md)
	require.NoError(t, err)
	assert.Contains(t, string(data), "type: weapon")
	assert.Contains(t, string(data), "material_id: 2")

	got, gotMD, err := UnmarshalConfig(data)
	require.NoError(t, err)
	assert.Equal(t, tpl, got)
	assert.Equal(t, md, gotMD)
}

func TestUnmarshalConfigDefaults(t *testing.T) {
	doc := `
components:
  - type: hull
    position: [0, 0, 0]
  - type: sensor
    position: [0, 1, 0]
    scale: [2, 2, 2]
    enabled: false
    material_id: 6
`
	tpl, _, err := UnmarshalConfig([]byte(doc))
	require.NoError(t, err)
	assert.Equal(t, ClassCustom, tpl.Class)
	require.Len(t, tpl.Components, 2)

	hull := tpl.Components[0]
	assert.Equal(t, Hull, hull.Type)
	assert.Equal(t, mgl32.Vec3{1, 1, 1}, hull.Scale)
	assert.True(t, hull.Enabled)
	assert.Equal(t, int(Hull), hull.MaterialID)

	sensor := tpl.Components[1]
	assert.False(t, sensor.Enabled)
	assert.Equal(t, 6, sensor.MaterialID)
	assert.Equal(t, mgl32.Vec3{2, 2, 2}, sensor.Scale)
}

func TestUnmarshalConfigErrors(t *testing.T) {
	_, _, err := UnmarshalConfig([]byte("components:\n  - type: shield\n"))
	assert.ErrorContains(t, err, "unknown component type")

	_, _, err = UnmarshalConfig([]byte("components:\n  - position: [1, 2, 3]\n"))
	assert.ErrorContains(t, err, "without type")

	_, _, err = UnmarshalConfig([]byte("components: [[["))
	assert.Error(t, err)
}
