// Package generator turns ship templates into a single colored mesh.
//
// For each enabled component it asks the primitive factory for the component's solid,
// places and colors it, then concatenates all parts in template order. Failures degrade
// instead of aborting: a component that cannot be built is skipped, and a ship with no
// buildable component comes back as a placeholder box.
package generator

import (
	"math/rand/v2"
	"sync"
	"time"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"spaceship-designer/internal/mesh"
	"spaceship-designer/internal/metrics"
	"spaceship-designer/internal/primitives"
	"spaceship-designer/internal/ship"
)

// PlaceholderColor paints the stand-in box returned when nothing could be built.
var PlaceholderColor = mesh.Color{255, 0, 255, 255}

// Generator builds ships. It is safe for concurrent use: the factory serializes cache
// access, and the generator guards its random source and statistics.
type Generator struct {
	factory *primitives.Factory
	log     *zap.Logger
	metrics *metrics.Metrics

	mu    sync.Mutex
	rng   *rand.Rand
	stats Stats
}

// Option configures a Generator.
type Option func(*Generator)

// WithLogger sets the logger used for skipped components and fallbacks.
func WithLogger(log *zap.Logger) Option {
	return func(g *Generator) {
		if log != nil {
			g.log = log
		}
	}
}

// WithRand sets the random source for jitter and custom templates. Use a seeded source
// for reproducible sessions.
func WithRand(rng *rand.Rand) Option {
	return func(g *Generator) {
		if rng != nil {
			g.rng = rng
		}
	}
}

// WithSeed is WithRand with a PCG source seeded from seed.
func WithSeed(seed uint64) Option {
	return WithRand(rand.New(rand.NewPCG(seed, seed^0x5deece66d)))
}

// WithMetrics records every generation in m.
func WithMetrics(m *metrics.Metrics) Option {
	return func(g *Generator) { g.metrics = m }
}

// New returns a generator drawing primitives from factory.
func New(factory *primitives.Factory, opts ...Option) *Generator {
	g := &Generator{
		factory: factory,
		log:     zap.NewNop(),
		rng:     rand.New(rand.NewPCG(uint64(time.Now().UnixNano()), 0)),
	}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// Factory returns the primitive factory the generator draws from.
func (g *Generator) Factory() *primitives.Factory {
	return g.factory
}

// Stats returns the running totals.
func (g *Generator) Stats() Stats {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.stats
}

// GenerateByClass builds a fighter, cruiser or capital ship. With randomize set, each
// component's scale is jittered first (see ship.Jitter). An unknown class is logged and
// built as a fighter so the caller still gets a ship.
func (g *Generator) GenerateByClass(class string, randomize bool) *ShipResult {
	tpl, err := ship.ForClass(class)
	if err != nil {
		g.log.Warn("unknown ship class, using fighter", zap.String("class", class))
		tpl, _ = ship.ForClass(ship.ClassFighter)
	}
	if randomize {
		g.mu.Lock()
		tpl = ship.Jitter(tpl, g.rng)
		g.mu.Unlock()
	}
	return g.GenerateFromTemplate(tpl)
}

// GenerateCustom builds a randomized ship of n components (clamped to the custom range).
func (g *Generator) GenerateCustom(n int) *ShipResult {
	g.mu.Lock()
	tpl := ship.Custom(n, g.rng)
	g.mu.Unlock()
	return g.GenerateFromTemplate(tpl)
}

// GenerateFromTemplate builds the ship described by tpl without randomization. It never
// fails: components that cannot be built are skipped and recorded in Skipped, and if no
// geometry remains the result is a placeholder box.
func (g *Generator) GenerateFromTemplate(tpl ship.Template) *ShipResult {
	start := time.Now()
	res := &ShipResult{
		ID:       uuid.NewString(),
		Class:    tpl.Class,
		Template: tpl.Clone(),
	}

	parts := make([]*mesh.Mesh, 0, len(tpl.Components))
	for i, c := range tpl.Components {
		if !c.Enabled {
			continue
		}
		m, err := g.buildComponent(c)
		if err != nil {
			g.log.Warn("component skipped",
				zap.String("ship", res.ID),
				zap.Int("index", i),
				zap.Stringer("type", c.Type),
				zap.Error(err))
			res.Skipped = append(res.Skipped, err.Error())
			continue
		}
		parts = append(parts, m)
	}

	combined, err := mesh.Concatenate(parts...)
	if err != nil {
		g.log.Warn("ship fell back to placeholder",
			zap.String("ship", res.ID),
			zap.String("class", tpl.Class),
			zap.Int("parts", len(parts)),
			zap.Error(err))
		combined = g.placeholder()
		res.Placeholder = true
		parts = parts[:0]
	}

	res.Mesh = combined
	res.Vertices = combined.VertexCount()
	res.Faces = combined.FaceCount()
	res.Components = len(parts)
	res.Cache = g.factory.Stats()
	res.GenerationTime = time.Since(start)

	g.mu.Lock()
	g.stats.ShipsGenerated++
	g.stats.TotalTime += res.GenerationTime
	g.mu.Unlock()

	g.metrics.ObserveShip(tpl.Class, res.GenerationTime, len(res.Skipped), res.Placeholder)
	g.log.Debug("ship generated",
		zap.String("ship", res.ID),
		zap.String("class", res.Class),
		zap.Int("components", res.Components),
		zap.Int("vertices", res.Vertices),
		zap.Int("faces", res.Faces),
		zap.Duration("took", res.GenerationTime))
	return res
}

// placeholder is a unit box in the placeholder color, built outside the cache.
func (g *Generator) placeholder() *mesh.Mesh {
	m, _ := mesh.Box(mgl32.Vec3{1, 1, 1})
	m.SetColor(PlaceholderColor)
	return m
}
