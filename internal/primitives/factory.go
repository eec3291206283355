package primitives

import (
	"fmt"
	"sync"

	"github.com/go-gl/mathgl/mgl32"
	"go.uber.org/zap"

	"spaceship-designer/internal/mesh"
)

// unitExtents is the size of the fallback box.
var unitExtents = mgl32.Vec3{1, 1, 1}

// Factory builds primitive meshes and caches them by shape and parameters.
// Callers always receive their own copy, so transforming a returned mesh never
// changes what later calls get for the same key.
//
// The cache itself is not synchronized; the factory's mutex serializes every access
// so generation may run on worker goroutines sharing one factory.
type Factory struct {
	mu    sync.Mutex
	cache *Cache
	log   *zap.Logger
}

// NewFactory returns a factory with an LRU cache of the given capacity
// (DefaultCacheSize when <= 0). A nil logger is replaced by a no-op logger.
func NewFactory(capacity int, log *zap.Logger) *Factory {
	if log == nil {
		log = zap.NewNop()
	}
	return &Factory{cache: NewCache(capacity), log: log}
}

// Create returns a copy of the primitive for shape s and params p, building and caching
// it on a miss. Unknown shapes and malformed parameters yield a unit box instead of an
// error: one bad component must not cost the whole ship. The fallback is cached under the
// requested key so repeating the bad request is a hit.
func (f *Factory) Create(s Shape, p Params) *mesh.Mesh {
	p = p.normalized(s)
	key := Key(s, p)

	f.mu.Lock()
	defer f.mu.Unlock()

	if m, ok := f.cache.Get(key); ok {
		return m.Clone()
	}
	m, err := build(s, p)
	if err != nil {
		f.log.Warn("primitive fallback to unit box",
			zap.String("shape", s.String()),
			zap.String("key", key),
			zap.Error(err))
		m = unitBox()
	}
	f.cache.Put(key, m.Clone())
	return m
}

// CreateNamed is Create with the shape given by name, as stored in configs.
func (f *Factory) CreateNamed(shape string, p Params) *mesh.Mesh {
	return f.Create(ParseShape(shape), p)
}

// Stats returns a snapshot of the cache counters.
func (f *Factory) Stats() CacheStats {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.cache.Stats()
}

// Capacity returns the cache capacity.
func (f *Factory) Capacity() int {
	return f.cache.Capacity()
}

// ClearCache drops all cached primitives.
func (f *Factory) ClearCache() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.cache.Clear()
	f.log.Debug("primitive cache cleared")
}

// build constructs the primitive without touching the cache.
func build(s Shape, p Params) (*mesh.Mesh, error) {
	switch s {
	case ShapeBox:
		return mesh.Box(p.Extents)
	case ShapeCylinder:
		return mesh.Cylinder(p.Radius, p.Height, p.Sections)
	case ShapeCone:
		return mesh.Cone(p.Radius, p.Height, p.Sections)
	case ShapeSphere:
		return mesh.Sphere(p.Radius, p.Subdivisions)
	default:
		return nil, fmt.Errorf("unknown shape %s", s)
	}
}

// unitBox is the safe stand-in for anything the factory cannot build.
func unitBox() *mesh.Mesh {
	m, err := mesh.Box(unitExtents)
	if err != nil {
		panic("primitives: unit box: " + err.Error())
	}
	return m
}
