package generator

import (
	"time"

	"spaceship-designer/internal/mesh"
	"spaceship-designer/internal/primitives"
	"spaceship-designer/internal/ship"
)

// ShipResult is one generated ship. It is built fresh per call and not touched by the
// generator afterwards; the caller owns it.
type ShipResult struct {
	ID             string
	Class          string
	Mesh           *mesh.Mesh
	Vertices       int
	Faces          int
	GenerationTime time.Duration
	// Components is the number of components that produced geometry.
	Components int
	// Cache is the primitive cache snapshot taken when generation finished.
	Cache primitives.CacheStats
	// Template is the template actually built, after any scale jitter. Saving it
	// and regenerating without randomization reproduces the same geometry.
	Template ship.Template
	// Skipped describes components that were dropped, one line each.
	Skipped []string
	// Placeholder is set when no component survived and the result is the stand-in box.
	Placeholder bool
}

// Metadata returns the summary stored alongside a saved template.
func (r *ShipResult) Metadata() ship.Metadata {
	return ship.Metadata{
		Vertices:       r.Vertices,
		Faces:          r.Faces,
		GenerationTime: r.GenerationTime.Seconds(),
		Components:     r.Components,
	}
}

// Stats are running totals for one generator, for reporting only.
type Stats struct {
	ShipsGenerated int
	TotalTime      time.Duration
}

// AverageTime returns TotalTime / ShipsGenerated, or zero before the first ship.
func (s Stats) AverageTime() time.Duration {
	if s.ShipsGenerated == 0 {
		return 0
	}
	return s.TotalTime / time.Duration(s.ShipsGenerated)
}
