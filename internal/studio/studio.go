// Package studio is the designer's editing session: it owns the generator, the exporter
// and the most recent ship, and exposes them as console commands.
package studio

import (
	"context"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"

	"spaceship-designer/internal/designerconfig"
	"spaceship-designer/internal/export"
	"spaceship-designer/internal/generator"
	"spaceship-designer/internal/metrics"
	"spaceship-designer/internal/primitives"
	"spaceship-designer/internal/ship"
)

var (
	// ErrNoShip is returned by operations that need a generated ship when there is none.
	ErrNoShip = errors.New("no ship generated yet")
	// ErrExportFailed is returned when the exporter reports failure; details are logged.
	ErrExportFailed = errors.New("export failed")
)

// Session holds one designer session. Methods are safe for concurrent use.
type Session struct {
	gen      *generator.Generator
	exp      *export.Exporter
	prefs    designerconfig.Prefs
	log      *zap.Logger
	gatherer prometheus.Gatherer

	mu   sync.Mutex
	last *generator.ShipResult
}

// Option configures a Session.
type Option func(*Session)

// WithLogger sets the session logger.
func WithLogger(log *zap.Logger) Option {
	return func(s *Session) {
		if log != nil {
			s.log = log
		}
	}
}

// WithGatherer sets where the metrics command reads from.
func WithGatherer(g prometheus.Gatherer) Option {
	return func(s *Session) { s.gatherer = g }
}

// New returns a session over an existing generator and exporter.
func New(gen *generator.Generator, exp *export.Exporter, prefs designerconfig.Prefs, opts ...Option) *Session {
	s := &Session{gen: gen, exp: exp, prefs: prefs.Normalize(), log: zap.NewNop()}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Open wires a complete session from prefs: factory, generator and exporter sharing
// one logger and one metrics registry. A nil reg disables metrics.
func Open(prefs designerconfig.Prefs, exp *export.Exporter, log *zap.Logger, reg *prometheus.Registry) (*Session, error) {
	prefs = prefs.Normalize()
	if log == nil {
		log = zap.NewNop()
	}
	factory := primitives.NewFactory(prefs.CacheSize, log.Named("primitives"))

	var m *metrics.Metrics
	opts := []Option{WithLogger(log)}
	if reg != nil {
		m = metrics.New(reg)
		if err := m.WatchCache(factory.Stats); err != nil {
			return nil, err
		}
		opts = append(opts, WithGatherer(reg))
	}

	genOpts := []generator.Option{generator.WithLogger(log.Named("generator")), generator.WithMetrics(m)}
	if prefs.Seed != 0 {
		genOpts = append(genOpts, generator.WithSeed(prefs.Seed))
	}
	gen := generator.New(factory, genOpts...)
	if exp == nil {
		exp = export.NewOS(export.WithLogger(log.Named("export")), export.WithMetrics(m))
	}
	return New(gen, exp, prefs, opts...), nil
}

// Prefs returns the session preferences.
func (s *Session) Prefs() designerconfig.Prefs {
	return s.prefs
}

// Generator returns the session's generator.
func (s *Session) Generator() *generator.Generator {
	return s.gen
}

// Last returns the most recent ship, or nil.
func (s *Session) Last() *generator.ShipResult {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.last
}

func (s *Session) setLast(res *generator.ShipResult) *generator.ShipResult {
	s.mu.Lock()
	s.last = res
	s.mu.Unlock()
	return res
}

// Generate builds a ship of the given class and makes it current.
func (s *Session) Generate(class string, randomize bool) *generator.ShipResult {
	return s.setLast(s.gen.GenerateByClass(class, randomize))
}

// Custom builds a random ship of n components and makes it current.
func (s *Session) Custom(n int) *generator.ShipResult {
	return s.setLast(s.gen.GenerateCustom(n))
}

// Batch builds one ship per class on the configured number of workers. The last ship
// of the batch becomes current.
func (s *Session) Batch(ctx context.Context, classes []string, randomize bool) ([]*generator.ShipResult, error) {
	results, err := s.gen.GenerateBatch(ctx, classes, randomize, s.prefs.Workers)
	if err != nil {
		return results, err
	}
	if len(results) > 0 {
		s.setLast(results[len(results)-1])
	}
	return results, nil
}

// ResolveFormat picks the output format: an explicit name wins, then the path's
// extension, then the configured default.
func (s *Session) ResolveFormat(p, format string) export.Format {
	if format != "" {
		return export.ParseFormat(format)
	}
	if f, ok := export.FormatFromPath(p); ok {
		return f
	}
	return export.ParseFormat(s.prefs.DefaultFormat)
}

// DefaultPath is where a ship is exported when no path is given.
func (s *Session) DefaultPath(res *generator.ShipResult, f export.Format) string {
	class := res.Class
	if class == "" {
		class = "ship"
	}
	return filepath.Join(s.prefs.ExportDir, class+"-"+shortID(res.ID)+f.Ext())
}

// Export writes the current ship and returns the path written.
func (s *Session) Export(p, format string) (string, error) {
	res := s.Last()
	if res == nil {
		return "", ErrNoShip
	}
	f := s.ResolveFormat(p, format)
	if p == "" {
		p = s.DefaultPath(res, f)
	}
	if !s.exp.Export(res, p, f) {
		return "", fmt.Errorf("%w: %s", ErrExportFailed, p)
	}
	return p, nil
}

// Bundle writes the current ship as a zip of every format plus its template and
// returns the path written.
func (s *Session) Bundle(p string) (string, error) {
	res := s.Last()
	if res == nil {
		return "", ErrNoShip
	}
	if p == "" {
		p = filepath.Join(s.prefs.ExportDir, res.Class+"-"+shortID(res.ID)+".zip")
	}
	if !s.exp.Bundle(res, p) {
		return "", fmt.Errorf("%w: %s", ErrExportFailed, p)
	}
	return p, nil
}

// SaveTemplate writes the current ship's effective template and metadata as YAML.
func (s *Session) SaveTemplate(p string) error {
	res := s.Last()
	if res == nil {
		return ErrNoShip
	}
	data, err := ship.MarshalConfig(res.Template, res.Metadata())
	if err != nil {
		return err
	}
	if err := s.exp.WriteFile(p, data); err != nil {
		return fmt.Errorf("save template: %w", err)
	}
	s.log.Info("template saved", zap.String("path", p), zap.String("class", res.Class))
	return nil
}

// LoadTemplate reads a YAML template, builds it without randomization and makes the
// result current.
func (s *Session) LoadTemplate(p string) (*generator.ShipResult, error) {
	data, err := s.exp.ReadFile(p)
	if err != nil {
		return nil, fmt.Errorf("load template: %w", err)
	}
	tpl, _, err := ship.UnmarshalConfig(data)
	if err != nil {
		return nil, fmt.Errorf("load template %s: %w", p, err)
	}
	return s.setLast(s.gen.GenerateFromTemplate(tpl)), nil
}

// Stats returns the generator totals.
func (s *Session) Stats() generator.Stats {
	return s.gen.Stats()
}

// CacheStats returns the primitive cache counters.
func (s *Session) CacheStats() primitives.CacheStats {
	return s.gen.Factory().Stats()
}

// ClearCache empties the primitive cache.
func (s *Session) ClearCache() {
	s.gen.Factory().ClearCache()
}

// WriteMetrics dumps the metrics registry in text format.
func (s *Session) WriteMetrics(w io.Writer) error {
	if s.gatherer == nil {
		return errors.New("metrics disabled")
	}
	return metrics.WriteText(w, s.gatherer)
}

// Describe is a one-line summary of a ship for console output.
func Describe(res *generator.ShipResult) string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s %s: %d components, %d vertices, %d faces in %s",
		res.Class, shortID(res.ID), res.Components, res.Vertices, res.Faces, res.GenerationTime)
	if res.Placeholder {
		b.WriteString(" (placeholder)")
	}
	if n := len(res.Skipped); n > 0 {
		fmt.Fprintf(&b, " (%d skipped)", n)
	}
	return b.String()
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}
