// Package designerconfig persists designer preferences between runs.
package designerconfig

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/pelletier/go-toml/v2"
)

// ConfigPath is the preferences file, relative to the process working directory.
const ConfigPath = "config/designer.toml"

// LogPrefs configures the logger.
type LogPrefs struct {
	Level  string `toml:"level" comment:"debug, info, warn or error"`
	Format string `toml:"format" comment:"console or json"`
	File   string `toml:"file,omitempty"`
}

// Prefs holds designer-wide preferences. Ship templates are saved separately as YAML.
type Prefs struct {
	CacheSize     int      `toml:"cache_size" comment:"primitive cache capacity"`
	Seed          uint64   `toml:"seed,omitempty" comment:"0 picks a random seed per run"`
	ExportDir     string   `toml:"export_dir"`
	DefaultFormat string   `toml:"default_format" comment:"stl, obj, glb or ply"`
	Workers       int      `toml:"workers" comment:"parallel generations for batch runs"`
	Log           LogPrefs `toml:"log"`
}

// Default returns the preferences used when no file exists.
func Default() Prefs {
	return Prefs{
		CacheSize:     100,
		ExportDir:     "exports",
		DefaultFormat: "stl",
		Workers:       4,
		Log:           LogPrefs{Level: "info", Format: "console", File: "logs/designer.log"},
	}
}

// Normalize replaces out-of-range values with defaults.
func (p Prefs) Normalize() Prefs {
	d := Default()
	if p.CacheSize <= 0 {
		p.CacheSize = d.CacheSize
	}
	if p.Workers <= 0 {
		p.Workers = d.Workers
	}
	if p.DefaultFormat == "" {
		p.DefaultFormat = d.DefaultFormat
	}
	if p.ExportDir == "" {
		p.ExportDir = d.ExportDir
	}
	if p.Log.Level == "" {
		p.Log.Level = d.Log.Level
	}
	if p.Log.Format == "" {
		p.Log.Format = d.Log.Format
	}
	return p
}

// Load reads ConfigPath. See LoadFrom.
func Load() (Prefs, error) {
	return LoadFrom(ConfigPath)
}

// LoadFrom reads preferences from path. A missing file yields Default() and no error;
// an unreadable or invalid file yields Default() and the error, so callers can warn
// and carry on. Fields absent from the file keep their defaults.
func LoadFrom(path string) (Prefs, error) {
	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return Default(), nil
	}
	if err != nil {
		return Default(), fmt.Errorf("read prefs: %w", err)
	}
	p := Default()
	if err := toml.Unmarshal(data, &p); err != nil {
		return Default(), fmt.Errorf("parse %s: %w", path, err)
	}
	return p.Normalize(), nil
}

// Save writes preferences to ConfigPath. See SaveTo.
func Save(p Prefs) error {
	return SaveTo(ConfigPath, p)
}

// SaveTo writes preferences to path, creating its directory if needed.
func SaveTo(path string, p Prefs) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	data, err := toml.Marshal(p)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o644)
}
