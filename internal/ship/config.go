package ship

import (
	"bytes"
	"fmt"

	"gopkg.in/yaml.v3"
)

// Metadata summarizes the ship a saved template produced. It is informational;
// loading a config regenerates geometry from Components.
type Metadata struct {
	Vertices       int     `yaml:"vertices"`
	Faces          int     `yaml:"faces"`
	GenerationTime float64 `yaml:"generation_time"` // seconds
	Components     int     `yaml:"components"`
}

// Config is the on-disk form of a template (e.g. saves/my_cruiser.yaml).
type Config struct {
	Class      string            `yaml:"class,omitempty"`
	Metadata   Metadata          `yaml:"metadata"`
	Components []ComponentConfig `yaml:"components"`
}

// MarshalConfig encodes t and its metadata as YAML.
func MarshalConfig(t Template, md Metadata) ([]byte, error) {
	cfg := Config{Class: t.Class, Metadata: md, Components: t.Components}
	if cfg.Components == nil {
		cfg.Components = []ComponentConfig{}
	}
	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(cfg); err != nil {
		return nil, fmt.Errorf("encode template: %w", err)
	}
	if err := enc.Close(); err != nil {
		return nil, fmt.Errorf("encode template: %w", err)
	}
	return buf.Bytes(), nil
}

// UnmarshalConfig decodes a YAML template. Omitted scale defaults to 1,1,1, omitted
// enabled to true, omitted material_id to the type's palette slot. An unknown or missing
// component type is an error.
func UnmarshalConfig(data []byte) (Template, Metadata, error) {
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Template{}, Metadata{}, fmt.Errorf("decode template: %w", err)
	}
	class := cfg.Class
	if class == "" {
		class = ClassCustom
	}
	return Template{Class: class, Components: cfg.Components}, cfg.Metadata, nil
}
