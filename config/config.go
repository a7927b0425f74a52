// Package config loads simulation settings from YAML, merging a user file
// over embedded defaults.
package config

import (
	_ "embed"
	"fmt"
	"os"

	"github.com/go-gl/mathgl/mgl64"
	"gopkg.in/yaml.v3"

	barneshut "github.com/milcsu09/Barnes-Hut"
)

//go:embed defaults.yaml
var defaultsYAML []byte

// File is the full on-disk configuration.
type File struct {
	Solver SolverConfig `yaml:"solver"`
	World  WorldConfig  `yaml:"world"`
	Bodies BodiesConfig `yaml:"bodies"`
	Output OutputConfig `yaml:"output"`
}

// SolverConfig holds the core solver parameters.
type SolverConfig struct {
	Theta     float64 `yaml:"theta"`
	Gravity   float64 `yaml:"gravity"`
	DT        float64 `yaml:"dt"`
	Softening float64 `yaml:"softening"`
	MaxDepth  int     `yaml:"max_depth"`
	Workers   int     `yaml:"workers"` // 0 = GOMAXPROCS
}

// Config converts the solver section into a core config value.
func (s SolverConfig) Config() barneshut.Config {
	return barneshut.Config{
		Theta:     s.Theta,
		G:         s.Gravity,
		DT:        s.DT,
		Softening: s.Softening,
		MaxDepth:  s.MaxDepth,
		Workers:   s.Workers,
	}
}

// WorldConfig holds the square simulation domain.
type WorldConfig struct {
	CenterX float64 `yaml:"center_x"`
	CenterY float64 `yaml:"center_y"`
	Width   float64 `yaml:"width"`
}

// Bound converts the world section into a core bound value.
func (w WorldConfig) Bound() barneshut.Bound {
	return barneshut.Bound{
		Center: mgl64.Vec2{w.CenterX, w.CenterY},
		Width:  w.Width,
	}
}

// BodiesConfig holds initial body generation parameters.
type BodiesConfig struct {
	Count int     `yaml:"count"`
	Seed  int64   `yaml:"seed"`
	Mode  string  `yaml:"mode"` // "disc" or "clusters"
	Mass  float64 `yaml:"mass"`
	Spin  float64 `yaml:"spin"` // tangential speed scale for the disc mode

	// clusters mode
	ClusterMass   float64 `yaml:"cluster_mass"`   // core mass per cluster
	ClusterSpread float64 `yaml:"cluster_spread"` // gaussian stddev around each core
}

// OutputConfig holds frame output parameters.
type OutputConfig struct {
	Every int    `yaml:"every"` // record every k-th step
	Dir   string `yaml:"dir"`   // directory for PNG frames
}

// Load reads configuration from a YAML file, merging it over the embedded
// defaults. An empty path uses only the defaults.
func Load(path string) (*File, error) {
	cfg := &File{}
	if err := yaml.Unmarshal(defaultsYAML, cfg); err != nil {
		return nil, fmt.Errorf("parsing embedded defaults: %w", err)
	}

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("reading config file: %w", err)
		}
		// unmarshal into the same struct: only fields present in the
		// file overwrite defaults
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parsing config file: %w", err)
		}
	}

	if err := cfg.Solver.Config().Validate(); err != nil {
		return nil, fmt.Errorf("solver config: %w", err)
	}
	if cfg.World.Width <= 0 {
		return nil, fmt.Errorf("world width must be > 0, got %v", cfg.World.Width)
	}
	if cfg.Output.Every < 1 {
		cfg.Output.Every = 1
	}

	return cfg, nil
}

// WriteYAML writes the configuration to a YAML file, so runs can archive
// the exact parameters they used.
func (f *File) WriteYAML(path string) error {
	data, err := yaml.Marshal(f)
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("writing config file: %w", err)
	}
	return nil
}
