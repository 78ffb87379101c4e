package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/san-kum/springsim/internal/dynamo"
)

const (
	DefaultSteps  = 400
	DefaultFPS    = 30
	DefaultRadius = 3.0
)

const (
	SurfaceTcell    = "tcell"
	SurfaceTUI      = "tui"
	SurfaceHeadless = "headless"
)

// Surfaces lists the accepted values of Config.Surface.
var Surfaces = []string{SurfaceTcell, SurfaceTUI, SurfaceHeadless}

type Config struct {
	Position      float64 `yaml:"position"`
	Velocity      float64 `yaml:"velocity"`
	Mass          float64 `yaml:"mass"`
	Anchor        float64 `yaml:"anchor"`
	Damping       float64 `yaml:"damping"`
	Stiffness     float64 `yaml:"stiffness"`
	Dt            float64 `yaml:"dt"`
	Steps         int     `yaml:"steps"`
	Radius        float64 `yaml:"radius"`
	FPS           int     `yaml:"fps"`
	Surface       string  `yaml:"surface"`
	ValidateState bool    `yaml:"validate_state"`
}

func DefaultConfig() *Config {
	return &Config{
		Position:  dynamo.DefaultPosition,
		Velocity:  dynamo.DefaultVelocity,
		Mass:      dynamo.DefaultMass,
		Anchor:    dynamo.DefaultAnchor,
		Damping:   dynamo.DefaultDamping,
		Stiffness: dynamo.DefaultStiffness,
		Dt:        dynamo.DefaultDt,
		Steps:     DefaultSteps,
		Radius:    DefaultRadius,
		FPS:       DefaultFPS,
		Surface:   SurfaceTcell,
	}
}

// Load reads a YAML file on top of the defaults.
func Load(path string) (*Config, error) {
	return LoadOver(path, DefaultConfig())
}

// LoadOver reads a YAML file on top of base. Keys absent from the file keep
// the value from base; base itself is not modified.
func LoadOver(path string, base *Config) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	cfg := base.Clone()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	return cfg, nil
}

func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

func (c *Config) Clone() *Config {
	cp := *c
	return &cp
}

func (c *Config) Params() dynamo.Params {
	return dynamo.Params{
		Position:  c.Position,
		Velocity:  c.Velocity,
		Mass:      c.Mass,
		Anchor:    c.Anchor,
		Damping:   c.Damping,
		Stiffness: c.Stiffness,
		Dt:        c.Dt,
	}
}

func (c *Config) Validate() error {
	if err := c.Params().Validate(); err != nil {
		return err
	}
	if c.Steps <= 0 {
		return fmt.Errorf("steps must be positive, got %d", c.Steps)
	}
	if c.FPS <= 0 {
		return fmt.Errorf("fps must be positive, got %d", c.FPS)
	}
	if c.Radius < 0 {
		return fmt.Errorf("radius must be non-negative, got %v", c.Radius)
	}
	for _, s := range Surfaces {
		if c.Surface == s {
			return nil
		}
	}
	return fmt.Errorf("unknown surface %q (want one of %v)", c.Surface, Surfaces)
}
