package config

import "sort"

type Preset struct {
	Description string
	Config      *Config
}

func preset(desc string, modify func(c *Config)) Preset {
	cfg := DefaultConfig()
	modify(cfg)
	return Preset{Description: desc, Config: cfg}
}

var Presets = map[string]Preset{
	"reference": preset("default parameters, slowly decaying oscillation", func(c *Config) {}),
	"underdamped": preset("visible ringing that dies out within a few hundred steps", func(c *Config) {
		c.Damping = 0.1
	}),
	// The discrete step stops oscillating once (2 - dt k/m - c/m)^2 >= 4 (1 - c/m),
	// which for the default mass, stiffness and dt is c ~ 0.5325.
	"critical": preset("just enough damping to return without oscillating", func(c *Config) {
		c.Damping = 0.5325
	}),
	"overdamped": preset("creeps back to the anchor without crossing it", func(c *Config) {
		c.Damping = 0.9
	}),
	"undamped": preset("no friction, oscillates forever", func(c *Config) {
		c.Damping = 0
	}),
	"unstable": preset("stiffness outside the stable region, diverges", func(c *Config) {
		c.Stiffness = 10
		c.Steps = 200
	}),
}

// GetPreset returns a copy of the named preset, or nil if it does not exist.
func GetPreset(name string) *Config {
	p, ok := Presets[name]
	if !ok {
		return nil
	}
	return p.Config.Clone()
}

func ListPresets() []string {
	names := make([]string, 0, len(Presets))
	for name := range Presets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
