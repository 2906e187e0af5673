package config

import "sort"

// Presets override a subset of DefaultConfig. Each function edits a fresh
// default so presets never share state.
var Presets = map[string]func(*Config){
	"default": func(*Config) {},
	"dense": func(c *Config) {
		c.Simulation.ParticleCount = 240
		c.Simulation.ConnectionRadius = 90
		c.Render.PairIndex = "grid"
	},
	"calm": func(c *Config) {
		c.Simulation.ParticleCount = 50
		c.Simulation.VelocityScale = 0.2
		c.Simulation.RepulsionStrength = 0.2
		c.Render.Palette = "ocean"
	},
	"storm": func(c *Config) {
		c.Simulation.ParticleCount = 140
		c.Simulation.VelocityScale = 1.6
		c.Simulation.RepulsionRadius = 140
		c.Simulation.RepulsionStrength = 1.2
		c.Render.Palette = "ember"
	},
	"retina": func(c *Config) {
		c.Viewport.DPR = 2
	},
}

// GetPreset returns DefaultConfig with the named preset applied, or nil.
func GetPreset(name string) *Config {
	apply, ok := Presets[name]
	if !ok {
		return nil
	}
	cfg := DefaultConfig()
	apply(cfg)
	return cfg
}

func ListPresets() []string {
	names := make([]string, 0, len(Presets))
	for name := range Presets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
