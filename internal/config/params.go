package config

import (
	"fmt"
	"sort"
)

// SetParam sets a numeric simulation field by its yaml name. It is how
// scenarios and sweeps tune a config without knowing its layout.
func (c *Config) SetParam(name string, v float64) error {
	s := &c.Simulation
	switch name {
	case "particle_count":
		s.ParticleCount = int(v)
	case "velocity_scale":
		s.VelocityScale = v
	case "radius_min":
		s.RadiusMin = v
	case "radius_max":
		s.RadiusMax = v
	case "repulsion_radius":
		s.RepulsionRadius = v
	case "repulsion_strength":
		s.RepulsionStrength = v
	case "connection_radius":
		s.ConnectionRadius = v
	default:
		return fmt.Errorf("unknown parameter %q (available: %v)", name, ParamNames())
	}
	return nil
}

// Param reads a numeric simulation field by its yaml name.
func (c *Config) Param(name string) (float64, error) {
	s := c.Simulation
	switch name {
	case "particle_count":
		return float64(s.ParticleCount), nil
	case "velocity_scale":
		return s.VelocityScale, nil
	case "radius_min":
		return s.RadiusMin, nil
	case "radius_max":
		return s.RadiusMax, nil
	case "repulsion_radius":
		return s.RepulsionRadius, nil
	case "repulsion_strength":
		return s.RepulsionStrength, nil
	case "connection_radius":
		return s.ConnectionRadius, nil
	}
	return 0, fmt.Errorf("unknown parameter %q (available: %v)", name, ParamNames())
}

func ParamNames() []string {
	names := []string{
		"particle_count", "velocity_scale", "radius_min", "radius_max",
		"repulsion_radius", "repulsion_strength", "connection_radius",
	}
	sort.Strings(names)
	return names
}
