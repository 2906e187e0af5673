package particle

import "math"

const (
	DefaultCount             = 80
	DefaultVelocityScale     = 0.4
	DefaultRadiusMin         = 0.6
	DefaultRadiusMax         = 2.4
	DefaultRepulsionRadius   = 80.0
	DefaultRepulsionStrength = 0.6
	DefaultConnectionRadius  = 120.0
)

// Config holds the field tunables in logical units. Everything except
// RepulsionStrength is multiplied by the device pixel ratio on Resolve.
type Config struct {
	ParticleCount     int
	VelocityScale     float64
	RadiusMin         float64
	RadiusMax         float64
	RepulsionRadius   float64
	RepulsionStrength float64
	ConnectionRadius  float64
}

// Params are Config values resolved to buffer space for one viewport.
type Params struct {
	VelocityScale     float64
	RadiusMin         float64
	RadiusMax         float64
	RepulsionRadius   float64
	RepulsionStrength float64
	ConnectionRadius  float64
}

func DefaultConfig() Config {
	return Config{
		ParticleCount:     DefaultCount,
		VelocityScale:     DefaultVelocityScale,
		RadiusMin:         DefaultRadiusMin,
		RadiusMax:         DefaultRadiusMax,
		RepulsionRadius:   DefaultRepulsionRadius,
		RepulsionStrength: DefaultRepulsionStrength,
		ConnectionRadius:  DefaultConnectionRadius,
	}
}

// Validate rejects configurations that cannot produce a field.
func (c Config) Validate() error {
	if c.ParticleCount <= 0 {
		return invalid("particle_count", float64(c.ParticleCount))
	}
	checks := []struct {
		name     string
		v        float64
		positive bool
	}{
		{"velocity_scale", c.VelocityScale, false},
		{"radius_min", c.RadiusMin, true},
		{"radius_max", c.RadiusMax, true},
		{"repulsion_radius", c.RepulsionRadius, true},
		{"repulsion_strength", c.RepulsionStrength, false},
		{"connection_radius", c.ConnectionRadius, true},
	}
	for _, ch := range checks {
		if math.IsNaN(ch.v) || math.IsInf(ch.v, 0) || ch.v < 0 || (ch.positive && ch.v == 0) {
			return invalid(ch.name, ch.v)
		}
	}
	if c.RadiusMax < c.RadiusMin {
		return invalid("radius_max", c.RadiusMax)
	}
	return nil
}

// Resolve scales the config for vp.
func (c Config) Resolve(vp Viewport) Params {
	return Params{
		VelocityScale:     c.VelocityScale * vp.DPR,
		RadiusMin:         c.RadiusMin * vp.DPR,
		RadiusMax:         c.RadiusMax * vp.DPR,
		RepulsionRadius:   c.RepulsionRadius * vp.DPR,
		RepulsionStrength: c.RepulsionStrength,
		ConnectionRadius:  c.ConnectionRadius * vp.DPR,
	}
}
