package particle

import "gonum.org/v1/gonum/spatial/r2"

// Rand is the entropy source consumed by Reset. *rand.Rand from
// math/rand/v2 satisfies it.
type Rand interface {
	Float64() float64
}

// DefaultDirection is the repulsion direction used when a particle sits
// exactly on the pointer.
var DefaultDirection = r2.Vec{X: 1, Y: 0}

type Particle struct {
	Pos    r2.Vec
	Vel    r2.Vec
	Radius float64
}

// Reset redraws position, velocity and radius. The draw order is fixed
// (x, y, vx, vy, r) so a seeded source reproduces the same field.
func (p *Particle) Reset(vp Viewport, params Params, rng Rand) {
	p.Pos.X = rng.Float64() * float64(vp.BufferWidth)
	p.Pos.Y = rng.Float64() * float64(vp.BufferHeight)
	p.Vel.X = (rng.Float64() - 0.5) * params.VelocityScale
	p.Vel.Y = (rng.Float64() - 0.5) * params.VelocityScale
	p.Radius = params.RadiusMin + rng.Float64()*(params.RadiusMax-params.RadiusMin)
}

// Step advances the particle one tick and reports whether it left the
// buffer and was reset. A reset discards the tick's displacement and skips
// repulsion.
func (p *Particle) Step(ptr Pointer, vp Viewport, params Params, rng Rand) bool {
	p.Pos = r2.Add(p.Pos, p.Vel)
	if !vp.Contains(p.Pos.X, p.Pos.Y) {
		p.Reset(vp, params, rng)
		return true
	}
	if ptr.Present {
		p.Vel = r2.Add(p.Vel, RepulsionImpulse(r2.Sub(p.Pos, ptr.Pos), params))
	}
	return false
}

// RepulsionImpulse is the velocity change for a particle at offset from the
// pointer. It falls linearly from RepulsionStrength at distance zero to
// nothing at RepulsionRadius. Velocity is never damped, so a particle that
// lingers near the pointer keeps accelerating.
func RepulsionImpulse(offset r2.Vec, params Params) r2.Vec {
	d := r2.Norm(offset)
	if d >= params.RepulsionRadius {
		return r2.Vec{}
	}
	force := (params.RepulsionRadius - d) / params.RepulsionRadius
	dir := DefaultDirection
	if d > 0 {
		dir = r2.Scale(1/d, offset)
	}
	return r2.Scale(force*params.RepulsionStrength, dir)
}

// Speed is the velocity magnitude in buffer pixels per tick.
func (p Particle) Speed() float64 {
	return r2.Norm(p.Vel)
}
