package sim

import (
	"math/rand/v2"

	"github.com/san-kum/plexus/internal/particle"
)

// Simulation owns the particle collection and the viewport it lives in.
// It is not safe for concurrent use; FrameLoop serialises access.
type Simulation struct {
	cfg       particle.Config
	vp        particle.Viewport
	params    particle.Params
	rng       *rand.Rand
	seed      uint64
	particles []particle.Particle
}

// StepReport summarises one Step call.
type StepReport struct {
	Resets int
}

func New(cfg particle.Config, vp particle.Viewport, seed uint64) (*Simulation, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	s := &Simulation{cfg: cfg}
	s.seedWith(seed)
	s.populate(vp)
	return s, nil
}

func (s *Simulation) seedWith(seed uint64) {
	s.seed = seed
	s.rng = rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))
}

// populate discards every particle and draws a fresh set for vp.
func (s *Simulation) populate(vp particle.Viewport) {
	s.vp = vp
	s.params = s.cfg.Resolve(vp)
	if cap(s.particles) >= s.cfg.ParticleCount {
		s.particles = s.particles[:s.cfg.ParticleCount]
	} else {
		s.particles = make([]particle.Particle, s.cfg.ParticleCount)
	}
	for i := range s.particles {
		s.particles[i].Reset(vp, s.params, s.rng)
	}
}

// Resize repopulates the field for vp. Previous particles are discarded,
// not rescaled.
func (s *Simulation) Resize(vp particle.Viewport) {
	s.populate(vp)
}

// Reseed restarts the generator and repopulates at the current viewport.
func (s *Simulation) Reseed(seed uint64) {
	s.seedWith(seed)
	s.populate(s.vp)
}

// Step advances every particle once, in index order.
func (s *Simulation) Step(ptr particle.Pointer) StepReport {
	var rep StepReport
	for i := range s.particles {
		if s.particles[i].Step(ptr, s.vp, s.params, s.rng) {
			rep.Resets++
		}
	}
	return rep
}

// Particles returns the live collection. Callers must treat it as read-only.
func (s *Simulation) Particles() []particle.Particle { return s.particles }

// Snapshot returns a copy of the collection.
func (s *Simulation) Snapshot() []particle.Particle {
	out := make([]particle.Particle, len(s.particles))
	copy(out, s.particles)
	return out
}

func (s *Simulation) Viewport() particle.Viewport { return s.vp }
func (s *Simulation) Params() particle.Params     { return s.params }
func (s *Simulation) Config() particle.Config     { return s.cfg }
func (s *Simulation) Seed() uint64                { return s.seed }

// Place overwrites particle i. It exists for scripted setups and tests;
// the position is not validated.
func (s *Simulation) Place(i int, p particle.Particle) {
	s.particles[i] = p
}
