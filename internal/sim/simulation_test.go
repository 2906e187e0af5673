package sim_test

import (
	"testing"

	"github.com/san-kum/plexus/internal/particle"
	"github.com/san-kum/plexus/internal/sim"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/spatial/r2"
)

func newSim(t *testing.T, cfg particle.Config, w, h float64, seed uint64) *sim.Simulation {
	t.Helper()
	vp, err := particle.NewViewport(w, h, 1)
	require.NoError(t, err)
	s, err := sim.New(cfg, vp, seed)
	require.NoError(t, err)
	return s
}

func TestNewPopulates(t *testing.T) {
	s := newSim(t, particle.DefaultConfig(), 640, 480, 1)

	require.Len(t, s.Particles(), particle.DefaultCount)
	vp := s.Viewport()
	for _, p := range s.Particles() {
		assert.True(t, vp.Contains(p.Pos.X, p.Pos.Y))
	}
}

func TestNewRejectsInvalidConfig(t *testing.T) {
	vp, err := particle.NewViewport(100, 100, 1)
	require.NoError(t, err)

	cfg := particle.DefaultConfig()
	cfg.ParticleCount = 0
	_, err = sim.New(cfg, vp, 1)
	assert.ErrorIs(t, err, particle.ErrInvalidConfig)
}

func TestBoundaryContainment(t *testing.T) {
	s := newSim(t, particle.DefaultConfig(), 200, 150, 42)
	vp := s.Viewport()
	ptr := particle.At(100, 75)

	for step := 0; step < 2000; step++ {
		if step%3 == 0 {
			s.Step(particle.Pointer{})
		} else {
			s.Step(ptr)
		}
		for i, p := range s.Particles() {
			require.True(t, vp.Contains(p.Pos.X, p.Pos.Y), "step %d particle %d at %v", step, i, p.Pos)
		}
	}
}

func TestResizeRepopulates(t *testing.T) {
	s := newSim(t, particle.DefaultConfig(), 1920, 1080, 5)
	for i := 0; i < 10; i++ {
		s.Step(particle.At(900, 500))
	}

	small, err := particle.NewViewport(50, 40, 2)
	require.NoError(t, err)
	s.Resize(small)

	require.Len(t, s.Particles(), particle.DefaultCount)
	assert.Equal(t, small, s.Viewport())
	assert.InDelta(t, 160, s.Params().RepulsionRadius, 1e-12)
	for _, p := range s.Particles() {
		assert.True(t, small.Contains(p.Pos.X, p.Pos.Y))
		assert.LessOrEqual(t, p.Speed(), s.Params().VelocityScale)
	}
}

func TestDeterminism(t *testing.T) {
	a := newSim(t, particle.DefaultConfig(), 800, 600, 1234)
	b := newSim(t, particle.DefaultConfig(), 800, 600, 1234)

	require.Equal(t, a.Particles(), b.Particles())
	for i := 0; i < 500; i++ {
		ra := a.Step(particle.Pointer{})
		rb := b.Step(particle.Pointer{})
		require.Equal(t, ra, rb)
		require.Equal(t, a.Particles(), b.Particles(), "diverged at step %d", i)
	}
}

func TestSeedsDiffer(t *testing.T) {
	a := newSim(t, particle.DefaultConfig(), 800, 600, 1)
	b := newSim(t, particle.DefaultConfig(), 800, 600, 2)
	assert.NotEqual(t, a.Particles(), b.Particles())
}

func TestReseed(t *testing.T) {
	a := newSim(t, particle.DefaultConfig(), 800, 600, 1)
	b := newSim(t, particle.DefaultConfig(), 800, 600, 99)
	b.Step(particle.Pointer{})
	b.Reseed(1)

	assert.Equal(t, uint64(1), b.Seed())
	assert.Equal(t, a.Particles(), b.Particles())
}

func TestIdleScatter(t *testing.T) {
	cfg := particle.DefaultConfig()
	cfg.ParticleCount = 1
	s := newSim(t, cfg, 100, 100, 3)
	s.Place(0, particle.Particle{Pos: r2.Vec{X: 50, Y: 50}, Radius: 1})

	rep := s.Step(particle.Pointer{})

	assert.Zero(t, rep.Resets)
	assert.Equal(t, r2.Vec{X: 50, Y: 50}, s.Particles()[0].Pos)
}

func TestRepulsionKick(t *testing.T) {
	cfg := particle.DefaultConfig()
	cfg.ParticleCount = 1
	s := newSim(t, cfg, 100, 100, 3)
	s.Place(0, particle.Particle{Pos: r2.Vec{X: 50, Y: 50}, Radius: 1})

	s.Step(particle.At(50, 50))

	p := s.Particles()[0]
	assert.InDelta(t, cfg.RepulsionStrength, p.Speed(), 1e-12)
	assert.Equal(t, r2.Vec{X: cfg.RepulsionStrength, Y: 0}, p.Vel)
}

func TestStepCountsResets(t *testing.T) {
	cfg := particle.DefaultConfig()
	cfg.ParticleCount = 2
	s := newSim(t, cfg, 100, 100, 3)
	s.Place(0, particle.Particle{Pos: r2.Vec{X: 99.5, Y: 50}, Vel: r2.Vec{X: 1}, Radius: 1})
	s.Place(1, particle.Particle{Pos: r2.Vec{X: 50, Y: 50}, Radius: 1})

	rep := s.Step(particle.Pointer{})
	assert.Equal(t, 1, rep.Resets)
}

func TestSnapshotIsCopy(t *testing.T) {
	s := newSim(t, particle.DefaultConfig(), 100, 100, 3)
	snap := s.Snapshot()
	snap[0].Pos = r2.Vec{X: -1, Y: -1}
	assert.NotEqual(t, snap[0].Pos, s.Particles()[0].Pos)
}

func TestLatest(t *testing.T) {
	var l sim.Latest[int]
	_, ok := l.Take()
	assert.False(t, ok)

	l.Put(1)
	l.Put(2)
	l.Put(3)
	v, ok := l.Take()
	assert.True(t, ok)
	assert.Equal(t, 3, v)

	_, ok = l.Take()
	assert.False(t, ok)
}
