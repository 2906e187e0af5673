// Package metrics turns frame reports into scalar series.
package metrics

import (
	"math"

	"github.com/san-kum/plexus/internal/sim"
)

// Metric accumulates one scalar over frames.
type Metric interface {
	Name() string
	Observe(r sim.FrameReport)
	Value() float64
	Reset()
}

// MeanSpeed averages particle speed over all observed frames.
type MeanSpeed struct {
	sum     float64
	samples int
}

func NewMeanSpeed() *MeanSpeed { return &MeanSpeed{} }

func (m *MeanSpeed) Name() string { return "mean_speed" }

func (m *MeanSpeed) Observe(r sim.FrameReport) {
	if len(r.Particles) == 0 {
		return
	}
	m.sum += FrameMeanSpeed(r)
	m.samples++
}

func (m *MeanSpeed) Value() float64 {
	if m.samples == 0 {
		return 0
	}
	return m.sum / float64(m.samples)
}

func (m *MeanSpeed) Reset() { *m = MeanSpeed{} }

// MaxSpeed tracks the fastest particle seen.
type MaxSpeed struct {
	max float64
}

func NewMaxSpeed() *MaxSpeed { return &MaxSpeed{} }

func (m *MaxSpeed) Name() string { return "max_speed" }

func (m *MaxSpeed) Observe(r sim.FrameReport) {
	m.max = math.Max(m.max, FrameMaxSpeed(r))
}

func (m *MaxSpeed) Value() float64 { return m.max }
func (m *MaxSpeed) Reset()         { m.max = 0 }

// ResetRate is the fraction of particle-steps that ended in a reset.
type ResetRate struct {
	resets, steps int
}

func NewResetRate() *ResetRate { return &ResetRate{} }

func (m *ResetRate) Name() string { return "reset_rate" }

func (m *ResetRate) Observe(r sim.FrameReport) {
	m.resets += r.Resets
	m.steps += len(r.Particles)
}

func (m *ResetRate) Value() float64 {
	if m.steps == 0 {
		return 0
	}
	return float64(m.resets) / float64(m.steps)
}

func (m *ResetRate) Reset() { *m = ResetRate{} }

// ConnectionDensity is the mean fraction of possible pairs that were
// connected.
type ConnectionDensity struct {
	sum     float64
	samples int
}

func NewConnectionDensity() *ConnectionDensity { return &ConnectionDensity{} }

func (m *ConnectionDensity) Name() string { return "connection_density" }

func (m *ConnectionDensity) Observe(r sim.FrameReport) {
	n := len(r.Particles)
	if n < 2 {
		return
	}
	m.sum += float64(r.Connections) / float64(n*(n-1)/2)
	m.samples++
}

func (m *ConnectionDensity) Value() float64 {
	if m.samples == 0 {
		return 0
	}
	return m.sum / float64(m.samples)
}

func (m *ConnectionDensity) Reset() { *m = ConnectionDensity{} }

// Standard returns one of each metric.
func Standard() []Metric {
	return []Metric{NewMeanSpeed(), NewMaxSpeed(), NewResetRate(), NewConnectionDensity()}
}

func FrameMeanSpeed(r sim.FrameReport) float64 {
	if len(r.Particles) == 0 {
		return 0
	}
	sum := 0.0
	for _, p := range r.Particles {
		sum += p.Speed()
	}
	return sum / float64(len(r.Particles))
}

func FrameMaxSpeed(r sim.FrameReport) float64 {
	m := 0.0
	for _, p := range r.Particles {
		m = math.Max(m, p.Speed())
	}
	return m
}
