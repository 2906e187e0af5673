package metrics

import (
	"github.com/san-kum/plexus/internal/sim"
)

// Column names of a recorded series, in storage order.
var Columns = []string{"frame", "mean_speed", "max_speed", "resets", "connections"}

// Sample is one frame's row.
type Sample struct {
	Frame       uint64
	MeanSpeed   float64
	MaxSpeed    float64
	Resets      int
	Connections int
}

// Values returns the sample in Columns order.
func (s Sample) Values() []float64 {
	return []float64{float64(s.Frame), s.MeanSpeed, s.MaxSpeed, float64(s.Resets), float64(s.Connections)}
}

// Recorder is a sim.Observer that keeps per-frame samples and feeds a set
// of aggregate metrics. Capacity bounds memory: once full, the oldest
// samples are dropped.
type Recorder struct {
	samples  []Sample
	capacity int
	metrics  []Metric
}

func NewRecorder(capacity int, ms ...Metric) *Recorder {
	return &Recorder{capacity: capacity, metrics: ms}
}

func (r *Recorder) OnFrame(rep sim.FrameReport) {
	for _, m := range r.metrics {
		m.Observe(rep)
	}
	r.samples = append(r.samples, Sample{
		Frame:       rep.Index,
		MeanSpeed:   FrameMeanSpeed(rep),
		MaxSpeed:    FrameMaxSpeed(rep),
		Resets:      rep.Resets,
		Connections: rep.Connections,
	})
	if r.capacity > 0 && len(r.samples) > r.capacity {
		r.samples = r.samples[len(r.samples)-r.capacity:]
	}
}

func (r *Recorder) Samples() []Sample { return r.samples }

// Column extracts one named column as a float series.
func (r *Recorder) Column(name string) []float64 {
	idx := columnIndex(name)
	if idx < 0 {
		return nil
	}
	out := make([]float64, len(r.samples))
	for i, s := range r.samples {
		out[i] = s.Values()[idx]
	}
	return out
}

// Summary returns each aggregate metric's current value by name.
func (r *Recorder) Summary() map[string]float64 {
	out := make(map[string]float64, len(r.metrics))
	for _, m := range r.metrics {
		out[m.Name()] = m.Value()
	}
	return out
}

func (r *Recorder) Reset() {
	r.samples = r.samples[:0]
	for _, m := range r.metrics {
		m.Reset()
	}
}

func columnIndex(name string) int {
	for i, c := range Columns {
		if c == name {
			return i
		}
	}
	return -1
}
