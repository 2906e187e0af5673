package automation

import (
	"context"
	"fmt"
	"io"

	"github.com/charmbracelet/log"

	"github.com/san-kum/plexus/internal/config"
	"github.com/san-kum/plexus/internal/metrics"
	"github.com/san-kum/plexus/internal/particle"
	"github.com/san-kum/plexus/internal/render"
	"github.com/san-kum/plexus/internal/sim"
)

// DefaultHistory bounds how many per-frame samples a headless run keeps.
const DefaultHistory = 1 << 16

// Headless is a frame loop drawing into an in-memory image, with a
// metrics recorder attached.
type Headless struct {
	Loop     *sim.FrameLoop
	Surface  *render.ImageSurface
	Recorder *metrics.Recorder
}

// NewHeadless builds and starts a loop from cfg. Resizes reallocate the
// image in place, so Surface stays valid for the loop's lifetime.
func NewHeadless(cfg *config.Config, logger *log.Logger) (*Headless, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	vp, err := cfg.BuildViewport()
	if err != nil {
		return nil, err
	}
	s, err := sim.New(cfg.ParticleConfig(), vp, cfg.Simulation.Seed)
	if err != nil {
		return nil, err
	}
	if logger == nil {
		logger = log.New(io.Discard)
	}

	h := &Headless{
		Surface:  render.NewImageSurface(int(vp.BufferWidth), int(vp.BufferHeight)),
		Recorder: metrics.NewRecorder(DefaultHistory, metrics.Standard()...),
	}
	r := render.NewRenderer(cfg.ParticleConfig(),
		render.WithPalette(cfg.Palette()),
		render.WithPairFinder(cfg.PairFinder()))
	acquire := func(vp particle.Viewport) (render.Surface, error) {
		h.Surface.Resize(int(vp.BufferWidth), int(vp.BufferHeight))
		return h.Surface, nil
	}
	h.Loop = sim.NewFrameLoop(s, r, acquire, sim.WithLogger(logger), sim.WithObserver(h.Recorder))
	if err := h.Loop.Start(); err != nil {
		return nil, err
	}
	return h, nil
}

// RunFrames advances n frames, checking ctx between frames.
func (h *Headless) RunFrames(ctx context.Context, n int) error {
	for i := 0; i < n; i++ {
		if err := ctx.Err(); err != nil {
			return err
		}
		if _, ok := h.Loop.Frame(); !ok {
			return fmt.Errorf("loop %s after %d frames", h.Loop.State(), i)
		}
	}
	return nil
}

func (h *Headless) Close() { h.Loop.Stop() }
