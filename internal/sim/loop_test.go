package sim_test

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/san-kum/plexus/internal/particle"
	"github.com/san-kum/plexus/internal/render"
	"github.com/san-kum/plexus/internal/sim"
)

type surfaceLog struct {
	mu       sync.Mutex
	acquired []particle.Viewport
}

func (s *surfaceLog) acquire(vp particle.Viewport) (render.Surface, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.acquired = append(s.acquired, vp)
	return render.NewImageSurface(int(vp.BufferWidth), int(vp.BufferHeight)), nil
}

func (s *surfaceLog) count() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.acquired)
}

var _ = Describe("FrameLoop", func() {
	var (
		simulation *sim.Simulation
		surfaces   *surfaceLog
		loop       *sim.FrameLoop
		frames     []sim.FrameReport
	)

	BeforeEach(func() {
		vp, err := particle.NewViewport(120, 90, 1)
		Expect(err).NotTo(HaveOccurred())
		cfg := particle.DefaultConfig()
		cfg.ParticleCount = 12
		simulation, err = sim.New(cfg, vp, 7)
		Expect(err).NotTo(HaveOccurred())

		surfaces = &surfaceLog{}
		frames = nil
		loop = sim.NewFrameLoop(simulation, render.NewRenderer(cfg), surfaces.acquire,
			sim.WithObserver(sim.ObserverFunc(func(r sim.FrameReport) {
				frames = append(frames, r)
			})))
	})

	It("starts idle and does not draw", func() {
		Expect(loop.State()).To(Equal(sim.Idle))
		_, ok := loop.Frame()
		Expect(ok).To(BeFalse())
		Expect(frames).To(BeEmpty())
	})

	It("runs frames after Start", func() {
		Expect(loop.Start()).To(Succeed())
		Expect(loop.State()).To(Equal(sim.Running))
		Expect(surfaces.count()).To(Equal(1))

		for i := 0; i < 3; i++ {
			_, ok := loop.Frame()
			Expect(ok).To(BeTrue())
		}
		Expect(frames).To(HaveLen(3))
		Expect(frames[2].Index).To(Equal(uint64(3)))
		Expect(frames[0].Particles).To(HaveLen(12))
	})

	It("refuses a second Start", func() {
		Expect(loop.Start()).To(Succeed())
		Expect(loop.Start()).To(MatchError(sim.ErrNotIdle))
	})

	It("stops for good and Stop is idempotent", func() {
		Expect(loop.Start()).To(Succeed())
		loop.Stop()
		loop.Stop()
		Expect(loop.State()).To(Equal(sim.Stopped))
		Eventually(loop.Done()).Should(BeClosed())

		_, ok := loop.Frame()
		Expect(ok).To(BeFalse())
		Expect(loop.Start()).To(MatchError(sim.ErrNotIdle))
	})

	It("reports an unavailable surface at Start", func() {
		failing := sim.NewFrameLoop(simulation, render.NewRenderer(simulation.Config()),
			func(particle.Viewport) (render.Surface, error) { return nil, errors.New("no display") })

		err := failing.Start()
		Expect(err).To(MatchError(particle.ErrSurfaceUnavailable))
		Expect(err.Error()).To(ContainSubstring("no display"))
		Expect(failing.State()).To(Equal(sim.Stopped))
	})

	It("treats a nil surface as unavailable", func() {
		failing := sim.NewFrameLoop(simulation, render.NewRenderer(simulation.Config()),
			func(particle.Viewport) (render.Surface, error) { return nil, nil })
		Expect(failing.Start()).To(MatchError(particle.ErrSurfaceUnavailable))
	})

	It("converts pointer coordinates to buffer space", func() {
		Expect(loop.OnResize(120, 90, 2)).To(Succeed())
		loop.OnPointerMove(10, 20)
		Expect(loop.Start()).To(Succeed())

		rep, ok := loop.Frame()
		Expect(ok).To(BeTrue())
		Expect(rep.Pointer.Present).To(BeTrue())
		Expect(rep.Pointer.Pos.X).To(Equal(20.0))
		Expect(rep.Pointer.Pos.Y).To(Equal(40.0))
	})

	It("keeps the pointer between frames until it leaves", func() {
		Expect(loop.Start()).To(Succeed())
		loop.OnPointerMove(5, 5)
		loop.Frame()
		rep, _ := loop.Frame()
		Expect(rep.Pointer.Present).To(BeTrue())

		loop.OnPointerLeave()
		rep, _ = loop.Frame()
		Expect(rep.Pointer.Present).To(BeFalse())
	})

	It("coalesces resize events and repopulates once", func() {
		Expect(loop.Start()).To(Succeed())
		Expect(loop.OnResize(200, 100, 1)).To(Succeed())
		Expect(loop.OnResize(300, 150, 1)).To(Succeed())
		Expect(loop.OnResize(64, 48, 1.5)).To(Succeed())

		rep, ok := loop.Frame()
		Expect(ok).To(BeTrue())
		Expect(surfaces.count()).To(Equal(2))
		Expect(rep.Viewport.BufferWidth).To(Equal(uint32(96)))
		Expect(rep.Viewport.BufferHeight).To(Equal(uint32(72)))
		for _, p := range rep.Particles {
			Expect(rep.Viewport.Contains(p.Pos.X, p.Pos.Y)).To(BeTrue())
		}
		w, h := loop.Surface().Size()
		Expect(w).To(Equal(96))
		Expect(h).To(Equal(72))
	})

	It("rejects invalid resize geometry", func() {
		Expect(loop.OnResize(-5, 10, 1)).To(MatchError(particle.ErrInvalidConfig))
	})

	It("draws nothing on a zero-sized viewport", func() {
		Expect(loop.Start()).To(Succeed())
		Expect(loop.OnResize(0, 0, 1)).To(Succeed())
		rep, ok := loop.Frame()
		Expect(ok).To(BeTrue())
		Expect(rep.Connections).To(BeZero())
		Expect(rep.PairChecks).To(BeZero())
	})

	Describe("Run", func() {
		It("drives one frame per tick until the channel closes", func() {
			Expect(loop.Start()).To(Succeed())
			ticks := make(chan time.Time, 5)
			for i := 0; i < 5; i++ {
				ticks <- time.Now()
			}
			close(ticks)

			Expect(loop.Run(context.Background(), ticks)).To(Succeed())
			Expect(frames).To(HaveLen(5))
			Expect(loop.State()).To(Equal(sim.Stopped))
		})

		It("returns the context error on cancellation", func() {
			Expect(loop.Start()).To(Succeed())
			ctx, cancel := context.WithCancel(context.Background())
			cancel()

			err := loop.Run(ctx, make(chan time.Time))
			Expect(err).To(MatchError(context.Canceled))
			Expect(loop.State()).To(Equal(sim.Stopped))
		})

		It("returns promptly when stopped from another goroutine", func() {
			var count atomic.Uint64
			counted := sim.NewFrameLoop(simulation, render.NewRenderer(simulation.Config()), surfaces.acquire,
				sim.WithObserver(sim.ObserverFunc(func(sim.FrameReport) { count.Add(1) })))
			Expect(counted.Start()).To(Succeed())
			ticks, release := sim.Ticker(240)
			defer release()

			errc := make(chan error, 1)
			go func() { errc <- counted.Run(context.Background(), ticks) }()
			Eventually(count.Load).Should(BeNumerically(">", 0))
			counted.Stop()
			Eventually(errc).Should(Receive(BeNil()))
		})

		It("refuses to run an idle loop", func() {
			Expect(loop.Run(context.Background(), make(chan time.Time))).NotTo(Succeed())
		})
	})
})
