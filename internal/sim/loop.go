package sim

import (
	"context"
	"errors"
	"fmt"
	"io"
	"sync"
	"sync/atomic"
	"time"

	"github.com/charmbracelet/log"
	"github.com/san-kum/plexus/internal/particle"
	"github.com/san-kum/plexus/internal/render"
)

// ErrNotIdle is returned by Start on a loop that already started.
var ErrNotIdle = errors.New("sim: frame loop already started")

type State int32

const (
	Idle State = iota
	Running
	Stopped
)

func (s State) String() string {
	switch s {
	case Idle:
		return "idle"
	case Running:
		return "running"
	case Stopped:
		return "stopped"
	}
	return fmt.Sprintf("state(%d)", int32(s))
}

// SurfaceFunc acquires a drawing target sized for vp. It is called at Start
// and after every resize.
type SurfaceFunc func(vp particle.Viewport) (render.Surface, error)

// FrameReport describes one completed frame. Particles aliases the live
// collection and is only valid inside the observer call.
type FrameReport struct {
	Index       uint64
	Resets      int
	Connections int
	PairChecks  int
	Particles   []particle.Particle
	Pointer     particle.Pointer
	Viewport    particle.Viewport
	Elapsed     time.Duration
}

type Observer interface {
	OnFrame(r FrameReport)
}

// ObserverFunc adapts a function to Observer.
type ObserverFunc func(r FrameReport)

func (f ObserverFunc) OnFrame(r FrameReport) { f(r) }

// FrameLoop drives Simulation.Step and Renderer.Render once per frame.
//
// Frame must be called from one goroutine at a time. Stop and the On*
// input methods are safe from any goroutine.
type FrameLoop struct {
	sim      *Simulation
	renderer *render.Renderer
	acquire  SurfaceFunc
	logger   *log.Logger

	state    atomic.Int32
	done     chan struct{}
	stopOnce sync.Once

	pending   Latest[particle.Pointer]
	resize    Latest[particle.Viewport]
	published atomic.Pointer[particle.Viewport]

	surface   render.Surface
	pointer   particle.Pointer
	frames    uint64
	observers []Observer
}

type LoopOption func(*FrameLoop)

func WithLogger(l *log.Logger) LoopOption {
	return func(fl *FrameLoop) { fl.logger = l }
}

func WithObserver(o Observer) LoopOption {
	return func(fl *FrameLoop) { fl.observers = append(fl.observers, o) }
}

func NewFrameLoop(s *Simulation, r *render.Renderer, acquire SurfaceFunc, opts ...LoopOption) *FrameLoop {
	fl := &FrameLoop{
		sim:      s,
		renderer: r,
		acquire:  acquire,
		done:     make(chan struct{}),
	}
	for _, opt := range opts {
		opt(fl)
	}
	if fl.logger == nil {
		fl.logger = log.New(io.Discard)
	}
	vp := s.Viewport()
	fl.published.Store(&vp)
	return fl
}

func (l *FrameLoop) Observe(o Observer) { l.observers = append(l.observers, o) }

func (l *FrameLoop) State() State { return State(l.state.Load()) }

// Done is closed once the loop reaches Stopped.
func (l *FrameLoop) Done() <-chan struct{} { return l.done }

func (l *FrameLoop) Simulation() *Simulation { return l.sim }

func (l *FrameLoop) Renderer() *render.Renderer { return l.renderer }

// Surface returns the current drawing target; nil before Start.
func (l *FrameLoop) Surface() render.Surface { return l.surface }

// Pointer returns the pointer as of the last frame.
func (l *FrameLoop) Pointer() particle.Pointer { return l.pointer }

// Start acquires the drawing surface and moves the loop to Running. A
// failed acquisition stops the loop for good.
func (l *FrameLoop) Start() error {
	if !l.state.CompareAndSwap(int32(Idle), int32(Running)) {
		return ErrNotIdle
	}
	vp := l.sim.Viewport()
	surf, err := l.acquire(vp)
	if err == nil && surf == nil {
		err = errors.New("acquire returned no surface")
	}
	if err != nil {
		l.Stop()
		return fmt.Errorf("%w: %v", particle.ErrSurfaceUnavailable, err)
	}
	l.surface = surf
	l.logger.Debug("frame loop started", "width", vp.BufferWidth, "height", vp.BufferHeight, "dpr", vp.DPR)
	return nil
}

// Stop moves the loop to Stopped. Calling it again has no effect.
func (l *FrameLoop) Stop() {
	l.stopOnce.Do(func() {
		prev := State(l.state.Swap(int32(Stopped)))
		close(l.done)
		if prev == Running {
			l.logger.Debug("frame loop stopped", "frames", l.frames)
		}
	})
}

// OnPointerMove records a pointer position given in logical coordinates.
func (l *FrameLoop) OnPointerMove(x, y float64) {
	vp := l.published.Load()
	l.pending.Put(particle.ToBuffer(x, y, *vp))
}

// OnPointerLeave marks the pointer absent from the next frame on.
func (l *FrameLoop) OnPointerLeave() {
	l.pending.Put(particle.Pointer{})
}

// OnResize validates the new geometry and queues it for the next frame.
func (l *FrameLoop) OnResize(width, height, dpr float64) error {
	vp, err := particle.NewViewport(width, height, dpr)
	if err != nil {
		return err
	}
	l.published.Store(&vp)
	l.resize.Put(vp)
	return nil
}

// Frame runs one step and one render. It reports false, doing nothing,
// when the loop is not running.
func (l *FrameLoop) Frame() (FrameReport, bool) {
	if l.State() != Running {
		return FrameReport{}, false
	}
	start := time.Now()

	if vp, ok := l.resize.Take(); ok {
		l.applyResize(vp)
	}
	if ptr, ok := l.pending.Take(); ok {
		l.pointer = ptr
	}

	step := l.sim.Step(l.pointer)
	vp := l.sim.Viewport()
	stats := l.renderer.Render(l.surface, l.sim.Particles(), l.pointer, vp)

	l.frames++
	rep := FrameReport{
		Index:       l.frames,
		Resets:      step.Resets,
		Connections: stats.Connections,
		PairChecks:  stats.PairChecks,
		Particles:   l.sim.Particles(),
		Pointer:     l.pointer,
		Viewport:    vp,
		Elapsed:     time.Since(start),
	}
	for _, o := range l.observers {
		o.OnFrame(rep)
	}
	return rep, true
}

func (l *FrameLoop) applyResize(vp particle.Viewport) {
	l.sim.Resize(vp)
	surf, err := l.acquire(vp)
	if err != nil || surf == nil {
		// Keep drawing into the old surface; the renderer clips.
		l.logger.Warn("surface reacquire failed", "err", err)
	} else {
		l.surface = surf
	}
	l.logger.Debug("viewport resized", "width", vp.BufferWidth, "height", vp.BufferHeight, "dpr", vp.DPR)
}

// Run calls Frame once per tick until Stop, ctx cancellation or the tick
// channel closing. It returns ctx.Err() on cancellation and nil otherwise.
func (l *FrameLoop) Run(ctx context.Context, ticks <-chan time.Time) error {
	if l.State() != Running {
		return fmt.Errorf("sim: run on %s loop", l.State())
	}
	for {
		select {
		case <-ctx.Done():
			l.Stop()
			return ctx.Err()
		case <-l.done:
			return nil
		case _, ok := <-ticks:
			if !ok {
				l.Stop()
				return nil
			}
			if _, running := l.Frame(); !running {
				return nil
			}
		}
	}
}

// Ticker returns a tick channel at fps and a function releasing it.
func Ticker(fps int) (<-chan time.Time, func()) {
	if fps <= 0 {
		fps = 60
	}
	t := time.NewTicker(time.Second / time.Duration(fps))
	return t.C, t.Stop
}
