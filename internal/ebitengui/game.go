// Package ebitengui is the Ebitengine window frontend.
package ebitengui

import (
	"fmt"
	"io"

	"github.com/charmbracelet/log"
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/inpututil"

	"github.com/san-kum/plexus/internal/config"
	"github.com/san-kum/plexus/internal/metrics"
	"github.com/san-kum/plexus/internal/particle"
	"github.com/san-kum/plexus/internal/render"
	"github.com/san-kum/plexus/internal/sim"
)

// Game runs one frame per ebiten tick. Layout reports the window geometry
// to the loop; Update feeds input and renders offscreen; Draw presents.
type Game struct {
	loop     *sim.FrameLoop
	surface  *Surface
	recorder *metrics.Recorder
	logger   *log.Logger

	vp        particle.Viewport
	paused    bool
	showStats bool
	seed      uint64
	last      sim.FrameReport
}

func NewGame(cfg *config.Config, logger *log.Logger) (*Game, error) {
	if logger == nil {
		logger = log.New(io.Discard)
	}
	vp, err := particle.NewViewport(cfg.Viewport.Width, cfg.Viewport.Height, deviceScale())
	if err != nil {
		return nil, err
	}
	s, err := sim.New(cfg.ParticleConfig(), vp, cfg.Simulation.Seed)
	if err != nil {
		return nil, err
	}
	r := render.NewRenderer(cfg.ParticleConfig(),
		render.WithPalette(cfg.Palette()),
		render.WithPairFinder(cfg.PairFinder()))

	g := &Game{
		surface:   NewSurface(),
		recorder:  metrics.NewRecorder(600, metrics.Standard()...),
		logger:    logger,
		vp:        vp,
		showStats: true,
		seed:      cfg.Simulation.Seed,
	}
	g.loop = sim.NewFrameLoop(s, r, g.surface.Acquire, sim.WithLogger(logger), sim.WithObserver(g.recorder))
	if err := g.loop.Start(); err != nil {
		return nil, err
	}
	return g, nil
}

// deviceScale is 1 until a monitor is known, which is the case before
// the game starts.
func deviceScale() float64 {
	if m := ebiten.Monitor(); m != nil {
		return m.DeviceScaleFactor()
	}
	return 1
}

// Layout works in buffer pixels so nothing is resampled on HiDPI screens.
func (g *Game) Layout(outsideWidth, outsideHeight int) (int, int) {
	dpr := deviceScale()
	w, h := float64(outsideWidth), float64(outsideHeight)
	if w != g.vp.LogicalWidth || h != g.vp.LogicalHeight || particle.ClampDPR(dpr) != g.vp.DPR {
		if err := g.loop.OnResize(w, h, dpr); err != nil {
			g.logger.Warn("window size rejected", "err", err)
		} else {
			g.vp, _ = particle.NewViewport(w, h, dpr)
		}
	}
	return int(g.vp.BufferWidth), int(g.vp.BufferHeight)
}

func (g *Game) Update() error {
	if inpututil.IsKeyJustPressed(ebiten.KeyQ) || inpututil.IsKeyJustPressed(ebiten.KeyEscape) {
		g.loop.Stop()
		return ebiten.Termination
	}
	if inpututil.IsKeyJustPressed(ebiten.KeySpace) {
		g.paused = !g.paused
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyR) {
		g.seed++
		g.loop.Simulation().Reseed(g.seed)
		g.recorder.Reset()
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyT) {
		g.loop.Renderer().SetPalette(render.NextPalette(g.loop.Renderer().Palette().Name))
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyH) {
		g.showStats = !g.showStats
	}

	// The cursor is reported in layout (buffer) pixels.
	cx, cy := ebiten.CursorPosition()
	inside := cx >= 0 && cy >= 0 && cx < int(g.vp.BufferWidth) && cy < int(g.vp.BufferHeight)
	if ebiten.IsFocused() && inside {
		g.loop.OnPointerMove(float64(cx)/g.vp.DPR, float64(cy)/g.vp.DPR)
	} else {
		g.loop.OnPointerLeave()
	}

	if !g.paused {
		if rep, ok := g.loop.Frame(); ok {
			g.last = rep
		}
	}
	if g.loop.State() == sim.Stopped {
		return ebiten.Termination
	}
	return nil
}

func (g *Game) Draw(screen *ebiten.Image) {
	if img := g.surface.Image(); img != nil {
		screen.DrawImage(img, nil)
	}
	if g.showStats {
		ebitenutil.DebugPrint(screen, fmt.Sprintf(
			"plexus  %.0f fps\nparticles %d  links %d\nmean speed %.3f\npalette %s  seed %d\nSPACE pause  R reseed  T palette  H hide",
			ebiten.ActualFPS(), len(g.last.Particles), g.last.Connections,
			metrics.FrameMeanSpeed(g.last), g.loop.Renderer().Palette().Name, g.seed))
	}
}

// Run opens the window and blocks until it is closed.
func Run(cfg *config.Config, logger *log.Logger) error {
	g, err := NewGame(cfg, logger)
	if err != nil {
		return err
	}
	defer g.loop.Stop()

	ebiten.SetWindowSize(int(cfg.Viewport.Width), int(cfg.Viewport.Height))
	ebiten.SetWindowTitle("plexus")
	ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)
	ebiten.SetTPS(cfg.Loop.FPS)
	return ebiten.RunGame(g)
}
