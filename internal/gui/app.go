// Package gui is the raylib window frontend.
package gui

import (
	"fmt"
	"image/color"
	"io"

	"github.com/charmbracelet/log"
	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/san-kum/plexus/internal/config"
	"github.com/san-kum/plexus/internal/metrics"
	"github.com/san-kum/plexus/internal/particle"
	"github.com/san-kum/plexus/internal/render"
	"github.com/san-kum/plexus/internal/sim"
)

var (
	ColText    = rl.NewColor(200, 210, 220, 255)
	ColTextDim = rl.NewColor(110, 120, 130, 255)
	ColPanel   = rl.NewColor(10, 10, 14, 160)
)

type App struct {
	Loop     *sim.FrameLoop
	Surface  *Surface
	Recorder *metrics.Recorder
	Logger   *log.Logger

	Paused    bool
	ShowStats bool

	seed uint64
	last sim.FrameReport
}

func initWindow(cfg *config.Config) {
	rl.SetConfigFlags(rl.FlagWindowResizable | rl.FlagWindowHighdpi | rl.FlagMsaa4xHint)
	rl.InitWindow(int32(cfg.Viewport.Width), int32(cfg.Viewport.Height), "plexus")
	rl.SetTargetFPS(int32(cfg.Loop.FPS))
	rl.SetExitKey(0)
}

// windowViewport reads the current window geometry. The dpr reported by
// the platform is clamped, not rejected.
func windowViewport() (particle.Viewport, error) {
	scale := rl.GetWindowScaleDPI()
	return particle.NewViewport(float64(rl.GetScreenWidth()), float64(rl.GetScreenHeight()), float64(scale.X))
}

// NewApp builds the frame loop against the open window.
func NewApp(cfg *config.Config, logger *log.Logger) (*App, error) {
	if logger == nil {
		logger = log.New(io.Discard)
	}
	vp, err := windowViewport()
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

	a := &App{
		Surface:   &Surface{},
		Recorder:  metrics.NewRecorder(600, metrics.Standard()...),
		Logger:    logger,
		ShowStats: true,
		seed:      cfg.Simulation.Seed,
	}
	a.Surface.Resize(vp)
	a.Loop = sim.NewFrameLoop(s, r, a.Surface.Acquire, sim.WithLogger(logger), sim.WithObserver(a.Recorder))
	if err := a.Loop.Start(); err != nil {
		a.Surface.Unload()
		return nil, err
	}
	logger.Info("window ready", "width", vp.LogicalWidth, "height", vp.LogicalHeight, "dpr", vp.DPR)
	return a, nil
}

// Run opens the window and blocks until it is closed.
func Run(cfg *config.Config, logger *log.Logger) error {
	initWindow(cfg)
	defer rl.CloseWindow()

	app, err := NewApp(cfg, logger)
	if err != nil {
		return err
	}
	defer app.Surface.Unload()
	app.RunLoop()
	return nil
}

func (a *App) RunLoop() {
	for !rl.WindowShouldClose() && a.Loop.State() == sim.Running {
		a.Update()
		a.Draw()
	}
	a.Loop.Stop()
}

// Update feeds window events into the loop. A resize reallocates the
// render target here, outside texture mode, before the frame sees it.
func (a *App) Update() {
	if rl.IsKeyPressed(rl.KeyQ) || rl.IsKeyPressed(rl.KeyEscape) {
		a.Loop.Stop()
		return
	}
	if rl.IsKeyPressed(rl.KeySpace) {
		a.Paused = !a.Paused
	}
	if rl.IsKeyPressed(rl.KeyR) {
		a.seed++
		a.Loop.Simulation().Reseed(a.seed)
		a.Recorder.Reset()
	}
	if rl.IsKeyPressed(rl.KeyT) {
		a.Loop.Renderer().SetPalette(render.NextPalette(a.Loop.Renderer().Palette().Name))
	}
	if rl.IsKeyPressed(rl.KeyH) {
		a.ShowStats = !a.ShowStats
	}

	if rl.IsWindowResized() {
		vp, err := windowViewport()
		if err != nil {
			a.Logger.Warn("window size rejected", "err", err)
		} else if err := a.Loop.OnResize(vp.LogicalWidth, vp.LogicalHeight, vp.DPR); err == nil {
			a.Surface.Resize(vp)
		}
	}

	if rl.IsCursorOnScreen() {
		m := rl.GetMousePosition()
		a.Loop.OnPointerMove(float64(m.X), float64(m.Y))
	} else {
		a.Loop.OnPointerLeave()
	}
}

func (a *App) Draw() {
	if !a.Paused {
		rl.BeginTextureMode(a.Surface.Target)
		if rep, ok := a.Loop.Frame(); ok {
			a.last = rep
		}
		rl.EndTextureMode()
	}

	rl.BeginDrawing()
	rl.ClearBackground(rl.Black)
	a.Surface.Present(a.Loop.Simulation().Viewport())
	if a.ShowStats {
		a.drawStats()
	}
	rl.EndDrawing()
}

func (a *App) drawStats() {
	rl.DrawRectangle(8, 8, 250, 112, ColPanel)
	x, y := int32(16), int32(14)
	line := func(s string, col color.RGBA) {
		rl.DrawText(s, x, y, 16, col)
		y += 20
	}
	status := "running"
	if a.Paused {
		status = "paused"
	}
	line(fmt.Sprintf("plexus  %s  %d fps", status, rl.GetFPS()), ColText)
	line(fmt.Sprintf("particles %d  links %d", len(a.last.Particles), a.last.Connections), ColTextDim)
	line(fmt.Sprintf("mean speed %.3f", metrics.FrameMeanSpeed(a.last)), ColTextDim)
	line(fmt.Sprintf("palette %s  seed %d", a.Loop.Renderer().Palette().Name, a.seed), ColTextDim)
	line("SPACE pause  R reseed  T palette  H hide", ColTextDim)
}
