package viz

import (
	"fmt"
	"io"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/log"
	"github.com/guptarohit/asciigraph"

	"github.com/san-kum/plexus/internal/config"
	"github.com/san-kum/plexus/internal/metrics"
	"github.com/san-kum/plexus/internal/particle"
	"github.com/san-kum/plexus/internal/render"
	"github.com/san-kum/plexus/internal/sim"
)

const (
	statsWidth      = 36
	historyCapacity = 600
	sparkWidth      = statsWidth - 6
)

type TickMsg time.Time

// Model is the bubbletea model of the terminal view. The frame loop runs
// inside Update, one frame per tick.
type Model struct {
	loop     *sim.FrameLoop
	surface  *BrailleSurface
	recorder *metrics.Recorder
	logger   *log.Logger

	theme    Theme
	fps      int
	paused   bool
	showHelp bool
	seed     uint64
	last     sim.FrameReport

	// Terminal size in cells.
	width, height int
}

// NewModel builds the loop for cfg. The viewport starts at a nominal size
// and follows the terminal from the first WindowSizeMsg on.
func NewModel(cfg *config.Config, logger *log.Logger) (Model, error) {
	if logger == nil {
		logger = log.New(io.Discard)
	}
	if err := cfg.Validate(); err != nil {
		return Model{}, err
	}

	cols, rows := 80-statsWidth, 24
	vp, err := particle.NewViewport(float64(cols)*2*DefaultDotScale, float64(rows)*4*DefaultDotScale, 1)
	if err != nil {
		return Model{}, err
	}
	s, err := sim.New(cfg.ParticleConfig(), vp, cfg.Simulation.Seed)
	if err != nil {
		return Model{}, err
	}

	m := Model{
		surface:  NewBrailleSurface(int(vp.BufferWidth), int(vp.BufferHeight)),
		recorder: metrics.NewRecorder(historyCapacity, metrics.Standard()...),
		logger:   logger,
		theme:    ThemeFor(cfg.Palette()),
		fps:      cfg.Loop.FPS,
		seed:     cfg.Simulation.Seed,
		width:    80,
		height:   rows,
	}
	r := render.NewRenderer(cfg.ParticleConfig(),
		render.WithPalette(cfg.Palette()),
		render.WithPairFinder(cfg.PairFinder()))
	acquire := func(vp particle.Viewport) (render.Surface, error) {
		m.surface.Resize(int(vp.BufferWidth), int(vp.BufferHeight))
		return m.surface, nil
	}
	m.loop = sim.NewFrameLoop(s, r, acquire, sim.WithLogger(logger), sim.WithObserver(m.recorder))
	if err := m.loop.Start(); err != nil {
		return Model{}, err
	}
	return m, nil
}

func (m Model) tick() tea.Cmd {
	return tea.Tick(time.Second/time.Duration(max(m.fps, 1)), func(t time.Time) tea.Msg { return TickMsg(t) })
}

func (m Model) Init() tea.Cmd { return m.tick() }

// canvasCols is the width left for the canvas once the stats panel is
// placed to its right.
func (m Model) canvasCols() int { return max(m.width-statsWidth, 0) }

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c", "esc":
			m.loop.Stop()
			return m, tea.Quit
		case " ":
			m.paused = !m.paused
		case "r":
			m.seed++
			m.loop.Simulation().Reseed(m.seed)
			m.recorder.Reset()
			m.logger.Debug("reseeded", "seed", m.seed)
		case "t":
			p := render.NextPalette(m.loop.Renderer().Palette().Name)
			m.loop.Renderer().SetPalette(p)
			m.theme = ThemeFor(p)
		case "?":
			m.showHelp = !m.showHelp
		}
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		w := float64(m.canvasCols()) * 2 * m.surface.DotScale
		h := float64(m.height) * 4 * m.surface.DotScale
		if err := m.loop.OnResize(w, h, 1); err != nil {
			m.logger.Warn("resize rejected", "err", err)
		}
	case tea.MouseMsg:
		// Point at the centre of the cell under the cursor.
		if msg.X >= m.canvasCols() || msg.Y >= m.height || msg.X < 0 || msg.Y < 0 {
			m.loop.OnPointerLeave()
			break
		}
		x := (float64(msg.X) + 0.5) * 2 * m.surface.DotScale
		y := (float64(msg.Y) + 0.5) * 4 * m.surface.DotScale
		m.loop.OnPointerMove(x, y)
	case tea.BlurMsg:
		m.loop.OnPointerLeave()
	case TickMsg:
		if !m.paused {
			if rep, ok := m.loop.Frame(); ok {
				m.last = rep
			}
		}
		return m, m.tick()
	}
	return m, nil
}

func (m Model) View() string {
	canvas := m.surface.Canvas.Render(m.theme.LineStyle(), m.theme.GlowStyle())

	var s strings.Builder
	s.WriteString(GradientText("PLEXUS", m.theme.Glow, m.theme.Secondary) + "\n")
	if m.paused {
		s.WriteString(statusPaused.Render("PAUSED") + "\n\n")
	} else {
		s.WriteString(statusRunning.Render("RUNNING") + "\n\n")
	}

	speed := m.recorder.Column("mean_speed")
	if len(speed) > 1 {
		if len(speed) > 120 {
			speed = speed[len(speed)-120:]
		}
		chart := asciigraph.Plot(speed, asciigraph.Height(4), asciigraph.Width(sparkWidth-8), asciigraph.Caption("mean speed"))
		s.WriteString(graphStyle.Foreground(m.theme.Primary).Render(chart) + "\n")
	}

	n := len(m.last.Particles)
	density := 0.0
	if n > 1 {
		density = float64(m.last.Connections) / float64(n*(n-1)/2)
	}
	row := func(label, value string) {
		s.WriteString(labelStyle.Render(label) + valueStyle.Render(value) + "\n")
	}
	row("Frame", fmt.Sprintf("%d", m.last.Index))
	row("Particles", fmt.Sprintf("%d", n))
	row("Links", fmt.Sprintf("%d %s", m.last.Connections, Meter(density, 10)))
	row("Resets", fmt.Sprintf("%d", m.last.Resets))
	row("Seed", fmt.Sprintf("%d", m.seed))
	row("Palette", m.theme.Name)
	row("Index", m.loop.Renderer().Finder().Name())
	if m.last.Pointer.Present {
		row("Pointer", fmt.Sprintf("%.0f,%.0f", m.last.Pointer.Pos.X, m.last.Pointer.Pos.Y))
	} else {
		row("Pointer", "-")
	}
	s.WriteString("\n" + SparklineChart(m.recorder.Column("connections"), sparkWidth, lipgloss.NewStyle().Foreground(m.theme.Line)) + "\n")

	if m.showHelp {
		s.WriteString(helpStyle.Render("SPACE pause/resume\nR     reseed\nT     next palette\nQ     quit\n?     hide help"))
	} else {
		s.WriteString(helpStyle.Render("SP:Pause R:Reseed T:Palette\nQ:Quit ?:Help"))
	}

	return lipgloss.JoinHorizontal(lipgloss.Top, canvas, statsStyle.Render(s.String()))
}

// Run shows the terminal view until the user quits.
func Run(cfg *config.Config, logger *log.Logger) error {
	m, err := NewModel(cfg, logger)
	if err != nil {
		return err
	}
	p := tea.NewProgram(m, tea.WithAltScreen(), tea.WithMouseAllMotion(), tea.WithReportFocus())
	_, err = p.Run()
	m.loop.Stop()
	return err
}
