package viz

import (
	"image/color"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/san-kum/plexus/internal/config"
	"github.com/san-kum/plexus/internal/render"
)

func TestCanvasSet(t *testing.T) {
	c := NewCanvas(2, 1)
	c.Set(0, 0, InkLine)
	c.Set(3, 3, InkGlow)
	c.Set(4, 0, InkLine) // out of bounds
	c.Set(-1, 0, InkLine)

	assert.True(t, c.On(0, 0))
	assert.True(t, c.On(3, 3))
	assert.False(t, c.On(1, 0))
	assert.Equal(t, "⠁⢀\n", c.String())
	assert.Equal(t, InkLine, c.Ink[0][0])
	assert.Equal(t, InkGlow, c.Ink[0][1])

	c.Set(2, 0, InkLine)
	assert.Equal(t, InkGlow, c.Ink[0][1], "glow keeps its ink")

	c.Clear()
	assert.Equal(t, "⠀⠀\n", c.String())
}

func TestCanvasDrawLine(t *testing.T) {
	c := NewCanvas(4, 1)
	c.DrawLine(0, 0, 7, 0, InkLine)
	for x := 0; x < 8; x++ {
		assert.True(t, c.On(x, 0), "x=%d", x)
	}
	assert.False(t, c.On(0, 1))
}

func TestCanvasRenderPlain(t *testing.T) {
	c := NewCanvas(3, 2)
	c.Set(0, 0, InkGlow)
	out := c.Render(lipgloss.NewStyle(), lipgloss.NewStyle())
	assert.Equal(t, strings.TrimSuffix(c.String(), "\n"), out)
}

func TestBrailleSurface(t *testing.T) {
	s := NewBrailleSurface(80, 64)
	w, h := s.Size()
	assert.Equal(t, 80, w)
	assert.Equal(t, 64, h)
	assert.Equal(t, 10, s.Canvas.Width)
	assert.Equal(t, 4, s.Canvas.Height)

	s.FillGlow(10, 10, 1, color.NRGBA{A: 255}, color.NRGBA{})
	assert.True(t, s.Canvas.On(2, 2))

	s.StrokeLine(0, 60, 76, 60, color.NRGBA{A: s.LineCutoff - 1})
	assert.False(t, s.Canvas.On(0, 15))
	s.StrokeLine(0, 60, 76, 60, color.NRGBA{A: 255})
	assert.True(t, s.Canvas.On(0, 15))
	assert.True(t, s.Canvas.On(19, 15))

	s.Clear(color.NRGBA{})
	assert.False(t, s.Canvas.On(2, 2))

	s.Resize(8, 16)
	assert.Equal(t, 1, s.Canvas.Width)
	assert.Equal(t, 1, s.Canvas.Height)
}

func TestThemeFor(t *testing.T) {
	p, ok := render.GetPalette("mono")
	require.True(t, ok)
	th := ThemeFor(p)
	assert.Equal(t, "mono", th.Name)
	assert.Equal(t, lipgloss.Color("#b4b4b4"), th.Line)
}

func TestSparklineChart(t *testing.T) {
	plain := lipgloss.NewStyle()
	assert.Equal(t, "───", SparklineChart(nil, 3, plain))
	assert.Equal(t, "▁█", SparklineChart([]float64{5, 0, 10}, 2, plain))
	assert.Equal(t, "[==--]", Meter(0.5, 4))
}

func testModel(t *testing.T) Model {
	t.Helper()
	cfg := config.DefaultConfig()
	cfg.Simulation.ParticleCount = 10
	m, err := NewModel(cfg, nil)
	require.NoError(t, err)
	t.Cleanup(m.loop.Stop)
	return m
}

func update(m Model, msg tea.Msg) Model {
	next, _ := m.Update(msg)
	return next.(Model)
}

func TestModelKeys(t *testing.T) {
	m := testModel(t)

	m = update(m, tea.KeyMsg{Type: tea.KeySpace})
	assert.True(t, m.paused)
	m = update(m, TickMsg{})
	assert.Zero(t, m.last.Index, "paused model does not step")
	m = update(m, tea.KeyMsg{Type: tea.KeySpace})
	m = update(m, TickMsg{})
	assert.Equal(t, uint64(1), m.last.Index)

	m = update(m, tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("r")})
	assert.Equal(t, uint64(2), m.seed)
	assert.Equal(t, uint64(2), m.loop.Simulation().Seed())

	before := m.theme.Name
	m = update(m, tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("t")})
	assert.NotEqual(t, before, m.theme.Name)
	assert.Equal(t, m.theme.Name, m.loop.Renderer().Palette().Name)
}

func TestModelResizeAndMouse(t *testing.T) {
	m := testModel(t)

	m = update(m, tea.WindowSizeMsg{Width: statsWidth + 20, Height: 10})
	m = update(m, tea.MouseMsg{X: 2, Y: 1, Action: tea.MouseActionMotion})
	m = update(m, TickMsg{})

	assert.Equal(t, 20, m.surface.Canvas.Width)
	assert.Equal(t, 10, m.surface.Canvas.Height)
	require.True(t, m.last.Pointer.Present)
	assert.Equal(t, 2.5*2*DefaultDotScale, m.last.Pointer.Pos.X)
	assert.Equal(t, 1.5*4*DefaultDotScale, m.last.Pointer.Pos.Y)

	m = update(m, tea.MouseMsg{X: 30, Y: 1, Action: tea.MouseActionMotion})
	m = update(m, TickMsg{})
	assert.False(t, m.last.Pointer.Present)

	assert.Contains(t, m.View(), "RUNNING")
}

func TestModelQuit(t *testing.T) {
	m := testModel(t)
	_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("q")})
	require.NotNil(t, cmd)
	assert.IsType(t, tea.QuitMsg{}, cmd())
}
