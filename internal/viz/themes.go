package viz

import (
	"fmt"
	"image/color"

	"github.com/charmbracelet/lipgloss"

	"github.com/san-kum/plexus/internal/render"
)

// Theme is the terminal rendering of a palette.
type Theme struct {
	Name      string
	Glow      lipgloss.Color
	Line      lipgloss.Color
	Primary   lipgloss.Color
	Secondary lipgloss.Color
	Text      lipgloss.Color
	Muted     lipgloss.Color
	Warning   lipgloss.Color
}

// ThemeFor derives a theme from a palette's colours.
func ThemeFor(p render.Palette) Theme {
	return Theme{
		Name:      p.Name,
		Glow:      hexOf(p.Core),
		Line:      hexOf(p.Line),
		Primary:   hexOf(render.Lerp(p.Core, p.Line, 0.5)),
		Secondary: hexOf(p.WashTo),
		Text:      lipgloss.Color("#e8eef5"),
		Muted:     lipgloss.Color("#666688"),
		Warning:   lipgloss.Color("#ffaa00"),
	}
}

func (t Theme) GlowStyle() lipgloss.Style { return lipgloss.NewStyle().Foreground(t.Glow) }

func (t Theme) LineStyle() lipgloss.Style {
	return lipgloss.NewStyle().Foreground(t.Line).Faint(true)
}

func hexOf(c color.NRGBA) lipgloss.Color {
	return lipgloss.Color(fmt.Sprintf("#%02x%02x%02x", c.R, c.G, c.B))
}
