package export

import (
	"fmt"
	"image/color"
	"io"
	"strings"

	"github.com/san-kum/plexus/internal/render"
)

// SVGSurface records drawing calls as SVG elements. Gradients are emitted
// once per distinct colour pair and shared through defs.
type SVGSurface struct {
	w, h      int
	defs      strings.Builder
	body      strings.Builder
	gradients map[string]string
}

var _ render.Surface = (*SVGSurface)(nil)

func NewSVGSurface(w, h int) *SVGSurface {
	return &SVGSurface{w: max(w, 0), h: max(h, 0), gradients: make(map[string]string)}
}

func (s *SVGSurface) Size() (int, int) { return s.w, s.h }

// Clear drops everything drawn so far.
func (s *SVGSurface) Clear(c color.NRGBA) {
	s.defs.Reset()
	s.body.Reset()
	clear(s.gradients)
	fmt.Fprintf(&s.body, `<rect width="100%%" height="100%%" fill="%s"%s/>`+"\n", hex(c), opacity("fill", c))
}

func (s *SVGSurface) FillDiagonalGradient(from, to color.NRGBA) {
	id := s.gradient("lin", from, to, func(id string) string {
		return fmt.Sprintf(`<linearGradient id="%s" gradientUnits="userSpaceOnUse" x1="0" y1="0" x2="%d" y2="%d">`, id, s.w, s.h)
	}, "</linearGradient>")
	fmt.Fprintf(&s.body, `<rect width="100%%" height="100%%" fill="url(#%s)"/>`+"\n", id)
}

func (s *SVGSurface) FillGlow(cx, cy, r float64, core, edge color.NRGBA) {
	if r <= 0 {
		return
	}
	id := s.gradient("glow", core, edge, func(id string) string {
		return fmt.Sprintf(`<radialGradient id="%s">`, id)
	}, "</radialGradient>")
	fmt.Fprintf(&s.body, `<circle cx="%.2f" cy="%.2f" r="%.2f" fill="url(#%s)"/>`+"\n", cx, cy, r, id)
}

func (s *SVGSurface) StrokeLine(x0, y0, x1, y1 float64, c color.NRGBA) {
	fmt.Fprintf(&s.body, `<line x1="%.2f" y1="%.2f" x2="%.2f" y2="%.2f" stroke="%s" stroke-width="%g"%s/>`+"\n",
		x0, y0, x1, y1, hex(c), render.LineWidth, opacity("stroke", c))
}

func (s *SVGSurface) gradient(kind string, from, to color.NRGBA, open func(id string) string, end string) string {
	key := fmt.Sprintf("%s:%s:%s", kind, rgba(from), rgba(to))
	if id, ok := s.gradients[key]; ok {
		return id
	}
	id := fmt.Sprintf("%s%d", kind, len(s.gradients))
	s.gradients[key] = id

	s.defs.WriteString(open(id))
	fmt.Fprintf(&s.defs, `<stop offset="0" stop-color="%s" stop-opacity="%s"/>`, hex(from), alpha(from))
	fmt.Fprintf(&s.defs, `<stop offset="1" stop-color="%s" stop-opacity="%s"/>`, hex(to), alpha(to))
	s.defs.WriteString(end + "\n")
	return id
}

// String returns the complete document.
func (s *SVGSurface) String() string {
	var sb strings.Builder
	fmt.Fprintf(&sb, `<?xml version="1.0" encoding="UTF-8"?>
<svg xmlns="http://www.w3.org/2000/svg" width="%d" height="%d" viewBox="0 0 %d %d">
`, s.w, s.h, s.w, s.h)
	if s.defs.Len() > 0 {
		sb.WriteString("<defs>\n")
		sb.WriteString(s.defs.String())
		sb.WriteString("</defs>\n")
	}
	sb.WriteString(s.body.String())
	sb.WriteString("</svg>\n")
	return sb.String()
}

func (s *SVGSurface) WriteTo(w io.Writer) (int64, error) {
	n, err := io.WriteString(w, s.String())
	return int64(n), err
}

func hex(c color.NRGBA) string {
	return fmt.Sprintf("#%02x%02x%02x", c.R, c.G, c.B)
}

func rgba(c color.NRGBA) string {
	return fmt.Sprintf("%02x%02x%02x%02x", c.R, c.G, c.B, c.A)
}

func alpha(c color.NRGBA) string {
	return fmt.Sprintf("%.3g", float64(c.A)/255)
}

func opacity(attr string, c color.NRGBA) string {
	if c.A == 255 {
		return ""
	}
	return fmt.Sprintf(` %s-opacity="%s"`, attr, alpha(c))
}
