package viz

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// Braille Patterns: 2x4 dots
// 1 4
// 2 5
// 3 6
// 7 8
//
// Unicode offset 0x2800
var pixelMap = [4][2]int{
	{0x1, 0x8},
	{0x2, 0x10},
	{0x4, 0x20},
	{0x40, 0x80},
}

const blank = rune(0x2800)

// Ink records what last touched a cell, so it can be coloured.
type Ink uint8

const (
	InkNone Ink = iota
	InkLine
	InkGlow
)

// Canvas is a grid of braille cells, each holding 2x4 dots.
type Canvas struct {
	Width, Height int
	Grid          [][]rune
	Ink           [][]Ink
}

func NewCanvas(w, h int) *Canvas {
	c := &Canvas{}
	c.Resize(w, h)
	return c
}

// Resize reallocates the grid and clears it.
func (c *Canvas) Resize(w, h int) {
	w, h = max(w, 0), max(h, 0)
	c.Width, c.Height = w, h
	c.Grid = make([][]rune, h)
	c.Ink = make([][]Ink, h)
	for i := range c.Grid {
		c.Grid[i] = make([]rune, w)
		c.Ink[i] = make([]Ink, w)
	}
	c.Clear()
}

// Set turns on the dot at (x, y) in dot coordinates. The canvas is
// (Width*2) x (Height*4) dots. A glow never loses its ink to a line.
func (c *Canvas) Set(x, y int, ink Ink) {
	if x < 0 || y < 0 {
		return
	}
	col, row := x/2, y/4
	if col >= c.Width || row >= c.Height {
		return
	}
	c.Grid[row][col] |= rune(pixelMap[y%4][x%2])
	if ink > c.Ink[row][col] {
		c.Ink[row][col] = ink
	}
}

// On reports whether the dot at (x, y) is set.
func (c *Canvas) On(x, y int) bool {
	if x < 0 || y < 0 || x/2 >= c.Width || y/4 >= c.Height {
		return false
	}
	return c.Grid[y/4][x/2]&rune(pixelMap[y%4][x%2]) != 0
}

func (c *Canvas) Clear() {
	for i := range c.Grid {
		for j := range c.Grid[i] {
			c.Grid[i][j] = blank
			c.Ink[i][j] = InkNone
		}
	}
}

// DrawLine draws a line using Bresenham's algorithm
func (c *Canvas) DrawLine(x0, y0, x1, y1 int, ink Ink) {
	dx := absInt(x1 - x0)
	dy := absInt(y1 - y0)
	sx := -1
	if x0 < x1 {
		sx = 1
	}
	sy := -1
	if y0 < y1 {
		sy = 1
	}
	err := dx - dy

	for {
		c.Set(x0, y0, ink)
		if x0 == x1 && y0 == y1 {
			break
		}
		e2 := 2 * err
		if e2 > -dy {
			err -= dy
			x0 += sx
		}
		if e2 < dx {
			err += dx
			y0 += sy
		}
	}
}

// String renders the grid without colour.
func (c *Canvas) String() string {
	var b strings.Builder
	for _, row := range c.Grid {
		b.WriteString(string(row) + "\n")
	}
	return b.String()
}

// Render colours each run of same-ink cells with the matching style.
func (c *Canvas) Render(line, glow lipgloss.Style) string {
	var b strings.Builder
	for r, row := range c.Grid {
		start := 0
		for i := 1; i <= len(row); i++ {
			if i < len(row) && c.Ink[r][i] == c.Ink[r][start] {
				continue
			}
			seg := string(row[start:i])
			switch c.Ink[r][start] {
			case InkGlow:
				b.WriteString(glow.Render(seg))
			case InkLine:
				b.WriteString(line.Render(seg))
			default:
				b.WriteString(seg)
			}
			start = i
		}
		if r < len(c.Grid)-1 {
			b.WriteByte('\n')
		}
	}
	return b.String()
}

func absInt(x int) int {
	if x < 0 {
		return -x
	}
	return x
}
