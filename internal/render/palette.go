package render

import (
	"image/color"
	"sort"
)

// Palette holds every colour the renderer uses.
type Palette struct {
	Name        string
	Base        color.NRGBA
	WashFrom    color.NRGBA
	WashTo      color.NRGBA
	Core        color.NRGBA
	Edge        color.NRGBA
	Line        color.NRGBA
	LineOpacity float64
}

var (
	// Aurora is the original cyan to green scheme.
	Aurora = Palette{
		Name:        "aurora",
		Base:        color.NRGBA{R: 5, G: 8, B: 16, A: 255},
		WashFrom:    color.NRGBA{R: 0, G: 212, B: 255, A: 13},
		WashTo:      color.NRGBA{R: 0, G: 255, B: 136, A: 8},
		Core:        color.NRGBA{R: 0, G: 212, B: 255, A: 204},
		Edge:        color.NRGBA{R: 0, G: 255, B: 136, A: 0},
		Line:        color.NRGBA{R: 0, G: 212, B: 255, A: 255},
		LineOpacity: 0.15,
	}

	Mono = Palette{
		Name:        "mono",
		Base:        color.NRGBA{R: 10, G: 10, B: 10, A: 255},
		WashFrom:    color.NRGBA{R: 255, G: 255, B: 255, A: 8},
		WashTo:      color.NRGBA{R: 128, G: 128, B: 128, A: 4},
		Core:        color.NRGBA{R: 240, G: 240, B: 240, A: 220},
		Edge:        color.NRGBA{R: 140, G: 140, B: 140, A: 0},
		Line:        color.NRGBA{R: 180, G: 180, B: 180, A: 255},
		LineOpacity: 0.2,
	}

	Ember = Palette{
		Name:        "ember",
		Base:        color.NRGBA{R: 20, G: 8, B: 6, A: 255},
		WashFrom:    color.NRGBA{R: 255, G: 107, B: 107, A: 13},
		WashTo:      color.NRGBA{R: 254, G: 202, B: 87, A: 8},
		Core:        color.NRGBA{R: 255, G: 159, B: 67, A: 210},
		Edge:        color.NRGBA{R: 255, G: 71, B: 87, A: 0},
		Line:        color.NRGBA{R: 254, G: 202, B: 87, A: 255},
		LineOpacity: 0.18,
	}

	Ocean = Palette{
		Name:        "ocean",
		Base:        color.NRGBA{R: 0, G: 26, B: 51, A: 255},
		WashFrom:    color.NRGBA{R: 0, G: 119, B: 190, A: 16},
		WashTo:      color.NRGBA{R: 0, G: 168, B: 204, A: 8},
		Core:        color.NRGBA{R: 224, G: 240, B: 255, A: 200},
		Edge:        color.NRGBA{R: 0, G: 168, B: 204, A: 0},
		Line:        color.NRGBA{R: 68, G: 136, B: 170, A: 255},
		LineOpacity: 0.25,
	}

	Palettes = map[string]Palette{
		Aurora.Name: Aurora,
		Mono.Name:   Mono,
		Ember.Name:  Ember,
		Ocean.Name:  Ocean,
	}
)

// GetPalette returns a palette by name, falling back to Aurora.
func GetPalette(name string) (Palette, bool) {
	p, ok := Palettes[name]
	if !ok {
		return Aurora, false
	}
	return p, true
}

// PaletteNames returns the registered palette names in sorted order.
func PaletteNames() []string {
	names := make([]string, 0, len(Palettes))
	for n := range Palettes {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}

// NextPalette returns the palette after current in name order.
func NextPalette(current string) Palette {
	names := PaletteNames()
	for i, n := range names {
		if n == current {
			return Palettes[names[(i+1)%len(names)]]
		}
	}
	return Aurora
}
