package monitor

import (
	"fmt"

	"github.com/charmbracelet/lipgloss"
	"github.com/mazznoer/colorgrad"
)

const NUM_GRAD = 20

const (
	GRAD_RED = iota
	GRAD_RGN
	GRAD_YOR
)

func GradIndex(name string) int {
	switch name {
	case "rdylgn":
		return GRAD_RGN
	case "ylorrd":
		return GRAD_YOR
	}
	return GRAD_RED
}

// Palette maps channel deflection (0 centre, NUM_GRAD full scale) to a
// terminal colour.
type Palette [NUM_GRAD + 1]lipgloss.Color

func NewPalette(name string) *Palette {
	var grad colorgrad.Gradient
	idx := GradIndex(name)
	switch idx {
	case GRAD_RGN:
		grad = colorgrad.RdYlGn()
	case GRAD_YOR:
		grad = colorgrad.YlOrRd()
	default:
		grad = colorgrad.Reds()
	}
	p := &Palette{}
	for i := 0; i <= NUM_GRAD; i++ {
		k := i
		// green is the top of RdYlGn, so centred channels read green
		if idx == GRAD_RGN {
			k = NUM_GRAD - i
		}
		r, g, b, _ := grad.At(float64(k) / NUM_GRAD).RGBA()
		p[i] = lipgloss.Color(fmt.Sprintf("#%02x%02x%02x", r>>8, g>>8, b>>8))
	}
	return p
}

// At returns the colour for v on a scale of +/-max.
func (p *Palette) At(v, max int) lipgloss.Color {
	if v < 0 {
		v = -v
	}
	if max <= 0 || v >= max {
		return p[NUM_GRAD]
	}
	return p[v*NUM_GRAD/max]
}
