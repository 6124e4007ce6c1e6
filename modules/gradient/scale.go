package gradient

import (
	"fmt"
	"sort"

	colorful "github.com/lucasb-eyer/go-colorful"
)

// Presets are the named colour scales, light to dark or low to high.
var Presets = map[string][]string{
	"greys":    {"#ffffff", "#000000"},
	"blues":    {"#f7fbff", "#deebf7", "#c6dbef", "#9ecae1", "#6baed6", "#4292c6", "#2171b5", "#08519c", "#08306b"},
	"viridis":  {"#440154", "#3b528b", "#21918c", "#5ec962", "#fde725"},
	"rdbu":     {"#67001f", "#b2182b", "#d6604d", "#f4a582", "#fddbc7", "#f7f7f7", "#d1e5f0", "#92c5de", "#4393c3", "#2166ac", "#053061"},
	"spectral": {"#9e0142", "#d53e4f", "#f46d43", "#fdae61", "#fee08b", "#ffffbf", "#e6f598", "#abdda4", "#66c2a5", "#3288bd", "#5e4fa2"},
}

// PresetNames lists the preset names, sorted.
func PresetNames() []string {
	names := make([]string, 0, len(Presets))
	for name := range Presets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

type stop struct {
	pos   float64
	color colorful.Color
}

// Scale maps [0, 1] onto a piecewise linear RGB blend of colour stops.
type Scale struct {
	stops []stop
}

// NewScale builds a scale from hex colours. positions, when given, must
// match colors in length and be non-decreasing; otherwise stops are evenly
// spaced.
func NewScale(colors []string, positions []float64) (*Scale, error) {
	if len(colors) == 0 {
		return nil, fmt.Errorf("a colour scale needs at least one colour")
	}
	if positions != nil && len(positions) != len(colors) {
		return nil, fmt.Errorf("got %d breakpoints for %d colours", len(positions), len(colors))
	}

	s := &Scale{stops: make([]stop, len(colors))}
	for i, hex := range colors {
		c, err := colorful.Hex(hex)
		if err != nil {
			return nil, fmt.Errorf("colour %d: %w", i, err)
		}
		var pos float64
		switch {
		case positions != nil:
			pos = positions[i]
			if i > 0 && pos < s.stops[i-1].pos {
				return nil, fmt.Errorf("breakpoint %d (%g) is below the previous one", i, pos)
			}
		case len(colors) > 1:
			pos = float64(i) / float64(len(colors)-1)
		}
		s.stops[i] = stop{pos: pos, color: c}
	}
	return s, nil
}

// At returns the colour at t, clamped to the first and last stops.
func (s *Scale) At(t float64) colorful.Color {
	first, last := s.stops[0], s.stops[len(s.stops)-1]
	if t <= first.pos {
		return first.color
	}
	if t >= last.pos {
		return last.color
	}
	for i := 1; i < len(s.stops); i++ {
		hi := s.stops[i]
		if t > hi.pos {
			continue
		}
		lo := s.stops[i-1]
		span := hi.pos - lo.pos
		if span == 0 {
			return hi.color
		}
		return lo.color.BlendRgb(hi.color, (t-lo.pos)/span)
	}
	return last.color
}

// Sample evaluates the scale at i/n for i in [0, n) and returns hex colours.
func (s *Scale) Sample(n int) []string {
	out := make([]string, n)
	for i := range n {
		out[i] = s.At(float64(i) / float64(n)).Hex()
	}
	return out
}
