/*
Copyright © 2025 the tropwave authors.
This file is part of tropwave.

tropwave is free software: you can redistribute it and/or modify
it under the terms of the GNU General Public License as published by
the Free Software Foundation, either version 3 of the License, or
(at your option) any later version.

tropwave is distributed in the hope that it will be useful,
but WITHOUT ANY WARRANTY; without even the implied warranty of
MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
GNU General Public License for more details.

You should have received a copy of the GNU General Public License
along with tropwave.  If not, see <http://www.gnu.org/licenses/>.
*/

package figure

import (
	"fmt"
	"image/color"
	"strconv"
	"strings"

	"golang.org/x/image/colornames"
	"gonum.org/v1/plot/palette"
	"gonum.org/v1/plot/palette/moreland"
)

// colorList is a palette made of a fixed list of colors.
type colorList []color.Color

// Colors implements palette.Palette.
func (c colorList) Colors() []color.Color { return c }

// PaletteFromString creates a palette from a newline-separated list of
// colors, in reverse order. Each line holds an SVG color name such as
// "steelblue", a comma-separated RGB triple with components between 0
// and 1 such as "1,0,0", or a hexadecimal code such as "#FF5733".
// Blank lines are ignored.
func PaletteFromString(s string) (palette.Palette, error) {
	var colors colorList
	for _, line := range strings.Split(strings.TrimSpace(s), "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		c, err := ParseColor(line)
		if err != nil {
			return nil, err
		}
		colors = append(colors, c)
	}
	if len(colors) == 0 {
		return nil, fmt.Errorf("figure: no colors in color string")
	}
	for i, j := 0, len(colors)-1; i < j; i, j = i+1, j-1 {
		colors[i], colors[j] = colors[j], colors[i]
	}
	return colors, nil
}

// ParseColor parses a color name, an "r,g,b" triple with components
// between 0 and 1, or a "#RRGGBB" or "#RGB" hexadecimal code.
func ParseColor(s string) (color.Color, error) {
	s = strings.TrimSpace(s)
	switch {
	case strings.HasPrefix(s, "#"):
		return parseHex(s)
	case strings.Contains(s, ","):
		parts := strings.Split(s, ",")
		if len(parts) != 3 && len(parts) != 4 {
			return nil, fmt.Errorf("figure: invalid color %q: need 3 or 4 components", s)
		}
		var v [4]uint8
		v[3] = 255
		for i, p := range parts {
			f, err := strconv.ParseFloat(strings.TrimSpace(p), 64)
			if err != nil || f < 0 || f > 1 {
				return nil, fmt.Errorf("figure: invalid color %q: components should be numbers between 0 and 1", s)
			}
			v[i] = uint8(f*255 + 0.5)
		}
		return color.NRGBA{R: v[0], G: v[1], B: v[2], A: v[3]}, nil
	default:
		c, ok := colornames.Map[strings.ToLower(s)]
		if !ok {
			return nil, fmt.Errorf("figure: unknown color name %q", s)
		}
		return c, nil
	}
}

func parseHex(s string) (color.Color, error) {
	h := strings.TrimPrefix(s, "#")
	if len(h) == 3 {
		h = string([]byte{h[0], h[0], h[1], h[1], h[2], h[2]})
	}
	if len(h) != 6 && len(h) != 8 {
		return nil, fmt.Errorf("figure: invalid hexadecimal color %q", s)
	}
	v, err := strconv.ParseUint(h, 16, 32)
	if err != nil {
		return nil, fmt.Errorf("figure: invalid hexadecimal color %q", s)
	}
	if len(h) == 6 {
		v = v<<8 | 0xff
	}
	return color.NRGBA{R: uint8(v >> 24), G: uint8(v >> 16), B: uint8(v >> 8), A: uint8(v)}, nil
}

// ColorMapFromString creates a continuous color map through the colors
// of s, in the order returned by PaletteFromString. The colors must
// change monotonically in luminance.
func ColorMapFromString(s string) (palette.ColorMap, error) {
	p, err := PaletteFromString(s)
	if err != nil {
		return nil, err
	}
	cm, err := moreland.NewLuminance(p.Colors())
	if err != nil {
		return nil, fmt.Errorf("figure: creating color map: %v", err)
	}
	return cm, nil
}
