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
	"math"

	"github.com/spatialmodel/tropwave"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/palette"
	"gonum.org/v1/plot/palette/moreland"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"
)

// latLonGrid is a (lat, lon) slice of a budget variable. It implements
// plotter.GridXYZ.
type latLonGrid struct {
	lat, lon []float64
	z        []float64
}

func (g latLonGrid) Dims() (c, r int)   { return len(g.lon), len(g.lat) }
func (g latLonGrid) Z(c, r int) float64 { return g.z[r*len(g.lon)+c] }
func (g latLonGrid) X(c int) float64    { return g.lon[c] }
func (g latLonGrid) Y(r int) float64    { return g.lat[r] }

// colorBarWidth is the width of the color bar next to a map.
const colorBarWidth = vg.Length(60)

// MapFigure is a map with a color bar on its right.
type MapFigure struct {
	Map, ColorBar *plot.Plot
}

// Size implements Sized.
func (m *MapFigure) Size() (width, height vg.Length) {
	return 8 * vg.Inch, 3 * vg.Inch
}

// Draw implements Figure.
func (m *MapFigure) Draw(c draw.Canvas) {
	left, right := splitHorizontal(c, c.Max.X-c.Min.X-colorBarWidth)
	m.Map.Draw(left)
	m.ColorBar.Draw(right)
}

// splitHorizontal splits c at x
func splitHorizontal(c draw.Canvas, x vg.Length) (left, right draw.Canvas) {
	return draw.Crop(c, 0, c.Min.X-c.Max.X+x, 0, 0), draw.Crop(c, x, 0, 0, 0)
}

// BudgetMap draws variable name of budget b at time index t and level
// index lev as a latitude-longitude heat map. If cm is nil a diverging
// blue-red color map centered on zero is used. Missing values are drawn
// as zero.
func BudgetMap(b *tropwave.Budget, name string, t, lev int, cm palette.ColorMap) (*MapFigure, error) {
	v, ok := b.Data[name]
	if !ok {
		return nil, fmt.Errorf("figure: budget has no variable %s", name)
	}
	shape := v.Data.Shape
	if len(shape) != 4 {
		return nil, fmt.Errorf("figure: budget variable %s has shape %v but should be (time, plev, lat, lon)", name, shape)
	}
	if t < 0 || t >= shape[0] || lev < 0 || lev >= shape[1] {
		return nil, fmt.Errorf("figure: time index %d and level index %d out of range for shape %v", t, lev, shape)
	}
	nlat, nlon := shape[2], shape[3]
	g := latLonGrid{
		lat: b.Coords["lat"],
		lon: b.Coords["lon"],
		z:   make([]float64, nlat*nlon),
	}
	if len(g.lat) != nlat || len(g.lon) != nlon {
		return nil, fmt.Errorf("figure: budget coordinates do not match variable %s", name)
	}
	off := (t*shape[1] + lev) * nlat * nlon
	var absMax float64
	min, max := math.Inf(1), math.Inf(-1)
	for i := range g.z {
		z := v.Data.Elements[off+i]
		if math.IsNaN(z) || math.IsInf(z, 0) {
			continue
		}
		g.z[i] = z
		absMax = math.Max(absMax, math.Abs(z))
		min, max = math.Min(min, z), math.Max(max, z)
	}
	if cm == nil {
		cm = moreland.SmoothBlueRed()
		min, max = -absMax, absMax
	}
	if !(max > min) {
		min, max = min-1, min+1
		if math.IsInf(min, 0) {
			min, max = -1, 1
		}
	}
	cm.SetMin(min)
	cm.SetMax(max)

	p, err := plot.New()
	if err != nil {
		return nil, err
	}
	title := name
	if times, err := tropwave.DecodeCFTime(b.Coords["time"], b.TimeUnits); err == nil && t < len(times) {
		title = fmt.Sprintf("%s %s", name, times[t].Format("2006-01-02"))
	}
	if plev := b.Coords["plev"]; lev < len(plev) {
		title = fmt.Sprintf("%s %g hPa", title, plev[lev]/100)
	}
	p.Title.Text = title
	p.X.Label.Text = "Longitude"
	p.Y.Label.Text = "Latitude"
	hm := plotter.NewHeatMap(g, cm.Palette(255))
	hm.Min, hm.Max = min, max
	p.Add(hm)

	bar, err := plot.New()
	if err != nil {
		return nil, err
	}
	bar.Add(&plotter.ColorBar{ColorMap: cm, Vertical: true})
	bar.HideX()
	bar.Y.Label.Text = v.Units
	bar.Y.Padding = 0
	return &MapFigure{Map: p, ColorBar: bar}, nil
}
