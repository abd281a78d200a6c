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
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
)

// TrendPanel plots the yearly values and the fitted trend of each
// region. Legend entries give the slope, p-value and significance.
func TrendPanel(title string, trends []*tropwave.Trend) (*plot.Plot, error) {
	p, err := plot.New()
	if err != nil {
		return nil, err
	}
	p.Title.Text = title
	p.X.Label.Text = "Year"
	p.Y.Label.Text = "Interannual Std Dev"
	p.Add(plotter.NewGrid())
	min, max := math.Inf(1), math.Inf(-1)
	for i, t := range trends {
		label := fmt.Sprintf("%s: %.4f/yr (p=%.4f) %s", t.Region, t.Slope, t.P, t.Significance())
		if _, err := addCurve(p, label, i, t.Years, t.Values, false); err != nil {
			return nil, err
		}
		fit := make([]float64, len(t.Years))
		for j, y := range t.Years {
			fit[j] = t.Slope*y + t.Intercept
		}
		if _, err := addCurve(p, "", i, t.Years, fit, true); err != nil {
			return nil, err
		}
		for _, v := range t.Values {
			min, max = math.Min(min, v), math.Max(max, v)
		}
	}
	if max > min {
		buffer := 0.05 * (max - min)
		p.Y.Min, p.Y.Max = min-buffer, max+buffer
	}
	p.Legend.Top = true
	p.Legend.TextStyle.Font.Size = vg.Points(7)
	return p, nil
}

// Trends draws one TrendPanel per wave, two panels per row.
// names holds the wave names and trends the regional trends of each wave.
func Trends(names []string, trends [][]*tropwave.Trend) (*Grid, error) {
	if len(names) != len(trends) {
		return nil, fmt.Errorf("figure: %d wave names for %d sets of trends", len(names), len(trends))
	}
	const cols = 2
	rows := (len(trends) + 1) / cols
	g := &Grid{
		Rows:   rows,
		Cols:   cols,
		Width:  6 * cols * vg.Inch,
		Height: vg.Length(3*rows+1) * vg.Inch,
	}
	for i, t := range trends {
		p, err := TrendPanel(names[i]+" Interannual Trend", t)
		if err != nil {
			return nil, err
		}
		g.Panels = append(g.Panels, p)
	}
	return g, nil
}
