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

	"github.com/spatialmodel/tropwave"
	"golang.org/x/image/colornames"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
)

// line returns a line through the given points.
func line(c color.Color, width vg.Length, dashes []vg.Length, x, y []float64) (*plotter.Line, error) {
	xy := make(plotter.XYs, len(x))
	for i := range x {
		xy[i].X, xy[i].Y = x[i], y[i]
	}
	l, err := plotter.NewLine(xy)
	if err != nil {
		return nil, err
	}
	l.Color = c
	l.Width = width
	l.Dashes = dashes
	return l, nil
}

var dotted = []vg.Length{vg.Points(1), vg.Points(2)}

// CCKW plots the convectively coupled Kelvin wave envelope for the
// equivalent depths he [m] and frequency cutoffs fmax [cycles/day],
// together with the 3, 6 and 20 day periods and the Kelvin wave
// dispersion line of each depth. Nil he or fmax select the defaults of
// tropwave.CCKWEnvelope.
func CCKW(he, fmax []float64) (*plot.Plot, error) {
	curves, err := tropwave.CCKWEnvelope(he, fmax)
	if err != nil {
		return nil, err
	}
	if he == nil {
		he = tropwave.DefaultEquivalentDepths()
	}
	p, err := plot.New()
	if err != nil {
		return nil, err
	}
	p.Title.Text = "CCKW envelope"
	p.X.Label.Text = "Zonal wavenumber"
	p.Y.Label.Text = "Frequency (1/day)"

	periods := []float64{3, 6, 20}
	lxy := make(plotter.XYs, len(periods))
	labels := make([]string, len(periods))
	for i, d := range periods {
		l, err := line(color.Black, vg.Points(0.5), dotted, []float64{-20, 20}, []float64{1 / d, 1 / d})
		if err != nil {
			return nil, fmt.Errorf("figure: CCKW period line: %v", err)
		}
		p.Add(l)
		lxy[i].X, lxy[i].Y = -14.8, 1/d+0.01
		labels[i] = fmt.Sprintf("%gd", d)
	}
	lb, err := plotter.NewLabels(plotter.XYLabels{XYs: lxy, Labels: labels})
	if err != nil {
		return nil, fmt.Errorf("figure: CCKW period labels: %v", err)
	}
	p.Add(lb)

	for _, h := range he {
		l, err := line(colornames.Grey, vg.Points(0.5), []vg.Length{vg.Points(4), vg.Points(2)},
			[]float64{0, tropwave.KelvinReferenceWavenumber(h)}, []float64{0, 0.5})
		if err != nil {
			return nil, fmt.Errorf("figure: CCKW reference line: %v", err)
		}
		p.Add(l)
	}
	l, err := line(color.Black, vg.Points(0.5), dotted, []float64{0, 0}, []float64{0, 0.5})
	if err != nil {
		return nil, fmt.Errorf("figure: CCKW zero line: %v", err)
	}
	p.Add(l)

	env, err := line(colornames.Purple, vg.Points(1.2), nil, curves[0].X, curves[0].Y)
	if err != nil {
		return nil, fmt.Errorf("figure: CCKW envelope: %v", err)
	}
	p.Add(env)
	p.Legend.Add("CCKW envelope", env)

	p.X.Min, p.X.Max = -20, 20
	p.Y.Min, p.Y.Max = 0, 0.5
	return p, nil
}
