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
	"gonum.org/v1/plot/plotutil"
	"gonum.org/v1/plot/vg"
)

// segments splits the points (x[i], y[i]) into runs of finite values.
func segments(x, y []float64) []plotter.XYs {
	var o []plotter.XYs
	var cur plotter.XYs
	for i := range x {
		if math.IsNaN(y[i]) || math.IsInf(y[i], 0) || math.IsNaN(x[i]) || math.IsInf(x[i], 0) {
			if len(cur) > 0 {
				o = append(o, cur)
				cur = nil
			}
			continue
		}
		cur = append(cur, struct{ X, Y float64 }{x[i], y[i]})
	}
	if len(cur) > 0 {
		o = append(o, cur)
	}
	return o
}

// addCurve adds the finite parts of a curve to p as lines of one style
// with a single legend entry. It returns the number of points drawn.
func addCurve(p *plot.Plot, label string, i int, x, y []float64, dashed bool) (int, error) {
	var n int
	for j, seg := range segments(x, y) {
		l, err := plotter.NewLine(seg)
		if err != nil {
			return 0, fmt.Errorf("figure: %s: %v", label, err)
		}
		l.Color = plotutil.Color(i)
		l.Width = vg.Points(1.2)
		if dashed {
			l.Dashes = []vg.Length{vg.Points(4), vg.Points(2)}
		}
		p.Add(l)
		if j == 0 && label != "" {
			p.Legend.Add(label, l)
		}
		n += len(seg)
	}
	return n, nil
}

// Dispersion plots dispersion curves as frequency [cycles/day] against
// planetary wavenumber, restricted to wavenumbers between minWn and
// maxWn. Wavenumbers where a curve is undefined are left blank.
func Dispersion(curves []*tropwave.DispersionCurve, minWn, maxWn float64) (*plot.Plot, error) {
	if minWn > maxWn {
		return nil, fmt.Errorf("figure: dispersion wavenumber range %g to %g is empty", minWn, maxWn)
	}
	p, err := plot.New()
	if err != nil {
		return nil, err
	}
	p.Title.Text = "Equatorial wave dispersion curves"
	p.X.Label.Text = "Zonal wavenumber"
	p.Y.Label.Text = "Frequency (cycles/day)"
	p.Add(plotter.NewGrid())
	for i, c := range curves {
		fc := c.Filter(minWn, maxWn)
		if _, err := addCurve(p, fc.Label, i, fc.Wavenumbers, fc.CyclesPerDay(), false); err != nil {
			return nil, err
		}
	}
	p.X.Min, p.X.Max = minWn, maxWn
	p.Legend.Top = true
	return p, nil
}
