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

package tropwave

import (
	"fmt"
	"math"
	"sort"

	"github.com/GaryBoone/GoStats/stats"
	"gonum.org/v1/gonum/stat"
	"gonum.org/v1/gonum/stat/distuv"
)

// Region is a named longitude sector of the tropics.
type Region struct {
	Name string
	Lon  []LonRange
}

// DefaultRegions returns the sectors used for wave activity trends.
func DefaultRegions() []Region {
	return []Region{
		{Name: "Global", Lon: []LonRange{{0, 360}}},
		{Name: "Indian-Pacific", Lon: []LonRange{{130, 250}}},
		{Name: "Indian", Lon: []LonRange{{55, 130}}},
		{Name: "EastPacific", Lon: []LonRange{{250, 345}}},
		{Name: "Africa", Lon: []LonRange{{345, 360}, {0, 55}}},
	}
}

// Default range of years for interannual trends.
const (
	DefaultStartYear = 1979
	DefaultEndYear   = 2020
)

// TrendConfig specifies the sampling of interannual trends. Zero values
// select the defaults independently: the regions returned by
// DefaultRegions, DefaultStartYear and DefaultEndYear, and latitude
// bounds as for BudgetConfig.
type TrendConfig struct {
	Regions            []Region
	LatMin, LatMax     float64
	StartYear, EndYear int
}

func (c TrendConfig) withDefaults() TrendConfig {
	if c.Regions == nil {
		c.Regions = DefaultRegions()
	}
	c.LatMin, c.LatMax = latBand(c.LatMin, c.LatMax)
	if c.StartYear == 0 {
		c.StartYear = DefaultStartYear
	}
	if c.EndYear == 0 {
		c.EndYear = DefaultEndYear
	}
	return c
}

// Fit is the result of a least-squares linear regression.
type Fit struct {
	Slope, Intercept float64

	// R is the correlation coefficient and P the two-sided p-value of
	// the null hypothesis that the slope is zero.
	R, P float64

	// StdErr is the standard error of the slope.
	StdErr float64
}

// Significance returns "**", "*" or "^" if the fit is significant at
// the 1%, 5% or 10% level, respectively, and "" otherwise.
func (f Fit) Significance() string {
	switch {
	case f.P < 0.01:
		return "**"
	case f.P < 0.05:
		return "*"
	case f.P < 0.1:
		return "^"
	default:
		return ""
	}
}

// LinearFit fits y = Slope*x + Intercept by least squares. At least
// three points are needed.
func LinearFit(x, y []float64) (Fit, error) {
	if len(x) != len(y) {
		return Fit{}, fmt.Errorf("tropwave: linear fit of %d x values and %d y values: %w",
			len(x), len(y), ErrShapeMismatch)
	}
	if len(x) < 3 {
		return Fit{}, fmt.Errorf("tropwave: linear fit needs at least 3 points but has %d", len(x))
	}
	var f Fit
	f.Slope, f.Intercept, _, _, f.StdErr, _ = stats.LinearRegression(x, y)
	f.R = stat.Correlation(x, y, nil)
	df := float64(len(x) - 2)
	if math.Abs(f.R) >= 1 {
		f.P = 0
		return f, nil
	}
	t := f.R * math.Sqrt(df/((1-f.R)*(1+f.R)))
	dist := distuv.StudentsT{Mu: 0, Sigma: 1, Nu: df}
	f.P = 2 * (1 - dist.CDF(math.Abs(t)))
	return f, nil
}

// Trend is the interannual variability of a field in a region.
type Trend struct {
	Region string

	// Years and Values hold the area-mean standard deviation of the
	// field within each year.
	Years, Values []float64

	Fit
}

// InterannualTrends calculates the trend in the interannual variability
// of f in each region of c. f must be shaped (time, lat, lon).
func InterannualTrends(f *Field, c TrendConfig) ([]*Trend, error) {
	c = c.withDefaults()
	o := make([]*Trend, len(c.Regions))
	for i, r := range c.Regions {
		t, err := InterannualTrend(f, r, c)
		if err != nil {
			return nil, err
		}
		o[i] = t
	}
	return o, nil
}

// InterannualTrend calculates, for each year, the standard deviation in
// time of f at each grid point of region r, averages it over the region
// and fits a linear trend to the yearly values. f must be shaped
// (time, lat, lon); missing values are NaN and are skipped.
func InterannualTrend(f *Field, r Region, c TrendConfig) (*Trend, error) {
	c = c.withDefaults()
	if len(f.Dims) != 3 || f.Dims[0] != "time" || f.Axis("lat") < 0 || f.Axis("lon") < 0 {
		return nil, fmt.Errorf("tropwave: trend of %s: dimensions are %v but should be (time, lat, lon)",
			f.Name, f.Dims)
	}
	sub, err := f.SelectLat(c.LatMin, c.LatMax)
	if err != nil {
		return nil, err
	}
	sub, err = sub.SelectLon(r.Lon...)
	if err != nil {
		return nil, fmt.Errorf("tropwave: trend of %s in region %s: %v", f.Name, r.Name, err)
	}
	times, err := sub.Times()
	if err != nil {
		return nil, err
	}
	byYear := make(map[int][]int)
	for i, t := range times {
		if y := t.Year(); y >= c.StartYear && y <= c.EndYear {
			byYear[y] = append(byYear[y], i)
		}
	}
	years := make([]int, 0, len(byYear))
	for y := range byYear {
		years = append(years, y)
	}
	sort.Ints(years)

	npoints := len(sub.Data.Elements) / sub.Data.Shape[0]
	tr := &Trend{Region: r.Name}
	buf := make([]float64, 0, len(times))
	for _, y := range years {
		var sum float64
		var n int
		for p := 0; p < npoints; p++ {
			buf = buf[:0]
			for _, ti := range byYear[y] {
				if v := sub.Data.Elements[ti*npoints+p]; !math.IsNaN(v) {
					buf = append(buf, v)
				}
			}
			if sd := popStdDev(buf); !math.IsNaN(sd) {
				sum += sd
				n++
			}
		}
		if n == 0 {
			continue
		}
		tr.Years = append(tr.Years, float64(y))
		tr.Values = append(tr.Values, sum/float64(n))
	}
	tr.Fit, err = LinearFit(tr.Years, tr.Values)
	if err != nil {
		return nil, fmt.Errorf("tropwave: trend of %s in region %s: %v", f.Name, r.Name, err)
	}
	return tr, nil
}

// popStdDev returns the population standard deviation of x, or NaN if x
// is empty.
func popStdDev(x []float64) float64 {
	switch len(x) {
	case 0:
		return math.NaN()
	case 1:
		return 0
	}
	_, v := stat.MeanVariance(x, nil)
	n := float64(len(x))
	return math.Sqrt(v * (n - 1) / n)
}
