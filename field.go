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
	"strings"
	"time"

	"github.com/ctessum/sparse"
)

// Field is a gridded variable together with the coordinates of its
// dimensions. Four-dimensional fields are ordered (time, plev, lat, lon).
type Field struct {
	Name        string
	Description string
	Units       string

	// Dims holds the canonical name of each dimension of Data.
	Dims []string

	// Coords holds the coordinate values for each dimension. Pressure
	// levels are in Pa and latitude and longitude in degrees.
	Coords map[string][]float64

	// TimeUnits holds the CF units of the time coordinate, for example
	// "hours since 1900-01-01 00:00:00".
	TimeUnits string

	Data *sparse.DenseArray
}

// dimAliases maps dimension names used by common reanalysis products to
// the names used within tropwave.
var dimAliases = map[string]string{
	"latitude":       "lat",
	"longitude":      "lon",
	"level":          "plev",
	"lev":            "plev",
	"pressure_level": "plev",
	"isobaricInhPa":  "plev",
	"valid_time":     "time",
}

func canonicalDim(name string) string {
	if c, ok := dimAliases[name]; ok {
		return c
	}
	return name
}

// hectopascalUnits are the pressure units that are converted to Pa.
var hectopascalUnits = map[string]bool{
	"hpa": true, "mb": true, "mbar": true, "millibar": true, "millibars": true,
}

// ReadField reads variable varName and the coordinates of its dimensions
// from the classic NetCDF or NetCDF-4 file at path.
func ReadField(path, varName string) (*Field, error) {
	r, err := openNC(path)
	if err != nil {
		return nil, err
	}
	defer r.Close()

	v, err := r.variable(varName)
	if err != nil {
		return nil, err
	}
	v.unpack()
	f := &Field{
		Name:        varName,
		Description: v.attrString("long_name"),
		Units:       v.attrString("units"),
		Dims:        make([]string, len(v.dims)),
		Coords:      make(map[string][]float64),
		Data:        &sparse.DenseArray{Elements: v.values, Shape: v.shape},
	}
	if f.Description == "" {
		f.Description = v.attrString("description")
	}
	if f.Data.Elements == nil {
		f.Data = sparse.ZerosDense(v.shape...)
	}
	for i, d := range v.dims {
		dim := canonicalDim(d)
		f.Dims[i] = dim
		c, err := r.variable(d)
		if err != nil || len(c.values) != v.shape[i] {
			// No coordinate variable: use the index.
			idx := make([]float64, v.shape[i])
			for j := range idx {
				idx[j] = float64(j)
			}
			f.Coords[dim] = idx
			continue
		}
		c.unpack()
		if dim == "plev" && hectopascalUnits[strings.ToLower(c.attrString("units"))] {
			for j := range c.values {
				c.values[j] *= 100
			}
		}
		if dim == "time" {
			f.TimeUnits = c.attrString("units")
		}
		f.Coords[dim] = c.values
	}
	return f, nil
}

// LoadField reads variable varName from the file at path and restricts
// it to latitudes between latMin and latMax, sorted south to north.
func LoadField(path, varName string, latMin, latMax float64) (*Field, error) {
	f, err := ReadField(path, varName)
	if err != nil {
		return nil, err
	}
	o, err := f.SelectLat(latMin, latMax)
	if err != nil {
		return nil, fmt.Errorf("tropwave: loading %s from %s: %w", varName, path, err)
	}
	return o, nil
}

// Axis returns the index of dimension dim, or -1 if f does not have it.
func (f *Field) Axis(dim string) int {
	for i, d := range f.Dims {
		if d == dim {
			return i
		}
	}
	return -1
}

// SelectLat returns the part of f between latitudes latMin and latMax
// (inclusive), with latitude sorted in ascending order.
func (f *Field) SelectLat(latMin, latMax float64) (*Field, error) {
	ax := f.Axis("lat")
	if ax < 0 {
		return nil, fmt.Errorf("tropwave: variable %s has no latitude dimension", f.Name)
	}
	lat := f.Coords["lat"]
	idx := make([]int, 0, len(lat))
	for i, y := range lat {
		if y >= latMin && y <= latMax {
			idx = append(idx, i)
		}
	}
	if len(idx) == 0 {
		return nil, fmt.Errorf("tropwave: variable %s has no latitudes between %g and %g",
			f.Name, latMin, latMax)
	}
	sort.SliceStable(idx, func(i, j int) bool { return lat[idx[i]] < lat[idx[j]] })
	return f.take(ax, idx), nil
}

// LonRange is an inclusive range of longitudes in degrees east,
// in [0, 360].
type LonRange struct {
	Min, Max float64
}

// SelectLon returns the part of f that falls in any of the given
// longitude ranges. Longitudes are compared after wrapping to [0, 360).
func (f *Field) SelectLon(ranges ...LonRange) (*Field, error) {
	ax := f.Axis("lon")
	if ax < 0 {
		return nil, fmt.Errorf("tropwave: variable %s has no longitude dimension", f.Name)
	}
	var idx []int
	for i, x := range f.Coords["lon"] {
		x = math.Mod(x, 360)
		if x < 0 {
			x += 360
		}
		for _, r := range ranges {
			if x >= r.Min && x <= r.Max {
				idx = append(idx, i)
				break
			}
		}
	}
	if len(idx) == 0 {
		return nil, fmt.Errorf("tropwave: variable %s has no longitudes in %v", f.Name, ranges)
	}
	return f.take(ax, idx), nil
}

// take returns a copy of f containing only positions idx along axis.
func (f *Field) take(axis int, idx []int) *Field {
	shape := append([]int{}, f.Data.Shape...)
	shape[axis] = len(idx)
	data := sparse.ZerosDense(shape...)
	stride := strides(shape)[axis]
	n := f.Data.Shape[axis]
	for i := range data.Elements {
		outer := i / (stride * len(idx))
		pos := (i / stride) % len(idx)
		inner := i % stride
		data.Elements[i] = f.Data.Elements[(outer*n+idx[pos])*stride+inner]
	}
	o := &Field{
		Name:        f.Name,
		Description: f.Description,
		Units:       f.Units,
		Dims:        append([]string{}, f.Dims...),
		Coords:      make(map[string][]float64, len(f.Coords)),
		TimeUnits:   f.TimeUnits,
		Data:        data,
	}
	for k, c := range f.Coords {
		o.Coords[k] = c
	}
	c := f.Coords[f.Dims[axis]]
	if len(c) == n {
		nc := make([]float64, len(idx))
		for i, j := range idx {
			nc[i] = c[j]
		}
		o.Coords[f.Dims[axis]] = nc
	}
	return o
}

// Times decodes the time coordinate of f.
func (f *Field) Times() ([]time.Time, error) {
	t, ok := f.Coords["time"]
	if !ok {
		return nil, fmt.Errorf("tropwave: variable %s has no time dimension", f.Name)
	}
	return DecodeCFTime(t, f.TimeUnits)
}

var cfTimeLayouts = []string{
	"2006-01-02 15:04:05",
	"2006-01-02T15:04:05Z07:00",
	"2006-01-02T15:04:05Z",
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05.0",
	"2006-01-02 15:04",
	"2006-1-2 15:4:5",
	"2006-1-2 15:04:05",
	"2006-01-02",
	"2006-1-2",
}

var cfTimeUnits = map[string]time.Duration{
	"days":    24 * time.Hour,
	"day":     24 * time.Hour,
	"d":       24 * time.Hour,
	"hours":   time.Hour,
	"hour":    time.Hour,
	"h":       time.Hour,
	"minutes": time.Minute,
	"minute":  time.Minute,
	"seconds": time.Second,
	"second":  time.Second,
	"s":       time.Second,
}

// DecodeCFTime converts time coordinate values with CF units such as
// "days since 1979-01-01 00:00:00" to times in UTC.
func DecodeCFTime(values []float64, units string) ([]time.Time, error) {
	parts := strings.SplitN(strings.TrimSpace(units), " since ", 2)
	if len(parts) != 2 {
		return nil, fmt.Errorf("tropwave: invalid time units %q", units)
	}
	step, ok := cfTimeUnits[strings.ToLower(strings.TrimSpace(parts[0]))]
	if !ok {
		return nil, fmt.Errorf("tropwave: invalid time step in units %q", units)
	}
	ref := strings.TrimSpace(strings.TrimSuffix(strings.TrimSpace(parts[1]), "UTC"))
	var origin time.Time
	var err error
	for _, layout := range cfTimeLayouts {
		if origin, err = time.Parse(layout, ref); err == nil {
			break
		}
	}
	if err != nil {
		return nil, fmt.Errorf("tropwave: invalid reference time in units %q", units)
	}
	o := make([]time.Time, len(values))
	for i, v := range values {
		o[i] = origin.Add(time.Duration(math.Round(v * float64(step))))
	}
	return o, nil
}
