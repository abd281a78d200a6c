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
	"os"
	"sort"

	"github.com/ctessum/cdf"
	"github.com/ctessum/sparse"
	"github.com/ctessum/unit"
	"github.com/sirupsen/logrus"
)

// Default latitude band for the energy budget.
const (
	DefaultLatMin = -15.
	DefaultLatMax = 15.
)

// budgetDims are the dimensions of every budget variable.
var budgetDims = []string{"time", "plev", "lat", "lon"}

// Variable is a gridded budget variable with its metadata.
type Variable struct {
	Dims        []string
	Description string
	Units       string
	Data        *sparse.DenseArray
}

// Budget holds the static energy budget of an atmospheric column
// sample: the static energy "s", its partial derivatives "ds_dt",
// "ds_dx", "ds_dy" and "ds_dp", and the advective tendency "Q".
type Budget struct {
	// Energy is the static energy the budget was computed for.
	Energy EnergyKind

	// Coords holds the time, plev, lat and lon coordinates of the grid.
	Coords map[string][]float64

	// TimeUnits are the CF units of the time coordinate.
	TimeUnits string

	Data map[string]Variable

	// inputs holds the wind fields, which are available to output
	// expressions but are not written.
	inputs map[string]*sparse.DenseArray
}

// AddVariable adds a variable to b.
func (b *Budget) AddVariable(name string, dims []string, description, units string, data *sparse.DenseArray) {
	if b.Data == nil {
		b.Data = make(map[string]Variable)
	}
	b.Data[name] = Variable{
		Dims:        dims,
		Description: description,
		Units:       units,
		Data:        data,
	}
}

// Var returns the data of variable name, or nil if b does not hold it.
func (b *Budget) Var(name string) *sparse.DenseArray {
	v, ok := b.Data[name]
	if !ok {
		return nil
	}
	return v.Data
}

// budgetUnits derives the units of the budget variables from the units
// of static energy.
func budgetUnits() map[string]string {
	s := unit.New(1, joulePerKilogram)
	dt := unit.Div(s, unit.New(1, unit.Second))
	dx := unit.Div(s, unit.New(1, unit.Meter))
	dp := unit.Div(s, unit.New(1, unit.Pascal))
	wind := unit.New(1, unit.MeterPerSecond)
	omega := unit.New(1, unit.Dimensions{
		unit.MassDim:   1,
		unit.LengthDim: -1,
		unit.TimeDim:   -3,
	})
	// unit.Add panics if the terms are not dimensionally consistent.
	q := unit.Add(dt, unit.Mul(wind, dx), unit.Mul(wind, dx), unit.Mul(omega, dp))
	return map[string]string{
		"s":     s.Dimensions().String(),
		"ds_dt": dt.Dimensions().String(),
		"ds_dx": dx.Dimensions().String(),
		"ds_dy": dx.Dimensions().String(),
		"ds_dp": dp.Dimensions().String(),
		"Q":     q.Dimensions().String(),
	}
}

var energyDescriptions = map[EnergyKind]string{
	DSE:          "dry static energy",
	MSE:          "moist static energy",
	SaturatedMSE: "saturated moist static energy",
}

// ComputeBudget calculates the partial derivatives of static energy s
// and the advective tendency
//
//	Q = ds/dt + u ds/dx + v ds/dy + omega ds/dp
//
// for fields shaped (time, plev, lat, lon) on daily time steps. u and v
// are the horizontal winds [m/s], omega is the vertical velocity [Pa/s],
// plev holds the pressure of each level [Pa] and m is the grid metric of
// the horizontal grid. The four partial derivatives are computed
// concurrently.
func ComputeBudget(s, u, v, omega *sparse.DenseArray, plev []float64, m *GridMetric) (*Budget, error) {
	if m == nil || m.Dx == nil || m.Dy == nil {
		return nil, fmt.Errorf("tropwave: energy budget needs a grid metric")
	}
	if len(s.Shape) != 4 {
		return nil, fmt.Errorf("tropwave: static energy has shape %v but should be (time, plev, lat, lon): %w",
			s.Shape, ErrShapeMismatch)
	}
	if err := sameShape([]string{"static energy", "u", "v", "omega"}, s, u, v, omega); err != nil {
		return nil, err
	}
	nlat, nlon := s.Shape[2], s.Shape[3]
	if len(m.Dx.Shape) != 2 || m.Dx.Shape[0] != nlat || m.Dx.Shape[1] != nlon {
		return nil, fmt.Errorf("tropwave: grid metric has shape %v but fields have %d latitudes and %d longitudes: %w",
			m.Dx.Shape, nlat, nlon, ErrShapeMismatch)
	}
	if err := sameShape([]string{"dx", "dy"}, m.Dx, m.Dy); err != nil {
		return nil, err
	}

	type result struct {
		name string
		data *sparse.DenseArray
	}
	results := make(chan result, 4)
	errChan := make(chan error, 4)

	go func() {
		d, err := gradient(s, 0, nil)
		if err != nil {
			errChan <- fmt.Errorf("tropwave: time derivative: %w", err)
			return
		}
		for i := range d.Elements {
			d.Elements[i] /= SecondsPerDay
		}
		results <- result{"ds_dt", d}
		errChan <- nil
	}()
	go func() {
		d, err := gradient(s, 3, nil)
		if err != nil {
			errChan <- fmt.Errorf("tropwave: zonal derivative: %w", err)
			return
		}
		divideHorizontal(d, m.Dx)
		results <- result{"ds_dx", d}
		errChan <- nil
	}()
	go func() {
		d, err := gradient(s, 2, nil)
		if err != nil {
			errChan <- fmt.Errorf("tropwave: meridional derivative: %w", err)
			return
		}
		divideHorizontal(d, m.Dy)
		results <- result{"ds_dy", d}
		errChan <- nil
	}()
	go func() {
		d, err := gradient(s, 1, plev)
		if err != nil {
			errChan <- fmt.Errorf("tropwave: vertical derivative: %w", err)
			return
		}
		results <- result{"ds_dp", d}
		errChan <- nil
	}()
	for i := 0; i < 4; i++ {
		if err := <-errChan; err != nil {
			return nil, err
		}
	}
	close(results)

	units := budgetUnits()
	b := &Budget{
		inputs: map[string]*sparse.DenseArray{"u": u, "v": v, "omega": omega},
	}
	b.AddVariable("s", budgetDims, "static energy", units["s"], s)
	descriptions := map[string]string{
		"ds_dt": "time tendency of static energy",
		"ds_dx": "zonal gradient of static energy",
		"ds_dy": "meridional gradient of static energy",
		"ds_dp": "vertical (pressure) gradient of static energy",
	}
	for r := range results {
		b.AddVariable(r.name, budgetDims, descriptions[r.name], units[r.name], r.data)
	}

	dt, dx, dy, dp := b.Var("ds_dt").Elements, b.Var("ds_dx").Elements,
		b.Var("ds_dy").Elements, b.Var("ds_dp").Elements
	q := sparse.ZerosDense(s.Shape...)
	for i := range q.Elements {
		q.Elements[i] = dt[i] + u.Elements[i]*dx[i] + v.Elements[i]*dy[i] + omega.Elements[i]*dp[i]
	}
	b.AddVariable("Q", budgetDims, "advective static energy tendency", units["Q"], q)
	return b, nil
}

// divideHorizontal divides each horizontal slice of the
// (time, plev, lat, lon) array d by the (lat, lon) array h.
func divideHorizontal(d, h *sparse.DenseArray) {
	n := len(h.Elements)
	for i := range d.Elements {
		d.Elements[i] /= h.Elements[i%n]
	}
}

// BudgetConfig specifies the input files and options for EnergyBudget.
// Each file must hold one variable on a shared (time, plev, lat, lon)
// grid with daily time steps: ta [K], zg [m], ua and va [m/s], wap [Pa/s]
// and, for moist static energy, hus [kg/kg].
type BudgetConfig struct {
	TemperatureFile string
	HeightFile      string
	UWindFile       string
	VWindFile       string
	OmegaFile       string
	HumidityFile    string

	// Energy is the static energy to compute the budget for.
	Energy EnergyKind

	// LatMin and LatMax bound the latitude band of the budget. A zero
	// bound that would leave the band empty is replaced by
	// DefaultLatMin or DefaultLatMax.
	LatMin, LatMax float64

	// Log receives progress messages. If nil, the standard logrus
	// logger is used.
	Log logrus.FieldLogger
}

func (c *BudgetConfig) log() logrus.FieldLogger {
	if c.Log == nil {
		return logrus.StandardLogger()
	}
	return c.Log
}

// latBand fills in unset bounds of a latitude band. A bound is unset
// when it is zero and the band would otherwise be empty, so a band
// such as 0 to 10 is kept as given.
func latBand(latMin, latMax float64) (float64, float64) {
	if latMin == 0 && latMax <= 0 {
		latMin = DefaultLatMin
	}
	if latMax == 0 && latMin >= 0 {
		latMax = DefaultLatMax
	}
	return latMin, latMax
}

// budgetInput is a field needed for the energy budget.
type budgetInput struct {
	file, varName string
}

// EnergyBudget loads the fields named by c, computes the static energy
// and grid metric and returns the energy budget of the latitude band.
func EnergyBudget(c *BudgetConfig) (*Budget, error) {
	latMin, latMax := latBand(c.LatMin, c.LatMax)
	if latMin >= latMax {
		return nil, fmt.Errorf("tropwave: budget latitude range %g to %g is empty", latMin, latMax)
	}
	inputs := []budgetInput{
		{c.TemperatureFile, "ta"},
		{c.HeightFile, "zg"},
		{c.UWindFile, "ua"},
		{c.VWindFile, "va"},
		{c.OmegaFile, "wap"},
	}
	if c.Energy == MSE {
		inputs = append(inputs, budgetInput{c.HumidityFile, "hus"})
	}
	for _, in := range inputs {
		if in.file == "" {
			return nil, fmt.Errorf("tropwave: no input file specified for variable %s", in.varName)
		}
	}
	log := c.log().WithField("energy", c.Energy.String())

	fields := make([]*Field, len(inputs))
	errChan := make(chan error, len(inputs))
	for i, in := range inputs {
		go func(i int, in budgetInput) {
			f, err := LoadField(in.file, in.varName, latMin, latMax)
			if err != nil {
				errChan <- err
				return
			}
			log.WithFields(logrus.Fields{
				"variable": in.varName,
				"file":     in.file,
				"shape":    f.Data.Shape,
			}).Info("loaded field")
			fields[i] = f
			errChan <- nil
		}(i, in)
	}
	for range inputs {
		if err := <-errChan; err != nil {
			return nil, err
		}
	}

	ta := fields[0]
	for i, d := range budgetDims {
		if i >= len(ta.Dims) || ta.Dims[i] != d {
			return nil, fmt.Errorf("tropwave: variable ta has dimensions %v but should have %v",
				ta.Dims, budgetDims)
		}
	}
	names := make([]string, len(inputs))
	arrays := make([]*sparse.DenseArray, len(inputs))
	for i, f := range fields {
		names[i] = inputs[i].varName
		arrays[i] = f.Data
	}
	if err := sameShape(names, arrays...); err != nil {
		return nil, err
	}

	plev := ta.Coords["plev"]
	var q *sparse.DenseArray
	if c.Energy == MSE {
		q = fields[5].Data
	}
	s, err := StaticEnergy(c.Energy, ta.Data, fields[1].Data, q, plev)
	if err != nil {
		return nil, err
	}
	m, err := ComputeDxDy(ta.Coords["lat"], ta.Coords["lon"])
	if err != nil {
		return nil, err
	}
	b, err := ComputeBudget(s, fields[2].Data, fields[3].Data, fields[4].Data, plev, m)
	if err != nil {
		return nil, err
	}
	b.Energy = c.Energy
	sv := b.Data["s"]
	sv.Description = energyDescriptions[c.Energy]
	b.Data["s"] = sv
	b.TimeUnits = ta.TimeUnits
	b.Coords = make(map[string][]float64, len(budgetDims))
	for _, d := range budgetDims {
		b.Coords[d] = ta.Coords[d]
	}
	log.WithField("shape", s.Shape).Info("computed energy budget")
	return b, nil
}

// Write writes b to netcdf file w.
func (b *Budget) Write(w *os.File) error {
	s := b.Var("s")
	if s == nil {
		return fmt.Errorf("tropwave: writing budget: no static energy variable")
	}
	h := cdf.NewHeader(budgetDims, s.Shape)
	h.AddAttribute("", "comment", "tropwave static energy budget")
	h.AddAttribute("", "energy", b.Energy.String())

	coords := make(map[string][]float64, len(budgetDims))
	for i, d := range budgetDims {
		c := b.Coords[d]
		if len(c) != s.Shape[i] {
			c = make([]float64, s.Shape[i])
			for j := range c {
				c[j] = float64(j)
			}
		}
		coords[d] = c
		h.AddVariable(d, []string{d}, []float64{0})
	}
	if b.TimeUnits != "" {
		h.AddAttribute("time", "units", b.TimeUnits)
	}
	h.AddAttribute("plev", "units", "Pa")
	h.AddAttribute("lat", "units", "degrees_north")
	h.AddAttribute("lon", "units", "degrees_east")

	// Sort the names so they write in the same order every time.
	names := make([]string, 0, len(b.Data))
	for n := range b.Data {
		names = append(names, n)
	}
	sort.Strings(names)

	for _, name := range names {
		v := b.Data[name]
		h.AddVariable(name, v.Dims, []float32{0})
		if v.Description != "" {
			h.AddAttribute(name, "description", v.Description)
		}
		if v.Units != "" {
			h.AddAttribute(name, "units", v.Units)
		}
	}
	h.Define()

	f, err := cdf.Create(w, h) // writes the header to w
	if err != nil {
		return err
	}
	for _, d := range budgetDims {
		wr := f.Writer(d, []int{0}, []int{len(coords[d])})
		if _, err := wr.Write(coords[d]); err != nil {
			return fmt.Errorf("tropwave: writing coordinate %s to netcdf file: %v", d, err)
		}
	}
	for _, name := range names {
		if err = writeNCF(f, name, b.Data[name].Data); err != nil {
			return fmt.Errorf("tropwave: writing variable %s to netcdf file: %v", name, err)
		}
	}
	return cdf.UpdateNumRecs(w)
}

func writeNCF(f *cdf.File, name string, data *sparse.DenseArray) error {
	// Check that data matches dimensions.
	n := 1
	for _, v := range data.Shape {
		n *= v
	}
	if len(data.Elements) != n {
		return fmt.Errorf("dims are %d but array length is %d", n, len(data.Elements))
	}
	data32 := make([]float32, len(data.Elements))
	for i, e := range data.Elements {
		data32[i] = float32(e)
	}
	end := f.Header.Lengths(name)
	start := make([]int, len(end))
	w := f.Writer(name, start, end)
	_, err := w.Write(data32)
	return err
}
