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
	"math"
	"os"
	"path/filepath"
	"testing"

	"github.com/ctessum/cdf"
	"github.com/ctessum/sparse"
)

// testField describes a variable and its coordinates for writing to a
// classic NetCDF test file.
type testField struct {
	name      string
	dims      []string
	coords    map[string][]float64
	units     map[string]string
	data      []float64
	dataUnits string
}

// writeTestField writes f to a new file in dir and returns its path.
func writeTestField(t *testing.T, dir string, f testField) string {
	t.Helper()
	lengths := make([]int, len(f.dims))
	for i, d := range f.dims {
		lengths[i] = len(f.coords[d])
	}
	h := cdf.NewHeader(f.dims, lengths)
	for _, d := range f.dims {
		h.AddVariable(d, []string{d}, []float64{0})
		if u, ok := f.units[d]; ok {
			h.AddAttribute(d, "units", u)
		}
	}
	h.AddVariable(f.name, f.dims, []float32{0})
	if f.dataUnits != "" {
		h.AddAttribute(f.name, "units", f.dataUnits)
	}
	h.Define()

	path := filepath.Join(dir, f.name+".nc")
	w, err := os.Create(path)
	if err != nil {
		t.Fatal(err)
	}
	defer w.Close()
	cf, err := cdf.Create(w, h)
	if err != nil {
		t.Fatal(err)
	}
	for _, d := range f.dims {
		if _, err := cf.Writer(d, []int{0}, []int{len(f.coords[d])}).Write(f.coords[d]); err != nil {
			t.Fatal(err)
		}
	}
	d32 := make([]float32, len(f.data))
	for i, v := range f.data {
		d32[i] = float32(v)
	}
	if _, err := cf.Writer(f.name, make([]int, len(f.dims)), cf.Header.Lengths(f.name)).Write(d32); err != nil {
		t.Fatal(err)
	}
	if err := cdf.UpdateNumRecs(w); err != nil {
		t.Fatal(err)
	}
	return path
}

func constant(v float64, shape ...int) *sparse.DenseArray {
	a := sparse.ZerosDense(shape...)
	for i := range a.Elements {
		a.Elements[i] = v
	}
	return a
}

func TestComputeBudgetConstant(t *testing.T) {
	shape := []int{3, 2, 3, 3}
	m, err := ComputeDxDy([]float64{-10, 0, 10}, []float64{0, 10, 20})
	if err != nil {
		t.Fatal(err)
	}
	b, err := ComputeBudget(constant(3e5, shape...), constant(5, shape...), constant(-2, shape...),
		constant(0.1, shape...), []float64{85000, 50000}, m)
	if err != nil {
		t.Fatal(err)
	}
	for _, name := range []string{"ds_dt", "ds_dx", "ds_dy", "ds_dp", "Q"} {
		v := b.Var(name)
		if v == nil {
			t.Fatalf("missing variable %s", name)
		}
		for i, e := range v.Elements {
			if e != 0 {
				t.Errorf("%s[%d] = %g, want 0", name, i, e)
				break
			}
		}
	}
}

func TestComputeBudgetTendency(t *testing.T) {
	shape := []int{4, 2, 2, 2}
	s := sparse.ZerosDense(shape...)
	u := sparse.ZerosDense(shape...)
	omega := sparse.ZerosDense(shape...)
	plev := []float64{90000, 50000}
	for ti := 0; ti < shape[0]; ti++ {
		for k := 0; k < shape[1]; k++ {
			for j := 0; j < shape[2]; j++ {
				for i := 0; i < shape[3]; i++ {
					// One J/kg/s in time, 2e-3 J/kg/Pa in pressure.
					s.Set(float64(ti)*SecondsPerDay+2e-3*plev[k], ti, k, j, i)
					u.Set(7, ti, k, j, i)
					omega.Set(-0.5, ti, k, j, i)
				}
			}
		}
	}
	m, err := ComputeDxDy([]float64{0, 1}, []float64{0, 1})
	if err != nil {
		t.Fatal(err)
	}
	b, err := ComputeBudget(s, u, sparse.ZerosDense(shape...), omega, plev, m)
	if err != nil {
		t.Fatal(err)
	}
	for i := range s.Elements {
		if dt := b.Var("ds_dt").Elements[i]; different(dt, 1, 1e-9) {
			t.Fatalf("ds_dt[%d] = %g, want 1", i, dt)
		}
		if dp := b.Var("ds_dp").Elements[i]; different(dp, 2e-3, 1e-9) {
			t.Fatalf("ds_dp[%d] = %g, want 2e-3", i, dp)
		}
		if dx := b.Var("ds_dx").Elements[i]; dx != 0 {
			t.Fatalf("ds_dx[%d] = %g, want 0", i, dx)
		}
		if q := b.Var("Q").Elements[i]; different(q, 1-0.5*2e-3, 1e-9) {
			t.Fatalf("Q[%d] = %g, want %g", i, q, 1-0.5*2e-3)
		}
	}
}

func TestComputeBudgetShapes(t *testing.T) {
	m, err := ComputeDxDy([]float64{0, 1}, []float64{0, 1})
	if err != nil {
		t.Fatal(err)
	}
	a := sparse.ZerosDense(2, 2, 2, 2)
	if _, err := ComputeBudget(sparse.ZerosDense(2, 2, 2), a, a, a, []float64{1, 2}, m); err == nil {
		t.Error("3-d static energy should fail")
	}
	if _, err := ComputeBudget(a, sparse.ZerosDense(2, 2, 2, 3), a, a, []float64{1, 2}, m); err == nil {
		t.Error("mismatched wind should fail")
	}
	big := sparse.ZerosDense(2, 2, 3, 3)
	if _, err := ComputeBudget(big, big, big, big, []float64{1, 2}, m); err == nil {
		t.Error("mismatched grid metric should fail")
	}
	if _, err := ComputeBudget(sparse.ZerosDense(1, 2, 2, 2), sparse.ZerosDense(1, 2, 2, 2),
		sparse.ZerosDense(1, 2, 2, 2), sparse.ZerosDense(1, 2, 2, 2), []float64{1, 2}, m); err == nil {
		t.Error("single time step should fail")
	}
}

func TestComputeBudgetNoMetric(t *testing.T) {
	shape := []int{2, 2, 3, 3}
	_, err := ComputeBudget(constant(1, shape...), constant(1, shape...), constant(1, shape...),
		constant(1, shape...), []float64{85000, 50000}, nil)
	if err == nil {
		t.Error("missing grid metric should fail")
	}
}

func TestBudgetUnits(t *testing.T) {
	u := budgetUnits()
	if u["Q"] != u["ds_dt"] {
		t.Errorf("Q units %q differ from ds_dt units %q", u["Q"], u["ds_dt"])
	}
	if u["ds_dx"] != u["ds_dy"] {
		t.Errorf("ds_dx units %q differ from ds_dy units %q", u["ds_dx"], u["ds_dy"])
	}
	if u["s"] == u["ds_dt"] {
		t.Errorf("s and ds_dt have the same units %q", u["s"])
	}
}

// budgetTestFiles writes the inputs of a small energy budget to dir.
// Temperature increases by one kelvin per day.
func budgetTestFiles(t *testing.T, dir string) *BudgetConfig {
	t.Helper()
	coords := map[string][]float64{
		"time":     {0, 24, 48},
		"level":    {1000, 500},
		"latitude": {20, 10, 0, -10, -20},
		"lon":      {0, 120, 240},
	}
	units := map[string]string{
		"time":  "hours since 1979-01-01 00:00:00",
		"level": "hPa",
	}
	dims := []string{"time", "level", "latitude", "lon"}
	n := 3 * 2 * 5 * 3
	fill := func(f func(i int) float64) []float64 {
		d := make([]float64, n)
		for i := range d {
			d[i] = f(i)
		}
		return d
	}
	perTime := n / 3
	files := make(map[string]string)
	for name, data := range map[string][]float64{
		"ta":  fill(func(i int) float64 { return 280 + float64(i/perTime) }),
		"zg":  fill(func(int) float64 { return 1500 }),
		"ua":  fill(func(int) float64 { return 3 }),
		"va":  fill(func(int) float64 { return 1 }),
		"wap": fill(func(int) float64 { return 0.05 }),
		"hus": fill(func(int) float64 { return 0.01 }),
	} {
		files[name] = writeTestField(t, dir, testField{
			name: name, dims: dims, coords: coords, units: units, data: data,
		})
	}
	return &BudgetConfig{
		TemperatureFile: files["ta"],
		HeightFile:      files["zg"],
		UWindFile:       files["ua"],
		VWindFile:       files["va"],
		OmegaFile:       files["wap"],
		HumidityFile:    files["hus"],
	}
}

func TestEnergyBudget(t *testing.T) {
	dir := t.TempDir()
	c := budgetTestFiles(t, dir)
	for _, kind := range []EnergyKind{DSE, MSE} {
		t.Run(kind.String(), func(t *testing.T) {
			c.Energy = kind
			b, err := EnergyBudget(c)
			if err != nil {
				t.Fatal(err)
			}
			if want := []float64{-10, 0, 10}; !equal(b.Coords["lat"], want) {
				t.Errorf("lat = %v, want %v", b.Coords["lat"], want)
			}
			if want := []float64{100000, 50000}; !equal(b.Coords["plev"], want) {
				t.Errorf("plev = %v, want %v", b.Coords["plev"], want)
			}
			if b.TimeUnits != "hours since 1979-01-01 00:00:00" {
				t.Errorf("time units = %q", b.TimeUnits)
			}
			// Cp [J/kg/K] * 1 K/day
			want := Cp.Value() / SecondsPerDay
			for i, e := range b.Var("ds_dt").Elements {
				if different(e, want, 1e-6) {
					t.Fatalf("ds_dt[%d] = %g, want %g", i, e, want)
				}
			}
			for i, e := range b.Var("Q").Elements {
				if different(e, want, 1e-6) {
					t.Fatalf("Q[%d] = %g, want %g", i, e, want)
				}
			}
			if b.Data["s"].Description != energyDescriptions[kind] {
				t.Errorf("description = %q", b.Data["s"].Description)
			}
		})
	}
}

func TestLatBand(t *testing.T) {
	tests := []struct {
		min, max, wantMin, wantMax float64
	}{
		{0, 0, DefaultLatMin, DefaultLatMax},
		{-10, 0, -10, 0},
		{0, 10, 0, 10},
		{5, 0, 5, DefaultLatMax},
		{0, -5, DefaultLatMin, -5},
		{-5, 5, -5, 5},
	}
	for _, test := range tests {
		min, max := latBand(test.min, test.max)
		if min != test.wantMin || max != test.wantMax {
			t.Errorf("latBand(%g, %g) = %g, %g; want %g, %g",
				test.min, test.max, min, max, test.wantMin, test.wantMax)
		}
	}
}

func TestEnergyBudgetLatMinOnly(t *testing.T) {
	c := budgetTestFiles(t, t.TempDir())
	c.LatMin = -10
	b, err := EnergyBudget(c)
	if err != nil {
		t.Fatal(err)
	}
	if want := []float64{-10, 0}; !equal(b.Coords["lat"], want) {
		t.Errorf("lat = %v, want %v", b.Coords["lat"], want)
	}
}

func TestEnergyBudgetMissingFile(t *testing.T) {
	c := budgetTestFiles(t, t.TempDir())
	c.Energy = MSE
	c.HumidityFile = ""
	if _, err := EnergyBudget(c); err == nil {
		t.Error("missing humidity file should fail")
	}
	c.HumidityFile = filepath.Join(t.TempDir(), "missing.nc")
	if _, err := EnergyBudget(c); err == nil {
		t.Error("nonexistent humidity file should fail")
	}
}

func TestBudgetWrite(t *testing.T) {
	dir := t.TempDir()
	c := budgetTestFiles(t, dir)
	b, err := EnergyBudget(c)
	if err != nil {
		t.Fatal(err)
	}
	path := filepath.Join(dir, "budget.nc")
	w, err := os.Create(path)
	if err != nil {
		t.Fatal(err)
	}
	if err := b.Write(w); err != nil {
		t.Fatal(err)
	}
	w.Close()

	f, err := ReadField(path, "Q")
	if err != nil {
		t.Fatal(err)
	}
	if !equalStrings(f.Dims, budgetDims) {
		t.Errorf("dims = %v, want %v", f.Dims, budgetDims)
	}
	if f.Units != b.Data["Q"].Units {
		t.Errorf("units = %q, want %q", f.Units, b.Data["Q"].Units)
	}
	if !equal(f.Coords["lat"], b.Coords["lat"]) {
		t.Errorf("lat = %v, want %v", f.Coords["lat"], b.Coords["lat"])
	}
	times, err := f.Times()
	if err != nil {
		t.Fatal(err)
	}
	if times[2].Day() != 3 {
		t.Errorf("third time step is %v", times[2])
	}
	for i, e := range f.Data.Elements {
		if different(e, b.Var("Q").Elements[i], 1e-6) {
			t.Fatalf("Q[%d] = %g, want %g", i, e, b.Var("Q").Elements[i])
		}
	}
}

func equal(a, b []float64) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] && !(math.IsNaN(a[i]) && math.IsNaN(b[i])) {
			return false
		}
	}
	return true
}

func equalStrings(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

func TestBudgetWriteComputed(t *testing.T) {
	shape := []int{2, 2, 3, 3}
	m, err := ComputeDxDy([]float64{-10, 0, 10}, []float64{0, 10, 20})
	if err != nil {
		t.Fatal(err)
	}
	b, err := ComputeBudget(constant(3e5, shape...), constant(0, shape...), constant(0, shape...),
		constant(0, shape...), []float64{85000, 50000}, m)
	if err != nil {
		t.Fatal(err)
	}
	b.Coords = map[string][]float64{
		"time": {0, 1},
		"plev": {85000, 50000},
		"lat":  {-10, 0, 10},
		"lon":  {0, 10, 20},
	}
	b.TimeUnits = "days since 2000-01-01"

	path := filepath.Join(t.TempDir(), "budget.nc")
	w, err := os.Create(path)
	if err != nil {
		t.Fatal(err)
	}
	if err := b.Write(w); err != nil {
		t.Fatal(err)
	}
	w.Close()

	f, err := ReadField(path, "s")
	if err != nil {
		t.Fatal(err)
	}
	if !equal(f.Coords["plev"], b.Coords["plev"]) {
		t.Errorf("plev = %v, want %v", f.Coords["plev"], b.Coords["plev"])
	}
	if !equal(f.Coords["lon"], b.Coords["lon"]) {
		t.Errorf("lon = %v, want %v", f.Coords["lon"], b.Coords["lon"])
	}
	for i, e := range f.Data.Elements {
		if e != 3e5 {
			t.Fatalf("s[%d] = %g, want 3e5", i, e)
		}
	}
}

func TestBudgetWriteIndexCoordinates(t *testing.T) {
	shape := []int{2, 2, 3, 3}
	m, err := ComputeDxDy([]float64{-10, 0, 10}, []float64{0, 10, 20})
	if err != nil {
		t.Fatal(err)
	}
	b, err := ComputeBudget(constant(1, shape...), constant(0, shape...), constant(0, shape...),
		constant(0, shape...), []float64{85000, 50000}, m)
	if err != nil {
		t.Fatal(err)
	}
	path := filepath.Join(t.TempDir(), "budget.nc")
	w, err := os.Create(path)
	if err != nil {
		t.Fatal(err)
	}
	if err := b.Write(w); err != nil {
		t.Fatal(err)
	}
	w.Close()

	f, err := ReadField(path, "Q")
	if err != nil {
		t.Fatal(err)
	}
	if want := []float64{0, 1, 2}; !equal(f.Coords["lat"], want) {
		t.Errorf("lat = %v, want %v", f.Coords["lat"], want)
	}
}
