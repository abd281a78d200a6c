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
	"time"

	"github.com/ctessum/sparse"
)

func testLatLonField() *Field {
	// Values are 10*lat index + lon index.
	d := sparse.ZerosDense(3, 4)
	for j := 0; j < 3; j++ {
		for i := 0; i < 4; i++ {
			d.Set(float64(10*j+i), j, i)
		}
	}
	return &Field{
		Name: "olr",
		Dims: []string{"lat", "lon"},
		Coords: map[string][]float64{
			"lat": {30, 0, -30},
			"lon": {-90, 0, 90, 180},
		},
		Data: d,
	}
}

func TestSelectLat(t *testing.T) {
	f, err := testLatLonField().SelectLat(-30, 0)
	if err != nil {
		t.Fatal(err)
	}
	if want := []float64{-30, 0}; !equal(f.Coords["lat"], want) {
		t.Errorf("lat = %v, want %v", f.Coords["lat"], want)
	}
	if want := []float64{20, 21, 22, 23, 10, 11, 12, 13}; !equal(f.Data.Elements, want) {
		t.Errorf("data = %v, want %v", f.Data.Elements, want)
	}
	if _, err := testLatLonField().SelectLat(40, 50); err == nil {
		t.Error("empty latitude band should fail")
	}
}

func TestSelectLon(t *testing.T) {
	f, err := testLatLonField().SelectLon(LonRange{250, 360}, LonRange{0, 10})
	if err != nil {
		t.Fatal(err)
	}
	// -90 wraps to 270.
	if want := []float64{-90, 0}; !equal(f.Coords["lon"], want) {
		t.Errorf("lon = %v, want %v", f.Coords["lon"], want)
	}
	if want := []float64{0, 1, 10, 11, 20, 21}; !equal(f.Data.Elements, want) {
		t.Errorf("data = %v, want %v", f.Data.Elements, want)
	}
	if _, err := testLatLonField().SelectLon(LonRange{10, 20}); err == nil {
		t.Error("empty longitude range should fail")
	}
}

func TestDecodeCFTime(t *testing.T) {
	tests := []struct {
		units string
		value float64
		want  time.Time
	}{
		{"days since 1979-01-01 00:00:00", 1.5, time.Date(1979, 1, 2, 12, 0, 0, 0, time.UTC)},
		{"hours since 1900-01-01 00:00:00.0", 24, time.Date(1900, 1, 2, 0, 0, 0, 0, time.UTC)},
		{"hours since 1900-01-01", 48, time.Date(1900, 1, 3, 0, 0, 0, 0, time.UTC)},
		{"minutes since 2000-1-1 0:0:0", 90, time.Date(2000, 1, 1, 1, 30, 0, 0, time.UTC)},
		{"seconds since 2010-06-01T00:00:00Z", 60, time.Date(2010, 6, 1, 0, 1, 0, 0, time.UTC)},
	}
	for _, test := range tests {
		t.Run(test.units, func(t *testing.T) {
			have, err := DecodeCFTime([]float64{test.value}, test.units)
			if err != nil {
				t.Fatal(err)
			}
			if !have[0].Equal(test.want) {
				t.Errorf("have %v, want %v", have[0], test.want)
			}
		})
	}
	for _, units := range []string{"days", "fortnights since 2000-01-01", "days since yesterday"} {
		if _, err := DecodeCFTime([]float64{1}, units); err == nil {
			t.Errorf("units %q should fail", units)
		}
	}
}

func TestReadField(t *testing.T) {
	dir := t.TempDir()
	path := writeTestField(t, dir, testField{
		name: "olr",
		dims: []string{"time", "latitude", "longitude"},
		coords: map[string][]float64{
			"time":      {0, 1},
			"latitude":  {10, -10},
			"longitude": {0, 180},
		},
		units:     map[string]string{"time": "days since 2000-01-01"},
		data:      []float64{1, 2, 3, 4, 5, 6, 7, 8},
		dataUnits: "W m-2",
	})
	f, err := LoadField(path, "olr", -15, 15)
	if err != nil {
		t.Fatal(err)
	}
	if want := []string{"time", "lat", "lon"}; !equalStrings(f.Dims, want) {
		t.Errorf("dims = %v, want %v", f.Dims, want)
	}
	if f.Units != "W m-2" {
		t.Errorf("units = %q", f.Units)
	}
	if want := []float64{3, 4, 1, 2, 7, 8, 5, 6}; !equal(f.Data.Elements, want) {
		t.Errorf("data = %v, want %v", f.Data.Elements, want)
	}
	times, err := f.Times()
	if err != nil {
		t.Fatal(err)
	}
	if !times[1].Equal(time.Date(2000, 1, 2, 0, 0, 0, 0, time.UTC)) {
		t.Errorf("second time = %v", times[1])
	}
	if _, err := ReadField(path, "missing"); err == nil {
		t.Error("missing variable should fail")
	}
}

func TestOpenNCErrors(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "text.nc")
	if err := os.WriteFile(path, []byte("not a netcdf file"), 0644); err != nil {
		t.Fatal(err)
	}
	if _, err := ReadField(path, "x"); err == nil {
		t.Error("text file should fail")
	}
	if _, err := ReadField(filepath.Join(dir, "missing.nc"), "x"); err == nil {
		t.Error("missing file should fail")
	}
}

func TestUnpack(t *testing.T) {
	v := &ncVariable{
		values: []float64{10, -999, 20, 1e20},
		attrs: map[string]interface{}{
			"scale_factor":  float32(0.5),
			"add_offset":    []float64{100},
			"_FillValue":    int16(-999),
			"missing_value": 1e20,
			"units":         "K",
		},
	}
	v.unpack()
	if v.values[0] != 105 || v.values[2] != 110 {
		t.Errorf("unpacked values %v", v.values)
	}
	if !math.IsNaN(v.values[1]) || !math.IsNaN(v.values[3]) {
		t.Errorf("fill values %v should be NaN", v.values)
	}
	if v.attrString("units") != "K" {
		t.Errorf("units = %q", v.attrString("units"))
	}
}

func TestFlatten(t *testing.T) {
	shape, values, err := flatten([][]int32{{1, 2, 3}, {4, 5, 6}})
	if err != nil {
		t.Fatal(err)
	}
	if len(shape) != 2 || shape[0] != 2 || shape[1] != 3 {
		t.Errorf("shape = %v", shape)
	}
	if !equal(values, []float64{1, 2, 3, 4, 5, 6}) {
		t.Errorf("values = %v", values)
	}
	if _, _, err := flatten([][]float64{{1, 2}, {3}}); err == nil {
		t.Error("ragged array should fail")
	}
	if _, _, err := flatten([]string{"a"}); err == nil {
		t.Error("strings should fail")
	}
}
