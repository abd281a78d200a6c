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

package tropwaveutil

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/ctessum/cdf"
	"github.com/spatialmodel/tropwave"
)

// writeNC writes variable name with the given dimensions and
// coordinates to a classic NetCDF file in dir and returns its path.
func writeNC(t *testing.T, dir, name string, dims []string, coords map[string][]float64,
	timeUnits string, data func(i int) float64) string {
	t.Helper()
	lengths := make([]int, len(dims))
	n := 1
	for i, d := range dims {
		lengths[i] = len(coords[d])
		n *= lengths[i]
	}
	h := cdf.NewHeader(dims, lengths)
	for _, d := range dims {
		h.AddVariable(d, []string{d}, []float64{0})
	}
	h.AddAttribute("time", "units", timeUnits)
	h.AddVariable(name, dims, []float32{0})
	h.Define()

	path := filepath.Join(dir, name+".nc")
	w, err := os.Create(path)
	if err != nil {
		t.Fatal(err)
	}
	defer w.Close()
	f, err := cdf.Create(w, h)
	if err != nil {
		t.Fatal(err)
	}
	for _, d := range dims {
		if _, err := f.Writer(d, []int{0}, []int{len(coords[d])}).Write(coords[d]); err != nil {
			t.Fatal(err)
		}
	}
	v := make([]float32, n)
	for i := range v {
		v[i] = float32(data(i))
	}
	if _, err := f.Writer(name, make([]int, len(dims)), lengths).Write(v); err != nil {
		t.Fatal(err)
	}
	if err := cdf.UpdateNumRecs(w); err != nil {
		t.Fatal(err)
	}
	return path
}

func setFigureConfig(dir string) {
	Cfg.Set("Figure.Folder", dir)
	Cfg.Set("Figure.Format", "png")
	Cfg.Set("Figure.DPI", 72)
}

func TestVersion(t *testing.T) {
	buf := new(bytes.Buffer)
	Root.SetOutput(buf)
	defer Root.SetOutput(nil)
	Root.SetArgs([]string{"version"})
	if err := Root.Execute(); err != nil {
		t.Fatal(err)
	}
	if want := fmt.Sprintf("tropwave v%s\n", tropwave.Version); buf.String() != want {
		t.Errorf("have %q, want %q", buf.String(), want)
	}
}

func TestDispersion(t *testing.T) {
	dir := t.TempDir()
	setFigureConfig(dir)
	Cfg.Set("Dispersion.Modes", []string{"Kelvin", "MRG", "ER"})
	Cfg.Set("Dispersion.EquivalentDepths", []float64{12, 50})
	Cfg.Set("Dispersion.NumWavenumbers", 101)
	Root.SetArgs([]string{"dispersion"})
	if err := Root.Execute(); err != nil {
		t.Fatal(err)
	}
	if _, err := os.Stat(filepath.Join(dir, "dispersion.png")); err != nil {
		t.Error(err)
	}
}

func TestDispersionBadMode(t *testing.T) {
	setFigureConfig(t.TempDir())
	Cfg.Set("Dispersion.Modes", []string{"Kelvin", "sound"})
	defer Cfg.Set("Dispersion.Modes", []string{"Kelvin"})
	if err := Root.PersistentPreRunE(nil, nil); err != nil {
		t.Fatal(err)
	}
	if err := dispersionCmd.RunE(nil, nil); err == nil {
		t.Error("unknown mode should fail")
	}
}

func TestCCKW(t *testing.T) {
	dir := t.TempDir()
	setFigureConfig(dir)
	Root.SetArgs([]string{"cckw"})
	if err := Root.Execute(); err != nil {
		t.Fatal(err)
	}
	if _, err := os.Stat(filepath.Join(dir, "cckw_envelope.png")); err != nil {
		t.Error(err)
	}
}

func TestBudget(t *testing.T) {
	dir := t.TempDir()
	setFigureConfig(dir)
	coords := map[string][]float64{
		"time": {0, 1, 2},
		"plev": {100000, 85000, 50000},
		"lat":  {-20, -10, 0, 10, 20},
		"lon":  {0, 90, 180, 270},
	}
	dims := []string{"time", "plev", "lat", "lon"}
	const units = "days since 1979-01-01"
	files := map[string]func(int) float64{
		"ta":  func(i int) float64 { return 250 + float64(i%11) },
		"zg":  func(i int) float64 { return 1000 + float64(i%13)*10 },
		"ua":  func(i int) float64 { return float64(i%5) - 2 },
		"va":  func(i int) float64 { return float64(i%3) - 1 },
		"wap": func(i int) float64 { return 0.01 * float64(i%7-3) },
		"hus": func(i int) float64 { return 0.001 * float64(i%9) },
	}
	keys := map[string]string{
		"ta": "Budget.TemperatureFile", "zg": "Budget.HeightFile", "ua": "Budget.UWindFile",
		"va": "Budget.VWindFile", "wap": "Budget.OmegaFile", "hus": "Budget.HumidityFile",
	}
	for name, data := range files {
		Cfg.Set(keys[name], writeNC(t, dir, name, dims, coords, units, data))
	}
	out := filepath.Join(dir, "budget.nc")
	Cfg.Set("Budget.Energy", "MSE")
	Cfg.Set("Budget.OutputFile", out)
	Cfg.Set("Budget.OutputVariables", map[string]string{
		"advection": "u*ds_dx + v*ds_dy + omega*ds_dp",
	})
	Cfg.Set("Budget.PlotVariable", "advection")
	Cfg.Set("Budget.PlotLevel", 2)
	Root.SetArgs([]string{"budget"})
	if err := Root.Execute(); err != nil {
		t.Fatal(err)
	}
	f, err := tropwave.ReadField(out, "advection")
	if err != nil {
		t.Fatal(err)
	}
	if want := []int{3, 3, 3, 4}; fmt.Sprint(f.Data.Shape) != fmt.Sprint(want) {
		t.Errorf("shape = %v, want %v", f.Data.Shape, want)
	}
	if _, err := os.Stat(filepath.Join(dir, "MSE_advection.png")); err != nil {
		t.Error(err)
	}
}

func TestTrend(t *testing.T) {
	dir := t.TempDir()
	setFigureConfig(dir)
	days := []float64{0, 10, 366, 376, 731, 741, 1096, 1106}
	coords := map[string][]float64{
		"time": days,
		"lat":  {-10, 0, 10},
		"lon":  {30, 100, 200, 300},
	}
	perStep := 3 * 4
	for _, wave := range []string{"kelvin", "mrg"} {
		writeNC(t, dir, wave, []string{"time", "lat", "lon"}, coords, "days since 2000-01-01",
			func(i int) float64 {
				step := i / perStep
				a := float64(step/2+1) + float64(i%perStep)/10
				if step%2 == 1 {
					a = -a
				}
				return a
			})
	}
	catalog := filepath.Join(dir, "catalog.toml")
	err := os.WriteFile(catalog, []byte(strings.Join([]string{
		"StartYear = 2000",
		"EndYear = 2003",
		"[[Wave]]",
		`Name = "Kelvin"`,
		`File = "` + filepath.Join(dir, "kelvin.nc") + `"`,
		`Variable = "kelvin"`,
		"[[Wave]]",
		`Name = "MRG"`,
		`File = "` + filepath.Join(dir, "mrg.nc") + `"`,
		`Variable = "mrg"`,
	}, "\n")), 0644)
	if err != nil {
		t.Fatal(err)
	}
	Cfg.Set("Trend.Catalog", catalog)
	Root.SetArgs([]string{"trend"})
	if err := Root.Execute(); err != nil {
		t.Fatal(err)
	}
	if _, err := os.Stat(filepath.Join(dir, "trends.png")); err != nil {
		t.Error(err)
	}
}

func TestConfigFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.toml")
	err := os.WriteFile(path, []byte(`LogLevel = "debug"

[CCKW]
EquivalentDepths = [12, 50]
MaxFrequencies = [0.4]

[Figure]
Folder = "`+dir+`"
Format = "svg"
`), 0644)
	if err != nil {
		t.Fatal(err)
	}
	Cfg.Set("config", path)
	defer Cfg.Set("config", "")
	if err := setConfig(); err != nil {
		t.Fatal(err)
	}
	he, err := toFloatSliceE(Cfg.Get("CCKW.EquivalentDepths"))
	if err != nil {
		t.Fatal(err)
	}
	if len(he) != 2 || he[1] != 50 {
		t.Errorf("depths = %v", he)
	}
	if Cfg.GetString("LogLevel") != "debug" {
		t.Errorf("log level = %s", Cfg.GetString("LogLevel"))
	}

	Cfg.Set("config", filepath.Join(dir, "missing.toml"))
	if err := setConfig(); err == nil {
		t.Error("missing configuration file should fail")
	}
}
