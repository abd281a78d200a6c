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
	"strconv"
	"strings"

	"gonum.org/v1/gonum/diff/fd"
	"gonum.org/v1/gonum/floats"
)

// WaveMode is a type of equatorial shallow-water wave.
type WaveMode int

// The supported wave modes.
const (
	Kelvin WaveMode = iota // Kelvin wave
	MRG                    // mixed Rossby-gravity wave
	EIG                    // eastward inertio-gravity wave
	WIG                    // westward inertio-gravity wave
	ER                     // equatorial Rossby wave
)

var waveModeNames = map[WaveMode]string{
	Kelvin: "Kelvin",
	MRG:    "MRG",
	EIG:    "EIG",
	WIG:    "WIG",
	ER:     "ER",
}

func (m WaveMode) String() string {
	if s, ok := waveModeNames[m]; ok {
		return s
	}
	return fmt.Sprintf("WaveMode(%d)", int(m))
}

// ParseWaveMode returns the wave mode named s, one of "kelvin", "mrg",
// "eig", "wig" or "er" (case insensitive).
func ParseWaveMode(s string) (WaveMode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "kelvin":
		return Kelvin, nil
	case "mrg":
		return MRG, nil
	case "eig":
		return EIG, nil
	case "wig":
		return WIG, nil
	case "er":
		return ER, nil
	default:
		return Kelvin, fmt.Errorf("tropwave: %q: %w", s, ErrUnsupportedMode)
	}
}

// Default wavenumber range of dispersion curves.
const (
	DefaultMaxWavenumber  = 50.
	DefaultNumWavenumbers = 500
)

// DispersionConfig specifies a dispersion curve.
type DispersionConfig struct {
	Mode WaveMode

	// EquivalentDepth is the equivalent depth of the wave [m].
	EquivalentDepth float64

	// Latitude is the reference latitude [degrees] of the beta-plane.
	Latitude float64

	// MaxWavenumber and NumWavenumbers specify the planetary wavenumbers
	// of the curve, which are NumWavenumbers equally spaced values from
	// -MaxWavenumber to MaxWavenumber. Zero values select
	// DefaultMaxWavenumber and DefaultNumWavenumbers.
	MaxWavenumber  float64
	NumWavenumbers int

	// N is the meridional mode number of inertio-gravity and Rossby waves.
	N int
}

// DispersionCurve is the frequency of a wave mode as a function of
// planetary (zonal) wavenumber.
type DispersionCurve struct {
	Label string
	DispersionConfig

	// Wavenumbers are planetary wavenumbers in ascending order.
	Wavenumbers []float64

	// Frequencies are the frequencies [Hz] at each wavenumber. Wavenumbers
	// at which the mode does not exist or could not be solved for are NaN.
	Frequencies []float64
}

// Wavenumbers returns n equally spaced planetary wavenumbers from
// -maxWn to maxWn.
func Wavenumbers(maxWn float64, n int) []float64 {
	return floats.Span(make([]float64, n), -maxWn, maxWn)
}

// BetaParameters returns the meridional gradient of the Coriolis
// parameter [1/(m s)] and the circumference of the Earth [m] at
// latitude lat [degrees].
func BetaParameters(lat float64) (beta, perimeter float64) {
	c := math.Cos(lat * math.Pi / 180)
	return 2 * earthRotation * c / waveEarthRadius, 2 * math.Pi * waveEarthRadius * c
}

// WavenumberToK converts planetary wavenumber wn to zonal wavenumber
// [rad/m] on a latitude circle with the given perimeter [m].
func WavenumberToK(wn, perimeter float64) float64 {
	return 2 * math.Pi * wn / perimeter
}

// AngularToFrequency converts angular frequency omega [rad/s] to period
// [s] and frequency [Hz].
func AngularToFrequency(omega float64) (period, frequency float64) {
	period = 2 * math.Pi / omega
	return period, 1 / period
}

// ComputeDispersionCurve computes the dispersion curve described by c
// from the shallow-water equations on an equatorial beta-plane.
// Kelvin waves are only defined for eastward (positive) wavenumbers and
// westward inertio-gravity waves for westward (zero or negative)
// wavenumbers. Equatorial Rossby wave frequencies are found numerically
// for each wavenumber; wavenumbers where the solution does not converge
// are NaN.
func ComputeDispersionCurve(c DispersionConfig) (*DispersionCurve, error) {
	if c.MaxWavenumber == 0 {
		c.MaxWavenumber = DefaultMaxWavenumber
	}
	if c.NumWavenumbers == 0 {
		c.NumWavenumbers = DefaultNumWavenumbers
	}
	if c.MaxWavenumber < 0 || c.NumWavenumbers < 2 {
		return nil, fmt.Errorf("tropwave: dispersion curve wavenumbers: max=%g and n=%d but should be >0 and >=2",
			c.MaxWavenumber, c.NumWavenumbers)
	}
	if c.EquivalentDepth <= 0 {
		return nil, fmt.Errorf("tropwave: dispersion curve equivalent depth %g should be >0", c.EquivalentDepth)
	}
	if c.N < 0 {
		return nil, fmt.Errorf("tropwave: dispersion curve meridional mode number %d should be >=0", c.N)
	}
	he := strconv.FormatFloat(c.EquivalentDepth, 'g', -1, 64)
	var label string
	switch c.Mode {
	case Kelvin, MRG:
		label = fmt.Sprintf("%v(he=%sm)", c.Mode, he)
	case EIG, WIG, ER:
		label = fmt.Sprintf("%v(n=%d, he=%sm)", c.Mode, c.N, he)
	default:
		return nil, fmt.Errorf("tropwave: %v: %w", c.Mode, ErrUnsupportedMode)
	}

	wn := Wavenumbers(c.MaxWavenumber, c.NumWavenumbers)
	beta, perimeter := BetaParameters(c.Latitude)
	cg := math.Sqrt(waveGravity * c.EquivalentDepth)
	freq := make([]float64, len(wn))
	for i, w := range wn {
		k := WavenumberToK(w, perimeter)
		var omega float64
		switch c.Mode {
		case Kelvin:
			omega = math.NaN()
			if k > 0 {
				omega = cg * k
			}
		case MRG:
			omega = -(cg * k) * (cg * k) / beta
		case EIG, WIG:
			omega = cg * math.Sqrt(k*k+float64(2*c.N+1)*beta/cg)
			if c.Mode == WIG && k > 0 {
				omega = math.NaN()
			}
		case ER:
			omega = rossbyFrequency(k, c.EquivalentDepth, beta, c.N)
		}
		_, freq[i] = AngularToFrequency(omega)
	}
	return &DispersionCurve{
		Label:            label,
		DispersionConfig: c,
		Wavenumbers:      wn,
		Frequencies:      freq,
	}, nil
}

// rossbyResidual is the equatorial Rossby wave dispersion relation,
// which is zero when omega is a solution.
func rossbyResidual(omega, k, he, beta float64, n int) float64 {
	return omega*omega - beta*omega/(omega*omega-waveGravity*he*k*k) - float64(2*n+1)*beta
}

// Settings of the Newton iteration for Rossby wave frequencies.
const (
	rossbySeed    = 1e-4
	rossbyMaxIter = 100
	rossbyXTol    = 1.49012e-8
)

// rossbyFrequency solves the equatorial Rossby wave dispersion relation
// for angular frequency by Newton iteration from a small positive seed.
// It returns NaN if the iteration does not converge.
func rossbyFrequency(k, he, beta float64, n int) float64 {
	f := func(w float64) float64 { return rossbyResidual(w, k, he, beta, n) }
	w := rossbySeed
	for i := 0; i < rossbyMaxIter; i++ {
		fw := f(w)
		if math.IsNaN(fw) || math.IsInf(fw, 0) {
			return math.NaN()
		}
		step := 1e-6 * math.Max(math.Abs(w), 1e-12)
		d := fd.Derivative(f, w, &fd.Settings{Formula: fd.Central, Step: step})
		if d == 0 || math.IsNaN(d) || math.IsInf(d, 0) {
			return math.NaN()
		}
		next := w - fw/d
		if math.Abs(next-w) <= rossbyXTol*math.Max(math.Abs(next), 1e-300) {
			if converged(next, k, he, beta, n) {
				return next
			}
			return math.NaN()
		}
		w = next
	}
	return math.NaN()
}

// converged reports whether omega solves the Rossby dispersion relation
// to within a relative tolerance of the magnitude of its terms.
func converged(omega, k, he, beta float64, n int) bool {
	scale := omega*omega + math.Abs(beta*omega/(omega*omega-waveGravity*he*k*k)) + float64(2*n+1)*beta
	return math.Abs(rossbyResidual(omega, k, he, beta, n)) <= 1e-6*scale
}

// Filter returns the part of the curve with wavenumbers between minWn
// and maxWn, inclusive.
func (c *DispersionCurve) Filter(minWn, maxWn float64) *DispersionCurve {
	o := &DispersionCurve{Label: c.Label, DispersionConfig: c.DispersionConfig}
	for i, w := range c.Wavenumbers {
		if w >= minWn && w <= maxWn {
			o.Wavenumbers = append(o.Wavenumbers, w)
			o.Frequencies = append(o.Frequencies, c.Frequencies[i])
		}
	}
	return o
}

// CyclesPerDay returns the frequencies of the curve in cycles per day.
func (c *DispersionCurve) CyclesPerDay() []float64 {
	o := make([]float64, len(c.Frequencies))
	for i, f := range c.Frequencies {
		o[i] = f * SecondsPerDay
	}
	return o
}
