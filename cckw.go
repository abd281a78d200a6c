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

	"github.com/ctessum/geom"
)

// DefaultEquivalentDepths returns the shallow, medium and deep
// equivalent depths [m] of convectively coupled Kelvin waves.
func DefaultEquivalentDepths() []float64 { return []float64{8, 25, 90} }

// DefaultMaxFrequencies returns the default frequency cutoffs [cycles/day]
// of the Kelvin wave envelope.
func DefaultMaxFrequencies() []float64 { return []float64{1. / 3, 1. / 2.25, 0.5} }

// envelopePeriod is the longest period [days] inside the envelope.
const envelopePeriod = 20.

// EnvelopeCurve is a closed polygon in (planetary wavenumber,
// frequency [cycles/day]) space.
type EnvelopeCurve struct {
	X, Y []float64
}

// Polygon returns the envelope as a polygon.
func (e EnvelopeCurve) Polygon() geom.Polygon {
	ring := make(geom.Path, len(e.X))
	for i := range e.X {
		ring[i] = geom.Point{X: e.X[i], Y: e.Y[i]}
	}
	return geom.Polygon{ring}
}

// KelvinSlope returns the slope [cycles/day per planetary wavenumber]
// of the Kelvin wave dispersion line for equivalent depth he [m].
func KelvinSlope(he float64) float64 {
	return math.Sqrt(envelopeGravity*he) / (2 * math.Pi * EarthRadius) * SecondsPerDay
}

// CCKWEnvelope returns the wavenumber-frequency envelope used to filter
// convectively coupled Kelvin waves. he holds equivalent depths [m] and
// fmax frequency cutoffs [cycles/day]; nil values select
// DefaultEquivalentDepths and DefaultMaxFrequencies. One curve is
// returned per depth. Every curve is bounded by the dispersion lines of
// the first and last depth and by the first frequency cutoff, so all of
// the curves are identical.
func CCKWEnvelope(he, fmax []float64) ([]EnvelopeCurve, error) {
	if he == nil {
		he = DefaultEquivalentDepths()
	}
	if fmax == nil {
		fmax = DefaultMaxFrequencies()
	}
	if len(he) == 0 || len(fmax) == 0 {
		return nil, fmt.Errorf("tropwave: CCKW envelope needs at least one equivalent depth and frequency cutoff")
	}
	for _, h := range he {
		if h <= 0 {
			return nil, fmt.Errorf("tropwave: CCKW envelope: equivalent depth %g should be >0", h)
		}
	}
	o := make([]EnvelopeCurve, len(he))
	for i := range he {
		sMin := KelvinSlope(he[0])
		sMax := KelvinSlope(he[len(he)-1])
		f := fmax[0]
		o[i] = EnvelopeCurve{
			X: []float64{2, 1 / envelopePeriod / sMin, 14, 14, f / sMax, 2, 2},
			Y: []float64{1 / envelopePeriod, 1 / envelopePeriod, 14 * sMin, f, f, 2 * sMax, 1 / envelopePeriod},
		}
	}
	return o, nil
}

// KelvinReferenceWavenumber returns the planetary wavenumber at which a
// Kelvin wave with equivalent depth he [m] has a frequency of half a
// cycle per day.
func KelvinReferenceWavenumber(he float64) float64 {
	return math.Pi * EarthRadius / math.Sqrt(envelopeGravity*he) / SecondsPerDay
}
