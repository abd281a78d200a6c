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

import "github.com/ctessum/unit"

// Physical constants used in the static energy calculations.
var (
	// Cp is the specific heat of dry air at constant pressure.
	Cp = unit.New(1004, unit.Dimensions{
		unit.LengthDim:      2,
		unit.TimeDim:        -2,
		unit.TemperatureDim: -1,
	})

	// Gravity is the gravitational acceleration used for the
	// geopotential term of static energy.
	Gravity = unit.New(9.8, unit.MeterPerSecond2)

	// Lv is the latent heat of vaporization of water.
	Lv = unit.New(2.25e6, joulePerKilogram)
)

var joulePerKilogram = unit.Dimensions{
	unit.LengthDim: 2,
	unit.TimeDim:   -2,
}

const (
	// EarthRadius is the mean radius of the Earth [m] used for grid
	// spacing and envelope slopes.
	EarthRadius = 6371e3

	// SecondsPerDay converts daily time steps and cycles per day.
	SecondsPerDay = 86400.

	// shallow-water constants for the dispersion relations.
	waveGravity     = 9.81
	waveEarthRadius = 6.371e6
	earthRotation   = 7.292e-5 // s-1

	// envelopeGravity is the gravity used for the CCKW envelope slopes.
	envelopeGravity = 9.8
)
