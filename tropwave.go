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

// Package tropwave computes diagnostics of tropical waves and of the
// atmospheric static energy budget from gridded reanalysis fields.
//
// The package provides finite-difference gradients on geographic grids,
// dry and moist static energy, the advective energy tendency budget,
// theoretical shallow-water dispersion curves for equatorial waves,
// convectively coupled Kelvin wave filtering envelopes and interannual
// wave-activity trends. Figures are drawn by the figure subpackage and
// the command-line interface lives in tropwaveutil.
package tropwave

import "errors"

// Version gives the version of tropwave.
const Version = "0.3.0"

var (
	// ErrUnsupportedMode is returned when a wave mode is not one of the
	// supported equatorial wave types.
	ErrUnsupportedMode = errors.New("unsupported wave mode")

	// ErrDegenerateAxis is returned when a finite difference is requested
	// along an axis that has fewer than two points.
	ErrDegenerateAxis = errors.New("axis has fewer than two points")

	// ErrShapeMismatch is returned when arrays that are combined
	// elementwise do not have compatible shapes.
	ErrShapeMismatch = errors.New("array shapes do not match")
)
