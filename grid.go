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

	"github.com/ctessum/sparse"
)

// GridMetric holds the physical size of each cell of a regular
// latitude-longitude grid.
type GridMetric struct {
	// Dx is the east-west grid spacing [m], shaped (lat, lon).
	Dx *sparse.DenseArray

	// Dy is the north-south grid spacing [m], shaped (lat, lon).
	Dy *sparse.DenseArray
}

// ComputeDxDy calculates the east-west and north-south grid spacing in
// meters for the grid defined by the latitude and longitude coordinate
// vectors lat and lon, in degrees. Angular spacing is taken from the
// centered gradient of the coordinate meshgrid, so edge cells use
// one-sided differences. Both axes must have at least two points.
func ComputeDxDy(lat, lon []float64) (*GridMetric, error) {
	nlat, nlon := len(lat), len(lon)
	if nlat < 2 || nlon < 2 {
		return nil, fmt.Errorf("tropwave: grid metric for %d latitudes and %d longitudes: %w",
			nlat, nlon, ErrDegenerateAxis)
	}
	lonGrid := sparse.ZerosDense(nlat, nlon)
	latGrid := sparse.ZerosDense(nlat, nlon)
	for j, y := range lat {
		for i, x := range lon {
			lonGrid.Set(x, j, i)
			latGrid.Set(y, j, i)
		}
	}
	dlonx, err := gradient(lonGrid, 1, nil)
	if err != nil {
		return nil, err
	}
	dlaty, err := gradient(latGrid, 0, nil)
	if err != nil {
		return nil, err
	}
	m := &GridMetric{
		Dx: sparse.ZerosDense(nlat, nlon),
		Dy: sparse.ZerosDense(nlat, nlon),
	}
	for k, y := range latGrid.Elements {
		m.Dx.Elements[k] = EarthRadius * math.Cos(y*math.Pi/180) * dlonx.Elements[k] * math.Pi / 180
		m.Dy.Elements[k] = EarthRadius * dlaty.Elements[k] * math.Pi / 180
	}
	return m, nil
}
