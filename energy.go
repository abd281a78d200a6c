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
	"strings"

	"github.com/ctessum/sparse"
)

// EnergyKind specifies which static energy a budget is computed for.
type EnergyKind int

const (
	// DSE is dry static energy, Cp T + g z.
	DSE EnergyKind = iota

	// MSE is moist static energy, Cp T + g z + Lv q.
	MSE

	// SaturatedMSE is moist static energy evaluated with the saturation
	// specific humidity of the air.
	SaturatedMSE
)

func (k EnergyKind) String() string {
	switch k {
	case DSE:
		return "DSE"
	case MSE:
		return "MSE"
	case SaturatedMSE:
		return "MSE-saturated"
	default:
		return fmt.Sprintf("EnergyKind(%d)", int(k))
	}
}

// ParseEnergyKind returns the EnergyKind named by s, which is one of
// "DSE", "MSE" or "MSE-saturated" (case insensitive).
func ParseEnergyKind(s string) (EnergyKind, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "dse", "":
		return DSE, nil
	case "mse":
		return MSE, nil
	case "mse-saturated", "mse_saturated", "mse-sat":
		return SaturatedMSE, nil
	default:
		return DSE, fmt.Errorf("tropwave: invalid static energy type %q; valid options are DSE, MSE and MSE-saturated", s)
	}
}

// DryStaticEnergy returns Cp*t + g*z [J/kg] for temperature t [K] and
// geopotential height z [m].
func DryStaticEnergy(t, z *sparse.DenseArray) (*sparse.DenseArray, error) {
	if err := sameShape([]string{"temperature", "height"}, t, z); err != nil {
		return nil, err
	}
	cp, g := Cp.Value(), Gravity.Value()
	s := sparse.ZerosDense(t.Shape...)
	for i, tv := range t.Elements {
		s.Elements[i] = cp*tv + g*z.Elements[i]
	}
	return s, nil
}

// MoistStaticEnergy returns Cp*t + g*z + Lv*q [J/kg] for temperature
// t [K], geopotential height z [m] and specific humidity q [kg/kg].
func MoistStaticEnergy(t, z, q *sparse.DenseArray) (*sparse.DenseArray, error) {
	if err := sameShape([]string{"temperature", "height", "humidity"}, t, z, q); err != nil {
		return nil, err
	}
	s, err := DryStaticEnergy(t, z)
	if err != nil {
		return nil, err
	}
	lv := Lv.Value()
	for i, qv := range q.Elements {
		s.Elements[i] += lv * qv
	}
	return s, nil
}

// SaturationSpecificHumidity returns the saturation specific humidity
// [kg/kg] for temperature t [K], whose second axis is pressure level.
// plev holds the pressure of each level in Pa.
func SaturationSpecificHumidity(t *sparse.DenseArray, plev []float64) (*sparse.DenseArray, error) {
	if len(t.Shape) < 2 || t.Shape[1] != len(plev) {
		return nil, fmt.Errorf("tropwave: saturation humidity for temperature shape %v and %d levels: %w",
			t.Shape, len(plev), ErrShapeMismatch)
	}
	levStride := strides(t.Shape)[1]
	q := sparse.ZerosDense(t.Shape...)
	for i, tv := range t.Elements {
		p := plev[(i/levStride)%len(plev)] / 100 // hPa
		tc := tv - 273.15
		es := 6.1094 * math.Exp(17.625*tc/(tc+243.04))
		q.Elements[i] = 0.622 * es / p
	}
	return q, nil
}

// SaturatedMoistStaticEnergy returns the moist static energy of air
// at temperature t [K] and height z [m] if it were saturated. plev
// holds the pressure [Pa] of each level along the second axis.
func SaturatedMoistStaticEnergy(t, z *sparse.DenseArray, plev []float64) (*sparse.DenseArray, error) {
	q, err := SaturationSpecificHumidity(t, plev)
	if err != nil {
		return nil, err
	}
	return MoistStaticEnergy(t, z, q)
}

// StaticEnergy computes the static energy of the given kind. q is only
// used for MSE and plev only for SaturatedMSE.
func StaticEnergy(kind EnergyKind, t, z, q *sparse.DenseArray, plev []float64) (*sparse.DenseArray, error) {
	switch kind {
	case DSE:
		return DryStaticEnergy(t, z)
	case MSE:
		if q == nil {
			return nil, fmt.Errorf("tropwave: moist static energy requires specific humidity")
		}
		return MoistStaticEnergy(t, z, q)
	case SaturatedMSE:
		return SaturatedMoistStaticEnergy(t, z, plev)
	default:
		return nil, fmt.Errorf("tropwave: invalid static energy type %v", kind)
	}
}
