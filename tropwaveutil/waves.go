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
	"github.com/sirupsen/logrus"
	"github.com/spatialmodel/tropwave"
	"github.com/spatialmodel/tropwave/figure"
)

// Dispersion calculates the dispersion curve of each mode at each
// equivalent depth, using the remaining settings of base, and saves
// the curves, drawn between wavenumbers minWn and maxWn, as "dispersion".
func Dispersion(modes []tropwave.WaveMode, depths []float64, base tropwave.DispersionConfig,
	minWn, maxWn float64, s *figure.Saver) error {

	var curves []*tropwave.DispersionCurve
	for _, m := range modes {
		for _, he := range depths {
			c := base
			c.Mode = m
			c.EquivalentDepth = he
			curve, err := tropwave.ComputeDispersionCurve(c)
			if err != nil {
				return err
			}
			logrus.WithFields(logrus.Fields{
				"mode":  m.String(),
				"depth": he,
			}).Debug("calculated dispersion curve")
			curves = append(curves, curve)
		}
	}
	p, err := figure.Dispersion(curves, minWn, maxWn)
	if err != nil {
		return err
	}
	_, err = s.Save(p, "dispersion")
	return err
}

// CCKW saves the convectively coupled Kelvin wave envelope for
// equivalent depths he and maximum frequencies fmax as "cckw_envelope".
func CCKW(he, fmax []float64, s *figure.Saver) error {
	p, err := figure.CCKW(he, fmax)
	if err != nil {
		return err
	}
	_, err = s.Save(p, "cckw_envelope")
	return err
}
