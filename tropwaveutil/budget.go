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
	"fmt"
	"os"

	"github.com/sirupsen/logrus"
	"github.com/spatialmodel/tropwave"
	"github.com/spatialmodel/tropwave/figure"
	"gonum.org/v1/plot/palette"
)

// Budget calculates the static energy budget specified by c, adds the
// outputVars expressions to it, writes it to outputFile and, if plotVar
// is not empty, saves a map of plotVar at time index plotTime and level
// index plotLevel. colors optionally specifies the map's color scale
// as understood by figure.ColorMapFromString.
func Budget(c *tropwave.BudgetConfig, outputFile string, outputVars map[string]string,
	plotVar string, plotTime, plotLevel int, colors string, s *figure.Saver) error {

	log := logrus.StandardLogger()
	c.Log = log

	b, err := tropwave.EnergyBudget(c)
	if err != nil {
		return err
	}
	if len(outputVars) > 0 {
		if err := b.AddOutputVariables(outputVars); err != nil {
			return err
		}
	}

	f, err := os.Create(outputFile)
	if err != nil {
		return fmt.Errorf("tropwave: creating budget output file: %v", err)
	}
	if err := b.Write(f); err != nil {
		f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("tropwave: closing budget output file: %v", err)
	}
	log.WithField("file", outputFile).Info("wrote energy budget")

	if plotVar == "" {
		return nil
	}
	var cm palette.ColorMap
	if colors != "" {
		if cm, err = figure.ColorMapFromString(colors); err != nil {
			return err
		}
	}
	fig, err := figure.BudgetMap(b, plotVar, plotTime, plotLevel, cm)
	if err != nil {
		return err
	}
	_, err = s.Save(fig, fmt.Sprintf("%s_%s", b.Energy, plotVar))
	return err
}
