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

	"github.com/BurntSushi/toml"
	"github.com/sirupsen/logrus"
	"github.com/spatialmodel/tropwave"
	"github.com/spatialmodel/tropwave/figure"
)

// Catalog lists the filtered wave fields that interannual trends are
// calculated for. It is read from a TOML file such as
//
//	StartYear = 1979
//	EndYear = 2020
//
//	[[Wave]]
//	Name = "Kelvin"
//	File = "${DATA}/olr_kelvin.nc"
//	Variable = "olr"
type Catalog struct {
	// StartYear, EndYear, LatMin and LatMax override the defaults
	// of tropwave.TrendConfig when they are nonzero.
	StartYear, EndYear int
	LatMin, LatMax     float64

	Wave []struct {
		Name, File, Variable string
	}
}

// ReadCatalog reads a wave catalog from a TOML file.
func ReadCatalog(path string) (*Catalog, error) {
	c := new(Catalog)
	if _, err := toml.DecodeFile(path, c); err != nil {
		return nil, fmt.Errorf("tropwave: reading wave catalog: %v", err)
	}
	if len(c.Wave) == 0 {
		return nil, fmt.Errorf("tropwave: wave catalog %s has no [[Wave]] entries", path)
	}
	for i, w := range c.Wave {
		if w.Name == "" || w.File == "" || w.Variable == "" {
			return nil, fmt.Errorf("tropwave: wave catalog entry %d needs a Name, File and Variable", i)
		}
		c.Wave[i].File = os.ExpandEnv(w.File)
	}
	return c, nil
}

// Trends calculates the regional interannual trends of each wave in the
// catalog file and saves them as one figure named "trends".
func Trends(catalogFile string, s *figure.Saver) error {
	c, err := ReadCatalog(catalogFile)
	if err != nil {
		return err
	}
	cfg := tropwave.TrendConfig{
		StartYear: c.StartYear,
		EndYear:   c.EndYear,
		LatMin:    c.LatMin,
		LatMax:    c.LatMax,
	}
	names := make([]string, len(c.Wave))
	trends := make([][]*tropwave.Trend, len(c.Wave))
	for i, w := range c.Wave {
		log := logrus.WithField("wave", w.Name)
		f, err := tropwave.ReadField(w.File, w.Variable)
		if err != nil {
			return err
		}
		t, err := tropwave.InterannualTrends(f, cfg)
		if err != nil {
			return err
		}
		for _, r := range t {
			log.WithFields(logrus.Fields{
				"region":       r.Region,
				"slope":        r.Slope,
				"p":            r.P,
				"significance": r.Significance(),
			}).Info("interannual trend")
		}
		names[i] = w.Name
		trends[i] = t
	}
	g, err := figure.Trends(names, trends)
	if err != nil {
		return err
	}
	_, err = s.Save(g, "trends")
	return err
}
