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
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/lnashier/viper"
	"github.com/sirupsen/logrus"
	"github.com/spatialmodel/tropwave"
	"github.com/spatialmodel/tropwave/figure"
	"github.com/spf13/cast"
)

// checkOutputVars removes line breaks from the output variable
// expressions and expands any environment variables in them.
func checkOutputVars(vars map[string]string) map[string]string {
	o := make(map[string]string, len(vars))
	for k, v := range vars {
		v = strings.Replace(v, "\r\n", " ", -1)
		v = strings.Replace(v, "\n", " ", -1)
		o[os.ExpandEnv(k)] = os.ExpandEnv(v)
	}
	return o
}

// checkOutputFile makes sure that the output file is specified and its
// directory exists, and expand any environment variables.
func checkOutputFile(f string) (string, error) {
	if f == "" {
		return "", fmt.Errorf(`you need to specify an output file configuration variable (for example: Budget.OutputFile="budget.nc")`)
	}
	f = os.ExpandEnv(f)
	outdir := filepath.Dir(f)
	if _, err := os.Stat(outdir); err != nil {
		return f, fmt.Errorf("tropwave: the OutputFile directory doesn't exist: %v", err)
	}
	return f, nil
}

// toFloatSliceE converts a configuration value to a float slice. The
// value may be a slice read from a configuration file or a JSON array
// if it was set from a command line argument.
func toFloatSliceE(s interface{}) ([]float64, error) {
	switch v := s.(type) {
	case []float64:
		return v, nil
	case []interface{}:
		o := make([]float64, len(v))
		for i, val := range v {
			f, err := cast.ToFloat64E(val)
			if err != nil {
				return nil, err
			}
			o[i] = f
		}
		return o, nil
	case []string:
		o := make([]float64, len(v))
		for i, val := range v {
			f, err := cast.ToFloat64E(strings.TrimSpace(val))
			if err != nil {
				return nil, err
			}
			o[i] = f
		}
		return o, nil
	case string:
		var o []float64
		if err := json.Unmarshal([]byte(v), &o); err != nil {
			return nil, err
		}
		return o, nil
	default:
		return nil, fmt.Errorf("invalid type for float slice: %#v", s)
	}
}

// GetStringMapString returns a map[string]string from a viper configuration,
// accounting for the fact that it might be a json object if it was set
// from a command line argument.
func GetStringMapString(varName string, cfg *viper.Viper) (map[string]string, error) {
	i := cfg.Get(varName)
	switch v := i.(type) {
	case nil:
		return map[string]string{}, nil
	case map[string]string:
		return v, nil
	case map[string]interface{}:
		return cast.ToStringMapStringE(v)
	case string:
		o := make(map[string]string)
		if strings.TrimSpace(v) == "" {
			return o, nil
		}
		d := json.NewDecoder(bytes.NewBufferString(v))
		if err := d.Decode(&o); err != nil {
			return nil, fmt.Errorf("tropwave: invalid value for %s: %v", varName, err)
		}
		return o, nil
	default:
		return nil, fmt.Errorf("tropwave: invalid type for variable %s: %#v", varName, i)
	}
}

// parseModes converts wave mode names into wave modes.
func parseModes(names []string) ([]tropwave.WaveMode, error) {
	if len(names) == 0 {
		return nil, fmt.Errorf("tropwave: no wave modes specified in Dispersion.Modes")
	}
	o := make([]tropwave.WaveMode, len(names))
	for i, n := range names {
		m, err := tropwave.ParseWaveMode(n)
		if err != nil {
			return nil, err
		}
		o[i] = m
	}
	return o, nil
}

// saver returns a figure saver using the Figure configuration.
func saver() *figure.Saver {
	return &figure.Saver{
		Folder: os.ExpandEnv(Cfg.GetString("Figure.Folder")),
		Format: Cfg.GetString("Figure.Format"),
		DPI:    Cfg.GetInt("Figure.DPI"),
		Log:    logrus.StandardLogger(),
	}
}
