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

	"github.com/lnashier/viper"
	"github.com/sirupsen/logrus"
	"github.com/spatialmodel/tropwave"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

// Cfg holds configuration information.
var Cfg *viper.Viper

var options []struct {
	name, usage, shorthand string
	defaultVal             interface{}
	flagsets               []*pflag.FlagSet
}

func init() {
	figureSets := []*pflag.FlagSet{budgetCmd.Flags(), dispersionCmd.Flags(), cckwCmd.Flags(), trendCmd.Flags()}

	// Options are the configuration options available to tropwave.
	options = []struct {
		name, usage, shorthand string
		defaultVal             interface{}
		flagsets               []*pflag.FlagSet
	}{
		{
			name: "config",
			usage: `
              config specifies the configuration file location.`,
			defaultVal: "",
			flagsets:   []*pflag.FlagSet{Root.PersistentFlags()},
		},
		{
			name: "LogLevel",
			usage: `
              LogLevel is the minimum severity of log messages: one of
              debug, info, warning or error.`,
			defaultVal: "info",
			flagsets:   []*pflag.FlagSet{Root.PersistentFlags()},
		},
		{
			name: "Budget.TemperatureFile",
			usage: `
              Budget.TemperatureFile is the path to the NetCDF file holding
              air temperature (variable "ta", K) on pressure levels.
              The path can include environment variables.`,
			defaultVal: "",
			flagsets:   []*pflag.FlagSet{budgetCmd.Flags()},
		},
		{
			name: "Budget.HeightFile",
			usage: `
              Budget.HeightFile is the path to the NetCDF file holding
              geopotential height (variable "zg", m).`,
			defaultVal: "",
			flagsets:   []*pflag.FlagSet{budgetCmd.Flags()},
		},
		{
			name: "Budget.UWindFile",
			usage: `
              Budget.UWindFile is the path to the NetCDF file holding
              eastward wind (variable "ua", m/s).`,
			defaultVal: "",
			flagsets:   []*pflag.FlagSet{budgetCmd.Flags()},
		},
		{
			name: "Budget.VWindFile",
			usage: `
              Budget.VWindFile is the path to the NetCDF file holding
              northward wind (variable "va", m/s).`,
			defaultVal: "",
			flagsets:   []*pflag.FlagSet{budgetCmd.Flags()},
		},
		{
			name: "Budget.OmegaFile",
			usage: `
              Budget.OmegaFile is the path to the NetCDF file holding
              pressure vertical velocity (variable "wap", Pa/s).`,
			defaultVal: "",
			flagsets:   []*pflag.FlagSet{budgetCmd.Flags()},
		},
		{
			name: "Budget.HumidityFile",
			usage: `
              Budget.HumidityFile is the path to the NetCDF file holding
              specific humidity (variable "hus", kg/kg). It is only
              needed when Budget.Energy is MSE.`,
			defaultVal: "",
			flagsets:   []*pflag.FlagSet{budgetCmd.Flags()},
		},
		{
			name: "Budget.Energy",
			usage: `
              Budget.Energy is the static energy the budget is calculated
              for: DSE, MSE or MSE-saturated.`,
			defaultVal: "DSE",
			flagsets:   []*pflag.FlagSet{budgetCmd.Flags()},
		},
		{
			name: "Budget.LatMin",
			usage: `
              Budget.LatMin is the southern edge of the latitude band [degrees].`,
			defaultVal: tropwave.DefaultLatMin,
			flagsets:   []*pflag.FlagSet{budgetCmd.Flags()},
		},
		{
			name: "Budget.LatMax",
			usage: `
              Budget.LatMax is the northern edge of the latitude band [degrees].`,
			defaultVal: tropwave.DefaultLatMax,
			flagsets:   []*pflag.FlagSet{budgetCmd.Flags()},
		},
		{
			name: "Budget.OutputFile",
			usage: `
              Budget.OutputFile is the path of the NetCDF file the budget is
              written to. The directory must already exist.`,
			defaultVal: "budget.nc",
			flagsets:   []*pflag.FlagSet{budgetCmd.Flags()},
		},
		{
			name: "Budget.OutputVariables",
			usage: `
              Budget.OutputVariables specifies additional variables to
              calculate from the budget terms and write to the output
              file, as a map of variable names to expressions, for example
              {"advection": "u*ds_dx + v*ds_dy + omega*ds_dp"}.`,
			defaultVal: map[string]string{},
			flagsets:   []*pflag.FlagSet{budgetCmd.Flags()},
		},
		{
			name: "Budget.PlotVariable",
			usage: `
              Budget.PlotVariable is the budget variable drawn as a map.
              If empty, no map is drawn.`,
			defaultVal: "Q",
			flagsets:   []*pflag.FlagSet{budgetCmd.Flags()},
		},
		{
			name: "Budget.PlotTime",
			usage: `
              Budget.PlotTime is the time index of the budget map.`,
			defaultVal: 0,
			flagsets:   []*pflag.FlagSet{budgetCmd.Flags()},
		},
		{
			name: "Budget.PlotLevel",
			usage: `
              Budget.PlotLevel is the pressure level index of the budget map.`,
			defaultVal: 0,
			flagsets:   []*pflag.FlagSet{budgetCmd.Flags()},
		},
		{
			name: "Budget.PlotColors",
			usage: `
              Budget.PlotColors is a newline-separated list of colors
              (names, "r,g,b" with components between 0 and 1, or
              "#RRGGBB") for the budget map, from the highest value to
              the lowest. If empty, a blue-red map is used.`,
			defaultVal: "",
			flagsets:   []*pflag.FlagSet{budgetCmd.Flags()},
		},
		{
			name: "Dispersion.Modes",
			usage: `
              Dispersion.Modes are the wave modes to draw: any of Kelvin,
              MRG, EIG, WIG and ER.`,
			defaultVal: []string{"Kelvin", "MRG", "EIG", "WIG", "ER"},
			flagsets:   []*pflag.FlagSet{dispersionCmd.Flags()},
		},
		{
			name: "Dispersion.EquivalentDepths",
			usage: `
              Dispersion.EquivalentDepths are the equivalent depths [m]
              to draw each mode for.`,
			defaultVal: []float64{12, 25, 50},
			flagsets:   []*pflag.FlagSet{dispersionCmd.Flags()},
		},
		{
			name: "Dispersion.Latitude",
			usage: `
              Dispersion.Latitude is the reference latitude of the
              beta-plane [degrees].`,
			defaultVal: 0.0,
			flagsets:   []*pflag.FlagSet{dispersionCmd.Flags()},
		},
		{
			name: "Dispersion.MaxWavenumber",
			usage: `
              Dispersion.MaxWavenumber is the largest planetary wavenumber
              the curves are calculated for.`,
			defaultVal: tropwave.DefaultMaxWavenumber,
			flagsets:   []*pflag.FlagSet{dispersionCmd.Flags()},
		},
		{
			name: "Dispersion.NumWavenumbers",
			usage: `
              Dispersion.NumWavenumbers is the number of wavenumbers of
              each curve.`,
			defaultVal: tropwave.DefaultNumWavenumbers,
			flagsets:   []*pflag.FlagSet{dispersionCmd.Flags()},
		},
		{
			name: "Dispersion.N",
			usage: `
              Dispersion.N is the meridional mode number of the
              inertio-gravity and Rossby waves.`,
			defaultVal: 1,
			flagsets:   []*pflag.FlagSet{dispersionCmd.Flags()},
		},
		{
			name: "Dispersion.MinPlotWavenumber",
			usage: `
              Dispersion.MinPlotWavenumber is the left edge of the figure.`,
			defaultVal: -20.0,
			flagsets:   []*pflag.FlagSet{dispersionCmd.Flags()},
		},
		{
			name: "Dispersion.MaxPlotWavenumber",
			usage: `
              Dispersion.MaxPlotWavenumber is the right edge of the figure.`,
			defaultVal: 20.0,
			flagsets:   []*pflag.FlagSet{dispersionCmd.Flags()},
		},
		{
			name: "CCKW.EquivalentDepths",
			usage: `
              CCKW.EquivalentDepths are the equivalent depths [m] of the
              Kelvin wave filter envelope.`,
			defaultVal: tropwave.DefaultEquivalentDepths(),
			flagsets:   []*pflag.FlagSet{cckwCmd.Flags()},
		},
		{
			name: "CCKW.MaxFrequencies",
			usage: `
              CCKW.MaxFrequencies are the upper frequency bounds [cycles/day]
              of the Kelvin wave filter envelope.`,
			defaultVal: tropwave.DefaultMaxFrequencies(),
			flagsets:   []*pflag.FlagSet{cckwCmd.Flags()},
		},
		{
			name: "Trend.Catalog",
			usage: `
              Trend.Catalog is the path to a TOML file listing the filtered
              wave fields to calculate interannual trends for.`,
			defaultVal: "",
			flagsets:   []*pflag.FlagSet{trendCmd.Flags()},
		},
		{
			name: "Figure.Folder",
			usage: `
              Figure.Folder is the directory figures are saved in. It is
              created if it doesn't exist. If empty, the current
              directory is used.`,
			defaultVal: "",
			flagsets:   figureSets,
		},
		{
			name: "Figure.Format",
			usage: `
              Figure.Format is the file format of figures: pdf, png, jpg,
              tiff, svg or eps.`,
			defaultVal: "pdf",
			flagsets:   figureSets,
		},
		{
			name: "Figure.DPI",
			usage: `
              Figure.DPI is the resolution of raster figures.`,
			defaultVal: 600,
			flagsets:   figureSets,
		},
	}

	Cfg = viper.New()

	// Set the prefix for configuration environment variables.
	Cfg.SetEnvPrefix("TROPWAVE")

	for _, option := range options {
		for i, set := range option.flagsets {
			if i != 0 { // We don't want to create the same flag twice.
				set.AddFlag(option.flagsets[0].Lookup(option.name))
				continue
			}
			switch option.defaultVal.(type) {
			case string:
				if option.shorthand == "" {
					set.String(option.name, option.defaultVal.(string), option.usage)
				} else {
					set.StringP(option.name, option.shorthand, option.defaultVal.(string), option.usage)
				}
			case []string:
				if option.shorthand == "" {
					set.StringSlice(option.name, option.defaultVal.([]string), option.usage)
				} else {
					set.StringSliceP(option.name, option.shorthand, option.defaultVal.([]string), option.usage)
				}
			case int:
				if option.shorthand == "" {
					set.Int(option.name, option.defaultVal.(int), option.usage)
				} else {
					set.IntP(option.name, option.shorthand, option.defaultVal.(int), option.usage)
				}
			case float64:
				if option.shorthand == "" {
					set.Float64(option.name, option.defaultVal.(float64), option.usage)
				} else {
					set.Float64P(option.name, option.shorthand, option.defaultVal.(float64), option.usage)
				}
			case []float64, map[string]string:
				b := bytes.NewBuffer(nil)
				e := json.NewEncoder(b)
				e.Encode(option.defaultVal)
				s := string(b.Bytes())
				if option.shorthand == "" {
					set.String(option.name, s, option.usage)
				} else {
					set.StringP(option.name, option.shorthand, s, option.usage)
				}
			default:
				panic("invalid argument type")
			}
			Cfg.BindPFlag(option.name, set.Lookup(option.name))
		}
	}
}

// setConfig reads the configuration file, if one is specified, and
// configures logging.
func setConfig() error {
	if cfgpath := Cfg.GetString("config"); cfgpath != "" {
		Cfg.SetConfigFile(os.ExpandEnv(cfgpath))
		if err := Cfg.ReadInConfig(); err != nil {
			return fmt.Errorf("tropwave: problem reading configuration file: %v", err)
		}
	}
	level, err := logrus.ParseLevel(Cfg.GetString("LogLevel"))
	if err != nil {
		return fmt.Errorf("tropwave: invalid LogLevel: %v", err)
	}
	logrus.SetLevel(level)
	logrus.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	return nil
}

// Root is the main command.
var Root = &cobra.Command{
	Use:   "tropwave",
	Short: "Diagnostics of tropical waves.",
	Long: `tropwave calculates energy budgets of tropical atmospheric fields,
dispersion curves of equatorially trapped waves, the convectively coupled
Kelvin wave filter envelope and interannual trends of wave activity.
Use the subcommands specified below to access this functionality.

Configuration can be changed by using a configuration file (and providing the
path to the file using the --config flag), by using command-line arguments,
or by setting environment variables in the format 'TROPWAVE_var' where 'var' is the
name of the variable to be set. File paths are allowed to contain environment
variables.
Refer to https://github.com/spf13/viper for additional configuration information.`,
	DisableAutoGenTag: true,
	PersistentPreRunE: func(*cobra.Command, []string) error { return setConfig() },
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version number",
	Long:  "version prints the version number of this version of tropwave.",
	Run: func(cmd *cobra.Command, args []string) {
		cmd.Printf("tropwave v%s\n", tropwave.Version)
	},
	DisableAutoGenTag: true,
}

// budgetCmd calculates a static energy budget.
var budgetCmd = &cobra.Command{
	Use:   "budget",
	Short: "Calculate a static energy budget",
	Long: `budget calculates the terms of the static energy budget of the
tropical atmosphere from daily pressure-level fields, writes them to a
NetCDF file and draws a map of one of them.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		kind, err := tropwave.ParseEnergyKind(Cfg.GetString("Budget.Energy"))
		if err != nil {
			return err
		}
		outputFile, err := checkOutputFile(Cfg.GetString("Budget.OutputFile"))
		if err != nil {
			return err
		}
		outputVars, err := GetStringMapString("Budget.OutputVariables", Cfg)
		if err != nil {
			return err
		}
		c := &tropwave.BudgetConfig{
			TemperatureFile: os.ExpandEnv(Cfg.GetString("Budget.TemperatureFile")),
			HeightFile:      os.ExpandEnv(Cfg.GetString("Budget.HeightFile")),
			UWindFile:       os.ExpandEnv(Cfg.GetString("Budget.UWindFile")),
			VWindFile:       os.ExpandEnv(Cfg.GetString("Budget.VWindFile")),
			OmegaFile:       os.ExpandEnv(Cfg.GetString("Budget.OmegaFile")),
			HumidityFile:    os.ExpandEnv(Cfg.GetString("Budget.HumidityFile")),
			Energy:          kind,
			LatMin:          Cfg.GetFloat64("Budget.LatMin"),
			LatMax:          Cfg.GetFloat64("Budget.LatMax"),
		}
		return Budget(c, outputFile, checkOutputVars(outputVars),
			Cfg.GetString("Budget.PlotVariable"),
			Cfg.GetInt("Budget.PlotTime"), Cfg.GetInt("Budget.PlotLevel"),
			Cfg.GetString("Budget.PlotColors"), saver())
	},
	DisableAutoGenTag: true,
}

// dispersionCmd draws dispersion curves.
var dispersionCmd = &cobra.Command{
	Use:   "dispersion",
	Short: "Draw dispersion curves of equatorial waves",
	Long: `dispersion calculates the dispersion curves of the specified
equatorial wave modes for each of the specified equivalent depths and
draws them in one figure.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		modes, err := parseModes(Cfg.GetStringSlice("Dispersion.Modes"))
		if err != nil {
			return err
		}
		depths, err := toFloatSliceE(Cfg.Get("Dispersion.EquivalentDepths"))
		if err != nil {
			return fmt.Errorf("tropwave: invalid Dispersion.EquivalentDepths: %v", err)
		}
		return Dispersion(modes, depths, tropwave.DispersionConfig{
			Latitude:       Cfg.GetFloat64("Dispersion.Latitude"),
			MaxWavenumber:  Cfg.GetFloat64("Dispersion.MaxWavenumber"),
			NumWavenumbers: Cfg.GetInt("Dispersion.NumWavenumbers"),
			N:              Cfg.GetInt("Dispersion.N"),
		},
			Cfg.GetFloat64("Dispersion.MinPlotWavenumber"),
			Cfg.GetFloat64("Dispersion.MaxPlotWavenumber"),
			saver())
	},
	DisableAutoGenTag: true,
}

// cckwCmd draws the Kelvin wave filter envelope.
var cckwCmd = &cobra.Command{
	Use:   "cckw",
	Short: "Draw the convectively coupled Kelvin wave envelope",
	Long: `cckw draws the wavenumber-frequency envelope used to filter
convectively coupled Kelvin waves, together with reference period lines
and the Kelvin wave dispersion line of each equivalent depth.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		he, err := toFloatSliceE(Cfg.Get("CCKW.EquivalentDepths"))
		if err != nil {
			return fmt.Errorf("tropwave: invalid CCKW.EquivalentDepths: %v", err)
		}
		fmax, err := toFloatSliceE(Cfg.Get("CCKW.MaxFrequencies"))
		if err != nil {
			return fmt.Errorf("tropwave: invalid CCKW.MaxFrequencies: %v", err)
		}
		return CCKW(he, fmax, saver())
	},
	DisableAutoGenTag: true,
}

// trendCmd calculates interannual trends of wave activity.
var trendCmd = &cobra.Command{
	Use:   "trend",
	Short: "Calculate interannual trends of wave activity",
	Long: `trend calculates, for each wave listed in the catalog file, the
yearly standard deviation of the filtered wave field averaged over each
tropical region, fits a linear trend to it and draws the results.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		catalog := os.ExpandEnv(Cfg.GetString("Trend.Catalog"))
		if catalog == "" {
			return fmt.Errorf("tropwave: you need to specify a Trend.Catalog file")
		}
		return Trends(catalog, saver())
	},
	DisableAutoGenTag: true,
}

func init() {
	Root.AddCommand(versionCmd)
	Root.AddCommand(budgetCmd)
	Root.AddCommand(dispersionCmd)
	Root.AddCommand(cckwCmd)
	Root.AddCommand(trendCmd)
}
