/*
Copyright © 2019 the iceforcing authors.
This file is part of iceforcing.

iceforcing is free software: you can redistribute it and/or modify
it under the terms of the GNU General Public License as published by
the Free Software Foundation, either version 3 of the License, or
(at your option) any later version.

iceforcing is distributed in the hope that it will be useful,
but WITHOUT ANY WARRANTY; without even the implied warranty of
MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
GNU General Public License for more details.

You should have received a copy of the GNU General Public License
along with iceforcing.  If not, see <http://www.gnu.org/licenses/>.
*/

// Package ifutil contains the command-line interface for iceforcing.
package ifutil

import (
	"fmt"

	"github.com/lnashier/viper"
	"github.com/sirupsen/logrus"
	"github.com/spatialmodel/iceforcing"
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
	// Options are the configuration options available to iceforcing.
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
			name: "SeaIceConcentration",
			usage: `
              SeaIceConcentration specifies the netCDF file(s) holding
              sea ice concentration. Glob patterns such as
              'sic_day_GFDL-CM3_rcp45_r1i1p1_20[56]*' are expanded.`,
			defaultVal: []string{"sic_*.nc"},
			flagsets:   []*pflag.FlagSet{runCmd.Flags()},
		},
		{
			name: "SeaIceThickness",
			usage: `
              SeaIceThickness specifies the netCDF file(s) holding
              sea ice thickness [m].`,
			defaultVal: []string{"sit_*.nc"},
			flagsets:   []*pflag.FlagSet{runCmd.Flags()},
		},
		{
			name: "SurfaceTemperature",
			usage: `
              SurfaceTemperature specifies the netCDF file(s) holding
              near-surface air temperature [K].`,
			defaultVal: []string{"tas_*.nc"},
			flagsets:   []*pflag.FlagSet{runCmd.Flags()},
		},
		{
			name: "CloudFraction",
			usage: `
              CloudFraction specifies the netCDF file(s) holding
              total cloud fraction. The files must cover whole years
              beginning in a leap year; they are averaged into one
              representative four-year cycle.`,
			defaultVal: []string{"tcdc.eatm.gauss.*.nc"},
			flagsets:   []*pflag.FlagSet{runCmd.Flags()},
		},
		{
			name: "ConcentrationVariable",
			usage: `
              ConcentrationVariable is the name of the sea ice concentration
              variable. If empty, it is derived from the file name.`,
			defaultVal: "",
			flagsets:   []*pflag.FlagSet{runCmd.Flags()},
		},
		{
			name: "ThicknessVariable",
			usage: `
              ThicknessVariable is the name of the sea ice thickness
              variable. If empty, it is derived from the file name.`,
			defaultVal: "",
			flagsets:   []*pflag.FlagSet{runCmd.Flags()},
		},
		{
			name: "TemperatureVariable",
			usage: `
              TemperatureVariable is the name of the surface temperature
              variable. If empty, it is derived from the file name.`,
			defaultVal: "",
			flagsets:   []*pflag.FlagSet{runCmd.Flags()},
		},
		{
			name: "CloudVariable",
			usage: `
              CloudVariable is the name of the cloud fraction
              variable. If empty, it is derived from the file name.`,
			defaultVal: "",
			flagsets:   []*pflag.FlagSet{runCmd.Flags()},
		},
		{
			name: "ConcentrationScale",
			usage: `
              ConcentrationScale converts stored sea ice concentration
              values to fractions. The default is for data in percent.`,
			defaultVal: 0.01,
			flagsets:   []*pflag.FlagSet{runCmd.Flags()},
		},
		{
			name: "CloudScale",
			usage: `
              CloudScale converts stored cloud fraction values to
              fractions. The default is for data in percent.`,
			defaultVal: 0.01,
			flagsets:   []*pflag.FlagSet{runCmd.Flags()},
		},
		{
			name: "AlbedoFile",
			usage: `
              AlbedoFile is the CSV or Excel (.xlsx) file holding the
              albedo curves.`,
			defaultVal: "Albedos.csv",
			flagsets:   []*pflag.FlagSet{runCmd.Flags()},
		},
		{
			name: "AlbedoSheet",
			usage: `
              AlbedoSheet is the sheet within AlbedoFile that holds the
              albedo curves, if AlbedoFile is an Excel file. If empty,
              the first sheet is used.`,
			defaultVal: "",
			flagsets:   []*pflag.FlagSet{runCmd.Flags()},
		},
		{
			name: "BeginDate",
			usage: `
              BeginDate is the beginning of the first year to calculate
              radiative forcing for, e.g. "2056-01-01".`,
			shorthand:  "b",
			defaultVal: "2056-01-01",
			flagsets:   []*pflag.FlagSet{runCmd.Flags()},
		},
		{
			name: "NumYears",
			usage: `
              NumYears is the number of consecutive years to calculate
              radiative forcing for.`,
			shorthand:  "n",
			defaultVal: 10,
			flagsets:   []*pflag.FlagSet{runCmd.Flags()},
		},
		{
			name: "TimeStep",
			usage: `
              TimeStep is the integration time step in seconds.`,
			defaultVal: 150.0,
			flagsets:   []*pflag.FlagSet{runCmd.Flags()},
		},
		{
			name: "ChunkSize",
			usage: `
              ChunkSize is the length in seconds of the time window that
              is integrated at once. Larger values use more memory.`,
			defaultVal: iceforcing.DefaultChunkSize,
			flagsets:   []*pflag.FlagSet{runCmd.Flags()},
		},
		{
			name: "OutputFile",
			usage: `
              OutputFile is the path where the report should be written.
              Files ending in '.toml' are written in TOML format; all
              others are written in JSON format.`,
			shorthand:  "o",
			defaultVal: "ice_free.json",
			flagsets:   []*pflag.FlagSet{runCmd.Flags()},
		},
		{
			name: "PlotFile",
			usage: `
              PlotFile is the path where a figure of forcing by year should
              be written, e.g. 'forcing.png'. If empty, no figure is created.`,
			defaultVal: "",
			flagsets:   []*pflag.FlagSet{runCmd.Flags()},
		},
		{
			name: "EnergyFile",
			usage: `
              EnergyFile is the path where a netCDF file of absorbed solar
              energy in each grid cell should be written for each year.
              [YEAR] is replaced with the year. If empty, no files are created.`,
			defaultVal: "",
			flagsets:   []*pflag.FlagSet{runCmd.Flags()},
		},
		{
			name: "LogLevel",
			usage: `
              LogLevel is the minimum severity of log messages to print:
              one of debug, info, warning, or error.`,
			defaultVal: "info",
			flagsets:   []*pflag.FlagSet{Root.PersistentFlags()},
		},
	}

	Cfg = viper.New()

	// Set the prefix for configuration environment variables.
	Cfg.SetEnvPrefix("ICEFORCING")

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
			default:
				panic("invalid argument type")
			}
			Cfg.BindPFlag(option.name, set.Lookup(option.name))
		}
	}
}

func init() {
	// Link the commands together.
	Root.AddCommand(versionCmd)
	Root.AddCommand(runCmd)
}

// setConfig finds and reads in the configuration file, if there is one,
// and sets the logging level.
func setConfig() error {
	if cfgpath := Cfg.GetString("config"); cfgpath != "" {
		Cfg.SetConfigFile(cfgpath)
		if err := Cfg.ReadInConfig(); err != nil {
			return fmt.Errorf("iceforcing: problem reading configuration file: %v", err)
		}
	}
	level, err := logrus.ParseLevel(Cfg.GetString("LogLevel"))
	if err != nil {
		return fmt.Errorf("iceforcing: invalid LogLevel: %v", err)
	}
	logrus.SetLevel(level)
	return nil
}

// Root is the main command.
var Root = &cobra.Command{
	Use:   "iceforcing",
	Short: "Radiative forcing from Arctic sea ice loss.",
	Long: `iceforcing estimates the radiative forcing from the loss of Arctic sea ice
by combining gridded climate model output (sea ice concentration, sea ice
thickness, surface air temperature and cloud fraction) with surface albedo
curves and the position of the sun, integrated over whole years.

Refer to the subcommand documentation for configuration options and default settings.
Configuration can be changed by using a configuration file (and providing the
path to the file using the --config flag), by using command-line arguments,
or by setting environment variables in the format 'ICEFORCING_var' where 'var' is the
name of the variable to be set. File names may contain environment variables.
Refer to https://github.com/spf13/viper for additional configuration information.`,
	DisableAutoGenTag: true,
	PersistentPreRunE: func(*cobra.Command, []string) error { return setConfig() },
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version number",
	Long:  "version prints the version number of this version of iceforcing.",
	Run: func(cmd *cobra.Command, args []string) {
		cmd.Printf("iceforcing v%s\n", iceforcing.Version)
	},
	DisableAutoGenTag: true,
}

// runCmd is a command that calculates radiative forcing.
var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Calculate radiative forcing.",
	Long: `run calculates the radiative forcing in each of NumYears years
beginning at BeginDate and writes a report with the forcing in each year
and the mean and standard deviation across years.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := DataSetConfig(Cfg)
		if err != nil {
			return err
		}
		begin, err := beginDate(Cfg.Get("BeginDate"))
		if err != nil {
			return err
		}
		return Run(
			cmd,
			cfg,
			expandPath(Cfg.GetString("AlbedoFile")),
			Cfg.GetString("AlbedoSheet"),
			begin,
			Cfg.GetInt("NumYears"),
			Cfg.GetFloat64("TimeStep"),
			Cfg.GetFloat64("ChunkSize"),
			expandPath(Cfg.GetString("OutputFile")),
			expandPath(Cfg.GetString("PlotFile")),
			expandPath(Cfg.GetString("EnergyFile")),
			logrus.StandardLogger(),
		)
	},
	DisableAutoGenTag: true,
}
