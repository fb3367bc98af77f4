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

package ifutil

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/lnashier/viper"
	"github.com/sirupsen/logrus"
	"github.com/spatialmodel/iceforcing"
	"github.com/spatialmodel/iceforcing/science/albedo"
	"github.com/spf13/cast"
	"github.com/spf13/cobra"
)

// expandPath expands environment variables in a file path.
func expandPath(p string) string {
	return os.ExpandEnv(strings.TrimSpace(p))
}

// expandFiles expands environment variables and glob patterns in
// a list of file names and returns the matching files in sorted order.
func expandFiles(name string, patterns []string) ([]string, error) {
	var o []string
	for _, p := range patterns {
		p = expandPath(p)
		if p == "" {
			continue
		}
		m, err := filepath.Glob(p)
		if err != nil {
			return nil, fmt.Errorf("iceforcing: invalid %s pattern %q: %v", name, p, err)
		}
		if len(m) == 0 {
			return nil, fmt.Errorf("iceforcing: no files match %s pattern %q", name, p)
		}
		o = append(o, m...)
	}
	if len(o) == 0 {
		return nil, fmt.Errorf("iceforcing: no %s files specified", name)
	}
	sort.Strings(o)
	return o, nil
}

// DataSetConfig creates a data set configuration from the
// configuration information in cfg.
func DataSetConfig(cfg *viper.Viper) (iceforcing.DataSetConfig, error) {
	var o iceforcing.DataSetConfig
	var err error
	for _, f := range []struct {
		name string
		dst  *[]string
	}{
		{"SeaIceConcentration", &o.SeaIceConcentration},
		{"SeaIceThickness", &o.SeaIceThickness},
		{"SurfaceTemperature", &o.SurfaceTemperature},
		{"CloudFraction", &o.CloudFraction},
	} {
		patterns, err := cast.ToStringSliceE(cfg.Get(f.name))
		if err != nil {
			return o, fmt.Errorf("iceforcing: reading %s: %v", f.name, err)
		}
		if *f.dst, err = expandFiles(f.name, patterns); err != nil {
			return o, err
		}
	}
	o.ConcentrationVariable = cfg.GetString("ConcentrationVariable")
	o.ThicknessVariable = cfg.GetString("ThicknessVariable")
	o.TemperatureVariable = cfg.GetString("TemperatureVariable")
	o.CloudVariable = cfg.GetString("CloudVariable")
	if o.ConcentrationScale, err = cast.ToFloat64E(cfg.Get("ConcentrationScale")); err != nil {
		return o, fmt.Errorf("iceforcing: reading ConcentrationScale: %v", err)
	}
	if o.CloudScale, err = cast.ToFloat64E(cfg.Get("CloudScale")); err != nil {
		return o, fmt.Errorf("iceforcing: reading CloudScale: %v", err)
	}
	return o, nil
}

// beginDate parses the date of the beginning of the first year.
// Dates without a time zone are in UTC.
func beginDate(v interface{}) (time.Time, error) {
	t, err := cast.ToTimeE(v)
	if err != nil {
		return t, fmt.Errorf("iceforcing: invalid BeginDate: %v", err)
	}
	return t.UTC(), nil
}

// Run calculates the radiative forcing in numYears consecutive years
// beginning at begin and writes a report to outputFile.
// If plotFile is not empty, a figure of forcing by year is written to it.
// If energyFile is not empty, the absorbed energy in each grid cell is
// written to it for each year, with "[YEAR]" replaced by the year.
// If log is nil, the logrus standard logger is used.
func Run(cmd *cobra.Command, cfg iceforcing.DataSetConfig, albedoFile, albedoSheet string,
	begin time.Time, numYears int, step, chunkSize float64, outputFile, plotFile, energyFile string,
	log logrus.FieldLogger) error {

	if log == nil {
		log = logrus.StandardLogger()
	}
	if numYears < 1 {
		return fmt.Errorf("iceforcing: NumYears must be at least 1 but is %d", numYears)
	}
	if outputFile == "" {
		return fmt.Errorf(`iceforcing: you need to specify an output file (for example: OutputFile="ice_free.json")`)
	}
	if _, err := os.Stat(filepath.Dir(outputFile)); err != nil {
		return fmt.Errorf("iceforcing: the OutputFile directory doesn't exist: %v", err)
	}

	albedos, err := albedo.Load(albedoFile, albedoSheet)
	if err != nil {
		return err
	}
	log.WithField("file", albedoFile).Info("iceforcing loaded albedos")

	data, err := iceforcing.NewDataSet(cfg, log)
	if err != nil {
		return err
	}
	it := &iceforcing.Integrator{
		Data:      data,
		Albedos:   albedos,
		Step:      step,
		ChunkSize: chunkSize,
		Log:       log,
	}

	starts := make([]time.Time, numYears)
	forcings := make([]float64, numYears)
	for i := range starts {
		starts[i] = begin.AddDate(i, 0, 0)
		f, integral, err := it.RadiativeForcing(starts[i])
		if err != nil {
			return err
		}
		forcings[i] = f.Value()
		if cmd != nil {
			cmd.Printf("%s %g\n", starts[i].Format(time.RFC3339), forcings[i])
		}
		if energyFile != "" {
			path := strings.Replace(energyFile, "[YEAR]", strconv.Itoa(starts[i].Year()), -1)
			if err := iceforcing.WriteIntegral(path, data.Grid, integral); err != nil {
				return err
			}
		}
	}

	r, err := iceforcing.NewReport(starts, forcings)
	if err != nil {
		return err
	}
	if err := r.Write(outputFile); err != nil {
		return err
	}
	log.WithFields(logrus.Fields{
		"file": outputFile,
		"mean": r.Mean,
		"std":  r.Std,
	}).Info("iceforcing wrote report")
	if plotFile != "" {
		if err := r.Plot(plotFile); err != nil {
			return err
		}
	}
	return nil
}
