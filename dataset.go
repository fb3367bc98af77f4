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

package iceforcing

import (
	"fmt"
	"time"

	"github.com/ctessum/sparse"
	"github.com/sirupsen/logrus"
	"github.com/spatialmodel/iceforcing/science/solar"
)

// DataSetConfig specifies the input files for a DataSet.
type DataSetConfig struct {
	// SeaIceConcentration, SeaIceThickness, SurfaceTemperature and
	// CloudFraction are the netCDF files holding each variable.
	SeaIceConcentration, SeaIceThickness, SurfaceTemperature, CloudFraction []string

	// The *Variable fields hold the names of the variables in the files.
	// If a name is empty it is derived from the file name.
	ConcentrationVariable, ThicknessVariable, TemperatureVariable, CloudVariable string

	// ConcentrationScale and CloudScale convert the stored sea ice
	// concentration and cloud fraction to fractions between 0 and 1,
	// e.g. 0.01 for data stored in percent. Zero means DefaultFractionScale.
	ConcentrationScale, CloudScale float64
}

// DefaultFractionScale converts values stored in percent to fractions.
const DefaultFractionScale = 0.01

func fractionScale(scale float64) float64 {
	if scale == 0 {
		return DefaultFractionScale
	}
	return scale
}

// DataSet holds the climate fields needed to calculate the solar energy
// absorbed by the Arctic surface, all on the same grid and bound to the
// same reference date.
type DataSet struct {
	Concentration, Thickness, Temperature, Cloud Field

	// Start is the reference date. Query offsets are relative to Start.
	Start time.Time

	Grid  *Grid
	Areas *sparse.DenseArray

	// SolarAltitude returns the solar altitude [degrees] in each
	// cell of g at time t. If nil, solar.Altitude is used.
	SolarAltitude func(g *Grid, t time.Time) []float64
}

// NewDataSet loads the files specified by cfg and assembles them into
// a DataSet.
func NewDataSet(cfg DataSetConfig, log logrus.FieldLogger) (*DataSet, error) {
	if log == nil {
		log = logrus.StandardLogger()
	}
	load := func(files []string, key string, scale float64) (*Series, error) {
		s, err := LoadSeries(files, key, scale)
		if err != nil {
			return nil, err
		}
		log.WithFields(logrus.Fields{
			"variable": s.Key,
			"files":    len(files),
			"samples":  len(s.Times),
			"cells":    s.Grid.Len(),
			"start":    s.Start,
			"end":      s.End(),
		}).Info("iceforcing loaded data")
		return s, nil
	}
	sic, err := load(cfg.SeaIceConcentration, cfg.ConcentrationVariable, fractionScale(cfg.ConcentrationScale))
	if err != nil {
		return nil, err
	}
	sit, err := load(cfg.SeaIceThickness, cfg.ThicknessVariable, 1)
	if err != nil {
		return nil, err
	}
	tas, err := load(cfg.SurfaceTemperature, cfg.TemperatureVariable, 1)
	if err != nil {
		return nil, err
	}
	clt, err := load(cfg.CloudFraction, cfg.CloudVariable, fractionScale(cfg.CloudScale))
	if err != nil {
		return nil, err
	}
	return AssembleDataSet(sic, sit, tas, clt, log)
}

// AssembleDataSet combines sea ice concentration, sea ice thickness,
// surface temperature and cloud fraction series into a DataSet.
// Unless it is already a canonical cycle, the cloud series is
// collapsed into one with NewCanonicalCycle. The reference date is
// the latest start date of the other three series, and all series are
// regridded to the grid of the series with the fewest cells.
func AssembleDataSet(sic, sit, tas, clt *Series, log logrus.FieldLogger) (*DataSet, error) {
	if log == nil {
		log = logrus.StandardLogger()
	}
	if !clt.Cyclic {
		var err error
		if clt, err = NewCanonicalCycle(clt); err != nil {
			return nil, err
		}
		log.WithFields(logrus.Fields{
			"variable": clt.Key,
			"samples":  len(clt.Times),
			"start":    clt.Start,
		}).Info("iceforcing created canonical cycle")
	}

	d := new(DataSet)
	for _, s := range []*Series{sic, sit, tas} {
		if s.Start.After(d.Start) {
			d.Start = s.Start
		}
	}

	d.Grid = sic.Grid
	for _, s := range []*Series{sit, tas, clt} {
		if s.Grid.Len() < d.Grid.Len() {
			d.Grid = s.Grid
		}
	}
	log.WithFields(logrus.Fields{
		"cells": d.Grid.Len(),
		"ny":    d.Grid.Ny(),
		"nx":    d.Grid.Nx(),
	}).Info("iceforcing setting uniform grid")

	series := []*Series{sic, sit, tas, clt}
	for i, s := range series {
		var err error
		if series[i], err = s.Regrid(d.Grid); err != nil {
			return nil, err
		}
	}

	fields := []*Field{&d.Concentration, &d.Thickness, &d.Temperature}
	for i, f := range fields {
		cf, err := NewClimateField(series[i], d.Start)
		if err != nil {
			return nil, err
		}
		*f = cf
	}
	cf, err := NewCyclicField(series[3], d.Start)
	if err != nil {
		return nil, err
	}
	d.Cloud = cf

	if d.Areas, err = GridAreas(d.Grid); err != nil {
		return nil, err
	}
	return d, nil
}

// Zeniths returns the solar zenith angle [degrees] in each grid cell at
// t seconds after the start of the data set.
func (d *DataSet) Zeniths(t float64) []float64 {
	date := d.Start.Add(seconds(t))
	var alt []float64
	if d.SolarAltitude != nil {
		alt = d.SolarAltitude(d.Grid, date)
	} else {
		alt = solar.Altitude(d.Grid.Lat.Elements, d.Grid.Lon.Elements, date)
	}
	z := make([]float64, len(alt))
	for i, a := range alt {
		z[i] = 90 - a
	}
	return z
}

// Mask returns the combined validity mask of the sea ice
// concentration field.
func (d *DataSet) Mask() []bool {
	return d.Concentration.Series().Mask()
}

// CheckAlignment checks that all fields refer to the same date at
// t seconds after the start of the data set. Cyclic fields only
// need to agree on the month, day and time of day.
func (d *DataSet) CheckAlignment(t float64) error {
	ref := d.Concentration.Series().Key
	want, err := d.Concentration.Date(t)
	if err != nil {
		return err
	}
	for _, f := range []Field{d.Thickness, d.Temperature, d.Cloud} {
		got, err := f.Date(t)
		if err != nil {
			return err
		}
		var ok bool
		if f.Series().Cyclic {
			ok = got.Month() == want.Month() && got.Day() == want.Day() &&
				got.Hour() == want.Hour() && got.Minute() == want.Minute() &&
				got.Second() == want.Second()
		} else {
			ok = got.Equal(want)
		}
		if !ok {
			return &TimeAlignmentError{Offset: t, Reference: ref, Field: f.Series().Key, Want: want, Got: got}
		}
	}
	return nil
}

// fields returns the data set's fields at offset t.
func (d *DataSet) fields(t float64) (ice, thickness, temperature, cloud Sample, err error) {
	if ice, err = d.Concentration.Data(t); err != nil {
		return
	}
	if thickness, err = d.Thickness.Data(t); err != nil {
		return
	}
	if temperature, err = d.Temperature.Data(t); err != nil {
		return
	}
	cloud, err = d.Cloud.Data(t)
	if err != nil {
		err = fmt.Errorf("iceforcing: cloud fraction: %w", err)
	}
	return
}
