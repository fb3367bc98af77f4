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
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/GaryBoone/GoStats/stats"
	"github.com/ctessum/cdf"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/plotutil"
	"gonum.org/v1/plot/vg"
)

// reportTimeFormat is the format of the start dates in reports.
const reportTimeFormat = "2006-01-02T15:04:05"

// YearForcing is the radiative forcing [W/m²] over the year
// beginning at Start.
type YearForcing struct {
	Start   time.Time
	Forcing float64
}

// Report summarizes the radiative forcing over a number of years.
type Report struct {
	Years []YearForcing

	// Mean and Std are the mean and population standard deviation
	// of the annual forcings.
	Mean, Std float64
}

// NewReport creates a report from the start dates of a number of
// years and the forcing [W/m²] in each year.
func NewReport(starts []time.Time, forcings []float64) (*Report, error) {
	if len(starts) != len(forcings) {
		return nil, fmt.Errorf("iceforcing: report has %d years but %d forcings", len(starts), len(forcings))
	}
	if len(starts) == 0 {
		return nil, fmt.Errorf("iceforcing: report has no years")
	}
	r := &Report{
		Years: make([]YearForcing, len(starts)),
		Mean:  stats.StatsMean(forcings),
		Std:   stats.StatsPopulationStandardDeviation(forcings),
	}
	for i, s := range starts {
		r.Years[i] = YearForcing{Start: s, Forcing: forcings[i]}
	}
	return r, nil
}

// flat returns the report as one object keyed by start date,
// plus "mean" and "std".
func (r *Report) flat() map[string]float64 {
	o := make(map[string]float64, len(r.Years)+2)
	for _, y := range r.Years {
		o[y.Start.Format(reportTimeFormat)] = y.Forcing
	}
	o["mean"] = r.Mean
	o["std"] = r.Std
	return o
}

// Encode writes the report to w in JSON format, or in TOML format
// if format is "toml".
func (r *Report) Encode(w io.Writer, format string) error {
	switch strings.ToLower(format) {
	case "toml":
		if err := toml.NewEncoder(w).Encode(r.flat()); err != nil {
			return fmt.Errorf("iceforcing: writing TOML report: %v", err)
		}
	case "json", "":
		e := json.NewEncoder(w)
		e.SetIndent("", "    ")
		if err := e.Encode(r.flat()); err != nil {
			return fmt.Errorf("iceforcing: writing JSON report: %v", err)
		}
	default:
		return fmt.Errorf("iceforcing: unsupported report format %q", format)
	}
	return nil
}

// Write writes the report to a file. The format is TOML if the file
// name ends in ".toml" and JSON otherwise.
func (r *Report) Write(path string) error {
	format := "json"
	if strings.EqualFold(filepath.Ext(path), ".toml") {
		format = "toml"
	}
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("iceforcing: writing report: %v", err)
	}
	if err := r.Encode(f, format); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

// Plot writes a figure of forcing by year to path. The image format
// is determined by the file extension (e.g., ".png" or ".svg").
func (r *Report) Plot(path string) error {
	p := plot.New()
	p.Title.Text = "Radiative forcing from Arctic sea ice"
	p.X.Label.Text = "Year"
	p.Y.Label.Text = "Forcing (W m⁻²)"
	xy := make(plotter.XYs, len(r.Years))
	for i, y := range r.Years {
		xy[i].X = float64(y.Start.Year()) + float64(y.Start.YearDay()-1)/365
		xy[i].Y = y.Forcing
	}
	if err := plotutil.AddLinePoints(p, "forcing", xy); err != nil {
		return fmt.Errorf("iceforcing: plotting report: %v", err)
	}
	mean := plotter.NewFunction(func(float64) float64 { return r.Mean })
	mean.Dashes = []vg.Length{vg.Points(2), vg.Points(2)}
	p.Add(mean)
	p.Legend.Add("mean", mean)
	if err := p.Save(6*vg.Inch, 4*vg.Inch, path); err != nil {
		return fmt.Errorf("iceforcing: saving plot: %v", err)
	}
	return nil
}

// integralFill marks invalid cells in absorbed energy files.
const integralFill = float32(1e20)

// WriteIntegral writes the absorbed solar energy in each cell of g to
// a netCDF file, as the time integral of the absorbed fraction of
// top-of-atmosphere radiation [s] and as absorbed energy per unit
// area [J/m²].
func WriteIntegral(path string, g *Grid, integral *Integral) error {
	if len(integral.Energy) != g.Len() {
		return &GridMismatchError{Msg: fmt.Sprintf("integral has %d cells but the grid has %d", len(integral.Energy), g.Len())}
	}
	dims := []string{"y", "x"}
	h := cdf.NewHeader(dims, []int{g.Ny(), g.Nx()})
	h.AddAttribute("", "comment", "solar energy absorbed by the Arctic surface")
	h.AddAttribute("", "start", integral.Start.Format(reportTimeFormat))
	h.AddAttribute("", "end", integral.End.Format(reportTimeFormat))
	h.AddAttribute("", "seconds", []float64{integral.Seconds})
	h.AddAttribute("", "solar_constant", []float64{SolarConstant})

	vars := []struct {
		name, description, units string
		data                     []float32
	}{
		{"lat", "latitude", "degrees_north", make([]float32, g.Len())},
		{"lon", "longitude", "degrees_east", make([]float32, g.Len())},
		{"absorbed_fraction", "time integral of the absorbed fraction of top-of-atmosphere solar radiation", "s", make([]float32, g.Len())},
		{"absorbed_energy", "absorbed solar energy per unit area", "J m-2", make([]float32, g.Len())},
	}
	for i := range g.Lat.Elements {
		vars[0].data[i] = float32(g.Lat.Elements[i])
		vars[1].data[i] = float32(g.Lon.Elements[i])
		if integral.Invalid[i] {
			vars[2].data[i] = integralFill
			vars[3].data[i] = integralFill
			continue
		}
		vars[2].data[i] = float32(integral.Energy[i])
		vars[3].data[i] = float32(integral.Energy[i] * SolarConstant)
	}
	for _, v := range vars {
		h.AddVariable(v.name, dims, []float32{0})
		h.AddAttribute(v.name, "long_name", v.description)
		h.AddAttribute(v.name, "units", v.units)
	}
	for _, v := range vars[2:] {
		h.AddAttribute(v.name, "_FillValue", []float32{integralFill})
	}
	h.Define()

	ff, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("iceforcing: writing absorbed energy: %v", err)
	}
	f, err := cdf.Create(ff, h) // writes the header to ff
	if err != nil {
		ff.Close()
		return fmt.Errorf("iceforcing: writing absorbed energy: %v", err)
	}
	for _, v := range vars {
		end := f.Header.Lengths(v.name)
		w := f.Writer(v.name, make([]int, len(end)), end)
		if _, err := w.Write(v.data); err != nil {
			ff.Close()
			return fmt.Errorf("iceforcing: writing variable %s: %v", v.name, err)
		}
	}
	return ff.Close()
}
