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
	"math"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/ctessum/cdf"
	"github.com/ctessum/sparse"
)

// VariableKey returns the name of the variable stored in a file,
// as implied by the file name: the text before the first underscore
// (e.g., "sic" for "sic_OImon_CCSM4_rcp85_r1i1p1_200601-210012.nc"),
// or the text before the first period when that text ends in "nc"
// (e.g., "tcdc" for "tcdc.eatm.gauss.1980.nc").
func VariableKey(path string) string {
	name := filepath.Base(path)
	key := strings.SplitN(name, "_", 2)[0]
	if strings.HasSuffix(key, "nc") {
		key = strings.SplitN(name, ".", 2)[0]
	}
	return key
}

// Names of the coordinate variables, in order of preference.
var (
	latNames  = []string{"lat", "latitude"}
	lonNames  = []string{"lon", "longitude"}
	timeNames = []string{"time"}
)

// seriesPart holds the data read from one file of a multi-file series.
type seriesPart struct {
	file            string
	units, longName string
	grid            *Grid
	dates           []time.Time
	samples         []Sample
}

// LoadSeries reads variable key from one or more classic netCDF
// files and returns the Arctic portion of its time series.
// If key is empty, it is derived from the name of the first file
// using VariableKey. The files are concatenated in order of their
// first time stamps and must all be on the same grid.
// Unpacked values are multiplied by scale.
func LoadSeries(files []string, key string, scale float64) (*Series, error) {
	if len(files) == 0 {
		return nil, formatErrorf("", "no input files")
	}
	if key == "" {
		key = VariableKey(files[0])
	}
	parts := make([]*seriesPart, len(files))
	for i, f := range files {
		p, err := readSeriesFile(f, key, scale)
		if err != nil {
			return nil, err
		}
		parts[i] = p
	}
	sort.SliceStable(parts, func(i, j int) bool {
		return parts[i].dates[0].Before(parts[j].dates[0])
	})

	s := &Series{
		Key:      key,
		Units:    parts[0].units,
		LongName: parts[0].longName,
		Grid:     parts[0].grid,
		Start:    parts[0].dates[0],
	}
	var prev time.Time
	for i, p := range parts {
		if !p.grid.Equal(s.Grid) {
			return nil, formatErrorf(p.file, "grid differs from the grid in %s", parts[0].file)
		}
		for j, d := range p.dates {
			if (i > 0 || j > 0) && !d.After(prev) {
				return nil, formatErrorf(p.file, "time %s is not after the previous time %s",
					d.Format(time.RFC3339), prev.Format(time.RFC3339))
			}
			prev = d
			s.Times = append(s.Times, d.Sub(s.Start).Seconds())
		}
		s.Samples = append(s.Samples, p.samples...)
	}
	if err := s.check(); err != nil {
		return nil, err
	}
	return s, nil
}

// readSeriesFile reads one file of a series.
func readSeriesFile(file, key string, scale float64) (*seriesPart, error) {
	ff, err := os.Open(file)
	if err != nil {
		return nil, fmt.Errorf("iceforcing: opening %s: %w", file, err)
	}
	defer ff.Close()
	fi, err := ff.Stat()
	if err != nil {
		return nil, fmt.Errorf("iceforcing: opening %s: %w", file, err)
	}
	nc, err := cdf.Open(ff)
	if err != nil {
		return nil, formatErrorf(file, "%v", err)
	}
	numRecs := int(nc.Header.NumRecs(fi.Size()))

	p := &seriesPart{file: file}

	latName, err := findVar(nc, file, latNames)
	if err != nil {
		return nil, err
	}
	lonName, err := findVar(nc, file, lonNames)
	if err != nil {
		return nil, err
	}
	lat, err := readCoordinate(nc, file, latName)
	if err != nil {
		return nil, err
	}
	lon, err := readCoordinate(nc, file, lonName)
	if err != nil {
		return nil, err
	}
	var rows []int
	p.grid, rows, err = NewArcticGrid(lat, lon, ArcticLatitude)
	if err != nil {
		return nil, fmt.Errorf("iceforcing: reading grid from %s: %w", file, err)
	}
	ny, nx := lat.Shape[0], len(lon.Elements)
	if len(lat.Shape) == 2 {
		nx = lat.Shape[1]
	}

	timeName, err := findVar(nc, file, timeNames)
	if err != nil {
		return nil, err
	}
	p.dates, err = readTimes(nc, file, timeName, numRecs)
	if err != nil {
		return nil, err
	}

	if !hasVar(nc, key) {
		return nil, formatErrorf(file, "missing variable %s", key)
	}
	lengths := varLengths(nc, key, numRecs)
	if len(lengths) != 3 || lengths[1] != ny || lengths[2] != nx {
		return nil, formatErrorf(file, "variable %s has shape %v; want [%d %d %d]", key, lengths, len(p.dates), ny, nx)
	}
	if lengths[0] != len(p.dates) {
		return nil, formatErrorf(file, "variable %s has %d time steps but %s has %d", key, lengths[0], timeName, len(p.dates))
	}
	pk := newPacking(nc, key, scale)
	p.units, _ = nc.Header.GetAttribute(key, "units").(string)
	p.longName, _ = nc.Header.GetAttribute(key, "long_name").(string)

	p.samples = make([]Sample, lengths[0])
	for t := range p.samples {
		raw, err := readFloats(nc, key, []int{t, 0, 0}, []int{t, ny - 1, nx - 1}, ny*nx)
		if err != nil {
			return nil, formatErrorf(file, "reading %s at time index %d: %v", key, t, err)
		}
		smp := newSample(len(rows), nx)
		for jj, j := range rows {
			for i := 0; i < nx; i++ {
				v, ok := pk.unpack(raw[j*nx+i])
				if !ok {
					smp.Invalid[jj*nx+i] = true
					continue
				}
				smp.Values.Elements[jj*nx+i] = v
			}
		}
		p.samples[t] = smp
	}
	return p, nil
}

func hasVar(nc *cdf.File, name string) bool {
	for _, v := range nc.Header.Variables() {
		if v == name {
			return true
		}
	}
	return false
}

// findVar returns the first of names that is a variable in nc.
func findVar(nc *cdf.File, file string, names []string) (string, error) {
	for _, n := range names {
		if hasVar(nc, n) {
			return n, nil
		}
	}
	return "", formatErrorf(file, "missing variable %s", names[0])
}

// varLengths returns the dimension lengths of variable v,
// with the number of records substituted for the record dimension.
func varLengths(nc *cdf.File, v string, numRecs int) []int {
	l := append([]int{}, nc.Header.Lengths(v)...)
	if nc.Header.IsRecordVariable(v) {
		l[0] = numRecs
	}
	return l
}

// readCoordinate reads a 1-D or 2-D coordinate variable.
func readCoordinate(nc *cdf.File, file, v string) (*sparse.DenseArray, error) {
	lengths := varLengths(nc, v, 0)
	if len(lengths) != 1 && len(lengths) != 2 {
		return nil, formatErrorf(file, "coordinate %s has %d dimensions; want 1 or 2", v, len(lengths))
	}
	if nc.Header.IsRecordVariable(v) {
		return nil, formatErrorf(file, "coordinate %s varies in time", v)
	}
	o := sparse.ZerosDense(lengths...)
	data, err := readFloats(nc, v, nil, nil, len(o.Elements))
	if err != nil {
		return nil, formatErrorf(file, "reading %s: %v", v, err)
	}
	copy(o.Elements, data)
	return o, nil
}

// readFloats reads n values of variable v between begin and end
// (inclusive) and converts them to float64.
func readFloats(nc *cdf.File, v string, begin, end []int, n int) ([]float64, error) {
	r := nc.Reader(v, begin, end)
	buf := r.Zero(n)
	if _, err := r.Read(buf); err != nil {
		return nil, err
	}
	return toFloats(buf)
}

func toFloats(buf interface{}) ([]float64, error) {
	switch b := buf.(type) {
	case []float64:
		return b, nil
	case []float32:
		o := make([]float64, len(b))
		for i, v := range b {
			o[i] = float64(v)
		}
		return o, nil
	case []int32:
		o := make([]float64, len(b))
		for i, v := range b {
			o[i] = float64(v)
		}
		return o, nil
	case []int16:
		o := make([]float64, len(b))
		for i, v := range b {
			o[i] = float64(v)
		}
		return o, nil
	case []uint8:
		o := make([]float64, len(b))
		for i, v := range b {
			o[i] = float64(int8(v))
		}
		return o, nil
	default:
		return nil, fmt.Errorf("unsupported data type %T", buf)
	}
}

// scalarFloat converts a scalar or single-valued attribute to float64.
func scalarFloat(a interface{}) (float64, bool) {
	switch v := a.(type) {
	case float64:
		return v, true
	case float32:
		return float64(v), true
	case int32:
		return float64(v), true
	case int16:
		return float64(v), true
	case int8:
		return float64(v), true
	case uint8:
		return float64(int8(v)), true
	case nil, string:
		return 0, false
	}
	f, err := toFloats(a)
	if err != nil || len(f) == 0 {
		return 0, false
	}
	return f[0], true
}

// packing holds the information needed to convert raw stored values
// to physical values.
type packing struct {
	fill, missing       float64
	hasMissing          bool
	scaleFactor, offset float64
	scale               float64
}

func newPacking(nc *cdf.File, v string, scale float64) packing {
	p := packing{scaleFactor: 1, scale: scale}
	p.fill, _ = scalarFloat(nc.Header.FillValue(v))
	if f, ok := scalarFloat(nc.Header.GetAttribute(v, "_FillValue")); ok {
		p.fill = f
	}
	p.missing, p.hasMissing = scalarFloat(nc.Header.GetAttribute(v, "missing_value"))
	if sf, ok := scalarFloat(nc.Header.GetAttribute(v, "scale_factor")); ok {
		p.scaleFactor = sf
	}
	p.offset, _ = scalarFloat(nc.Header.GetAttribute(v, "add_offset"))
	return p
}

// unpack returns the physical value of raw stored value v and
// whether it is valid.
func (p packing) unpack(v float64) (float64, bool) {
	if math.IsNaN(v) || v == p.fill || (p.hasMissing && v == p.missing) {
		return 0, false
	}
	return (v*p.scaleFactor + p.offset) * p.scale, true
}

// readTimes reads and decodes the time coordinate.
func readTimes(nc *cdf.File, file, v string, numRecs int) ([]time.Time, error) {
	lengths := varLengths(nc, v, numRecs)
	if len(lengths) != 1 {
		return nil, formatErrorf(file, "time variable %s has %d dimensions; want 1", v, len(lengths))
	}
	if lengths[0] == 0 {
		return nil, formatErrorf(file, "time variable %s is empty", v)
	}
	vals, err := readFloats(nc, v, []int{0}, []int{lengths[0] - 1}, lengths[0])
	if err != nil {
		return nil, formatErrorf(file, "reading %s: %v", v, err)
	}
	units, ok := nc.Header.GetAttribute(v, "units").(string)
	if !ok {
		return nil, formatErrorf(file, "time variable %s has no units", v)
	}
	calendar, _ := nc.Header.GetAttribute(v, "calendar").(string)
	tu, err := ParseTimeUnits(units, calendar)
	if err != nil {
		return nil, &DataFormatError{File: file, Msg: err.Error()}
	}
	dates := make([]time.Time, len(vals))
	for i, val := range vals {
		dates[i] = tu.Date(val)
	}
	return dates, nil
}
