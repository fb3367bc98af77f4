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

package albedo

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"math"
	"os"
	"path/filepath"
	"runtime"
	"strconv"
	"strings"
	"sync"

	"github.com/ctessum/requestcache"
	"github.com/tealeg/xlsx"
)

// Column name prefixes for each curve. Each curve has an " X"
// (zenith angle) and a " Y" (albedo) column.
const (
	ClearOceanColumn      = "Clear Sky Over Ocean"
	CloudyOceanColumn     = "Cloud Over Ocean"
	ClearBrightIceColumn  = "Clear Sky Over Bright Ice"
	ClearDarkIceColumn    = "Clear Sky Over Dark Ice"
	CloudyBrightIceColumn = "Cloud Over Bright Sea Ice"
	CloudyDarkIceColumn   = "Cloud Over Dark Sea Ice"
)

// tableCache holds previously loaded tables
// to avoid reading the same file multiple times.
var tableCache *requestcache.Cache

var loadTableCacheOnce sync.Once

type tableRequest struct {
	path, sheet string
}

// Load reads an albedo table from a CSV file or, if the file name
// ends in ".xlsx", from the named sheet (or the first sheet if
// sheet is empty) of a Microsoft Excel file. The first row must hold
// the column names. Tables are cached, so loading the same file more
// than once only reads it once.
func Load(path, sheet string) (*Table, error) {
	loadTableCacheOnce.Do(func() {
		tableCache = requestcache.NewCache(func(ctx context.Context, req interface{}) (interface{}, error) {
			r := req.(tableRequest)
			if strings.EqualFold(filepath.Ext(r.path), ".xlsx") {
				return readXLSX(r.path, r.sheet)
			}
			f, err := os.Open(r.path)
			if err != nil {
				return nil, fmt.Errorf("albedo: opening table: %v", err)
			}
			defer f.Close()
			return ReadCSV(f)
		}, runtime.GOMAXPROCS(-1), requestcache.Memory(100))
	})
	r := tableCache.NewRequest(context.Background(), tableRequest{path: path, sheet: sheet}, path+"#"+sheet)
	t, err := r.Result()
	if err != nil {
		return nil, err
	}
	return t.(*Table), nil
}

// ReadCSV reads an albedo table in CSV format.
func ReadCSV(r io.Reader) (*Table, error) {
	rows, err := csv.NewReader(r).ReadAll()
	if err != nil {
		return nil, fmt.Errorf("albedo: reading CSV table: %v", err)
	}
	return fromRows(rows)
}

func readXLSX(path, sheet string) (*Table, error) {
	f, err := xlsx.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("albedo: opening xlsx file: %v", err)
	}
	var s *xlsx.Sheet
	if sheet == "" {
		if len(f.Sheets) == 0 {
			return nil, fmt.Errorf("albedo: xlsx file %s has no sheets", path)
		}
		s = f.Sheets[0]
	} else {
		var ok bool
		s, ok = f.Sheet[sheet]
		if !ok {
			return nil, fmt.Errorf("albedo: xlsx file %s has no sheet %s", path, sheet)
		}
	}
	rows := make([][]string, len(s.Rows))
	for j, row := range s.Rows {
		rows[j] = make([]string, len(row.Cells))
		for i, c := range row.Cells {
			rows[j][i] = c.Value
		}
	}
	return fromRows(rows)
}

// fromRows creates a table from a header row followed by data rows.
// Blank and non-numeric cells are treated as missing.
func fromRows(rows [][]string) (*Table, error) {
	if len(rows) == 0 {
		return nil, fmt.Errorf("albedo: table is empty")
	}
	cols := make(map[string][]float64)
	for i, name := range rows[0] {
		name = strings.TrimSpace(name)
		v := make([]float64, 0, len(rows)-1)
		for _, row := range rows[1:] {
			x := math.NaN()
			if i < len(row) {
				if f, err := strconv.ParseFloat(strings.TrimSpace(row[i]), 64); err == nil {
					x = f
				}
			}
			v = append(v, x)
		}
		cols[name] = v
	}
	curve := func(name string) (*Curve, error) {
		x, ok := cols[name+" X"]
		if !ok {
			return nil, fmt.Errorf("albedo: table is missing column %q", name+" X")
		}
		y, ok := cols[name+" Y"]
		if !ok {
			return nil, fmt.Errorf("albedo: table is missing column %q", name+" Y")
		}
		c, err := NewCurve(x, y)
		if err != nil {
			return nil, fmt.Errorf("albedo: column %s: %v", name, err)
		}
		return c, nil
	}
	t := new(Table)
	for _, c := range []struct {
		name string
		dst  **Curve
	}{
		{ClearOceanColumn, &t.ClearOcean},
		{CloudyOceanColumn, &t.CloudyOcean},
		{ClearBrightIceColumn, &t.ClearBrightIce},
		{ClearDarkIceColumn, &t.ClearDarkIce},
		{CloudyBrightIceColumn, &t.CloudyBrightIce},
		{CloudyDarkIceColumn, &t.CloudyDarkIce},
	} {
		var err error
		if *c.dst, err = curve(c.name); err != nil {
			return nil, err
		}
	}
	return t, nil
}
