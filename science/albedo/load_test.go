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
	"math"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"testing"

	"github.com/tealeg/xlsx"
)

var testColumns = []string{
	ClearOceanColumn, CloudyOceanColumn,
	ClearBrightIceColumn, ClearDarkIceColumn,
	CloudyBrightIceColumn, CloudyDarkIceColumn,
}

// testRows returns a table in which curve i has albedo 0.1*(i+1) at
// zenith 0 and half that at zenith 90. The last curve has only two
// points.
func testRows() [][]string {
	var header []string
	for _, c := range testColumns {
		header = append(header, c+" X", c+" Y")
	}
	rows := [][]string{header}
	for _, z := range []float64{0, 45, 90} {
		var row []string
		for i := range testColumns {
			if i == len(testColumns)-1 && z == 45 {
				row = append(row, "", "")
				continue
			}
			a := 0.1 * float64(i+1) * (1 - z/180)
			row = append(row, formatFloat(z), formatFloat(a))
		}
		rows = append(rows, row)
	}
	return rows
}

func formatFloat(v float64) string { return strconv.FormatFloat(v, 'g', -1, 64) }

func checkTable(t *testing.T, table *Table) {
	t.Helper()
	curves := []*Curve{
		table.ClearOcean, table.CloudyOcean,
		table.ClearBrightIce, table.ClearDarkIce,
		table.CloudyBrightIce, table.CloudyDarkIce,
	}
	for i, c := range curves {
		a0 := 0.1 * float64(i+1)
		if have := c.At(0); math.Abs(have-a0) > 1e-9 {
			t.Errorf("%s at 0: have %g, want %g", testColumns[i], have, a0)
		}
		if have := c.At(90); math.Abs(have-a0/2) > 1e-9 {
			t.Errorf("%s at 90: have %g, want %g", testColumns[i], have, a0/2)
		}
		if have := c.At(45); math.Abs(have-a0*0.75) > 1e-9 {
			t.Errorf("%s at 45: have %g, want %g", testColumns[i], have, a0*0.75)
		}
	}
	if n := table.CloudyDarkIce.Len(); n != 2 {
		t.Errorf("blank cells should be dropped: curve has %d points", n)
	}
}

func TestReadCSV(t *testing.T) {
	var b strings.Builder
	for _, row := range testRows() {
		b.WriteString(strings.Join(row, ","))
		b.WriteString("\n")
	}
	table, err := ReadCSV(strings.NewReader(b.String()))
	if err != nil {
		t.Fatal(err)
	}
	checkTable(t, table)

	missing := strings.Replace(b.String(), ClearDarkIceColumn+" Y", "Dark Y", 1)
	if _, err := ReadCSV(strings.NewReader(missing)); err == nil || !strings.Contains(err.Error(), ClearDarkIceColumn) {
		t.Errorf("missing column: have error %v", err)
	}
}

func TestLoad(t *testing.T) {
	dir := t.TempDir()

	csvPath := filepath.Join(dir, "Albedos.csv")
	var b strings.Builder
	for _, row := range testRows() {
		b.WriteString(strings.Join(row, ",") + "\n")
	}
	if err := os.WriteFile(csvPath, []byte(b.String()), 0644); err != nil {
		t.Fatal(err)
	}

	xlsxPath := filepath.Join(dir, "Albedos.xlsx")
	f := xlsx.NewFile()
	if _, err := f.AddSheet("Notes"); err != nil {
		t.Fatal(err)
	}
	sheet, err := f.AddSheet("Albedos")
	if err != nil {
		t.Fatal(err)
	}
	for _, r := range testRows() {
		row := sheet.AddRow()
		for _, v := range r {
			row.AddCell().SetString(v)
		}
	}
	if err := f.Save(xlsxPath); err != nil {
		t.Fatal(err)
	}

	t.Run("csv", func(t *testing.T) {
		table, err := Load(csvPath, "")
		if err != nil {
			t.Fatal(err)
		}
		checkTable(t, table)
		again, err := Load(csvPath, "")
		if err != nil {
			t.Fatal(err)
		}
		if again != table {
			t.Error("loading the same table twice should return the cached table")
		}
	})
	t.Run("xlsx", func(t *testing.T) {
		table, err := Load(xlsxPath, "Albedos")
		if err != nil {
			t.Fatal(err)
		}
		checkTable(t, table)
	})
	t.Run("missing sheet", func(t *testing.T) {
		if _, err := Load(xlsxPath, "Albedo"); err == nil {
			t.Error("expected an error")
		}
	})
	t.Run("missing file", func(t *testing.T) {
		if _, err := Load(filepath.Join(dir, "none.csv"), ""); err == nil {
			t.Error("expected an error")
		}
	})
}
