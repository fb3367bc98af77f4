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
	"errors"
	"testing"
	"time"
)

var cycleStart = time.Date(1980, time.January, 1, 12, 0, 0, 0, time.UTC)

// dailyYears returns a daily series on a 1x3 grid beginning at
// cycleStart. Cell 0 holds the year, cell 1 holds the year but is
// invalid in 1980, and cell 2 holds the year but is invalid in leap
// years.
func dailyYears(days int) *Series {
	return testSeries("clt", testGrid(1, 3), cycleStart, 86400, days, func(k, c int) (float64, bool) {
		y := cycleStart.AddDate(0, 0, k).Year()
		switch c {
		case 1:
			return float64(y), y != 1980
		case 2:
			return float64(y), y%4 != 0
		}
		return float64(y), true
	})
}

func TestNewCanonicalCycle(t *testing.T) {
	cyc, err := NewCanonicalCycle(dailyYears(2 * 1461))
	if err != nil {
		t.Fatal(err)
	}
	if !cyc.Cyclic {
		t.Error("cycle should be marked cyclic")
	}
	if len(cyc.Times) != 1461 {
		t.Fatalf("cycle length: have %d, want 1461", len(cyc.Times))
	}
	if !cyc.Start.Equal(cycleStart) {
		t.Errorf("start: have %v, want %v", cyc.Start, cycleStart)
	}
	if want := 1460 * 86400.0; cyc.Times[1460] != want {
		t.Errorf("last time: have %g, want %g", cyc.Times[1460], want)
	}

	tests := []struct {
		sample  int
		cell    int
		want    float64
		invalid bool
	}{
		{sample: 0, cell: 0, want: 1982},
		{sample: 365, cell: 0, want: 1982},
		{sample: 366, cell: 0, want: 1983},
		{sample: 1460, cell: 0, want: 1985},
		{sample: 0, cell: 1, want: 1984},
		{sample: 366, cell: 1, want: 1983},
		{sample: 0, cell: 2, invalid: true},
		{sample: 366, cell: 2, want: 1983},
	}
	for _, test := range tests {
		smp := cyc.Samples[test.sample]
		if smp.Invalid[test.cell] != test.invalid {
			t.Errorf("sample %d cell %d: invalid %v, want %v", test.sample, test.cell,
				smp.Invalid[test.cell], test.invalid)
			continue
		}
		if !test.invalid && smp.Values.Elements[test.cell] != test.want {
			t.Errorf("sample %d cell %d: have %g, want %g", test.sample, test.cell,
				smp.Values.Elements[test.cell], test.want)
		}
	}
}

func TestNewCanonicalCycle_errors(t *testing.T) {
	notLeap := dailyYears(2 * 1461)
	notLeap.Start = time.Date(1981, time.January, 1, 12, 0, 0, 0, time.UTC)

	tests := []struct {
		name string
		s    *Series
	}{
		{name: "not leap", s: notLeap},
		{name: "missing year", s: dailyYears(366 + 365 + 365)},
		{name: "short year", s: dailyYears(1461 + 100)},
	}
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			_, err := NewCanonicalCycle(test.s)
			var fe *DataFormatError
			if !errors.As(err, &fe) {
				t.Errorf("have error %v, want DataFormatError", err)
			}
		})
	}
}

func TestCycleAnchor(t *testing.T) {
	tests := []struct {
		ref, want time.Time
	}{
		{ref: testStart, want: testStart},
		{
			ref:  time.Date(2059, time.December, 31, 23, 0, 0, 0, time.UTC),
			want: testStart,
		},
		{
			ref:  time.Date(2100, time.June, 1, 0, 0, 0, 0, time.UTC),
			want: time.Date(2100, time.January, 1, 0, 0, 0, 0, time.UTC),
		},
	}
	for _, test := range tests {
		if have := CycleAnchor(test.ref); !have.Equal(test.want) {
			t.Errorf("%v: have %v, want %v", test.ref, have, test.want)
		}
	}
}

func TestCyclicField(t *testing.T) {
	cyc, err := NewCanonicalCycle(dailyYears(2 * 1461))
	if err != nil {
		t.Fatal(err)
	}
	f, err := NewCyclicField(cyc, testStart)
	if err != nil {
		t.Fatal(err)
	}

	t.Run("date", func(t *testing.T) {
		tests := []struct {
			offset float64
			want   time.Time
		}{
			{offset: 0, want: time.Date(1984, time.January, 1, 0, 0, 0, 0, time.UTC)},
			{offset: 43200, want: cycleStart},
			{offset: (366 + 59) * 86400, want: time.Date(1981, time.March, 1, 0, 0, 0, 0, time.UTC)},
			{offset: 4 * CyclePeriod, want: time.Date(1984, time.January, 1, 0, 0, 0, 0, time.UTC)},
		}
		for _, test := range tests {
			have, err := f.Date(test.offset)
			if err != nil {
				t.Fatal(err)
			}
			if !have.Equal(test.want) {
				t.Errorf("offset %g: have %v, want %v", test.offset, have, test.want)
			}
		}
	})

	t.Run("data", func(t *testing.T) {
		for _, offset := range []float64{43200, 43200 + CyclePeriod, 43200 + 7*CyclePeriod} {
			smp, err := f.Data(offset)
			if err != nil {
				t.Fatal(err)
			}
			if smp.Values.Elements[0] != 1982 {
				t.Errorf("offset %g: have %g, want 1982", offset, smp.Values.Elements[0])
			}
			if !smp.Invalid[2] {
				t.Errorf("offset %g: cell 2 should be invalid", offset)
			}
		}
		smp, err := f.Data(366*86400 + 43200)
		if err != nil {
			t.Fatal(err)
		}
		if smp.Values.Elements[0] != 1983 {
			t.Errorf("have %g, want 1983", smp.Values.Elements[0])
		}
	})

	t.Run("mid cycle reference", func(t *testing.T) {
		ref := time.Date(2058, time.June, 1, 0, 0, 0, 0, time.UTC)
		f, err := NewCyclicField(cyc, ref)
		if err != nil {
			t.Fatal(err)
		}
		if !f.Anchor().Equal(testStart) {
			t.Errorf("anchor: have %v, want %v", f.Anchor(), testStart)
		}
		have, err := f.Date(0)
		if err != nil {
			t.Fatal(err)
		}
		if want := time.Date(1982, time.June, 1, 0, 0, 0, 0, time.UTC); !have.Equal(want) {
			t.Errorf("have %v, want %v", have, want)
		}
	})

	t.Run("fold", func(t *testing.T) {
		x := 1000 * 86400.0
		for k := -3; k <= 5; k++ {
			have, err := f.Fold(x + float64(k)*CyclePeriod)
			if err != nil {
				t.Fatal(err)
			}
			if have != x {
				t.Errorf("%d cycles: have %g, want %g", k, have, x)
			}
		}
		_, err := f.Fold(1e20)
		var fe *CycleFoldError
		if !errors.As(err, &fe) {
			t.Errorf("have error %v, want CycleFoldError", err)
		}
	})

	t.Run("not cyclic", func(t *testing.T) {
		if _, err := NewCyclicField(dailyYears(10), testStart); err == nil {
			t.Error("expected an error")
		}
	})
}
