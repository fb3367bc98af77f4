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
	"testing"
	"time"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/floats/scalar"
)

// testGrid returns a regular ny by nx grid starting at 70°N.
func testGrid(ny, nx int) *Grid {
	lat := make([]float64, ny)
	for j := range lat {
		lat[j] = 70 + float64(j)
	}
	lon := make([]float64, nx)
	for i := range lon {
		lon[i] = float64(i) * 2
	}
	g, _, err := NewArcticGrid(denseFrom(lat, ny), denseFrom(lon, nx), ArcticLatitude)
	if err != nil {
		panic(err)
	}
	return g
}

// testSeries returns a series on g with n samples step seconds apart
// whose values are set by f.
func testSeries(key string, g *Grid, start time.Time, step float64, n int, f func(t, cell int) (float64, bool)) *Series {
	s := &Series{Key: key, Grid: g, Start: start}
	for k := 0; k < n; k++ {
		smp := newSample(g.Ny(), g.Nx())
		for c := range smp.Invalid {
			v, ok := f(k, c)
			if !ok {
				smp.Invalid[c] = true
				continue
			}
			smp.Values.Elements[c] = v
		}
		s.Times = append(s.Times, float64(k)*step)
		s.Samples = append(s.Samples, smp)
	}
	return s
}

func constant(v float64) func(int, int) (float64, bool) {
	return func(int, int) (float64, bool) { return v, true }
}

var testStart = time.Date(2056, time.January, 1, 0, 0, 0, 0, time.UTC)

func TestSeriesMask(t *testing.T) {
	g := testGrid(2, 2)
	// Cell 0 is always valid, cell 1 is valid only at the second
	// sample, cell 2 is never valid, and cell 3 is valid only at the first.
	s := testSeries("sic", g, testStart, 3600, 3, func(k, c int) (float64, bool) {
		switch c {
		case 0:
			return 1, true
		case 1:
			return 1, k == 1
		case 2:
			return 0, false
		default:
			return 1, k == 0
		}
	})
	mask := s.Mask()
	want := []bool{false, false, true, false}
	for i, w := range want {
		if mask[i] != w {
			t.Errorf("cell %d: mask %v; want %v", i, mask[i], w)
		}
	}
}

func TestSeriesDates(t *testing.T) {
	s := testSeries("tas", testGrid(2, 2), testStart, 3*3600, 3, constant(1))
	if !s.End().Equal(testStart.Add(6 * time.Hour)) {
		t.Errorf("end: %v", s.End())
	}
	d := s.Dates()
	if len(d) != 3 || !d[1].Equal(testStart.Add(3*time.Hour)) {
		t.Errorf("dates: %v", d)
	}
}

func TestInterpolator(t *testing.T) {
	g := testGrid(2, 2)
	s := testSeries("tas", g, testStart, 100, 3, func(k, c int) (float64, bool) {
		if c == 3 && k == 1 {
			return 0, false
		}
		return float64(k*k) + float64(c), true
	})
	ip, err := NewInterpolator(s.Times, s.Samples)
	if err != nil {
		t.Fatal(err)
	}
	t.Run("linear", func(t *testing.T) {
		for _, tt := range []float64{100, 125, 150, 199, 200} {
			v := ip.At(tt)
			w := (tt - 100) / 100
			for c := 0; c < 3; c++ {
				want := (1-w)*(1+float64(c)) + w*(4+float64(c))
				if !scalar.EqualWithinAbsOrRel(v.Values.Elements[c], want, 1e-12, 1e-12) {
					t.Errorf("t=%g cell %d: %g != %g", tt, c, v.Values.Elements[c], want)
				}
				if v.Invalid[c] {
					t.Errorf("t=%g cell %d should be valid", tt, c)
				}
			}
		}
	})
	t.Run("exact sample", func(t *testing.T) {
		v := ip.At(0)
		if !floats.Equal(v.Values.Elements, []float64{0, 1, 2, 3}) {
			t.Errorf("values: %v", v.Values.Elements)
		}
	})
	t.Run("extrapolate", func(t *testing.T) {
		v := ip.At(300)
		if want := 7.0; !scalar.EqualWithinAbsOrRel(v.Values.Elements[0], want, 1e-12, 1e-12) {
			t.Errorf("after: %g != %g", v.Values.Elements[0], want)
		}
		v = ip.At(-100)
		if want := -1.0; !scalar.EqualWithinAbsOrRel(v.Values.Elements[0], want, 1e-12, 1e-12) {
			t.Errorf("before: %g != %g", v.Values.Elements[0], want)
		}
	})
	t.Run("validity", func(t *testing.T) {
		for _, tc := range []struct {
			t       float64
			invalid bool
		}{
			{0, false},
			{50, true},
			{100, true},
			{150, true},
			{200, false},
		} {
			if v := ip.At(tc.t); v.Invalid[3] != tc.invalid {
				t.Errorf("t=%g: invalid %v; want %v", tc.t, v.Invalid[3], tc.invalid)
			}
		}
	})
	t.Run("not increasing", func(t *testing.T) {
		if _, err := NewInterpolator([]float64{0, 0}, s.Samples[:2]); err == nil {
			t.Error("want error")
		}
	})
}

func TestClimateField(t *testing.T) {
	g := testGrid(2, 2)
	s := testSeries("sit", g, testStart, 3600, 48, func(k, c int) (float64, bool) {
		return float64(k), true
	})
	ref := testStart.Add(6 * time.Hour)
	f, err := NewClimateField(s, ref)
	if err != nil {
		t.Fatal(err)
	}
	if f.Delta() != 6*3600 {
		t.Errorf("delta: %g", f.Delta())
	}
	v, err := f.Data(1800)
	if err != nil {
		t.Fatal(err)
	}
	if v.Values.Elements[0] != 6.5 {
		t.Errorf("value: %g", v.Values.Elements[0])
	}
	d, err := f.Date(1800)
	if err != nil {
		t.Fatal(err)
	}
	if want := ref.Add(30 * time.Minute); !d.Equal(want) {
		t.Errorf("date: %v != %v", d, want)
	}
	if f.Series() != s {
		t.Error("series should be shared")
	}
}
