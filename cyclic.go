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
	"time"
)

// CyclePeriod is the length [s] of one four-year calendar cycle
// (three regular years and one leap year).
const CyclePeriod = (3*365 + 366) * 86400.0

// maxFoldSteps is the maximum number of whole cycles a query
// time may be shifted by when folding it into a canonical cycle.
const maxFoldSteps = 10000

// isLeap reports whether year starts a four-year cycle.
func isLeap(year int) bool {
	return ((year%4)+4)%4 == 0
}

// NewCanonicalCycle collapses a multi-year series into one
// representative four-year cycle. The first sample must fall in a
// leap year. Years are grouped by their position in the four-year
// cycle, and the years in each group are averaged sample by sample.
// A cell in the result is invalid only if it is invalid in every year
// of the group; otherwise it holds the mean of its valid values.
// Sample times are taken from the first year in each group.
func NewCanonicalCycle(s *Series) (*Series, error) {
	if err := s.check(); err != nil {
		return nil, err
	}
	dates := s.Dates()
	firstYear := dates[0].Year()
	if !isLeap(firstYear) {
		return nil, formatErrorf("", "variable %s: canonical cycle must start in a leap year but starts in %d",
			s.Key, firstYear)
	}

	// byYear[phase][year] holds sample indices in time order.
	var byYear [4]map[int][]int
	var years [4][]int
	for i := range byYear {
		byYear[i] = make(map[int][]int)
	}
	for i, d := range dates {
		phase := (d.Year() - firstYear) % 4
		if _, ok := byYear[phase][d.Year()]; !ok {
			years[phase] = append(years[phase], d.Year())
		}
		byYear[phase][d.Year()] = append(byYear[phase][d.Year()], i)
	}

	o := *s
	o.Cyclic = true
	o.Times = nil
	o.Samples = nil
	var cycleDates []time.Time
	for phase := 0; phase < 4; phase++ {
		if len(years[phase]) == 0 {
			return nil, formatErrorf("", "variable %s: no data for year %d of the four-year cycle",
				s.Key, phase+1)
		}
		days := 365
		if phase == 0 {
			days = 366
		}
		perDay := len(byYear[phase][years[phase][0]]) / days
		if perDay == 0 {
			return nil, formatErrorf("", "variable %s: year %d has fewer than one sample per day",
				s.Key, years[phase][0])
		}
		n := days * perDay
		for _, y := range years[phase] {
			if len(byYear[phase][y]) != n {
				return nil, formatErrorf("", "variable %s: year %d has %d samples; want %d (%d days with %d samples per day)",
					s.Key, y, len(byYear[phase][y]), n, days, perDay)
			}
		}
		for k := 0; k < n; k++ {
			idx := make([]int, len(years[phase]))
			for j, y := range years[phase] {
				idx[j] = byYear[phase][y][k]
			}
			o.Samples = append(o.Samples, meanSample(s.Samples, idx))
			cycleDates = append(cycleDates, dates[idx[0]])
		}
	}
	o.Start = cycleDates[0]
	o.Times = make([]float64, len(cycleDates))
	for i, d := range cycleDates {
		o.Times[i] = d.Sub(o.Start).Seconds()
	}
	if err := o.check(); err != nil {
		return nil, err
	}
	return &o, nil
}

// meanSample averages the valid values of samples[idx] cell by cell.
func meanSample(samples []Sample, idx []int) Sample {
	o := newSample(samples[idx[0]].Values.Shape...)
	n := make([]int, len(o.Invalid))
	for _, i := range idx {
		smp := samples[i]
		for c, v := range smp.Values.Elements {
			if !smp.Invalid[c] {
				o.Values.Elements[c] += v
				n[c]++
			}
		}
	}
	for c, nc := range n {
		if nc == 0 {
			o.Invalid[c] = true
			continue
		}
		o.Values.Elements[c] /= float64(nc)
	}
	return o
}

// CyclicField is a Field backed by a canonical four-year cycle.
// Query times are mapped onto the cycle by shifting them by whole
// cycles until they fall within the sampled range.
type CyclicField struct {
	s      *Series
	ref    time.Time
	anchor time.Time
	interp *Interpolator

	// origin is January 1 of the first year of the cycle, and shift is
	// the offset [s] of the first sample from origin.
	origin time.Time
	shift  float64
}

// NewCyclicField binds the canonical cycle s to the reference date ref.
func NewCyclicField(s *Series, ref time.Time) (*CyclicField, error) {
	if !s.Cyclic {
		return nil, formatErrorf("", "variable %s is not a canonical cycle", s.Key)
	}
	if err := s.check(); err != nil {
		return nil, err
	}
	ip, err := NewInterpolator(s.Times, s.Samples)
	if err != nil {
		return nil, err
	}
	origin := time.Date(s.Start.Year(), time.January, 1, 0, 0, 0, 0, s.Start.Location())
	return &CyclicField{
		s:      s,
		ref:    ref,
		anchor: CycleAnchor(ref),
		interp: ip,
		origin: origin,
		shift:  s.Start.Sub(origin).Seconds(),
	}, nil
}

// CycleAnchor returns January 1 of the most recent leap year at or
// before the year of ref.
func CycleAnchor(ref time.Time) time.Time {
	y := ref.Year()
	for !isLeap(y) {
		y--
	}
	return time.Date(y, time.January, 1, 0, 0, 0, 0, time.UTC)
}

// Anchor returns the start of the four-year cycle that contains the
// reference date.
func (f *CyclicField) Anchor() time.Time { return f.anchor }

// Fold shifts offset [s since the cycle anchor] by whole cycles until
// it falls within the sampled range of the canonical cycle, measured
// from January 1 of the cycle's first year.
func (f *CyclicField) Fold(offset float64) (float64, error) {
	first, last := f.s.Times[0]+f.shift, f.s.Times[len(f.s.Times)-1]+f.shift
	steps := 0
	for offset > last {
		if steps >= maxFoldSteps {
			return 0, &CycleFoldError{Offset: offset, Steps: steps}
		}
		offset -= CyclePeriod
		steps++
	}
	for offset < first {
		if steps >= maxFoldSteps {
			return 0, &CycleFoldError{Offset: offset, Steps: steps}
		}
		offset += CyclePeriod
		steps++
	}
	return offset, nil
}

func (f *CyclicField) offset(t float64) (float64, error) {
	return f.Fold(f.ref.Add(seconds(t)).Sub(f.anchor).Seconds())
}

// Data implements Field.
func (f *CyclicField) Data(t float64) (Sample, error) {
	offset, err := f.offset(t)
	if err != nil {
		return Sample{}, err
	}
	return f.interp.At(offset - f.shift), nil
}

// Date implements Field.
func (f *CyclicField) Date(t float64) (time.Time, error) {
	offset, err := f.offset(t)
	if err != nil {
		return time.Time{}, err
	}
	return f.origin.Add(seconds(offset)), nil
}

// Series implements Field.
func (f *CyclicField) Series() *Series { return f.s }
