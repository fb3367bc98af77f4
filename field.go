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
	"time"

	"github.com/ctessum/sparse"
)

// Sample holds the values of a field at one time step.
type Sample struct {
	// Values holds the gridded values. Invalid cells hold zero.
	Values *sparse.DenseArray

	// Invalid is true for cells that lack data (e.g., land or
	// sensor gaps), in the same order as Values.Elements.
	Invalid []bool
}

// newSample returns a zeroed sample with the given shape.
func newSample(shape ...int) Sample {
	v := sparse.ZerosDense(shape...)
	return Sample{Values: v, Invalid: make([]bool, len(v.Elements))}
}

// Copy returns a deep copy of s.
func (s Sample) Copy() Sample {
	o := Sample{Values: s.Values.Copy(), Invalid: make([]bool, len(s.Invalid))}
	copy(o.Invalid, s.Invalid)
	return o
}

// Series holds the full time series of one gridded variable.
// A Series is not modified after it is created; operations that
// change the data return a new Series.
type Series struct {
	Key      string // variable name in the source files
	Units    string
	LongName string

	Grid *Grid

	// Start is the time of the first sample.
	Start time.Time

	// Times are the offsets of each sample from Start [s], in
	// increasing order.
	Times []float64

	Samples []Sample

	// Cyclic is true for series that represent one canonical
	// four-year calendar cycle.
	Cyclic bool
}

// seconds converts a number of seconds to a duration.
func seconds(s float64) time.Duration {
	return time.Duration(math.Round(s * float64(time.Second)))
}

// End returns the time of the last sample.
func (s *Series) End() time.Time {
	return s.Start.Add(seconds(s.Times[len(s.Times)-1]))
}

// Dates returns the time of each sample.
func (s *Series) Dates() []time.Time {
	o := make([]time.Time, len(s.Times))
	for i, t := range s.Times {
		o[i] = s.Start.Add(seconds(t))
	}
	return o
}

// Mask returns the combined validity mask of the series, which is
// true for cells that are invalid in every sample. A cell that is valid
// in at least one sample is not masked.
func (s *Series) Mask() []bool {
	mask := make([]bool, s.Grid.Len())
	for i := range mask {
		mask[i] = true
	}
	for _, smp := range s.Samples {
		for i, inv := range smp.Invalid {
			mask[i] = mask[i] && inv
		}
	}
	return mask
}

// check makes sure the series is internally consistent.
func (s *Series) check() error {
	if len(s.Times) == 0 {
		return formatErrorf("", "variable %s has no samples", s.Key)
	}
	if len(s.Times) != len(s.Samples) {
		return formatErrorf("", "variable %s has %d times but %d samples", s.Key, len(s.Times), len(s.Samples))
	}
	for i := 1; i < len(s.Times); i++ {
		if !(s.Times[i] > s.Times[i-1]) {
			return formatErrorf("", "variable %s: times are not strictly increasing at index %d", s.Key, i)
		}
	}
	if err := s.Grid.check(); err != nil {
		return err
	}
	n := s.Grid.Len()
	for i, smp := range s.Samples {
		if len(smp.Values.Elements) != n || len(smp.Invalid) != n {
			return &GridMismatchError{Msg: fmt.Sprintf("variable %s sample %d has %d values but the grid has %d cells",
				s.Key, i, len(smp.Values.Elements), n)}
		}
	}
	return nil
}

// Field is a gridded variable that can be queried at arbitrary
// offsets from a shared reference date.
type Field interface {
	// Data returns the field's values at t seconds after the
	// reference date.
	Data(t float64) (Sample, error)

	// Date returns the date of the underlying data that is
	// used for a query at t seconds after the reference date.
	Date(t float64) (time.Time, error)

	// Series returns the data underlying the field.
	Series() *Series
}

// ClimateField is a Field that directly interpolates a Series.
type ClimateField struct {
	s      *Series
	delta  float64
	interp *Interpolator
}

// NewClimateField binds s to the reference date ref
// and prepares it for querying.
func NewClimateField(s *Series, ref time.Time) (*ClimateField, error) {
	if err := s.check(); err != nil {
		return nil, err
	}
	ip, err := NewInterpolator(s.Times, s.Samples)
	if err != nil {
		return nil, err
	}
	return &ClimateField{
		s:      s,
		delta:  ref.Sub(s.Start).Seconds(),
		interp: ip,
	}, nil
}

// Delta returns the offset [s] between the reference date and
// the start of the series.
func (f *ClimateField) Delta() float64 { return f.delta }

// Data implements Field.
func (f *ClimateField) Data(t float64) (Sample, error) {
	return f.interp.At(t + f.delta), nil
}

// Date implements Field.
func (f *ClimateField) Date(t float64) (time.Time, error) {
	return f.s.Start.Add(seconds(f.delta + t)), nil
}

// Series implements Field.
func (f *ClimateField) Series() *Series { return f.s }
