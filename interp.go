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
	"sort"

	"gonum.org/v1/gonum/floats"
)

// Interpolator linearly interpolates gridded samples in time.
// Outside of the sampled range, values are linearly extrapolated
// from the first or last two samples.
type Interpolator struct {
	times   []float64
	samples []Sample
}

// NewInterpolator returns an interpolator for samples taken at times [s],
// which must be strictly increasing.
func NewInterpolator(times []float64, samples []Sample) (*Interpolator, error) {
	if len(times) == 0 || len(times) != len(samples) {
		return nil, formatErrorf("", "interpolation needs the same non-zero number of times and samples; got %d and %d",
			len(times), len(samples))
	}
	for i := 1; i < len(times); i++ {
		if !(times[i] > times[i-1]) {
			return nil, formatErrorf("", "interpolation times are not strictly increasing at index %d", i)
		}
	}
	return &Interpolator{times: times, samples: samples}, nil
}

// At returns the interpolated sample at time t [s].
// Validity is interpolated the same way as the values, and cells
// where the interpolated invalidity is non-zero are marked invalid.
func (ip *Interpolator) At(t float64) Sample {
	n := len(ip.times)
	if n == 1 {
		return ip.samples[0].Copy()
	}
	i := sort.SearchFloat64s(ip.times, t)
	if i < 1 {
		i = 1
	} else if i > n-1 {
		i = n - 1
	}
	t0, t1 := ip.times[i-1], ip.times[i]
	s0, s1 := ip.samples[i-1], ip.samples[i]
	w := (t - t0) / (t1 - t0)

	o := newSample(s0.Values.Shape...)
	floats.SubTo(o.Values.Elements, s1.Values.Elements, s0.Values.Elements)
	floats.AddScaledTo(o.Values.Elements, s0.Values.Elements, w, o.Values.Elements)
	for c := range o.Invalid {
		o.Invalid[c] = (s0.Invalid[c] && w != 1) || (s1.Invalid[c] && w != 0)
	}
	return o
}
