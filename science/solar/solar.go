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

// Package solar calculates the position of the sun in the sky.
package solar

import (
	"math"
	"time"

	"github.com/sixdouglas/suncalc"
)

// Altitude returns the solar altitude angle [degrees above the horizon]
// at each of the given latitudes and longitudes [degrees] at time t.
// Atmospheric refraction is not included.
func Altitude(lat, lon []float64, t time.Time) []float64 {
	t = t.UTC()
	o := make([]float64, len(lat))
	for i, la := range lat {
		o[i] = suncalc.GetPosition(t, la, normalizeLon(lon[i])).Altitude * 180 / math.Pi
	}
	return o
}

// normalizeLon maps longitude x [degrees] to [-180, 180).
func normalizeLon(x float64) float64 {
	x = math.Mod(x+180, 360)
	if x < 0 {
		x += 360
	}
	return x - 180
}
