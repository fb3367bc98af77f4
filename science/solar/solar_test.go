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

package solar

import (
	"math"
	"testing"
	"time"
)

func TestAltitude(t *testing.T) {
	summer := time.Date(2056, time.June, 21, 12, 0, 0, 0, time.UTC)
	alt := Altitude([]float64{90, 66.56, 0}, []float64{0, 0, 0}, summer)
	if math.Abs(alt[0]-23.44) > 0.5 {
		t.Errorf("north pole in summer: %g", alt[0])
	}
	if math.Abs(alt[1]-46.88) > 1 {
		t.Errorf("arctic circle at noon in summer: %g", alt[1])
	}
	if math.Abs(alt[2]-66.56) > 1 {
		t.Errorf("equator at noon in summer: %g", alt[2])
	}

	winter := time.Date(2056, time.December, 21, 12, 0, 0, 0, time.UTC)
	if a := Altitude([]float64{80}, []float64{0}, winter)[0]; a > 0 {
		t.Errorf("polar night: %g", a)
	}

	// The sun is highest at noon local time.
	lat, lon := []float64{70}, []float64{90}
	noon := Altitude(lat, lon, summer.Add(-6*time.Hour))[0]
	midnight := Altitude(lat, lon, summer.Add(6*time.Hour))[0]
	if !(noon > midnight) {
		t.Errorf("local noon %g should be higher than local midnight %g", noon, midnight)
	}
	if math.Abs(noon-43.44) > 1 {
		t.Errorf("local noon: %g", noon)
	}

	// Longitudes east of 180 are the same as their western equivalents.
	east := Altitude(lat, []float64{270}, summer)[0]
	west := Altitude(lat, []float64{-90}, summer)[0]
	if math.Abs(east-west) > 1e-9 {
		t.Errorf("longitude 270 gives %g but -90 gives %g", east, west)
	}
}

func TestNormalizeLon(t *testing.T) {
	for _, test := range []struct{ in, want float64 }{
		{0, 0}, {90, 90}, {180, -180}, {270, -90}, {359, -1}, {-90, -90}, {-540, -180},
	} {
		if have := normalizeLon(test.in); math.Abs(have-test.want) > 1e-12 {
			t.Errorf("normalizeLon(%g) = %g, want %g", test.in, have, test.want)
		}
	}
}
