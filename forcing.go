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
	"time"

	"github.com/ctessum/sparse"
	"github.com/ctessum/unit"
	"github.com/sirupsen/logrus"
)

// SolarConstant is the top-of-atmosphere solar irradiance [W/m²].
const SolarConstant = 1365.0

// WattPerMeter2 is the dimension of radiative forcing.
var WattPerMeter2 = unit.Dimensions{
	unit.MassDim: 1,
	unit.TimeDim: -3,
}

// Aggregate converts integral into a radiative forcing [W/m²]:
// the total solar energy absorbed by the valid cells, given their
// areas [m²], spread over the surface of the earth and the length
// of the integration window.
func Aggregate(integral *Integral, areas *sparse.DenseArray) (*unit.Unit, error) {
	if len(areas.Elements) != len(integral.Energy) || len(integral.Invalid) != len(integral.Energy) {
		return nil, &GridMismatchError{Msg: fmt.Sprintf("integral has %d cells but there are %d areas",
			len(integral.Energy), len(areas.Elements))}
	}
	if !(integral.Seconds > 0) {
		return nil, fmt.Errorf("iceforcing: integration window length must be positive but is %g s", integral.Seconds)
	}
	var total float64
	for i, e := range integral.Energy {
		if !integral.Invalid[i] {
			total += e * SolarConstant * areas.Elements[i]
		}
	}
	absorbed := unit.New(total, unit.Joule)
	forcing := unit.Div(absorbed, unit.Mul(
		unit.New(EarthSurfaceArea(), unit.Meter2),
		unit.New(integral.Seconds, unit.Second),
	))
	if err := forcing.Check(WattPerMeter2); err != nil {
		panic(err)
	}
	return forcing, nil
}

// RadiativeForcing calculates the radiative forcing [W/m²] over the
// calendar year beginning at start. It also returns the underlying
// integral.
func (it *Integrator) RadiativeForcing(start time.Time) (*unit.Unit, *Integral, error) {
	integral, err := it.Integrate(start)
	if err != nil {
		return nil, nil, err
	}
	f, err := Aggregate(integral, it.Data.Areas)
	if err != nil {
		return nil, nil, err
	}
	it.log().WithFields(logrus.Fields{
		"year":    start,
		"forcing": f.Value(),
	}).Info("iceforcing calculated radiative forcing")
	return f, integral, nil
}
