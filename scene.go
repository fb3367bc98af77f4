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
)

// Albedos provides surface albedos as a function of solar
// zenith angle [degrees].
type Albedos interface {
	// SeaAlbedo returns the albedo of open water.
	SeaAlbedo(zenith []float64, clearSky bool) []float64

	// IceAlbedo returns the albedo of sea ice with the given
	// thickness [m] and surface air temperature [K]. sea holds
	// the open water albedo under the same sky conditions.
	IceAlbedo(zenith, thickness, temperature []float64, clearSky bool, sea []float64) []float64
}

// SceneFlux returns the fraction of incoming solar radiation at the top
// of the atmosphere that is absorbed by the surface in each grid cell.
// Each cell is divided into four regimes (ice under clouds, ice under
// clear sky, ocean under clouds and ocean under clear sky) weighted
// by the ice concentration and cloud fraction, and the absorbed fraction
// in each regime is one minus the regime's albedo, scaled by the cosine
// of the zenith angle [degrees].
//
// Invalid cloud cells are treated as cloud-free. The result has the
// same validity as thickness. ErrNoValidFlux is returned if no cell has
// valid ice concentration, thickness and temperature.
func SceneFlux(albedos Albedos, zenith []float64, ice, thickness, temperature, cloud Sample) (Sample, error) {
	n := len(zenith)
	for _, s := range []struct {
		name string
		s    Sample
	}{{"ice concentration", ice}, {"ice thickness", thickness}, {"temperature", temperature}, {"cloud fraction", cloud}} {
		if len(s.s.Values.Elements) != n || len(s.s.Invalid) != n {
			return Sample{}, &GridMismatchError{Msg: fmt.Sprintf("%s has %d values but there are %d zenith angles",
				s.name, len(s.s.Values.Elements), n)}
		}
	}
	cosZenith := make([]float64, n)
	for i, z := range zenith {
		cosZenith[i] = math.Max(math.Cos(z*math.Pi/180), 0)
	}
	c := make([]float64, n)
	for i, v := range cloud.Values.Elements {
		if !cloud.Invalid[i] {
			c[i] = v
		}
	}

	h, temp := thickness.Values.Elements, temperature.Values.Elements
	seaCloudy := albedos.SeaAlbedo(zenith, false)
	seaClear := albedos.SeaAlbedo(zenith, true)
	iceCloudy := albedos.IceAlbedo(zenith, h, temp, false, seaCloudy)
	iceClear := albedos.IceAlbedo(zenith, h, temp, true, seaClear)

	o := newSample(thickness.Values.Shape...)
	anyValid := false
	for i := range o.Values.Elements {
		if !ice.Invalid[i] && !thickness.Invalid[i] && !temperature.Invalid[i] {
			anyValid = true
		}
		if thickness.Invalid[i] {
			o.Invalid[i] = true
			continue
		}
		fi := ice.Values.Elements[i]
		fc := c[i]
		o.Values.Elements[i] = cosZenith[i] * ((1-iceCloudy[i])*fi*fc +
			(1-iceClear[i])*fi*(1-fc) +
			(1-seaCloudy[i])*(1-fi)*fc +
			(1-seaClear[i])*(1-fi)*(1-fc))
	}
	if !anyValid {
		return Sample{}, ErrNoValidFlux
	}
	return o, nil
}
