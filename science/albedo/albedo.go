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

// Package albedo provides surface albedo curves for open ocean and
// sea ice under clear and cloudy skies, as functions of the solar
// zenith angle.
package albedo

import (
	"fmt"
	"math"
	"sort"
)

const (
	// MeltTemperature is the surface air temperature [K] at or above
	// which sea ice is assumed to be melting.
	MeltTemperature = 273.15 - 1

	// ThinIce is the ice thickness [m] below which sea ice is
	// treated as a blend of open water and ice.
	ThinIce = 0.5
)

// Curve is the albedo of one surface type as a function of
// solar zenith angle.
type Curve struct {
	zenith, albedo []float64
}

// NewCurve creates a new curve from zenith angles [degrees] and the
// corresponding albedos. NaN values are dropped from each slice
// and the points are sorted by zenith angle.
func NewCurve(zenith, albedo []float64) (*Curve, error) {
	c := &Curve{zenith: dropNaN(zenith), albedo: dropNaN(albedo)}
	if len(c.zenith) != len(c.albedo) {
		return nil, fmt.Errorf("albedo: curve has %d zenith angles but %d albedos", len(c.zenith), len(c.albedo))
	}
	if len(c.zenith) == 0 {
		return nil, fmt.Errorf("albedo: curve has no points")
	}
	sort.Sort(c)
	return c, nil
}

func dropNaN(v []float64) []float64 {
	o := make([]float64, 0, len(v))
	for _, x := range v {
		if !math.IsNaN(x) {
			o = append(o, x)
		}
	}
	return o
}

func (c *Curve) Len() int           { return len(c.zenith) }
func (c *Curve) Less(i, j int) bool { return c.zenith[i] < c.zenith[j] }
func (c *Curve) Swap(i, j int) {
	c.zenith[i], c.zenith[j] = c.zenith[j], c.zenith[i]
	c.albedo[i], c.albedo[j] = c.albedo[j], c.albedo[i]
}

// At returns the albedo at zenith angle z [degrees], linearly
// interpolated between the curve points and held constant beyond
// the first and last points. The sun is below the horizon for
// z > 90, where At returns 0.
func (c *Curve) At(z float64) float64 {
	if z > 90 {
		return 0
	}
	n := len(c.zenith)
	if z <= c.zenith[0] {
		return c.albedo[0]
	}
	if z >= c.zenith[n-1] {
		return c.albedo[n-1]
	}
	i := sort.SearchFloat64s(c.zenith, z)
	if c.zenith[i] == z {
		return c.albedo[i]
	}
	z0, z1 := c.zenith[i-1], c.zenith[i]
	a0, a1 := c.albedo[i-1], c.albedo[i]
	return a0 + (a1-a0)*(z-z0)/(z1-z0)
}

func (c *Curve) all(zenith []float64) []float64 {
	o := make([]float64, len(zenith))
	for i, z := range zenith {
		o[i] = c.At(z)
	}
	return o
}

// Table holds the six albedo curves needed to characterize a
// partially ice-covered, partially cloudy ocean.
type Table struct {
	ClearOcean, CloudyOcean        *Curve
	ClearBrightIce, ClearDarkIce   *Curve
	CloudyBrightIce, CloudyDarkIce *Curve
}

// SeaAlbedo returns the open ocean albedo at each zenith angle [degrees].
func (t *Table) SeaAlbedo(zenith []float64, clearSky bool) []float64 {
	if clearSky {
		return t.ClearOcean.all(zenith)
	}
	return t.CloudyOcean.all(zenith)
}

// IceFraction returns the weight of the ice albedo for ice of
// thickness h [m]. Thin ice is partially transparent, so its albedo
// is a blend of the ice and ocean albedos.
func IceFraction(h float64) float64 {
	return math.Min(math.Atan(4*h)/math.Atan(4*ThinIce), 1)
}

// IceAlbedo returns the sea ice albedo at each zenith angle [degrees]
// given the ice thickness [m] and surface air temperature [K].
// Ice at or above MeltTemperature uses the dark (melting) curve and
// colder ice uses the bright curve. Ice thinner than ThinIce is blended
// with the ocean albedo sea. If sea is nil it is calculated with
// SeaAlbedo.
func (t *Table) IceAlbedo(zenith, thickness, temperature []float64, clearSky bool, sea []float64) []float64 {
	bright, dark := t.CloudyBrightIce, t.CloudyDarkIce
	if clearSky {
		bright, dark = t.ClearBrightIce, t.ClearDarkIce
	}
	if sea == nil {
		sea = t.SeaAlbedo(zenith, clearSky)
	}
	o := make([]float64, len(zenith))
	for i, z := range zenith {
		ice := bright
		if temperature[i] >= MeltTemperature {
			ice = dark
		}
		a := ice.At(z)
		if h := thickness[i]; h < ThinIce {
			fh := IceFraction(h)
			a = sea[i]*(1-fh) + a*fh
		}
		o[i] = a
	}
	return o
}
