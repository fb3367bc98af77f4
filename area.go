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

	"github.com/ctessum/sparse"
)

// EarthRadius is the radius of the earth [m].
const EarthRadius = 6.3781e6

// areaLon is the longitude [degrees] where row areas are evaluated.
const areaLon = 90.0

// CellArea returns the surface area [m²] of the section of a sphere
// between latitudes lat1 and lat2 and longitudes lon1 and lon2 [degrees].
func CellArea(lat1, lat2, lon1, lon2 float64) float64 {
	const circ = math.Pi / 180 * EarthRadius * EarthRadius
	rlat1 := lat1 * math.Pi / 180
	rlat2 := lat2 * math.Pi / 180
	return circ * math.Abs(math.Sin(rlat1)-math.Sin(rlat2)) * math.Abs(lon1-lon2)
}

// EarthSurfaceArea returns the total surface area of the earth [m²].
func EarthSurfaceArea() float64 {
	return CellArea(-90, 90, 0, 360)
}

// GridAreas returns the area [m²] of each cell in g, which is assumed
// to be a regular latitude-longitude grid so that areas only
// vary by row. Cell edges are halfway between adjacent cell centers;
// the first and last rows end at the outermost cell centers.
func GridAreas(g *Grid) (*sparse.DenseArray, error) {
	ny, nx := g.Ny(), g.Nx()
	if ny < 2 || nx < 2 {
		return nil, &GridMismatchError{Msg: fmt.Sprintf("calculating areas requires at least 2 rows and columns but grid is %dx%d", ny, nx)}
	}
	lats := make([]float64, ny)
	for j := range lats {
		lats[j] = g.Lat.Get(j, 0)
	}
	lonStep := (g.Lon.Get(0, 1) - g.Lon.Get(0, 0)) * 0.5
	latStep := (lats[1] - lats[0]) * 0.5
	lon1 := areaLon - lonStep
	lon2 := areaLon + lonStep

	rowArea := make([]float64, ny)
	for j, lat := range lats {
		rowArea[j] = CellArea(lat-latStep, lat+latStep, lon1, lon2)
	}
	rowArea[0] = CellArea(lats[0], lats[0]+latStep, lon1, lon2)
	rowArea[ny-1] = CellArea(lats[ny-2]+latStep, lats[ny-1], lon1, lon2)

	o := sparse.ZerosDense(ny, nx)
	for j, a := range rowArea {
		for i := 0; i < nx; i++ {
			o.Elements[j*nx+i] = a
		}
	}
	return o, nil
}
