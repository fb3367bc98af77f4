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

// ArcticLatitude is the southern edge [degrees north] of the
// region included in the calculation.
const ArcticLatitude = 65.0

// Grid holds the latitude and longitude [degrees] of the center of each
// cell in a two-dimensional [south-north, west-east] mesh.
// Grids are not modified after they are created, so they can be
// shared among fields.
type Grid struct {
	Lat, Lon *sparse.DenseArray
}

// NewArcticGrid creates a grid from raw latitude and longitude coordinate
// arrays, which must either both be one-dimensional (a regular lat/lon
// grid) or both be two-dimensional with the same shape (a curvilinear grid).
// Only rows with at least one latitude >= minLat are kept. Longitudes are
// normalized to [0, 360). The returned slice holds the indices of the
// kept rows in the input arrays.
func NewArcticGrid(lat, lon *sparse.DenseArray, minLat float64) (*Grid, []int, error) {
	switch {
	case len(lat.Shape) == 1 && len(lon.Shape) == 1:
		var rows []int
		for j, v := range lat.Elements {
			if v >= minLat {
				rows = append(rows, j)
			}
		}
		if len(rows) == 0 {
			return nil, nil, &GridMismatchError{Msg: fmt.Sprintf("no latitudes >= %g", minLat)}
		}
		nx := len(lon.Elements)
		g := &Grid{
			Lat: sparse.ZerosDense(len(rows), nx),
			Lon: sparse.ZerosDense(len(rows), nx),
		}
		for jj, j := range rows {
			for i, x := range lon.Elements {
				g.Lat.Elements[jj*nx+i] = lat.Elements[j]
				g.Lon.Elements[jj*nx+i] = normalizeLon(x)
			}
		}
		return g, rows, nil
	case len(lat.Shape) == 2 && len(lon.Shape) == 2:
		if lat.Shape[0] != lon.Shape[0] || lat.Shape[1] != lon.Shape[1] {
			return nil, nil, &GridMismatchError{Msg: fmt.Sprintf("latitude shape %v != longitude shape %v", lat.Shape, lon.Shape)}
		}
		ny, nx := lat.Shape[0], lat.Shape[1]
		var rows []int
		for j := 0; j < ny; j++ {
			for i := 0; i < nx; i++ {
				if lat.Elements[j*nx+i] >= minLat {
					rows = append(rows, j)
					break
				}
			}
		}
		if len(rows) == 0 {
			return nil, nil, &GridMismatchError{Msg: fmt.Sprintf("no latitudes >= %g", minLat)}
		}
		g := &Grid{
			Lat: sparse.ZerosDense(len(rows), nx),
			Lon: sparse.ZerosDense(len(rows), nx),
		}
		for jj, j := range rows {
			copy(g.Lat.Elements[jj*nx:(jj+1)*nx], lat.Elements[j*nx:(j+1)*nx])
			for i := 0; i < nx; i++ {
				g.Lon.Elements[jj*nx+i] = normalizeLon(lon.Elements[j*nx+i])
			}
		}
		return g, rows, nil
	default:
		return nil, nil, &GridMismatchError{Msg: fmt.Sprintf("unsupported coordinate dimensions: latitude %v, longitude %v", lat.Shape, lon.Shape)}
	}
}

// normalizeLon maps a longitude to [0, 360).
func normalizeLon(x float64) float64 {
	x = math.Mod(x, 360)
	if x < 0 {
		x += 360
	}
	return x
}

// Ny returns the number of rows in the grid.
func (g *Grid) Ny() int { return g.Lat.Shape[0] }

// Nx returns the number of columns in the grid.
func (g *Grid) Nx() int { return g.Lat.Shape[1] }

// Len returns the number of cells in the grid.
func (g *Grid) Len() int { return len(g.Lat.Elements) }

// Equal returns whether g and o have the same shape and coordinates.
func (g *Grid) Equal(o *Grid) bool {
	if g == o {
		return true
	}
	if g == nil || o == nil {
		return false
	}
	if g.Ny() != o.Ny() || g.Nx() != o.Nx() {
		return false
	}
	for i, v := range g.Lat.Elements {
		if v != o.Lat.Elements[i] || g.Lon.Elements[i] != o.Lon.Elements[i] {
			return false
		}
	}
	return true
}

// check makes sure the latitude and longitude arrays agree.
func (g *Grid) check() error {
	if len(g.Lat.Shape) != 2 || len(g.Lon.Shape) != 2 ||
		g.Lat.Shape[0] != g.Lon.Shape[0] || g.Lat.Shape[1] != g.Lon.Shape[1] {
		return &GridMismatchError{Msg: fmt.Sprintf("latitude shape %v != longitude shape %v", g.Lat.Shape, g.Lon.Shape)}
	}
	return nil
}
