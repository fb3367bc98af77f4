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

	"gonum.org/v1/gonum/spatial/kdtree"
)

// cellPoint is a grid cell center in latitude-longitude space.
type cellPoint struct {
	lat, lon float64
	index    int // index of the cell in the flattened grid
}

// Compare implements kdtree.Comparable.
func (p cellPoint) Compare(c kdtree.Comparable, d kdtree.Dim) float64 {
	q := c.(cellPoint)
	if d == 0 {
		return p.lat - q.lat
	}
	return p.lon - q.lon
}

// Dims implements kdtree.Comparable.
func (p cellPoint) Dims() int { return 2 }

// Distance implements kdtree.Comparable. It returns the squared
// distance in degrees.
func (p cellPoint) Distance(c kdtree.Comparable) float64 {
	q := c.(cellPoint)
	dlat, dlon := p.lat-q.lat, p.lon-q.lon
	return dlat*dlat + dlon*dlon
}

type cellPoints []cellPoint

func (p cellPoints) Index(i int) kdtree.Comparable { return p[i] }
func (p cellPoints) Len() int                      { return len(p) }
func (p cellPoints) Pivot(d kdtree.Dim) int {
	return cellPlane{cellPoints: p, Dim: d}.Pivot()
}
func (p cellPoints) Slice(start, end int) kdtree.Interface { return p[start:end] }

// cellPlane sorts cell points along one dimension.
type cellPlane struct {
	kdtree.Dim
	cellPoints
}

func (p cellPlane) Less(i, j int) bool {
	if p.Dim == 0 {
		return p.cellPoints[i].lat < p.cellPoints[j].lat
	}
	return p.cellPoints[i].lon < p.cellPoints[j].lon
}
func (p cellPlane) Pivot() int { return kdtree.Partition(p, kdtree.MedianOfMedians(p)) }
func (p cellPlane) Slice(start, end int) kdtree.SortSlicer {
	p.cellPoints = p.cellPoints[start:end]
	return p
}
func (p cellPlane) Swap(i, j int) {
	p.cellPoints[i], p.cellPoints[j] = p.cellPoints[j], p.cellPoints[i]
}

// nearestCells returns, for each cell in dst, the index of the
// cell in src whose center is closest in latitude-longitude space.
func nearestCells(src, dst *Grid) []int {
	pts := make(cellPoints, src.Len())
	for i := range pts {
		pts[i] = cellPoint{lat: src.Lat.Elements[i], lon: src.Lon.Elements[i], index: i}
	}
	tree := kdtree.New(pts, false)
	o := make([]int, dst.Len())
	for i := range o {
		q := cellPoint{lat: dst.Lat.Elements[i], lon: dst.Lon.Elements[i]}
		c, _ := tree.Nearest(q)
		o[i] = c.(cellPoint).index
	}
	return o
}

// Regrid resamples values from the src grid onto the dst grid
// by copying the value and validity of the nearest src cell to each
// dst cell. Values are never blended, so categorical boundaries
// such as ice edges are preserved.
func Regrid(src *Grid, values []Sample, dst *Grid) ([]Sample, error) {
	if err := src.check(); err != nil {
		return nil, err
	}
	if err := dst.check(); err != nil {
		return nil, err
	}
	for i, v := range values {
		if len(v.Values.Elements) != src.Len() || len(v.Invalid) != src.Len() {
			return nil, &GridMismatchError{Msg: fmt.Sprintf("sample %d has %d values but the source grid has %d cells",
				i, len(v.Values.Elements), src.Len())}
		}
	}
	nearest := nearestCells(src, dst)
	o := make([]Sample, len(values))
	for t, v := range values {
		r := newSample(dst.Ny(), dst.Nx())
		for i, j := range nearest {
			r.Values.Elements[i] = v.Values.Elements[j]
			r.Invalid[i] = v.Invalid[j]
		}
		o[t] = r
	}
	return o, nil
}

// Regrid returns a version of s on grid g. If s is already on g,
// s itself is returned.
func (s *Series) Regrid(g *Grid) (*Series, error) {
	if s.Grid.Equal(g) {
		return s, nil
	}
	samples, err := Regrid(s.Grid, s.Samples, g)
	if err != nil {
		return nil, fmt.Errorf("iceforcing: regridding %s: %w", s.Key, err)
	}
	o := *s
	o.Grid = g
	o.Samples = samples
	return &o, nil
}
