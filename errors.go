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
	"errors"
	"fmt"
	"time"
)

// DataFormatError is returned when a source dataset is missing a
// required variable, dimension, or attribute, or when its contents
// are inconsistent.
type DataFormatError struct {
	File string // the offending file, if known
	Msg  string
}

func (e *DataFormatError) Error() string {
	if e.File == "" {
		return "iceforcing: data format: " + e.Msg
	}
	return fmt.Sprintf("iceforcing: data format: %s: %s", e.File, e.Msg)
}

func formatErrorf(file, format string, a ...interface{}) error {
	return &DataFormatError{File: file, Msg: fmt.Sprintf(format, a...)}
}

// TimeAlignmentError is returned when two fields queried at the same
// offset report different calendar dates.
type TimeAlignmentError struct {
	Offset    float64 // seconds since the data set start
	Reference string  // key of the reference field
	Field     string  // key of the disagreeing field
	Want, Got time.Time
}

func (e *TimeAlignmentError) Error() string {
	return fmt.Sprintf("iceforcing: time alignment: at offset %gs field %s is at %s but %s is at %s",
		e.Offset, e.Field, e.Got.Format(time.RFC3339), e.Reference, e.Want.Format(time.RFC3339))
}

// CycleFoldError is returned when a query time cannot be folded into
// a canonical cycle within the allowed number of steps.
type CycleFoldError struct {
	Offset float64 // seconds since the cycle anchor
	Steps  int
}

func (e *CycleFoldError) Error() string {
	return fmt.Sprintf("iceforcing: folding offset %gs into the canonical cycle did not finish in %d steps",
		e.Offset, e.Steps)
}

// GridMismatchError is returned when grids or gridded values do not
// have compatible shapes.
type GridMismatchError struct {
	Msg string
}

func (e *GridMismatchError) Error() string { return "iceforcing: grid mismatch: " + e.Msg }

// ErrNoValidFlux is returned when a flux calculation has no grid cell
// with valid concentration, thickness and temperature.
var ErrNoValidFlux = errors.New("iceforcing: no valid grid cells in absorbed flux calculation")
