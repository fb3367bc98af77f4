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
	"time"

	"github.com/sirupsen/logrus"
)

// DefaultChunkSize is the default length [s] of the time window
// that is integrated at once.
const DefaultChunkSize = 24 * 60 * 60.0

// Integrator calculates the time integral of the fraction of solar
// radiation absorbed by the surface in each grid cell.
type Integrator struct {
	Data    *DataSet
	Albedos Albedos

	// Step is the integration time step [s].
	Step float64

	// ChunkSize is the length [s] of the time window that is sampled
	// and integrated at once. It defaults to DefaultChunkSize.
	ChunkSize float64

	// Log receives progress messages. It defaults to the logrus
	// standard logger.
	Log logrus.FieldLogger
}

// Integral holds the time-integrated absorbed solar fraction for each
// grid cell.
type Integral struct {
	// Energy is the integral of the absorbed fraction of top-of-atmosphere
	// solar radiation over time [s], for each grid cell.
	Energy []float64

	// Invalid is true for cells excluded from the integral.
	Invalid []bool

	// Start and End are the limits of the integration window.
	Start, End time.Time

	// Seconds is the length of the integration window [s].
	Seconds float64
}

func (it *Integrator) log() logrus.FieldLogger {
	if it.Log == nil {
		return logrus.StandardLogger()
	}
	return it.Log
}

// Integrate integrates over the calendar year beginning at start.
func (it *Integrator) Integrate(start time.Time) (*Integral, error) {
	return it.IntegrateWindow(start, start.AddDate(1, 0, 0))
}

// IntegrateWindow integrates over the time window [start, end)
// using the trapezoidal rule. The window is processed in chunks of
// length ChunkSize, which share their end points so that the
// result does not depend on the chunk size. Within a chunk, a segment
// between two samples only contributes to the integral of a cell if
// the cell is valid at both samples, and a cell with no valid
// segments in a chunk is excluded from the final result.
// Cells that are invalid throughout the sea ice concentration
// record are also excluded.
func (it *Integrator) IntegrateWindow(start, end time.Time) (*Integral, error) {
	if !(it.Step > 0) {
		return nil, fmt.Errorf("iceforcing: integration time step must be positive but is %g", it.Step)
	}
	chunkSize := it.ChunkSize
	if chunkSize == 0 {
		chunkSize = DefaultChunkSize
	}
	if chunkSize < 0 {
		return nil, fmt.Errorf("iceforcing: integration chunk size must be positive but is %g", chunkSize)
	}
	mask := it.Data.Mask()
	o := &Integral{
		Energy:  make([]float64, len(mask)),
		Invalid: append([]bool{}, mask...),
		Start:   start,
		End:     end,
		Seconds: end.Sub(start).Seconds(),
	}

	date := start
	offset := start.Sub(it.Data.Start).Seconds()
	nChunks := 0
	for date.Before(end) {
		chunk := math.Min(chunkSize, end.Sub(date).Seconds())
		energy, invalid, err := it.integrateChunk(offset, chunk)
		if err != nil {
			return nil, fmt.Errorf("iceforcing: integrating from %s: %w", date.Format(time.RFC3339), err)
		}
		for i, e := range energy {
			o.Energy[i] += e
			o.Invalid[i] = o.Invalid[i] || invalid[i]
		}
		date = date.Add(seconds(chunk))
		offset += chunk
		nChunks++
		if nChunks%30 == 0 {
			it.log().WithFields(logrus.Fields{
				"date":     date,
				"progress": fmt.Sprintf("%.1f%%", date.Sub(start).Seconds()/o.Seconds*100),
			}).Debug("iceforcing integrating")
		}
	}
	for i, inv := range o.Invalid {
		if inv {
			o.Energy[i] = 0
		}
	}
	return o, nil
}

// integrateChunk integrates the absorbed fraction over the chunk
// starting at offset and ending at or after offset+chunk.
func (it *Integrator) integrateChunk(offset, chunk float64) (energy []float64, invalid []bool, err error) {
	n := int(math.Ceil((chunk+it.Step)/it.Step - 1e-9))
	var prev Sample
	var hasSegment []bool
	for k := 0; k < n; k++ {
		t := offset + float64(k)*it.Step
		flux, err := it.flux(t)
		if err != nil {
			return nil, nil, err
		}
		if k == 0 {
			energy = make([]float64, len(flux.Values.Elements))
			hasSegment = make([]bool, len(energy))
			prev = flux
			continue
		}
		for i, v := range flux.Values.Elements {
			if flux.Invalid[i] || prev.Invalid[i] {
				continue
			}
			energy[i] += it.Step * (prev.Values.Elements[i] + v) / 2
			hasSegment[i] = true
		}
		prev = flux
	}
	invalid = make([]bool, len(energy))
	for i, ok := range hasSegment {
		invalid[i] = !ok
	}
	return energy, invalid, nil
}

// flux returns the absorbed solar fraction at offset t.
func (it *Integrator) flux(t float64) (Sample, error) {
	if err := it.Data.CheckAlignment(t); err != nil {
		return Sample{}, err
	}
	ice, thickness, temperature, cloud, err := it.Data.fields(t)
	if err != nil {
		return Sample{}, err
	}
	return SceneFlux(it.Albedos, it.Data.Zeniths(t), ice, thickness, temperature, cloud)
}
