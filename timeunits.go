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
	"strconv"
	"strings"
	"time"
)

// TimeUnits decodes numeric time coordinates of the form
// "<units> since <reference date>".
type TimeUnits struct {
	// Step is the length of one time unit [s].
	Step float64

	// Base is the reference date.
	Base time.Time

	// NoLeap is true for calendars without leap days.
	NoLeap bool
}

var timeSteps = map[string]float64{
	"seconds": 1, "second": 1, "secs": 1, "sec": 1, "s": 1,
	"minutes": 60, "minute": 60, "mins": 60, "min": 60,
	"hours": 3600, "hour": 3600, "hrs": 3600, "hr": 3600, "h": 3600,
	"days": 86400, "day": 86400, "d": 86400,
}

// ParseTimeUnits parses a time units attribute with the given calendar.
// Supported calendars are "standard", "gregorian" and
// "proleptic_gregorian" (which are all treated as the proleptic
// Gregorian calendar) and "noleap" and "365_day".
// An empty calendar means "standard".
func ParseTimeUnits(units, calendar string) (*TimeUnits, error) {
	tu := new(TimeUnits)
	switch strings.ToLower(strings.TrimSpace(calendar)) {
	case "", "standard", "gregorian", "proleptic_gregorian":
	case "noleap", "365_day":
		tu.NoLeap = true
	default:
		return nil, fmt.Errorf("unsupported calendar %q", calendar)
	}
	parts := strings.SplitN(strings.TrimSpace(units), " since ", 2)
	if len(parts) != 2 {
		return nil, fmt.Errorf("invalid time units %q", units)
	}
	var ok bool
	tu.Step, ok = timeSteps[strings.ToLower(strings.TrimSpace(parts[0]))]
	if !ok {
		return nil, fmt.Errorf("invalid time units %q", units)
	}
	var err error
	tu.Base, err = parseReferenceDate(parts[1])
	if err != nil {
		return nil, fmt.Errorf("invalid time units %q: %v", units, err)
	}
	if tu.NoLeap && tu.Base.Month() == time.February && tu.Base.Day() == 29 {
		return nil, fmt.Errorf("invalid time units %q: February 29 in a calendar without leap days", units)
	}
	return tu, nil
}

// parseReferenceDate parses dates such as "1850-1-1", "2006-01-01 00:00:00",
// "1800-01-01T00:00:0.0Z" and "1979-01-01 00:00:00 UTC".
func parseReferenceDate(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	s = strings.TrimSuffix(s, "UTC")
	s = strings.TrimSpace(strings.TrimSuffix(s, "Z"))
	s = strings.Replace(s, "T", " ", 1)
	fields := strings.Fields(s)
	if len(fields) == 0 || len(fields) > 2 {
		return time.Time{}, fmt.Errorf("invalid date %q", s)
	}
	ymd := strings.Split(fields[0], "-")
	if len(ymd) != 3 {
		return time.Time{}, fmt.Errorf("invalid date %q", s)
	}
	var d [3]int
	for i, f := range ymd {
		v, err := strconv.Atoi(f)
		if err != nil {
			return time.Time{}, fmt.Errorf("invalid date %q", s)
		}
		d[i] = v
	}
	if d[1] < 1 || d[1] > 12 || d[2] < 1 || d[2] > 31 {
		return time.Time{}, fmt.Errorf("invalid date %q", s)
	}
	var clock [3]float64
	if len(fields) == 2 {
		hms := strings.Split(fields[1], ":")
		if len(hms) > 3 {
			return time.Time{}, fmt.Errorf("invalid time of day %q", fields[1])
		}
		for i, f := range hms {
			v, err := strconv.ParseFloat(f, 64)
			if err != nil {
				return time.Time{}, fmt.Errorf("invalid time of day %q", fields[1])
			}
			clock[i] = v
		}
	}
	t := time.Date(d[0], time.Month(d[1]), d[2], 0, 0, 0, 0, time.UTC)
	return t.Add(seconds(clock[0]*3600 + clock[1]*60 + clock[2])), nil
}

// Date returns the date at v time units after the reference date.
func (tu *TimeUnits) Date(v float64) time.Time {
	sec := v * tu.Step
	days := math.Floor(sec / 86400)
	rem := seconds(sec - days*86400)
	if !tu.NoLeap {
		return tu.Base.AddDate(0, 0, int(days)).Add(rem)
	}
	return noLeapAddDays(tu.Base, int(days)).Add(rem)
}

// cumDays is the number of days before each month in a 365-day year.
var cumDays = [13]int{0, 31, 59, 90, 120, 151, 181, 212, 243, 273, 304, 334, 365}

// noLeapAddDays adds days to t in a calendar where every year has
// 365 days.
func noLeapAddDays(t time.Time, days int) time.Time {
	clock := t.Sub(time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location()))
	n := t.Year()*365 + cumDays[t.Month()-1] + t.Day() - 1 + days
	year := n / 365
	doy := n % 365
	if doy < 0 {
		doy += 365
		year--
	}
	m := 1
	for doy >= cumDays[m] {
		m++
	}
	return time.Date(year, time.Month(m), doy-cumDays[m-1]+1, 0, 0, 0, 0, t.Location()).Add(clock)
}
