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
	"testing"
	"time"
)

func TestParseTimeUnits(t *testing.T) {
	tests := []struct {
		units, calendar string
		v               float64
		want            time.Time
	}{
		{
			units: "days since 1850-1-1", calendar: "standard", v: 365,
			want: time.Date(1851, time.January, 1, 0, 0, 0, 0, time.UTC),
		},
		{
			units: "hours since 1800-01-01T00:00:0.0Z", v: 36,
			want: time.Date(1800, time.January, 2, 12, 0, 0, 0, time.UTC),
		},
		{
			units: "hours since 1979-01-01 00:00:00 UTC", calendar: "gregorian", v: 24 * 366,
			want: time.Date(1980, time.January, 2, 0, 0, 0, 0, time.UTC),
		},
		{
			units: "seconds since 2006-01-01 06:30:00", calendar: "proleptic_gregorian", v: 90,
			want: time.Date(2006, time.January, 1, 6, 31, 30, 0, time.UTC),
		},
		{
			units: "days since 2006-01-01 00:00:00", calendar: "noleap", v: 365*50 + 59.5,
			want: time.Date(2056, time.March, 1, 12, 0, 0, 0, time.UTC),
		},
		{
			units: "days since 2006-03-01", calendar: "365_day", v: -1,
			want: time.Date(2006, time.February, 28, 0, 0, 0, 0, time.UTC),
		},
		{
			units: "days since 2000-01-01", calendar: "noleap", v: -365,
			want: time.Date(1999, time.January, 1, 0, 0, 0, 0, time.UTC),
		},
	}
	for _, test := range tests {
		tu, err := ParseTimeUnits(test.units, test.calendar)
		if err != nil {
			t.Errorf("%s: %v", test.units, err)
			continue
		}
		if have := tu.Date(test.v); !have.Equal(test.want) {
			t.Errorf("%s (%s) %g: have %v, want %v", test.units, test.calendar, test.v, have, test.want)
		}
	}
}

func TestParseTimeUnits_errors(t *testing.T) {
	tests := []struct{ units, calendar string }{
		{"days since 2000-01-01", "360_day"},
		{"days after 2000-01-01", ""},
		{"fortnights since 2000-01-01", ""},
		{"days since 2000-13-01", ""},
		{"days since yesterday", ""},
		{"days since 2000-02-29", "noleap"},
	}
	for _, test := range tests {
		if _, err := ParseTimeUnits(test.units, test.calendar); err == nil {
			t.Errorf("%q (%s): expected an error", test.units, test.calendar)
		}
	}
}
