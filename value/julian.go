// Copyright (C) 2022 Sneller, Inc.
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// This program is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
// GNU Affero General Public License for more details.
//
// You should have received a copy of the GNU Affero General Public License
// along with this program.  If not, see <http://www.gnu.org/licenses/>.

package value

// Julian day / millisecond-of-day conversions realize the bit-exact Block
// layout: a date is a 4-byte Julian day, a time a 4-byte millisecond-of-day.
// The Fliegel & Van Flandern algorithm is the standard proleptic-Gregorian
// <-> Julian day conversion; it is not specific to any one codebase.

func toJulianDay(year, month, day int) int64 {
	a := (14 - month) / 12
	y := year + 4800 - a
	m := month + 12*a - 3
	jdn := int64(day) + int64((153*m+2)/5) + int64(365*y) + int64(y/4) - int64(y/100) + int64(y/400) - 32045
	return jdn
}

func fromJulianDay(jdn int64) (year, month, day int) {
	a := jdn + 32044
	b := (4*a + 3) / 146097
	c := a - (146097*b)/4
	d := (4*c + 3) / 1461
	e := c - (1461*d)/4
	m := (5*e + 2) / 153
	day = int(e - (153*m+2)/5 + 1)
	month = int(m + 3 - 12*(m/10))
	year = int(100*b + d - 4800 + m/10)
	return
}

func toMillisOfDay(hour, minute, second, nanosecond int) int64 {
	return int64(hour)*3_600_000 + int64(minute)*60_000 + int64(second)*1000 + int64(nanosecond)/1_000_000
}

func fromMillisOfDay(ms int64) (hour, minute, second, nanosecond int) {
	hour = int(ms / 3_600_000)
	ms %= 3_600_000
	minute = int(ms / 60_000)
	ms %= 60_000
	second = int(ms / 1000)
	ms %= 1000
	nanosecond = int(ms) * 1_000_000
	return
}
