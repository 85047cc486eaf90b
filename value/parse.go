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

import (
	"strconv"

	"github.com/fuersten/csvsqldb/csqlerr"
)

func digit(b byte) (int, bool) {
	if b < '0' || b > '9' {
		return 0, false
	}
	return int(b - '0'), true
}

func digits2(s string, i int) (int, bool) {
	d1, ok1 := digit(s[i])
	d2, ok2 := digit(s[i+1])
	if !ok1 || !ok2 {
		return 0, false
	}
	return d1*10 + d2, true
}

func digits4(s string, i int) (int, bool) {
	d1, ok1 := digit(s[i])
	d2, ok2 := digit(s[i+1])
	d3, ok3 := digit(s[i+2])
	d4, ok4 := digit(s[i+3])
	if !ok1 || !ok2 || !ok3 || !ok4 {
		return 0, false
	}
	return d1*1000 + d2*100 + d3*10 + d4, true
}

// ParseISODate parses a strict "YYYY-MM-DD" literal, per
// original_source/libcsvsqldb/base/csv_parser.cpp's parseDate.
func ParseISODate(s string) (Value, error) {
	if len(s) != 10 || s[4] != '-' || s[7] != '-' {
		return Value{}, &csqlerr.DateTimeError{Field: "date", Value: s}
	}
	year, ok1 := digits4(s, 0)
	month, ok2 := digits2(s, 5)
	day, ok3 := digits2(s, 8)
	if !ok1 || !ok2 || !ok3 || month < 1 || month > 12 || day < 1 || day > 31 {
		return Value{}, &csqlerr.DateTimeError{Field: "date", Value: s}
	}
	return NewDate(toJulianDay(year, month, day)), nil
}

// ParseISOTime parses a strict "HH:MM:SS" literal.
func ParseISOTime(s string) (Value, error) {
	if len(s) != 8 || s[2] != ':' || s[5] != ':' {
		return Value{}, &csqlerr.DateTimeError{Field: "time", Value: s}
	}
	hour, ok1 := digits2(s, 0)
	minute, ok2 := digits2(s, 3)
	second, ok3 := digits2(s, 6)
	if !ok1 || !ok2 || !ok3 || hour > 23 || minute > 59 || second > 59 {
		return Value{}, &csqlerr.DateTimeError{Field: "time", Value: s}
	}
	return NewTime(toMillisOfDay(hour, minute, second, 0)), nil
}

// ParseISOTimestamp parses "YYYY-MM-DDTHH:MM:SS[.sss]", the 'T' optionally
// replaced by a space.
func ParseISOTimestamp(s string) (Value, error) {
	if len(s) < 19 || s[4] != '-' || s[7] != '-' || (s[10] != 'T' && s[10] != ' ') || s[13] != ':' || s[16] != ':' {
		return Value{}, &csqlerr.DateTimeError{Field: "timestamp", Value: s}
	}
	year, ok1 := digits4(s, 0)
	month, ok2 := digits2(s, 5)
	day, ok3 := digits2(s, 8)
	hour, ok4 := digits2(s, 11)
	minute, ok5 := digits2(s, 14)
	second, ok6 := digits2(s, 17)
	if !ok1 || !ok2 || !ok3 || !ok4 || !ok5 || !ok6 || month < 1 || month > 12 || day < 1 || day > 31 || hour > 23 || minute > 59 || second > 59 {
		return Value{}, &csqlerr.DateTimeError{Field: "timestamp", Value: s}
	}
	ns := 0
	if len(s) > 19 {
		if s[19] != '.' {
			return Value{}, &csqlerr.DateTimeError{Field: "timestamp", Value: s}
		}
		frac := s[20:]
		if len(frac) == 0 || len(frac) > 9 {
			return Value{}, &csqlerr.DateTimeError{Field: "timestamp", Value: s}
		}
		n, err := strconv.Atoi(frac)
		if err != nil {
			return Value{}, &csqlerr.DateTimeError{Field: "timestamp", Value: s}
		}
		for i := len(frac); i < 9; i++ {
			n *= 10
		}
		ns = n
	}
	jd := toJulianDay(year, month, day)
	ms := toMillisOfDay(hour, minute, second, ns)
	return NewTimestamp(jd, ms), nil
}

// ParseLiteral parses an ISO literal for the given target type, used by
// implicit string<->date/time/timestamp comparisons.
func ParseLiteral(t Type, s string) (Value, error) {
	switch t {
	case Date:
		return ParseISODate(s)
	case Time:
		return ParseISOTime(s)
	case Timestamp:
		return ParseISOTimestamp(s)
	default:
		return Value{}, &csqlerr.DateTimeError{Field: t.String(), Value: s}
	}
}
