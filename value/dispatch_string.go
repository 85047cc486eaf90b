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
	"regexp"
	"strings"

	"github.com/fuersten/csvsqldb/regexp2"
)

func likeIsSupported(pattern string) error  { return regexp2.IsSupported(pattern) }
func likeCompile(pattern string) (*regexp.Regexp, error) {
	return regexp2.Compile(pattern, regexp2.SimilarTo)
}

// collate is the Go stand-in for the original's locale-aware strcoll.
// The standard library has no portable strcoll equivalent; byte-wise
// comparison is the closest available primitive.
func collate(a, b string) int { return strings.Compare(a, b) }

func init() {
	registerBinary(OpEQ, String, String, Boolean, func(l, r Value) (Value, error) { return NewBool(collate(l.AsString(), r.AsString()) == 0), nil })
	registerBinary(OpNEQ, String, String, Boolean, func(l, r Value) (Value, error) { return NewBool(collate(l.AsString(), r.AsString()) != 0), nil })
	registerBinary(OpGT, String, String, Boolean, func(l, r Value) (Value, error) { return NewBool(collate(l.AsString(), r.AsString()) > 0), nil })
	registerBinary(OpGE, String, String, Boolean, func(l, r Value) (Value, error) { return NewBool(collate(l.AsString(), r.AsString()) >= 0), nil })
	registerBinary(OpLT, String, String, Boolean, func(l, r Value) (Value, error) { return NewBool(collate(l.AsString(), r.AsString()) < 0), nil })
	registerBinary(OpLE, String, String, Boolean, func(l, r Value) (Value, error) { return NewBool(collate(l.AsString(), r.AsString()) <= 0), nil })

	// Date/Time/Timestamp vs string: the string is parsed as ISO before
	// comparison.
	for _, t := range []Type{Date, Time, Timestamp} {
		t := t
		registerBinary(OpEQ, t, String, Boolean, cmpTypedString(t, func(c int) bool { return c == 0 }))
		registerBinary(OpNEQ, t, String, Boolean, cmpTypedString(t, func(c int) bool { return c != 0 }))
		registerBinary(OpGT, t, String, Boolean, cmpTypedString(t, func(c int) bool { return c > 0 }))
		registerBinary(OpGE, t, String, Boolean, cmpTypedString(t, func(c int) bool { return c >= 0 }))
		registerBinary(OpLT, t, String, Boolean, cmpTypedString(t, func(c int) bool { return c < 0 }))
		registerBinary(OpLE, t, String, Boolean, cmpTypedString(t, func(c int) bool { return c <= 0 }))

		registerBinary(OpEQ, String, t, Boolean, cmpStringTyped(t, func(c int) bool { return c == 0 }))
		registerBinary(OpNEQ, String, t, Boolean, cmpStringTyped(t, func(c int) bool { return c != 0 }))
		registerBinary(OpGT, String, t, Boolean, cmpStringTyped(t, func(c int) bool { return c > 0 }))
		registerBinary(OpGE, String, t, Boolean, cmpStringTyped(t, func(c int) bool { return c >= 0 }))
		registerBinary(OpLT, String, t, Boolean, cmpStringTyped(t, func(c int) bool { return c < 0 }))
		registerBinary(OpLE, String, t, Boolean, cmpStringTyped(t, func(c int) bool { return c <= 0 }))
	}

	// Date - Date / Time - Time / Timestamp - Timestamp yields an integer:
	// days, milliseconds, and seconds respectively.
	registerBinary(OpSub, Date, Date, Integer, func(l, r Value) (Value, error) {
		return NewInt(l.AsJulianDay() - r.AsJulianDay()), nil
	})
	registerBinary(OpSub, Time, Time, Integer, func(l, r Value) (Value, error) {
		return NewInt(l.AsMillisOfDay() - r.AsMillisOfDay()), nil
	})
	registerBinary(OpSub, Timestamp, Timestamp, Integer, func(l, r Value) (Value, error) {
		lj, lm := l.AsTimestampParts()
		rj, rm := r.AsTimestampParts()
		lms := lj*86_400_000 + lm
		rms := rj*86_400_000 + rm
		return NewInt((lms - rms) / 1000), nil
	})

	registerConcat()
}

func cmpTypedString(t Type, pred func(int) bool) func(l, r Value) (Value, error) {
	return func(l, r Value) (Value, error) {
		rv, err := ParseLiteral(t, r.AsString())
		if err != nil {
			return Value{}, err
		}
		return NewBool(pred(compareTyped(t, l, rv))), nil
	}
}

func cmpStringTyped(t Type, pred func(int) bool) func(l, r Value) (Value, error) {
	return func(l, r Value) (Value, error) {
		lv, err := ParseLiteral(t, l.AsString())
		if err != nil {
			return Value{}, err
		}
		return NewBool(pred(compareTyped(t, lv, r))), nil
	}
}

func compareTyped(t Type, l, r Value) int {
	var a, b int64
	switch t {
	case Date:
		a, b = l.AsJulianDay(), r.AsJulianDay()
	case Time:
		a, b = l.AsMillisOfDay(), r.AsMillisOfDay()
	case Timestamp:
		a, b = l.i, r.i
	}
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	default:
		return 0
	}
}

// registerConcat wires CONCAT for string x string, string x numeric,
// numeric x string, string x date/time/timestamp, date/time/timestamp x
// string -- the non-string side formatted in canonical ISO form.
func registerConcat() {
	registerBinary(OpConcat, String, String, String, func(l, r Value) (Value, error) {
		return Str(l.AsString() + r.AsString()), nil
	})
	for _, t := range []Type{Integer, Real, Date, Time, Timestamp} {
		t := t
		registerBinary(OpConcat, String, t, String, func(l, r Value) (Value, error) { return Str(l.AsString() + r.String()), nil })
		registerBinary(OpConcat, t, String, String, func(l, r Value) (Value, error) { return Str(l.String() + r.AsString()), nil })
	}
}

// CompileLike compiles a SQL LIKE pattern into a regular expression via
// regexp2.Compile(SimilarTo).
func CompileLike(pattern string) (*regexp.Regexp, error) {
	if err := likeIsSupported(pattern); err != nil {
		return nil, err
	}
	return likeCompile(pattern)
}

// Like evaluates `lhs LIKE re`, rendering any non-string lhs via its
// canonical String() form first.
func Like(lhs Value, re *regexp.Regexp) (Value, error) {
	if lhs.IsNull() {
		return NewNull(Boolean), nil
	}
	return NewBool(re.MatchString(lhs.String())), nil
}
