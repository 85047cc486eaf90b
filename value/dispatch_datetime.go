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

func init() {
	for _, t := range []Type{Date, Time, Timestamp} {
		t := t
		registerBinary(OpEQ, t, t, Boolean, func(l, r Value) (Value, error) { return NewBool(compareTyped(t, l, r) == 0), nil })
		registerBinary(OpNEQ, t, t, Boolean, func(l, r Value) (Value, error) { return NewBool(compareTyped(t, l, r) != 0), nil })
		registerBinary(OpGT, t, t, Boolean, func(l, r Value) (Value, error) { return NewBool(compareTyped(t, l, r) > 0), nil })
		registerBinary(OpGE, t, t, Boolean, func(l, r Value) (Value, error) { return NewBool(compareTyped(t, l, r) >= 0), nil })
		registerBinary(OpLT, t, t, Boolean, func(l, r Value) (Value, error) { return NewBool(compareTyped(t, l, r) < 0), nil })
		registerBinary(OpLE, t, t, Boolean, func(l, r Value) (Value, error) { return NewBool(compareTyped(t, l, r) <= 0), nil })
	}

	registerCasts()
}

// registerCasts wires the legal CAST target/source pairs. registerUnary's
// signature is (op, sourceType, targetType, fn) -- fn
// receives a value of sourceType and, on success, returns one of targetType.
func registerCasts() {
	registerUnary(OpCast, Integer, Integer, func(v Value) (Value, error) { return v, nil })
	registerUnary(OpCast, Real, Integer, func(v Value) (Value, error) { return NewInt(int64(v.AsFloat())), nil })
	registerUnary(OpCast, Boolean, Integer, func(v Value) (Value, error) {
		if v.AsBool() {
			return NewInt(1), nil
		}
		return NewInt(0), nil
	})
	registerUnary(OpCast, String, Integer, func(v Value) (Value, error) {
		n, err := strconv.ParseInt(v.AsString(), 10, 64)
		if err != nil {
			return Value{}, &csqlerr.CastError{From: "VARCHAR", To: "INTEGER", Value: v.AsString(), Cause: err}
		}
		return NewInt(n), nil
	})

	registerUnary(OpCast, Real, Real, func(v Value) (Value, error) { return v, nil })
	registerUnary(OpCast, Integer, Real, func(v Value) (Value, error) { return NewFloat(float64(v.AsInt())), nil })
	registerUnary(OpCast, String, Real, func(v Value) (Value, error) {
		f, err := strconv.ParseFloat(v.AsString(), 64)
		if err != nil {
			return Value{}, &csqlerr.CastError{From: "VARCHAR", To: "REAL", Value: v.AsString(), Cause: err}
		}
		return NewFloat(f), nil
	})

	registerUnary(OpCast, Boolean, Boolean, func(v Value) (Value, error) { return v, nil })
	registerUnary(OpCast, Integer, Boolean, func(v Value) (Value, error) { return NewBool(v.AsInt() != 0), nil })
	registerUnary(OpCast, String, Boolean, func(v Value) (Value, error) {
		switch v.AsString() {
		case "true", "TRUE", "1":
			return NewBool(true), nil
		case "false", "FALSE", "0":
			return NewBool(false), nil
		default:
			return Value{}, &csqlerr.CastError{From: "VARCHAR", To: "BOOLEAN", Value: v.AsString()}
		}
	})

	registerUnary(OpCast, Integer, String, func(v Value) (Value, error) { return Str(v.String()), nil })
	registerUnary(OpCast, Real, String, func(v Value) (Value, error) { return Str(v.String()), nil })
	registerUnary(OpCast, Boolean, String, func(v Value) (Value, error) { return Str(v.String()), nil })
	registerUnary(OpCast, Date, String, func(v Value) (Value, error) { return Str(v.String()), nil })
	registerUnary(OpCast, Time, String, func(v Value) (Value, error) { return Str(v.String()), nil })
	registerUnary(OpCast, Timestamp, String, func(v Value) (Value, error) { return Str(v.String()), nil })
	registerUnary(OpCast, String, String, func(v Value) (Value, error) { return v, nil })

	registerUnary(OpCast, String, Date, func(v Value) (Value, error) { return ParseISODate(v.AsString()) })
	registerUnary(OpCast, Date, Date, func(v Value) (Value, error) { return v, nil })
	registerUnary(OpCast, Timestamp, Date, func(v Value) (Value, error) {
		jd, _ := v.AsTimestampParts()
		return NewDate(jd), nil
	})

	registerUnary(OpCast, String, Time, func(v Value) (Value, error) { return ParseISOTime(v.AsString()) })
	registerUnary(OpCast, Time, Time, func(v Value) (Value, error) { return v, nil })
	registerUnary(OpCast, Timestamp, Time, func(v Value) (Value, error) {
		_, ms := v.AsTimestampParts()
		return NewTime(ms), nil
	})

	registerUnary(OpCast, String, Timestamp, func(v Value) (Value, error) { return ParseISOTimestamp(v.AsString()) })
	registerUnary(OpCast, Timestamp, Timestamp, func(v Value) (Value, error) { return v, nil })
	registerUnary(OpCast, Date, Timestamp, func(v Value) (Value, error) { return NewTimestamp(v.AsJulianDay(), 0), nil })
}
