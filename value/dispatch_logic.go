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

// Three-valued logic for AND/OR/IS/IS NOT. These
// registry entries are invoked directly on (possibly null) operands instead
// of going through the generic null-propagates-to-null short circuit.

func init() {
	registerBinary(OpAnd, Boolean, Boolean, Boolean, func(l, r Value) (Value, error) {
		if !l.IsNull() && !l.AsBool() {
			return NewBool(false), nil
		}
		if !r.IsNull() && !r.AsBool() {
			return NewBool(false), nil
		}
		if l.IsNull() || r.IsNull() {
			return NewNull(Boolean), nil
		}
		return NewBool(true), nil
	})

	registerBinary(OpOr, Boolean, Boolean, Boolean, func(l, r Value) (Value, error) {
		if !l.IsNull() && l.AsBool() {
			return NewBool(true), nil
		}
		if !r.IsNull() && r.AsBool() {
			return NewBool(true), nil
		}
		if l.IsNull() || r.IsNull() {
			return NewNull(Boolean), nil
		}
		return NewBool(false), nil
	})

	// IS / IS NOT always compare against a Boolean right-hand side (the
	// grammar restricts it to `IS [NOT] {TRUE|FALSE|NULL}`), but the
	// left-hand side may be any type -- most commonly `expr IS [NOT]
	// NULL`. Grounded on typeoperations.cpp's OperationIs<LHS, bool>
	// instantiations for every LHS type (bool, int64, double, string,
	// date, time, timestamp).
	for _, lhsType := range []Type{Boolean, Integer, Real, String, Date, Time, Timestamp} {
		registerBinary(OpIs, lhsType, Boolean, Boolean, func(l, r Value) (Value, error) {
			if r.IsNull() {
				return NewBool(l.IsNull()), nil
			}
			if l.IsNull() {
				return NewBool(false), nil
			}
			return NewBool(truthy(l) && r.AsBool()), nil
		})
		registerBinary(OpIsNot, lhsType, Boolean, Boolean, func(l, r Value) (Value, error) {
			if r.IsNull() {
				return NewBool(!l.IsNull()), nil
			}
			if l.IsNull() {
				return NewBool(true), nil
			}
			return NewBool(!(truthy(l) && r.AsBool())), nil
		})
	}
}

// truthy coerces a non-null Value to a boolean the way the C++ original's
// implicit bool conversions did: zero/empty is false, anything else true.
// In practice IS/IS NOT is almost always used as `expr IS [NOT] NULL`,
// which never reaches this helper (handled by the null branches above).
func truthy(v Value) bool {
	switch v.Type() {
	case Boolean:
		return v.AsBool()
	case Integer:
		return v.AsInt() != 0
	case Real:
		return v.AsFloat() != 0
	case String:
		return v.AsString() != ""
	default:
		return true
	}
}
