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
	"math"

	"github.com/fuersten/csvsqldb/csqlerr"
)

// doubleTolerance is the SQL-level "approx equal" tolerance for Real
// equality, a deliberate design choice preserved from the original.
const doubleTolerance = 1e-4

func toFloat(v Value) float64 {
	if v.Type() == Integer {
		return float64(v.AsInt())
	}
	return v.AsFloat()
}

func init() {
	// Arithmetic: Integer op Integer stays Integer; any Real operand
	// promotes both sides to Real.
	registerBinary(OpAdd, Integer, Integer, Integer, func(l, r Value) (Value, error) { return NewInt(l.AsInt() + r.AsInt()), nil })
	registerBinary(OpAdd, Real, Real, Real, func(l, r Value) (Value, error) { return NewFloat(l.AsFloat() + r.AsFloat()), nil })
	registerBinary(OpAdd, Integer, Real, Real, func(l, r Value) (Value, error) { return NewFloat(toFloat(l) + toFloat(r)), nil })
	registerBinary(OpAdd, Real, Integer, Real, func(l, r Value) (Value, error) { return NewFloat(toFloat(l) + toFloat(r)), nil })

	registerBinary(OpSub, Integer, Integer, Integer, func(l, r Value) (Value, error) { return NewInt(l.AsInt() - r.AsInt()), nil })
	registerBinary(OpSub, Real, Real, Real, func(l, r Value) (Value, error) { return NewFloat(l.AsFloat() - r.AsFloat()), nil })
	registerBinary(OpSub, Integer, Real, Real, func(l, r Value) (Value, error) { return NewFloat(toFloat(l) - toFloat(r)), nil })
	registerBinary(OpSub, Real, Integer, Real, func(l, r Value) (Value, error) { return NewFloat(toFloat(l) - toFloat(r)), nil })

	registerBinary(OpMul, Integer, Integer, Integer, func(l, r Value) (Value, error) { return NewInt(l.AsInt() * r.AsInt()), nil })
	registerBinary(OpMul, Real, Real, Real, func(l, r Value) (Value, error) { return NewFloat(l.AsFloat() * r.AsFloat()), nil })
	registerBinary(OpMul, Integer, Real, Real, func(l, r Value) (Value, error) { return NewFloat(toFloat(l) * toFloat(r)), nil })
	registerBinary(OpMul, Real, Integer, Real, func(l, r Value) (Value, error) { return NewFloat(toFloat(l) * toFloat(r)), nil })

	registerBinary(OpDiv, Integer, Integer, Integer, func(l, r Value) (Value, error) {
		if r.AsInt() == 0 {
			return Value{}, &csqlerr.DivisionByZeroError{}
		}
		return NewInt(l.AsInt() / r.AsInt()), nil
	})
	divReal := func(l, r Value) (Value, error) {
		if toFloat(r) == 0 {
			return Value{}, &csqlerr.DivisionByZeroError{}
		}
		return NewFloat(toFloat(l) / toFloat(r)), nil
	}
	registerBinary(OpDiv, Real, Real, Real, divReal)
	registerBinary(OpDiv, Integer, Real, Real, divReal)
	registerBinary(OpDiv, Real, Integer, Real, divReal)

	registerBinary(OpMod, Integer, Integer, Integer, func(l, r Value) (Value, error) {
		if r.AsInt() == 0 {
			return Value{}, &csqlerr.DivisionByZeroError{}
		}
		return NewInt(l.AsInt() % r.AsInt()), nil
	})
	modReal := func(l, r Value) (Value, error) {
		if toFloat(r) == 0 {
			return Value{}, &csqlerr.DivisionByZeroError{}
		}
		return NewFloat(math.Mod(toFloat(l), toFloat(r))), nil
	}
	registerBinary(OpMod, Real, Real, Real, modReal)
	registerBinary(OpMod, Integer, Real, Real, modReal)
	registerBinary(OpMod, Real, Integer, Real, modReal)

	for _, pair := range [][2]Type{{Integer, Integer}, {Real, Real}, {Integer, Real}, {Real, Integer}} {
		l, r := pair[0], pair[1]
		registerBinary(OpGT, l, r, Boolean, func(l, r Value) (Value, error) { return NewBool(toFloat(l) > toFloat(r)), nil })
		registerBinary(OpGE, l, r, Boolean, func(l, r Value) (Value, error) { return NewBool(toFloat(l) >= toFloat(r)), nil })
		registerBinary(OpLT, l, r, Boolean, func(l, r Value) (Value, error) { return NewBool(toFloat(l) < toFloat(r)), nil })
		registerBinary(OpLE, l, r, Boolean, func(l, r Value) (Value, error) { return NewBool(toFloat(l) <= toFloat(r)), nil })
		registerBinary(OpEQ, l, r, Boolean, func(l, r Value) (Value, error) { return NewBool(numEqual(l, r)), nil })
		registerBinary(OpNEQ, l, r, Boolean, func(l, r Value) (Value, error) { return NewBool(!numEqual(l, r)), nil })
	}

	registerBinary(OpEQ, Boolean, Boolean, Boolean, func(l, r Value) (Value, error) { return NewBool(l.AsBool() == r.AsBool()), nil })
	registerBinary(OpNEQ, Boolean, Boolean, Boolean, func(l, r Value) (Value, error) { return NewBool(l.AsBool() != r.AsBool()), nil })

	// Unary arithmetic: return type equals rhs.Type(); PLUS is effectively
	// a no-op, MINUS negates.
	registerUnary(OpMinus, Integer, Integer, func(v Value) (Value, error) { return NewInt(-v.AsInt()), nil })
	registerUnary(OpMinus, Real, Real, func(v Value) (Value, error) { return NewFloat(-v.AsFloat()), nil })
	registerUnary(OpPlus, Integer, Integer, func(v Value) (Value, error) { return v, nil })
	registerUnary(OpPlus, Real, Real, func(v Value) (Value, error) { return v, nil })
	registerUnary(OpNot, Boolean, Boolean, func(v Value) (Value, error) { return NewBool(!v.AsBool()), nil })
}

// numEqual implements the double-equality tolerance rule: for all reals a, b with |a-b| < 1e-4, EQ(a,b) = true. Pure integer
// comparisons stay exact.
func numEqual(l, r Value) bool {
	if l.Type() == Integer && r.Type() == Integer {
		return l.AsInt() == r.AsInt()
	}
	return math.Abs(toFloat(l)-toFloat(r)) < doubleTolerance
}
