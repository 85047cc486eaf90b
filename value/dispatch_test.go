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

import "testing"

func mustBinary(t *testing.T, op Op, l, r Value) Value {
	t.Helper()
	v, err := BinaryOp(op, l, r)
	if err != nil {
		t.Fatalf("BinaryOp(%s, %v, %v): %v", op, l, r, err)
	}
	return v
}

func TestNullPropagatesThroughArithmetic(t *testing.T) {
	v := mustBinary(t, OpAdd, NewNull(Integer), NewInt(5))
	if !v.IsNull() || v.Type() != Integer {
		t.Fatalf("got %v, want null INTEGER", v)
	}
}

func TestThreeValuedAnd(t *testing.T) {
	T, F, N := NewBool(true), NewBool(false), NewNull(Boolean)
	cases := []struct {
		l, r Value
		want Value
	}{
		{T, T, T},
		{T, F, F},
		{F, N, F}, // false dominates regardless of the unknown operand
		{N, F, F},
		{T, N, N},
		{N, N, N},
	}
	for _, c := range cases {
		got := mustBinary(t, OpAnd, c.l, c.r)
		if got.IsNull() != c.want.IsNull() || (!got.IsNull() && got.AsBool() != c.want.AsBool()) {
			t.Errorf("AND(%v, %v) = %v, want %v", c.l, c.r, got, c.want)
		}
	}
}

func TestThreeValuedOr(t *testing.T) {
	T, F, N := NewBool(true), NewBool(false), NewNull(Boolean)
	cases := []struct {
		l, r Value
		want Value
	}{
		{T, F, T},
		{T, N, T}, // true dominates regardless of the unknown operand
		{N, T, T},
		{F, N, N},
		{N, F, N},
		{N, N, N},
	}
	for _, c := range cases {
		got := mustBinary(t, OpOr, c.l, c.r)
		if got.IsNull() != c.want.IsNull() || (!got.IsNull() && got.AsBool() != c.want.AsBool()) {
			t.Errorf("OR(%v, %v) = %v, want %v", c.l, c.r, got, c.want)
		}
	}
}

func TestIsNullOnEveryType(t *testing.T) {
	types := []Type{Boolean, Integer, Real, String, Date, Time, Timestamp}
	zero := map[Type]Value{
		Boolean: NewBool(false), Integer: NewInt(0), Real: NewFloat(0),
		String: Str(""), Date: NewDate(toJulianDay(2000, 1, 1)),
		Time: NewTime(0), Timestamp: NewTimestamp(toJulianDay(2000, 1, 1), 0),
	}
	for _, typ := range types {
		isNullTrue := mustBinary(t, OpIs, NewNull(typ), NewNull(Boolean))
		if isNullTrue.IsNull() || !isNullTrue.AsBool() {
			t.Errorf("%s: NULL IS NULL should be true, got %v", typ, isNullTrue)
		}
		isNullFalse := mustBinary(t, OpIs, zero[typ], NewNull(Boolean))
		if isNullFalse.IsNull() || isNullFalse.AsBool() {
			t.Errorf("%s: non-null IS NULL should be false, got %v", typ, isNullFalse)
		}
		isNotNullTrue := mustBinary(t, OpIsNot, zero[typ], NewNull(Boolean))
		if isNotNullTrue.IsNull() || !isNotNullTrue.AsBool() {
			t.Errorf("%s: non-null IS NOT NULL should be true, got %v", typ, isNotNullTrue)
		}
	}
}

func TestDoubleEqualityTolerance(t *testing.T) {
	a := NewFloat(1.00001)
	b := NewFloat(1.00002)
	eq := mustBinary(t, OpEQ, a, b)
	if eq.IsNull() || !eq.AsBool() {
		t.Fatalf("1.00001 and 1.00002 should be EQ within tolerance, got %v", eq)
	}

	c := NewFloat(1.0)
	d := NewFloat(1.001)
	neq := mustBinary(t, OpEQ, c, d)
	if neq.IsNull() || neq.AsBool() {
		t.Fatalf("1.0 and 1.001 should not be EQ, got %v", neq)
	}
}

func TestIntegerEqualityIsExact(t *testing.T) {
	got := mustBinary(t, OpEQ, NewInt(3), NewInt(3))
	if got.IsNull() || !got.AsBool() {
		t.Fatalf("3 == 3 should be true, got %v", got)
	}
}

func TestDivisionByZero(t *testing.T) {
	if _, err := BinaryOp(OpDiv, NewInt(1), NewInt(0)); err == nil {
		t.Fatal("expected an error dividing by zero")
	}
	if _, err := BinaryOp(OpMod, NewFloat(1), NewFloat(0)); err == nil {
		t.Fatal("expected an error modulo zero")
	}
}

func TestNumericPromotion(t *testing.T) {
	v := mustBinary(t, OpAdd, NewInt(2), NewFloat(0.5))
	if v.Type() != Real || v.AsFloat() != 2.5 {
		t.Fatalf("got %v, want REAL 2.5", v)
	}
}

func TestUnsupportedOperationError(t *testing.T) {
	_, err := BinaryOp(OpAdd, Str("x"), NewInt(1))
	if err == nil {
		t.Fatal("expected an UnsupportedOperationError")
	}
}

func TestCastIntegerFromString(t *testing.T) {
	v, err := UnaryOp(OpCast, Integer, Str("7"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if v.Type() != Integer || v.AsInt() != 7 {
		t.Fatalf("got %v, want INTEGER 7", v)
	}
}

func TestCastInvalidStringFails(t *testing.T) {
	if _, err := UnaryOp(OpCast, Integer, Str("not-a-number")); err == nil {
		t.Fatal("expected a CastError")
	}
}

func TestConcatFormatsNonStringOperand(t *testing.T) {
	v := mustBinary(t, OpConcat, Str("n="), NewInt(5))
	if v.Type() != String || v.AsString() != "n=5" {
		t.Fatalf("got %v", v)
	}
}

func TestLikeMatchesSimilarToPattern(t *testing.T) {
	re, err := CompileLike("foo%bar")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	match, err := Like(Str("foo-baz-bar"), re)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if match.IsNull() || !match.AsBool() {
		t.Fatalf("expected foo-baz-bar to match foo%%bar")
	}
	noMatch, err := Like(Str("nope"), re)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if noMatch.IsNull() || noMatch.AsBool() {
		t.Fatalf("expected nope not to match foo%%bar")
	}
}

func TestStringDateComparisonParsesLiteral(t *testing.T) {
	d := NewDate(toJulianDay(2022, 1, 2))
	eq := mustBinary(t, OpEQ, d, Str("2022-01-02"))
	if eq.IsNull() || !eq.AsBool() {
		t.Fatalf("expected DATE = '2022-01-02' to be true, got %v", eq)
	}
}

func TestDateSubtractionYieldsIntegerDays(t *testing.T) {
	a := NewDate(toJulianDay(2022, 1, 10))
	b := NewDate(toJulianDay(2022, 1, 1))
	diff := mustBinary(t, OpSub, a, b)
	if diff.Type() != Integer || diff.AsInt() != 9 {
		t.Fatalf("got %v, want INTEGER 9", diff)
	}
}
