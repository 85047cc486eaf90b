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

// Package value implements the tagged SQL datum (Value), the implicit-cast
// aware binary/unary operator dispatch registry, and null/three-valued
// logic semantics described by the csvsqldb core specification.
package value

import (
	"fmt"
	"sync/atomic"

	"github.com/fuersten/csvsqldb/date"
)

// Type tags the one legal storage variant a Value may be read from.
type Type uint8

const (
	Null Type = iota
	Boolean
	Integer
	Real
	Date
	Time
	Timestamp
	String
)

func (t Type) String() string {
	switch t {
	case Null:
		return "NULL"
	case Boolean:
		return "BOOLEAN"
	case Integer:
		return "INTEGER"
	case Real:
		return "REAL"
	case Date:
		return "DATE"
	case Time:
		return "TIME"
	case Timestamp:
		return "TIMESTAMP"
	case String:
		return "VARCHAR"
	default:
		return "UNKNOWN"
	}
}

// refString is a heap string buffer with an explicit refcount, following
// original_source/csvsqldb/variant.h's RefCount. A nil *refString means the
// Value's string is borrowed/interned (e.g. it points into a Block's byte
// slab) and needs no release.
type refString struct {
	data string
	n    int32
}

func newOwnedString(s string) *refString {
	return &refString{data: s, n: 1}
}

func (r *refString) retain() *refString {
	if r != nil {
		atomic.AddInt32(&r.n, 1)
	}
	return r
}

func (r *refString) release() {
	if r == nil {
		return
	}
	if atomic.AddInt32(&r.n, -1) < 0 {
		panic("value: refString released more times than retained")
	}
}

// Value is an immutable tagged SQL datum: one of {null, bool, int64,
// double, date, time, timestamp, string}. A Value is cheap to copy: copying
// it bumps the owned string's refcount (if any) rather than deep-copying
// the bytes.
type Value struct {
	typ    Type
	isNull bool

	i   int64   // Integer, Boolean (0/1), Date (julian day), Time (ms-of-day), Timestamp (julian*1e8+ms)
	f   float64 // Real
	str string  // String: borrowed view, always valid even when owned != nil
	own *refString
}

// NewNull returns the null value of the given type.
func NewNull(t Type) Value { return Value{typ: t, isNull: true} }

// NewBool returns a non-null boolean Value.
func NewBool(b bool) Value {
	v := Value{typ: Boolean}
	if b {
		v.i = 1
	}
	return v
}

// NewInt returns a non-null integer Value.
func NewInt(i int64) Value { return Value{typ: Integer, i: i} }

// NewFloat returns a non-null real Value.
func NewFloat(f float64) Value { return Value{typ: Real, f: f} }

// Str returns a non-null string Value that borrows s (no allocation, no
// refcount): use this when s outlives the Value, e.g. a literal or a view
// into a Block's byte slab.
func Str(s string) Value { return Value{typ: String, str: s} }

// OwnedStr returns a non-null string Value that owns a private, refcounted
// copy of s. Disconnect uses this to detach a Value from its Block.
func OwnedStr(s string) Value {
	own := newOwnedString(s)
	return Value{typ: String, str: own.data, own: own}
}

// NewDate returns a non-null DATE Value from a Julian day number. Zero
// means null per the block layout.
func NewDate(julianDay int64) Value {
	if julianDay == 0 {
		return NewNull(Date)
	}
	return Value{typ: Date, i: julianDay}
}

// NewTime returns a non-null TIME Value from a millisecond-of-day offset.
func NewTime(msOfDay int64) Value { return Value{typ: Time, i: msOfDay} }

// NewTimestamp returns a non-null TIMESTAMP Value from the combined
// julianDay*1e8 + msOfDay encoding.
func NewTimestamp(julianDay, msOfDay int64) Value {
	return Value{typ: Timestamp, i: julianDay*100_000_000 + msOfDay}
}

// Type returns the Value's type tag.
func (v Value) Type() Type { return v.typ }

// IsNull reports whether v is the null value of its type.
func (v Value) IsNull() bool { return v.isNull }

// Copy returns a Value referring to the same data, incrementing the owned
// string's refcount.
func (v Value) Copy() Value {
	if v.own != nil {
		v.own = v.own.retain()
	}
	return v
}

// Release drops one reference to the Value's owned string, if any. It is a
// no-op for borrowed/interned strings and for non-string types.
func (v Value) Release() {
	if v.own != nil {
		v.own.release()
	}
}

// Disconnect detaches v from whatever buffer it currently borrows from by
// deep-copying any borrowed string payload into an owned, refcounted
// buffer, so v outlives that buffer.
func (v Value) Disconnect() Value {
	if v.typ == String && !v.isNull && v.own == nil {
		return OwnedStr(v.str)
	}
	return v
}

// AsBool returns the boolean payload. Valid only when Type() == Boolean.
func (v Value) AsBool() bool { return v.i != 0 }

// AsInt returns the integer payload. Valid only when Type() == Integer.
func (v Value) AsInt() int64 { return v.i }

// AsFloat returns the real payload. Valid only when Type() == Real.
func (v Value) AsFloat() float64 { return v.f }

// AsString returns the string payload. Valid only when Type() == String.
func (v Value) AsString() string { return v.str }

// AsJulianDay returns the DATE payload as a Julian day number.
func (v Value) AsJulianDay() int64 { return v.i }

// AsMillisOfDay returns the TIME payload as a millisecond-of-day offset.
func (v Value) AsMillisOfDay() int64 { return v.i }

// AsTimestampParts decodes the TIMESTAMP payload back into Julian day and
// millisecond-of-day components.
func (v Value) AsTimestampParts() (julianDay, msOfDay int64) {
	return v.i / 100_000_000, v.i % 100_000_000
}

// AsTime renders the value as a date.Time, for types that carry a calendar
// component (Date, Time, Timestamp).
func (v Value) AsTime() date.Time {
	switch v.typ {
	case Date:
		y, m, d := fromJulianDay(v.i)
		return date.Date(y, m, d, 0, 0, 0, 0)
	case Time:
		ms := v.i
		h, mi, s, ns := fromMillisOfDay(ms)
		return date.Date(1970, 1, 1, h, mi, s, ns)
	case Timestamp:
		jd, ms := v.AsTimestampParts()
		y, mo, d := fromJulianDay(jd)
		h, mi, s, ns := fromMillisOfDay(ms)
		return date.Date(y, mo, d, h, mi, s, ns)
	default:
		return date.Time{}
	}
}

// String renders v in the engine's canonical textual form: NULL for a null
// value, ISO form for date/time/timestamp, and six-digit fixed precision
// for Real.
func (v Value) String() string {
	if v.isNull {
		return "NULL"
	}
	switch v.typ {
	case Boolean:
		if v.AsBool() {
			return "true"
		}
		return "false"
	case Integer:
		return fmt.Sprintf("%d", v.i)
	case Real:
		return fmt.Sprintf("%.6f", v.f)
	case Date:
		t := v.AsTime()
		return fmt.Sprintf("%04d-%02d-%02d", t.Year(), t.Month(), t.Day())
	case Time:
		t := v.AsTime()
		return fmt.Sprintf("%02d:%02d:%02d", t.Hour(), t.Minute(), t.Second())
	case Timestamp:
		t := v.AsTime()
		return fmt.Sprintf("%04d-%02d-%02dT%02d:%02d:%02d", t.Year(), t.Month(), t.Day(), t.Hour(), t.Minute(), t.Second())
	case String:
		return v.str
	default:
		return ""
	}
}
