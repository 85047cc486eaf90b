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

import "github.com/fuersten/csvsqldb/csqlerr"

// Op identifies a dispatchable operator. This mirrors
// original_source/libcsvsqldb/typeoperations.cpp's eOperationType, flattened
// into a single Go const enum instead of a C++ template per (op, type,
// type) instantiation.
type Op int

const (
	OpConcat Op = iota
	OpAdd
	OpSub
	OpMul
	OpDiv
	OpMod
	OpGT
	OpGE
	OpLT
	OpLE
	OpEQ
	OpNEQ
	OpAnd
	OpOr
	OpIs
	OpIsNot
	OpNot
	OpMinus
	OpPlus
	OpCast
)

func (op Op) String() string {
	names := map[Op]string{
		OpConcat: "CONCAT", OpAdd: "ADD", OpSub: "SUB", OpMul: "MUL", OpDiv: "DIV", OpMod: "MOD",
		OpGT: "GT", OpGE: "GE", OpLT: "LT", OpLE: "LE", OpEQ: "EQ", OpNEQ: "NEQ",
		OpAnd: "AND", OpOr: "OR", OpIs: "IS", OpIsNot: "ISNOT",
		OpNot: "NOT", OpMinus: "MINUS", OpPlus: "PLUS", OpCast: "CAST",
	}
	if n, ok := names[op]; ok {
		return n
	}
	return "?"
}

type binaryKey struct {
	op       Op
	lhs, rhs Type
}

type binaryEntry struct {
	ret Type
	fn  func(lhs, rhs Value) (Value, error)
}

type unaryKey struct {
	op  Op
	ret Type // for CAST: the requested target type; for others: Null (ignored)
	rhs Type
}

type unaryEntry struct {
	ret Type
	fn  func(rhs Value) (Value, error)
}

// binaryOps and unaryOps are built once by the init() functions in this
// package's dispatch_*.go files and never mutated afterwards.
var binaryOps = map[binaryKey]binaryEntry{}
var unaryOps = map[unaryKey]unaryEntry{}

func registerBinary(op Op, lhs, rhs, ret Type, fn func(lhs, rhs Value) (Value, error)) {
	binaryOps[binaryKey{op, lhs, rhs}] = binaryEntry{ret: ret, fn: fn}
}

func registerUnary(op Op, rhs, ret Type, fn func(rhs Value) (Value, error)) {
	r := ret
	if op != OpCast {
		r = Null // unused for non-CAST keys
	}
	unaryOps[unaryKey{op, r, rhs}] = unaryEntry{ret: ret, fn: fn}
}

// is3ValuedLogic reports whether op implements SQL three-valued logic
// directly on (possibly null) operands instead of the generic
// null-propagates-to-null rule.
func is3ValuedLogic(op Op) bool {
	switch op {
	case OpAnd, OpOr, OpIs, OpIsNot:
		return true
	default:
		return false
	}
}

// BinaryOp looks up (op, lhs.Type(), rhs.Type()) in the dispatch registry.
// Null operands propagate to a null of the inferred return type, except for
// AND/OR/IS/IS NOT, which implement SQL three-valued logic.
func BinaryOp(op Op, lhs, rhs Value) (Value, error) {
	entry, ok := binaryOps[binaryKey{op, lhs.Type(), rhs.Type()}]
	if !ok {
		return Value{}, &csqlerr.UnsupportedOperationError{Op: op.String(), LHS: lhs.Type().String(), RHS: rhs.Type().String()}
	}
	if is3ValuedLogic(op) {
		return entry.fn(lhs, rhs)
	}
	if lhs.IsNull() || rhs.IsNull() {
		return NewNull(entry.ret), nil
	}
	return entry.fn(lhs, rhs)
}

// UnaryOp looks up (op, requestedType, rhs.Type()). For CAST, requestedType
// is the target type; for NOT/MINUS/PLUS it is ignored (the return type is
// fixed by the entry).
func UnaryOp(op Op, requestedType Type, rhs Value) (Value, error) {
	key := unaryKey{op, Null, rhs.Type()}
	if op == OpCast {
		key.ret = requestedType
	}
	entry, ok := unaryOps[key]
	if !ok {
		if op == OpCast {
			return Value{}, &csqlerr.CastError{From: rhs.Type().String(), To: requestedType.String(), Value: rhs.String()}
		}
		return Value{}, &csqlerr.UnsupportedOperationError{Op: op.String(), LHS: rhs.Type().String()}
	}
	if rhs.IsNull() {
		return NewNull(entry.ret), nil
	}
	return entry.fn(rhs)
}

// InferType returns only the declared result type of (op, lhs, rhs), used
// during planning/validation without evaluating anything.
func InferType(op Op, lhs, rhs Type) (Type, error) {
	entry, ok := binaryOps[binaryKey{op, lhs, rhs}]
	if !ok {
		return Null, &csqlerr.UnsupportedOperationError{Op: op.String(), LHS: lhs.String(), RHS: rhs.String()}
	}
	return entry.ret, nil
}

// InferUnaryType returns the declared result type of a unary op.
func InferUnaryType(op Op, requestedType, rhs Type) (Type, error) {
	key := unaryKey{op, Null, rhs}
	if op == OpCast {
		key.ret = requestedType
	}
	entry, ok := unaryOps[key]
	if !ok {
		return Null, &csqlerr.UnsupportedOperationError{Op: op.String(), LHS: rhs.String()}
	}
	return entry.ret, nil
}
