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

// Package stackvm evaluates a compiled expression -- a linear list of
// Instructions -- against one row's VariableStore, producing exactly one
// value.Value. It is the target of the (out of scope) AST lowering pass.
package stackvm

import (
	"fmt"
	"regexp"

	"github.com/fuersten/csvsqldb/value"
)

// OpCode identifies one stack machine instruction.
type OpCode int

const (
	NOP OpCode = iota
	PUSH
	PUSHVAR
	ADD
	SUB
	DIV
	MOD
	MUL
	NOT
	PLUS
	MINUS
	EQ
	NEQ
	GT
	GE
	LT
	LE
	AND
	OR
	BETWEEN
	FUNC
	CAST
	CONCAT
	IN
	IS
	ISNOT
	LIKE
)

func (op OpCode) String() string {
	names := [...]string{
		"NOP", "PUSH", "PUSHVAR", "ADD", "SUB", "DIV", "MOD", "MUL", "NOT", "PLUS", "MINUS",
		"EQ", "NEQ", "GT", "GE", "LT", "LE", "AND", "OR", "BETWEEN", "FUNC", "CAST", "CONCAT",
		"IN", "IS", "ISNOT", "LIKE",
	}
	if int(op) >= 0 && int(op) < len(names) {
		return names[op]
	}
	return "?"
}

// Instruction is one stack machine step. Only the
// fields relevant to its OpCode are populated: Val for PUSH/CAST/IN/FUNC,
// Slot for PUSHVAR, Regex for LIKE.
type Instruction struct {
	Op    OpCode
	Val   value.Value // PUSH: the immediate; CAST: the target type carried as a Null value of that type; IN: arity as an Integer; FUNC: the function name as a String
	Slot  int         // PUSHVAR: the bind slot index
	Regex *regexp.Regexp
}

// Push returns a PUSH instruction carrying the literal v.
func Push(v value.Value) Instruction { return Instruction{Op: PUSH, Val: v} }

// PushVar returns a PUSHVAR instruction reading VariableStore slot.
func PushVar(slot int) Instruction { return Instruction{Op: PUSHVAR, Slot: slot} }

// Cast returns a CAST instruction targeting t.
func Cast(t value.Type) Instruction { return Instruction{Op: CAST, Val: value.NewNull(t)} }

// In returns an IN instruction with the given arity (number of candidates
// already pushed below lhs).
func In(arity int) Instruction { return Instruction{Op: IN, Val: value.NewInt(int64(arity))} }

// Call returns a FUNC instruction invoking the named function registry entry.
func Call(name string) Instruction { return Instruction{Op: FUNC, Val: value.Str(name)} }

// Like returns a LIKE instruction matching against the precompiled pattern re.
func Like(re *regexp.Regexp) Instruction { return Instruction{Op: LIKE, Regex: re} }

// simple returns a zero-operand instruction (ADD, NOT, BETWEEN, ...).
func simple(op OpCode) Instruction { return Instruction{Op: op} }

// VariableStore is a dense, per-row array of bound values, indexed by the
// bind slot a PUSHVAR instruction names.
type VariableStore struct {
	vars []value.Value
}

// NewVariableStore returns an empty store.
func NewVariableStore() *VariableStore { return &VariableStore{} }

// Set installs v at the given slot, growing the store as needed.
func (s *VariableStore) Set(slot int, v value.Value) {
	if slot >= len(s.vars) {
		grown := make([]value.Value, slot+1)
		copy(grown, s.vars)
		s.vars = grown
	}
	s.vars[slot] = v
}

// Get returns the value bound at slot.
func (s *VariableStore) Get(slot int) value.Value {
	if slot < 0 || slot >= len(s.vars) {
		return value.NewNull(value.Null)
	}
	return s.vars[slot]
}

// Len reports how many slots are populated.
func (s *VariableStore) Len() int { return len(s.vars) }

// Program is a compiled expression: an ordered Instruction list sharing one
// operand stack scratch per evaluation.
type Program struct {
	instructions []Instruction
}

// New returns an empty Program ready for Append.
func New() *Program { return &Program{} }

// Append adds one instruction to the end of the program.
func (p *Program) Append(i Instruction) { p.instructions = append(p.instructions, i) }

// Len reports the instruction count.
func (p *Program) Len() int { return len(p.instructions) }

// Instructions returns the program's instruction list. Callers that
// pattern-match a compiled predicate -- plan's hash-join selection looks
// for a single PUSHVAR/PUSHVAR/EQ program -- use this instead of
// re-running the program speculatively.
func (p *Program) Instructions() []Instruction { return p.instructions }

// Run evaluates the program against store and the given function registry,
// returning the final top-of-stack value.
func Run(p *Program, store *VariableStore, functions *Registry) (value.Value, error) {
	var stack []value.Value

	pop := func() (value.Value, error) {
		if len(stack) == 0 {
			return value.Value{}, fmt.Errorf("stackvm: operand stack underflow")
		}
		v := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		return v, nil
	}
	top := func() (value.Value, error) {
		if len(stack) == 0 {
			return value.Value{}, fmt.Errorf("stackvm: operand stack underflow")
		}
		return stack[len(stack)-1], nil
	}
	replaceTop := func(v value.Value) { stack[len(stack)-1] = v }
	push := func(v value.Value) { stack = append(stack, v) }

	binary := func(op value.Op) error {
		rhs, err := pop()
		if err != nil {
			return err
		}
		lhs, err := top()
		if err != nil {
			return err
		}
		result, err := value.BinaryOp(op, lhs, rhs)
		if err != nil {
			return err
		}
		replaceTop(result)
		return nil
	}

	for _, ins := range p.instructions {
		switch ins.Op {
		case NOP:
			// no-op
		case PUSH:
			push(ins.Val)
		case PUSHVAR:
			push(store.Get(ins.Slot))
		case ADD:
			if err := binary(value.OpAdd); err != nil {
				return value.Value{}, err
			}
		case SUB:
			if err := binary(value.OpSub); err != nil {
				return value.Value{}, err
			}
		case DIV:
			if err := binary(value.OpDiv); err != nil {
				return value.Value{}, err
			}
		case MOD:
			if err := binary(value.OpMod); err != nil {
				return value.Value{}, err
			}
		case MUL:
			if err := binary(value.OpMul); err != nil {
				return value.Value{}, err
			}
		case EQ:
			if err := binary(value.OpEQ); err != nil {
				return value.Value{}, err
			}
		case NEQ:
			if err := binary(value.OpNEQ); err != nil {
				return value.Value{}, err
			}
		case GT:
			if err := binary(value.OpGT); err != nil {
				return value.Value{}, err
			}
		case GE:
			if err := binary(value.OpGE); err != nil {
				return value.Value{}, err
			}
		case LT:
			if err := binary(value.OpLT); err != nil {
				return value.Value{}, err
			}
		case LE:
			if err := binary(value.OpLE); err != nil {
				return value.Value{}, err
			}
		case AND:
			if err := binary(value.OpAnd); err != nil {
				return value.Value{}, err
			}
		case OR:
			if err := binary(value.OpOr); err != nil {
				return value.Value{}, err
			}
		case IS:
			if err := binary(value.OpIs); err != nil {
				return value.Value{}, err
			}
		case ISNOT:
			if err := binary(value.OpIsNot); err != nil {
				return value.Value{}, err
			}
		case CONCAT:
			if err := binary(value.OpConcat); err != nil {
				return value.Value{}, err
			}
		case NOT:
			rhs, err := top()
			if err != nil {
				return value.Value{}, err
			}
			result, err := value.UnaryOp(value.OpNot, value.Boolean, rhs)
			if err != nil {
				return value.Value{}, err
			}
			replaceTop(result)
		case PLUS:
			// no-op: PLUS leaves the top value unchanged.
		case MINUS:
			rhs, err := top()
			if err != nil {
				return value.Value{}, err
			}
			result, err := value.UnaryOp(value.OpMinus, rhs.Type(), rhs)
			if err != nil {
				return value.Value{}, err
			}
			replaceTop(result)
		case CAST:
			rhs, err := top()
			if err != nil {
				return value.Value{}, err
			}
			result, err := value.UnaryOp(value.OpCast, ins.Val.Type(), rhs)
			if err != nil {
				return value.Value{}, err
			}
			replaceTop(result)
		case BETWEEN:
			if err := runBetween(&stack); err != nil {
				return value.Value{}, err
			}
		case IN:
			if err := runIn(&stack, int(ins.Val.AsInt())); err != nil {
				return value.Value{}, err
			}
		case FUNC:
			if err := runFunc(&stack, functions, ins.Val.AsString()); err != nil {
				return value.Value{}, err
			}
		case LIKE:
			lhs, err := top()
			if err != nil {
				return value.Value{}, err
			}
			result, err := value.Like(lhs, ins.Regex)
			if err != nil {
				return value.Value{}, err
			}
			replaceTop(result)
		default:
			return value.Value{}, fmt.Errorf("stackvm: unknown opcode %s", ins.Op)
		}
	}

	return top()
}

// runBetween pops lhs, from, to and evaluates from<=lhs<=to, accepting
// either ordering of from/to.
func runBetween(stack *[]value.Value) error {
	s := *stack
	if len(s) < 3 {
		return fmt.Errorf("stackvm: BETWEEN needs 3 operands, have %d", len(s))
	}
	lhs, from, to := s[len(s)-3], s[len(s)-2], s[len(s)-1]
	*stack = s[:len(s)-3]

	result := value.NewNull(value.Boolean)
	if !(lhs.IsNull() || from.IsNull() || to.IsNull()) {
		toGEFrom, err := value.BinaryOp(value.OpGE, to, from)
		if err != nil {
			return err
		}
		lo, hi := from, to
		if !toGEFrom.AsBool() {
			lo, hi = to, from
		}
		geLo, err := value.BinaryOp(value.OpGE, lhs, lo)
		if err != nil {
			return err
		}
		if geLo.AsBool() {
			result, err = value.BinaryOp(value.OpLE, lhs, hi)
			if err != nil {
				return err
			}
		} else {
			result = geLo
		}
	}
	*stack = append(*stack, result)
	return nil
}

// runIn pops lhs then arity candidates, pushing true iff any candidate
// equals lhs.
func runIn(stack *[]value.Value, arity int) error {
	s := *stack
	if len(s) < arity+1 {
		return fmt.Errorf("stackvm: IN needs %d operands, have %d", arity+1, len(s))
	}
	lhs := s[len(s)-arity-1]
	candidates := s[len(s)-arity:]
	*stack = s[:len(s)-arity-1]

	found := false
	for _, c := range candidates {
		eq, err := value.BinaryOp(value.OpEQ, lhs, c)
		if err != nil {
			return err
		}
		if !eq.IsNull() && eq.AsBool() {
			found = true
			break
		}
	}
	*stack = append(*stack, value.NewBool(found))
	return nil
}

// runFunc pops the function's declared arity of parameters (in reverse push
// order), casting each to its declared parameter type, then pushes the
// result of calling it.
func runFunc(stack *[]value.Value, functions *Registry, name string) error {
	fn, ok := functions.Lookup(name)
	if !ok {
		return fmt.Errorf("stackvm: function %q not found", name)
	}
	s := *stack
	n := len(fn.ParamTypes)
	if len(s) < n {
		return fmt.Errorf("stackvm: function %q needs %d operands, have %d", name, n, len(s))
	}
	args := make([]value.Value, n)
	for i := n - 1; i >= 0; i-- {
		v := s[len(s)-1]
		s = s[:len(s)-1]
		if !v.IsNull() && v.Type() != fn.ParamTypes[i] {
			cast, err := value.UnaryOp(value.OpCast, fn.ParamTypes[i], v)
			if err != nil {
				return fmt.Errorf("stackvm: calling function %q: %w", name, err)
			}
			v = cast
		}
		args[i] = v
	}
	*stack = s
	result, err := fn.Call(args)
	if err != nil {
		return err
	}
	*stack = append(*stack, result)
	return nil
}
