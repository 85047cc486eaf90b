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

package stackvm

import (
	"fmt"
	"strings"

	"github.com/fuersten/csvsqldb/value"
)

// Function is one scalar function the FUNC opcode can invoke: a fixed
// parameter-type arity and the callable itself, following
// original_source/libcsvsqldb/function_registry.h's Function shape.
type Function struct {
	Name       string
	ParamTypes []value.Type
	Call       func(args []value.Value) (value.Value, error)
}

// Registry is a read-only-after-construction function lookup table, the
// FUNC opcode's counterpart to value's binary/unary dispatch registries.
type Registry struct {
	functions map[string]Function
}

// NewRegistry returns a Registry preloaded with the built-in scalar
// functions (UPPER, LOWER, LENGTH, ABS, TRIM, COALESCE2).
func NewRegistry() *Registry {
	r := &Registry{functions: map[string]Function{}}
	for _, fn := range builtins() {
		r.functions[fn.Name] = fn
	}
	return r
}

// Register installs or overrides a function under its own name.
func (r *Registry) Register(fn Function) { r.functions[fn.Name] = fn }

// Lookup returns the function registered under name, case-insensitively,
// matching SQL's unquoted-identifier case folding.
func (r *Registry) Lookup(name string) (Function, bool) {
	fn, ok := r.functions[strings.ToUpper(name)]
	return fn, ok
}

func builtins() []Function {
	return []Function{
		{
			Name:       "UPPER",
			ParamTypes: []value.Type{value.String},
			Call: func(args []value.Value) (value.Value, error) {
				return value.Str(strings.ToUpper(args[0].AsString())), nil
			},
		},
		{
			Name:       "LOWER",
			ParamTypes: []value.Type{value.String},
			Call: func(args []value.Value) (value.Value, error) {
				return value.Str(strings.ToLower(args[0].AsString())), nil
			},
		},
		{
			Name:       "LENGTH",
			ParamTypes: []value.Type{value.String},
			Call: func(args []value.Value) (value.Value, error) {
				return value.NewInt(int64(len(args[0].AsString()))), nil
			},
		},
		{
			Name:       "TRIM",
			ParamTypes: []value.Type{value.String},
			Call: func(args []value.Value) (value.Value, error) {
				return value.Str(strings.TrimSpace(args[0].AsString())), nil
			},
		},
		{
			Name:       "ABS",
			ParamTypes: []value.Type{value.Real},
			Call: func(args []value.Value) (value.Value, error) {
				f := args[0].AsFloat()
				if f < 0 {
					f = -f
				}
				return value.NewFloat(f), nil
			},
		},
		{
			Name:       "COALESCE2",
			ParamTypes: []value.Type{value.String, value.String},
			Call: func(args []value.Value) (value.Value, error) {
				if !args[0].IsNull() {
					return args[0], nil
				}
				return args[1], nil
			},
		},
	}
}

// Arity returns the number of parameters the named function declares, or an
// error if it is not registered. Used by the (external) lowering pass when
// it emits a FUNC instruction.
func (r *Registry) Arity(name string) (int, error) {
	fn, ok := r.Lookup(name)
	if !ok {
		return 0, fmt.Errorf("stackvm: function %q not found", name)
	}
	return len(fn.ParamTypes), nil
}
