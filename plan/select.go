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

package plan

import (
	"github.com/fuersten/csvsqldb/stackvm"
	"github.com/fuersten/csvsqldb/value"
)

// evalRow runs prog against row, binding slot i to row[i].
func evalRow(prog *stackvm.Program, row []value.Value, funcs *stackvm.Registry) (value.Value, error) {
	store := stackvm.NewVariableStore()
	for i, v := range row {
		store.Set(i, v)
	}
	return stackvm.Run(prog, store, funcs)
}

// Select yields only rows for which Predicate evaluates to true; a null
// result is treated as false.
type Select struct {
	input     Operator
	predicate *stackvm.Program
	funcs     *stackvm.Registry
}

// NewSelect wraps input, filtering by predicate.
func NewSelect(input Operator, predicate *stackvm.Program, funcs *stackvm.Registry) *Select {
	return &Select{input: input, predicate: predicate, funcs: funcs}
}

func (s *Select) NextRow() ([]value.Value, error) {
	for {
		row, err := s.input.NextRow()
		if err != nil || row == nil {
			return row, err
		}
		result, err := evalRow(s.predicate, row, s.funcs)
		if err != nil {
			return nil, err
		}
		if !result.IsNull() && result.AsBool() {
			return row, nil
		}
	}
}

func (s *Select) ColumnInfos() []ColumnInfo { return s.input.ColumnInfos() }
func (s *Select) Close() error              { return s.input.Close() }
