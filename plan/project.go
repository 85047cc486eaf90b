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

// ProjectExpr configures one output column of an ExtendedProject: a
// compiled expression plus the display name/alias/type a parent operator
// or the Output operator needs.
type ProjectExpr struct {
	Program *stackvm.Program
	Name    string
	Alias   string
	Type    value.Type
}

// ExtendedProject yields one row per input row with exprs evaluated
// against it, passing pure column references through unevaluated would be
// an optimization; here every expression -- including plain PUSHVAR
// column refs -- runs through the same stack machine.
type ExtendedProject struct {
	input Operator
	exprs []ProjectExpr
	funcs *stackvm.Registry
}

// NewExtendedProject wraps input, evaluating exprs per row.
func NewExtendedProject(input Operator, exprs []ProjectExpr, funcs *stackvm.Registry) *ExtendedProject {
	return &ExtendedProject{input: input, exprs: exprs, funcs: funcs}
}

func (p *ExtendedProject) NextRow() ([]value.Value, error) {
	row, err := p.input.NextRow()
	if err != nil || row == nil {
		return row, err
	}
	out := make([]value.Value, len(p.exprs))
	for i, e := range p.exprs {
		v, err := evalRow(e.Program, row, p.funcs)
		if err != nil {
			return nil, err
		}
		out[i] = v
	}
	return out, nil
}

func (p *ExtendedProject) ColumnInfos() []ColumnInfo {
	infos := make([]ColumnInfo, len(p.exprs))
	for i, e := range p.exprs {
		infos[i] = ColumnInfo{Name: e.Name, Alias: e.Alias, Type: e.Type}
	}
	return infos
}

func (p *ExtendedProject) Close() error { return p.input.Close() }
