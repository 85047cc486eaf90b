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

// Package plan assembles compiled operator specs into a live, pull-based
// (Volcano style) operator tree and drives it to completion. The AST-to-operator-spec lowering pass that a real SQL
// front end would perform is out of scope; callers hand plan.Build an
// already-compiled OperatorSpec tree, the same contract a real parser's
// lowering visitor would satisfy.
package plan

import "github.com/fuersten/csvsqldb/value"

// ColumnInfo is one entry in an operator's output schema: a qualified
// name, an optional alias, and a type.
type ColumnInfo struct {
	Table string
	Name  string
	Alias string
	Type  value.Type
}

// label returns the name a parent operator's diagnostics or an Output
// header line should use for this column: the alias if set, else the
// plain name.
func (c ColumnInfo) label() string {
	if c.Alias != "" {
		return c.Alias
	}
	return c.Name
}

// Operator is one node of a pull-based operator tree. NextRow returns
// (nil, nil) once exhausted; Close releases
// any resources the operator or its children acquired (block managers,
// scan goroutines) and must be safe to call once whether or not the
// operator was fully drained.
type Operator interface {
	NextRow() ([]value.Value, error)
	ColumnInfos() []ColumnInfo
	Close() error
}

// typesOf returns types extracted from infos, the shape every
// block iterator constructor wants for decoding.
func typesOf(infos []ColumnInfo) []value.Type {
	types := make([]value.Type, len(infos))
	for i, c := range infos {
		types[i] = c.Type
	}
	return types
}
