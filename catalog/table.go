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

// Package catalog is the read-only-during-query directory of tables,
// columns, and CSV mappings the operator pipeline resolves identifiers
// and scan sources against. Schema changes between queries are not
// synchronized by this package; within one query it is read-only.
package catalog

import (
	"fmt"

	"github.com/fuersten/csvsqldb/csqlerr"
	"github.com/fuersten/csvsqldb/stackvm"
	"github.com/fuersten/csvsqldb/value"
)

// Column describes one table column and the constraints CREATE TABLE may
// declare on it.
type Column struct {
	Name       string
	Type       value.Type
	Nullable   bool
	Unique     bool
	PrimaryKey bool

	HasDefault bool
	Default    value.Value

	// Check, if non-nil, is a compiled predicate evaluated with a
	// VariableStore whose slot i holds the row's i-th column; a false or
	// null result fails the constraint. Compiling a CHECK expression's AST
	// into a Program is the (out-of-scope) lowering pass's job; catalog
	// only stores and evaluates it.
	Check *stackvm.Program
}

// Table is one user-declared relation: an ordered column list plus the
// constraints on it.
type Table struct {
	Name    string
	Columns []Column
}

// ColumnIndex returns the positional index of a column by name.
func (t *Table) ColumnIndex(name string) (int, bool) {
	for i, c := range t.Columns {
		if c.Name == name {
			return i, true
		}
	}
	return 0, false
}

// Types returns the table's column types in declaration order, the shape
// block.Reader and the block iterators decode against.
func (t *Table) Types() []value.Type {
	types := make([]value.Type, len(t.Columns))
	for i, c := range t.Columns {
		types[i] = c.Type
	}
	return types
}

// Validate enforces NOT NULL and CHECK against one row, following
// libcsvsqldb's constraint checks living alongside CSV ingestion. A
// violation is reported as a *csqlerr.CSVParseError so the scan operator
// can skip the offending row and continue, the same non-fatal path a
// malformed field takes.
func (t *Table) Validate(row []value.Value, file string, line int, funcs *stackvm.Registry) error {
	if len(row) != len(t.Columns) {
		return &csqlerr.CSVParseError{File: file, Line: line, Reason: fmt.Sprintf("expected %d columns, got %d", len(t.Columns), len(row))}
	}
	for i, c := range t.Columns {
		if !c.Nullable && row[i].IsNull() {
			return &csqlerr.CSVParseError{File: file, Line: line, Column: i, Field: c.Name, Reason: "NOT NULL constraint violated"}
		}
		if c.Check == nil {
			continue
		}
		store := stackvm.NewVariableStore()
		for j, v := range row {
			store.Set(j, v)
		}
		result, err := stackvm.Run(c.Check, store, funcs)
		if err != nil {
			return &csqlerr.CSVParseError{File: file, Line: line, Column: i, Field: c.Name, Reason: err.Error()}
		}
		if result.IsNull() || !result.AsBool() {
			return &csqlerr.CSVParseError{File: file, Line: line, Column: i, Field: c.Name, Reason: "CHECK constraint violated"}
		}
	}
	return nil
}
