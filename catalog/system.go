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

package catalog

import (
	"github.com/fuersten/csvsqldb/csqlerr"
	"github.com/fuersten/csvsqldb/value"
)

const (
	systemDualName    = "system_dual"
	systemTablesName  = "system_tables"
	systemColumnsName = "system_columns"
)

// SystemTableNames returns the names of the predeclared introspection
// tables every Catalog carries, in the fixed order they are created in.
func SystemTableNames() []string {
	return []string{systemDualName, systemTablesName, systemColumnsName}
}

// IsSystemTable reports whether name is one of the predeclared
// introspection tables.
func IsSystemTable(name string) bool {
	for _, n := range SystemTableNames() {
		if n == name {
			return true
		}
	}
	return false
}

// systemTables returns the predeclared introspection tables, following
// original_source/libcsvsqldb's SYSTEM_DUAL / SYSTEM_TABLES /
// SYSTEM_COLUMNS, the anchor a SELECT 1 FROM system_dual style query
// needs.
func systemTables() []*Table {
	return []*Table{
		// system_dual carries no columns: a standard SQL dummy table used
		// only to anchor a scalar-only SELECT.
		{Name: systemDualName, Columns: nil},
		{Name: systemTablesName, Columns: []Column{
			{Name: "table_name", Type: value.String, Nullable: false},
		}},
		{Name: systemColumnsName, Columns: []Column{
			{Name: "table_name", Type: value.String, Nullable: false},
			{Name: "column_name", Type: value.String, Nullable: false},
			{Name: "column_type", Type: value.String, Nullable: false},
			{Name: "nullable", Type: value.Boolean, Nullable: false},
		}},
	}
}

// SystemRows materializes the introspection rows for a predeclared system
// table as of the Catalog's current contents. system_dual always yields
// a single row with no columns; system_tables lists every known table name;
// system_columns lists every column of every known table.
func (c *Catalog) SystemRows(name string) ([][]value.Value, []value.Type, error) {
	switch name {
	case systemDualName:
		return [][]value.Value{{}}, nil, nil
	case systemTablesName:
		rows := make([][]value.Value, 0, len(c.tables))
		for _, t := range c.Tables() {
			rows = append(rows, []value.Value{value.Str(t.Name)})
		}
		return rows, []value.Type{value.String}, nil
	case systemColumnsName:
		var rows [][]value.Value
		for _, t := range c.Tables() {
			for _, col := range t.Columns {
				rows = append(rows, []value.Value{
					value.Str(t.Name),
					value.Str(col.Name),
					value.Str(col.Type.String()),
					value.NewBool(col.Nullable),
				})
			}
		}
		types := []value.Type{value.String, value.String, value.String, value.Boolean}
		return rows, types, nil
	default:
		return nil, nil, &csqlerr.CatalogError{MissingTable: name}
	}
}
