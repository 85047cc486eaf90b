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
	"github.com/fuersten/csvsqldb/catalog"
	"github.com/fuersten/csvsqldb/value"
)

// SystemScan yields rows from one of the catalog's predeclared virtual
// tables (system_dual, system_tables, system_columns), materialized once
// at construction time.
type SystemScan struct {
	columns []ColumnInfo
	rows    [][]value.Value
	pos     int
}

// NewSystemScan reads name's rows out of cat as of this call.
func NewSystemScan(cat *catalog.Catalog, name string) (*SystemScan, error) {
	rows, types, err := cat.SystemRows(name)
	if err != nil {
		return nil, err
	}
	columns := make([]ColumnInfo, len(types))
	for i, t := range types {
		columns[i] = ColumnInfo{Table: name, Type: t}
	}
	return &SystemScan{columns: columns, rows: rows}, nil
}

func (s *SystemScan) NextRow() ([]value.Value, error) {
	if s.pos >= len(s.rows) {
		return nil, nil
	}
	row := s.rows[s.pos]
	s.pos++
	return row, nil
}

func (s *SystemScan) ColumnInfos() []ColumnInfo { return s.columns }
func (s *SystemScan) Close() error              { return nil }
