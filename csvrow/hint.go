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

// Package csvrow parses CSV records into typed value.Value rows, driven by
// a per-column Hint that carries the column's declared SQL type --
// adapted from the xsv package's JSON ingestion-hint mechanism (xsv.Hint),
// retargeted from writing ION structs to filling a flat []value.Value row.
package csvrow

import (
	"encoding/json"
	"errors"

	"github.com/fuersten/csvsqldb/value"
)

// ErrNoColumns is returned when a Hint declares no columns.
var ErrNoColumns = errors.New("csvrow: hint declares no columns")

// ColumnHint describes how one CSV field maps onto a table column.
type ColumnHint struct {
	// Name is the column name, used only for diagnostics.
	Name string `json:"name"`
	// Type is the column's declared SQL type.
	Type value.Type `json:"-"`
	// TypeName is Type's textual form, used for JSON (de)serialization
	// ("INTEGER", "REAL", "BOOLEAN", "DATE", "TIME", "TIMESTAMP", "VARCHAR").
	TypeName string `json:"type"`
	// Nullable allows an empty CSV field to map to SQL NULL. When false, an
	// empty field is a CastError instead.
	Nullable bool `json:"nullable"`
}

// Hint describes how to interpret one CSV file's records.
type Hint struct {
	// SkipRecords skips the first N records (e.g. a header line).
	SkipRecords int `json:"skipRecords"`
	// Separator overrides the default ',' field separator.
	Separator rune `json:"separator"`
	// Columns declares, in CSV column order, the SQL type of each field.
	Columns []ColumnHint `json:"columns"`
}

func typeByName(name string) (value.Type, bool) {
	switch name {
	case "BOOLEAN":
		return value.Boolean, true
	case "INTEGER":
		return value.Integer, true
	case "REAL":
		return value.Real, true
	case "DATE":
		return value.Date, true
	case "TIME":
		return value.Time, true
	case "TIMESTAMP":
		return value.Timestamp, true
	case "VARCHAR", "":
		return value.String, true
	default:
		return value.Null, false
	}
}

// ParseHint decodes a JSON-encoded Hint, resolving each column's TypeName
// into its value.Type.
func ParseHint(data []byte) (*Hint, error) {
	var h Hint
	if err := json.Unmarshal(data, &h); err != nil {
		return nil, err
	}
	if len(h.Columns) == 0 {
		return nil, ErrNoColumns
	}
	for i := range h.Columns {
		t, ok := typeByName(h.Columns[i].TypeName)
		if !ok {
			return nil, errors.New("csvrow: unknown column type " + h.Columns[i].TypeName)
		}
		h.Columns[i].Type = t
	}
	return &h, nil
}

// HintFromTypes builds a Hint directly from an ordered column-name/type
// list, the path the catalog's table definition takes (no JSON round trip).
func HintFromTypes(names []string, types []value.Type) *Hint {
	cols := make([]ColumnHint, len(types))
	for i, t := range types {
		name := ""
		if i < len(names) {
			name = names[i]
		}
		cols[i] = ColumnHint{Name: name, Type: t, TypeName: t.String(), Nullable: true}
	}
	return &Hint{Columns: cols}
}
