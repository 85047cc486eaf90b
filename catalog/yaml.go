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
	"fmt"
	"strconv"

	"github.com/fuersten/csvsqldb/value"
	"gopkg.in/yaml.v2"
)

// Definition is the on-disk, YAML shape of a Catalog, the persisted form
// of a CREATE TABLE / MAPPING session. System tables are never part of it; they are
// reconstructed by New on load.
type Definition struct {
	Tables   []tableDef   `yaml:"tables"`
	Mappings []mappingDef `yaml:"mappings,omitempty"`
}

type columnDef struct {
	Name       string `yaml:"name"`
	Type       string `yaml:"type"`
	Nullable   bool   `yaml:"nullable,omitempty"`
	Unique     bool   `yaml:"unique,omitempty"`
	PrimaryKey bool   `yaml:"primaryKey,omitempty"`
	Default    string `yaml:"default,omitempty"`
	HasDefault bool   `yaml:"-"`
}

type tableDef struct {
	Name    string      `yaml:"name"`
	Columns []columnDef `yaml:"columns"`
}

type mappingDef struct {
	Table      string `yaml:"table"`
	FileGlob   string `yaml:"fileGlob"`
	Delimiter  string `yaml:"delimiter,omitempty"`
	SkipHeader bool   `yaml:"skipHeader,omitempty"`
}

func typeFromName(name string) (value.Type, error) {
	switch name {
	case "BOOLEAN":
		return value.Boolean, nil
	case "INTEGER":
		return value.Integer, nil
	case "REAL":
		return value.Real, nil
	case "DATE":
		return value.Date, nil
	case "TIME":
		return value.Time, nil
	case "TIMESTAMP":
		return value.Timestamp, nil
	case "STRING", "VARCHAR":
		return value.String, nil
	default:
		return value.Null, fmt.Errorf("catalog: unknown column type %q", name)
	}
}

// parseDefaultLiteral turns a YAML-stored default string back into a
// value.Value of type t. Date/Time/Timestamp go through
// value.ParseLiteral's ISO parsing; the remaining scalar types are parsed
// directly since ParseLiteral only covers calendar types.
func parseDefaultLiteral(t value.Type, s string) (value.Value, error) {
	switch t {
	case value.Date, value.Time, value.Timestamp:
		return value.ParseLiteral(t, s)
	case value.Boolean:
		b, err := strconv.ParseBool(s)
		if err != nil {
			return value.Value{}, err
		}
		return value.NewBool(b), nil
	case value.Integer:
		i, err := strconv.ParseInt(s, 10, 64)
		if err != nil {
			return value.Value{}, err
		}
		return value.NewInt(i), nil
	case value.Real:
		f, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return value.Value{}, err
		}
		return value.NewFloat(f), nil
	case value.String:
		return value.Str(s), nil
	default:
		return value.Value{}, fmt.Errorf("catalog: cannot parse default literal for type %s", t)
	}
}

// SaveDefinition renders a Catalog's user-declared tables and mappings
// (system tables excluded) into YAML. A column's Check is a compiled
// *stackvm.Program and has no textual form; it is intentionally dropped
// and must be recompiled from the original DDL after LoadDefinition.
func SaveDefinition(c *Catalog) ([]byte, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	def := Definition{}
	for _, t := range c.Tables() {
		if IsSystemTable(t.Name) {
			continue
		}
		td := tableDef{Name: t.Name}
		for _, col := range t.Columns {
			cd := columnDef{
				Name:       col.Name,
				Type:       col.Type.String(),
				Nullable:   col.Nullable,
				Unique:     col.Unique,
				PrimaryKey: col.PrimaryKey,
			}
			if col.HasDefault {
				cd.Default = col.Default.String()
			}
			td.Columns = append(td.Columns, cd)
		}
		def.Tables = append(def.Tables, td)
	}
	for name, m := range c.mappings {
		def.Mappings = append(def.Mappings, mappingDef{
			Table:      name,
			FileGlob:   m.FileGlob,
			Delimiter:  string(m.Delimiter),
			SkipHeader: m.SkipHeader,
		})
	}
	return yaml.Marshal(def)
}

// LoadDefinition parses YAML produced by SaveDefinition (or hand-written
// in the same shape) into a fresh Catalog. Loaded columns never carry a
// Check program; callers that need constraint enforcement must recompile
// and reattach it after loading.
func LoadDefinition(data []byte) (*Catalog, error) {
	var def Definition
	if err := yaml.Unmarshal(data, &def); err != nil {
		return nil, err
	}
	c := New()
	for _, td := range def.Tables {
		t := &Table{Name: td.Name}
		for _, cd := range td.Columns {
			typ, err := typeFromName(cd.Type)
			if err != nil {
				return nil, err
			}
			col := Column{
				Name:       cd.Name,
				Type:       typ,
				Nullable:   cd.Nullable,
				Unique:     cd.Unique,
				PrimaryKey: cd.PrimaryKey,
			}
			if cd.Default != "" {
				dv, err := parseDefaultLiteral(typ, cd.Default)
				if err != nil {
					return nil, fmt.Errorf("catalog: table %s column %s: %w", td.Name, cd.Name, err)
				}
				col.HasDefault = true
				col.Default = dv
			}
			t.Columns = append(t.Columns, col)
		}
		if err := c.CreateTable(t); err != nil {
			return nil, err
		}
	}
	for _, md := range def.Mappings {
		m := Mapping{TableName: md.Table, FileGlob: md.FileGlob, SkipHeader: md.SkipHeader, Delimiter: ','}
		if md.Delimiter != "" {
			m.Delimiter = rune(md.Delimiter[0])
		}
		if err := c.CreateMapping(m); err != nil {
			return nil, err
		}
	}
	return c, nil
}
