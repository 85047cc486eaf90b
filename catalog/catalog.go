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
	"sync"

	"github.com/fuersten/csvsqldb/csqlerr"
	"golang.org/x/exp/slices"
)

// Catalog is the directory of tables and CSV mappings a query resolves
// identifiers and scan sources against. It is safe for concurrent reads;
// writes (CreateTable, DropTable, ...) are serialized through mu the same
// way the original engine guards its catalog during DDL.
type Catalog struct {
	mu       sync.RWMutex
	tables   map[string]*Table
	mappings map[string]*Mapping
}

// New returns an empty Catalog with the system tables predeclared.
func New() *Catalog {
	c := &Catalog{
		tables:   map[string]*Table{},
		mappings: map[string]*Mapping{},
	}
	for _, t := range systemTables() {
		c.tables[t.Name] = t
	}
	return c
}

// CreateTable registers a new table. It fails if a table of that name
// already exists, including a system table.
func (c *Catalog) CreateTable(t *Table) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if _, ok := c.tables[t.Name]; ok {
		return fmt.Errorf("catalog: table %q already exists", t.Name)
	}
	c.tables[t.Name] = t
	return nil
}

// DropTable removes a table and its mapping, if any. Dropping a system
// table is not allowed.
func (c *Catalog) DropTable(name string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if IsSystemTable(name) {
		return fmt.Errorf("catalog: cannot drop system table %q", name)
	}
	if _, ok := c.tables[name]; !ok {
		return &csqlerr.CatalogError{MissingTable: name}
	}
	delete(c.tables, name)
	delete(c.mappings, name)
	return nil
}

// AddColumn appends a column to an existing table.
func (c *Catalog) AddColumn(table string, col Column) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	t, ok := c.tables[table]
	if !ok {
		return &csqlerr.CatalogError{MissingTable: table}
	}
	if _, ok := t.ColumnIndex(col.Name); ok {
		return fmt.Errorf("catalog: column %q already exists on table %q", col.Name, table)
	}
	t.Columns = append(t.Columns, col)
	return nil
}

// DropColumn removes a column from an existing table by name.
func (c *Catalog) DropColumn(table, column string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	t, ok := c.tables[table]
	if !ok {
		return &csqlerr.CatalogError{MissingTable: table}
	}
	idx, ok := t.ColumnIndex(column)
	if !ok {
		return &csqlerr.CatalogError{MissingTable: table, MissingColumn: column}
	}
	t.Columns = append(t.Columns[:idx], t.Columns[idx+1:]...)
	return nil
}

// CreateMapping binds table to the files matched by glob. It fails if the
// table is not known, or already has a mapping.
func (c *Catalog) CreateMapping(m Mapping) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if _, ok := c.tables[m.TableName]; !ok {
		return &csqlerr.CatalogError{MissingTable: m.TableName}
	}
	if _, ok := c.mappings[m.TableName]; ok {
		return fmt.Errorf("catalog: table %q already has a mapping", m.TableName)
	}
	c.mappings[m.TableName] = &m
	return nil
}

// DropMapping removes a table's CSV mapping, if one exists.
func (c *Catalog) DropMapping(table string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if _, ok := c.mappings[table]; !ok {
		return &csqlerr.CatalogError{MissingTable: table}
	}
	delete(c.mappings, table)
	return nil
}

// Table returns the named table, or a *csqlerr.CatalogError if it does
// not exist.
func (c *Catalog) Table(name string) (*Table, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	t, ok := c.tables[name]
	if !ok {
		return nil, &csqlerr.CatalogError{MissingTable: name}
	}
	return t, nil
}

// Column returns the named column of the named table, or a
// *csqlerr.CatalogError if either does not exist.
func (c *Catalog) Column(table, column string) (*Column, error) {
	t, err := c.Table(table)
	if err != nil {
		return nil, err
	}
	idx, ok := t.ColumnIndex(column)
	if !ok {
		return nil, &csqlerr.CatalogError{MissingTable: table, MissingColumn: column}
	}
	return &t.Columns[idx], nil
}

// Mapping returns the CSV mapping for the named table, or a
// *csqlerr.CatalogError if the table has none.
func (c *Catalog) Mapping(table string) (*Mapping, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	m, ok := c.mappings[table]
	if !ok {
		return nil, &csqlerr.CatalogError{MissingTable: table}
	}
	return m, nil
}

// Tables returns every known table, user-declared and system, sorted by
// name for deterministic introspection (system_tables relies on this).
func (c *Catalog) Tables() []*Table {
	c.mu.RLock()
	defer c.mu.RUnlock()
	names := make([]string, 0, len(c.tables))
	for name := range c.tables {
		names = append(names, name)
	}
	slices.Sort(names)
	tables := make([]*Table, len(names))
	for i, name := range names {
		tables[i] = c.tables[name]
	}
	return tables
}
