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

package block

import "github.com/fuersten/csvsqldb/value"

// CachingIterator pulls every row from an upstream RowProvider exactly
// once, on its first NextRow call, materializing them into its own block
// chain; every subsequent pass replays that chain without touching
// upstream again. CrossJoin uses this to rewind its right-hand input once
// per left-hand row.
type CachingIterator struct {
	mgr          *Manager
	types        []value.Type
	upstream     RowProvider
	writer       *Writer
	materialized bool
	reader       *Reader
}

// NewCachingIterator wraps upstream, lazily materializing into mgr on
// first use.
func NewCachingIterator(mgr *Manager, types []value.Type, upstream RowProvider) *CachingIterator {
	return &CachingIterator{mgr: mgr, types: types, upstream: upstream}
}

func (c *CachingIterator) materialize() error {
	w, err := NewWriter(c.mgr)
	if err != nil {
		return err
	}
	for {
		row, err := c.upstream.NextRow()
		if err != nil {
			return err
		}
		if row == nil {
			break
		}
		if _, err := w.WriteRow(row); err != nil {
			return err
		}
	}
	if err := w.Close(); err != nil {
		return err
	}
	c.writer = w
	c.materialized = true
	c.reader = NewReader(w.Chain(), c.types)
	return nil
}

// NextRow materializes on the first call, then replays.
func (c *CachingIterator) NextRow() ([]value.Value, error) {
	if !c.materialized {
		if err := c.materialize(); err != nil {
			return nil, err
		}
	}
	return c.reader.NextRow()
}

// Rewind resets replay to the first row, materializing first if this is
// the very first pass.
func (c *CachingIterator) Rewind() error {
	if !c.materialized {
		return c.materialize()
	}
	c.reader = NewReader(c.writer.Chain(), c.types)
	return nil
}
