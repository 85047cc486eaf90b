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

import (
	"golang.org/x/exp/slices"

	"github.com/fuersten/csvsqldb/value"
)

// SortSpec is one ORDER BY key: a positional column index and direction.
type SortSpec struct {
	Column int
	Desc   bool
}

// SortingIterator materializes its upstream once, recording each row's
// start pointer, then sorts those pointers by re-reading the configured
// sort-key columns before replaying in order.
type SortingIterator struct {
	writer   *Writer
	types    []value.Type
	pointers []RowPointer
	pos      int
}

// NewSortingIterator materializes upstream into mgr and sorts it by specs.
func NewSortingIterator(mgr *Manager, types []value.Type, specs []SortSpec, upstream RowProvider) (*SortingIterator, error) {
	w, err := NewWriter(mgr)
	if err != nil {
		return nil, err
	}
	var pointers []RowPointer
	for {
		row, err := upstream.NextRow()
		if err != nil {
			return nil, err
		}
		if row == nil {
			break
		}
		p, err := w.WriteRow(row)
		if err != nil {
			return nil, err
		}
		pointers = append(pointers, p)
	}
	if err := w.Close(); err != nil {
		return nil, err
	}

	chain := w.Chain()
	rowAt := func(p RowPointer) []value.Value {
		r := NewReader(chain, types)
		r.Seek(p)
		row, err := r.NextRow()
		if err != nil {
			return nil
		}
		return row
	}
	// cmp returns negative/zero/positive; golang.org/x/exp/slices at this
	// vintage takes a less-than predicate, so the stable sort below wraps it.
	cmp := func(a, b RowPointer) int {
		ra, rb := rowAt(a), rowAt(b)
		for _, sp := range specs {
			va, vb := ra[sp.Column], rb[sp.Column]
			// Nulls sort first regardless of ASC/DESC, matching the
			// convention most SQL engines default to for NULLS FIRST.
			if va.IsNull() || vb.IsNull() {
				if va.IsNull() && vb.IsNull() {
					continue
				}
				if va.IsNull() {
					return -1
				}
				return 1
			}
			c := compareValues(va, vb)
			if sp.Desc {
				c = -c
			}
			if c != 0 {
				return c
			}
		}
		return 0
	}
	slices.SortStableFunc(pointers, func(a, b RowPointer) bool { return cmp(a, b) < 0 })

	return &SortingIterator{writer: w, types: types, pointers: pointers}, nil
}

// NextRow replays in sorted order.
func (it *SortingIterator) NextRow() ([]value.Value, error) {
	if it.pos >= len(it.pointers) {
		return nil, nil
	}
	p := it.pointers[it.pos]
	it.pos++
	r := NewReader(it.writer.Chain(), it.types)
	r.Seek(p)
	return r.NextRow()
}

// compareValues orders two non-null values of the same column by
// delegating to the value package's comparison registry, so every
// comparable type (numeric, string, date/time) sorts using its own rule.
// Callers handle nulls themselves before reaching here.
func compareValues(a, b value.Value) int {
	if lt, err := value.BinaryOp(value.OpLT, a, b); err == nil && !lt.IsNull() && lt.AsBool() {
		return -1
	}
	if eq, err := value.BinaryOp(value.OpEQ, a, b); err == nil && !eq.IsNull() && eq.AsBool() {
		return 0
	}
	return 1
}
