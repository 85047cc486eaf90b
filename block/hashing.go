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

// HashingIterator materializes its upstream once into its own block
// chain, and into a multimap keyed by a configured column's value.Hash, so
// InnerJoin's hash-join strategy can probe the build side once per
// left-hand row instead of rescanning it.
type HashingIterator struct {
	writer     *Writer
	types      []value.Type
	keyColumn  int
	k0, k1     uint64
	index      map[uint64][]RowPointer
	all        []RowPointer
	scanPos    int
	currentKey value.Value
	matches    []RowPointer
	matchPos   int
}

// NewHashingIterator materializes upstream into mgr, indexing each row by
// the value at keyColumn.
func NewHashingIterator(mgr *Manager, types []value.Type, keyColumn int, k0, k1 uint64, upstream RowProvider) (*HashingIterator, error) {
	w, err := NewWriter(mgr)
	if err != nil {
		return nil, err
	}
	idx := make(map[uint64][]RowPointer)
	var all []RowPointer
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
		all = append(all, p)
		h := row[keyColumn].Hash(k0, k1)
		idx[h] = append(idx[h], p)
	}
	if err := w.Close(); err != nil {
		return nil, err
	}
	return &HashingIterator{writer: w, types: types, keyColumn: keyColumn, k0: k0, k1: k1, index: idx, all: all}, nil
}

func (h *HashingIterator) rowAt(p RowPointer) ([]value.Value, error) {
	r := NewReader(h.writer.Chain(), h.types)
	r.Seek(p)
	return r.NextRow()
}

// SetContextForKey positions the probe cursor at key's first matching
// build-side row, if any.
func (h *HashingIterator) SetContextForKey(key value.Value) {
	h.currentKey = key
	h.matches = h.index[key.Hash(h.k0, h.k1)]
	h.matchPos = 0
}

// NextKeyValueRow yields successive build-side rows matching the key set
// by SetContextForKey, re-checking equality to guard against hash
// collisions between distinct key values.
func (h *HashingIterator) NextKeyValueRow() ([]value.Value, error) {
	for h.matchPos < len(h.matches) {
		p := h.matches[h.matchPos]
		h.matchPos++
		row, err := h.rowAt(p)
		if err != nil {
			return nil, err
		}
		eq, err := value.BinaryOp(value.OpEQ, row[h.keyColumn], h.currentKey)
		if err != nil {
			return nil, err
		}
		if !eq.IsNull() && eq.AsBool() {
			return row, nil
		}
	}
	return nil, nil
}

// NextRow supports a full scan of the build side in insertion order,
// independent of SetContextForKey/NextKeyValueRow.
func (h *HashingIterator) NextRow() ([]value.Value, error) {
	if h.scanPos >= len(h.all) {
		return nil, nil
	}
	p := h.all[h.scanPos]
	h.scanPos++
	return h.rowAt(p)
}
