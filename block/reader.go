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

// RowProvider is the pull interface every block iterator and the operator
// pipeline's scan leaves expose: nextRow until exhausted, then nil rows
// forever.
type RowProvider interface {
	NextRow() ([]value.Value, error)
}

// Reader sequentially decodes rows from a known, already-materialized
// block chain. Unlike ForwardIterator it never releases blocks: callers
// that materialize a chain own its lifetime.
type Reader struct {
	chain    []*Block
	types    []value.Type
	blockIdx int
	offset   int
	done     bool
}

// NewReader returns a Reader positioned at the start of chain. types gives
// the expected type of each column, in row order.
func NewReader(chain []*Block, types []value.Type) *Reader {
	return &Reader{chain: chain, types: types}
}

// Seek repositions the reader at a previously recorded RowPointer.
func (r *Reader) Seek(p RowPointer) {
	r.blockIdx = p.BlockIndex
	r.offset = p.Offset
	r.done = false
}

// NextRow decodes and returns the next row, or (nil, nil) once the chain's
// end tag has been consumed.
func (r *Reader) NextRow() ([]value.Value, error) {
	if r.done {
		return nil, nil
	}
	var partial []value.Value
	for {
		if r.blockIdx >= len(r.chain) {
			r.done = true
			return nil, nil
		}
		row, next, tag, err := decodeRow(r.chain[r.blockIdx], r.offset, r.types, partial)
		if err != nil {
			return nil, err
		}
		switch tag {
		case TagRowEnd:
			r.offset = next
			return row, nil
		case TagContinuation:
			partial = row
			r.blockIdx++
			r.offset = 0
		case TagEnd:
			r.done = true
			return nil, nil
		}
	}
}
