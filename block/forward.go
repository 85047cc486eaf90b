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
	"github.com/fuersten/csvsqldb/csqlerr"
	"github.com/fuersten/csvsqldb/value"
)

// ForwardIterator reads a chain of blocks as they arrive on a channel,
// the Go rendering of a bounded producer/consumer FIFO:
// a receive on blocks blocks the consumer when empty, a send on it blocks
// the scan goroutine when full. It keeps at most two blocks live (current
// and the one it just moved past, for values that straddled the boundary)
// and releases the previous one back to mgr as soon as it is done with it.
type ForwardIterator struct {
	mgr      *Manager
	blocks   <-chan *Block
	types    []value.Type
	current  *Block
	previous *Block
	offset   int
	done     bool
}

// NewForwardIterator returns a ForwardIterator pulling blocks from the
// given channel, which the producer closes after sending the block
// carrying the final end tag.
func NewForwardIterator(mgr *Manager, blocks <-chan *Block, types []value.Type) *ForwardIterator {
	return &ForwardIterator{mgr: mgr, blocks: blocks, types: types}
}

func (it *ForwardIterator) advanceBlock() bool {
	b, ok := <-it.blocks
	if !ok {
		return false
	}
	if it.previous != nil {
		it.mgr.Release(it.previous)
	}
	it.previous = it.current
	it.current = b
	it.offset = 0
	return true
}

// NextRow returns the next row in file order, or (nil, nil) once the end
// tag has been observed.
func (it *ForwardIterator) NextRow() ([]value.Value, error) {
	if it.done {
		return nil, nil
	}
	if it.current == nil {
		if !it.advanceBlock() {
			it.done = true
			return nil, nil
		}
	}
	var partial []value.Value
	for {
		row, next, tag, err := decodeRow(it.current, it.offset, it.types, partial)
		if err != nil {
			return nil, err
		}
		switch tag {
		case TagRowEnd:
			it.offset = next
			return row, nil
		case TagContinuation:
			partial = row
			prevID := it.current.id
			if !it.advanceBlock() {
				return nil, &csqlerr.FramingError{Expected: TagValue, Actual: TagContinuation, BlockID: prevID, Offset: next}
			}
		case TagEnd:
			it.done = true
			if it.previous != nil {
				it.mgr.Release(it.previous)
				it.previous = nil
			}
			it.mgr.Release(it.current)
			return nil, nil
		}
	}
}
