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

// RowPointer locates a row's first value, relative to one Writer's own
// block chain rather than to the Manager's global id space: a Manager's
// block ids are a monotonic counter shared by every writer/operator that
// owns it, so "the next id" is not reliably "the next block in this
// chain." BlockIndex indexes Writer.Chain() instead.
type RowPointer struct {
	BlockIndex int
	Offset     int
}

// Writer appends rows to a private chain of blocks drawn from a Manager,
// transparently opening a new block (and writing a continuation tag in the
// old one) whenever a value or tag does not fit.
type Writer struct {
	mgr     *Manager
	chain   []*Block
	current int // index into chain of the block currently being written

	// onSealed, if set, is invoked with a block once no further writes will
	// land in it (on rollover, and on the final block at Close). A scan
	// operator's background producer uses this to push finished blocks onto
	// the bounded channel a ForwardIterator reads from,
	// without needing a second bookkeeping structure to track what was sent.
	onSealed func(*Block)
}

// NewWriter allocates the first block of a new chain from mgr.
func NewWriter(mgr *Manager) (*Writer, error) {
	b, err := mgr.Create()
	if err != nil {
		return nil, err
	}
	return &Writer{mgr: mgr, chain: []*Block{b}}, nil
}

// Chain returns the blocks written so far, in order.
func (w *Writer) Chain() []*Block { return w.chain }

// OnSealed registers fn to be called once per block, in write order, as
// soon as the block will receive no further writes.
func (w *Writer) OnSealed(fn func(*Block)) { w.onSealed = fn }

func (w *Writer) block() *Block { return w.chain[w.current] }

func (w *Writer) rollover() error {
	if err := w.block().WriteContinuation(); err != nil {
		return err
	}
	sealed := w.block()
	nb, err := w.mgr.Create()
	if err != nil {
		return err
	}
	w.chain = append(w.chain, nb)
	w.current++
	if w.onSealed != nil {
		w.onSealed(sealed)
	}
	return nil
}

// WriteRow appends one row's values followed by a row-end tag, and returns
// a pointer to the row's first value.
func (w *Writer) WriteRow(vals []value.Value) (RowPointer, error) {
	start := RowPointer{BlockIndex: w.current, Offset: w.block().Len()}
	for _, v := range vals {
		enc := encodeValue(v)
		if err := w.block().WriteValue(enc); err == ErrBlockFull {
			if rerr := w.rollover(); rerr != nil {
				return RowPointer{}, rerr
			}
			if err2 := w.block().WriteValue(enc); err2 != nil {
				return RowPointer{}, err2
			}
		} else if err != nil {
			return RowPointer{}, err
		}
	}
	if err := w.block().WriteRowEnd(); err == ErrBlockFull {
		if rerr := w.rollover(); rerr != nil {
			return RowPointer{}, rerr
		}
		if err2 := w.block().WriteRowEnd(); err2 != nil {
			return RowPointer{}, err2
		}
	} else if err != nil {
		return RowPointer{}, err
	}
	return start, nil
}

// Close writes the terminal end tag. No further rows may be written.
func (w *Writer) Close() error {
	if err := w.block().WriteEnd(); err == ErrBlockFull {
		if rerr := w.rollover(); rerr != nil {
			return rerr
		}
		if err := w.block().WriteEnd(); err != nil {
			return err
		}
	} else if err != nil {
		return err
	}
	if w.onSealed != nil {
		w.onSealed(w.block())
	}
	return nil
}
