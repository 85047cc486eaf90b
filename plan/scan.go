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
	"context"
	"io"
	"log"
	"sync/atomic"

	"github.com/fuersten/csvsqldb/block"
	"github.com/fuersten/csvsqldb/catalog"
	"github.com/fuersten/csvsqldb/csqlerr"
	"github.com/fuersten/csvsqldb/csvrow"
	"github.com/fuersten/csvsqldb/stackvm"
	"github.com/fuersten/csvsqldb/value"
)

// scanChannelDepth is the bounded FIFO's fixed small depth: the parser
// goroutine blocks once it is this far ahead of the consumer.
const scanChannelDepth = 4

// Scan decodes CSV rows for one table, yielding typed rows in file order
// and resolving column types from the catalog. A background goroutine
// runs the CSV parser and pushes completed blocks
// into a bounded channel; NextRow pulls from a block.ForwardIterator
// reading that channel -- the Go rendering of a helper thread plus bounded
// FIFO plus condition variable: a buffered channel's send/receive blocking
// *is* the condition variable here.
type Scan struct {
	table   string
	alias   string
	columns []ColumnInfo
	mgr     *block.Manager
	fwd     *block.ForwardIterator
	cancel  context.CancelFunc
	fatal   atomic.Value // error
}

// NewScan starts the background parser over src using hint to interpret
// each field, validating every row against tbl's NOT NULL/CHECK
// constraints. Per-row diagnostics (a malformed field, a constraint
// violation) are written to diag, if non-nil, and the offending row is
// skipped; scanning continues.
// fileName is used only for diagnostic messages.
func NewScan(ctx context.Context, tbl *catalog.Table, alias string, src io.Reader, hint *csvrow.Hint, funcs *stackvm.Registry, diag *log.Logger, fileName string) *Scan {
	columns := make([]ColumnInfo, len(tbl.Columns))
	for i, c := range tbl.Columns {
		columns[i] = ColumnInfo{Table: tbl.Name, Name: c.Name, Type: c.Type}
	}

	ctx, cancel := context.WithCancel(ctx)
	mgr := block.NewManager(0, 0)
	blocks := make(chan *block.Block, scanChannelDepth)
	s := &Scan{table: tbl.Name, alias: alias, columns: columns, mgr: mgr, cancel: cancel}
	go s.produce(ctx, tbl, src, hint, funcs, diag, fileName, blocks)
	s.fwd = block.NewForwardIterator(mgr, blocks, typesOf(columns))
	return s
}

func (s *Scan) produce(ctx context.Context, tbl *catalog.Table, src io.Reader, hint *csvrow.Hint, funcs *stackvm.Registry, diag *log.Logger, fileName string, blocks chan<- *block.Block) {
	defer close(blocks)

	w, err := block.NewWriter(s.mgr)
	if err != nil {
		s.fatal.Store(err)
		return
	}
	w.OnSealed(func(b *block.Block) {
		select {
		case blocks <- b:
		case <-ctx.Done():
		}
	})

	parser := csvrow.NewParser(src, hint)
	for {
		select {
		case <-ctx.Done():
			return
		default:
		}

		row, err := parser.Next()
		if err == io.EOF {
			break
		}
		if err != nil {
			if pe, ok := err.(*csqlerr.CSVParseError); ok {
				pe.File = fileName
				if diag != nil {
					diag.Print(pe)
				}
				continue
			}
			s.fatal.Store(err)
			return
		}

		if err := tbl.Validate(row, fileName, parser.Line(), funcs); err != nil {
			if diag != nil {
				diag.Print(err)
			}
			continue
		}

		if _, err := w.WriteRow(row); err != nil {
			s.fatal.Store(err)
			return
		}
	}
	if err := w.Close(); err != nil {
		s.fatal.Store(err)
	}
}

// NextRow returns the next decoded, validated row in file order.
func (s *Scan) NextRow() ([]value.Value, error) {
	row, err := s.fwd.NextRow()
	if err != nil {
		return nil, err
	}
	if row == nil {
		if err, ok := s.fatal.Load().(error); ok {
			return nil, err
		}
	}
	return row, nil
}

// ColumnInfos returns the scanned table's schema, qualified by alias if
// one was given.
func (s *Scan) ColumnInfos() []ColumnInfo {
	if s.alias == "" {
		return s.columns
	}
	out := make([]ColumnInfo, len(s.columns))
	for i, c := range s.columns {
		c.Table = s.alias
		out[i] = c
	}
	return out
}

// Close signals the background parser goroutine to stop: dropping the
// root operator cancels everything beneath it.
func (s *Scan) Close() error {
	s.cancel()
	return nil
}
