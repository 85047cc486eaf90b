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
	"github.com/fuersten/csvsqldb/block"
	"github.com/fuersten/csvsqldb/value"
)

// Sort materializes its input and replays it ordered by specs, stable on
// ties and with nulls sorted first regardless of direction.
type Sort struct {
	input Operator
	it    *block.SortingIterator
}

// NewSort wraps input, ordering by specs.
func NewSort(input Operator, specs []block.SortSpec) (*Sort, error) {
	it, err := block.NewSortingIterator(block.NewManager(0, 0), typesOf(input.ColumnInfos()), specs, input)
	if err != nil {
		return nil, err
	}
	return &Sort{input: input, it: it}, nil
}

func (s *Sort) NextRow() ([]value.Value, error) { return s.it.NextRow() }
func (s *Sort) ColumnInfos() []ColumnInfo        { return s.input.ColumnInfos() }
func (s *Sort) Close() error                     { return s.input.Close() }

// Limit skips the first Offset rows and yields at most N more.
type Limit struct {
	input  Operator
	n      int
	offset int
	seen   int
	taken  int
}

// NewLimit wraps input, skipping offset rows then yielding at most n.
func NewLimit(input Operator, n, offset int) *Limit {
	return &Limit{input: input, n: n, offset: offset}
}

func (l *Limit) NextRow() ([]value.Value, error) {
	for l.seen < l.offset {
		row, err := l.input.NextRow()
		if err != nil {
			return nil, err
		}
		if row == nil {
			return nil, nil
		}
		l.seen++
	}
	if l.taken >= l.n {
		return nil, nil
	}
	row, err := l.input.NextRow()
	if err != nil || row == nil {
		return row, err
	}
	l.taken++
	return row, nil
}

func (l *Limit) ColumnInfos() []ColumnInfo { return l.input.ColumnInfos() }
func (l *Limit) Close() error              { return l.input.Close() }
