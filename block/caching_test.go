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
	"testing"

	"github.com/fuersten/csvsqldb/value"
)

// sliceProvider is a RowProvider over an in-memory slice, counting pulls so
// tests can assert upstream is touched at most once.
type sliceProvider struct {
	rows  [][]value.Value
	pos   int
	pulls int
}

func (s *sliceProvider) NextRow() ([]value.Value, error) {
	s.pulls++
	if s.pos >= len(s.rows) {
		return nil, nil
	}
	r := s.rows[s.pos]
	s.pos++
	return r, nil
}

func TestCachingIteratorReplaysWithoutTouchingUpstreamAgain(t *testing.T) {
	mgr := NewManager(4096, 0)
	upstream := &sliceProvider{rows: [][]value.Value{
		{value.NewInt(1)},
		{value.NewInt(2)},
		{value.NewInt(3)},
	}}
	types := []value.Type{value.Integer}
	c := NewCachingIterator(mgr, types, upstream)

	var first []int64
	for {
		row, err := c.NextRow()
		if err != nil {
			t.Fatalf("NextRow: %v", err)
		}
		if row == nil {
			break
		}
		first = append(first, row[0].AsInt())
	}
	if len(first) != 3 {
		t.Fatalf("first pass got %v", first)
	}
	pullsAfterFirstPass := upstream.pulls

	if err := c.Rewind(); err != nil {
		t.Fatalf("Rewind: %v", err)
	}
	var second []int64
	for {
		row, err := c.NextRow()
		if err != nil {
			t.Fatalf("NextRow: %v", err)
		}
		if row == nil {
			break
		}
		second = append(second, row[0].AsInt())
	}
	if len(second) != 3 || second[0] != 1 || second[2] != 3 {
		t.Fatalf("second pass got %v", second)
	}
	if upstream.pulls != pullsAfterFirstPass {
		t.Fatalf("Rewind pulled from upstream again: %d vs %d", upstream.pulls, pullsAfterFirstPass)
	}
}
