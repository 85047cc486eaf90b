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

func TestHashingIteratorProbesByKey(t *testing.T) {
	mgr := NewManager(4096, 0)
	upstream := &sliceProvider{rows: [][]value.Value{
		{value.NewInt(1), value.Str("a1")},
		{value.NewInt(2), value.Str("b1")},
		{value.NewInt(1), value.Str("a2")},
	}}
	types := []value.Type{value.Integer, value.String}
	h, err := NewHashingIterator(mgr, types, 0, 11, 22, upstream)
	if err != nil {
		t.Fatalf("NewHashingIterator: %v", err)
	}

	h.SetContextForKey(value.NewInt(1))
	var got []string
	for {
		row, err := h.NextKeyValueRow()
		if err != nil {
			t.Fatalf("NextKeyValueRow: %v", err)
		}
		if row == nil {
			break
		}
		got = append(got, row[1].AsString())
	}
	if len(got) != 2 || got[0] != "a1" || got[1] != "a2" {
		t.Fatalf("got %v, want [a1 a2]", got)
	}

	h.SetContextForKey(value.NewInt(99))
	if row, err := h.NextKeyValueRow(); err != nil || row != nil {
		t.Fatalf("expected no match for key 99, got %v, %v", row, err)
	}
}

func TestHashingIteratorNextRowScansInsertionOrder(t *testing.T) {
	mgr := NewManager(4096, 0)
	upstream := &sliceProvider{rows: [][]value.Value{
		{value.NewInt(1)},
		{value.NewInt(2)},
	}}
	h, err := NewHashingIterator(mgr, []value.Type{value.Integer}, 0, 1, 2, upstream)
	if err != nil {
		t.Fatalf("NewHashingIterator: %v", err)
	}
	var got []int64
	for {
		row, err := h.NextRow()
		if err != nil {
			t.Fatalf("NextRow: %v", err)
		}
		if row == nil {
			break
		}
		got = append(got, row[0].AsInt())
	}
	if len(got) != 2 || got[0] != 1 || got[1] != 2 {
		t.Fatalf("got %v, want [1 2]", got)
	}
}
