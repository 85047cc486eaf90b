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

// rows: (dept, salary) — group by dept, SUM(salary) and COUNT(*).
func TestGroupingIteratorAggregatesPerGroup(t *testing.T) {
	mgr := NewManager(4096, 0)
	upstream := &sliceProvider{rows: [][]value.Value{
		{value.Str("eng"), value.NewInt(100)},
		{value.Str("sales"), value.NewInt(50)},
		{value.Str("eng"), value.NewInt(200)},
	}}
	spec := GroupSpec{
		GroupColumns: []int{0},
		Aggregates: []AggSpec{
			{Kind: AggSum, Column: 1},
			{Kind: AggCountStar},
		},
		ColumnTypes: []value.Type{value.String, value.Integer},
		OutputTypes: []value.Type{value.String, value.Integer, value.Integer},
	}
	it, err := NewGroupingIterator(mgr, spec, 0x1234, 0x5678, upstream)
	if err != nil {
		t.Fatalf("NewGroupingIterator: %v", err)
	}
	totals := map[string][2]int64{}
	for {
		row, err := it.NextRow()
		if err != nil {
			t.Fatalf("NextRow: %v", err)
		}
		if row == nil {
			break
		}
		totals[row[0].AsString()] = [2]int64{row[1].AsInt(), row[2].AsInt()}
	}
	if totals["eng"] != [2]int64{300, 2} {
		t.Fatalf("eng = %v, want {300, 2}", totals["eng"])
	}
	if totals["sales"] != [2]int64{50, 1} {
		t.Fatalf("sales = %v, want {50, 1}", totals["sales"])
	}
}

func TestGroupingIteratorCountOverAllNullIsNull(t *testing.T) {
	mgr := NewManager(4096, 0)
	upstream := &sliceProvider{rows: [][]value.Value{
		{value.Str("x"), value.NewNull(value.Integer)},
		{value.Str("x"), value.NewNull(value.Integer)},
	}}
	spec := GroupSpec{
		GroupColumns: []int{0},
		Aggregates:   []AggSpec{{Kind: AggCount, Column: 1}},
		ColumnTypes:  []value.Type{value.String, value.Integer},
		OutputTypes:  []value.Type{value.String, value.Integer},
	}
	it, err := NewGroupingIterator(mgr, spec, 1, 2, upstream)
	if err != nil {
		t.Fatalf("NewGroupingIterator: %v", err)
	}
	row, err := it.NextRow()
	if err != nil {
		t.Fatalf("NextRow: %v", err)
	}
	if !row[1].IsNull() {
		t.Fatalf("COUNT over all-null column should be NULL, got %v", row[1])
	}
}

func TestGroupingIteratorAvgDividesSumByCount(t *testing.T) {
	mgr := NewManager(4096, 0)
	upstream := &sliceProvider{rows: [][]value.Value{
		{value.Str("x"), value.NewInt(3)},
		{value.Str("x"), value.NewInt(5)},
	}}
	spec := GroupSpec{
		GroupColumns: []int{0},
		Aggregates:   []AggSpec{{Kind: AggAvg, Column: 1}},
		ColumnTypes:  []value.Type{value.String, value.Integer},
		OutputTypes:  []value.Type{value.String, value.Real},
	}
	it, err := NewGroupingIterator(mgr, spec, 9, 9, upstream)
	if err != nil {
		t.Fatalf("NewGroupingIterator: %v", err)
	}
	row, err := it.NextRow()
	if err != nil {
		t.Fatalf("NextRow: %v", err)
	}
	if row[1].AsFloat() != 4.0 {
		t.Fatalf("AVG(3,5) = %v, want 4.0", row[1].AsFloat())
	}
}
