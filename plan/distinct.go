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

// Distinct suppresses duplicate rows by grouping on every output column
// with no aggregates, the same group-by-everything trick
// original_source/libcsvsqldb uses (an ARBITRARY aggregate over all
// columns); named by SELECT DISTINCT's surface grammar and present in
// the original.
type Distinct struct {
	input Operator
	it    *block.GroupingIterator
}

// NewDistinct wraps input, deduplicating whole rows.
func NewDistinct(input Operator) (*Distinct, error) {
	in := input.ColumnInfos()
	groupColumns := make([]int, len(in))
	for i := range in {
		groupColumns[i] = i
	}
	spec := block.GroupSpec{
		GroupColumns: groupColumns,
		ColumnTypes:  typesOf(in),
		OutputTypes:  typesOf(in),
	}
	it, err := block.NewGroupingIterator(block.NewManager(0, 0), spec, hashK0, hashK1, input)
	if err != nil {
		return nil, err
	}
	return &Distinct{input: input, it: it}, nil
}

func (d *Distinct) NextRow() ([]value.Value, error) { return d.it.NextRow() }
func (d *Distinct) ColumnInfos() []ColumnInfo        { return d.input.ColumnInfos() }
func (d *Distinct) Close() error                     { return d.input.Close() }
