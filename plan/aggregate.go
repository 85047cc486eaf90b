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

// AggExpr configures one aggregate output column.
type AggExpr struct {
	Kind   block.AggKind
	Column int
	Name   string
}

func aggGroupSpec(groupColumns []int, aggs []AggExpr, in []ColumnInfo) block.GroupSpec {
	spec := block.GroupSpec{
		GroupColumns: groupColumns,
		ColumnTypes:  typesOf(in),
	}
	for _, a := range aggs {
		spec.Aggregates = append(spec.Aggregates, block.AggSpec{Kind: a.Kind, Column: a.Column})
	}
	for _, c := range groupColumns {
		spec.OutputTypes = append(spec.OutputTypes, in[c].Type)
	}
	for _, a := range aggs {
		spec.OutputTypes = append(spec.OutputTypes, aggResultType(a.Kind, in, a.Column))
	}
	return spec
}

func aggResultType(kind block.AggKind, in []ColumnInfo, column int) value.Type {
	switch kind {
	case block.AggCountStar, block.AggCount:
		return value.Integer
	case block.AggAvg:
		return value.Real
	default:
		return in[column].Type
	}
}

// Group computes one output row per distinct combination of groupColumns,
// with one column per configured aggregate, using a hash aggregate.
type Group struct {
	input   Operator
	columns []ColumnInfo
	it      *block.GroupingIterator
}

// NewGroup wraps input, grouping on groupColumns and computing aggs.
func NewGroup(input Operator, groupColumns []int, aggs []AggExpr) (*Group, error) {
	in := input.ColumnInfos()
	spec := aggGroupSpec(groupColumns, aggs, in)
	it, err := block.NewGroupingIterator(block.NewManager(0, 0), spec, hashK0, hashK1, input)
	if err != nil {
		return nil, err
	}
	columns := make([]ColumnInfo, 0, len(groupColumns)+len(aggs))
	for _, c := range groupColumns {
		columns = append(columns, in[c])
	}
	for i, a := range aggs {
		columns = append(columns, ColumnInfo{Name: a.Name, Type: spec.OutputTypes[len(groupColumns)+i]})
	}
	return &Group{input: input, columns: columns, it: it}, nil
}

func (g *Group) NextRow() ([]value.Value, error) { return g.it.NextRow() }
func (g *Group) ColumnInfos() []ColumnInfo        { return g.columns }
func (g *Group) Close() error                     { return g.input.Close() }

// Aggregate performs a full-scan aggregation with no grouping key: the
// Group case with zero GroupColumns, which yields one row per group found
// -- zero for an empty input. A COUNT(*) among the aggregates must still
// report 0 for an empty input rather than disappearing, so Aggregate
// synthesizes that single all-zero/all-null row itself when the
// underlying hash aggregate found
// no groups at all.
type Aggregate struct {
	*Group
	aggs         []AggExpr
	hasCountStar bool
	returned     bool
}

// NewAggregate wraps input with aggs computed over the whole input as one
// implicit group.
func NewAggregate(input Operator, aggs []AggExpr) (*Aggregate, error) {
	g, err := NewGroup(input, nil, aggs)
	if err != nil {
		return nil, err
	}
	hasCountStar := false
	for _, a := range aggs {
		if a.Kind == block.AggCountStar {
			hasCountStar = true
			break
		}
	}
	return &Aggregate{Group: g, aggs: aggs, hasCountStar: hasCountStar}, nil
}

// NextRow returns the single aggregate row, or (nil, nil) for a second
// call, or for an empty input with no COUNT(*) among the aggregates.
func (a *Aggregate) NextRow() ([]value.Value, error) {
	if a.returned {
		return nil, nil
	}
	row, err := a.Group.NextRow()
	if err != nil {
		return nil, err
	}
	a.returned = true
	if row != nil {
		return row, nil
	}
	if !a.hasCountStar {
		return nil, nil
	}
	return a.synthesizeEmpty(), nil
}

func (a *Aggregate) synthesizeEmpty() []value.Value {
	out := make([]value.Value, len(a.aggs))
	for i, ag := range a.aggs {
		if ag.Kind == block.AggCountStar {
			out[i] = value.NewInt(0)
		} else {
			out[i] = value.NewNull(a.columns[i].Type)
		}
	}
	return out
}
