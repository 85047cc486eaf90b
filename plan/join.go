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
	"errors"

	"github.com/fuersten/csvsqldb/block"
	"github.com/fuersten/csvsqldb/stackvm"
	"github.com/fuersten/csvsqldb/value"
)

// errNoSharedColumns is returned when a natural join finds no
// identically named columns on both sides to join on.
var errNoSharedColumns = errors.New("plan: natural join found no shared column names")

// CrossJoin yields the nested-loop cartesian product of left and right,
// materializing right via a Caching iterator so it can be rewound once
// per left row.
type CrossJoin struct {
	left, right Operator
	cache       *block.CachingIterator
	leftRow     []value.Value
	columns     []ColumnInfo
}

// NewCrossJoin wraps left and right.
func NewCrossJoin(left, right Operator) *CrossJoin {
	cache := block.NewCachingIterator(block.NewManager(0, 0), typesOf(right.ColumnInfos()), right)
	return &CrossJoin{
		left:    left,
		right:   right,
		cache:   cache,
		columns: concatColumns(left.ColumnInfos(), right.ColumnInfos()),
	}
}

func concatColumns(left, right []ColumnInfo) []ColumnInfo {
	out := make([]ColumnInfo, 0, len(left)+len(right))
	out = append(out, left...)
	out = append(out, right...)
	return out
}

func concatRows(left, right []value.Value) []value.Value {
	out := make([]value.Value, 0, len(left)+len(right))
	out = append(out, left...)
	out = append(out, right...)
	return out
}

func (c *CrossJoin) NextRow() ([]value.Value, error) {
	for {
		if c.leftRow == nil {
			row, err := c.left.NextRow()
			if err != nil {
				return nil, err
			}
			if row == nil {
				return nil, nil
			}
			c.leftRow = row
			if err := c.cache.Rewind(); err != nil {
				return nil, err
			}
		}
		rightRow, err := c.cache.NextRow()
		if err != nil {
			return nil, err
		}
		if rightRow == nil {
			c.leftRow = nil
			continue
		}
		return concatRows(c.leftRow, rightRow), nil
	}
}

func (c *CrossJoin) ColumnInfos() []ColumnInfo { return c.columns }

func (c *CrossJoin) Close() error {
	err := c.left.Close()
	if rerr := c.right.Close(); err == nil {
		err = rerr
	}
	return err
}

// equiJoinColumns inspects a compiled predicate and reports the (left,
// right) column indices it compares, if the whole predicate is exactly
// one PUSHVAR/PUSHVAR/EQ comparing a left-side column to a right-side
// column (in either order). This is the one equality-conjunction shape
// hash-join selection recognizes; anything more elaborate (an AND of
// several comparisons, a function call) falls back to CrossJoin+Select.
func equiJoinColumns(predicate *stackvm.Program, leftWidth int) (leftCol, rightCol int, ok bool) {
	ins := predicate.Instructions()
	if len(ins) != 3 || ins[0].Op != stackvm.PUSHVAR || ins[1].Op != stackvm.PUSHVAR || ins[2].Op != stackvm.EQ {
		return 0, 0, false
	}
	a, b := ins[0].Slot, ins[1].Slot
	switch {
	case a < leftWidth && b >= leftWidth:
		return a, b - leftWidth, true
	case b < leftWidth && a >= leftWidth:
		return b, a - leftWidth, true
	default:
		return 0, 0, false
	}
}

// InnerJoin yields the rows of CrossJoin(left, right) for which predicate
// holds. When predicate is recognized as an
// equality between one column of each side, NewInnerJoin builds a hash
// join instead of a nested-loop scan.
type InnerJoin struct {
	left, right Operator
	columns     []ColumnInfo

	// hash-join path
	hashed  *block.HashingIterator
	leftCol int
	leftRow []value.Value
	probing bool

	// nested-loop fallback path
	fallback *Select
}

// NewInnerJoin wraps left and right by predicate, picking a hash join
// when possible.
func NewInnerJoin(left, right Operator, predicate *stackvm.Program, funcs *stackvm.Registry) (*InnerJoin, error) {
	columns := concatColumns(left.ColumnInfos(), right.ColumnInfos())
	if leftCol, rightCol, ok := equiJoinColumns(predicate, len(left.ColumnInfos())); ok {
		hashed, err := block.NewHashingIterator(block.NewManager(0, 0), typesOf(right.ColumnInfos()), rightCol, hashK0, hashK1, right)
		if err != nil {
			return nil, err
		}
		return &InnerJoin{left: left, right: right, columns: columns, hashed: hashed, leftCol: leftCol}, nil
	}
	cross := NewCrossJoin(left, right)
	return &InnerJoin{left: left, right: right, columns: columns, fallback: NewSelect(cross, predicate, funcs)}, nil
}

func (j *InnerJoin) NextRow() ([]value.Value, error) {
	if j.fallback != nil {
		return j.fallback.NextRow()
	}
	for {
		if !j.probing {
			row, err := j.left.NextRow()
			if err != nil {
				return nil, err
			}
			if row == nil {
				return nil, nil
			}
			j.leftRow = row
			j.hashed.SetContextForKey(row[j.leftCol])
			j.probing = true
		}
		rightRow, err := j.hashed.NextKeyValueRow()
		if err != nil {
			return nil, err
		}
		if rightRow == nil {
			j.probing = false
			continue
		}
		return concatRows(j.leftRow, rightRow), nil
	}
}

func (j *InnerJoin) ColumnInfos() []ColumnInfo { return j.columns }

func (j *InnerJoin) Close() error {
	err := j.left.Close()
	if rerr := j.right.Close(); err == nil {
		err = rerr
	}
	return err
}

// NaturalJoin derives an equi-join predicate from every identically named
// column on both sides, rewriting to an InnerJoin at build time
// (original_source/libcsvsqldb's NaturalJoinOperatorNode).
func NewNaturalJoin(left, right Operator, funcs *stackvm.Registry) (*InnerJoin, error) {
	li, ri := left.ColumnInfos(), right.ColumnInfos()
	var shared []struct{ l, r int }
	for li_, lc := range li {
		for ri_, rc := range ri {
			if lc.label() == rc.label() {
				shared = append(shared, struct{ l, r int }{li_, ri_})
			}
		}
	}
	if len(shared) == 0 {
		return nil, errNoSharedColumns
	}
	prog := stackvm.New()
	for i, pair := range shared {
		prog.Append(stackvm.PushVar(pair.l))
		prog.Append(stackvm.PushVar(len(li) + pair.r))
		prog.Append(stackvm.Instruction{Op: stackvm.EQ})
		if i > 0 {
			prog.Append(stackvm.Instruction{Op: stackvm.AND})
		}
	}
	return NewInnerJoin(left, right, prog, funcs)
}

// OuterJoin yields every InnerJoin row plus, depending on kind, a
// null-extended row for each left and/or right row that matched nothing
//. Unlike InnerJoin it cannot
// stream the right side, since a right row is only known to be unmatched
// once every left row has been tried against it; NewOuterJoin
// materializes right into memory up front.
type OuterJoin struct {
	left         Operator
	rightRows    [][]value.Value
	rightMatched []bool
	rightNulls   []value.Value
	leftNulls    []value.Value
	columns      []ColumnInfo
	predicate    *stackvm.Program
	funcs        *stackvm.Registry
	kind         OuterJoinKind

	leftRow        []value.Value
	leftMatchedAny bool
	rightPos       int
	leftDone       bool
	unmatchedPos   int
}

// NewOuterJoin wraps left and right by predicate, null-extending
// unmatched rows per kind.
func NewOuterJoin(left, right Operator, predicate *stackvm.Program, kind OuterJoinKind, funcs *stackvm.Registry) (*OuterJoin, error) {
	var rows [][]value.Value
	for {
		row, err := right.NextRow()
		if err != nil {
			right.Close()
			return nil, err
		}
		if row == nil {
			break
		}
		rows = append(rows, row)
	}
	if err := right.Close(); err != nil {
		return nil, err
	}
	leftColumns, rightColumns := left.ColumnInfos(), right.ColumnInfos()
	return &OuterJoin{
		left:         left,
		rightRows:    rows,
		rightMatched: make([]bool, len(rows)),
		rightNulls:   nullRow(typesOf(rightColumns)),
		leftNulls:    nullRow(typesOf(leftColumns)),
		columns:      concatColumns(leftColumns, rightColumns),
		predicate:    predicate,
		funcs:        funcs,
		kind:         kind,
	}, nil
}

func nullRow(types []value.Type) []value.Value {
	row := make([]value.Value, len(types))
	for i, t := range types {
		row[i] = value.NewNull(t)
	}
	return row
}

func (j *OuterJoin) NextRow() ([]value.Value, error) {
	for {
		if j.leftDone {
			for j.unmatchedPos < len(j.rightRows) {
				idx := j.unmatchedPos
				j.unmatchedPos++
				if !j.rightMatched[idx] {
					return concatRows(j.leftNulls, j.rightRows[idx]), nil
				}
			}
			return nil, nil
		}

		if j.leftRow == nil {
			row, err := j.left.NextRow()
			if err != nil {
				return nil, err
			}
			if row == nil {
				j.leftDone = true
				if j.kind != RightOuter && j.kind != FullOuter {
					return nil, nil
				}
				continue
			}
			j.leftRow = row
			j.leftMatchedAny = false
			j.rightPos = 0
		}

		for j.rightPos < len(j.rightRows) {
			idx := j.rightPos
			j.rightPos++
			candidate := concatRows(j.leftRow, j.rightRows[idx])
			result, err := evalRow(j.predicate, candidate, j.funcs)
			if err != nil {
				return nil, err
			}
			if !result.IsNull() && result.AsBool() {
				j.leftMatchedAny = true
				j.rightMatched[idx] = true
				return candidate, nil
			}
		}

		leftRow := j.leftRow
		leftMatched := j.leftMatchedAny
		j.leftRow = nil
		if !leftMatched && (j.kind == LeftOuter || j.kind == FullOuter) {
			return concatRows(leftRow, j.rightNulls), nil
		}
	}
}

func (j *OuterJoin) ColumnInfos() []ColumnInfo { return j.columns }

func (j *OuterJoin) Close() error { return j.left.Close() }
