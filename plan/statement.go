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
	"fmt"
	"io"
	"log"

	"github.com/fuersten/csvsqldb/block"
	"github.com/fuersten/csvsqldb/catalog"
	"github.com/fuersten/csvsqldb/csvrow"
	"github.com/fuersten/csvsqldb/stackvm"
)

// OperatorSpec is the sum type of every node a query plan can be built
// from; Kind selects the variant and only the fields grouped under that
// kind below are read, one variant per Operator implementation this
// package provides.
type OperatorSpec struct {
	Kind OperatorKind

	// Scan / SystemScan
	Table    string
	Alias    string
	Source   io.Reader
	Hint     *csvrow.Hint
	FileName string
	Diag     *log.Logger

	// Select
	Predicate *stackvm.Program

	// ExtendedProject
	Projections []ProjectExpr

	// Group / Aggregate
	GroupColumns []int
	Aggregates   []AggExpr

	// Sort
	SortSpecs []block.SortSpec

	// Limit
	LimitN, LimitOffset int

	// Union / CrossJoin / InnerJoin / NaturalJoin / OuterJoin
	Left, Right *OperatorSpec

	// InnerJoin / OuterJoin
	JoinPredicate *stackvm.Program
	OuterKind     OuterJoinKind

	// Output
	Writer    io.Writer
	Delimiter string

	// Input feeds every unary operator kind above (Select, ExtendedProject,
	// Group, Aggregate, Sort, Limit, Distinct, Output).
	Input *OperatorSpec
}

// OperatorKind identifies which OperatorSpec fields are meaningful.
type OperatorKind int

const (
	OpScan OperatorKind = iota
	OpSystemScan
	OpSelect
	OpExtendedProject
	OpGroup
	OpAggregate
	OpSort
	OpLimit
	OpUnion
	OpCrossJoin
	OpInnerJoin
	OpNaturalJoin
	OpOuterJoin
	OpDistinct
	OpOutput
)

// OuterJoinKind selects which side of an OuterJoin is null-extended.
type OuterJoinKind int

const (
	LeftOuter OuterJoinKind = iota
	RightOuter
	FullOuter
)

// Statement is the sum type of every top-level statement plan.Build
// accepts: a query (lowered to an OperatorSpec tree) or a DDL statement
// (applied directly against a catalog.Catalog).
type Statement struct {
	Query *OperatorSpec

	CreateTable   *catalog.Table
	DropTable     string
	AddColumn     *AddColumnStmt
	DropColumn    *DropColumnStmt
	CreateMapping *catalog.Mapping
	DropMapping   string
}

// AddColumnStmt names the table an ALTER TABLE ... ADD COLUMN applies to.
type AddColumnStmt struct {
	Table  string
	Column catalog.Column
}

// DropColumnStmt names the table and column an ALTER TABLE ... DROP
// COLUMN applies to.
type DropColumnStmt struct {
	Table  string
	Column string
}

// Build turns stmt into a runnable Operator, or applies it directly to
// cat for a DDL statement, in which case the returned Operator is nil.
func Build(cat *catalog.Catalog, stmt Statement, funcs *stackvm.Registry) (Operator, error) {
	switch {
	case stmt.Query != nil:
		return buildOperator(cat, stmt.Query, funcs)
	case stmt.CreateTable != nil:
		return nil, cat.CreateTable(stmt.CreateTable)
	case stmt.DropTable != "":
		return nil, cat.DropTable(stmt.DropTable)
	case stmt.AddColumn != nil:
		return nil, cat.AddColumn(stmt.AddColumn.Table, stmt.AddColumn.Column)
	case stmt.DropColumn != nil:
		return nil, cat.DropColumn(stmt.DropColumn.Table, stmt.DropColumn.Column)
	case stmt.CreateMapping != nil:
		return nil, cat.CreateMapping(*stmt.CreateMapping)
	case stmt.DropMapping != "":
		return nil, cat.DropMapping(stmt.DropMapping)
	default:
		return nil, fmt.Errorf("plan: empty statement")
	}
}

func buildOperator(cat *catalog.Catalog, spec *OperatorSpec, funcs *stackvm.Registry) (Operator, error) {
	switch spec.Kind {
	case OpScan:
		tbl, err := cat.Table(spec.Table)
		if err != nil {
			return nil, err
		}
		hint := spec.Hint
		if hint == nil {
			hint = csvrow.HintFromTypes(columnNames(tbl), tbl.Types())
			if mapping, mErr := cat.Mapping(spec.Table); mErr == nil {
				hint.SkipRecords = boolToInt(mapping.SkipHeader)
				hint.Separator = mapping.Delimiter
			}
		}
		return NewScan(context.Background(), tbl, spec.Alias, spec.Source, hint, funcs, spec.Diag, spec.FileName), nil

	case OpSystemScan:
		return NewSystemScan(cat, spec.Table)

	case OpSelect:
		input, err := buildOperator(cat, spec.Input, funcs)
		if err != nil {
			return nil, err
		}
		return NewSelect(input, spec.Predicate, funcs), nil

	case OpExtendedProject:
		input, err := buildOperator(cat, spec.Input, funcs)
		if err != nil {
			return nil, err
		}
		return NewExtendedProject(input, spec.Projections, funcs), nil

	case OpGroup:
		input, err := buildOperator(cat, spec.Input, funcs)
		if err != nil {
			return nil, err
		}
		return NewGroup(input, spec.GroupColumns, spec.Aggregates)

	case OpAggregate:
		input, err := buildOperator(cat, spec.Input, funcs)
		if err != nil {
			return nil, err
		}
		return NewAggregate(input, spec.Aggregates)

	case OpSort:
		input, err := buildOperator(cat, spec.Input, funcs)
		if err != nil {
			return nil, err
		}
		return NewSort(input, spec.SortSpecs)

	case OpLimit:
		input, err := buildOperator(cat, spec.Input, funcs)
		if err != nil {
			return nil, err
		}
		return NewLimit(input, spec.LimitN, spec.LimitOffset), nil

	case OpDistinct:
		input, err := buildOperator(cat, spec.Input, funcs)
		if err != nil {
			return nil, err
		}
		return NewDistinct(input)

	case OpUnion:
		left, right, err := buildSides(cat, spec, funcs)
		if err != nil {
			return nil, err
		}
		return NewUnion(left, right)

	case OpCrossJoin:
		left, right, err := buildSides(cat, spec, funcs)
		if err != nil {
			return nil, err
		}
		return NewCrossJoin(left, right), nil

	case OpInnerJoin:
		left, right, err := buildSides(cat, spec, funcs)
		if err != nil {
			return nil, err
		}
		return NewInnerJoin(left, right, spec.JoinPredicate, funcs)

	case OpNaturalJoin:
		left, right, err := buildSides(cat, spec, funcs)
		if err != nil {
			return nil, err
		}
		return NewNaturalJoin(left, right, funcs)

	case OpOuterJoin:
		left, right, err := buildSides(cat, spec, funcs)
		if err != nil {
			return nil, err
		}
		return NewOuterJoin(left, right, spec.JoinPredicate, spec.OuterKind, funcs)

	case OpOutput:
		input, err := buildOperator(cat, spec.Input, funcs)
		if err != nil {
			return nil, err
		}
		return NewOutput(input, spec.Writer, spec.Delimiter), nil

	default:
		return nil, fmt.Errorf("plan: unknown operator kind %d", spec.Kind)
	}
}

func buildSides(cat *catalog.Catalog, spec *OperatorSpec, funcs *stackvm.Registry) (Operator, Operator, error) {
	left, err := buildOperator(cat, spec.Left, funcs)
	if err != nil {
		return nil, nil, err
	}
	right, err := buildOperator(cat, spec.Right, funcs)
	if err != nil {
		left.Close()
		return nil, nil, err
	}
	return left, right, nil
}

func columnNames(tbl *catalog.Table) []string {
	names := make([]string, len(tbl.Columns))
	for i, c := range tbl.Columns {
		names[i] = c.Name
	}
	return names
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
