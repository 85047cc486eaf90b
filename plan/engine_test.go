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
	"strings"
	"testing"

	"github.com/fuersten/csvsqldb/block"
	"github.com/fuersten/csvsqldb/catalog"
	"github.com/fuersten/csvsqldb/csvrow"
	"github.com/fuersten/csvsqldb/stackvm"
	"github.com/fuersten/csvsqldb/value"
)

func mustCreateTable(t *testing.T, cat *catalog.Catalog, tbl *catalog.Table) {
	t.Helper()
	if err := cat.CreateTable(tbl); err != nil {
		t.Fatalf("CreateTable(%s): %v", tbl.Name, err)
	}
}

func scanOf(t *testing.T, tbl *catalog.Table, alias, csv string) *Scan {
	t.Helper()
	names := make([]string, len(tbl.Columns))
	types := make([]value.Type, len(tbl.Columns))
	for i, c := range tbl.Columns {
		names[i] = c.Name
		types[i] = c.Type
	}
	hint := csvrow.HintFromTypes(names, types)
	return NewScan(context.Background(), tbl, alias, strings.NewReader(csv), hint, stackvm.NewRegistry(), nil, "test.csv")
}

func drain(t *testing.T, op Operator) [][]value.Value {
	t.Helper()
	var rows [][]value.Value
	for {
		row, err := op.NextRow()
		if err != nil {
			t.Fatalf("NextRow: %v", err)
		}
		if row == nil {
			break
		}
		rows = append(rows, row)
	}
	if err := op.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}
	return rows
}

func employeesTable() *catalog.Table {
	return &catalog.Table{
		Name: "employees",
		Columns: []catalog.Column{
			{Name: "id", Type: value.Integer},
			{Name: "birth", Type: value.Date},
			{Name: "first", Type: value.String},
			{Name: "last", Type: value.String},
			{Name: "sex", Type: value.String},
			{Name: "hired", Type: value.Date},
		},
	}
}

const employeesCSV = "4711,1970-09-23,Lars,Fürstenberg,M,2012-02-01\n" +
	"815,1969-05-17,Mark,Fürstenberg,M,2003-04-15\n"

// Scenario 1: simple scan + filter.
func TestEngineScanAndFilter(t *testing.T) {
	cat := catalog.New()
	tbl := employeesTable()
	mustCreateTable(t, cat, tbl)

	cutoff, err := value.ParseISODate("2012-01-01")
	if err != nil {
		t.Fatal(err)
	}
	predicate := stackvm.New()
	predicate.Append(stackvm.PushVar(5)) // hired
	predicate.Append(stackvm.Push(cutoff))
	predicate.Append(stackvm.Instruction{Op: stackvm.GT})

	scan := scanOf(t, tbl, "", employeesCSV)
	sel := NewSelect(scan, predicate, stackvm.NewRegistry())

	rows := drain(t, sel)
	if len(rows) != 1 {
		t.Fatalf("expected 1 row, got %d", len(rows))
	}
	if got := rows[0][0].AsInt(); got != 4711 {
		t.Errorf("id = %d, want 4711", got)
	}
}

// Scenario 2: arithmetic + cast over system_dual.
func TestEngineArithmeticAndCast(t *testing.T) {
	cat := catalog.New()
	scan, err := NewSystemScan(cat, "system_dual")
	if err != nil {
		t.Fatal(err)
	}

	sum := stackvm.New()
	sum.Append(stackvm.Push(value.NewInt(3)))
	sum.Append(stackvm.Push(value.NewInt(6)))
	sum.Append(stackvm.Instruction{Op: stackvm.ADD})

	castPlusOne := stackvm.New()
	castPlusOne.Append(stackvm.Push(value.Str("7")))
	castPlusOne.Append(stackvm.Cast(value.Integer))
	castPlusOne.Append(stackvm.Push(value.NewInt(1)))
	castPlusOne.Append(stackvm.Instruction{Op: stackvm.ADD})

	proj := NewExtendedProject(scan, []ProjectExpr{
		{Program: sum, Name: "c1", Type: value.Integer},
		{Program: castPlusOne, Name: "c2", Type: value.Integer},
	}, stackvm.NewRegistry())

	rows := drain(t, proj)
	if len(rows) != 1 {
		t.Fatalf("expected 1 row, got %d", len(rows))
	}
	if rows[0][0].AsInt() != 9 || rows[0][1].AsInt() != 8 {
		t.Errorf("got (%d, %d), want (9, 8)", rows[0][0].AsInt(), rows[0][1].AsInt())
	}
}

// Scenario 3: group + aggregate.
func TestEngineGroupAndAggregate(t *testing.T) {
	cat := catalog.New()
	tbl := employeesTable()
	mustCreateTable(t, cat, tbl)

	scan := scanOf(t, tbl, "", employeesCSV)
	group, err := NewGroup(scan, []int{4}, []AggExpr{{Kind: block.AggCountStar, Name: "n"}})
	if err != nil {
		t.Fatal(err)
	}

	rows := drain(t, group)
	if len(rows) != 1 {
		t.Fatalf("expected 1 row, got %d", len(rows))
	}
	if rows[0][0].AsString() != "M" || rows[0][1].AsInt() != 2 {
		t.Errorf("got (%s, %d), want (M, 2)", rows[0][0].AsString(), rows[0][1].AsInt())
	}
}

// Scenario 4: order + limit.
func TestEngineOrderAndLimit(t *testing.T) {
	cat := catalog.New()
	tbl := employeesTable()
	mustCreateTable(t, cat, tbl)

	scan := scanOf(t, tbl, "", employeesCSV)
	sorted, err := NewSort(scan, []block.SortSpec{{Column: 1, Desc: true}})
	if err != nil {
		t.Fatal(err)
	}
	limited := NewLimit(sorted, 1, 0)

	rows := drain(t, limited)
	if len(rows) != 1 {
		t.Fatalf("expected 1 row, got %d", len(rows))
	}
	if got := rows[0][0].AsInt(); got != 4711 {
		t.Errorf("id = %d, want 4711", got)
	}
}

// Scenario 5: inner join.
func TestEngineInnerJoin(t *testing.T) {
	cat := catalog.New()
	emp := &catalog.Table{Name: "emp", Columns: []catalog.Column{
		{Name: "id", Type: value.Integer},
		{Name: "dept_id", Type: value.Integer},
	}}
	dept := &catalog.Table{Name: "dept", Columns: []catalog.Column{
		{Name: "id", Type: value.Integer},
		{Name: "name", Type: value.String},
	}}
	mustCreateTable(t, cat, emp)
	mustCreateTable(t, cat, dept)

	empScan := scanOf(t, emp, "e", "1,10\n2,20\n")
	deptScan := scanOf(t, dept, "d", "10,A\n20,B\n")

	predicate := stackvm.New()
	predicate.Append(stackvm.PushVar(1)) // e.dept_id
	predicate.Append(stackvm.PushVar(2)) // d.id
	predicate.Append(stackvm.Instruction{Op: stackvm.EQ})

	join, err := NewInnerJoin(empScan, deptScan, predicate, stackvm.NewRegistry())
	if err != nil {
		t.Fatal(err)
	}
	proj := NewExtendedProject(join, []ProjectExpr{
		{Program: pushVarProgram(0), Name: "id", Type: value.Integer},
		{Program: pushVarProgram(3), Name: "name", Type: value.String},
	}, stackvm.NewRegistry())

	rows := drain(t, proj)
	if len(rows) != 2 {
		t.Fatalf("expected 2 rows, got %d", len(rows))
	}
	if rows[0][0].AsInt() != 1 || rows[0][1].AsString() != "A" {
		t.Errorf("row 0 = %v, %v", rows[0][0], rows[0][1])
	}
	if rows[1][0].AsInt() != 2 || rows[1][1].AsString() != "B" {
		t.Errorf("row 1 = %v, %v", rows[1][0], rows[1][1])
	}
}

func pushVarProgram(slot int) *stackvm.Program {
	p := stackvm.New()
	p.Append(stackvm.PushVar(slot))
	return p
}

// Scenario 6: null in expression.
func TestEngineNullInExpression(t *testing.T) {
	cat := catalog.New()
	// t has a leading non-null column so the row with a's empty field is
	// not itself an empty CSV line (encoding/csv silently skips those).
	tbl := &catalog.Table{Name: "t", Columns: []catalog.Column{
		{Name: "id", Type: value.Integer},
		{Name: "a", Type: value.Integer, Nullable: true},
	}}
	mustCreateTable(t, cat, tbl)

	scan := scanOf(t, tbl, "", "1,\n")

	isNull := stackvm.New()
	isNull.Append(stackvm.PushVar(1))
	isNull.Append(stackvm.Push(value.NewNull(value.Boolean)))
	isNull.Append(stackvm.Instruction{Op: stackvm.IS})

	isNotNull := stackvm.New()
	isNotNull.Append(stackvm.PushVar(1))
	isNotNull.Append(stackvm.Push(value.NewNull(value.Boolean)))
	isNotNull.Append(stackvm.Instruction{Op: stackvm.ISNOT})

	proj := NewExtendedProject(scan, []ProjectExpr{
		{Program: isNull, Name: "is_null", Type: value.Boolean},
		{Program: isNotNull, Name: "is_not_null", Type: value.Boolean},
	}, stackvm.NewRegistry())

	rows := drain(t, proj)
	if len(rows) != 1 {
		t.Fatalf("expected 1 row, got %d", len(rows))
	}
	if !rows[0][0].AsBool() || rows[0][1].AsBool() {
		t.Errorf("got (%v, %v), want (true, false)", rows[0][0].AsBool(), rows[0][1].AsBool())
	}
}
