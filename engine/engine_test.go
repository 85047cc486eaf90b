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

package engine

import (
	"bytes"
	"strings"
	"testing"

	"github.com/fuersten/csvsqldb/catalog"
	"github.com/fuersten/csvsqldb/plan"
	"github.com/fuersten/csvsqldb/stackvm"
	"github.com/fuersten/csvsqldb/value"
)

func TestEngineCreateTableRegistersInCatalog(t *testing.T) {
	e := New()

	tbl := &catalog.Table{
		Name: "employees",
		Columns: []catalog.Column{
			{Name: "id", Type: value.Integer},
			{Name: "name", Type: value.String},
		},
	}
	if _, err := e.Run(plan.Statement{CreateTable: tbl}); err != nil {
		t.Fatalf("create table: %v", err)
	}
	if _, err := e.Catalog.Table("employees"); err != nil {
		t.Fatalf("table not in catalog after create: %v", err)
	}
}

func TestEngineRunToWriter(t *testing.T) {
	e := New()
	tbl := &catalog.Table{
		Name: "t",
		Columns: []catalog.Column{
			{Name: "id", Type: value.Integer},
			{Name: "name", Type: value.String},
		},
	}
	if _, err := e.Run(plan.Statement{CreateTable: tbl}); err != nil {
		t.Fatalf("create table: %v", err)
	}

	src := strings.NewReader("1,Lars\n2,Mark\n")
	var buf bytes.Buffer
	stmt := plan.Statement{Query: &plan.OperatorSpec{
		Kind: plan.OpOutput,
		Input: &plan.OperatorSpec{
			Kind:   plan.OpScan,
			Table:  "t",
			Source: src,
			Diag:   e.Diag,
		},
		Writer:    &buf,
		Delimiter: ",",
	}}

	n, err := e.RunToWriter(stmt, &buf, ",")
	if err != nil {
		t.Fatalf("RunToWriter: %v", err)
	}
	if n != 2 {
		t.Fatalf("wrote %d rows, want 2", n)
	}
	got := buf.String()
	want := "id,name\n1,Lars\n2,Mark\n"
	if got != want {
		t.Errorf("output = %q, want %q", got, want)
	}
}

func TestEngineDropTableRemovesTable(t *testing.T) {
	e := New()
	tbl := &catalog.Table{Name: "drop_me", Columns: []catalog.Column{{Name: "a", Type: value.Integer}}}
	if _, err := e.Run(plan.Statement{CreateTable: tbl}); err != nil {
		t.Fatal(err)
	}
	if _, err := e.Run(plan.Statement{DropTable: "drop_me"}); err != nil {
		t.Fatal(err)
	}
	if _, err := e.Catalog.Table("drop_me"); err == nil {
		t.Errorf("expected table to be gone after drop")
	}
}

func TestEngineFunctionRegistryIsUsable(t *testing.T) {
	e := New()
	if _, ok := e.Funcs.Lookup("UPPER"); !ok {
		t.Errorf("expected UPPER to be registered")
	}
	e.Funcs.Register(stackvm.Function{
		Name:       "DOUBLEIT",
		ParamTypes: []value.Type{value.Integer},
		Call: func(args []value.Value) (value.Value, error) {
			return value.NewInt(args[0].AsInt() * 2), nil
		},
	})
	if _, ok := e.Funcs.Lookup("doubleit"); !ok {
		t.Errorf("expected DOUBLEIT to be registered and looked up case-insensitively")
	}
}
