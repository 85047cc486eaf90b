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

package csvrow

import (
	"errors"
	"io"
	"strings"
	"testing"

	"github.com/fuersten/csvsqldb/csqlerr"
	"github.com/fuersten/csvsqldb/value"
)

func testHint() *Hint {
	return &Hint{
		SkipRecords: 1,
		Columns: []ColumnHint{
			{Name: "id", Type: value.Integer},
			{Name: "name", Type: value.String, Nullable: true},
			{Name: "score", Type: value.Real, Nullable: true},
			{Name: "joined", Type: value.Date, Nullable: true},
		},
	}
}

func TestParserBasic(t *testing.T) {
	in := "id,name,score,joined\n" +
		"1,alice,3.5,2022-01-02\n" +
		"2,,,\n"
	p := NewParser(strings.NewReader(in), testHint())

	row, err := p.Next()
	if err != nil {
		t.Fatalf("unexpected error: %s", err)
	}
	if row[0].AsInt() != 1 || row[1].AsString() != "alice" {
		t.Fatalf("got %v", row)
	}

	row, err = p.Next()
	if err != nil {
		t.Fatalf("unexpected error: %s", err)
	}
	if row[0].AsInt() != 2 || !row[1].IsNull() || !row[2].IsNull() || !row[3].IsNull() {
		t.Fatalf("expected nulls for empty fields, got %v", row)
	}

	if _, err := p.Next(); err != io.EOF {
		t.Fatalf("expected io.EOF, got %v", err)
	}
}

func TestParserRejectsNonNullableEmptyField(t *testing.T) {
	hint := testHint()
	hint.Columns[0].Nullable = false
	p := NewParser(strings.NewReader("id,name,score,joined\n,x,1.0,2022-01-02\n"), hint)

	_, err := p.Next()
	var parseErr *csqlerr.CSVParseError
	if !errors.As(err, &parseErr) {
		t.Fatalf("expected a CSVParseError, got %v", err)
	}
}

func TestParserFieldCountMismatch(t *testing.T) {
	p := NewParser(strings.NewReader("id,name,score,joined\n1,alice,3.5\n"), testHint())
	_, err := p.Next()
	var parseErr *csqlerr.CSVParseError
	if !errors.As(err, &parseErr) {
		t.Fatalf("expected a CSVParseError, got %v", err)
	}
}

func TestParserResumesAfterBadRecord(t *testing.T) {
	in := "id,name,score,joined\n" +
		"notanumber,alice,3.5,2022-01-02\n" +
		"2,bob,1.25,2022-03-04\n"
	p := NewParser(strings.NewReader(in), testHint())

	if _, err := p.Next(); err == nil {
		t.Fatalf("expected a parse error on the first record")
	}
	row, err := p.Next()
	if err != nil {
		t.Fatalf("expected parsing to resume, got %s", err)
	}
	if row[0].AsInt() != 2 || row[1].AsString() != "bob" {
		t.Fatalf("got %v", row)
	}
}
