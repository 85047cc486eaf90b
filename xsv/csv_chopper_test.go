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

package xsv

import (
	"io"
	"strings"
	"testing"
)

func TestCsvChopperSkipRecords(t *testing.T) {
	r := strings.NewReader("id,name\n1,alice\n2,bob\n")
	c := CsvChopper{SkipRecords: 1}

	fields, err := c.GetNext(r)
	if err != nil {
		t.Fatalf("unexpected error: %s", err)
	}
	want := []string{"1", "alice"}
	if len(fields) != len(want) || fields[0] != want[0] || fields[1] != want[1] {
		t.Fatalf("got %v, want %v", fields, want)
	}

	fields, err = c.GetNext(r)
	if err != nil {
		t.Fatalf("unexpected error: %s", err)
	}
	want = []string{"2", "bob"}
	if fields[0] != want[0] || fields[1] != want[1] {
		t.Fatalf("got %v, want %v", fields, want)
	}

	if _, err := c.GetNext(r); err != io.EOF {
		t.Fatalf("expected io.EOF, got %v", err)
	}
}

func TestCsvChopperQuotedField(t *testing.T) {
	r := strings.NewReader(`"hello, world",42` + "\n")
	c := CsvChopper{}
	fields, err := c.GetNext(r)
	if err != nil {
		t.Fatalf("unexpected error: %s", err)
	}
	if fields[0] != "hello, world" || fields[1] != "42" {
		t.Fatalf("got %v", fields)
	}
}

func TestCsvChopperCustomSeparator(t *testing.T) {
	r := strings.NewReader("a;b;c\n")
	c := CsvChopper{Separator: ';'}
	fields, err := c.GetNext(r)
	if err != nil {
		t.Fatalf("unexpected error: %s", err)
	}
	if len(fields) != 3 || fields[1] != "b" {
		t.Fatalf("got %v", fields)
	}
}
