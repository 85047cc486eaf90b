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

func writeRows(t *testing.T, w *Writer, rows [][]value.Value) []RowPointer {
	t.Helper()
	var pointers []RowPointer
	for _, r := range rows {
		p, err := w.WriteRow(r)
		if err != nil {
			t.Fatalf("WriteRow: %v", err)
		}
		pointers = append(pointers, p)
	}
	if err := w.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}
	return pointers
}

func TestWriterReaderRoundTrip(t *testing.T) {
	mgr := NewManager(4096, 0)
	w, err := NewWriter(mgr)
	if err != nil {
		t.Fatalf("NewWriter: %v", err)
	}
	types := []value.Type{value.Integer, value.String}
	rows := [][]value.Value{
		{value.NewInt(1), value.Str("a")},
		{value.NewInt(2), value.Str("b")},
		{value.NewNull(value.Integer), value.NewNull(value.String)},
	}
	writeRows(t, w, rows)

	r := NewReader(w.Chain(), types)
	for i, want := range rows {
		got, err := r.NextRow()
		if err != nil {
			t.Fatalf("NextRow %d: %v", i, err)
		}
		if got == nil {
			t.Fatalf("row %d: unexpected end of stream", i)
		}
		for c := range want {
			if got[c].IsNull() != want[c].IsNull() || got[c].String() != want[c].String() {
				t.Fatalf("row %d col %d: got %v, want %v", i, c, got[c], want[c])
			}
		}
	}
	last, err := r.NextRow()
	if err != nil || last != nil {
		t.Fatalf("expected end of stream, got %v, %v", last, err)
	}
}

func TestWriterRollsOverToNewBlockOnOverflow(t *testing.T) {
	mgr := NewManager(24, 0) // small enough that several rows force a rollover
	w, err := NewWriter(mgr)
	if err != nil {
		t.Fatalf("NewWriter: %v", err)
	}
	types := []value.Type{value.Integer}
	var rows [][]value.Value
	for i := int64(0); i < 20; i++ {
		rows = append(rows, []value.Value{value.NewInt(i)})
	}
	writeRows(t, w, rows)

	if len(w.Chain()) < 2 {
		t.Fatalf("expected writer to roll over to multiple blocks, got %d", len(w.Chain()))
	}

	r := NewReader(w.Chain(), types)
	for i, want := range rows {
		got, err := r.NextRow()
		if err != nil {
			t.Fatalf("NextRow %d: %v", i, err)
		}
		if got == nil || got[0].AsInt() != want[0].AsInt() {
			t.Fatalf("row %d: got %v, want %v", i, got, want)
		}
	}
	if last, err := r.NextRow(); err != nil || last != nil {
		t.Fatalf("expected end of stream, got %v, %v", last, err)
	}
}

func TestReaderSeekJumpsToRecordedPointer(t *testing.T) {
	mgr := NewManager(24, 0)
	w, err := NewWriter(mgr)
	if err != nil {
		t.Fatalf("NewWriter: %v", err)
	}
	types := []value.Type{value.Integer}
	var rows [][]value.Value
	for i := int64(0); i < 10; i++ {
		rows = append(rows, []value.Value{value.NewInt(i)})
	}
	pointers := writeRows(t, w, rows)

	r := NewReader(w.Chain(), types)
	r.Seek(pointers[5])
	got, err := r.NextRow()
	if err != nil {
		t.Fatalf("NextRow: %v", err)
	}
	if got == nil || got[0].AsInt() != 5 {
		t.Fatalf("got %v, want row 5", got)
	}
}
