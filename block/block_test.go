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

func TestBlockRoundTripsValue(t *testing.T) {
	b := newBlock(0, 64)
	if err := b.WriteValue(encodeValue(value.NewInt(42))); err != nil {
		t.Fatalf("WriteValue: %v", err)
	}
	if err := b.WriteRowEnd(); err != nil {
		t.Fatalf("WriteRowEnd: %v", err)
	}
	if err := b.WriteEnd(); err != nil {
		t.Fatalf("WriteEnd: %v", err)
	}
	row, next, tag, err := decodeRow(b, 0, []value.Type{value.Integer}, nil)
	if err != nil {
		t.Fatalf("decodeRow: %v", err)
	}
	if tag != TagRowEnd || len(row) != 1 || row[0].AsInt() != 42 {
		t.Fatalf("got row=%v tag=%x", row, tag)
	}
	row2, _, tag2, err := decodeRow(b, next, nil, nil)
	if err != nil {
		t.Fatalf("decodeRow end: %v", err)
	}
	if tag2 != TagEnd || len(row2) != 0 {
		t.Fatalf("expected empty row and TagEnd, got %v %x", row2, tag2)
	}
}

func TestBlockWriteValueReturnsErrBlockFullWhenOutOfRoom(t *testing.T) {
	b := newBlock(0, 4)
	err := b.WriteValue(encodeValue(value.NewInt(1)))
	if err != ErrBlockFull {
		t.Fatalf("got %v, want ErrBlockFull", err)
	}
}

func TestEncodeDecodeRoundTripsEveryType(t *testing.T) {
	cases := []value.Value{
		value.NewBool(true),
		value.NewNull(value.Boolean),
		value.NewInt(-7),
		value.NewNull(value.Integer),
		value.NewFloat(3.5),
		value.NewNull(value.Real),
		value.NewDate(2459000),
		value.NewNull(value.Date),
		value.NewTime(3_600_000),
		value.NewNull(value.Time),
		value.NewTimestamp(2459000, 3_600_000),
		value.NewNull(value.Timestamp),
		value.Str("hello"),
		value.NewNull(value.String),
	}
	for _, v := range cases {
		enc := encodeValue(v)
		got, next, err := decodeValue(v.Type(), enc, 0)
		if err != nil {
			t.Fatalf("decodeValue(%v): %v", v, err)
		}
		if next != len(enc) {
			t.Fatalf("decodeValue(%v) consumed %d of %d bytes", v, next, len(enc))
		}
		if got.IsNull() != v.IsNull() {
			t.Fatalf("IsNull mismatch for %v: got %v", v, got)
		}
		if !got.IsNull() && got.String() != v.String() {
			t.Fatalf("round trip mismatch: want %v got %v", v, got)
		}
	}
}
