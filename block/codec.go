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
	"encoding/binary"
	"math"

	"github.com/fuersten/csvsqldb/csqlerr"
	"github.com/fuersten/csvsqldb/value"
)

// encodedValue is the on-block byte payload for a single value, one
// fixed shape per value.Type. Where a type's null representation is left
// unspecified (int64, double) a leading null-flag byte is added; an
// implementation is free to choose its own on-block representation as
// long as the framing contract holds.
type encodedValue []byte

func encodeValue(v value.Value) encodedValue {
	switch v.Type() {
	case value.Boolean:
		buf := make([]byte, 2)
		if v.IsNull() {
			buf[0] = 1
		} else if v.AsBool() {
			buf[1] = 1
		}
		return buf
	case value.Integer:
		buf := make([]byte, 9)
		if v.IsNull() {
			buf[0] = 1
		} else {
			binary.LittleEndian.PutUint64(buf[1:], uint64(v.AsInt()))
		}
		return buf
	case value.Real:
		buf := make([]byte, 9)
		if v.IsNull() {
			buf[0] = 1
		} else {
			binary.LittleEndian.PutUint64(buf[1:], math.Float64bits(v.AsFloat()))
		}
		return buf
	case value.Date:
		buf := make([]byte, 4)
		if !v.IsNull() {
			binary.LittleEndian.PutUint32(buf, uint32(v.AsJulianDay()))
		}
		return buf
	case value.Time:
		buf := make([]byte, 5)
		if v.IsNull() {
			buf[4] = 1
		} else {
			binary.LittleEndian.PutUint32(buf[:4], uint32(v.AsMillisOfDay()))
		}
		return buf
	case value.Timestamp:
		buf := make([]byte, 9)
		if v.IsNull() {
			buf[8] = 1
		} else {
			jd, ms := v.AsTimestampParts()
			binary.LittleEndian.PutUint64(buf[:8], uint64(jd*100_000_000+ms))
		}
		return buf
	case value.String:
		if v.IsNull() {
			return []byte{1, 0, 0, 0, 0}
		}
		s := v.AsString()
		buf := make([]byte, 5+len(s)+1)
		binary.LittleEndian.PutUint32(buf[1:5], uint32(len(s)))
		copy(buf[5:], s)
		return buf
	default:
		return []byte{1}
	}
}

// decodeValue reads one value of type t starting at offset, returning the
// offset just past it.
func decodeValue(t value.Type, buf []byte, offset int) (value.Value, int, error) {
	switch t {
	case value.Boolean:
		if offset+2 > len(buf) {
			return value.Value{}, offset, errShortRead
		}
		if buf[offset] == 1 {
			return value.NewNull(value.Boolean), offset + 2, nil
		}
		return value.NewBool(buf[offset+1] != 0), offset + 2, nil
	case value.Integer:
		if offset+9 > len(buf) {
			return value.Value{}, offset, errShortRead
		}
		if buf[offset] == 1 {
			return value.NewNull(value.Integer), offset + 9, nil
		}
		i := int64(binary.LittleEndian.Uint64(buf[offset+1 : offset+9]))
		return value.NewInt(i), offset + 9, nil
	case value.Real:
		if offset+9 > len(buf) {
			return value.Value{}, offset, errShortRead
		}
		if buf[offset] == 1 {
			return value.NewNull(value.Real), offset + 9, nil
		}
		bits := binary.LittleEndian.Uint64(buf[offset+1 : offset+9])
		return value.NewFloat(math.Float64frombits(bits)), offset + 9, nil
	case value.Date:
		if offset+4 > len(buf) {
			return value.Value{}, offset, errShortRead
		}
		jd := int64(int32(binary.LittleEndian.Uint32(buf[offset : offset+4])))
		return value.NewDate(jd), offset + 4, nil
	case value.Time:
		if offset+5 > len(buf) {
			return value.Value{}, offset, errShortRead
		}
		if buf[offset+4] == 1 {
			return value.NewNull(value.Time), offset + 5, nil
		}
		ms := int64(int32(binary.LittleEndian.Uint32(buf[offset : offset+4])))
		return value.NewTime(ms), offset + 5, nil
	case value.Timestamp:
		if offset+9 > len(buf) {
			return value.Value{}, offset, errShortRead
		}
		if buf[offset+8] == 1 {
			return value.NewNull(value.Timestamp), offset + 9, nil
		}
		combined := int64(binary.LittleEndian.Uint64(buf[offset : offset+8]))
		return value.NewTimestamp(combined/100_000_000, combined%100_000_000), offset + 9, nil
	case value.String:
		if offset+5 > len(buf) {
			return value.Value{}, offset, errShortRead
		}
		if buf[offset] == 1 {
			return value.NewNull(value.String), offset + 5, nil
		}
		n := int(binary.LittleEndian.Uint32(buf[offset+1 : offset+5]))
		start := offset + 5
		if start+n+1 > len(buf) {
			return value.Value{}, offset, errShortRead
		}
		return value.Str(string(buf[start : start+n])), start + n + 1, nil
	default:
		return value.NewNull(t), offset + 1, nil
	}
}

var errShortRead = &csqlerr.FramingError{Expected: TagValue, Actual: 0}

// decodeRow decodes values from offset until it hits a TagRowEnd,
// TagContinuation, or TagEnd tag, which it returns without consuming
// further. types gives the expected type of each column in row order.
// partial carries values already decoded for this row from an earlier
// block, for rows that span a TagContinuation boundary; pass nil for a
// row that starts fresh in blk.
func decodeRow(blk *Block, offset int, types []value.Type, partial []value.Value) (row []value.Value, next int, tag byte, err error) {
	row = partial
	if row == nil {
		row = make([]value.Value, 0, len(types))
	}
	col := len(row)
	for {
		if offset >= blk.w {
			return nil, offset, 0, &csqlerr.FramingError{Expected: TagValue, Actual: 0, BlockID: blk.id, Offset: offset}
		}
		t := blk.buf[offset]
		offset++
		switch t {
		case TagValue:
			if col >= len(types) {
				return nil, offset, 0, &csqlerr.FramingError{Expected: TagRowEnd, Actual: TagValue, BlockID: blk.id, Offset: offset - 1}
			}
			v, next2, derr := decodeValue(types[col], blk.buf, offset)
			if derr != nil {
				return nil, offset, 0, derr
			}
			row = append(row, v)
			offset = next2
			col++
		case TagRowEnd, TagContinuation, TagEnd:
			return row, offset, t, nil
		default:
			return nil, offset, 0, &csqlerr.FramingError{Expected: TagValue, Actual: t, BlockID: blk.id, Offset: offset - 1}
		}
	}
}
