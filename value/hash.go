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

package value

import (
	"encoding/binary"
	"math"

	"github.com/dchest/siphash"
)

// Hash returns a siphash-2-4 digest of v's type tag and payload, keyed by
// (k0, k1). block's grouping and hashing iterators use this to key
// group/join buckets, in the style of a per-type hashValue dispatch family.
//
// Two Values of the same type and payload hash identically, and every null
// of one type hashes alike. The type tag is part of the hashed bytes, so an
// Integer and a Real that compare equal under BinaryOp(OpEQ, ...) hash
// differently, as do two Reals that are equal only within the equality
// tolerance.
func (v Value) Hash(k0, k1 uint64) uint64 {
	var buf [9]byte
	buf[0] = byte(v.typ)
	if v.isNull {
		return siphash.Hash(k0, k1, buf[:1])
	}
	switch v.typ {
	case Boolean, Integer, Date, Time, Timestamp:
		binary.LittleEndian.PutUint64(buf[1:], uint64(v.i))
		return siphash.Hash(k0, k1, buf[:9])
	case Real:
		binary.LittleEndian.PutUint64(buf[1:], math.Float64bits(v.f))
		return siphash.Hash(k0, k1, buf[:9])
	case String:
		data := make([]byte, 1+len(v.str))
		data[0] = buf[0]
		copy(data[1:], v.str)
		return siphash.Hash(k0, k1, data)
	default:
		return siphash.Hash(k0, k1, buf[:1])
	}
}
