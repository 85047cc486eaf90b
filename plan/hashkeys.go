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
	"crypto/rand"
	"encoding/binary"
)

// hashK0, hashK1 are the process-wide siphash keypair every Group,
// Distinct, and hash-join InnerJoin in this process shares, the read-only-
// after-startup counterpart to the function registry.
// A single keypair is enough: value.Value.Hash only needs to agree with
// itself within one process's block.GroupMap/HashTable, never across
// processes or restarts.
var hashK0, hashK1 uint64

func init() {
	var buf [16]byte
	if _, err := rand.Read(buf[:]); err != nil {
		hashK0, hashK1 = 0x9e3779b97f4a7c15, 0xbf58476d1ce4e5b9
		return
	}
	hashK0 = binary.LittleEndian.Uint64(buf[:8])
	hashK1 = binary.LittleEndian.Uint64(buf[8:])
}
