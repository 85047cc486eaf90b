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

import "testing"

func TestHashIsStableAcrossEqualValues(t *testing.T) {
	a := NewInt(42)
	b := NewInt(42)
	if a.Hash(1, 2) != b.Hash(1, 2) {
		t.Fatalf("equal integers hashed differently")
	}
}

func TestHashDistinguishesNullFromZero(t *testing.T) {
	i := NewInt(0)
	d := NewNull(Integer)
	if i.Hash(1, 2) == d.Hash(1, 2) {
		t.Fatalf("non-null 0 and null INTEGER should not hash the same")
	}
}

func TestHashDistinguishesStrings(t *testing.T) {
	a := Str("abc")
	b := Str("abd")
	if a.Hash(7, 9) == b.Hash(7, 9) {
		t.Fatalf("differing strings unexpectedly hashed the same")
	}
}

func TestHashVariesWithKeypair(t *testing.T) {
	v := Str("same-value")
	if v.Hash(1, 2) == v.Hash(3, 4) {
		t.Fatalf("hash should depend on the (k0, k1) keypair")
	}
}
