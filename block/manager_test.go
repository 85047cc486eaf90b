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

	"github.com/fuersten/csvsqldb/csqlerr"
)

func TestManagerCreateAndRelease(t *testing.T) {
	m := NewManager(256, 0)
	b1, err := m.Create()
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	b2, err := m.Create()
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if b1.ID() == b2.ID() {
		t.Fatalf("expected distinct ids, got %d twice", b1.ID())
	}
	if got := m.Stats().Active; got != 2 {
		t.Fatalf("Active = %d, want 2", got)
	}
	m.Release(b1)
	if got := m.Stats().Active; got != 1 {
		t.Fatalf("Active after release = %d, want 1", got)
	}
	if _, err := m.Get(b1.ID()); err == nil {
		t.Fatalf("expected Get of released block to fail")
	}
}

func TestManagerEnforcesCeiling(t *testing.T) {
	m := NewManager(256, 1)
	if _, err := m.Create(); err != nil {
		t.Fatalf("Create: %v", err)
	}
	_, err := m.Create()
	if _, ok := err.(*csqlerr.TooManyActiveBlocksError); !ok {
		t.Fatalf("got %v, want *csqlerr.TooManyActiveBlocksError", err)
	}
}

func TestManagerQueryIDIsStable(t *testing.T) {
	m := NewManager(256, 0)
	if m.QueryID() != m.QueryID() {
		t.Fatalf("QueryID should not change across calls")
	}
}
