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
	"fmt"
	"sync"

	"github.com/google/uuid"

	"github.com/fuersten/csvsqldb/csqlerr"
)

// Stats reports a BlockManager's lifetime and current allocation counters.
type Stats struct {
	Active    int
	Total     int
	MaxActive int
	Capacity  int
	Ceiling   int
}

// Manager allocates and tracks the blocks belonging to one query. It is
// not safe for concurrent use across operators that each own their own
// manager; the internal
// mutex only protects the manager against its own producer/consumer
// goroutine pair within a single Scan.
type Manager struct {
	mu       sync.Mutex
	queryID  uuid.UUID
	capacity int
	ceiling  int
	nextID   uint64
	blocks   map[uint64]*Block
	active   int
	total    int
	maxOpen  int
}

// NewManager returns a Manager that allocates blocks of the given capacity
// and refuses to exceed ceiling concurrently active blocks. ceiling <= 0
// means unbounded.
func NewManager(capacity, ceiling int) *Manager {
	if capacity <= 0 {
		capacity = DefaultCapacity
	}
	return &Manager{
		queryID:  uuid.New(),
		capacity: capacity,
		ceiling:  ceiling,
		blocks:   make(map[uint64]*Block),
	}
}

// QueryID identifies this manager's query for diagnostic log lines.
func (m *Manager) QueryID() uuid.UUID { return m.queryID }

// Create allocates and registers a new block with a fresh monotone id.
func (m *Manager) Create() (*Block, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.ceiling > 0 && m.active >= m.ceiling {
		return nil, &csqlerr.TooManyActiveBlocksError{Ceiling: m.ceiling}
	}
	id := m.nextID
	m.nextID++
	b := newBlock(id, m.capacity)
	m.blocks[id] = b
	m.active++
	m.total++
	if m.active > m.maxOpen {
		m.maxOpen = m.active
	}
	return b, nil
}

// Get returns the live block registered under id.
func (m *Manager) Get(id uint64) (*Block, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	b, ok := m.blocks[id]
	if !ok {
		return nil, fmt.Errorf("block: no live block with id %d (query %s)", id, m.queryID)
	}
	return b, nil
}

// Release drops a block, decrementing the active count. Releasing an
// already-released or unknown block is a no-op.
func (m *Manager) Release(b *Block) {
	if b == nil {
		return
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.blocks[b.id]; ok {
		delete(m.blocks, b.id)
		m.active--
	}
}

// Stats reports the manager's current counters.
func (m *Manager) Stats() Stats {
	m.mu.Lock()
	defer m.mu.Unlock()
	return Stats{
		Active:    m.active,
		Total:     m.total,
		MaxActive: m.maxOpen,
		Capacity:  m.capacity,
		Ceiling:   m.ceiling,
	}
}
