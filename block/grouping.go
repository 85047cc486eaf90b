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
	"golang.org/x/exp/maps"
	"golang.org/x/exp/slices"

	"github.com/fuersten/csvsqldb/value"
)

// AggKind names one of the aggregate step/finalize rules GroupingIterator
// knows how to run.
type AggKind int

const (
	AggCount AggKind = iota
	AggCountStar
	AggSum
	AggAvg
	AggMin
	AggMax
	AggArbitrary
)

// AggSpec configures one output aggregate column. Column is ignored for
// AggCountStar.
type AggSpec struct {
	Kind   AggKind
	Column int
}

// GroupSpec configures a GroupingIterator: which input columns form the
// grouping key, which aggregates to compute, and the decode types of the
// resulting (key..., aggregate...) output rows.
type GroupSpec struct {
	GroupColumns []int
	Aggregates   []AggSpec
	ColumnTypes  []value.Type // input row's column types, for aggregate accumulation
	OutputTypes  []value.Type // key column types followed by each aggregate's result type
}

type aggState struct {
	kind    AggKind
	colType value.Type
	acc     value.Value
	count   int64
}

func newAggState(kind AggKind, colType value.Type) *aggState {
	s := &aggState{kind: kind, colType: colType}
	if kind == AggCountStar {
		s.acc = value.NewInt(0)
	} else if kind == AggCount {
		s.acc = value.NewNull(value.Integer)
	} else {
		s.acc = value.NewNull(colType)
	}
	return s
}

func (s *aggState) step(v value.Value) error {
	switch s.kind {
	case AggCountStar:
		s.acc = value.NewInt(s.acc.AsInt() + 1)
	case AggCount:
		if !v.IsNull() {
			if s.acc.IsNull() {
				s.acc = value.NewInt(1)
			} else {
				s.acc = value.NewInt(s.acc.AsInt() + 1)
			}
		}
	case AggSum:
		if v.IsNull() {
			return nil
		}
		if s.acc.IsNull() {
			s.acc = v
			return nil
		}
		r, err := value.BinaryOp(value.OpAdd, s.acc, v)
		if err != nil {
			return err
		}
		s.acc = r
	case AggAvg:
		if v.IsNull() {
			return nil
		}
		if s.acc.IsNull() {
			s.acc = v
		} else {
			r, err := value.BinaryOp(value.OpAdd, s.acc, v)
			if err != nil {
				return err
			}
			s.acc = r
		}
		s.count++
	case AggMin:
		if v.IsNull() {
			return nil
		}
		if s.acc.IsNull() {
			s.acc = v
			return nil
		}
		lt, err := value.BinaryOp(value.OpLT, v, s.acc)
		if err != nil {
			return err
		}
		if !lt.IsNull() && lt.AsBool() {
			s.acc = v
		}
	case AggMax:
		if v.IsNull() {
			return nil
		}
		if s.acc.IsNull() {
			s.acc = v
			return nil
		}
		gt, err := value.BinaryOp(value.OpGT, v, s.acc)
		if err != nil {
			return err
		}
		if !gt.IsNull() && gt.AsBool() {
			s.acc = v
		}
	case AggArbitrary:
		if s.acc.IsNull() && !v.IsNull() {
			s.acc = v
		}
	}
	return nil
}

func (s *aggState) finalize() (value.Value, error) {
	if s.kind != AggAvg {
		return s.acc, nil
	}
	if s.count == 0 {
		return value.NewNull(value.Real), nil
	}
	sumReal, err := value.UnaryOp(value.OpCast, value.Real, s.acc)
	if err != nil {
		return value.Value{}, err
	}
	return value.BinaryOp(value.OpDiv, sumReal, value.NewFloat(float64(s.count)))
}

type groupBucket struct {
	key  []value.Value
	aggs []*aggState
}

// groupMap is a hash map keyed by value.Value.Hash with explicit
// collision chains, since Hash is not claimed to be collision-free across
// unrelated values.
type groupMap struct {
	k0, k1  uint64
	buckets map[uint64][]*groupBucket
}

func newGroupMap(k0, k1 uint64) *groupMap {
	return &groupMap{k0: k0, k1: k1, buckets: make(map[uint64][]*groupBucket)}
}

func (m *groupMap) hashKey(key []value.Value) uint64 {
	h := m.k0
	for _, v := range key {
		h ^= v.Hash(h, m.k1)
	}
	return h
}

func keysEqual(a, b []value.Value) bool {
	for i := range a {
		if a[i].IsNull() && b[i].IsNull() {
			continue
		}
		eq, err := value.BinaryOp(value.OpEQ, a[i], b[i])
		if err != nil || eq.IsNull() || !eq.AsBool() {
			return false
		}
	}
	return true
}

func (m *groupMap) find(key []value.Value) *groupBucket {
	for _, b := range m.buckets[m.hashKey(key)] {
		if keysEqual(b.key, key) {
			return b
		}
	}
	return nil
}

func (m *groupMap) insert(b *groupBucket) {
	h := m.hashKey(b.key)
	m.buckets[h] = append(m.buckets[h], b)
}

// GroupingIterator computes a hash aggregate: NewGroupingIterator
// materializes and aggregates the whole input, then NextRow replays the one-row-per-group result chain in a
// deterministic order.
type GroupingIterator struct {
	replay *Reader
}

// NewGroupingIterator drains upstream into grouped, finalized rows using
// the (k0, k1) hash keypair shared by every grouping/hashing iterator in a
// query.
func NewGroupingIterator(mgr *Manager, spec GroupSpec, k0, k1 uint64, upstream RowProvider) (*GroupingIterator, error) {
	gm := newGroupMap(k0, k1)
	for {
		row, err := upstream.NextRow()
		if err != nil {
			return nil, err
		}
		if row == nil {
			break
		}
		key := make([]value.Value, len(spec.GroupColumns))
		for i, c := range spec.GroupColumns {
			key[i] = row[c]
		}
		b := gm.find(key)
		if b == nil {
			b = &groupBucket{key: key}
			for _, a := range spec.Aggregates {
				colType := value.Null
				if a.Kind != AggCountStar {
					colType = spec.ColumnTypes[a.Column]
				}
				b.aggs = append(b.aggs, newAggState(a.Kind, colType))
			}
			gm.insert(b)
		}
		for i, a := range spec.Aggregates {
			v := value.NewNull(value.Null)
			if a.Kind != AggCountStar {
				v = row[a.Column]
			}
			if err := b.aggs[i].step(v); err != nil {
				return nil, err
			}
		}
	}

	w, err := NewWriter(mgr)
	if err != nil {
		return nil, err
	}
	// golang.org/x/exp/maps.Keys snapshots the bucket hashes; sorting them
	// (golang.org/x/exp/slices) makes group emission order a deterministic
	// function of the hash keypair rather than Go's randomized map order.
	hashes := maps.Keys(gm.buckets)
	slices.Sort(hashes)
	for _, h := range hashes {
		for _, b := range gm.buckets[h] {
			out := make([]value.Value, 0, len(b.key)+len(b.aggs))
			out = append(out, b.key...)
			for _, a := range b.aggs {
				fv, err := a.finalize()
				if err != nil {
					return nil, err
				}
				out = append(out, fv)
			}
			if _, err := w.WriteRow(out); err != nil {
				return nil, err
			}
		}
	}
	if err := w.Close(); err != nil {
		return nil, err
	}
	return &GroupingIterator{replay: NewReader(w.Chain(), spec.OutputTypes)}, nil
}

// NextRow replays the grouped, finalized result.
func (g *GroupingIterator) NextRow() ([]value.Value, error) { return g.replay.NextRow() }
