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
	"fmt"

	"github.com/fuersten/csvsqldb/value"
)

// Union yields every row of its first input, then every row of its
// second; both schemas must match by position.
type Union struct {
	left, right Operator
	onLeft      bool
}

// NewUnion wraps left and right. Their column counts and positional types
// must be compatible; this is checked once up front rather than per row.
func NewUnion(left, right Operator) (*Union, error) {
	li, ri := left.ColumnInfos(), right.ColumnInfos()
	if len(li) != len(ri) {
		return nil, fmt.Errorf("plan: union schema mismatch: %d columns vs %d", len(li), len(ri))
	}
	for i := range li {
		if li[i].Type != ri[i].Type {
			return nil, fmt.Errorf("plan: union column %d type mismatch: %s vs %s", i, li[i].Type, ri[i].Type)
		}
	}
	return &Union{left: left, right: right, onLeft: true}, nil
}

func (u *Union) NextRow() ([]value.Value, error) {
	if u.onLeft {
		row, err := u.left.NextRow()
		if err != nil {
			return nil, err
		}
		if row != nil {
			return row, nil
		}
		u.onLeft = false
	}
	return u.right.NextRow()
}

func (u *Union) ColumnInfos() []ColumnInfo { return u.left.ColumnInfos() }

func (u *Union) Close() error {
	err := u.left.Close()
	if rerr := u.right.Close(); err == nil {
		err = rerr
	}
	return err
}
