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

// Package engine is the embeddable entry point: one Engine wraps a
// catalog.Catalog and a stackvm.Registry of scalar functions and runs
// already-lowered statements against them. It does not parse SQL text;
// callers hand it a plan.Statement the way a real front end's lowering
// pass would produce one.
package engine

import (
	"io"
	"log"
	"os"

	"github.com/fuersten/csvsqldb/catalog"
	"github.com/fuersten/csvsqldb/plan"
	"github.com/fuersten/csvsqldb/stackvm"
)

// Engine owns one Catalog and one function Registry for the lifetime of
// an embedding process: a single instance shared by every query it runs.
type Engine struct {
	Catalog *catalog.Catalog
	Funcs   *stackvm.Registry
	Diag    *log.Logger
}

// New returns an Engine with a freshly predeclared Catalog (system tables
// only) and the built-in scalar function registry. Diagnostics default to
// os.Stderr with file:line prefixes, matching a query runner's ordinary
// log.New(os.Stderr, "", log.Lshortfile) setup.
func New() *Engine {
	return &Engine{
		Catalog: catalog.New(),
		Funcs:   stackvm.NewRegistry(),
		Diag:    log.New(os.Stderr, "", log.Lshortfile),
	}
}

// Run builds stmt against e's catalog and function registry. For a query
// statement it returns the resulting root plan.Operator, not yet driven;
// the caller pulls it to completion (directly, or via RunToWriter). For a
// DDL statement it applies the change to e.Catalog and returns (nil, nil).
func (e *Engine) Run(stmt plan.Statement) (plan.Operator, error) {
	return plan.Build(e.Catalog, stmt, e.Funcs)
}

// RunToWriter builds stmt and, if it is a query, drains it to w as
// delimiter-separated text with a header row,
// returning the row count written. A DDL statement writes nothing and
// returns (0, nil).
func (e *Engine) RunToWriter(stmt plan.Statement, w io.Writer, delimiter string) (int64, error) {
	op, err := e.Run(stmt)
	if err != nil {
		return 0, err
	}
	if op == nil {
		return 0, nil
	}
	out := plan.NewOutput(op, w, delimiter)
	return out.Run()
}
