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

// Command csvsqldb is a smoke test for the engine package's embedding
// API, not a SQL shell: it wires a table and an already-lowered query
// plan by hand and drives them through engine.Engine, the same calling
// convention a real front end's lowering pass would use.
package main

import (
	"bufio"
	"flag"
	"fmt"
	"os"

	"github.com/fuersten/csvsqldb/catalog"
	"github.com/fuersten/csvsqldb/engine"
	"github.com/fuersten/csvsqldb/plan"
	"github.com/fuersten/csvsqldb/value"
)

func main() {
	csvPath := flag.String("csv", "", "path to a CSV file to scan (defaults to a built-in sample)")
	delim := flag.String("delim", ",", "output field delimiter")
	flag.Parse()

	if err := run(*csvPath, *delim, os.Stdout); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

const sampleCSV = "1,Lars,Hamburg\n2,Mark,Berlin\n3,Ada,Leipzig\n"

func run(csvPath, delim string, stdout *os.File) error {
	e := engine.New()

	tbl := &catalog.Table{
		Name: "employees",
		Columns: []catalog.Column{
			{Name: "id", Type: value.Integer},
			{Name: "name", Type: value.String},
			{Name: "city", Type: value.String},
		},
	}
	if _, err := e.Run(plan.Statement{CreateTable: tbl}); err != nil {
		return fmt.Errorf("create table: %w", err)
	}

	src, closeSrc, err := csvSource(csvPath)
	if err != nil {
		return err
	}
	defer closeSrc()

	stmt := plan.Statement{Query: &plan.OperatorSpec{
		Kind: plan.OpOutput,
		Input: &plan.OperatorSpec{
			Kind:   plan.OpScan,
			Table:  "employees",
			Source: src,
			Diag:   e.Diag,
		},
		Delimiter: delim,
	}}

	out := bufio.NewWriter(stdout)
	n, err := e.RunToWriter(stmt, out, delim)
	if err != nil {
		return fmt.Errorf("run query: %w", err)
	}
	if ferr := out.Flush(); ferr != nil {
		return ferr
	}
	fmt.Fprintf(os.Stderr, "%d rows\n", n)
	return nil
}

func csvSource(path string) (*os.File, func() error, error) {
	if path == "" {
		f, err := os.CreateTemp("", "csvsqldb-sample-*.csv")
		if err != nil {
			return nil, nil, err
		}
		if _, err := f.WriteString(sampleCSV); err != nil {
			f.Close()
			os.Remove(f.Name())
			return nil, nil, err
		}
		if _, err := f.Seek(0, 0); err != nil {
			f.Close()
			os.Remove(f.Name())
			return nil, nil, err
		}
		name := f.Name()
		return f, func() error {
			f.Close()
			return os.Remove(name)
		}, nil
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, nil, err
	}
	return f, f.Close, nil
}
