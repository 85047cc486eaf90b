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

package csvrow

import (
	"errors"
	"io"
	"strconv"

	"github.com/fuersten/csvsqldb/csqlerr"
	"github.com/fuersten/csvsqldb/value"
	"github.com/fuersten/csvsqldb/xsv"
)

// RowChopper fetches one CSV record, split into its raw field strings.
// xsv.CsvChopper implements this.
type RowChopper interface {
	GetNext(r io.Reader) ([]string, error)
}

// Parser reads CSV records from r and converts each field to the type
// declared by its Hint column, per the field-scan state machine in
// original_source/libcsvsqldb/base/csv_parser.cpp: an empty field maps to
// SQL NULL, anything else is parsed strictly against the declared type.
type Parser struct {
	r       io.Reader
	chopper RowChopper
	hint    *Hint
	line    int
}

// NewParser builds a Parser over r using hint to interpret each field.
// When hint.Separator is zero, the chopper's default comma is used.
func NewParser(r io.Reader, hint *Hint) *Parser {
	ch := &xsv.CsvChopper{SkipRecords: hint.SkipRecords}
	if hint.Separator != 0 {
		ch.Separator = xsv.Delim(hint.Separator)
	}
	return &Parser{r: r, chopper: ch, hint: hint, line: hint.SkipRecords}
}

// Next parses one record, or returns io.EOF once the input is exhausted.
// A malformed record (wrong field count, a field that cannot be cast to
// its declared type) is reported as a *csqlerr.CSVParseError but does not
// stop the parse: the caller gets the diagnostic and can call Next again
// to resume at the following record.
func (p *Parser) Next() ([]value.Value, error) {
	fields, err := p.chopper.GetNext(p.r)
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil, io.EOF
		}
		return nil, err
	}
	p.line++

	if len(fields) != len(p.hint.Columns) {
		return nil, &csqlerr.CSVParseError{
			Line:   p.line,
			Reason: "expected " + strconv.Itoa(len(p.hint.Columns)) + " fields, got " + strconv.Itoa(len(fields)),
		}
	}

	row := make([]value.Value, len(fields))
	for i, field := range fields {
		col := p.hint.Columns[i]
		v, err := parseField(col.Type, field, col.Nullable)
		if err != nil {
			return nil, &csqlerr.CSVParseError{Line: p.line, Field: col.Name, Reason: err.Error()}
		}
		row[i] = v
	}
	return row, nil
}

// Line reports the 1-based line number of the most recently parsed record.
func (p *Parser) Line() int { return p.line }

func parseField(t value.Type, field string, nullable bool) (value.Value, error) {
	if field == "" {
		if !nullable {
			return value.Value{}, &csqlerr.CastError{From: "VARCHAR", To: t.String(), Value: field}
		}
		return value.NewNull(t), nil
	}
	switch t {
	case value.String:
		return value.OwnedStr(field), nil
	case value.Integer:
		n, err := strconv.ParseInt(field, 10, 64)
		if err != nil {
			return value.Value{}, &csqlerr.CastError{From: "VARCHAR", To: "INTEGER", Value: field, Cause: err}
		}
		return value.NewInt(n), nil
	case value.Real:
		f, err := strconv.ParseFloat(field, 64)
		if err != nil {
			return value.Value{}, &csqlerr.CastError{From: "VARCHAR", To: "REAL", Value: field, Cause: err}
		}
		return value.NewFloat(f), nil
	case value.Boolean:
		if len(field) != 1 || (field[0] != '0' && field[0] != '1') {
			return value.Value{}, &csqlerr.CastError{From: "VARCHAR", To: "BOOLEAN", Value: field}
		}
		return value.NewBool(field[0] == '1'), nil
	case value.Date:
		return value.ParseISODate(field)
	case value.Time:
		return value.ParseISOTime(field)
	case value.Timestamp:
		return value.ParseISOTimestamp(field)
	default:
		return value.Value{}, &csqlerr.CastError{From: "VARCHAR", To: t.String(), Value: field}
	}
}
