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
	"bufio"
	"io"
	"strings"

	"github.com/fuersten/csvsqldb/value"
)

// Output is the root of an operator tree: it renders every row from
// input as a header line of column labels followed by one
// delimiter-separated line per row -- the "result set on the wire" shape
// for a completed query.
type Output struct {
	input     Operator
	w         *bufio.Writer
	delim     string
	wroteHead bool
}

// NewOutput wraps input, writing to w with fields separated by delim
// (',' is the default when delim is empty).
func NewOutput(input Operator, w io.Writer, delim string) *Output {
	if delim == "" {
		delim = ","
	}
	return &Output{input: input, w: bufio.NewWriter(w), delim: delim}
}

// Run drains input, writing the header once and then every row, and
// flushes the underlying writer before returning.
func (o *Output) Run() (int64, error) {
	var n int64
	if err := o.writeHeader(); err != nil {
		return n, err
	}
	for {
		row, err := o.input.NextRow()
		if err != nil {
			return n, err
		}
		if row == nil {
			break
		}
		if err := o.writeRow(row); err != nil {
			return n, err
		}
		n++
	}
	return n, o.w.Flush()
}

func (o *Output) writeHeader() error {
	if o.wroteHead {
		return nil
	}
	o.wroteHead = true
	labels := make([]string, len(o.input.ColumnInfos()))
	for i, c := range o.input.ColumnInfos() {
		labels[i] = c.label()
	}
	_, err := o.w.WriteString(strings.Join(labels, o.delim) + "\n")
	return err
}

func (o *Output) writeRow(row []value.Value) error {
	fields := make([]string, len(row))
	for i, v := range row {
		fields[i] = v.String()
	}
	_, err := o.w.WriteString(strings.Join(fields, o.delim) + "\n")
	return err
}

// NextRow passes input's rows through unchanged and writes nothing; only
// Run renders rows to the writer.
func (o *Output) NextRow() ([]value.Value, error) { return o.input.NextRow() }

func (o *Output) ColumnInfos() []ColumnInfo { return o.input.ColumnInfos() }
func (o *Output) Close() error              { return o.input.Close() }
