// Copyright 2023 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package benchtar

import (
	"encoding/csv"
	"errors"
	"io"
	"math"
	"strconv"

	"github.com/aclements/go-gg/table"
)

// readTable decodes one CSV archive member into a table.
//
// Column typing follows table.TableFromStrings, except that empty
// cells are allowed in numeric columns: a column in which every
// non-empty cell parses as a float becomes []float64, with NaN
// standing in for the empty cells; any other column stays []string.
//
// If dropMissing is set, rows containing a missing value (a NaN in a
// numeric column or an empty cell in a string column) are discarded.
func readTable(r io.Reader, dropMissing bool) (*table.Table, error) {
	recs, err := csv.NewReader(r).ReadAll()
	if err != nil {
		return nil, err
	}
	if len(recs) == 0 {
		return nil, errors.New("empty table")
	}
	header, rows := recs[0], recs[1:]

	// Type each column.
	floats := make([][]float64, len(header)) // nil for string columns
	for j := range header {
		col := make([]float64, len(rows))
		numeric := true
		for i, row := range rows {
			if row[j] == "" {
				col[i] = math.NaN()
				continue
			}
			v, err := strconv.ParseFloat(row[j], 64)
			if err != nil {
				numeric = false
				break
			}
			col[i] = v
		}
		if numeric {
			floats[j] = col
		}
	}

	keep := make([]bool, len(rows))
	n := 0
	for i := range rows {
		keep[i] = true
		if dropMissing {
			for j := range header {
				if fc := floats[j]; fc != nil {
					if math.IsNaN(fc[i]) {
						keep[i] = false
						break
					}
				} else if rows[i][j] == "" {
					keep[i] = false
					break
				}
			}
		}
		if keep[i] {
			n++
		}
	}

	var b table.Builder
	for j, name := range header {
		if fc := floats[j]; fc != nil {
			out := make([]float64, 0, n)
			for i := range rows {
				if keep[i] {
					out = append(out, fc[i])
				}
			}
			b.Add(name, out)
		} else {
			out := make([]string, 0, n)
			for i := range rows {
				if keep[i] {
					out = append(out, rows[i][j])
				}
			}
			b.Add(name, out)
		}
	}
	return b.Done(), nil
}
