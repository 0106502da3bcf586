// Copyright 2023 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package benchstat

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"math"
	"reflect"
	"strconv"
	"unicode/utf8"

	"github.com/aclements/go-gg/table"
)

// optionalCols are summary columns where NaN means "not applicable"
// rather than "no data"; they render as empty cells.
var optionalCols = map[string]bool{"Lambda": true, "Gamma": true}

// summaryCells renders a summary table into a header row followed by
// one row of strings per table row.
func summaryCells(t *table.Table) [][]string {
	cols := t.Columns()
	cells := [][]string{cols}
	for i := 0; i < t.Len(); i++ {
		row := make([]string, 0, len(cols))
		for _, name := range cols {
			row = append(row, formatCell(t.Column(name), i, optionalCols[name]))
		}
		cells = append(cells, row)
	}
	return cells
}

func formatCell(col table.Slice, i int, optional bool) string {
	switch col := col.(type) {
	case []string:
		return col[i]
	case []int:
		return strconv.Itoa(col[i])
	case []float64:
		v := col[i]
		if math.IsNaN(v) {
			if optional {
				return ""
			}
			return "NaN"
		}
		return strconv.FormatFloat(v, 'g', -1, 64)
	}
	return fmt.Sprint(reflect.ValueOf(col).Index(i))
}

// FormatText appends a fixed-width text formatting of the summary
// table to buf. The first column is left-aligned and the remaining
// columns are right-aligned.
func FormatText(buf *bytes.Buffer, t *table.Table) {
	cells := summaryCells(t)

	var max []int
	for _, row := range cells {
		for len(max) < len(row) {
			max = append(max, 0)
		}
		for i, s := range row {
			if n := utf8.RuneCountInString(s); max[i] < n {
				max[i] = n
			}
		}
	}

	for _, row := range cells {
		for i, s := range row {
			switch i {
			case 0:
				fmt.Fprintf(buf, "%-*s", max[i], s)
			default:
				fmt.Fprintf(buf, "  %*s", max[i], s)
			}
		}
		fmt.Fprintf(buf, "\n")
	}
}

// FormatCSV appends a CSV formatting of the summary table to buf.
func FormatCSV(buf *bytes.Buffer, t *table.Table) {
	w := csv.NewWriter(buf)
	w.WriteAll(summaryCells(t))
	w.Flush()
}
