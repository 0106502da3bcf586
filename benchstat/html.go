// Copyright 2023 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package benchstat

import (
	"bytes"
	"html/template"

	"github.com/aclements/go-gg/table"
)

var htmlTemplate = template.Must(template.New("table").Parse(`
<table class='findstat'>
<tr>{{range .Header}}<th>{{.}}{{end}}
{{range .Rows -}}
<tr>{{range .}}<td>{{.}}{{end}}
{{end -}}
</table>
`))

// FormatHTML appends an HTML formatting of the summary table to buf.
func FormatHTML(buf *bytes.Buffer, t *table.Table) {
	cells := summaryCells(t)
	data := struct {
		Header []string
		Rows   [][]string
	}{cells[0], cells[1:]}
	err := htmlTemplate.Execute(buf, data)
	if err != nil {
		// Only possible errors here are template not matching
		// data structure. Don't make caller check - it's our fault.
		panic(err)
	}
}
