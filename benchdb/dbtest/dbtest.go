// Copyright 2023 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package dbtest provides a benchdb database for testing.
package dbtest

import (
	"testing"

	"github.com/findq/perf/benchdb"
	_ "github.com/findq/perf/benchdb/sqlite3"
)

// NewDB makes a connection to an in-memory testing database. cleanup
// must be called when done with the testing database, instead of
// calling db.Close().
func NewDB(t *testing.T) (*benchdb.DB, func()) {
	d, err := benchdb.OpenSQL("sqlite3", ":memory:")
	if err != nil {
		t.Fatalf("open database: %v", err)
	}
	return d, func() { d.Close() }
}
