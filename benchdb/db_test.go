// Copyright 2023 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package benchdb_test

import (
	"bytes"
	"context"
	"math"
	"reflect"
	"testing"

	"github.com/aclements/go-gg/table"
	"github.com/google/go-cmp/cmp"

	"github.com/findq/perf/benchdb/dbtest"
	"github.com/findq/perf/benchstat"
)

// testSummary builds a summary table with NaN in both roles: absent
// Lambda/Gamma on the baseline row and no-data statistics on the
// second FindQ row.
func testSummary(timeMean float64) *table.Table {
	nan := math.NaN()
	var b table.Builder
	b.Add("Method", []string{"Find2", "FindQ", "FindQ"})
	b.Add("Lambda", []float64{nan, 1, 2})
	b.Add("Gamma", []float64{nan, 0.95, 0.975})
	b.Add("Time (mean)", []float64{timeMean, 1.5, nan})
	b.Add("Time (std)", []float64{1, 0.5, nan})
	b.Add("Match (mean)", []float64{1, 0.875, nan})
	b.Add("Match (std)", []float64{0.5, 0.125, nan})
	b.Add("N", []int{2, 4, 0})
	return b.Done()
}

// render formats a summary table so tables can be compared as strings,
// NaN included.
func render(t *table.Table) string {
	var buf bytes.Buffer
	benchstat.FormatCSV(&buf, t)
	return buf.String()
}

func TestSaveRunRoundTrip(t *testing.T) {
	db, cleanup := dbtest.NewDB(t)
	defer cleanup()
	ctx := context.Background()

	want := testSummary(3)
	if err := db.SaveRun(ctx, "run1", 0.1, want); err != nil {
		t.Fatal(err)
	}
	got, err := db.Summaries(ctx, "run1")
	if err != nil {
		t.Fatal(err)
	}
	if diff := cmp.Diff(render(want), render(got)); diff != "" {
		t.Errorf("summary did not round-trip (-saved +loaded):\n%s", diff)
	}
}

func TestSaveRunReplaces(t *testing.T) {
	db, cleanup := dbtest.NewDB(t)
	defer cleanup()
	ctx := context.Background()

	if err := db.SaveRun(ctx, "run1", 0.1, testSummary(3)); err != nil {
		t.Fatal(err)
	}
	want := testSummary(7)
	if err := db.SaveRun(ctx, "run1", 0.1, want); err != nil {
		t.Fatal(err)
	}
	got, err := db.Summaries(ctx, "run1")
	if err != nil {
		t.Fatal(err)
	}
	if diff := cmp.Diff(render(want), render(got)); diff != "" {
		t.Errorf("second save did not replace the first (-saved +loaded):\n%s", diff)
	}
}

func TestRuns(t *testing.T) {
	db, cleanup := dbtest.NewDB(t)
	defer cleanup()
	ctx := context.Background()

	for _, id := range []string{"run2", "run1"} {
		if err := db.SaveRun(ctx, id, 0.1, testSummary(3)); err != nil {
			t.Fatal(err)
		}
	}
	ids, err := db.Runs(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if want := []string{"run1", "run2"}; !reflect.DeepEqual(ids, want) {
		t.Errorf("Runs() = %v, want %v", ids, want)
	}
}

func TestSaveRunBadSchema(t *testing.T) {
	db, cleanup := dbtest.NewDB(t)
	defer cleanup()

	var b table.Builder
	b.Add("Method", []string{"Find2"})
	if err := db.SaveRun(context.Background(), "run1", 0.1, b.Done()); err == nil {
		t.Errorf("saving a table without the summary schema succeeded, want error")
	}
}
