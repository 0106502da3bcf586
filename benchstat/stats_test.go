// Copyright 2023 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package benchstat

import (
	"math"
	"testing"

	"github.com/aclements/go-gg/table"
)

// resultTable builds a result table with the column shape written by
// the benchmark driver.
func resultTable(alphas, times, exacts, maxs []float64) *table.Table {
	var b table.Builder
	b.Add("alpha", alphas)
	b.Add("time", times)
	b.Add("exact", exacts)
	b.Add("max_x", maxs)
	return b.Done()
}

func closeTo(got, want float64) bool {
	return math.Abs(got-want) <= 1e-12*math.Max(1, math.Abs(want))
}

func TestStats(t *testing.T) {
	tab := resultTable(
		[]float64{0.1, 0.1, 0.2},
		[]float64{2, 4, 100},
		[]float64{10, 10, 10},
		[]float64{9, 11, 1},
	)
	s, err := Stats(tab, Filter{"alpha", 0.1})
	if err != nil {
		t.Fatal(err)
	}
	if !closeTo(s.TimeMean, 3) {
		t.Errorf("TimeMean = %v, want 3", s.TimeMean)
	}
	if !closeTo(s.TimeStd, math.Sqrt2) {
		t.Errorf("TimeStd = %v, want √2", s.TimeStd)
	}
	// Ratios are averaged per row: (9/10 + 11/10) / 2 = 1, not
	// a ratio of averages.
	if !closeTo(s.MatchMean, 1) {
		t.Errorf("MatchMean = %v, want 1", s.MatchMean)
	}
	if !closeTo(s.MatchStd, math.Sqrt(0.02)) {
		t.Errorf("MatchStd = %v, want √0.02", s.MatchStd)
	}
	if s.N != 2 {
		t.Errorf("N = %d, want 2", s.N)
	}
}

func TestStatsNoMatch(t *testing.T) {
	tab := resultTable(
		[]float64{0.1, 0.1},
		[]float64{2, 4},
		[]float64{10, 10},
		[]float64{9, 11},
	)
	s, err := Stats(tab, Filter{"alpha", 0.5})
	if err != nil {
		t.Fatal(err)
	}
	if s.N != 0 {
		t.Errorf("N = %d, want 0", s.N)
	}
	for _, v := range []float64{s.TimeMean, s.TimeStd, s.MatchMean, s.MatchStd} {
		if !math.IsNaN(v) {
			t.Errorf("statistics = %+v, want all NaN", s)
			break
		}
	}
}

func TestStatsSingleTrial(t *testing.T) {
	// One trial gives a mean but no spread estimate: both standard
	// deviations must be NaN, not 0.
	tab := resultTable(
		[]float64{0.1, 0.2},
		[]float64{2, 4},
		[]float64{10, 10},
		[]float64{9, 11},
	)
	s, err := Stats(tab, Filter{"alpha", 0.1})
	if err != nil {
		t.Fatal(err)
	}
	if s.N != 1 {
		t.Errorf("N = %d, want 1", s.N)
	}
	if !closeTo(s.TimeMean, 2) {
		t.Errorf("TimeMean = %v, want 2", s.TimeMean)
	}
	if !math.IsNaN(s.TimeStd) {
		t.Errorf("TimeStd = %v, want NaN", s.TimeStd)
	}
	if !math.IsNaN(s.MatchStd) {
		t.Errorf("MatchStd = %v, want NaN", s.MatchStd)
	}
}

func TestStatsSkipsNaN(t *testing.T) {
	// A trial with a missing candidate value still counts toward N,
	// but not toward the ratio statistics.
	tab := resultTable(
		[]float64{0.1, 0.1, 0.1},
		[]float64{1, 2, 3},
		[]float64{10, 10, 10},
		[]float64{10, math.NaN(), 10},
	)
	s, err := Stats(tab, Filter{"alpha", 0.1})
	if err != nil {
		t.Fatal(err)
	}
	if s.N != 3 {
		t.Errorf("N = %d, want 3", s.N)
	}
	if !closeTo(s.TimeMean, 2) {
		t.Errorf("TimeMean = %v, want 2", s.TimeMean)
	}
	if !closeTo(s.MatchMean, 1) {
		t.Errorf("MatchMean = %v, want 1", s.MatchMean)
	}
}

func TestStatsIntColumns(t *testing.T) {
	var b table.Builder
	b.Add("alpha", []float64{0.1, 0.1})
	b.Add("time", []float64{2, 4})
	b.Add("exact", []int{10, 10})
	b.Add("max_x", []int{9, 11})
	s, err := Stats(b.Done(), Filter{"alpha", 0.1})
	if err != nil {
		t.Fatal(err)
	}
	if !closeTo(s.MatchMean, 1) {
		t.Errorf("MatchMean = %v, want 1", s.MatchMean)
	}
}

func TestStatsErrors(t *testing.T) {
	check := func(name string, tab *table.Table, f Filter) {
		t.Helper()
		if _, err := Stats(tab, f); err == nil {
			t.Errorf("%s: Stats succeeded, want error", name)
		}
	}

	var b table.Builder
	b.Add("alpha", []float64{0.1})
	b.Add("time", []float64{1})
	b.Add("exact", []float64{1})
	noCand := b.Done()
	check("no candidate column", noCand, Filter{"alpha", 0.1})

	b.Add("alpha", []float64{0.1})
	b.Add("time", []float64{1})
	b.Add("exact", []float64{1})
	b.Add("max_a", []float64{1})
	b.Add("max_b", []float64{1})
	check("ambiguous candidate column", b.Done(), Filter{"alpha", 0.1})

	tab := resultTable([]float64{0.1}, []float64{1}, []float64{1}, []float64{1})
	check("missing filter column", tab, Filter{"beta", 0.1})

	b.Add("alpha", []string{"x"})
	b.Add("time", []float64{1})
	b.Add("exact", []float64{1})
	b.Add("max_x", []float64{1})
	check("non-numeric filter column", b.Done(), Filter{"alpha", 0.1})
}
