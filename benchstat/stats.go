// Copyright 2023 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package benchstat computes descriptive statistics over Find2/FindQ
// benchmark result tables.
//
// Each result table holds one row per trial. Statistics are computed
// over the subset of trials selected by a Filter, typically the rows
// for a single value of the alpha threshold parameter, and summarize
// the run time and the match ratio, the ratio of the candidate value
// found by the algorithm to the exact reference value.
package benchstat

import (
	"fmt"
	"math"
	"strings"

	"github.com/aclements/go-gg/generic/slice"
	"github.com/aclements/go-gg/table"
	"github.com/aclements/go-moremath/stats"
)

// Column names shared by all result tables written by the benchmark
// driver.
const (
	timeCol  = "time"
	exactCol = "exact"

	// candidatePrefix marks the column holding the candidate value
	// found by the algorithm under test. A result table must have
	// exactly one such column.
	candidatePrefix = "max_"
)

// A Filter restricts statistics to the rows of a result table whose
// filter column equals Value.
//
// Equality is exact, not tolerance-based. Filter columns are expected
// to hold values drawn from a small fixed set that round-trips
// losslessly through the result files.
type Filter struct {
	Col   string
	Value float64
}

// A Summary holds the descriptive statistics of one result table
// restricted by a Filter: the mean and sample standard deviation of
// the per-trial run time and of the per-trial match ratio, and the
// number of restricted rows.
//
// A Filter matching no rows is valid and yields NaN for all four
// statistics and an N of 0.
type Summary struct {
	TimeMean  float64
	TimeStd   float64
	MatchMean float64
	MatchStd  float64
	N         int
}

// Stats computes the Summary of t restricted by f.
//
// t must have a numeric "time" column, a numeric "exact" column, the
// filter column, and exactly one candidate column. NaN cells are
// skipped within each statistic, but every restricted row counts
// toward N.
func Stats(t *table.Table, f Filter) (Summary, error) {
	cand, err := candidateColumn(t)
	if err != nil {
		return Summary{}, err
	}
	filterVals, err := floatColumn(t, f.Col)
	if err != nil {
		return Summary{}, err
	}
	times, err := floatColumn(t, timeCol)
	if err != nil {
		return Summary{}, err
	}
	exacts, err := floatColumn(t, exactCol)
	if err != nil {
		return Summary{}, err
	}
	cands, err := floatColumn(t, cand)
	if err != nil {
		return Summary{}, err
	}

	var ts, ratios []float64
	n := 0
	for i, v := range filterVals {
		if v != f.Value {
			continue
		}
		n++
		if !math.IsNaN(times[i]) {
			ts = append(ts, times[i])
		}
		if r := cands[i] / exacts[i]; !math.IsNaN(r) {
			ratios = append(ratios, r)
		}
	}
	return Summary{
		TimeMean:  stats.Mean(ts),
		TimeStd:   stdDev(ts),
		MatchMean: stats.Mean(ratios),
		MatchStd:  stdDev(ratios),
		N:         n,
	}, nil
}

// stdDev returns the sample standard deviation of xs. Unlike
// stats.StdDev, a single value has no spread estimate and yields NaN,
// not 0; the n−1 denominator is undefined there.
func stdDev(xs []float64) float64 {
	if len(xs) < 2 {
		return math.NaN()
	}
	return stats.StdDev(xs)
}

// candidateColumn returns the name of the single column of t whose
// name begins with candidatePrefix. Zero or several such columns are
// an error.
func candidateColumn(t *table.Table) (string, error) {
	name := ""
	for _, c := range t.Columns() {
		if !strings.HasPrefix(c, candidatePrefix) {
			continue
		}
		if name != "" {
			return "", fmt.Errorf("ambiguous candidate column: %q and %q", name, c)
		}
		name = c
	}
	if name == "" {
		return "", fmt.Errorf("no column begins with %q", candidatePrefix)
	}
	return name, nil
}

// floatColumn returns the named column of t as []float64, converting
// integer columns as needed.
func floatColumn(t *table.Table, name string) ([]float64, error) {
	col := t.Column(name)
	if col == nil {
		return nil, fmt.Errorf("missing column %q", name)
	}
	switch col := col.(type) {
	case []float64:
		return col, nil
	case []int:
		var xs []float64
		slice.Convert(&xs, col)
		return xs, nil
	}
	return nil, fmt.Errorf("column %q is not numeric", name)
}
