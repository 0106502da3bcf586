// Copyright 2023 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package benchstat

import (
	"fmt"
	"math"

	"github.com/aclements/go-gg/table"

	"github.com/findq/perf/benchtar"
)

// DefaultAlpha is the alpha threshold used by GeneralStats when
// Options.Alpha is zero.
const DefaultAlpha = 0.1

// alphaCol is the filter column used by GeneralStats.
const alphaCol = "alpha"

// Method labels in the summary table.
const (
	find2Method = "Find2"
	findqMethod = "FindQ"
)

// SummaryColumns is the column order of the summary table built by
// GeneralStats.
var SummaryColumns = []string{
	"Method", "Lambda", "Gamma",
	"Time (mean)", "Time (std)", "Match (mean)", "Match (std)", "N",
}

// Options configure GeneralStats.
type Options struct {
	// Keys restricts the FindQ family to exactly these
	// parametrizations, in this order. A key with no table in the
	// family is an error. If Keys is nil, the whole family is
	// summarized in sorted key order.
	Keys []benchtar.Key

	// Alpha selects the trials to summarize: only rows whose
	// "alpha" column equals Alpha are counted. If zero, it
	// defaults to DefaultAlpha.
	Alpha float64
}

// GeneralStats summarizes one benchmark run. It computes the Summary
// of the Find2 baseline table and of every FindQ table in the family
// (or in opts.Keys) at the configured alpha, and assembles them into
// one table with the SummaryColumns schema.
//
// The baseline row is labeled "Find2" and has NaN Lambda and Gamma.
// Each FindQ row is labeled "FindQ" and carries its λ as Lambda and
// the effective quantile parameter 1 − α·γ as Gamma. The result has
// exactly 1 + |family| rows (or 1 + |opts.Keys|); a parametrization
// with no trials at the given alpha still gets a row, with NaN
// statistics.
//
// GeneralStats is a pure function of its inputs: identical inputs
// yield identical tables.
func GeneralStats(find2 *table.Table, findq benchtar.Family, opts *Options) (*table.Table, error) {
	alpha := DefaultAlpha
	var keys []benchtar.Key
	if opts != nil {
		if opts.Alpha != 0 {
			alpha = opts.Alpha
		}
		keys = opts.Keys
	}
	if keys == nil {
		keys = findq.Keys()
	} else {
		for _, k := range keys {
			if _, ok := findq[k]; !ok {
				return nil, fmt.Errorf("no FindQ results for %v", k)
			}
		}
	}

	nrows := 1 + len(keys)
	methods := make([]string, 0, nrows)
	lambdas := make([]float64, 0, nrows)
	gammas := make([]float64, 0, nrows)
	timeMeans := make([]float64, 0, nrows)
	timeStds := make([]float64, 0, nrows)
	matchMeans := make([]float64, 0, nrows)
	matchStds := make([]float64, 0, nrows)
	ns := make([]int, 0, nrows)
	addRow := func(method string, lambda, gamma float64, s Summary) {
		methods = append(methods, method)
		lambdas = append(lambdas, lambda)
		gammas = append(gammas, gamma)
		timeMeans = append(timeMeans, s.TimeMean)
		timeStds = append(timeStds, s.TimeStd)
		matchMeans = append(matchMeans, s.MatchMean)
		matchStds = append(matchStds, s.MatchStd)
		ns = append(ns, s.N)
	}

	filter := Filter{alphaCol, alpha}
	s, err := Stats(find2, filter)
	if err != nil {
		return nil, fmt.Errorf("%s: %v", find2Method, err)
	}
	addRow(find2Method, math.NaN(), math.NaN(), s)

	for _, k := range keys {
		s, err := Stats(findq[k], filter)
		if err != nil {
			return nil, fmt.Errorf("%s %v: %v", findqMethod, k, err)
		}
		addRow(findqMethod, k.Lambda, 1-alpha*k.Gamma, s)
	}

	var b table.Builder
	b.Add(SummaryColumns[0], methods)
	b.Add(SummaryColumns[1], lambdas)
	b.Add(SummaryColumns[2], gammas)
	b.Add(SummaryColumns[3], timeMeans)
	b.Add(SummaryColumns[4], timeStds)
	b.Add(SummaryColumns[5], matchMeans)
	b.Add(SummaryColumns[6], matchStds)
	b.Add(SummaryColumns[7], ns)
	return b.Done(), nil
}
