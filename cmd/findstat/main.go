// Copyright 2023 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Findstat summarizes Find2/FindQ benchmark runs.
//
// Usage:
//
//	findstat [-basedir dir] [-alpha α] [-keys λ:γ[,λ:γ...]] [-csv|-html] [-save dsn [-driver name]] run_id...
//
// Each run_id names a run archive <run_id>.tgz under -basedir, as
// written by the benchmark driver. For every run, findstat loads the
// archive, computes the mean and standard deviation of run time and
// match ratio for the Find2 baseline and for each FindQ
// parametrization at the given alpha threshold, and prints one summary
// table. The default output is fixed-width text; -csv and -html select
// CSV and HTML tables instead.
//
// The -keys option restricts the FindQ family to the listed (λ, γ)
// pairs, given as colon-separated pairs in a comma-separated list, for
// example -keys 1:0.5,2:0.5.
//
// The -save option additionally stores each run's summary in the named
// database, so that runs can be compared later without their archives.
// -driver selects the database driver, sqlite3 (the default) or mysql.
package main

import (
	"bytes"
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"

	_ "github.com/go-sql-driver/mysql"

	"github.com/findq/perf/benchdb"
	_ "github.com/findq/perf/benchdb/sqlite3"
	"github.com/findq/perf/benchstat"
	"github.com/findq/perf/benchtar"
)

func usage() {
	fmt.Fprintf(os.Stderr, "usage: findstat [options] run_id...\n")
	fmt.Fprintf(os.Stderr, "options:\n")
	flag.PrintDefaults()
	os.Exit(2)
}

var (
	flagBaseDir = flag.String("basedir", ".", "look for run archives in `dir`")
	flagAlpha   = flag.Float64("alpha", benchstat.DefaultAlpha, "summarize trials with this `alpha` threshold; 0 means the default")
	flagKeys    = flag.String("keys", "", "summarize only these FindQ `pairs`, e.g. 1:0.5,2:0.5")
	flagCSV     = flag.Bool("csv", false, "print results in CSV form")
	flagHTML    = flag.Bool("html", false, "print results as an HTML table")
	flagSave    = flag.String("save", "", "store summaries in the database at `dsn`")
	flagDriver  = flag.String("driver", "sqlite3", "database `driver` for -save: sqlite3 or mysql")
)

func main() {
	log.SetPrefix("findstat: ")
	log.SetFlags(0)
	flag.Usage = usage
	flag.Parse()
	if flag.NArg() < 1 {
		flag.Usage()
	}
	keys, err := parseKeys(*flagKeys)
	if err != nil {
		log.Fatal(err)
	}

	var db *benchdb.DB
	if *flagSave != "" {
		db, err = benchdb.OpenSQL(*flagDriver, *flagSave)
		if err != nil {
			log.Fatalf("open database: %v", err)
		}
		defer db.Close()
	}

	ctx := context.Background()
	for i, runID := range flag.Args() {
		find2, findq, err := benchtar.LoadResults(runID, *flagBaseDir)
		if err != nil {
			log.Fatal(err)
		}
		opts := &benchstat.Options{Keys: keys, Alpha: *flagAlpha}
		summary, err := benchstat.GeneralStats(find2, findq, opts)
		if err != nil {
			log.Fatalf("%s: %v", runID, err)
		}
		if db != nil {
			if err := db.SaveRun(ctx, runID, *flagAlpha, summary); err != nil {
				log.Fatalf("save %s: %v", runID, err)
			}
		}

		var buf bytes.Buffer
		if i > 0 {
			buf.WriteString("\n")
		}
		if flag.NArg() > 1 {
			fmt.Fprintf(&buf, "%s:\n", runID)
		}
		switch {
		case *flagCSV:
			benchstat.FormatCSV(&buf, summary)
		case *flagHTML:
			benchstat.FormatHTML(&buf, summary)
		default:
			benchstat.FormatText(&buf, summary)
		}
		os.Stdout.Write(buf.Bytes())
	}
}

// parseKeys parses the -keys flag: a comma-separated list of
// colon-separated (λ, γ) pairs. An empty flag means no restriction.
func parseKeys(s string) ([]benchtar.Key, error) {
	if s == "" {
		return nil, nil
	}
	var keys []benchtar.Key
	for _, pair := range strings.Split(s, ",") {
		fields := strings.Split(pair, ":")
		if len(fields) != 2 {
			return nil, fmt.Errorf("bad key %q: want lambda:gamma", pair)
		}
		lambda, err := strconv.ParseFloat(fields[0], 64)
		if err != nil {
			return nil, fmt.Errorf("bad key %q: bad lambda %q", pair, fields[0])
		}
		gamma, err := strconv.ParseFloat(fields[1], 64)
		if err != nil {
			return nil, fmt.Errorf("bad key %q: bad gamma %q", pair, fields[1])
		}
		keys = append(keys, benchtar.Key{Lambda: lambda, Gamma: gamma})
	}
	return keys, nil
}
