// Copyright 2023 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package benchdb stores computed run summaries in a SQL database, so
// that runs can be compared later without re-reading their archives.
package benchdb

import (
	"context"
	"database/sql"
	"fmt"
	"math"
	"strings"

	"github.com/aclements/go-gg/table"

	"github.com/findq/perf/benchstat"
)

// DB is a store of run summaries backed by a SQL database. It's safe
// for concurrent use by multiple goroutines.
type DB struct {
	sql *sql.DB // underlying database connection
	// prepared statements
	insertRun     *sql.Stmt
	insertSummary *sql.Stmt
}

// OpenSQL creates a DB backed by a SQL database. The parameters are
// the same as the parameters for sql.Open. Only mysql and sqlite3 are
// explicitly supported; other database engines may or may not be
// compatible with the schema.
func OpenSQL(driverName, dataSourceName string) (*DB, error) {
	db, err := sql.Open(driverName, dataSourceName)
	if err != nil {
		return nil, err
	}
	if hook := openHooks[driverName]; hook != nil {
		if err := hook(db); err != nil {
			return nil, err
		}
	}
	d := &DB{sql: db}
	if err := d.createTables(); err != nil {
		return nil, err
	}
	if err := d.prepareStatements(); err != nil {
		return nil, err
	}
	return d, nil
}

var openHooks = make(map[string]func(*sql.DB) error)

// RegisterOpenHook registers a hook to be called after opening a connection to driverName.
// This is used by the sqlite3 package to register a ConnectHook.
// It must be called from an init function.
func RegisterOpenHook(driverName string, hook func(*sql.DB) error) {
	openHooks[driverName] = hook
}

// createSQL holds the CREATE statements for the database. Runs holds
// one row per saved run; Summaries holds the rows of its summary
// table, ordered by Seq.
const createSQL = `
CREATE TABLE IF NOT EXISTS Runs (
	RunID VARCHAR(255) NOT NULL,
	Alpha DOUBLE,
	PRIMARY KEY (RunID)
);
CREATE TABLE IF NOT EXISTS Summaries (
	RunID VARCHAR(255) NOT NULL,
	Seq BIGINT NOT NULL,
	Method VARCHAR(255),
	Lambda DOUBLE,
	Gamma DOUBLE,
	TimeMean DOUBLE,
	TimeStd DOUBLE,
	MatchMean DOUBLE,
	MatchStd DOUBLE,
	N BIGINT,
	PRIMARY KEY (RunID, Seq),
	FOREIGN KEY (RunID) REFERENCES Runs(RunID) ON UPDATE CASCADE ON DELETE CASCADE
);
`

// createTables creates any missing tables on the connection in db.sql.
func (db *DB) createTables() error {
	for _, q := range strings.Split(createSQL, ";") {
		if strings.TrimSpace(q) == "" {
			continue
		}
		if _, err := db.sql.Exec(q); err != nil {
			return fmt.Errorf("create table: %v", err)
		}
	}
	return nil
}

// prepareStatements calls db.sql.Prepare on reusable SQL statements.
func (db *DB) prepareStatements() error {
	var err error
	db.insertRun, err = db.sql.Prepare("INSERT INTO Runs(RunID, Alpha) VALUES (?, ?)")
	if err != nil {
		return err
	}
	db.insertSummary, err = db.sql.Prepare(
		"INSERT INTO Summaries(RunID, Seq, Method, Lambda, Gamma, TimeMean, TimeStd, MatchMean, MatchStd, N)" +
			" VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)")
	if err != nil {
		return err
	}
	return nil
}

// SaveRun stores the summary table for runID, computed at the given
// alpha, replacing any rows from an earlier save of the same run. The
// summary must have the benchstat.SummaryColumns schema. NaN
// statistics are stored as NULL.
func (db *DB) SaveRun(ctx context.Context, runID string, alpha float64, summary *table.Table) (err error) {
	cols, err := summaryColumns(summary)
	if err != nil {
		return err
	}
	tx, err := db.sql.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() {
		if err != nil {
			tx.Rollback()
		} else {
			err = tx.Commit()
		}
	}()
	// Cascades to Summaries.
	if _, err = tx.ExecContext(ctx, "DELETE FROM Runs WHERE RunID = ?", runID); err != nil {
		return err
	}
	if _, err = tx.StmtContext(ctx, db.insertRun).ExecContext(ctx, runID, alpha); err != nil {
		return err
	}
	insert := tx.StmtContext(ctx, db.insertSummary)
	for i := 0; i < summary.Len(); i++ {
		_, err = insert.ExecContext(ctx, runID, i, cols.methods[i],
			nullFloat(cols.lambdas[i]), nullFloat(cols.gammas[i]),
			nullFloat(cols.timeMeans[i]), nullFloat(cols.timeStds[i]),
			nullFloat(cols.matchMeans[i]), nullFloat(cols.matchStds[i]),
			cols.ns[i])
		if err != nil {
			return err
		}
	}
	return nil
}

// Summaries reads back the summary table stored for runID, in the row
// order it was saved in. NULL statistics are returned as NaN.
func (db *DB) Summaries(ctx context.Context, runID string) (*table.Table, error) {
	rows, err := db.sql.QueryContext(ctx,
		"SELECT Method, Lambda, Gamma, TimeMean, TimeStd, MatchMean, MatchStd, N"+
			" FROM Summaries WHERE RunID = ? ORDER BY Seq", runID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var c summaryCols
	for rows.Next() {
		var method string
		var lambda, gamma, timeMean, timeStd, matchMean, matchStd sql.NullFloat64
		var n int
		err := rows.Scan(&method, &lambda, &gamma, &timeMean, &timeStd, &matchMean, &matchStd, &n)
		if err != nil {
			return nil, err
		}
		c.methods = append(c.methods, method)
		c.lambdas = append(c.lambdas, floatOrNaN(lambda))
		c.gammas = append(c.gammas, floatOrNaN(gamma))
		c.timeMeans = append(c.timeMeans, floatOrNaN(timeMean))
		c.timeStds = append(c.timeStds, floatOrNaN(timeStd))
		c.matchMeans = append(c.matchMeans, floatOrNaN(matchMean))
		c.matchStds = append(c.matchStds, floatOrNaN(matchStd))
		c.ns = append(c.ns, n)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	var b table.Builder
	b.Add(benchstat.SummaryColumns[0], c.methods)
	b.Add(benchstat.SummaryColumns[1], c.lambdas)
	b.Add(benchstat.SummaryColumns[2], c.gammas)
	b.Add(benchstat.SummaryColumns[3], c.timeMeans)
	b.Add(benchstat.SummaryColumns[4], c.timeStds)
	b.Add(benchstat.SummaryColumns[5], c.matchMeans)
	b.Add(benchstat.SummaryColumns[6], c.matchStds)
	b.Add(benchstat.SummaryColumns[7], c.ns)
	return b.Done(), nil
}

// Runs returns the IDs of all stored runs in lexical order.
func (db *DB) Runs(ctx context.Context) ([]string, error) {
	rows, err := db.sql.QueryContext(ctx, "SELECT RunID FROM Runs ORDER BY RunID")
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

// Close closes the database connections, releasing any open resources.
func (db *DB) Close() error {
	if err := db.insertRun.Close(); err != nil {
		return err
	}
	if err := db.insertSummary.Close(); err != nil {
		return err
	}
	return db.sql.Close()
}

// summaryCols holds the typed columns of a summary table.
type summaryCols struct {
	methods                                                     []string
	lambdas, gammas, timeMeans, timeStds, matchMeans, matchStds []float64
	ns                                                          []int
}

// summaryColumns extracts the typed columns of a summary table with
// the benchstat.SummaryColumns schema.
func summaryColumns(t *table.Table) (*summaryCols, error) {
	var c summaryCols
	for _, dst := range []struct {
		name string
		p    interface{}
	}{
		{benchstat.SummaryColumns[0], &c.methods},
		{benchstat.SummaryColumns[1], &c.lambdas},
		{benchstat.SummaryColumns[2], &c.gammas},
		{benchstat.SummaryColumns[3], &c.timeMeans},
		{benchstat.SummaryColumns[4], &c.timeStds},
		{benchstat.SummaryColumns[5], &c.matchMeans},
		{benchstat.SummaryColumns[6], &c.matchStds},
		{benchstat.SummaryColumns[7], &c.ns},
	} {
		col := t.Column(dst.name)
		if col == nil {
			return nil, fmt.Errorf("summary table is missing column %q", dst.name)
		}
		ok := false
		switch p := dst.p.(type) {
		case *[]string:
			*p, ok = col.([]string)
		case *[]float64:
			*p, ok = col.([]float64)
		case *[]int:
			*p, ok = col.([]int)
		}
		if !ok {
			return nil, fmt.Errorf("summary table column %q has wrong type %T", dst.name, col)
		}
	}
	return &c, nil
}

// nullFloat maps NaN to a SQL NULL. SQL databases have no NaN; NULL
// is the only faithful round trip.
func nullFloat(v float64) sql.NullFloat64 {
	return sql.NullFloat64{Float64: v, Valid: !math.IsNaN(v)}
}

func floatOrNaN(v sql.NullFloat64) float64 {
	if !v.Valid {
		return math.NaN()
	}
	return v.Float64
}
