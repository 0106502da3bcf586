// Copyright 2023 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package benchtar reads Find2/FindQ benchmark run archives.
//
// A run archive is a gzip-compressed tar named <run_id>.tgz, as
// written by the benchmark driver. It contains one baseline table,
// <run_id>/find2.csv, holding the Find2 results, and zero or more
// members named findg_<lambda>_<gamma>.csv holding the FindQ results
// for one (λ, γ) parametrization each. All members are CSV files with
// one row per trial.
package benchtar

import (
	"archive/tar"
	"compress/gzip"
	"fmt"
	"io"
	"os"
	"path"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	"github.com/aclements/go-gg/table"
)

// A Key identifies one FindQ parametrization, as encoded in the name
// of an archive member.
type Key struct {
	Lambda float64
	Gamma  float64
}

func (k Key) String() string {
	return fmt.Sprintf("(%v, %v)", k.Lambda, k.Gamma)
}

// A Family maps each FindQ parametrization found in a run archive to
// its result table.
type Family map[Key]*table.Table

// Keys returns the keys of f sorted by Lambda and then by Gamma.
func (f Family) Keys() []Key {
	keys := make([]Key, 0, len(f))
	for k := range f {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool {
		if keys[i].Lambda != keys[j].Lambda {
			return keys[i].Lambda < keys[j].Lambda
		}
		return keys[i].Gamma < keys[j].Gamma
	})
	return keys
}

// A ParseError reports a FindQ member of a run archive whose name does
// not encode a (λ, γ) parametrization.
type ParseError struct {
	Archive string
	Member  string
	Msg     string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("%s: member %s: %s", e.Archive, e.Member, e.Msg)
}

// findqPrefix is the base-name prefix identifying FindQ result members.
const findqPrefix = "findg"

// LoadResults reads the run archive <baseDir>/<runID>.tgz and returns
// the Find2 baseline table and the family of FindQ tables.
//
// Rows of the baseline table containing a missing value in any column
// are dropped. FindQ tables are returned as read; the benchmark driver
// never writes partial FindQ trials.
//
// A missing archive or baseline member is an I/O error. A FindQ member
// whose name does not split into three "_"-separated fields with
// numeric λ and γ is a *ParseError.
func LoadResults(runID, baseDir string) (*table.Table, Family, error) {
	name := filepath.Join(baseDir, runID+".tgz")
	f, err := os.Open(name)
	if err != nil {
		return nil, nil, err
	}
	defer f.Close()
	zr, err := gzip.NewReader(f)
	if err != nil {
		return nil, nil, fmt.Errorf("%s: %v", name, err)
	}
	defer zr.Close()

	baseMember := runID + "/find2.csv"
	var find2 *table.Table
	findq := make(Family)
	tr := tar.NewReader(zr)
	for {
		hdr, err := tr.Next()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, nil, fmt.Errorf("%s: %v", name, err)
		}
		if hdr.Typeflag != tar.TypeReg {
			continue
		}
		switch base := path.Base(hdr.Name); {
		case hdr.Name == baseMember:
			t, err := readTable(tr, true)
			if err != nil {
				return nil, nil, fmt.Errorf("%s: member %s: %v", name, hdr.Name, err)
			}
			find2 = t
		case strings.HasPrefix(base, findqPrefix):
			key, err := parseKey(name, hdr.Name)
			if err != nil {
				return nil, nil, err
			}
			t, err := readTable(tr, false)
			if err != nil {
				return nil, nil, fmt.Errorf("%s: member %s: %v", name, hdr.Name, err)
			}
			findq[key] = t
		}
	}
	if find2 == nil {
		return nil, nil, fmt.Errorf("%s: missing member %s", name, baseMember)
	}
	return find2, findq, nil
}

// parseKey extracts the (λ, γ) key from the name of a FindQ member,
// whose base name must have the form findg_<lambda>_<gamma>.csv.
func parseKey(archive, member string) (Key, error) {
	stem := path.Base(member)
	stem = strings.TrimSuffix(stem, path.Ext(stem))
	fields := strings.Split(stem, "_")
	if len(fields) != 3 {
		return Key{}, &ParseError{archive, member, fmt.Sprintf("name has %d fields, want 3", len(fields))}
	}
	lambda, err := strconv.ParseFloat(fields[1], 64)
	if err != nil {
		return Key{}, &ParseError{archive, member, fmt.Sprintf("bad lambda %q", fields[1])}
	}
	gamma, err := strconv.ParseFloat(fields[2], 64)
	if err != nil {
		return Key{}, &ParseError{archive, member, fmt.Sprintf("bad gamma %q", fields[2])}
	}
	return Key{lambda, gamma}, nil
}
