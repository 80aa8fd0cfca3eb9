//
// Copyright ⓒ 2024 Chakib Ben Ziane <contact@blob42.xyz> and [`mozprefs` contributors]
// (https://github.com/blob42/mozprefs/graphs/contributors).
//
// All rights reserved.
//
// SPDX-License-Identifier: AGPL-3.0-or-later
//
// This file is part of mozprefs.
//
// mozprefs is free software: you can redistribute it and/or modify it under the terms of
// the GNU Affero General Public License as published by the Free Software Foundation,
// either version 3 of the License, or (at your option) any later version.
//
// mozprefs is distributed in the hope that it will be useful, but WITHOUT ANY WARRANTY;
// without even the implied warranty of MERCHANTABILITY or FITNESS FOR A PARTICULAR
// PURPOSE.  See the GNU Affero General Public License for more details.
//
// You should have received a copy of the GNU Affero General Public License along with
// mozprefs.  If not, see <http://www.gnu.org/licenses/>.

package database

import (
	"context"
	"database/sql"
	"embed"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/OneOfOne/xxhash"
	"github.com/gchaincl/dotsql"
	"github.com/swithek/dotsqlx"

	"github.com/blob42/mozprefs/internal/utils"
	"github.com/blob42/mozprefs/pkg/prefs"
)

const (
	DBFileName    = "ledger.sqlite"
	LedgerQueries = "queries.sql"

	// increment when the tables of queries.sql change
	SchemaVersion = 1
)

var (
	//go:embed queries.sql
	EmbeddedSQLQueries embed.FS

	ErrNoRun         = errors.New("no successful run recorded")
	ErrSchemaVersion = errors.New("ledger schema is newer than this program")
)

// Ledger records the values applied to each profile and a history of apply
// runs in an SQLite database.
type Ledger struct {
	*DB
	dotx *dotsqlx.DotSqlx
}

// Loads a dotsql from an embedded FS
func DotxQueryEmbedFS(fs embed.FS, filename string) (*dotsqlx.DotSqlx, error) {
	rawsql, err := fs.ReadFile(filename)
	if err != nil {
		return nil, err
	}

	dot, err := dotsql.LoadFromString(string(rawsql))
	if err != nil {
		return nil, err
	}

	return dotsqlx.Wrap(dot), nil
}

// DefaultDBPath returns the ledger path under the user data dir
// ($XDG_DATA_HOME/mozprefs on linux).
func DefaultDBPath() string {
	dir := os.Getenv("XDG_DATA_HOME")
	if dir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			log.Warn(err)
			return DBFileName
		}
		dir = filepath.Join(home, ".local", "share")
	}
	return filepath.Join(dir, "mozprefs", DBFileName)
}

// OpenLedger opens or creates the ledger database file at path.
func OpenLedger(path string) (*Ledger, error) {
	path, err := utils.ExpandOnly(path)
	if err != nil {
		return nil, err
	}
	if err = os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, err
	}

	db := NewDB("ledger", path, DBTypeFileDSN, DsnOptions{"_busy_timeout": "5000"})
	return openLedger(db)
}

// OpenMemoryLedger opens a ledger living in memory until closed.
func OpenMemoryLedger(name string) (*Ledger, error) {
	return openLedger(NewDB(name, "", DBTypeInMemoryDSN))
}

func openLedger(db *DB) (*Ledger, error) {
	dotx, err := DotxQueryEmbedFS(EmbeddedSQLQueries, LedgerQueries)
	if err != nil {
		return nil, err
	}

	if _, err = db.Init(); err != nil {
		return nil, err
	}

	l := &Ledger{DB: db, dotx: dotx}
	if err = l.initSchema(); err != nil {
		db.Close()
		return nil, err
	}

	return l, nil
}

func (l *Ledger) initSchema() error {
	var version int
	if err := l.Handle.Get(&version, "PRAGMA user_version"); err != nil {
		return DBError{DBName: l.Name, Err: err}
	}
	if version > SchemaVersion {
		return DBError{DBName: l.Name, Err: fmt.Errorf("%w: %d", ErrSchemaVersion, version)}
	}

	for _, q := range []string{"create-runs", "create-prefs"} {
		if _, err := l.dotx.Exec(l.Handle, q); err != nil {
			return DBError{DBName: l.Name, Err: fmt.Errorf("%s: %w", q, err)}
		}
	}

	if version < SchemaVersion {
		log.Debugf("<%s> schema version %d", l.Name, SchemaVersion)
		_, err := l.Handle.Exec(fmt.Sprintf("PRAGMA user_version = %d", SchemaVersion))
		if err != nil {
			return DBError{DBName: l.Name, Err: err}
		}
	}

	return nil
}

// Record is the last value applied to a preference of a profile
type Record struct {
	Profile  string `db:"profile"`
	Name     string `db:"name"`
	Kind     string `db:"kind"`
	Literal  string `db:"value"`
	XHSum    string `db:"xhsum"`
	Modified int64  `db:"modified"`
	RunID    string `db:"run_id"`
}

func (r Record) Value() (prefs.Value, error) {
	return prefs.ParseValue(r.Literal)
}

func (r Record) ModifiedAt() time.Time {
	return time.Unix(r.Modified, 0)
}

func checksum(v prefs.Value) string {
	return fmt.Sprintf("%016x", xxhash.ChecksumString64(v.Kind().String()+":"+v.Literal()))
}

// query returns the named query of queries.sql
func (l *Ledger) query(name string) (string, error) {
	q, err := l.dotx.Raw(name)
	if err != nil {
		return "", DBError{DBName: l.Name, Err: err}
	}
	return q, nil
}

// Prefs lists the recorded preferences of profile ordered by name
func (l *Ledger) Prefs(ctx context.Context, profile string) ([]Record, error) {
	query, err := l.query("list-prefs")
	if err != nil {
		return nil, err
	}

	var records []Record
	if err = l.Handle.SelectContext(ctx, &records, query, profile); err != nil {
		return nil, DBError{DBName: l.Name, Err: err}
	}
	return records, nil
}

// Store returns the profile scoped prefs.Store of the ledger
func (l *Ledger) Store(profile string) *ProfileStore {
	return &ProfileStore{ledger: l, profile: profile}
}

// ProfileStore is a prefs.Store over the recorded values of one profile.
// Writes are tagged with the run they belong to, if any.
type ProfileStore struct {
	ledger  *Ledger
	profile string
	run     *Run
}

var _ prefs.Store = (*ProfileStore)(nil)

// WithRun returns a copy of the store tagging writes with run
func (s *ProfileStore) WithRun(run *Run) *ProfileStore {
	return &ProfileStore{ledger: s.ledger, profile: s.profile, run: run}
}

func (s *ProfileStore) Get(name string) (prefs.Value, error) {
	query, err := s.ledger.query("get-pref")
	if err != nil {
		return prefs.Value{}, err
	}

	var rec Record
	err = s.ledger.Handle.Get(&rec, query, s.profile, name)
	if errors.Is(err, sql.ErrNoRows) {
		return prefs.Value{}, prefs.ErrPrefNotFound
	}
	if err != nil {
		return prefs.Value{}, DBError{DBName: s.ledger.Name, Err: err}
	}

	v, err := rec.Value()
	if err != nil {
		return prefs.Value{}, DBError{DBName: s.ledger.Name, Err: fmt.Errorf("corrupt record %s: %w", name, err)}
	}
	return v, nil
}

func (s *ProfileStore) Set(name string, v prefs.Value) error {
	if !v.IsValid() {
		return prefs.ErrInvalidValue
	}

	var runID string
	if s.run != nil {
		runID = s.run.ID.String()
	}

	_, err := s.ledger.dotx.Exec(s.ledger.Handle, "upsert-pref",
		s.profile,
		name,
		v.Kind().String(),
		v.Literal(),
		checksum(v),
		time.Now().Unix(),
		runID,
	)
	if err != nil {
		return DBError{DBName: s.ledger.Name, Err: err}
	}
	return nil
}
