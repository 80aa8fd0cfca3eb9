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
	"errors"
	"fmt"
	"maps"
	"slices"
	"strings"

	"github.com/jmoiron/sqlx"
	_ "github.com/mattn/go-sqlite3"

	"github.com/blob42/mozprefs/pkg/logging"
)

var log = logging.GetLogger("DB")

const (
	DriverDefault = "sqlite3"

	DBTypeFileDSN     = "file:%s"
	DBTypeInMemoryDSN = "file:%s?mode=memory&cache=shared"
)

var (
	ErrNotInitialized = errors.New("database not initialized")
)

// Extra DSN options appended to the connection string
type DsnOptions map[string]string

// DB encapsulates an sqlx.DB handle. All interactions with the ledger
// database go through a DB object.
type DB struct {
	Name   string
	Path   string
	Handle *sqlx.DB
}

type DBError struct {
	// Database object where error occured
	DBName string

	// Error that occured
	Err error
}

func (e DBError) Error() string {
	return fmt.Sprintf("<%s>: %s", e.DBName, e.Err)
}

func (e DBError) Unwrap() error {
	return e.Err
}

// NewDB builds the DSN of a database. The file path is used in the DSN
// format, or the name when path is empty.
func NewDB(name string, path string, format string, opts ...DsnOptions) *DB {
	target := path
	if target == "" {
		target = name
	}
	dsn := fmt.Sprintf(format, target)

	for _, o := range opts {
		if len(o) == 0 {
			continue
		}
		var params []string
		for _, k := range slices.Sorted(maps.Keys(o)) {
			params = append(params, k+"="+o[k])
		}
		sep := "?"
		if strings.Contains(dsn, "?") {
			sep = "&"
		}
		dsn += sep + strings.Join(params, "&")
	}

	return &DB{
		Name: name,
		Path: dsn,
	}
}

// Init opens the connection. SQLite allows a single writer so the pool is
// limited to one connection, which also keeps shared memory databases alive
// for the lifetime of the handle.
func (db *DB) Init() (*DB, error) {
	if db.Handle != nil {
		log.Warnf("%s: already initialized", db.Name)
		return db, nil
	}

	handle, err := sqlx.Open(DriverDefault, db.Path)
	if err != nil {
		return nil, DBError{DBName: db.Name, Err: err}
	}
	handle.SetMaxOpenConns(1)

	if err = handle.Ping(); err != nil {
		handle.Close()
		return nil, DBError{DBName: db.Name, Err: err}
	}

	log.Debugf("<%s> opened at <%s>", db.Name, db.Path)
	db.Handle = handle
	return db, nil
}

func (db *DB) Close() error {
	if db.Handle == nil {
		return nil
	}
	log.Debugf("closing DB <%s>", db.Name)
	err := db.Handle.Close()
	db.Handle = nil
	return err
}
