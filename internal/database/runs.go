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
	"errors"
	"fmt"
	"time"

	"github.com/gofrs/uuid"
)

// Run is one load-then-apply pass of an override file on a profile
type Run struct {
	ID          uuid.UUID `db:"id"`
	Profile     string    `db:"profile"`
	Source      string    `db:"source"`
	Fingerprint string    `db:"fingerprint"`
	Total       int       `db:"total"`
	Applied     int       `db:"applied"`
	Failed      int       `db:"failed"`
	DryRun      bool      `db:"dry_run"`
	Started     int64     `db:"started"`
	Finished    int64     `db:"finished"`
}

func (r Run) StartedAt() time.Time {
	return time.Unix(r.Started, 0)
}

func (r Run) Done() bool {
	return r.Finished > 0
}

func (r Run) Duration() time.Duration {
	if !r.Done() {
		return 0
	}
	return time.Unix(r.Finished, 0).Sub(r.StartedAt())
}

// FormatFingerprint renders an override set fingerprint as stored in runs
func FormatFingerprint(fp uint64) string {
	return fmt.Sprintf("%016x", fp)
}

// BeginRun records the start of a run and returns it with its new ID.
func (l *Ledger) BeginRun(ctx context.Context, profile, source string, fingerprint uint64, total int, dryRun bool) (*Run, error) {
	id, err := uuid.NewV4()
	if err != nil {
		return nil, err
	}

	run := &Run{
		ID:          id,
		Profile:     profile,
		Source:      source,
		Fingerprint: FormatFingerprint(fingerprint),
		Total:       total,
		DryRun:      dryRun,
		Started:     time.Now().Unix(),
	}

	query, err := l.query("insert-run")
	if err != nil {
		return nil, err
	}

	_, err = l.Handle.ExecContext(ctx, query,
		run.ID.String(),
		run.Profile,
		run.Source,
		run.Fingerprint,
		run.Total,
		run.DryRun,
		run.Started,
	)
	if err != nil {
		return nil, DBError{DBName: l.Name, Err: err}
	}

	log.Debugf("run %s started on %s", run.ID, profile)
	return run, nil
}

// FinishRun records the outcome of run
func (l *Ledger) FinishRun(ctx context.Context, run *Run, applied, failed int) error {
	run.Applied = applied
	run.Failed = failed
	run.Finished = max(time.Now().Unix(), run.Started)

	query, err := l.query("finish-run")
	if err != nil {
		return err
	}

	_, err = l.Handle.ExecContext(ctx, query,
		run.Applied,
		run.Failed,
		run.Finished,
		run.ID.String(),
	)
	if err != nil {
		return DBError{DBName: l.Name, Err: err}
	}
	return nil
}

// Runs lists the most recent runs first, for all profiles when profile is
// empty. A limit <= 0 returns every run.
func (l *Ledger) Runs(ctx context.Context, profile string, limit int) ([]Run, error) {
	if limit <= 0 {
		limit = -1
	}

	query, err := l.query("list-runs")
	if err != nil {
		return nil, err
	}

	var runs []Run
	err = l.Handle.SelectContext(ctx, &runs, query, profile, profile, limit)
	if err != nil {
		return nil, DBError{DBName: l.Name, Err: err}
	}
	return runs, nil
}

// LastRun returns the latest finished run of profile that applied every
// override, ErrNoRun if there is none.
func (l *Ledger) LastRun(ctx context.Context, profile string) (*Run, error) {
	query, err := l.query("last-run")
	if err != nil {
		return nil, err
	}

	var run Run
	err = l.Handle.GetContext(ctx, &run, query, profile)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNoRun
	}
	if err != nil {
		return nil, DBError{DBName: l.Name, Err: err}
	}
	return &run, nil
}
