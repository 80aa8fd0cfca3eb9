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

// Package apply runs override files against browser profiles: load, check
// the profile is not in use, write the profile's user.js and record the run
// in the ledger.
package apply

import (
	"context"
	"errors"
	"fmt"

	"github.com/blob42/mozprefs/internal/database"
	"github.com/blob42/mozprefs/pkg/browsers/mozilla"
	"github.com/blob42/mozprefs/pkg/logging"
	"github.com/blob42/mozprefs/pkg/prefs"
)

var log = logging.GetLogger("APPLY")

// Options of a single apply pass
type Options struct {
	// Override file to load
	Source string

	// Profile directory holding user.js
	ProfileDir string

	// Continue past overrides rejected by the profile
	Continue bool

	// Only compute the changes, write nothing to the profile
	DryRun bool

	// Apply even when the browser runs on the profile or nothing changed
	Force bool
}

// Result of an apply pass
type Result struct {
	Set     *prefs.OverrideSet
	Changes []prefs.Change
	Applied int
	Errors  []*prefs.ApplyError

	// Nothing to change and not forced
	Skipped bool

	// Ledger run, nil without ledger
	Run *database.Run
}

func (r *Result) Failed() int {
	return len(r.Errors)
}

// Applier applies override files. Ledger is optional.
type Applier struct {
	Ledger *database.Ledger
}

// counts accepted writes
type countStore struct {
	prefs.Store
	n int
}

func (c *countStore) Set(name string, v prefs.Value) error {
	if err := c.Store.Set(name, v); err != nil {
		return err
	}
	c.n++
	return nil
}

// Apply runs one pass. A malformed source fails before the profile is
// touched. Without Continue the pass stops at the first rejected override
// and the returned error is its *prefs.ApplyError. Overrides written before
// the failure stay written.
func (a *Applier) Apply(ctx context.Context, opts Options) (*Result, error) {
	set, err := prefs.LoadFile(opts.Source)
	if err != nil {
		return nil, err
	}
	res := &Result{Set: set}

	for _, dup := range set.Duplicates() {
		log.Warnf("%s:%d: %s overridden by line %d", opts.Source, dup.Dropped.Line, dup.Dropped.Name, dup.Kept.Line)
	}

	if !opts.Force && !opts.DryRun {
		if err = mozilla.CheckProfileLock(opts.ProfileDir); err != nil {
			return nil, err
		}
	}

	userJS, err := mozilla.OpenProfileUserJS(opts.ProfileDir)
	if err != nil {
		return nil, err
	}

	if res.Changes, err = prefs.Diff(userJS, set); err != nil {
		return nil, err
	}

	if len(res.Changes) == 0 && !opts.Force {
		log.Infof("%s: %d overrides already in effect", opts.ProfileDir, set.Len())
		res.Skipped = true
		return res, nil
	}

	var store prefs.Store = userJS
	if a.Ledger != nil {
		res.Run, err = a.Ledger.BeginRun(ctx, opts.ProfileDir, opts.Source, set.Fingerprint(), set.Len(), opts.DryRun)
		if err != nil {
			return nil, err
		}
		if !opts.DryRun {
			store = prefs.Tee(userJS, a.Ledger.Store(opts.ProfileDir).WithRun(res.Run))
		}
	}

	if opts.DryRun {
		return res, a.finish(ctx, res)
	}

	counter := &countStore{Store: store}
	applyErr := prefs.ApplyEach(counter, set, func(_ prefs.Override, err *prefs.ApplyError) error {
		res.Errors = append(res.Errors, err)
		if opts.Continue {
			return nil
		}
		return err
	})
	res.Applied = counter.n

	if err = userJS.Save(); err != nil {
		return res, err
	}
	if err = a.finish(ctx, res); err != nil {
		return res, err
	}

	if applyErr != nil {
		return res, applyErr
	}
	if res.Failed() > 0 {
		errs := make([]error, 0, res.Failed())
		for _, e := range res.Errors {
			errs = append(errs, e)
		}
		return res, fmt.Errorf("%d overrides rejected: %w", res.Failed(), errors.Join(errs...))
	}

	log.Infof("applied %d overrides to %s", res.Applied, userJS.Path())
	return res, nil
}

func (a *Applier) finish(ctx context.Context, res *Result) error {
	if a.Ledger == nil || res.Run == nil {
		return nil
	}
	return a.Ledger.FinishRun(ctx, res.Run, res.Applied, res.Failed())
}
