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

package prefs

import (
	"errors"
)

// ErrorFunc decides what happens when the store rejects an override.
// Returning nil continues with the next override, anything else aborts the
// pass and is returned to the caller.
type ErrorFunc func(o Override, err *ApplyError) error

// Apply writes every override of set into store in declaration order. It
// stops at the first rejected write and returns its *ApplyError.
func Apply(store Store, set *OverrideSet) error {
	return ApplyEach(store, set, func(_ Override, err *ApplyError) error {
		return err
	})
}

// ApplyAll writes every override, continuing past rejected writes. The
// returned error joins all *ApplyError values, nil if none.
func ApplyAll(store Store, set *OverrideSet) error {
	var errs []error
	err := ApplyEach(store, set, func(_ Override, err *ApplyError) error {
		errs = append(errs, err)
		return nil
	})
	if err != nil {
		return err
	}
	return errors.Join(errs...)
}

// ApplyEach writes every override and hands each rejected write to onErr.
// A nil onErr continues on every error.
func ApplyEach(store Store, set *OverrideSet, onErr ErrorFunc) error {
	applied := 0
	for _, o := range set.overrides {
		err := store.Set(o.Name, o.Value)
		if err == nil {
			applied++
			log.Debugf("set %s = %s", o.Name, o.Value.Literal())
			continue
		}

		aerr := &ApplyError{Name: o.Name, Value: o.Value, Err: err}
		log.Warn("store rejected override", "pref", o.Name, "err", err)
		if onErr == nil {
			continue
		}
		if err := onErr(o, aerr); err != nil {
			log.Debugf("apply aborted after %d/%d overrides", applied, set.Len())
			return err
		}
	}

	log.Debugf("applied %d/%d overrides", applied, set.Len())
	return nil
}

type ChangeKind uint8

const (
	Added ChangeKind = iota
	Modified
)

func (k ChangeKind) String() string {
	if k == Added {
		return "added"
	}
	return "modified"
}

// Change describes the effect an override would have on a store.
type Change struct {
	Kind     ChangeKind
	Name     string
	Old, New Value
}

// Diff lists the overrides of set that would change store, in declaration
// order. Overrides already in effect are omitted. Diff does not write.
func Diff(store Getter, set *OverrideSet) ([]Change, error) {
	var changes []Change
	for _, o := range set.overrides {
		cur, err := store.Get(o.Name)
		switch {
		case errors.Is(err, ErrPrefNotFound):
			changes = append(changes, Change{Kind: Added, Name: o.Name, New: o.Value})
		case err != nil:
			return nil, err
		case cur != o.Value:
			changes = append(changes, Change{Kind: Modified, Name: o.Name, Old: cur, New: o.Value})
		}
	}
	return changes, nil
}
