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
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mustLoad(t *testing.T, src string) *OverrideSet {
	t.Helper()
	set, err := Load(strings.NewReader(src))
	require.NoError(t, err)
	return set
}

func TestApplySetsValues(t *testing.T) {
	set, err := LoadFile(TestOverridesFile)
	require.NoError(t, err)

	store := NewMemStore()
	require.NoError(t, store.Set("network.trr.mode", Int(0)))
	require.NoError(t, store.Set("unrelated.pref", String("kept")))

	require.NoError(t, Apply(store, set))

	for _, o := range set.All() {
		got, err := store.Get(o.Name)
		require.NoError(t, err)
		assert.Equal(t, o.Value, got, o.Name)
	}

	v, err := store.Get("network.trr.mode")
	require.NoError(t, err)
	assert.Equal(t, Int(3), v)

	v, err = store.Get("signon.rememberSignons")
	require.NoError(t, err)
	assert.Equal(t, Bool(false), v)

	v, err = store.Get("unrelated.pref")
	require.NoError(t, err)
	assert.Equal(t, String("kept"), v)
}

func TestApplyIdempotent(t *testing.T) {
	set, err := LoadFile(TestOverridesFile)
	require.NoError(t, err)

	once := NewMemStore()
	require.NoError(t, Apply(once, set))

	twice := NewMemStore()
	require.NoError(t, Apply(twice, set))
	require.NoError(t, Apply(twice, set))

	assert.Equal(t, once.Snapshot(), twice.Snapshot())
}

func TestApplyDuplicateLastWins(t *testing.T) {
	set := mustLoad(t, `user_pref("dup", 1);
user_pref("dup", 2);`)

	store := NewMemStore()
	require.NoError(t, Apply(store, set))

	v, err := store.Get("dup")
	require.NoError(t, err)
	assert.Equal(t, Int(2), v)
}

func TestApplyMalformedAppliesNothing(t *testing.T) {
	store := NewMemStore()
	set, err := Load(strings.NewReader("user_pref(\"a\", 1);\nuser_pref(\"x\" true)\n"))
	require.Error(t, err)
	require.Nil(t, set)
	assert.Equal(t, 0, store.Len())
}

// recordStore rejects the names in reject and records the order of writes
type recordStore struct {
	*MemStore
	reject map[string]bool
	order  []string
}

func (r *recordStore) Set(name string, v Value) error {
	r.order = append(r.order, name)
	if r.reject[name] {
		return errors.New("read-only")
	}
	return r.MemStore.Set(name, v)
}

func TestApplyErrors(t *testing.T) {
	src := `user_pref("a", 1);
user_pref("locked", true);
user_pref("b", 2);
user_pref("unknown", "x");
user_pref("c", 3);`

	t.Run("AbortOnFirst", func(t *testing.T) {
		set := mustLoad(t, src)
		store := NewMemStore()
		store.Lock("locked")

		err := Apply(store, set)
		var aerr *ApplyError
		require.ErrorAs(t, err, &aerr)
		assert.Equal(t, "locked", aerr.Name)
		assert.ErrorIs(t, err, ErrPrefLocked)
		assert.Contains(t, err.Error(), "locked")

		_, err = store.Get("a")
		assert.NoError(t, err)
		_, err = store.Get("b")
		assert.ErrorIs(t, err, ErrPrefNotFound)
	})

	t.Run("ContinueAll", func(t *testing.T) {
		set := mustLoad(t, src)
		store := NewStrictMemStore(map[string]Value{
			"a":      Int(0),
			"locked": Bool(false),
			"b":      Int(0),
			"c":      Int(0),
		})
		store.Lock("locked")

		err := ApplyAll(store, set)
		require.Error(t, err)
		assert.ErrorIs(t, err, ErrPrefLocked)
		assert.ErrorIs(t, err, ErrUnknownPref)

		for name, want := range map[string]Value{"a": Int(1), "b": Int(2), "c": Int(3)} {
			got, err := store.Get(name)
			require.NoError(t, err)
			assert.Equal(t, want, got)
		}
		assert.Equal(t, Bool(false), store.Snapshot()["locked"])
	})

	t.Run("CallerPolicy", func(t *testing.T) {
		set := mustLoad(t, src)
		store := &recordStore{
			MemStore: NewMemStore(),
			reject:   map[string]bool{"locked": true, "unknown": true},
		}

		var seen []string
		stop := errors.New("stop")
		err := ApplyEach(store, set, func(o Override, aerr *ApplyError) error {
			seen = append(seen, aerr.Name)
			if o.Name == "unknown" {
				return stop
			}
			return nil
		})
		assert.ErrorIs(t, err, stop)
		assert.Equal(t, []string{"locked", "unknown"}, seen)
		assert.Equal(t, []string{"a", "locked", "b", "unknown"}, store.order)
	})

	t.Run("NilPolicyContinues", func(t *testing.T) {
		set := mustLoad(t, src)
		store := &recordStore{MemStore: NewMemStore(), reject: map[string]bool{"a": true}}
		assert.NoError(t, ApplyEach(store, set, nil))
		assert.Equal(t, set.Names(), store.order)
	})
}

func TestDiff(t *testing.T) {
	set := mustLoad(t, `user_pref("same", true);
user_pref("changed", 2);
user_pref("new", "x");`)

	store := NewMemStore()
	require.NoError(t, store.Set("same", Bool(true)))
	require.NoError(t, store.Set("changed", String("2")))

	changes, err := Diff(store, set)
	require.NoError(t, err)
	require.Len(t, changes, 2)

	assert.Equal(t, Change{Kind: Modified, Name: "changed", Old: String("2"), New: Int(2)}, changes[0])
	assert.Equal(t, Change{Kind: Added, Name: "new", New: String("x")}, changes[1])

	require.NoError(t, Apply(store, set))
	changes, err = Diff(store, set)
	require.NoError(t, err)
	assert.Empty(t, changes)
}

func TestTee(t *testing.T) {
	primary := NewMemStore()
	primary.Lock("locked")
	mirror := NewMemStore()

	store := Tee(primary, mirror)
	set := mustLoad(t, "user_pref(\"a\", 1);\nuser_pref(\"locked\", 2);")

	err := ApplyAll(store, set)
	assert.ErrorIs(t, err, ErrPrefLocked)

	assert.Equal(t, map[string]Value{"a": Int(1)}, mirror.Snapshot())
	v, err := store.Get("a")
	require.NoError(t, err)
	assert.Equal(t, Int(1), v)
}
