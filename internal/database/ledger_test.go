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
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/blob42/mozprefs/pkg/prefs"
)

func TestNew(t *testing.T) {
	t.Run("MemPath", func(t *testing.T) {
		db := NewDB("cache", "", DBTypeInMemoryDSN)
		assert.Equal(t, "file:cache?mode=memory&cache=shared", db.Path)
	})

	t.Run("FilePath", func(t *testing.T) {
		db := NewDB("file_test", "/tmp/test/testdb.sqlite", DBTypeFileDSN)
		assert.Equal(t, "file:/tmp/test/testdb.sqlite", db.Path)
	})

	t.Run("FileCustomDsn", func(t *testing.T) {
		opts := DsnOptions{
			"foo":  "bar",
			"mode": "rw",
		}

		db := NewDB("file_dsn", "", DBTypeFileDSN, opts)
		assert.Equal(t, "file:file_dsn?foo=bar&mode=rw", db.Path)
	})

	t.Run("AppendOptions", func(t *testing.T) {
		opts := DsnOptions{
			"foo":  "bar",
			"mode": "rw",
		}

		db := NewDB("append_opts", "", DBTypeInMemoryDSN, opts)
		assert.Equal(t, "file:append_opts?mode=memory&cache=shared&foo=bar&mode=rw", db.Path)
	})
}

func memLedger(t *testing.T) *Ledger {
	t.Helper()
	name := "test_" + strings.ReplaceAll(t.Name(), "/", "_")
	l, err := OpenMemoryLedger(name)
	require.NoError(t, err)
	t.Cleanup(func() {
		assert.NoError(t, l.Close())
	})
	return l
}

func TestProfileStore(t *testing.T) {
	l := memLedger(t)
	store := l.Store("default")

	_, err := store.Get("network.trr.mode")
	assert.ErrorIs(t, err, prefs.ErrPrefNotFound)

	require.NoError(t, store.Set("network.trr.mode", prefs.Int(3)))
	require.NoError(t, store.Set("browser.startup.homepage", prefs.String(`say "hi"`)))
	require.NoError(t, store.Set("signon.rememberSignons", prefs.Bool(false)))

	v, err := store.Get("network.trr.mode")
	require.NoError(t, err)
	assert.Equal(t, prefs.Int(3), v)

	v, err = store.Get("browser.startup.homepage")
	require.NoError(t, err)
	assert.Equal(t, prefs.String(`say "hi"`), v)

	// overwrite with another kind
	require.NoError(t, store.Set("network.trr.mode", prefs.String("3")))
	v, err = store.Get("network.trr.mode")
	require.NoError(t, err)
	assert.Equal(t, prefs.String("3"), v)

	// profiles are isolated
	_, err = l.Store("work").Get("network.trr.mode")
	assert.ErrorIs(t, err, prefs.ErrPrefNotFound)

	assert.ErrorIs(t, store.Set("x", prefs.Value{}), prefs.ErrInvalidValue)

	records, err := l.Prefs(context.Background(), "default")
	require.NoError(t, err)
	require.Len(t, records, 3)
	assert.Equal(t, "browser.startup.homepage", records[0].Name)
	assert.Equal(t, "string", records[1].Kind)
	assert.Len(t, records[2].XHSum, 16)
}

func TestApplyMirroredToLedger(t *testing.T) {
	ctx := context.Background()
	l := memLedger(t)

	set, err := prefs.LoadFile("../../pkg/prefs/testdata/user-overrides.js")
	require.NoError(t, err)

	run, err := l.BeginRun(ctx, "default", "user-overrides.js", set.Fingerprint(), set.Len(), false)
	require.NoError(t, err)
	assert.False(t, run.ID.IsNil())

	mem := prefs.NewMemStore()
	require.NoError(t, prefs.Apply(prefs.Tee(mem, l.Store("default").WithRun(run)), set))
	require.NoError(t, l.FinishRun(ctx, run, set.Len(), 0))

	records, err := l.Prefs(ctx, "default")
	require.NoError(t, err)
	assert.Len(t, records, set.Len())
	for _, r := range records {
		assert.Equal(t, run.ID.String(), r.RunID)
		v, err := r.Value()
		require.NoError(t, err)
		want, ok := set.Get(r.Name)
		require.True(t, ok)
		assert.Equal(t, want, v, r.Name)
	}

	last, err := l.LastRun(ctx, "default")
	require.NoError(t, err)
	assert.Equal(t, run.ID, last.ID)
	assert.Equal(t, FormatFingerprint(set.Fingerprint()), last.Fingerprint)
	assert.Equal(t, set.Len(), last.Applied)
	assert.True(t, last.Done())
}

func TestRuns(t *testing.T) {
	ctx := context.Background()
	l := memLedger(t)

	_, err := l.LastRun(ctx, "default")
	assert.ErrorIs(t, err, ErrNoRun)

	ok, err := l.BeginRun(ctx, "default", "a.js", 1, 2, false)
	require.NoError(t, err)
	require.NoError(t, l.FinishRun(ctx, ok, 2, 0))

	failed, err := l.BeginRun(ctx, "default", "b.js", 2, 2, false)
	require.NoError(t, err)
	require.NoError(t, l.FinishRun(ctx, failed, 1, 1))

	dry, err := l.BeginRun(ctx, "default", "c.js", 3, 1, true)
	require.NoError(t, err)
	require.NoError(t, l.FinishRun(ctx, dry, 0, 0))

	other, err := l.BeginRun(ctx, "work", "a.js", 1, 2, false)
	require.NoError(t, err)

	runs, err := l.Runs(ctx, "", 0)
	require.NoError(t, err)
	require.Len(t, runs, 4)
	assert.Equal(t, other.ID, runs[0].ID)
	assert.False(t, runs[0].Done())
	assert.Equal(t, time.Duration(0), runs[0].Duration())

	runs, err = l.Runs(ctx, "default", 2)
	require.NoError(t, err)
	require.Len(t, runs, 2)
	assert.Equal(t, dry.ID, runs[0].ID)
	assert.True(t, runs[0].DryRun)
	assert.Equal(t, failed.ID, runs[1].ID)

	last, err := l.LastRun(ctx, "default")
	require.NoError(t, err)
	assert.Equal(t, ok.ID, last.ID)
	assert.Equal(t, "a.js", last.Source)

	_, err = l.LastRun(ctx, "work")
	assert.ErrorIs(t, err, ErrNoRun)
}

func TestOpenLedgerFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sub", DBFileName)

	l, err := OpenLedger(path)
	require.NoError(t, err)
	require.NoError(t, l.Store("p").Set("a", prefs.Int(1)))
	require.NoError(t, l.Close())

	l, err = OpenLedger(path)
	require.NoError(t, err)
	defer l.Close()

	v, err := l.Store("p").Get("a")
	require.NoError(t, err)
	assert.Equal(t, prefs.Int(1), v)

	var version int
	require.NoError(t, l.Handle.Get(&version, "PRAGMA user_version"))
	assert.Equal(t, SchemaVersion, version)
}

func TestSchemaTooNew(t *testing.T) {
	path := filepath.Join(t.TempDir(), DBFileName)
	db, err := NewDB("raw", path, DBTypeFileDSN).Init()
	require.NoError(t, err)
	_, err = db.Handle.Exec("PRAGMA user_version = 99")
	require.NoError(t, err)
	require.NoError(t, db.Close())

	_, err = OpenLedger(path)
	assert.ErrorIs(t, err, ErrSchemaVersion)
	var dberr DBError
	assert.ErrorAs(t, err, &dberr)
}
