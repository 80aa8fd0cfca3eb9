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

package apply

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/blob42/mozprefs/internal/database"
	"github.com/blob42/mozprefs/pkg/browsers/mozilla"
	"github.com/blob42/mozprefs/pkg/prefs"
	"github.com/blob42/mozprefs/pkg/watch"
)

const testSource = "../../pkg/prefs/testdata/user-overrides.js"

func testApplier(t *testing.T) *Applier {
	t.Helper()
	name := "test_" + strings.ReplaceAll(t.Name(), "/", "_")
	l, err := database.OpenMemoryLedger(name)
	require.NoError(t, err)
	t.Cleanup(func() { l.Close() })
	return &Applier{Ledger: l}
}

func TestApplyProfile(t *testing.T) {
	ctx := context.Background()
	a := testApplier(t)
	dir := t.TempDir()
	opts := Options{Source: testSource, ProfileDir: dir}

	res, err := a.Apply(ctx, opts)
	require.NoError(t, err)
	assert.False(t, res.Skipped)
	assert.Equal(t, 44, res.Applied)
	assert.Len(t, res.Changes, 44)
	assert.Equal(t, 0, res.Failed())
	require.NotNil(t, res.Run)

	written, err := prefs.LoadFile(filepath.Join(dir, mozilla.UserJSFile))
	require.NoError(t, err)
	assert.Equal(t, res.Set.Fingerprint(), written.Fingerprint())

	records, err := a.Ledger.Prefs(ctx, dir)
	require.NoError(t, err)
	assert.Len(t, records, 44)

	t.Run("unchanged is skipped", func(t *testing.T) {
		res, err := a.Apply(ctx, opts)
		require.NoError(t, err)
		assert.True(t, res.Skipped)
		assert.Nil(t, res.Run)

		runs, err := a.Ledger.Runs(ctx, dir, 0)
		require.NoError(t, err)
		assert.Len(t, runs, 1)
	})

	t.Run("forced", func(t *testing.T) {
		forced := opts
		forced.Force = true
		res, err := a.Apply(ctx, forced)
		require.NoError(t, err)
		assert.False(t, res.Skipped)
		assert.Empty(t, res.Changes)
		assert.Equal(t, 44, res.Applied)

		last, err := a.Ledger.LastRun(ctx, dir)
		require.NoError(t, err)
		assert.Equal(t, res.Run.ID, last.ID)
	})
}

func TestApplyKeepsUserLines(t *testing.T) {
	dir := t.TempDir()
	userJS := filepath.Join(dir, mozilla.UserJSFile)
	require.NoError(t, os.WriteFile(userJS, []byte("// mine\nuser_pref(\"network.trr.mode\", 2);\nuser_pref(\"my.own\", true);\n"), 0644))

	res, err := (&Applier{}).Apply(context.Background(), Options{Source: testSource, ProfileDir: dir})
	require.NoError(t, err)
	assert.Nil(t, res.Run)

	var modified []string
	for _, c := range res.Changes {
		if c.Kind == prefs.Modified {
			modified = append(modified, c.Name)
		}
	}
	assert.Equal(t, []string{"network.trr.mode"}, modified)

	data, err := os.ReadFile(userJS)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(string(data), "// mine\nuser_pref(\"network.trr.mode\", 3);\nuser_pref(\"my.own\", true);\n"))
}

func TestApplyDryRun(t *testing.T) {
	ctx := context.Background()
	a := testApplier(t)
	dir := t.TempDir()

	res, err := a.Apply(ctx, Options{Source: testSource, ProfileDir: dir, DryRun: true})
	require.NoError(t, err)
	assert.Len(t, res.Changes, 44)
	assert.Equal(t, 0, res.Applied)

	_, err = os.Stat(filepath.Join(dir, mozilla.UserJSFile))
	assert.ErrorIs(t, err, os.ErrNotExist)

	runs, err := a.Ledger.Runs(ctx, dir, 0)
	require.NoError(t, err)
	require.Len(t, runs, 1)
	assert.True(t, runs[0].DryRun)

	records, err := a.Ledger.Prefs(ctx, dir)
	require.NoError(t, err)
	assert.Empty(t, records)
}

func TestApplyMalformed(t *testing.T) {
	dir := t.TempDir()
	_, err := (&Applier{}).Apply(context.Background(), Options{
		Source:     "../../pkg/prefs/testdata/malformed.js",
		ProfileDir: dir,
	})

	var perr *prefs.ParseError
	require.ErrorAs(t, err, &perr)
	assert.Equal(t, 3, perr.Line)

	_, err = os.Stat(filepath.Join(dir, mozilla.UserJSFile))
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestWatcher(t *testing.T) {
	src := filepath.Join(t.TempDir(), "overrides.js")
	require.NoError(t, os.WriteFile(src, []byte("user_pref(\"a\", 1);\n"), 0644))
	dir := t.TempDir()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	results := make(chan *Result, 4)
	w, err := NewWatcher(ctx, &Applier{}, Options{Source: src, ProfileDir: dir})
	require.NoError(t, err)
	w.OnResult = func(res *Result, err error) {
		assert.NoError(t, err)
		results <- res
	}

	done := make(chan error)
	go func() { done <- watch.Start(ctx, w, watch.WithInterval(20*time.Millisecond)) }()

	require.NoError(t, os.WriteFile(src, []byte("user_pref(\"a\", 2);\n"), 0644))

	select {
	case res := <-results:
		v, ok := res.Set.Get("a")
		require.True(t, ok)
		assert.Equal(t, prefs.Int(2), v)
	case <-time.After(3 * time.Second):
		t.Fatal("no apply after change")
	}

	u, err := mozilla.OpenProfileUserJS(dir)
	require.NoError(t, err)
	v, err := u.Get("a")
	require.NoError(t, err)
	assert.Equal(t, prefs.Int(2), v)

	cancel()
	assert.NoError(t, <-done)
}
