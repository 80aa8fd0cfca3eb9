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

package cmd

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/urfave/cli/v3"

	"github.com/blob42/mozprefs/pkg/browsers/mozilla"
)

const (
	testSource  = "../pkg/prefs/testdata/user-overrides.js"
	testProfile = "../pkg/browsers/mozilla/testdata/path.default"
)

func runApp(t *testing.T, stateDir string, args ...string) (string, error) {
	t.Helper()
	return runAppContext(context.Background(), t, stateDir, args...)
}

func runAppContext(ctx context.Context, t *testing.T, stateDir string, args ...string) (string, error) {
	t.Helper()
	var buf bytes.Buffer

	app := NewApp()
	app.Writer = &buf
	app.ErrWriter = &buf
	app.ExitErrHandler = func(context.Context, *cli.Command, error) {}

	base := []string{
		"mozprefs",
		"--config", filepath.Join(stateDir, "config.toml"),
		"--db", filepath.Join(stateDir, "ledger.sqlite"),
	}
	err := app.Run(ctx, append(base, args...))
	return buf.String(), err
}

func TestCheckCmd(t *testing.T) {
	output, err := runApp(t, t.TempDir(), "check", testSource)
	require.NoError(t, err)
	assert.Contains(t, output, "44 overrides, 0 duplicates, fingerprint ")

	_, err = runApp(t, t.TempDir(), "check", "../pkg/prefs/testdata/malformed.js")
	assert.ErrorContains(t, err, "malformed.js:3")

	_, err = runApp(t, t.TempDir(), "check")
	assert.Error(t, err)
}

func TestShowCmd(t *testing.T) {
	output, err := runApp(t, t.TempDir(), "show", "--search", "trrmode", testSource)
	require.NoError(t, err)
	assert.Contains(t, output, `user_pref("network.trr.mode", 3);`)
	assert.NotContains(t, output, "signon")

	output, err = runApp(t, t.TempDir(), "show", "--tree", testSource)
	require.NoError(t, err)
	assert.Contains(t, output, "network")
	assert.Contains(t, output, "mode = 3")
}

func TestApplyAndHistoryCmd(t *testing.T) {
	state := t.TempDir()
	profile := t.TempDir()

	output, err := runApp(t, state, "apply", "--profile-dir", profile, testSource)
	require.NoError(t, err)
	assert.Contains(t, output, "+ network.trr.mode = 3")
	assert.Contains(t, output, "44 applied, 0 rejected")

	u, err := mozilla.OpenProfileUserJS(profile)
	require.NoError(t, err)
	_, err = u.Get("signon.rememberSignons")
	assert.NoError(t, err)

	output, err = runApp(t, state, "apply", "--profile-dir", profile, testSource)
	require.NoError(t, err)
	assert.Contains(t, output, "44 overrides already in effect")

	output, err = runApp(t, state, "history", "--profile-dir", profile)
	require.NoError(t, err)
	assert.Contains(t, output, "44/44")
	assert.Contains(t, output, "ok")
}

func TestApplyDryRunCmd(t *testing.T) {
	profile := t.TempDir()

	output, err := runApp(t, t.TempDir(), "apply", "-n", "--profile-dir", profile, testSource)
	require.NoError(t, err)
	assert.Contains(t, output, "44 changes (dry run)")

	_, err = os.Stat(filepath.Join(profile, mozilla.UserJSFile))
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestDiffCmd(t *testing.T) {
	output, err := runApp(t, t.TempDir(), "diff", "--profile-dir", testProfile, testSource)
	require.NoError(t, err)
	assert.Contains(t, output, "~ network.trr.mode: 2 -> 3")
	assert.NotContains(t, output, "signon.rememberSignons")
	assert.Contains(t, output, "43 of 44 overrides differ")
}

func TestConfigCmds(t *testing.T) {
	state := t.TempDir()

	_, err := runApp(t, state, "config", "init")
	assert.Error(t, err, "config file is created on startup")

	output, err := runApp(t, state, "config", "init", "--force")
	require.NoError(t, err)
	assert.Contains(t, output, "config written to")

	data, err := os.ReadFile(filepath.Join(state, "config.toml"))
	require.NoError(t, err)
	assert.Contains(t, string(data), "[apply]")
	assert.Contains(t, string(data), "[database]")

	output, err = runApp(t, state, "config", "print")
	require.NoError(t, err)
	assert.Contains(t, output, "apply")
}

func TestWatchCmdReportsFirstPassError(t *testing.T) {
	source := filepath.Join(t.TempDir(), "missing.js")

	ctx, cancel := context.WithTimeout(context.Background(), 300*time.Millisecond)
	defer cancel()

	output, err := runAppContext(ctx, t, t.TempDir(),
		"watch", "--profile-dir", t.TempDir(), source)
	require.NoError(t, err)
	assert.Contains(t, output, "! open "+source)
	assert.Contains(t, output, "watching "+source)
}
