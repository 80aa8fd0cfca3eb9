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
	"fmt"
	"io"
	"os"

	"github.com/fatih/color"
	"github.com/mattn/go-isatty"
	"github.com/urfave/cli/v3"

	"github.com/blob42/mozprefs/internal/apply"
	"github.com/blob42/mozprefs/internal/database"
	"github.com/blob42/mozprefs/internal/utils"
	"github.com/blob42/mozprefs/pkg/browsers/mozilla"
	"github.com/blob42/mozprefs/pkg/config"
	"github.com/blob42/mozprefs/pkg/logging"
	"github.com/blob42/mozprefs/pkg/prefs"
)

var log = logging.GetLogger("CMD")

var (
	ErrMissingSource = cli.Exit("missing override file argument", 1)
)

var (
	green  = color.New(color.FgGreen).SprintFunc()
	yellow = color.New(color.FgYellow).SprintFunc()
	red    = color.New(color.FgRed).SprintFunc()
	bold   = color.New(color.Bold).SprintFunc()
	faint  = color.New(color.Faint).SprintFunc()
)

func out(cmd *cli.Command) io.Writer {
	return cmd.Root().Writer
}

// disable colors unless writing to a terminal
func setupColors(w io.Writer) {
	f, ok := w.(*os.File)
	if !ok || !(isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())) {
		color.NoColor = true
	}
}

func globalString(opt string) string {
	v, _ := config.GetGlobalOption(opt).(string)
	return v
}

func sourceArg(cmd *cli.Command) (string, error) {
	if cmd.NArg() < 1 {
		return "", ErrMissingSource
	}
	return cmd.Args().First(), nil
}

// resolveProfile returns the profile directory the command works on: the
// --profile-dir flag, or the configured profile of the configured browser,
// its default profile when none is set.
func resolveProfile(cmd *cli.Command) (string, error) {
	if dir := cmd.String(profileDirFlag.Name); dir != "" {
		return utils.ExpandPath(dir)
	}

	browser := globalString(OptBrowser)
	profile := globalString(OptProfile)
	log.Debug("resolving profile", "browser", browser, "profile", profile)

	pm := &mozilla.MozProfileManager{}
	dir, err := pm.GetProfilePath(browser, profile)
	if err != nil {
		return "", fmt.Errorf("%s profile: %w", browser, err)
	}
	return dir, nil
}

// openLedger returns nil when the ledger is disabled
func openLedger() (*database.Ledger, error) {
	if !apply.Conf.Ledger || database.Conf.Path == "" {
		log.Debug("ledger disabled")
		return nil, nil
	}
	return database.OpenLedger(database.Conf.Path)
}

func printChange(w io.Writer, c prefs.Change) {
	switch c.Kind {
	case prefs.Added:
		fmt.Fprintf(w, "%s %s = %s\n", green("+"), c.Name, c.New.Literal())
	case prefs.Modified:
		fmt.Fprintf(w, "%s %s: %s -> %s\n", yellow("~"), c.Name, faint(c.Old.Literal()), c.New.Literal())
	}
}

func printChanges(w io.Writer, changes []prefs.Change) {
	for _, c := range changes {
		printChange(w, c)
	}
}
