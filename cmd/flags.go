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
	altsrc "github.com/urfave/cli-altsrc/v3"
	"github.com/urfave/cli-altsrc/v3/toml"
	"github.com/urfave/cli/v3"

	"github.com/blob42/mozprefs/internal/database"
	"github.com/blob42/mozprefs/internal/utils"
	"github.com/blob42/mozprefs/pkg/config"
	"github.com/blob42/mozprefs/pkg/logging"
)

const (
	OptBrowser = "browser"
	OptProfile = "profile"
)

// DBPath is the ledger path, from --db or the [database] table
var DBPath string

var MainFlags = []cli.Flag{
	logging.DebugFlag,
	logging.SilentFlag,
	&cli.StringFlag{
		Name:        "config",
		Aliases:     []string{"c"},
		Value:       config.DefaultConfPath(),
		Usage:       "config `path`",
		DefaultText: utils.Shorten(config.DefaultConfPath()),
		Destination: &config.ConfigFileFlag,
	},

	&cli.StringFlag{
		Name:        "db",
		Value:       database.DefaultDBPath(),
		DefaultText: utils.Shorten(database.DefaultDBPath()),
		Usage:       "`path` of the ledger database, empty to disable",
		Destination: &DBPath,
		Sources:     cli.NewValueSourceChain(toml.TOML("database.path", altsrc.NewStringPtrSourcer(&config.ConfigFileFlag))),
	},
}

var profileDirFlag = &cli.StringFlag{
	Name:    "profile-dir",
	Aliases: []string{"d"},
	Usage:   "profile `directory`, bypasses profiles.ini lookup",
}

var forceFlag = &cli.BoolFlag{
	Name:    "force",
	Aliases: []string{"f"},
	Usage:   "apply even if the browser is running or nothing changed",
}

func init() {
	config.RegisterGlobalOption(OptBrowser, "firefox")
	config.RegisterGlobalOption(OptProfile, "")
}
