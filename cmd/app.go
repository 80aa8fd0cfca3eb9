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
	"context"
	"errors"

	"github.com/urfave/cli/v3"

	"github.com/blob42/mozprefs/internal/database"
	"github.com/blob42/mozprefs/pkg/build"
	"github.com/blob42/mozprefs/pkg/config"
	"github.com/blob42/mozprefs/pkg/logging"
)

// NewApp returns the mozprefs root command
func NewApp() *cli.Command {
	app := &cli.Command{
		Name:                  "mozprefs",
		Usage:                 "apply user_pref override files to Firefox profiles",
		Version:               build.Version(),
		Suggest:               true,
		EnableShellCompletion: true,
	}

	app.Flags = append(app.Flags, MainFlags...)
	app.Flags = append(app.Flags, config.SetupGlobalFlags()...)

	app.Before = func(ctx context.Context, c *cli.Command) (context.Context, error) {
		// The order here is important
		//
		// 1. load the file config
		// 2. cli flags override config file values
		// 3. modules run their config hooks once the config is ready
		if err := config.Init(c.String("config")); err != nil {
			return ctx, err
		}
		if err := config.ApplyGlobalFlags(ctx, c); err != nil {
			return ctx, err
		}
		if c.IsSet("db") {
			database.Conf.Path = DBPath
		}

		if c.Writer != nil {
			setupColors(c.Writer)
		}

		return ctx, config.RunConfHooks(ctx, c)
	}

	app.Commands = []*cli.Command{
		ApplyCmd,
		CheckCmd,
		ShowCmd,
		DiffCmd,
		WatchCmd,
		HistoryCmd,
		ProfileCmds,
		ConfigCmds,
	}

	return app
}

// IsHelpQuit reports errors that end the program without failure
func IsHelpQuit(err error) bool {
	return errors.Is(err, logging.ErrHelpQuit)
}
