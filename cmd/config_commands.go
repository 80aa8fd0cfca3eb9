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
	"fmt"

	"github.com/kr/pretty"
	"github.com/urfave/cli/v3"

	"github.com/blob42/mozprefs/internal/utils"
	"github.com/blob42/mozprefs/pkg/config"
)

var ConfigCmds = &cli.Command{
	Name:  "config",
	Usage: "get/set config options",
	Commands: []*cli.Command{
		cfgPrintCmd,
		cfgInitCmd,
	},
}

var cfgPrintCmd = &cli.Command{
	Name:  "print",
	Usage: "print the current config",
	Action: func(_ context.Context, cmd *cli.Command) error {
		_, err := pretty.Fprintf(out(cmd), "%# v\n", config.GetAll())
		return err
	},
}

var cfgInitCmd = &cli.Command{
	Name:  "init",
	Usage: "write the current config to the config file",
	Flags: []cli.Flag{
		forceFlag,
	},
	Action: func(_ context.Context, cmd *cli.Command) error {
		path := config.ConfigFileFlag
		exists, err := config.ConfigExists(path)
		if err != nil {
			return err
		}
		if exists && !cmd.Bool(forceFlag.Name) {
			return cli.Exit(fmt.Sprintf("%s exists, use --force to overwrite", utils.Shorten(path)), 1)
		}

		if err = config.InitConfigFile(path); err != nil {
			return err
		}
		fmt.Fprintf(out(cmd), "config written to %s\n", utils.Shorten(path))
		return nil
	},
}
