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

// Main command line entry point for mozprefs
package main

import (
	"context"
	"fmt"
	"os"

	"github.com/urfave/cli/v3"

	"github.com/blob42/mozprefs/cmd"
	"github.com/blob42/mozprefs/pkg/logging"
)

var (
	log = logging.GetLogger("MAIN")
)

func main() {
	app := cmd.NewApp()
	app.ExitErrHandler = func(ctx context.Context, _ *cli.Command, err error) {
		if err == nil || cmd.IsHelpQuit(err) {
			os.Exit(0)
		}
		fmt.Fprintf(os.Stderr, "%s\n", err)
		os.Exit(1)
	}

	if err := app.Run(context.Background(), os.Args); err != nil {
		if cmd.IsHelpQuit(err) {
			return
		}
		log.Fatal(err)
	}
}
