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
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/hako/durafmt"
	"github.com/urfave/cli/v3"

	"github.com/blob42/mozprefs/internal/database"
	"github.com/blob42/mozprefs/internal/utils"
)

var HistoryCmd = &cli.Command{
	Name:  "history",
	Usage: "list past apply runs recorded in the ledger",
	Flags: []cli.Flag{
		profileDirFlag,
		&cli.BoolFlag{
			Name:    "all",
			Aliases: []string{"a"},
			Usage:   "runs of every profile",
		},
		&cli.IntFlag{
			Name:    "limit",
			Aliases: []string{"l"},
			Value:   20,
			Usage:   "show the last `N` runs, 0 for all",
		},
	},
	Action: func(ctx context.Context, cmd *cli.Command) error {
		ledger, err := openLedger()
		if err != nil {
			return err
		}
		if ledger == nil {
			return cli.Exit("the ledger is disabled", 1)
		}
		defer ledger.Close()

		var profile string
		if !cmd.Bool("all") {
			if profile, err = resolveProfile(cmd); err != nil {
				return err
			}
		}

		runs, err := ledger.Runs(ctx, profile, int(cmd.Int("limit")))
		if err != nil {
			return err
		}
		if len(runs) == 0 {
			fmt.Fprintln(out(cmd), "no runs recorded")
			return nil
		}

		fmt.Fprintln(out(cmd), runsTable(runs, time.Now()))
		return nil
	},
}

func runStatus(r database.Run) string {
	switch {
	case !r.Done():
		return yellow("interrupted")
	case r.DryRun:
		return faint("dry run")
	case r.Failed > 0:
		return red(fmt.Sprintf("%d rejected", r.Failed))
	}
	return green("ok")
}

func runsTable(runs []database.Run, now time.Time) string {
	t := table.New().
		Border(lipgloss.NormalBorder()).
		Headers("RUN", "WHEN", "PROFILE", "SOURCE", "APPLIED", "STATUS")

	for _, r := range runs {
		age := durafmt.Parse(now.Sub(r.StartedAt()).Truncate(time.Second)).LimitFirstN(2)
		t.Row(
			r.ID.String()[:8],
			age.String()+" ago",
			utils.Shorten(r.Profile),
			r.Source,
			fmt.Sprintf("%d/%d", r.Applied, r.Total),
			runStatus(r),
		)
	}
	return t.String()
}
