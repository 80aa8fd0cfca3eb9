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
	"fmt"
	"os"
	"os/signal"
	"slices"
	"syscall"

	"github.com/lithammer/fuzzysearch/fuzzy"
	"github.com/urfave/cli/v3"

	"github.com/blob42/mozprefs/internal/apply"
	"github.com/blob42/mozprefs/internal/database"
	"github.com/blob42/mozprefs/internal/utils"
	"github.com/blob42/mozprefs/pkg/browsers/mozilla"
	"github.com/blob42/mozprefs/pkg/prefs"
	"github.com/blob42/mozprefs/pkg/tree"
	"github.com/blob42/mozprefs/pkg/watch"
)

var ApplyCmd = &cli.Command{
	Name:      "apply",
	Aliases:   []string{"a"},
	Usage:     "apply an override file to a browser profile",
	ArgsUsage: "SOURCE",
	Flags: []cli.Flag{
		profileDirFlag,
		forceFlag,
		&cli.BoolFlag{
			Name:    "continue",
			Aliases: []string{"k"},
			Usage:   "keep applying after a rejected override",
		},
		&cli.BoolFlag{
			Name:    "dry-run",
			Aliases: []string{"n"},
			Usage:   "print the changes without writing them",
		},
	},
	Action: func(ctx context.Context, cmd *cli.Command) error {
		source, err := sourceArg(cmd)
		if err != nil {
			return err
		}
		dir, err := resolveProfile(cmd)
		if err != nil {
			return err
		}

		ledger, err := openLedger()
		if err != nil {
			return err
		}
		if ledger != nil {
			defer ledger.Close()
		}

		opts := apply.Options{
			Source:     source,
			ProfileDir: dir,
			Continue:   apply.Conf.Continue || cmd.Bool("continue"),
			DryRun:     cmd.Bool("dry-run"),
			Force:      cmd.Bool(forceFlag.Name),
		}

		a := &apply.Applier{Ledger: ledger}
		res, err := a.Apply(ctx, opts)
		if res != nil {
			printResult(cmd, opts, res)
		}
		return err
	},
}

func printResult(cmd *cli.Command, opts apply.Options, res *apply.Result) {
	w := out(cmd)
	profile := utils.Shorten(opts.ProfileDir)

	if res.Skipped {
		fmt.Fprintf(w, "%s: %d overrides already in effect\n", profile, res.Set.Len())
		return
	}

	printChanges(w, res.Changes)
	for _, e := range res.Errors {
		fmt.Fprintf(w, "%s %s\n", red("!"), e)
	}

	if opts.DryRun {
		fmt.Fprintf(w, "%s: %d changes (dry run)\n", profile, len(res.Changes))
		return
	}
	fmt.Fprintf(w, "%s: %s applied, %s rejected\n", profile,
		bold(res.Applied), bold(res.Failed()))
}

var CheckCmd = &cli.Command{
	Name:      "check",
	Usage:     "parse an override file and report problems",
	ArgsUsage: "SOURCE",
	Action: func(_ context.Context, cmd *cli.Command) error {
		source, err := sourceArg(cmd)
		if err != nil {
			return err
		}

		set, err := prefs.LoadFile(source)
		if err != nil {
			return err
		}

		w := out(cmd)
		for _, dup := range set.Duplicates() {
			fmt.Fprintf(w, "%s %s:%d: %s is overridden by line %d\n",
				yellow("warning:"), source, dup.Dropped.Line, dup.Dropped.Name, dup.Kept.Line)
		}
		fmt.Fprintf(w, "%s: %d overrides, %d duplicates, fingerprint %s\n",
			source, set.Len(), len(set.Duplicates()), database.FormatFingerprint(set.Fingerprint()))
		return nil
	},
}

var ShowCmd = &cli.Command{
	Name:      "show",
	Usage:     "print the overrides of a file",
	ArgsUsage: "SOURCE",
	Flags: []cli.Flag{
		&cli.BoolFlag{
			Name:    "tree",
			Aliases: []string{"t"},
			Usage:   "print the keys as a namespace tree",
		},
		&cli.StringFlag{
			Name:    "search",
			Aliases: []string{"s"},
			Usage:   "only show keys fuzzy matching `TERM`",
		},
	},
	Action: func(_ context.Context, cmd *cli.Command) error {
		source, err := sourceArg(cmd)
		if err != nil {
			return err
		}

		set, err := prefs.LoadFile(source)
		if err != nil {
			return err
		}

		if term := cmd.String("search"); term != "" {
			set, err = searchSet(set, term)
			if err != nil {
				return err
			}
		}

		if cmd.Bool("tree") {
			root := tree.Build(set)
			tree.Compact(root)
			return tree.Fprint(out(cmd), root)
		}

		_, err = set.WriteTo(out(cmd))
		return err
	},
}

// searchSet keeps the overrides whose key fuzzy matches term, best matches
// first.
func searchSet(set *prefs.OverrideSet, term string) (*prefs.OverrideSet, error) {
	ranks := fuzzy.RankFindNormalizedFold(term, set.Names())
	slices.SortStableFunc(ranks, func(a, b fuzzy.Rank) int {
		return a.Distance - b.Distance
	})

	matched := make([]prefs.Override, 0, len(ranks))
	for _, r := range ranks {
		v, _ := set.Get(r.Target)
		matched = append(matched, prefs.Override{Name: r.Target, Value: v})
	}
	return prefs.NewOverrideSet(matched...)
}

var DiffCmd = &cli.Command{
	Name:      "diff",
	Usage:     "compare an override file with the preferences saved by the browser",
	ArgsUsage: "SOURCE",
	Flags: []cli.Flag{
		profileDirFlag,
		&cli.BoolFlag{
			Name:  "user-js",
			Usage: "compare with the profile's user.js instead of prefs.js",
		},
	},
	Action: func(_ context.Context, cmd *cli.Command) error {
		source, err := sourceArg(cmd)
		if err != nil {
			return err
		}
		dir, err := resolveProfile(cmd)
		if err != nil {
			return err
		}

		set, err := prefs.LoadFile(source)
		if err != nil {
			return err
		}

		var current prefs.Getter
		if cmd.Bool("user-js") {
			current, err = mozilla.OpenProfileUserJS(dir)
		} else {
			current, err = mozilla.ReadPrefsJS(dir)
		}
		if err != nil {
			return err
		}

		changes, err := prefs.Diff(current, set)
		if err != nil {
			return err
		}

		w := out(cmd)
		printChanges(w, changes)
		fmt.Fprintf(w, "%d of %d overrides differ\n", len(changes), set.Len())
		return nil
	},
}

var WatchCmd = &cli.Command{
	Name:      "watch",
	Usage:     "apply an override file each time it changes",
	ArgsUsage: "SOURCE",
	Flags: []cli.Flag{
		profileDirFlag,
		forceFlag,
		&cli.DurationFlag{
			Name:    "interval",
			Aliases: []string{"i"},
			Usage:   "wait `DURATION` after the last change before applying",
		},
	},
	Action: func(ctx context.Context, cmd *cli.Command) error {
		source, err := sourceArg(cmd)
		if err != nil {
			return err
		}
		dir, err := resolveProfile(cmd)
		if err != nil {
			return err
		}

		ledger, err := openLedger()
		if err != nil {
			return err
		}
		if ledger != nil {
			defer ledger.Close()
		}

		ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
		defer stop()

		opts := apply.Options{
			Source:     source,
			ProfileDir: dir,
			Continue:   apply.Conf.Continue,
			Force:      cmd.Bool(forceFlag.Name),
		}
		a := &apply.Applier{Ledger: ledger}

		report := func(res *apply.Result, err error) {
			if res != nil {
				printResult(cmd, opts, res)
			}
			if err == nil {
				return
			}
			// rejected overrides are already listed by printResult
			var aerr *prefs.ApplyError
			if res != nil && res.Failed() > 0 && errors.As(err, &aerr) {
				return
			}
			fmt.Fprintf(out(cmd), "%s %s\n", red("!"), err)
		}

		// initial pass, a failure is reported and the next change retries
		report(a.Apply(ctx, opts))

		w, err := apply.NewWatcher(ctx, a, opts)
		if err != nil {
			return err
		}
		w.OnResult = report

		interval := apply.Conf.WatchInterval
		if cmd.IsSet("interval") {
			interval = cmd.Duration("interval")
		}

		fmt.Fprintf(out(cmd), "watching %s\n", source)
		return watch.Start(ctx, w, watch.WithInterval(interval))
	},
}
