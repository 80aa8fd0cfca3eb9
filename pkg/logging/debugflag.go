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

package logging

import (
	"context"
	"errors"
	"fmt"
	"os"
	"slices"
	"strings"

	"github.com/urfave/cli/v3"
)

var DebugFlag = &cli.StringFlag{
	Name:        "debug",
	Aliases:     []string{"D"},
	Usage:       debugHelp,
	DefaultText: "warn",
	Category:    "_",
	Sources:     cli.EnvVars(EnvDebug),
	Action: func(_ context.Context, _ *cli.Command, val string) error {
		if SilentMode {
			SetLevel(Silent)
			return nil
		}
		return ParseDebugLevels(val)
	},
}

var SilentFlag = &cli.BoolFlag{
	Name:     "silent",
	Aliases:  []string{"S"},
	Usage:    "disable all log output",
	Category: "_",
	Action: func(_ context.Context, _ *cli.Command, val bool) error {
		if val {
			SilentMode = true
			SetLevel(Silent)
		}
		return nil
	},
}

var (
	ErrUnknownLevel  = errors.New("unknown debug level")
	ErrHelpQuit      = errors.New("help quit")
	ErrParseSubLevel = errors.New("cannot parse unit level")
)

var debugHelp = `Logging level for all units {trace, debug, info, warn, error, fatal, none}
	You may also specify <global-level>,<unit>=<level>,<unit2>=<level>,...
	Use 'debug=list' to list available units`

func parseLevel(lvl string) (string, error) {
	if slices.Contains(allLevels, lvl) {
		return lvl, nil
	}
	return "", ErrUnknownLevel
}

func parseUnitLvl(sl string) error {
	tokens := strings.Split(sl, "=")
	if len(tokens) != 2 {
		return ErrParseSubLevel
	}
	unit, lvl := tokens[0], tokens[1]

	if !slices.Contains(allLevels, lvl) {
		return fmt.Errorf("%w %s", ErrUnknownLevel, lvl)
	}
	SetUnitLevel(unit, levels[lvl])

	return nil
}

// ParseDebugLevels parses `<global>[,<unit>=<level>...]`. The special value
// `list` prints the known levels and units and returns ErrHelpQuit.
func ParseDebugLevels(val string) error {
	args := strings.Split(val, ",")

	if args[0] == "list" {
		fmt.Fprintf(os.Stdout, "available levels: [%s]\n", strings.Join(allLevels, ","))
		fmt.Fprintf(os.Stdout, "available units: [%s]\n", strings.Join(listLoggers(), ","))
		return ErrHelpQuit
	}

	// parse global lvl
	global, err := parseLevel(args[0])
	if err != nil {
		return fmt.Errorf("%w `%s'", err, args[0])
	}
	SetLevel(levels[global])

	// unit levels
	for _, arg := range args[1:] {
		if err = parseUnitLvl(arg); err != nil {
			return fmt.Errorf("%w `%s'", err, arg)
		}
	}

	return nil
}
