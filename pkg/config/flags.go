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

package config

import (
	"context"
	"slices"
	"time"

	"github.com/gobuffalo/flect"
	"github.com/urfave/cli/v3"
)

func flagName(opt string) string {
	return flect.Dasherize(opt)
}

// SetupGlobalFlags exposes every global option as a command line flag.
func SetupGlobalFlags() []cli.Flag {
	flags := []cli.Flag{}
	for _, k := range sortedKeys(configs[GlobalConfigName].Dump()) {
		v := configs[GlobalConfigName].Dump()[k]
		optName := flagName(k)

		log.Debugf("Registering global flag %s = %v", optName, v)

		switch val := v.(type) {
		case string:
			flags = append(flags, &cli.StringFlag{
				Category: "_",
				Name:     optName,
				Value:    val,
			})

		case int:
			flags = append(flags, &cli.IntFlag{
				Category: "_",
				Name:     optName,
				Value:    val,
			})

		case bool:
			flags = append(flags, &cli.BoolFlag{
				Category: "_",
				Name:     optName,
				Value:    val,
			})

		case time.Duration:
			flags = append(flags, &cli.DurationFlag{
				Category: "_",
				Name:     optName,
				Value:    val,
			})

		default:
			log.Warnf("unsupported type %T for global option %s", v, optName)
		}
	}

	return flags
}

// ApplyGlobalFlags copies explicitly set global flags back into the global
// options, so they override values read from the config file.
func ApplyGlobalFlags(_ context.Context, cmd *cli.Command) error {
	global := configs[GlobalConfigName]
	for k := range global.Dump() {
		name := flagName(k)
		if !cmd.IsSet(name) {
			continue
		}
		if err := global.Set(k, cmd.Value(name)); err != nil {
			return err
		}
	}
	return nil
}

func sortedKeys(m map[string]any) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	return keys
}
