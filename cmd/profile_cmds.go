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

	"github.com/urfave/cli/v3"

	"github.com/blob42/mozprefs/internal/utils"
	"github.com/blob42/mozprefs/pkg/browsers"
	"github.com/blob42/mozprefs/pkg/browsers/mozilla"
)

var ProfileCmds = &cli.Command{
	Name:    "profile",
	Aliases: []string{"p"},
	Usage:   "profile commands",
	Commands: []*cli.Command{
		listProfilesCmd,
		DetectCmd,
	},
}

var listProfilesCmd = &cli.Command{
	Name:  "list",
	Usage: "list the profiles of installed browsers",
	Action: func(ctx context.Context, cmd *cli.Command) error {
		w := out(cmd)
		pm := &mozilla.MozProfileManager{}

		flavours := pm.ListFlavours()
		if len(flavours) == 0 {
			fmt.Fprintln(w, "no browser detected")
			return nil
		}

		for _, f := range flavours {
			profs, err := pm.GetProfiles(f.Name)
			if err != nil {
				log.Debugf("error: %s", err)
				continue
			}

			def, err := pm.GetDefaultProfile(f.Name)
			if err != nil {
				log.Debugf("%s: %s", f.Name, err)
			}

			fmt.Fprintf(w, "%s:\n\n", bold(f.Name))
			for _, p := range profs {
				pPath, err := p.AbsolutePath()
				if err != nil {
					log.Warnf("profile %s: %s", p.Name, err)
					pPath = p.Path
				}
				marker := " "
				if def != nil && def.ID == p.ID {
					marker = green("*")
				}
				fmt.Fprintf(w, "\t%s Profile: %s\n", marker, p.Name)
				fmt.Fprintf(w, "\t    ID: %s\n", p.ID)
				fmt.Fprintf(w, "\t    Path: %s\n", utils.Shorten(pPath))
			}
			fmt.Fprintln(w)
		}

		return nil
	},
}

var DetectCmd = &cli.Command{
	Name:    "detect",
	Aliases: []string{"det"},
	Usage:   "detect installed browsers",
	Action: func(ctx context.Context, cmd *cli.Command) error {
		w := out(cmd)
		fmt.Fprintf(w, "\n detected browsers:\n\n")
		for _, b := range browsers.DefinedBrowsers {
			log.Debugf("considering flavour <%s>", b.Flavour)
			if !b.Detect() {
				fmt.Fprintf(w, " %s %-12s\n", red(""), b.Flavour)
				continue
			}

			dir, err := b.ExpandBaseDir()
			if err != nil {
				log.Warn("expanding base directory", "flavour", b.Flavour, "err", err)
				continue
			}
			fmt.Fprintf(w, " %s %-12s \t %s\n", green(""), b.Flavour, utils.Shorten(dir))
		}

		fmt.Fprintln(w)
		return nil
	},
}
