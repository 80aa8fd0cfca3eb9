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

package browsers

var DefinedBrowsers = []BrowserDef{
	Firefox,
	FirefoxESR,
	Librewolf,
	Waterfox,
	Floorp,
}

var (
	Firefox = MozBrowser(
		"firefox",
		"~/.mozilla/firefox",
		"~/snap/firefox/common/.mozilla/firefox",
		"~/.var/app/org.mozilla.firefox/.mozilla/firefox",
	)

	FirefoxESR = MozBrowser(
		"firefox-esr",
		"~/.mozilla/firefox",
		"/nonexistent",
		"/nonexistent",
	).WithDefaultProfile("default-esr")

	Librewolf = MozBrowser(
		"librewolf",
		"~/.librewolf",
		"/nonexistent",
		"~/.var/app/io.gitlab.librewolf-community/.librewolf",
	)

	Waterfox = MozBrowser(
		"waterfox",
		"~/.waterfox",
		"/nonexistent",
		"~/.var/app/net.waterfox.waterfox/.waterfox",
	)

	Floorp = MozBrowser(
		"floorp",
		"~/.floorp",
		"/nonexistent",
		"~/.var/app/one.ablaze.floorp/.floorp",
	)
)
