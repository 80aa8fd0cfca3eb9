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
	Librewolf,
	Waterfox,
	Floorp,
}

var (
	Firefox   = MozBrowser("firefox", "$APPDATA/Mozilla/Firefox", "", "")
	Librewolf = MozBrowser("librewolf", "$APPDATA/librewolf", "", "")
	Waterfox  = MozBrowser("waterfox", "$APPDATA/Waterfox", "", "")
	Floorp    = MozBrowser("floorp", "$APPDATA/Floorp", "", "")
)
