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

package build

import (
	"runtime/debug"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestVersion(t *testing.T) {
	saved := []string{Describe, CommitHash, RawTags, PackageVersion}
	savedModified := VCSModified
	t.Cleanup(func() {
		Describe, CommitHash, RawTags, PackageVersion = saved[0], saved[1], saved[2], saved[3]
		VCSModified = savedModified
	})

	Describe, CommitHash, RawTags, PackageVersion, VCSModified = "", "", "", "(devel)", false
	readBuildInfo(&debug.BuildInfo{
		GoVersion: "go1.24.0",
		Main:      debug.Module{Version: "v0.3.1"},
		Settings: []debug.BuildSetting{
			{Key: "vcs.revision", Value: "0123456789abcdef"},
			{Key: "vcs.modified", Value: "true"},
			{Key: "-tags", Value: "netgo,osusergo"},
		},
	})

	assert.Equal(t, "go1.24.0", GoVersion)
	assert.Equal(t, "v0.3.1 commit=01234567-dirty", Version())
	assert.Equal(t, []string{"netgo", "osusergo"}, Tags())

	Describe = "v0.3.1-2-g0123456"
	assert.Equal(t, "v0.3.1-2-g0123456 commit=01234567", Version())
}
