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
	"fmt"
	"runtime/debug"
	"strings"
)

var (
	// Describe is the `git describe` output of the build: latest tag,
	// commits since the tag, commit hash and dirty marker. Set with
	// -ldflags "-X github.com/blob42/mozprefs/pkg/build.Describe=..."
	Describe string

	// CommitHash stores the current commit hash of this build.
	CommitHash string

	// RawTags contains the raw set of build tags, separated by commas.
	RawTags string

	// GoVersion stores the go version that the executable was compiled
	// with.
	GoVersion string

	// PackageVersion is the module version, "(devel)" for local builds
	PackageVersion = "(devel)"

	// VCSModified is set when the working tree had uncommitted changes
	VCSModified bool
)

// Version returns the application version
func Version() string {
	if Describe == "" {
		if CommitHash == "" {
			return PackageVersion
		}
		return fmt.Sprintf("%s commit=%s", PackageVersion, shortHash(CommitHash, VCSModified))
	}

	return fmt.Sprintf("%s commit=%s", Describe, shortHash(CommitHash, false))
}

func shortHash(hash string, dirty bool) string {
	if len(hash) > 8 {
		hash = hash[:8]
	}
	if dirty {
		hash += "-dirty"
	}
	return hash
}

// Tags returns the list of build tags that were compiled into the executable.
func Tags() []string {
	if len(RawTags) == 0 {
		return []string{}
	}

	return strings.Split(RawTags, ",")
}

func readBuildInfo(info *debug.BuildInfo) {
	GoVersion = info.GoVersion
	for _, setting := range info.Settings {
		switch setting.Key {
		case "vcs.revision":
			CommitHash = setting.Value
		case "vcs.modified":
			VCSModified = setting.Value == "true"
		case "-tags":
			RawTags = setting.Value
		}
	}
	if info.Main.Version != "" {
		PackageVersion = info.Main.Version
	}
}

// Get build information from the runtime.
func init() {
	if info, ok := debug.ReadBuildInfo(); ok {
		readBuildInfo(info)
	}
}
