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

package profiles

import (
	"path/filepath"

	"github.com/blob42/mozprefs/internal/utils"
	"github.com/blob42/mozprefs/pkg/logging"
)

var log = logging.GetLogger("profiles")

type ProfileManager interface {

	// Returns all profiles for a given flavour
	GetProfiles(flavour string) ([]*Profile, error)

	// Returns the profile used when none is requested
	GetDefaultProfile(flavour string) (*Profile, error)

	// Returns all flavours supported by this manager
	ListFlavours() []Flavour
}

type Profile struct {
	// Unique identifier for the profile, the profiles.ini section name
	ID string

	// Name of the profile
	Name string

	// Path to the profile, relative to BaseDir when IsRelative is set
	Path string

	IsRelative bool

	// Base dir of the browser, where profiles.ini lives
	BaseDir string

	// Profile flagged as default in profiles.ini
	Default bool
}

func (p Profile) AbsolutePath() (string, error) {
	if !p.IsRelative {
		return utils.ExpandPath(p.Path)
	}
	return utils.ExpandPath(p.BaseDir, p.Path)
}

// Flavour is a browser build sharing the profile layout of its family.
type Flavour struct {
	Name    string
	BaseDir string
}

// Detect reports whether the flavour's base directory exists.
func (f Flavour) Detect() bool {
	dir, err := utils.ExpandOnly(f.BaseDir)
	if err != nil {
		log.Warnf("could not expand path <%s>: %s", f.BaseDir, err)
		return false
	}
	if ok, err := utils.DirExists(dir); err != nil || !ok {
		log.Debugf("could not find browser <%s> at <%s>: %v", f.Name, dir, err)
		return false
	}

	return true
}

// ProfilesFile returns the expanded path of a file under the base dir.
func (f Flavour) ProfilesFile(name string) (string, error) {
	dir, err := utils.ExpandOnly(f.BaseDir)
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, name), nil
}
