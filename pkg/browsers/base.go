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

import (
	"slices"

	"github.com/blob42/mozprefs/internal/utils"
	"github.com/blob42/mozprefs/pkg/logging"
	"github.com/blob42/mozprefs/pkg/profiles"
)

const (
	Flat = "flat"
	Snap = "snap"
)

var log = logging.GetLogger("browsers")

// BrowserDef describes where a Mozilla based browser keeps its profiles.
type BrowserDef struct {
	Flavour string // also acts as canonical name

	// Name of the default profile when profiles.ini does not flag one
	DefaultProfile string

	// Base browser directory path
	baseDir string

	// (linux only) path to snap package base dir
	snapDir string

	// (linux only) path to flatpak package base dir
	flatDir string
}

func MozBrowser(flavour, base, snap, flat string) BrowserDef {
	return BrowserDef{
		Flavour:        flavour,
		DefaultProfile: "default",
		baseDir:        base,
		snapDir:        snap,
		flatDir:        flat,
	}
}

func (b BrowserDef) WithDefaultProfile(name string) BrowserDef {
	b.DefaultProfile = name
	return b
}

// BaseDir returns the flatpak or snap directory when installed that way,
// the regular base dir otherwise.
func (b BrowserDef) BaseDir() string {
	if b.flatDir != "" && isValidDir(b.flatDir, Flat) {
		return b.flatDir
	}
	if b.snapDir != "" && isValidDir(b.snapDir, Snap) {
		return b.snapDir
	}
	return b.baseDir
}

func (b BrowserDef) ExpandBaseDir() (string, error) {
	return utils.ExpandPath(b.BaseDir())
}

func (b BrowserDef) Detect() bool {
	dir, err := b.ExpandBaseDir()
	if err != nil {
		log.Debugf("expand path: %s: %s", b.BaseDir(), err)
		return false
	}
	if ok, err := utils.DirExists(dir); err != nil || !ok {
		log.Infof("could not detect <%s>: %s: %v", b.Flavour, dir, err)
		return false
	}

	return true
}

func (b BrowserDef) AsFlavour() profiles.Flavour {
	return profiles.Flavour{Name: b.Flavour, BaseDir: b.BaseDir()}
}

func isValidDir(dir string, pt string) bool {
	if dir == "" {
		return false
	}

	normDir, err := utils.ExpandOnly(dir)
	if err != nil {
		log.Errorf("%s path: %s", pt, err)
		return false
	}

	ok, err := utils.DirExists(normDir)
	if err != nil {
		log.Debugf("%s path: %s : %s", pt, dir, err)
	}
	return ok
}

// Get returns the definition of a flavour.
func Get(flavour string) (BrowserDef, bool) {
	i := slices.IndexFunc(DefinedBrowsers, func(b BrowserDef) bool {
		return b.Flavour == flavour
	})
	if i < 0 {
		return BrowserDef{}, false
	}
	return DefinedBrowsers[i], true
}

// Detected returns the defined browsers installed on this machine.
func Detected() []BrowserDef {
	var res []BrowserDef
	for _, b := range DefinedBrowsers {
		if b.Detect() {
			res = append(res, b)
		}
	}
	return res
}

func AddBrowserDef(b BrowserDef) {
	DefinedBrowsers = append(DefinedBrowsers, b)
}
