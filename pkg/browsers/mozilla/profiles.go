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

package mozilla

import (
	"errors"
	"fmt"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/go-ini/ini"

	"github.com/blob42/mozprefs/pkg/browsers"
	"github.com/blob42/mozprefs/pkg/logging"
	"github.com/blob42/mozprefs/pkg/profiles"
)

const (
	ProfilesFile = "profiles.ini"
)

var (
	log           = logging.GetLogger("mozilla")
	ReIniProfiles = regexp.MustCompile(`(?i)^profile[0-9]+$`)
	ReIniInstalls = regexp.MustCompile(`(?i)^install`)

	ErrProfilesIni      = errors.New("could not parse profiles.ini file")
	ErrNoDefaultProfile = errors.New("no default profile found")
	ErrProfileNotFound  = errors.New("profile not found")
	ErrUnknownFlavour   = errors.New("unknown browser flavour")
)

type iniProfile struct {
	Name       string `ini:"Name"`
	Path       string `ini:"Path"`
	IsRelative bool   `ini:"IsRelative"`
	Default    bool   `ini:"Default"`
}

// MozProfileManager reads the profiles.ini of Mozilla based browsers.
//
// PathResolver overrides the location of profiles.ini, it is used by tests
// and when the user points at a custom browser directory.
type MozProfileManager struct {
	PathResolver profiles.PathResolver
}

var _ profiles.ProfileManager = (*MozProfileManager)(nil)

func (pm *MozProfileManager) flavour(name string) (browsers.BrowserDef, error) {
	if def, ok := browsers.Get(name); ok {
		return def, nil
	}
	return browsers.BrowserDef{}, fmt.Errorf("%w: %s", ErrUnknownFlavour, name)
}

func (pm *MozProfileManager) iniPath(flavour string) (string, string, error) {
	if pm.PathResolver != nil {
		path := pm.PathResolver.GetPath()
		return path, filepath.Dir(path), nil
	}

	def, err := pm.flavour(flavour)
	if err != nil {
		return "", "", err
	}
	baseDir, err := def.ExpandBaseDir()
	if err != nil {
		return "", "", err
	}
	return filepath.Join(baseDir, ProfilesFile), baseDir, nil
}

func (pm *MozProfileManager) loadProfilesFile(flavour string) (*ini.File, string, error) {
	path, baseDir, err := pm.iniPath(flavour)
	if err != nil {
		return nil, "", err
	}

	log.Debugf("loading profiles from <%s>", path)
	pFile, err := ini.Load(path)
	if err != nil {
		return nil, "", err
	}

	return pFile, baseDir, nil
}

// GetProfiles lists the profiles declared in profiles.ini, in file order.
func (pm *MozProfileManager) GetProfiles(flavour string) ([]*profiles.Profile, error) {
	pFile, baseDir, err := pm.loadProfilesFile(flavour)
	if err != nil {
		return nil, err
	}

	var result []*profiles.Profile
	for _, section := range pFile.Sections() {
		if !ReIniProfiles.MatchString(section.Name()) {
			continue
		}

		var raw iniProfile
		if err := section.MapTo(&raw); err != nil {
			return nil, fmt.Errorf("%w: %s: %w", ErrProfilesIni, section.Name(), err)
		}
		if raw.Path == "" {
			return nil, fmt.Errorf("%w: %s has no path", ErrProfilesIni, section.Name())
		}

		result = append(result, &profiles.Profile{
			ID:         section.Name(),
			Name:       raw.Name,
			Path:       filepath.FromSlash(raw.Path),
			IsRelative: raw.IsRelative,
			BaseDir:    baseDir,
			Default:    raw.Default,
		})
	}

	if len(result) == 0 {
		return nil, ErrProfilesIni
	}

	return result, nil
}

func (pm *MozProfileManager) GetProfileByName(flavour, name string) (*profiles.Profile, error) {
	profs, err := pm.GetProfiles(flavour)
	if err != nil {
		return nil, err
	}

	for _, p := range profs {
		if p.Name == name {
			return p, nil
		}
	}

	return nil, fmt.Errorf("%w: %s", ErrProfileNotFound, name)
}

// GetDefaultProfile picks the profile the browser starts with. Recent
// Firefox versions record it per installation in `[Install...]` sections,
// older ones flag a profile with Default=1. The flavour's conventional
// profile name is the last resort.
func (pm *MozProfileManager) GetDefaultProfile(flavour string) (*profiles.Profile, error) {
	pFile, _, err := pm.loadProfilesFile(flavour)
	if err != nil {
		return nil, err
	}
	profs, err := pm.GetProfiles(flavour)
	if err != nil {
		return nil, err
	}

	for _, section := range pFile.Sections() {
		if !ReIniInstalls.MatchString(section.Name()) {
			continue
		}
		installDefault := filepath.FromSlash(section.Key("Default").String())
		for _, p := range profs {
			if installDefault != "" && p.Path == installDefault {
				log.Debugf("default profile from <%s>: %s", section.Name(), p.Name)
				return p, nil
			}
		}
	}

	for _, p := range profs {
		if p.Default {
			return p, nil
		}
	}

	defaultName := "default"
	if def, err := pm.flavour(flavour); err == nil {
		defaultName = def.DefaultProfile
	}

	log.Debugf("looking for profile %s", defaultName)
	for _, p := range profs {
		if strings.EqualFold(p.Name, defaultName) {
			return p, nil
		}
	}

	return nil, ErrNoDefaultProfile
}

// GetProfilePath resolves the absolute path of a profile, the default one
// when name is empty.
func (pm *MozProfileManager) GetProfilePath(flavour, name string) (string, error) {
	var p *profiles.Profile
	var err error
	if name == "" {
		p, err = pm.GetDefaultProfile(flavour)
	} else {
		p, err = pm.GetProfileByName(flavour, name)
	}
	if err != nil {
		return "", err
	}

	return p.AbsolutePath()
}

func (pm *MozProfileManager) ListFlavours() []profiles.Flavour {
	var result []profiles.Flavour
	for _, b := range browsers.DefinedBrowsers {
		if b.Detect() {
			result = append(result, b.AsFlavour())
		}
	}
	return result
}
