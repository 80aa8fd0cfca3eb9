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

	"github.com/blob42/mozprefs/internal/utils"
)

var (
	ErrProfileInUse = errors.New("profile is in use")
)

// CheckProfileLock returns ErrProfileInUse when a browser is running on the
// profile directory dir. The browser rewrites its preferences on exit, so
// files should not be modified under it.
func CheckProfileLock(dir string) error {
	locked, err := profileLocked(dir)
	if err != nil {
		return err
	}
	if !locked {
		return nil
	}

	lockPath := filepath.Join(dir, lockFileName)
	pusers, err := utils.FileProcessUsers(lockPath)
	if err != nil {
		log.Debugf("looking up users of %s: %s", lockPath, err)
	}
	for pid, p := range pusers {
		pname, err := p.Name()
		if err != nil {
			log.Debug(err)
		}
		return fmt.Errorf("%w: %s(%d) is running on %s", ErrProfileInUse, pname, pid, dir)
	}

	return fmt.Errorf("%w: %s", ErrProfileInUse, dir)
}
