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

package utils

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

func DirExists(path string) (bool, error) {
	info, err := os.Stat(path)
	if err == nil {
		return info.IsDir(), nil
	}
	if os.IsNotExist(err) {
		return false, nil
	}

	return false, err
}

func CheckFileExists(file string) (bool, error) {
	info, err := os.Stat(file)
	if err == nil {
		if info.IsDir() {
			return false, fmt.Errorf("'%s' is a directory", file)
		}

		return true, nil
	}

	if os.IsNotExist(err) {
		return false, nil
	}

	return false, err
}

// ExpandOnly joins paths, expands environment variables and a leading `~`
// without touching the file system.
func ExpandOnly(paths ...string) (string, error) {
	path := os.ExpandEnv(filepath.Join(paths...))
	if path == "" {
		return "", errors.New("empty path")
	}

	if path[0] == '~' {
		homedir, err := os.UserHomeDir()
		if err != nil {
			return "", err
		}
		path = filepath.Join(homedir, path[1:])
	}
	return path, nil
}

// ExpandPath is ExpandOnly followed by symlink evaluation. The path must
// exist.
func ExpandPath(paths ...string) (string, error) {
	path, err := ExpandOnly(paths...)
	if err != nil {
		return "", err
	}
	return filepath.EvalSymlinks(path)
}

// Shorten replaces the home directory prefix of path with `~`.
func Shorten(path string) string {
	homedir, err := os.UserHomeDir()
	if err != nil || homedir == "" {
		return path
	}
	if path == homedir {
		return "~"
	}
	if rest, ok := strings.CutPrefix(path, homedir+string(filepath.Separator)); ok {
		return filepath.Join("~", rest)
	}
	return path
}
