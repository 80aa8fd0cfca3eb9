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

package prefs

import (
	"io"
	"os"

	"github.com/blob42/mozprefs/pkg/logging"
)

var log = logging.GetLogger("PREFS")

// Load parses a prefs source into an OverrideSet. It fails with a *ParseError
// on the first malformed line, in which case no set is returned.
func Load(r io.Reader) (*OverrideSet, error) {
	return load(r, "")
}

// LoadFile is Load on the file at path. Parse errors carry the path.
func LoadFile(path string) (*OverrideSet, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	return load(f, path)
}

func load(r io.Reader, source string) (*OverrideSet, error) {
	set := newOverrideSet()
	sc := NewScanner(r, source)
	for sc.Scan() {
		line := sc.Line()
		if line.Kind != LineDirective {
			continue
		}

		if _, dup := set.index[line.Override.Name]; dup {
			log.Debugf("line %d: %s redeclared, later value wins", line.Num, line.Override.Name)
		}
		set.add(line.Override)
	}
	if err := sc.Err(); err != nil {
		return nil, err
	}

	log.Debug("loaded overrides", "source", source, "count", set.Len(), "duplicates", len(set.dups))
	return set, nil
}
