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
	"bytes"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/blob42/mozprefs/internal/utils"
	"github.com/blob42/mozprefs/pkg/prefs"
)

const (
	// Note that user.js will be read every time Firefox starts, so changes
	// made to it will take effect at the next start. When Firefox exits it
	// rewrites prefs.js, a modification made there could be lost. Therefore
	// overrides are always written to user.js.
	UserJSFile = "user.js"

	// Preferences as saved by the browser itself
	PrefsJSFile = "prefs.js"
)

// UserJS is a prefs.Store backed by a profile's user.js file.
//
// Every line of the original file is kept. Set rewrites the directive of an
// existing key in place, keeping comments on its line, and appends
// directives for new keys. Nothing is
// written to disk until Save is called.
type UserJS struct {
	path   string
	lines  []string
	index  map[string]int
	parsed map[int]prefs.Line
	values map[string]prefs.Value
	exists bool
	dirty  bool
}

var _ prefs.Store = (*UserJS)(nil)

// OpenUserJS loads the user.js at path. A missing file is treated as empty
// and created by Save. A malformed file fails with a *prefs.ParseError.
func OpenUserJS(path string) (*UserJS, error) {
	u := &UserJS{
		path:   path,
		index:  make(map[string]int),
		parsed: make(map[int]prefs.Line),
		values: make(map[string]prefs.Value),
	}

	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		log.Debugf("%s does not exist yet", path)
		return u, nil
	}
	if err != nil {
		return nil, err
	}
	u.exists = true

	sc := prefs.NewScanner(bytes.NewReader(data), path)
	for sc.Scan() {
		line := sc.Line()
		u.lines = append(u.lines, line.Text)
		if line.Kind == prefs.LineDirective {
			// later directives shadow earlier ones, keep track of the last
			u.index[line.Override.Name] = len(u.lines) - 1
			u.parsed[len(u.lines)-1] = line
			u.values[line.Override.Name] = line.Override.Value
		}
	}
	if err := sc.Err(); err != nil {
		return nil, err
	}

	return u, nil
}

// OpenProfileUserJS opens the user.js of the profile directory dir.
func OpenProfileUserJS(dir string) (*UserJS, error) {
	return OpenUserJS(filepath.Join(dir, UserJSFile))
}

func (u *UserJS) Path() string {
	return u.path
}

func (u *UserJS) Get(name string) (prefs.Value, error) {
	v, ok := u.values[name]
	if !ok {
		return prefs.Value{}, prefs.ErrPrefNotFound
	}
	return v, nil
}

func (u *UserJS) Set(name string, v prefs.Value) error {
	if !v.IsValid() {
		return prefs.ErrInvalidValue
	}
	if cur, ok := u.values[name]; ok && cur == v {
		return nil
	}

	directive := prefs.FormatDirective(name, v)
	if i, ok := u.index[name]; ok {
		if line, ok := u.parsed[i]; ok {
			u.lines[i] = line.Replace(directive)
		} else {
			u.lines[i] = directive
		}
	} else {
		u.lines = append(u.lines, directive)
		u.index[name] = len(u.lines) - 1
	}
	u.values[name] = v
	u.dirty = true

	return nil
}

// Dirty reports whether Set changed anything since the file was opened or
// last saved.
func (u *UserJS) Dirty() bool {
	return u.dirty
}

func (u *UserJS) Bytes() []byte {
	if len(u.lines) == 0 {
		return nil
	}
	return []byte(strings.Join(u.lines, "\n") + "\n")
}

// Save atomically replaces the file with the current content. It does
// nothing when the file exists and nothing changed.
func (u *UserJS) Save() error {
	if u.exists && !u.dirty {
		return nil
	}

	if err := utils.WriteFileAtomic(u.path, u.Bytes(), 0644); err != nil {
		return fmt.Errorf("saving %s: %w", u.path, err)
	}
	log.Debugf("saved %s", u.path)

	u.exists = true
	u.dirty = false
	return nil
}

// ReadPrefsJS loads the preferences saved by the browser in the profile
// directory dir. A profile that never ran has no prefs.js and yields an
// empty store.
func ReadPrefsJS(dir string) (*prefs.MemStore, error) {
	store := prefs.NewMemStore()

	set, err := prefs.LoadFile(filepath.Join(dir, PrefsJSFile))
	if errors.Is(err, os.ErrNotExist) {
		return store, nil
	}
	if err != nil {
		return nil, err
	}

	if err := prefs.Apply(store, set); err != nil {
		return nil, err
	}
	return store, nil
}
