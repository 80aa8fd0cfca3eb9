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
	"fmt"
	"maps"
	"slices"
)

// Getter reads a preference. It returns ErrPrefNotFound when name is unset.
type Getter interface {
	Get(name string) (Value, error)
}

// Store is a host preference store. Set applies the store's own validation
// and returns an error when the write is rejected.
type Store interface {
	Getter
	Set(name string, v Value) error
}

// MemStore is an in memory Store. The zero value is an empty non strict
// store.
//
// A non strict MemStore accepts any key. A strict one only accepts keys it
// already holds, and only with the same kind as the existing value. Locked
// keys are always rejected.
type MemStore struct {
	Strict bool

	values map[string]Value
	locked map[string]bool
}

func NewMemStore() *MemStore {
	return &MemStore{
		values: make(map[string]Value),
		locked: make(map[string]bool),
	}
}

// NewStrictMemStore returns a strict store whose known keys are defaults.
func NewStrictMemStore(defaults map[string]Value) *MemStore {
	s := NewMemStore()
	s.Strict = true
	maps.Copy(s.values, defaults)
	return s
}

func (s *MemStore) Get(name string) (Value, error) {
	v, ok := s.values[name]
	if !ok {
		return Value{}, ErrPrefNotFound
	}
	return v, nil
}

func (s *MemStore) Set(name string, v Value) error {
	if s.locked[name] {
		return ErrPrefLocked
	}

	cur, exists := s.values[name]
	if s.Strict {
		if !exists {
			return ErrUnknownPref
		}
		if cur.Kind() != v.Kind() {
			return fmt.Errorf("%w: %s is %s, got %s", ErrTypeMismatch, name, cur.Kind(), v.Kind())
		}
	}

	if s.values == nil {
		s.values = make(map[string]Value)
	}
	s.values[name] = v
	return nil
}

// Lock makes name immutable. The current value, if any, is kept.
func (s *MemStore) Lock(name string) {
	if s.locked == nil {
		s.locked = make(map[string]bool)
	}
	s.locked[name] = true
}

func (s *MemStore) Len() int {
	return len(s.values)
}

// Names returns the stored keys in sorted order.
func (s *MemStore) Names() []string {
	return slices.Sorted(maps.Keys(s.values))
}

// Snapshot returns a copy of all stored values.
func (s *MemStore) Snapshot() map[string]Value {
	return maps.Clone(s.values)
}

type teeStore struct {
	primary Store
	mirrors []Store
}

// Tee returns a Store that reads from primary and writes to primary then to
// every mirror. When primary rejects a write the mirrors are not touched.
func Tee(primary Store, mirrors ...Store) Store {
	return &teeStore{primary: primary, mirrors: mirrors}
}

func (t *teeStore) Get(name string) (Value, error) {
	return t.primary.Get(name)
}

func (t *teeStore) Set(name string, v Value) error {
	if err := t.primary.Set(name, v); err != nil {
		return err
	}
	for _, m := range t.mirrors {
		if err := m.Set(name, v); err != nil {
			return fmt.Errorf("mirror: %w", err)
		}
	}
	return nil
}
