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
	"io"
	"strings"

	"github.com/zeebo/xxh3"
)

// Override is a single preference name and the value it should be set to.
type Override struct {
	Name  string
	Value Value

	// 1-based source line, 0 when not loaded from a source
	Line int
}

func (o Override) String() string {
	return FormatDirective(o.Name, o.Value)
}

// Duplicate records a declaration that was superseded by a later one with
// the same name.
type Duplicate struct {
	Dropped Override
	Kept    Override
}

// OverrideSet is an ordered list of overrides with unique names. Order is
// declaration order. A set returned by Load is never modified afterwards.
type OverrideSet struct {
	overrides []Override
	index     map[string]int
	dups      []Duplicate
}

// NewOverrideSet builds a set from overrides in the given order, applying the
// same last-write-wins rule and integer range as Load.
func NewOverrideSet(overrides ...Override) (*OverrideSet, error) {
	set := newOverrideSet()
	for _, o := range overrides {
		if o.Name == "" {
			return nil, ErrEmptyName
		}
		if !o.Value.IsValid() {
			return nil, fmt.Errorf("%w: %s", ErrInvalidValue, o.Name)
		}
		if o.Value.Kind() == KindInt {
			if _, err := intValue(o.Value.AsInt()); err != nil {
				return nil, fmt.Errorf("%s: %w", o.Name, err)
			}
		}
		set.add(o)
	}
	return set, nil
}

func newOverrideSet() *OverrideSet {
	return &OverrideSet{index: make(map[string]int)}
}

// add appends o. A previous entry with the same name is removed so the
// surviving entry sits at the position of the last declaration.
func (s *OverrideSet) add(o Override) {
	if i, ok := s.index[o.Name]; ok {
		s.dups = append(s.dups, Duplicate{Dropped: s.overrides[i], Kept: o})
		s.overrides = append(s.overrides[:i], s.overrides[i+1:]...)
		for j := i; j < len(s.overrides); j++ {
			s.index[s.overrides[j].Name] = j
		}
	}
	s.index[o.Name] = len(s.overrides)
	s.overrides = append(s.overrides, o)
}

func (s *OverrideSet) Len() int {
	return len(s.overrides)
}

// All returns a copy of the overrides in declaration order.
func (s *OverrideSet) All() []Override {
	res := make([]Override, len(s.overrides))
	copy(res, s.overrides)
	return res
}

func (s *OverrideSet) Get(name string) (Value, bool) {
	i, ok := s.index[name]
	if !ok {
		return Value{}, false
	}
	return s.overrides[i].Value, true
}

func (s *OverrideSet) Names() []string {
	names := make([]string, len(s.overrides))
	for i, o := range s.overrides {
		names[i] = o.Name
	}
	return names
}

// Duplicates lists superseded declarations in the order they were found.
func (s *OverrideSet) Duplicates() []Duplicate {
	res := make([]Duplicate, len(s.dups))
	copy(res, s.dups)
	return res
}

// Fingerprint hashes the canonical rendering of the set. Two sets with the
// same entries in the same order have the same fingerprint regardless of
// comments, whitespace or superseded duplicates in their sources.
func (s *OverrideSet) Fingerprint() uint64 {
	h := xxh3.New()
	for _, o := range s.overrides {
		h.WriteString(FormatDirective(o.Name, o.Value))
		h.WriteString("\n")
	}
	return h.Sum64()
}

// WriteTo writes the set as user.js directives, one per line.
func (s *OverrideSet) WriteTo(w io.Writer) (int64, error) {
	var b strings.Builder
	for _, o := range s.overrides {
		b.WriteString(FormatDirective(o.Name, o.Value))
		b.WriteByte('\n')
	}
	n, err := io.WriteString(w, b.String())
	return int64(n), err
}
