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
	"errors"
	"fmt"
)

var (
	ErrMalformedDirective  = errors.New("malformed directive")
	ErrInvalidValue        = errors.New("invalid value")
	ErrEmptyName           = errors.New("empty preference name")
	ErrUnterminatedComment = errors.New("unterminated block comment")

	ErrPrefNotFound = errors.New("pref not defined")
	ErrUnknownPref  = errors.New("unknown pref")
	ErrPrefLocked   = errors.New("pref is locked")
	ErrTypeMismatch = errors.New("pref type mismatch")
)

// ParseError reports a source line that could not be turned into an
// override. Load never returns a partial set alongside a ParseError.
type ParseError struct {
	Source string // file name, empty for readers
	Line   int
	Text   string
	Err    error
}

func (e *ParseError) Error() string {
	src := e.Source
	if src == "" {
		src = "<input>"
	}
	return fmt.Sprintf("%s:%d: %v: %q", src, e.Line, e.Err, e.Text)
}

func (e *ParseError) Unwrap() error {
	return e.Err
}

// ApplyError is returned when the host store rejects a write.
type ApplyError struct {
	Name  string
	Value Value
	Err   error
}

func (e *ApplyError) Error() string {
	return fmt.Sprintf("apply %s=%s: %v", e.Name, e.Value.Literal(), e.Err)
}

func (e *ApplyError) Unwrap() error {
	return e.Err
}
