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
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseValue(t *testing.T) {
	valid := map[string]Value{
		"true":           Bool(true),
		"false":          Bool(false),
		"0":              Int(0),
		"-1":             Int(-1),
		"2147483647":     Int(2147483647),
		"-2147483648":    Int(-2147483648),
		`""`:             String(""),
		`"a b"`:          String("a b"),
		`"é\\"`:          String("é\\"),
		`  "padded"  `:   String("padded"),
		`"\u00e9\x41"`:   String("éA"),
		`"\ud83d\ude00"`: String("😀"),
	}
	for lit, want := range valid {
		got, err := ParseValue(lit)
		if assert.NoError(t, err, lit) {
			assert.Equal(t, want, got, lit)
		}
	}

	invalid := []string{"", "True", "1e3", "0x10", "2147483648", `"`, `"a"b"`, `"\"`, `"\x4"`, "null",
		`"\ud83d"`, `"\ude00"`, `"\ud83dx"`, `"\ud83d\u0041"`, `"\ud83d\uzzzz"`}
	for _, lit := range invalid {
		_, err := ParseValue(lit)
		assert.ErrorIs(t, err, ErrInvalidValue, lit)
	}
}

func TestValueLiteral(t *testing.T) {
	assert.Equal(t, "true", Bool(true).Literal())
	assert.Equal(t, "-7", Int(-7).Literal())
	assert.Equal(t, `"say \"hi\"\n\\"`, String("say \"hi\"\n\\").Literal())
	assert.Equal(t, "<invalid>", Value{}.Literal())

	for _, v := range []Value{Bool(false), Int(42), String("x\ty\x01z \"q\" é")} {
		back, err := ParseValue(v.Literal())
		require.NoError(t, err)
		assert.Equal(t, v, back)
	}
}

func TestFromAny(t *testing.T) {
	v, err := FromAny(3)
	require.NoError(t, err)
	assert.Equal(t, KindInt, v.Kind())
	assert.Equal(t, int64(3), v.Interface())

	v, err = FromAny("s")
	require.NoError(t, err)
	assert.Equal(t, "s", v.AsString())

	v, err = FromAny(true)
	require.NoError(t, err)
	assert.True(t, v.AsBool())

	_, err = FromAny(int64(1) << 40)
	assert.ErrorIs(t, err, ErrInvalidValue)

	_, err = FromAny(1.5)
	assert.ErrorIs(t, err, ErrInvalidValue)
}

func TestFormatDirective(t *testing.T) {
	assert.Equal(t, `user_pref("network.trr.mode", 3);`, FormatDirective("network.trr.mode", Int(3)))
	assert.Equal(t, `user_pref("browser.bookmarks.file", "");`, FormatDirective("browser.bookmarks.file", String("")))
}

func TestStrictMemStore(t *testing.T) {
	store := NewStrictMemStore(map[string]Value{"known": Int(1)})

	assert.ErrorIs(t, store.Set("unknown", Int(1)), ErrUnknownPref)
	assert.ErrorIs(t, store.Set("known", String("1")), ErrTypeMismatch)
	assert.NoError(t, store.Set("known", Int(2)))

	store.Lock("known")
	assert.ErrorIs(t, store.Set("known", Int(3)), ErrPrefLocked)

	assert.Equal(t, []string{"known"}, store.Names())
}

func TestZeroMemStore(t *testing.T) {
	set, err := Load(strings.NewReader("user_pref(\"network.trr.mode\", 3);\nuser_pref(\"signon.rememberSignons\", false);\n"))
	require.NoError(t, err)

	var store MemStore
	require.NoError(t, Apply(&store, set))
	v, err := store.Get("network.trr.mode")
	require.NoError(t, err)
	assert.Equal(t, Int(3), v)
	assert.Equal(t, 2, store.Len())

	var locked MemStore
	locked.Lock("signon.rememberSignons")
	assert.ErrorIs(t, Apply(&locked, set), ErrPrefLocked)
}
