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
	"math"
	"regexp"
	"strconv"
	"strings"
	"unicode/utf16"
	"unicode/utf8"
)

// Kind is the type of a preference value.
type Kind uint8

const (
	KindInvalid Kind = iota
	KindBool
	KindInt
	KindString
)

func (k Kind) String() string {
	switch k {
	case KindBool:
		return "bool"
	case KindInt:
		return "int"
	case KindString:
		return "string"
	default:
		return "invalid"
	}
}

var reIntLiteral = regexp.MustCompile(`^-?[0-9]+$`)

// Value holds a boolean, integer or string preference value. The zero Value
// is invalid. Values are comparable with ==.
type Value struct {
	kind Kind
	b    bool
	i    int64
	s    string
}

func Bool(b bool) Value { return Value{kind: KindBool, b: b} }

// Int does not check the 32-bit range, FromAny and NewOverrideSet do.
func Int(i int64) Value { return Value{kind: KindInt, i: i} }

func String(s string) Value { return Value{kind: KindString, s: s} }

// FromAny converts a Go value to a Value. Integer types must fit in 32 bits.
func FromAny(v any) (Value, error) {
	switch val := v.(type) {
	case Value:
		return val, nil
	case bool:
		return Bool(val), nil
	case string:
		return String(val), nil
	case int:
		return intValue(int64(val))
	case int32:
		return Int(int64(val)), nil
	case int64:
		return intValue(val)
	default:
		return Value{}, fmt.Errorf("%w: unsupported type %T", ErrInvalidValue, v)
	}
}

func intValue(i int64) (Value, error) {
	if i < math.MinInt32 || i > math.MaxInt32 {
		return Value{}, fmt.Errorf("%w: integer %d out of range", ErrInvalidValue, i)
	}
	return Int(i), nil
}

func (v Value) Kind() Kind { return v.kind }
func (v Value) IsValid() bool { return v.kind != KindInvalid }
func (v Value) AsBool() bool { return v.b }
func (v Value) AsInt() int64 { return v.i }
func (v Value) AsString() string { return v.s }

// Interface returns the underlying bool, int64 or string, nil if invalid.
func (v Value) Interface() any {
	switch v.kind {
	case KindBool:
		return v.b
	case KindInt:
		return v.i
	case KindString:
		return v.s
	}
	return nil
}

// Literal renders the value the way it is written in a prefs file.
func (v Value) Literal() string {
	switch v.kind {
	case KindBool:
		return strconv.FormatBool(v.b)
	case KindInt:
		return strconv.FormatInt(v.i, 10)
	case KindString:
		return quote(v.s)
	}
	return "<invalid>"
}

func (v Value) String() string {
	return v.Literal()
}

// ParseValue types a value literal as a boolean, decimal integer or double
// quoted string.
func ParseValue(lit string) (Value, error) {
	lit = strings.TrimSpace(lit)
	switch {
	case lit == "true":
		return Bool(true), nil
	case lit == "false":
		return Bool(false), nil
	case reIntLiteral.MatchString(lit):
		i, err := strconv.ParseInt(lit, 10, 32)
		if err != nil {
			return Value{}, fmt.Errorf("%w: integer %s out of range", ErrInvalidValue, lit)
		}
		return Int(i), nil
	case len(lit) >= 2 && lit[0] == '"' && lit[len(lit)-1] == '"':
		s, err := unquote(lit[1 : len(lit)-1])
		if err != nil {
			return Value{}, err
		}
		return String(s), nil
	}

	return Value{}, fmt.Errorf("%w: `%s`", ErrInvalidValue, lit)
}

func quote(s string) string {
	var b strings.Builder
	b.Grow(len(s) + 2)
	b.WriteByte('"')
	for _, r := range s {
		switch r {
		case '"':
			b.WriteString(`\"`)
		case '\\':
			b.WriteString(`\\`)
		case '\n':
			b.WriteString(`\n`)
		case '\r':
			b.WriteString(`\r`)
		case '\t':
			b.WriteString(`\t`)
		default:
			if r < 0x20 {
				fmt.Fprintf(&b, `\x%02x`, r)
			} else {
				b.WriteRune(r)
			}
		}
	}
	b.WriteByte('"')
	return b.String()
}

// unquote decodes the body of a double quoted prefs string.
func unquote(body string) (string, error) {
	var b strings.Builder
	b.Grow(len(body))

	for i := 0; i < len(body); {
		c := body[i]
		if c == '"' {
			return "", fmt.Errorf("%w: unescaped quote in string", ErrInvalidValue)
		}
		if c != '\\' {
			r, size := utf8.DecodeRuneInString(body[i:])
			b.WriteRune(r)
			i += size
			continue
		}

		if i+1 >= len(body) {
			return "", fmt.Errorf("%w: trailing backslash in string", ErrInvalidValue)
		}
		esc := body[i+1]
		i += 2
		switch esc {
		case '\\', '"', '\'':
			b.WriteByte(esc)
		case 'n':
			b.WriteByte('\n')
		case 'r':
			b.WriteByte('\r')
		case 't':
			b.WriteByte('\t')
		case 'x', 'u':
			n := 2
			if esc == 'u' {
				n = 4
			}
			if i+n > len(body) {
				return "", fmt.Errorf("%w: short \\%c escape", ErrInvalidValue, esc)
			}
			code, err := strconv.ParseUint(body[i:i+n], 16, 32)
			if err != nil {
				return "", fmt.Errorf("%w: bad \\%c escape", ErrInvalidValue, esc)
			}
			i += n

			r := rune(code)
			if esc == 'u' && utf16.IsSurrogate(r) {
				// a high surrogate must be followed by a \u low surrogate
				if r >= 0xDC00 || i+6 > len(body) || body[i:i+2] != `\u` {
					return "", fmt.Errorf("%w: lone surrogate \\u%04x", ErrInvalidValue, r)
				}
				low, err := strconv.ParseUint(body[i+2:i+6], 16, 32)
				if err != nil {
					return "", fmt.Errorf("%w: bad \\u escape", ErrInvalidValue)
				}
				r = utf16.DecodeRune(r, rune(low))
				if r == utf8.RuneError {
					return "", fmt.Errorf("%w: lone surrogate \\u%04x", ErrInvalidValue, code)
				}
				i += 6
			}
			b.WriteRune(r)
		default:
			return "", fmt.Errorf("%w: unknown escape \\%c", ErrInvalidValue, esc)
		}
	}

	return b.String(), nil
}
