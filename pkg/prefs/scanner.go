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
	"bufio"
	"fmt"
	"io"
	"regexp"
	"strings"
	"unicode"
)

const (
	// Max length of a single line in a prefs file
	maxLineSize = 1 << 20

	bom = "\ufeff"
)

var (
	// Parses directives under the form:
	// user_pref("my.pref.option", value);
	reDirective = regexp.MustCompile(
		`^user_pref\s*\(\s*("(?:[^"\\]|\\.)*")\s*,\s*("(?:[^"\\]|\\.)*"|[^\s,()";]+)\s*\)\s*;`,
	)
)

type LineKind uint8

const (
	LineBlank LineKind = iota
	LineComment
	LineDirective
)

// Line is one physical line of a prefs source. Override is only set for
// LineDirective lines.
type Line struct {
	Num      int
	Text     string
	Kind     LineKind
	Override Override

	// byte range of the directive in Text
	start, end int
}

// Replace returns Text with its directive swapped for directive. Comments
// around the directive are kept. Lines without a directive are replaced
// entirely.
func (l Line) Replace(directive string) string {
	if l.Kind != LineDirective {
		return directive
	}
	return l.Text[:l.start] + directive + l.Text[l.end:]
}

// Scanner reads a prefs source line by line, classifying each line.
// Scanning stops at the first malformed line; Err then returns a *ParseError.
type Scanner struct {
	sc     *bufio.Scanner
	source string

	num  int
	line Line
	err  error

	inComment    bool
	commentStart int
}

func NewScanner(r io.Reader, source string) *Scanner {
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 4096), maxLineSize)
	return &Scanner{sc: sc, source: source}
}

func (s *Scanner) Scan() bool {
	if s.err != nil {
		return false
	}

	if !s.sc.Scan() {
		if err := s.sc.Err(); err != nil {
			s.err = fmt.Errorf("reading %s: %w", s.sourceName(), err)
		} else if s.inComment {
			s.err = &ParseError{
				Source: s.source,
				Line:   s.commentStart,
				Text:   "/*",
				Err:    ErrUnterminatedComment,
			}
		}
		return false
	}

	s.num++
	text := s.sc.Text()
	if s.num == 1 {
		text = strings.TrimPrefix(text, bom)
	}
	text = strings.TrimSuffix(text, "\r")

	line, err := s.classify(text)
	if err != nil {
		s.err = &ParseError{Source: s.source, Line: s.num, Text: text, Err: err}
		return false
	}
	s.line = line
	return true
}

func (s *Scanner) Line() Line {
	return s.line
}

func (s *Scanner) Err() error {
	return s.err
}

func (s *Scanner) sourceName() string {
	if s.source == "" {
		return "input"
	}
	return s.source
}

// skipComments moves pos past spaces and block comments. open is true when
// a block comment is left unterminated at the end of text.
func skipComments(text string, pos int) (next int, open bool) {
	for {
		pos = len(text) - len(strings.TrimLeftFunc(text[pos:], unicode.IsSpace))
		if !strings.HasPrefix(text[pos:], "/*") {
			return pos, false
		}
		end := strings.Index(text[pos+2:], "*/")
		if end < 0 {
			return len(text), true
		}
		pos += 2 + end + 2
	}
}

func (s *Scanner) openComment() {
	s.inComment = true
	s.commentStart = s.num
}

func (s *Scanner) classify(text string) (Line, error) {
	line := Line{Num: s.num, Text: text}

	if !s.inComment && strings.TrimSpace(text) == "" {
		line.Kind = LineBlank
		return line, nil
	}

	pos := 0
	if s.inComment {
		end := strings.Index(text, "*/")
		if end < 0 {
			line.Kind = LineComment
			return line, nil
		}
		s.inComment = false
		pos = end + 2
	}

	pos, open := skipComments(text, pos)
	if open {
		s.openComment()
		line.Kind = LineComment
		return line, nil
	}

	rest := strings.TrimRightFunc(text[pos:], unicode.IsSpace)
	if rest == "" || strings.HasPrefix(rest, "//") {
		line.Kind = LineComment
		return line, nil
	}

	o, n, err := parseDirective(rest)
	if err != nil {
		return line, err
	}

	// only comments may follow the directive
	tail, open := skipComments(text, pos+n)
	if t := strings.TrimSpace(text[tail:]); t != "" && !strings.HasPrefix(t, "//") {
		return line, ErrMalformedDirective
	}
	if open {
		s.openComment()
	}

	o.Line = s.num
	line.Kind = LineDirective
	line.Override = o
	line.start, line.end = pos, pos+n
	return line, nil
}

// parseDirective parses the user_pref directive at the start of text and
// returns the number of bytes it spans.
func parseDirective(text string) (Override, int, error) {
	match := reDirective.FindStringSubmatchIndex(text)
	if match == nil {
		return Override{}, 0, ErrMalformedDirective
	}

	name, err := unquote(text[match[2]+1 : match[3]-1])
	if err != nil {
		return Override{}, 0, err
	}
	if name == "" {
		return Override{}, 0, ErrEmptyName
	}

	val, err := ParseValue(text[match[4]:match[5]])
	if err != nil {
		return Override{}, 0, err
	}

	return Override{Name: name, Value: val}, match[1], nil
}

// FormatDirective renders a single user_pref directive without a trailing
// newline.
func FormatDirective(name string, v Value) string {
	return fmt.Sprintf("user_pref(%s, %s);", quote(name), v.Literal())
}
