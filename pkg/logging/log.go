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

package logging

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/charmbracelet/lipgloss"
	log "github.com/charmbracelet/log"
	"github.com/mattn/go-isatty"
	"github.com/muesli/termenv"
)

const EnvDebug = "MOZPREFS_DEBUG"

const (
	Release = iota
	Dev
)

// Silent is above every level charmbracelet/log knows about
const Silent = log.Level(1 << 10)

var (
	//RELEASE: Change to Release for release mode
	LoggingMode = Release
	SilentMode  bool

	levels = map[string]log.Level{
		"trace": log.DebugLevel - 4,
		"debug": log.DebugLevel,
		"info":  log.InfoLevel,
		"warn":  log.WarnLevel,
		"error": log.ErrorLevel,
		"fatal": log.FatalLevel,
		"none":  Silent,
	}
	allLevels = []string{"trace", "debug", "info", "warn", "error", "fatal", "none"}

	globalLevel  = log.WarnLevel
	loggerLevels = map[string]log.Level{}

	mu      sync.Mutex
	loggers = map[string]*log.Logger{}
	output  io.Writer = os.Stderr

	logLevelStyles = map[log.Level]lipgloss.Style{
		log.DebugLevel: lipgloss.NewStyle().
			SetString(strings.ToUpper(log.DebugLevel.String())).
			MaxWidth(4).
			Foreground(lipgloss.Color("63")),
		log.InfoLevel: lipgloss.NewStyle().
			SetString(strings.ToUpper(log.InfoLevel.String())).
			MaxWidth(4).
			Foreground(lipgloss.Color("36")),
		log.WarnLevel: lipgloss.NewStyle().
			SetString(strings.ToUpper(log.WarnLevel.String())).
			MaxWidth(4).
			Foreground(lipgloss.Color("178")),
		log.ErrorLevel: lipgloss.NewStyle().
			SetString(strings.ToUpper(log.ErrorLevel.String())).
			MaxWidth(4).
			Foreground(lipgloss.Color("204")),
		log.FatalLevel: lipgloss.NewStyle().
			SetString(strings.ToUpper(log.FatalLevel.String())).
			MaxWidth(4).
			Foreground(lipgloss.Color("134")),
	}
)

// GetLogger returns the logger of a unit, creating it on first use. Loggers
// are registered so levels can later be changed globally or per unit.
func GetLogger(unit string) *log.Logger {
	mu.Lock()
	defer mu.Unlock()

	key := strings.ToLower(unit)
	if lg, ok := loggers[key]; ok {
		return lg
	}

	opts := log.Options{Level: globalLevel}
	if len(unit) > 0 {
		opts.Prefix = fmt.Sprintf("[%.5s]", strings.ToUpper(unit))
	}

	if LoggingMode == Dev {
		opts.ReportTimestamp = true
		opts.TimeFormat = time.TimeOnly
		opts.ReportCaller = true
		opts.CallerFormatter = func(file string, line int, _ string) string {
			return fmt.Sprintf("%s:%d", trimCallerPath(file, 1), line)
		}
		opts.Level = log.DebugLevel
	}

	lg := log.NewWithOptions(output, opts)
	styles := log.DefaultStyles()
	styles.Levels = logLevelStyles
	lg.SetStyles(styles)
	if !isTerminal(output) {
		lg.SetColorProfile(termenv.Ascii)
	}

	if lvl, ok := loggerLevels[key]; ok {
		lg.SetLevel(lvl)
	}
	if SilentMode {
		lg.SetLevel(Silent)
	}

	loggers[key] = lg
	return lg
}

// SetLevel sets the level of every logger without a unit level.
func SetLevel(lvl log.Level) {
	mu.Lock()
	defer mu.Unlock()

	globalLevel = lvl
	for unit, lg := range loggers {
		if _, ok := loggerLevels[unit]; ok && lvl != Silent {
			continue
		}
		lg.SetLevel(lvl)
	}
}

func SetUnitLevel(unit string, lvl log.Level) {
	mu.Lock()
	defer mu.Unlock()

	unit = strings.ToLower(unit)
	loggerLevels[unit] = lvl
	if lg, ok := loggers[unit]; ok {
		lg.SetLevel(lvl)
	}
}

// SetOutput redirects all loggers, used by tests and the watch command.
func SetOutput(w io.Writer) {
	mu.Lock()
	defer mu.Unlock()

	output = w
	for _, lg := range loggers {
		lg.SetOutput(w)
		if !isTerminal(w) {
			lg.SetColorProfile(termenv.Ascii)
		}
	}
}

func listLoggers() []string {
	mu.Lock()
	defer mu.Unlock()

	var units []string
	for unit := range loggers {
		if unit != "" {
			units = append(units, unit)
		}
	}
	slices.Sort(units)
	return units
}

func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	return ok && isatty.IsTerminal(f.Fd())
}

// keep the last n path elements of a caller file
func trimCallerPath(path string, n int) string {
	parts := strings.Split(filepath.ToSlash(path), "/")
	if len(parts) <= n+1 {
		return path
	}
	return strings.Join(parts[len(parts)-n-1:], "/")
}
