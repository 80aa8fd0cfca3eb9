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

package apply

import (
	"time"

	"github.com/blob42/mozprefs/pkg/config"
	"github.com/blob42/mozprefs/pkg/watch"
)

const ConfigName = "apply"

// Config is the [apply] table of the config file
type Config struct {
	// Keep applying the remaining overrides when the profile rejects one
	Continue bool `toml:"continue" mapstructure:"continue"`

	// Quiet period after the last change of a watched file before applying
	WatchInterval time.Duration `toml:"watch_interval" mapstructure:"watch_interval"`

	// Record applied values and runs in the ledger database
	Ledger bool `toml:"ledger" mapstructure:"ledger"`
}

var Conf = &Config{
	Continue:      false,
	WatchInterval: watch.DefaultInterval,
	Ledger:        true,
}

func init() {
	config.RegisterConfigurator(ConfigName, config.AsConfigurator(Conf))
}
