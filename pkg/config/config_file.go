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

package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"

	"github.com/blob42/mozprefs/internal/utils"
)

const (
	ConfigFileName = "config.toml"
	ConfigDirName  = "mozprefs"
)

var (
	// Path of the config file in use, set by the --config flag
	ConfigFileFlag string
)

func getConfigDir() (string, error) {
	configDir, err := os.UserConfigDir()
	if err != nil {
		return "", fmt.Errorf("could not get config dir: %w", err)
	}
	if configDir == "" {
		return "", errors.New("could not get config dir")
	}

	return filepath.Join(configDir, ConfigDirName), nil
}

// ConfigDir is the mozprefs directory under the user config dir. It falls
// back to the working directory when no config dir is available.
func ConfigDir() string {
	dir, err := getConfigDir()
	if err != nil {
		log.Warn("using working directory for config", "err", err)
		return "."
	}
	return dir
}

func DefaultConfPath() string {
	return filepath.Join(ConfigDir(), ConfigFileName)
}

func ConfigExists(path string) (bool, error) {
	return utils.CheckFileExists(path)
}

// InitConfigFile writes the current configuration of every module to path.
func InitConfigFile(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("could not create config dir: %w", err)
	}

	configFile, err := os.Create(path)
	if err != nil {
		return err
	}
	defer configFile.Close()

	allConf := GetAll()

	tomlEncoder := toml.NewEncoder(configFile)
	tomlEncoder.Indent = ""
	if err = tomlEncoder.Encode(&allConf); err != nil {
		return fmt.Errorf("encoding config: %w", err)
	}

	return nil
}

// LoadFromTomlFile decodes every table of the file into the module
// registered under the table name.
func LoadFromTomlFile(path string) error {
	buffer := make(Config)
	if _, err := toml.DecodeFile(path, &buffer); err != nil {
		return fmt.Errorf("loading config file %w", err)
	}

	for k, val := range buffer {
		if _, ok := configs[k]; !ok {
			log.Debugf("creating module config [%s]", k)
			configs[k] = make(Config)
		}
		if err := configs[k].MapFrom(val); err != nil {
			return fmt.Errorf("parsing config <%s>: %w", k, err)
		}
	}

	log.Debugf("loaded config from %s", path)
	return nil
}

// Init loads the config file at path, creating it with the defaults of all
// registered modules when it does not exist.
func Init(path string) error {
	if path == "" {
		path = DefaultConfPath()
	}
	ConfigFileFlag = path

	exists, err := ConfigExists(path)
	if err != nil {
		return err
	}

	if !exists {
		//NOTE: flags have higher priority than config file
		log.Info("creating default config", "path", path)
		return InitConfigFile(path)
	}

	return LoadFromTomlFile(path)
}
