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

// Package config holds the global and per module configuration of mozprefs.
//
// Modules register a Configurator under their name. The TOML config file has
// one table per module, each table is decoded into the matching Configurator.
// Command line flags are applied after the file and take precedence.
package config

import (
	"context"
	"fmt"
	"maps"
	"reflect"
	"slices"

	"github.com/fatih/structs"
	"github.com/mitchellh/mapstructure"
	"github.com/urfave/cli/v3"

	"github.com/blob42/mozprefs/pkg/logging"
)

type Hook func(context.Context, *cli.Command) error

var (
	log            = logging.GetLogger("CONF")
	ConfReadyHooks []Hook
	configs        = make(map[string]Configurator)
)

const (
	GlobalConfigName = "global"
)

type Configurator interface {
	Set(opt string, v any) error
	Get(opt string) (any, error)
	Dump() map[string]any
	MapFrom(any) error
}

// Config is a free form Configurator used for the global options and for
// tables of the config file that no module claimed.
type Config map[string]any

func (c Config) Set(opt string, v any) error {
	c[opt] = v
	return nil
}

func (c Config) Get(opt string) (any, error) {
	v, ok := c[opt]
	if !ok {
		return nil, fmt.Errorf("%s option not defined", opt)
	}
	return v, nil
}

func (c Config) Dump() map[string]any {
	return c
}

func (c Config) MapFrom(src any) error {
	m, ok := src.(map[string]any)
	if !ok {
		return fmt.Errorf("cannot map %T into config", src)
	}
	for k, v := range m {
		// keep the registered type of known options
		if cur, ok := c[k]; ok && cur != nil {
			typed := reflect.New(reflect.TypeOf(cur))
			if err := decode(v, typed.Interface()); err != nil {
				return fmt.Errorf("option %s: %w", k, err)
			}
			v = typed.Elem().Interface()
		}
		c[k] = v
	}
	return nil
}

// AutoConfigurator exposes the fields of a struct pointer as options.
type AutoConfigurator struct {
	c any
}

func (ac AutoConfigurator) Set(opt string, v any) error {
	s := structs.New(ac.c)
	f, ok := s.FieldOk(opt)
	if !ok {
		return fmt.Errorf("%s option not defined", opt)
	}

	return f.Set(v)
}

func (ac AutoConfigurator) Get(opt string) (any, error) {
	s := structs.New(ac.c)
	f, ok := s.FieldOk(opt)
	if !ok {
		return nil, fmt.Errorf("%s option not defined", opt)
	}

	return f.Value(), nil
}

func (ac AutoConfigurator) Dump() map[string]any {
	return structs.New(ac.c).Map()
}

func (ac AutoConfigurator) MapFrom(src any) error {
	log.Debugf("mapping from:  %#v ", src)
	return decode(src, ac.c)
}

func AsConfigurator(c any) Configurator {
	return AutoConfigurator{c}
}

func RegisterGlobalOption(key string, val any) {
	log.Debugf("Registering global option %s = %v", key, val)
	configs[GlobalConfigName].Set(key, val)
}

// GetGlobalOption returns a global option, nil if not registered.
func GetGlobalOption(key string) any {
	v, err := configs[GlobalConfigName].Get(key)
	if err != nil {
		return nil
	}
	return v
}

func RegisterConfigurator(name string, c Configurator) {
	log.Debugf("Registering configurator %s", name)
	configs[name] = c
}

func GetModule(module string) Configurator {
	if c, ok := configs[module]; ok {
		return c
	}
	return nil
}

func GetModOpt(module string, opt string) (any, error) {
	if c, ok := configs[module]; ok {
		return c.Get(opt)
	}
	return nil, fmt.Errorf("module %s not found", module)
}

// GetAll returns every registered configuration keyed by module name.
func GetAll() Config {
	result := make(Config)
	for k, c := range configs {
		if ac, ok := c.(AutoConfigurator); ok {
			result[k] = ac.c
		} else {
			result[k] = c
		}
	}
	return result
}

// Modules lists the registered module names, sorted.
func Modules() []string {
	return slices.Sorted(maps.Keys(configs))
}

func RegisterConfReadyHooks(hooks ...Hook) {
	ConfReadyHooks = append(ConfReadyHooks, hooks...)
}

func RunConfHooks(ctx context.Context, c *cli.Command) error {
	log.Debug("running config hooks")
	for _, f := range ConfReadyHooks {
		if err := f(ctx, c); err != nil {
			return fmt.Errorf("config hook: %w", err)
		}
	}
	return nil
}

func decode(src any, dst any) error {
	conf := *mapDecoderConfig
	conf.Result = dst
	dec, err := mapstructure.NewDecoder(&conf)
	if err != nil {
		return err
	}
	return dec.Decode(src)
}

func init() {
	configs[GlobalConfigName] = make(Config)
}
