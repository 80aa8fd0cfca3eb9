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
	"context"

	"github.com/blob42/mozprefs/pkg/watch"
)

// Watcher re-applies an override file each time it changes
type Watcher struct {
	*Applier
	Options

	// Called after every pass
	OnResult func(*Result, error)

	ctx context.Context
	wd  *watch.WatchDescriptor
}

var _ watch.WatchRunner = (*Watcher)(nil)

func NewWatcher(ctx context.Context, a *Applier, opts Options) (*Watcher, error) {
	wd, err := watch.NewWatcherWithReducer("apply", 16, watch.FileWatch(opts.Source))
	if err != nil {
		return nil, err
	}

	return &Watcher{
		Applier: a,
		Options: opts,
		ctx:     ctx,
		wd:      wd,
	}, nil
}

func (w *Watcher) Watch() *watch.WatchDescriptor {
	return w.wd
}

func (w *Watcher) Run() {
	log.Debugf("%s changed", w.Source)
	res, err := w.Apply(w.ctx, w.Options)
	if err != nil {
		log.Error("apply failed", "source", w.Source, "err", err)
	}
	if w.OnResult != nil {
		w.OnResult(res, err)
	}
}
