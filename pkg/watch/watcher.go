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

package watch

import (
	"context"
	"path/filepath"
	"slices"

	"github.com/fsnotify/fsnotify"

	"github.com/blob42/mozprefs/pkg/logging"
)

var log = logging.GetLogger("WATCH")

type WatchRunner interface {
	Watcher
	Runner
}

// Required interface to be implemented by units that want to use the
// fsnotify event loop and watch changes on files.
type Watcher interface {
	Watch() *WatchDescriptor
}

type Runner interface {
	Run()
}

type Shutdowner interface {
	Shutdown() error
}

// Wrapper around fsnotify watcher
type WatchDescriptor struct {
	ID      string
	W       *fsnotify.Watcher // underlying fsnotify watcher
	Watches []*Watch          // helper var

	// channel used to communicate watched events
	eventsChan chan fsnotify.Event
}

func (w WatchDescriptor) hasReducer() bool {
	return w.eventsChan != nil
}

func (w *WatchDescriptor) Close() error {
	return w.W.Close()
}

func NewWatcherWithReducer(name string, reducerLen int, watches ...*Watch) (*WatchDescriptor, error) {
	w, err := NewWatcher(name, watches...)
	if err != nil {
		return nil, err
	}
	w.eventsChan = make(chan fsnotify.Event, reducerLen)

	return w, nil
}

func NewWatcher(name string, watches ...*Watch) (*WatchDescriptor, error) {
	fswatcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}

	watcher := &WatchDescriptor{
		ID:      name,
		W:       fswatcher,
		Watches: watches,
	}

	// Add all watched paths
	for _, v := range watches {
		if err = watcher.W.Add(v.Path); err != nil {
			fswatcher.Close()
			return nil, err
		}
	}
	return watcher, nil
}

// Watch is a a filesystem object that can be watched for changes.
type Watch struct {
	Path       string        // Path to watch for events
	EventTypes []fsnotify.Op // events to watch for
	EventNames []string      // event names to watch for (file paths)
}

// FileWatch watches the file at path through its parent directory. Editors
// often save by writing a new file and renaming it over the old one, which
// a watch on the file itself would not survive.
func FileWatch(path string) *Watch {
	path = filepath.Clean(path)
	return &Watch{
		Path:       filepath.Dir(path),
		EventTypes: []fsnotify.Op{fsnotify.Write, fsnotify.Create, fsnotify.Rename},
		EventNames: []string{path},
	}
}

func (w *Watch) matches(event fsnotify.Event) bool {
	if !slices.Contains(w.EventNames, filepath.Clean(event.Name)) {
		return false
	}
	for _, op := range w.EventTypes {
		if event.Op&op == op {
			return true
		}
	}
	return false
}

// Start runs the watch loop of wr, and its reducer if it has one, until ctx
// is done. The runner is then shut down if it implements Shutdowner.
func Start(ctx context.Context, wr WatchRunner, opts ...ReducerOption) error {
	watcher := wr.Watch()
	for _, watch := range watcher.Watches {
		log.Debugf("watching %s", watch.Path)
	}

	if watcher.hasReducer() {
		go ReduceEvents(ctx, wr, opts...)
	}
	WatchLoop(ctx, wr)

	if err := watcher.Close(); err != nil {
		log.Warn(err)
	}
	if sht, ok := wr.(Shutdowner); ok {
		return sht.Shutdown()
	}
	return nil
}

// Main loop for watching file changes
func WatchLoop(ctx context.Context, w WatchRunner) {
	watcher := w.Watch()
	log.Debugf("<%s> started watcher", watcher.ID)

	for {
		select {
		case <-ctx.Done():
			log.Debugf("<%s> stopping watcher", watcher.ID)
			return

		case event, ok := <-watcher.W.Events:
			if !ok {
				return
			}
			// Very verbose
			// log.Debugf("event: %v | eventName: %v", event.Op, event.Name)

			for _, watched := range watcher.Watches {
				if !watched.matches(event) {
					continue
				}

				// For watchers who use a reducer forward the event
				// to the reducer channel, the reducer will call Run()
				if watcher.hasReducer() {
					select {
					case watcher.eventsChan <- event:
					default:
						// reducer already has pending events
					}
				} else {
					w.Run()
				}
				break
			}

		case err, ok := <-watcher.W.Errors:
			if !ok {
				return
			}
			if err != nil {
				log.Error(err)
			}
		}
	}
}
