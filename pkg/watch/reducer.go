package watch

import (
	"context"
	"time"
)

const DefaultInterval = 500 * time.Millisecond

type reducerOptions struct {
	interval time.Duration
}

type ReducerOption func(*reducerOptions)

// WithInterval sets the quiet period after the last event before running
func WithInterval(d time.Duration) ReducerOption {
	return func(o *reducerOptions) {
		if d > 0 {
			o.interval = d
		}
	}
}

// ReduceEvents collapses bursts of events into one call to Run, made once
// no event was received for the interval. It runs in its own goroutine
// until ctx is done or the events channel is closed.
func ReduceEvents(ctx context.Context, w WatchRunner, opts ...ReducerOption) {
	o := reducerOptions{interval: DefaultInterval}
	for _, opt := range opts {
		opt(&o)
	}

	watch := w.Watch()
	log.Debugf("starting reducer service for %s", watch.ID)

	timer := time.NewTimer(o.interval)
	timer.Stop()
	defer timer.Stop()
	pending := 0

	for {
		select {
		case <-ctx.Done():
			return

		case _, ok := <-watch.eventsChan:
			if !ok {
				log.Warnf("events channel closed for %s", watch.ID)
				return
			}
			timer.Reset(o.interval)
			pending++

		case <-timer.C:
			if pending == 0 {
				continue
			}
			log.Debugf("<reduce>: %d events, calling Run()", pending)
			pending = 0
			w.Run()
		}
	}
}
