package sched

import (
	"context"
	"sync/atomic"
	"time"

	"github.com/rs/zerolog/log"
)

// Every runs job once immediately and then on every tick of a fixed-interval
// timer until ctx is cancelled. A tick that fires while the previous run is
// still executing is skipped rather than queued, so slow cycles never build
// a backlog.
func Every(ctx context.Context, name string, interval time.Duration, job func()) {
	var busy atomic.Bool

	run := func() {
		if !busy.CompareAndSwap(false, true) {
			log.Warn().Str("job", name).Msg("previous run still active, skipping tick")
			return
		}
		go func() {
			defer busy.Store(false)
			job()
		}()
	}

	go func() {
		run()
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				run()
			}
		}
	}()
}
