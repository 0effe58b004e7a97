package app

import (
	"context"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/five82/stockroom/internal/state"
)

const maxBackoff = 30 * time.Second

// StartPoller launches a background goroutine that refreshes the store
// every interval, backing off while refreshes keep failing. The first
// refresh happens one interval after start; the view loads the list itself
// on mount. It returns immediately.
func StartPoller(ctx context.Context, store *state.Store, interval time.Duration, log logrus.FieldLogger) {
	if interval <= 0 {
		return
	}
	go func() {
		wait := interval
		for {
			timer := time.NewTimer(wait)
			select {
			case <-ctx.Done():
				timer.Stop()
				return
			case <-timer.C:
			}

			if err := store.Refresh(ctx); err != nil && ctx.Err() == nil {
				failures := store.Snapshot().ConsecutiveFailures
				wait = calculateBackoff(failures, interval)
				log.WithFields(logrus.Fields{
					"failures": failures,
					"retry_in": wait,
				}).WithError(err).Debug("background refresh failed")
				continue
			}
			wait = interval
		}
	}()
}

// calculateBackoff doubles base for each consecutive failure, capped at
// maxBackoff.
func calculateBackoff(failures int, base time.Duration) time.Duration {
	if failures <= 0 {
		return base
	}
	wait := base
	for i := 0; i < failures; i++ {
		wait *= 2
		if wait >= maxBackoff {
			return maxBackoff
		}
	}
	return wait
}
