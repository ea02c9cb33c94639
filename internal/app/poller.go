package app

import (
	"context"
	"io"
	"time"

	"github.com/charmbracelet/log"

	"github.com/reviewdeck/reviewdeck/internal/state"
)

const maxBackoff = 30 * time.Second

// StartPoller launches a background goroutine that refreshes the roster at a
// fixed cadence, backing off while the backend keeps failing. It returns
// immediately. No individual request is retried; only the next refresh is
// delayed.
func StartPoller(ctx context.Context, roster *state.Roster, interval time.Duration, logger *log.Logger) {
	if interval <= 0 {
		return
	}
	if logger == nil {
		logger = log.New(io.Discard)
	}
	go func() {
		timer := time.NewTimer(interval)
		defer timer.Stop()

		for {
			select {
			case <-ctx.Done():
				return
			case <-timer.C:
			}

			if err := roster.Refresh(ctx); err != nil && ctx.Err() == nil {
				logger.Warn("roster poll failed", "err", err)
			}
			failures := roster.Snapshot().ConsecutiveFailures
			wait := calculateBackoff(failures, interval)
			if failures > 0 {
				logger.Debug("backing off roster poll", "failures", failures, "wait", wait)
			}
			timer.Reset(wait)
		}
	}()
}

// calculateBackoff doubles the base interval per consecutive failure, capped
// at maxBackoff (or base when base is already larger).
func calculateBackoff(failures int, base time.Duration) time.Duration {
	limit := max(maxBackoff, base)
	if failures <= 0 {
		return base
	}
	wait := base
	for i := 0; i < failures; i++ {
		wait *= 2
		if wait >= limit {
			return limit
		}
	}
	return wait
}
