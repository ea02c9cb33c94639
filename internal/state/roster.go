package state

import (
	"context"
	"fmt"
	"io"
	"sync"
	"time"

	"github.com/charmbracelet/log"

	"github.com/reviewdeck/reviewdeck/internal/backend"
)

// AppLister is the slice of backend.Gateway the roster needs.
type AppLister interface {
	ListApps(ctx context.Context) ([]backend.AppSummary, error)
}

// RosterSnapshot represents the latest roster available to the UI.
type RosterSnapshot struct {
	Apps                []backend.AppSummary
	Loaded              bool
	Refreshing          bool
	LastUpdated         time.Time
	LastError           error
	ConsecutiveFailures int
}

// Find returns the summary for appID.
func (s RosterSnapshot) Find(appID string) (backend.AppSummary, bool) {
	for _, app := range s.Apps {
		if app.AppID == appID {
			return app, true
		}
	}
	return backend.AppSummary{}, false
}

// IsOffline returns true when the roster has failed to load multiple times in a row.
func (s RosterSnapshot) IsOffline() bool {
	return s.ConsecutiveFailures >= 2
}

// Roster owns the collection of known apps. Every successful refresh replaces
// the collection wholesale.
type Roster struct {
	src AppLister
	log *log.Logger

	mu       sync.RWMutex
	snapshot RosterSnapshot
	issued   uint64 // refreshes started
	applied  uint64 // newest refresh whose result was applied
	inFlight int
}

// NewRoster creates a roster backed by src.
func NewRoster(src AppLister, logger *log.Logger) *Roster {
	if logger == nil {
		logger = log.New(io.Discard)
	}
	return &Roster{src: src, log: logger}
}

// Refresh fetches the roster and replaces the collection. When err is non-nil
// the previous collection is kept and the error is recorded. A refresh that
// resolves after a newer one has already been applied is discarded, so the
// roster never moves backwards in time.
func (r *Roster) Refresh(ctx context.Context) error {
	r.mu.Lock()
	r.issued++
	seq := r.issued
	r.inFlight++
	r.snapshot.Refreshing = true
	r.mu.Unlock()

	apps, err := r.src.ListApps(ctx)

	r.mu.Lock()
	defer r.mu.Unlock()
	r.inFlight--
	r.snapshot.Refreshing = r.inFlight > 0
	if seq < r.applied {
		r.log.Debug("discarding out-of-order roster refresh", "seq", seq, "applied", r.applied)
		return err
	}
	r.applied = seq
	r.update(apps, err)
	if err != nil {
		r.log.Warn("roster refresh failed", "err", err, "failures", r.snapshot.ConsecutiveFailures)
		return fmt.Errorf("refresh roster: %w", err)
	}
	r.log.Debug("roster refreshed", "apps", len(apps))
	return nil
}

// Update replaces the stored collection. When err is non-nil the previous
// data is kept but the error is recorded for visibility.
func (r *Roster) Update(apps []backend.AppSummary, err error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.update(apps, err)
}

func (r *Roster) update(apps []backend.AppSummary, err error) {
	if err != nil {
		r.snapshot.LastError = err
		r.snapshot.LastUpdated = time.Now()
		r.snapshot.ConsecutiveFailures++
		return
	}
	r.snapshot.Apps = cloneApps(apps)
	r.snapshot.Loaded = true
	r.snapshot.LastError = nil
	r.snapshot.LastUpdated = time.Now()
	r.snapshot.ConsecutiveFailures = 0
}

// Snapshot returns a copy of the current roster.
func (r *Roster) Snapshot() RosterSnapshot {
	r.mu.RLock()
	defer r.mu.RUnlock()

	snap := r.snapshot
	snap.Apps = cloneApps(r.snapshot.Apps)
	if r.snapshot.LastError != nil {
		snap.LastError = fmt.Errorf("%w", r.snapshot.LastError)
	}
	return snap
}

// Apps returns a copy of the current collection.
func (r *Roster) Apps() []backend.AppSummary {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return cloneApps(r.snapshot.Apps)
}

func cloneApps(apps []backend.AppSummary) []backend.AppSummary {
	if len(apps) == 0 {
		return nil
	}
	dup := make([]backend.AppSummary, len(apps))
	for i, app := range apps {
		dup[i] = app
		if app.Rating != nil {
			rating := *app.Rating
			dup[i].Rating = &rating
		}
	}
	return dup
}
