package state

import (
	"context"
	"io"
	"sync"

	"github.com/charmbracelet/log"

	"github.com/reviewdeck/reviewdeck/internal/backend"
)

// AppFetcher is the slice of backend.Gateway the detail view needs.
type AppFetcher interface {
	GetApp(ctx context.Context, appID string) (*backend.AppDetail, error)
}

// Token identifies one selection. It increases every time the selection
// changes; responses carrying an older token are stale.
type Token uint64

// DetailSnapshot is a copy of the selected app and its transient topic result.
type DetailSnapshot struct {
	App          *backend.AppDetail
	Topics       *backend.TopicResult
	Token        Token
	PendingAppID string // selection being fetched, if any
}

// AppID returns the id of the displayed app, or "" when nothing is shown.
func (s DetailSnapshot) AppID() string {
	if s.App == nil {
		return ""
	}
	return s.App.AppInfo.AppID
}

// Loading reports whether a selection fetch is outstanding.
func (s DetailSnapshot) Loading() bool {
	return s.PendingAppID != ""
}

// Detail holds the single currently selected app. The topic result lives here
// only until the next selection, ingest, or delete; it is never re-fetched.
type Detail struct {
	src AppFetcher
	log *log.Logger

	mu      sync.RWMutex
	token   Token
	pending string
	current *backend.AppDetail
	topics  *backend.TopicResult
}

// NewDetail creates an empty detail view backed by src.
func NewDetail(src AppFetcher, logger *log.Logger) *Detail {
	if logger == nil {
		logger = log.New(io.Discard)
	}
	return &Detail{src: src, log: logger}
}

// Begin starts a selection of appID and returns its token. Any fetch still
// outstanding for an earlier selection becomes stale.
func (d *Detail) Begin(appID string) Token {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.token++
	d.pending = appID
	return d.token
}

// Load fetches appID for the selection identified by tok. A response for a
// superseded selection is dropped silently: accepted is false and err is nil.
func (d *Detail) Load(ctx context.Context, tok Token, appID string) (accepted bool, err error) {
	detail, err := d.src.GetApp(ctx, appID)

	d.mu.Lock()
	defer d.mu.Unlock()
	if tok != d.token {
		d.log.Debug("dropping stale selection response", "app", appID, "token", tok, "current", d.token)
		return false, nil
	}
	d.pending = ""
	if err != nil {
		return false, err
	}
	d.current = detail.Clone()
	d.topics = nil
	return true, nil
}

// Select is Begin followed by Load.
func (d *Detail) Select(ctx context.Context, appID string) (bool, error) {
	return d.Load(ctx, d.Begin(appID), appID)
}

// Token returns the current selection token.
func (d *Detail) Token() Token {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return d.token
}

// Set makes detail the selection, superseding any outstanding fetch and
// discarding the topic result.
func (d *Detail) Set(detail *backend.AppDetail) Token {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.token++
	d.pending = ""
	d.current = detail.Clone()
	d.topics = nil
	return d.token
}

// ReplaceIf swaps in a re-fetched detail when the selection is still tok and
// shows the same app. The topic result is kept.
func (d *Detail) ReplaceIf(tok Token, detail *backend.AppDetail) bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	if tok != d.token || !d.shows(detail.AppInfo.AppID) {
		d.log.Debug("dropping refreshed detail for superseded selection", "token", tok, "current", d.token)
		return false
	}
	d.current = detail.Clone()
	return true
}

// SetTopicsIf attaches a topic result for appID when the selection is still
// tok and shows that app.
func (d *Detail) SetTopicsIf(tok Token, appID string, result *backend.TopicResult) bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	if tok != d.token || !d.shows(appID) {
		d.log.Debug("dropping topic result for superseded selection", "token", tok, "current", d.token)
		return false
	}
	d.topics = result.Clone()
	return true
}

// Clear deselects, discarding the detail, the topic result, and any
// outstanding fetch.
func (d *Detail) Clear() {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.clear()
}

// ClearIf clears only when appID is displayed or being fetched.
func (d *Detail) ClearIf(appID string) bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	if !d.shows(appID) && d.pending != appID {
		return false
	}
	d.clear()
	return true
}

func (d *Detail) shows(appID string) bool {
	return d.current != nil && d.current.AppInfo.AppID == appID
}

func (d *Detail) clear() {
	d.token++
	d.pending = ""
	d.current = nil
	d.topics = nil
}

// Snapshot returns a copy of the current state.
func (d *Detail) Snapshot() DetailSnapshot {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return DetailSnapshot{
		App:          d.current.Clone(),
		Topics:       d.topics.Clone(),
		Token:        d.token,
		PendingAppID: d.pending,
	}
}
