package ops

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"sync"

	"github.com/charmbracelet/log"

	"github.com/reviewdeck/reviewdeck/internal/backend"
	"github.com/reviewdeck/reviewdeck/internal/state"
)

const (
	emptyAppIDText = "Enter an app ID."
	loadFailedText = "Failed to load app details."
)

// ErrBusy is returned by Begin when another operation on the same app is
// still running. Nothing changes when it is returned.
var ErrBusy = errors.New("operation already running for app")

// Controller runs Ingest, Analyze, Delete, and TopicModel against the backend,
// applies their side effects to the roster and detail stores, and owns the
// per-app OperationStatus table and the Notification.
type Controller struct {
	gw     backend.Gateway
	roster *state.Roster
	detail *state.Detail
	log    *log.Logger

	mu     sync.RWMutex
	status map[string]map[Kind]Status
	note   Notification
}

// New wires a controller to its gateway and stores.
func New(gw backend.Gateway, roster *state.Roster, detail *state.Detail, logger *log.Logger) *Controller {
	if logger == nil {
		logger = log.New(io.Discard)
	}
	return &Controller{
		gw:     gw,
		roster: roster,
		detail: detail,
		log:    logger,
		status: make(map[string]map[Kind]Status),
	}
}

// Operation is a started operation. Run must be called exactly once.
type Operation struct {
	c     *Controller
	kind  Kind
	appID string
	token state.Token
}

// Kind returns the operation kind.
func (op *Operation) Kind() Kind { return op.kind }

// AppID returns the target app id.
func (op *Operation) AppID() string { return op.appID }

// Result describes a settled operation.
type Result struct {
	Kind         Kind
	AppID        string
	Err          error
	Notification Notification
}

// OK reports whether the operation succeeded.
func (r Result) OK() bool { return r.Err == nil }

// Begin moves (appID, kind) to Running and clears the notification. It fails
// with a *backend.ValidationError when appID is blank and with ErrBusy when any
// operation on appID is already running; in both cases no status changes.
func (c *Controller) Begin(kind Kind, appID string) (*Operation, error) {
	appID = strings.TrimSpace(appID)
	if err := backend.ValidateAppID(appID); err != nil {
		if kind == Ingest {
			c.mu.Lock()
			c.note = errorNote(emptyAppIDText)
			c.mu.Unlock()
		}
		c.log.Debug("operation rejected", "kind", kind, "reason", "empty app id")
		return nil, err
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	kinds := c.status[appID]
	for k, st := range kinds {
		if st.Phase == Running {
			c.log.Debug("operation rejected", "kind", kind, "app", appID, "running", k)
			return nil, fmt.Errorf("%s %s: %w", kind, appID, ErrBusy)
		}
	}
	if kinds == nil {
		kinds = make(map[Kind]Status, len(Kinds))
		c.status[appID] = kinds
	}
	for k, st := range kinds {
		if st.Settled() {
			kinds[k] = Status{Phase: Idle}
		}
	}
	kinds[kind] = Status{Phase: Running}
	c.note = Notification{}

	op := &Operation{c: c, kind: kind, appID: appID, token: c.detail.Token()}
	c.log.Info("operation started", "kind", kind, "app", appID, "token", op.token)
	return op, nil
}

// Run issues the backend call and settles the operation. It blocks until the
// backend responds; there is no timeout beyond ctx.
func (op *Operation) Run(ctx context.Context) Result {
	c := op.c
	var (
		err     error
		refresh bool
	)
	switch op.kind {
	case Ingest:
		var detail *backend.AppDetail
		if detail, err = c.gw.CrawlApp(ctx, op.appID); err == nil {
			c.detail.Set(detail)
			refresh = true
		}
	case Analyze:
		if err = c.gw.AnalyzeApp(ctx, op.appID); err == nil {
			var detail *backend.AppDetail
			if detail, err = c.gw.GetApp(ctx, op.appID); err == nil {
				if !c.detail.ReplaceIf(op.token, detail) {
					c.log.Debug("selection changed during analysis", "app", op.appID)
				}
			}
		}
	case Delete:
		if err = c.gw.DeleteApp(ctx, op.appID); err == nil {
			c.detail.ClearIf(op.appID)
			refresh = true
		}
	case TopicModel:
		var result *backend.TopicResult
		if result, err = c.gw.TopicModelApp(ctx, op.appID); err == nil {
			if !c.detail.SetTopicsIf(op.token, op.appID, result) {
				c.log.Debug("selection changed during topic modeling", "app", op.appID)
			}
		}
	default:
		err = fmt.Errorf("unknown operation kind %d", op.kind)
	}

	res := c.settle(op, err)
	if refresh && c.roster != nil {
		if rerr := c.roster.Refresh(ctx); rerr != nil {
			c.log.Warn("roster refresh after operation failed", "kind", op.kind, "app", op.appID, "err", rerr)
		}
	}
	return res
}

func (c *Controller) settle(op *Operation, err error) Result {
	c.mu.Lock()
	defer c.mu.Unlock()

	res := Result{Kind: op.kind, AppID: op.appID, Err: err}
	if err != nil {
		text := backend.Detail(err)
		if text == "" {
			text = op.kind.fallbackText()
		}
		res.Notification = errorNote(text)
		c.log.Warn("operation failed", "kind", op.kind, "app", op.appID, "err", err)
	} else {
		res.Notification = successNote(op.kind.successText())
		c.log.Info("operation succeeded", "kind", op.kind, "app", op.appID)
	}

	phase := Succeeded
	if err != nil {
		phase = Failed
	}
	c.status[op.appID][op.kind] = Status{Phase: phase, Message: res.Notification.Text}
	c.note = res.Notification
	return res
}

// Do begins and runs an operation synchronously. A rejected Begin is reported
// through Result.Err with the current notification.
func (c *Controller) Do(ctx context.Context, kind Kind, appID string) Result {
	op, err := c.Begin(kind, appID)
	if err != nil {
		return Result{Kind: kind, AppID: strings.TrimSpace(appID), Err: err, Notification: c.Notification()}
	}
	return op.Run(ctx)
}

// BeginSelect starts loading appID into the detail view and returns the token
// to pass to LoadSelection. Selecting is not an operation: it neither clears
// the notification nor touches the status table.
func (c *Controller) BeginSelect(appID string) state.Token {
	return c.detail.Begin(strings.TrimSpace(appID))
}

// LoadSelection fetches the detail for a selection begun with BeginSelect. A
// stale response is dropped without side effects. A current one that fails
// leaves the previous detail in place and sets an error notification.
func (c *Controller) LoadSelection(ctx context.Context, tok state.Token, appID string) (bool, error) {
	appID = strings.TrimSpace(appID)
	accepted, err := c.detail.Load(ctx, tok, appID)
	if err != nil {
		c.log.Warn("load app detail failed", "app", appID, "err", err)
		c.mu.Lock()
		c.note = errorNote(loadFailedText)
		c.mu.Unlock()
	}
	return accepted, err
}

// Select is BeginSelect followed by LoadSelection.
func (c *Controller) Select(ctx context.Context, appID string) (bool, error) {
	return c.LoadSelection(ctx, c.BeginSelect(appID), appID)
}

// Deselect clears the detail view.
func (c *Controller) Deselect() {
	c.detail.Clear()
}

// Status returns the OperationStatus of kind on appID.
func (c *Controller) Status(appID string, kind Kind) Status {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.status[strings.TrimSpace(appID)][kind]
}

// Running returns the kind currently running on appID, if any.
func (c *Controller) Running(appID string) (Kind, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	for _, k := range Kinds {
		if c.status[strings.TrimSpace(appID)][k].Phase == Running {
			return k, true
		}
	}
	return 0, false
}

// Busy reports whether any operation is running on appID.
func (c *Controller) Busy(appID string) bool {
	_, ok := c.Running(appID)
	return ok
}

// Notification returns the current notification.
func (c *Controller) Notification() Notification {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.note
}
