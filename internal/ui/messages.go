package ui

import (
	"context"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/reviewdeck/reviewdeck/internal/ops"
	"github.com/reviewdeck/reviewdeck/internal/state"
)

// tickMsg re-reads the stores so background roster refreshes show up.
type tickMsg time.Time

// opSettledMsg carries a finished operation back into Update.
type opSettledMsg ops.Result

// selectionMsg reports the outcome of a selection fetch. restored marks the
// startup reopen of the last selected app.
type selectionMsg struct {
	appID    string
	accepted bool
	err      error
	restored bool
}

// rosterMsg reports a finished manual or startup roster refresh.
type rosterMsg struct {
	err error
}

func tickCmd(d time.Duration) tea.Cmd {
	return tea.Tick(d, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

func runOpCmd(ctx context.Context, op *ops.Operation) tea.Cmd {
	return func() tea.Msg {
		return opSettledMsg(op.Run(ctx))
	}
}

func loadSelectionCmd(ctx context.Context, ctrl *ops.Controller, tok state.Token, appID string) tea.Cmd {
	return func() tea.Msg {
		accepted, err := ctrl.LoadSelection(ctx, tok, appID)
		return selectionMsg{appID: appID, accepted: accepted, err: err}
	}
}

// restoreSelectionCmd loads appID straight into the detail store, bypassing
// the controller so a failure raises no banner.
func restoreSelectionCmd(ctx context.Context, detail *state.Detail, tok state.Token, appID string) tea.Cmd {
	return func() tea.Msg {
		accepted, err := detail.Load(ctx, tok, appID)
		return selectionMsg{appID: appID, accepted: accepted, err: err, restored: true}
	}
}

func refreshRosterCmd(ctx context.Context, roster *state.Roster) tea.Cmd {
	return func() tea.Msg {
		return rosterMsg{err: roster.Refresh(ctx)}
	}
}
