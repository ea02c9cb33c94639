package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/reviewdeck/reviewdeck/internal/ops"
)

const (
	maxRosterWidth = 44
	minRosterWidth = 24
	chromeLines    = 3 // header, banner, footer
)

func (m Model) rosterWidth() int {
	w := m.width / 3
	if w > maxRosterWidth {
		w = maxRosterWidth
	}
	if w < minRosterWidth {
		w = minRosterWidth
	}
	return w
}

// paneHeight is the outer height of both panes, borders included.
func (m Model) paneHeight() int {
	return max(3, m.height-chromeLines)
}

// layoutDetail sizes the detail viewport and re-renders its content.
func (m *Model) layoutDetail() {
	if !m.ready {
		return
	}
	width := max(10, m.width-m.rosterWidth()-2)
	height := max(1, m.paneHeight()-2)
	m.detailViewport.Width = width
	m.detailViewport.Height = height
	m.detailViewport.SetContent(m.renderDetail(width))
}

func (m Model) renderMain() string {
	rosterStyle, detailStyle := m.theme.Styles().Pane, m.theme.Styles().FocusedPane
	if m.focused == paneRoster {
		rosterStyle, detailStyle = detailStyle, rosterStyle
	}

	innerHeight := m.paneHeight() - 2
	roster := rosterStyle.
		Width(m.rosterWidth() - 2).
		Height(innerHeight).
		Render(m.renderRoster(m.rosterWidth()-2, innerHeight))
	detail := detailStyle.
		Width(m.detailViewport.Width).
		Height(innerHeight).
		Render(m.detailViewport.View())

	return lipgloss.JoinVertical(lipgloss.Left,
		m.renderHeader(),
		m.renderBanner(),
		lipgloss.JoinHorizontal(lipgloss.Top, roster, detail),
		m.renderFooter(),
	)
}

func (m Model) renderHeader() string {
	styles := m.theme.Styles()
	left := styles.Logo.Render("reviewdeck")
	if m.apiBase != "" {
		left += " " + styles.FaintText.Render(m.apiBase)
	}

	var right string
	switch {
	case m.rosterSnap.IsOffline():
		right = styles.BadgeStyle("offline").Render("backend offline")
	case m.rosterSnap.Refreshing:
		right = styles.MutedText.Render(m.spinner.View() + " refreshing")
	case m.rosterSnap.Loaded:
		right = styles.MutedText.Render(fmt.Sprintf("%d apps", len(m.rosterSnap.Apps)))
	}

	gap := max(1, m.width-lipgloss.Width(left)-lipgloss.Width(right)-2)
	return styles.Header.Width(m.width).Render(left + strings.Repeat(" ", gap) + right)
}

// renderBanner shows the single notification line. It always occupies one
// row so the panes do not jump.
func (m Model) renderBanner() string {
	styles := m.theme.Styles()
	switch m.note.Level {
	case ops.Success:
		return styles.SuccessBanner.Width(m.width).Render(truncate(m.note.Text, m.width-2))
	case ops.Error:
		return styles.ErrorBanner.Width(m.width).Render(truncate(m.note.Text, m.width-2))
	default:
		return ""
	}
}

func (m Model) renderFooter() string {
	styles := m.theme.Styles()
	switch {
	case m.inputActive:
		return styles.Footer.Width(m.width).Render(m.input.View() + styles.FaintText.Render("  enter collect · esc cancel"))
	case m.confirmDelete != "":
		prompt := fmt.Sprintf("Delete %s and all its reviews? (y/N)", m.confirmDelete)
		return styles.Footer.Width(m.width).Render(styles.WarningText.Render(prompt))
	default:
		return styles.Footer.Width(m.width).Render(m.help.ShortHelpView(m.keys.ShortHelp()))
	}
}

func truncate(s string, width int) string {
	if width <= 0 {
		return ""
	}
	runes := []rune(s)
	if len(runes) <= width {
		return s
	}
	if width == 1 {
		return "…"
	}
	return string(runes[:width-1]) + "…"
}
