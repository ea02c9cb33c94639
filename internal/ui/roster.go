package ui

import (
	"fmt"
	"strings"

	"github.com/reviewdeck/reviewdeck/internal/backend"
)

// renderRoster draws the app list. The app shown in the detail pane is
// highlighted; the cursor is marked while the roster has focus.
func (m Model) renderRoster(width, height int) string {
	styles := m.theme.Styles()
	apps := m.rosterSnap.Apps

	if len(apps) == 0 {
		switch {
		case !m.rosterSnap.Loaded && m.rosterSnap.LastError != nil:
			return styles.DangerText.Render("Could not load apps.") + "\n" +
				styles.FaintText.Render("Press r to retry.")
		case !m.rosterSnap.Loaded:
			return styles.MutedText.Render(m.spinner.View() + " Loading apps...")
		default:
			return styles.MutedText.Render("No apps registered yet.") + "\n" +
				styles.FaintText.Render("Press a to collect reviews.")
		}
	}

	// Keep the cursor visible; each entry takes two lines.
	perPage := max(1, height/2)
	start := 0
	if m.cursor >= perPage {
		start = m.cursor - perPage + 1
	}
	end := min(len(apps), start+perPage)

	active := m.detailSnap.AppID()
	var b strings.Builder
	for i := start; i < end; i++ {
		app := apps[i]
		marker := "  "
		if i == m.cursor && m.focused == paneRoster {
			marker = "› "
		}
		title := marker + truncate(displayName(app), width-len([]rune(marker)))
		meta := "  " + rosterMeta(app)

		line1, line2 := styles.Text.Render(title), styles.FaintText.Render(meta)
		if app.AppID == active {
			line1 = styles.Selected.Width(width).Render(title)
			line2 = styles.Selected.Width(width).Render(meta)
		}
		if app.HasOverallAnalysis() && lenRunes(meta)+11 <= width {
			line2 += " " + styles.BadgeStyle("analyzed").Render("analyzed")
		}
		if kind, busy := m.ops.Running(app.AppID); busy {
			line1 += " " + styles.BadgeStyle("running").Render(kind.String())
		}
		b.WriteString(line1)
		b.WriteString("\n")
		b.WriteString(line2)
		if i < end-1 {
			b.WriteString("\n")
		}
	}
	return b.String()
}

func displayName(app backend.AppSummary) string {
	if strings.TrimSpace(app.AppName) != "" {
		return app.AppName
	}
	return app.AppID
}

func rosterMeta(app backend.AppSummary) string {
	parts := make([]string, 0, 2)
	if app.Rating != nil {
		parts = append(parts, fmt.Sprintf("★ %.1f", *app.Rating))
	}
	parts = append(parts, pluralize(app.ReviewCount, "review", "reviews"))
	return strings.Join(parts, " · ")
}

func pluralize(n int, one, many string) string {
	if n == 1 {
		return fmt.Sprintf("%d %s", n, one)
	}
	return fmt.Sprintf("%d %s", n, many)
}

func lenRunes(s string) int {
	return len([]rune(s))
}
