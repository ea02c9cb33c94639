package ui

import (
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/lipgloss"
)

// renderHelp draws the full key reference. Any key closes it.
func (m Model) renderHelp() string {
	styles := m.theme.Styles()
	var b strings.Builder
	b.WriteString(styles.Logo.Render("reviewdeck") + " " + styles.MutedText.Render("keys"))
	b.WriteString("\n\n")

	groups := []string{"Navigation", "Apps", "Detail", "General"}
	for i, column := range m.keys.FullHelp() {
		title := ""
		if i < len(groups) {
			title = groups[i]
		}
		b.WriteString(styles.AccentText.Bold(true).Render(title))
		b.WriteString("\n")
		b.WriteString(helpColumn(m, column))
		b.WriteString("\n")
	}
	b.WriteString(styles.FaintText.Render("Theme: " + m.theme.Name + " · press any key to close"))

	box := styles.FocusedPane.Padding(1, 2).Render(b.String())
	if m.width == 0 || m.height == 0 {
		return box
	}
	return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, box)
}

func helpColumn(m Model, bindings []key.Binding) string {
	styles := m.theme.Styles()
	var b strings.Builder
	for _, binding := range bindings {
		if !binding.Enabled() {
			continue
		}
		h := binding.Help()
		b.WriteString("  ")
		b.WriteString(styles.WarningText.Width(14).Render(h.Key))
		b.WriteString(styles.Text.Render(h.Desc))
		b.WriteString("\n")
	}
	return b.String()
}
