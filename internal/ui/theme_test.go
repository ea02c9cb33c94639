package ui

import (
	"testing"

	"github.com/charmbracelet/lipgloss"
)

func TestThemeNames(t *testing.T) {
	names := ThemeNames()
	if len(names) != 3 {
		t.Fatalf("ThemeNames() returned %d names, want 3", len(names))
	}
	if names[0] != "Nightfox" || names[1] != "Kanagawa" || names[2] != "Slate" {
		t.Fatalf("ThemeNames() = %v, want [Nightfox Kanagawa Slate]", names)
	}
}

func TestNextTheme(t *testing.T) {
	if got := NextTheme("Nightfox"); got != "Kanagawa" {
		t.Fatalf("NextTheme(Nightfox) = %q, want Kanagawa", got)
	}
	if got := NextTheme("Slate"); got != "Nightfox" {
		t.Fatalf("NextTheme(Slate) = %q, want Nightfox", got)
	}
	if got := NextTheme("Unknown"); got != "Nightfox" {
		t.Fatalf("NextTheme(Unknown) = %q, want Nightfox", got)
	}
}

func TestGetTheme(t *testing.T) {
	for _, name := range ThemeNames() {
		if got := GetTheme(name); got.Name != name {
			t.Fatalf("GetTheme(%s).Name = %q", name, got.Name)
		}
	}
	if got := GetTheme("Unknown"); got.Name != "Nightfox" {
		t.Fatalf("GetTheme(Unknown).Name = %q, want Nightfox fallback", got.Name)
	}
}

func TestThemesDefineEveryBadge(t *testing.T) {
	for _, name := range ThemeNames() {
		th := GetTheme(name)
		for _, badge := range []string{"analyzed", "running", "offline", "loading"} {
			if th.BadgeColors[badge] == "" {
				t.Fatalf("theme %s has no color for badge %q", name, badge)
			}
		}
	}
}

func TestStylesDrawFromPalette(t *testing.T) {
	for _, name := range ThemeNames() {
		th := GetTheme(name)
		st := th.Styles()
		if got := st.Header.GetBackground(); got != lipgloss.Color(th.Surface) {
			t.Fatalf("theme %s header background = %v, want %s", name, got, th.Surface)
		}
		if got := st.ErrorBanner.GetForeground(); got != lipgloss.Color(th.Background) {
			t.Fatalf("theme %s banner text = %v, want %s", name, got, th.Background)
		}
		if got := st.BadgeStyle("offline").GetBackground(); got != lipgloss.Color(th.BadgeColors["offline"]) {
			t.Fatalf("theme %s offline badge = %v", name, got)
		}
		if got := st.BadgeStyle("unknown").GetBackground(); got != lipgloss.Color(th.Muted) {
			t.Fatalf("theme %s unknown badge = %v, want muted %s", name, got, th.Muted)
		}
	}
}
