package ui

import (
	"fmt"
	"math"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/reviewdeck/reviewdeck/internal/backend"
	"github.com/reviewdeck/reviewdeck/internal/topics"
)

const (
	plotHeight   = 14
	topicSamples = 2
	noPlotText   = "No visualization available."
)

// renderDetail builds the full detail pane content for the viewport.
func (m Model) renderDetail(width int) string {
	styles := m.theme.Styles()
	snap := m.detailSnap

	if snap.App == nil {
		if snap.Loading() {
			return styles.MutedText.Render(fmt.Sprintf("%s Loading %s...", m.spinner.View(), snap.PendingAppID))
		}
		return styles.MutedText.Render("Select an app from the list, or press a to collect reviews for a new app ID.")
	}

	info := snap.App.AppInfo
	var b strings.Builder

	b.WriteString(styles.Text.Bold(true).Render(displayName(backend.AppSummary{AppID: info.AppID, AppName: info.AppName})))
	b.WriteString("\n")
	b.WriteString(styles.FaintText.Render(info.AppID))
	b.WriteString("\n\n")

	fields := []string{}
	if info.Rating != nil {
		fields = append(fields, fmt.Sprintf("%s %.1f", stars(*info.Rating), *info.Rating))
	}
	fields = append(fields, pluralize(info.ReviewCount, "review", "reviews"))
	if info.DownloadCount != "" {
		fields = append(fields, string(info.DownloadCount)+" downloads")
	}
	b.WriteString(styles.MutedText.Render(strings.Join(fields, " · ")))
	b.WriteString("\n")

	if kind, busy := m.ops.Running(info.AppID); busy {
		b.WriteString("\n")
		b.WriteString(styles.AccentText.Render(fmt.Sprintf("%s %s...", m.spinner.View(), kind.Label())))
		b.WriteString("\n")
	}
	if snap.Loading() {
		b.WriteString(styles.FaintText.Render(fmt.Sprintf("%s Loading %s...", m.spinner.View(), snap.PendingAppID)))
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(m.sectionTitle("Analysis"))
	if info.OverallAnalysis != "" {
		b.WriteString(wrap(styles.Text, info.OverallAnalysis, width))
	} else {
		b.WriteString(styles.FaintText.Render("Not analyzed yet. Press A to analyze reviews."))
	}
	b.WriteString("\n\n")

	if snap.Topics != nil {
		b.WriteString(m.sectionTitle("Topics"))
		b.WriteString(m.renderTopics(snap.Topics, width))
		b.WriteString("\n\n")
	}

	b.WriteString(m.sectionTitle(fmt.Sprintf("Reviews (%d)", len(snap.App.Reviews))))
	if len(snap.App.Reviews) == 0 {
		b.WriteString(styles.FaintText.Render("No reviews collected for this app."))
		return b.String()
	}
	for i, rv := range snap.App.Reviews {
		if i > 0 {
			b.WriteString("\n")
		}
		b.WriteString(m.renderReview(rv, width))
	}
	return b.String()
}

func (m Model) sectionTitle(title string) string {
	return m.theme.Styles().AccentText.Bold(true).Render(title) + "\n"
}

func (m Model) renderReview(rv backend.Review, width int) string {
	styles := m.theme.Styles()
	var b strings.Builder
	head := stars(rv.Rating)
	if rv.ReviewDate != "" {
		head += "  " + rv.ReviewDate
	}
	b.WriteString(styles.WarningText.Render(head))
	b.WriteString("\n")
	b.WriteString(wrap(styles.Text, rv.ReviewContent, width))
	b.WriteString("\n")
	if rv.IndividualAnalysis != "" {
		b.WriteString(wrap(styles.InfoText, "↳ "+rv.IndividualAnalysis, width))
		b.WriteString("\n")
	}
	return b.String()
}

func (m Model) renderTopics(result *backend.TopicResult, width int) string {
	styles := m.theme.Styles()
	series := topics.Map(result)
	byTopic := make(map[int]topics.Series, len(series))
	for _, s := range series {
		byTopic[s.TopicID] = s
	}

	var b strings.Builder
	b.WriteString(styles.MutedText.Render(fmt.Sprintf("%d topics across %s",
		result.TopicCount, pluralize(result.ReviewCount, "review", "reviews"))))
	b.WriteString("\n")

	for _, topic := range result.Topics {
		words := topic.Words
		if len(words) > m.topicWords {
			words = words[:m.topicWords]
		}
		label := lipgloss.NewStyle().
			Foreground(lipgloss.Color(topics.Color(topic.TopicID, result.TopicCount).Hex())).
			Bold(true).
			Render(topics.Label(topic.TopicID))
		b.WriteString(label + " " + styles.Text.Render(strings.Join(words, ", ")))
		b.WriteString("\n")
		for _, snippet := range byTopic[topic.TopicID].Samples(topicSamples) {
			b.WriteString(styles.FaintText.Render("  “" + truncate(snippet, max(10, width-6)) + "”"))
			b.WriteString("\n")
		}
	}

	b.WriteString("\n")
	if len(series) == 0 {
		b.WriteString(styles.FaintText.Render(noPlotText))
		return b.String()
	}
	b.WriteString(renderScatter(series, min(width, 72), plotHeight, m.pointFocus))
	if m.pointFocus == noFocus {
		b.WriteString("\n")
		b.WriteString(styles.FaintText.Render("Press ] or [ to step through review points."))
	}
	return b.String()
}

// pointCount is the number of plot points for the open topic result.
func (m Model) pointCount() int {
	if m.detailSnap.Topics == nil {
		return 0
	}
	return len(flattenPoints(topics.Map(m.detailSnap.Topics)))
}

// stepPoint moves the plot focus by delta, wrapping at either end. The first
// step from no focus lands on the first or last point.
func (m *Model) stepPoint(delta int) {
	n := m.pointCount()
	if n == 0 {
		return
	}
	switch {
	case m.pointFocus == noFocus && delta > 0:
		m.pointFocus = 0
	case m.pointFocus == noFocus:
		m.pointFocus = n - 1
	default:
		m.pointFocus = ((m.pointFocus+delta)%n + n) % n
	}
	m.layoutDetail()
}

// stars renders a whole-star rating, dropping any fraction.
func stars(rating float64) string {
	n := int(math.Floor(rating))
	n = max(0, min(5, n))
	return strings.Repeat("★", n) + strings.Repeat("☆", 5-n)
}

func wrap(style lipgloss.Style, text string, width int) string {
	return style.Width(max(10, width)).Render(text)
}
