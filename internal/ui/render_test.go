package ui

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/reviewdeck/reviewdeck/internal/backend"
	"github.com/reviewdeck/reviewdeck/internal/topics"
)

func TestPlotGrid_PlacesExtremesAtCorners(t *testing.T) {
	series := topics.Map(&backend.TopicResult{
		TopicCount: 2,
		Points: []backend.ProjectedPoint{
			{X: -10, Y: -10, TopicID: 0},
			{X: 10, Y: 10, TopicID: 1},
		},
	})

	grid := plotGrid(series, 20, 5)
	require.Len(t, grid, 5)
	assert.Equal(t, 0, grid[4][0], "lowest point belongs bottom-left")
	assert.Equal(t, 1, grid[0][19], "highest point belongs top-right")

	filled := 0
	for _, row := range grid {
		for _, cell := range row {
			if cell != emptyCell {
				filled++
			}
		}
	}
	assert.Equal(t, 2, filled)
}

func TestPlotGrid_SinglePointIsCentered(t *testing.T) {
	series := topics.Map(&backend.TopicResult{
		TopicCount: 1,
		Points:     []backend.ProjectedPoint{{X: 3, Y: 3, TopicID: 0}},
	})
	grid := plotGrid(series, 10, 4)
	assert.Equal(t, 0, grid[4-1-2][5])
}

func TestRenderScatter_HasLegendPerTopic(t *testing.T) {
	series := topics.Map(&backend.TopicResult{
		TopicCount: 3,
		Points: []backend.ProjectedPoint{
			{X: 0, Y: 0, TopicID: 0},
			{X: 1, Y: 1, TopicID: 1},
			{X: 2, Y: 0, TopicID: 2},
		},
	})
	out := renderScatter(series, 30, 6, noFocus)
	lines := strings.Split(out, "\n")
	require.Len(t, lines, 7)
	legend := lines[6]
	for _, label := range []string{"Topic 1", "Topic 2", "Topic 3"} {
		assert.Contains(t, legend, label)
	}
}

func TestRenderScatter_FocusedPointShowsSnippet(t *testing.T) {
	series := topics.Map(&backend.TopicResult{
		TopicCount: 2,
		Points: []backend.ProjectedPoint{
			{X: 0, Y: 0, TopicID: 0, ReviewIndex: 0, ReviewSnippet: "fast and clean"},
			{X: 5, Y: 5, TopicID: 1, ReviewIndex: 3, ReviewSnippet: "drains the battery"},
			{X: 9, Y: 1, TopicID: 0, ReviewIndex: 7, ReviewSnippet: "clean design"},
		},
	})
	// Stepping order is topic by topic: index 2 is the only Topic 2 point.
	out := renderScatter(series, 30, 6, 2)
	lines := strings.Split(out, "\n")
	require.Len(t, lines, 8)
	assert.Equal(t, 1, strings.Count(strings.Join(lines[:6], "\n"), string(focusMark)))
	assert.Contains(t, lines[7], "Topic 2")
	assert.Contains(t, lines[7], "3/3")
	assert.Contains(t, lines[7], "review #4")
	assert.Contains(t, lines[7], "drains the battery")

	out = renderScatter(series, 30, 6, 3)
	assert.NotContains(t, out, string(focusMark), "out of range focus marks nothing")
}

func TestRenderTopics_ShowsSampleSnippets(t *testing.T) {
	m := New(Options{})
	result := &backend.TopicResult{
		TopicCount:  2,
		ReviewCount: 5,
		Topics: []backend.Topic{
			{TopicID: 0, Words: []string{"fast", "clean"}},
			{TopicID: 1, Words: []string{"battery", "drain"}},
		},
		Points: []backend.ProjectedPoint{
			{X: 0, Y: 0, TopicID: 0, ReviewSnippet: "fast and clean"},
			{X: 1, Y: 0, TopicID: 0, ReviewSnippet: "fast and clean"},
			{X: 2, Y: 1, TopicID: 0, ReviewSnippet: "clean design"},
			{X: 3, Y: 2, TopicID: 0, ReviewSnippet: "third sample stays hidden"},
			{X: 4, Y: 3, TopicID: 1, ReviewSnippet: "drains the battery"},
		},
	}

	out := m.renderTopics(result, 80)

	assert.Equal(t, 1, strings.Count(out, "fast and clean"), "duplicate snippets are shown once")
	assert.Contains(t, out, "clean design")
	assert.NotContains(t, out, "third sample stays hidden")
	assert.Contains(t, out, "drains the battery")
	assert.Less(t, strings.Index(out, "clean design"), strings.Index(out, "Topic 2 "),
		"samples sit under their own topic")
	assert.Contains(t, out, "Press ] or [")
	assert.NotContains(t, out, string(focusMark))

	m.pointFocus = 4
	out = m.renderTopics(result, 80)
	assert.Contains(t, out, "5/5 · review #1: drains the battery")
	assert.NotContains(t, out, "Press ] or [")
}

func TestTruncate(t *testing.T) {
	assert.Equal(t, "hello", truncate("hello", 5))
	assert.Equal(t, "hel…", truncate("hello", 4))
	assert.Equal(t, "…", truncate("hello", 1))
	assert.Equal(t, "", truncate("hello", 0))
}

func TestStars(t *testing.T) {
	assert.Equal(t, "★★★★☆", stars(4.6))
	assert.Equal(t, "☆☆☆☆☆", stars(-1))
	assert.Equal(t, "★★★★★", stars(7))
}

func TestRosterMeta(t *testing.T) {
	rating := 4.5
	assert.Equal(t, "★ 4.5 · 1 review", rosterMeta(backend.AppSummary{Rating: &rating, ReviewCount: 1}))
	assert.Equal(t, "0 reviews", rosterMeta(backend.AppSummary{}))
}
