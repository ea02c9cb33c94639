package topics

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/reviewdeck/reviewdeck/internal/backend"
)

func TestMap_ThreeTopicsSpreadHues(t *testing.T) {
	result := &backend.TopicResult{
		TopicCount: 3,
		Points: []backend.ProjectedPoint{
			{X: 1, Y: 1, TopicID: 0, ReviewSnippet: "zero"},
			{X: 2, Y: 2, TopicID: 1, ReviewSnippet: "one"},
			{X: 3, Y: 3, TopicID: 2, ReviewSnippet: "two"},
		},
	}

	series := Map(result)
	require.Len(t, series, 3)
	hues := []float64{0, 120, 240}
	for i, s := range series {
		assert.Equal(t, i, s.TopicID)
		require.Len(t, s.Points, 1)
		assert.Equal(t, result.Points[i].ReviewSnippet, s.Points[0].Snippet)
		assert.InDelta(t, hues[i], s.Color.H, 1e-9)
		assert.Equal(t, Saturation, s.Color.S)
		assert.Equal(t, Lightness, s.Color.L)
	}
}

func TestMap_EmptyInputs(t *testing.T) {
	assert.Equal(t, []Series{}, Map(&backend.TopicResult{TopicCount: 0}))
	assert.Equal(t, []Series{}, Map(nil))
	assert.Empty(t, Map(&backend.TopicResult{TopicCount: 4}))
}

func TestMap_KeepsPointOrderAndEmptyTopics(t *testing.T) {
	result := &backend.TopicResult{
		TopicCount: 3,
		Topics: []backend.Topic{
			{TopicID: 0, Words: []string{"crash", "login"}},
			{TopicID: 2, Words: []string{"price"}},
		},
		Points: []backend.ProjectedPoint{
			{X: 5, TopicID: 0, ReviewIndex: 4},
			{X: 1, TopicID: 2, ReviewIndex: 0},
			{X: 3, TopicID: 0, ReviewIndex: 1},
			{X: 9, TopicID: 7, ReviewIndex: 2},
		},
	}

	series := Map(result)
	require.Len(t, series, 3)
	assert.Equal(t, []int{4, 1}, reviewIndexes(series[0]))
	assert.Empty(t, series[1].Points)
	assert.Equal(t, []int{0}, reviewIndexes(series[2]))
	assert.Equal(t, []string{"crash", "login"}, series[0].Words)
	assert.Nil(t, series[1].Words)
	assert.Equal(t, "Topic 1", series[0].Label)
	assert.Equal(t, "Topic 3", series[2].Label)

	result.Topics[0].Words[0] = "mutated"
	assert.Equal(t, "crash", series[0].Words[0])
}

func TestHue_IsDeterministic(t *testing.T) {
	assert.Equal(t, Hue(3, 7), Hue(3, 7))
	assert.InDelta(t, 90.0, Hue(1, 4), 1e-9)
	assert.InDelta(t, 0.0, Hue(4, 4), 1e-9)
	assert.Zero(t, Hue(1, 0))
}

func TestHSL_Hex(t *testing.T) {
	assert.Equal(t, "#ff0000", HSL{H: 0, S: 1, L: 0.5}.Hex())
	assert.Regexp(t, `^#[0-9a-f]{6}$`, Color(2, 5).Hex())
}

func TestBounds(t *testing.T) {
	_, _, _, _, ok := Bounds(nil)
	assert.False(t, ok)

	minX, maxX, minY, maxY, ok := Bounds([]Series{
		{Points: []Point{{X: -1, Y: 2}}},
		{Points: []Point{{X: 3, Y: -4}}},
	})
	require.True(t, ok)
	assert.Equal(t, []float64{-1, 3, -4, 2}, []float64{minX, maxX, minY, maxY})
}

func reviewIndexes(s Series) []int {
	out := make([]int, 0, len(s.Points))
	for _, p := range s.Points {
		out = append(out, p.ReviewIndex)
	}
	return out
}

func TestSeriesSamples(t *testing.T) {
	s := Series{Points: []Point{{Snippet: " "}, {Snippet: "one"}, {Snippet: "one"}, {Snippet: ""}, {Snippet: "two"}, {Snippet: "three"}}}
	assert.Equal(t, []string{"one", "two"}, s.Samples(2))
	assert.Equal(t, []string{"one", "two", "three"}, s.Samples(5))
	assert.Empty(t, Series{}.Samples(2))
	assert.Empty(t, s.Samples(0))
}
