// Package topics turns a topic modeling result into plottable series.
//
// Map is pure: the same result always yields the same series and colors, and
// nothing here depends on how the series are drawn.
package topics

import (
	"fmt"
	"math"
	"strings"

	"github.com/lucasb-eyer/go-colorful"

	"github.com/reviewdeck/reviewdeck/internal/backend"
)

// Fixed saturation and lightness for every series color.
const (
	Saturation = 0.70
	Lightness  = 0.60
)

// HSL is a color in hue (degrees), saturation, and lightness (both 0..1).
type HSL struct {
	H, S, L float64
}

// Hex renders the color as #rrggbb.
func (c HSL) Hex() string {
	return colorful.Hsl(c.H, c.S, c.L).Clamped().Hex()
}

// Hue spreads topicCount topics evenly around the color wheel.
func Hue(t, topicCount int) float64 {
	if topicCount <= 0 {
		return 0
	}
	return math.Mod(float64(t)*360/float64(topicCount), 360)
}

// Color returns the series color for topic t of topicCount.
func Color(t, topicCount int) HSL {
	return HSL{H: Hue(t, topicCount), S: Saturation, L: Lightness}
}

// Point is one review on the plot.
type Point struct {
	X, Y        float64
	ReviewIndex int
	Snippet     string
}

// Series holds every point belonging to one topic.
type Series struct {
	TopicID int
	Label   string
	Color   HSL
	Words   []string
	Points  []Point
}

// Samples returns up to n distinct non-blank snippets of the series, in point
// order.
func (s Series) Samples(n int) []string {
	var out []string
	seen := make(map[string]bool)
	for _, p := range s.Points {
		if len(out) == n {
			break
		}
		text := strings.TrimSpace(p.Snippet)
		if text == "" || seen[text] {
			continue
		}
		seen[text] = true
		out = append(out, text)
	}
	return out
}

// Map builds one series per topic index in [0, TopicCount), each holding the
// points tagged with that topic in their original order. A nil result, a zero
// topic count, or an empty point list yields an empty slice.
func Map(result *backend.TopicResult) []Series {
	if result == nil || result.TopicCount <= 0 || len(result.Points) == 0 {
		return []Series{}
	}
	n := result.TopicCount
	words := make(map[int][]string, len(result.Topics))
	for _, topic := range result.Topics {
		words[topic.TopicID] = topic.Words
	}

	series := make([]Series, n)
	for t := range series {
		series[t] = Series{
			TopicID: t,
			Label:   Label(t),
			Color:   Color(t, n),
			Words:   append([]string(nil), words[t]...),
		}
	}
	for _, p := range result.Points {
		if p.TopicID < 0 || p.TopicID >= n {
			continue
		}
		series[p.TopicID].Points = append(series[p.TopicID].Points, Point{
			X:           p.X,
			Y:           p.Y,
			ReviewIndex: p.ReviewIndex,
			Snippet:     p.ReviewSnippet,
		})
	}
	return series
}

// Label is the display name of 0-based topic t.
func Label(t int) string {
	return fmt.Sprintf("Topic %d", t+1)
}

// Bounds returns the extent of every point across series. ok is false when
// there are no points.
func Bounds(series []Series) (minX, maxX, minY, maxY float64, ok bool) {
	minX, minY = math.Inf(1), math.Inf(1)
	maxX, maxY = math.Inf(-1), math.Inf(-1)
	for _, s := range series {
		for _, p := range s.Points {
			minX = math.Min(minX, p.X)
			maxX = math.Max(maxX, p.X)
			minY = math.Min(minY, p.Y)
			maxY = math.Max(maxY, p.Y)
			ok = true
		}
	}
	if !ok {
		return 0, 0, 0, 0, false
	}
	return minX, maxX, minY, maxY, true
}
