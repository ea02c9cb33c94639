package ui

import (
	"fmt"
	"math"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/reviewdeck/reviewdeck/internal/topics"
)

const (
	plotMark  = '●'
	focusMark = '◆'
	emptyCell = -1
	noFocus   = -1
)

// plotGrid places every point on a width x height character grid. Each cell
// holds the index into series of the last point drawn there, or emptyCell.
// Row 0 is the top of the plot.
func plotGrid(series []topics.Series, width, height int) [][]int {
	grid := make([][]int, height)
	for y := range grid {
		grid[y] = make([]int, width)
		for x := range grid[y] {
			grid[y][x] = emptyCell
		}
	}
	minX, maxX, minY, maxY, ok := topics.Bounds(series)
	if !ok || width <= 0 || height <= 0 {
		return grid
	}
	for i, s := range series {
		for _, p := range s.Points {
			row, col := plotCell(p, minX, maxX, minY, maxY, width, height)
			grid[row][col] = i
		}
	}
	return grid
}

func plotCell(p topics.Point, minX, maxX, minY, maxY float64, width, height int) (row, col int) {
	return height - 1 - scale(p.Y, minY, maxY, height), scale(p.X, minX, maxX, width)
}

// plotPoint is one point of the plot in stepping order: topics in series
// order, then points in the order the backend returned them.
type plotPoint struct {
	series int
	topics.Point
}

func flattenPoints(series []topics.Series) []plotPoint {
	var out []plotPoint
	for i, s := range series {
		for _, p := range s.Points {
			out = append(out, plotPoint{series: i, Point: p})
		}
	}
	return out
}

// scale maps v from [lo, hi] onto [0, cells). A degenerate range lands in the
// middle.
func scale(v, lo, hi float64, cells int) int {
	if hi-lo == 0 {
		return cells / 2
	}
	pos := int(math.Round((v - lo) / (hi - lo) * float64(cells-1)))
	return max(0, min(cells-1, pos))
}

// renderScatter draws the projected review points colored by topic, followed
// by a legend with one entry per topic. When focus indexes a point of
// flattenPoints(series), that point is marked and its snippet is shown under
// the legend.
func renderScatter(series []topics.Series, width, height, focus int) string {
	width = max(8, width)
	styles := make([]lipgloss.Style, len(series))
	for i, s := range series {
		styles[i] = lipgloss.NewStyle().Foreground(lipgloss.Color(s.Color.Hex()))
	}

	grid := plotGrid(series, width, height)
	points := flattenPoints(series)
	focusRow, focusCol := -1, -1
	var focused plotPoint
	if focus >= 0 && focus < len(points) {
		focused = points[focus]
		minX, maxX, minY, maxY, _ := topics.Bounds(series)
		focusRow, focusCol = plotCell(focused.Point, minX, maxX, minY, maxY, width, height)
	}

	var b strings.Builder
	for y, row := range grid {
		for x, c := range row {
			switch {
			case y == focusRow && x == focusCol:
				b.WriteString(styles[focused.series].Bold(true).Render(string(focusMark)))
			case c == emptyCell:
				b.WriteByte(' ')
			default:
				b.WriteString(styles[c].Render(string(plotMark)))
			}
		}
		b.WriteString("\n")
	}

	legend := make([]string, 0, len(series))
	for i, s := range series {
		legend = append(legend, styles[i].Render(string(plotMark))+" "+s.Label)
	}
	b.WriteString(strings.Join(legend, "  "))

	if focusRow >= 0 {
		b.WriteString("\n")
		head := fmt.Sprintf("%c %s · %d/%d · review #%d: ",
			focusMark, series[focused.series].Label, focus+1, len(points), focused.ReviewIndex+1)
		snippet := focused.Snippet
		if snippet == "" {
			snippet = "(no snippet)"
		}
		b.WriteString(styles[focused.series].Render(head))
		b.WriteString(truncate(snippet, max(10, width-len([]rune(head)))))
	}
	return b.String()
}
