package logtail

import (
	"bufio"
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
)

// Read returns at most maxLines from the end of the file at path. A maxLines
// of zero or less returns every line.
func Read(path string, maxLines int) ([]string, error) {
	file, err := os.Open(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("open log: %w", err)
	}
	defer file.Close()

	scanner := bufio.NewScanner(file)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	if maxLines <= 0 {
		var lines []string
		for scanner.Scan() {
			lines = append(lines, scanner.Text())
		}
		if err := scanner.Err(); err != nil {
			return nil, fmt.Errorf("read log: %w", err)
		}
		return lines, nil
	}

	ring := make([]string, maxLines)
	count := 0
	idx := 0
	for scanner.Scan() {
		ring[idx] = scanner.Text()
		idx = (idx + 1) % maxLines
		if count < maxLines {
			count++
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("read log: %w", err)
	}

	lines := make([]string, count)
	if count == maxLines {
		for i := 0; i < count; i++ {
			lines[i] = ring[(idx+i)%maxLines]
		}
	} else {
		copy(lines, ring[:count])
	}
	return lines, nil
}

// Level is a log severity. Lines that do not parse have LevelUnknown.
type Level int

const (
	LevelUnknown Level = iota
	LevelDebug
	LevelInfo
	LevelWarn
	LevelError
)

// ParseLevel accepts full names and the four-letter forms the logger writes.
func ParseLevel(s string) Level {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "DEBUG", "DEBU":
		return LevelDebug
	case "INFO":
		return LevelInfo
	case "WARN", "WARNING":
		return LevelWarn
	case "ERROR", "ERRO", "FATAL", "FATA":
		return LevelError
	default:
		return LevelUnknown
	}
}

func (l Level) String() string {
	switch l {
	case LevelDebug:
		return "DEBUG"
	case LevelInfo:
		return "INFO"
	case LevelWarn:
		return "WARN"
	case LevelError:
		return "ERROR"
	default:
		return ""
	}
}

// Entry is one parsed log line:
//
//	2026-01-02T15:04:05Z INFO ops: operation started kind=ingest app=com.a
type Entry struct {
	Raw     string
	Time    string
	Level   Level
	Prefix  string
	Message string // message and key=value fields
}

// ParseLine splits a log line into its parts. Lines that do not start with a
// timestamp come back with only Raw and Message set.
func ParseLine(line string) Entry {
	entry := Entry{Raw: line, Message: line}
	fields := strings.SplitN(line, " ", 3)
	if len(fields) < 2 || !isTimestamp(fields[0]) {
		return entry
	}
	level := ParseLevel(fields[1])
	if level == LevelUnknown {
		return entry
	}
	entry.Time = fields[0]
	entry.Level = level
	entry.Message = ""
	if len(fields) == 3 {
		rest := fields[2]
		if head, tail, ok := strings.Cut(rest, " "); ok && strings.HasSuffix(head, ":") && !strings.Contains(head, "=") {
			entry.Prefix = strings.TrimSuffix(head, ":")
			rest = tail
		} else if strings.HasSuffix(rest, ":") && !strings.Contains(rest, " ") {
			entry.Prefix = strings.TrimSuffix(rest, ":")
			rest = ""
		}
		entry.Message = rest
	}
	return entry
}

func isTimestamp(s string) bool {
	if _, err := time.Parse(time.RFC3339, s); err == nil {
		return true
	}
	_, err := time.Parse("2006/01/02 15:04:05", s)
	return err == nil
}

// Filter keeps lines at or above min. Lines without a level are kept so
// continuation lines stay with their entry.
func Filter(lines []string, min Level) []string {
	if min <= LevelDebug {
		return lines
	}
	out := make([]string, 0, len(lines))
	for _, line := range lines {
		lvl := ParseLine(line).Level
		if lvl == LevelUnknown || lvl >= min {
			out = append(out, line)
		}
	}
	return out
}

// Palette styles each part of a log line.
type Palette struct {
	Time    lipgloss.Style
	Prefix  lipgloss.Style
	Message lipgloss.Style
	Levels  map[Level]lipgloss.Style
}

// DefaultPalette suits dark terminal backgrounds.
func DefaultPalette() Palette {
	return Palette{
		Time:    lipgloss.NewStyle().Foreground(lipgloss.Color("#808080")),
		Prefix:  lipgloss.NewStyle().Foreground(lipgloss.Color("#87AFFF")),
		Message: lipgloss.NewStyle(),
		Levels: map[Level]lipgloss.Style{
			LevelDebug: lipgloss.NewStyle().Foreground(lipgloss.Color("#87CEEB")).Bold(true),
			LevelInfo:  lipgloss.NewStyle().Foreground(lipgloss.Color("#5FD75F")).Bold(true),
			LevelWarn:  lipgloss.NewStyle().Foreground(lipgloss.Color("#FFD700")).Bold(true),
			LevelError: lipgloss.NewStyle().Foreground(lipgloss.Color("#FF6B6B")).Bold(true),
		},
	}
}

// ColorizeLine renders a log line with p. Unparsed lines are returned as is.
func (p Palette) ColorizeLine(line string) string {
	entry := ParseLine(line)
	if entry.Level == LevelUnknown {
		return line
	}
	var b strings.Builder
	b.WriteString(p.Time.Render(entry.Time))
	b.WriteByte(' ')
	b.WriteString(p.Levels[entry.Level].Render(entry.Level.String()))
	if entry.Prefix != "" {
		b.WriteByte(' ')
		b.WriteString(p.Prefix.Render("[" + entry.Prefix + "]"))
	}
	if entry.Message != "" {
		b.WriteByte(' ')
		b.WriteString(p.Message.Render(entry.Message))
	}
	return b.String()
}

// ColorizeLines applies ColorizeLine to every line.
func (p Palette) ColorizeLines(lines []string) []string {
	out := make([]string, len(lines))
	for i, line := range lines {
		out[i] = p.ColorizeLine(line)
	}
	return out
}
