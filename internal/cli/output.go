package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"
	"unicode/utf8"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"
	"golang.org/x/term"
	"gopkg.in/yaml.v3"
)

const (
	formatTable = "table"
	formatJSON  = "json"
	formatYAML  = "yaml"

	minTextColumn = 20
)

func parseFormat(s string) (string, error) {
	switch f := strings.ToLower(strings.TrimSpace(s)); f {
	case "", formatTable:
		return formatTable, nil
	case formatJSON, formatYAML:
		return f, nil
	default:
		return "", fmt.Errorf("unknown output format %q (want table, json, or yaml)", s)
	}
}

// writeStructured encodes v as JSON or YAML. It reports false for the table
// format so the caller can render its own table.
func writeStructured(w io.Writer, format string, v any) (bool, error) {
	switch format {
	case formatJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return true, enc.Encode(v)
	case formatYAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(v); err != nil {
			return true, err
		}
		return true, enc.Close()
	default:
		return false, nil
	}
}

func newTable(w io.Writer) table.Writer {
	tw := table.NewWriter()
	tw.SetOutputMirror(w)
	tw.SetStyle(table.StyleRounded)
	tw.Style().Options.SeparateRows = false
	tw.Style().Options.DrawBorder = true
	return tw
}

// textColumnWidth is the width left for one free-text column after the fixed
// columns take reserved characters. Non-terminal writers get no limit.
func textColumnWidth(w io.Writer, reserved int) int {
	width := detectTerminalWidth(w)
	if width <= 0 {
		return 0
	}
	return max(minTextColumn, width-reserved)
}

// detectTerminalWidth returns the width of w when it is a terminal, or -1.
func detectTerminalWidth(w io.Writer) int {
	if f, ok := w.(*os.File); ok {
		if width, _, err := term.GetSize(int(f.Fd())); err == nil {
			return width
		}
	}
	return -1
}

// truncTransformer ellipsizes cells longer than limit runes. A limit of zero
// disables it.
func truncTransformer(limit int) text.Transformer {
	return func(val any) string {
		s := fmt.Sprint(val)
		if limit <= 0 || utf8.RuneCountInString(s) <= limit {
			return s
		}
		if limit == 1 {
			return "…"
		}
		return string([]rune(s)[:limit-1]) + "…"
	}
}
