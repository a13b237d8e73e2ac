// Package ui provides shared TUI styling, layout helpers, and theme definitions.
package ui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// MinPaneWidth is the narrowest a split pane is drawn.
const MinPaneWidth = 16

// PlaceCentre centres content both horizontally and vertically within the given dimensions.
func PlaceCentre(width, height int, content string) string {
	return lipgloss.Place(width, height, lipgloss.Center, lipgloss.Center, content)
}

// SplitWidths divides total columns between the list and the side pane.
// percent is the list's share. When the terminal is too narrow for both
// panes the list takes everything and side is 0.
func SplitWidths(total, percent int) (list, side int) {
	if total < 2*MinPaneWidth {
		return max(total, 0), 0
	}
	list = total * percent / 100
	list = min(max(list, MinPaneWidth), total-MinPaneWidth)
	return list, total - list
}

// Truncate truncates s to maxLen runes, appending "…" if truncated.
func Truncate(s string, maxLen int) string {
	if maxLen <= 0 {
		return ""
	}
	runes := []rune(s)
	if len(runes) <= maxLen {
		return s
	}
	if maxLen <= 1 {
		return "…"
	}
	return string(runes[:maxLen-1]) + "…"
}

// PadRight pads s with spaces to the given width.
func PadRight(s string, width int) string {
	n := lipgloss.Width(s)
	if n >= width {
		return s
	}
	return s + strings.Repeat(" ", width-n)
}

// FitLines pads or cuts content to exactly height lines.
func FitLines(content string, height int) string {
	if height <= 0 {
		return ""
	}
	lines := strings.Split(content, "\n")
	if len(lines) > height {
		lines = lines[:height]
	}
	for len(lines) < height {
		lines = append(lines, "")
	}
	return strings.Join(lines, "\n")
}

// RenderKeyValue renders a "key: value" pair with styles.
func RenderKeyValue(styles Styles, key, value string) string {
	return styles.KeyBind.Render(key) + " " + styles.KeyDesc.Render(value)
}

// JoinHorizontal joins items horizontally with a separator.
func JoinHorizontal(sep string, items ...string) string {
	var filtered []string
	for _, item := range items {
		if item != "" {
			filtered = append(filtered, item)
		}
	}
	return strings.Join(filtered, sep)
}
