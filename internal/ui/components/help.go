package components

import (
	"strings"

	"github.com/Akashdeep-Patra/tenant-desk/internal/ui"
	"github.com/charmbracelet/lipgloss"
)

// HelpEntry is a single key-description pair for the help overlay.
type HelpEntry struct {
	Key  string
	Desc string
}

// HelpSectionOrder is the order sections appear in the help overlay.
var HelpSectionOrder = []string{"Navigation", "Selection", "Search", "Filters", "Saved views", "Layout", "General"}

// RenderHelp renders a full-screen help overlay.
func RenderHelp(styles ui.Styles, title string, sections map[string][]HelpEntry, width, height int) string {
	t := styles.Theme

	titleStr := lipgloss.NewStyle().
		Foreground(t.Primary).Bold(true).
		Align(lipgloss.Center).
		Width(max(width-4, 0)).
		Render(title)

	var body strings.Builder
	body.WriteString(titleStr + "\n\n")

	sectionStyle := lipgloss.NewStyle().Foreground(t.Accent).Bold(true).Underline(true)
	keyStyle := lipgloss.NewStyle().Foreground(t.Primary).Bold(true).Width(16).Align(lipgloss.Right)
	descStyle := lipgloss.NewStyle().Foreground(t.Text)

	for _, section := range HelpSectionOrder {
		entries, ok := sections[section]
		if !ok || len(entries) == 0 {
			continue
		}
		body.WriteString(sectionStyle.Render(section) + "\n")
		for _, e := range entries {
			body.WriteString("  " + keyStyle.Render(e.Key) + "  " + descStyle.Render(e.Desc) + "\n")
		}
		body.WriteString("\n")
	}

	overlay := lipgloss.NewStyle().
		Border(lipgloss.DoubleBorder()).
		BorderForeground(t.Primary).
		Padding(1, 3).
		Width(min(70, max(width-4, 20))).
		MaxHeight(max(height-2, 1)).
		Render(body.String())

	return ui.PlaceCentre(width, height, overlay)
}

// RenderShortHelp renders a one-line key hint strip.
func RenderShortHelp(styles ui.Styles, entries []HelpEntry, width int) string {
	parts := make([]string, 0, len(entries))
	used := 0
	for _, e := range entries {
		part := ui.RenderKeyValue(styles, e.Key, e.Desc)
		w := lipgloss.Width(part) + 3
		if used+w > width && len(parts) > 0 {
			break
		}
		parts = append(parts, part)
		used += w
	}
	return styles.HelpBar.Render(ui.JoinHorizontal(styles.Muted.Render(" · "), parts...))
}
