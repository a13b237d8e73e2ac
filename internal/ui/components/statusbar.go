package components

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/Akashdeep-Patra/tenant-desk/internal/ui"
	"github.com/charmbracelet/lipgloss"
)

// StatusBarData carries the info displayed in the bottom status bar.
type StatusBarData struct {
	Visible  int
	Total    int
	Selected int
	// ActiveView is the name of the applied saved view, if any.
	ActiveView string
	Filters    int
	Loading    bool
	// Stale is set when the last refresh failed and the list shown is the
	// last one that loaded.
	Stale    bool
	Message  string // transient info/error message
	IsError  bool
	DataFile string
}

// RenderStatusBar renders the bottom status bar with visual sections
// separated by dim vertical bars.
//
// Wide (>= 60):   42/310 tenants │ 3 selected │ ◆ Late payers        tenants.yaml
// Medium (40-59):  42/310 tenants │ 3 selected │ ◆ Late payers
// Narrow (< 40):   42/310 │ 3 sel
func RenderStatusBar(styles ui.Styles, data StatusBarData, width int) string {
	t := styles.Theme

	sepStyle := lipgloss.NewStyle().Foreground(t.Border).Faint(true)
	sep := sepStyle.Render(" │ ")
	narrow := width < 40

	// ── Left sections ────────────────────────────────────────────

	countStyle := lipgloss.NewStyle().Foreground(t.Primary).Bold(true)
	count := fmt.Sprintf("%d/%d", data.Visible, data.Total)
	if !narrow {
		count += " tenants"
	}
	left := " " + countStyle.Render(count)

	if data.Selected > 0 {
		label := fmt.Sprintf("%d selected", data.Selected)
		if narrow {
			label = fmt.Sprintf("%d sel", data.Selected)
		}
		left += sep + styles.ListChecked.Render(label)
	}

	if !narrow {
		switch {
		case data.ActiveView != "":
			left += sep + lipgloss.NewStyle().Foreground(t.Accent).Render("◆ "+data.ActiveView)
		case data.Filters > 0:
			left += sep + lipgloss.NewStyle().Foreground(t.Secondary).Render(fmt.Sprintf("%d filters", data.Filters))
		}
	}

	switch {
	case data.Loading:
		left += sep + styles.Spinner.Render("⟳ loading")
	case data.Stale:
		badge := lipgloss.NewStyle().
			Foreground(t.TextInverse).
			Background(t.Warning).
			Bold(true).
			Padding(0, 1).
			Render("STALE")
		left += sep + badge
	}

	// ── Right section ────────────────────────────────────────────

	var right string
	if data.Message != "" {
		fg := t.Info
		if data.IsError {
			fg = t.Error
		}
		right = lipgloss.NewStyle().Foreground(fg).Render(data.Message) + " "
	} else if width >= 60 && data.DataFile != "" {
		right = lipgloss.NewStyle().Foreground(t.TextSubtle).Render(filepath.Base(data.DataFile)) + " "
	}

	// ── Assemble ─────────────────────────────────────────────────

	gap := width - lipgloss.Width(left) - lipgloss.Width(right)
	if gap < 0 {
		gap = 1
		right = ""
	}

	return styles.StatusBar.Width(width).Render(left + strings.Repeat(" ", gap) + right)
}
