package common

import (
	"github.com/Akashdeep-Patra/tenant-desk/internal/ui/components"
	tea "github.com/charmbracelet/bubbletea"
)

// ── Panes ───────────────────────────────────────────────────────────────────

// Pane identifies which part of the workspace owns the keyboard.
type Pane int

const (
	PaneList Pane = iota
	PaneSearch
	PaneFilters
	PanePicker
)

// String returns the pane's display name.
func (p Pane) String() string {
	switch p {
	case PaneList:
		return "list"
	case PaneSearch:
		return "search"
	case PaneFilters:
		return "filters"
	case PanePicker:
		return "picker"
	default:
		return "unknown"
	}
}

// ── Custom messages ─────────────────────────────────────────────────────────

// RefreshMsg asks the app to refetch tenants.
type RefreshMsg struct{}

// ErrMsg carries an error to be displayed.
type ErrMsg struct{ Err error }

// InfoMsg carries an informational message.
type InfoMsg struct{ Text string }

// OpenTenantMsg is sent when a tenant is activated from the list.
type OpenTenantMsg struct{ ID string }

// FocusSearchMsg moves keyboard focus to the search field.
type FocusSearchMsg struct{}

// CommandPaletteMsg opens the command palette.
type CommandPaletteMsg struct{}

// ClosePaneMsg returns focus from a side pane or picker to the list.
type ClosePaneMsg struct{}

// CmdRefresh returns a RefreshMsg (use as return from tea.Cmd).
func CmdRefresh() tea.Msg { return RefreshMsg{} }

// CmdErr creates a tea.Cmd that sends an ErrMsg.
func CmdErr(err error) tea.Cmd {
	return func() tea.Msg { return ErrMsg{Err: err} }
}

// CmdInfo creates a tea.Cmd that sends an InfoMsg.
func CmdInfo(text string) tea.Cmd {
	return func() tea.Msg { return InfoMsg{Text: text} }
}

// Send wraps msg in a tea.Cmd.
func Send(msg tea.Msg) tea.Cmd {
	return func() tea.Msg { return msg }
}

// ── View interface ──────────────────────────────────────────────────────────

// View is the interface every pane implements.
type View interface {
	Init() tea.Cmd
	Update(msg tea.Msg) (View, tea.Cmd)
	View() string
	SetSize(width, height int)
	ShortHelp() []components.HelpEntry

	// InputCapture returns true when the view is editing text and wants
	// letters and arrows delivered to it instead of the app's shortcuts.
	InputCapture() bool
}
