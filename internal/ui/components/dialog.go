package components

import (
	"strings"

	"github.com/Akashdeep-Patra/tenant-desk/internal/ui"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// DialogKind specifies the type of dialog.
type DialogKind int

const (
	DialogConfirm DialogKind = iota
	DialogInput
)

// Dialog tags used by the workspace.
const (
	TagSaveView   = "save-view"
	TagDeleteView = "delete-view"
)

// DialogResult is sent when the dialog is dismissed.
type DialogResult struct {
	Confirmed bool
	Value     string
	Tag       string // identifies which dialog this was
	// Ref carries caller context through the dialog, e.g. the saved view
	// id a delete confirmation is about.
	Ref string
}

// Dialog is a modal confirmation or input dialog.
type Dialog struct {
	Kind    DialogKind
	Title   string
	Message string
	Tag     string
	Ref     string
	input   textinput.Model
	focused int // 0 = yes/input, 1 = no
	styles  ui.Styles
	visible bool
	// problem is shown under the input when a submit was refused.
	problem string
}

// NewConfirmDialog creates a Yes/No confirmation dialog.
func NewConfirmDialog(styles ui.Styles, title, message, tag, ref string) Dialog {
	return Dialog{
		Kind:    DialogConfirm,
		Title:   title,
		Message: message,
		Tag:     tag,
		Ref:     ref,
		styles:  styles,
		visible: true,
		focused: 1,
	}
}

// NewInputDialog creates a text input dialog prefilled with value.
func NewInputDialog(styles ui.Styles, title, message, placeholder, value, tag string) Dialog {
	ti := textinput.New()
	ti.Placeholder = placeholder
	ti.CharLimit = 80
	ti.Width = 46
	ti.SetValue(value)
	ti.CursorEnd()
	ti.Focus()
	return Dialog{
		Kind:    DialogInput,
		Title:   title,
		Message: message,
		Tag:     tag,
		input:   ti,
		styles:  styles,
		visible: true,
	}
}

// Visible returns whether the dialog is showing.
func (d Dialog) Visible() bool { return d.visible }

// Value returns the current input text.
func (d Dialog) Value() string { return d.input.Value() }

// Update handles key events for the dialog.
func (d Dialog) Update(msg tea.Msg) (Dialog, tea.Cmd) {
	if !d.visible {
		return d, nil
	}

	if keyMsg, ok := msg.(tea.KeyMsg); ok {
		switch keyMsg.String() {
		case "esc":
			d.visible = false
			res := DialogResult{Tag: d.Tag, Ref: d.Ref}
			return d, func() tea.Msg { return res }

		case "enter":
			if d.Kind == DialogInput {
				value := strings.TrimSpace(d.input.Value())
				if value == "" {
					d.problem = "A name is required"
					return d, nil
				}
				d.visible = false
				res := DialogResult{Confirmed: true, Value: value, Tag: d.Tag, Ref: d.Ref}
				return d, func() tea.Msg { return res }
			}
			d.visible = false
			res := DialogResult{Confirmed: d.focused == 0, Tag: d.Tag, Ref: d.Ref}
			return d, func() tea.Msg { return res }

		case "y":
			if d.Kind == DialogConfirm {
				d.visible = false
				res := DialogResult{Confirmed: true, Tag: d.Tag, Ref: d.Ref}
				return d, func() tea.Msg { return res }
			}

		case "n":
			if d.Kind == DialogConfirm {
				d.visible = false
				res := DialogResult{Tag: d.Tag, Ref: d.Ref}
				return d, func() tea.Msg { return res }
			}

		case "tab", "left", "right", "h", "l":
			if d.Kind == DialogConfirm {
				d.focused = 1 - d.focused
				return d, nil
			}
		}
	}

	if d.Kind == DialogInput {
		d.problem = ""
		var cmd tea.Cmd
		d.input, cmd = d.input.Update(msg)
		return d, cmd
	}
	return d, nil
}

// View renders the dialog.
func (d Dialog) View() string {
	if !d.visible {
		return ""
	}
	t := d.styles.Theme

	title := lipgloss.NewStyle().Foreground(t.Text).Bold(true).Render(d.Title)
	var b strings.Builder
	b.WriteString(title + "\n\n")
	if d.Message != "" {
		b.WriteString(lipgloss.NewStyle().Foreground(t.TextMuted).Render(d.Message) + "\n\n")
	}

	if d.Kind == DialogConfirm {
		yes := "  Yes  "
		no := "  No   "
		activeBtn := lipgloss.NewStyle().Foreground(t.TextInverse).Background(t.Primary).Bold(true)
		inactiveBtn := lipgloss.NewStyle().Foreground(t.TextMuted).Background(t.Surface)
		if d.focused == 0 {
			yes = activeBtn.Render(yes)
			no = inactiveBtn.Render(no)
		} else {
			yes = inactiveBtn.Render(yes)
			no = activeBtn.Render(no)
		}
		b.WriteString(lipgloss.JoinHorizontal(lipgloss.Top, yes, "  ", no))
	} else {
		b.WriteString(d.input.View())
		if d.problem != "" {
			b.WriteString("\n" + lipgloss.NewStyle().Foreground(t.Error).Render(d.problem))
		}
	}

	return d.styles.Dialog.Width(56).Padding(1, 3).Render(b.String())
}
