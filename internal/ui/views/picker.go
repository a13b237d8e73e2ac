package views

import (
	"fmt"
	"strings"

	"github.com/Akashdeep-Patra/tenant-desk/internal/common"
	"github.com/Akashdeep-Patra/tenant-desk/internal/config"
	"github.com/Akashdeep-Patra/tenant-desk/internal/ui"
	"github.com/Akashdeep-Patra/tenant-desk/internal/ui/components"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// PickerKind is what a picker entry stands for.
type PickerKind int

const (
	PickSavedView PickerKind = iota
	PickCommand
	PickRecentSearch
)

// PickerItem is one entry in the picker.
type PickerItem struct {
	Kind   PickerKind
	ID     string
	Title  string
	Hint   string
	Pinned bool
	Active bool
}

// PickedMsg is sent when an entry is chosen.
type PickedMsg struct{ Item PickerItem }

// PinViewMsg asks the app to toggle a saved view's pin.
type PinViewMsg struct{ ID string }

// DeleteViewMsg asks the app to delete a saved view after confirmation.
type DeleteViewMsg struct {
	ID   string
	Name string
}

// PickerView is a modal list with an incremental query. It serves both as
// the saved-view picker and as the command palette.
type PickerView struct {
	styles ui.Styles
	title  string
	items  []PickerItem
	query  textinput.Model
	cursor int
	width  int
	height int

	pin key.Binding
	del key.Binding
}

// NewPickerView creates a closed picker.
func NewPickerView(styles ui.Styles, kb config.KeyBindings) *PickerView {
	ti := textinput.New()
	ti.Prompt = "› "
	ti.Placeholder = "type to filter"
	ti.CharLimit = 60
	return &PickerView{
		styles: styles,
		query:  ti,
		pin:    key.NewBinding(key.WithKeys(kb.TogglePin...), key.WithHelp(first(kb.TogglePin), "pin")),
		del:    key.NewBinding(key.WithKeys(kb.DeleteView...), key.WithHelp(first(kb.DeleteView), "delete")),
	}
}

// Open resets the picker with items. When typing is true the query field
// takes the keyboard straight away, as the command palette does.
func (v *PickerView) Open(title string, items []PickerItem, typing bool) tea.Cmd {
	v.title = title
	v.items = items
	v.cursor = 0
	for i, it := range items {
		if it.Active {
			v.cursor = i
			break
		}
	}
	v.query.Reset()
	if typing {
		return v.query.Focus()
	}
	v.query.Blur()
	return nil
}

// SetItems replaces the entries, keeping the cursor on the same id when it
// is still present.
func (v *PickerView) SetItems(items []PickerItem) {
	var id string
	if it, ok := v.current(); ok {
		id = it.ID
	}
	v.items = items
	v.cursor = 0
	for i, it := range v.matches() {
		if it.ID == id {
			v.cursor = i
			break
		}
	}
}

func (v *PickerView) Init() tea.Cmd { return nil }

func (v *PickerView) SetSize(w, h int) {
	v.width = w
	v.height = h
	v.query.Width = max(10, v.boxWidth()-10)
}

func (v *PickerView) boxWidth() int { return min(64, max(v.width-4, 24)) }

// matches returns the entries whose title or hint contains the query.
func (v *PickerView) matches() []PickerItem {
	q := strings.ToLower(strings.TrimSpace(v.query.Value()))
	if q == "" {
		return v.items
	}
	var out []PickerItem
	for _, it := range v.items {
		if strings.Contains(strings.ToLower(it.Title), q) || strings.Contains(strings.ToLower(it.Hint), q) {
			out = append(out, it)
		}
	}
	return out
}

func (v *PickerView) current() (PickerItem, bool) {
	m := v.matches()
	if v.cursor < 0 || v.cursor >= len(m) {
		return PickerItem{}, false
	}
	return m[v.cursor], true
}

func (v *PickerView) Update(msg tea.Msg) (common.View, tea.Cmd) {
	k, ok := msg.(tea.KeyMsg)
	if !ok {
		return v, nil
	}
	n := len(v.matches())

	switch k.String() {
	case "esc":
		if v.query.Focused() && v.query.Value() != "" {
			v.query.Reset()
			v.cursor = 0
			return v, nil
		}
		return v, common.Send(common.ClosePaneMsg{})
	case "enter":
		if it, ok := v.current(); ok {
			return v, common.Send(PickedMsg{Item: it})
		}
		return v, nil
	case "down", "ctrl+n":
		if n > 0 {
			v.cursor = (v.cursor + 1) % n
		}
		return v, nil
	case "up", "ctrl+p":
		if n > 0 {
			v.cursor = (v.cursor - 1 + n) % n
		}
		return v, nil
	case "tab":
		if v.query.Focused() {
			v.query.Blur()
			return v, nil
		}
		return v, v.query.Focus()
	}

	if v.query.Focused() {
		var cmd tea.Cmd
		v.query, cmd = v.query.Update(msg)
		v.cursor = min(v.cursor, max(len(v.matches())-1, 0))
		return v, cmd
	}

	switch {
	case k.String() == "j":
		if n > 0 {
			v.cursor = (v.cursor + 1) % n
		}
	case k.String() == "k":
		if n > 0 {
			v.cursor = (v.cursor - 1 + n) % n
		}
	case key.Matches(k, v.pin):
		if it, ok := v.current(); ok && it.Kind == PickSavedView {
			return v, common.Send(PinViewMsg{ID: it.ID})
		}
	case key.Matches(k, v.del):
		if it, ok := v.current(); ok && it.Kind == PickSavedView {
			return v, common.Send(DeleteViewMsg{ID: it.ID, Name: it.Title})
		}
	}
	return v, nil
}

func (v *PickerView) View() string {
	t := v.styles.Theme
	w := v.boxWidth()
	m := v.matches()

	var b strings.Builder
	b.WriteString(v.styles.Title.Render(v.title) + "\n")
	b.WriteString(v.query.View() + "\n\n")

	listH := max(3, min(12, v.height-10))
	start := 0
	if v.cursor >= listH {
		start = v.cursor - listH + 1
	}
	end := min(len(m), start+listH)

	if len(m) == 0 {
		b.WriteString(v.styles.Muted.Render("  nothing matches") + "\n")
	}
	for i := start; i < end; i++ {
		it := m[i]
		icon := "  "
		switch {
		case it.Kind == PickSavedView && it.Pinned:
			icon = lipgloss.NewStyle().Foreground(t.Accent).Render("◆ ")
		case it.Kind == PickSavedView:
			icon = v.styles.Muted.Render("◇ ")
		case it.Kind == PickRecentSearch:
			icon = v.styles.Muted.Render("↺ ")
		case it.Kind == PickCommand:
			icon = v.styles.Muted.Render("› ")
		}
		title := it.Title
		if it.Active {
			title += " •"
		}
		line := icon + ui.Truncate(title, w-24)
		if it.Hint != "" {
			line = ui.PadRight(line, w-18) + v.styles.Muted.Render(ui.Truncate(it.Hint, 14))
		}
		if i == v.cursor {
			b.WriteString(v.styles.ListSelected.Render("▸ "+line) + "\n")
		} else {
			b.WriteString("  " + line + "\n")
		}
	}
	if len(m) > end {
		b.WriteString(v.styles.Muted.Render(fmt.Sprintf("  … %d more", len(m)-end)) + "\n")
	}

	hint := "enter apply  tab type/browse  esc close"
	if !v.query.Focused() {
		hint = "enter apply  " + v.pin.Help().Key + " pin  " + v.del.Help().Key + " delete  tab filter  esc close"
	}
	b.WriteString("\n" + v.styles.Muted.Render(hint))

	return lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(t.BorderFocused).
		Padding(0, 1).
		Width(w).
		Render(b.String())
}

func (v *PickerView) ShortHelp() []components.HelpEntry {
	return []components.HelpEntry{
		{Key: "enter", Desc: "apply"},
		{Key: v.pin.Help().Key, Desc: "pin"},
		{Key: v.del.Help().Key, Desc: "delete"},
		{Key: "esc", Desc: "close"},
	}
}

// InputCapture is true while the query field is being typed into.
func (v *PickerView) InputCapture() bool { return v.query.Focused() }

func first(keys []string) string {
	if len(keys) == 0 {
		return ""
	}
	return keys[0]
}
