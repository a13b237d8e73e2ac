// Package keynav translates key presses into workspace actions. It holds no
// workspace state of its own: the focused id, the selection and the ordered
// list are read from the Dispatcher on every key.
package keynav

import (
	"unicode/utf8"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/Akashdeep-Patra/tenant-desk/internal/config"
	"github.com/Akashdeep-Patra/tenant-desk/internal/workspace"
)

// FocusTarget is the logical destination of keyboard input.
type FocusTarget int

const (
	// TargetList means the tenant list owns the keyboard.
	TargetList FocusTarget = iota
	// TargetText means a text input is capturing keystrokes. Only the
	// search and palette shortcuts are honoured.
	TargetText
	// TargetPanel is a non-text pane beside the list, such as the filters
	// panel. Global shortcuts apply; list navigation does not.
	TargetPanel
	// TargetSearch is the search field itself. Printable keys, the search
	// shortcut included, are typed into it.
	TargetSearch
)

func (t FocusTarget) String() string {
	switch t {
	case TargetText:
		return "text"
	case TargetPanel:
		return "panel"
	case TargetSearch:
		return "search"
	default:
		return "list"
	}
}

// Dispatcher is the slice of the workspace store the controller needs.
type Dispatcher interface {
	Dispatch(workspace.Action)
	State() workspace.State
	VisibleIDs() []string
}

// Env carries the side effects owned by the surrounding application. Nil
// callbacks are skipped.
type Env struct {
	Open           func(id string)
	FocusSearch    func()
	CommandPalette func()
}

// KeyMap is the controller's bindings.
type KeyMap struct {
	Up       key.Binding
	Down     key.Binding
	PageUp   key.Binding
	PageDown key.Binding
	Home     key.Binding
	End      key.Binding
	Toggle   key.Binding
	Open     key.Binding
	Clear    key.Binding
	Search   key.Binding
	Palette  key.Binding
}

// NewKeyMap builds bindings from the configured key names.
func NewKeyMap(kb config.KeyBindings) KeyMap {
	return KeyMap{
		Up:       binding(kb.Up, "up"),
		Down:     binding(kb.Down, "down"),
		PageUp:   binding(kb.PageUp, "page up"),
		PageDown: binding(kb.PageDown, "page down"),
		Home:     binding(kb.Home, "first"),
		End:      binding(kb.End, "last"),
		Toggle:   binding(kb.Toggle, "select"),
		Open:     binding(kb.Open, "open"),
		Clear:    binding(kb.Clear, "clear selection"),
		Search:   binding(kb.Search, "search"),
		Palette:  binding(kb.Palette, "command palette"),
	}
}

// binding builds a key.Binding whose help label is the first key name.
func binding(keys []string, desc string) key.Binding {
	label := ""
	if len(keys) > 0 {
		label = keys[0]
		if label == " " {
			label = "space"
		}
	}
	return key.NewBinding(key.WithKeys(keys...), key.WithHelp(label, desc))
}

// Controller maps keys to actions.
type Controller struct {
	keys     KeyMap
	store    Dispatcher
	env      Env
	pageSize int
}

// New returns a controller dispatching into store.
func New(kb config.KeyBindings, store Dispatcher, env Env) *Controller {
	return &Controller{
		keys:     NewKeyMap(kb),
		store:    store,
		env:      env,
		pageSize: 10,
	}
}

// Keys returns the controller's bindings, for help rendering.
func (c *Controller) Keys() KeyMap { return c.keys }

// SetPageSize sets how many rows page up/down move by.
func (c *Controller) SetPageSize(n int) { c.pageSize = max(1, n) }

// Handle processes msg for the given focus target and reports whether it
// was consumed.
//
// The search shortcut moves focus to the search field from every target
// except the search field, which keeps printable keys as text.
func (c *Controller) Handle(msg tea.KeyMsg, target FocusTarget) bool {
	if target == TargetSearch && printable(msg) {
		return false
	}

	switch {
	case key.Matches(msg, c.keys.Search):
		call(c.env.FocusSearch)
		return true
	case key.Matches(msg, c.keys.Palette):
		call(c.env.CommandPalette)
		return true
	}

	if target != TargetList {
		return false
	}

	switch {
	case key.Matches(msg, c.keys.Down):
		c.move(func(i, n int) int { return (i + 1) % n })
	case key.Matches(msg, c.keys.Up):
		c.move(func(i, n int) int { return (i - 1 + n) % n })
	case key.Matches(msg, c.keys.PageDown):
		c.move(func(i, n int) int { return min(n-1, i+c.pageSize) })
	case key.Matches(msg, c.keys.PageUp):
		c.move(func(i, n int) int { return max(0, i-c.pageSize) })
	case key.Matches(msg, c.keys.Home):
		c.move(func(int, int) int { return 0 })
	case key.Matches(msg, c.keys.End):
		c.move(func(_, n int) int { return n - 1 })
	case key.Matches(msg, c.keys.Toggle):
		if id, ok := c.focused(); ok {
			c.store.Dispatch(workspace.ToggleSelect{ID: id})
		}
	case key.Matches(msg, c.keys.Open):
		if id, ok := c.focused(); ok && c.env.Open != nil {
			c.env.Open(id)
		}
	case key.Matches(msg, c.keys.Clear):
		if c.store.State().Selection.Empty() {
			return false
		}
		c.store.Dispatch(workspace.ClearSelection{})
	default:
		return false
	}
	return true
}

// move dispatches set-focus to next(i, n). A focus that is missing from the
// list counts as no focus and lands on index 0.
func (c *Controller) move(next func(i, n int) int) {
	ids := c.store.VisibleIDs()
	if len(ids) == 0 {
		return
	}
	i := indexOf(ids, c.store.State().FocusedID)
	if i < 0 {
		i = 0
	} else {
		i = next(i, len(ids))
	}
	c.store.Dispatch(workspace.SetFocus{ID: ids[i]})
}

// focused returns the focused id if it is still in the list.
func (c *Controller) focused() (string, bool) {
	id := c.store.State().FocusedID
	if id == "" || indexOf(c.store.VisibleIDs(), id) < 0 {
		return "", false
	}
	return id, true
}

func indexOf(ids []string, id string) int {
	if id == "" {
		return -1
	}
	for i, v := range ids {
		if v == id {
			return i
		}
	}
	return -1
}

func printable(msg tea.KeyMsg) bool {
	switch msg.Type {
	case tea.KeyRunes:
		return !msg.Alt
	case tea.KeySpace:
		return true
	}
	s := msg.String()
	return utf8.RuneCountInString(s) == 1
}

func call(fn func()) {
	if fn != nil {
		fn()
	}
}
