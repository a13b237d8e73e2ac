package app

import (
	"github.com/Akashdeep-Patra/tenant-desk/internal/config"
	"github.com/Akashdeep-Patra/tenant-desk/internal/keynav"
	"github.com/Akashdeep-Patra/tenant-desk/internal/ui/components"
	"github.com/charmbracelet/bubbles/key"
)

// KeyMap defines the workspace keybindings handled by the app itself. List
// navigation, selection, search and the palette chord belong to the
// keynav controller.
type KeyMap struct {
	Quit          key.Binding
	Help          key.Binding
	Refresh       key.Binding
	SaveView      key.Binding
	SavedViews    key.Binding
	FiltersPanel  key.Binding
	WatchlistOnly key.Binding
	ArrearsOnly   key.Binding
	ClearFilters  key.Binding
	Copy          key.Binding
	GrowList      key.Binding
	ShrinkList    key.Binding
	NextPane      key.Binding
	Back          key.Binding
	PinnedView    key.Binding

	// Search field only.
	RecallOlder key.Binding
	RecallNewer key.Binding
	Commit      key.Binding
}

// NewKeyMap builds the app bindings from configured key names.
func NewKeyMap(kb config.KeyBindings) KeyMap {
	return KeyMap{
		Quit:          bind(kb.Quit, "quit"),
		Help:          bind(kb.Help, "help"),
		Refresh:       bind(kb.Refresh, "refresh"),
		SaveView:      bind(kb.SaveView, "save view"),
		SavedViews:    bind(kb.SavedViews, "saved views"),
		FiltersPanel:  bind(kb.FiltersPanel, "filters panel"),
		WatchlistOnly: bind(kb.WatchlistOnly, "watchlist only"),
		ArrearsOnly:   bind(kb.ArrearsOnly, "arrears only"),
		ClearFilters:  bind(kb.ClearFilters, "clear filters"),
		Copy:          bind(kb.Copy, "copy email"),
		GrowList:      bind(kb.GrowList, "widen list"),
		ShrinkList:    bind(kb.ShrinkList, "narrow list"),
		NextPane:      key.NewBinding(key.WithKeys("tab"), key.WithHelp("tab", "switch pane")),
		Back:          key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc", "back")),
		PinnedView: key.NewBinding(
			key.WithKeys("1", "2", "3", "4", "5", "6", "7", "8", "9"),
			key.WithHelp("1-9", "pinned view"),
		),

		RecallOlder: key.NewBinding(key.WithKeys("up", "ctrl+p"), key.WithHelp("↑", "older search")),
		RecallNewer: key.NewBinding(key.WithKeys("down", "ctrl+n"), key.WithHelp("↓", "newer search")),
		Commit:      key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "apply search")),
	}
}

func bind(keys []string, desc string) key.Binding {
	label := ""
	if len(keys) > 0 {
		label = keys[0]
	}
	return key.NewBinding(key.WithKeys(keys...), key.WithHelp(label, desc))
}

// helpEntry renders a binding as a help line, listing every key.
func helpEntry(b key.Binding) components.HelpEntry {
	keys := b.Keys()
	label := b.Help().Key
	if len(keys) > 1 {
		label = ""
		for i, k := range keys {
			if k == " " {
				k = "space"
			}
			if i > 0 {
				label += " / "
			}
			label += k
		}
	}
	return components.HelpEntry{Key: label, Desc: b.Help().Desc}
}

// HelpSections groups every binding for the help overlay.
func HelpSections(app KeyMap, nav keynav.KeyMap) map[string][]components.HelpEntry {
	return map[string][]components.HelpEntry{
		"Navigation": {
			helpEntry(nav.Up),
			helpEntry(nav.Down),
			helpEntry(nav.PageUp),
			helpEntry(nav.PageDown),
			helpEntry(nav.Home),
			helpEntry(nav.End),
			helpEntry(nav.Open),
			helpEntry(app.NextPane),
		},
		"Selection": {
			helpEntry(nav.Toggle),
			helpEntry(nav.Clear),
			helpEntry(app.Copy),
		},
		"Search": {
			helpEntry(nav.Search),
			helpEntry(app.Commit),
			{Key: "↑ / ↓", Desc: "recent searches"},
			helpEntry(nav.Palette),
		},
		"Filters": {
			helpEntry(app.FiltersPanel),
			helpEntry(app.WatchlistOnly),
			helpEntry(app.ArrearsOnly),
			helpEntry(app.ClearFilters),
		},
		"Saved views": {
			helpEntry(app.SaveView),
			helpEntry(app.SavedViews),
			{Key: app.PinnedView.Help().Key, Desc: app.PinnedView.Help().Desc},
		},
		"Layout": {
			helpEntry(app.GrowList),
			helpEntry(app.ShrinkList),
		},
		"General": {
			helpEntry(app.Refresh),
			helpEntry(app.Help),
			helpEntry(app.Quit),
		},
	}
}
