package config

// KeyBindings defines the mapping of actions to keys.
// Kept separate so it can later be made configurable via config file.
type KeyBindings struct {
	// List navigation, honoured only while the list has keyboard focus.
	Up       []string
	Down     []string
	PageUp   []string
	PageDown []string
	Home     []string
	End      []string
	Toggle   []string
	Open     []string
	Clear    []string

	// Global.
	Search  []string
	Palette []string
	Quit    []string

	// Workspace.
	Help          []string
	Refresh       []string
	SaveView      []string
	SavedViews    []string
	FiltersPanel  []string
	WatchlistOnly []string
	ArrearsOnly   []string
	ClearFilters  []string
	Copy          []string
	GrowList      []string
	ShrinkList    []string
	TogglePin     []string
	DeleteView    []string
}

// DefaultKeyBindings returns the default key bindings.
func DefaultKeyBindings() KeyBindings {
	return KeyBindings{
		Up:       []string{"up", "k"},
		Down:     []string{"down", "j"},
		PageUp:   []string{"pgup", "ctrl+u"},
		PageDown: []string{"pgdown", "ctrl+d"},
		Home:     []string{"home", "g"},
		End:      []string{"end", "G"},
		Toggle:   []string{" ", "space"},
		Open:     []string{"enter"},
		Clear:    []string{"esc"},

		Search:  []string{"/", "f"},
		Palette: []string{"ctrl+k"},
		Quit:    []string{"q", "ctrl+c"},

		Help:          []string{"?"},
		Refresh:       []string{"r", "ctrl+r"},
		SaveView:      []string{"ctrl+s"},
		SavedViews:    []string{"v"},
		FiltersPanel:  []string{"F"},
		WatchlistOnly: []string{"w"},
		ArrearsOnly:   []string{"a"},
		ClearFilters:  []string{"x"},
		Copy:          []string{"y"},
		GrowList:      []string{">"},
		ShrinkList:    []string{"<"},
		TogglePin:     []string{"p"},
		DeleteView:    []string{"d"},
	}
}
