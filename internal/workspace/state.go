// Package workspace holds the workspace state (filters, selection, focus,
// layout, recent searches, saved-view marker) and the store that applies
// typed actions to it.
package workspace

import (
	"slices"
	"time"

	"github.com/Akashdeep-Patra/tenant-desk/internal/filter"
	"github.com/Akashdeep-Patra/tenant-desk/internal/selection"
)

// Layout limits.
const (
	SplitMin     = 24
	SplitMax     = 60
	SplitDefault = 40

	MaxRecentSearches = 8
)

// Layout is the persisted arrangement of the workspace panes.
type Layout struct {
	// SplitPercent is the share of the width given to the list pane.
	SplitPercent int `json:"splitPercent"`
}

// SavedView is a named filter preset. Names are unique within a user's
// collection.
type SavedView struct {
	ID        string         `json:"id"`
	Name      string         `json:"name"`
	Filters   filter.Filters `json:"filters"`
	Pinned    bool           `json:"pinned"`
	UpdatedAt time.Time      `json:"updatedAt"`
}

// State is an immutable snapshot of the workspace. Values handed out by the
// store are copies; mutating them has no effect on the store.
type State struct {
	Filters           filter.Filters
	Selection         selection.Set
	FocusedID         string
	Layout            Layout
	RecentSearches    []string
	FiltersPanelOpen  bool
	ActiveSavedViewID string
}

// DefaultState is the state of a workspace with nothing persisted.
func DefaultState() State {
	return State{
		Filters: filter.Default(),
		Layout:  Layout{SplitPercent: SplitDefault},
	}
}

// Clone returns a deep copy.
func (s State) Clone() State {
	out := s
	out.Filters = s.Filters.Clone()
	out.RecentSearches = slices.Clone(s.RecentSearches)
	return out
}

// Sanitize repairs a state that came from outside the reducer (disk, a
// saved view, a test fixture) so every invariant holds.
func (s State) Sanitize() State {
	out := s.Clone()
	out.Filters = out.Filters.Normalize()
	out.Selection = selection.New(out.Selection.IDs()...)
	out.Layout.SplitPercent = ClampSplit(out.Layout.SplitPercent)

	// Replay oldest first so the most recent entries survive the cap.
	var recent []string
	for i := len(s.RecentSearches) - 1; i >= 0; i-- {
		recent = recordSearch(recent, s.RecentSearches[i])
	}
	out.RecentSearches = recent
	return out
}

// ClampSplit clamps a split percentage to [SplitMin, SplitMax].
func ClampSplit(p int) int {
	return min(max(p, SplitMin), SplitMax)
}
