package workspace

import (
	"github.com/Akashdeep-Patra/tenant-desk/internal/filter"
	"github.com/Akashdeep-Patra/tenant-desk/internal/tenant"
)

// Action is a named workspace transition. The set is closed: only the types
// in this file implement it.
type Action interface {
	action()
}

// FilterKey names a single dimension of filter.Filters for SetFilter.
type FilterKey string

const (
	KeySearch                  FilterKey = "search"
	KeyTags                    FilterKey = "tags"
	KeyCustomTags              FilterKey = "customTags"
	KeyStages                  FilterKey = "stages"
	KeyHealthMin               FilterKey = "healthMin"
	KeyHealthMax               FilterKey = "healthMax"
	KeyArrearsTiers            FilterKey = "arrearsTiers"
	KeyLastContactWithinDays   FilterKey = "lastContactWithinDays"
	KeyUpcomingEventWithinDays FilterKey = "upcomingEventWithinDays"
	KeyWatchlistOnly           FilterKey = "watchlistOnly"
	KeyArrearsOnly             FilterKey = "arrearsOnly"
)

// ── Filter actions ──────────────────────────────────────────────────────────

// SetFilter replaces one filter dimension. Value must have the dimension's
// Go type (string, []string, []tenant.Stage, int, []filter.Tier, *int or
// bool); a mismatched value leaves the filters unchanged.
type SetFilter struct {
	Key   FilterKey
	Value any
}

// ToggleTag flips a segment tag, or a custom tag when Custom is set.
type ToggleTag struct {
	Tag    string
	Custom bool
}

// ToggleStage flips a stage in the stage set.
type ToggleStage struct{ Stage tenant.Stage }

// ToggleTier flips an arrears tier in the tier set.
type ToggleTier struct{ Tier filter.Tier }

// ReplaceFilters swaps in a whole filter value, typically from a saved
// view. SavedViewID marks which view it came from; empty means none.
type ReplaceFilters struct {
	Filters     filter.Filters
	SavedViewID string
}

// ClearFilters resets to the match-all filter.
type ClearFilters struct{}

// ── Selection actions ───────────────────────────────────────────────────────

// SetSelection replaces the selection.
type SetSelection struct{ IDs []string }

// ToggleSelect flips one id in the selection.
type ToggleSelect struct{ ID string }

// ClearSelection empties the selection.
type ClearSelection struct{}

// SetFocus moves keyboard focus. An empty ID clears it.
type SetFocus struct{ ID string }

// ── Session actions ─────────────────────────────────────────────────────────

// RecordSearch pushes a committed search onto the recent list.
type RecordSearch struct{ Text string }

// SetLayout sets the list pane width as a percentage.
type SetLayout struct{ SplitPercent int }

// SetFiltersPanelOpen shows or hides the filters panel.
type SetFiltersPanelOpen struct{ Open bool }

// SetSavedView marks the active saved view without touching the filters.
type SetSavedView struct{ ID string }

func (SetFilter) action()           {}
func (ToggleTag) action()           {}
func (ToggleStage) action()         {}
func (ToggleTier) action()          {}
func (ReplaceFilters) action()      {}
func (ClearFilters) action()        {}
func (SetSelection) action()        {}
func (ToggleSelect) action()        {}
func (ClearSelection) action()      {}
func (SetFocus) action()            {}
func (RecordSearch) action()        {}
func (SetLayout) action()           {}
func (SetFiltersPanelOpen) action() {}
func (SetSavedView) action()        {}
