package workspace

import (
	"strings"

	"github.com/Akashdeep-Patra/tenant-desk/internal/filter"
	"github.com/Akashdeep-Patra/tenant-desk/internal/selection"
	"github.com/Akashdeep-Patra/tenant-desk/internal/tenant"
)

// Reduce applies a to s and returns the next state. It is pure and total:
// unknown actions and ill-typed values return s unchanged.
//
// Any action that edits filters clears ActiveSavedViewID unless it supplies
// one itself, so an edited saved view reads as modified.
func Reduce(s State, a Action) State {
	next := s.Clone()

	switch a := a.(type) {
	case SetFilter:
		f, ok := setFilter(next.Filters, a.Key, a.Value)
		if !ok {
			return s
		}
		next.Filters = f.Normalize()
		next.ActiveSavedViewID = ""

	case ToggleTag:
		if a.Custom {
			next.Filters = next.Filters.ToggleCustomTag(a.Tag)
		} else {
			next.Filters = next.Filters.ToggleTag(a.Tag)
		}
		next.ActiveSavedViewID = ""

	case ToggleStage:
		next.Filters = next.Filters.ToggleStage(a.Stage)
		next.ActiveSavedViewID = ""

	case ToggleTier:
		next.Filters = next.Filters.ToggleTier(a.Tier).Normalize()
		next.ActiveSavedViewID = ""

	case ReplaceFilters:
		next.Filters = a.Filters.Normalize()
		next.ActiveSavedViewID = a.SavedViewID

	case ClearFilters:
		next.Filters = filter.Default()
		next.ActiveSavedViewID = ""

	case SetSelection:
		next.Selection = selection.New(a.IDs...)

	case ToggleSelect:
		next.Selection = next.Selection.Toggle(a.ID)

	case ClearSelection:
		next.Selection = selection.Set{}

	case SetFocus:
		next.FocusedID = a.ID

	case RecordSearch:
		next.RecentSearches = recordSearch(next.RecentSearches, a.Text)

	case SetLayout:
		next.Layout.SplitPercent = ClampSplit(a.SplitPercent)

	case SetFiltersPanelOpen:
		next.FiltersPanelOpen = a.Open

	case SetSavedView:
		next.ActiveSavedViewID = a.ID

	default:
		return s
	}
	return next
}

// IsFilterAction reports whether a edits the filters.
func IsFilterAction(a Action) bool {
	switch a.(type) {
	case SetFilter, ToggleTag, ToggleStage, ToggleTier, ReplaceFilters, ClearFilters:
		return true
	}
	return false
}

// recordSearch returns recent with text moved to the front. Blank input is
// ignored; matching is exact and case-sensitive, whitespace included.
func recordSearch(recent []string, text string) []string {
	if strings.TrimSpace(text) == "" {
		return recent
	}
	out := make([]string, 0, MaxRecentSearches)
	out = append(out, text)
	for _, q := range recent {
		if q == text {
			continue
		}
		if len(out) == MaxRecentSearches {
			break
		}
		out = append(out, q)
	}
	return out
}

func setFilter(f filter.Filters, key FilterKey, value any) (filter.Filters, bool) {
	out := f.Clone()
	switch key {
	case KeySearch:
		v, ok := value.(string)
		if !ok {
			return f, false
		}
		out.Search = v
	case KeyTags:
		v, ok := value.([]string)
		if !ok {
			return f, false
		}
		out.Tags = v
	case KeyCustomTags:
		v, ok := value.([]string)
		if !ok {
			return f, false
		}
		out.CustomTags = v
	case KeyStages:
		v, ok := value.([]tenant.Stage)
		if !ok {
			return f, false
		}
		out.Stages = v
	case KeyHealthMin:
		v, ok := value.(int)
		if !ok {
			return f, false
		}
		out.HealthMin = v
	case KeyHealthMax:
		v, ok := value.(int)
		if !ok {
			return f, false
		}
		out.HealthMax = v
	case KeyArrearsTiers:
		v, ok := value.([]filter.Tier)
		if !ok {
			return f, false
		}
		out.ArrearsTiers = v
	case KeyLastContactWithinDays:
		v, ok := dayWindow(value)
		if !ok {
			return f, false
		}
		out.LastContactWithinDays = v
	case KeyUpcomingEventWithinDays:
		v, ok := dayWindow(value)
		if !ok {
			return f, false
		}
		out.UpcomingEventWithinDays = v
	case KeyWatchlistOnly:
		v, ok := value.(bool)
		if !ok {
			return f, false
		}
		out.WatchlistOnly = v
	case KeyArrearsOnly:
		v, ok := value.(bool)
		if !ok {
			return f, false
		}
		out.ArrearsOnly = v
	default:
		return f, false
	}
	return out, true
}

// dayWindow accepts *int, int or nil (unconstrained).
func dayWindow(value any) (*int, bool) {
	switch v := value.(type) {
	case nil:
		return nil, true
	case *int:
		if v == nil {
			return nil, true
		}
		return filter.Days(*v), true
	case int:
		return filter.Days(v), true
	}
	return nil, false
}
