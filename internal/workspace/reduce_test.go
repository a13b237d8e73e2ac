package workspace

import (
	"fmt"
	"math/rand/v2"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Akashdeep-Patra/tenant-desk/internal/filter"
	"github.com/Akashdeep-Patra/tenant-desk/internal/selection"
	"github.com/Akashdeep-Patra/tenant-desk/internal/tenant"
)

// stateOpts lets cmp compare the opaque selection set.
var stateOpts = cmp.Options{
	cmp.Comparer(func(a, b selection.Set) bool { return a.Equal(b) }),
}

func TestReduce_RecordSearch(t *testing.T) {
	s := DefaultState()
	for _, q := range []string{"Alice", "alice", "Alice"} {
		s = Reduce(s, RecordSearch{Text: q})
	}
	assert.Equal(t, []string{"Alice", "alice"}, s.RecentSearches)

	same := Reduce(s, RecordSearch{Text: "   "})
	assert.Equal(t, s.RecentSearches, same.RecentSearches, "blank input is a no-op")

	spaced := Reduce(s, RecordSearch{Text: "Alice "})
	assert.Equal(t, []string{"Alice ", "Alice", "alice"}, spaced.RecentSearches, "text is recorded as typed")
}

func TestReduce_RecordSearchKeepsEight(t *testing.T) {
	s := DefaultState()
	for i := 0; i < 12; i++ {
		s = Reduce(s, RecordSearch{Text: fmt.Sprintf("q%d", i)})
	}
	require.Len(t, s.RecentSearches, MaxRecentSearches)
	assert.Equal(t, "q11", s.RecentSearches[0])
	assert.Equal(t, "q4", s.RecentSearches[7])
}

func TestReduce_SetLayoutClamps(t *testing.T) {
	s := DefaultState()
	assert.Equal(t, 60, Reduce(s, SetLayout{SplitPercent: 70}).Layout.SplitPercent)
	assert.Equal(t, 24, Reduce(s, SetLayout{SplitPercent: 10}).Layout.SplitPercent)
	assert.Equal(t, 33, Reduce(s, SetLayout{SplitPercent: 33}).Layout.SplitPercent)
}

func TestReduce_FilterEditsClearSavedView(t *testing.T) {
	loaded := Reduce(DefaultState(), ReplaceFilters{Filters: filter.Default().ToggleTag("pets"), SavedViewID: "v1"})
	require.Equal(t, "v1", loaded.ActiveSavedViewID)

	edits := []Action{
		SetFilter{Key: KeySearch, Value: "bob"},
		ToggleTag{Tag: "parking"},
		ToggleTag{Tag: "vip", Custom: true},
		ToggleStage{Stage: tenant.StageActive},
		ToggleTier{Tier: filter.TierLow},
		ReplaceFilters{Filters: filter.Default()},
		ClearFilters{},
	}
	for _, a := range edits {
		got := Reduce(loaded, a)
		assert.Empty(t, got.ActiveSavedViewID, "%T should clear the saved view", a)
		assert.True(t, IsFilterAction(a))
	}

	kept := []Action{
		ToggleSelect{ID: "t1"},
		SetFocus{ID: "t1"},
		RecordSearch{Text: "x"},
		SetLayout{SplitPercent: 50},
		SetFiltersPanelOpen{Open: true},
	}
	for _, a := range kept {
		assert.Equal(t, "v1", Reduce(loaded, a).ActiveSavedViewID, "%T should keep the saved view", a)
		assert.False(t, IsFilterAction(a))
	}
}

func TestReduce_SetFilter(t *testing.T) {
	s := DefaultState()

	s = Reduce(s, SetFilter{Key: KeyHealthMin, Value: 80})
	s = Reduce(s, SetFilter{Key: KeyHealthMax, Value: 20})
	assert.Equal(t, 20, s.Filters.HealthMin, "inverted range is swapped")
	assert.Equal(t, 80, s.Filters.HealthMax)

	s = Reduce(s, SetFilter{Key: KeyLastContactWithinDays, Value: 14})
	require.NotNil(t, s.Filters.LastContactWithinDays)
	assert.Equal(t, 14, *s.Filters.LastContactWithinDays)
	s = Reduce(s, SetFilter{Key: KeyLastContactWithinDays, Value: nil})
	assert.Nil(t, s.Filters.LastContactWithinDays)

	s = Reduce(s, SetFilter{Key: KeyStages, Value: []tenant.Stage{tenant.StageNotice}})
	assert.Equal(t, []tenant.Stage{tenant.StageNotice}, s.Filters.Stages)

	s = Reduce(s, SetFilter{Key: KeyWatchlistOnly, Value: true})
	assert.True(t, s.Filters.WatchlistOnly)

	s = Reduce(s, SetFilter{Key: KeyArrearsTiers, Value: []filter.Tier{"critical"}})
	assert.Equal(t, []filter.Tier{filter.TierCritical}, s.Filters.ArrearsTiers)
}

func TestReduce_SetFilterIllTypedIsNoop(t *testing.T) {
	s := Reduce(DefaultState(), SetSavedView{ID: "v1"})
	for _, a := range []SetFilter{
		{Key: KeySearch, Value: 42},
		{Key: KeyHealthMin, Value: "high"},
		{Key: "bogus", Value: true},
	} {
		got := Reduce(s, a)
		assert.Empty(t, cmp.Diff(s, got, stateOpts), "%+v", a)
	}
}

func TestReduce_Selection(t *testing.T) {
	s := Reduce(DefaultState(), SetSelection{IDs: []string{"b", "a", "b"}})
	assert.Equal(t, []string{"a", "b"}, s.Selection.IDs())

	s = Reduce(s, ToggleSelect{ID: "a"})
	assert.Equal(t, []string{"b"}, s.Selection.IDs())

	s = Reduce(s, ClearSelection{})
	assert.True(t, s.Selection.Empty())
}

func TestReduce_ToggleSelectProperty(t *testing.T) {
	r := rand.New(rand.NewPCG(9, 9))
	s := DefaultState()
	for i := 0; i < 1000; i++ {
		id := fmt.Sprintf("id-%d", r.IntN(15))
		before := s.Selection.Len()
		s = Reduce(s, ToggleSelect{ID: id})
		diff := s.Selection.Len() - before
		require.True(t, diff == 1 || diff == -1, "size changed by %d", diff)
		require.Equal(t, s.Selection.Len(), len(selection.New(s.Selection.IDs()...).IDs()))
	}
}

func TestReduce_DoesNotMutateInput(t *testing.T) {
	s := DefaultState()
	s.RecentSearches = []string{"one"}
	s.Filters.Tags = []string{"a"}
	before := s.Clone()

	Reduce(s, RecordSearch{Text: "two"})
	Reduce(s, ToggleTag{Tag: "b"})
	Reduce(s, SetFilter{Key: KeyTags, Value: []string{"z"}})

	assert.Empty(t, cmp.Diff(before, s, stateOpts))
}

func TestReduce_PanelAndSavedView(t *testing.T) {
	s := Reduce(DefaultState(), SetFiltersPanelOpen{Open: true})
	assert.True(t, s.FiltersPanelOpen)
	s = Reduce(s, SetSavedView{ID: "v2"})
	assert.Equal(t, "v2", s.ActiveSavedViewID)
	s = Reduce(s, SetSavedView{})
	assert.Empty(t, s.ActiveSavedViewID)
}

func TestSanitize(t *testing.T) {
	in := State{
		Filters:        filter.Filters{HealthMin: 90, HealthMax: 10},
		Selection:      selection.New("x", "y"),
		Layout:         Layout{SplitPercent: 99},
		RecentSearches: []string{"a", " ", "b", "a", "c", "d", "e", "f", "g", "h", "i"},
	}
	got := in.Sanitize()

	assert.Equal(t, 10, got.Filters.HealthMin)
	assert.Equal(t, 90, got.Filters.HealthMax)
	assert.Equal(t, SplitMax, got.Layout.SplitPercent)
	assert.Equal(t, []string{"a", "b", "c", "d", "e", "f", "g", "h"}, got.RecentSearches)
	assert.Equal(t, []string{"x", "y"}, got.Selection.IDs())
}
