package workspace

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Akashdeep-Patra/tenant-desk/internal/filter"
	"github.com/Akashdeep-Patra/tenant-desk/internal/selection"
	"github.com/Akashdeep-Patra/tenant-desk/internal/tenant"
)

var fixedNow = time.Date(2026, 10, 16, 9, 0, 0, 0, time.UTC)

func fixture() []tenant.Tenant {
	return []tenant.Tenant{
		{ID: "a", Name: "Alice", Tags: []string{"pets"}, Stage: tenant.StageActive, Watchlist: true},
		{ID: "b", Name: "Bob", Tags: []string{"parking"}, Stage: tenant.StageNotice},
		{ID: "c", Name: "Cara", Tags: []string{"pets", "parking"}, Stage: tenant.StageActive},
		{ID: "d", Name: "Dan", Stage: tenant.StageLead},
	}
}

func newStore(t *testing.T, initial State) *Store {
	t.Helper()
	return NewStore(initial, WithClock(func() time.Time { return fixedNow }))
}

func TestStore_FilterChangePrunesSelectionAndFocus(t *testing.T) {
	s := newStore(t, DefaultState())
	s.SetEntities(fixture(), nil)

	s.Dispatch(SetSelection{IDs: []string{"a", "b", "c"}})
	s.Dispatch(SetFocus{ID: "b"})
	require.Equal(t, "b", s.State().FocusedID)

	s.Dispatch(ToggleTag{Tag: "pets"})

	st := s.State()
	assert.Equal(t, []string{"a", "c"}, tenant.IDs(s.Visible()))
	assert.Equal(t, []string{"a", "c"}, st.Selection.IDs(), "b dropped out of the filtered list")
	assert.Equal(t, "a", st.FocusedID, "focus moves to the first filtered item")
}

func TestStore_EmptyResultClearsFocus(t *testing.T) {
	s := newStore(t, DefaultState())
	s.SetEntities(fixture(), nil)
	s.Dispatch(SetFocus{ID: "a"})
	s.Dispatch(ToggleSelect{ID: "a"})

	s.Dispatch(SetFilter{Key: KeySearch, Value: "nobody"})

	st := s.State()
	assert.Empty(t, s.Visible())
	assert.True(t, st.Selection.Empty())
	assert.Equal(t, "", st.FocusedID)
}

func TestStore_ListShrinkReconciles(t *testing.T) {
	s := newStore(t, DefaultState())
	s.SetEntities(fixture(), nil)
	s.Dispatch(SetSelection{IDs: []string{"c", "d"}})
	s.Dispatch(SetFocus{ID: "d"})

	s.SetEntities(fixture()[:3], nil)

	st := s.State()
	assert.Equal(t, []string{"c"}, st.Selection.IDs())
	assert.Equal(t, "a", st.FocusedID)
}

func TestStore_SelectionOutsideListIsPruned(t *testing.T) {
	s := newStore(t, DefaultState())
	s.SetEntities(fixture(), nil)

	s.Dispatch(SetSelection{IDs: []string{"a", "ghost"}})
	assert.Equal(t, []string{"a"}, s.State().Selection.IDs())
}

func TestStore_KeepsPersistedSelectionUntilLoaded(t *testing.T) {
	initial := DefaultState()
	initial.Selection = selection.New("c")
	initial.FocusedID = "c"
	s := newStore(t, initial)

	s.Dispatch(RecordSearch{Text: "x"})
	assert.Equal(t, []string{"c"}, s.State().Selection.IDs())
	assert.False(t, s.Loaded())

	s.SetEntities(fixture(), nil)
	assert.Equal(t, []string{"c"}, s.State().Selection.IDs())
	assert.Equal(t, "c", s.State().FocusedID)
}

func TestStore_FetchErrorKeepsLastList(t *testing.T) {
	s := newStore(t, DefaultState())
	s.SetEntities(fixture(), nil)

	boom := errors.New("network down")
	s.SetEntities(nil, boom)

	assert.Len(t, s.Visible(), 4)
	assert.ErrorIs(t, s.LastError(), boom)

	s.SetEntities(fixture()[:1], nil)
	assert.NoError(t, s.LastError())
	assert.Len(t, s.Visible(), 1)
}

func TestStore_Subscribe(t *testing.T) {
	s := newStore(t, DefaultState())

	var got []State
	unsubscribe := s.Subscribe(func(st State) { got = append(got, st) })

	s.Dispatch(SetLayout{SplitPercent: 70})
	s.Dispatch(SetFiltersPanelOpen{Open: true})
	require.Len(t, got, 2)
	assert.Equal(t, 60, got[0].Layout.SplitPercent)
	assert.True(t, got[1].FiltersPanelOpen)

	unsubscribe()
	unsubscribe()
	s.Dispatch(ClearFilters{})
	assert.Len(t, got, 2)
}

func TestStore_SnapshotsAreCopies(t *testing.T) {
	s := newStore(t, DefaultState())
	s.Dispatch(RecordSearch{Text: "one"})

	st := s.State()
	st.RecentSearches[0] = "mutated"
	st.Filters.Tags = append(st.Filters.Tags, "x")

	assert.Equal(t, []string{"one"}, s.State().RecentSearches)
	assert.Empty(t, s.State().Filters.Tags)
}

func TestStore_DayWindowsUseInjectedClock(t *testing.T) {
	recent := fixedNow.Add(-2 * 24 * time.Hour)
	stale := fixedNow.Add(-40 * 24 * time.Hour)
	list := []tenant.Tenant{
		{ID: "r", Name: "Recent", LastTouchpointAt: &recent},
		{ID: "s", Name: "Stale", LastTouchpointAt: &stale},
	}

	s := newStore(t, DefaultState())
	s.SetEntities(list, nil)
	s.Dispatch(SetFilter{Key: KeyLastContactWithinDays, Value: filter.Days(7)})

	assert.Equal(t, []string{"r"}, s.VisibleIDs())
}

func TestStore_Focused(t *testing.T) {
	s := newStore(t, DefaultState())
	s.SetEntities(fixture(), nil)

	_, ok := s.Focused()
	assert.False(t, ok)

	s.Dispatch(SetFocus{ID: "c"})
	got, ok := s.Focused()
	require.True(t, ok)
	assert.Equal(t, "Cara", got.Name)
	assert.Equal(t, 4, s.Total())
}

func TestStore_SelectedAndTags(t *testing.T) {
	s := newStore(t, DefaultState())
	s.SetEntities(fixture(), nil)
	s.Dispatch(SetSelection{IDs: []string{"c", "a"}})

	assert.Equal(t, []string{"a", "c"}, tenant.IDs(s.Selected()), "display order")
	assert.Equal(t, []string{"parking", "pets"}, s.Tags())
	assert.Equal(t, fixedNow, s.Now())
}
