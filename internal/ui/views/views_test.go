package views

import (
	"fmt"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Akashdeep-Patra/tenant-desk/internal/common"
	"github.com/Akashdeep-Patra/tenant-desk/internal/config"
	"github.com/Akashdeep-Patra/tenant-desk/internal/filter"
	"github.com/Akashdeep-Patra/tenant-desk/internal/tenant"
	"github.com/Akashdeep-Patra/tenant-desk/internal/ui"
	"github.com/Akashdeep-Patra/tenant-desk/internal/workspace"
)

var fixedNow = time.Date(2026, 10, 16, 9, 0, 0, 0, time.UTC)

func fixture() []tenant.Tenant {
	score := 72.0
	return []tenant.Tenant{
		{ID: "a", Name: "Alice", Email: "alice@example.com", Tags: []string{"pets"}, Stage: tenant.StageActive, Watchlist: true, HealthScore: &score},
		{ID: "b", Name: "Bob", Email: "bob@example.com", Tags: []string{"parking"}, Stage: tenant.StageNotice,
			Arrears: &tenant.Arrears{AmountCents: 50000, DaysLate: 40}},
		{ID: "c", Name: "Cara", Tags: []string{"pets", "parking"}, Stage: tenant.StageActive},
		{ID: "d", Name: "Dan", Stage: tenant.StageLead},
	}
}

func loadedStore(t *testing.T, items []tenant.Tenant) *workspace.Store {
	t.Helper()
	s := workspace.NewStore(workspace.DefaultState(), workspace.WithClock(func() time.Time { return fixedNow }))
	s.SetEntities(items, nil)
	return s
}

func keyMsg(k string) tea.KeyMsg {
	switch k {
	case "esc":
		return tea.KeyMsg{Type: tea.KeyEsc}
	case "enter":
		return tea.KeyMsg{Type: tea.KeyEnter}
	case "tab":
		return tea.KeyMsg{Type: tea.KeyTab}
	case "down":
		return tea.KeyMsg{Type: tea.KeyDown}
	case "up":
		return tea.KeyMsg{Type: tea.KeyUp}
	case " ":
		return tea.KeyMsg{Type: tea.KeySpace, Runes: []rune{' '}}
	}
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(k)}
}

func press(v common.View, keys ...string) tea.Msg {
	var last tea.Msg
	for _, k := range keys {
		_, cmd := v.Update(keyMsg(k))
		if cmd != nil {
			last = cmd()
		}
	}
	return last
}

// ── Tenant list ─────────────────────────────────────────────────────────────

func TestTenantListMountAndClose(t *testing.T) {
	store := loadedStore(t, fixture())
	v := NewTenantListView(store, ui.DefaultStyles(), 1, 2)

	v.Init()
	v.Init()
	assert.Equal(t, 1, v.Tracker().Listeners(), "mounting twice registers once")

	v.Close()
	assert.Zero(t, v.Tracker().Listeners())
	v.Close()
}

func TestTenantListRenders(t *testing.T) {
	store := workspace.NewStore(workspace.DefaultState())
	v := NewTenantListView(store, ui.DefaultStyles(), 1, 0)
	v.Init()
	defer v.Close()
	v.SetSize(60, 8)

	assert.Contains(t, v.View(), "Loading tenants")

	store.SetEntities(fixture(), nil)
	out := v.View()
	assert.Contains(t, out, "Tenants (4)")
	assert.Contains(t, out, "Alice")
	assert.Contains(t, out, "Dan")

	store.Dispatch(workspace.SetFilter{Key: workspace.KeySearch, Value: "nobody"})
	assert.Contains(t, v.View(), "No tenants match these filters")
}

func TestTenantListPageSize(t *testing.T) {
	v := NewTenantListView(loadedStore(t, fixture()), ui.DefaultStyles(), 2, 0)
	v.SetSize(40, 9)
	assert.Equal(t, 4, v.PageSize())
}

func TestTenantListScrollsToFocus(t *testing.T) {
	items := make([]tenant.Tenant, 20)
	for i := range items {
		items[i] = tenant.Tenant{ID: fmt.Sprintf("t%02d", i), Name: fmt.Sprintf("Tenant %02d", i)}
	}
	store := loadedStore(t, items)
	v := NewTenantListView(store, ui.DefaultStyles(), 1, 0)
	v.Init()
	defer v.Close()
	v.SetSize(40, 5)

	store.Dispatch(workspace.SetFocus{ID: "t19"})
	assert.Equal(t, 16, v.Tracker().Viewport().ScrollOffset)
	assert.Contains(t, v.View(), "Tenant 19")

	store.Dispatch(workspace.SetFocus{ID: "t00"})
	assert.Zero(t, v.Tracker().Viewport().ScrollOffset)
}

func TestTenantListClickFocuses(t *testing.T) {
	store := loadedStore(t, fixture())
	v := NewTenantListView(store, ui.DefaultStyles(), 1, 0)
	v.Init()
	defer v.Close()
	v.SetSize(40, 10)

	v.Update(tea.MouseMsg{X: 3, Y: 3, Button: tea.MouseButtonLeft, Action: tea.MouseActionPress})
	assert.Equal(t, "c", store.State().FocusedID)

	v.Update(tea.MouseMsg{X: 3, Y: 0, Button: tea.MouseButtonLeft, Action: tea.MouseActionPress})
	assert.Equal(t, "c", store.State().FocusedID, "the header is not a row")
}

// ── Detail ──────────────────────────────────────────────────────────────────

func TestDetailShowsFocusedTenant(t *testing.T) {
	store := loadedStore(t, fixture())
	v := NewDetailView(store, ui.DefaultStyles())
	v.SetSize(70, 20)

	assert.Contains(t, v.View(), "No tenant focused")

	store.Dispatch(workspace.SetFocus{ID: "b"})
	out := v.View()
	assert.Contains(t, out, "Bob")
	assert.Contains(t, out, "bob@example.com")
	assert.Contains(t, out, "$500.00, 40 days late")
	assert.Contains(t, out, string(filter.TierCritical))
}

func TestDetailSummarisesSelection(t *testing.T) {
	store := loadedStore(t, fixture())
	v := NewDetailView(store, ui.DefaultStyles())
	v.SetSize(70, 20)

	store.Dispatch(workspace.SetSelection{IDs: []string{"a", "b", "c"}})
	out := v.View()
	assert.Contains(t, out, "3 tenants selected")
	assert.Contains(t, out, "$500.00")
}

func TestFormatHelpers(t *testing.T) {
	assert.Equal(t, "$12.05", formatCents(1205))
	assert.Equal(t, "-$1.50", formatCents(-150))

	assert.Equal(t, "today", relativeDays(fixedNow, fixedNow))
	assert.Equal(t, "yesterday", relativeDays(fixedNow.AddDate(0, 0, -1), fixedNow))
	assert.Equal(t, "3 days ago", relativeDays(fixedNow.AddDate(0, 0, -3), fixedNow))
	assert.Equal(t, "tomorrow", relativeDays(fixedNow.AddDate(0, 0, 1), fixedNow))
	assert.Equal(t, "in 5 days", relativeDays(fixedNow.AddDate(0, 0, 5), fixedNow))
}

// ── Filters panel ───────────────────────────────────────────────────────────

// Row positions in the filters panel.
var (
	rowFirstStage = 0
	rowWatch      = len(tenant.AllStages) + len(filter.AllTiers)
	rowMinHealth  = rowWatch + 2
)

func moveTo(v *FiltersView, row int) {
	press(v, "g")
	for range row {
		press(v, "j")
	}
}

func TestFiltersPanelToggles(t *testing.T) {
	store := loadedStore(t, fixture())
	v := NewFiltersView(store, ui.DefaultStyles())
	v.SetSize(40, 30)

	moveTo(v, rowFirstStage)
	press(v, " ")
	assert.Equal(t, []tenant.Stage{tenant.AllStages[0]}, store.State().Filters.Stages)

	moveTo(v, rowWatch)
	press(v, "enter")
	assert.True(t, store.State().Filters.WatchlistOnly)

	// Tags come last, sorted.
	press(v, "G", " ")
	assert.Equal(t, []string{"pets"}, store.State().Filters.Tags)

	assert.Contains(t, v.View(), "Filters (3 active)")
}

func TestFiltersPanelHealthBounds(t *testing.T) {
	store := loadedStore(t, fixture())
	v := NewFiltersView(store, ui.DefaultStyles())
	v.SetSize(40, 30)

	moveTo(v, rowMinHealth)
	press(v, "l", "l")
	assert.Equal(t, 10, store.State().Filters.HealthMin)
	press(v, "h", "h", "h")
	assert.Equal(t, filter.HealthFloor, store.State().Filters.HealthMin)

	store.Dispatch(workspace.SetFilter{Key: workspace.KeyHealthMax, Value: 10})
	press(v, "l", "l", "l")
	assert.Equal(t, 10, store.State().Filters.HealthMin, "min never passes max")

	press(v, "j", "h", "h", "h")
	assert.Equal(t, 10, store.State().Filters.HealthMax, "max never drops below min")
}

func TestFiltersPanelDayWindows(t *testing.T) {
	store := loadedStore(t, fixture())
	v := NewFiltersView(store, ui.DefaultStyles())
	v.SetSize(40, 30)

	moveTo(v, rowMinHealth+2)
	press(v, "l")
	require.NotNil(t, store.State().Filters.LastContactWithinDays)
	assert.Equal(t, 7, *store.State().Filters.LastContactWithinDays)
	press(v, "h")
	assert.Nil(t, store.State().Filters.LastContactWithinDays)
}

func TestCycleDays(t *testing.T) {
	assert.Equal(t, 7, *cycleDays(nil, 1))
	assert.Nil(t, cycleDays(filter.Days(90), 1))
	assert.Equal(t, 90, *cycleDays(nil, -1))
	assert.Equal(t, 7, *cycleDays(filter.Days(45), 1), "an unknown value restarts from any")
}

func TestFiltersPanelCloses(t *testing.T) {
	v := NewFiltersView(loadedStore(t, fixture()), ui.DefaultStyles())
	assert.Equal(t, common.ClosePaneMsg{}, press(v, "esc"))
	assert.Equal(t, common.ClosePaneMsg{}, press(v, "tab"))
}

// ── Picker ──────────────────────────────────────────────────────────────────

func pickerItems() []PickerItem {
	return []PickerItem{
		{Kind: PickCommand, ID: "clear-filters", Title: "Clear all filters", Hint: "x"},
		{Kind: PickSavedView, ID: "v1", Title: "Late payers", Hint: "2 filters", Pinned: true},
		{Kind: PickSavedView, ID: "v2", Title: "Watchlist", Hint: "1 filters", Active: true},
	}
}

func newPicker() *PickerView {
	v := NewPickerView(ui.DefaultStyles(), config.DefaultKeyBindings())
	v.SetSize(80, 30)
	return v
}

func TestPickerStartsOnActiveItem(t *testing.T) {
	v := newPicker()
	v.Open("Saved views", pickerItems(), false)

	msg := press(v, "enter")
	require.IsType(t, PickedMsg{}, msg)
	assert.Equal(t, "v2", msg.(PickedMsg).Item.ID)
}

func TestPickerFiltersByQuery(t *testing.T) {
	v := newPicker()
	v.Open("Command palette", pickerItems(), true)
	require.True(t, v.InputCapture())

	press(v, "l", "a", "t", "e")
	require.Len(t, v.matches(), 1)
	msg := press(v, "enter")
	assert.Equal(t, "v1", msg.(PickedMsg).Item.ID)

	// esc clears the query before closing.
	assert.Nil(t, press(v, "esc"))
	assert.Len(t, v.matches(), 3)
	assert.Equal(t, common.ClosePaneMsg{}, press(v, "esc"))
}

func TestPickerCursorWraps(t *testing.T) {
	v := newPicker()
	v.Open("Saved views", pickerItems(), false)

	msg := press(v, "down", "enter")
	assert.Equal(t, "clear-filters", msg.(PickedMsg).Item.ID)
	msg = press(v, "k", "enter")
	assert.Equal(t, "v2", msg.(PickedMsg).Item.ID)
}

func TestPickerPinAndDeleteOnlySavedViews(t *testing.T) {
	v := newPicker()
	v.Open("Saved views", pickerItems(), false)

	assert.Equal(t, PinViewMsg{ID: "v2"}, press(v, "p"))
	assert.Equal(t, DeleteViewMsg{ID: "v2", Name: "Watchlist"}, press(v, "d"))

	press(v, "g") // not bound in the picker
	press(v, "j")
	assert.Nil(t, press(v, "p"), "commands cannot be pinned")
}

func TestPickerSetItemsKeepsCursor(t *testing.T) {
	v := newPicker()
	v.Open("Saved views", pickerItems(), false)

	items := pickerItems()
	items = append([]PickerItem{{Kind: PickSavedView, ID: "v0", Title: "Arrears"}}, items...)
	v.SetItems(items)

	msg := press(v, "enter")
	assert.Equal(t, "v2", msg.(PickedMsg).Item.ID)
}

func TestPickerView(t *testing.T) {
	v := newPicker()
	v.Open("Saved views", pickerItems(), false)
	out := v.View()
	assert.Contains(t, out, "Saved views")
	assert.Contains(t, out, "Late payers")
	assert.Contains(t, out, "Watchlist •")

	press(v, "tab", "z", "z", "z")
	assert.Contains(t, v.View(), "nothing matches")
}
