package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/Akashdeep-Patra/tenant-desk/internal/common"
	"github.com/Akashdeep-Patra/tenant-desk/internal/config"
	"github.com/Akashdeep-Patra/tenant-desk/internal/keynav"
	"github.com/Akashdeep-Patra/tenant-desk/internal/persist"
	"github.com/Akashdeep-Patra/tenant-desk/internal/tenant"
	"github.com/Akashdeep-Patra/tenant-desk/internal/ui"
	"github.com/Akashdeep-Patra/tenant-desk/internal/ui/components"
	"github.com/Akashdeep-Patra/tenant-desk/internal/ui/views"
	"github.com/Akashdeep-Patra/tenant-desk/internal/watcher"
	"github.com/Akashdeep-Patra/tenant-desk/internal/workspace"
	"github.com/atotto/clipboard"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// Layout rows outside the content area.
const (
	searchRows = 1
	chipRows   = 1
	statusRows = 1
	hintRows   = 1
)

const (
	splitStep    = 5
	fetchTimeout = 10 * time.Second
	errLifetime  = 5 * time.Second
	infoLifetime = 3 * time.Second
)

type pickerMode int

const (
	pickerViews pickerMode = iota
	pickerPalette
)

// Palette command ids.
const (
	cmdSaveView       = "save-view"
	cmdSavedViews     = "saved-views"
	cmdClearFilters   = "clear-filters"
	cmdFiltersPanel   = "filters-panel"
	cmdWatchlist      = "watchlist-only"
	cmdArrears        = "arrears-only"
	cmdSelectAll      = "select-all"
	cmdClearSelection = "clear-selection"
	cmdCopy           = "copy"
	cmdRefresh        = "refresh"
	cmdHelp           = "help"
	cmdQuit           = "quit"
)

// ── Messages ────────────────────────────────────────────────────────────────

type startMsg struct{}

// tenantsMsg is the result of fetch number seq.
type tenantsMsg struct {
	seq   int
	items []tenant.Tenant
	err   error
}

type searchTickMsg struct{ seq int }

type refreshTickMsg struct{}

type watchMsg struct{ closed bool }

// openedMsg is the source's current record for a tenant being opened.
type openedMsg struct {
	id     string
	tenant tenant.Tenant
	err    error
}

type savedViewsMsg struct {
	views []workspace.SavedView
	err   error
}

type viewSavedMsg struct {
	view     workspace.SavedView
	activate bool
	err      error
}

type viewDeletedMsg struct {
	id   string
	name string
	err  error
}

// outbox collects the messages the keynav controller's callbacks emit while
// a key is being handled. It is shared by every copy of the Model.
type outbox struct{ msgs []tea.Msg }

func (o *outbox) post(msg tea.Msg) { o.msgs = append(o.msgs, msg) }

func (o *outbox) drain() tea.Cmd {
	if len(o.msgs) == 0 {
		return nil
	}
	cmds := make([]tea.Cmd, len(o.msgs))
	for i, msg := range o.msgs {
		cmds[i] = common.Send(msg)
	}
	o.msgs = nil
	return tea.Batch(cmds...)
}

// invalidator is implemented by caching sources.
type invalidator interface{ Invalidate() }

// ── Model ───────────────────────────────────────────────────────────────────

// Model is the top-level Bubbletea model of the tenant workspace.
type Model struct {
	cfg     *config.Config
	log     *slog.Logger
	styles  ui.Styles
	keys    KeyMap
	store   *workspace.Store
	persist *persist.Persister
	source  tenant.Source
	nav     *keynav.Controller
	out     *outbox
	clip    func(string) error
	now     func() time.Time
	detach  func()
	watchCh <-chan watcher.Event

	list    *views.TenantListView
	detail  *views.DetailView
	filters *views.FiltersView
	picker  *views.PickerView
	search  textinput.Model
	dialog  *components.Dialog

	pane       common.Pane
	pickerMode pickerMode
	zoom       bool
	showHelp   bool
	width      int
	height     int

	started    bool
	fetchSeq   int
	fetchedKey string
	loading    bool
	searchSeq  int
	recallIdx  int
	draft      string

	savedViews []workspace.SavedView

	statusMsg string
	statusErr bool
	statusExp time.Time
}

// Option configures a Model.
type Option func(*Model)

// WithLogger sets the logger.
func WithLogger(log *slog.Logger) Option {
	return func(m *Model) { m.log = log }
}

// WithWatch refreshes the list whenever ch delivers an event.
func WithWatch(ch <-chan watcher.Event) Option {
	return func(m *Model) { m.watchCh = ch }
}

// WithClipboard replaces the system clipboard writer.
func WithClipboard(write func(string) error) Option {
	return func(m *Model) { m.clip = write }
}

// WithClock sets the clock used for status message expiry.
func WithClock(now func() time.Time) Option {
	return func(m *Model) { m.now = now }
}

// New creates the application model. The persister is attached to the
// store until Close.
func New(cfg *config.Config, store *workspace.Store, p *persist.Persister, source tenant.Source, opts ...Option) Model {
	kb := cfg.Keys
	if len(kb.Quit) == 0 {
		kb = config.DefaultKeyBindings()
	}
	styles := ui.NewStyles(ui.ThemeByName(cfg.Theme))
	out := &outbox{}

	search := textinput.New()
	search.Prompt = ""
	search.Placeholder = "search name, email or phone"
	search.CharLimit = 120
	search.SetValue(store.State().Filters.Search)

	m := Model{
		cfg:     cfg,
		log:     slog.New(slog.DiscardHandler),
		styles:  styles,
		keys:    NewKeyMap(kb),
		store:   store,
		persist: p,
		source:  source,
		out:     out,
		clip:    clipboard.WriteAll,
		now:     time.Now,
		nav: keynav.New(kb, store, keynav.Env{
			Open:           func(id string) { out.post(common.OpenTenantMsg{ID: id}) },
			FocusSearch:    func() { out.post(common.FocusSearchMsg{}) },
			CommandPalette: func() { out.post(common.CommandPaletteMsg{}) },
		}),
		list:      views.NewTenantListView(store, styles, cfg.RowHeight, cfg.Overscan),
		detail:    views.NewDetailView(store, styles),
		filters:   views.NewFiltersView(store, styles),
		picker:    views.NewPickerView(styles, kb),
		search:    search,
		recallIdx: -1,
	}
	for _, o := range opts {
		o(&m)
	}
	m.detach = p.Attach(store)
	return m
}

// Close unmounts the list, detaches persistence and flushes pending writes.
func (m Model) Close() error {
	m.list.Close()
	if m.detach != nil {
		m.detach()
	}
	return m.persist.Close()
}

// Init mounts the list and starts loading.
func (m Model) Init() tea.Cmd {
	return tea.Batch(m.list.Init(), common.Send(startMsg{}))
}

// Update processes messages.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	next, cmd := m.update(msg)
	settle := next.settle()
	return next, tea.Batch(cmd, settle)
}

// settle reconciles the model with the store after every message: the
// search field mirrors the applied search, pane focus follows the panel,
// and a fetch is issued when the server-side query changed.
func (m *Model) settle() tea.Cmd {
	st := m.store.State()
	if m.pane != common.PaneSearch && m.search.Value() != st.Filters.Search {
		m.search.SetValue(st.Filters.Search)
	}
	if m.pane == common.PaneFilters && !st.FiltersPanelOpen {
		m.pane = common.PaneList
	}
	m.list.SetActive(m.pane == common.PaneList)
	m.filters.SetActive(m.pane == common.PaneFilters)
	if m.width > 0 {
		m.layout()
	}
	if m.started && st.Filters.ToQuery().Key() != m.fetchedKey {
		return m.fetch()
	}
	return nil
}

func (m Model) update(msg tea.Msg) (Model, tea.Cmd) {
	// The dialog takes every key while it is open.
	if m.dialog != nil && m.dialog.Visible() {
		if _, ok := msg.(tea.KeyMsg); ok {
			d, cmd := m.dialog.Update(msg)
			m.dialog = &d
			return m, cmd
		}
	}

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.layout()
		return m, nil

	case tea.MouseMsg:
		return m.handleMouse(msg)

	case tea.KeyMsg:
		return m.handleKey(msg)

	case startMsg:
		m.started = true
		fetch := m.fetch()
		return m, tea.Batch(fetch, m.loadViews(), m.scheduleRefresh(), m.waitForChange())

	case tenantsMsg:
		if msg.seq != m.fetchSeq {
			m.log.Debug("dropping superseded tenant fetch", "seq", msg.seq, "latest", m.fetchSeq)
			return m, nil
		}
		m.loading = false
		m.store.SetEntities(msg.items, msg.err)
		if msg.err != nil {
			return m, common.CmdErr(fmt.Errorf("refresh failed: %w", msg.err))
		}
		return m, nil

	case searchTickMsg:
		if msg.seq == m.searchSeq {
			m.applySearch()
		}
		return m, nil

	case refreshTickMsg:
		m.store.Refresh()
		fetch := m.fetch()
		return m, tea.Batch(fetch, m.scheduleRefresh())

	case watchMsg:
		if msg.closed {
			m.watchCh = nil
			return m, nil
		}
		m.log.Debug("data file changed, refreshing")
		m.invalidate()
		fetch := m.fetch()
		return m, tea.Batch(fetch, m.waitForChange())

	case common.RefreshMsg:
		m.invalidate()
		fetch := m.fetch()
		return m, fetch

	case savedViewsMsg:
		if msg.err != nil {
			return m, common.CmdErr(fmt.Errorf("loading saved views: %w", msg.err))
		}
		m.savedViews = msg.views
		if m.pane == common.PanePicker {
			m.picker.SetItems(m.pickerItems())
		}
		return m, nil

	case viewSavedMsg:
		if msg.err != nil {
			return m, common.CmdErr(fmt.Errorf("saving view: %w", msg.err))
		}
		if msg.activate {
			m.store.Dispatch(workspace.SetSavedView{ID: msg.view.ID})
			return m, tea.Batch(m.loadViews(), common.CmdInfo(fmt.Sprintf("Saved view %q", msg.view.Name)))
		}
		return m, m.loadViews()

	case viewDeletedMsg:
		if msg.err != nil {
			return m, common.CmdErr(fmt.Errorf("deleting view: %w", msg.err))
		}
		if m.store.State().ActiveSavedViewID == msg.id {
			m.store.Dispatch(workspace.SetSavedView{})
		}
		return m, tea.Batch(m.loadViews(), common.CmdInfo(fmt.Sprintf("Deleted view %q", msg.name)))

	case views.PickedMsg:
		return m.pick(msg.Item)

	case views.PinViewMsg:
		return m, m.togglePin(msg.ID)

	case views.DeleteViewMsg:
		d := components.NewConfirmDialog(m.styles, "Delete saved view",
			fmt.Sprintf("Delete %q? This cannot be undone.", msg.Name), components.TagDeleteView, msg.ID)
		m.dialog = &d
		return m, nil

	case components.DialogResult:
		m.dialog = nil
		return m.dialogResult(msg)

	case common.ClosePaneMsg:
		m.focusList()
		return m, nil

	case common.FocusSearchMsg:
		cmd := m.focusSearch()
		return m, cmd

	case common.CommandPaletteMsg:
		cmd := m.openPicker(pickerPalette)
		return m, cmd

	case common.OpenTenantMsg:
		m.zoom = true
		m.layout()
		return m, m.openTenant(msg.ID)

	case openedMsg:
		switch {
		case errors.Is(msg.err, tenant.ErrNotFound):
			// Gone since the list was fetched.
			m.zoom = false
			m.invalidate()
			fetch := m.fetch()
			return m, tea.Batch(common.CmdErr(fmt.Errorf("tenant %s no longer exists", msg.id)), fetch)
		case msg.err != nil:
			return m, common.CmdErr(fmt.Errorf("opening tenant: %w", msg.err))
		}
		return m, common.CmdInfo("Opened " + msg.tenant.Name)

	case common.ErrMsg:
		m.log.Warn("workspace error", "err", msg.Err)
		m.statusMsg = msg.Err.Error()
		m.statusErr = true
		m.statusExp = m.now().Add(errLifetime)
		return m, nil

	case common.InfoMsg:
		// An error stays up for its full lifetime.
		if m.statusErr && m.now().Before(m.statusExp) {
			return m, nil
		}
		m.statusMsg = msg.Text
		m.statusErr = false
		m.statusExp = m.now().Add(infoLifetime)
		return m, nil
	}

	return m.forward(msg)
}

// forward hands other messages (cursor blinks) to the text inputs.
func (m Model) forward(msg tea.Msg) (Model, tea.Cmd) {
	var cmds []tea.Cmd
	var cmd tea.Cmd
	m.search, cmd = m.search.Update(msg)
	cmds = append(cmds, cmd)
	if m.pane == common.PanePicker {
		_, cmd = m.picker.Update(msg)
		cmds = append(cmds, cmd)
	}
	if m.dialog != nil && m.dialog.Visible() {
		d, cmd := m.dialog.Update(msg)
		m.dialog = &d
		cmds = append(cmds, cmd)
	}
	return m, tea.Batch(cmds...)
}

// ── Keys ────────────────────────────────────────────────────────────────────

func (m Model) handleKey(msg tea.KeyMsg) (Model, tea.Cmd) {
	if m.showHelp {
		if key.Matches(msg, m.keys.Help, m.keys.Back, m.keys.Quit) {
			m.showHelp = false
		}
		return m, nil
	}
	if msg.Type == tea.KeyCtrlC {
		return m, tea.Quit
	}

	if m.pane == common.PaneSearch {
		return m.handleSearchKey(msg)
	}

	target := m.focusTarget()
	view := m.activeView()

	// The modal picker and any view editing text get every key the
	// controller leaves alone.
	if view.InputCapture() || m.pane == common.PanePicker {
		if m.nav.Handle(msg, target) {
			return m, m.out.drain()
		}
		_, cmd := view.Update(msg)
		return m, cmd
	}

	if cmd, ok := m.handleShortcut(msg); ok {
		return m, cmd
	}

	// Leaving an opened tenant takes esc before it can clear the selection.
	if m.zoom && key.Matches(msg, m.keys.Back) {
		m.zoom = false
		m.layout()
		return m, nil
	}

	if m.nav.Handle(msg, target) {
		return m, m.out.drain()
	}

	if m.pane == common.PaneFilters {
		_, cmd := m.filters.Update(msg)
		return m, cmd
	}
	if !m.store.State().FiltersPanelOpen || m.zoom {
		_, cmd := m.detail.Update(msg)
		return m, cmd
	}
	return m, nil
}

// handleShortcut runs the workspace shortcuts available from the list and
// the filters panel.
func (m *Model) handleShortcut(msg tea.KeyMsg) (tea.Cmd, bool) {
	st := m.store.State()
	switch {
	case key.Matches(msg, m.keys.Quit):
		return tea.Quit, true
	case key.Matches(msg, m.keys.Help):
		m.showHelp = true
		return nil, true
	case key.Matches(msg, m.keys.Refresh):
		m.invalidate()
		fetch := m.fetch()
		return tea.Batch(common.CmdInfo("Refreshing…"), fetch), true
	case key.Matches(msg, m.keys.SaveView):
		m.openSaveDialog()
		return nil, true
	case key.Matches(msg, m.keys.SavedViews):
		return m.openPicker(pickerViews), true
	case key.Matches(msg, m.keys.FiltersPanel):
		m.toggleFiltersPanel()
		return nil, true
	case key.Matches(msg, m.keys.WatchlistOnly):
		m.store.Dispatch(workspace.SetFilter{Key: workspace.KeyWatchlistOnly, Value: !st.Filters.WatchlistOnly})
		return nil, true
	case key.Matches(msg, m.keys.ArrearsOnly):
		m.store.Dispatch(workspace.SetFilter{Key: workspace.KeyArrearsOnly, Value: !st.Filters.ArrearsOnly})
		return nil, true
	case key.Matches(msg, m.keys.ClearFilters):
		m.store.Dispatch(workspace.ClearFilters{})
		return common.CmdInfo("Filters cleared"), true
	case key.Matches(msg, m.keys.Copy):
		return m.copySelection(), true
	case key.Matches(msg, m.keys.GrowList):
		m.store.Dispatch(workspace.SetLayout{SplitPercent: st.Layout.SplitPercent + splitStep})
		return nil, true
	case key.Matches(msg, m.keys.ShrinkList):
		m.store.Dispatch(workspace.SetLayout{SplitPercent: st.Layout.SplitPercent - splitStep})
		return nil, true
	case key.Matches(msg, m.keys.NextPane):
		m.cyclePane()
		return nil, true
	case key.Matches(msg, m.keys.PinnedView):
		return m.applyPinned(int(msg.String()[0] - '1')), true
	}
	return nil, false
}

// activeView returns the view owning the keyboard outside the search field.
func (m Model) activeView() common.View {
	switch m.pane {
	case common.PanePicker:
		return m.picker
	case common.PaneFilters:
		return m.filters
	}
	return m.list
}

// focusTarget maps the focused pane to the keyboard controller's target.
func (m Model) focusTarget() keynav.FocusTarget {
	switch {
	case m.pane == common.PaneSearch:
		return keynav.TargetSearch
	case m.activeView().InputCapture():
		return keynav.TargetText
	case m.pane == common.PaneList:
		return keynav.TargetList
	}
	return keynav.TargetPanel
}

func (m Model) handleSearchKey(msg tea.KeyMsg) (Model, tea.Cmd) {
	if m.nav.Handle(msg, m.focusTarget()) {
		return m, m.out.drain()
	}

	switch {
	case key.Matches(msg, m.keys.Commit):
		m.commitSearch(true)
		m.focusList()
		return m, nil
	case key.Matches(msg, m.keys.Back):
		m.commitSearch(false)
		m.focusList()
		return m, nil
	case key.Matches(msg, m.keys.RecallOlder):
		cmd := m.recall(1)
		return m, cmd
	case key.Matches(msg, m.keys.RecallNewer):
		cmd := m.recall(-1)
		return m, cmd
	}

	before := m.search.Value()
	var cmd tea.Cmd
	m.search, cmd = m.search.Update(msg)
	if m.search.Value() != before {
		m.recallIdx = -1
		cmd = tea.Batch(cmd, m.debounceSearch())
	}
	return m, cmd
}

// ── Search ──────────────────────────────────────────────────────────────────

func (m *Model) focusSearch() tea.Cmd {
	m.pane = common.PaneSearch
	m.zoom = false
	m.recallIdx = -1
	m.search.CursorEnd()
	return m.search.Focus()
}

// debounceSearch schedules the search to apply once typing pauses. Every
// keystroke bumps the sequence so only the last tick applies.
func (m *Model) debounceSearch() tea.Cmd {
	m.searchSeq++
	seq := m.searchSeq
	return tea.Tick(m.cfg.SearchDebounce, func(time.Time) tea.Msg { return searchTickMsg{seq: seq} })
}

func (m *Model) applySearch() {
	if v := m.search.Value(); v != m.store.State().Filters.Search {
		m.store.Dispatch(workspace.SetFilter{Key: workspace.KeySearch, Value: v})
	}
}

// commitSearch applies the field now, cancelling any pending tick.
func (m *Model) commitSearch(record bool) {
	m.searchSeq++
	m.applySearch()
	if record {
		m.store.Dispatch(workspace.RecordSearch{Text: m.search.Value()})
	}
}

// recall steps through recent searches; dir 1 is older. Stepping past the
// newest restores what was being typed.
func (m *Model) recall(dir int) tea.Cmd {
	recent := m.store.State().RecentSearches
	if len(recent) == 0 {
		return nil
	}
	if m.recallIdx == -1 {
		m.draft = m.search.Value()
	}
	m.recallIdx = min(max(m.recallIdx+dir, -1), len(recent)-1)
	if m.recallIdx == -1 {
		m.search.SetValue(m.draft)
	} else {
		m.search.SetValue(recent[m.recallIdx])
	}
	m.search.CursorEnd()
	return m.debounceSearch()
}

// ── Fetching ────────────────────────────────────────────────────────────────

// fetch requests the tenants for the current query. Only the newest
// request's result is applied.
func (m *Model) fetch() tea.Cmd {
	m.fetchSeq++
	seq := m.fetchSeq
	q := m.store.State().Filters.ToQuery()
	m.fetchedKey = q.Key()
	m.loading = true
	src := m.source
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), fetchTimeout)
		defer cancel()
		items, err := src.Fetch(ctx, q)
		return tenantsMsg{seq: seq, items: items, err: err}
	}
}

// openTenant re-reads a tenant from the source so an opened record is
// checked against the backend rather than the last list fetch.
func (m Model) openTenant(id string) tea.Cmd {
	src := m.source
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), fetchTimeout)
		defer cancel()
		t, err := src.Get(ctx, id)
		return openedMsg{id: id, tenant: t, err: err}
	}
}

func (m Model) invalidate() {
	if inv, ok := m.source.(invalidator); ok {
		inv.Invalidate()
	}
}

func (m Model) scheduleRefresh() tea.Cmd {
	if m.cfg.RefreshInterval <= 0 {
		return nil
	}
	return tea.Tick(m.cfg.RefreshInterval, func(time.Time) tea.Msg { return refreshTickMsg{} })
}

func (m Model) waitForChange() tea.Cmd {
	ch := m.watchCh
	if ch == nil {
		return nil
	}
	return func() tea.Msg {
		_, ok := <-ch
		return watchMsg{closed: !ok}
	}
}

// ── Saved views ─────────────────────────────────────────────────────────────

func (m Model) loadViews() tea.Cmd {
	p := m.persist
	return func() tea.Msg {
		list, err := p.ListSavedViews()
		return savedViewsMsg{views: list, err: err}
	}
}

func (m Model) findView(id string) (workspace.SavedView, bool) {
	for _, v := range m.savedViews {
		if v.ID == id {
			return v, true
		}
	}
	return workspace.SavedView{}, false
}

func (m Model) pinnedViews() []workspace.SavedView {
	var out []workspace.SavedView
	for _, v := range m.savedViews {
		if v.Pinned {
			out = append(out, v)
		}
	}
	return out
}

func (m *Model) applyView(id string) tea.Cmd {
	v, ok := m.findView(id)
	if !ok {
		return common.CmdErr(fmt.Errorf("saved view %s: %w", id, persist.ErrNotFound))
	}
	m.store.Dispatch(workspace.ReplaceFilters{Filters: v.Filters, SavedViewID: v.ID})
	return common.CmdInfo("Applied " + v.Name)
}

func (m *Model) applyPinned(i int) tea.Cmd {
	pinned := m.pinnedViews()
	if i < 0 || i >= len(pinned) || i >= components.MaxPinnedTabs {
		return nil
	}
	return m.applyView(pinned[i].ID)
}

func (m *Model) openSaveDialog() {
	st := m.store.State()
	name := ""
	if v, ok := m.findView(st.ActiveSavedViewID); ok {
		name = v.Name
	}
	d := components.NewInputDialog(m.styles, "Save view",
		fmt.Sprintf("%d active filters. Saving under an existing name replaces it.", st.Filters.ActiveCount()),
		"view name", name, components.TagSaveView)
	m.dialog = &d
}

func (m Model) saveView(name string) tea.Cmd {
	pinned := false
	for _, v := range m.savedViews {
		if strings.EqualFold(v.Name, name) {
			pinned = v.Pinned
		}
	}
	f := m.store.State().Filters
	p := m.persist
	return func() tea.Msg {
		v, err := p.UpsertSavedView(workspace.SavedView{Name: name, Filters: f, Pinned: pinned})
		return viewSavedMsg{view: v, activate: true, err: err}
	}
}

func (m Model) togglePin(id string) tea.Cmd {
	v, ok := m.findView(id)
	if !ok {
		return nil
	}
	v.Pinned = !v.Pinned
	p := m.persist
	return func() tea.Msg {
		saved, err := p.UpsertSavedView(v)
		return viewSavedMsg{view: saved, err: err}
	}
}

func (m Model) deleteView(id string) tea.Cmd {
	v, _ := m.findView(id)
	p := m.persist
	return func() tea.Msg {
		return viewDeletedMsg{id: id, name: v.Name, err: p.DeleteSavedView(id)}
	}
}

func (m Model) dialogResult(res components.DialogResult) (Model, tea.Cmd) {
	if !res.Confirmed {
		return m, nil
	}
	switch res.Tag {
	case components.TagSaveView:
		return m, m.saveView(res.Value)
	case components.TagDeleteView:
		return m, m.deleteView(res.Ref)
	}
	return m, nil
}

// ── Picker and palette ──────────────────────────────────────────────────────

func (m *Model) openPicker(mode pickerMode) tea.Cmd {
	m.pickerMode = mode
	m.pane = common.PanePicker
	m.search.Blur()
	title := "Saved views"
	if mode == pickerPalette {
		title = "Command palette"
	}
	m.picker.SetSize(m.width, m.height)
	return m.picker.Open(title, m.pickerItems(), mode == pickerPalette)
}

func (m Model) pickerItems() []views.PickerItem {
	st := m.store.State()
	var items []views.PickerItem
	if m.pickerMode == pickerPalette {
		items = append(items, m.paletteCommands()...)
		for _, q := range st.RecentSearches {
			items = append(items, views.PickerItem{Kind: views.PickRecentSearch, ID: q, Title: q, Hint: "recent search"})
		}
	}
	for _, v := range m.savedViews {
		items = append(items, views.PickerItem{
			Kind:   views.PickSavedView,
			ID:     v.ID,
			Title:  v.Name,
			Hint:   fmt.Sprintf("%d filters", v.Filters.ActiveCount()),
			Pinned: v.Pinned,
			Active: v.ID == st.ActiveSavedViewID,
		})
	}
	return items
}

func (m Model) paletteCommands() []views.PickerItem {
	cmd := func(id, title string, b key.Binding) views.PickerItem {
		return views.PickerItem{Kind: views.PickCommand, ID: id, Title: title, Hint: b.Help().Key}
	}
	none := key.NewBinding()
	return []views.PickerItem{
		cmd(cmdSaveView, "Save current filters as view", m.keys.SaveView),
		cmd(cmdSavedViews, "Browse saved views", m.keys.SavedViews),
		cmd(cmdClearFilters, "Clear all filters", m.keys.ClearFilters),
		cmd(cmdFiltersPanel, "Toggle filters panel", m.keys.FiltersPanel),
		cmd(cmdWatchlist, "Toggle watchlist only", m.keys.WatchlistOnly),
		cmd(cmdArrears, "Toggle arrears only", m.keys.ArrearsOnly),
		cmd(cmdSelectAll, "Select all listed tenants", none),
		cmd(cmdClearSelection, "Clear selection", m.nav.Keys().Clear),
		cmd(cmdCopy, "Copy emails of selection", m.keys.Copy),
		cmd(cmdRefresh, "Refresh tenants", m.keys.Refresh),
		cmd(cmdHelp, "Keyboard shortcuts", m.keys.Help),
		cmd(cmdQuit, "Quit", m.keys.Quit),
	}
}

func (m Model) pick(item views.PickerItem) (Model, tea.Cmd) {
	m.focusList()
	switch item.Kind {
	case views.PickSavedView:
		cmd := m.applyView(item.ID)
		return m, cmd
	case views.PickRecentSearch:
		m.store.Dispatch(workspace.SetFilter{Key: workspace.KeySearch, Value: item.Title})
		m.store.Dispatch(workspace.RecordSearch{Text: item.Title})
		return m, nil
	case views.PickCommand:
		return m.runCommand(item.ID)
	}
	return m, nil
}

func (m Model) runCommand(id string) (Model, tea.Cmd) {
	st := m.store.State()
	switch id {
	case cmdSaveView:
		m.openSaveDialog()
	case cmdSavedViews:
		cmd := m.openPicker(pickerViews)
		return m, cmd
	case cmdClearFilters:
		m.store.Dispatch(workspace.ClearFilters{})
	case cmdFiltersPanel:
		m.toggleFiltersPanel()
	case cmdWatchlist:
		m.store.Dispatch(workspace.SetFilter{Key: workspace.KeyWatchlistOnly, Value: !st.Filters.WatchlistOnly})
	case cmdArrears:
		m.store.Dispatch(workspace.SetFilter{Key: workspace.KeyArrearsOnly, Value: !st.Filters.ArrearsOnly})
	case cmdSelectAll:
		m.store.Dispatch(workspace.SetSelection{IDs: m.store.VisibleIDs()})
	case cmdClearSelection:
		m.store.Dispatch(workspace.ClearSelection{})
	case cmdCopy:
		return m, m.copySelection()
	case cmdRefresh:
		m.invalidate()
		fetch := m.fetch()
		return m, fetch
	case cmdHelp:
		m.showHelp = true
	case cmdQuit:
		return m, tea.Quit
	}
	return m, nil
}

// ── Panes ───────────────────────────────────────────────────────────────────

func (m *Model) focusList() {
	m.search.Blur()
	m.pane = common.PaneList
}

func (m *Model) toggleFiltersPanel() {
	open := !m.store.State().FiltersPanelOpen
	m.store.Dispatch(workspace.SetFiltersPanelOpen{Open: open})
	m.zoom = false
	if open {
		m.pane = common.PaneFilters
	} else {
		m.pane = common.PaneList
	}
	m.layout()
}

func (m *Model) cyclePane() {
	if !m.store.State().FiltersPanelOpen {
		return
	}
	if m.pane == common.PaneFilters {
		m.pane = common.PaneList
	} else {
		m.pane = common.PaneFilters
	}
}

// copySelection copies the selected tenants' emails, or the focused
// tenant's, falling back to ids for tenants without an email.
func (m Model) copySelection() tea.Cmd {
	items := m.store.Selected()
	if len(items) == 0 {
		if t, ok := m.store.Focused(); ok {
			items = []tenant.Tenant{t}
		}
	}
	if len(items) == 0 {
		return common.CmdInfo("Nothing to copy")
	}
	parts := make([]string, len(items))
	for i, t := range items {
		parts[i] = t.Email
		if parts[i] == "" {
			parts[i] = t.ID
		}
	}
	text := strings.Join(parts, ", ")
	write := m.clip
	n := len(items)
	return func() tea.Msg {
		if err := write(text); err != nil {
			return common.ErrMsg{Err: fmt.Errorf("copy to clipboard: %w", err)}
		}
		if n == 1 {
			return common.InfoMsg{Text: "Copied " + text}
		}
		return common.InfoMsg{Text: fmt.Sprintf("Copied %d addresses", n)}
	}
}

// ── Mouse ───────────────────────────────────────────────────────────────────

func (m Model) handleMouse(msg tea.MouseMsg) (Model, tea.Cmd) {
	if m.pane == common.PanePicker || (m.dialog != nil && m.dialog.Visible()) || m.showHelp {
		return m, nil
	}
	top := m.headerRows()
	if msg.Y < top || msg.Y >= top+m.contentHeight() {
		return m, nil
	}
	msg.Y -= top

	listW, _ := m.paneWidths()
	if msg.X < listW {
		if msg.Button == tea.MouseButtonLeft && msg.Action == tea.MouseActionPress {
			m.focusList()
		}
		_, cmd := m.list.Update(msg)
		return m, cmd
	}
	if m.store.State().FiltersPanelOpen && !m.zoom {
		return m, nil
	}
	msg.X -= listW
	_, cmd := m.detail.Update(msg)
	return m, cmd
}

// ── Layout ──────────────────────────────────────────────────────────────────

func (m Model) headerRows() int {
	return components.ViewBarRows + searchRows + chipRows
}

func (m Model) contentHeight() int {
	return max(1, m.height-m.headerRows()-statusRows-hintRows)
}

// paneWidths splits the width between the list and the side pane. An
// opened tenant takes the whole width.
func (m Model) paneWidths() (list, side int) {
	if m.zoom {
		return 0, m.width
	}
	return ui.SplitWidths(m.width, m.store.State().Layout.SplitPercent)
}

func (m *Model) layout() {
	h := m.contentHeight()
	listW, sideW := m.paneWidths()
	m.list.SetSize(listW, h)
	m.detail.SetSize(max(sideW-1, 0), h)
	m.filters.SetSize(max(sideW-1, 0), h)
	m.picker.SetSize(m.width, m.height)
	m.search.Width = max(10, m.width-6)
	m.nav.SetPageSize(m.list.PageSize())
}

// ── Rendering ───────────────────────────────────────────────────────────────

// View renders the entire UI.
func (m Model) View() string {
	if m.width == 0 || m.height == 0 {
		return ""
	}
	if m.showHelp {
		return components.RenderHelp(m.styles, "Keyboard Shortcuts", HelpSections(m.keys, m.nav.Keys()), m.width, m.height)
	}

	st := m.store.State()
	screen := lipgloss.JoinVertical(lipgloss.Left,
		components.RenderViewBar(m.styles, m.viewTabs(st), m.width),
		m.renderSearch(),
		components.RenderChips(m.styles, st.Filters, m.width),
		m.renderContent(st),
		components.RenderStatusBar(m.styles, m.statusData(st), m.width),
		components.RenderShortHelp(m.styles, m.shortHelp(), m.width),
	)

	switch {
	case m.dialog != nil && m.dialog.Visible():
		screen = ui.PlaceCentre(m.width, m.height, m.dialog.View())
	case m.pane == common.PanePicker:
		screen = ui.PlaceCentre(m.width, m.height, m.picker.View())
	}
	return screen
}

func (m Model) renderSearch() string {
	prompt := m.styles.Muted.Render(" / ")
	if m.pane == common.PaneSearch {
		prompt = m.styles.Prompt.Render(" / ")
	}
	return lipgloss.NewStyle().Width(m.width).MaxHeight(searchRows).Render(prompt + m.search.View())
}

func (m Model) renderContent(st workspace.State) string {
	h := m.contentHeight()
	listW, sideW := m.paneWidths()

	var parts []string
	if listW > 0 {
		parts = append(parts, lipgloss.NewStyle().Width(listW).Height(h).MaxHeight(h).Render(m.list.View()))
	}
	if sideW > 0 {
		side := m.detail.View()
		if st.FiltersPanelOpen && !m.zoom {
			side = m.filters.View()
		}
		border := lipgloss.NewStyle().
			BorderLeft(true).
			BorderStyle(lipgloss.NormalBorder()).
			BorderForeground(m.styles.Theme.Border).
			Width(sideW - 1).
			Height(h).
			MaxHeight(h)
		if listW == 0 {
			border = lipgloss.NewStyle().Width(sideW).Height(h).MaxHeight(h)
		}
		parts = append(parts, border.Render(side))
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, parts...)
}

func (m Model) viewTabs(st workspace.State) []components.ViewTab {
	pinned := m.pinnedViews()
	tabs := make([]components.ViewTab, len(pinned))
	for i, v := range pinned {
		tabs[i] = components.ViewTab{ID: v.ID, Name: v.Name, Active: v.ID == st.ActiveSavedViewID}
	}
	return tabs
}

func (m Model) statusData(st workspace.State) components.StatusBarData {
	data := components.StatusBarData{
		Visible:  len(m.store.VisibleIDs()),
		Total:    m.store.Total(),
		Selected: st.Selection.Len(),
		Filters:  st.Filters.ActiveCount(),
		Loading:  m.loading && !m.store.Loaded(),
		Stale:    m.store.LastError() != nil,
		DataFile: m.cfg.DataFile,
	}
	if v, ok := m.findView(st.ActiveSavedViewID); ok {
		data.ActiveView = v.Name
	}
	if m.statusMsg != "" && m.now().Before(m.statusExp) {
		data.Message = m.statusMsg
		data.IsError = m.statusErr
	}
	return data
}

func (m Model) shortHelp() []components.HelpEntry {
	switch m.pane {
	case common.PaneSearch:
		return []components.HelpEntry{
			{Key: "enter", Desc: "apply"},
			{Key: "↑/↓", Desc: "recent"},
			{Key: "esc", Desc: "back to list"},
		}
	case common.PaneFilters:
		return m.filters.ShortHelp()
	case common.PanePicker:
		return m.picker.ShortHelp()
	}
	entries := m.list.ShortHelp()
	return append(entries,
		components.HelpEntry{Key: m.keys.FiltersPanel.Help().Key, Desc: "filters"},
		components.HelpEntry{Key: m.keys.SaveView.Help().Key, Desc: "save view"},
		components.HelpEntry{Key: m.keys.Help.Help().Key, Desc: "help"},
	)
}
