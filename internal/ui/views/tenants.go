package views

import (
	"fmt"
	"strings"

	"github.com/Akashdeep-Patra/tenant-desk/internal/common"
	"github.com/Akashdeep-Patra/tenant-desk/internal/filter"
	"github.com/Akashdeep-Patra/tenant-desk/internal/listview"
	"github.com/Akashdeep-Patra/tenant-desk/internal/tenant"
	"github.com/Akashdeep-Patra/tenant-desk/internal/ui"
	"github.com/Akashdeep-Patra/tenant-desk/internal/ui/components"
	"github.com/Akashdeep-Patra/tenant-desk/internal/window"
	"github.com/Akashdeep-Patra/tenant-desk/internal/workspace"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// wheelStep is how many lines one mouse wheel notch scrolls.
const wheelStep = 3

// TenantListView renders the filtered tenants. Only the rows inside the
// computed window are drawn; the scroll position lives in a window.Tracker
// that this view observes while it is mounted.
type TenantListView struct {
	store     *workspace.Store
	styles    ui.Styles
	tracker   *window.Tracker
	rowHeight int
	overscan  int

	width  int
	height int
	active bool

	vp     window.Viewport
	cancel func()
	unsub  func()

	// Focus and list length at the last sync, to scroll only when they
	// change and leave wheel scrolling alone otherwise.
	syncedFocus string
	syncedCount int
}

// NewTenantListView creates the list. Call Init to mount it and Close to
// release its subscriptions.
func NewTenantListView(store *workspace.Store, styles ui.Styles, rowHeight, overscan int) *TenantListView {
	return &TenantListView{
		store:       store,
		styles:      styles,
		tracker:     window.NewTracker(0),
		rowHeight:   max(1, rowHeight),
		overscan:    max(0, overscan),
		syncedCount: -1,
	}
}

func (v *TenantListView) Init() tea.Cmd {
	if v.cancel != nil {
		return nil
	}
	v.cancel = v.tracker.Observe(func(vp window.Viewport) { v.vp = vp })
	v.unsub = v.store.Subscribe(func(st workspace.State) { v.sync(st) })
	v.vp = v.tracker.Viewport()
	v.sync(v.store.State())
	return nil
}

// Close unregisters the viewport observer and the store subscription.
func (v *TenantListView) Close() {
	if v.cancel != nil {
		v.cancel()
		v.cancel = nil
	}
	if v.unsub != nil {
		v.unsub()
		v.unsub = nil
	}
}

// Tracker exposes the viewport tracker.
func (v *TenantListView) Tracker() *window.Tracker { return v.tracker }

// SetActive marks whether the list owns the keyboard.
func (v *TenantListView) SetActive(active bool) { v.active = active }

func (v *TenantListView) SetSize(w, h int) {
	v.width = w
	v.height = h
	v.tracker.Resize(v.bodyHeight())
}

// PageSize is the number of whole rows that fit in the list body.
func (v *TenantListView) PageSize() int {
	return max(1, v.bodyHeight()/v.rowHeight)
}

// bodyHeight excludes the header line.
func (v *TenantListView) bodyHeight() int { return max(0, v.height-1) }

// sync keeps the tracker's content height current and scrolls the focused
// row into view when focus or the list length changes.
func (v *TenantListView) sync(st workspace.State) {
	items := v.store.Visible()
	v.tracker.SetContentHeight(window.TotalHeight(len(items), v.rowHeight))

	if st.FocusedID == v.syncedFocus && len(items) == v.syncedCount {
		return
	}
	v.syncedFocus, v.syncedCount = st.FocusedID, len(items)
	if i := tenant.Index(items, st.FocusedID); i >= 0 {
		v.tracker.EnsureVisible(i*v.rowHeight, v.rowHeight)
	}
}

func (v *TenantListView) Update(msg tea.Msg) (common.View, tea.Cmd) {
	if msg, ok := msg.(tea.MouseMsg); ok {
		return v.handleMouse(msg)
	}
	return v, nil
}

// handleMouse expects coordinates relative to the view's top-left corner.
func (v *TenantListView) handleMouse(msg tea.MouseMsg) (common.View, tea.Cmd) {
	switch msg.Button {
	case tea.MouseButtonWheelUp:
		v.tracker.ScrollBy(-wheelStep)
	case tea.MouseButtonWheelDown:
		v.tracker.ScrollBy(wheelStep)
	case tea.MouseButtonLeft:
		if msg.Action != tea.MouseActionPress || msg.Y < 1 {
			break
		}
		idx := (v.vp.ScrollOffset + msg.Y - 1) / v.rowHeight
		ids := v.store.VisibleIDs()
		if idx >= 0 && idx < len(ids) {
			v.store.Dispatch(workspace.SetFocus{ID: ids[idx]})
		}
	}
	return v, nil
}

// Frame builds the render frame for the current state and viewport.
func (v *TenantListView) Frame() listview.Frame {
	return listview.Build(v.store.Visible(), v.store.State(), v.vp, v.rowHeight, v.overscan)
}

func (v *TenantListView) View() string {
	if v.width <= 0 || v.height <= 0 {
		return ""
	}
	t := v.styles.Theme
	frame := v.Frame()

	headStyle := lipgloss.NewStyle().Foreground(t.Primary).Bold(true)
	if !v.active {
		headStyle = lipgloss.NewStyle().Foreground(t.TextMuted).Bold(true)
	}
	header := headStyle.Render(fmt.Sprintf(" Tenants (%d)", frame.Count))
	if frame.SelectedCount > 0 {
		header += v.styles.ListChecked.Render(fmt.Sprintf("  %d selected", frame.SelectedCount))
	}

	bodyH := v.bodyHeight()
	var body string
	switch {
	case !v.store.Loaded():
		body = ui.PlaceCentre(v.width, bodyH, v.styles.Muted.Render("Loading tenants…"))
	case frame.Count == 0:
		msg := "No tenants match these filters"
		hint := v.styles.Muted.Render("x clear filters")
		body = ui.PlaceCentre(v.width, bodyH,
			lipgloss.JoinVertical(lipgloss.Center, v.styles.Muted.Render(msg), hint))
	default:
		body = v.renderRows(frame, bodyH)
	}

	return lipgloss.JoinVertical(lipgloss.Left, header, body)
}

// renderRows paints the rows of frame that intersect the viewport into
// exactly height lines, with a scrollbar on the right when the list is
// longer than the viewport.
func (v *TenantListView) renderRows(frame listview.Frame, height int) string {
	bar := components.RenderScrollbar(v.styles, height, frame.TotalHeight, frame.Viewport.Size, frame.ScrollFraction())
	textW := v.width
	if bar != "" {
		textW--
	}

	rows := frame.Visible()
	lines := make([]string, 0, len(rows)*v.rowHeight)
	for _, r := range rows {
		lines = append(lines, v.renderRow(r, textW)...)
	}
	// The first visible row may start above the viewport.
	if len(rows) > 0 {
		if skip := frame.Viewport.ScrollOffset - rows[0].Y; skip > 0 && skip < len(lines) {
			lines = lines[skip:]
		}
	}
	content := ui.FitLines(strings.Join(lines, "\n"), height)
	if bar == "" {
		return content
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, lipgloss.NewStyle().Width(textW).Render(content), bar)
}

// renderRow returns the rowHeight lines for one tenant.
func (v *TenantListView) renderRow(r listview.Row, width int) []string {
	tn := r.Tenant
	s := v.styles

	check := "○"
	if r.Selected {
		check = s.ListChecked.Render("●")
	}
	watch := " "
	if tn.Watchlist {
		watch = s.Watchlist.Render("★")
	}

	nameW := max(8, width/3)
	name := ui.PadRight(ui.Truncate(tn.Name, nameW), nameW)
	parts := []string{check + " " + watch + " " + name}
	if tn.Stage != "" {
		parts = append(parts, ui.PadRight(s.StageStyle(tn.Stage).Render(tn.Stage.Label()), 10))
	}
	if tn.HealthScore != nil {
		parts = append(parts, s.Health.Render(fmt.Sprintf("♥%3.0f", *tn.HealthScore)))
	}
	if tn.Arrears != nil {
		if tier, ok := filter.TierFor(tn.Arrears.DaysLate); ok {
			parts = append(parts, s.TierStyle(tier).Render(string(tier)))
		}
	}
	if len(tn.Tags) > 0 {
		parts = append(parts, s.Tag.Render("#"+strings.Join(tn.Tags, " #")))
	}

	line := strings.Join(parts, " ")
	if lipgloss.Width(line) > width-2 {
		line = lipgloss.NewStyle().MaxWidth(max(width-2, 1)).Render(line)
	}
	var first string
	if r.Focused && v.active {
		first = s.ListSelected.Width(width).Render("▸ " + line)
	} else if r.Focused {
		first = s.Bold.Render("▸ ") + line
	} else {
		first = "  " + line
	}

	out := []string{first}
	if v.rowHeight > 1 {
		detail := ui.JoinHorizontal("  ", tn.Email, tn.Phone)
		out = append(out, s.ListDimmed.Render(ui.Truncate("    "+detail, width)))
	}
	for len(out) < v.rowHeight {
		out = append(out, "")
	}
	return out
}

func (v *TenantListView) ShortHelp() []components.HelpEntry {
	return []components.HelpEntry{
		{Key: "↑/↓", Desc: "move"},
		{Key: "space", Desc: "select"},
		{Key: "enter", Desc: "open"},
		{Key: "esc", Desc: "clear selection"},
		{Key: "/", Desc: "search"},
	}
}

func (v *TenantListView) InputCapture() bool { return false }
