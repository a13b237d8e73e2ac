package views

import (
	"fmt"
	"slices"
	"strings"

	"github.com/Akashdeep-Patra/tenant-desk/internal/common"
	"github.com/Akashdeep-Patra/tenant-desk/internal/filter"
	"github.com/Akashdeep-Patra/tenant-desk/internal/tenant"
	"github.com/Akashdeep-Patra/tenant-desk/internal/ui"
	"github.com/Akashdeep-Patra/tenant-desk/internal/ui/components"
	"github.com/Akashdeep-Patra/tenant-desk/internal/workspace"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// healthStep is how far left/right moves a health bound.
const healthStep = 5

// DayWindows are the choices cycled through for the day-window filters.
// The leading nil is "any".
var DayWindows = []*int{nil, filter.Days(7), filter.Days(14), filter.Days(30), filter.Days(90)}

type filterRowKind int

const (
	rowStage filterRowKind = iota
	rowTier
	rowTag
	rowWatchlist
	rowArrearsOnly
	rowHealthMin
	rowHealthMax
	rowLastContact
	rowUpcomingEvent
)

type filterRow struct {
	kind  filterRowKind
	stage tenant.Stage
	tier  filter.Tier
	tag   string
}

// FiltersView is the side panel editing the workspace filters. Every edit
// is dispatched to the store immediately.
type FiltersView struct {
	store  *workspace.Store
	styles ui.Styles
	width  int
	height int
	cursor int
	offset int
	active bool
}

// NewFiltersView creates the filters panel.
func NewFiltersView(store *workspace.Store, styles ui.Styles) *FiltersView {
	return &FiltersView{store: store, styles: styles}
}

func (v *FiltersView) Init() tea.Cmd { return nil }

func (v *FiltersView) SetSize(w, h int) { v.width = w; v.height = h }

// SetActive marks whether the panel owns the keyboard.
func (v *FiltersView) SetActive(active bool) { v.active = active }

// rows lists the panel entries: fixed sections first, then one row per tag
// known to the loaded tenants.
func (v *FiltersView) rows() []filterRow {
	var rows []filterRow
	for _, s := range tenant.AllStages {
		rows = append(rows, filterRow{kind: rowStage, stage: s})
	}
	for _, t := range filter.AllTiers {
		rows = append(rows, filterRow{kind: rowTier, tier: t})
	}
	rows = append(rows,
		filterRow{kind: rowWatchlist},
		filterRow{kind: rowArrearsOnly},
		filterRow{kind: rowHealthMin},
		filterRow{kind: rowHealthMax},
		filterRow{kind: rowLastContact},
		filterRow{kind: rowUpcomingEvent},
	)
	for _, tag := range v.tags() {
		rows = append(rows, filterRow{kind: rowTag, tag: tag})
	}
	return rows
}

// tags merges the loaded tenants' tags with any already in the filter, so
// an active tag stays removable after the list changed.
func (v *FiltersView) tags() []string {
	seen := make(map[string]bool)
	var out []string
	for _, tag := range v.store.Tags() {
		seen[tag] = true
		out = append(out, tag)
	}
	for _, tag := range v.store.State().Filters.Tags {
		if !seen[tag] {
			out = append(out, tag)
		}
	}
	return out
}

func (v *FiltersView) Update(msg tea.Msg) (common.View, tea.Cmd) {
	key, ok := msg.(tea.KeyMsg)
	if !ok {
		return v, nil
	}
	rows := v.rows()
	if len(rows) == 0 {
		return v, nil
	}
	v.cursor = min(v.cursor, len(rows)-1)

	switch key.String() {
	case "j", "down":
		v.cursor = min(v.cursor+1, len(rows)-1)
	case "k", "up":
		v.cursor = max(v.cursor-1, 0)
	case "g", "home":
		v.cursor = 0
	case "G", "end":
		v.cursor = len(rows) - 1
	case " ", "space", "enter":
		v.toggle(rows[v.cursor])
	case "l", "right", "+":
		v.adjust(rows[v.cursor], 1)
	case "h", "left", "-":
		v.adjust(rows[v.cursor], -1)
	case "esc", "tab":
		return v, common.Send(common.ClosePaneMsg{})
	}
	return v, nil
}

func (v *FiltersView) toggle(r filterRow) {
	f := v.store.State().Filters
	switch r.kind {
	case rowStage:
		v.store.Dispatch(workspace.ToggleStage{Stage: r.stage})
	case rowTier:
		v.store.Dispatch(workspace.ToggleTier{Tier: r.tier})
	case rowTag:
		v.store.Dispatch(workspace.ToggleTag{Tag: r.tag})
	case rowWatchlist:
		v.store.Dispatch(workspace.SetFilter{Key: workspace.KeyWatchlistOnly, Value: !f.WatchlistOnly})
	case rowArrearsOnly:
		v.store.Dispatch(workspace.SetFilter{Key: workspace.KeyArrearsOnly, Value: !f.ArrearsOnly})
	case rowHealthMin:
		v.store.Dispatch(workspace.SetFilter{Key: workspace.KeyHealthMin, Value: filter.HealthFloor})
	case rowHealthMax:
		v.store.Dispatch(workspace.SetFilter{Key: workspace.KeyHealthMax, Value: filter.HealthCeil})
	case rowLastContact, rowUpcomingEvent:
		v.adjust(r, 1)
	}
}

func (v *FiltersView) adjust(r filterRow, dir int) {
	f := v.store.State().Filters
	switch r.kind {
	case rowHealthMin:
		next := min(max(f.HealthMin+dir*healthStep, filter.HealthFloor), f.HealthMax)
		v.store.Dispatch(workspace.SetFilter{Key: workspace.KeyHealthMin, Value: next})
	case rowHealthMax:
		next := max(min(f.HealthMax+dir*healthStep, filter.HealthCeil), f.HealthMin)
		v.store.Dispatch(workspace.SetFilter{Key: workspace.KeyHealthMax, Value: next})
	case rowLastContact:
		v.store.Dispatch(workspace.SetFilter{Key: workspace.KeyLastContactWithinDays, Value: cycleDays(f.LastContactWithinDays, dir)})
	case rowUpcomingEvent:
		v.store.Dispatch(workspace.SetFilter{Key: workspace.KeyUpcomingEventWithinDays, Value: cycleDays(f.UpcomingEventWithinDays, dir)})
	default:
		v.toggle(r)
	}
}

// cycleDays returns the DayWindows entry dir steps from cur. A value not in
// the list restarts from "any".
func cycleDays(cur *int, dir int) *int {
	i := 0
	for j, d := range DayWindows {
		if (d == nil && cur == nil) || (d != nil && cur != nil && *d == *cur) {
			i = j
			break
		}
	}
	n := len(DayWindows)
	return DayWindows[((i+dir)%n+n)%n]
}

func (v *FiltersView) View() string {
	if v.width <= 0 || v.height <= 0 {
		return ""
	}
	t := v.styles.Theme
	f := v.store.State().Filters
	rows := v.rows()
	v.cursor = min(v.cursor, max(len(rows)-1, 0))

	headStyle := lipgloss.NewStyle().Foreground(t.Primary).Bold(true)
	if !v.active {
		headStyle = lipgloss.NewStyle().Foreground(t.TextMuted).Bold(true)
	}
	header := headStyle.Render(fmt.Sprintf(" Filters (%d active)", f.ActiveCount()))

	var lines []string
	cursorLine := 0
	prev := filterRowKind(-1)
	for i, r := range rows {
		if section := sectionTitle(r.kind); section != "" && sectionTitle(prev) != section {
			lines = append(lines, v.styles.Subtitle.Render(" "+section))
		}
		prev = r.kind
		line := v.renderRow(r, f)
		if i == v.cursor {
			cursorLine = len(lines)
			if v.active {
				line = v.styles.ListSelected.Width(max(v.width-1, 1)).Render("▸ " + line)
			} else {
				line = "▸ " + line
			}
		} else {
			line = "  " + line
		}
		lines = append(lines, line)
	}

	bodyH := max(v.height-2, 1)
	if cursorLine < v.offset {
		v.offset = cursorLine
	} else if cursorLine >= v.offset+bodyH {
		v.offset = cursorLine - bodyH + 1
	}
	v.offset = min(v.offset, max(len(lines)-bodyH, 0))
	visible := lines[v.offset:min(v.offset+bodyH, len(lines))]

	hint := v.styles.Muted.Render(" space toggle  ←/→ adjust  esc close")
	return lipgloss.JoinVertical(lipgloss.Left, header, ui.FitLines(strings.Join(visible, "\n"), bodyH), hint)
}

func sectionTitle(k filterRowKind) string {
	switch k {
	case rowStage:
		return "Stage"
	case rowTier:
		return "Arrears tier"
	case rowWatchlist, rowArrearsOnly:
		return "Flags"
	case rowHealthMin, rowHealthMax:
		return "Health"
	case rowLastContact, rowUpcomingEvent:
		return "Activity"
	case rowTag:
		return "Tags"
	}
	return ""
}

func (v *FiltersView) renderRow(r filterRow, f filter.Filters) string {
	s := v.styles
	box := func(on bool) string {
		if on {
			return s.ListChecked.Render("[x]")
		}
		return s.Muted.Render("[ ]")
	}
	switch r.kind {
	case rowStage:
		return box(slices.Contains(f.Stages, r.stage)) + " " + s.StageStyle(r.stage).Render(r.stage.Label())
	case rowTier:
		return box(slices.Contains(f.ArrearsTiers, r.tier)) + " " + s.TierStyle(r.tier).Render(string(r.tier))
	case rowTag:
		return box(slices.Contains(f.Tags, r.tag)) + " " + s.Tag.Render("#"+r.tag)
	case rowWatchlist:
		return box(f.WatchlistOnly) + " Watchlist only"
	case rowArrearsOnly:
		return box(f.ArrearsOnly) + " In arrears only"
	case rowHealthMin:
		return fmt.Sprintf("Min  ◂ %3d ▸", f.HealthMin)
	case rowHealthMax:
		return fmt.Sprintf("Max  ◂ %3d ▸", f.HealthMax)
	case rowLastContact:
		return "Contacted within  ◂ " + describeDays(f.LastContactWithinDays) + " ▸"
	case rowUpcomingEvent:
		return "Event within      ◂ " + describeDays(f.UpcomingEventWithinDays) + " ▸"
	}
	return ""
}

func describeDays(d *int) string {
	if d == nil {
		return "any"
	}
	return fmt.Sprintf("%dd", *d)
}

func (v *FiltersView) ShortHelp() []components.HelpEntry {
	return []components.HelpEntry{
		{Key: "space", Desc: "toggle"},
		{Key: "←/→", Desc: "adjust"},
		{Key: "esc", Desc: "back to list"},
	}
}

func (v *FiltersView) InputCapture() bool { return false }
