package views

import (
	"fmt"
	"strings"
	"time"

	"github.com/Akashdeep-Patra/tenant-desk/internal/common"
	"github.com/Akashdeep-Patra/tenant-desk/internal/filter"
	"github.com/Akashdeep-Patra/tenant-desk/internal/tenant"
	"github.com/Akashdeep-Patra/tenant-desk/internal/ui"
	"github.com/Akashdeep-Patra/tenant-desk/internal/ui/components"
	"github.com/Akashdeep-Patra/tenant-desk/internal/workspace"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// DetailView shows the focused tenant, or a summary of the selection when
// several tenants are selected.
type DetailView struct {
	store  *workspace.Store
	styles ui.Styles
	width  int
	height int
	vp     viewport.Model
	shown  string
}

// NewDetailView creates a new DetailView.
func NewDetailView(store *workspace.Store, styles ui.Styles) *DetailView {
	return &DetailView{
		store:  store,
		styles: styles,
		vp:     viewport.New(0, 0),
	}
}

func (v *DetailView) Init() tea.Cmd { return nil }

func (v *DetailView) SetSize(w, h int) {
	v.width = w
	v.height = h
	v.vp.Width = max(0, w-2)
	v.vp.Height = max(0, h)
}

func (v *DetailView) Update(msg tea.Msg) (common.View, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.MouseMsg:
		var cmd tea.Cmd
		v.vp, cmd = v.vp.Update(msg)
		return v, cmd
	case tea.KeyMsg:
		switch msg.String() {
		case "pgdown", "J":
			v.vp.HalfPageDown()
		case "pgup", "K":
			v.vp.HalfPageUp()
		}
	}
	return v, nil
}

func (v *DetailView) View() string {
	if v.width <= 0 || v.height <= 0 {
		return ""
	}
	content, key := v.render()
	if key != v.shown {
		v.shown = key
		v.vp.SetContent(content)
		v.vp.GotoTop()
	} else {
		v.vp.SetContent(content)
	}
	return lipgloss.NewStyle().PaddingLeft(1).Render(v.vp.View())
}

// render builds the pane content and a key identifying what it shows.
func (v *DetailView) render() (string, string) {
	selected := v.store.Selected()
	if len(selected) > 1 {
		return v.renderSelection(selected), "selection"
	}
	tn, ok := v.store.Focused()
	if !ok {
		return ui.PlaceCentre(v.vp.Width, v.vp.Height, v.styles.Muted.Render("No tenant focused")), ""
	}
	return v.renderTenant(tn, v.store.Now()), tn.ID
}

func (v *DetailView) renderTenant(tn tenant.Tenant, now time.Time) string {
	s := v.styles
	var b strings.Builder

	title := s.Title.Render(tn.Name)
	if tn.Watchlist {
		title += " " + s.Watchlist.Render("★ watchlist")
	}
	b.WriteString(title + "\n")
	if tn.Stage != "" {
		b.WriteString(s.StageStyle(tn.Stage).Render(tn.Stage.Label()) + "  ")
	}
	b.WriteString(s.Muted.Render(tn.ID) + "\n\n")

	field := func(label, value string) {
		if value == "" {
			return
		}
		b.WriteString(s.Subtitle.Width(14).Render(label) + s.Body.Render(value) + "\n")
	}

	field("Email", tn.Email)
	field("Phone", tn.Phone)
	if tn.HealthScore != nil {
		field("Health", fmt.Sprintf("%.0f / 100", *tn.HealthScore))
	}
	if tn.Arrears != nil {
		amount := formatCents(tn.Arrears.AmountCents)
		line := fmt.Sprintf("%s, %d days late", amount, tn.Arrears.DaysLate)
		if tier, ok := filter.TierFor(tn.Arrears.DaysLate); ok {
			line += "  " + s.TierStyle(tier).Render(string(tier))
		}
		field("Arrears", line)
	}
	if tn.LastTouchpointAt != nil {
		field("Last contact", formatDate(*tn.LastTouchpointAt)+"  "+s.Muted.Render(relativeDays(*tn.LastTouchpointAt, now)))
	}
	if tn.NextEventAt != nil {
		field("Next event", formatDate(*tn.NextEventAt)+"  "+s.Muted.Render(relativeDays(*tn.NextEventAt, now)))
	}
	if len(tn.Tags) > 0 {
		tags := make([]string, len(tn.Tags))
		for i, tag := range tn.Tags {
			tags[i] = s.Tag.Render("#" + tag)
		}
		field("Tags", strings.Join(tags, " "))
	}

	b.WriteString("\n" + s.Muted.Render("y copy email  space select"))
	return b.String()
}

func (v *DetailView) renderSelection(items []tenant.Tenant) string {
	s := v.styles
	var b strings.Builder
	b.WriteString(s.Title.Render(fmt.Sprintf("%d tenants selected", len(items))) + "\n\n")

	var watch, late int
	var owed int64
	tiers := make(map[filter.Tier]int)
	stages := make(map[tenant.Stage]int)
	for _, tn := range items {
		if tn.Watchlist {
			watch++
		}
		if tn.Arrears != nil {
			late++
			owed += tn.Arrears.AmountCents
			if tier, ok := filter.TierFor(tn.Arrears.DaysLate); ok {
				tiers[tier]++
			}
		}
		stages[tn.Stage]++
	}

	for _, st := range tenant.AllStages {
		if n := stages[st]; n > 0 {
			b.WriteString(fmt.Sprintf("  %s %d\n", ui.PadRight(s.StageStyle(st).Render(st.Label()), 12), n))
		}
	}
	b.WriteString("\n")
	b.WriteString(fmt.Sprintf("  %s %d\n", ui.PadRight(s.Watchlist.Render("Watchlist"), 12), watch))
	b.WriteString(fmt.Sprintf("  %s %d  %s\n", ui.PadRight(s.Body.Render("In arrears"), 12), late, s.Muted.Render(formatCents(owed))))
	for _, tier := range filter.AllTiers {
		if n := tiers[tier]; n > 0 {
			b.WriteString(fmt.Sprintf("    %s %d\n", ui.PadRight(s.TierStyle(tier).Render(string(tier)), 10), n))
		}
	}

	b.WriteString("\n" + s.Muted.Render("y copy emails  esc clear selection"))
	return b.String()
}

func (v *DetailView) ShortHelp() []components.HelpEntry {
	return []components.HelpEntry{
		{Key: "J/K", Desc: "scroll detail"},
		{Key: "y", Desc: "copy"},
	}
}

func (v *DetailView) InputCapture() bool { return false }

func formatCents(c int64) string {
	sign := ""
	if c < 0 {
		sign = "-"
		c = -c
	}
	return fmt.Sprintf("%s$%d.%02d", sign, c/100, c%100)
}

func formatDate(t time.Time) string { return t.Format("2 Jan 2006") }

// relativeDays describes t relative to now in whole days.
func relativeDays(t, now time.Time) string {
	days := int(now.Sub(t).Hours() / 24)
	switch {
	case days == 0:
		return "today"
	case days == 1:
		return "yesterday"
	case days > 1:
		return fmt.Sprintf("%d days ago", days)
	case days == -1:
		return "tomorrow"
	default:
		return fmt.Sprintf("in %d days", -days)
	}
}
