package components

import (
	"fmt"
	"strings"

	"github.com/Akashdeep-Patra/tenant-desk/internal/filter"
	"github.com/Akashdeep-Patra/tenant-desk/internal/ui"
	"github.com/charmbracelet/lipgloss"
)

// FilterChips lists the active filter dimensions as short labels, in a
// fixed order. Search text is not included; the search field shows it.
func FilterChips(f filter.Filters) []string {
	var chips []string
	if len(f.Stages) > 0 {
		names := make([]string, len(f.Stages))
		for i, s := range f.Stages {
			names[i] = s.Label()
		}
		chips = append(chips, "stage: "+strings.Join(names, "|"))
	}
	for _, tag := range f.Tags {
		chips = append(chips, "#"+tag)
	}
	for _, tag := range f.CustomTags {
		chips = append(chips, "#"+tag+"*")
	}
	if f.HealthMin > filter.HealthFloor || f.HealthMax < filter.HealthCeil {
		chips = append(chips, fmt.Sprintf("health %d–%d", f.HealthMin, f.HealthMax))
	}
	if len(f.ArrearsTiers) > 0 {
		names := make([]string, len(f.ArrearsTiers))
		for i, t := range f.ArrearsTiers {
			names[i] = string(t)
		}
		chips = append(chips, "arrears: "+strings.Join(names, "|"))
	}
	if f.LastContactWithinDays != nil {
		chips = append(chips, fmt.Sprintf("contact ≤%dd", *f.LastContactWithinDays))
	}
	if f.UpcomingEventWithinDays != nil {
		chips = append(chips, fmt.Sprintf("event ≤%dd", *f.UpcomingEventWithinDays))
	}
	if f.WatchlistOnly {
		chips = append(chips, "watchlist")
	}
	if f.ArrearsOnly {
		chips = append(chips, "in arrears")
	}
	return chips
}

// RenderChips renders the active filters on one line, eliding what does
// not fit with a "+N" counter.
func RenderChips(styles ui.Styles, f filter.Filters, width int) string {
	chips := FilterChips(f)
	if len(chips) == 0 {
		return styles.Muted.Render(" no filters")
	}

	var b strings.Builder
	b.WriteByte(' ')
	used := 1
	for i, c := range chips {
		chip := styles.Chip.Render(c)
		w := lipgloss.Width(chip) + 1
		rest := len(chips) - i
		more := ""
		if rest > 1 {
			more = fmt.Sprintf(" +%d", rest-1)
		}
		if used+w+len(more) > width && i > 0 {
			b.WriteString(styles.Muted.Render(fmt.Sprintf("+%d", rest)))
			break
		}
		b.WriteString(chip)
		b.WriteByte(' ')
		used += w
	}
	return b.String()
}
