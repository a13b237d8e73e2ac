package components

import (
	"strings"

	"github.com/Akashdeep-Patra/tenant-desk/internal/ui"
	"github.com/charmbracelet/lipgloss"
)

// RenderScrollbar returns a vertical scrollbar track of the given height.
// The thumb is proportional to the visible share of the content and
// positioned by scrollPct (0.0–1.0).
//
// Returns an empty string if all content fits.
func RenderScrollbar(styles ui.Styles, height, total, visible int, scrollPct float64) string {
	start, size, ok := thumb(height, total, visible, scrollPct)
	if !ok {
		return ""
	}

	t := styles.Theme
	thumbStyle := lipgloss.NewStyle().Foreground(t.Primary)
	trackStyle := lipgloss.NewStyle().Foreground(t.Border)

	var b strings.Builder
	b.Grow(height * 4)
	for i := 0; i < height; i++ {
		if i > 0 {
			b.WriteByte('\n')
		}
		if i >= start && i < start+size {
			b.WriteString(thumbStyle.Render("█"))
		} else {
			b.WriteString(trackStyle.Render("░"))
		}
	}
	return b.String()
}

// thumb computes the thumb's first row and length on a track of height rows.
func thumb(height, total, visible int, scrollPct float64) (start, size int, ok bool) {
	if total <= visible || height < 1 || total <= 0 {
		return 0, 0, false
	}
	size = min(max(height*visible/total, 1), height)
	span := height - size
	pct := min(max(scrollPct, 0), 1)
	start = min(int(pct*float64(span)+0.5), span)
	return start, size, true
}
