package components

import (
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/Akashdeep-Patra/tenant-desk/internal/ui"
	"github.com/charmbracelet/lipgloss"
)

// ViewBarRows is the number of screen rows the view bar occupies: one row
// of tabs and the underline.
const ViewBarRows = 2

// MaxPinnedTabs is how many pinned views get a number key.
const MaxPinnedTabs = 9

// ViewTab describes a pinned saved view in the bar.
type ViewTab struct {
	ID     string
	Name   string
	Active bool
}

// viewTabMode controls how tab labels are rendered.
type viewTabMode int

const (
	viewTabFull  viewTabMode = iota // "1 Late payers"
	viewTabShort                    // "1 Lat"
	viewTabKey                      // "1"
)

func viewTabLabel(i int, tab ViewTab, mode viewTabMode) string {
	key := strconv.Itoa(i + 1)
	switch mode {
	case viewTabFull:
		return key + " " + tab.Name
	case viewTabShort:
		runes := []rune(tab.Name)
		if len(runes) > 3 {
			runes = runes[:3]
		}
		return key + " " + string(runes)
	default:
		return key
	}
}

// viewBarMode picks the widest label mode whose tabs fit on one row.
func viewBarMode(tabs []ViewTab, width int) viewTabMode {
	for _, mode := range []viewTabMode{viewTabFull, viewTabShort} {
		w := 1
		for i, tab := range tabs {
			w += utf8.RuneCountInString(viewTabLabel(i, tab, mode)) + 2
		}
		if w <= width {
			return mode
		}
	}
	return viewTabKey
}

// RenderViewBar renders the pinned saved views as a one-row tab strip with
// an underline accenting the active view. Only the first MaxPinnedTabs are
// shown; they map to the number keys.
func RenderViewBar(styles ui.Styles, tabs []ViewTab, width int) string {
	t := styles.Theme
	if len(tabs) > MaxPinnedTabs {
		tabs = tabs[:MaxPinnedTabs]
	}

	activeStyle := lipgloss.NewStyle().Foreground(t.Primary).Bold(true)
	inactiveStyle := lipgloss.NewStyle().Foreground(t.TextMuted)

	var row strings.Builder
	row.WriteByte(' ')
	col := 1
	activeStart, activeEnd := -1, -1

	if len(tabs) == 0 {
		row.WriteString(styles.Muted.Render("no pinned views"))
	} else {
		mode := viewBarMode(tabs, width)
		for i, tab := range tabs {
			label := viewTabLabel(i, tab, mode)
			var styled string
			if tab.Active {
				styled = " " + activeStyle.Render(label) + " "
			} else {
				styled = " " + inactiveStyle.Render(label) + " "
			}
			w := lipgloss.Width(styled)
			if tab.Active {
				activeStart, activeEnd = col, col+w
			}
			row.WriteString(styled)
			col += w
		}
	}

	top := lipgloss.NewStyle().Width(width).MaxWidth(width).Background(t.Bg).Render(row.String())

	borderStyle := lipgloss.NewStyle().Foreground(t.Border)
	accentStyle := lipgloss.NewStyle().Foreground(t.Primary).Bold(true)

	hint := lipgloss.NewStyle().Foreground(t.TextSubtle).Faint(true).Render("v views  ?help")
	hintW := lipgloss.Width(hint)
	var ul string
	if hintW+4 < width {
		ul = buildUnderline(width-hintW-1, activeStart, activeEnd, borderStyle, accentStyle) + " " + hint
	} else {
		ul = buildUnderline(width, activeStart, activeEnd, borderStyle, accentStyle)
	}

	return lipgloss.JoinVertical(lipgloss.Left, top, lipgloss.NewStyle().Width(width).Render(ul))
}

// buildUnderline builds a width-wide underline with a bold accent segment
// between activeStart..activeEnd and thin segments elsewhere.
func buildUnderline(width, activeStart, activeEnd int, borderSt, accentSt lipgloss.Style) string {
	if width <= 0 {
		return ""
	}
	if activeStart < 0 || activeEnd < 0 {
		return borderSt.Render(strings.Repeat("─", width))
	}
	activeEnd = min(activeEnd, width)
	activeStart = min(activeStart, width)

	var b strings.Builder
	b.Grow(width * 4)
	if activeStart > 0 {
		b.WriteString(borderSt.Render(strings.Repeat("─", activeStart)))
	}
	if seg := activeEnd - activeStart; seg > 0 {
		b.WriteString(accentSt.Render(strings.Repeat("━", seg)))
	}
	if rem := width - activeEnd; rem > 0 {
		b.WriteString(borderSt.Render(strings.Repeat("─", rem)))
	}
	return b.String()
}
