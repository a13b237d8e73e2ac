package ui

import (
	"strings"

	"github.com/Akashdeep-Patra/tenant-desk/internal/filter"
	"github.com/Akashdeep-Patra/tenant-desk/internal/tenant"
	"github.com/charmbracelet/lipgloss"
)

// Theme holds all colours for the application.
type Theme struct {
	Bg            lipgloss.Color
	Surface       lipgloss.Color
	SurfaceHover  lipgloss.Color
	Border        lipgloss.Color
	BorderFocused lipgloss.Color

	Text        lipgloss.Color
	TextMuted   lipgloss.Color
	TextSubtle  lipgloss.Color
	TextInverse lipgloss.Color

	Primary   lipgloss.Color
	Secondary lipgloss.Color
	Accent    lipgloss.Color

	Success lipgloss.Color
	Warning lipgloss.Color
	Error   lipgloss.Color
	Info    lipgloss.Color

	// Tenancy stages.
	StageLead      lipgloss.Color
	StageApplicant lipgloss.Color
	StageActive    lipgloss.Color
	StageNotice    lipgloss.Color
	StagePast      lipgloss.Color

	// Arrears tiers, least to most severe.
	TierColors [4]lipgloss.Color

	Selected  lipgloss.Color
	Watchlist lipgloss.Color
	Chip      lipgloss.Color
}

// DarkTheme returns the default dark theme (Catppuccin Mocha).
func DarkTheme() Theme {
	return Theme{
		Bg:            lipgloss.Color("#1e1e2e"),
		Surface:       lipgloss.Color("#282840"),
		SurfaceHover:  lipgloss.Color("#313152"),
		Border:        lipgloss.Color("#3b3b5c"),
		BorderFocused: lipgloss.Color("#7c7cf0"),

		Text:        lipgloss.Color("#cdd6f4"),
		TextMuted:   lipgloss.Color("#9399b2"),
		TextSubtle:  lipgloss.Color("#6c7086"),
		TextInverse: lipgloss.Color("#1e1e2e"),

		Primary:   lipgloss.Color("#89b4fa"),
		Secondary: lipgloss.Color("#b4befe"),
		Accent:    lipgloss.Color("#f5c2e7"),

		Success: lipgloss.Color("#a6e3a1"),
		Warning: lipgloss.Color("#f9e2af"),
		Error:   lipgloss.Color("#f38ba8"),
		Info:    lipgloss.Color("#89b4fa"),

		StageLead:      lipgloss.Color("#89dceb"),
		StageApplicant: lipgloss.Color("#cba6f7"),
		StageActive:    lipgloss.Color("#a6e3a1"),
		StageNotice:    lipgloss.Color("#fab387"),
		StagePast:      lipgloss.Color("#6c7086"),

		TierColors: [4]lipgloss.Color{"#f9e2af", "#fab387", "#eba0ac", "#f38ba8"},

		Selected:  lipgloss.Color("#89b4fa"),
		Watchlist: lipgloss.Color("#f5c2e7"),
		Chip:      lipgloss.Color("#313152"),
	}
}

// LightTheme returns a light theme (Catppuccin Latte).
func LightTheme() Theme {
	return Theme{
		Bg:            lipgloss.Color("#eff1f5"),
		Surface:       lipgloss.Color("#e6e9ef"),
		SurfaceHover:  lipgloss.Color("#ccd0da"),
		Border:        lipgloss.Color("#bcc0cc"),
		BorderFocused: lipgloss.Color("#7287fd"),

		Text:        lipgloss.Color("#4c4f69"),
		TextMuted:   lipgloss.Color("#6c6f85"),
		TextSubtle:  lipgloss.Color("#9ca0b0"),
		TextInverse: lipgloss.Color("#eff1f5"),

		Primary:   lipgloss.Color("#1e66f5"),
		Secondary: lipgloss.Color("#7287fd"),
		Accent:    lipgloss.Color("#ea76cb"),

		Success: lipgloss.Color("#40a02b"),
		Warning: lipgloss.Color("#df8e1d"),
		Error:   lipgloss.Color("#d20f39"),
		Info:    lipgloss.Color("#1e66f5"),

		StageLead:      lipgloss.Color("#04a5e5"),
		StageApplicant: lipgloss.Color("#8839ef"),
		StageActive:    lipgloss.Color("#40a02b"),
		StageNotice:    lipgloss.Color("#fe640b"),
		StagePast:      lipgloss.Color("#9ca0b0"),

		TierColors: [4]lipgloss.Color{"#df8e1d", "#fe640b", "#e64553", "#d20f39"},

		Selected:  lipgloss.Color("#1e66f5"),
		Watchlist: lipgloss.Color("#ea76cb"),
		Chip:      lipgloss.Color("#ccd0da"),
	}
}

// ThemeByName maps a config value to a theme. Unknown names get the dark
// theme.
func ThemeByName(name string) Theme {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "light", "latte":
		return LightTheme()
	default:
		return DarkTheme()
	}
}

// Styles holds pre-computed lipgloss styles derived from a Theme.
type Styles struct {
	Theme Theme

	// Layout
	TabBar    lipgloss.Style
	TabActive lipgloss.Style
	TabItem   lipgloss.Style
	Content   lipgloss.Style
	StatusBar lipgloss.Style
	HelpBar   lipgloss.Style

	// Panels
	Panel        lipgloss.Style
	PanelFocused lipgloss.Style
	PanelTitle   lipgloss.Style

	// List items
	ListItem     lipgloss.Style
	ListSelected lipgloss.Style
	ListDimmed   lipgloss.Style
	ListChecked  lipgloss.Style

	// Text
	Title    lipgloss.Style
	Subtitle lipgloss.Style
	Body     lipgloss.Style
	Muted    lipgloss.Style
	Bold     lipgloss.Style
	Code     lipgloss.Style
	KeyBind  lipgloss.Style
	KeyDesc  lipgloss.Style

	// Tenant attributes
	Watchlist lipgloss.Style
	Health    lipgloss.Style
	Tag       lipgloss.Style
	Chip      lipgloss.Style
	ChipKey   lipgloss.Style

	// Search
	Prompt      lipgloss.Style
	SearchBox   lipgloss.Style
	SearchFocus lipgloss.Style

	// Dialogs
	Dialog       lipgloss.Style
	DialogTitle  lipgloss.Style
	DialogButton lipgloss.Style

	Spinner lipgloss.Style
}

// NewStyles builds all styles from the given theme.
func NewStyles(t Theme) Styles {
	s := Styles{Theme: t}

	s.TabBar = lipgloss.NewStyle().Padding(0, 1).Background(t.Surface)
	s.TabActive = lipgloss.NewStyle().Foreground(t.Primary).Bold(true).Padding(0, 2).Background(t.Bg)
	s.TabItem = lipgloss.NewStyle().Foreground(t.TextMuted).Padding(0, 2)
	s.Content = lipgloss.NewStyle().Padding(0, 1)
	s.StatusBar = lipgloss.NewStyle().Foreground(t.TextMuted).Background(t.Surface).Padding(0, 1)
	s.HelpBar = lipgloss.NewStyle().Foreground(t.TextSubtle).Padding(0, 1)

	s.Panel = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(t.Border).Padding(0, 1)
	s.PanelFocused = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(t.BorderFocused).Padding(0, 1)
	s.PanelTitle = lipgloss.NewStyle().Foreground(t.Text).Bold(true).Padding(0, 1)

	s.ListItem = lipgloss.NewStyle().Foreground(t.Text).PaddingLeft(2)
	s.ListSelected = lipgloss.NewStyle().Foreground(t.Text).Background(t.SurfaceHover).Bold(true).PaddingLeft(1)
	s.ListDimmed = lipgloss.NewStyle().Foreground(t.TextSubtle).PaddingLeft(2)
	s.ListChecked = lipgloss.NewStyle().Foreground(t.Selected).Bold(true)

	s.Title = lipgloss.NewStyle().Foreground(t.Text).Bold(true)
	s.Subtitle = lipgloss.NewStyle().Foreground(t.TextMuted).Bold(true)
	s.Body = lipgloss.NewStyle().Foreground(t.Text)
	s.Muted = lipgloss.NewStyle().Foreground(t.TextMuted)
	s.Bold = lipgloss.NewStyle().Foreground(t.Text).Bold(true)
	s.Code = lipgloss.NewStyle().Foreground(t.Primary).Background(t.Surface).Padding(0, 1)
	s.KeyBind = lipgloss.NewStyle().Foreground(t.Primary).Bold(true)
	s.KeyDesc = lipgloss.NewStyle().Foreground(t.TextMuted)

	s.Watchlist = lipgloss.NewStyle().Foreground(t.Watchlist).Bold(true)
	s.Health = lipgloss.NewStyle().Foreground(t.Secondary)
	s.Tag = lipgloss.NewStyle().Foreground(t.Accent)
	s.Chip = lipgloss.NewStyle().Foreground(t.Text).Background(t.Chip).Padding(0, 1)
	s.ChipKey = lipgloss.NewStyle().Foreground(t.TextMuted).Background(t.Chip)

	s.Prompt = lipgloss.NewStyle().Foreground(t.Primary).Bold(true)
	s.SearchBox = lipgloss.NewStyle().Foreground(t.TextMuted)
	s.SearchFocus = lipgloss.NewStyle().Foreground(t.Text)

	s.Dialog = lipgloss.NewStyle().Border(lipgloss.DoubleBorder()).BorderForeground(t.Primary).Padding(1, 2).Width(60)
	s.DialogTitle = lipgloss.NewStyle().Foreground(t.Text).Bold(true).Align(lipgloss.Center)
	s.DialogButton = lipgloss.NewStyle().Foreground(t.TextInverse).Background(t.Primary).Padding(0, 3).Bold(true)

	s.Spinner = lipgloss.NewStyle().Foreground(t.Primary)

	return s
}

// DefaultStyles returns styles using the dark theme.
func DefaultStyles() Styles {
	return NewStyles(DarkTheme())
}

// StageStyle returns the badge style for a tenancy stage.
func (s Styles) StageStyle(stage tenant.Stage) lipgloss.Style {
	c := s.Theme.TextMuted
	switch stage {
	case tenant.StageLead:
		c = s.Theme.StageLead
	case tenant.StageApplicant:
		c = s.Theme.StageApplicant
	case tenant.StageActive:
		c = s.Theme.StageActive
	case tenant.StageNotice:
		c = s.Theme.StageNotice
	case tenant.StagePast:
		c = s.Theme.StagePast
	}
	return lipgloss.NewStyle().Foreground(c)
}

// TierStyle returns the style for an arrears tier.
func (s Styles) TierStyle(tier filter.Tier) lipgloss.Style {
	for i, t := range filter.AllTiers {
		if t == tier {
			st := lipgloss.NewStyle().Foreground(s.Theme.TierColors[i])
			if tier == filter.TierCritical {
				st = st.Bold(true)
			}
			return st
		}
	}
	return s.Muted
}
