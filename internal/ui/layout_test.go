package ui

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSplitWidths(t *testing.T) {
	tests := []struct {
		name               string
		total, percent     int
		wantList, wantSide int
	}{
		{"even split", 100, 50, 50, 50},
		{"list share", 100, 40, 40, 60},
		{"list floor", 100, 5, MinPaneWidth, 100 - MinPaneWidth},
		{"side floor", 100, 95, 100 - MinPaneWidth, MinPaneWidth},
		{"too narrow for two panes", 30, 40, 30, 0},
		{"zero width", 0, 40, 0, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			list, side := SplitWidths(tt.total, tt.percent)
			assert.Equal(t, tt.wantList, list)
			assert.Equal(t, tt.wantSide, side)
		})
	}
}

func TestTruncate(t *testing.T) {
	assert.Equal(t, "hello", Truncate("hello", 5))
	assert.Equal(t, "hel…", Truncate("hello", 4))
	assert.Equal(t, "…", Truncate("hello", 1))
	assert.Equal(t, "", Truncate("hello", 0))
	assert.Equal(t, "héllo", Truncate("héllo", 5))
}

func TestFitLines(t *testing.T) {
	assert.Equal(t, "a\nb", FitLines("a\nb\nc", 2))
	assert.Equal(t, 4, len(strings.Split(FitLines("a", 4), "\n")))
	assert.Empty(t, FitLines("a", 0))
}

func TestThemeByName(t *testing.T) {
	assert.Equal(t, LightTheme(), ThemeByName("light"))
	assert.Equal(t, LightTheme(), ThemeByName("Latte"))
	assert.Equal(t, DarkTheme(), ThemeByName("unknown"))
}
