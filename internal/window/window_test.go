package window

import (
	"math"
	"math/rand/v2"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestComputeVisibleRange_Scenario(t *testing.T) {
	r := ComputeVisibleRange(1250, 400, 100, 1000, 4)
	assert.Equal(t, Range{Start: 8, End: 20}, r)
	assert.Equal(t, 800, r.Offset(100))
	assert.Equal(t, 100000, TotalHeight(1000, 100))
}

func TestComputeVisibleRange_Edges(t *testing.T) {
	tests := []struct {
		name                               string
		scroll, size, row, count, overscan int
		want                               Range
	}{
		{"empty list", 500, 400, 100, 0, 4, Range{}},
		{"top of list", 0, 400, 100, 1000, 4, Range{0, 12}},
		{"near end", 99_800, 400, 100, 1000, 4, Range{994, 1000}},
		{"scrolled past end", 1_000_000, 400, 100, 10, 2, Range{10, 10}},
		{"partial row rounds up", 0, 250, 100, 50, 0, Range{0, 3}},
		{"zero viewport", 300, 0, 100, 50, 1, Range{2, 4}},
		{"no overscan", 300, 200, 100, 50, 0, Range{3, 5}},
		{"negative inputs", -10, -5, -1, 5, -3, Range{0, 0}},
		{"zero row height", 3, 2, 0, 10, 0, Range{3, 5}},
		{"short list", 0, 24, 1, 5, 4, Range{0, 5}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ComputeVisibleRange(tt.scroll, tt.size, tt.row, tt.count, tt.overscan)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestComputeVisibleRange_BoundsAndMonotonic(t *testing.T) {
	r := rand.New(rand.NewPCG(42, 99))
	for i := 0; i < 500; i++ {
		size := r.IntN(2000)
		row := 1 + r.IntN(200)
		count := r.IntN(5000)
		overscan := r.IntN(10)

		prev := Range{}
		step := max(1, count*row/50)
		for scroll := 0; scroll <= count*row+size; scroll += 1 + r.IntN(step) {
			got := ComputeVisibleRange(scroll, size, row, count, overscan)
			require.GreaterOrEqual(t, got.Start, 0)
			require.LessOrEqual(t, got.Start, got.End)
			require.LessOrEqual(t, got.End, count)
			require.GreaterOrEqual(t, got.Start, prev.Start, "start regressed at scroll=%d", scroll)
			require.GreaterOrEqual(t, got.End, prev.End, "end regressed at scroll=%d", scroll)
			require.Equal(t, got, ComputeVisibleRange(scroll, size, row, count, overscan))
			prev = got
		}
	}
}

func TestComputeVisibleRange_ExtremeInputs(t *testing.T) {
	big := math.MaxInt
	cases := []struct {
		scroll, size, row, count, overscan int
	}{
		{0, big, 2, 10, 0},
		{0, 10, 1, 10, big/2 + 1},
		{0, big, 1, big, big},
		{big, big, 1, big, big},
		{big, 0, big, 3, 0},
		{big - 1, 1, 1, big, 4},
		{0, big - 1, big, big, 1},
	}
	for _, c := range cases {
		got := ComputeVisibleRange(c.scroll, c.size, c.row, c.count, c.overscan)
		require.GreaterOrEqual(t, got.Start, 0, "%+v", c)
		require.LessOrEqual(t, got.Start, got.End, "%+v", c)
		require.LessOrEqual(t, got.End, c.count, "%+v", c)
		require.GreaterOrEqual(t, got.Offset(c.row), 0, "%+v", c)
	}

	assert.Equal(t, Range{Start: 0, End: 10}, ComputeVisibleRange(0, big, 2, 10, 0))
	assert.Equal(t, Range{Start: 0, End: 10}, ComputeVisibleRange(0, 10, 1, 10, big/2+1))
	assert.Equal(t, math.MaxInt, TotalHeight(big, 2))
}

func TestComputeVisibleRange_CoversViewport(t *testing.T) {
	r := rand.New(rand.NewPCG(5, 8))
	for i := 0; i < 500; i++ {
		row := 1 + r.IntN(50)
		count := 1 + r.IntN(1000)
		size := 1 + r.IntN(500)
		scroll := r.IntN(count * row)
		got := ComputeVisibleRange(scroll, size, row, count, 0)

		first := scroll / row
		require.True(t, got.Contains(first), "first visible row %d not in %v", first, got)
	}
}

func TestRange_Helpers(t *testing.T) {
	r := Range{Start: 3, End: 7}
	assert.Equal(t, 4, r.Len())
	assert.True(t, r.Contains(3))
	assert.False(t, r.Contains(7))
	assert.Equal(t, 3, r.Offset(0))
	assert.Equal(t, 0, TotalHeight(0, 10))
}
