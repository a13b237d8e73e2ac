package window

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTracker_ClampsOffset(t *testing.T) {
	tr := NewTracker(10)
	tr.SetContentHeight(100)

	tr.ScrollBy(-5)
	assert.Equal(t, 0, tr.Viewport().ScrollOffset)

	tr.ScrollBy(500)
	assert.Equal(t, 90, tr.Viewport().ScrollOffset)
	assert.Equal(t, 90, tr.MaxOffset())

	tr.SetContentHeight(40)
	assert.Equal(t, 30, tr.Viewport().ScrollOffset, "shrinking content pulls the offset back")

	tr.Resize(60)
	assert.Equal(t, 0, tr.Viewport().ScrollOffset, "content fits, no scrolling")
}

func TestTracker_EnsureVisible(t *testing.T) {
	tr := NewTracker(5)
	tr.SetContentHeight(50)

	tr.EnsureVisible(7, 1)
	assert.Equal(t, 3, tr.Viewport().ScrollOffset, "scrolls down just enough")

	tr.EnsureVisible(5, 1)
	assert.Equal(t, 3, tr.Viewport().ScrollOffset, "already visible")

	tr.EnsureVisible(1, 1)
	assert.Equal(t, 1, tr.Viewport().ScrollOffset, "scrolls up to the row")
}

func TestTracker_NotifiesOnlyOnChange(t *testing.T) {
	tr := NewTracker(10)
	tr.SetContentHeight(100)

	var seen []Viewport
	cancel := tr.Observe(func(v Viewport) { seen = append(seen, v) })
	defer cancel()

	tr.ScrollTo(20)
	tr.ScrollTo(20)
	tr.Resize(12)

	require.Len(t, seen, 2)
	assert.Equal(t, Viewport{ScrollOffset: 20, Size: 10}, seen[0])
	assert.Equal(t, Viewport{ScrollOffset: 20, Size: 12}, seen[1])
}

func TestTracker_CancelIsSymmetric(t *testing.T) {
	tr := NewTracker(10)
	tr.SetContentHeight(100)

	calls := 0
	c1 := tr.Observe(func(Viewport) { calls++ })
	c2 := tr.Observe(func(Viewport) { calls++ })
	assert.Equal(t, 2, tr.Listeners())

	tr.ScrollBy(1)
	assert.Equal(t, 2, calls)

	c1()
	c1()
	assert.Equal(t, 1, tr.Listeners())

	tr.ScrollBy(1)
	assert.Equal(t, 3, calls)

	c2()
	assert.Equal(t, 0, tr.Listeners())
	tr.ScrollBy(1)
	assert.Equal(t, 3, calls)
}

func TestTracker_FeedsCalculator(t *testing.T) {
	const rowHeight, items, overscan = 100, 1000, 4
	tr := NewTracker(400)
	tr.SetContentHeight(TotalHeight(items, rowHeight))

	var got Range
	cancel := tr.Observe(func(v Viewport) {
		got = ComputeVisibleRange(v.ScrollOffset, v.Size, rowHeight, items, overscan)
	})
	defer cancel()

	tr.ScrollTo(1250)
	assert.Equal(t, Range{Start: 8, End: 20}, got)
}
