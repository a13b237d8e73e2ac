// Package window maps a scroll position onto the contiguous slice of list
// rows that must be rendered, plus the overscan padding either side.
//
// Everything here is measured in abstract units. The terminal surface uses
// one unit per screen line; nothing in the package assumes that.
package window

import "math"

// Range is a half-open interval [Start, End) of item indices.
type Range struct {
	Start int
	End   int
}

// Len returns the number of items in the range.
func (r Range) Len() int { return r.End - r.Start }

// Contains reports whether index i falls inside the range.
func (r Range) Contains(i int) bool { return i >= r.Start && i < r.End }

// Offset is the positioning offset of the first rendered row.
func (r Range) Offset(rowHeight int) int { return mulCap(r.Start, normRow(rowHeight)) }

// ComputeVisibleRange returns the rows to render for the given scroll state.
//
//	start        = max(0, floor(scrollOffset/rowHeight) - overscan)
//	visibleCount = ceil(viewportSize/rowHeight)
//	end          = min(itemCount, start + visibleCount + 2*overscan)
//
// Negative inputs are treated as zero and a non-positive rowHeight as one.
// The sums saturate at itemCount, so the result satisfies
// 0 <= Start <= End <= itemCount for any input.
func ComputeVisibleRange(scrollOffset, viewportSize, rowHeight, itemCount, overscan int) Range {
	if itemCount <= 0 {
		return Range{}
	}
	scrollOffset = max(0, scrollOffset)
	viewportSize = max(0, viewportSize)
	overscan = max(0, overscan)
	rowHeight = normRow(rowHeight)

	start := max(0, scrollOffset/rowHeight-overscan)
	start = min(start, itemCount)

	visible := viewportSize / rowHeight
	if viewportSize%rowHeight != 0 {
		visible++
	}
	end := addCap(start, visible, itemCount)
	end = addCap(end, overscan, itemCount)
	end = addCap(end, overscan, itemCount)
	return Range{Start: start, End: end}
}

// TotalHeight is the scrollable height reserved for the full list.
func TotalHeight(itemCount, rowHeight int) int {
	if itemCount <= 0 {
		return 0
	}
	return mulCap(itemCount, normRow(rowHeight))
}

// addCap returns min(a+b, limit) for 0 <= a <= limit and b >= 0.
func addCap(a, b, limit int) int {
	if b > limit-a {
		return limit
	}
	return a + b
}

// mulCap multiplies non-negative a and b, saturating at math.MaxInt.
func mulCap(a, b int) int {
	if a != 0 && b > math.MaxInt/a {
		return math.MaxInt
	}
	return a * b
}

func normRow(rowHeight int) int {
	if rowHeight <= 0 {
		return 1
	}
	return rowHeight
}
