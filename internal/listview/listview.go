// Package listview turns the filtered tenant list, the workspace state and
// a viewport into the frame a surface paints: only the rows inside the
// computed window, each tagged with its selection and focus state.
package listview

import (
	"github.com/Akashdeep-Patra/tenant-desk/internal/tenant"
	"github.com/Akashdeep-Patra/tenant-desk/internal/window"
	"github.com/Akashdeep-Patra/tenant-desk/internal/workspace"
)

// Structural roles exposed to the surface.
const (
	RoleListbox = "listbox"
	RoleOption  = "option"
)

// Row is one rendered list entry.
type Row struct {
	Index  int
	Tenant tenant.Tenant
	// Y is the row's top edge in content coordinates.
	Y        int
	Selected bool
	Focused  bool
	Role     string
}

// Frame is everything needed to paint one pass of the list.
type Frame struct {
	Role string
	Rows []Row
	// Range is the window of items the rows were taken from.
	Range window.Range
	// OffsetY is where the first row sits; TotalHeight is the height
	// reserved for the whole list.
	OffsetY     int
	TotalHeight int
	RowHeight   int
	// ActiveDescendant is the focused id when that item is in the list.
	ActiveDescendant string
	FocusIndex       int
	Count            int
	SelectedCount    int
	Viewport         window.Viewport
}

// Build computes the frame for items (already filtered and ordered).
func Build(items []tenant.Tenant, st workspace.State, vp window.Viewport, rowHeight, overscan int) Frame {
	if rowHeight <= 0 {
		rowHeight = 1
	}
	rng := window.ComputeVisibleRange(vp.ScrollOffset, vp.Size, rowHeight, len(items), overscan)

	f := Frame{
		Role:          RoleListbox,
		Range:         rng,
		OffsetY:       rng.Offset(rowHeight),
		TotalHeight:   window.TotalHeight(len(items), rowHeight),
		RowHeight:     rowHeight,
		FocusIndex:    tenant.Index(items, st.FocusedID),
		Count:         len(items),
		SelectedCount: st.Selection.Len(),
		Viewport:      vp,
	}
	if f.FocusIndex >= 0 {
		f.ActiveDescendant = st.FocusedID
	}

	f.Rows = make([]Row, 0, rng.Len())
	for i := rng.Start; i < rng.End; i++ {
		t := items[i]
		f.Rows = append(f.Rows, Row{
			Index:    i,
			Tenant:   t,
			Y:        i * rowHeight,
			Selected: st.Selection.Has(t.ID),
			Focused:  i == f.FocusIndex,
			Role:     RoleOption,
		})
	}
	return f
}

// Visible returns the rows that intersect the viewport, dropping the
// overscan padding. Surfaces that cannot clip partially use it.
func (f Frame) Visible() []Row {
	top, bottom := f.Viewport.ScrollOffset, f.Viewport.ScrollOffset+f.Viewport.Size
	var out []Row
	for _, r := range f.Rows {
		if r.Y+f.RowHeight > top && r.Y < bottom {
			out = append(out, r)
		}
	}
	return out
}

// ScrollFraction is the scroll position as 0..1, for scrollbars.
func (f Frame) ScrollFraction() float64 {
	span := f.TotalHeight - f.Viewport.Size
	if span <= 0 {
		return 0
	}
	return float64(f.Viewport.ScrollOffset) / float64(span)
}
