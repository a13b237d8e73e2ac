package window

import "sync"

// Viewport is the scroll state of a rendering surface.
type Viewport struct {
	ScrollOffset int
	Size         int
}

// Observer delivers viewport changes from a rendering surface. Observe
// registers fn and returns the function that unregisters it; callers pair
// the two with the surface's lifetime.
type Observer interface {
	Observe(fn func(Viewport)) (cancel func())
}

// Tracker is the in-process Observer. Resize, wheel and keyboard-driven
// scrolling all go through it; every change that moves the viewport is
// pushed to the registered listeners synchronously.
type Tracker struct {
	mu        sync.Mutex
	vp        Viewport
	content   int
	nextID    int
	listeners map[int]func(Viewport)
}

// NewTracker returns a tracker for a surface of the given size.
func NewTracker(size int) *Tracker {
	return &Tracker{
		vp:        Viewport{Size: max(0, size)},
		listeners: make(map[int]func(Viewport)),
	}
}

// Observe registers fn. Calling the returned cancel more than once is safe.
func (t *Tracker) Observe(fn func(Viewport)) func() {
	t.mu.Lock()
	id := t.nextID
	t.nextID++
	t.listeners[id] = fn
	t.mu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() {
			t.mu.Lock()
			delete(t.listeners, id)
			t.mu.Unlock()
		})
	}
}

// Listeners returns the number of registered listeners.
func (t *Tracker) Listeners() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return len(t.listeners)
}

// Viewport returns the current scroll state.
func (t *Tracker) Viewport() Viewport {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.vp
}

// MaxOffset is the furthest the surface can scroll.
func (t *Tracker) MaxOffset() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.maxOffsetLocked()
}

// ScrollBy moves the offset by delta, clamped to the scrollable range.
func (t *Tracker) ScrollBy(delta int) {
	t.update(func() { t.vp.ScrollOffset += delta })
}

// ScrollTo moves the offset to y, clamped to the scrollable range.
func (t *Tracker) ScrollTo(y int) {
	t.update(func() { t.vp.ScrollOffset = y })
}

// Resize changes the visible size.
func (t *Tracker) Resize(size int) {
	t.update(func() { t.vp.Size = max(0, size) })
}

// SetContentHeight updates the total scrollable height, typically
// TotalHeight(len(items), rowHeight) after a list change.
func (t *Tracker) SetContentHeight(h int) {
	t.update(func() { t.content = max(0, h) })
}

// EnsureVisible scrolls the minimum amount needed to bring the span
// [top, top+height) into view.
func (t *Tracker) EnsureVisible(top, height int) {
	t.update(func() {
		bottom := top + max(0, height)
		switch {
		case top < t.vp.ScrollOffset:
			t.vp.ScrollOffset = top
		case bottom > t.vp.ScrollOffset+t.vp.Size:
			t.vp.ScrollOffset = bottom - t.vp.Size
		}
	})
}

// update applies mutate under the lock, clamps, and notifies listeners
// outside the lock if the viewport moved.
func (t *Tracker) update(mutate func()) {
	t.mu.Lock()
	before := t.vp
	mutate()
	t.vp.ScrollOffset = min(max(0, t.vp.ScrollOffset), t.maxOffsetLocked())
	after := t.vp
	var fns []func(Viewport)
	if after != before {
		fns = make([]func(Viewport), 0, len(t.listeners))
		for _, fn := range t.listeners {
			fns = append(fns, fn)
		}
	}
	t.mu.Unlock()

	for _, fn := range fns {
		fn(after)
	}
}

func (t *Tracker) maxOffsetLocked() int {
	return max(0, t.content-t.vp.Size)
}
