package workspace

import (
	"log/slog"
	"slices"
	"sync"
	"time"

	"github.com/Akashdeep-Patra/tenant-desk/internal/filter"
	"github.com/Akashdeep-Patra/tenant-desk/internal/selection"
	"github.com/Akashdeep-Patra/tenant-desk/internal/tenant"
)

// Listener receives the state after every change.
type Listener func(State)

// Option configures a Store.
type Option func(*Store)

// WithClock sets the clock used by the day-window filters.
func WithClock(now func() time.Time) Option {
	return func(s *Store) { s.now = now }
}

// WithLogger sets the store's logger.
func WithLogger(log *slog.Logger) Option {
	return func(s *Store) { s.log = log }
}

// Store owns the workspace state and the raw tenant list it is evaluated
// against. All mutation goes through Dispatch and SetEntities; listeners
// are called synchronously after each change, outside the lock.
//
// Selection and focus are reconciled against the filtered list after every
// change once a list has been delivered. Before that the persisted selection
// is kept as-is so a cold start does not wipe it.
type Store struct {
	mu       sync.RWMutex
	state    State
	entities []tenant.Tenant
	visible  []tenant.Tenant
	loaded   bool
	lastErr  error

	now func() time.Time
	log *slog.Logger

	subMu     sync.Mutex
	nextSub   int
	listeners map[int]Listener
}

// NewStore returns a store seeded with initial, which is sanitised first.
func NewStore(initial State, opts ...Option) *Store {
	s := &Store{
		state:     initial.Sanitize(),
		now:       time.Now,
		log:       slog.New(slog.DiscardHandler),
		listeners: make(map[int]Listener),
	}
	for _, o := range opts {
		o(s)
	}
	return s
}

// Dispatch applies a and notifies listeners.
func (s *Store) Dispatch(a Action) {
	s.mu.Lock()
	prev := s.state
	next := Reduce(prev, a)
	if IsFilterAction(a) && !next.Filters.Equal(prev.Filters) {
		s.refilterLocked(next.Filters)
	}
	s.state = s.reconcileLocked(next)
	snap := s.state.Clone()
	s.mu.Unlock()

	s.log.Debug("dispatch", "action", actionName(a), "selected", snap.Selection.Len(), "focused", snap.FocusedID)
	s.notify(snap)
}

// SetEntities delivers a fresh tenant list. A non-nil err records a failed
// refresh and keeps the last-known list.
func (s *Store) SetEntities(list []tenant.Tenant, err error) {
	s.mu.Lock()
	if err != nil {
		s.lastErr = err
		snap := s.state.Clone()
		kept := len(s.entities)
		s.mu.Unlock()
		s.log.Warn("tenant refresh failed, keeping last list", "err", err, "kept", kept)
		s.notify(snap)
		return
	}
	s.entities = slices.Clone(list)
	s.loaded = true
	s.lastErr = nil
	s.refilterLocked(s.state.Filters)
	s.state = s.reconcileLocked(s.state)
	snap := s.state.Clone()
	n := len(s.visible)
	s.mu.Unlock()

	s.log.Debug("entities", "total", len(list), "visible", n)
	s.notify(snap)
}

// Refresh re-evaluates the filters against the current clock. The
// day-window dimensions depend on it.
func (s *Store) Refresh() {
	s.mu.Lock()
	s.refilterLocked(s.state.Filters)
	s.state = s.reconcileLocked(s.state)
	snap := s.state.Clone()
	s.mu.Unlock()
	s.notify(snap)
}

// State returns a snapshot of the current state.
func (s *Store) State() State {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state.Clone()
}

// Visible returns the filtered list in display order.
func (s *Store) Visible() []tenant.Tenant {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return slices.Clone(s.visible)
}

// VisibleIDs returns the ids of Visible in order.
func (s *Store) VisibleIDs() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return tenant.IDs(s.visible)
}

// Total returns the size of the unfiltered list.
func (s *Store) Total() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.entities)
}

// Focused returns the focused tenant, if any.
func (s *Store) Focused() (tenant.Tenant, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if i := tenant.Index(s.visible, s.state.FocusedID); i >= 0 {
		return s.visible[i], true
	}
	return tenant.Tenant{}, false
}

// Selected returns the selected tenants in display order.
func (s *Store) Selected() []tenant.Tenant {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []tenant.Tenant
	for _, t := range s.visible {
		if s.state.Selection.Has(t.ID) {
			out = append(out, t)
		}
	}
	return out
}

// Tags returns every tag carried by the loaded tenants, sorted.
func (s *Store) Tags() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	seen := make(map[string]struct{})
	for _, t := range s.entities {
		for _, tag := range t.Tags {
			seen[tag] = struct{}{}
		}
	}
	out := make([]string, 0, len(seen))
	for tag := range seen {
		out = append(out, tag)
	}
	slices.Sort(out)
	return out
}

// Now returns the store's clock reading.
func (s *Store) Now() time.Time { return s.now() }

// Loaded reports whether a tenant list has been delivered at least once.
func (s *Store) Loaded() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.loaded
}

// LastError returns the error of the most recent failed refresh, or nil
// once a later refresh succeeded.
func (s *Store) LastError() error {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.lastErr
}

// Subscribe registers fn and returns the function that removes it.
func (s *Store) Subscribe(fn Listener) (unsubscribe func()) {
	s.subMu.Lock()
	id := s.nextSub
	s.nextSub++
	s.listeners[id] = fn
	s.subMu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() {
			s.subMu.Lock()
			delete(s.listeners, id)
			s.subMu.Unlock()
		})
	}
}

func (s *Store) notify(snap State) {
	s.subMu.Lock()
	ids := make([]int, 0, len(s.listeners))
	for id := range s.listeners {
		ids = append(ids, id)
	}
	slices.Sort(ids)
	fns := make([]Listener, 0, len(ids))
	for _, id := range ids {
		fns = append(fns, s.listeners[id])
	}
	s.subMu.Unlock()

	for _, fn := range fns {
		fn(snap.Clone())
	}
}

func (s *Store) refilterLocked(f filter.Filters) {
	s.visible = filter.Apply(s.entities, f, s.now())
}

func (s *Store) reconcileLocked(st State) State {
	if !s.loaded {
		return st
	}
	st.Selection, st.FocusedID = selection.Reconcile(st.Selection, st.FocusedID, tenant.IDs(s.visible))
	return st
}

func actionName(a Action) string {
	switch a.(type) {
	case SetFilter:
		return "set-filter"
	case ToggleTag:
		return "toggle-tag"
	case ToggleStage:
		return "toggle-stage"
	case ToggleTier:
		return "toggle-tier"
	case ReplaceFilters:
		return "replace-filters"
	case ClearFilters:
		return "clear-filters"
	case SetSelection:
		return "set-selection"
	case ToggleSelect:
		return "toggle-select"
	case ClearSelection:
		return "clear-selection"
	case SetFocus:
		return "set-focus"
	case RecordSearch:
		return "record-search"
	case SetLayout:
		return "set-layout"
	case SetFiltersPanelOpen:
		return "set-filters-panel-open"
	case SetSavedView:
		return "set-saved-view"
	}
	return "unknown"
}
