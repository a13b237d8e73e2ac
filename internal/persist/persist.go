package persist

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/url"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/Akashdeep-Patra/tenant-desk/internal/filter"
	"github.com/Akashdeep-Patra/tenant-desk/internal/selection"
	"github.com/Akashdeep-Patra/tenant-desk/internal/workspace"
)

// SchemaVersion is written into every record. Records with another version
// are ignored.
const SchemaVersion = 1

// DefaultDebounce is the write coalescing window for Save.
const DefaultDebounce = 200 * time.Millisecond

// ErrInvalidName is returned when a saved view has a blank name.
var ErrInvalidName = errors.New("saved view name is empty")

type workspaceRecord struct {
	Version          int              `json:"version"`
	Filters          filter.Filters   `json:"filters"`
	Selection        []string         `json:"selection"`
	FocusedID        string           `json:"focusedId,omitempty"`
	RecentSearches   []string         `json:"recentSearches"`
	Layout           workspace.Layout `json:"layout"`
	FiltersPanelOpen bool             `json:"isFiltersPanelOpen"`
	SavedViewID      string           `json:"savedViewId,omitempty"`
	SavedAt          time.Time        `json:"savedAt"`
}

type savedViewRecord struct {
	Version int `json:"version"`
	workspace.SavedView
}

// Subscriber is the part of the workspace store Attach needs.
type Subscriber interface {
	Subscribe(workspace.Listener) (unsubscribe func())
}

// Option configures a Persister.
type Option func(*Persister)

// WithDebounce sets the write coalescing window.
func WithDebounce(d time.Duration) Option {
	return func(p *Persister) { p.debounce = d }
}

// WithLogger sets the logger.
func WithLogger(log *slog.Logger) Option {
	return func(p *Persister) { p.log = log }
}

// WithClock sets the clock used for timestamps.
func WithClock(now func() time.Time) Option {
	return func(p *Persister) { p.now = now }
}

// Persister saves and restores one user's workspace and saved views.
//
// Save is fire-and-forget: writes are coalesced over the debounce window
// and failures are logged, never returned. Close flushes anything pending.
type Persister struct {
	kv       KV
	user     string
	debounce time.Duration
	log      *slog.Logger
	now      func() time.Time

	mu      sync.Mutex
	pending *workspace.State
	seq     uint64
	timer   *time.Timer
	closed  bool

	writeMu sync.Mutex
	written uint64
}

// New returns a persister for user backed by kv.
func New(kv KV, user string, opts ...Option) *Persister {
	p := &Persister{
		kv:       kv,
		user:     user,
		debounce: DefaultDebounce,
		log:      slog.New(slog.DiscardHandler),
		now:      time.Now,
	}
	for _, o := range opts {
		o(p)
	}
	return p
}

func (p *Persister) workspaceKey() string {
	return "workspace/" + url.PathEscape(p.user)
}

func (p *Persister) viewPrefix() string {
	return "views/" + url.PathEscape(p.user) + "/"
}

func (p *Persister) viewKey(id string) string {
	return p.viewPrefix() + url.PathEscape(id)
}

// ── Workspace state ─────────────────────────────────────────────────────────

// Load returns the persisted workspace state. ok is false when nothing
// usable is stored; corrupt or foreign-version records count as nothing.
func (p *Persister) Load() (st workspace.State, ok bool) {
	raw, err := p.kv.Get(p.workspaceKey())
	if errors.Is(err, ErrNotFound) {
		return workspace.DefaultState(), false
	}
	if err != nil {
		p.log.Warn("load workspace", "user", p.user, "err", err)
		return workspace.DefaultState(), false
	}

	var rec workspaceRecord
	if err := json.Unmarshal(raw, &rec); err != nil {
		p.log.Warn("discarding corrupt workspace record", "user", p.user, "err", err)
		return workspace.DefaultState(), false
	}
	if rec.Version != SchemaVersion {
		p.log.Warn("discarding workspace record", "user", p.user, "version", rec.Version, "want", SchemaVersion)
		return workspace.DefaultState(), false
	}

	st = workspace.State{
		Filters:           rec.Filters,
		Selection:         selection.New(rec.Selection...),
		FocusedID:         rec.FocusedID,
		Layout:            rec.Layout,
		RecentSearches:    rec.RecentSearches,
		FiltersPanelOpen:  rec.FiltersPanelOpen,
		ActiveSavedViewID: rec.SavedViewID,
	}
	return st.Sanitize(), true
}

// Save schedules st to be written after the debounce window. A later Save
// within the window replaces it.
func (p *Persister) Save(st workspace.State) {
	p.mu.Lock()
	snap := st.Clone()
	p.pending = &snap
	p.seq++
	if p.closed || p.debounce <= 0 {
		p.mu.Unlock()
		if err := p.Flush(); err != nil {
			p.log.Warn("save workspace", "user", p.user, "err", err)
		}
		return
	}
	if p.timer == nil {
		p.timer = time.AfterFunc(p.debounce, p.flushFromTimer)
	} else {
		p.timer.Reset(p.debounce)
	}
	p.mu.Unlock()
}

func (p *Persister) flushFromTimer() {
	if err := p.Flush(); err != nil {
		p.log.Warn("save workspace", "user", p.user, "err", err)
	}
}

// Flush writes any pending state now.
func (p *Persister) Flush() error {
	p.mu.Lock()
	if p.timer != nil {
		p.timer.Stop()
		p.timer = nil
	}
	st, seq := p.pending, p.seq
	p.pending = nil
	p.mu.Unlock()

	if st == nil {
		return nil
	}
	return p.write(*st, seq)
}

// Close flushes pending state. Saves after Close are written immediately.
func (p *Persister) Close() error {
	p.mu.Lock()
	p.closed = true
	p.mu.Unlock()
	return p.Flush()
}

// Attach saves every state the store publishes. The returned function
// detaches.
func (p *Persister) Attach(s Subscriber) (detach func()) {
	return s.Subscribe(func(st workspace.State) { p.Save(st) })
}

// write serialises writes and drops a snapshot older than one already on
// disk, which can happen when the timer and an explicit Flush race.
func (p *Persister) write(st workspace.State, seq uint64) error {
	p.writeMu.Lock()
	defer p.writeMu.Unlock()
	if seq <= p.written {
		return nil
	}

	rec := workspaceRecord{
		Version:          SchemaVersion,
		Filters:          st.Filters,
		Selection:        st.Selection.IDs(),
		FocusedID:        st.FocusedID,
		RecentSearches:   st.RecentSearches,
		Layout:           st.Layout,
		FiltersPanelOpen: st.FiltersPanelOpen,
		SavedViewID:      st.ActiveSavedViewID,
		SavedAt:          p.now().UTC(),
	}
	raw, err := json.Marshal(rec)
	if err != nil {
		return fmt.Errorf("encode workspace: %w", err)
	}
	if err := p.kv.Put(p.workspaceKey(), raw); err != nil {
		return err
	}
	p.written = seq
	p.log.Debug("workspace saved", "user", p.user, "bytes", len(raw))
	return nil
}

// ── Saved views ─────────────────────────────────────────────────────────────

// ListSavedViews returns the user's saved views, pinned first and then by
// name. Unreadable records are skipped.
func (p *Persister) ListSavedViews() ([]workspace.SavedView, error) {
	keys, err := p.kv.List(p.viewPrefix())
	if err != nil {
		return nil, fmt.Errorf("list saved views: %w", err)
	}
	views := make([]workspace.SavedView, 0, len(keys))
	for _, k := range keys {
		v, ok := p.readView(k)
		if ok {
			views = append(views, v)
		}
	}
	sort.SliceStable(views, func(i, j int) bool {
		a, b := views[i], views[j]
		if a.Pinned != b.Pinned {
			return a.Pinned
		}
		an, bn := strings.ToLower(a.Name), strings.ToLower(b.Name)
		if an != bn {
			return an < bn
		}
		return a.ID < b.ID
	})
	return views, nil
}

// UpsertSavedView stores v. A view whose name matches an existing one
// (case-insensitively, ignoring surrounding space) replaces it and keeps its
// id. A blank ID is assigned. The stored view is returned.
func (p *Persister) UpsertSavedView(v workspace.SavedView) (workspace.SavedView, error) {
	v.Name = strings.TrimSpace(v.Name)
	if v.Name == "" {
		return workspace.SavedView{}, ErrInvalidName
	}

	existing, err := p.ListSavedViews()
	if err != nil {
		return workspace.SavedView{}, err
	}
	var replaced []string
	for _, e := range existing {
		if strings.EqualFold(e.Name, v.Name) && e.ID != v.ID {
			if v.ID == "" {
				v.ID = e.ID
			} else {
				replaced = append(replaced, e.ID)
			}
		}
	}
	if v.ID == "" {
		id, err := uuid.NewV7()
		if err != nil {
			return workspace.SavedView{}, fmt.Errorf("generate view id: %w", err)
		}
		v.ID = id.String()
	}
	v.Filters = v.Filters.Normalize()
	v.UpdatedAt = p.now().UTC()

	raw, err := json.Marshal(savedViewRecord{Version: SchemaVersion, SavedView: v})
	if err != nil {
		return workspace.SavedView{}, fmt.Errorf("encode saved view: %w", err)
	}
	if err := p.kv.Put(p.viewKey(v.ID), raw); err != nil {
		return workspace.SavedView{}, err
	}
	for _, id := range replaced {
		if err := p.kv.Delete(p.viewKey(id)); err != nil && !errors.Is(err, ErrNotFound) {
			p.log.Warn("remove replaced saved view", "id", id, "err", err)
		}
	}
	p.log.Debug("saved view stored", "id", v.ID, "name", v.Name)
	return v, nil
}

// DeleteSavedView removes the view with the given id.
func (p *Persister) DeleteSavedView(id string) error {
	if err := p.kv.Delete(p.viewKey(id)); err != nil {
		return fmt.Errorf("delete saved view %s: %w", id, err)
	}
	return nil
}

// FindSavedView looks a view up by id, then by name.
func (p *Persister) FindSavedView(idOrName string) (workspace.SavedView, error) {
	if v, ok := p.readView(p.viewKey(idOrName)); ok {
		return v, nil
	}
	views, err := p.ListSavedViews()
	if err != nil {
		return workspace.SavedView{}, err
	}
	for _, v := range views {
		if strings.EqualFold(v.Name, strings.TrimSpace(idOrName)) {
			return v, nil
		}
	}
	return workspace.SavedView{}, fmt.Errorf("saved view %q: %w", idOrName, ErrNotFound)
}

func (p *Persister) readView(key string) (workspace.SavedView, bool) {
	raw, err := p.kv.Get(key)
	if err != nil {
		if !errors.Is(err, ErrNotFound) {
			p.log.Warn("read saved view", "key", key, "err", err)
		}
		return workspace.SavedView{}, false
	}
	var rec savedViewRecord
	if err := json.Unmarshal(raw, &rec); err != nil {
		p.log.Warn("skipping corrupt saved view", "key", key, "err", err)
		return workspace.SavedView{}, false
	}
	if rec.Version != SchemaVersion || rec.ID == "" {
		p.log.Warn("skipping saved view", "key", key, "version", rec.Version)
		return workspace.SavedView{}, false
	}
	return rec.SavedView, true
}
