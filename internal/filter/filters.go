// Package filter is the workspace filter predicate engine: an immutable
// Filters value and pure functions that evaluate tenants against it.
package filter

import (
	"slices"
	"sort"
	"strings"

	"github.com/Akashdeep-Patra/tenant-desk/internal/tenant"
)

// Health score bounds.
const (
	HealthFloor = 0
	HealthCeil  = 100
)

// Filters is the composite workspace filter. Treat it as immutable: every
// mutator returns a new value and never aliases the receiver's slices.
type Filters struct {
	Search string `json:"search"`

	// Tags and CustomTags are both AND-ed: every listed tag must be present.
	Tags       []string `json:"tags"`
	CustomTags []string `json:"customTags"`

	// Stages is OR-ed: the tenant's stage must be any of them.
	Stages []tenant.Stage `json:"stages"`

	HealthMin int `json:"healthMin"`
	HealthMax int `json:"healthMax"`

	ArrearsTiers []Tier `json:"arrearsTiers"`

	// nil means unconstrained.
	LastContactWithinDays   *int `json:"lastContactWithinDays"`
	UpcomingEventWithinDays *int `json:"upcomingEventWithinDays"`

	WatchlistOnly bool `json:"watchlistOnly"`
	ArrearsOnly   bool `json:"arrearsOnly"`
}

// Default returns the match-all filter.
func Default() Filters {
	return Filters{HealthMin: HealthFloor, HealthMax: HealthCeil}
}

// Normalize repairs out-of-range values instead of rejecting them: health
// bounds are clamped to [0,100] and swapped when inverted, negative day
// windows become unconstrained, sets are de-duplicated and sorted, and
// unknown tiers are dropped.
func (f Filters) Normalize() Filters {
	out := f.Clone()
	out.Tags = normalizeSet(out.Tags)
	out.CustomTags = normalizeSet(out.CustomTags)

	stages := make([]string, len(out.Stages))
	for i, s := range out.Stages {
		stages[i] = strings.ToLower(strings.TrimSpace(string(s)))
	}
	stages = normalizeSet(stages)
	out.Stages = nil
	for _, s := range stages {
		out.Stages = append(out.Stages, tenant.Stage(s))
	}

	var tiers []string
	for _, t := range out.ArrearsTiers {
		t = Tier(strings.ToUpper(strings.TrimSpace(string(t))))
		if t.Valid() {
			tiers = append(tiers, string(t))
		}
	}
	tiers = normalizeSet(tiers)
	out.ArrearsTiers = nil
	for _, t := range tiers {
		out.ArrearsTiers = append(out.ArrearsTiers, Tier(t))
	}

	out.HealthMin = clampHealth(out.HealthMin)
	out.HealthMax = clampHealth(out.HealthMax)
	if out.HealthMin > out.HealthMax {
		out.HealthMin, out.HealthMax = out.HealthMax, out.HealthMin
	}

	if out.LastContactWithinDays != nil && *out.LastContactWithinDays < 0 {
		out.LastContactWithinDays = nil
	}
	if out.UpcomingEventWithinDays != nil && *out.UpcomingEventWithinDays < 0 {
		out.UpcomingEventWithinDays = nil
	}
	return out
}

// Clone returns a deep copy.
func (f Filters) Clone() Filters {
	out := f
	out.Tags = slices.Clone(f.Tags)
	out.CustomTags = slices.Clone(f.CustomTags)
	out.Stages = slices.Clone(f.Stages)
	out.ArrearsTiers = slices.Clone(f.ArrearsTiers)
	out.LastContactWithinDays = cloneInt(f.LastContactWithinDays)
	out.UpcomingEventWithinDays = cloneInt(f.UpcomingEventWithinDays)
	return out
}

// Equal reports whether two filters select the same tenants by definition
// (after normalisation).
func (f Filters) Equal(other Filters) bool {
	a, b := f.Normalize(), other.Normalize()
	return a.Search == b.Search &&
		slices.Equal(a.Tags, b.Tags) &&
		slices.Equal(a.CustomTags, b.CustomTags) &&
		slices.Equal(a.Stages, b.Stages) &&
		a.HealthMin == b.HealthMin && a.HealthMax == b.HealthMax &&
		slices.Equal(a.ArrearsTiers, b.ArrearsTiers) &&
		intPtrEqual(a.LastContactWithinDays, b.LastContactWithinDays) &&
		intPtrEqual(a.UpcomingEventWithinDays, b.UpcomingEventWithinDays) &&
		a.WatchlistOnly == b.WatchlistOnly &&
		a.ArrearsOnly == b.ArrearsOnly
}

// ActiveCount returns how many filter dimensions are constraining.
func (f Filters) ActiveCount() int {
	n := 0
	if strings.TrimSpace(f.Search) != "" {
		n++
	}
	if len(f.Tags) > 0 {
		n++
	}
	if len(f.CustomTags) > 0 {
		n++
	}
	if len(f.Stages) > 0 {
		n++
	}
	if f.HealthMin > HealthFloor || f.HealthMax < HealthCeil {
		n++
	}
	if len(f.ArrearsTiers) > 0 {
		n++
	}
	if f.LastContactWithinDays != nil {
		n++
	}
	if f.UpcomingEventWithinDays != nil {
		n++
	}
	if f.WatchlistOnly {
		n++
	}
	if f.ArrearsOnly {
		n++
	}
	return n
}

// IsZero reports whether f matches everything.
func (f Filters) IsZero() bool { return f.ActiveCount() == 0 }

// ToggleTag adds tag to Tags, or removes it when present.
func (f Filters) ToggleTag(tag string) Filters {
	out := f.Clone()
	out.Tags = toggle(out.Tags, strings.TrimSpace(tag))
	return out
}

// ToggleCustomTag adds tag to CustomTags, or removes it when present.
func (f Filters) ToggleCustomTag(tag string) Filters {
	out := f.Clone()
	out.CustomTags = toggle(out.CustomTags, strings.TrimSpace(tag))
	return out
}

// ToggleStage adds stage to Stages, or removes it when present.
func (f Filters) ToggleStage(stage tenant.Stage) Filters {
	out := f.Clone()
	raw := make([]string, len(out.Stages))
	for i, s := range out.Stages {
		raw[i] = string(s)
	}
	raw = toggle(raw, strings.ToLower(strings.TrimSpace(string(stage))))
	out.Stages = nil
	for _, s := range raw {
		out.Stages = append(out.Stages, tenant.Stage(s))
	}
	return out
}

// ToggleTier adds tier to ArrearsTiers, or removes it when present.
func (f Filters) ToggleTier(tier Tier) Filters {
	out := f.Clone()
	raw := make([]string, len(out.ArrearsTiers))
	for i, t := range out.ArrearsTiers {
		raw[i] = string(t)
	}
	raw = toggle(raw, string(tier))
	out.ArrearsTiers = nil
	for _, t := range raw {
		out.ArrearsTiers = append(out.ArrearsTiers, Tier(t))
	}
	return out
}

// ToQuery projects f onto the server-shaped query.
func (f Filters) ToQuery() tenant.Query {
	n := f.Normalize()
	q := tenant.Query{
		Search:                  strings.TrimSpace(n.Search),
		Tags:                    append(slices.Clone(n.Tags), n.CustomTags...),
		Stages:                  slices.Clone(n.Stages),
		HealthMin:               n.HealthMin,
		HealthMax:               n.HealthMax,
		LastContactWithinDays:   cloneInt(n.LastContactWithinDays),
		UpcomingEventWithinDays: cloneInt(n.UpcomingEventWithinDays),
		WatchlistOnly:           n.WatchlistOnly,
		ArrearsOnly:             n.ArrearsOnly,
	}
	for _, t := range n.ArrearsTiers {
		q.ArrearsTiers = append(q.ArrearsTiers, string(t))
	}
	return q
}

// toggle flips membership of v and returns a sorted, de-duplicated set.
// Empty values are ignored.
func toggle(set []string, v string) []string {
	if v == "" {
		return normalizeSet(set)
	}
	out := make([]string, 0, len(set)+1)
	found := false
	for _, s := range set {
		if s == v {
			found = true
			continue
		}
		out = append(out, s)
	}
	if !found {
		out = append(out, v)
	}
	return normalizeSet(out)
}

func normalizeSet(in []string) []string {
	if len(in) == 0 {
		return nil
	}
	seen := make(map[string]bool, len(in))
	out := make([]string, 0, len(in))
	for _, s := range in {
		s = strings.TrimSpace(s)
		if s == "" || seen[s] {
			continue
		}
		seen[s] = true
		out = append(out, s)
	}
	if len(out) == 0 {
		return nil
	}
	sort.Strings(out)
	return out
}

func clampHealth(v int) int {
	if v < HealthFloor {
		return HealthFloor
	}
	if v > HealthCeil {
		return HealthCeil
	}
	return v
}

func cloneInt(p *int) *int {
	if p == nil {
		return nil
	}
	v := *p
	return &v
}

func intPtrEqual(a, b *int) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return *a == *b
}

// Days returns a pointer to n, for building day-window filters.
func Days(n int) *int { return &n }
