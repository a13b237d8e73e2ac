package filter

import (
	"strings"
	"time"

	"github.com/Akashdeep-Patra/tenant-desk/internal/tenant"
)

const day = 24 * time.Hour

// Matches reports whether t passes every active dimension of f. now anchors
// the day-window dimensions so the function stays pure.
func Matches(t tenant.Tenant, f Filters, now time.Time) bool {
	return matches(t, f.Normalize(), now)
}

// matches expects f to be normalised already.
func matches(t tenant.Tenant, f Filters, now time.Time) bool {
	if len(f.Stages) > 0 && !containsStage(f.Stages, t.Stage) {
		return false
	}
	for _, tag := range f.Tags {
		if !t.HasTag(tag) {
			return false
		}
	}
	for _, tag := range f.CustomTags {
		if !t.HasTag(tag) {
			return false
		}
	}

	// Un-scored tenants are never excluded by the health range.
	if t.HealthScore != nil {
		score := *t.HealthScore
		if score < float64(f.HealthMin) || score > float64(f.HealthMax) {
			return false
		}
	}

	if len(f.ArrearsTiers) > 0 {
		if t.Arrears == nil {
			return false
		}
		tier, ok := TierFor(t.Arrears.DaysLate)
		if !ok || !containsTier(f.ArrearsTiers, tier) {
			return false
		}
	}

	if f.WatchlistOnly && !t.Watchlist {
		return false
	}
	if f.ArrearsOnly && t.Arrears == nil {
		return false
	}

	if f.LastContactWithinDays != nil {
		if t.LastTouchpointAt == nil {
			return false
		}
		if now.Sub(*t.LastTouchpointAt) > time.Duration(*f.LastContactWithinDays)*day {
			return false
		}
	}

	if f.UpcomingEventWithinDays != nil {
		if t.NextEventAt == nil {
			return false
		}
		until := t.NextEventAt.Sub(now)
		if until < 0 || until > time.Duration(*f.UpcomingEventWithinDays)*day {
			return false
		}
	}

	return matchesSearch(t, f.Search)
}

// Apply returns the tenants in items that match f, preserving order. The
// input slice is not modified.
func Apply(items []tenant.Tenant, f Filters, now time.Time) []tenant.Tenant {
	f = f.Normalize()
	out := make([]tenant.Tenant, 0, len(items))
	for _, t := range items {
		if matches(t, f, now) {
			out = append(out, t)
		}
	}
	return out
}

// matchesSearch is a case-insensitive substring test across name, email and
// phone. A missing field never matches on its own.
func matchesSearch(t tenant.Tenant, search string) bool {
	needle := strings.ToLower(strings.TrimSpace(search))
	if needle == "" {
		return true
	}
	for _, field := range []string{t.Name, t.Email, t.Phone} {
		if field == "" {
			continue
		}
		if strings.Contains(strings.ToLower(field), needle) {
			return true
		}
	}
	return false
}

func containsStage(stages []tenant.Stage, s tenant.Stage) bool {
	if s == "" {
		return false
	}
	for _, want := range stages {
		if want == s {
			return true
		}
	}
	return false
}

func containsTier(tiers []Tier, t Tier) bool {
	for _, want := range tiers {
		if want == t {
			return true
		}
	}
	return false
}
