package tenant

import (
	"sort"
	"strconv"
	"strings"
	"time"
)

// Stage is the lifecycle stage of a tenancy.
type Stage string

// Tenancy stages, in lifecycle order.
const (
	StageLead      Stage = "lead"
	StageApplicant Stage = "applicant"
	StageActive    Stage = "active"
	StageNotice    Stage = "notice"
	StagePast      Stage = "past"
)

// AllStages is the ordered list of known stages.
var AllStages = []Stage{StageLead, StageApplicant, StageActive, StageNotice, StagePast}

// Label returns a human-readable description of the stage.
func (s Stage) Label() string {
	switch s {
	case StageLead:
		return "Lead"
	case StageApplicant:
		return "Applicant"
	case StageActive:
		return "Active"
	case StageNotice:
		return "On notice"
	case StagePast:
		return "Past"
	default:
		return ""
	}
}

// Valid reports whether s is one of the known stages.
func (s Stage) Valid() bool {
	for _, k := range AllStages {
		if s == k {
			return true
		}
	}
	return false
}

// Arrears is an outstanding rent balance.
type Arrears struct {
	AmountCents int64 `yaml:"amount_cents" json:"amount_cents"`
	DaysLate    int   `yaml:"days_late" json:"days_late"`
}

// Tenant is the read-only summary the workspace lists. It is replaced
// wholesale on every refresh and never mutated by the engine.
type Tenant struct {
	ID               string     `yaml:"id" json:"id"`
	Name             string     `yaml:"name" json:"name"`
	Email            string     `yaml:"email,omitempty" json:"email,omitempty"`
	Phone            string     `yaml:"phone,omitempty" json:"phone,omitempty"`
	Tags             []string   `yaml:"tags,omitempty" json:"tags,omitempty"`
	Stage            Stage      `yaml:"stage,omitempty" json:"stage,omitempty"`
	HealthScore      *float64   `yaml:"health_score,omitempty" json:"health_score,omitempty"`
	Watchlist        bool       `yaml:"watchlist,omitempty" json:"watchlist,omitempty"`
	Arrears          *Arrears   `yaml:"arrears,omitempty" json:"arrears,omitempty"`
	LastTouchpointAt *time.Time `yaml:"last_touchpoint_at,omitempty" json:"last_touchpoint_at,omitempty"`
	NextEventAt      *time.Time `yaml:"next_event_at,omitempty" json:"next_event_at,omitempty"`
}

// HasTag reports whether the tenant carries tag (exact match).
func (t Tenant) HasTag(tag string) bool {
	for _, have := range t.Tags {
		if have == tag {
			return true
		}
	}
	return false
}

// IDs returns the ids of items in order.
func IDs(items []Tenant) []string {
	ids := make([]string, len(items))
	for i, t := range items {
		ids[i] = t.ID
	}
	return ids
}

// Index returns the position of id in items, or -1.
func Index(items []Tenant, id string) int {
	if id == "" {
		return -1
	}
	for i, t := range items {
		if t.ID == id {
			return i
		}
	}
	return -1
}

// SortByName orders items by case-insensitive name, then id, in place.
func SortByName(items []Tenant) {
	sort.SliceStable(items, func(i, j int) bool {
		a, b := strings.ToLower(items[i].Name), strings.ToLower(items[j].Name)
		if a != b {
			return a < b
		}
		return items[i].ID < items[j].ID
	})
}

// Query is the server-shaped subset of workspace filters passed to a
// Source. Sources may ignore any of it; callers re-filter client side.
type Query struct {
	Search                  string
	Tags                    []string
	Stages                  []Stage
	HealthMin               int
	HealthMax               int
	ArrearsTiers            []string
	LastContactWithinDays   *int
	UpcomingEventWithinDays *int
	WatchlistOnly           bool
	ArrearsOnly             bool
}

// Key returns a stable cache key for the query.
func (q Query) Key() string {
	var b strings.Builder
	b.WriteString(strings.ToLower(strings.TrimSpace(q.Search)))
	b.WriteByte('|')
	b.WriteString(strings.Join(q.Tags, ","))
	b.WriteByte('|')
	for _, s := range q.Stages {
		b.WriteString(string(s))
		b.WriteByte(',')
	}
	b.WriteByte('|')
	b.WriteString(strings.Join(q.ArrearsTiers, ","))
	b.WriteByte('|')
	b.WriteString(strconv.Itoa(q.HealthMin))
	b.WriteByte('-')
	b.WriteString(strconv.Itoa(q.HealthMax))
	b.WriteByte('|')
	if q.LastContactWithinDays != nil {
		b.WriteString(strconv.Itoa(*q.LastContactWithinDays))
	}
	b.WriteByte('|')
	if q.UpcomingEventWithinDays != nil {
		b.WriteString(strconv.Itoa(*q.UpcomingEventWithinDays))
	}
	b.WriteByte('|')
	if q.WatchlistOnly {
		b.WriteByte('w')
	}
	if q.ArrearsOnly {
		b.WriteByte('a')
	}
	return b.String()
}
