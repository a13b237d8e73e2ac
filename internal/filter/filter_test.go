package filter

import (
	"math/rand/v2"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Akashdeep-Patra/tenant-desk/internal/tenant"
)

var now = time.Date(2026, 10, 16, 12, 0, 0, 0, time.UTC)

func score(v float64) *float64 { return &v }

func ago(d time.Duration) *time.Time {
	ts := now.Add(-d)
	return &ts
}

func ahead(d time.Duration) *time.Time {
	ts := now.Add(d)
	return &ts
}

func TestTierFor_Boundaries(t *testing.T) {
	tests := []struct {
		days int
		want Tier
		ok   bool
	}{
		{-3, "", false},
		{0, "", false},
		{6, "", false},
		{7, TierLow, true},
		{13, TierLow, true},
		{14, TierMedium, true},
		{20, TierMedium, true},
		{21, TierHigh, true},
		{27, TierHigh, true},
		{28, TierCritical, true},
		{400, TierCritical, true},
	}
	for _, tt := range tests {
		got, ok := TierFor(tt.days)
		assert.Equal(t, tt.ok, ok, "days=%d", tt.days)
		assert.Equal(t, tt.want, got, "days=%d", tt.days)
	}
}

func TestMatches_DefaultMatchesEverything(t *testing.T) {
	items := []tenant.Tenant{
		{ID: "1"},
		{ID: "2", Stage: tenant.StagePast, HealthScore: score(3)},
		{ID: "3", Arrears: &tenant.Arrears{DaysLate: 90}},
	}
	for _, it := range items {
		assert.True(t, Matches(it, Default(), now), it.ID)
	}
}

func TestMatches_TagsAreAND(t *testing.T) {
	f := Default()
	f.Tags = []string{"A", "B"}

	assert.True(t, Matches(tenant.Tenant{Tags: []string{"A", "B", "C"}}, f, now))
	assert.False(t, Matches(tenant.Tenant{Tags: []string{"A"}}, f, now))
	assert.False(t, Matches(tenant.Tenant{Tags: []string{"B"}}, f, now))
	assert.False(t, Matches(tenant.Tenant{}, f, now))

	custom := Default()
	custom.CustomTags = []string{"pets", "parking"}
	assert.False(t, Matches(tenant.Tenant{Tags: []string{"pets"}}, custom, now), "custom tags are AND too")
	assert.True(t, Matches(tenant.Tenant{Tags: []string{"parking", "pets"}}, custom, now))
}

func TestMatches_TagsANDProperty(t *testing.T) {
	r := rand.New(rand.NewPCG(1, 2))
	pool := []string{"A", "B", "C", "D"}
	f := Default()
	f.Tags = []string{"A", "B"}
	for i := 0; i < 500; i++ {
		var tags []string
		for _, p := range pool {
			if r.IntN(2) == 0 {
				tags = append(tags, p)
			}
		}
		it := tenant.Tenant{Tags: tags}
		if !it.HasTag("A") || !it.HasTag("B") {
			require.False(t, Matches(it, f, now), "tags=%v", tags)
		}
	}
}

func TestMatches_Stages(t *testing.T) {
	f := Default()
	f.Stages = []tenant.Stage{tenant.StageActive, tenant.StageNotice}

	assert.True(t, Matches(tenant.Tenant{Stage: tenant.StageActive}, f, now))
	assert.True(t, Matches(tenant.Tenant{Stage: tenant.StageNotice}, f, now))
	assert.False(t, Matches(tenant.Tenant{Stage: tenant.StageLead}, f, now))
	assert.False(t, Matches(tenant.Tenant{}, f, now), "stage-less tenant is not a member")

	empty := Default()
	for _, s := range append([]tenant.Stage{""}, tenant.AllStages...) {
		assert.True(t, Matches(tenant.Tenant{Stage: s}, empty, now), "empty stage filter matches %q", s)
	}
}

func TestMatches_HealthRange(t *testing.T) {
	f := Default()
	f.HealthMin, f.HealthMax = 40, 60

	assert.True(t, Matches(tenant.Tenant{HealthScore: score(40)}, f, now), "inclusive min")
	assert.True(t, Matches(tenant.Tenant{HealthScore: score(60)}, f, now), "inclusive max")
	assert.False(t, Matches(tenant.Tenant{HealthScore: score(39.5)}, f, now))
	assert.False(t, Matches(tenant.Tenant{HealthScore: score(61)}, f, now))
	assert.True(t, Matches(tenant.Tenant{}, f, now), "un-scored tenants pass")
}

func TestMatches_ArrearsTiers(t *testing.T) {
	f := Default()
	f.ArrearsTiers = []Tier{TierHigh, TierCritical}

	assert.False(t, Matches(tenant.Tenant{}, f, now), "no arrears record")
	assert.False(t, Matches(tenant.Tenant{Arrears: &tenant.Arrears{DaysLate: 3}}, f, now), "below any tier")
	assert.False(t, Matches(tenant.Tenant{Arrears: &tenant.Arrears{DaysLate: 14}}, f, now))
	assert.True(t, Matches(tenant.Tenant{Arrears: &tenant.Arrears{DaysLate: 21}}, f, now))
	assert.True(t, Matches(tenant.Tenant{Arrears: &tenant.Arrears{DaysLate: 45}}, f, now))
}

func TestMatches_Toggles(t *testing.T) {
	watch := Default()
	watch.WatchlistOnly = true
	assert.True(t, Matches(tenant.Tenant{Watchlist: true}, watch, now))
	assert.False(t, Matches(tenant.Tenant{}, watch, now))

	arrears := Default()
	arrears.ArrearsOnly = true
	assert.True(t, Matches(tenant.Tenant{Arrears: &tenant.Arrears{DaysLate: 1}}, arrears, now))
	assert.False(t, Matches(tenant.Tenant{}, arrears, now))
}

func TestMatches_LastContactWindow(t *testing.T) {
	f := Default()
	f.LastContactWithinDays = Days(7)

	assert.True(t, Matches(tenant.Tenant{LastTouchpointAt: ago(2 * day)}, f, now))
	assert.True(t, Matches(tenant.Tenant{LastTouchpointAt: ago(7 * day)}, f, now), "boundary is inclusive")
	assert.False(t, Matches(tenant.Tenant{LastTouchpointAt: ago(7*day + time.Minute)}, f, now))
	assert.False(t, Matches(tenant.Tenant{}, f, now), "never contacted is excluded")
}

func TestMatches_UpcomingEventWindow(t *testing.T) {
	f := Default()
	f.UpcomingEventWithinDays = Days(14)

	assert.True(t, Matches(tenant.Tenant{NextEventAt: ahead(3 * day)}, f, now))
	assert.False(t, Matches(tenant.Tenant{NextEventAt: ahead(15 * day)}, f, now))
	assert.False(t, Matches(tenant.Tenant{NextEventAt: ago(day)}, f, now), "past events are not upcoming")
	assert.False(t, Matches(tenant.Tenant{}, f, now))
}

func TestMatches_Search(t *testing.T) {
	f := Default()
	f.Search = "  ALI "

	assert.True(t, Matches(tenant.Tenant{Name: "Alice"}, f, now))
	assert.True(t, Matches(tenant.Tenant{Name: "Bob", Email: "bob@alibaba.test"}, f, now))
	assert.False(t, Matches(tenant.Tenant{Name: "Bob"}, f, now))

	phone := Default()
	phone.Search = "555-01"
	assert.True(t, Matches(tenant.Tenant{Phone: "+1 555-0199"}, phone, now))
	assert.False(t, Matches(tenant.Tenant{ID: "555-01"}, phone, now), "only name, email and phone are searched")
}

func TestMatches_Conjunctive(t *testing.T) {
	f := Default()
	f.Stages = []tenant.Stage{tenant.StageActive}
	f.WatchlistOnly = true

	assert.False(t, Matches(tenant.Tenant{Stage: tenant.StageActive}, f, now))
	assert.False(t, Matches(tenant.Tenant{Watchlist: true}, f, now))
	assert.True(t, Matches(tenant.Tenant{Stage: tenant.StageActive, Watchlist: true}, f, now))
}

func TestApply_PreservesOrderAndInput(t *testing.T) {
	items := []tenant.Tenant{
		{ID: "c", Watchlist: true},
		{ID: "a"},
		{ID: "b", Watchlist: true},
	}
	f := Default()
	f.WatchlistOnly = true

	got := Apply(items, f, now)
	assert.Equal(t, []string{"c", "b"}, tenant.IDs(got))
	assert.Len(t, items, 3)
}

func TestNormalize(t *testing.T) {
	f := Filters{
		HealthMin:             80,
		HealthMax:             -5,
		Tags:                  []string{"b", "a", "b", " "},
		Stages:                []tenant.Stage{"Active", "active"},
		ArrearsTiers:          []Tier{"high", "bogus", TierHigh},
		LastContactWithinDays: Days(-1),
	}
	n := f.Normalize()

	assert.Equal(t, 0, n.HealthMin)
	assert.Equal(t, 80, n.HealthMax)
	assert.Equal(t, []string{"a", "b"}, n.Tags)
	assert.Equal(t, []tenant.Stage{tenant.StageActive}, n.Stages)
	assert.Equal(t, []Tier{TierHigh}, n.ArrearsTiers)
	assert.Nil(t, n.LastContactWithinDays)

	over := Filters{HealthMin: 150, HealthMax: 200}.Normalize()
	assert.Equal(t, 100, over.HealthMin)
	assert.Equal(t, 100, over.HealthMax)
}

func TestToggles(t *testing.T) {
	f := Default().ToggleTag("b").ToggleTag("a")
	assert.Equal(t, []string{"a", "b"}, f.Tags)
	f = f.ToggleTag("a")
	assert.Equal(t, []string{"b"}, f.Tags)

	g := f.ToggleStage(tenant.StageActive)
	assert.Empty(t, f.Stages, "receiver is not mutated")
	assert.Equal(t, []tenant.Stage{tenant.StageActive}, g.Stages)
	assert.Empty(t, g.ToggleStage(tenant.StageActive).Stages)

	h := Default().ToggleTier(TierLow).ToggleCustomTag("vip")
	assert.Equal(t, []Tier{TierLow}, h.ArrearsTiers)
	assert.Equal(t, []string{"vip"}, h.CustomTags)
}

func TestCloneIsDeep(t *testing.T) {
	f := Default()
	f.Tags = []string{"a"}
	f.LastContactWithinDays = Days(3)

	c := f.Clone()
	c.Tags[0] = "z"
	*c.LastContactWithinDays = 9

	assert.Equal(t, "a", f.Tags[0])
	assert.Equal(t, 3, *f.LastContactWithinDays)
}

func TestActiveCountAndEqual(t *testing.T) {
	assert.Equal(t, 0, Default().ActiveCount())
	assert.True(t, Default().IsZero())

	f := Default()
	f.Search = "x"
	f.HealthMin = 10
	f.ArrearsOnly = true
	assert.Equal(t, 3, f.ActiveCount())

	a := Default().ToggleTag("x").ToggleTag("y")
	b := Default().ToggleTag("y").ToggleTag("x")
	assert.True(t, a.Equal(b))
	assert.False(t, a.Equal(Default()))
}

func TestToQuery(t *testing.T) {
	f := Default()
	f.Search = " alice "
	f.Tags = []string{"a"}
	f.CustomTags = []string{"vip"}
	f.ArrearsTiers = []Tier{TierLow}
	f.LastContactWithinDays = Days(30)

	q := f.ToQuery()
	assert.Equal(t, "alice", q.Search)
	assert.Equal(t, []string{"a", "vip"}, q.Tags)
	assert.Equal(t, []string{"LOW"}, q.ArrearsTiers)
	require.NotNil(t, q.LastContactWithinDays)
	assert.Equal(t, 30, *q.LastContactWithinDays)
}
