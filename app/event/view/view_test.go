package view

import (
	"fmt"
	"testing"
	"time"

	"campus-connect/app/event/model"
	"campus-connect/common/errorx"
)

var now = time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)

func users(n int) []string {
	out := make([]string, n)
	for i := range out {
		out[i] = fmt.Sprintf("u%d", i)
	}
	return out
}

func ids(events []model.Event) []string {
	out := make([]string, len(events))
	for i, e := range events {
		out[i] = e.ID
	}
	return out
}

func sameIDs(t *testing.T, got []model.Event, want ...string) {
	t.Helper()
	g := ids(got)
	if len(g) != len(want) {
		t.Fatalf("ids = %v, want %v", g, want)
	}
	for i := range want {
		if g[i] != want[i] {
			t.Fatalf("ids = %v, want %v", g, want)
		}
	}
}

func TestTrendingSort(t *testing.T) {
	a := model.Event{ID: "b-first-by-id", RSVP: users(3), Likes: users(1)}
	b := model.Event{ID: "a-first-by-id", RSVP: users(1), Likes: users(5)}

	if TrendingScore(a) != 7 || TrendingScore(b) != 6 {
		t.Fatalf("scores = %d, %d", TrendingScore(a), TrendingScore(b))
	}
	got := Apply([]model.Event{b, a}, Query{Sort: SortTrending})
	sameIDs(t, got, a.ID, b.ID)
}

func TestDateSortIgnoresEngagement(t *testing.T) {
	events := []model.Event{
		{ID: "late", EventDate: now.Add(72 * time.Hour), RSVP: users(50), Likes: users(50)},
		{ID: "early", EventDate: now.Add(time.Hour)},
		{ID: "mid", EventDate: now.Add(24 * time.Hour), ShareCount: 99},
	}
	sameIDs(t, Apply(events, Query{Sort: SortDate}), "early", "mid", "late")
}

func TestSorts(t *testing.T) {
	events := []model.Event{
		{ID: "a", RSVP: users(1), Likes: users(1), Saves: users(3), CreatedAt: now.Add(-3 * time.Hour)},
		{ID: "b", RSVP: users(4), Likes: users(0), Saves: users(1), CreatedAt: now.Add(-1 * time.Hour)},
		{ID: "c", RSVP: users(0), Likes: users(3), Saves: users(2), CreatedAt: now.Add(-2 * time.Hour)},
	}
	tests := []struct {
		sort SortKey
		want []string
	}{
		{SortPopularity, []string{"b", "c", "a"}},
		{SortTrending, []string{"b", "a", "c"}},
		{SortRecent, []string{"b", "c", "a"}},
		{SortSaves, []string{"a", "c", "b"}},
	}
	for _, tt := range tests {
		t.Run(string(tt.sort), func(t *testing.T) {
			sameIDs(t, Apply(events, Query{Sort: tt.sort}), tt.want...)
		})
	}
}

func TestTiesBreakByID(t *testing.T) {
	events := []model.Event{{ID: "z"}, {ID: "m"}, {ID: "a"}}
	sameIDs(t, Apply(events, Query{Sort: SortPopularity}), "a", "m", "z")
}

func TestFilters(t *testing.T) {
	events := []model.Event{
		{ID: "talk", Title: "Go Talk", Category: "tech", EventDate: now.Add(time.Hour), Trending: true},
		{ID: "party", Title: "Party", Venue: "Main Hall", Category: "social", EventDate: now.Add(-time.Hour), Featured: true},
		{ID: "run", Title: "Morning Run", Tags: []string{"Sports"}, Category: "sports", EventDate: now.Add(2 * time.Hour), Saves: []string{"me"}},
	}
	tests := []struct {
		name string
		q    Query
		want []string
	}{
		{"all", Query{}, []string{"party", "talk", "run"}},
		{"search title", Query{Search: "go"}, []string{"talk"}},
		{"search venue", Query{Search: "main hall"}, []string{"party"}},
		{"search tag case-insensitive", Query{Search: "SPORT"}, []string{"run"}},
		{"category", Query{Category: "social"}, []string{"party"}},
		{"category all", Query{Category: CategoryAll}, []string{"party", "talk", "run"}},
		{"trending", Query{Filter: FilterTrending}, []string{"talk"}},
		{"featured", Query{Filter: FilterFeatured}, []string{"party"}},
		{"upcoming", Query{Filter: FilterUpcoming, Now: now}, []string{"talk", "run"}},
		{"saved", Query{Filter: FilterSaved, Viewer: "me"}, []string{"run"}},
		{"saved anonymous", Query{Filter: FilterSaved}, nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sameIDs(t, Apply(events, tt.q), tt.want...)
		})
	}
}

func TestApplyDoesNotMutateSource(t *testing.T) {
	events := []model.Event{
		{ID: "b", EventDate: now.Add(2 * time.Hour), RSVP: []string{"me"}},
		{ID: "a", EventDate: now.Add(time.Hour)},
	}

	got := Apply(events, Query{Viewer: "me"})
	if events[0].ID != "b" || events[0].UserHasRSVPd {
		t.Fatalf("source was mutated: %+v", events[0])
	}
	if !got[1].UserHasRSVPd {
		t.Fatalf("viewer flag should be set on the result: %+v", got[1])
	}
}

func TestQueryNormalize(t *testing.T) {
	q, err := Query{Search: "  go "}.Normalize()
	if err != nil {
		t.Fatalf("Normalize: %v", err)
	}
	if q.Filter != FilterAll || q.Sort != SortDate || q.Search != "go" || q.Now.IsZero() {
		t.Fatalf("defaults not applied: %+v", q)
	}

	if _, err := (Query{Sort: "random"}).Normalize(); !errorx.Is(err, errorx.CodeInvalidParams) {
		t.Fatalf("unknown sort should be rejected, got %v", err)
	}
	if _, err := (Query{Filter: "mine"}).Normalize(); !errorx.Is(err, errorx.CodeInvalidParams) {
		t.Fatalf("unknown filter should be rejected, got %v", err)
	}
}

func TestSummarize(t *testing.T) {
	events := []model.Event{
		{OrganizerID: "org", EventDate: now.Add(time.Hour), RSVP: users(3), Likes: users(2), CheckedInAttendees: users(1), ShareCount: 4, ViewCount: 10},
		{OrganizerID: "org", EventDate: now.Add(-time.Hour), RSVP: users(2), Comments: []model.Comment{{ID: "c"}}, ViewCount: 5},
		{OrganizerID: "other", RSVP: users(9)},
	}

	s := Summarize(events, "org", now)
	want := Stats{
		TotalEvents:          2,
		TotalAttendees:       5,
		UpcomingEvents:       1,
		TotalLikes:           2,
		AvgAttendeesPerEvent: 3,
		TotalCheckIns:        1,
		TotalShares:          4,
		TotalViews:           15,
		TotalComments:        1,
	}
	if s != want {
		t.Fatalf("Summarize = %+v, want %+v", s, want)
	}

	if empty := Summarize(nil, "org", now); empty != (Stats{}) {
		t.Fatalf("empty stats = %+v", empty)
	}
}
