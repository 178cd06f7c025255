package usecase

import (
	"context"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"opportunity-matcher/internal/docstore"
	"opportunity-matcher/internal/domain/catalog"
	"opportunity-matcher/internal/domain/opportunity"
	"opportunity-matcher/internal/domain/profile"
)

const testCatalog = `
templates:
  - title: "Later ML role"
    type: "Job"
    category: "Tech"
    tags: ["ai", "ml"]
    urgency_days: 10
  - title: "Sooner ML role"
    type: "Job"
    category: "Tech"
    tags: ["ai", "ml"]
    urgency_days: 3
  - title: "Cooking class"
    type: "Event"
    category: "Food"
    tags: ["cooking"]
    urgency_days: 1
`

func newRanker(t *testing.T, f *fixture) *Ranker {
	t.Helper()
	cat, err := catalog.Parse([]byte(testCatalog))
	if err != nil {
		t.Fatalf("parse catalog: %v", err)
	}
	return NewRanker(f.profiles, f.opportunities, cat, RankerOptions{
		Now: func() time.Time { return time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC) },
	}, zerolog.Nop())
}

func seedRankedCommunity(t *testing.T, f *fixture) {
	t.Helper()
	reqs := [][]string{
		{"x"},
		{"a", "x", "y", "z"},
		{"a", "b", "c", "d"},
		{"a", "b", "x", "y"},
		{"a", "b", "c", "x"},
	}
	titles := []string{"zero", "quarter", "full", "half", "three quarters"}
	for i, r := range reqs {
		mustCreate(t, f, CreateOpportunityInput{Community: "go", Title: titles[i], Category: "job", Requirements: r})
	}
	if !f.profiles.UpdateUserProfile(context.Background(), ProfileInput{Username: "ana", Skills: []string{"a", "b", "c", "d"}}) {
		t.Fatalf("seed profile")
	}
}

func TestMatchOpportunities_TopK(t *testing.T) {
	f := newFixture(docstore.NewMemory())
	seedRankedCommunity(t, f)
	r := newRanker(t, f)

	got := r.MatchOpportunities(context.Background(), "ana", "go", 2)
	if len(got) != 2 {
		t.Fatalf("expected 2 results, got %d", len(got))
	}
	if got[0].Opportunity.Title != "full" || got[1].Opportunity.Title != "three quarters" {
		t.Fatalf("unexpected ranking: %q, %q", got[0].Opportunity.Title, got[1].Opportunity.Title)
	}
	if got[0].MatchScore != 0.4 || got[1].MatchScore != 0.3 {
		t.Fatalf("unexpected scores: %v, %v", got[0].MatchScore, got[1].MatchScore)
	}
	if len(got[0].MatchedRequirements) != 4 {
		t.Fatalf("expected 4 matched requirements, got %v", got[0].MatchedRequirements)
	}
}

func TestMatchOpportunities_DescendingAndDefaultTopK(t *testing.T) {
	f := newFixture(docstore.NewMemory())
	seedRankedCommunity(t, f)
	r := newRanker(t, f)

	got := r.MatchOpportunities(context.Background(), "ana", "go", 0)
	if len(got) != DefaultTopK {
		t.Fatalf("expected %d results, got %d", DefaultTopK, len(got))
	}
	for i := 1; i < len(got); i++ {
		if got[i].MatchScore > got[i-1].MatchScore {
			t.Fatalf("results not descending at %d: %v > %v", i, got[i].MatchScore, got[i-1].MatchScore)
		}
	}
}

func TestMatchOpportunities_ConfiguredTopKDefaults(t *testing.T) {
	f := newFixture(docstore.NewMemory())
	seedRankedCommunity(t, f)
	cat, err := catalog.Parse([]byte(testCatalog))
	if err != nil {
		t.Fatalf("parse catalog: %v", err)
	}
	r := NewRanker(f.profiles, f.opportunities, cat, RankerOptions{DefaultTopK: 2, RecommendTopK: 3}, zerolog.Nop())
	ctx := context.Background()

	if got := r.MatchOpportunities(ctx, "ana", "go", 0); len(got) != 2 {
		t.Fatalf("expected configured default of 2, got %d", len(got))
	}
	if got := r.Recommendations(ctx, "ana", "go", 0); len(got) != 3 {
		t.Fatalf("expected configured recommendation top-k of 3, got %d", len(got))
	}
	if got := r.BatchMatch(ctx, "go", []string{"ana"}, 0); len(got["ana"]) != 2 {
		t.Fatalf("expected batch to use configured default, got %d", len(got["ana"]))
	}
}

func TestMatchOpportunities_SkipsClosed(t *testing.T) {
	ctx := context.Background()
	f := newFixture(docstore.NewMemory())
	id := mustCreate(t, f, CreateOpportunityInput{Community: "go", Title: "closed", Category: "job", Requirements: []string{"a"}})
	mustCreate(t, f, CreateOpportunityInput{Community: "go", Title: "open", Category: "job", Requirements: []string{"b"}})
	f.opportunities.SetStatus(ctx, "go", id, opportunity.StatusClosed)
	r := newRanker(t, f)

	got := r.MatchOpportunities(ctx, "ana", "go", 10)
	if len(got) != 1 || got[0].Opportunity.Title != "open" {
		t.Fatalf("expected only the active opportunity, got %+v", got)
	}
}

func TestMatchOpportunities_StoreFailureIsEmpty(t *testing.T) {
	f := newFixture(failingStore{})
	r := newRanker(t, f)

	got := r.MatchOpportunities(context.Background(), "ana", "go", 5)
	if got == nil || len(got) != 0 {
		t.Fatalf("expected empty non-nil result, got %v", got)
	}
	if f.stats.Count(LookupOpportunities, OutcomeFailed) != 1 {
		t.Fatalf("expected the failed lookup to be counted")
	}
}

func TestRecommendations_MinScore(t *testing.T) {
	f := newFixture(docstore.NewMemory())
	seedRankedCommunity(t, f)
	r := newRanker(t, f)

	got := r.Recommendations(context.Background(), "ana", "go", DefaultMinScore)
	if len(got) != 2 {
		t.Fatalf("expected 2 results at or above %.1f, got %d", DefaultMinScore, len(got))
	}
	for _, m := range got {
		if m.MatchScore < DefaultMinScore {
			t.Fatalf("result below threshold: %+v", m)
		}
	}
}

func TestPersonalizedOpportunities_TieBreakByUrgency(t *testing.T) {
	f := newFixture(docstore.NewMemory())
	r := newRanker(t, f)
	p := profile.UserProfile{Username: "ana", Tags: []string{"ai", "ml"}}

	got := r.PersonalizedOpportunities(p, 5, 30)
	if len(got) != 2 {
		t.Fatalf("expected 2 results above threshold, got %+v", got)
	}
	if got[0].Title != "Sooner ML role" || got[1].Title != "Later ML role" {
		t.Fatalf("expected the sooner deadline first, got %q, %q", got[0].Title, got[1].Title)
	}
	if got[0].Match != 100 {
		t.Fatalf("expected full match, got %d", got[0].Match)
	}
	if got[0].Urgency != "Urgent: 3 days left" || got[0].UrgencyIcon != "🔴" {
		t.Fatalf("unexpected urgency: %q %q", got[0].Urgency, got[0].UrgencyIcon)
	}
	if got[1].Urgency != "Deadline in 10 days" {
		t.Fatalf("unexpected urgency: %q", got[1].Urgency)
	}
}

func TestPersonalizedOpportunities_TopNBeforeThreshold(t *testing.T) {
	f := newFixture(docstore.NewMemory())
	r := newRanker(t, f)
	p := profile.UserProfile{Username: "ana", Tags: []string{"ai", "ml"}}

	if got := r.PersonalizedOpportunities(p, 1, 0); len(got) != 1 {
		t.Fatalf("expected 1 result, got %d", len(got))
	}
	if got := r.PersonalizedOpportunities(p, 0, 0); len(got) != 3 {
		t.Fatalf("expected every template, got %d", len(got))
	}
}

func TestCatalogStats(t *testing.T) {
	f := newFixture(docstore.NewMemory())
	r := newRanker(t, f)

	st := r.CatalogStats(profile.UserProfile{Username: "ana", Tags: []string{"ai", "ml"}})
	want := CatalogStats{Total: 3, HighMatch: 2, MediumMatch: 0, Urgent: 2}
	if st != want {
		t.Fatalf("expected %+v, got %+v", want, st)
	}
}

func TestBatchMatch(t *testing.T) {
	ctx := context.Background()
	f := newFixture(docstore.NewMemory())
	seedRankedCommunity(t, f)
	if !f.profiles.UpdateUserProfile(ctx, ProfileInput{Username: "bo", Skills: []string{"x"}}) {
		t.Fatalf("seed profile")
	}
	r := newRanker(t, f)

	got := r.BatchMatch(ctx, "go", []string{"ana", "bo", "ghost"}, 1)
	if len(got) != 3 {
		t.Fatalf("expected a result per user, got %d", len(got))
	}
	if top := got["ana"]; len(top) != 1 || top[0].Opportunity.Title != "full" {
		t.Fatalf("unexpected ranking for ana: %+v", top)
	}
	if top := got["bo"]; len(top) != 1 || top[0].Opportunity.Title != "zero" {
		t.Fatalf("unexpected ranking for bo: %+v", top)
	}
	if top := got["ghost"]; len(top) != 1 || top[0].MatchScore != 0 {
		t.Fatalf("expected a zero score for an unknown user, got %+v", top)
	}
}

func TestBatchMatch_NoUsers(t *testing.T) {
	f := newFixture(docstore.NewMemory())
	r := newRanker(t, f)

	if got := r.BatchMatch(context.Background(), "go", nil, 5); len(got) != 0 {
		t.Fatalf("expected empty result, got %v", got)
	}
}
