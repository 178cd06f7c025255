package usecase

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"opportunity-matcher/internal/domain/activity"
	"opportunity-matcher/internal/domain/catalog"
	"opportunity-matcher/internal/domain/matching"
	"opportunity-matcher/internal/domain/opportunity"
	"opportunity-matcher/internal/domain/profile"
	"opportunity-matcher/internal/pkg/workerpool"
)

const (
	DefaultTopK         = 5
	RecommendationTopK  = 10
	DefaultMinScore     = 0.3
	DefaultCatalogTopN  = 5
	DefaultCatalogMin   = 30
	MaxActivityWindow   = 50
	defaultBatchWorkers = 4
	catalogHighMatch    = 70
	catalogMediumMatch  = 50
	catalogUrgentWithin = 7
)

type MatchResult struct {
	Opportunity         opportunity.Opportunity
	MatchScore          float64
	Breakdown           matching.Breakdown
	MatchedRequirements []string
	MatchedTags         []string
}

type CatalogMatch struct {
	Title       string
	Type        string
	Category    string
	Description string
	Company     string
	Match       int
	Urgency     string
	UrgencyIcon string
	UrgencyDays int
	MatchedTags []string
}

type CatalogStats struct {
	Total       int
	HighMatch   int
	MediumMatch int
	Urgent      int
}

// RankerOptions zero values fall back to the package defaults.
type RankerOptions struct {
	Jitter         matching.Jitter
	ActivityWindow int
	BatchWorkers   int
	DefaultTopK    int
	RecommendTopK  int
	Now            func() time.Time
}

// Ranker scores candidates for a user and orders them. It never fails:
// missing or unreadable inputs produce fewer or zero results.
type Ranker struct {
	profiles       *ProfileService
	opportunities  *OpportunityService
	catalog        *catalog.Catalog
	jitter         matching.Jitter
	activityWindow int
	batchWorkers   int
	defaultTopK    int
	recommendTopK  int
	now            func() time.Time
	logger         zerolog.Logger
}

func NewRanker(profiles *ProfileService, opportunities *OpportunityService, cat *catalog.Catalog, opts RankerOptions, logger zerolog.Logger) *Ranker {
	r := &Ranker{
		profiles:       profiles,
		opportunities:  opportunities,
		catalog:        cat,
		jitter:         opts.Jitter,
		activityWindow: opts.ActivityWindow,
		batchWorkers:   opts.BatchWorkers,
		defaultTopK:    opts.DefaultTopK,
		recommendTopK:  opts.RecommendTopK,
		now:            opts.Now,
		logger:         logger,
	}
	if r.jitter == nil {
		r.jitter = matching.NoJitter{}
	}
	if r.activityWindow <= 0 || r.activityWindow > MaxActivityWindow {
		r.activityWindow = MaxActivityWindow
	}
	if r.batchWorkers <= 0 {
		r.batchWorkers = defaultBatchWorkers
	}
	if r.defaultTopK <= 0 {
		r.defaultTopK = DefaultTopK
	}
	if r.recommendTopK <= 0 {
		r.recommendTopK = RecommendationTopK
	}
	if r.now == nil {
		r.now = time.Now
	}
	return r
}

// MatchOpportunities ranks the community's active opportunities for
// username and keeps the best topK. A non-positive topK uses the
// configured default.
func (r *Ranker) MatchOpportunities(ctx context.Context, username, community string, topK int) []MatchResult {
	if topK <= 0 {
		topK = r.defaultTopK
	}

	p, _ := r.profiles.GetUserProfile(ctx, username)
	recent := r.profiles.RecentActivity(ctx, username, r.activityWindow)
	candidates := r.opportunities.List(ctx, community, opportunity.FilterActive, DefaultListLimit)

	return rankDynamic(candidates, p, recent, topK)
}

// Recommendations ranks with the recommendation top-k and then drops
// results below minScore.
func (r *Ranker) Recommendations(ctx context.Context, username, community string, minScore float64) []MatchResult {
	matches := r.MatchOpportunities(ctx, username, community, r.recommendTopK)
	out := FilterByMinScore(matches, minScore)
	r.logger.Debug().Str("username", username).Str("community", community).Int("count", len(out)).Msg("recommendations ranked")
	return out
}

func FilterByMinScore(results []MatchResult, minScore float64) []MatchResult {
	out := make([]MatchResult, 0, len(results))
	for _, m := range results {
		if m.MatchScore >= minScore {
			out = append(out, m)
		}
	}
	return out
}

// PersonalizedOpportunities ranks the curated catalog for p by jittered
// match, breaking ties by urgency, keeps topN and then applies minScore.
func (r *Ranker) PersonalizedOpportunities(p profile.UserProfile, topN, minScore int) []CatalogMatch {
	if r.catalog == nil {
		return []CatalogMatch{}
	}
	now := r.now()

	scored := make([]CatalogMatch, 0, r.catalog.Len())
	for _, t := range r.catalog.Templates() {
		res := matching.CalculateCatalog(p, t)
		u := matching.UrgencyFor(t.UrgencyDays, now)
		scored = append(scored, CatalogMatch{
			Title:       t.Title,
			Type:        t.Type,
			Category:    t.Category,
			Description: t.Description,
			Company:     t.Company,
			Match:       r.jitter.Apply(res.Score),
			Urgency:     u.Text,
			UrgencyIcon: u.Icon,
			UrgencyDays: t.UrgencyDays,
			MatchedTags: res.MatchedTags,
		})
	}

	SortCatalogMatches(scored)
	if topN > 0 && len(scored) > topN {
		scored = scored[:topN]
	}
	return FilterCatalogByMinScore(scored, minScore)
}

// SortCatalogMatches orders by match descending, then by fewer days left.
func SortCatalogMatches(items []CatalogMatch) {
	sort.SliceStable(items, func(i, j int) bool {
		if items[i].Match != items[j].Match {
			return items[i].Match > items[j].Match
		}
		return items[i].UrgencyDays < items[j].UrgencyDays
	})
}

func FilterCatalogByMinScore(items []CatalogMatch, minScore int) []CatalogMatch {
	out := make([]CatalogMatch, 0, len(items))
	for _, it := range items {
		if it.Match >= minScore {
			out = append(out, it)
		}
	}
	return out
}

func (r *Ranker) CatalogStats(p profile.UserProfile) CatalogStats {
	all := r.PersonalizedOpportunities(p, 0, 0)

	st := CatalogStats{Total: len(all)}
	for _, m := range all {
		switch {
		case m.Match >= catalogHighMatch:
			st.HighMatch++
		case m.Match >= catalogMediumMatch:
			st.MediumMatch++
		}
		if m.UrgencyDays <= catalogUrgentWithin {
			st.Urgent++
		}
	}
	return st
}

// BatchMatch ranks every user independently on the worker pool. Users whose
// ranking is cut short by ctx are left out of the result.
func (r *Ranker) BatchMatch(ctx context.Context, community string, usernames []string, topK int) map[string][]MatchResult {
	out := make(map[string][]MatchResult, len(usernames))
	if len(usernames) == 0 {
		return out
	}
	if topK <= 0 {
		topK = r.defaultTopK
	}

	candidates := r.opportunities.List(ctx, community, opportunity.FilterActive, DefaultListLimit)

	var mu sync.Mutex
	tasks := make([]workerpool.Task, 0, len(usernames))
	for _, u := range usernames {
		username := u
		tasks = append(tasks, func(ctx context.Context) error {
			p, _ := r.profiles.GetUserProfile(ctx, username)
			recent := r.profiles.RecentActivity(ctx, username, r.activityWindow)
			ranked := rankDynamic(candidates, p, recent, topK)

			mu.Lock()
			out[username] = ranked
			mu.Unlock()
			return nil
		})
	}

	if err := workerpool.Do(ctx, r.batchWorkers, tasks); err != nil {
		r.logger.Warn().Err(err).Str("community", community).Msg("batch match interrupted")
	}
	return out
}

func rankDynamic(candidates []opportunity.Opportunity, p profile.UserProfile, recent []activity.Record, topK int) []MatchResult {
	if topK <= 0 {
		topK = DefaultTopK
	}

	out := make([]MatchResult, 0, len(candidates))
	for _, opp := range candidates {
		res := matching.Calculate(opp, p, recent)
		out = append(out, MatchResult{
			Opportunity:         opp,
			MatchScore:          matching.RoundScore(res.Score),
			Breakdown:           res.Breakdown,
			MatchedRequirements: res.MatchedRequirements,
			MatchedTags:         res.MatchedTags,
		})
	}

	sort.SliceStable(out, func(i, j int) bool {
		return out[i].MatchScore > out[j].MatchScore
	})
	if len(out) > topK {
		out = out[:topK]
	}
	return out
}
