// Package digest periodically re-ranks every community for every known
// member and tells subscribers that fresh recommendations are available.
package digest

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog"

	"opportunity-matcher/internal/usecase"
)

const (
	EventRecommendationsRefreshed = "recommendations_refreshed"

	lockPrefix = "digest:lock:"
	lockTTL    = 5 * time.Minute
)

// Locker grants a run to one instance at a time.
type Locker interface {
	SetIfNotExists(ctx context.Context, key string, value string, ttl time.Duration) (bool, error)
}

type Communities interface {
	Communities(ctx context.Context) ([]string, error)
}

type Members interface {
	ListUsernames(ctx context.Context) ([]string, error)
}

type Options struct {
	Schedule string
	TopK     int
	Timeout  time.Duration
}

// Report summarizes one run. Matched counts users with at least one
// non-zero match.
type Report struct {
	Communities int
	Users       int
	Matched     map[string]int
	Skipped     bool
}

type Service struct {
	ranker      *usecase.Ranker
	communities Communities
	members     Members
	publisher   usecase.EventPublisher
	locker      Locker
	opts        Options
	logger      zerolog.Logger
	now         func() time.Time

	mu   sync.Mutex
	cron *cron.Cron
}

func NewService(ranker *usecase.Ranker, communities Communities, members Members, publisher usecase.EventPublisher, locker Locker, opts Options, logger zerolog.Logger) *Service {
	if opts.TopK <= 0 {
		opts.TopK = usecase.DefaultTopK
	}
	if opts.Timeout <= 0 {
		opts.Timeout = lockTTL
	}
	return &Service{
		ranker:      ranker,
		communities: communities,
		members:     members,
		publisher:   publisher,
		locker:      locker,
		opts:        opts,
		logger:      logger,
		now:         time.Now,
	}
}

// Start schedules RunOnce on the configured six-field cron expression.
func (s *Service) Start() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.cron != nil {
		return nil
	}

	c := cron.New(cron.WithSeconds(), cron.WithChain(cron.SkipIfStillRunning(cron.DiscardLogger)))
	_, err := c.AddFunc(s.opts.Schedule, func() {
		ctx, cancel := context.WithTimeout(context.Background(), s.opts.Timeout)
		defer cancel()
		if _, err := s.RunOnce(ctx); err != nil {
			s.logger.Error().Err(err).Msg("digest run failed")
		}
	})
	if err != nil {
		return fmt.Errorf("digest schedule %q: %w", s.opts.Schedule, err)
	}

	c.Start()
	s.cron = c
	s.logger.Info().Str("schedule", s.opts.Schedule).Int("top_k", s.opts.TopK).Msg("digest scheduler started")
	return nil
}

// Stop waits for a running digest to finish.
func (s *Service) Stop() {
	s.mu.Lock()
	c := s.cron
	s.cron = nil
	s.mu.Unlock()
	if c == nil {
		return
	}
	<-c.Stop().Done()
	s.logger.Info().Msg("digest scheduler stopped")
}

// RunOnce ranks every community for every member. Nothing is persisted;
// subscribers are only told to fetch again.
func (s *Service) RunOnce(ctx context.Context) (Report, error) {
	if !s.acquire(ctx) {
		s.logger.Info().Msg("digest skipped, another instance holds the lock")
		return Report{Skipped: true}, nil
	}

	communities, err := s.communities.Communities(ctx)
	if err != nil {
		return Report{}, fmt.Errorf("list communities: %w", err)
	}
	users, err := s.members.ListUsernames(ctx)
	if err != nil {
		return Report{}, fmt.Errorf("list users: %w", err)
	}

	rep := Report{Communities: len(communities), Users: len(users), Matched: make(map[string]int, len(communities))}
	if len(users) == 0 {
		return rep, nil
	}

	start := s.now()
	for _, community := range communities {
		if err := ctx.Err(); err != nil {
			return rep, err
		}

		results := s.ranker.BatchMatch(ctx, community, users, s.opts.TopK)
		matched := 0
		for _, ranked := range results {
			if len(ranked) > 0 && ranked[0].MatchScore > 0 {
				matched++
			}
		}
		rep.Matched[community] = matched

		if s.publisher != nil {
			s.publisher.Publish(community, EventRecommendationsRefreshed, map[string]int{
				"users":   len(results),
				"matched": matched,
			})
		}
	}

	s.logger.Info().
		Int("communities", rep.Communities).
		Int("users", rep.Users).
		Dur("took", s.now().Sub(start)).
		Msg("digest completed")
	return rep, nil
}

func (s *Service) acquire(ctx context.Context) bool {
	if s.locker == nil {
		return true
	}
	slot := s.now().UTC().Truncate(time.Minute).Format(time.RFC3339)
	ok, err := s.locker.SetIfNotExists(ctx, lockPrefix+slot, "1", lockTTL)
	if err != nil {
		s.logger.Warn().Err(err).Msg("digest lock unavailable, running anyway")
		return true
	}
	return ok
}
