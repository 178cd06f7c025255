package usecase

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"opportunity-matcher/internal/domain/activity"
	"opportunity-matcher/internal/domain/opportunity"
	"opportunity-matcher/internal/pkg/sanitize"
	"opportunity-matcher/internal/repository"
)

const DefaultListLimit = 50

const (
	EventOpportunityCreated       = "opportunity_created"
	EventOpportunityStatusChanged = "opportunity_status_changed"
)

// EventPublisher fans lifecycle events out to a community's subscribers.
type EventPublisher interface {
	Publish(community, event string, data any)
}

type CreateOpportunityInput struct {
	Community    string
	Title        string
	Description  string
	Category     string
	Tags         []string
	Requirements []string
	Deadline     string
	PostedBy     string
	Metadata     map[string]any
}

func (in CreateOpportunityInput) Validate() error {
	if strings.TrimSpace(in.Community) == "" {
		return fmt.Errorf("%w: community is required", ErrInvalidInput)
	}
	if strings.TrimSpace(in.Title) == "" {
		return fmt.Errorf("%w: title is required", ErrInvalidInput)
	}
	if strings.TrimSpace(in.Category) == "" {
		return fmt.Errorf("%w: category is required", ErrInvalidInput)
	}
	return nil
}

// OpportunityService manages community opportunities and their
// active/closed state. Deadlines are informational and never close an
// opportunity.
type OpportunityService struct {
	repo      repository.OpportunityRepository
	activity  repository.ActivityRepository
	publisher EventPublisher
	stats     *Stats
	logger    zerolog.Logger
	now       func() time.Time
}

func NewOpportunityService(repo repository.OpportunityRepository, activity repository.ActivityRepository, publisher EventPublisher, stats *Stats, logger zerolog.Logger) *OpportunityService {
	return &OpportunityService{
		repo:      repo,
		activity:  activity,
		publisher: publisher,
		stats:     stats,
		logger:    logger,
		now:       time.Now,
	}
}

// Create stores a new active opportunity and returns its id. ok is false
// when the input is invalid or the store write failed.
func (s *OpportunityService) Create(ctx context.Context, in CreateOpportunityInput) (string, bool) {
	if err := in.Validate(); err != nil {
		return "", false
	}

	community := strings.TrimSpace(in.Community)
	o := opportunity.Opportunity{
		ID:           uuid.NewString(),
		Title:        sanitize.Text(in.Title),
		Description:  sanitize.Text(in.Description),
		Category:     strings.TrimSpace(in.Category),
		Tags:         sanitize.List(in.Tags),
		Requirements: sanitize.List(in.Requirements),
		Deadline:     optional(in.Deadline),
		PostedBy:     optional(in.PostedBy),
		Metadata:     in.Metadata,
		CreatedAt:    s.now().UTC(),
		Status:       opportunity.StatusActive,
	}
	if o.Metadata == nil {
		o.Metadata = map[string]any{}
	}

	if _, err := s.repo.Create(ctx, community, o); err != nil {
		s.stats.Record(WriteOpportunity, OutcomeFailed)
		s.logger.Warn().Err(err).Str("op", "add_opportunity").Str("community", community).Msg("opportunity write failed")
		return "", false
	}
	s.stats.Record(WriteOpportunity, OutcomeOK)
	s.logger.Info().Str("community", community).Str("opportunity_id", o.ID).Str("title", o.Title).Msg("opportunity added")

	if o.PostedBy != nil && s.activity != nil {
		rec := activity.Record{
			Username:  *o.PostedBy,
			Community: community,
			Type:      activity.TypeOpportunityPosted,
			Content:   o.Title,
			Timestamp: o.CreatedAt,
		}
		if _, err := s.activity.Append(ctx, rec); err != nil {
			s.stats.Record(WriteActivity, OutcomeFailed)
			s.logger.Warn().Err(err).Str("op", "track_user_activity").Str("username", rec.Username).Msg("activity write failed")
		} else {
			s.stats.Record(WriteActivity, OutcomeOK)
		}
	}

	s.publish(community, EventOpportunityCreated, o)
	return o.ID, true
}

// List returns the community's opportunities matching f, most recent
// first. Only the newest limit stored records are considered.
func (s *OpportunityService) List(ctx context.Context, community string, f opportunity.StatusFilter, limit int) []opportunity.Opportunity {
	if limit <= 0 {
		limit = DefaultListLimit
	}

	stored, err := s.repo.Recent(ctx, community, limit)
	if err != nil {
		s.stats.Record(LookupOpportunities, OutcomeFailed)
		s.logger.Warn().Err(err).Str("op", "get_opportunities").Str("lookup", string(LookupOpportunities)).Str("community", community).Msg("lookup failed, using no opportunities")
		return []opportunity.Opportunity{}
	}
	if len(stored) == 0 {
		s.stats.Record(LookupOpportunities, OutcomeEmpty)
		return []opportunity.Opportunity{}
	}
	s.stats.Record(LookupOpportunities, OutcomeFound)

	items := make([]opportunity.Opportunity, 0, len(stored))
	for i := len(stored) - 1; i >= 0; i-- {
		items = append(items, stored[i].Opportunity)
	}
	items = opportunity.FilterByStatus(items, f)
	opportunity.SortByCreatedDesc(items)
	return items
}

// SetStatus finds the opportunity by its id and sets its status. It
// reports false when the id is unknown or the store failed. Setting the
// current status again succeeds without changing anything.
func (s *OpportunityService) SetStatus(ctx context.Context, community, id string, status opportunity.Status) bool {
	if _, ok := opportunity.ParseStatus(string(status)); !ok {
		return false
	}

	stored, err := s.repo.Recent(ctx, community, 0)
	if err != nil {
		s.stats.Record(LookupOpportunities, OutcomeFailed)
		s.logger.Warn().Err(err).Str("op", "update_opportunity_status").Str("lookup", string(LookupOpportunities)).Str("community", community).Msg("lookup failed")
		return false
	}

	for _, so := range stored {
		if so.Opportunity.ID != id {
			continue
		}
		if err := s.repo.UpdateStatus(ctx, community, so.Key, status); err != nil {
			s.stats.Record(WriteOpportunity, OutcomeFailed)
			s.logger.Warn().Err(err).Str("op", "update_opportunity_status").Str("opportunity_id", id).Msg("status write failed")
			return false
		}
		s.stats.Record(WriteOpportunity, OutcomeOK)
		s.logger.Info().Str("community", community).Str("opportunity_id", id).Str("status", string(status)).Msg("opportunity status updated")

		if so.Opportunity.Status != status {
			s.publish(community, EventOpportunityStatusChanged, map[string]any{"id": id, "status": status})
		}
		return true
	}
	return false
}

func (s *OpportunityService) publish(community, event string, data any) {
	if s.publisher == nil {
		return
	}
	s.publisher.Publish(community, event, data)
}

func optional(s string) *string {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	return &s
}
