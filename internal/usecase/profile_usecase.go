package usecase

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"opportunity-matcher/internal/domain/activity"
	"opportunity-matcher/internal/domain/profile"
	"opportunity-matcher/internal/pkg/sanitize"
	"opportunity-matcher/internal/repository"
)

type ProfileInput struct {
	Username  string
	Skills    []string
	Interests []string
	Tags      []string
	Bio       string
	Metadata  map[string]any
}

func (in ProfileInput) Validate() error {
	if strings.TrimSpace(in.Username) == "" {
		return fmt.Errorf("%w: username is required", ErrInvalidInput)
	}
	return nil
}

type ActivityInput struct {
	Username  string
	Community string
	Type      string
	Content   string
}

func (in ActivityInput) Validate() error {
	if strings.TrimSpace(in.Username) == "" {
		return fmt.Errorf("%w: username is required", ErrInvalidInput)
	}
	if strings.TrimSpace(in.Community) == "" {
		return fmt.Errorf("%w: community is required", ErrInvalidInput)
	}
	if strings.TrimSpace(in.Type) == "" {
		return fmt.Errorf("%w: type is required", ErrInvalidInput)
	}
	return nil
}

// ProfileService owns user profiles and the activity log. Store failures
// are logged and reported as false, never returned.
type ProfileService struct {
	profiles repository.ProfileRepository
	activity repository.ActivityRepository
	stats    *Stats
	logger   zerolog.Logger
	now      func() time.Time
}

func NewProfileService(profiles repository.ProfileRepository, activity repository.ActivityRepository, stats *Stats, logger zerolog.Logger) *ProfileService {
	return &ProfileService{
		profiles: profiles,
		activity: activity,
		stats:    stats,
		logger:   logger,
		now:      time.Now,
	}
}

// UpdateUserProfile replaces the whole profile. Fields left out of in are
// stored empty.
func (s *ProfileService) UpdateUserProfile(ctx context.Context, in ProfileInput) bool {
	if err := in.Validate(); err != nil {
		return false
	}

	p := profile.UserProfile{
		Username:  in.Username,
		Skills:    sanitize.List(in.Skills),
		Interests: sanitize.List(in.Interests),
		Tags:      sanitize.List(in.Tags),
		Bio:       sanitize.Text(in.Bio),
		Metadata:  in.Metadata,
	}.Normalize(s.now())

	if err := s.profiles.Save(ctx, p); err != nil {
		s.stats.Record(WriteProfile, OutcomeFailed)
		s.logger.Warn().Err(err).Str("op", "update_user_profile").Str("username", p.Username).Msg("profile write failed")
		return false
	}
	s.stats.Record(WriteProfile, OutcomeOK)
	s.logger.Info().Str("username", p.Username).Int("tags", len(p.Tags)).Msg("profile updated")
	return true
}

// GetUserProfile reports found=false both when no profile exists and when
// the store could not be read.
func (s *ProfileService) GetUserProfile(ctx context.Context, username string) (profile.UserProfile, bool) {
	p, found, err := s.profiles.Get(ctx, username)
	switch {
	case err != nil:
		s.stats.Record(LookupProfile, OutcomeFailed)
		s.logger.Warn().Err(err).Str("op", "get_user_profile").Str("lookup", string(LookupProfile)).Str("username", username).Msg("lookup failed, using empty profile")
		return profile.Empty(username), false
	case !found:
		s.stats.Record(LookupProfile, OutcomeEmpty)
		return profile.Empty(username), false
	default:
		s.stats.Record(LookupProfile, OutcomeFound)
		return p, true
	}
}

func (s *ProfileService) TrackActivity(ctx context.Context, in ActivityInput) bool {
	if err := in.Validate(); err != nil {
		return false
	}

	rec := activity.Record{
		Username:  strings.TrimSpace(in.Username),
		Community: strings.TrimSpace(in.Community),
		Type:      strings.TrimSpace(in.Type),
		Content:   sanitize.Text(in.Content),
		Timestamp: s.now().UTC(),
	}
	if _, err := s.activity.Append(ctx, rec); err != nil {
		s.stats.Record(WriteActivity, OutcomeFailed)
		s.logger.Warn().Err(err).Str("op", "track_user_activity").Str("username", rec.Username).Msg("activity write failed")
		return false
	}
	s.stats.Record(WriteActivity, OutcomeOK)
	return true
}

// RecentActivity returns up to n records, oldest first, or nil when the log
// is empty or unreadable.
func (s *ProfileService) RecentActivity(ctx context.Context, username string, n int) []activity.Record {
	recs, err := s.activity.Recent(ctx, username, n)
	switch {
	case err != nil:
		s.stats.Record(LookupActivity, OutcomeFailed)
		s.logger.Warn().Err(err).Str("op", "recent_activity").Str("lookup", string(LookupActivity)).Str("username", username).Msg("lookup failed, using no activity")
		return nil
	case len(recs) == 0:
		s.stats.Record(LookupActivity, OutcomeEmpty)
		return nil
	default:
		s.stats.Record(LookupActivity, OutcomeFound)
		return recs
	}
}
