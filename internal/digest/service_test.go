package digest

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"opportunity-matcher/internal/docstore"
	"opportunity-matcher/internal/repository"
	"opportunity-matcher/internal/usecase"
)

type published struct {
	community string
	event     string
	data      any
}

type recorder struct {
	mu     sync.Mutex
	events []published
}

func (r *recorder) Publish(community, event string, data any) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, published{community: community, event: event, data: data})
}

type stubLocker struct {
	granted bool
	err     error
	keys    []string
}

func (l *stubLocker) SetIfNotExists(_ context.Context, key, _ string, _ time.Duration) (bool, error) {
	l.keys = append(l.keys, key)
	return l.granted, l.err
}

type env struct {
	profiles      *repository.DocProfileRepository
	opportunities *repository.DocOpportunityRepository
	ranker        *usecase.Ranker
}

func newEnv(t *testing.T) env {
	t.Helper()
	ctx := context.Background()
	store := docstore.NewMemory()
	stats := usecase.NewStats()

	profileRepo := repository.NewDocProfileRepository(store)
	activityRepo := repository.NewDocActivityRepository(store)
	oppRepo := repository.NewDocOpportunityRepository(store)

	profiles := usecase.NewProfileService(profileRepo, activityRepo, stats, zerolog.Nop())
	opps := usecase.NewOpportunityService(oppRepo, activityRepo, nil, stats, zerolog.Nop())

	require.True(t, profiles.UpdateUserProfile(ctx, usecase.ProfileInput{Username: "ana", Skills: []string{"go"}}))
	require.True(t, profiles.UpdateUserProfile(ctx, usecase.ProfileInput{Username: "bo", Skills: []string{"cooking"}}))
	_, ok := opps.Create(ctx, usecase.CreateOpportunityInput{Community: "gophers", Title: "Go role", Category: "job", Requirements: []string{"go"}})
	require.True(t, ok)
	_, ok = opps.Create(ctx, usecase.CreateOpportunityInput{Community: "rustaceans", Title: "Rust role", Category: "job", Requirements: []string{"rust"}})
	require.True(t, ok)

	return env{
		profiles:      profileRepo,
		opportunities: oppRepo,
		ranker:        usecase.NewRanker(profiles, opps, nil, usecase.RankerOptions{BatchWorkers: 2}, zerolog.Nop()),
	}
}

func TestRunOnce(t *testing.T) {
	e := newEnv(t)
	rec := &recorder{}
	svc := NewService(e.ranker, e.opportunities, e.profiles, rec, &stubLocker{granted: true}, Options{TopK: 3}, zerolog.Nop())

	rep, err := svc.RunOnce(context.Background())
	require.NoError(t, err)
	assert.False(t, rep.Skipped)
	assert.Equal(t, 2, rep.Communities)
	assert.Equal(t, 2, rep.Users)
	assert.Equal(t, 1, rep.Matched["gophers"])
	assert.Equal(t, 0, rep.Matched["rustaceans"])

	require.Len(t, rec.events, 2)
	for _, ev := range rec.events {
		assert.Equal(t, EventRecommendationsRefreshed, ev.event)
	}
}

func TestRunOnce_LockHeldElsewhere(t *testing.T) {
	e := newEnv(t)
	rec := &recorder{}
	locker := &stubLocker{granted: false}
	svc := NewService(e.ranker, e.opportunities, e.profiles, rec, locker, Options{}, zerolog.Nop())

	rep, err := svc.RunOnce(context.Background())
	require.NoError(t, err)
	assert.True(t, rep.Skipped)
	assert.Empty(t, rec.events)
	require.Len(t, locker.keys, 1)
	assert.Contains(t, locker.keys[0], lockPrefix)
}

func TestRunOnce_LockErrorRunsAnyway(t *testing.T) {
	e := newEnv(t)
	rec := &recorder{}
	svc := NewService(e.ranker, e.opportunities, e.profiles, rec, &stubLocker{err: errors.New("redis down")}, Options{}, zerolog.Nop())

	rep, err := svc.RunOnce(context.Background())
	require.NoError(t, err)
	assert.False(t, rep.Skipped)
	assert.Len(t, rec.events, 2)
}

func TestStart_InvalidSchedule(t *testing.T) {
	e := newEnv(t)
	svc := NewService(e.ranker, e.opportunities, e.profiles, nil, nil, Options{Schedule: "not a cron"}, zerolog.Nop())

	require.Error(t, svc.Start())
	svc.Stop()
}

func TestStartStop(t *testing.T) {
	e := newEnv(t)
	svc := NewService(e.ranker, e.opportunities, e.profiles, nil, nil, Options{Schedule: "0 0 * * * *"}, zerolog.Nop())

	require.NoError(t, svc.Start())
	require.NoError(t, svc.Start())
	svc.Stop()
}
