package usecase

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"opportunity-matcher/internal/docstore"
	"opportunity-matcher/internal/repository"
)

var errStoreDown = errors.New("store down")

type failingStore struct{}

func (failingStore) Get(context.Context, string) (json.RawMessage, error) { return nil, errStoreDown }
func (failingStore) Set(context.Context, string, any) error               { return errStoreDown }
func (failingStore) Push(context.Context, string, any) (string, error)    { return "", errStoreDown }
func (failingStore) Update(context.Context, string, map[string]any) error { return errStoreDown }
func (failingStore) Delete(context.Context, string) error                 { return errStoreDown }

type recordedEvent struct {
	Community string
	Event     string
	Data      any
}

type recordingPublisher struct {
	mu     sync.Mutex
	events []recordedEvent
}

func (p *recordingPublisher) Publish(community, event string, data any) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, recordedEvent{Community: community, Event: event, Data: data})
}

func (p *recordingPublisher) Events() []recordedEvent {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]recordedEvent(nil), p.events...)
}

// stepClock returns a clock that advances one second per call.
func stepClock() func() time.Time {
	var mu sync.Mutex
	t := time.Date(2025, 1, 1, 9, 0, 0, 0, time.UTC)
	return func() time.Time {
		mu.Lock()
		defer mu.Unlock()
		t = t.Add(time.Second)
		return t
	}
}

type fixture struct {
	stats         *Stats
	publisher     *recordingPublisher
	profiles      *ProfileService
	opportunities *OpportunityService
}

func newFixture(store docstore.Store) *fixture {
	stats := NewStats()
	pub := &recordingPublisher{}
	activityRepo := repository.NewDocActivityRepository(store)
	clock := stepClock()

	profiles := NewProfileService(repository.NewDocProfileRepository(store), activityRepo, stats, zerolog.Nop())
	profiles.now = clock
	opps := NewOpportunityService(repository.NewDocOpportunityRepository(store), activityRepo, pub, stats, zerolog.Nop())
	opps.now = clock

	return &fixture{stats: stats, publisher: pub, profiles: profiles, opportunities: opps}
}
