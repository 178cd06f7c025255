package repository

import (
	"context"
	"encoding/json"
	"net/url"

	"opportunity-matcher/internal/docstore"
	"opportunity-matcher/internal/domain/opportunity"
)

const opportunitiesRoot = "opportunities"

// StoredOpportunity pairs a record with the storage key it lives under,
// which differs from the opportunity's own ID.
type StoredOpportunity struct {
	Key         string
	Opportunity opportunity.Opportunity
}

type OpportunityRepository interface {
	Create(ctx context.Context, community string, o opportunity.Opportunity) (string, error)
	// Recent returns the newest limit records in insertion order; limit <= 0
	// returns all of them.
	Recent(ctx context.Context, community string, limit int) ([]StoredOpportunity, error)
	UpdateStatus(ctx context.Context, community, key string, status opportunity.Status) error
	Communities(ctx context.Context) ([]string, error)
}

type DocOpportunityRepository struct {
	store docstore.Store
}

func NewDocOpportunityRepository(store docstore.Store) *DocOpportunityRepository {
	return &DocOpportunityRepository{store: store}
}

func (r *DocOpportunityRepository) Create(ctx context.Context, community string, o opportunity.Opportunity) (string, error) {
	path, err := docstore.Join(opportunitiesRoot, community)
	if err != nil {
		return "", err
	}
	return r.store.Push(ctx, path, o)
}

func (r *DocOpportunityRepository) Recent(ctx context.Context, community string, limit int) ([]StoredOpportunity, error) {
	path, err := docstore.Join(opportunitiesRoot, community)
	if err != nil {
		return nil, err
	}
	raw, err := r.store.Get(ctx, path)
	if err != nil {
		return nil, err
	}
	children, err := docstore.Children(raw)
	if err != nil {
		return nil, err
	}

	children = docstore.Last(children, limit)
	out := make([]StoredOpportunity, 0, len(children))
	for _, c := range children {
		var o opportunity.Opportunity
		if err := json.Unmarshal(c.Value, &o); err != nil {
			continue
		}
		out = append(out, StoredOpportunity{Key: c.Key, Opportunity: o})
	}
	return out, nil
}

func (r *DocOpportunityRepository) UpdateStatus(ctx context.Context, community, key string, status opportunity.Status) error {
	path, err := docstore.Join(opportunitiesRoot, community)
	if err != nil {
		return err
	}
	return r.store.Update(ctx, path+"/"+key, map[string]any{"status": status})
}

func (r *DocOpportunityRepository) Communities(ctx context.Context) ([]string, error) {
	raw, err := r.store.Get(ctx, opportunitiesRoot)
	if err != nil {
		return nil, err
	}
	children, err := docstore.Children(raw)
	if err != nil {
		return nil, err
	}
	out := make([]string, 0, len(children))
	for _, c := range children {
		name, err := url.PathUnescape(c.Key)
		if err != nil {
			continue
		}
		out = append(out, name)
	}
	return out, nil
}
