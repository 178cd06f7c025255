package repository

import (
	"context"
	"encoding/json"

	"opportunity-matcher/internal/docstore"
	"opportunity-matcher/internal/domain/activity"
)

const activityRoot = "user_activity"

type ActivityRepository interface {
	Append(ctx context.Context, rec activity.Record) (string, error)
	// Recent returns at most n records, oldest first.
	Recent(ctx context.Context, username string, n int) ([]activity.Record, error)
}

type DocActivityRepository struct {
	store docstore.Store
}

func NewDocActivityRepository(store docstore.Store) *DocActivityRepository {
	return &DocActivityRepository{store: store}
}

func (r *DocActivityRepository) Append(ctx context.Context, rec activity.Record) (string, error) {
	path, err := docstore.Join(activityRoot, rec.Username)
	if err != nil {
		return "", err
	}
	return r.store.Push(ctx, path, rec)
}

func (r *DocActivityRepository) Recent(ctx context.Context, username string, n int) ([]activity.Record, error) {
	path, err := docstore.Join(activityRoot, username)
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

	children = docstore.Last(children, n)
	out := make([]activity.Record, 0, len(children))
	for _, c := range children {
		var rec activity.Record
		if err := json.Unmarshal(c.Value, &rec); err != nil {
			continue
		}
		out = append(out, rec)
	}
	return out, nil
}
