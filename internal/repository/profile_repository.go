package repository

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"

	"opportunity-matcher/internal/docstore"
	"opportunity-matcher/internal/domain/profile"
)

const profilesRoot = "user_profiles"

type ProfileRepository interface {
	// Get reports found=false with a nil error when no profile is stored.
	Get(ctx context.Context, username string) (profile.UserProfile, bool, error)
	Save(ctx context.Context, p profile.UserProfile) error
	ListUsernames(ctx context.Context) ([]string, error)
}

type DocProfileRepository struct {
	store docstore.Store
}

func NewDocProfileRepository(store docstore.Store) *DocProfileRepository {
	return &DocProfileRepository{store: store}
}

func (r *DocProfileRepository) Get(ctx context.Context, username string) (profile.UserProfile, bool, error) {
	path, err := docstore.Join(profilesRoot, username)
	if err != nil {
		return profile.UserProfile{}, false, err
	}
	raw, err := r.store.Get(ctx, path)
	if err != nil {
		return profile.UserProfile{}, false, err
	}
	if raw == nil {
		return profile.UserProfile{}, false, nil
	}

	var p profile.UserProfile
	if err := json.Unmarshal(raw, &p); err != nil {
		return profile.UserProfile{}, false, fmt.Errorf("decode profile %s: %w", username, err)
	}
	if p.Username == "" {
		p.Username = username
	}
	return p, true, nil
}

// Save replaces the stored profile wholesale.
func (r *DocProfileRepository) Save(ctx context.Context, p profile.UserProfile) error {
	path, err := docstore.Join(profilesRoot, p.Username)
	if err != nil {
		return err
	}
	return r.store.Set(ctx, path, p)
}

func (r *DocProfileRepository) ListUsernames(ctx context.Context) ([]string, error) {
	raw, err := r.store.Get(ctx, profilesRoot)
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
