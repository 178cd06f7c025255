package dto

import (
	"time"

	"opportunity-matcher/internal/domain/activity"
	"opportunity-matcher/internal/domain/profile"
)

type ProfileResponse struct {
	Username  string         `json:"username"`
	Skills    []string       `json:"skills"`
	Interests []string       `json:"interests"`
	Tags      []string       `json:"tags"`
	Bio       string         `json:"bio"`
	Metadata  map[string]any `json:"metadata"`
	UpdatedAt *time.Time     `json:"updated_at,omitempty"`
}

// ProfileEnvelope carries a nil Profile for users that never saved one.
type ProfileEnvelope struct {
	Profile *ProfileResponse `json:"profile"`
}

type OKResponse struct {
	OK bool `json:"ok"`
}

type ActivityResponse struct {
	Username  string    `json:"username"`
	Community string    `json:"community"`
	Type      string    `json:"type"`
	Content   string    `json:"content"`
	Timestamp time.Time `json:"timestamp"`
}

type ActivityListResponse struct {
	Activity []ActivityResponse `json:"activity"`
}

func NewProfileResponse(p profile.UserProfile) *ProfileResponse {
	out := &ProfileResponse{
		Username:  p.Username,
		Skills:    nonNil(p.Skills),
		Interests: nonNil(p.Interests),
		Tags:      nonNil(p.Tags),
		Bio:       p.Bio,
		Metadata:  p.Metadata,
	}
	if out.Metadata == nil {
		out.Metadata = map[string]any{}
	}
	if !p.UpdatedAt.IsZero() {
		t := p.UpdatedAt
		out.UpdatedAt = &t
	}
	return out
}

func NewActivityList(recs []activity.Record) ActivityListResponse {
	out := ActivityListResponse{Activity: make([]ActivityResponse, 0, len(recs))}
	for _, r := range recs {
		out.Activity = append(out.Activity, ActivityResponse{
			Username:  r.Username,
			Community: r.Community,
			Type:      r.Type,
			Content:   r.Content,
			Timestamp: r.Timestamp,
		})
	}
	return out
}

func nonNil(values []string) []string {
	if values == nil {
		return []string{}
	}
	return values
}
