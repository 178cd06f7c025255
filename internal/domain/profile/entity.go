package profile

import (
	"strings"
	"time"
)

type UserProfile struct {
	Username  string         `json:"username"`
	Skills    []string       `json:"skills"`
	Interests []string       `json:"interests"`
	Tags      []string       `json:"tags"`
	Bio       string         `json:"bio"`
	Metadata  map[string]any `json:"metadata,omitempty"`
	UpdatedAt time.Time      `json:"updated_at"`
}

// Empty is the profile used for users that never saved one.
func Empty(username string) UserProfile {
	return UserProfile{
		Username:  username,
		Skills:    []string{},
		Interests: []string{},
		Tags:      []string{},
	}
}

// Normalize prepares a profile for a full overwrite. Tags are lower-cased and
// trimmed; skills and interests keep their first spelling but lose blanks
// and case-insensitive repeats.
func (p UserProfile) Normalize(now time.Time) UserProfile {
	out := p
	out.Username = strings.TrimSpace(p.Username)
	out.Skills = cleanSet(p.Skills, false)
	out.Interests = cleanSet(p.Interests, false)
	out.Tags = NormalizeTags(p.Tags)
	out.Bio = strings.TrimSpace(p.Bio)
	if out.Metadata == nil {
		out.Metadata = map[string]any{}
	}
	out.UpdatedAt = now.UTC()
	return out
}

func NormalizeTags(tags []string) []string {
	return cleanSet(tags, true)
}

func cleanSet(values []string, lower bool) []string {
	out := make([]string, 0, len(values))
	seen := make(map[string]struct{}, len(values))
	for _, v := range values {
		v = strings.TrimSpace(v)
		if lower {
			v = strings.ToLower(v)
		}
		if v == "" {
			continue
		}
		key := strings.ToLower(v)
		if _, ok := seen[key]; ok {
			continue
		}
		seen[key] = struct{}{}
		out = append(out, v)
	}
	return out
}
