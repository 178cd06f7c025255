package opportunity

import (
	"sort"
	"strings"
	"time"
)

type Status string

const (
	StatusActive Status = "active"
	StatusClosed Status = "closed"
)

func ParseStatus(s string) (Status, bool) {
	switch Status(strings.ToLower(strings.TrimSpace(s))) {
	case StatusActive:
		return StatusActive, true
	case StatusClosed:
		return StatusClosed, true
	default:
		return "", false
	}
}

type StatusFilter string

const (
	FilterActive StatusFilter = "active"
	FilterClosed StatusFilter = "closed"
	FilterAll    StatusFilter = "all"
)

// ParseStatusFilter defaults to FilterActive for an empty value.
func ParseStatusFilter(s string) (StatusFilter, bool) {
	switch StatusFilter(strings.ToLower(strings.TrimSpace(s))) {
	case "", FilterActive:
		return FilterActive, true
	case FilterClosed:
		return FilterClosed, true
	case FilterAll:
		return FilterAll, true
	default:
		return "", false
	}
}

func (f StatusFilter) Matches(s Status) bool {
	if f == FilterAll {
		return true
	}
	return Status(f) == s
}

// Opportunity is a community-submitted record. ID is the public identifier
// and is distinct from the storage key the record lives under.
type Opportunity struct {
	ID           string         `json:"id"`
	Title        string         `json:"title"`
	Description  string         `json:"description"`
	Category     string         `json:"category"`
	Tags         []string       `json:"tags"`
	Requirements []string       `json:"requirements"`
	Deadline     *string        `json:"deadline"`
	PostedBy     *string        `json:"posted_by"`
	Metadata     map[string]any `json:"metadata,omitempty"`
	CreatedAt    time.Time      `json:"created_at"`
	Status       Status         `json:"status"`
}

// SortByCreatedDesc orders most recent first. Equal timestamps keep their
// incoming order.
func SortByCreatedDesc(items []Opportunity) {
	sort.SliceStable(items, func(i, j int) bool {
		return items[i].CreatedAt.After(items[j].CreatedAt)
	})
}

func FilterByStatus(items []Opportunity, f StatusFilter) []Opportunity {
	out := make([]Opportunity, 0, len(items))
	for _, it := range items {
		if f.Matches(it.Status) {
			out = append(out, it)
		}
	}
	return out
}

// Template is a read-only entry of the curated catalog.
type Template struct {
	Title       string   `yaml:"title" json:"title"`
	Type        string   `yaml:"type" json:"type"`
	Category    string   `yaml:"category" json:"category"`
	Skills      []string `yaml:"skills" json:"skills"`
	Interests   []string `yaml:"interests" json:"interests"`
	Tags        []string `yaml:"tags" json:"tags"`
	Description string   `yaml:"description" json:"description"`
	Company     string   `yaml:"company" json:"company"`
	UrgencyDays int      `yaml:"urgency_days" json:"urgency_days"`
}
