package activity

import "time"

const TypeOpportunityPosted = "opportunity_posted"

// Record is one append-only entry in a user's activity log.
type Record struct {
	Username  string    `json:"username"`
	Community string    `json:"community"`
	Type      string    `json:"type"`
	Content   string    `json:"content"`
	Timestamp time.Time `json:"timestamp"`
}

// LastContents returns the content of the newest n records, oldest first.
// records must already be in insertion order.
func LastContents(records []Record, n int) []string {
	if n <= 0 || len(records) == 0 {
		return nil
	}
	if len(records) > n {
		records = records[len(records)-n:]
	}
	out := make([]string, 0, len(records))
	for _, r := range records {
		out = append(out, r.Content)
	}
	return out
}
