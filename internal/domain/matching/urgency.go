package matching

import (
	"fmt"
	"time"
)

type Urgency struct {
	Text string `json:"urgency"`
	Icon string `json:"urgency_icon"`
}

// UrgencyFor labels a template by how many days remain until it closes,
// relative to now.
func UrgencyFor(days int, now time.Time) Urgency {
	switch {
	case days <= 3:
		return Urgency{Text: fmt.Sprintf("Urgent: %d days left", days), Icon: "🔴"}
	case days <= 7:
		return Urgency{Text: "Apply before " + now.AddDate(0, 0, days).Format("Jan 02"), Icon: "🟡"}
	case days <= 14:
		return Urgency{Text: fmt.Sprintf("Deadline in %d days", days), Icon: "🟢"}
	default:
		return Urgency{Text: "Open until " + now.AddDate(0, 0, days).Format("Jan 02"), Icon: "🔵"}
	}
}
