package ws

import (
	"encoding/json"
	"time"
)

// Event is the frame every subscriber receives.
type Event struct {
	Type      string `json:"type"`
	Community string `json:"community"`
	Data      any    `json:"data,omitempty"`
	Timestamp string `json:"timestamp"`
}

// Publish sends an event to the community's subscribers. Publishing is
// best effort: encoding failures and full buffers drop the event.
func (h *Hub) Publish(community, event string, data any) {
	if h == nil {
		return
	}

	b, err := json.Marshal(Event{
		Type:      event,
		Community: community,
		Data:      data,
		Timestamp: time.Now().UTC().Format(time.RFC3339),
	})
	if err != nil {
		h.logger.Warn().Err(err).Str("event", event).Msg("ws event not encodable")
		return
	}
	h.Broadcast(community, b)
}
