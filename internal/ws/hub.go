package ws

import (
	"context"
	"sync"

	"github.com/rs/zerolog"
)

type message struct {
	community string
	payload   []byte
}

// Hub fans messages out to the clients subscribed to a community. All
// membership changes happen on the Run goroutine.
type Hub struct {
	rooms      map[string]map[*Client]struct{}
	broadcast  chan message
	register   chan *Client
	unregister chan *Client
	mutex      sync.RWMutex
	logger     zerolog.Logger
}

func NewHub(logger zerolog.Logger) *Hub {
	return &Hub{
		rooms:      make(map[string]map[*Client]struct{}),
		broadcast:  make(chan message, 1024),
		register:   make(chan *Client, 128),
		unregister: make(chan *Client, 128),
		logger:     logger,
	}
}

// Run serves registrations and broadcasts until ctx is done, then closes
// every client's send channel.
func (h *Hub) Run(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			h.closeAll()
			return

		case client := <-h.register:
			if client == nil {
				continue
			}
			h.mutex.Lock()
			room, ok := h.rooms[client.community]
			if !ok {
				room = make(map[*Client]struct{})
				h.rooms[client.community] = room
			}
			room[client] = struct{}{}
			total := len(room)
			h.mutex.Unlock()
			h.logger.Debug().Str("community", client.community).Int("clients", total).Msg("ws connected")

		case client := <-h.unregister:
			h.remove(client)

		case msg := <-h.broadcast:
			h.mutex.RLock()
			snapshot := make([]*Client, 0, len(h.rooms[msg.community]))
			for c := range h.rooms[msg.community] {
				snapshot = append(snapshot, c)
			}
			h.mutex.RUnlock()

			for _, client := range snapshot {
				select {
				case client.send <- msg.payload:
				default:
					h.remove(client)
				}
			}
			h.logger.Debug().Str("community", msg.community).Int("clients", len(snapshot)).Msg("ws broadcast")
		}
	}
}

func (h *Hub) remove(client *Client) {
	if client == nil {
		return
	}
	h.mutex.Lock()
	defer h.mutex.Unlock()

	room, ok := h.rooms[client.community]
	if !ok {
		return
	}
	if _, ok := room[client]; !ok {
		return
	}
	delete(room, client)
	close(client.send)
	if len(room) == 0 {
		delete(h.rooms, client.community)
	}
	h.logger.Debug().Str("community", client.community).Int("clients", len(room)).Msg("ws disconnected")
}

func (h *Hub) closeAll() {
	h.mutex.Lock()
	defer h.mutex.Unlock()
	for community, room := range h.rooms {
		for c := range room {
			close(c.send)
		}
		delete(h.rooms, community)
	}
}

func (h *Hub) Register(client *Client) {
	if h == nil {
		return
	}
	h.register <- client
}

func (h *Hub) Unregister(client *Client) {
	if h == nil {
		return
	}
	h.unregister <- client
}

// Broadcast queues payload for community. It never blocks; when the queue
// is full the message is dropped.
func (h *Hub) Broadcast(community string, payload []byte) {
	if h == nil {
		return
	}
	select {
	case h.broadcast <- message{community: community, payload: payload}:
	default:
		h.logger.Warn().Str("community", community).Msg("ws broadcast dropped, buffer full")
	}
}

func (h *Hub) ClientCount(community string) int {
	if h == nil {
		return 0
	}
	h.mutex.RLock()
	defer h.mutex.RUnlock()
	return len(h.rooms[community])
}
