package ws

import (
	"net/http"
	"strings"

	"github.com/gofiber/fiber/v3"
	"github.com/gofiber/fiber/v3/middleware/adaptor"
	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"
)

type Handler struct {
	hub    *Hub
	logger zerolog.Logger
}

func NewHandler(hub *Hub, logger zerolog.Logger) *Handler {
	return &Handler{hub: hub, logger: logger}
}

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

func (h *Handler) RegisterRoutes(r fiber.Router) {
	if r == nil {
		return
	}
	r.Get("/ws/opportunities/:community", h.HandleOpportunitiesWS)
}

func (h *Handler) HandleOpportunitiesWS(c fiber.Ctx) error {
	if h == nil || h.hub == nil {
		return fiber.ErrServiceUnavailable
	}
	community := strings.TrimSpace(c.Params("community"))
	if community == "" {
		return fiber.ErrBadRequest
	}

	return adaptor.HTTPHandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		h.Serve(w, r, community)
	})(c)
}

// Serve upgrades the connection and subscribes it to community.
func (h *Handler) Serve(w http.ResponseWriter, r *http.Request, community string) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.logger.Warn().Err(err).Str("community", community).Msg("ws upgrade failed")
		return
	}

	client := NewClient(h.hub, conn, community)
	h.hub.Register(client)
	go client.WritePump()
	go client.ReadPump()
}
