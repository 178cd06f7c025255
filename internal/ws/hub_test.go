package ws

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func startHub(t *testing.T) *Hub {
	t.Helper()
	hub := NewHub(zerolog.Nop())
	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)
	go hub.Run(ctx)
	return hub
}

func dial(t *testing.T, srv *httptest.Server, community string) *websocket.Conn {
	t.Helper()
	url := "ws" + strings.TrimPrefix(srv.URL, "http") + "/" + community
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	t.Cleanup(func() { _ = conn.Close() })
	return conn
}

func waitForClients(t *testing.T, hub *Hub, community string, n int) {
	t.Helper()
	require.Eventually(t, func() bool {
		return hub.ClientCount(community) == n
	}, 2*time.Second, 10*time.Millisecond)
}

func TestPublish_OnlyReachesCommunity(t *testing.T) {
	hub := startHub(t)
	h := NewHandler(hub, zerolog.Nop())
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		h.Serve(w, r, strings.TrimPrefix(r.URL.Path, "/"))
	}))
	defer srv.Close()

	goConn := dial(t, srv, "go")
	rustConn := dial(t, srv, "rust")
	waitForClients(t, hub, "go", 1)
	waitForClients(t, hub, "rust", 1)

	hub.Publish("go", "opportunity_created", map[string]string{"id": "abc"})

	require.NoError(t, goConn.SetReadDeadline(time.Now().Add(2*time.Second)))
	_, raw, err := goConn.ReadMessage()
	require.NoError(t, err)

	var evt Event
	require.NoError(t, json.Unmarshal(raw, &evt))
	assert.Equal(t, "opportunity_created", evt.Type)
	assert.Equal(t, "go", evt.Community)
	assert.NotEmpty(t, evt.Timestamp)

	require.NoError(t, rustConn.SetReadDeadline(time.Now().Add(200*time.Millisecond)))
	_, _, err = rustConn.ReadMessage()
	assert.Error(t, err, "rust subscriber should not receive go events")
}

func TestClientDisconnectUnregisters(t *testing.T) {
	hub := startHub(t)
	h := NewHandler(hub, zerolog.Nop())
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		h.Serve(w, r, "go")
	}))
	defer srv.Close()

	conn := dial(t, srv, "go")
	waitForClients(t, hub, "go", 1)

	require.NoError(t, conn.Close())
	waitForClients(t, hub, "go", 0)
}

func TestNilHubIsSafe(t *testing.T) {
	var hub *Hub
	hub.Publish("go", "x", nil)
	hub.Broadcast("go", []byte("x"))
	assert.Equal(t, 0, hub.ClientCount("go"))
}
