package ws_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"linkup/internal/app/registry"
	"linkup/internal/app/server/ws"
	"linkup/internal/core/domain"
	"linkup/internal/platform/logger"
)

var testUpgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool { return true },
}

// dialTestSocket stands up a server that wraps each upgraded connection in a
// RuntimeClient and hands it to onClient, then dials it.
func dialTestSocket(t *testing.T, onClient func(*ws.RuntimeClient, *ws.WebSocket)) *websocket.Conn {
	t.Helper()
	identity := domain.Identity{UserID: uuid.New(), Username: "alice"}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		conn, err := testUpgrader.Upgrade(w, r, nil)
		if err != nil {
			return
		}
		socket := ws.NewWebSocket(r.Context(), conn, logger.Discard())
		client := ws.NewClient(context.Background(), socket, identity)
		onClient(client, socket)
	}))
	t.Cleanup(srv.Close)

	url := "ws" + strings.TrimPrefix(srv.URL, "http")
	dialed, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	t.Cleanup(func() { dialed.Close() })
	return dialed
}

func TestPublishedFrameReachesDialer(t *testing.T) {
	hub := registry.NewRegistry(logger.Discard())
	ready := make(chan struct{})

	dialed := dialTestSocket(t, func(client *ws.RuntimeClient, socket *ws.WebSocket) {
		hub.Subscribe(client, "topic-a")
		close(ready)
		socket.ReadLoop(func([]byte) {})
		hub.UnsubscribeAll(client)
		client.Close()
	})

	<-ready
	hub.Publish(context.Background(), "topic-a", domain.ErrorEvent{
		Type:    domain.TypeError,
		Code:    "test",
		Message: "ping",
	}, "")

	dialed.SetReadDeadline(time.Now().Add(2 * time.Second))
	_, data, err := dialed.ReadMessage()
	require.NoError(t, err)
	var event domain.ErrorEvent
	require.NoError(t, json.Unmarshal(data, &event))
	assert.Equal(t, "ping", event.Message)
}

func TestSendAfterCloseFails(t *testing.T) {
	clientCh := make(chan *ws.RuntimeClient, 1)
	dialTestSocket(t, func(client *ws.RuntimeClient, socket *ws.WebSocket) {
		clientCh <- client
	})

	client := <-clientCh
	client.Close()
	// Close is idempotent.
	client.Close()
	assert.ErrorIs(t, client.Send([]byte("late")), ws.ErrClientClosed)
}

func TestIdentityIsFixedForConnectionLifetime(t *testing.T) {
	clientCh := make(chan *ws.RuntimeClient, 1)
	dialTestSocket(t, func(client *ws.RuntimeClient, socket *ws.WebSocket) {
		clientCh <- client
	})

	client := <-clientCh
	defer client.Close()
	assert.Equal(t, "alice", client.Identity().Username)
	assert.NotEmpty(t, client.ID())
}
