package socket

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/parlorchat/parlor/internal/domain"
	"github.com/parlorchat/parlor/internal/infrastructure/configs"
	"github.com/parlorchat/parlor/internal/infrastructure/repository"
	"github.com/parlorchat/parlor/internal/infrastructure/ws"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type wireEvent struct {
	Type   string          `json:"type"`
	RoomID string          `json:"roomId"`
	Data   json.RawMessage `json:"data"`
}

func newTestServer(t *testing.T) (*httptest.Server, domain.RoomStore) {
	t.Helper()

	log := zap.NewNop().Sugar()
	store := repository.NewRoomStore(0)
	registry := repository.NewConnectionRegistry()
	groups := ws.NewGroupManager(log)
	core := ws.NewCore(store, registry, groups, log)

	h := NewHandler(core, groups, configs.WebSocketConfig{
		SendBuffer:      64,
		ReadBufferSize:  1024,
		WriteBufferSize: 1024,
	}, []string{"*"}, log)

	srv := httptest.NewServer(http.HandlerFunc(h.ServeWS))
	t.Cleanup(srv.Close)

	return srv, store
}

func dial(t *testing.T, srv *httptest.Server) *websocket.Conn {
	t.Helper()

	url := "ws" + strings.TrimPrefix(srv.URL, "http")
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	t.Cleanup(func() { _ = conn.Close() })

	return conn
}

func readEvent(t *testing.T, conn *websocket.Conn) wireEvent {
	t.Helper()

	require.NoError(t, conn.SetReadDeadline(time.Now().Add(2*time.Second)))

	var evt wireEvent
	require.NoError(t, conn.ReadJSON(&evt))
	return evt
}

func TestServeWS_JoinFlow(t *testing.T) {
	req := require.New(t)
	srv, store := newTestServer(t)

	roomID := store.Create(context.Background(), "general")
	conn := dial(t, srv)

	req.Equal(ws.Connected, readEvent(t, conn).Type)

	req.NoError(conn.WriteJSON(ws.Action{
		Type:        ws.ActionJoinRoom,
		RoomID:      roomID,
		DisplayName: "Alice",
	}))

	// The caller is in the room group, so it sees the group fan-out plus
	// its direct copies, in this exact order.
	wantTypes := []string{
		ws.UserJoined,
		ws.MessageReceived,
		ws.PresenceUpdated,
		ws.PresenceUpdated,
		ws.UserIDAssigned,
	}
	for _, want := range wantTypes {
		req.Equal(want, readEvent(t, conn).Type)
	}
}

func TestServeWS_JoinMissingRoom(t *testing.T) {
	req := require.New(t)
	srv, _ := newTestServer(t)

	conn := dial(t, srv)
	req.Equal(ws.Connected, readEvent(t, conn).Type)

	req.NoError(conn.WriteJSON(ws.Action{
		Type:        ws.ActionJoinRoom,
		RoomID:      "missing",
		DisplayName: "Alice",
	}))

	evt := readEvent(t, conn)
	req.Equal(ws.ErrorEvent, evt.Type)
}

func TestServeWS_UnknownAction(t *testing.T) {
	req := require.New(t)
	srv, _ := newTestServer(t)

	conn := dial(t, srv)
	req.Equal(ws.Connected, readEvent(t, conn).Type)

	req.NoError(conn.WriteJSON(ws.Action{Type: "bogus"}))

	evt := readEvent(t, conn)
	req.Equal(ws.ErrorEvent, evt.Type)
}

func TestServeWS_DisconnectCleansUp(t *testing.T) {
	req := require.New(t)
	srv, store := newTestServer(t)
	ctx := context.Background()

	roomID := store.Create(ctx, "general")
	conn := dial(t, srv)

	req.Equal(ws.Connected, readEvent(t, conn).Type)
	req.NoError(conn.WriteJSON(ws.Action{
		Type:        ws.ActionJoinRoom,
		RoomID:      roomID,
		DisplayName: "Alice",
	}))

	require.Eventually(t, func() bool {
		present, ok := store.Presence(ctx, roomID)
		return ok && len(present) == 1
	}, 2*time.Second, 10*time.Millisecond)

	req.NoError(conn.Close())

	require.Eventually(t, func() bool {
		present, ok := store.Presence(ctx, roomID)
		return ok && len(present) == 0
	}, 2*time.Second, 10*time.Millisecond)
}
