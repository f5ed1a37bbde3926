package socket

import (
	"context"
	"net/http"
	"slices"

	"github.com/gorilla/websocket"
	"github.com/parlorchat/parlor/internal/infrastructure/configs"
	"github.com/parlorchat/parlor/internal/infrastructure/metrics"
	"github.com/parlorchat/parlor/internal/infrastructure/ws"
	"go.uber.org/zap"
)

// Handler upgrades HTTP requests into realtime connections and runs their
// pumps. Each upgrade gets a fresh connection id; a reconnecting client is
// a brand-new connection and must rejoin its room.
type Handler struct {
	core       *ws.Core
	groups     *ws.GroupManager
	upgrader   websocket.Upgrader
	sendBuffer int
	log        *zap.SugaredLogger
}

func NewHandler(
	core *ws.Core,
	groups *ws.GroupManager,
	wsCfg configs.WebSocketConfig,
	allowedOrigins []string,
	log *zap.SugaredLogger,
) *Handler {
	return &Handler{
		core:   core,
		groups: groups,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  wsCfg.ReadBufferSize,
			WriteBufferSize: wsCfg.WriteBufferSize,
			CheckOrigin:     originChecker(allowedOrigins),
		},
		sendBuffer: wsCfg.SendBuffer,
		log:        log,
	}
}

func (h *Handler) ServeWS(w http.ResponseWriter, r *http.Request) {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.log.Warnw("websocket upgrade failed", "remote", r.RemoteAddr, "error", err)
		return
	}

	client := ws.NewClient(conn, h.sendBuffer, h.log)

	h.groups.Add(client)
	metrics.ActiveConnections.Inc()
	h.log.Infow("connection opened", "connId", client.ID, "remote", r.RemoteAddr)

	client.Enqueue(ws.NewConnected())

	go client.WritePump()
	client.ReadPump(h.core)

	// The request context is already dead here; cleanup runs on its own.
	h.core.Disconnect(context.Background(), client.ID)
	h.groups.Remove(client.ID)

	metrics.ActiveConnections.Dec()
	h.log.Infow("connection closed", "connId", client.ID)
}

func originChecker(allowed []string) func(*http.Request) bool {
	if slices.Contains(allowed, "*") {
		return func(*http.Request) bool { return true }
	}
	return func(r *http.Request) bool {
		return slices.Contains(allowed, r.Header.Get("Origin"))
	}
}
