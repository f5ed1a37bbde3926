package ws

import (
	"context"
	"encoding/json"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"
)

// Client wraps one websocket connection. The write pump is the only writer
// on the socket, so no write lock is needed; everything outbound goes
// through the buffered send channel.
type Client struct {
	ID string

	conn *websocket.Conn
	send chan *Event
	log  *zap.SugaredLogger
}

func NewClient(conn *websocket.Conn, sendBuffer int, log *zap.SugaredLogger) *Client {
	if sendBuffer <= 0 {
		sendBuffer = 64
	}
	return &Client{
		ID:   uuid.NewString(),
		conn: conn,
		send: make(chan *Event, sendBuffer),
		log:  log,
	}
}

// Enqueue offers an event to the write pump without blocking. It reports
// false when the buffer is full and the event was dropped.
func (c *Client) Enqueue(evt *Event) bool {
	select {
	case c.send <- evt:
		return true
	default:
		return false
	}
}

// ReadPump decodes inbound actions and feeds them to the core one at a
// time, which gives each connection in-order processing. It returns when
// the socket dies; the caller then runs disconnect cleanup exactly once.
func (c *Client) ReadPump(core *Core) {
	for {
		_, raw, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure, websocket.CloseAbnormalClosure) {
				c.log.Warnw("ws read error", "connId", c.ID, "error", err)
			}
			return
		}

		var act Action
		if err := json.Unmarshal(raw, &act); err != nil {
			c.Enqueue(NewError("", "malformed action"))
			continue
		}

		c.dispatch(core, act)
	}
}

func (c *Client) dispatch(core *Core, act Action) {
	ctx := context.Background()

	switch act.Type {
	case ActionJoinRoom:
		core.JoinRoom(ctx, c.ID, act.RoomID, act.DisplayName)
	case ActionLeaveRoom:
		core.LeaveRoom(ctx, c.ID, act.RoomID)
	case ActionSendMessage:
		core.SendMessage(ctx, c.ID, act.RoomID, act.Text)
	case ActionSetTyping:
		core.SetTyping(ctx, c.ID, act.RoomID, act.IsTyping)
	default:
		c.Enqueue(NewError(act.RoomID, "unknown action type: "+act.Type))
	}
}

// WritePump drains the send channel onto the socket until the channel is
// closed or a write fails.
func (c *Client) WritePump() {
	defer func() {
		_ = c.conn.Close()
	}()

	for evt := range c.send {
		if err := c.conn.WriteJSON(evt); err != nil {
			c.log.Warnw("ws write error", "connId", c.ID, "error", err)
			return
		}
	}
}
