package ws

import (
	"context"

	"github.com/parlorchat/parlor/internal/domain"
	"go.uber.org/zap"
)

// Core is the protocol state machine. Each connection moves Unbound ->
// InRoom -> Unbound; SendMessage and SetTyping are self-transitions on
// InRoom. Callers invoke one method per inbound action, in arrival order
// for that connection; different connections may run these concurrently.
//
// Multi-step transitions are best-effort: a failure partway through aborts
// the remaining steps and reports an error to the caller, but steps already
// applied are not rolled back.
type Core struct {
	store    domain.RoomStore
	registry domain.SessionRegistry
	groups   BroadcastGroup
	log      *zap.SugaredLogger
}

func NewCore(
	store domain.RoomStore,
	registry domain.SessionRegistry,
	groups BroadcastGroup,
	log *zap.SugaredLogger,
) *Core {
	return &Core{
		store:    store,
		registry: registry,
		groups:   groups,
		log:      log,
	}
}

// JoinRoom binds the connection to a fresh user identity in the room and
// announces it. Receivers see, in order: UserJoined, the system join
// message, PresenceUpdated; the caller additionally gets PresenceUpdated
// and UserIDAssigned directly. A stale session from the same connection is
// simply overwritten.
func (c *Core) JoinRoom(ctx context.Context, connID, roomID, displayName string) {
	if !c.store.Exists(ctx, roomID) {
		c.groups.Send(connID, NewError(roomID, "room not found"))
		return
	}

	p := domain.NewParticipant(displayName)

	c.registry.Bind(connID, p.UserID, displayName, roomID)
	c.groups.Join(roomID, connID)

	if !c.store.AddParticipant(ctx, roomID, p) {
		c.log.Errorw("join: room vanished before participant add",
			"connId", connID, "roomId", roomID, "userId", p.UserID)
		c.groups.Send(connID, NewError(roomID, "could not join room"))
		return
	}

	c.groups.Broadcast(roomID, NewUserJoined(roomID, *p))

	joined := domain.NewSystemMessage(roomID, displayName+" joined the room")
	if !c.store.AppendMessage(ctx, joined) {
		c.log.Errorw("join: could not append system message",
			"connId", connID, "roomId", roomID)
		c.groups.Send(connID, NewError(roomID, "could not join room"))
		return
	}
	c.groups.Broadcast(roomID, NewMessageReceived(joined))

	present, ok := c.store.Presence(ctx, roomID)
	if !ok {
		c.log.Errorw("join: room vanished before presence snapshot",
			"connId", connID, "roomId", roomID)
		c.groups.Send(connID, NewError(roomID, "could not join room"))
		return
	}
	presence := NewPresenceUpdated(roomID, present)
	c.groups.Broadcast(roomID, presence)
	// Group delivery may race with the caller's registration, so the caller
	// gets the snapshot directly as well.
	c.groups.Send(connID, presence)

	c.groups.Send(connID, NewUserIDAssigned(p.UserID))

	c.log.Infow("user joined room",
		"connId", connID, "roomId", roomID, "userId", p.UserID, "displayName", displayName)
}

// LeaveRoom is a no-op unless the connection holds a session for exactly
// this room.
func (c *Core) LeaveRoom(ctx context.Context, connID, roomID string) {
	sess, ok := c.registry.Lookup(connID)
	if !ok || sess.RoomID != roomID {
		return
	}

	// Re-fetch through Unbind: a concurrent disconnect may have gotten
	// here first, in which case cleanup already ran.
	sess, ok = c.registry.Unbind(connID)
	if !ok {
		return
	}

	c.removeUserFromRoom(ctx, sess)
}

// SendMessage appends the message to the room history and fans it out, then
// force-clears the sender's typing flag regardless of its prior value.
func (c *Core) SendMessage(ctx context.Context, connID, roomID, text string) {
	sess, ok := c.registry.Lookup(connID)
	if !ok || sess.RoomID != roomID {
		c.groups.Send(connID, NewError(roomID, "not a participant of this room"))
		return
	}

	msg := domain.NewMessage(roomID, sess.UserID, sess.DisplayName, text)
	if !c.store.AppendMessage(ctx, msg) {
		c.log.Errorw("send: room vanished before append",
			"connId", connID, "roomId", roomID, "userId", sess.UserID)
		c.groups.Send(connID, NewError(roomID, "could not send message"))
		return
	}
	c.groups.Broadcast(roomID, NewMessageReceived(msg))

	if c.store.SetTyping(ctx, roomID, sess.UserID, false) {
		c.groups.Broadcast(roomID, NewTypingUpdated(roomID, sess.UserID, false))
	}
}

// SetTyping silently no-ops when the connection has no session for the
// room; no error event is emitted.
func (c *Core) SetTyping(ctx context.Context, connID, roomID string, isTyping bool) {
	sess, ok := c.registry.Lookup(connID)
	if !ok || sess.RoomID != roomID {
		return
	}

	if c.store.SetTyping(ctx, roomID, sess.UserID, isTyping) {
		c.groups.Broadcast(roomID, NewTypingUpdated(roomID, sess.UserID, isTyping))
	}
}

// Disconnect runs the removal sequence for a connection closed by the
// transport. Unbind fires at most once per connection id, so duplicate
// disconnect signals resolve to a single cleanup cycle. Failures here are
// logged only; there is no caller left to report to.
func (c *Core) Disconnect(ctx context.Context, connID string) {
	sess, ok := c.registry.Unbind(connID)
	if !ok {
		return
	}

	c.removeUserFromRoom(ctx, sess)
}

// removeUserFromRoom is the shared tail of LeaveRoom and Disconnect.
// Receivers see, in order: the system leave message, UserLeft,
// PresenceUpdated. The leaver is out of the group before any of them fire.
func (c *Core) removeUserFromRoom(ctx context.Context, sess *domain.Session) {
	c.groups.Leave(sess.RoomID, sess.ConnID)

	if !c.store.RemoveParticipant(ctx, sess.RoomID, sess.UserID) {
		c.log.Warnw("leave: participant already gone",
			"roomId", sess.RoomID, "userId", sess.UserID)
	}

	left := domain.NewSystemMessage(sess.RoomID, sess.DisplayName+" left the room")
	if c.store.AppendMessage(ctx, left) {
		c.groups.Broadcast(sess.RoomID, NewMessageReceived(left))
	}

	c.groups.Broadcast(sess.RoomID, NewUserLeft(sess.RoomID, sess.UserID))

	if present, ok := c.store.Presence(ctx, sess.RoomID); ok {
		c.groups.Broadcast(sess.RoomID, NewPresenceUpdated(sess.RoomID, present))
	}

	c.log.Infow("user left room",
		"connId", sess.ConnID, "roomId", sess.RoomID, "userId", sess.UserID)
}
