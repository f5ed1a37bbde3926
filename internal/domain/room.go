package domain

import "context"

// RoomInfo is a point-in-time view of a room for listings. The participant
// count may be stale by the time the caller reads it.
type RoomInfo struct {
	ID               string `json:"id"`
	Name             string `json:"name"`
	ParticipantCount int    `json:"participantCount"`
}

// RoomStore holds every room's participant set and bounded message history.
// All operations are safe under unbounded concurrent callers. Mutation is
// serialized per room, never globally; rooms do not contend with each other.
type RoomStore interface {
	// Create allocates a fresh room id and initializes an empty room. It
	// never fails.
	Create(ctx context.Context, name string) string

	// List returns a snapshot of all rooms at call time.
	List(ctx context.Context) []RoomInfo

	// Delete removes the room and reports whether it existed. Participants
	// are not notified; that is the caller's problem.
	Delete(ctx context.Context, roomID string) bool

	Exists(ctx context.Context, roomID string) bool

	// AddParticipant is idempotent by user id. It reports false only when
	// the room is absent.
	AddParticipant(ctx context.Context, roomID string, p *Participant) bool

	// RemoveParticipant reports false when the room or participant is absent.
	RemoveParticipant(ctx context.Context, roomID, userID string) bool

	// SetTyping updates the participant's typing flag in place.
	SetTyping(ctx context.Context, roomID, userID string, typing bool) bool

	// AppendMessage appends to the room named by msg.RoomID and evicts the
	// oldest entry once the history exceeds capacity. Append and eviction
	// are one atomic unit per room.
	AppendMessage(ctx context.Context, msg *Message) bool

	// History returns a snapshot copy, oldest first. Nil if the room does
	// not exist.
	History(ctx context.Context, roomID string) []Message

	// Presence returns the live participant list, or false if the room does
	// not exist.
	Presence(ctx context.Context, roomID string) ([]Participant, bool)
}
