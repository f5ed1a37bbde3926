package ws

import (
	"time"

	"github.com/parlorchat/parlor/internal/domain"
	"github.com/samber/lo"
)

const (
	Connected = "connected"

	UserJoined      = "user.joined"
	UserLeft        = "user.left"
	UserIDAssigned  = "user.assigned"
	MessageReceived = "message.received"
	TypingUpdated   = "typing.updated"
	PresenceUpdated = "presence.updated"

	ErrorEvent = "error"
)

// Event is the outbound wire envelope.
type Event struct {
	Type   string `json:"type"`
	RoomID string `json:"roomId,omitempty"`
	Data   any    `json:"data,omitempty"`
}

// Payload structs
type ParticipantPayload struct {
	UserID      string `json:"userId"`
	DisplayName string `json:"displayName"`
	Typing      bool   `json:"typing"`
}

type MessagePayload struct {
	ID          string `json:"id"`
	UserID      string `json:"userId"`
	DisplayName string `json:"displayName"`
	Text        string `json:"text"`
	Timestamp   string `json:"timestamp"`
	System      bool   `json:"system,omitempty"`
}

type TypingPayload struct {
	UserID   string `json:"userId"`
	IsTyping bool   `json:"isTyping"`
}

type PresencePayload struct {
	Participants []ParticipantPayload `json:"participants"`
}

type AssignedPayload struct {
	UserID string `json:"userId"`
}

type ErrorPayload struct {
	Message string `json:"message"`
}

func NewConnected() *Event {
	return &Event{Type: Connected}
}

func NewUserJoined(roomID string, p domain.Participant) *Event {
	return &Event{
		Type:   UserJoined,
		RoomID: roomID,
		Data:   toParticipantPayload(p),
	}
}

func NewUserLeft(roomID, userID string) *Event {
	return &Event{
		Type:   UserLeft,
		RoomID: roomID,
		Data: ParticipantPayload{
			UserID: userID,
		},
	}
}

func NewUserIDAssigned(userID string) *Event {
	return &Event{
		Type: UserIDAssigned,
		Data: AssignedPayload{UserID: userID},
	}
}

func NewMessageReceived(msg *domain.Message) *Event {
	return &Event{
		Type:   MessageReceived,
		RoomID: msg.RoomID,
		Data: MessagePayload{
			ID:          msg.ID,
			UserID:      msg.UserID,
			DisplayName: msg.DisplayName,
			Text:        msg.Text,
			Timestamp:   msg.SentAt.Format(time.RFC3339),
			System:      msg.System,
		},
	}
}

func NewTypingUpdated(roomID, userID string, isTyping bool) *Event {
	return &Event{
		Type:   TypingUpdated,
		RoomID: roomID,
		Data: TypingPayload{
			UserID:   userID,
			IsTyping: isTyping,
		},
	}
}

func NewPresenceUpdated(roomID string, present []domain.Participant) *Event {
	return &Event{
		Type:   PresenceUpdated,
		RoomID: roomID,
		Data: PresencePayload{
			Participants: lo.Map(present, func(p domain.Participant, _ int) ParticipantPayload {
				return toParticipantPayload(p)
			}),
		},
	}
}

func NewError(roomID, message string) *Event {
	return &Event{
		Type:   ErrorEvent,
		RoomID: roomID,
		Data:   ErrorPayload{Message: message},
	}
}

func toParticipantPayload(p domain.Participant) ParticipantPayload {
	return ParticipantPayload{
		UserID:      p.UserID,
		DisplayName: p.DisplayName,
		Typing:      p.Typing,
	}
}
