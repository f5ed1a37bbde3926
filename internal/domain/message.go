package domain

import (
	"time"

	"github.com/google/uuid"
)

// SystemUserID is the reserved author id for server-generated messages
// (join/leave notices). No real user is ever assigned this id.
const SystemUserID = "system"

// Message is immutable once created. It is owned by its room's bounded
// history after append and may be evicted, never deleted.
type Message struct {
	ID          string    `json:"id"`
	RoomID      string    `json:"roomId"`
	UserID      string    `json:"userId"`
	DisplayName string    `json:"displayName"`
	Text        string    `json:"text"`
	SentAt      time.Time `json:"sentAt"`
	System      bool      `json:"system"`
}

func NewMessage(roomID, userID, displayName, text string) *Message {
	return &Message{
		ID:          uuid.NewString(),
		RoomID:      roomID,
		UserID:      userID,
		DisplayName: displayName,
		Text:        text,
		SentAt:      time.Now(),
	}
}

func NewSystemMessage(roomID, text string) *Message {
	return &Message{
		ID:          uuid.NewString(),
		RoomID:      roomID,
		UserID:      SystemUserID,
		DisplayName: SystemUserID,
		Text:        text,
		SentAt:      time.Now(),
		System:      true,
	}
}
