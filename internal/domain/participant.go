package domain

import "github.com/google/uuid"

// Participant is a member of a single room. The user id is assigned by the
// server at join time; the display name is whatever the client sent.
type Participant struct {
	UserID      string `json:"userId"`
	DisplayName string `json:"displayName"`
	Typing      bool   `json:"typing"`
}

func NewParticipant(displayName string) *Participant {
	return &Participant{
		UserID:      uuid.NewString(),
		DisplayName: displayName,
	}
}
