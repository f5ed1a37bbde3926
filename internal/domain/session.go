package domain

// Session is the ephemeral binding of one active connection to a user
// identity and the room it currently occupies. A connection maps to at most
// one session at a time, and the session's room must hold the user as a
// participant; every protocol transition keeps the two in lockstep.
type Session struct {
	ConnID      string
	UserID      string
	DisplayName string
	RoomID      string
}

// SessionRegistry maps connection ids to sessions for the lifetime of the
// server process.
type SessionRegistry interface {
	Bind(connID, userID, displayName, roomID string)

	Lookup(connID string) (*Session, bool)

	// Unbind atomically removes and returns the session. For a given
	// connection id it is observed populated at most once, which makes
	// duplicate disconnect-triggered cleanup a no-op.
	Unbind(connID string) (*Session, bool)
}
