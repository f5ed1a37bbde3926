package repository

import (
	"sync"

	"github.com/parlorchat/parlor/internal/domain"
)

// connectionRegistry maps connection ids to live sessions. Sessions are
// stored as immutable values; Bind replaces, never mutates.
type connectionRegistry struct {
	sessions sync.Map // connID -> *domain.Session
}

func NewConnectionRegistry() domain.SessionRegistry {
	return &connectionRegistry{}
}

func (r *connectionRegistry) Bind(connID, userID, displayName, roomID string) {
	r.sessions.Store(connID, &domain.Session{
		ConnID:      connID,
		UserID:      userID,
		DisplayName: displayName,
		RoomID:      roomID,
	})
}

func (r *connectionRegistry) Lookup(connID string) (*domain.Session, bool) {
	val, ok := r.sessions.Load(connID)
	if !ok {
		return nil, false
	}
	return val.(*domain.Session), true
}

// Unbind removes and returns atomically, so concurrent disconnect signals
// for the same connection resolve to exactly one populated result.
func (r *connectionRegistry) Unbind(connID string) (*domain.Session, bool) {
	val, ok := r.sessions.LoadAndDelete(connID)
	if !ok {
		return nil, false
	}
	return val.(*domain.Session), true
}
