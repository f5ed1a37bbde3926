package repository

import (
	"context"
	"sync"

	"github.com/google/uuid"
	"github.com/parlorchat/parlor/internal/domain"
)

const defaultHistoryCapacity = 50

// roomState bundles one room's mutable state behind its own lock, so
// mutation is serialized per room and rooms never contend with each other.
type roomState struct {
	id   string
	name string

	mu           sync.RWMutex
	participants map[string]*domain.Participant // userID -> participant
	history      []domain.Message
}

type roomStore struct {
	rooms    sync.Map // roomID -> *roomState
	capacity int
}

// NewRoomStore builds the in-memory room store. capacity bounds each room's
// message history; zero picks the default of 50.
func NewRoomStore(capacity uint) domain.RoomStore {
	if capacity == 0 {
		capacity = defaultHistoryCapacity
	}
	return &roomStore{capacity: int(capacity)}
}

func (s *roomStore) load(roomID string) (*roomState, bool) {
	val, ok := s.rooms.Load(roomID)
	if !ok {
		return nil, false
	}
	return val.(*roomState), true
}

func (s *roomStore) Create(ctx context.Context, name string) string {
	room := &roomState{
		id:           uuid.NewString(),
		name:         name,
		participants: make(map[string]*domain.Participant),
		history:      make([]domain.Message, 0, s.capacity),
	}
	s.rooms.Store(room.id, room)
	return room.id
}

func (s *roomStore) List(ctx context.Context) []domain.RoomInfo {
	infos := make([]domain.RoomInfo, 0)
	s.rooms.Range(func(_, value any) bool {
		room := value.(*roomState)
		room.mu.RLock()
		count := len(room.participants)
		room.mu.RUnlock()
		infos = append(infos, domain.RoomInfo{
			ID:               room.id,
			Name:             room.name,
			ParticipantCount: count,
		})
		return true
	})
	return infos
}

func (s *roomStore) Delete(ctx context.Context, roomID string) bool {
	_, existed := s.rooms.LoadAndDelete(roomID)
	return existed
}

func (s *roomStore) Exists(ctx context.Context, roomID string) bool {
	_, ok := s.rooms.Load(roomID)
	return ok
}

func (s *roomStore) AddParticipant(ctx context.Context, roomID string, p *domain.Participant) bool {
	room, ok := s.load(roomID)
	if !ok {
		return false
	}

	room.mu.Lock()
	defer room.mu.Unlock()

	if _, exists := room.participants[p.UserID]; !exists {
		room.participants[p.UserID] = p
	}
	return true
}

func (s *roomStore) RemoveParticipant(ctx context.Context, roomID, userID string) bool {
	room, ok := s.load(roomID)
	if !ok {
		return false
	}

	room.mu.Lock()
	defer room.mu.Unlock()

	if _, exists := room.participants[userID]; !exists {
		return false
	}
	delete(room.participants, userID)
	return true
}

func (s *roomStore) SetTyping(ctx context.Context, roomID, userID string, typing bool) bool {
	room, ok := s.load(roomID)
	if !ok {
		return false
	}

	room.mu.Lock()
	defer room.mu.Unlock()

	p, exists := room.participants[userID]
	if !exists {
		return false
	}
	p.Typing = typing
	return true
}

func (s *roomStore) AppendMessage(ctx context.Context, msg *domain.Message) bool {
	room, ok := s.load(msg.RoomID)
	if !ok {
		return false
	}

	room.mu.Lock()
	defer room.mu.Unlock()

	room.history = append(room.history, *msg)
	if excess := len(room.history) - s.capacity; excess > 0 {
		// Compact in place so the backing array doesn't creep.
		room.history = append(room.history[:0], room.history[excess:]...)
	}
	return true
}

func (s *roomStore) History(ctx context.Context, roomID string) []domain.Message {
	room, ok := s.load(roomID)
	if !ok {
		return nil
	}

	room.mu.RLock()
	defer room.mu.RUnlock()

	cpy := make([]domain.Message, len(room.history))
	copy(cpy, room.history)
	return cpy
}

func (s *roomStore) Presence(ctx context.Context, roomID string) ([]domain.Participant, bool) {
	room, ok := s.load(roomID)
	if !ok {
		return nil, false
	}

	room.mu.RLock()
	defer room.mu.RUnlock()

	present := make([]domain.Participant, 0, len(room.participants))
	for _, p := range room.participants {
		present = append(present, *p)
	}
	return present, true
}
