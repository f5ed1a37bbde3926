package repository

import (
	"context"
	"fmt"
	"sync"
	"testing"

	"github.com/parlorchat/parlor/internal/domain"
	"github.com/stretchr/testify/require"
)

func TestRoomStore_CreateAndList(t *testing.T) {
	req := require.New(t)
	ctx := context.Background()
	store := NewRoomStore(0)

	id := store.Create(ctx, "general")
	req.NotEmpty(id)
	req.True(store.Exists(ctx, id))

	other := store.Create(ctx, "random")
	req.NotEqual(id, other)

	infos := store.List(ctx)
	req.Len(infos, 2)

	names := map[string]string{}
	for _, info := range infos {
		names[info.ID] = info.Name
		req.Zero(info.ParticipantCount)
	}
	req.Equal("general", names[id])
	req.Equal("random", names[other])
}

func TestRoomStore_Delete(t *testing.T) {
	req := require.New(t)
	ctx := context.Background()
	store := NewRoomStore(0)

	id := store.Create(ctx, "doomed")
	req.True(store.Delete(ctx, id))
	req.False(store.Exists(ctx, id))
	req.False(store.Delete(ctx, id))
	req.False(store.Delete(ctx, "never-existed"))
}

func TestRoomStore_AddParticipant(t *testing.T) {
	req := require.New(t)
	ctx := context.Background()
	store := NewRoomStore(0)

	id := store.Create(ctx, "general")
	alice := domain.NewParticipant("Alice")

	req.True(store.AddParticipant(ctx, id, alice))
	// Idempotent by user id
	req.True(store.AddParticipant(ctx, id, alice))

	present, ok := store.Presence(ctx, id)
	req.True(ok)
	req.Len(present, 1)
	req.Equal(alice.UserID, present[0].UserID)

	req.False(store.AddParticipant(ctx, "missing", alice))
}

func TestRoomStore_RemoveParticipant(t *testing.T) {
	req := require.New(t)
	ctx := context.Background()
	store := NewRoomStore(0)

	id := store.Create(ctx, "general")
	alice := domain.NewParticipant("Alice")
	req.True(store.AddParticipant(ctx, id, alice))

	req.True(store.RemoveParticipant(ctx, id, alice.UserID))
	req.False(store.RemoveParticipant(ctx, id, alice.UserID))
	req.False(store.RemoveParticipant(ctx, "missing", alice.UserID))

	present, ok := store.Presence(ctx, id)
	req.True(ok)
	req.Empty(present)
}

func TestRoomStore_SetTyping(t *testing.T) {
	req := require.New(t)
	ctx := context.Background()
	store := NewRoomStore(0)

	id := store.Create(ctx, "general")
	alice := domain.NewParticipant("Alice")
	req.True(store.AddParticipant(ctx, id, alice))

	req.True(store.SetTyping(ctx, id, alice.UserID, true))

	present, ok := store.Presence(ctx, id)
	req.True(ok)
	req.True(present[0].Typing)

	req.True(store.SetTyping(ctx, id, alice.UserID, false))
	present, _ = store.Presence(ctx, id)
	req.False(present[0].Typing)

	req.False(store.SetTyping(ctx, id, "nobody", true))
	req.False(store.SetTyping(ctx, "missing", alice.UserID, true))
}

func TestRoomStore_PresenceMissingRoom(t *testing.T) {
	req := require.New(t)
	store := NewRoomStore(0)

	present, ok := store.Presence(context.Background(), "missing")
	req.False(ok)
	req.Nil(present)
}

func TestRoomStore_AppendEvictsOldest(t *testing.T) {
	req := require.New(t)
	ctx := context.Background()
	store := NewRoomStore(50)

	id := store.Create(ctx, "general")

	for i := 1; i <= 60; i++ {
		msg := domain.NewMessage(id, "u1", "Alice", fmt.Sprintf("msg-%d", i))
		req.True(store.AppendMessage(ctx, msg))
	}

	history := store.History(ctx, id)
	req.Len(history, 50)
	req.Equal("msg-11", history[0].Text)
	req.Equal("msg-60", history[49].Text)
}

func TestRoomStore_HistoryBelowCapacity(t *testing.T) {
	req := require.New(t)
	ctx := context.Background()
	store := NewRoomStore(50)

	id := store.Create(ctx, "general")
	for i := 1; i <= 3; i++ {
		req.True(store.AppendMessage(ctx, domain.NewMessage(id, "u1", "Alice", fmt.Sprintf("msg-%d", i))))
	}

	history := store.History(ctx, id)
	req.Len(history, 3)
	req.Equal("msg-1", history[0].Text)
	req.Equal("msg-3", history[2].Text)
}

func TestRoomStore_AppendMissingRoom(t *testing.T) {
	req := require.New(t)
	store := NewRoomStore(0)

	msg := domain.NewMessage("missing", "u1", "Alice", "hello")
	req.False(store.AppendMessage(context.Background(), msg))
	req.Nil(store.History(context.Background(), "missing"))
}

func TestRoomStore_ConcurrentAppendsRespectCap(t *testing.T) {
	req := require.New(t)
	ctx := context.Background()
	store := NewRoomStore(50)

	id := store.Create(ctx, "busy")

	var wg sync.WaitGroup
	for g := 0; g < 20; g++ {
		wg.Add(1)
		go func(g int) {
			defer wg.Done()
			for i := 0; i < 25; i++ {
				msg := domain.NewMessage(id, "u1", "Alice", fmt.Sprintf("g%d-%d", g, i))
				store.AppendMessage(ctx, msg)
			}
		}(g)
	}
	wg.Wait()

	req.Len(store.History(ctx, id), 50)
}

func TestRoomStore_ConcurrentJoinsKeepEveryone(t *testing.T) {
	req := require.New(t)
	ctx := context.Background()
	store := NewRoomStore(0)

	id := store.Create(ctx, "crowded")

	const joiners = 32
	var wg sync.WaitGroup
	for i := 0; i < joiners; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			p := domain.NewParticipant(fmt.Sprintf("user-%d", i))
			store.AddParticipant(ctx, id, p)
		}(i)
	}
	wg.Wait()

	present, ok := store.Presence(ctx, id)
	req.True(ok)
	req.Len(present, joiners)
}

func TestRoomStore_HistoryIsASnapshot(t *testing.T) {
	req := require.New(t)
	ctx := context.Background()
	store := NewRoomStore(0)

	id := store.Create(ctx, "general")
	req.True(store.AppendMessage(ctx, domain.NewMessage(id, "u1", "Alice", "first")))

	snapshot := store.History(ctx, id)
	req.True(store.AppendMessage(ctx, domain.NewMessage(id, "u1", "Alice", "second")))

	req.Len(snapshot, 1)
	req.Len(store.History(ctx, id), 2)
}
