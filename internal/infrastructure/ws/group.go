package ws

import (
	"sync"

	"github.com/parlorchat/parlor/internal/infrastructure/metrics"
	"go.uber.org/zap"
)

// GroupManager tracks live clients and the room group each one currently
// belongs to. It implements BroadcastGroup for the protocol core.
type GroupManager struct {
	mu      sync.RWMutex
	clients map[string]*Client            // connID -> client
	rooms   map[string]map[string]*Client // roomID -> connID -> client

	log *zap.SugaredLogger
}

func NewGroupManager(log *zap.SugaredLogger) *GroupManager {
	return &GroupManager{
		clients: make(map[string]*Client),
		rooms:   make(map[string]map[string]*Client),
		log:     log,
	}
}

// Add registers a freshly upgraded connection.
func (g *GroupManager) Add(cl *Client) {
	g.mu.Lock()
	defer g.mu.Unlock()

	g.clients[cl.ID] = cl
}

// Remove drops the connection entirely and closes its send channel, ending
// the write pump. Safe to call once per connection, after protocol cleanup.
func (g *GroupManager) Remove(connID string) {
	g.mu.Lock()
	defer g.mu.Unlock()

	cl, ok := g.clients[connID]
	if !ok {
		return
	}
	delete(g.clients, connID)

	for roomID, group := range g.rooms {
		if _, in := group[connID]; in {
			delete(group, connID)
			if len(group) == 0 {
				delete(g.rooms, roomID)
			}
		}
	}

	close(cl.send)
}

func (g *GroupManager) Join(roomID, connID string) {
	g.mu.Lock()
	defer g.mu.Unlock()

	cl, ok := g.clients[connID]
	if !ok {
		return
	}

	group, ok := g.rooms[roomID]
	if !ok {
		group = make(map[string]*Client)
		g.rooms[roomID] = group
	}
	group[connID] = cl
}

func (g *GroupManager) Leave(roomID, connID string) {
	g.mu.Lock()
	defer g.mu.Unlock()

	group, ok := g.rooms[roomID]
	if !ok {
		return
	}
	delete(group, connID)
	if len(group) == 0 {
		delete(g.rooms, roomID)
	}
}

func (g *GroupManager) Broadcast(roomID string, evt *Event) {
	g.mu.RLock()
	defer g.mu.RUnlock()

	for _, cl := range g.rooms[roomID] {
		if cl.Enqueue(evt) {
			metrics.EventsBroadcast.Inc()
		} else {
			// Client is too slow, drop the event
			metrics.EventsDropped.Inc()
			g.log.Warnw("client buffer full, dropping event",
				"connId", cl.ID, "roomId", roomID, "type", evt.Type)
		}
	}
}

func (g *GroupManager) Send(connID string, evt *Event) {
	g.mu.RLock()
	cl, ok := g.clients[connID]
	g.mu.RUnlock()
	if !ok {
		return
	}

	if !cl.Enqueue(evt) {
		metrics.EventsDropped.Inc()
		g.log.Warnw("client buffer full, dropping event",
			"connId", connID, "type", evt.Type)
	}
}
