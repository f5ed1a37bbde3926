package ws

// BroadcastGroup is the delivery capability the protocol core consumes: fan
// an event out to every connection in a room, or push it to one connection.
// Delivery is best-effort; a slow client may drop events but never blocks
// the caller.
type BroadcastGroup interface {
	// Join associates the connection with the room's group.
	Join(roomID, connID string)

	// Leave removes the connection from the room's group.
	Leave(roomID, connID string)

	// Broadcast delivers to every connection currently in the room group,
	// including the sender if it is a member.
	Broadcast(roomID string, evt *Event)

	// Send delivers to a single connection.
	Send(connID string, evt *Event)
}
