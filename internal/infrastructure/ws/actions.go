package ws

const (
	ActionJoinRoom    = "room.join"
	ActionLeaveRoom   = "room.leave"
	ActionSendMessage = "message.send"
	ActionSetTyping   = "typing.set"
)

// Action is the inbound wire envelope. Fields beyond Type and RoomID are
// action-specific and ignored elsewhere.
type Action struct {
	Type        string `json:"type"`
	RoomID      string `json:"roomId"`
	DisplayName string `json:"displayName,omitempty"`
	Text        string `json:"text,omitempty"`
	IsTyping    bool   `json:"isTyping,omitempty"`
}
