package rooms

type createRoomRequest struct {
	Name string `json:"name" validate:"required,min=1,max=64"`
}

type createRoomResponse struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

type roomResponse struct {
	ID               string `json:"id"`
	Name             string `json:"name"`
	ParticipantCount int    `json:"participantCount"`
}

type messageResponse struct {
	ID          string `json:"id"`
	UserID      string `json:"userId"`
	DisplayName string `json:"displayName"`
	Text        string `json:"text"`
	SentAt      string `json:"sentAt"`
	System      bool   `json:"system,omitempty"`
}

type participantResponse struct {
	UserID      string `json:"userId"`
	DisplayName string `json:"displayName"`
	Typing      bool   `json:"typing"`
}
