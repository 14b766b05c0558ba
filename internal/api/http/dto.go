package http

// JoinRoomRequest is the payload for joining a room over HTTP before
// attaching a websocket with the returned userId.
type JoinRoomRequest struct {
	Name        string `json:"name"`
	CharacterID string `json:"characterId"`
}

// JoinRoomResponse carries the created player's id and spawn placement.
type JoinRoomResponse struct {
	UserID    string `json:"userId"`
	RoomID    string `json:"roomId"`
	X         int    `json:"x"`
	Y         int    `json:"y"`
	Direction string `json:"direction"`
}
