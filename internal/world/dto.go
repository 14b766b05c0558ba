package world

import (
	"encoding/json"
	"sort"

	"poipoi/internal/catalog"
)

// PlayerDto is the client-facing projection of a Player.
type PlayerDto struct {
	ID              string              `json:"id"`
	Name            string              `json:"name"`
	CharacterID     string              `json:"characterId"`
	Position        catalog.Coordinates `json:"position"`
	Direction       catalog.Direction   `json:"direction"`
	RoomID          string              `json:"roomId"`
	IsSitting       bool                `json:"isSitting"`
	IsInactive      bool                `json:"isInactive"`
	BubblePosition  catalog.Direction   `json:"bubblePosition"`
	VoicePitch      float64             `json:"voicePitch"`
	LastRoomMessage string              `json:"lastRoomMessage"`
}

// StreamSlotDto is a tagged union: the inactive variant serializes with
// every field at its fixed rest value and a null userId, enforced here at
// marshal time rather than by convention.
type StreamSlotDto struct {
	IsActive  bool
	IsReady   bool
	WithSound bool
	WithVideo bool
	UserID    string
}

type activeSlotJSON struct {
	IsActive  bool   `json:"isActive"`
	IsReady   bool   `json:"isReady"`
	WithSound bool   `json:"withSound"`
	WithVideo bool   `json:"withVideo"`
	UserID    string `json:"userId"`
}

type inactiveSlotJSON struct {
	IsActive  bool    `json:"isActive"`
	IsReady   bool    `json:"isReady"`
	WithSound bool    `json:"withSound"`
	WithVideo bool    `json:"withVideo"`
	UserID    *string `json:"userId"`
}

func (s StreamSlotDto) MarshalJSON() ([]byte, error) {
	if !s.IsActive {
		return json.Marshal(inactiveSlotJSON{})
	}
	return json.Marshal(activeSlotJSON{
		IsActive:  true,
		IsReady:   s.IsReady,
		WithSound: s.WithSound,
		WithVideo: s.WithVideo,
		UserID:    s.UserID,
	})
}

func (s *StreamSlotDto) UnmarshalJSON(data []byte) error {
	var raw activeSlotJSON
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	if !raw.IsActive {
		*s = StreamSlotDto{}
		return nil
	}
	*s = StreamSlotDto{
		IsActive:  true,
		IsReady:   raw.IsReady,
		WithSound: raw.WithSound,
		WithVideo: raw.WithVideo,
		UserID:    raw.UserID,
	}
	return nil
}

// ChessboardStateDto projects the embedded game: position string, seat
// owners and side to move. The rules-engine instance itself never crosses
// the boundary.
type ChessboardStateDto struct {
	FENString   *string `json:"fenString"`
	WhiteUserID *string `json:"whiteUserId"`
	BlackUserID *string `json:"blackUserId"`
	Turn        *string `json:"turn"`
}

// RoomStateDto is the full deterministic snapshot sent to one subscriber.
type RoomStateDto struct {
	CurrentRoom    *catalog.RoomDefinition `json:"currentRoom"`
	ConnectedUsers []PlayerDto             `json:"connectedUsers"`
	Streams        []StreamSlotDto         `json:"streams"`
	Chessboard     ChessboardStateDto      `json:"chessboardState"`
}

// RoomListItemDto is one row of the area room list.
type RoomListItemDto struct {
	ID        string   `json:"id"`
	UserCount int      `json:"userCount"`
	Streamers []string `json:"streamers"`
}

// Snapshot produces a consistent point-in-time view of the room for the
// given viewer. Private streams belonging to other users are redacted to
// the inactive variant. Players are ordered by id so two snapshots of the
// same state are byte-identical.
func (r *Room) Snapshot(viewerID string) RoomStateDto {
	r.mu.Lock()
	players := make([]PlayerDto, 0, len(r.players))
	for _, p := range r.players {
		players = append(players, PlayerDto{
			ID:              p.ID,
			Name:            p.Name,
			CharacterID:     p.CharacterID,
			Position:        p.Position,
			Direction:       p.Direction,
			RoomID:          p.RoomID,
			IsSitting:       p.IsSitting,
			IsInactive:      p.IsInactive,
			BubblePosition:  p.BubblePosition,
			VoicePitch:      p.VoicePitch,
			LastRoomMessage: p.LastRoomMessage,
		})
	}
	streams := make([]StreamSlotDto, len(r.slots))
	for i := range r.slots {
		s := &r.slots[i]
		if s.phase == slotInactive {
			continue
		}
		if s.isPrivate && s.userID != viewerID {
			continue // render as inactive for everyone but the owner
		}
		streams[i] = StreamSlotDto{
			IsActive:  true,
			IsReady:   s.phase == slotReady,
			WithSound: s.withSound,
			WithVideo: s.withVideo,
			UserID:    s.userID,
		}
	}
	chessboard := r.chessboardDtoLocked()
	r.mu.Unlock()

	sort.Slice(players, func(i, j int) bool { return players[i].ID < players[j].ID })
	return RoomStateDto{
		CurrentRoom:    r.Def,
		ConnectedUsers: players,
		Streams:        streams,
		Chessboard:     chessboard,
	}
}

func (r *Room) chessboardDtoLocked() ChessboardStateDto {
	var dto ChessboardStateDto
	s := r.chess
	if s == nil {
		return dto
	}
	if s.whiteUserID != "" {
		dto.WhiteUserID = strptr(s.whiteUserID)
	}
	if s.blackUserID != "" {
		dto.BlackUserID = strptr(s.blackUserID)
	}
	if s.game != nil {
		dto.FENString = strptr(s.game.FEN())
		if !s.finished {
			dto.Turn = strptr(string(s.game.Turn()))
		}
	}
	return dto
}

func (r *Room) listItem() RoomListItemDto {
	r.mu.Lock()
	defer r.mu.Unlock()
	item := RoomListItemDto{
		ID:        r.Def.ID,
		UserCount: len(r.players),
		Streamers: []string{},
	}
	for i := range r.slots {
		s := &r.slots[i]
		if s.phase != slotReady || s.isPrivate {
			continue
		}
		if p, ok := r.players[s.userID]; ok {
			item.Streamers = append(item.Streamers, p.Name)
		}
	}
	sort.Strings(item.Streamers)
	return item
}

func strptr(s string) *string {
	return &s
}
