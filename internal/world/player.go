package world

import "poipoi/internal/catalog"

// Player is one connected user. A player belongs to exactly one room at a
// time; room migration is an atomic remove-from-old/add-to-new inside the
// registry.
type Player struct {
	ID              string
	Name            string
	CharacterID     string
	Position        catalog.Coordinates
	Direction       catalog.Direction
	RoomID          string
	IsSitting       bool
	IsInactive      bool
	BubblePosition  catalog.Direction
	VoicePitch      float64
	LastRoomMessage string
}

// NewPlayer returns a player positioned at the room's spawn door (or the
// origin when the spawn point is missing).
func NewPlayer(id, name, characterID string, def *catalog.RoomDefinition) *Player {
	p := &Player{
		ID:             id,
		Name:           name,
		CharacterID:    characterID,
		Direction:      catalog.Down,
		RoomID:         def.ID,
		BubblePosition: catalog.Up,
		VoicePitch:     1,
	}
	if door, ok := def.SpawnDoor(); ok {
		p.Position = door.Position
		if door.Direction.Valid() {
			p.Direction = door.Direction
		}
	}
	p.IsSitting = def.IsSittable(p.Position)
	return p
}
