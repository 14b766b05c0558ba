package world

import "poipoi/internal/catalog"

// MoveKind discriminates the three possible results of a movement attempt.
type MoveKind int

const (
	// MoveApplied is a plain step onto an open tile.
	MoveApplied MoveKind = iota
	// MoveBlocked means geometry rejected the step. Not an error: the
	// player may still turn in place depending on policy.
	MoveBlocked
	// MoveDoor means the step landed on a live door tile; the registry
	// migrates the player instead of applying a plain move.
	MoveDoor
)

// MoveOutcome is the decision of the movement validator plus, once applied,
// the player's resulting position and facing.
type MoveOutcome struct {
	Kind      MoveKind
	Position  catalog.Coordinates
	Direction catalog.Direction
	IsSitting bool

	// Door traversal only.
	DoorID string
	Target catalog.DoorTarget
}

// validateMove decides what stepping from "from" towards dir does in the
// given room. Pure: no state is touched. Other players never block a tile,
// avatars are allowed to overlap.
func validateMove(def *catalog.RoomDefinition, from catalog.Coordinates, dir catalog.Direction) MoveOutcome {
	dx, dy := dir.Vector()
	to := catalog.Coordinates{X: from.X + dx, Y: from.Y + dy}

	if !def.InBounds(to) || def.IsBlocked(to) || def.IsForbidden(from, to) {
		return MoveOutcome{Kind: MoveBlocked, Position: from, Direction: dir}
	}

	if doorID, ok := def.DoorAt(to); ok {
		door := def.Doors[doorID]
		if door.Target != nil {
			return MoveOutcome{
				Kind:      MoveDoor,
				Position:  from,
				Direction: dir,
				DoorID:    doorID,
				Target:    *door.Target,
			}
		}
	}

	return MoveOutcome{
		Kind:      MoveApplied,
		Position:  to,
		Direction: dir,
		IsSitting: def.IsSittable(to),
	}
}

// doorLanding picks the tile a player arriving through the given door lands
// on: the tile adjacent to the door in its facing direction, or the door
// tile itself when that is not walkable.
func doorLanding(def *catalog.RoomDefinition, door catalog.Door) (catalog.Coordinates, catalog.Direction) {
	dir := door.Direction
	if !dir.Valid() {
		dir = catalog.Down
	}
	dx, dy := dir.Vector()
	landing := catalog.Coordinates{X: door.Position.X + dx, Y: door.Position.Y + dy}
	if !def.InBounds(landing) || def.IsBlocked(landing) {
		landing = door.Position
	}
	return landing, dir
}
