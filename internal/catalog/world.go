package catalog

// BuiltinAreas are the two mirrored sides of the default world.
var BuiltinAreas = []string{"for", "gen"}

// Builtin returns the default world catalog. Geometry is defined inline the
// same way a deployment-specific catalog file would lay it out.
func Builtin() (*Catalog, error) {
	return New(BuiltinAreas, builtinRooms())
}

func builtinRooms() []*RoomDefinition {
	return []*RoomDefinition{
		{
			ID:           "lobby",
			Scale:        1,
			Size:         Coordinates{X: 9, Y: 9},
			OriginOffset: Coordinates{X: 0, Y: 0},
			SpawnPoint:   "street",
			Blocked: []Coordinates{
				{X: 3, Y: 3}, {X: 4, Y: 3}, {X: 5, Y: 3},
				{X: 0, Y: 8}, {X: 8, Y: 8},
			},
			Sit: []Coordinates{
				{X: 1, Y: 1}, {X: 2, Y: 1}, {X: 6, Y: 6},
			},
			ForbiddenMovements: []ForbiddenMovement{
				// no cutting the counter corner
				{From: Coordinates{X: 2, Y: 4}, To: Coordinates{X: 2, Y: 3}},
				{From: Coordinates{X: 6, Y: 4}, To: Coordinates{X: 6, Y: 3}},
			},
			Doors: map[string]Door{
				"street": {
					Position:  Coordinates{X: 0, Y: 0},
					Direction: Up,
				},
				"bar": {
					Position:  Coordinates{X: 8, Y: 4},
					Direction: Right,
					Target:    &DoorTarget{RoomID: "bar", DoorID: "lobby"},
				},
				"cafe": {
					Position:  Coordinates{X: 4, Y: 8},
					Direction: Up,
					Target:    &DoorTarget{RoomID: "cafe", DoorID: "lobby"},
				},
			},
			WorldSpawns: []WorldSpawn{
				{Position: Coordinates{X: 4, Y: 0}, Direction: Up},
			},
			StreamSlotCount: 2,
		},
		{
			ID:           "bar",
			Scale:        1,
			Size:         Coordinates{X: 7, Y: 6},
			OriginOffset: Coordinates{X: 0, Y: 0},
			SpawnPoint:   "lobby",
			Blocked: []Coordinates{
				{X: 2, Y: 2}, {X: 3, Y: 2}, {X: 4, Y: 2},
			},
			Sit: []Coordinates{
				{X: 2, Y: 3}, {X: 3, Y: 3}, {X: 4, Y: 3},
			},
			Doors: map[string]Door{
				"lobby": {
					Position:  Coordinates{X: 0, Y: 3},
					Direction: Left,
					Target:    &DoorTarget{RoomID: "lobby", DoorID: "bar"},
				},
			},
			StreamSlotCount: 3,
			HasChessboard:   true,
		},
		{
			ID:           "cafe",
			Scale:        1,
			Size:         Coordinates{X: 6, Y: 6},
			OriginOffset: Coordinates{X: 0, Y: 0},
			SpawnPoint:   "lobby",
			Blocked: []Coordinates{
				{X: 5, Y: 5},
			},
			Sit: []Coordinates{
				{X: 1, Y: 4}, {X: 4, Y: 1},
			},
			Doors: map[string]Door{
				"lobby": {
					Position:  Coordinates{X: 4, Y: 0},
					Direction: Down,
					Target:    &DoorTarget{RoomID: "lobby", DoorID: "cafe"},
				},
				"backroom": {
					Position:  Coordinates{X: 0, Y: 5},
					Direction: Left,
					Target:    &DoorTarget{RoomID: "backroom", DoorID: "cafe"},
				},
			},
			StreamSlotCount:  1,
			NeedsFixedCamera: true,
		},
		{
			ID:           "backroom",
			Scale:        1,
			Size:         Coordinates{X: 4, Y: 4},
			OriginOffset: Coordinates{X: 0, Y: 0},
			SpawnPoint:   "cafe",
			Doors: map[string]Door{
				"cafe": {
					Position:  Coordinates{X: 3, Y: 3},
					Direction: Right,
					Target:    &DoorTarget{RoomID: "cafe", DoorID: "backroom"},
				},
			},
			StreamSlotCount: 0,
			MaxOccupancy:    4,
			Secret:          true,
			ForcedAnonymous: true,
		},
	}
}
