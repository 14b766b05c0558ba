package catalog

import (
	"encoding/json"
	"fmt"
	"os"
)

// Direction is a cardinal facing / movement direction on the tile grid.
type Direction string

const (
	Up    Direction = "up"
	Down  Direction = "down"
	Left  Direction = "left"
	Right Direction = "right"
)

// Vector returns the unit tile offset for the direction. The grid origin
// is the top-left corner: up decreases y.
func (d Direction) Vector() (dx, dy int) {
	switch d {
	case Up:
		return 0, -1
	case Down:
		return 0, 1
	case Left:
		return -1, 0
	case Right:
		return 1, 0
	}
	return 0, 0
}

// Opposite returns the reverse direction; useful when placing a player who
// just stepped out of a door.
func (d Direction) Opposite() Direction {
	switch d {
	case Up:
		return Down
	case Down:
		return Up
	case Left:
		return Right
	case Right:
		return Left
	}
	return d
}

// Valid reports whether d is one of the four cardinal directions.
func (d Direction) Valid() bool {
	switch d {
	case Up, Down, Left, Right:
		return true
	}
	return false
}

type Coordinates struct {
	X int `json:"x"`
	Y int `json:"y"`
}

// Door teleports a player entering its tile to another room's door.
type Door struct {
	Position  Coordinates `json:"position"`
	Direction Direction   `json:"direction"`
	Target    *DoorTarget `json:"target,omitempty"`
}

// DoorTarget names the room and door a traversal lands on. A nil target
// makes the door decorative (the tile behaves like a plain walkable tile).
type DoorTarget struct {
	RoomID string `json:"roomId"`
	DoorID string `json:"doorId"`
}

// WorldSpawn is an inter-area teleport landing point.
type WorldSpawn struct {
	Position  Coordinates `json:"position"`
	Direction Direction   `json:"direction"`
}

// ForbiddenMovement disallows one specific from->to transition even when
// both tiles are open. Used to stop diagonal corner cutting and to build
// one-way passages.
type ForbiddenMovement struct {
	From Coordinates `json:"from"`
	To   Coordinates `json:"to"`
}

// RoomDefinition is the immutable geometry of one room. Loaded once and
// shared read-only between areas; safe for unsynchronized concurrent reads.
type RoomDefinition struct {
	ID                 string              `json:"id"`
	Scale              float64             `json:"scale"`
	Size               Coordinates         `json:"size"`
	OriginOffset       Coordinates         `json:"originOffset"`
	SpawnPoint         string              `json:"spawnPoint"`
	Blocked            []Coordinates       `json:"blocked"`
	Sit                []Coordinates       `json:"sit"`
	ForbiddenMovements []ForbiddenMovement `json:"forbiddenMovements"`
	Doors              map[string]Door     `json:"doors"`
	WorldSpawns        []WorldSpawn        `json:"worldSpawns,omitempty"`
	StreamSlotCount    int                 `json:"streamSlotCount"`
	MaxOccupancy       int                 `json:"maxOccupancy,omitempty"` // 0 means unlimited
	NeedsFixedCamera   bool                `json:"needsFixedCamera,omitempty"`
	ForcedAnonymous    bool                `json:"forcedAnonymous,omitempty"`
	Secret             bool                `json:"secret,omitempty"`
	HasChessboard      bool                `json:"hasChessboard,omitempty"`

	blockedSet   map[Coordinates]struct{}
	sitSet       map[Coordinates]struct{}
	forbiddenSet map[ForbiddenMovement]struct{}
	doorByTile   map[Coordinates]string
}

// index builds the lookup sets the movement validator scans on every step.
func (d *RoomDefinition) index() {
	d.blockedSet = make(map[Coordinates]struct{}, len(d.Blocked))
	for _, c := range d.Blocked {
		d.blockedSet[c] = struct{}{}
	}
	d.sitSet = make(map[Coordinates]struct{}, len(d.Sit))
	for _, c := range d.Sit {
		d.sitSet[c] = struct{}{}
	}
	d.forbiddenSet = make(map[ForbiddenMovement]struct{}, len(d.ForbiddenMovements))
	for _, f := range d.ForbiddenMovements {
		d.forbiddenSet[f] = struct{}{}
	}
	d.doorByTile = make(map[Coordinates]string, len(d.Doors))
	for id, door := range d.Doors {
		d.doorByTile[door.Position] = id
	}
}

// InBounds reports whether c lies inside the room grid.
func (d *RoomDefinition) InBounds(c Coordinates) bool {
	return c.X >= 0 && c.Y >= 0 && c.X < d.Size.X && c.Y < d.Size.Y
}

// IsBlocked reports whether the tile is in the blocked set.
func (d *RoomDefinition) IsBlocked(c Coordinates) bool {
	_, ok := d.blockedSet[c]
	return ok
}

// IsSittable reports whether the tile is in the sit set.
func (d *RoomDefinition) IsSittable(c Coordinates) bool {
	_, ok := d.sitSet[c]
	return ok
}

// IsForbidden reports whether the specific from->to transition is disallowed.
func (d *RoomDefinition) IsForbidden(from, to Coordinates) bool {
	_, ok := d.forbiddenSet[ForbiddenMovement{From: from, To: to}]
	return ok
}

// DoorAt returns the id of the door occupying the tile, if any.
func (d *RoomDefinition) DoorAt(c Coordinates) (string, bool) {
	id, ok := d.doorByTile[c]
	return id, ok
}

// SpawnDoor resolves the room's spawn-point door.
func (d *RoomDefinition) SpawnDoor() (Door, bool) {
	door, ok := d.Doors[d.SpawnPoint]
	return door, ok
}

// Catalog holds every room definition plus the list of area ids. Immutable
// after New/LoadFile returns.
type Catalog struct {
	areas []string
	rooms map[string]*RoomDefinition
}

// New builds a catalog from definitions, indexing and validating each.
func New(areas []string, defs []*RoomDefinition) (*Catalog, error) {
	if len(areas) == 0 {
		return nil, fmt.Errorf("catalog: no areas")
	}
	c := &Catalog{
		areas: append([]string(nil), areas...),
		rooms: make(map[string]*RoomDefinition, len(defs)),
	}
	for _, def := range defs {
		if def.ID == "" {
			return nil, fmt.Errorf("catalog: room with empty id")
		}
		if _, dup := c.rooms[def.ID]; dup {
			return nil, fmt.Errorf("catalog: duplicate room id %q", def.ID)
		}
		if def.Size.X <= 0 || def.Size.Y <= 0 {
			return nil, fmt.Errorf("catalog: room %q has empty size", def.ID)
		}
		if def.StreamSlotCount < 0 {
			return nil, fmt.Errorf("catalog: room %q has negative slot count", def.ID)
		}
		def.index()
		c.rooms[def.ID] = def
	}
	// Door targets must point at rooms and doors that exist.
	for _, def := range defs {
		for doorID, door := range def.Doors {
			if door.Target == nil {
				continue
			}
			target, ok := c.rooms[door.Target.RoomID]
			if !ok {
				return nil, fmt.Errorf("catalog: room %q door %q targets unknown room %q",
					def.ID, doorID, door.Target.RoomID)
			}
			if _, ok := target.Doors[door.Target.DoorID]; !ok {
				return nil, fmt.Errorf("catalog: room %q door %q targets unknown door %q in room %q",
					def.ID, doorID, door.Target.DoorID, door.Target.RoomID)
			}
		}
	}
	return c, nil
}

// Get returns the definition for a room id.
func (c *Catalog) Get(roomID string) (*RoomDefinition, bool) {
	def, ok := c.rooms[roomID]
	return def, ok
}

// Areas returns the configured area ids.
func (c *Catalog) Areas() []string {
	return append([]string(nil), c.areas...)
}

// RoomIDs returns every room id, in no particular order.
func (c *Catalog) RoomIDs() []string {
	ids := make([]string, 0, len(c.rooms))
	for id := range c.rooms {
		ids = append(ids, id)
	}
	return ids
}

type catalogFile struct {
	Areas []string          `json:"areas"`
	Rooms []*RoomDefinition `json:"rooms"`
}

// LoadFile reads a catalog from a JSON file. Used when a deployment ships
// its own world instead of the built-in one.
func LoadFile(path string) (*Catalog, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("catalog: %w", err)
	}
	var f catalogFile
	if err := json.Unmarshal(raw, &f); err != nil {
		return nil, fmt.Errorf("catalog: parse %s: %w", path, err)
	}
	return New(f.Areas, f.Rooms)
}
