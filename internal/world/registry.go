package world

import (
	"fmt"
	"sort"
	"sync"
	"time"

	"poipoi/internal/catalog"
	"poipoi/internal/chessengine"
	"poipoi/internal/config"
	"poipoi/internal/logger"
	"poipoi/internal/media"
)

// Events is the outbound notification surface of the world. The ws hub
// implements it; a nil implementation is substituted until one is set.
type Events interface {
	// RoomChanged fires after any committed mutation of a room's state.
	RoomChanged(area, roomID string)
	// StreamReady fires when the SFU confirmed a publisher for a slot.
	StreamReady(area, roomID string, slot int)
	// StreamFailed fires when publisher provisioning for a slot failed
	// and the slot was rolled back to inactive. The owner gets to retry.
	StreamFailed(area, roomID string, slot int, userID string)
	// ChessOver fires once per game end with the outcome kind
	// (checkmate, draw, resignation, forfeit, timeout).
	ChessOver(area, roomID, outcome, winnerUserID string)
}

type noopEvents struct{}

func (noopEvents) RoomChanged(string, string)               {}
func (noopEvents) StreamReady(string, string, int)          {}
func (noopEvents) StreamFailed(string, string, int, string) {}
func (noopEvents) ChessOver(string, string, string, string) {}

// Registry owns every RoomState in the process: a two-level area -> room
// mapping populated from the catalog at startup and read-mostly after.
// Rooms in different areas never share mutable state.
type Registry struct {
	catalog       *catalog.Catalog
	mediaProvider media.Provider
	chessEngine   chessengine.Engine
	chessClock    time.Duration

	rooms map[string]map[string]*Room

	polMu    sync.RWMutex
	policies config.Policies

	evMu sync.RWMutex
	ev   Events
}

// Deps are the external collaborators the world delegates to.
type Deps struct {
	Media      media.Provider
	Chess      chessengine.Engine
	ChessClock time.Duration
	Policies   config.Policies
}

// NewRegistry builds the full room grid for every area in the catalog.
func NewRegistry(cat *catalog.Catalog, deps Deps) *Registry {
	if deps.ChessClock <= 0 {
		deps.ChessClock = 5 * time.Minute
	}
	g := &Registry{
		catalog:       cat,
		mediaProvider: deps.Media,
		chessEngine:   deps.Chess,
		chessClock:    deps.ChessClock,
		policies:      deps.Policies,
		rooms:         make(map[string]map[string]*Room),
		ev:            noopEvents{},
	}
	for _, area := range cat.Areas() {
		g.rooms[area] = make(map[string]*Room)
		for _, id := range cat.RoomIDs() {
			def, _ := cat.Get(id)
			g.rooms[area][id] = newRoom(area, def, g)
		}
	}
	logger.Info("world: %d areas, %d rooms each", len(cat.Areas()), len(cat.RoomIDs()))
	return g
}

// SetEvents wires the outbound notification sink. Call before serving.
func (g *Registry) SetEvents(e Events) {
	g.evMu.Lock()
	g.ev = e
	g.evMu.Unlock()
}

func (g *Registry) events() Events {
	g.evMu.RLock()
	defer g.evMu.RUnlock()
	return g.ev
}

// Policies returns the current behavior switches.
func (g *Registry) Policies() config.Policies {
	g.polMu.RLock()
	defer g.polMu.RUnlock()
	return g.policies
}

// SetPolicies swaps the behavior switches at runtime.
func (g *Registry) SetPolicies(p config.Policies) {
	g.polMu.Lock()
	g.policies = p
	g.polMu.Unlock()
}

// Catalog exposes the room definitions backing the world.
func (g *Registry) Catalog() *catalog.Catalog {
	return g.catalog
}

// Room resolves one (area, room) coordinate.
func (g *Registry) Room(area, roomID string) (*Room, error) {
	rooms, ok := g.rooms[area]
	if !ok {
		return nil, fmt.Errorf("%w: area %q", ErrRoomNotFound, area)
	}
	r, ok := rooms[roomID]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrRoomNotFound, roomID)
	}
	return r, nil
}

// Join admits a new player into a room at its spawn point and returns the
// created player.
func (g *Registry) Join(area, roomID, userID, name, characterID string) (*Player, error) {
	r, err := g.Room(area, roomID)
	if err != nil {
		return nil, err
	}
	p := NewPlayer(userID, name, characterID, r.Def)
	if err := r.AddPlayer(p); err != nil {
		return nil, err
	}
	g.events().RoomChanged(area, roomID)
	return p, nil
}

// Leave removes the player from the room with all side effects.
func (g *Registry) Leave(area, roomID, userID string) {
	r, err := g.Room(area, roomID)
	if err != nil {
		return
	}
	r.RemovePlayer(userID)
}

// MovePlayer applies one movement step. A door traversal migrates the
// player into the target room; the returned outcome carries the door
// target so the caller can resubscribe the connection.
func (g *Registry) MovePlayer(area, roomID, userID string, dir catalog.Direction) (MoveOutcome, error) {
	src, err := g.Room(area, roomID)
	if err != nil {
		return MoveOutcome{}, err
	}
	out, err := src.MovePlayer(userID, dir)
	if err != nil || out.Kind != MoveDoor {
		return out, err
	}

	dst, err := g.Room(area, out.Target.RoomID)
	if err != nil {
		return MoveOutcome{}, err
	}
	door, ok := dst.Def.Doors[out.Target.DoorID]
	if !ok {
		return MoveOutcome{}, fmt.Errorf("%w: door %q", ErrRoomNotFound, out.Target.DoorID)
	}
	landing, facing := doorLanding(dst.Def, door)
	winner, forfeited, err := g.migrate(src, dst, userID, landing, facing)
	if err != nil {
		// Admission failed; the player stays put in the source room.
		return MoveOutcome{Kind: MoveBlocked, Position: out.Position, Direction: out.Direction}, err
	}
	out.Position = landing
	out.Direction = facing
	out.IsSitting = dst.Def.IsSittable(landing)
	if forfeited {
		g.events().ChessOver(src.Area, src.Def.ID, "forfeit", winner)
	}
	g.events().RoomChanged(src.Area, src.Def.ID)
	g.events().RoomChanged(dst.Area, dst.Def.ID)
	return out, nil
}

// TeleportWorld moves a player between areas through a world spawn of the
// same room in the target area.
func (g *Registry) TeleportWorld(area, roomID, userID, targetArea string) (MoveOutcome, error) {
	src, err := g.Room(area, roomID)
	if err != nil {
		return MoveOutcome{}, err
	}
	dst, err := g.Room(targetArea, roomID)
	if err != nil {
		return MoveOutcome{}, err
	}
	if len(dst.Def.WorldSpawns) == 0 {
		return MoveOutcome{}, ErrNotAllowed
	}
	spawn := dst.Def.WorldSpawns[0]
	dir := spawn.Direction
	if !dir.Valid() {
		dir = catalog.Down
	}
	winner, forfeited, err := g.migrate(src, dst, userID, spawn.Position, dir)
	if err != nil {
		return MoveOutcome{}, err
	}
	out := MoveOutcome{
		Kind:      MoveApplied,
		Position:  spawn.Position,
		Direction: dir,
		IsSitting: dst.Def.IsSittable(spawn.Position),
	}
	if forfeited {
		g.events().ChessOver(src.Area, src.Def.ID, "forfeit", winner)
	}
	g.events().RoomChanged(src.Area, src.Def.ID)
	g.events().RoomChanged(dst.Area, dst.Def.ID)
	return out, nil
}

// migrate atomically moves a player from src to dst. Both room locks are
// taken in a fixed global order so concurrent traversals in opposite
// directions cannot deadlock. Slots and chess seats held in the source
// room are released as part of leaving it; a forfeit produced by vacating
// a seat mid-game is returned for the caller to emit after the locks are
// released.
func (g *Registry) migrate(src, dst *Room, userID string, pos catalog.Coordinates, dir catalog.Direction) (forfeitWinner string, forfeited bool, err error) {
	if src == dst {
		// A door may target another door of its own room. That is a plain
		// reposition; taking the room lock twice would wedge the room.
		src.mu.Lock()
		defer src.mu.Unlock()
		p, ok := src.players[userID]
		if !ok {
			return "", false, ErrPlayerNotFound
		}
		p.Position = pos
		p.Direction = dir
		p.IsSitting = src.Def.IsSittable(pos)
		return "", false, nil
	}

	first, second := src, dst
	if roomKey(dst) < roomKey(src) {
		first, second = dst, src
	}
	first.mu.Lock()
	second.mu.Lock()
	defer first.mu.Unlock()
	defer second.mu.Unlock()

	p, ok := src.players[userID]
	if !ok {
		return "", false, ErrPlayerNotFound
	}
	if dst.Def.MaxOccupancy > 0 && len(dst.players) >= dst.Def.MaxOccupancy {
		return "", false, ErrRoomFull
	}

	delete(src.players, userID)
	src.releaseAllForUserLocked(userID)
	forfeitWinner, forfeited = src.vacateSeatLocked(userID)

	p.Position = pos
	p.Direction = dir
	p.IsSitting = dst.Def.IsSittable(pos)
	p.LastRoomMessage = ""
	if dst.Def.ForcedAnonymous {
		p.Name = "Anonymous"
	}
	p.RoomID = dst.Def.ID
	dst.players[userID] = p
	return forfeitWinner, forfeited, nil
}

func roomKey(r *Room) string {
	return r.Area + "\x00" + r.Def.ID
}

// RoomList summarizes one area for the lobby list: per-room population and
// who is streaming.
func (g *Registry) RoomList(area string) ([]RoomListItemDto, error) {
	rooms, ok := g.rooms[area]
	if !ok {
		return nil, fmt.Errorf("%w: area %q", ErrRoomNotFound, area)
	}
	ids := make([]string, 0, len(rooms))
	for id, r := range rooms {
		if r.Def.Secret {
			continue
		}
		ids = append(ids, id)
	}
	sort.Strings(ids)
	out := make([]RoomListItemDto, 0, len(ids))
	for _, id := range ids {
		out = append(out, rooms[id].listItem())
	}
	return out, nil
}
