package world

import (
	"sync"

	"poipoi/internal/catalog"
)

// Room is the authoritative state of one (area, room) pair. Every mutation
// goes through its mutex; operations on different rooms never contend.
type Room struct {
	Area string
	Def  *catalog.RoomDefinition

	mu        sync.Mutex
	players   map[string]*Player
	slots     []streamSlot
	mediaRoom string // SFU handle, set on first successful provisioning
	chess     *chessSession

	reg *Registry
}

func newRoom(area string, def *catalog.RoomDefinition, reg *Registry) *Room {
	return &Room{
		Area:    area,
		Def:     def,
		players: make(map[string]*Player),
		slots:   make([]streamSlot, def.StreamSlotCount),
		reg:     reg,
	}
}

// AddPlayer admits a player joining the room directly (not through a door).
// Secret rooms reject direct joins; they are reachable only by walking in.
func (r *Room) AddPlayer(p *Player) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.Def.Secret {
		return ErrNotAllowed
	}
	return r.admitLocked(p)
}

// admitLocked applies the admission checks shared by direct joins and door
// traversals, then inserts the player.
func (r *Room) admitLocked(p *Player) error {
	if r.Def.MaxOccupancy > 0 && len(r.players) >= r.Def.MaxOccupancy {
		return ErrRoomFull
	}
	if r.Def.ForcedAnonymous {
		p.Name = "Anonymous"
	}
	p.RoomID = r.Def.ID
	r.players[p.ID] = p
	return nil
}

// RemovePlayer takes a player out of the room and releases everything they
// held: stream slots and a chess seat. Idempotent.
func (r *Room) RemovePlayer(userID string) {
	r.mu.Lock()
	if _, ok := r.players[userID]; !ok {
		r.mu.Unlock()
		return
	}
	delete(r.players, userID)
	r.releaseAllForUserLocked(userID)
	winner, forfeited := r.vacateSeatLocked(userID)
	r.mu.Unlock()
	if forfeited {
		r.reg.events().ChessOver(r.Area, r.Def.ID, "forfeit", winner)
	}
	r.reg.events().RoomChanged(r.Area, r.Def.ID)
}

// MovePlayer validates and applies one step. Door traversals are returned
// to the caller undone; the registry performs the migration.
func (r *Room) MovePlayer(userID string, dir catalog.Direction) (MoveOutcome, error) {
	r.mu.Lock()
	p, ok := r.players[userID]
	if !ok {
		r.mu.Unlock()
		return MoveOutcome{}, ErrPlayerNotFound
	}
	out := validateMove(r.Def, p.Position, dir)
	turnOnBlocked := r.reg.Policies().TurnOnBlocked
	changed := false
	switch out.Kind {
	case MoveApplied:
		p.Position = out.Position
		p.Direction = out.Direction
		p.IsSitting = out.IsSitting
		changed = true
	case MoveBlocked:
		if turnOnBlocked {
			p.Direction = out.Direction
			changed = true
		} else {
			out.Direction = p.Direction
		}
		out.IsSitting = p.IsSitting
	case MoveDoor:
		// applied by the registry
	}
	r.mu.Unlock()
	if changed {
		r.reg.events().RoomChanged(r.Area, r.Def.ID)
	}
	return out, nil
}

// SetChat records the player's last chat line for bubble rendering.
func (r *Room) SetChat(userID, message string) error {
	r.mu.Lock()
	p, ok := r.players[userID]
	if !ok {
		r.mu.Unlock()
		return ErrPlayerNotFound
	}
	p.LastRoomMessage = message
	r.mu.Unlock()
	r.reg.events().RoomChanged(r.Area, r.Def.ID)
	return nil
}

// SetInactive flags a player whose client went to the background.
func (r *Room) SetInactive(userID string, inactive bool) error {
	r.mu.Lock()
	p, ok := r.players[userID]
	if !ok {
		r.mu.Unlock()
		return ErrPlayerNotFound
	}
	p.IsInactive = inactive
	r.mu.Unlock()
	r.reg.events().RoomChanged(r.Area, r.Def.ID)
	return nil
}

// PlayerCount returns the number of connected players.
func (r *Room) PlayerCount() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.players)
}

// HasPlayer reports whether the user is currently in the room.
func (r *Room) HasPlayer(userID string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	_, ok := r.players[userID]
	return ok
}

func (r *Room) logKey() string {
	return r.Area + "/" + r.Def.ID
}
