package ws

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"sync"

	"poipoi/internal/catalog"
	"poipoi/internal/logger"
	"poipoi/internal/world"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool {
		return true // allow all origins
	},
}

type client struct {
	conn   *websocket.Conn
	userID string

	mu   sync.Mutex // serializes writes on the conn and guards location
	area string
	room string
}

func (c *client) send(action string, data any) {
	c.mu.Lock()
	defer c.mu.Unlock()
	msg := map[string]any{"action": action, "data": data}
	if err := c.conn.WriteJSON(msg); err != nil {
		logger.Debug("ws: write to %s failed: %v", c.userID, err)
	}
}

func (c *client) location() (string, string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.area, c.room
}

func (c *client) setLocation(area, room string) {
	c.mu.Lock()
	c.area = area
	c.room = room
	c.mu.Unlock()
}

// Hub tracks one websocket per connected player, keyed by room, and turns
// world events into outbound frames. It implements world.Events.
type Hub struct {
	mu    sync.RWMutex
	rooms map[string]map[*client]struct{}
	reg   *world.Registry
}

func NewHub(reg *world.Registry) *Hub {
	return &Hub{
		rooms: make(map[string]map[*client]struct{}),
		reg:   reg,
	}
}

func roomKey(area, roomID string) string {
	return area + "/" + roomID
}

// HandleWS upgrades the connection and runs the command loop until the
// client goes away. A `uid` from a previous HTTP join reattaches to that
// player; otherwise a new player is created at the room spawn.
func (h *Hub) HandleWS(c *gin.Context) {
	area := c.Query("area")
	roomID := c.Query("room")
	if area == "" || roomID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "missing area or room"})
		return
	}
	room, err := h.reg.Room(area, roomID)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "room not found"})
		return
	}

	userID := c.Query("uid")
	if userID == "" || !room.HasPlayer(userID) {
		userID = uuid.NewString()
		name := c.Query("name")
		if name == "" {
			name = "Anonymous"
		}
		if _, err := h.reg.Join(area, roomID, userID, name, c.Query("characterId")); err != nil {
			status := http.StatusForbidden
			if errors.Is(err, world.ErrRoomNotFound) {
				status = http.StatusNotFound
			}
			c.JSON(status, gin.H{"error": err.Error()})
			return
		}
	}

	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		logger.Warn("ws: upgrade failed: %v", err)
		h.reg.Leave(area, roomID, userID)
		return
	}
	cl := &client{conn: conn, userID: userID, area: area, room: roomID}
	h.register(cl)
	logger.Info("ws: %s connected to %s/%s", userID, area, roomID)

	cl.send("welcome", gin.H{"userId": userID})
	cl.send("room-state", room.Snapshot(userID))

	defer func() {
		h.unregister(cl)
		a, rm := cl.location()
		h.reg.Leave(a, rm, userID)
		_ = conn.Close()
		logger.Info("ws: %s disconnected", userID)
	}()

	for {
		var msg struct {
			Action string          `json:"action"`
			Data   json.RawMessage `json:"data"`
		}
		if err := conn.ReadJSON(&msg); err != nil {
			return
		}
		h.dispatch(cl, msg.Action, msg.Data)
	}
}

func (h *Hub) dispatch(cl *client, action string, data json.RawMessage) {
	switch action {
	case "move":
		h.handleMove(cl, data)
	case "world-spawn":
		h.handleWorldSpawn(cl, data)
	case "request-stream":
		h.handleRequestStream(cl, data)
	case "release-stream":
		h.handleReleaseStream(cl, data)
	case "chess-join":
		h.handleChessJoin(cl)
	case "chess-move":
		h.handleChessMove(cl, data)
	case "chess-resign":
		h.withRoom(cl, func(r *world.Room) error { return r.ChessResign(cl.userID) })
	case "chat":
		h.handleChat(cl, data)
	case "leave":
		// Closing the conn unwinds the read loop; the deferred cleanup
		// removes the player and releases everything they held.
		_ = cl.conn.Close()
	case "set-inactive":
		h.handleSetInactive(cl, data)
	default:
		logger.Debug("ws: unknown action %q from %s", action, cl.userID)
	}
}

func (h *Hub) withRoom(cl *client, fn func(*world.Room) error) {
	area, roomID := cl.location()
	r, err := h.reg.Room(area, roomID)
	if err == nil {
		err = fn(r)
	}
	if err != nil {
		cl.send("error", gin.H{"message": err.Error()})
	}
}

func (h *Hub) handleMove(cl *client, data json.RawMessage) {
	var req struct {
		Direction catalog.Direction `json:"direction"`
	}
	if err := json.Unmarshal(data, &req); err != nil || !req.Direction.Valid() {
		cl.send("error", gin.H{"message": "invalid direction"})
		return
	}
	area, roomID := cl.location()
	out, err := h.reg.MovePlayer(area, roomID, cl.userID, req.Direction)
	if err != nil {
		cl.send("error", gin.H{"message": err.Error()})
		return
	}
	if out.Kind == world.MoveDoor {
		h.moveClient(cl, area, out.Target.RoomID)
	}
}

func (h *Hub) handleWorldSpawn(cl *client, data json.RawMessage) {
	var req struct {
		Area string `json:"area"`
	}
	if err := json.Unmarshal(data, &req); err != nil || req.Area == "" {
		cl.send("error", gin.H{"message": "invalid area"})
		return
	}
	area, roomID := cl.location()
	if _, err := h.reg.TeleportWorld(area, roomID, cl.userID, req.Area); err != nil {
		cl.send("error", gin.H{"message": err.Error()})
		return
	}
	h.moveClient(cl, req.Area, roomID)
}

// moveClient resubscribes a connection after its player migrated rooms and
// hands it the target room's state right away.
func (h *Hub) moveClient(cl *client, area, roomID string) {
	oldArea, oldRoom := cl.location()
	h.mu.Lock()
	if set, ok := h.rooms[roomKey(oldArea, oldRoom)]; ok {
		delete(set, cl)
	}
	key := roomKey(area, roomID)
	if _, ok := h.rooms[key]; !ok {
		h.rooms[key] = make(map[*client]struct{})
	}
	h.rooms[key][cl] = struct{}{}
	h.mu.Unlock()
	cl.setLocation(area, roomID)

	if r, err := h.reg.Room(area, roomID); err == nil {
		cl.send("room-state", r.Snapshot(cl.userID))
	}
}

func (h *Hub) handleRequestStream(cl *client, data json.RawMessage) {
	var req struct {
		WithSound bool `json:"withSound"`
		WithVideo bool `json:"withVideo"`
		IsPrivate bool `json:"isPrivate"`
	}
	if err := json.Unmarshal(data, &req); err != nil {
		cl.send("error", gin.H{"message": "invalid stream request"})
		return
	}
	area, roomID := cl.location()
	r, err := h.reg.Room(area, roomID)
	if err != nil {
		cl.send("error", gin.H{"message": err.Error()})
		return
	}
	slot, err := r.RequestSlot(context.Background(), cl.userID, world.StreamRequest{
		WithSound: req.WithSound,
		WithVideo: req.WithVideo,
		IsPrivate: req.IsPrivate,
	})
	if err != nil {
		cl.send("error", gin.H{"message": err.Error()})
		return
	}
	cl.send("stream-slot", gin.H{"slot": slot})
}

func (h *Hub) handleReleaseStream(cl *client, data json.RawMessage) {
	var req struct {
		Slot int `json:"slot"`
	}
	if err := json.Unmarshal(data, &req); err != nil {
		cl.send("error", gin.H{"message": "invalid slot"})
		return
	}
	h.withRoom(cl, func(r *world.Room) error { return r.ReleaseSlot(req.Slot, cl.userID) })
}

func (h *Hub) handleChessJoin(cl *client) {
	area, roomID := cl.location()
	r, err := h.reg.Room(area, roomID)
	if err != nil {
		cl.send("error", gin.H{"message": err.Error()})
		return
	}
	color, err := r.ChessJoin(cl.userID)
	if err != nil {
		cl.send("error", gin.H{"message": err.Error()})
		return
	}
	cl.send("chess-seat", gin.H{"color": string(color)})
}

func (h *Hub) handleChessMove(cl *client, data json.RawMessage) {
	var req struct {
		San string `json:"san"`
	}
	if err := json.Unmarshal(data, &req); err != nil || req.San == "" {
		cl.send("error", gin.H{"message": "invalid move"})
		return
	}
	h.withRoom(cl, func(r *world.Room) error { return r.ChessMove(cl.userID, req.San) })
}

func (h *Hub) handleChat(cl *client, data json.RawMessage) {
	var req struct {
		Message string `json:"message"`
	}
	if err := json.Unmarshal(data, &req); err != nil {
		cl.send("error", gin.H{"message": "invalid chat payload"})
		return
	}
	h.withRoom(cl, func(r *world.Room) error { return r.SetChat(cl.userID, req.Message) })
}

func (h *Hub) handleSetInactive(cl *client, data json.RawMessage) {
	var req struct {
		IsInactive bool `json:"isInactive"`
	}
	if err := json.Unmarshal(data, &req); err != nil {
		cl.send("error", gin.H{"message": "invalid payload"})
		return
	}
	h.withRoom(cl, func(r *world.Room) error { return r.SetInactive(cl.userID, req.IsInactive) })
}

func (h *Hub) register(cl *client) {
	h.mu.Lock()
	key := roomKey(cl.area, cl.room)
	if _, ok := h.rooms[key]; !ok {
		h.rooms[key] = make(map[*client]struct{})
	}
	h.rooms[key][cl] = struct{}{}
	h.mu.Unlock()
}

func (h *Hub) unregister(cl *client) {
	area, roomID := cl.location()
	h.mu.Lock()
	key := roomKey(area, roomID)
	if set, ok := h.rooms[key]; ok {
		delete(set, cl)
		if len(set) == 0 {
			delete(h.rooms, key)
		}
	}
	h.mu.Unlock()
}

// subscribers returns a stable copy of the room's connections.
func (h *Hub) subscribers(area, roomID string) []*client {
	h.mu.RLock()
	defer h.mu.RUnlock()
	set := h.rooms[roomKey(area, roomID)]
	out := make([]*client, 0, len(set))
	for cl := range set {
		out = append(out, cl)
	}
	return out
}

// RoomChanged pushes a fresh snapshot to every subscriber of the room.
// Snapshots are produced per viewer so private streams stay redacted.
func (h *Hub) RoomChanged(area, roomID string) {
	r, err := h.reg.Room(area, roomID)
	if err != nil {
		return
	}
	for _, cl := range h.subscribers(area, roomID) {
		cl.send("room-state", r.Snapshot(cl.userID))
	}
}

// StreamReady announces a slot whose publisher the SFU confirmed.
func (h *Hub) StreamReady(area, roomID string, slot int) {
	for _, cl := range h.subscribers(area, roomID) {
		cl.send("stream-ready", gin.H{"slot": slot})
	}
}

// StreamFailed tells the requesting user their publisher could not be
// provisioned. The slot is free again, so the client may retry.
func (h *Hub) StreamFailed(area, roomID string, slot int, userID string) {
	for _, cl := range h.subscribers(area, roomID) {
		if cl.userID == userID {
			cl.send("stream-failed", gin.H{
				"slot":    slot,
				"message": world.ErrProviderUnavailable.Error(),
			})
		}
	}
}

// ChessOver announces the end of the room's chess game.
func (h *Hub) ChessOver(area, roomID, outcome, winnerUserID string) {
	for _, cl := range h.subscribers(area, roomID) {
		cl.send("chess-over", gin.H{"outcome": outcome, "winner": winnerUserID})
	}
}
