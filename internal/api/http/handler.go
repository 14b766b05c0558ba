package http

import (
	"errors"
	"net/http"

	"poipoi/internal/world"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// @Summary List rooms of an area
// @Description Per-room population and streamer names. Secret rooms are omitted.
// @Tags Rooms
// @Produce json
// @Param area path string true "Area ID"
// @Success 200 {object} map[string]interface{}
// @Router /areas/{area}/rooms [get]
func RoomListHandler(reg *world.Registry) gin.HandlerFunc {
	return func(c *gin.Context) {
		list, err := reg.RoomList(c.Param("area"))
		if err != nil {
			c.JSON(http.StatusNotFound, gin.H{"error": "area not found"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"rooms": list})
	}
}

// @Summary Get a room snapshot
// @Description Full room state as seen by an unprivileged viewer (private streams redacted)
// @Tags Rooms
// @Produce json
// @Param area path string true "Area ID"
// @Param room path string true "Room ID"
// @Param uid query string false "Viewer user ID"
// @Success 200 {object} map[string]interface{}
// @Router /areas/{area}/rooms/{room} [get]
func RoomStateHandler(reg *world.Registry) gin.HandlerFunc {
	return func(c *gin.Context) {
		r, err := reg.Room(c.Param("area"), c.Param("room"))
		if err != nil {
			c.JSON(http.StatusNotFound, gin.H{"error": "room not found"})
			return
		}
		c.JSON(http.StatusOK, r.Snapshot(c.Query("uid")))
	}
}

// @Summary Join a room
// @Description Creates a player at the room spawn and returns its id for the websocket attach
// @Tags Rooms
// @Accept json
// @Produce json
// @Param area path string true "Area ID"
// @Param room path string true "Room ID"
// @Param request body http.JoinRoomRequest true "Player info"
// @Success 200 {object} http.JoinRoomResponse
// @Router /areas/{area}/rooms/{room}/join [post]
func JoinRoomHandler(reg *world.Registry) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req JoinRoomRequest
		if err := c.BindJSON(&req); err != nil || req.Name == "" {
			c.JSON(http.StatusBadRequest, gin.H{"error": "name required"})
			return
		}
		userID := uuid.NewString()
		p, err := reg.Join(c.Param("area"), c.Param("room"), userID, req.Name, req.CharacterID)
		if err != nil {
			switch {
			case errors.Is(err, world.ErrRoomNotFound):
				c.JSON(http.StatusNotFound, gin.H{"error": "room not found"})
			case errors.Is(err, world.ErrRoomFull):
				c.JSON(http.StatusConflict, gin.H{"error": "room full"})
			default:
				c.JSON(http.StatusForbidden, gin.H{"error": err.Error()})
			}
			return
		}
		c.JSON(http.StatusOK, JoinRoomResponse{
			UserID:    userID,
			RoomID:    p.RoomID,
			X:         p.Position.X,
			Y:         p.Position.Y,
			Direction: string(p.Direction),
		})
	}
}
