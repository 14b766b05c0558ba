package http

import (
	"poipoi/internal/api/ws"
	"poipoi/internal/world"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

func SetupRouter(reg *world.Registry, hub *ws.Hub) *gin.Engine {
	r := gin.Default()

	// WebSocket for FE live updates
	r.GET("/ws", hub.HandleWS)

	// --- ROOM ENDPOINTS ---
	r.GET("/areas/:area/rooms", RoomListHandler(reg))
	r.GET("/areas/:area/rooms/:room", RoomStateHandler(reg))
	r.POST("/areas/:area/rooms/:room/join", JoinRoomHandler(reg))

	// --- CONFIG ENDPOINTS ---
	ch := NewConfigHandler(reg)
	r.GET("/config/policies", ch.GetPoliciesHandler)
	r.POST("/config/policies", ch.UpdatePoliciesHandler)

	// Swagger docs
	r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	return r
}
