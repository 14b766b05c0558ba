package main

import (
	"net/http"

	httpapi "poipoi/internal/api/http"
	"poipoi/internal/api/ws"
	"poipoi/internal/catalog"
	"poipoi/internal/chessengine"
	"poipoi/internal/config"
	"poipoi/internal/logger"
	"poipoi/internal/media"
	"poipoi/internal/world"

	// swagger packages
	_ "poipoi/docs"

	"github.com/gin-gonic/gin"
)

// @title Poipoi Room Coordinator API
// @version 1.0
// @description Room and presence state coordinator for a multi-room virtual space (Go + Gin)
// @contact.name Backend Team
// @contact.email backend@yourcompany.com
// @BasePath /
func main() {
	cfg, err := config.Load()
	if err != nil {
		logger.Fatal("load config: %v", err)
	}
	logger.Init("poipoi", cfg.LogLevel)

	cat, err := loadCatalog(cfg.CatalogFile)
	if err != nil {
		logger.Fatal("load catalog: %v", err)
	}

	reg := world.NewRegistry(cat, world.Deps{
		Media:      media.NewMemory(),
		Chess:      chessengine.NewNotnilEngine(),
		ChessClock: cfg.ChessClock,
		Policies:   cfg.Policies,
	})
	hub := ws.NewHub(reg)
	reg.SetEvents(hub)

	r := httpapi.SetupRouter(reg, hub)

	// Optional: Add root redirect to swagger
	r.GET("/", func(c *gin.Context) {
		c.Redirect(http.StatusMovedPermanently, "/swagger/index.html")
	})

	// Use HTTP address from config (which reads from env or uses default)
	logger.Info("listening on %s", cfg.HTTPAddr)
	if err := r.Run(cfg.HTTPAddr); err != nil {
		logger.Fatal("%v", err)
	}
}

func loadCatalog(path string) (*catalog.Catalog, error) {
	if path == "" {
		return catalog.Builtin()
	}
	return catalog.LoadFile(path)
}
