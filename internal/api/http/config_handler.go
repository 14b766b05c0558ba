package http

import (
	"net/http"

	"poipoi/internal/config"
	"poipoi/internal/world"

	"github.com/gin-gonic/gin"
)

type ConfigHandler struct {
	reg *world.Registry
}

func NewConfigHandler(reg *world.Registry) *ConfigHandler {
	return &ConfigHandler{reg: reg}
}

// GetPoliciesHandler returns the live behavior switches
// @Summary Get coordinator policies
// @Description Returns the movement and stream-slot policy flags currently in effect
// @Tags Config
// @Produce json
// @Success 200 {object} map[string]interface{}
// @Router /config/policies [get]
func (h *ConfigHandler) GetPoliciesHandler(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"policies": h.reg.Policies()})
}

type UpdatePoliciesRequest struct {
	Policies config.Policies `json:"policies" binding:"required"`
}

// UpdatePoliciesHandler swaps the behavior switches at runtime
// @Summary Update coordinator policies
// @Description Replaces the movement and stream-slot policy flags for all rooms
// @Tags Config
// @Accept json
// @Produce json
// @Param request body http.UpdatePoliciesRequest true "New policies"
// @Success 200 {object} map[string]interface{}
// @Router /config/policies [post]
func (h *ConfigHandler) UpdatePoliciesHandler(c *gin.Context) {
	var req UpdatePoliciesRequest
	if err := c.BindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid payload"})
		return
	}
	h.reg.SetPolicies(req.Policies)
	c.JSON(http.StatusOK, gin.H{"policies": h.reg.Policies()})
}
