package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

type SystemHandler struct {
	pingMessage string
}

func NewSystemHandler(pingMessage string) *SystemHandler {
	return &SystemHandler{pingMessage: pingMessage}
}

func (h *SystemHandler) RegisterRoutes(router *gin.RouterGroup) {
	router.GET("/health", h.Health)
	router.GET("/api/ping", h.Ping)
}

// Health check
// @Summary      Health check
// @Tags         system
// @Produce      json
// @Success      200  {object}  map[string]string
// @Router       /health [get]
func (h *SystemHandler) Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "OK"})
}

// Ping answers with the configured message
// @Summary      Ping
// @Tags         system
// @Produce      json
// @Success      200  {object}  map[string]string
// @Router       /api/ping [get]
func (h *SystemHandler) Ping(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"message": h.pingMessage})
}
