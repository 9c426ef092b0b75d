package handler

import (
	"net/http"

	"iglesia360/internal/model"
	"iglesia360/pkg/response"

	"github.com/gin-gonic/gin"
)

// RoleHandler exposes the fixed role and permission catalog
type RoleHandler struct{}

func NewRoleHandler() *RoleHandler {
	return &RoleHandler{}
}

func (h *RoleHandler) RegisterRoutes(router *gin.RouterGroup) {
	router.GET("/api/roles", h.ListRoles)
	router.GET("/api/permissions", h.ListPermissions)
}

// ListRoles returns all roles with their permissions
// @Summary      List roles
// @Tags         roles
// @Produce      json
// @Success      200  {object}  response.Response{data=[]model.RoleInfo}
// @Router       /api/roles [get]
func (h *RoleHandler) ListRoles(c *gin.Context) {
	c.JSON(http.StatusOK, response.Success(model.RoleCatalog()))
}

// ListPermissions returns the permission catalog
// @Summary      List permissions
// @Tags         roles
// @Produce      json
// @Success      200  {object}  response.Response{data=[]model.Permission}
// @Router       /api/permissions [get]
func (h *RoleHandler) ListPermissions(c *gin.Context) {
	c.JSON(http.StatusOK, response.Success(model.Permissions))
}
