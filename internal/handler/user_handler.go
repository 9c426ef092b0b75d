package handler

import (
	"net/http"

	"iglesia360/internal/middleware"
	"iglesia360/internal/model"
	"iglesia360/internal/service"
	"iglesia360/pkg/pagination"
	"iglesia360/pkg/response"

	"github.com/gin-gonic/gin"
)

const msgUserNotFound = "User not found"

type UserHandler struct {
	userService     service.UserService
	mockRequesterID uint
}

// NewUserHandler sets up the routing dependencies for User endpoints
func NewUserHandler(userService service.UserService, mockRequesterID uint) *UserHandler {
	return &UserHandler{userService: userService, mockRequesterID: mockRequesterID}
}

// MeResponse is the current user together with the permission codes of their roles
type MeResponse struct {
	User     *model.User `json:"user"`
	Permisos []string    `json:"permisos"`
}

// RegisterRoutes binds the endpoints to the gin Engine or RouterGroup
func (h *UserHandler) RegisterRoutes(router *gin.RouterGroup) {
	users := router.Group("/api/users")
	{
		users.GET("", h.ListUsers)
		users.GET("/me", h.GetMe)
		users.GET("/:id", h.GetUserByID)
		users.POST("", h.CreateUser)
		users.PUT("/:id", h.UpdateUser)
		users.DELETE("/:id", h.DeleteUser)
	}
}

// ListUsers handles GET /api/users
// @Summary      List users
// @Tags         users
// @Produce      json
// @Param        page      query     int     false  "Page number (default 1)"
// @Param        pageSize  query     int     false  "Items per page (default 10)"
// @Param        status    query     string  false  "active | inactive | suspended"
// @Param        role      query     string  false  "Role filter"
// @Success      200  {object}  response.Paginated{data=[]model.User}
// @Failure      500  {object}  response.Response
// @Router       /api/users [get]
func (h *UserHandler) ListUsers(c *gin.Context) {
	p := pagination.Parse(c)
	filter := model.UserFilter{
		Status: model.UserStatus(c.Query("status")),
		Role:   model.Role(c.Query("role")),
	}

	users, total, err := h.userService.ListUsers(c.Request.Context(), filter, p)
	if err != nil {
		writeError(c, err, "Failed to fetch users")
		return
	}

	c.JSON(http.StatusOK, response.Page(users, total, p.Page, p.PageSize))
}

// GetMe handles GET /api/users/me
// @Summary      Get current user
// @Description  The caller resolved from the token or X-User-ID, with permissions
// @Tags         users
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  response.Response{data=MeResponse}
// @Failure      404  {object}  response.Response
// @Router       /api/users/me [get]
func (h *UserHandler) GetMe(c *gin.Context) {
	user, err := h.userService.GetUserByID(c.Request.Context(), middleware.ActorID(c, h.mockRequesterID))
	if err != nil {
		writeError(c, err, "Failed to fetch user")
		return
	}

	c.JSON(http.StatusOK, response.Success(MeResponse{User: user, Permisos: model.PermissionsFor(user.Roles)}))
}

// GetUserByID handles GET /api/users/:id
// @Summary      Get user by ID
// @Tags         users
// @Produce      json
// @Param        id   path      int  true  "User ID"
// @Success      200  {object}  response.Response{data=model.User}
// @Failure      404  {object}  response.Response
// @Router       /api/users/{id} [get]
func (h *UserHandler) GetUserByID(c *gin.Context) {
	id, ok := pathID(c, msgUserNotFound)
	if !ok {
		return
	}

	user, err := h.userService.GetUserByID(c.Request.Context(), id)
	if err != nil {
		writeError(c, err, "Failed to fetch user")
		return
	}

	c.JSON(http.StatusOK, response.Success(user))
}

// CreateUser handles POST /api/users
// @Summary      Create a new user
// @Description  Email and name are required; roles default to usuario
// @Tags         users
// @Accept       json
// @Produce      json
// @Param        payload  body      service.CreateUserRequest  true  "Create User Payload"
// @Success      201  {object}  response.Response{data=model.User}
// @Failure      400  {object}  response.Response
// @Failure      409  {object}  response.Response
// @Router       /api/users [post]
func (h *UserHandler) CreateUser(c *gin.Context) {
	var req service.CreateUserRequest
	if !bindJSON(c, &req) {
		return
	}

	user, err := h.userService.CreateUser(c.Request.Context(), req)
	if err != nil {
		writeError(c, err, "Failed to create user")
		return
	}

	c.JSON(http.StatusCreated, response.Success(user))
}

// UpdateUser handles PUT /api/users/:id
// @Summary      Update user
// @Description  Updates name, phone, status or roles
// @Tags         users
// @Accept       json
// @Produce      json
// @Param        id       path      int                        true  "User ID"
// @Param        payload  body      service.UpdateUserRequest  true  "Update User Payload"
// @Success      200  {object}  response.Response{data=model.User}
// @Failure      400  {object}  response.Response
// @Failure      404  {object}  response.Response
// @Router       /api/users/{id} [put]
func (h *UserHandler) UpdateUser(c *gin.Context) {
	id, ok := pathID(c, msgUserNotFound)
	if !ok {
		return
	}
	var req service.UpdateUserRequest
	if !bindJSON(c, &req) {
		return
	}

	user, err := h.userService.UpdateUser(c.Request.Context(), id, req)
	if err != nil {
		writeError(c, err, "Failed to update user")
		return
	}

	c.JSON(http.StatusOK, response.Success(user))
}

// DeleteUser handles DELETE /api/users/:id
// @Summary      Delete user
// @Tags         users
// @Produce      json
// @Param        id   path      int  true  "User ID"
// @Success      200  {object}  response.Response
// @Failure      404  {object}  response.Response
// @Router       /api/users/{id} [delete]
func (h *UserHandler) DeleteUser(c *gin.Context) {
	id, ok := pathID(c, msgUserNotFound)
	if !ok {
		return
	}

	if err := h.userService.DeleteUser(c.Request.Context(), id); err != nil {
		writeError(c, err, "Failed to delete user")
		return
	}

	c.JSON(http.StatusOK, response.Message("User deleted successfully"))
}
