package handler

import (
	"net/http"
	"time"

	"iglesia360/internal/middleware"
	"iglesia360/internal/service"
	"iglesia360/pkg/response"

	"github.com/gin-gonic/gin"
)

type AuthHandler struct {
	userService service.UserService
	tokenTTL    time.Duration
}

func NewAuthHandler(userService service.UserService, tokenTTL time.Duration) *AuthHandler {
	return &AuthHandler{userService: userService, tokenTTL: tokenTTL}
}

func (h *AuthHandler) RegisterRoutes(router *gin.RouterGroup) {
	group := router.Group("/api/auth")
	{
		group.POST("/login", h.Login)
		group.POST("/logout", h.Logout)
	}
}

// Login handles POST /api/auth/login
// @Summary      Login user
// @Description  Checks email (or username) and password, returning a JWT and the user's permissions
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        payload  body      service.LoginRequest  true  "Login Credentials"
// @Success      200  {object}  response.Response{data=service.LoginResponse}
// @Failure      400  {object}  response.Response
// @Failure      401  {object}  response.Response
// @Router       /api/auth/login [post]
func (h *AuthHandler) Login(c *gin.Context) {
	var req service.LoginRequest
	if !bindJSON(c, &req) {
		return
	}

	res, err := h.userService.Login(c.Request.Context(), req)
	if err != nil {
		writeError(c, err, "Login failed")
		return
	}

	middleware.SetTokenCookie(c, res.Token, h.tokenTTL)
	c.JSON(http.StatusOK, response.Success(res))
}

// Logout handles POST /api/auth/logout by clearing the token cookie
// @Summary      Logout
// @Tags         auth
// @Produce      json
// @Success      200  {object}  response.Response
// @Router       /api/auth/logout [post]
func (h *AuthHandler) Logout(c *gin.Context) {
	middleware.ClearTokenCookie(c)
	c.JSON(http.StatusOK, response.Message("Logged out"))
}
