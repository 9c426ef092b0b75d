package middleware

import (
	"log"
	"net/http"
	"strconv"
	"strings"

	"iglesia360/internal/service"
	"iglesia360/pkg/response"

	"github.com/gin-gonic/gin"
)

func abortJSON(c *gin.Context, status int, msg string) {
	c.AbortWithStatusJSON(status, response.Error(msg))
}

// Actor resolves who is calling: a valid access_token cookie wins, then a
// bearer Authorization header, then the X-User-ID header. Requests with none
// of them pass through anonymous and handlers fall back to their configured
// mock user. An expired or forged cookie is cleared and ignored; a bad
// header is rejected.
func Actor(tokens *JWT) gin.HandlerFunc {
	return func(c *gin.Context) {
		if !cookieActor(c, tokens) {
			if !headerActor(c, tokens) {
				return
			}
		}

		c.Request = c.Request.WithContext(service.WithClientIP(c.Request.Context(), c.ClientIP()))
		c.Next()
	}
}

func cookieActor(c *gin.Context, tokens *JWT) bool {
	cookie, err := c.Cookie(accessTokenCookie)
	if err != nil || cookie == "" {
		return false
	}
	claims, err := tokens.Parse(cookie)
	var userID uint
	if err == nil {
		userID, err = claims.UserID()
	}
	if err != nil {
		log.Printf("[%s] ignoring stale access token cookie: %v", GetRequestID(c), err)
		ClearTokenCookie(c)
		return false
	}
	setActor(c, userID, claims.Roles)
	return true
}

// headerActor reads the Authorization and X-User-ID headers. It returns
// false after aborting the request.
func headerActor(c *gin.Context, tokens *JWT) bool {
	tokenString, ok := bearerToken(c)
	if !ok {
		abortJSON(c, http.StatusUnauthorized, "Invalid authorization format. Expected 'Bearer <token>'")
		return false
	}

	if tokenString != "" {
		claims, err := tokens.Parse(tokenString)
		if err != nil {
			abortJSON(c, http.StatusUnauthorized, "Invalid token")
			return false
		}
		userID, err := claims.UserID()
		if err != nil {
			abortJSON(c, http.StatusUnauthorized, "Invalid token claims")
			return false
		}
		setActor(c, userID, claims.Roles)
		return true
	}

	if header := strings.TrimSpace(c.GetHeader("X-User-ID")); header != "" {
		id, err := strconv.ParseUint(header, 10, 64)
		if err != nil || id == 0 {
			abortJSON(c, http.StatusUnauthorized, "Invalid X-User-ID header")
			return false
		}
		c.Set(CtxUserID, uint(id))
	}
	return true
}

func setActor(c *gin.Context, userID uint, roles []string) {
	c.Set(CtxUserID, userID)
	c.Set(CtxUserRoles, roles)
}

// ActorID returns the resolved caller, or fallback for anonymous requests
func ActorID(c *gin.Context, fallback uint) uint {
	if v, ok := c.Get(CtxUserID); ok {
		if id, ok := v.(uint); ok && id != 0 {
			return id
		}
	}
	return fallback
}
