package middleware

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"iglesia360/internal/model"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

const (
	// context keys set by the auth middleware
	CtxUserID    = "userID"
	CtxUserRoles = "userRoles"

	accessTokenCookie = "access_token"
)

// GetJWTSecret returns the signing secret, refusing the development fallback in release mode
func GetJWTSecret(secret, ginMode string) []byte {
	if secret == "" {
		if ginMode == gin.ReleaseMode {
			panic("FATAL: JWT_SECRET environment variable is required in production mode")
		}
		secret = "default_super_secret_key" // Development fallback only
	}
	return []byte(secret)
}

// Claims carried by access tokens
type Claims struct {
	Roles []string `json:"roles"`
	jwt.RegisteredClaims
}

// JWT issues and verifies HS256 access tokens
type JWT struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

func NewJWT(secret []byte, ttl time.Duration) *JWT {
	return &JWT{secret: secret, ttl: ttl, now: time.Now}
}

func (j *JWT) Issue(user *model.User) (string, error) {
	now := j.now()
	roles := make([]string, len(user.Roles))
	for i, r := range user.Roles {
		roles[i] = string(r)
	}

	claims := Claims{
		Roles: roles,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   strconv.FormatUint(uint64(user.ID), 10),
			ID:        uuid.NewString(),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(j.ttl)),
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(j.secret)
}

// Parse verifies tokenString and returns its claims
func (j *JWT) Parse(tokenString string) (*Claims, error) {
	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, jwt.ErrSignatureInvalid
		}
		return j.secret, nil
	}, jwt.WithTimeFunc(j.now))
	if err != nil {
		return nil, err
	}
	if !token.Valid {
		return nil, errors.New("invalid token")
	}
	return claims, nil
}

// UserID returns the numeric subject of the token
func (c *Claims) UserID() (uint, error) {
	id, err := strconv.ParseUint(c.Subject, 10, 64)
	if err != nil || id == 0 {
		return 0, fmt.Errorf("invalid subject %q", c.Subject)
	}
	return uint(id), nil
}

// SetTokenCookie stores the access token as an HttpOnly cookie
func SetTokenCookie(c *gin.Context, accessToken string, ttl time.Duration) {
	// Production (cross-origin): SameSiteNoneMode + Secure=true
	// Development (same-site):   SameSiteLaxMode  + Secure=false
	sameSite := http.SameSiteLaxMode
	secure := false
	if gin.Mode() == gin.ReleaseMode {
		sameSite = http.SameSiteNoneMode
		secure = true
	}

	c.SetSameSite(sameSite)
	c.SetCookie(accessTokenCookie, accessToken, int(ttl.Seconds()), "/", "", secure, true)
}

// bearerToken reads the access token from the Authorization header.
// ok is false when the header is present but malformed.
func bearerToken(c *gin.Context) (token string, ok bool) {
	authHeader := c.GetHeader("Authorization")
	if authHeader == "" {
		return "", true
	}
	parts := strings.Split(authHeader, " ")
	if len(parts) != 2 || parts[0] != "Bearer" {
		return "", false
	}
	return parts[1], true
}

// RequirePermission rejects requests whose token roles lack any of the required permission codes.
// It must run after Actor.
func RequirePermission(requiredPerms ...string) gin.HandlerFunc {
	return func(c *gin.Context) {
		raw, exists := c.Get(CtxUserRoles)
		if !exists {
			abortJSON(c, http.StatusUnauthorized, "Authorization is missing")
			return
		}

		roleNames, _ := raw.([]string)
		roles := make(model.Roles, len(roleNames))
		for i, r := range roleNames {
			roles[i] = model.Role(r)
		}

		granted := make(map[string]bool)
		for _, p := range model.PermissionsFor(roles) {
			granted[p] = true
		}
		for _, required := range requiredPerms {
			if !granted[required] {
				abortJSON(c, http.StatusForbidden, "Access denied: missing permission '"+required+"'")
				return
			}
		}

		c.Next()
	}
}

// ClearTokenCookie expires the access token cookie
func ClearTokenCookie(c *gin.Context) {
	c.SetCookie(accessTokenCookie, "", -1, "/", "", gin.Mode() == gin.ReleaseMode, true)
}
