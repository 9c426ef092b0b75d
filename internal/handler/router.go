package handler

import (
	"iglesia360/internal/middleware"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

// RouteRegistrar is implemented by every handler in this package
type RouteRegistrar interface {
	RegisterRoutes(router *gin.RouterGroup)
}

// NewRouter builds the engine with the shared middleware chain and mounts
// every registrar at the root group.
func NewRouter(tokens *middleware.JWT, corsOrigins []string, registrars ...RouteRegistrar) *gin.Engine {
	router := gin.New()
	router.Use(gin.Logger(), gin.Recovery(), middleware.RequestID())

	// CORS configuration
	corsConfig := cors.DefaultConfig()
	corsConfig.AllowOrigins = corsOrigins
	corsConfig.AllowCredentials = true
	corsConfig.AllowHeaders = []string{"Origin", "Content-Length", "Content-Type", "Authorization", "Accept", "X-User-ID", middleware.RequestIDHeader}
	corsConfig.ExposeHeaders = []string{middleware.RequestIDHeader}
	corsConfig.AllowMethods = []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"}
	router.Use(cors.New(corsConfig))

	router.Use(middleware.Actor(tokens))

	root := router.Group("")
	for _, r := range registrars {
		r.RegisterRoutes(root)
	}
	return router
}
