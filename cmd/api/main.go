package main

import (
	"context"
	"log"
	"time"

	_ "iglesia360/api/swagger" // swagger docs
	"iglesia360/internal/config"
	"iglesia360/internal/handler"
	"iglesia360/internal/middleware"
	"iglesia360/internal/seed"
	"iglesia360/internal/service"
	"iglesia360/internal/websocket"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

// @title           Iglesia 360 Solicitudes API
// @version         1.0
// @description     Financial request (solicitud) approval workflow for church ministries.
// @host            localhost:8080
// @BasePath        /
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Invalid configuration: %v", err)
	}
	if cfg.GinMode != "" {
		gin.SetMode(cfg.GinMode)
	}

	store, err := openStorage(cfg)
	if err != nil {
		log.Fatalf("Storage setup failed: %v", err)
	}

	if cfg.SeedData {
		if err := seed.Run(context.Background(), store.seedRepositories(), time.Now()); err != nil {
			log.Fatalf("Seeding failed: %v", err)
		}
		log.Println("Seed data loaded.")
	}

	// Set up WebSocket Hub
	wsHub := websocket.NewHub(256)
	go wsHub.Run()

	tokens := middleware.NewJWT(middleware.GetJWTSecret(cfg.JWTSecret, gin.Mode()), cfg.JWTTTL)

	// Set up dependencies (Repository -> Service -> Handler)
	deps := service.WorkflowDeps{
		Solicitudes:     store.solicitudes,
		Ministries:      store.ministries,
		Users:           store.users,
		Audit:           store.audit,
		Tx:              store.tx,
		Notifier:        wsHub,
		Locks:           service.NewIDLocker(),
		TreasurerUserID: cfg.TreasurerUserID,
	}
	solicitudService := service.NewSolicitudService(deps)
	approvalService := service.NewApprovalService(deps)
	auditService := service.NewAuditService(store.audit, store.solicitudes)
	userService := service.NewUserService(store.users, tokens)
	ministryService := service.NewMinistryService(store.ministries)

	router := handler.NewRouter(tokens, cfg.CORSOrigins,
		handler.NewSystemHandler(cfg.PingMessage),
		handler.NewSolicitudHandler(solicitudService, auditService, cfg.MockRequesterID),
		handler.NewApprovalHandler(approvalService, cfg.MockApproverID),
		handler.NewUserHandler(userService, cfg.MockRequesterID),
		handler.NewAuthHandler(userService, cfg.JWTTTL),
		handler.NewMinistryHandler(ministryService),
		handler.NewAuditHandler(auditService),
		handler.NewRoleHandler(),
	)

	// Swagger route
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	// WebSocket endpoint
	router.GET("/ws", func(c *gin.Context) {
		websocket.ServeWs(wsHub, tokens, c)
	})

	log.Printf("Server listening on :%s (storage: %s)", cfg.Port, cfg.StorageDriver)
	if err := router.Run(":" + cfg.Port); err != nil {
		log.Fatalf("Server failed: %v", err)
	}
}
