package main

import (
	"fmt"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/redis/go-redis/v9"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	_ "github.com/campushub/hotspot-portal-api/api/swagger"
	"github.com/campushub/hotspot-portal-api/internal/handler"
	"github.com/campushub/hotspot-portal-api/internal/middleware"
	"github.com/campushub/hotspot-portal-api/internal/models"
	"github.com/campushub/hotspot-portal-api/internal/repository"
	"github.com/campushub/hotspot-portal-api/internal/service"
	"github.com/campushub/hotspot-portal-api/pkg/cache"
	"github.com/campushub/hotspot-portal-api/pkg/config"
	"github.com/campushub/hotspot-portal-api/pkg/database"
	"github.com/campushub/hotspot-portal-api/pkg/logger"
	corsmiddleware "github.com/campushub/hotspot-portal-api/pkg/middleware/cors"
	reqidmiddleware "github.com/campushub/hotspot-portal-api/pkg/middleware/requestid"
)

// @title Student Hotspot Portal API
// @version 1.0.0
// @description Institutional hotspot access portal: usage sessions, access requests, WiFi provisioning.
// @BasePath /api/v1
// @schemes http
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logr, err := logger.New(cfg)
	if err != nil {
		log.Fatalf("failed to init logger: %v", err)
	}
	defer logr.Sync() //nolint:errcheck

	db, err := database.NewPostgres(cfg.Database)
	if err != nil {
		logr.Sugar().Fatalw("failed to connect to postgres", "error", err)
	}
	defer db.Close()

	var redisClient *redis.Client
	if client, err := cache.NewRedis(cfg.Redis); err != nil {
		logr.Sugar().Warnw("redis unavailable, hotspot config cache disabled", "error", err)
	} else {
		redisClient = client
		defer redisClient.Close()
	}

	validate := validator.New()

	studentRepo := repository.NewStudentRepository(db)
	sessionRepo := repository.NewSessionRepository(db)
	requestRepo := repository.NewRequestRepository(db)
	configRepo := repository.NewConfigRepository(db)

	metricsSvc := service.NewMetricsService()
	sessionSvc := service.NewSessionService(sessionRepo, logr, service.SessionConfig{
		RecentLimit:    cfg.Sessions.RecentLimit,
		MaxRecentLimit: cfg.Sessions.MaxRecentLimit,
	})
	authSvc := service.NewAuthService(studentRepo, sessionSvc, validate, logr, service.AuthConfig{
		TokenSecret: cfg.JWT.Secret,
		TokenExpiry: cfg.JWT.Expiration,
		Issuer:      cfg.JWT.Issuer,
	})
	accessSvc := service.NewAccessService(requestRepo, studentRepo, logr)
	hotspotSvc := service.NewHotspotService(configRepo, redisClient, validate, logr, service.HotspotConfigServiceConfig{
		CacheTTL: cfg.Hotspot.CacheTTL,
		QRSize:   cfg.Hotspot.QRSize,
	})
	studentSvc := service.NewStudentService(studentRepo, sessionRepo, validate, logr)

	authHandler := handler.NewAuthHandler(authSvc, metricsSvc)
	profileHandler := handler.NewProfileHandler(studentSvc, sessionSvc, accessSvc)
	hotspotHandler := handler.NewHotspotHandler(hotspotSvc, studentSvc, sessionSvc)
	requestHandler := handler.NewRequestHandler(accessSvc, metricsSvc)
	studentHandler := handler.NewStudentHandler(studentSvc)
	configHandler := handler.NewConfigHandler(hotspotSvc)

	if cfg.Env == config.EnvProduction {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(reqidmiddleware.Middleware())
	r.Use(logger.GinMiddleware(logr))
	r.Use(corsmiddleware.New(cfg.CORS.AllowedOrigins))
	r.Use(middleware.Metrics(metricsSvc))

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	r.GET("/ready", func(c *gin.Context) {
		if err := db.Ping(); err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "degraded"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": "ready"})
	})
	r.GET("/metrics", gin.WrapH(metricsSvc.Handler()))

	if cfg.Env != config.EnvProduction {
		r.GET("/docs/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	api := r.Group(cfg.APIPrefix)
	api.POST("/auth/login", authHandler.Login)

	authed := api.Group("")
	authed.Use(middleware.JWT(authSvc))
	authed.POST("/auth/logout", authHandler.Logout)
	authed.GET("/me", profileHandler.Me)
	authed.GET("/me/sessions", profileHandler.Sessions)
	authed.GET("/me/access", profileHandler.AccessStatus)
	authed.POST("/me/access/request", profileHandler.SubmitRequest)
	authed.GET("/hotspot/instructions", hotspotHandler.Instructions)
	authed.GET("/hotspot/qrcode", hotspotHandler.QRCode)
	authed.POST("/hotspot/connect", hotspotHandler.Connect)

	admin := authed.Group("/admin")
	admin.Use(middleware.RequireRoles(models.RoleAdmin))
	admin.GET("/requests", requestHandler.ListPending)
	admin.POST("/requests/:id/approve", requestHandler.Approve)
	admin.POST("/requests/:id/reject", requestHandler.Reject)
	admin.GET("/students", studentHandler.List)
	admin.POST("/students", studentHandler.Create)
	admin.GET("/students/:id", studentHandler.Get)
	admin.PUT("/students/:id", studentHandler.Update)
	admin.DELETE("/students/:id", studentHandler.Delete)
	admin.GET("/students/:id/usage-report", studentHandler.UsageReport)
	admin.GET("/hotspot-config", configHandler.Get)
	admin.PUT("/hotspot-config", configHandler.Update)

	addr := fmt.Sprintf(":%d", cfg.Port)
	logr.Sugar().Infow("server starting", "addr", addr, "env", cfg.Env)
	if err := r.Run(addr); err != nil {
		logr.Sugar().Fatalw("server failed", "error", err)
	}
}
