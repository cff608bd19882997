package main

import (
	"fmt"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/studysmarter/studysmarter-api/internal/handler"
	"github.com/studysmarter/studysmarter-api/internal/middleware"
	"github.com/studysmarter/studysmarter-api/internal/repository"
	"github.com/studysmarter/studysmarter-api/internal/service"
	"github.com/studysmarter/studysmarter-api/pkg/cache"
	"github.com/studysmarter/studysmarter-api/pkg/config"
	"github.com/studysmarter/studysmarter-api/pkg/database"
	"github.com/studysmarter/studysmarter-api/pkg/logger"
	corsmiddleware "github.com/studysmarter/studysmarter-api/pkg/middleware/cors"
	reqidmiddleware "github.com/studysmarter/studysmarter-api/pkg/middleware/requestid"
)

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
		logr.Sugar().Fatalw("failed to connect to database", "error", err)
	}
	defer db.Close()

	var revocationStore repository.RevocationStore = repository.NewMemoryRevocationStore()
	if cfg.Redis.Enabled {
		redisClient, err := cache.NewRedis(cfg.Redis)
		if err != nil {
			logr.Sugar().Fatalw("failed to connect to redis", "error", err)
		}
		defer redisClient.Close()
		revocationStore = repository.NewRedisRevocationStore(redisClient)
	}

	metricsSvc := service.NewMetricsService()

	roomRepo := repository.NewRoomRepository(db, metricsSvc)
	userRepo := repository.NewUserRepository(db, metricsSvc)

	roomSvc := service.NewRoomService(roomRepo, userRepo, logr)
	authSvc := service.NewAuthService(userRepo, revocationStore, nil, logr, service.AuthConfig{
		Secret:     cfg.JWT.Secret,
		Expiration: cfg.JWT.Expiration,
		Issuer:     cfg.JWT.Issuer,
	})

	roomHandler := handler.NewRoomHandler(roomSvc)
	authHandler := handler.NewAuthHandler(authSvc)

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
	r.GET("/metrics", gin.WrapH(metricsSvc.Handler()))

	api := r.Group(cfg.APIPrefix)

	auth := api.Group("/auth")
	auth.POST("/register", authHandler.Register)
	auth.POST("/login", authHandler.Login)
	auth.POST("/logout", middleware.JWT(authSvc), authHandler.Logout)
	auth.GET("/me", middleware.JWT(authSvc), authHandler.Me)

	rooms := api.Group("/rooms", middleware.JWT(authSvc))
	rooms.POST("", roomHandler.Create)
	rooms.GET("", roomHandler.List)
	rooms.GET("/:id", roomHandler.Get)
	rooms.PUT("/:id", roomHandler.Update)
	rooms.PATCH("/:id", roomHandler.Update)

	addr := fmt.Sprintf(":%d", cfg.Port)
	logr.Sugar().Infow("server starting", "addr", addr, "env", cfg.Env)
	if err := r.Run(addr); err != nil {
		logr.Sugar().Fatalw("server failed", "error", err)
	}
}
