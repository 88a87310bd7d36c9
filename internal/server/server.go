package server

import (
	"log"
	"strings"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/meilisearch/meilisearch-go"
	"github.com/moyora/dinner-api/internal/config"
	"github.com/moyora/dinner-api/internal/handler"
	"github.com/moyora/dinner-api/internal/middleware"
	"github.com/moyora/dinner-api/internal/repository"
	"github.com/moyora/dinner-api/internal/service"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

type Server struct {
	engine *gin.Engine
	cfg    *config.Config
}

func NewServer(cfg *config.Config, db *gorm.DB, redisClient *redis.Client) *Server {
	userRepo := repository.NewUserRepository(db)
	eventRepo := repository.NewEventRepository(db)
	participationRepo := repository.NewParticipationRepository(db)
	stagePointRepo := repository.NewStagePointRepository(db)
	reviewRepo := repository.NewReviewRepository(db)
	matchRepo := repository.NewMatchRepository(db)
	notificationRepo := repository.NewNotificationRepository(db)

	notificationSvc := service.NewNotificationService(notificationRepo, redisClient)
	notificationHandler := handler.NewNotificationHandler(notificationSvc)

	stageSvc := service.NewStageService(stagePointRepo, userRepo, cfg.StageThresholds, notificationSvc)
	stageHandler := handler.NewStageHandler(stageSvc)

	var searchSvc service.EventSearchService
	if cfg.MeiliSearchHost != "" {
		meiliHost := cfg.MeiliSearchHost
		if !strings.HasPrefix(meiliHost, "http") {
			meiliHost = "http://" + meiliHost + ":7700"
		}
		meiliClient := meilisearch.New(meiliHost, meilisearch.WithAPIKey(cfg.MeiliMasterKey))
		searchSvc = service.NewEventSearchService(meiliClient)
	} else {
		log.Println("MEILISEARCH_HOST not set, event search falls back to database")
	}

	gate := service.EligibilityGate{EntryCutoff: cfg.EntryCutoff}

	participationSvc := service.NewParticipationService(
		participationRepo, eventRepo, userRepo, stageSvc, gate,
		redisClient, cfg.LateCancelWindow, cfg.RateLimitEntry,
	)
	participationHandler := handler.NewParticipationHandler(participationSvc)

	eventSvc := service.NewEventService(eventRepo, participationRepo, matchRepo, stageSvc, notificationSvc, searchSvc)
	eventHandler := handler.NewEventHandler(eventSvc)

	reviewSvc := service.NewReviewService(reviewRepo, matchRepo, eventRepo, stageSvc, cfg.ReviewOpenDelay)
	reviewHandler := handler.NewReviewHandler(reviewSvc)

	authMiddleware := middleware.NewAuthMiddleware(userRepo, cfg.JWTSecret)

	engine := gin.Default()

	allowedOrigins := strings.Split(cfg.AllowedOrigins, ",")
	for i, origin := range allowedOrigins {
		allowedOrigins[i] = strings.TrimSpace(origin)
	}
	engine.Use(cors.New(cors.Config{
		AllowOrigins:     allowedOrigins,
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	api := engine.Group("/api")
	api.Use(authMiddleware.RequireAuth())
	{
		admin := api.Group("/admin")
		admin.Use(authMiddleware.RequireAdmin())
		{
			admin.POST("/events", eventHandler.Create)
			admin.POST("/events/:id/match", eventHandler.Match)
			admin.POST("/events/:id/complete", eventHandler.Complete)
			admin.POST("/events/:id/cancel", eventHandler.Cancel)
		}

		api.GET("/events", eventHandler.List)
		api.POST("/events/:id/entries", participationHandler.Entry)

		api.GET("/participations/me", participationHandler.ListMine)
		api.DELETE("/participations/:id", participationHandler.Cancel)
		api.PATCH("/participations/:id/attendance", participationHandler.UpdateAttendance)

		api.GET("/invites/:code", participationHandler.ResolveInvite)
		api.POST("/invites/:code/accept", participationHandler.AcceptInvite)

		api.POST("/reviews", reviewHandler.Submit)
		api.GET("/reviews/received", reviewHandler.ListReceived)

		profile := api.Group("/profile")
		{
			profile.GET("/stage", stageHandler.Status)
			profile.GET("/stage/history", stageHandler.History)
		}

		notifications := api.Group("/notifications")
		{
			notifications.GET("", notificationHandler.List)
			notifications.GET("/unread", notificationHandler.UnreadCount)
			notifications.PATCH("/:id/read", notificationHandler.MarkAsRead)
			notifications.PATCH("/read-all", notificationHandler.MarkAllAsRead)
		}
	}

	return &Server{engine: engine, cfg: cfg}
}

func (s *Server) Run() error {
	return s.engine.Run(":" + s.cfg.Port)
}
