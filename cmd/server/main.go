// Package main runs the superlatives game HTTP server with WebSocket and graceful shutdown.
package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/gradnight/superlatives/config"
	"github.com/gradnight/superlatives/internal/identity"
	"github.com/gradnight/superlatives/internal/middleware"
	"github.com/gradnight/superlatives/internal/models"
	"github.com/gradnight/superlatives/internal/presence"
	"github.com/gradnight/superlatives/internal/realtime"
	"github.com/gradnight/superlatives/internal/session"
	"github.com/gradnight/superlatives/internal/stats"
	"github.com/gradnight/superlatives/internal/superlatives"
	"github.com/gradnight/superlatives/internal/votes"
	"github.com/gradnight/superlatives/pkg/database"
	"github.com/gradnight/superlatives/pkg/redis"
	"github.com/gradnight/superlatives/pkg/response"
	"github.com/gradnight/superlatives/pkg/storage"
)

func main() {
	logger := newLogger()
	defer logger.Sync()

	cfg, err := config.Load()
	if err != nil {
		logger.Fatal("load config", zap.Error(err))
	}

	ctx := context.Background()
	pool, err := database.NewPostgresPool(ctx, cfg.Database.DSN(), logger)
	if err != nil {
		logger.Fatal("database", zap.Error(err))
	}
	defer pool.Close()

	if err := database.Migrate(ctx, pool); err != nil {
		logger.Fatal("migrate", zap.Error(err))
	}

	rdb, err := redis.NewClient(ctx, cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB, logger)
	if err != nil {
		logger.Fatal("redis", zap.Error(err))
	}
	defer rdb.Close()

	var s3Client *storage.S3
	if cfg.AWS.Region != "" {
		s3Cfg := storage.S3Config{
			Region:               cfg.AWS.Region,
			AccessKeyID:          cfg.AWS.AccessKeyID,
			SecretAccessKey:      cfg.AWS.SecretAccessKey,
			ImagesBucket:         cfg.AWS.ImagesBucket,
			PresignExpireMinutes: cfg.AWS.PresignExpireMinutes,
		}
		s3Client, err = storage.NewS3(ctx, s3Cfg, logger)
		if err != nil {
			logger.Warn("s3 disabled", zap.Error(err))
		}
	}

	jwtService := identity.NewJWTService(cfg.JWT.Secret, cfg.JWT.ExpireHours)
	redisPubSub := realtime.NewRedisPubSub(rdb.Client, logger)
	hub := realtime.NewHub(logger, redisPubSub, redisPubSub)

	// Identity
	identityRepo := identity.NewRepository(pool)
	identityHandler := identity.NewHandler(identityRepo, jwtService, cfg.Session.AdminPasscode, logger)

	// Session state (single shared row)
	sessionRepo := session.NewRepository(pool)
	if err := sessionRepo.SetJoinURL(ctx, cfg.Session.JoinURL); err != nil {
		logger.Warn("persist join url", zap.Error(err))
	}

	// Superlative catalog
	catalogRepo := superlatives.NewRepository(pool)
	catalogHandler := superlatives.NewHandler(catalogRepo, sessionRepo, s3Client, logger)

	// Votes
	voteRepo := votes.NewRepository(pool)
	voteHandler := votes.NewHandler(voteRepo, sessionRepo, catalogRepo, hub, logger)

	// Session transitions, reveal, summary
	sessionHandler := session.NewHandler(sessionRepo, catalogRepo, voteRepo, hub, cfg.Session.JoinURL, logger)

	// Presence (attendee list from join/leave logs)
	presenceRepo := presence.NewRepository(pool)
	presenceHandler := presence.NewHandler(presenceRepo)
	hub.SetPresenceHandlers(
		func(c *realtime.Client) { _ = presenceRepo.LogJoin(context.Background(), c.ParticipantID) },
		func(c *realtime.Client) { _ = presenceRepo.LogLeave(context.Background(), c.ParticipantID) },
	)

	// Participation stats
	statsHandler := stats.NewHandler(pool)

	jwtValidate := func(token string) (uuid.UUID, string, models.Role, error) {
		claims, err := jwtService.Validate(token)
		if err != nil {
			return uuid.Nil, "", "", err
		}
		return claims.ParticipantID, claims.Name, claims.Role, nil
	}

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.CORS(cfg.Server.CORSAllowedOrigins))
	router.Use(middleware.Logger(logger))

	// Health
	router.GET("/health", func(c *gin.Context) { response.OK(c, gin.H{"status": "ok"}) })

	// Join (public: this is how a device gets its token)
	router.POST("/session/join", identityHandler.Join)

	// Protected API (participant token required)
	api := router.Group("")
	api.Use(middleware.JWT(jwtService))
	{
		// Shared session cursor
		api.GET("/session", sessionHandler.Get)
		api.GET("/session/summary", sessionHandler.Summary)
		api.GET("/session/qr", sessionHandler.JoinQR)

		// Voting
		api.POST("/session/vote", voteHandler.Cast)
		api.GET("/session/my-vote", voteHandler.MyVote)

		// Catalog reads (the big screen and rejoining devices need these)
		api.GET("/superlatives", catalogHandler.List)
		api.GET("/superlatives/:id", catalogHandler.Get)
		api.GET("/superlatives/:id/nominees/:name/image-url", catalogHandler.NomineeImageURL)

		// Admin: catalog setup
		admin := api.Group("", middleware.RequireRole("admin"))
		{
			admin.POST("/superlatives", catalogHandler.Create)
			admin.PATCH("/superlatives/:id", catalogHandler.Update)
			admin.DELETE("/superlatives/:id", catalogHandler.Delete)
			admin.POST("/superlatives/:id/duplicate", catalogHandler.Duplicate)
			admin.POST("/superlatives/:id/nominees/:name/image", catalogHandler.UploadNomineeImage)

			// Admin: session drive
			admin.POST("/session/start", sessionHandler.Start)
			admin.POST("/session/reveal", sessionHandler.Reveal)
			admin.POST("/session/next", sessionHandler.Next)
			admin.POST("/session/previous", sessionHandler.Previous)
			admin.POST("/session/goto", sessionHandler.GoToIndex)
			admin.POST("/session/reset-results", sessionHandler.ResetResults)
			admin.POST("/session/complete", sessionHandler.Complete)
			admin.POST("/session/full-reset", sessionHandler.FullReset)

			// Admin: read models
			admin.GET("/participants", identityHandler.List)
			admin.GET("/session/attendees", presenceHandler.Attendees)
			admin.GET("/session/stats", statsHandler.Get)
		}
	}

	// WebSocket (token in query; no Authorization header required)
	router.GET("/ws", realtime.ServeWs(hub, logger, jwtValidate))

	srv := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      router,
		ReadTimeout:  time.Duration(cfg.Server.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(cfg.Server.WriteTimeout) * time.Second,
	}

	go func() {
		logger.Info("server listening", zap.String("port", cfg.Server.Port))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("server", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("server shutdown", zap.Error(err))
	}
	logger.Info("server stopped")
}

func newLogger() *zap.Logger {
	config := zap.NewProductionConfig()
	config.EncoderConfig.TimeKey = "timestamp"
	config.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	logger, _ := config.Build()
	return logger
}
