package main

import (
	"context"
	"database/sql"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/redis/go-redis/v9"

	"linkup/internal/app/registry"
	"linkup/internal/app/room"
	"linkup/internal/app/server"
	"linkup/internal/config"
	"linkup/internal/core/services"
	"linkup/internal/platform/logger"
	"linkup/internal/platform/telemetry"
	"linkup/internal/plugins/blob"
	"linkup/internal/plugins/postgres"
	redisPlugin "linkup/internal/plugins/redis"
)

func main() {
	// Context
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Config
	cfg := config.Load()

	// Logger
	log := logger.NewLogger(*cfg)
	log.Info("starting application")

	otelShutdown, err := telemetry.InitTelemetry(ctx, *cfg)
	if err != nil {
		log.Error("failed to initialize telemetry", "err", err)
	}
	defer func() {
		log.Info("flushing telemetry...")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := otelShutdown(shutdownCtx); err != nil {
			log.Error("telemetry shutdown failed", "err", err)
		}
	}()

	// Infra
	var pdb *sql.DB
	if pdb, err = postgres.New(ctx, *cfg.Postgres); err != nil {
		log.Error("postgres connection failed", "err", err)
		return
	}
	defer pdb.Close()
	log.Info("postgres connected")

	var rdb *redis.Client
	if rdb, err = redisPlugin.NewRedisClient(ctx, *cfg.Redis); err != nil {
		log.Error("redis connection failed", "url", cfg.Redis.URL)
		return
	}
	defer rdb.Close()
	log.Info("redis connected")

	blobStore, err := blob.New(*cfg.Blob)
	if err != nil {
		log.Error("blob store init failed", "dir", cfg.Blob.Dir, "err", err)
		return
	}

	// Adapters
	userRepo := postgres.NewUserRepository(pdb)
	profileRepo := postgres.NewProfileRepository(pdb)
	notificationRepo := postgres.NewNotificationRepository(pdb)
	friendRepo := postgres.NewFriendRepository(pdb)
	followRepo := postgres.NewFollowRepository(pdb)
	convRepo := postgres.NewConversationRepository(pdb)
	msgRepo := postgres.NewMessageRepository(pdb)
	postRepo := postgres.NewPostRepository(pdb)
	commentRepo := postgres.NewCommentRepository(pdb)
	reactionRepo := postgres.NewReactionRepository(pdb)
	txManager := postgres.NewTxManager(pdb)
	unreadCache := redisPlugin.NewUnreadCountCache(rdb)
	presenceStore := redisPlugin.NewRedisPresenceStore(rdb)

	// Core services
	hub := registry.NewRegistry(log)
	roomStore := room.NewStore()

	tokenSvc := services.NewTokenService(cfg.SecretToken)
	notificationSvc := services.NewNotificationService(log, notificationRepo, hub, unreadCache, txManager)
	userSvc := services.NewUserService(log, userRepo, profileRepo, notificationSvc, txManager)
	friendSvc := services.NewFriendService(log, friendRepo, notificationSvc, hub, txManager)
	followSvc := services.NewFollowService(log, followRepo, notificationSvc, txManager)
	msgSvc := services.NewMessageService(log, msgRepo, profileRepo, convRepo, hub, txManager)
	postSvc := services.NewPostService(log, postRepo, commentRepo, reactionRepo, notificationSvc, txManager)
	chatSvc := services.NewChatService(log, roomStore, hub, blobStore, presenceStore)

	// Server
	srv := server.NewServer(cfg.Service.Addr, log, server.Services{
		Users:         userSvc,
		Tokens:        tokenSvc,
		Notifications: notificationSvc,
		Friends:       friendSvc,
		Follows:       followSvc,
		Messages:      msgSvc,
		Posts:         postSvc,
		Chat:          chatSvc,
	}, hub, blobStore)

	go func() {
		if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error("server failed", "err", err)
			stop()
		}
	}()

	<-ctx.Done()
	log.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("server shutdown failed", "err", err)
	}
}
