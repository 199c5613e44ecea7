package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/getsentry/sentry-go"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/d60-Lab/jam/config"
	"github.com/d60-Lab/jam/internal/api"
	"github.com/d60-Lab/jam/internal/api/handler"
	"github.com/d60-Lab/jam/internal/identity"
	"github.com/d60-Lab/jam/internal/presence"
	"github.com/d60-Lab/jam/internal/repository"
	"github.com/d60-Lab/jam/internal/service"
	"github.com/d60-Lab/jam/pkg/database"
	"github.com/d60-Lab/jam/pkg/logger"
	"github.com/d60-Lab/jam/pkg/tracing"
)

// @title Jam API
// @version 1.0
// @description 语音社交服务端
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintln(os.Stderr, "load config:", err)
		os.Exit(1)
	}
	if err := logger.Init(cfg.Log.Level); err != nil {
		fmt.Fprintln(os.Stderr, "init logger:", err)
		os.Exit(1)
	}
	defer logger.Sync()

	if cfg.Sentry.DSN != "" {
		if err := sentry.Init(sentry.ClientOptions{Dsn: cfg.Sentry.DSN}); err != nil {
			logger.Warn("sentry init failed", zap.Error(err))
		} else {
			defer sentry.Flush(2 * time.Second)
		}
	}

	ctx := context.Background()
	shutdownTracing, err := tracing.Init(ctx, "jam-api", cfg.Tracing.Endpoint)
	if err != nil {
		logger.Warn("tracing init failed", zap.Error(err))
	} else {
		defer shutdownTracing(ctx)
	}

	db, err := database.InitDB(cfg)
	if err != nil {
		logger.Error("database init failed", zap.Error(err))
		os.Exit(1)
	}

	var tracker *presence.Tracker
	if cfg.Redis.Addr != "" {
		rdb := redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		if err := rdb.Ping(ctx).Err(); err != nil {
			logger.Warn("redis unreachable, presence disabled", zap.Error(err))
		} else {
			tracker = presence.NewTracker(rdb, cfg.Redis.PresenceTTL)
		}
	}

	provider := identity.NewClient(cfg.Auth.ProviderURL, cfg.Auth.ServiceKey)
	verifier := identity.NewJWTVerifier(cfg.Auth.JWTSecret)

	profileRepo := repository.NewProfileRepository(db)
	postRepo := repository.NewPostRepository(db)
	likeRepo := repository.NewLikeRepository(db)
	followRepo := repository.NewFollowRepository(db)
	friendRepo := repository.NewFriendRepository(db)
	blockRepo := repository.NewBlockRepository(db)
	convRepo := repository.NewConversationRepository(db)
	messageRepo := repository.NewMessageRepository(db)

	rt := cfg.Server.ReadTimeout
	h := handler.New(
		service.NewAuthService(provider, profileRepo, rt),
		service.NewProfileService(profileRepo),
		service.NewPostService(postRepo, likeRepo, profileRepo, rt),
		service.NewFollowService(followRepo, rt),
		service.NewFriendService(friendRepo, profileRepo, rt),
		service.NewBlockService(blockRepo, rt),
		service.NewMessageService(messageRepo, convRepo, profileRepo, friendRepo, blockRepo, rt),
		service.NewUserService(profileRepo, tracker, rt),
	)

	srv := &http.Server{
		Addr:    fmt.Sprintf(":%d", cfg.Server.Port),
		Handler: api.NewRouter(cfg, h, verifier, tracker),
	}

	go func() {
		logger.Info("server starting", zap.Int("port", cfg.Server.Port))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("server error", zap.Error(err))
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("shutdown failed", zap.Error(err))
	}
}
