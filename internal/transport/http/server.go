package http

import (
	"context"
	"errors"
	"fmt"
	stdhttp "net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/gowtham-garimella/pixora/internal/cache"
	"github.com/gowtham-garimella/pixora/internal/config"
	"github.com/gowtham-garimella/pixora/internal/database"
	"github.com/gowtham-garimella/pixora/internal/handler"
	"github.com/gowtham-garimella/pixora/internal/queue"
	redisclient "github.com/gowtham-garimella/pixora/internal/redis"
	"github.com/gowtham-garimella/pixora/internal/repository"
	"github.com/gowtham-garimella/pixora/internal/service"
	"github.com/gowtham-garimella/pixora/internal/transport/http/middleware"
	"github.com/gowtham-garimella/pixora/internal/worker"
)

const shutdownTimeout = 5 * time.Second

// Run wires every component, serves until SIGINT/SIGTERM and then shuts down gracefully.
func Run(cfg *config.Config) error {
	ctx := context.Background()

	db, err := database.Connect(cfg)
	if err != nil {
		return err
	}
	defer db.Close()

	if err := database.Migrate(ctx, db); err != nil {
		return err
	}

	userRepo := repository.NewUserRepository(db)
	postRepo := repository.NewPostRepository(db)
	likeRepo := repository.NewLikeRepository(db)
	commentRepo := repository.NewCommentRepository(db)

	// Activity pipeline (optional)
	var (
		publisher     queue.Publisher
		activityCache cache.ActivityCache
		manager       *worker.Manager
		trimmer       *worker.Trimmer
	)
	if cfg.ActivityEnabled() {
		rc, err := redisclient.NewClient(cfg.RedisURL)
		if err != nil {
			return err
		}
		defer rc.Close()

		if err := rc.Ping(ctx); err != nil {
			return err
		}

		redisPublisher := queue.NewPublisher(rc.Client)
		publisher = redisPublisher
		activityCache = cache.NewActivityCache(rc.Client)

		managerCfg := worker.DefaultManagerConfig()
		managerCfg.WorkerCount = cfg.WorkerCount
		manager = worker.NewManager(queue.NewConsumer(rc.Client), worker.NewHandler(activityCache), managerCfg)
		if err := manager.Start(ctx); err != nil {
			return fmt.Errorf("start activity workers: %w", err)
		}
		defer manager.Stop()

		trimmer, err = worker.NewTrimmer(redisPublisher, cfg.StreamTrimSchedule, cfg.StreamMaxLen)
		if err != nil {
			return err
		}
		trimmer.Start()
		defer trimmer.Stop()
	} else {
		log.Warn().Msg("REDIS_URL not set, activity pipeline disabled")
	}

	// Avatar storage (optional)
	var mediaService *service.MediaService
	if cfg.MediaEnabled() {
		mediaService, err = service.NewMediaService(ctx, cfg)
		if err != nil {
			return err
		}
	} else {
		log.Warn().Msg("R2 storage not configured, avatar upload disabled")
	}

	aggregator := service.NewFeedAggregator(likeRepo, commentRepo)
	authService := service.NewAuthService(cfg.JWTSecret, cfg.TokenTTL)
	userService := service.NewUserService(userRepo, postRepo, likeRepo)
	postService := service.NewPostService(postRepo, likeRepo, aggregator, publisher)
	commentService := service.NewCommentService(commentRepo, postRepo, aggregator, publisher)
	activityService := service.NewActivityService(activityCache)

	router := NewRouter(RouterConfig{
		AuthHandler:    handler.NewAuthHandler(userService, authService),
		UserHandler:    handler.NewUserHandler(userService, activityService, mediaService),
		PostHandler:    handler.NewPostHandler(postService),
		CommentHandler: handler.NewCommentHandler(commentService),
		Auth:           middleware.AuthMiddleware(authService, userRepo),
		APIPrefix:      cfg.APIPrefix,
		AllowedOrigins: cfg.AllowedOrigins(),
	})

	srv := &stdhttp.Server{
		Addr:              ":" + cfg.ServerPort,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	serverErr := make(chan error, 1)
	go func() {
		log.Info().Str("addr", srv.Addr).Str("api_prefix", cfg.APIPrefix).Msg("Server starting")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, stdhttp.ErrServerClosed) {
			serverErr <- err
		}
		close(serverErr)
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-serverErr:
		return fmt.Errorf("listen: %w", err)
	case sig := <-quit:
		log.Info().Str("signal", sig.String()).Msg("Shutting down server")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server forced to shutdown: %w", err)
	}

	log.Info().Msg("Server exited")
	return nil
}
