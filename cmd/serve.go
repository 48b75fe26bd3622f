package cmd

import (
	"context"
	"log"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"taskforge.app/taskforge/internal/cache"
	config "taskforge.app/taskforge/internal/configs"
	httpapi "taskforge.app/taskforge/internal/http"
	model "taskforge.app/taskforge/internal/models"
	"taskforge.app/taskforge/internal/realtime"
	repository "taskforge.app/taskforge/internal/repositories"
	"taskforge.app/taskforge/internal/services"
	"taskforge.app/taskforge/internal/syncer"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP API server",
	Long:  "Starts the Task Forge HTTP API, cache mirror, change feed and reconciler",
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := godotenv.Load(); err != nil {
			log.Println(".env file not found, using environment variables")
		}

		cfg := config.Load()

		logger := config.NewLogger(cfg.LogFile)
		defer func() { _ = logger.Sync() }()

		database := config.NewDatabase(cfg.DatabaseDSN)

		redisClient := config.NewRedisClient(cfg.RedisAddr)
		defer redisClient.Close()

		publisher := realtime.NewPublisher(redisClient, logger)
		taskRepo := repository.NewTaskRepository(database, publisher)
		postRepo := repository.NewPostRepository(database, publisher)

		cacheStore := cache.NewRedisStore(redisClient, cfg.CacheKeyPrefix, logger)

		ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		store := services.NewStore(cacheStore, taskRepo, postRepo, logger)
		store.Load(ctx)

		taskService := services.NewTaskService(taskRepo, store, cacheStore, logger)
		postService := services.NewPostService(postRepo, store, cacheStore, logger)

		reconciler := syncer.New(
			cacheStore,
			taskRepo,
			postRepo,
			time.Duration(cfg.SyncIntervalSeconds)*time.Second,
			logger,
		)

		hub := realtime.NewHub(redisClient, logger)
		go func() {
			if err := hub.Run(ctx); err != nil {
				logger.Warnw("change feed stopped", "error", err)
			}
		}()

		// in-process consumer: any remote change invalidates the loaded
		// collection and triggers a full re-fetch.
		events, cancelEvents := hub.Subscribe()
		defer cancelEvents()
		go func() {
			for {
				select {
				case ev, ok := <-events:
					if !ok {
						return
					}
					refresh(ctx, store, ev.Table, logger)
				case <-ctx.Done():
					return
				}
			}
		}()

		e := echo.New()
		e.HideBanner = true

		handler := httpapi.NewHandler(taskService, postService, store, cacheStore, hub, time.Local)
		httpapi.Register(e, handler, cfg.RateLimit)

		go func() {
			logger.Infow("HTTP server listening", "addr", cfg.AppURL)
			if err := e.Start(cfg.AppURL); err != nil {
				logger.Infow("server stopped", "error", err)
			}
		}()

		<-ctx.Done()

		shutdownCtx, cancel := context.WithTimeout(
			context.Background(),
			time.Duration(cfg.ShutdownTimeoutSeconds)*time.Second,
		)
		defer cancel()

		_ = e.Shutdown(shutdownCtx)
		reconciler.Shutdown(shutdownCtx)

		logger.Infow("shut down gracefully")
		return nil
	},
}

func refresh(ctx context.Context, store *services.Store, kind model.Kind, logger *zap.SugaredLogger) {
	var err error
	switch kind {
	case model.KindTasks:
		err = store.RefreshTasks(ctx)
	case model.KindPosts:
		err = store.RefreshPosts(ctx)
	}
	if err != nil {
		logger.Warnw("refresh after change signal failed", "kind", kind, "error", err)
	}
}

func init() {
	rootCmd.AddCommand(serveCmd)
}
