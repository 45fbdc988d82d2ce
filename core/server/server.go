package server

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/hibiken/asynq"
	"github.com/labstack/echo/v4"
	echoMiddleware "github.com/labstack/echo/v4/middleware"

	"meetsync/core/cache"
	"meetsync/core/config"
	"meetsync/core/database"
	"meetsync/core/logger"
	"meetsync/core/middleware"
	"meetsync/core/queue"
	"meetsync/core/storage"
	"meetsync/modules/auth"
	"meetsync/modules/calendar"
	"meetsync/modules/conflict"
	"meetsync/modules/group"
	"meetsync/modules/meeting"
	"meetsync/modules/notification"
)

// Run boots the whole service: config, postgres, redis, the asynq worker
// and every HTTP module. It blocks until SIGINT/SIGTERM and then shuts
// down gracefully.
func Run() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	db, err := database.InitDB(cfg.Database)
	if err != nil {
		return fmt.Errorf("init database: %w", err)
	}

	c, err := cache.New(cfg.Redis)
	if err != nil {
		return fmt.Errorf("init cache: %w", err)
	}

	q := queue.New(cfg.Redis)
	defer q.Close()

	asynqServer, mux := queue.NewServer(cfg.Redis)

	store := storage.New(cfg.S3)

	e := echo.New()
	e.HideBanner = true
	e.Use(echoMiddleware.Recover())
	e.Use(echoMiddleware.CORS())

	mw := middleware.NewMiddleware()

	auth.Init(e, db, c, mw)
	groupSvc := group.Init(e, db, mw)
	notifSvc := notification.Init(e, db, mw)
	calendarRepo := calendar.Init(e, db, mw, q)
	conflict.Init(e, db, mw, calendarRepo, mux)
	meeting.Init(e, db, mw, groupSvc, notifSvc, store, q, c)

	mux.HandleFunc(queue.TaskMediaRelease, func(ctx context.Context, task *asynq.Task) error {
		var payload queue.MediaReleasePayload
		if err := json.Unmarshal(task.Payload(), &payload); err != nil {
			return err
		}
		return store.Delete(ctx, payload.URL)
	})

	go func() {
		if err := asynqServer.Run(mux); err != nil {
			logger.Error("Server:asynq", err)
		}
	}()

	addr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	go func() {
		if err := e.Start(addr); err != nil && err != http.ErrServerClosed {
			logger.Error("Server:echo", err)
		}
	}()
	logger.Info("Server started", "addr", addr)

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("Shutting down")
	asynqServer.Shutdown()

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return e.Shutdown(ctx)
}
