package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/hibiken/asynq"
	"github.com/joho/godotenv"

	"github.com/apexcoatings/backoffice/internal/auth"
	"github.com/apexcoatings/backoffice/internal/database"
	"github.com/apexcoatings/backoffice/internal/importer"
	"github.com/apexcoatings/backoffice/internal/tasks"
	"github.com/apexcoatings/backoffice/pkg/config"
	"github.com/apexcoatings/backoffice/pkg/crypto"
	"github.com/apexcoatings/backoffice/pkg/queue"
	"github.com/apexcoatings/backoffice/pkg/util"
)

func main() {
	// Load .env file
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	logger := util.NewLogger(cfg.Server.Env)
	slog.SetDefault(logger)

	logger.Info("starting backoffice worker")

	db, err := database.Connect(&cfg.Database, logger)
	if err != nil {
		logger.Error("failed to connect to database", "error", err)
		os.Exit(1)
	}

	encryptor, err := crypto.NewEncryptor(cfg.Encryption.Key)
	if err != nil {
		logger.Error("failed to create encryptor", "error", err)
		os.Exit(1)
	}

	sessions := auth.NewSessions(db, encryptor, cfg.Session.TTL(), nil)
	imp := importer.New(db, logger)

	srv := queue.NewServer(&cfg.Redis, 10)

	handler := tasks.NewHandler(imp, sessions, logger)
	mux := asynq.NewServeMux()
	handler.RegisterHandlers(mux)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Enqueue the expired-session purge on its cron schedule.
	if err := util.ValidateCronExpr(cfg.Session.PurgeSchedule); err != nil {
		logger.Error("invalid SESSION_PURGE_SCHEDULE", "error", err)
		os.Exit(1)
	}
	client := queue.NewClient(&cfg.Redis)
	go runPurgeSchedule(ctx, client, cfg.Session.PurgeSchedule, logger)

	go func() {
		quit := make(chan os.Signal, 1)
		signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
		<-quit
		logger.Info("shutting down worker...")
		srv.Shutdown()
		cancel()
	}()

	logger.Info("worker started, waiting for tasks...")

	if err := srv.Run(mux); err != nil {
		logger.Error("worker error", "error", err)
	}

	<-ctx.Done()

	client.Close()
	sqlDB, _ := db.DB()
	sqlDB.Close()

	logger.Info("worker stopped")
}

func runPurgeSchedule(ctx context.Context, client *asynq.Client, schedule string, logger *slog.Logger) {
	for {
		next, err := util.NextCronTime(schedule, time.Now())
		if err != nil {
			logger.Error("computing next purge time", "error", err)
			return
		}

		select {
		case <-ctx.Done():
			return
		case <-time.After(time.Until(next)):
		}

		if _, err := client.Enqueue(tasks.NewSessionPurgeTask(), asynq.Queue("low")); err != nil {
			logger.Error("enqueueing session purge", "error", err)
		}
	}
}
