package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/hibiken/asynq"
	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"

	"github.com/apexcoatings/backoffice/internal/api"
	"github.com/apexcoatings/backoffice/internal/auth"
	"github.com/apexcoatings/backoffice/internal/database"
	"github.com/apexcoatings/backoffice/internal/shop"
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

	logger.Info("starting backoffice server",
		"env", cfg.Server.Env,
		"addr", cfg.Server.Addr(),
	)

	db, err := database.Connect(&cfg.Database, logger)
	if err != nil {
		logger.Error("failed to connect to database", "error", err)
		os.Exit(1)
	}

	if err := database.AutoMigrate(db); err != nil {
		logger.Error("failed to run migrations", "error", err)
		os.Exit(1)
	}

	redisClient := redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.Addr(),
		Password: cfg.Redis.Password,
	})
	if err := redisClient.Ping(context.Background()).Err(); err != nil {
		logger.Warn("failed to connect to Redis, imports will be unavailable", "error", err)
		redisClient = nil
	}

	var asynqClient *asynq.Client
	if redisClient != nil {
		asynqClient = queue.NewClient(&cfg.Redis)
	}

	encryptor, err := crypto.NewEncryptor(cfg.Encryption.Key)
	if err != nil {
		logger.Error("failed to create encryptor", "error", err)
		os.Exit(1)
	}
	if cfg.Encryption.Key == "" {
		logger.Warn("ENCRYPTION_KEY not set, using generated key - federated sessions will not survive a restart")
	}

	// OIDC is optional; without it the federated routes answer 404 and the
	// local strategies still work.
	var authenticator *auth.Authenticator
	if cfg.OIDC.Enabled() {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		authenticator, err = auth.NewAuthenticator(ctx, &cfg.OIDC, cfg.Session.Secret)
		cancel()
		if err != nil {
			logger.Error("failed to configure oidc provider", "error", err)
			os.Exit(1)
		}
		logger.Info("federated login enabled", "issuer", cfg.OIDC.IssuerURL)
	}

	var refresher auth.TokenRefresher
	if authenticator != nil {
		refresher = authenticator
	}
	sessions := auth.NewSessions(db, encryptor, cfg.Session.TTL(), refresher)
	authService := auth.NewService(db, cfg.LocalAdmin.Password)
	shopService := shop.NewService(db, logger)

	router := api.NewRouter(api.RouterConfig{
		DB:            db,
		Redis:         redisClient,
		Logger:        logger,
		Sessions:      sessions,
		AuthService:   authService,
		ShopService:   shopService,
		Authenticator: authenticator,
		AsynqClient:   asynqClient,
		SecureCookies: cfg.Server.IsProduction(),
		EnableCSRF:    true,
		RateLimitReqs: cfg.RateLimit.Requests,
		RateLimitSecs: cfg.RateLimit.WindowSeconds,
	})

	server := &http.Server{
		Addr:         cfg.Server.Addr(),
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		logger.Info("server listening", "addr", cfg.Server.Addr())
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("server error", "error", err)
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		logger.Error("server shutdown error", "error", err)
	}

	if asynqClient != nil {
		asynqClient.Close()
	}
	if redisClient != nil {
		redisClient.Close()
	}

	sqlDB, _ := db.DB()
	sqlDB.Close()

	logger.Info("server stopped")
}
