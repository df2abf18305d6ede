package main

import (
	"bitwise74/recipe-api/app"
	"bitwise74/recipe-api/config"
	"bitwise74/recipe-api/db"
	"bitwise74/recipe-api/internal"
	"bitwise74/recipe-api/internal/repository"
	"bitwise74/recipe-api/internal/service"
	"bitwise74/recipe-api/internal/storage"
	"bitwise74/recipe-api/pkg/middleware"
	"bitwise74/recipe-api/pkg/security"
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

func main() {
	gin.SetMode(gin.ReleaseMode)

	cfg, err := config.Setup()
	if err != nil {
		panic(err)
	}

	if err := app.MakeLogger(cfg.App.LogLevel); err != nil {
		panic(err)
	}
	defer zap.L().Sync()

	if err := run(cfg); err != nil {
		zap.L().Fatal("Server stopped", zap.Error(err))
	}
}

func run(cfg *config.Config) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	database, err := db.New(cfg.DB.Driver, cfg.DB.DSN)
	if err != nil {
		return err
	}

	hasher, err := security.NewHasher(cfg.Security.PasswordHasher)
	if err != nil {
		return err
	}

	users := repository.NewUsers(database, hasher)

	if cfg.SuperuserEmail != "" {
		user, err := users.CreateSuperuser(ctx, cfg.SuperuserEmail, cfg.SuperuserPassword)
		if err != nil {
			return fmt.Errorf("failed to create superuser, %w", err)
		}

		zap.L().Info("Superuser created", zap.String("userID", user.ID), zap.String("email", user.Email))
		return nil
	}

	store, err := newStorage(ctx, cfg)
	if err != nil {
		return err
	}

	tokens := repository.NewTokens(database, security.NewTokenIssuer(cfg.Security.TokenSecret, cfg.Security.TokenTTL))

	d := &internal.Deps{
		DB:           database,
		Users:        users,
		Recipes:      repository.NewRecipes(database),
		Tokens:       tokens,
		Storage:      store,
		MaxImageSize: cfg.Storage.MaxImageSize,
		MediaURL:     cfg.Storage.PublicURL,
	}

	limiter, closeLimiter := newLimiter(cfg)
	defer closeLimiter()

	cleanup, err := service.TokenCleanup(cfg.Cleanup.Schedule, tokens)
	if err != nil {
		return err
	}
	defer cleanup.Stop()

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Host.Port),
		Handler:           app.NewRouter(cfg, d, limiter),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		zap.L().Info("Server starting", zap.String("addr", srv.Addr), zap.Bool("ssl", cfg.Host.SSL.Enabled))

		if cfg.Host.SSL.Enabled {
			errCh <- srv.ListenAndServeTLS(cfg.Host.SSL.CertificatePath, cfg.Host.SSL.CertificateKeyPath)
			return
		}

		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	case <-ctx.Done():
	}

	zap.L().Info("Shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	return srv.Shutdown(shutdownCtx)
}

func newStorage(ctx context.Context, cfg *config.Config) (storage.Storage, error) {
	switch cfg.Storage.Type {
	case "s3":
		s, err := storage.NewS3(ctx, storage.S3Config{
			Region:          cfg.S3.Region,
			Bucket:          cfg.S3.Bucket,
			AccessKeyID:     cfg.S3.AccessKeyID,
			SecretAccessKey: cfg.S3.SecretAccessKey,
			AccountID:       cfg.Cloudflare.AccountID,
		})
		if err != nil {
			return nil, fmt.Errorf("failed to initialize S3 client, %w", err)
		}
		return s, nil
	default:
		return storage.NewLocal(cfg.Storage.LocalPath)
	}
}

// newLimiter returns a nil limiter when rate limiting is disabled
func newLimiter(cfg *config.Config) (middleware.Limiter, func()) {
	if cfg.Security.RateLimit == 0 {
		return nil, func() {}
	}

	if cfg.RateLimit.Backend == "redis" {
		client := redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})

		return middleware.NewRedisLimiter(client, cfg.Security.RateLimit, time.Second), func() { client.Close() }
	}

	l := middleware.NewMemoryLimiter(middleware.RateLimiterConfig{
		RequestsPerSecond: cfg.Security.RateLimit,
		Burst:             cfg.Security.RateLimit * 2,
	})

	return l, func() { l.Close() }
}
