// Package elibrary собирает основное приложение: хранилище, кеш,
// объектное хранилище, сервисы и HTTP-сервер.
package elibrary

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi"

	"github.com/axmetovrr/elibrary/internal/cache"
	"github.com/axmetovrr/elibrary/internal/config"
	"github.com/axmetovrr/elibrary/internal/lib/jwt"
	"github.com/axmetovrr/elibrary/internal/migrations"
	"github.com/axmetovrr/elibrary/internal/objectstore"
	accessservice "github.com/axmetovrr/elibrary/internal/services/access"
	authservice "github.com/axmetovrr/elibrary/internal/services/auth"
	catalogservice "github.com/axmetovrr/elibrary/internal/services/catalog"
	downloadservice "github.com/axmetovrr/elibrary/internal/services/download"
	institutionservice "github.com/axmetovrr/elibrary/internal/services/institution"
	subscriptionservice "github.com/axmetovrr/elibrary/internal/services/subscription"
	"github.com/axmetovrr/elibrary/internal/storage/repository"
)

// App инкапсулирует HTTP-сервер и его зависимости.
type App struct {
	server *http.Server
	logger *slog.Logger
	db     *repository.Storage
}

// New инициализирует зависимости и собирает приложение.
func New(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*App, error) {
	db, err := repository.New(cfg.StorageConnectionString)
	if err != nil {
		return nil, err
	}
	if err = migrations.Run(db.DB, cfg.MigrationsPath); err != nil {
		return nil, err
	}

	cacheRedis, err := cache.InitServer(ctx, cfg.RedisConnection)
	if err != nil {
		return nil, err
	}

	store, err := objectstore.New(ctx, cfg.ObjectStorage)
	if err != nil {
		return nil, err
	}

	jwtMaker := jwt.NewJWTMaker(cfg.JWTSecretKey, cfg.TokenTTL)

	authService := authservice.NewAuthService(db, db, cacheRedis, jwtMaker, cfg.RefreshTTL)
	accessService := accessservice.NewAccessService(db, logger)
	downloadService := downloadservice.NewDownloadService(db, accessService, store, logger)
	catalogService := catalogservice.NewCatalogService(db, store, cacheRedis, logger, cfg.MaxFileSizeBytes)
	subscriptionService := subscriptionservice.NewSubscriptionService(db, logger)
	institutionService := institutionservice.NewInstitutionService(db, logger)

	router := chi.NewRouter()
	RegisterRoutes(router, logger, &Services{
		Auth:         authService,
		Download:     downloadService,
		Catalog:      catalogService,
		Subscription: subscriptionService,
		Institution:  institutionService,
	})

	srv := &http.Server{
		Addr:         cfg.AddressHTTP,
		Handler:      router,
		ReadTimeout:  cfg.TimeoutHTTP,
		WriteTimeout: cfg.TimeoutHTTP,
		IdleTimeout:  cfg.IdleTimeout,
	}

	return &App{
		server: srv,
		logger: logger,
		db:     db,
	}, nil
}

// Run запускает HTTP-сервер и останавливает его при отмене контекста.
func (a *App) Run(ctx context.Context) error {
	errCh := make(chan error, 1)
	go func() {
		a.logger.Info("HTTP server starting on", slog.String("address", a.server.Addr))
		err := a.server.ListenAndServe()
		if errors.Is(err, http.ErrServerClosed) {
			errCh <- nil
		} else {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		timeoutCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancel()
		a.logger.Info("shutting down HTTP server gracefully")
		err := a.server.Shutdown(timeoutCtx)
		if closeErr := a.db.DB.Close(); closeErr != nil {
			a.logger.Error("failed to close database", slog.Any("err", closeErr))
		}
		return err
	}
}
