// Package elibrary предоставляет маршруты для основного приложения.
package elibrary

import (
	"log/slog"

	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	httpSwagger "github.com/swaggo/http-swagger"

	_ "github.com/axmetovrr/elibrary/docs"
	"github.com/axmetovrr/elibrary/internal/http/handlers/auth/login"
	"github.com/axmetovrr/elibrary/internal/http/handlers/auth/logout"
	"github.com/axmetovrr/elibrary/internal/http/handlers/auth/refresh"
	"github.com/axmetovrr/elibrary/internal/http/handlers/auth/register"
	categorycreate "github.com/axmetovrr/elibrary/internal/http/handlers/category/create"
	categorylist "github.com/axmetovrr/elibrary/internal/http/handlers/category/list"
	categoryremove "github.com/axmetovrr/elibrary/internal/http/handlers/category/remove"
	"github.com/axmetovrr/elibrary/internal/http/handlers/health"
	institutioncreate "github.com/axmetovrr/elibrary/internal/http/handlers/institution/create"
	institutionlist "github.com/axmetovrr/elibrary/internal/http/handlers/institution/list"
	"github.com/axmetovrr/elibrary/internal/http/handlers/resource/download"
	resourcelist "github.com/axmetovrr/elibrary/internal/http/handlers/resource/list"
	resourceread "github.com/axmetovrr/elibrary/internal/http/handlers/resource/read"
	resourceremove "github.com/axmetovrr/elibrary/internal/http/handlers/resource/remove"
	resourceupdate "github.com/axmetovrr/elibrary/internal/http/handlers/resource/update"
	"github.com/axmetovrr/elibrary/internal/http/handlers/resource/upload"
	subscriptioncreate "github.com/axmetovrr/elibrary/internal/http/handlers/subscription/create"
	subscriptionlist "github.com/axmetovrr/elibrary/internal/http/handlers/subscription/list"
	subscriptionremove "github.com/axmetovrr/elibrary/internal/http/handlers/subscription/remove"
	subscriptionupdate "github.com/axmetovrr/elibrary/internal/http/handlers/subscription/update"
	"github.com/axmetovrr/elibrary/internal/http/middlewarectx"
	authservice "github.com/axmetovrr/elibrary/internal/services/auth"
	catalogservice "github.com/axmetovrr/elibrary/internal/services/catalog"
	downloadservice "github.com/axmetovrr/elibrary/internal/services/download"
	institutionservice "github.com/axmetovrr/elibrary/internal/services/institution"
	subscriptionservice "github.com/axmetovrr/elibrary/internal/services/subscription"
)

// Services объединяет сервисы, необходимые маршрутам приложения.
type Services struct {
	Auth         *authservice.AuthService
	Download     *downloadservice.DownloadService
	Catalog      *catalogservice.CatalogService
	Subscription *subscriptionservice.SubscriptionService
	Institution  *institutionservice.InstitutionService
}

// RegisterRoutes регистрирует все маршруты приложения.
func RegisterRoutes(r chi.Router, logger *slog.Logger, s *Services) {
	// Глобальные middleware
	r.Use(
		middleware.RequestID,
		middleware.Logger,
		middleware.Recoverer,
		middleware.URLFormat,
	)

	r.Route("/api/v1", func(r chi.Router) {
		// Открытые конечные точки
		r.Get("/health", health.New(logger).ServeHTTP)
		r.Post("/register", register.New(logger, s.Auth).ServeHTTP)
		r.Post("/login", login.New(logger, s.Auth).ServeHTTP)
		r.Post("/auth/refresh", refresh.New(logger, s.Auth).ServeHTTP)
		r.Get("/resources", resourcelist.New(logger, s.Catalog).ServeHTTP)
		r.Get("/resources/{id}", resourceread.New(logger, s.Catalog).ServeHTTP)
		r.Get("/categories", categorylist.New(logger, s.Catalog).ServeHTTP)
		r.Get("/institutions", institutionlist.New(logger, s.Institution).ServeHTTP)

		// Группа с JWT аутентификацией
		r.Group(func(r chi.Router) {
			r.Use(middlewarectx.JWTMiddleware(s.Auth, logger))
			r.Use(middlewarectx.RateLimitMiddleware(logger))
			r.Post("/auth/logout", logout.New(logger, s.Auth).ServeHTTP)
			r.Get("/resources/{id}/download", download.New(logger, s.Download).ServeHTTP)
			r.Get("/subscriptions", subscriptionlist.New(logger, s.Subscription).ServeHTTP)
		})

		// Админская группа
		r.Route("/admin", func(r chi.Router) {
			r.Use(middlewarectx.JWTMiddleware(s.Auth, logger))
			r.Use(middlewarectx.AdminOnlyMiddleware(logger))
			r.Post("/resources", upload.New(logger, s.Catalog).ServeHTTP)
			r.Put("/resources/{id}", resourceupdate.New(logger, s.Catalog).ServeHTTP)
			r.Delete("/resources/{id}", resourceremove.New(logger, s.Catalog).ServeHTTP)
			r.Post("/categories", categorycreate.New(logger, s.Catalog).ServeHTTP)
			r.Delete("/categories/{id}", categoryremove.New(logger, s.Catalog).ServeHTTP)
			r.Post("/subscriptions", subscriptioncreate.New(logger, s.Subscription).ServeHTTP)
			r.Put("/subscriptions/{id}", subscriptionupdate.New(logger, s.Subscription).ServeHTTP)
			r.Delete("/subscriptions/{id}", subscriptionremove.New(logger, s.Subscription).ServeHTTP)
			r.Post("/institutions", institutioncreate.New(logger, s.Institution).ServeHTTP)
		})
	})

	r.Handle("/metrics", promhttp.Handler())
	// Swagger docs endpoint
	r.Get("/docs/*", httpSwagger.WrapHandler)
}
