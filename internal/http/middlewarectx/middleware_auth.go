// Package middlewarectx содержит HTTP middleware для проверки access-токенов.
//
// JWTMiddleware извлекает токен из cookie access_token или заголовка
// Authorization, валидирует его и кладет описание актора в контекст запроса.
// Истекший access-токен отклоняется с 401: клиент обязан явно обменять
// refresh-токен, неявного продления нет.
package middlewarectx

import (
	"context"
	"log/slog"
	"net/http"
	"strings"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/axmetovrr/elibrary/internal/http/response"
	"github.com/axmetovrr/elibrary/internal/lib/sl"
	"github.com/axmetovrr/elibrary/internal/models"
)

// Key тип для ключей контекста HTTP-запроса.
type Key string

// ActorKey — ключ, под которым в контексте лежит models.Actor.
const ActorKey Key = "actor"

// AccessTokenCookie — имя cookie с access-токеном.
const AccessTokenCookie = "access_token"

// Service описывает интерфейс сервиса для валидации access-токена.
type Service interface {
	ValidateToken(ctx context.Context, token string) (models.Actor, error)
}

// JWTMiddleware возвращает HTTP middleware, который проверяет access-токен.
//
// Токен ищется сначала в cookie access_token, затем в заголовке
// Authorization с префиксом Bearer. Если токен валиден, актор добавляется
// в контекст запроса, иначе возвращается 401 Unauthorized.
func JWTMiddleware(authService Service, log *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			const op = "middlewarectx.JWTMiddleware"

			log := log.With(
				slog.String("op", op),
				slog.String("request_id", middleware.GetReqID(r.Context())),
			)

			tokenStr := extractToken(r)
			if tokenStr == "" {
				log.Error("missing access token")
				w.WriteHeader(http.StatusUnauthorized)
				render.JSON(w, r, response.Error("missing access token"))
				return
			}

			actor, err := authService.ValidateToken(r.Context(), tokenStr)
			if err != nil {
				log.Error("invalid or expired token", sl.Err(err))
				w.WriteHeader(http.StatusUnauthorized)
				render.JSON(w, r, response.Error("invalid or expired token"))
				return
			}

			ctx := context.WithValue(r.Context(), ActorKey, actor)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// ActorFromContext достает актора, положенного JWTMiddleware.
func ActorFromContext(ctx context.Context) (models.Actor, bool) {
	actor, ok := ctx.Value(ActorKey).(models.Actor)
	return actor, ok
}

func extractToken(r *http.Request) string {
	if cookie, err := r.Cookie(AccessTokenCookie); err == nil && cookie.Value != "" {
		return cookie.Value
	}
	authHeader := r.Header.Get("Authorization")
	if strings.HasPrefix(authHeader, "Bearer ") {
		return strings.TrimPrefix(authHeader, "Bearer ")
	}
	return ""
}
