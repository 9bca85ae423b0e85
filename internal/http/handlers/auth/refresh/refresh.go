// Package refresh реализует HTTP-обработчик явного обмена refresh-токена.
//
// Обмен ротационный: старый refresh-токен отзывается, клиент получает
// новую пару токенов. Истекший access-токен сам по себе не продлевается.
package refresh

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/axmetovrr/elibrary/internal/http/handlers/auth/login"
	"github.com/axmetovrr/elibrary/internal/http/response"
	"github.com/axmetovrr/elibrary/internal/lib/sl"
	"github.com/axmetovrr/elibrary/internal/models"
)

// Request — тело запроса для клиентов, не использующих cookie.
type Request struct {
	RefreshToken string `json:"refresh_token"`
}

// Handler обрабатывает HTTP-запросы обновления токенов.
type Handler struct {
	log     *slog.Logger // Логгер для записи операций и ошибок
	service Service      // Сервис бизнес-логики аутентификации
}

// Service описывает интерфейс обмена refresh-токена.
type Service interface {
	Refresh(ctx context.Context, refreshToken string) (string, string, models.Actor, error)
}

// New создает новый экземпляр Handler.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{
		log:     log,
		service: service,
	}
}

// ServeHTTP godoc
// @Summary Обновление пары токенов
// @Description Обменивает валидный refresh-токен на новую пару токенов. Старый refresh-токен отзывается.
// @Tags Auth
// @Accept  json
// @Produce  json
// @Param request body Request false "Refresh-токен (если не передан в cookie)"
// @Success 200 {object} map[string]any "Новая пара токенов"
// @Failure 401 {object} response.ErrorResponse "Невалидный или истекший refresh-токен"
// @Failure 500 {object} response.ErrorResponse "Внутренняя ошибка сервера"
// @Router /auth/refresh [post]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.auth.refresh"

	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	refreshToken := extractRefreshToken(r)
	if refreshToken == "" {
		log.Error("missing refresh token")
		w.WriteHeader(http.StatusUnauthorized)
		render.JSON(w, r, response.Error("missing refresh token"))
		return
	}

	token, newRefresh, actor, err := h.service.Refresh(r.Context(), refreshToken)
	if err != nil {
		log.Error("failed to refresh tokens", sl.Err(err))
		response.AppError(w, r, err)
		return
	}

	login.SetAuthCookies(w, token, newRefresh)

	log.Info("tokens refreshed", slog.String("username", actor.Username))
	render.JSON(w, r, response.StatusOKWithData(map[string]any{
		"token":         token,
		"refresh_token": newRefresh,
	}))
}

func extractRefreshToken(r *http.Request) string {
	if cookie, err := r.Cookie(login.RefreshTokenCookie); err == nil && cookie.Value != "" {
		return cookie.Value
	}
	var req Request
	if err := json.NewDecoder(r.Body).Decode(&req); err == nil {
		return req.RefreshToken
	}
	return ""
}
