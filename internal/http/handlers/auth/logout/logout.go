// Package logout реализует HTTP-обработчик выхода из системы.
//
// Refresh-токен отзывается, cookie очищаются. Access-токен продолжает
// действовать до истечения своего TTL.
package logout

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/axmetovrr/elibrary/internal/http/handlers/auth/login"
	"github.com/axmetovrr/elibrary/internal/http/middlewarectx"
	"github.com/axmetovrr/elibrary/internal/http/response"
	"github.com/axmetovrr/elibrary/internal/lib/sl"
)

// Handler обрабатывает HTTP-запросы выхода.
type Handler struct {
	log     *slog.Logger // Логгер для записи операций и ошибок
	service Service      // Сервис бизнес-логики аутентификации
}

// Service описывает интерфейс отзыва refresh-токена.
type Service interface {
	Logout(ctx context.Context, refreshToken string) error
}

// New создает новый экземпляр Handler.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{
		log:     log,
		service: service,
	}
}

// ServeHTTP godoc
// @Summary Выход из системы
// @Description Отзывает refresh-токен и очищает cookie.
// @Tags Auth
// @Produce  json
// @Success 200 {object} response.Response "Успешный выход"
// @Failure 500 {object} response.ErrorResponse "Внутренняя ошибка сервера"
// @Router /auth/logout [post]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.auth.logout"

	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	if cookie, err := r.Cookie(login.RefreshTokenCookie); err == nil && cookie.Value != "" {
		if err := h.service.Logout(r.Context(), cookie.Value); err != nil {
			log.Error("failed to revoke refresh token", sl.Err(err))
			response.AppError(w, r, err)
			return
		}
	}

	clearCookie(w, middlewarectx.AccessTokenCookie)
	clearCookie(w, login.RefreshTokenCookie)

	log.Info("logout success")
	render.JSON(w, r, response.StatusOKWithData(nil))
}

func clearCookie(w http.ResponseWriter, name string) {
	http.SetCookie(w, &http.Cookie{
		Name:     name,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		SameSite: http.SameSiteStrictMode,
	})
}
