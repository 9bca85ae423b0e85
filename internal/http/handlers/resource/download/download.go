// Package download реализует HTTP-обработчик выдачи подписанной ссылки
// на скачивание ресурса. Премиум-контент требует активной подписки
// владельца биллинга, файл никогда не проходит через сервер.
package download

import (
	"context"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/axmetovrr/elibrary/internal/http/middlewarectx"
	"github.com/axmetovrr/elibrary/internal/http/response"
	"github.com/axmetovrr/elibrary/internal/lib/sl"
	"github.com/axmetovrr/elibrary/internal/models"
)

// Handler обрабатывает HTTP-запросы на скачивание.
type Handler struct {
	log     *slog.Logger // Логгер для записи операций и ошибок
	service Service      // Сервис выдачи подписанных ссылок
}

// Service описывает интерфейс выдачи подписанной ссылки.
type Service interface {
	Issue(ctx context.Context, actor models.Actor, resourceID int) (string, error)
}

// New создает новый экземпляр Handler.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{
		log:     log,
		service: service,
	}
}

// ServeHTTP godoc
// @Summary Получить ссылку на скачивание
// @Description Выдает подписанную временную ссылку на файл ресурса. Для премиум-ресурсов требуется активная подписка.
// @Tags Resources
// @Produce  json
// @Param id path int true "ID ресурса"
// @Success 200 {object} map[string]any "Подписанная ссылка"
// @Failure 400 {object} response.ErrorResponse "Некорректный ID"
// @Failure 401 {object} response.ErrorResponse "Пользователь не авторизован"
// @Failure 403 {object} response.ErrorResponse "Нет активной подписки"
// @Failure 404 {object} response.ErrorResponse "Ресурс не найден"
// @Failure 502 {object} response.ErrorResponse "Отказ провайдера хранилища"
// @Router /resources/{id}/download [get]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.resource.download"

	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	id, err := strconv.Atoi(chi.URLParam(r, "id"))
	if err != nil {
		log.Error("invalid resource id", sl.Err(err))
		w.WriteHeader(http.StatusBadRequest)
		render.JSON(w, r, response.Error("invalid resource id"))
		return
	}

	actor, ok := middlewarectx.ActorFromContext(r.Context())
	if !ok {
		log.Error("actor missing in context")
		w.WriteHeader(http.StatusUnauthorized)
		render.JSON(w, r, response.Error("unauthorized"))
		return
	}

	url, err := h.service.Issue(r.Context(), actor, id)
	if err != nil {
		log.Error("failed to issue download url", sl.Err(err))
		response.AppError(w, r, err)
		return
	}

	log.Info("download url issued", slog.Int("resource_id", id),
		slog.String("username", actor.Username))
	render.JSON(w, r, response.StatusOKWithData(map[string]any{
		"url": url,
	}))
}
