// Package list реализует HTTP-обработчик списка ресурсов каталога
// с фильтрацией по категории и пагинацией.
package list

import (
	"context"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/axmetovrr/elibrary/internal/http/response"
	"github.com/axmetovrr/elibrary/internal/lib/sl"
	"github.com/axmetovrr/elibrary/internal/models"
)

// Handler обрабатывает HTTP-запросы списка ресурсов.
type Handler struct {
	log     *slog.Logger // Логгер для записи операций и ошибок
	service Service      // Сервис бизнес-логики каталога
}

// Service описывает интерфейс списка ресурсов.
type Service interface {
	List(ctx context.Context, filter models.ResourceFilter) ([]*models.Resource, error)
}

// New создает новый экземпляр Handler.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{
		log:     log,
		service: service,
	}
}

// ServeHTTP godoc
// @Summary Список ресурсов каталога
// @Description Возвращает страницу каталога, опционально отфильтрованную по категории.
// @Tags Resources
// @Produce  json
// @Param category_id query int false "ID категории"
// @Param limit query int false "Количество записей (по умолчанию 20)"
// @Param offset query int false "Смещение (по умолчанию 0)"
// @Success 200 {object} map[string]any "Список ресурсов"
// @Failure 500 {object} response.ErrorResponse "Внутренняя ошибка сервера"
// @Router /resources [get]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.resource.list"

	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	filter := models.ResourceFilter{
		CategoryID: queryInt(r, "category_id", 0),
		Limit:      queryInt(r, "limit", 20),
		Offset:     queryInt(r, "offset", 0),
	}

	resources, err := h.service.List(r.Context(), filter)
	if err != nil {
		log.Error("failed to list resources", sl.Err(err))
		response.AppError(w, r, err)
		return
	}

	log.Info("resources listed", slog.Int("count", len(resources)))
	render.JSON(w, r, response.StatusOKWithData(resources))
}

func queryInt(r *http.Request, name string, def int) int {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return def
	}
	v, err := strconv.Atoi(raw)
	if err != nil || v < 0 {
		return def
	}
	return v
}
