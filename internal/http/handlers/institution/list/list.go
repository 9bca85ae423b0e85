// Package list реализует HTTP-обработчик списка организаций.
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

// Handler управляет HTTP-запросами на получение списка организаций.
type Handler struct {
	log     *slog.Logger // Логгер для записи информации и ошибок
	service Service      // Сервис бизнес-логики организаций
}

// Service описывает интерфейс бизнес-логики списка организаций.
type Service interface {
	List(ctx context.Context, limit, offset int) ([]*models.Institution, error)
}

// New создает новый Handler с переданными логгером и сервисом.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{
		log:     log,
		service: service,
	}
}

// ServeHTTP godoc
// @Summary Список организаций
// @Description Возвращает список организаций с пагинацией.
// @Tags Institutions
// @Produce  json
// @Param limit query int false "Количество записей (по умолчанию 20)"
// @Param offset query int false "Смещение (по умолчанию 0)"
// @Success 200 {object} map[string]any "Список организаций"
// @Failure 500 {object} response.ErrorResponse "Внутренняя ошибка сервера"
// @Router /institutions [get]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.institution.list"

	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	limit := queryInt(r, "limit", 20)
	offset := queryInt(r, "offset", 0)

	institutions, err := h.service.List(r.Context(), limit, offset)
	if err != nil {
		log.Error("failed to list institutions", sl.Err(err))
		response.AppError(w, r, err)
		return
	}

	log.Info("institutions listed", slog.Int("count", len(institutions)))
	render.JSON(w, r, response.StatusOKWithData(institutions))
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
