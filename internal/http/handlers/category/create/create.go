// Package create реализует HTTP-обработчик создания категории каталога.
package create

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"
	"github.com/go-playground/validator"

	"github.com/axmetovrr/elibrary/internal/http/response"
	"github.com/axmetovrr/elibrary/internal/lib/sl"
	"github.com/axmetovrr/elibrary/internal/models"
)

// Handler обрабатывает HTTP-запросы создания категорий.
type Handler struct {
	log      *slog.Logger        // Логгер для записи операций и ошибок
	service  Service             // Сервис бизнес-логики каталога
	validate *validator.Validate // Валидатор для проверки входных данных
}

// Service описывает интерфейс создания категории.
type Service interface {
	CreateCategory(ctx context.Context, req models.DummyCategory) (int, error)
}

// New создает новый экземпляр Handler.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{
		log:      log,
		service:  service,
		validate: validator.New(),
	}
}

// ServeHTTP godoc
// @Summary Создать категорию
// @Description Создает новую категорию каталога. Только для администратора.
// @Tags Categories
// @Accept  json
// @Produce  json
// @Param request body models.DummyCategory true "Данные категории"
// @Success 200 {object} map[string]any "ID созданной категории"
// @Failure 400 {object} response.ErrorResponse "Некорректный JSON"
// @Failure 403 {object} response.ErrorResponse "Требуется роль администратора"
// @Failure 422 {object} response.ErrorResponse "Ошибка валидации"
// @Failure 500 {object} response.ErrorResponse "Внутренняя ошибка сервера"
// @Router /admin/categories [post]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.category.create"

	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	var req models.DummyCategory
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		log.Error("failed to decode request body", sl.Err(err))
		w.WriteHeader(http.StatusBadRequest)
		render.JSON(w, r, response.Error("invalid request body"))
		return
	}

	if err := h.validate.Struct(req); err != nil {
		log.Error("validation failed", sl.Err(err))
		w.WriteHeader(http.StatusUnprocessableEntity)
		render.JSON(w, r, response.ValidationError(err.(validator.ValidationErrors)))
		return
	}

	id, err := h.service.CreateCategory(r.Context(), req)
	if err != nil {
		log.Error("failed to create category", sl.Err(err))
		response.AppError(w, r, err)
		return
	}

	log.Info("category created", slog.Int("id", id))
	render.JSON(w, r, response.StatusOKWithData(map[string]any{
		"id": id,
	}))
}
