// Package update реализует HTTP-обработчик админского обновления ресурса.
//
// Метаданные приходят multipart-формой; файл опционален, при его наличии
// старый объект в хранилище заменяется новым.
package update

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"
	"github.com/go-playground/validator"

	"github.com/axmetovrr/elibrary/internal/http/handlers/resource/upload"
	"github.com/axmetovrr/elibrary/internal/http/response"
	"github.com/axmetovrr/elibrary/internal/lib/sl"
	"github.com/axmetovrr/elibrary/internal/models"
)

const maxFormMemory = 32 << 20

// Handler обрабатывает HTTP-запросы обновления ресурсов.
type Handler struct {
	log      *slog.Logger        // Логгер для записи операций и ошибок
	service  Service             // Сервис бизнес-логики каталога
	validate *validator.Validate // Валидатор для проверки метаданных
}

// Service описывает интерфейс обновления ресурса.
type Service interface {
	Update(ctx context.Context, id int, meta models.DummyResource,
		filename string, size int64, file io.Reader) error
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
// @Summary Обновить ресурс
// @Description Обновляет метаданные ресурса и опционально заменяет файл. Только для администратора.
// @Tags Resources
// @Accept  mpfd
// @Produce  json
// @Param id path int true "ID ресурса"
// @Success 200 {object} response.Response "Успешное обновление"
// @Failure 400 {object} response.ErrorResponse "Некорректная форма или файл"
// @Failure 403 {object} response.ErrorResponse "Требуется роль администратора"
// @Failure 404 {object} response.ErrorResponse "Ресурс не найден"
// @Failure 422 {object} response.ErrorResponse "Ошибка валидации метаданных"
// @Failure 502 {object} response.ErrorResponse "Отказ провайдера хранилища"
// @Router /admin/resources/{id} [put]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.resource.update"

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

	if err := r.ParseMultipartForm(maxFormMemory); err != nil {
		log.Error("failed to parse multipart form", sl.Err(err))
		w.WriteHeader(http.StatusBadRequest)
		render.JSON(w, r, response.Error("invalid multipart form"))
		return
	}

	meta, err := upload.MetaFromForm(r)
	if err != nil {
		log.Error("failed to read metadata from form", sl.Err(err))
		w.WriteHeader(http.StatusBadRequest)
		render.JSON(w, r, response.Error("invalid resource metadata"))
		return
	}

	if err := h.validate.Struct(meta); err != nil {
		log.Error("validation failed", sl.Err(err))
		w.WriteHeader(http.StatusUnprocessableEntity)
		render.JSON(w, r, response.ValidationError(err.(validator.ValidationErrors)))
		return
	}

	var (
		body     io.Reader
		filename string
		size     int64
	)
	if file, header, err := r.FormFile("file"); err == nil {
		defer func() { _ = file.Close() }()
		body = file
		filename = header.Filename
		size = header.Size
	}

	if err := h.service.Update(r.Context(), id, meta, filename, size, body); err != nil {
		log.Error("failed to update resource", sl.Err(err))
		response.AppError(w, r, err)
		return
	}

	log.Info("resource updated", slog.Int("id", id))
	render.JSON(w, r, response.StatusOKWithData(map[string]any{
		"id": id,
	}))
}
